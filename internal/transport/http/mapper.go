package http

import (
	"encoding/json"

	"github.com/roomtalk/roomtalk-server/internal/core"
	"github.com/roomtalk/roomtalk-server/internal/proto"
)

func inboundToCommand(inbound proto.Inbound) (*core.Command, *proto.Error, error) {
	switch inbound.Type {
	case proto.InboundTypePresence:
		var presence proto.PresenceData
		if len(inbound.Data) > 0 {
			if err := json.Unmarshal(inbound.Data, &presence); err != nil {
				return nil, nil, err
			}
		}
		return &core.Command{
			Kind: core.CommandPresence,
			User: presence.User,
		}, nil, nil
	case proto.InboundTypeJoin:
		var join proto.JoinData
		if err := json.Unmarshal(inbound.Data, &join); err != nil {
			return nil, nil, err
		}
		if join.Room == "" {
			return nil, &proto.Error{Code: core.ErrCodeBadRequest, Msg: "room is required"}, nil
		}
		return &core.Command{
			Kind:         core.CommandJoinRoom,
			Room:         join.Room,
			PreviousRoom: join.PreviousRoom,
		}, nil, nil
	case proto.InboundTypeMsg:
		var msg proto.MsgData
		if err := json.Unmarshal(inbound.Data, &msg); err != nil {
			return nil, nil, err
		}
		if msg.Room == "" {
			return nil, &proto.Error{Code: core.ErrCodeBadRequest, Msg: "room is required"}, nil
		}
		return &core.Command{
			Kind: core.CommandSendMessage,
			Room: msg.Room,
			Message: core.Message{
				Content: msg.Content,
				From:    msg.Sender,
				To:      msg.Room,
				Time:    msg.Time,
				Date:    msg.Date,
			},
		}, nil, nil
	default:
		return nil, &proto.Error{Code: "invalid_message", Msg: "unknown message type"}, nil
	}
}

func outboundFromEvent(event *core.Event) proto.Outbound {
	switch event.Kind {
	case core.EventDirectory:
		users := make([]proto.UserData, 0, len(event.Users))
		for _, u := range event.Users {
			users = append(users, proto.UserData{
				ID:          u.ID,
				Name:        u.Name,
				Status:      u.Status,
				NewMessages: u.NewMessages,
			})
		}
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventDirectoryUpdate,
			Data:  proto.DirectoryData{Users: users},
		}
	case core.EventRoomHistory:
		groups := make([]proto.DateGroupData, 0, len(event.Groups))
		for _, g := range event.Groups {
			messages := make([]proto.MessageData, 0, len(g.Messages))
			for _, m := range g.Messages {
				messages = append(messages, proto.MessageData{
					ID:      m.ID,
					Content: m.Content,
					From:    m.From,
					To:      m.To,
					Time:    m.Time,
					Date:    m.Date,
				})
			}
			groups = append(groups, proto.DateGroupData{Date: g.Date, Messages: messages})
		}
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventRoomHistory,
			Data:  proto.RoomHistoryData{Room: event.Room, Groups: groups},
		}
	case core.EventNotification:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventNotification,
			Data:  proto.NotificationData{Room: event.Room},
		}
	case core.EventError:
		if event.Error == nil {
			return proto.Outbound{Type: proto.OutboundTypeError, Error: &proto.Error{Code: "unknown", Msg: "unknown error"}}
		}
		return proto.Outbound{
			Type:  proto.OutboundTypeError,
			Error: &proto.Error{Code: event.Error.Code, Msg: event.Error.Message},
		}
	default:
		return proto.Outbound{Type: proto.OutboundTypeEvent}
	}
}
