package proto

import "encoding/json"

// Inbound is the envelope for messages coming from the client.
type Inbound struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

const (
	InboundTypePresence = "presence"
	InboundTypeJoin     = "join"
	InboundTypeMsg      = "msg"

	OutboundTypeEvent = "event"
	OutboundTypeError = "error"

	EventDirectoryUpdate = "directory_update"
	EventRoomHistory     = "room_history"
	EventNotification    = "notification"
)

// PresenceData announces the user behind the connection and requests a
// directory broadcast.
type PresenceData struct {
	User string `json:"user,omitempty"`
}

// JoinData requests to switch into a room.
type JoinData struct {
	Room         string `json:"room"`
	PreviousRoom string `json:"previous_room,omitempty"`
}

// MsgData is a chat message from the client.
type MsgData struct {
	Room    string `json:"room"`
	Content string `json:"content"`
	Sender  string `json:"sender"`
	Time    string `json:"time"`
	Date    string `json:"date"`
}

// Outbound is the envelope for messages sent to the client.
type Outbound struct {
	Type  string `json:"type"`
	Event string `json:"event,omitempty"`
	Data  any    `json:"data,omitempty"`
	Error *Error `json:"error,omitempty"`
}

// MessageData is one message inside a history group.
type MessageData struct {
	ID      int64  `json:"id,omitempty"`
	Content string `json:"content"`
	From    string `json:"from"`
	To      string `json:"to"`
	Time    string `json:"time"`
	Date    string `json:"date"`
}

// DateGroupData is one date bucket of a room's history.
type DateGroupData struct {
	Date     string        `json:"date"`
	Messages []MessageData `json:"messages"`
}

// RoomHistoryData carries a room's grouped, sorted history.
type RoomHistoryData struct {
	Room   string          `json:"room"`
	Groups []DateGroupData `json:"groups"`
}

// UserData is one directory entry.
type UserData struct {
	ID          int64          `json:"id"`
	Name        string         `json:"name"`
	Status      string         `json:"status"`
	NewMessages map[string]int `json:"new_messages,omitempty"`
}

// DirectoryData carries the full user directory.
type DirectoryData struct {
	Users []UserData `json:"users"`
}

// NotificationData signals that someone posted in a room.
type NotificationData struct {
	Room string `json:"room"`
}

// Error describes a protocol-level error response.
type Error struct {
	Code string `json:"code"`
	Msg  string `json:"msg"`
}
