package core

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/roomtalk/roomtalk-server/internal/store"
)

// Hub is the distribution core: it owns the set of live clients, routes
// their commands, and fans events out to the right audience (a single
// client, one room, or everyone). Commands from all clients are handled
// one at a time on the run loop, so a client's own events never reorder
// and every history broadcast reflects the write that triggered it.
type Hub struct {
	store    store.Store
	history  *HistoryAggregator
	registry *RoomRegistry
	log      *zerolog.Logger

	register    chan *Client
	unregister  chan *Client
	submissions chan submission
	directory   chan directoryBroadcast

	// done is closed when Run returns so senders never wedge on a hub
	// that is no longer draining its channels.
	done chan struct{}

	// clients maps each live client to the stop channel of its command
	// pump. Touched only by the run loop.
	clients map[*Client]chan struct{}
}

type submission struct {
	client *Client
	cmd    *Command
}

type directoryBroadcast struct {
	users      []*store.User
	exceptUser string
}

// NewHub constructs a hub over the given store.
func NewHub(st store.Store, logger *zerolog.Logger) *Hub {
	return &Hub{
		store:       st,
		history:     NewHistoryAggregator(st, logger),
		registry:    NewRoomRegistry(),
		log:         logger,
		register:    make(chan *Client),
		unregister:  make(chan *Client),
		submissions: make(chan submission),
		directory:   make(chan directoryBroadcast),
		done:        make(chan struct{}),
		clients:     make(map[*Client]chan struct{}),
	}
}

// RegisterClient adds a live connection to the hub. After Run has
// returned it is a no-op.
func (h *Hub) RegisterClient(c *Client) {
	select {
	case h.register <- c:
	case <-h.done:
	}
}

// UnregisterClient removes a connection. Its room membership is dropped;
// any in-flight emit targeting it becomes a no-op. After Run has
// returned it is a no-op, so connection teardown never wedges during
// server shutdown.
func (h *Hub) UnregisterClient(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// Run processes hub traffic until the context is cancelled.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case c := <-h.register:
			if _, ok := h.clients[c]; ok {
				continue
			}
			stop := make(chan struct{})
			h.clients[c] = stop
			go h.pump(c, stop)
		case c := <-h.unregister:
			if stop, ok := h.clients[c]; ok {
				close(stop)
				delete(h.clients, c)
				h.registry.Remove(c)
			}
		case sub := <-h.submissions:
			if _, ok := h.clients[sub.client]; ok {
				h.dispatch(ctx, sub.client, sub.cmd)
			}
		case req := <-h.directory:
			h.broadcastDirectory(req)
		case <-ctx.Done():
			return
		}
	}
}

// pump forwards one client's commands into the shared submissions
// channel until the client is unregistered.
func (h *Hub) pump(c *Client, stop <-chan struct{}) {
	for {
		select {
		case cmd := <-c.Commands:
			select {
			case h.submissions <- submission{client: c, cmd: cmd}:
			case <-stop:
				return
			case <-h.done:
				return
			}
		case <-stop:
			return
		case <-h.done:
			return
		}
	}
}

func (h *Hub) dispatch(ctx context.Context, c *Client, cmd *Command) {
	switch cmd.Kind {
	case CommandPresence:
		h.handlePresence(ctx, c, cmd)
	case CommandJoinRoom:
		h.handleJoinRoom(ctx, c, cmd)
	case CommandSendMessage:
		h.handleSendMessage(ctx, c, cmd)
	default:
		c.Send(&Event{Kind: EventError, Error: coreError(ErrCodeBadRequest, "unknown command")})
	}
}

// handlePresence labels the connection with its user name and rebroadcasts
// the full directory to every client, sender included.
func (h *Hub) handlePresence(ctx context.Context, c *Client, cmd *Command) {
	if cmd.User != "" {
		c.Name = cmd.User
	}

	users, err := h.store.ListUsers(ctx)
	if err != nil {
		h.log.Error().Err(err).Str("client_id", c.ID).Msg("list users for presence")
		c.Send(&Event{Kind: EventError, Error: coreError(ErrCodeStoreFailure, "directory unavailable")})
		return
	}

	for client := range h.clients {
		client.Send(&Event{Kind: EventDirectory, Users: users})
	}
}

// handleJoinRoom moves the client between rooms and delivers the new
// room's history to the requester only. Other members are not told.
func (h *Hub) handleJoinRoom(ctx context.Context, c *Client, cmd *Command) {
	h.registry.Join(c, cmd.Room, cmd.PreviousRoom)

	groups, err := h.history.RoomHistory(ctx, cmd.Room)
	if err != nil {
		h.log.Error().Err(err).Str("room", cmd.Room).Str("client_id", c.ID).Msg("load room history")
		c.Send(&Event{Kind: EventError, Error: coreError(ErrCodeStoreFailure, "history unavailable")})
		return
	}

	c.Send(&Event{Kind: EventRoomHistory, Room: cmd.Room, Groups: groups})
}

// handleSendMessage persists the message, then rebroadcasts the room's
// full refreshed history to its members and a notification to every
// other connection regardless of room. The broadcast happens strictly
// after the insert so the emitted history contains the new message.
func (h *Hub) handleSendMessage(ctx context.Context, c *Client, cmd *Command) {
	msg := store.Message{
		Content: cmd.Message.Content,
		From:    cmd.Message.From,
		To:      cmd.Message.To,
		Time:    cmd.Message.Time,
		Date:    cmd.Message.Date,
	}
	if err := h.store.InsertMessage(ctx, &msg); err != nil {
		h.log.Error().Err(err).Str("room", msg.To).Str("client_id", c.ID).Msg("insert message")
		c.Send(&Event{Kind: EventError, Error: coreError(ErrCodeStoreFailure, "message not stored")})
		return
	}

	groups, err := h.history.RoomHistory(ctx, msg.To)
	if err != nil {
		h.log.Error().Err(err).Str("room", msg.To).Str("client_id", c.ID).Msg("reload room history")
		c.Send(&Event{Kind: EventError, Error: coreError(ErrCodeStoreFailure, "history unavailable")})
		return
	}

	h.registry.Broadcast(msg.To, &Event{Kind: EventRoomHistory, Room: msg.To, Groups: groups})

	for client := range h.clients {
		if client == c {
			continue
		}
		client.Send(&Event{Kind: EventNotification, Room: msg.To})
	}
}

// Logout marks the user offline, persists the unread counters reported
// by the client, and rebroadcasts the directory to every connection not
// belonging to that user. Called from the HTTP layer; the returned error
// is its failure acknowledgment.
func (h *Hub) Logout(ctx context.Context, userID int64, newMessages map[string]int) error {
	user, err := h.store.GetUserByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("find user: %w", err)
	}

	if err := h.store.SetUserOffline(ctx, userID, newMessages); err != nil {
		return fmt.Errorf("set user offline: %w", err)
	}

	users, err := h.store.ListUsers(ctx)
	if err != nil {
		return fmt.Errorf("list users: %w", err)
	}

	select {
	case h.directory <- directoryBroadcast{users: users, exceptUser: user.Name}:
		return nil
	case <-h.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (h *Hub) broadcastDirectory(req directoryBroadcast) {
	for client := range h.clients {
		if req.exceptUser != "" && client.Name == req.exceptUser {
			continue
		}
		client.Send(&Event{Kind: EventDirectory, Users: req.users})
	}
}
