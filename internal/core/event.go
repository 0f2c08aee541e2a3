package core

import "github.com/roomtalk/roomtalk-server/internal/store"

// EventKind is a notification the core emits to clients.
type EventKind int

const (
	// EventDirectory delivers the full user directory.
	EventDirectory EventKind = iota
	// EventRoomHistory delivers a room's grouped message history.
	EventRoomHistory
	// EventNotification signals that someone posted in a room.
	EventNotification
	// EventError notifies a client about a domain error.
	EventError
)

// Event is sent to clients to describe what happened in the system.
type Event struct {
	Kind   EventKind
	Room   string
	Groups []DateGroup   // for EventRoomHistory
	Users  []*store.User // for EventDirectory
	Error  *CoreError
}
