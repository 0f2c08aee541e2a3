package store

import (
	"context"
	"errors"
)

// ErrUserNotFound is returned when a referenced user record does not exist.
var ErrUserNotFound = errors.New("user not found")

// Message is a persisted chat message. Records are append-only: once
// written they are never updated or deleted.
type Message struct {
	ID      int64
	Content string
	From    string // sender identifier
	To      string // room name
	Time    string // display time, free-form
	Date    string // literal "M/D/YYYY", no zero padding
}

// DateGroup collects the messages of one room that share an identical
// literal date string. Grouping is by exact string equality, not
// calendar semantics: two spellings of the same day form two groups.
type DateGroup struct {
	Date     string
	Messages []Message
}

// User is a directory record. NewMessages holds per-room unread
// counters as reported by the client on logout.
type User struct {
	ID          int64
	Name        string
	Status      string
	NewMessages map[string]int
}

// User status values.
const (
	UserStatusOnline  = "online"
	UserStatusOffline = "offline"
)

// MessageStore handles message persistence.
type MessageStore interface {
	// InsertMessage appends a message and fills in its assigned ID.
	InsertMessage(ctx context.Context, msg *Message) error

	// GroupRoomMessagesByDate returns the full history of a room grouped
	// by date string. Groups appear in first-encounter order and
	// messages within a group keep insertion order. An unknown room
	// yields an empty slice, not an error.
	GroupRoomMessagesByDate(ctx context.Context, room string) ([]DateGroup, error)
}

// UserStore handles the user directory.
type UserStore interface {
	// ListUsers returns the full user directory.
	ListUsers(ctx context.Context) ([]*User, error)

	// GetUserByID retrieves a user by ID. Returns ErrUserNotFound when absent.
	GetUserByID(ctx context.Context, id int64) (*User, error)

	// CreateUser inserts a new online user.
	CreateUser(ctx context.Context, name string) (*User, error)

	// SetUserOffline marks the user offline and replaces their unread
	// counters. Returns ErrUserNotFound when the record is absent.
	SetUserOffline(ctx context.Context, id int64, newMessages map[string]int) error
}

// Store aggregates all storage interfaces.
type Store interface {
	MessageStore
	UserStore

	// Close closes the underlying database connection.
	Close() error
}
