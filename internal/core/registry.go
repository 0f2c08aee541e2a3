package core

import "sync"

// RoomRegistry tracks which room each connection currently occupies.
// A connection belongs to at most one room at a time; joining a new
// room replaces the previous membership. The registry is shared across
// connection-handling goroutines and guards its maps with a mutex.
type RoomRegistry struct {
	mu       sync.Mutex
	rooms    map[string]*Room
	byClient map[*Client]string
}

// NewRoomRegistry constructs an empty registry.
func NewRoomRegistry() *RoomRegistry {
	return &RoomRegistry{
		rooms:    make(map[string]*Room),
		byClient: make(map[*Client]string),
	}
}

// Join adds the client to newRoom and removes it from previousRoom when
// one is given and differs. Joining a room already joined is a no-op
// for that room's membership.
func (reg *RoomRegistry) Join(c *Client, newRoom, previousRoom string) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	if previousRoom != "" && previousRoom != newRoom {
		reg.removeLocked(c, previousRoom)
	}

	room, ok := reg.rooms[newRoom]
	if !ok {
		room = NewRoom(newRoom)
		reg.rooms[newRoom] = room
	}
	room.AddClient(c)
	reg.byClient[c] = newRoom
}

// Remove drops the client from whatever room it occupies. Used on
// disconnect; no presence broadcast is attached to it.
func (reg *RoomRegistry) Remove(c *Client) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	if room, ok := reg.byClient[c]; ok {
		reg.removeLocked(c, room)
		delete(reg.byClient, c)
	}
}

// RoomOf returns the room the client currently occupies, if any.
func (reg *RoomRegistry) RoomOf(c *Client) (string, bool) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	room, ok := reg.byClient[c]
	return room, ok
}

// Broadcast sends an event to every client in the named room.
func (reg *RoomRegistry) Broadcast(roomName string, event *Event) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	if room, ok := reg.rooms[roomName]; ok {
		room.Broadcast(event)
	}
}

func (reg *RoomRegistry) removeLocked(c *Client, roomName string) {
	room, ok := reg.rooms[roomName]
	if !ok {
		return
	}
	room.RemoveClient(c)
	if room.Empty() {
		delete(reg.rooms, roomName)
	}
}
