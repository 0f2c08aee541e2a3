package core

// CommandKind describes what the client wants to do.
type CommandKind int

const (
	// CommandPresence requests a broadcast of the full user directory.
	CommandPresence CommandKind = iota
	// CommandJoinRoom moves the client into a room and requests its history.
	CommandJoinRoom
	// CommandSendMessage posts a chat message to a room.
	CommandSendMessage
)

// Command represents an action requested by a client.
type Command struct {
	Kind CommandKind

	// User labels the connection on CommandPresence.
	User string

	// Room transitions for CommandJoinRoom.
	Room         string
	PreviousRoom string

	// Payload for CommandSendMessage.
	Message Message
}
