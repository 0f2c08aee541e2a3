package core

// Client is a live connection as seen by the core layer. Name is the
// user identifier announced via the presence command; it stays empty
// for connections that never announce one.
type Client struct {
	ID       string
	Name     string
	Commands chan *Command
	Events   chan *Event
}

// NewClient constructs a client with initialized channels.
func NewClient(id string) *Client {
	return &Client{
		ID:       id,
		Commands: make(chan *Command, 8),
		Events:   make(chan *Event, 8),
	}
}

// Send delivers an event to the client without blocking. Events for a
// slow or gone connection are dropped.
func (c *Client) Send(event *Event) {
	select {
	case c.Events <- event:
	default:
	}
}
