package core

// Message is the domain model for a chat message. Time and Date are
// client-supplied display strings; Date uses the literal "M/D/YYYY"
// format with no zero padding.
type Message struct {
	ID      int64
	Content string
	From    string
	To      string
	Time    string
	Date    string
}

// DateGroup holds the messages of a room that share the same literal
// date string, in the order they were persisted.
type DateGroup struct {
	Date     string
	Messages []Message
}
