package core

// Client is one connected participant as seen by the core layer. The conn id
// ties hub-side identity to the transport connection that owns the channels.
type Client struct {
	ConnID   string
	Commands chan *Command
	Events   chan *Event
}

// NewClient constructs a client with initialized channels.
func NewClient(connID string) *Client {
	return &Client{
		ConnID:   connID,
		Commands: make(chan *Command, 8),
		Events:   make(chan *Event, 32),
	}
}
