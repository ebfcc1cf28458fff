package core

import "time"

// ChatMessage is the domain model for a chat message. The author name is
// snapshotted at send time so the message outlives the author's membership.
type ChatMessage struct {
	ID        string
	RoomID    string
	UserID    string
	Username  string
	Text      string
	CreatedAt time.Time
}
