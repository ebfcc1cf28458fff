package core

import "time"

// User is a room member as seen by the core layer. A User is owned by the
// room it belongs to and is discarded when it leaves or disconnects.
type User struct {
	ID       string
	Username string
	IsHost   bool
	ConnID   string
	JoinedAt time.Time
}
