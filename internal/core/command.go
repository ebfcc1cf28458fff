package core

// CommandKind describes what the client wants to do.
type CommandKind int

const (
	// CommandCreateRoom opens a fresh room with the sender as host.
	CommandCreateRoom CommandKind = iota
	// CommandJoinRoom adds the sender to an existing room.
	CommandJoinRoom
	// CommandVideoSync applies a host play/pause/seek to the room.
	CommandVideoSync
	// CommandSetVideo swaps the room's video source.
	CommandSetVideo
	// CommandSendChat delivers a chat message to the room.
	CommandSendChat
)

// Command represents an action requested by a client. The transport mapper
// validates payloads before building one, so handlers trust the fields set
// for each kind.
type Command struct {
	Kind        CommandKind
	RoomName    string
	RoomID      string
	Username    string
	VideoURL    string
	CurrentTime float64
	IsPlaying   bool
	Text        string
}
