package core

// EventKind is a notification the core emits to clients.
type EventKind int

const (
	// EventRoomCreated confirms room creation to the creator.
	EventRoomCreated EventKind = iota
	// EventRoomJoined delivers the full room snapshot to a new member.
	EventRoomJoined
	// EventUserJoined notifies existing members about a new member.
	EventUserJoined
	// EventChatHistory delivers the chat backlog to a new member.
	EventChatHistory
	// EventVideoState notifies members about a host play/pause/seek.
	EventVideoState
	// EventVideoChanged notifies members that the host swapped the video source.
	EventVideoChanged
	// EventChatMessage delivers a stored chat message to the room.
	EventChatMessage
	// EventUserLeft notifies remaining members about a departure.
	EventUserLeft
	// EventError notifies a client about a domain error.
	EventError
)

// Event is sent to clients to describe what happened in the system. Fields
// are populated per kind.
type Event struct {
	Kind      EventKind
	Room      RoomState
	User      User
	Playback  PlaybackState
	Message   ChatMessage
	Messages  []ChatMessage // for EventChatHistory
	NewHostID string        // for EventUserLeft, empty when the host did not change
	Error     *CoreError
}
