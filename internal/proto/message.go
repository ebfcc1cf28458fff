package proto

import (
	"encoding/json"
	"time"
)

// Inbound is the envelope for messages coming from the client.
type Inbound struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

const (
	ProtocolVersion = 1

	InboundTypeCreateRoom  = "create-room"
	InboundTypeJoinRoom    = "join-room"
	InboundTypeVideoSync   = "video-sync"
	InboundTypeSetVideo    = "set-video"
	InboundTypeChatMessage = "chat-message"

	OutboundTypeEvent = "event"
	OutboundTypeError = "error"

	EventRoomCreated       = "room-created"
	EventRoomJoined        = "room-joined"
	EventUserJoined        = "user-joined"
	EventChatHistory       = "chat-history"
	EventVideoStateChanged = "video-state-changed"
	EventVideoChanged      = "video-changed"
	EventChatMessage       = "chat-message"
	EventUserLeft          = "user-left"
)

// CreateRoomData opens a new room with the sender as host.
type CreateRoomData struct {
	RoomName string `json:"roomName"`
	Username string `json:"username"`
	VideoURL string `json:"videoUrl,omitempty"`
}

// JoinRoomData requests to join an existing room.
type JoinRoomData struct {
	RoomID   string `json:"roomId"`
	Username string `json:"username"`
}

// VideoSyncData is a host play/pause/seek report.
type VideoSyncData struct {
	RoomID      string  `json:"roomId"`
	CurrentTime float64 `json:"currentTime"`
	IsPlaying   bool    `json:"isPlaying"`
}

// SetVideoData swaps the room's video source.
type SetVideoData struct {
	RoomID   string `json:"roomId"`
	VideoURL string `json:"videoUrl"`
}

// ChatMessageData is a chat message from the client.
type ChatMessageData struct {
	RoomID  string `json:"roomId"`
	Message string `json:"message"`
}

// Outbound is the envelope for messages sent to the client.
type Outbound struct {
	Type  string `json:"type"`
	Event string `json:"event,omitempty"`
	Data  any    `json:"data,omitempty"`
	Error *Error `json:"error,omitempty"`
}

// UserPayload is a member's public info.
type UserPayload struct {
	ID       string    `json:"id"`
	Username string    `json:"username"`
	IsHost   bool      `json:"isHost"`
	JoinedAt time.Time `json:"joinedAt"`
}

// RoomPayload is a room snapshot. Users is filled for room-joined only.
type RoomPayload struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	HostID      string        `json:"hostId"`
	VideoURL    string        `json:"videoUrl,omitempty"`
	CurrentTime float64       `json:"currentTime"`
	IsPlaying   bool          `json:"isPlaying"`
	Seq         uint64        `json:"seq"`
	Users       []UserPayload `json:"users,omitempty"`
}

// RoomCreatedData confirms creation to the requester.
type RoomCreatedData struct {
	Room RoomPayload `json:"room"`
	User UserPayload `json:"user"`
}

// RoomJoinedData delivers the full room snapshot to a new member.
type RoomJoinedData struct {
	Room RoomPayload `json:"room"`
	User UserPayload `json:"user"`
}

// UserJoinedData announces a new member to the rest of the room.
type UserJoinedData struct {
	User UserPayload `json:"user"`
}

// MessagePayload is one stored chat message.
type MessagePayload struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Username  string    `json:"username"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	RoomID    string    `json:"roomId"`
}

// ChatHistoryData is the backlog replayed to a new member.
type ChatHistoryData struct {
	Messages []MessagePayload `json:"messages"`
}

// VideoStateData announces a host play/pause/seek. Clients ignore frames
// whose seq is not greater than the last applied one.
type VideoStateData struct {
	CurrentTime float64 `json:"currentTime"`
	IsPlaying   bool    `json:"isPlaying"`
	Seq         uint64  `json:"seq"`
	UserID      string  `json:"userId"`
}

// VideoChangedData announces a source swap, always with reset playback.
type VideoChangedData struct {
	VideoURL    string  `json:"videoUrl"`
	CurrentTime float64 `json:"currentTime"`
	IsPlaying   bool    `json:"isPlaying"`
	Seq         uint64  `json:"seq"`
	UserID      string  `json:"userId"`
}

// UserLeftData announces a departure. NewHostID is null unless the host
// role moved because of it.
type UserLeftData struct {
	UserID    string  `json:"userId"`
	Username  string  `json:"username"`
	NewHostID *string `json:"newHostId"`
}

// Error describes a protocol-level error response.
type Error struct {
	Code string `json:"code"`
	Msg  string `json:"msg"`
}
