package core

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	// DefaultHistoryCap bounds each room's chat log.
	DefaultHistoryCap = 100
	// DefaultRecentLimit is how many messages Recent returns when no limit is given.
	DefaultRecentLimit = 50
)

// History keeps a bounded per-room chat log. Once a room's log reaches the
// cap, the oldest message is evicted for each new one appended.
type History struct {
	mu   sync.RWMutex
	cap  int
	logs map[string][]ChatMessage
}

// NewHistory creates a chat history store. A non-positive cap falls back to
// DefaultHistoryCap.
func NewHistory(cap int) *History {
	if cap <= 0 {
		cap = DefaultHistoryCap
	}
	return &History{
		cap:  cap,
		logs: make(map[string][]ChatMessage),
	}
}

// Append records a message with a fresh id and timestamp and returns it.
func (h *History) Append(roomID, userID, username, text string) ChatMessage {
	if username == "" {
		username = "Anonymous"
	}
	msg := ChatMessage{
		ID:        uuid.NewString(),
		RoomID:    roomID,
		UserID:    userID,
		Username:  username,
		Text:      text,
		CreatedAt: time.Now(),
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	log := append(h.logs[roomID], msg)
	if len(log) > h.cap {
		// Copy instead of re-slicing so the evicted prefix can be collected.
		log = append([]ChatMessage(nil), log[len(log)-h.cap:]...)
	}
	h.logs[roomID] = log

	return msg
}

// Recent returns at most limit of the newest messages, oldest first. A
// non-positive limit falls back to DefaultRecentLimit.
func (h *History) Recent(roomID string, limit int) []ChatMessage {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	log := h.logs[roomID]
	if len(log) > limit {
		log = log[len(log)-limit:]
	}
	return append([]ChatMessage(nil), log...)
}

// Len reports how many messages a room's log currently holds.
func (h *History) Len(roomID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.logs[roomID])
}

// Clear drops a room's log entirely. Called when the room is destroyed.
func (h *History) Clear(roomID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.logs, roomID)
}
