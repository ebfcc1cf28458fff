package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/okcomputer/watchtogether-server/internal/core"
)

const (
	apiVersion = "1.0.0"
	timeFormat = "2006-01-02T15:04:05Z07:00"
)

// RoomHandlers provides the read-only HTTP query surface over the registry.
type RoomHandlers struct {
	registry *core.Registry
	log      *zerolog.Logger
}

// NewRoomHandlers creates a new room handlers instance.
func NewRoomHandlers(reg *core.Registry, logger *zerolog.Logger) *RoomHandlers {
	return &RoomHandlers{
		registry: reg,
		log:      logger,
	}
}

// RoomSummaryResponse represents a room in the discovery listing.
type RoomSummaryResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	UserCount int    `json:"userCount"`
	VideoURL  string `json:"videoUrl,omitempty"`
	IsPlaying bool   `json:"isPlaying"`
	CreatedAt string `json:"createdAt"`
}

// RoomUserResponse is a member's public info in the detail view.
type RoomUserResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	IsHost   bool   `json:"isHost"`
	JoinedAt string `json:"joinedAt"`
}

// RoomDetailResponse represents one room with its members.
type RoomDetailResponse struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	UserCount   int                `json:"userCount"`
	VideoURL    string             `json:"videoUrl,omitempty"`
	CurrentTime float64            `json:"currentTime"`
	IsPlaying   bool               `json:"isPlaying"`
	Users       []RoomUserResponse `json:"users"`
}

// ErrorResponse represents an error response body.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Status reports service liveness and the active room count.
// GET /
func (h *RoomHandlers) Status(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "WatchTogether Backend API",
		"version": apiVersion,
		"status":  "running",
		"rooms":   h.registry.Len(),
	})
}

// ListRooms handles room discovery.
// GET /api/rooms
func (h *RoomHandlers) ListRooms(c *gin.Context) {
	rooms := h.registry.ListRooms()

	response := make([]RoomSummaryResponse, 0, len(rooms))
	for _, room := range rooms {
		response = append(response, RoomSummaryResponse{
			ID:        room.ID,
			Name:      room.Name,
			UserCount: room.UserCount,
			VideoURL:  room.VideoURL,
			IsPlaying: room.IsPlaying,
			CreatedAt: room.CreatedAt.Format(timeFormat),
		})
	}

	h.log.Debug().Int("room_count", len(rooms)).Msg("rooms listed")
	c.JSON(http.StatusOK, response)
}

// GetRoom handles a single room lookup.
// GET /api/rooms/:id
func (h *RoomHandlers) GetRoom(c *gin.Context) {
	room, ok := h.registry.GetRoom(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "room not found"})
		return
	}

	users := make([]RoomUserResponse, 0, len(room.Users))
	for _, u := range room.Users {
		users = append(users, RoomUserResponse{
			ID:       u.ID,
			Username: u.Username,
			IsHost:   u.IsHost,
			JoinedAt: u.JoinedAt.Format(timeFormat),
		})
	}

	c.JSON(http.StatusOK, RoomDetailResponse{
		ID:          room.ID,
		Name:        room.Name,
		UserCount:   len(room.Users),
		VideoURL:    room.VideoURL,
		CurrentTime: room.CurrentTime,
		IsPlaying:   room.IsPlaying,
		Users:       users,
	})
}
