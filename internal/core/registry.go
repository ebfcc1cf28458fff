package core

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

type memberRef struct {
	roomID string
	userID string
}

// Registry is the in-memory store of all active rooms. It also maintains a
// connection index so any transport connection resolves to its (room, user)
// pair in O(1) instead of scanning every room. The index is updated in the
// same critical section as the membership change it reflects.
//
// A Registry holds no process-global state; construct one per server, or one
// per test for isolation.
type Registry struct {
	mu    sync.RWMutex
	rooms map[string]*Room
	conns map[string]memberRef
}

// NewRegistry creates an empty room registry.
func NewRegistry() *Registry {
	return &Registry{
		rooms: make(map[string]*Room),
		conns: make(map[string]memberRef),
	}
}

// CreateRoom allocates a fresh room with the creator as its only member and
// host. Playback starts at position 0, paused.
func (g *Registry) CreateRoom(roomName, username, videoURL, connID string) (RoomState, User, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, taken := g.conns[connID]; taken {
		return RoomState{}, User{}, ErrAlreadyInRoom
	}

	now := time.Now()
	host := &User{
		ID:       uuid.NewString(),
		Username: username,
		IsHost:   true,
		ConnID:   connID,
		JoinedAt: now,
	}
	room := newRoom(uuid.NewString(), roomName, videoURL, now)
	room.HostID = host.ID
	room.addMember(host, now)

	g.rooms[room.ID] = room
	g.conns[connID] = memberRef{roomID: room.ID, userID: host.ID}

	return room.snapshot(), *host, nil
}

// JoinRoom adds a new non-host member to an existing room. An unknown room id
// is a normal outcome, reported as ErrRoomNotFound.
func (g *Registry) JoinRoom(roomID, username, connID string) (RoomState, User, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, taken := g.conns[connID]; taken {
		return RoomState{}, User{}, ErrAlreadyInRoom
	}
	room, ok := g.rooms[roomID]
	if !ok {
		return RoomState{}, User{}, ErrRoomNotFound
	}

	now := time.Now()
	user := &User{
		ID:       uuid.NewString(),
		Username: username,
		ConnID:   connID,
		JoinedAt: now,
	}
	room.addMember(user, now)
	g.conns[connID] = memberRef{roomID: room.ID, userID: user.ID}

	return room.snapshot(), *user, nil
}

// Departure describes the outcome of a member leaving a room.
type Departure struct {
	RoomGone  bool
	Room      RoomState // zero value when RoomGone
	User      User
	NewHostID string // non-empty only when the host role moved
}

// LeaveRoom removes a member. The room is deleted the moment it empties; if
// the departing member was host, the role moves to the earliest remaining
// joiner.
func (g *Registry) LeaveRoom(roomID, userID string) (Departure, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	room, ok := g.rooms[roomID]
	if !ok {
		return Departure{}, ErrRoomNotFound
	}
	u, ok := room.members[userID]
	if !ok {
		return Departure{}, ErrNotInRoom
	}

	left := *u
	wasHost := room.HostID == userID
	delete(g.conns, u.ConnID)
	room.removeMember(userID, time.Now())

	if room.memberCount() == 0 {
		delete(g.rooms, roomID)
		return Departure{RoomGone: true, User: left}, nil
	}

	dep := Departure{Room: room.snapshot(), User: left}
	if wasHost {
		dep.NewHostID = room.HostID
	}
	return dep, nil
}

// FindByConn resolves a transport connection to its room and member.
func (g *Registry) FindByConn(connID string) (RoomState, User, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	ref, ok := g.conns[connID]
	if !ok {
		return RoomState{}, User{}, false
	}
	room, ok := g.rooms[ref.roomID]
	if !ok {
		return RoomState{}, User{}, false
	}
	u, ok := room.members[ref.userID]
	if !ok {
		return RoomState{}, User{}, false
	}
	return room.snapshot(), *u, true
}

// GetRoom returns a snapshot of one room.
func (g *Registry) GetRoom(roomID string) (RoomState, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	room, ok := g.rooms[roomID]
	if !ok {
		return RoomState{}, false
	}
	return room.snapshot(), true
}

// ListRooms returns summaries of all active rooms. Order is unspecified.
func (g *Registry) ListRooms() []RoomSummary {
	g.mu.RLock()
	defer g.mu.RUnlock()

	out := make([]RoomSummary, 0, len(g.rooms))
	for _, room := range g.rooms {
		out = append(out, room.summary())
	}
	return out
}

// Len reports the number of active rooms.
func (g *Registry) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.rooms)
}

// hostGuard is the single authorization check shared by every host-restricted
// mutation. The original host keeps its flag; a promoted successor is matched
// through HostID.
func hostGuard(room *Room, actorID string) error {
	u, ok := room.members[actorID]
	if !ok {
		return ErrNotInRoom
	}
	if !u.IsHost && room.HostID != actorID {
		return ErrNotHost
	}
	return nil
}

// ApplyPlaybackUpdate overwrites the room's playback position and playing
// flag on behalf of the host. Last writer wins; the returned state carries
// the bumped sequence number for client-side staleness checks.
func (g *Registry) ApplyPlaybackUpdate(roomID, actorID string, currentTime float64, isPlaying bool) (PlaybackState, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	room, ok := g.rooms[roomID]
	if !ok {
		return PlaybackState{}, ErrRoomNotFound
	}
	if err := hostGuard(room, actorID); err != nil {
		return PlaybackState{}, err
	}
	room.setPlayback(currentTime, isPlaying, time.Now())
	return room.playback(), nil
}

// SetVideoSource replaces the room's video URL on behalf of the host and
// resets playback to position 0, paused.
func (g *Registry) SetVideoSource(roomID, actorID, url string) (PlaybackState, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	room, ok := g.rooms[roomID]
	if !ok {
		return PlaybackState{}, ErrRoomNotFound
	}
	if err := hostGuard(room, actorID); err != nil {
		return PlaybackState{}, err
	}
	room.setSource(url, time.Now())
	return room.playback(), nil
}
