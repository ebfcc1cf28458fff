package core

import "time"

// Room groups the members watching one video together. Exactly one member
// holds the host role while the room is non-empty; the host drives playback
// for everyone else. Rooms are mutated only while the registry lock is held.
type Room struct {
	ID          string
	Name        string
	HostID      string
	VideoURL    string
	CurrentTime float64
	IsPlaying   bool
	PlaybackSeq uint64
	CreatedAt   time.Time
	UpdatedAt   time.Time

	members   map[string]*User
	joinOrder []string
}

func newRoom(id, name, videoURL string, now time.Time) *Room {
	return &Room{
		ID:        id,
		Name:      name,
		VideoURL:  videoURL,
		CreatedAt: now,
		UpdatedAt: now,
		members:   make(map[string]*User),
	}
}

func (r *Room) addMember(u *User, now time.Time) {
	r.members[u.ID] = u
	r.joinOrder = append(r.joinOrder, u.ID)
	r.UpdatedAt = now
}

// removeMember drops a member and, if it held the host role, promotes the
// earliest remaining joiner so the one-host invariant survives the departure.
func (r *Room) removeMember(userID string, now time.Time) {
	delete(r.members, userID)
	for i, id := range r.joinOrder {
		if id == userID {
			r.joinOrder = append(r.joinOrder[:i], r.joinOrder[i+1:]...)
			break
		}
	}
	if r.HostID == userID && len(r.joinOrder) > 0 {
		next := r.members[r.joinOrder[0]]
		next.IsHost = true
		r.HostID = next.ID
	}
	r.UpdatedAt = now
}

func (r *Room) memberCount() int {
	return len(r.members)
}

// setPlayback overwrites position, playing flag and UpdatedAt as one unit so
// a consumer never observes a playing state with a stale position.
func (r *Room) setPlayback(currentTime float64, isPlaying bool, now time.Time) {
	r.CurrentTime = currentTime
	r.IsPlaying = isPlaying
	r.PlaybackSeq++
	r.UpdatedAt = now
}

// setSource swaps the video URL and restarts playback state. Keeping the old
// position would mean resuming at time T of a different video.
func (r *Room) setSource(url string, now time.Time) {
	r.VideoURL = url
	r.CurrentTime = 0
	r.IsPlaying = false
	r.PlaybackSeq++
	r.UpdatedAt = now
}

// RoomState is a point-in-time copy of a room, safe to use after the
// registry lock is released. Users are listed in join order.
type RoomState struct {
	ID          string
	Name        string
	HostID      string
	VideoURL    string
	CurrentTime float64
	IsPlaying   bool
	PlaybackSeq uint64
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Users       []User
}

// RoomSummary is the shape used for room discovery listings.
type RoomSummary struct {
	ID        string
	Name      string
	UserCount int
	VideoURL  string
	IsPlaying bool
	CreatedAt time.Time
}

// PlaybackState is the playback triple plus the per-room sequence number
// bumped on every accepted host mutation. Clients discard frames whose seq
// is not greater than the last one they applied.
type PlaybackState struct {
	VideoURL    string
	CurrentTime float64
	IsPlaying   bool
	Seq         uint64
}

func (r *Room) snapshot() RoomState {
	users := make([]User, 0, len(r.members))
	for _, id := range r.joinOrder {
		if u, ok := r.members[id]; ok {
			users = append(users, *u)
		}
	}
	return RoomState{
		ID:          r.ID,
		Name:        r.Name,
		HostID:      r.HostID,
		VideoURL:    r.VideoURL,
		CurrentTime: r.CurrentTime,
		IsPlaying:   r.IsPlaying,
		PlaybackSeq: r.PlaybackSeq,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
		Users:       users,
	}
}

func (r *Room) summary() RoomSummary {
	return RoomSummary{
		ID:        r.ID,
		Name:      r.Name,
		UserCount: len(r.members),
		VideoURL:  r.VideoURL,
		IsPlaying: r.IsPlaying,
		CreatedAt: r.CreatedAt,
	}
}

func (r *Room) playback() PlaybackState {
	return PlaybackState{
		VideoURL:    r.VideoURL,
		CurrentTime: r.CurrentTime,
		IsPlaying:   r.IsPlaying,
		Seq:         r.PlaybackSeq,
	}
}
