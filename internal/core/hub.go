package core

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
)

// ChatBacklogLimit is how many recent messages a newly joined member receives.
const ChatBacklogLimit = 20

type clientCommand struct {
	client *Client
	cmd    *Command
}

// Hub serializes every room mutation through one goroutine. Clients register
// with their own command channel; the hub fans commands into a single inbox,
// applies them against the registry and history, and fans resulting events
// out to the affected room members. Nothing outside Run touches the client
// map, so no mutation of a room ever races another.
type Hub struct {
	registry *Registry
	history  *History

	register   chan *Client
	unregister chan *Client
	inbox      chan clientCommand

	clients map[string]*Client

	log zerolog.Logger
}

// NewHub creates a hub around the given stores. Nil stores get fresh
// defaults, which is what tests usually want.
func NewHub(reg *Registry, hist *History, logger *zerolog.Logger) *Hub {
	if reg == nil {
		reg = NewRegistry()
	}
	if hist == nil {
		hist = NewHistory(0)
	}
	l := zerolog.Nop()
	if logger != nil {
		l = logger.With().Str("component", "hub").Logger()
	}
	return &Hub{
		registry:   reg,
		history:    hist,
		register:   make(chan *Client),
		unregister: make(chan *Client),
		inbox:      make(chan clientCommand, 64),
		clients:    make(map[string]*Client),
		log:        l,
	}
}

// RegisterClient hands a new connection to the hub.
func (h *Hub) RegisterClient(c *Client) {
	h.register <- c
}

// UnregisterClient detaches a connection. The hub treats it as a leave: the
// member is removed from its room and remaining members are notified.
func (h *Hub) UnregisterClient(c *Client) {
	h.unregister <- c
}

// Run processes registrations, disconnects and commands until ctx is
// cancelled.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case c := <-h.register:
			h.clients[c.ConnID] = c
			go h.forward(ctx, c)
			h.log.Debug().Str("conn_id", c.ConnID).Msg("client registered")
		case c := <-h.unregister:
			h.handleDisconnect(c)
		case cc := <-h.inbox:
			h.handle(cc.client, cc.cmd)
		case <-ctx.Done():
			return
		}
	}
}

// forward drains one client's command channel into the shared inbox so Run
// stays the only goroutine touching shared state.
func (h *Hub) forward(ctx context.Context, c *Client) {
	for {
		select {
		case cmd, ok := <-c.Commands:
			if !ok {
				return
			}
			select {
			case h.inbox <- clientCommand{client: c, cmd: cmd}:
			case <-ctx.Done():
				return
			}
		case <-ctx.Done():
			return
		}
	}
}

func (h *Hub) handle(c *Client, cmd *Command) {
	if _, ok := h.clients[c.ConnID]; !ok {
		// Command raced a disconnect; acting on it would leave a ghost member.
		return
	}
	switch cmd.Kind {
	case CommandCreateRoom:
		h.handleCreateRoom(c, cmd)
	case CommandJoinRoom:
		h.handleJoinRoom(c, cmd)
	case CommandVideoSync:
		h.handleVideoSync(c, cmd)
	case CommandSetVideo:
		h.handleSetVideo(c, cmd)
	case CommandSendChat:
		h.handleChat(c, cmd)
	default:
		h.log.Warn().Int("kind", int(cmd.Kind)).Msg("unknown command kind")
	}
}

func (h *Hub) handleCreateRoom(c *Client, cmd *Command) {
	room, user, err := h.registry.CreateRoom(cmd.RoomName, cmd.Username, cmd.VideoURL, c.ConnID)
	if err != nil {
		h.send(c, errorEvent(err))
		return
	}
	h.log.Info().
		Str("room_id", room.ID).
		Str("room_name", room.Name).
		Str("user_id", user.ID).
		Msg("room created")
	h.send(c, &Event{Kind: EventRoomCreated, Room: room, User: user})
}

func (h *Hub) handleJoinRoom(c *Client, cmd *Command) {
	room, user, err := h.registry.JoinRoom(cmd.RoomID, cmd.Username, c.ConnID)
	if err != nil {
		h.send(c, errorEvent(err))
		return
	}
	h.log.Info().
		Str("room_id", room.ID).
		Str("user_id", user.ID).
		Str("username", user.Username).
		Msg("user joined room")

	h.sendToRoom(room, c.ConnID, &Event{Kind: EventUserJoined, User: user})
	h.send(c, &Event{Kind: EventRoomJoined, Room: room, User: user})
	h.send(c, &Event{Kind: EventChatHistory, Messages: h.history.Recent(room.ID, ChatBacklogLimit)})
}

// handleVideoSync relays a host play/pause/seek to everyone else in the room.
// The sender already has the authoritative local state and gets no echo.
// Events from non-hosts or unresolved connections are dropped silently: a
// well-behaved client never sends them.
func (h *Hub) handleVideoSync(c *Client, cmd *Command) {
	room, user, ok := h.registry.FindByConn(c.ConnID)
	if !ok {
		return
	}
	pb, err := h.registry.ApplyPlaybackUpdate(room.ID, user.ID, cmd.CurrentTime, cmd.IsPlaying)
	if err != nil {
		h.log.Debug().
			Str("room_id", room.ID).
			Str("user_id", user.ID).
			Err(err).
			Msg("playback update rejected")
		return
	}
	h.sendToRoom(room, c.ConnID, &Event{Kind: EventVideoState, Playback: pb, User: user})
}

// handleSetVideo swaps the room's video source. Unlike handleVideoSync this
// broadcasts to the whole room including the sender, because the reset
// position is state the sender must re-synchronize to as well.
func (h *Hub) handleSetVideo(c *Client, cmd *Command) {
	room, user, ok := h.registry.FindByConn(c.ConnID)
	if !ok {
		return
	}
	pb, err := h.registry.SetVideoSource(room.ID, user.ID, cmd.VideoURL)
	if err != nil {
		h.log.Debug().
			Str("room_id", room.ID).
			Str("user_id", user.ID).
			Err(err).
			Msg("set video rejected")
		return
	}
	h.sendToRoom(room, "", &Event{Kind: EventVideoChanged, Playback: pb, User: user})
}

func (h *Hub) handleChat(c *Client, cmd *Command) {
	room, user, ok := h.registry.FindByConn(c.ConnID)
	if !ok {
		return
	}
	msg := h.history.Append(room.ID, user.ID, user.Username, cmd.Text)
	// The sender gets the broadcast too: it needs the server-assigned id and
	// timestamp.
	h.sendToRoom(room, "", &Event{Kind: EventChatMessage, Message: msg})
}

func (h *Hub) handleDisconnect(c *Client) {
	if _, ok := h.clients[c.ConnID]; !ok {
		return
	}
	delete(h.clients, c.ConnID)
	defer close(c.Events)

	room, user, ok := h.registry.FindByConn(c.ConnID)
	if !ok {
		return
	}
	dep, err := h.registry.LeaveRoom(room.ID, user.ID)
	if err != nil {
		h.log.Warn().Str("room_id", room.ID).Str("user_id", user.ID).Err(err).Msg("leave failed")
		return
	}
	if dep.RoomGone {
		h.history.Clear(room.ID)
		h.log.Info().Str("room_id", room.ID).Msg("room emptied and removed")
		return
	}
	h.log.Info().
		Str("room_id", room.ID).
		Str("user_id", user.ID).
		Str("new_host_id", dep.NewHostID).
		Msg("user left room")
	h.sendToRoom(dep.Room, c.ConnID, &Event{Kind: EventUserLeft, User: dep.User, NewHostID: dep.NewHostID})
}

func (h *Hub) send(c *Client, ev *Event) {
	select {
	case c.Events <- ev:
	default:
		// Drop if slow consumer.
		h.log.Warn().Str("conn_id", c.ConnID).Msg("event channel full, dropping event")
	}
}

func (h *Hub) sendToRoom(room RoomState, exceptConnID string, ev *Event) {
	for _, u := range room.Users {
		if u.ConnID == exceptConnID {
			continue
		}
		if c, ok := h.clients[u.ConnID]; ok {
			h.send(c, ev)
		}
	}
}

func errorEvent(err error) *Event {
	code := ErrCodeBadRequest
	switch {
	case errors.Is(err, ErrRoomNotFound):
		code = ErrCodeRoomNotFound
	case errors.Is(err, ErrAlreadyInRoom):
		code = ErrCodeAlreadyInRoom
	case errors.Is(err, ErrNotInRoom):
		code = ErrCodeNotInRoom
	case errors.Is(err, ErrNotHost):
		code = ErrCodeNotHost
	}
	return &Event{Kind: EventError, Error: coreError(code, err.Error())}
}
