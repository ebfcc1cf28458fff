package core

import (
	"context"
	"testing"
	"time"
)

func startHub(t *testing.T) (*Hub, *Registry, *History) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)

	reg := NewRegistry()
	hist := NewHistory(0)
	hub := NewHub(reg, hist, nil)
	go hub.Run(ctx)

	return hub, reg, hist
}

func TestHubMovieNightScenario(t *testing.T) {
	hub, reg, _ := startHub(t)

	alice := NewClient("conn-a")
	hub.RegisterClient(alice)
	alice.Commands <- &Command{Kind: CommandCreateRoom, RoomName: "Movie Night", Username: "Alice"}

	created := mustEvent(t, alice.Events, EventRoomCreated)
	if created.Room.Name != "Movie Night" || !created.User.IsHost {
		t.Fatalf("unexpected create event: %+v", created)
	}
	if created.Room.CurrentTime != 0 || created.Room.IsPlaying {
		t.Fatalf("fresh room should be paused at 0: %+v", created.Room)
	}
	roomID := created.Room.ID

	bob := NewClient("conn-b")
	hub.RegisterClient(bob)
	bob.Commands <- &Command{Kind: CommandJoinRoom, RoomID: roomID, Username: "Bob"}

	joined := mustEvent(t, bob.Events, EventRoomJoined)
	if len(joined.Room.Users) != 2 || joined.User.IsHost {
		t.Fatalf("unexpected join event: %+v", joined)
	}
	backlog := mustEvent(t, bob.Events, EventChatHistory)
	if len(backlog.Messages) != 0 {
		t.Fatalf("expected empty backlog, got %d messages", len(backlog.Messages))
	}
	joinNotice := mustEvent(t, alice.Events, EventUserJoined)
	if joinNotice.User.Username != "Bob" {
		t.Fatalf("unexpected user-joined: %+v", joinNotice)
	}

	// Host sync reaches Bob but does not echo back to Alice.
	alice.Commands <- &Command{Kind: CommandVideoSync, RoomID: roomID, CurrentTime: 42.5, IsPlaying: true}
	sync := mustEvent(t, bob.Events, EventVideoState)
	if sync.Playback.CurrentTime != 42.5 || !sync.Playback.IsPlaying {
		t.Fatalf("unexpected sync payload: %+v", sync.Playback)
	}
	if sync.User.ID != created.User.ID {
		t.Fatalf("sync should carry the acting host id")
	}
	expectNoEvent(t, alice.Events)

	// Non-host sync is silently dropped and state stays put.
	bob.Commands <- &Command{Kind: CommandVideoSync, RoomID: roomID, CurrentTime: 1, IsPlaying: false}
	expectNoEvent(t, alice.Events)
	state, ok := reg.GetRoom(roomID)
	if !ok {
		t.Fatal("room missing")
	}
	if state.CurrentTime != 42.5 || !state.IsPlaying {
		t.Fatalf("state changed by non-host: %v/%v", state.CurrentTime, state.IsPlaying)
	}

	// Alice disconnects; Bob inherits the host role.
	hub.UnregisterClient(alice)
	left := mustEvent(t, bob.Events, EventUserLeft)
	if left.User.Username != "Alice" {
		t.Fatalf("unexpected user-left: %+v", left)
	}
	if left.NewHostID != joined.User.ID {
		t.Fatalf("expected host handoff to bob, got %q", left.NewHostID)
	}

	// Bob's chat message comes back to him with server-assigned identity.
	bob.Commands <- &Command{Kind: CommandSendChat, RoomID: roomID, Text: "hi"}
	chat := mustEvent(t, bob.Events, EventChatMessage)
	if chat.Message.ID == "" || chat.Message.CreatedAt.IsZero() {
		t.Fatalf("message missing server identity: %+v", chat.Message)
	}
	if chat.Message.Text != "hi" || chat.Message.Username != "Bob" {
		t.Fatalf("unexpected chat payload: %+v", chat.Message)
	}
}

func TestHubJoinUnknownRoomEmitsError(t *testing.T) {
	hub, _, _ := startHub(t)

	alice := NewClient("conn-a")
	hub.RegisterClient(alice)
	alice.Commands <- &Command{Kind: CommandJoinRoom, RoomID: "ghost", Username: "Alice"}

	ev := mustEvent(t, alice.Events, EventError)
	if ev.Error == nil || ev.Error.Code != ErrCodeRoomNotFound {
		t.Fatalf("expected room_not_found error, got %+v", ev)
	}
}

func TestHubSetVideoBroadcastsToWholeRoom(t *testing.T) {
	hub, _, _ := startHub(t)

	alice := NewClient("conn-a")
	hub.RegisterClient(alice)
	alice.Commands <- &Command{Kind: CommandCreateRoom, RoomName: "room", Username: "Alice"}
	created := mustEvent(t, alice.Events, EventRoomCreated)

	bob := NewClient("conn-b")
	hub.RegisterClient(bob)
	bob.Commands <- &Command{Kind: CommandJoinRoom, RoomID: created.Room.ID, Username: "Bob"}
	mustEvent(t, bob.Events, EventRoomJoined)

	alice.Commands <- &Command{Kind: CommandSetVideo, RoomID: created.Room.ID, VideoURL: "https://example.com/b.mp4"}

	// The sender gets the reset too, unlike a plain sync.
	forAlice := mustEvent(t, alice.Events, EventVideoChanged)
	forBob := mustEvent(t, bob.Events, EventVideoChanged)
	for _, ev := range []*Event{forAlice, forBob} {
		if ev.Playback.VideoURL != "https://example.com/b.mp4" {
			t.Fatalf("url not delivered: %+v", ev.Playback)
		}
		if ev.Playback.CurrentTime != 0 || ev.Playback.IsPlaying {
			t.Fatalf("playback not reset in broadcast: %+v", ev.Playback)
		}
	}
}

func TestHubChatEchoesToSender(t *testing.T) {
	hub, _, hist := startHub(t)

	alice := NewClient("conn-a")
	hub.RegisterClient(alice)
	alice.Commands <- &Command{Kind: CommandCreateRoom, RoomName: "room", Username: "Alice"}
	created := mustEvent(t, alice.Events, EventRoomCreated)

	alice.Commands <- &Command{Kind: CommandSendChat, RoomID: created.Room.ID, Text: "hello"}
	chat := mustEvent(t, alice.Events, EventChatMessage)
	if chat.Message.Text != "hello" {
		t.Fatalf("unexpected chat event: %+v", chat.Message)
	}
	if hist.Len(created.Room.ID) != 1 {
		t.Fatalf("message not stored")
	}
}

func TestHubDisconnectOfLastMemberDropsRoomAndLog(t *testing.T) {
	hub, reg, hist := startHub(t)

	alice := NewClient("conn-a")
	hub.RegisterClient(alice)
	alice.Commands <- &Command{Kind: CommandCreateRoom, RoomName: "room", Username: "Alice"}
	created := mustEvent(t, alice.Events, EventRoomCreated)

	alice.Commands <- &Command{Kind: CommandSendChat, RoomID: created.Room.ID, Text: "bye"}
	mustEvent(t, alice.Events, EventChatMessage)

	hub.UnregisterClient(alice)

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if reg.Len() == 0 {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	if reg.Len() != 0 {
		t.Fatal("room should be gone after last disconnect")
	}
	if hist.Len(created.Room.ID) != 0 {
		t.Fatal("chat log should be cleared with the room")
	}
}

func TestHubIgnoresEventsFromUnknownConnections(t *testing.T) {
	hub, reg, _ := startHub(t)

	ghost := NewClient("conn-ghost")
	hub.RegisterClient(ghost)

	// No room membership: all of these should be dropped without effect.
	ghost.Commands <- &Command{Kind: CommandVideoSync, RoomID: "x", CurrentTime: 5, IsPlaying: true}
	ghost.Commands <- &Command{Kind: CommandSetVideo, RoomID: "x", VideoURL: "https://example.com/v.mp4"}
	ghost.Commands <- &Command{Kind: CommandSendChat, RoomID: "x", Text: "hi"}

	expectNoEvent(t, ghost.Events)
	if reg.Len() != 0 {
		t.Fatal("no rooms should exist")
	}
}
