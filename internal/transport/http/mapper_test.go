package http

import (
	"encoding/json"
	"testing"

	"github.com/okcomputer/watchtogether-server/internal/core"
	"github.com/okcomputer/watchtogether-server/internal/proto"
)

func inbound(t *testing.T, typ string, data any) proto.Inbound {
	t.Helper()
	raw, err := json.Marshal(data)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	return proto.Inbound{Type: typ, Data: raw}
}

func TestInboundToCommand(t *testing.T) {
	tests := []struct {
		name     string
		inbound  proto.Inbound
		wantKind core.CommandKind
		wantErr  string // expected proto error code, empty for success
	}{
		{
			name:     "create room",
			inbound:  inbound(t, proto.InboundTypeCreateRoom, proto.CreateRoomData{RoomName: "Movie Night", Username: "Alice"}),
			wantKind: core.CommandCreateRoom,
		},
		{
			name:    "create room without name",
			inbound: inbound(t, proto.InboundTypeCreateRoom, proto.CreateRoomData{Username: "Alice"}),
			wantErr: core.ErrCodeBadRequest,
		},
		{
			name:    "create room without username",
			inbound: inbound(t, proto.InboundTypeCreateRoom, proto.CreateRoomData{RoomName: "Movie Night"}),
			wantErr: core.ErrCodeBadRequest,
		},
		{
			name:     "join room",
			inbound:  inbound(t, proto.InboundTypeJoinRoom, proto.JoinRoomData{RoomID: "r1", Username: "Bob"}),
			wantKind: core.CommandJoinRoom,
		},
		{
			name:    "join room without id",
			inbound: inbound(t, proto.InboundTypeJoinRoom, proto.JoinRoomData{Username: "Bob"}),
			wantErr: core.ErrCodeBadRequest,
		},
		{
			name:     "video sync",
			inbound:  inbound(t, proto.InboundTypeVideoSync, proto.VideoSyncData{RoomID: "r1", CurrentTime: 42.5, IsPlaying: true}),
			wantKind: core.CommandVideoSync,
		},
		{
			name:    "video sync with negative position",
			inbound: inbound(t, proto.InboundTypeVideoSync, proto.VideoSyncData{RoomID: "r1", CurrentTime: -1}),
			wantErr: core.ErrCodeBadRequest,
		},
		{
			name:     "set video",
			inbound:  inbound(t, proto.InboundTypeSetVideo, proto.SetVideoData{RoomID: "r1", VideoURL: "https://example.com/v.mp4"}),
			wantKind: core.CommandSetVideo,
		},
		{
			name:    "set video without url",
			inbound: inbound(t, proto.InboundTypeSetVideo, proto.SetVideoData{RoomID: "r1"}),
			wantErr: core.ErrCodeBadRequest,
		},
		{
			name:     "chat message",
			inbound:  inbound(t, proto.InboundTypeChatMessage, proto.ChatMessageData{RoomID: "r1", Message: "hi"}),
			wantKind: core.CommandSendChat,
		},
		{
			name:    "chat message without body",
			inbound: inbound(t, proto.InboundTypeChatMessage, proto.ChatMessageData{RoomID: "r1"}),
			wantErr: core.ErrCodeBadRequest,
		},
		{
			name:    "unknown type",
			inbound: inbound(t, "warp-speed", struct{}{}),
			wantErr: "invalid_message",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, protoErr, err := inboundToCommand(tt.inbound)
			if err != nil {
				t.Fatalf("unexpected mapping error: %v", err)
			}
			if tt.wantErr != "" {
				if protoErr == nil || protoErr.Code != tt.wantErr {
					t.Fatalf("expected proto error %q, got %+v", tt.wantErr, protoErr)
				}
				return
			}
			if protoErr != nil {
				t.Fatalf("unexpected proto error: %+v", protoErr)
			}
			if cmd == nil || cmd.Kind != tt.wantKind {
				t.Fatalf("expected command kind %v, got %+v", tt.wantKind, cmd)
			}
		})
	}
}

func TestInboundToCommandMalformedData(t *testing.T) {
	_, _, err := inboundToCommand(proto.Inbound{Type: proto.InboundTypeCreateRoom, Data: []byte(`{`)})
	if err == nil {
		t.Fatal("expected unmarshal error for malformed payload")
	}
}

func TestOutboundUserLeftHostHandoff(t *testing.T) {
	ev := &core.Event{
		Kind:      core.EventUserLeft,
		User:      core.User{ID: "u1", Username: "Alice"},
		NewHostID: "u2",
	}
	out := outboundFromEvent(ev)
	data, ok := out.Data.(proto.UserLeftData)
	if !ok {
		t.Fatalf("unexpected data type %T", out.Data)
	}
	if data.NewHostID == nil || *data.NewHostID != "u2" {
		t.Fatalf("expected newHostId u2, got %v", data.NewHostID)
	}

	// Without a handoff the field stays null.
	ev.NewHostID = ""
	out = outboundFromEvent(ev)
	data = out.Data.(proto.UserLeftData)
	if data.NewHostID != nil {
		t.Fatalf("expected null newHostId, got %v", *data.NewHostID)
	}
}

func TestOutboundErrorEnvelope(t *testing.T) {
	ev := &core.Event{
		Kind:  core.EventError,
		Error: &core.CoreError{Code: core.ErrCodeRoomNotFound, Message: "room not found"},
	}
	out := outboundFromEvent(ev)
	if out.Type != proto.OutboundTypeError {
		t.Fatalf("unexpected type %q", out.Type)
	}
	if out.Error == nil || out.Error.Code != core.ErrCodeRoomNotFound {
		t.Fatalf("unexpected error payload: %+v", out.Error)
	}
}
