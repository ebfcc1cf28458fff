package http

import (
	"encoding/json"

	"github.com/okcomputer/watchtogether-server/internal/core"
	"github.com/okcomputer/watchtogether-server/internal/proto"
)

func badRequest(msg string) *proto.Error {
	return &proto.Error{Code: core.ErrCodeBadRequest, Msg: msg}
}

func inboundToCommand(inbound proto.Inbound) (*core.Command, *proto.Error, error) {
	switch inbound.Type {
	case proto.InboundTypeCreateRoom:
		var data proto.CreateRoomData
		if err := json.Unmarshal(inbound.Data, &data); err != nil {
			return nil, nil, err
		}
		if data.RoomName == "" {
			return nil, badRequest("roomName is required"), nil
		}
		if data.Username == "" {
			return nil, badRequest("username is required"), nil
		}
		return &core.Command{
			Kind:     core.CommandCreateRoom,
			RoomName: data.RoomName,
			Username: data.Username,
			VideoURL: data.VideoURL,
		}, nil, nil
	case proto.InboundTypeJoinRoom:
		var data proto.JoinRoomData
		if err := json.Unmarshal(inbound.Data, &data); err != nil {
			return nil, nil, err
		}
		if data.RoomID == "" {
			return nil, badRequest("roomId is required"), nil
		}
		if data.Username == "" {
			return nil, badRequest("username is required"), nil
		}
		return &core.Command{
			Kind:     core.CommandJoinRoom,
			RoomID:   data.RoomID,
			Username: data.Username,
		}, nil, nil
	case proto.InboundTypeVideoSync:
		var data proto.VideoSyncData
		if err := json.Unmarshal(inbound.Data, &data); err != nil {
			return nil, nil, err
		}
		if data.RoomID == "" {
			return nil, badRequest("roomId is required"), nil
		}
		if data.CurrentTime < 0 {
			return nil, badRequest("currentTime must be non-negative"), nil
		}
		return &core.Command{
			Kind:        core.CommandVideoSync,
			RoomID:      data.RoomID,
			CurrentTime: data.CurrentTime,
			IsPlaying:   data.IsPlaying,
		}, nil, nil
	case proto.InboundTypeSetVideo:
		var data proto.SetVideoData
		if err := json.Unmarshal(inbound.Data, &data); err != nil {
			return nil, nil, err
		}
		if data.RoomID == "" {
			return nil, badRequest("roomId is required"), nil
		}
		if data.VideoURL == "" {
			return nil, badRequest("videoUrl is required"), nil
		}
		return &core.Command{
			Kind:     core.CommandSetVideo,
			RoomID:   data.RoomID,
			VideoURL: data.VideoURL,
		}, nil, nil
	case proto.InboundTypeChatMessage:
		var data proto.ChatMessageData
		if err := json.Unmarshal(inbound.Data, &data); err != nil {
			return nil, nil, err
		}
		if data.RoomID == "" {
			return nil, badRequest("roomId is required"), nil
		}
		if data.Message == "" {
			return nil, badRequest("message is required"), nil
		}
		return &core.Command{
			Kind:   core.CommandSendChat,
			RoomID: data.RoomID,
			Text:   data.Message,
		}, nil, nil
	default:
		return nil, &proto.Error{Code: "invalid_message", Msg: "unknown message type"}, nil
	}
}

func userPayload(u core.User) proto.UserPayload {
	return proto.UserPayload{
		ID:       u.ID,
		Username: u.Username,
		IsHost:   u.IsHost,
		JoinedAt: u.JoinedAt,
	}
}

func roomPayload(r core.RoomState, withUsers bool) proto.RoomPayload {
	p := proto.RoomPayload{
		ID:          r.ID,
		Name:        r.Name,
		HostID:      r.HostID,
		VideoURL:    r.VideoURL,
		CurrentTime: r.CurrentTime,
		IsPlaying:   r.IsPlaying,
		Seq:         r.PlaybackSeq,
	}
	if withUsers {
		p.Users = make([]proto.UserPayload, 0, len(r.Users))
		for _, u := range r.Users {
			p.Users = append(p.Users, userPayload(u))
		}
	}
	return p
}

func messagePayload(m core.ChatMessage) proto.MessagePayload {
	return proto.MessagePayload{
		ID:        m.ID,
		UserID:    m.UserID,
		Username:  m.Username,
		Message:   m.Text,
		Timestamp: m.CreatedAt,
		RoomID:    m.RoomID,
	}
}

func outboundFromEvent(event *core.Event) proto.Outbound {
	switch event.Kind {
	case core.EventRoomCreated:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventRoomCreated,
			Data: proto.RoomCreatedData{
				Room: roomPayload(event.Room, false),
				User: userPayload(event.User),
			},
		}
	case core.EventRoomJoined:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventRoomJoined,
			Data: proto.RoomJoinedData{
				Room: roomPayload(event.Room, true),
				User: userPayload(event.User),
			},
		}
	case core.EventUserJoined:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventUserJoined,
			Data:  proto.UserJoinedData{User: userPayload(event.User)},
		}
	case core.EventChatHistory:
		messages := make([]proto.MessagePayload, 0, len(event.Messages))
		for _, msg := range event.Messages {
			messages = append(messages, messagePayload(msg))
		}
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventChatHistory,
			Data:  proto.ChatHistoryData{Messages: messages},
		}
	case core.EventVideoState:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventVideoStateChanged,
			Data: proto.VideoStateData{
				CurrentTime: event.Playback.CurrentTime,
				IsPlaying:   event.Playback.IsPlaying,
				Seq:         event.Playback.Seq,
				UserID:      event.User.ID,
			},
		}
	case core.EventVideoChanged:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventVideoChanged,
			Data: proto.VideoChangedData{
				VideoURL:    event.Playback.VideoURL,
				CurrentTime: event.Playback.CurrentTime,
				IsPlaying:   event.Playback.IsPlaying,
				Seq:         event.Playback.Seq,
				UserID:      event.User.ID,
			},
		}
	case core.EventChatMessage:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventChatMessage,
			Data:  messagePayload(event.Message),
		}
	case core.EventUserLeft:
		data := proto.UserLeftData{
			UserID:   event.User.ID,
			Username: event.User.Username,
		}
		if event.NewHostID != "" {
			data.NewHostID = &event.NewHostID
		}
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventUserLeft,
			Data:  data,
		}
	case core.EventError:
		if event.Error == nil {
			return proto.Outbound{Type: proto.OutboundTypeError, Error: &proto.Error{Code: "unknown", Msg: "unknown error"}}
		}
		return proto.Outbound{
			Type:  proto.OutboundTypeError,
			Error: &proto.Error{Code: event.Error.Code, Msg: event.Error.Message},
		}
	default:
		return proto.Outbound{Type: proto.OutboundTypeEvent}
	}
}
