// Command ws_smoke exercises the WebSocket gateway end to end against a
// running server: create a room, set a video, send a chat message, and print
// what comes back.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/okcomputer/watchtogether-server/internal/proto"
)

func main() {
	if err := run(); err != nil {
		log.Printf("ws_smoke: %v", err)
		os.Exit(1)
	}
}

func run() error {
	addr := flag.String("addr", "ws://localhost:8080/ws", "WebSocket address")
	user := flag.String("user", "smoke-tester", "username")
	room := flag.String("room", "smoke room", "room name to create")
	video := flag.String("video", "https://example.com/smoke.mp4", "video url to set")
	text := flag.String("text", "hello from smoke test", "chat message to send")
	timeout := flag.Duration("timeout", 5*time.Second, "total timeout for the run")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, *addr, nil)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "bye")

	send := func(msgType string, payload any) error {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal %s: %w", msgType, err)
		}
		if err := wsjson.Write(ctx, conn, proto.Inbound{Type: msgType, Data: data}); err != nil {
			return fmt.Errorf("send %s: %w", msgType, err)
		}
		return nil
	}

	if err := send(proto.InboundTypeCreateRoom, proto.CreateRoomData{
		RoomName: *room,
		Username: *user,
	}); err != nil {
		return err
	}

	var created proto.Outbound
	if err := wsjson.Read(ctx, conn, &created); err != nil {
		return fmt.Errorf("read room-created: %w", err)
	}
	if created.Error != nil {
		return fmt.Errorf("create rejected: %s: %s", created.Error.Code, created.Error.Msg)
	}
	fmt.Printf("event=%s\n", created.Event)

	raw, err := json.Marshal(created.Data)
	if err != nil {
		return fmt.Errorf("remarshal room-created: %w", err)
	}
	var createdData proto.RoomCreatedData
	if err := json.Unmarshal(raw, &createdData); err != nil {
		return fmt.Errorf("decode room-created: %w", err)
	}
	fmt.Printf("room=%s host=%s\n", createdData.Room.ID, createdData.User.Username)

	if err := send(proto.InboundTypeSetVideo, proto.SetVideoData{
		RoomID:   createdData.Room.ID,
		VideoURL: *video,
	}); err != nil {
		return err
	}
	if err := send(proto.InboundTypeChatMessage, proto.ChatMessageData{
		RoomID:  createdData.Room.ID,
		Message: *text,
	}); err != nil {
		return err
	}

	// video-changed and the chat echo both come back to the sender.
	for i := 0; i < 2; i++ {
		var out proto.Outbound
		if err := wsjson.Read(ctx, conn, &out); err != nil {
			return fmt.Errorf("read: %w", err)
		}
		if out.Error != nil {
			fmt.Printf("error: %s: %s\n", out.Error.Code, out.Error.Msg)
			continue
		}
		data, _ := json.Marshal(out.Data)
		fmt.Printf("event=%s data=%s\n", out.Event, data)
	}

	return nil
}
