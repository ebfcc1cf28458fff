package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func getJSON(t *testing.T, ts *httptest.Server, path string, wantStatus int, out any) {
	t.Helper()

	resp, err := ts.Client().Get(ts.URL + path)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != wantStatus {
		t.Fatalf("GET %s: expected status %d, got %d", path, wantStatus, resp.StatusCode)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode %s: %v", path, err)
		}
	}
}

func TestHealthEndpoint(t *testing.T) {
	ts, _ := startTestServer(t)

	resp, err := ts.Client().Get(ts.URL + "/health")
	if err != nil {
		t.Fatalf("health request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status: %d", resp.StatusCode)
	}
}

func TestStatusEndpoint(t *testing.T) {
	ts, reg := startTestServer(t)

	reg.CreateRoom("room1", "Alice", "", "conn-a")
	reg.CreateRoom("room2", "Bob", "", "conn-b")

	var status struct {
		Status string `json:"status"`
		Rooms  int    `json:"rooms"`
	}
	getJSON(t, ts, "/", http.StatusOK, &status)

	if status.Status != "running" {
		t.Errorf("unexpected status field: %q", status.Status)
	}
	if status.Rooms != 2 {
		t.Errorf("expected 2 rooms, got %d", status.Rooms)
	}
}

func TestListRooms(t *testing.T) {
	ts, reg := startTestServer(t)

	room, _, _ := reg.CreateRoom("Movie Night", "Alice", "https://example.com/v.mp4", "conn-a")
	reg.JoinRoom(room.ID, "Bob", "conn-b")
	reg.CreateRoom("Other", "Carol", "", "conn-c")

	var rooms []RoomSummaryResponse
	getJSON(t, ts, "/api/rooms", http.StatusOK, &rooms)

	if len(rooms) != 2 {
		t.Fatalf("expected 2 rooms, got %d", len(rooms))
	}
	byName := make(map[string]RoomSummaryResponse, len(rooms))
	for _, r := range rooms {
		byName[r.Name] = r
	}
	movie, ok := byName["Movie Night"]
	if !ok {
		t.Fatal("Movie Night missing from listing")
	}
	if movie.UserCount != 2 || movie.VideoURL != "https://example.com/v.mp4" {
		t.Errorf("unexpected summary: %+v", movie)
	}
}

func TestGetRoomDetail(t *testing.T) {
	ts, reg := startTestServer(t)

	room, host, _ := reg.CreateRoom("Movie Night", "Alice", "", "conn-a")
	reg.JoinRoom(room.ID, "Bob", "conn-b")
	if _, err := reg.ApplyPlaybackUpdate(room.ID, host.ID, 42.5, true); err != nil {
		t.Fatalf("seed playback: %v", err)
	}

	var detail RoomDetailResponse
	getJSON(t, ts, "/api/rooms/"+room.ID, http.StatusOK, &detail)

	if detail.UserCount != 2 || len(detail.Users) != 2 {
		t.Fatalf("unexpected detail: %+v", detail)
	}
	if detail.CurrentTime != 42.5 || !detail.IsPlaying {
		t.Errorf("playback state missing from detail: %+v", detail)
	}
	if !detail.Users[0].IsHost || detail.Users[1].IsHost {
		t.Errorf("host flag misplaced: %+v", detail.Users)
	}
}

func TestGetRoomNotFound(t *testing.T) {
	ts, _ := startTestServer(t)

	var errResp ErrorResponse
	getJSON(t, ts, "/api/rooms/ghost", http.StatusNotFound, &errResp)
	if errResp.Error != "room not found" {
		t.Errorf("unexpected error body: %+v", errResp)
	}
}
