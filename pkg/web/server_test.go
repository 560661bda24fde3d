package web

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/parvislabs/go-parvis/pkg/intent"
	"github.com/parvislabs/go-parvis/pkg/pipeline"
)

func TestDataEndpointsUnconfigured(t *testing.T) {
	s := NewServer("0", nil)

	for _, path := range []string{"/api/status", "/api/stats", "/api/history", "/api/intents"} {
		resp, err := s.App().Test(httptest.NewRequest("GET", path, nil))
		if err != nil {
			t.Fatalf("GET %s: %v", path, err)
		}
		if resp.StatusCode != 503 {
			t.Errorf("GET %s status = %d, want 503", path, resp.StatusCode)
		}
	}
}

func TestDataEndpointsServeSnapshots(t *testing.T) {
	s := NewServer("0", nil)
	s.OnStatus = func() any { return map[string]any{"running": true, "mode": "text"} }
	s.OnStats = func() any { return map[string]any{"total_turns": 3} }
	s.OnHistory = func() any { return []string{} }
	s.OnIntents = func() any { return intent.Stats{TotalRequests: 7} }

	resp, err := s.App().Test(httptest.NewRequest("GET", "/api/status", nil))
	if err != nil {
		t.Fatalf("GET /api/status: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("GET /api/status status = %d, want 200", resp.StatusCode)
	}

	body, _ := io.ReadAll(resp.Body)
	var status map[string]any
	if err := json.Unmarshal(body, &status); err != nil {
		t.Fatalf("status body not JSON: %v", err)
	}
	if status["mode"] != "text" {
		t.Errorf("status mode = %v, want text", status["mode"])
	}

	resp, err = s.App().Test(httptest.NewRequest("GET", "/api/intents", nil))
	if err != nil {
		t.Fatalf("GET /api/intents: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Errorf("GET /api/intents status = %d, want 200", resp.StatusCode)
	}
}

func TestWebSocketRouteRequiresUpgrade(t *testing.T) {
	s := NewServer("0", nil)

	resp, err := s.App().Test(httptest.NewRequest("GET", "/ws/events", nil))
	if err != nil {
		t.Fatalf("GET /ws/events: %v", err)
	}
	if resp.StatusCode != 426 {
		t.Errorf("GET /ws/events status = %d, want 426", resp.StatusCode)
	}
}

func TestNewTurnEvent(t *testing.T) {
	turn := &pipeline.ConversationTurn{
		ID:            "turn-1",
		StartedAt:     time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
		UserText:      "what time is it",
		AssistantText: "It's currently 12:00 PM",
		Success:       true,
		STTTime:       120 * time.Millisecond,
		LLMTime:       340 * time.Millisecond,
		TTSTime:       80 * time.Millisecond,
		TotalTime:     540 * time.Millisecond,
	}

	ev := NewTurnEvent(turn)
	if ev.Type != "turn" {
		t.Errorf("type = %q, want turn", ev.Type)
	}
	if ev.ID != "turn-1" || ev.UserText != "what time is it" || !ev.Success {
		t.Errorf("event fields wrong: %+v", ev)
	}
	if ev.STTMillis != 120 || ev.LLMMillis != 340 || ev.TTSMillis != 80 || ev.TotalMillis != 540 {
		t.Errorf("milli timings = %d/%d/%d/%d", ev.STTMillis, ev.LLMMillis, ev.TTSMillis, ev.TotalMillis)
	}
}

func TestPublishTurnNil(t *testing.T) {
	s := NewServer("0", nil)
	s.PublishTurn(nil)
}

func TestEventsFeedDelivery(t *testing.T) {
	s := NewServer("18091", nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s.StartAsync(ctx)
	defer s.Shutdown()
	time.Sleep(100 * time.Millisecond)

	ws, _, err := websocket.DefaultDialer.Dial("ws://localhost:18091/ws/events", nil)
	if err != nil {
		t.Fatalf("WebSocket dial error: %v", err)
	}
	defer ws.Close()

	time.Sleep(50 * time.Millisecond)
	if got := s.Events().ClientCount(); got != 1 {
		t.Errorf("ClientCount = %d, want 1", got)
	}

	s.PublishTurn(&pipeline.ConversationTurn{
		ID:            "live-1",
		StartedAt:     time.Now(),
		UserText:      "hello",
		AssistantText: "hi there",
		Success:       true,
	})

	ws.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, payload, err := ws.ReadMessage()
	if err != nil {
		t.Fatalf("ReadMessage: %v", err)
	}

	var ev TurnEvent
	if err := json.Unmarshal(payload, &ev); err != nil {
		t.Fatalf("event not JSON: %v", err)
	}
	if ev.Type != "turn" || ev.ID != "live-1" {
		t.Errorf("event = %+v", ev)
	}

	s.PublishTimer(intent.TimerInfo{ID: "t-1", Description: "5 minutes"}, "Your 5 minutes timer is done!")
	ws.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, payload, err = ws.ReadMessage()
	if err != nil {
		t.Fatalf("ReadMessage timer: %v", err)
	}
	var tev TimerEvent
	if err := json.Unmarshal(payload, &tev); err != nil {
		t.Fatalf("timer event not JSON: %v", err)
	}
	if tev.Type != "timer" || tev.ID != "t-1" {
		t.Errorf("timer event = %+v", tev)
	}
}
