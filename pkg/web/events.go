package web

import (
	"time"

	"github.com/parvislabs/go-parvis/pkg/intent"
	"github.com/parvislabs/go-parvis/pkg/pipeline"
)

// TurnEvent is the wire form of a finished conversation turn.
type TurnEvent struct {
	Type          string    `json:"type"`
	ID            string    `json:"id"`
	Timestamp     time.Time `json:"timestamp"`
	UserText      string    `json:"user_text"`
	AssistantText string    `json:"assistant_text"`
	Success       bool      `json:"success"`
	Error         string    `json:"error,omitempty"`
	STTMillis     int64     `json:"stt_ms"`
	LLMMillis     int64     `json:"llm_ms"`
	TTSMillis     int64     `json:"tts_ms"`
	TotalMillis   int64     `json:"total_ms"`
}

// NewTurnEvent converts a turn for the feed.
func NewTurnEvent(t *pipeline.ConversationTurn) TurnEvent {
	return TurnEvent{
		Type:          "turn",
		ID:            t.ID,
		Timestamp:     t.StartedAt,
		UserText:      t.UserText,
		AssistantText: t.AssistantText,
		Success:       t.Success,
		Error:         t.ErrorMessage,
		STTMillis:     t.STTTime.Milliseconds(),
		LLMMillis:     t.LLMTime.Milliseconds(),
		TTSMillis:     t.TTSTime.Milliseconds(),
		TotalMillis:   t.TotalTime.Milliseconds(),
	}
}

// TimerEvent is the wire form of a completed timer.
type TimerEvent struct {
	Type      string    `json:"type"`
	ID        string    `json:"id"`
	Message   string    `json:"message"`
	Duration  string    `json:"duration"`
	Timestamp time.Time `json:"timestamp"`
}

// PublishTurn broadcasts a finished turn to the event feed.
func (s *Server) PublishTurn(t *pipeline.ConversationTurn) {
	if t == nil {
		return
	}
	if err := s.events.BroadcastJSON(NewTurnEvent(t)); err != nil {
		s.logger.Error("turn event encode failed", "error", err)
	}
}

// PublishTimer broadcasts a timer completion to the event feed.
func (s *Server) PublishTimer(info intent.TimerInfo, message string) {
	event := TimerEvent{
		Type:      "timer",
		ID:        info.ID,
		Message:   message,
		Duration:  info.Description,
		Timestamp: time.Now(),
	}
	if err := s.events.BroadcastJSON(event); err != nil {
		s.logger.Error("timer event encode failed", "error", err)
	}
}
