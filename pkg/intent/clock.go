package intent

import (
	"context"
	"strings"
	"time"
)

// TimeHandler answers wall-clock and date questions.
type TimeHandler struct {
	matcher

	// now is swappable for tests.
	now func() time.Time
}

// NewTimeHandler creates the time handler.
func NewTimeHandler() *TimeHandler {
	return &TimeHandler{
		matcher: matcher{
			keywords: []string{
				"time", "clock", "hour", "date", "today", "now",
				"what time", "current time", "o'clock",
			},
			patterns: compilePatterns(
				`what time is it`,
				`what'?s the time`,
				`current time`,
				`what'?s today'?s date`,
				`what date is it`,
				`tell me the time`,
			),
		},
		now: time.Now,
	}
}

// Kind returns KindTime.
func (h *TimeHandler) Kind() Kind { return KindTime }

// Examples returns sample time phrases.
func (h *TimeHandler) Examples() []string {
	return []string{
		"What time is it?",
		"What's today's date?",
		"Tell me the current time",
	}
}

// Handle answers with the date when the text asks for one, otherwise
// the current time.
func (h *TimeHandler) Handle(ctx context.Context, text string) (*Result, error) {
	now := h.now()

	var response string
	if strings.Contains(strings.ToLower(text), "date") {
		response = now.Format("Today is Monday, January 02, 2006")
	} else {
		response = now.Format("It's currently 03:04 PM")
	}

	return &Result{
		Kind:         KindTime,
		Confidence:   0.9,
		ResponseText: response,
		Success:      true,
		Payload:      map[string]any{"timestamp": now.Format(time.RFC3339)},
	}, nil
}

// Verify TimeHandler implements Handler at compile time.
var _ Handler = (*TimeHandler)(nil)
