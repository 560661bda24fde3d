package intent

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// TimerInfo describes one outstanding timer.
type TimerInfo struct {
	ID          string
	Duration    time.Duration
	EndTime     time.Time
	Description string
}

// TimerHandler sets countdown timers parsed from natural phrasing.
// Completions fire from their own goroutine and never block a running
// turn; a timer that fires mid-turn is announced through the
// completion callback, not injected into the turn.
type TimerHandler struct {
	matcher
	logger *slog.Logger

	mu         sync.Mutex
	active     map[string]*activeTimer
	onComplete func(TimerInfo)
}

type activeTimer struct {
	info TimerInfo
	stop *time.Timer
}

var bareNumber = regexp.MustCompile(`\d+`)

// NewTimerHandler creates the timer handler with an empty timer table.
func NewTimerHandler() *TimerHandler {
	return &TimerHandler{
		matcher: matcher{
			keywords: []string{
				"timer", "alarm", "remind", "set timer", "start timer",
				"minute", "second", "hour", "countdown", "wake me up",
			},
			patterns: compilePatterns(
				`set (?:a )?timer (?:for )?(\d+) ?(minute|second|hour)s?`,
				`(?:start|begin) (?:a )?(\d+) ?(minute|second|hour) timer`,
				`remind me in (\d+) ?(minute|second|hour)s?`,
				`timer (?:for )?(\d+) ?(minute|second|hour)s?`,
				`wake me (?:up )?in (\d+) ?(minute|second|hour)s?`,
			),
		},
		active: make(map[string]*activeTimer),
		logger: slog.Default().With("component", "intent.timer"),
	}
}

// Kind returns KindTimer.
func (h *TimerHandler) Kind() Kind { return KindTimer }

// Examples returns sample timer phrases.
func (h *TimerHandler) Examples() []string {
	return []string{
		"Set a timer for 5 minutes",
		"Start a 30 second timer",
		"Remind me in 2 hours",
	}
}

// Handle parses a duration from the text and schedules the timer.
func (h *TimerHandler) Handle(ctx context.Context, text string) (*Result, error) {
	lower := strings.ToLower(text)

	seconds, ok := h.parseDuration(lower)
	if !ok {
		return &Result{
			Kind:         KindTimer,
			Confidence:   0.8,
			ResponseText: "I couldn't understand the timer duration. Please say something like 'set a timer for 5 minutes'.",
			Success:      false,
		}, nil
	}

	duration := time.Duration(seconds) * time.Second
	info := TimerInfo{
		ID:          uuid.NewString(),
		Duration:    duration,
		EndTime:     time.Now().Add(duration),
		Description: formatDuration(seconds),
	}

	h.mu.Lock()
	timer := &activeTimer{info: info}
	timer.stop = time.AfterFunc(duration, func() { h.complete(info.ID) })
	h.active[info.ID] = timer
	h.mu.Unlock()

	h.logger.Info("timer set", "id", info.ID, "duration", info.Description)

	return &Result{
		Kind:         KindTimer,
		Confidence:   0.9,
		ResponseText: fmt.Sprintf("Timer set for %s. I'll let you know when it's done!", info.Description),
		Success:      true,
		Payload: map[string]any{
			"timer_id":         info.ID,
			"duration_seconds": seconds,
		},
	}, nil
}

// parseDuration extracts a whole-second duration from the text. The
// pattern table is tried in order; failing that, the first bare
// integer is taken with the unit guessed from the wording (default
// minutes). Durations must come out positive.
func (h *TimerHandler) parseDuration(text string) (int, bool) {
	seconds, ok := h.matchDuration(text)
	if ok && seconds > 0 {
		return seconds, true
	}
	return 0, false
}

func (h *TimerHandler) matchDuration(text string) (int, bool) {
	for _, p := range h.patterns {
		m := p.FindStringSubmatch(text)
		if len(m) < 3 {
			continue
		}
		amount, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		switch {
		case strings.HasPrefix(m[2], "second"):
			return amount, true
		case strings.HasPrefix(m[2], "minute"):
			return amount * 60, true
		case strings.HasPrefix(m[2], "hour"):
			return amount * 3600, true
		}
	}

	if m := bareNumber.FindString(text); m != "" {
		amount, err := strconv.Atoi(m)
		if err == nil {
			switch {
			case strings.Contains(text, "hour"):
				return amount * 3600, true
			case strings.Contains(text, "second"):
				return amount, true
			default:
				return amount * 60, true
			}
		}
	}

	return 0, false
}

// complete removes the fired timer and notifies the completion
// callback. Runs on the timer goroutine.
func (h *TimerHandler) complete(id string) {
	h.mu.Lock()
	timer, ok := h.active[id]
	if ok {
		delete(h.active, id)
	}
	fn := h.onComplete
	h.mu.Unlock()

	if !ok {
		return
	}

	h.logger.Info("timer completed", "id", id, "duration", timer.info.Description)
	if fn != nil {
		fn(timer.info)
	}
}

// Cancel stops an outstanding timer before it fires. It reports
// whether the timer was still active.
func (h *TimerHandler) Cancel(id string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	timer, ok := h.active[id]
	if !ok {
		return false
	}
	timer.stop.Stop()
	delete(h.active, id)
	return true
}

// Active returns a snapshot of the outstanding timers.
func (h *TimerHandler) Active() []TimerInfo {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]TimerInfo, 0, len(h.active))
	for _, t := range h.active {
		out = append(out, t.info)
	}
	return out
}

// SetCompletionFunc registers fn to run when a timer finishes. It is
// called from the completion goroutine, not from Handle.
func (h *TimerHandler) SetCompletionFunc(fn func(TimerInfo)) {
	h.mu.Lock()
	h.onComplete = fn
	h.mu.Unlock()
}

// formatDuration renders whole seconds the way they are spoken.
func formatDuration(seconds int) string {
	switch {
	case seconds < 60:
		return plural(seconds, "second")
	case seconds < 3600:
		return plural(seconds/60, "minute")
	default:
		return plural(seconds/3600, "hour")
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return "1 " + unit
	}
	return fmt.Sprintf("%d %ss", n, unit)
}

// Verify TimerHandler implements Handler at compile time.
var _ Handler = (*TimerHandler)(nil)
