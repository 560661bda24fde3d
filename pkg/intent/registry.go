package intent

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
)

// Registry classifies utterances and routes them to handlers.
type Registry struct {
	cfg      *Config
	handlers []Handler
	timers   *TimerHandler
	logger   *slog.Logger

	mu    sync.Mutex
	stats map[Kind]*usage
}

type usage struct {
	requests  int
	successes int
}

// NewRegistry creates a registry with the built-in handlers registered
// in order: timer, weather, time, translation.
func NewRegistry(opts ...Option) *Registry {
	cfg := DefaultConfig()
	cfg.Apply(opts...)

	timers := NewTimerHandler()
	if cfg.TimerCompletion != nil {
		timers.SetCompletionFunc(cfg.TimerCompletion)
	}

	handlers := []Handler{
		timers,
		NewWeatherHandler(),
		NewTimeHandler(),
		NewTranslationHandler(),
	}
	handlers = append(handlers, cfg.Handlers...)

	stats := make(map[Kind]*usage, len(handlers))
	for _, h := range handlers {
		stats[h.Kind()] = &usage{}
	}

	logger := cfg.Logger.With("component", "intent.registry")
	logger.Info("intent registry initialized", "handlers", len(handlers))

	return &Registry{
		cfg:      cfg,
		handlers: handlers,
		timers:   timers,
		logger:   logger,
		stats:    stats,
	}
}

// ClassifyAndHandle scores text against every handler and runs the
// winner. Empty input, vision requests, and low-confidence text are
// answered without invoking any handler.
func (r *Registry) ClassifyAndHandle(ctx context.Context, text string) *Result {
	if strings.TrimSpace(text) == "" {
		return &Result{
			Kind:         KindUnknown,
			Confidence:   0.0,
			ResponseText: "I didn't hear anything. Could you please repeat that?",
			Success:      false,
		}
	}

	// Vision requests take priority over all handlers. The response
	// text here is a placeholder; the caller replaces it with the
	// scene description.
	if r.isVisionRequest(text) {
		return &Result{
			Kind:         KindVision,
			Confidence:   0.9,
			ResponseText: "Vision request detected - delegating to vision system",
			Success:      true,
			Payload:      map[string]any{PayloadDelegateVision: true},
		}
	}

	var best Handler
	bestScore := 0.0
	for _, h := range r.handlers {
		if score := h.Match(text); score > bestScore {
			bestScore = score
			best = h
		}
	}

	if best == nil || bestScore <= r.cfg.ConfidenceThreshold {
		r.logger.Info("no confident intent match", "text", text, "best", bestScore)
		return &Result{
			Kind:         KindGeneralChat,
			Confidence:   0.5,
			ResponseText: "Let me think about that.",
			Success:      true,
			Payload:      map[string]any{PayloadDelegateLLM: true},
		}
	}

	r.logger.Info("intent classified",
		"kind", best.Kind().String(),
		"confidence", fmt.Sprintf("%.2f", bestScore),
	)

	r.mu.Lock()
	r.stats[best.Kind()].requests++
	r.mu.Unlock()

	res := r.invoke(ctx, best, bestScore, text)
	if res.Success {
		r.mu.Lock()
		r.stats[best.Kind()].successes++
		r.mu.Unlock()
	}
	return res
}

// invoke runs a handler, converting errors and panics into failed
// results so nothing propagates into the turn loop.
func (r *Registry) invoke(ctx context.Context, h Handler, confidence float64, text string) (res *Result) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("intent handler panic", "kind", h.Kind().String(), "panic", rec)
			res = &Result{
				Kind:         h.Kind(),
				Confidence:   confidence,
				ResponseText: "Sorry, I had trouble processing your request.",
				Success:      false,
				ErrorMessage: fmt.Sprint(rec),
			}
		}
	}()

	out, err := h.Handle(ctx, text)
	if err != nil {
		r.logger.Error("intent handler error", "kind", h.Kind().String(), "error", err)
		return &Result{
			Kind:         h.Kind(),
			Confidence:   confidence,
			ResponseText: "Sorry, I had trouble processing your request.",
			Success:      false,
			ErrorMessage: err.Error(),
		}
	}
	return out
}

func (r *Registry) isVisionRequest(text string) bool {
	lower := strings.ToLower(text)
	for _, phrase := range r.cfg.VisionPhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}

// Timers returns the built-in timer handler, for cancellation and
// active-timer queries.
func (r *Registry) Timers() *TimerHandler {
	return r.timers
}

// Stats summarizes handler usage since startup. Only kinds with a
// registered handler are counted; delegated requests have no handler
// and are not tracked here.
type Stats struct {
	TotalRequests int                `json:"total_requests"`
	Counts        map[string]int     `json:"intent_counts"`
	SuccessRates  map[string]float64 `json:"success_rates"`
}

// Stats returns a snapshot of per-kind usage counters.
func (r *Registry) Stats() Stats {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := Stats{
		Counts:       make(map[string]int, len(r.stats)),
		SuccessRates: make(map[string]float64, len(r.stats)),
	}
	for kind, u := range r.stats {
		s.TotalRequests += u.requests
		s.Counts[kind.String()] = u.requests
		rate := 0.0
		if u.requests > 0 {
			rate = float64(u.successes) / float64(u.requests) * 100
		}
		s.SuccessRates[kind.String()] = rate
	}
	return s
}

// Capability describes one registered handler.
type Capability struct {
	Kind     string   `json:"intent_type"`
	Keywords []string `json:"keywords"`
	Examples []string `json:"examples"`
}

// Capabilities lists every registered handler with its keywords and
// example phrases, in registration order.
func (r *Registry) Capabilities() []Capability {
	caps := make([]Capability, 0, len(r.handlers))
	for _, h := range r.handlers {
		caps = append(caps, Capability{
			Kind:     h.Kind().String(),
			Keywords: h.Keywords(),
			Examples: h.Examples(),
		})
	}
	return caps
}
