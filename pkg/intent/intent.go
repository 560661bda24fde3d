// Package intent classifies user utterances and routes them to local
// deterministic handlers.
//
// A Registry holds a closed set of handlers (timer, weather, time,
// translation). Each handler scores incoming text against its keyword
// and pattern tables; the best scorer above the confidence threshold
// answers the request directly. Utterances that mention the camera or
// the scene short-circuit to vision delegation before any scoring, and
// text without a confident match falls through to generative
// delegation. Classification never returns an error: bad input and
// handler faults come back as failed results with a spoken-friendly
// explanation.
//
// Example usage:
//
//	reg := intent.NewRegistry()
//	res := reg.ClassifyAndHandle(ctx, "set a timer for 5 minutes")
//	fmt.Println(res.ResponseText)
package intent

import (
	"context"
	"math"
	"regexp"
	"strings"
)

// Kind identifies a category of user request.
type Kind int

// Supported intent kinds.
const (
	KindUnknown Kind = iota
	KindTimer
	KindWeather
	KindTime
	KindTranslation
	KindGeneralChat
	KindVision
)

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	switch k {
	case KindTimer:
		return "timer"
	case KindWeather:
		return "weather"
	case KindTime:
		return "time"
	case KindTranslation:
		return "translation"
	case KindGeneralChat:
		return "general_chat"
	case KindVision:
		return "vision"
	default:
		return "unknown"
	}
}

// Payload keys set on results that should be routed elsewhere instead
// of answered locally.
const (
	PayloadDelegateVision = "delegate_to_vision"
	PayloadDelegateLLM    = "delegate_to_llm"
)

// Result is the outcome of one classification call. It is immutable
// once returned.
type Result struct {
	Kind         Kind
	Confidence   float64
	ResponseText string
	Success      bool
	ErrorMessage string
	Payload      map[string]any
}

// Flag reports whether the named payload entry is set to true.
func (r *Result) Flag(key string) bool {
	if r == nil || r.Payload == nil {
		return false
	}
	b, ok := r.Payload[key].(bool)
	return ok && b
}

// Handler is one deterministic intent implementation.
type Handler interface {
	// Kind returns the intent category this handler answers.
	Kind() Kind

	// Match scores how well text fits this handler, in [0, 1].
	Match(text string) float64

	// Keywords returns the trigger keywords, for capability listings.
	Keywords() []string

	// Examples returns sample phrases this handler understands.
	Examples() []string

	// Handle answers the request. Implementations return a result even
	// for input they cannot act on; an error is reserved for internal
	// faults and is converted to a failed result by the registry.
	Handle(ctx context.Context, text string) (*Result, error)
}

// matcher implements the keyword and pattern scoring shared by the
// built-in handlers: +0.3 per distinct keyword hit capped at 0.7, a
// flat +0.5 if any pattern matches, clamped to 1.0.
type matcher struct {
	keywords []string
	patterns []*regexp.Regexp
}

// Match scores text against the keyword and pattern tables.
func (m *matcher) Match(text string) float64 {
	lower := strings.ToLower(text)

	score := 0.0
	hits := 0
	for _, kw := range m.keywords {
		if strings.Contains(lower, kw) {
			hits++
		}
	}
	if hits > 0 {
		score += math.Min(float64(hits)*0.3, 0.7)
	}

	for _, p := range m.patterns {
		if p.MatchString(lower) {
			score += 0.5
			break
		}
	}

	return math.Min(score, 1.0)
}

// Keywords returns the trigger keywords.
func (m *matcher) Keywords() []string { return m.keywords }

func compilePatterns(exprs ...string) []*regexp.Regexp {
	patterns := make([]*regexp.Regexp, len(exprs))
	for i, e := range exprs {
		patterns[i] = regexp.MustCompile(e)
	}
	return patterns
}
