package intent

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"testing"
)

func TestClassifyKinds(t *testing.T) {
	reg := NewRegistry()
	ctx := context.Background()

	tests := []struct {
		input string
		want  Kind
	}{
		{"Set a timer for 5 minutes", KindTimer},
		{"Start a 30 second timer", KindTimer},
		{"Remind me in 2 hours", KindTimer},
		{"Timer for 10 seconds", KindTimer},
		{"What's the weather like?", KindWeather},
		{"Is it raining outside?", KindWeather},
		{"How's the temperature today?", KindWeather},
		{"What time is it?", KindTime},
		{"What's today's date?", KindTime},
		{"Tell me the current time", KindTime},
		{"How do you say hello in Spanish?", KindTranslation},
		{"Translate water to French", KindTranslation},
		{"What is goodbye in German?", KindTranslation},
		{"What do you see?", KindVision},
		{"Look around and describe the scene", KindVision},
		{"Hello, how are you?", KindGeneralChat},
		{"What can you help me with?", KindGeneralChat},
	}

	for _, tt := range tests {
		res := reg.ClassifyAndHandle(ctx, tt.input)
		if res.Kind != tt.want {
			t.Errorf("ClassifyAndHandle(%q) kind = %s, want %s", tt.input, res.Kind, tt.want)
		}
		if res.Confidence < 0 || res.Confidence > 1 {
			t.Errorf("ClassifyAndHandle(%q) confidence = %v, out of [0,1]", tt.input, res.Confidence)
		}
		if res.ResponseText == "" {
			t.Errorf("ClassifyAndHandle(%q) returned empty response text", tt.input)
		}
	}
}

func TestClassifyEmptyInput(t *testing.T) {
	reg := NewRegistry()

	for _, input := range []string{"", "   ", "\t\n"} {
		res := reg.ClassifyAndHandle(context.Background(), input)
		if res.Kind != KindUnknown {
			t.Errorf("empty input %q classified as %s, want unknown", input, res.Kind)
		}
		if res.Success {
			t.Errorf("empty input %q marked successful", input)
		}
		if res.ResponseText != "I didn't hear anything. Could you please repeat that?" {
			t.Errorf("empty input response = %q", res.ResponseText)
		}
	}
}

func TestVisionShortCircuit(t *testing.T) {
	reg := NewRegistry()

	// "look at" outranks the timer keywords in the same sentence.
	for _, input := range []string{"What do you see?", "look at the timer over there", "check the camera please"} {
		res := reg.ClassifyAndHandle(context.Background(), input)
		if res.Kind != KindVision {
			t.Fatalf("ClassifyAndHandle(%q) kind = %s, want vision", input, res.Kind)
		}
		if !res.Flag(PayloadDelegateVision) {
			t.Errorf("ClassifyAndHandle(%q) missing delegate_to_vision payload", input)
		}
		if res.Confidence != 0.9 {
			t.Errorf("ClassifyAndHandle(%q) confidence = %v, want 0.9", input, res.Confidence)
		}
	}
}

func TestGeneralChatFallback(t *testing.T) {
	reg := NewRegistry()

	res := reg.ClassifyAndHandle(context.Background(), "tell me a story about dragons")
	if res.Kind != KindGeneralChat {
		t.Fatalf("kind = %s, want general_chat", res.Kind)
	}
	if !res.Flag(PayloadDelegateLLM) {
		t.Error("missing delegate_to_llm payload")
	}
	if res.Confidence != 0.5 {
		t.Errorf("confidence = %v, want 0.5", res.Confidence)
	}
	if res.ResponseText != "Let me think about that." {
		t.Errorf("response = %q", res.ResponseText)
	}
}

func TestTimeResponseShape(t *testing.T) {
	reg := NewRegistry()

	res := reg.ClassifyAndHandle(context.Background(), "What time is it?")
	if !res.Success {
		t.Fatalf("time request failed: %+v", res)
	}
	pattern := regexp.MustCompile(`^It's currently \d{2}:\d{2} (AM|PM)$`)
	if !pattern.MatchString(res.ResponseText) {
		t.Errorf("time response %q does not match %v", res.ResponseText, pattern)
	}
}

func TestStatsTracking(t *testing.T) {
	reg := NewRegistry()
	ctx := context.Background()

	reg.ClassifyAndHandle(ctx, "set a timer for 5 minutes")
	// Scores well on keywords but has no parsable duration, so the
	// timer handler runs and fails.
	reg.ClassifyAndHandle(ctx, "set timer alarm countdown")
	reg.ClassifyAndHandle(ctx, "what's the weather like?")
	// Neither delegated path has a registry handler, so neither counts.
	reg.ClassifyAndHandle(ctx, "what do you see?")
	reg.ClassifyAndHandle(ctx, "tell me a story")

	stats := reg.Stats()
	if stats.TotalRequests != 3 {
		t.Errorf("TotalRequests = %d, want 3", stats.TotalRequests)
	}
	if stats.Counts["timer"] != 2 {
		t.Errorf("timer count = %d, want 2", stats.Counts["timer"])
	}
	if stats.Counts["weather"] != 1 {
		t.Errorf("weather count = %d, want 1", stats.Counts["weather"])
	}
	if got := stats.SuccessRates["timer"]; got != 50 {
		t.Errorf("timer success rate = %v, want 50", got)
	}
	if got := stats.SuccessRates["weather"]; got != 100 {
		t.Errorf("weather success rate = %v, want 100", got)
	}
	if _, ok := stats.Counts["vision"]; ok {
		t.Error("vision tracked in stats despite having no handler")
	}
}

func TestCapabilitiesOrder(t *testing.T) {
	reg := NewRegistry()

	caps := reg.Capabilities()
	if len(caps) != 4 {
		t.Fatalf("len(Capabilities()) = %d, want 4", len(caps))
	}
	order := []string{"timer", "weather", "time", "translation"}
	for i, want := range order {
		if caps[i].Kind != want {
			t.Errorf("caps[%d].Kind = %s, want %s", i, caps[i].Kind, want)
		}
		if len(caps[i].Keywords) == 0 || len(caps[i].Examples) == 0 {
			t.Errorf("caps[%d] missing keywords or examples", i)
		}
	}
}

// stubHandler always matches with a fixed score and fails on demand.
type stubHandler struct {
	kind  Kind
	score float64
	err   error
	panic bool
}

func (s *stubHandler) Kind() Kind { return s.kind }

func (s *stubHandler) Match(text string) float64 { return s.score }

func (s *stubHandler) Keywords() []string { return []string{"stub"} }

func (s *stubHandler) Examples() []string { return []string{"stub"} }

func (s *stubHandler) Handle(ctx context.Context, text string) (*Result, error) {
	if s.panic {
		panic("stub exploded")
	}
	if s.err != nil {
		return nil, s.err
	}
	return &Result{Kind: s.kind, Confidence: s.score, ResponseText: "ok", Success: true}, nil
}

func TestHandlerErrorBecomesFailedResult(t *testing.T) {
	stub := &stubHandler{kind: KindGeneralChat, score: 1.0, err: errors.New("backend unavailable")}
	reg := NewRegistry(WithHandlers(stub))

	res := reg.ClassifyAndHandle(context.Background(), "zzz unmatched by builtins")
	if res.Kind != KindGeneralChat {
		t.Fatalf("kind = %s, want general_chat", res.Kind)
	}
	if res.Success {
		t.Error("failed handler produced successful result")
	}
	if res.ErrorMessage != "backend unavailable" {
		t.Errorf("ErrorMessage = %q", res.ErrorMessage)
	}
	if !strings.Contains(res.ResponseText, "trouble") {
		t.Errorf("response = %q, want apology", res.ResponseText)
	}

	stats := reg.Stats()
	if stats.Counts["general_chat"] != 1 {
		t.Errorf("general_chat count = %d, want 1", stats.Counts["general_chat"])
	}
	if stats.SuccessRates["general_chat"] != 0 {
		t.Errorf("general_chat success rate = %v, want 0", stats.SuccessRates["general_chat"])
	}
}

func TestHandlerPanicBecomesFailedResult(t *testing.T) {
	stub := &stubHandler{kind: KindGeneralChat, score: 1.0, panic: true}
	reg := NewRegistry(WithHandlers(stub))

	res := reg.ClassifyAndHandle(context.Background(), "zzz unmatched by builtins")
	if res.Success {
		t.Error("panicking handler produced successful result")
	}
	if !strings.Contains(res.ErrorMessage, "stub exploded") {
		t.Errorf("ErrorMessage = %q", res.ErrorMessage)
	}
}

func TestConfidenceThresholdOption(t *testing.T) {
	// With the bar raised above any single keyword hit, a borderline
	// phrase falls through to the language model.
	reg := NewRegistry(WithConfidenceThreshold(0.9))

	res := reg.ClassifyAndHandle(context.Background(), "is it raining outside?")
	if res.Kind != KindGeneralChat {
		t.Errorf("kind = %s, want general_chat with raised threshold", res.Kind)
	}
}
