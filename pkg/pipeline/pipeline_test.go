package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/parvislabs/go-parvis/pkg/speech"
)

// fakeSpeech implements SpeechService for tests. By default it
// passes the provided utterance through and succeeds at every stage.
type fakeSpeech struct {
	mode    speech.Mode
	initErr error

	TranscribeFunc func(ctx context.Context, provided string) (string, error)
	GenerateFunc   func(ctx context.Context, prompt string, maxTokens int) (string, error)
	SynthErr       error

	prompts   []string
	maxTokens []int
	spoken    []string
	closed    bool
}

var _ SpeechService = (*fakeSpeech)(nil)

func newFakeSpeech() *fakeSpeech {
	return &fakeSpeech{mode: speech.ModeText}
}

func (f *fakeSpeech) Mode() speech.Mode { return f.mode }

func (f *fakeSpeech) Initialize(ctx context.Context) error { return f.initErr }

func (f *fakeSpeech) Transcribe(ctx context.Context, provided string) (string, error) {
	if f.TranscribeFunc != nil {
		return f.TranscribeFunc(ctx, provided)
	}
	return provided, nil
}

func (f *fakeSpeech) Generate(ctx context.Context, prompt string, maxTokens int) (string, error) {
	f.prompts = append(f.prompts, prompt)
	f.maxTokens = append(f.maxTokens, maxTokens)
	if f.GenerateFunc != nil {
		return f.GenerateFunc(ctx, prompt, maxTokens)
	}
	return "Generated response", nil
}

func (f *fakeSpeech) Synthesize(ctx context.Context, text string) error {
	if f.SynthErr != nil {
		return f.SynthErr
	}
	f.spoken = append(f.spoken, text)
	return nil
}

func (f *fakeSpeech) Close() error {
	f.closed = true
	return nil
}

func newTestPipeline(t *testing.T, svc SpeechService, opts ...Option) *Pipeline {
	t.Helper()
	p := New(svc, opts...)
	if err := p.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	return p
}

func TestProcessVoiceInputNotInitialized(t *testing.T) {
	p := New(newFakeSpeech())

	turn := p.ProcessVoiceInput(context.Background(), "hello")
	if turn.Success {
		t.Fatal("turn succeeded before initialization")
	}
	if turn.ErrorMessage != "Pipeline not initialized" {
		t.Errorf("error = %q", turn.ErrorMessage)
	}
	if turn.ID == "" {
		t.Error("turn has no ID")
	}
}

func TestInitializeError(t *testing.T) {
	svc := newFakeSpeech()
	svc.initErr = errors.New("no model")

	p := New(svc)
	if err := p.Initialize(context.Background()); err == nil {
		t.Fatal("Initialize succeeded with failing service")
	}
	if p.Initialized() {
		t.Error("pipeline reports initialized after failure")
	}
}

func TestProcessVoiceInputLocalIntent(t *testing.T) {
	svc := newFakeSpeech()
	p := newTestPipeline(t, svc)

	turn := p.ProcessVoiceInput(context.Background(), "What time is it?")
	if !turn.Success {
		t.Fatalf("turn failed: %s", turn.ErrorMessage)
	}
	if turn.UserText != "What time is it?" {
		t.Errorf("user text = %q", turn.UserText)
	}

	pattern := regexp.MustCompile(`^It's currently \d{2}:\d{2} [AP]M$`)
	if !pattern.MatchString(turn.AssistantText) {
		t.Errorf("assistant text = %q, want time response", turn.AssistantText)
	}
	if len(svc.prompts) != 0 {
		t.Errorf("generative backend called for a local intent: %v", svc.prompts)
	}
	if len(svc.spoken) != 1 || svc.spoken[0] != turn.AssistantText {
		t.Errorf("spoken = %v", svc.spoken)
	}
	if turn.TotalTime <= 0 {
		t.Error("total time not recorded")
	}
}

func TestProcessVoiceInputClarifyingResponse(t *testing.T) {
	svc := newFakeSpeech()
	p := newTestPipeline(t, svc)

	// A timer request without a parseable duration produces a
	// clarifying response, which is spoken directly rather than
	// falling through to the generative model.
	turn := p.ProcessVoiceInput(context.Background(), "set a timer to remind me")
	if !turn.Success {
		t.Fatalf("turn failed: %s", turn.ErrorMessage)
	}
	if !strings.Contains(turn.AssistantText, "couldn't understand the timer duration") {
		t.Errorf("assistant text = %q", turn.AssistantText)
	}
	if len(svc.prompts) != 0 {
		t.Errorf("generative backend called: %v", svc.prompts)
	}
}

func TestProcessVoiceInputGenerativeFallback(t *testing.T) {
	svc := newFakeSpeech()
	svc.GenerateFunc = func(ctx context.Context, prompt string, maxTokens int) (string, error) {
		return "Why did the robot cross the road?", nil
	}
	p := newTestPipeline(t, svc)

	turn := p.ProcessVoiceInput(context.Background(), "Tell me a joke")
	if !turn.Success {
		t.Fatalf("turn failed: %s", turn.ErrorMessage)
	}
	if turn.AssistantText != "Why did the robot cross the road?" {
		t.Errorf("assistant text = %q", turn.AssistantText)
	}
	if len(svc.prompts) != 1 {
		t.Fatalf("generate calls = %d, want 1", len(svc.prompts))
	}
	if svc.prompts[0] != "User: Tell me a joke\nAssistant:" {
		t.Errorf("prompt = %q", svc.prompts[0])
	}
	if svc.maxTokens[0] != 100 {
		t.Errorf("max tokens = %d, want 100", svc.maxTokens[0])
	}
}

func TestProcessVoiceInputWithoutIntents(t *testing.T) {
	svc := newFakeSpeech()
	p := newTestPipeline(t, svc, WithoutIntents())

	turn := p.ProcessVoiceInput(context.Background(), "What time is it?")
	if !turn.Success {
		t.Fatalf("turn failed: %s", turn.ErrorMessage)
	}
	// With classification disabled everything goes to the model.
	if len(svc.prompts) != 1 {
		t.Fatalf("generate calls = %d, want 1", len(svc.prompts))
	}
	if turn.AssistantText != "Generated response" {
		t.Errorf("assistant text = %q", turn.AssistantText)
	}
}

func TestProcessVoiceInputVisionDelegation(t *testing.T) {
	t.Run("without bridge", func(t *testing.T) {
		svc := newFakeSpeech()
		p := newTestPipeline(t, svc)

		turn := p.ProcessVoiceInput(context.Background(), "What do you see?")
		if !turn.Success {
			t.Fatalf("turn failed: %s", turn.ErrorMessage)
		}
		want := "Let me take a look around... I can see various objects in the scene."
		if turn.AssistantText != want {
			t.Errorf("assistant text = %q", turn.AssistantText)
		}
		if len(svc.prompts) != 0 {
			t.Errorf("generative backend called: %v", svc.prompts)
		}
	})

	t.Run("with bridge", func(t *testing.T) {
		svc := newFakeSpeech()
		bridge := &fakeVision{description: "I can see a red ball on the table."}
		p := newTestPipeline(t, svc, WithVision(bridge))

		turn := p.ProcessVoiceInput(context.Background(), "What do you see?")
		if !turn.Success {
			t.Fatalf("turn failed: %s", turn.ErrorMessage)
		}
		if turn.AssistantText != "I can see a red ball on the table." {
			t.Errorf("assistant text = %q", turn.AssistantText)
		}
		if bridge.calls != 1 {
			t.Errorf("bridge calls = %d, want 1", bridge.calls)
		}
	})
}

type fakeVision struct {
	description string
	calls       int
}

func (f *fakeVision) DescribeScene(ctx context.Context, prompt string) string {
	f.calls++
	return f.description
}

func TestProcessVoiceInputFailures(t *testing.T) {
	t.Run("empty transcript", func(t *testing.T) {
		svc := newFakeSpeech()
		svc.TranscribeFunc = func(ctx context.Context, provided string) (string, error) {
			return "   ", nil
		}
		p := newTestPipeline(t, svc)

		turn := p.ProcessVoiceInput(context.Background(), "hello")
		if turn.Success {
			t.Fatal("turn succeeded with empty transcript")
		}
		if turn.ErrorMessage != "No speech detected or transcription failed" {
			t.Errorf("error = %q", turn.ErrorMessage)
		}
	})

	t.Run("transcription error", func(t *testing.T) {
		svc := newFakeSpeech()
		svc.TranscribeFunc = func(ctx context.Context, provided string) (string, error) {
			return "", errors.New("microphone unplugged")
		}
		p := newTestPipeline(t, svc)

		turn := p.ProcessVoiceInput(context.Background(), "hello")
		if turn.ErrorMessage != "No speech detected or transcription failed" {
			t.Errorf("error = %q", turn.ErrorMessage)
		}
	})

	t.Run("empty generation", func(t *testing.T) {
		svc := newFakeSpeech()
		svc.GenerateFunc = func(ctx context.Context, prompt string, maxTokens int) (string, error) {
			return "", errors.New("backend down")
		}
		p := newTestPipeline(t, svc)

		turn := p.ProcessVoiceInput(context.Background(), "Tell me a joke")
		if turn.Success {
			t.Fatal("turn succeeded with no response")
		}
		if turn.ErrorMessage != "No response generated" {
			t.Errorf("error = %q", turn.ErrorMessage)
		}
	})

	t.Run("synthesis failure", func(t *testing.T) {
		svc := newFakeSpeech()
		svc.SynthErr = errors.New("espeak not found")
		p := newTestPipeline(t, svc)

		turn := p.ProcessVoiceInput(context.Background(), "What time is it?")
		if turn.Success {
			t.Fatal("turn succeeded with failing synthesis")
		}
		if turn.ErrorMessage != "Text-to-speech failed" {
			t.Errorf("error = %q", turn.ErrorMessage)
		}
		// The response text survives even though voicing failed.
		if turn.AssistantText == "" {
			t.Error("assistant text lost on synthesis failure")
		}
	})
}

func TestHistoryKeepsSuccessesOnly(t *testing.T) {
	svc := newFakeSpeech()
	p := newTestPipeline(t, svc)

	p.ProcessVoiceInput(context.Background(), "What time is it?")
	p.ProcessVoiceInput(context.Background(), "   ")
	p.ProcessVoiceInput(context.Background(), "What's the date today?")

	history := p.History()
	if len(history) != 2 {
		t.Fatalf("history length = %d, want 2", len(history))
	}
	for i, turn := range history {
		if !turn.Success {
			t.Errorf("history[%d] is a failed turn", i)
		}
	}
}

func TestHistoryBounded(t *testing.T) {
	svc := newFakeSpeech()
	p := newTestPipeline(t, svc, WithHistoryMax(2))

	for i := 0; i < 4; i++ {
		turn := p.ProcessVoiceInput(context.Background(), fmt.Sprintf("What time is it? (%d)", i))
		if !turn.Success {
			t.Fatalf("turn %d failed: %s", i, turn.ErrorMessage)
		}
	}

	history := p.History()
	if len(history) != 2 {
		t.Fatalf("history length = %d, want 2", len(history))
	}
	if !strings.Contains(history[0].UserText, "(2)") {
		t.Errorf("oldest kept turn = %q, want the third", history[0].UserText)
	}
	if !strings.Contains(history[1].UserText, "(3)") {
		t.Errorf("newest kept turn = %q, want the fourth", history[1].UserText)
	}
}

func TestStats(t *testing.T) {
	svc := newFakeSpeech()
	p := newTestPipeline(t, svc)

	if _, err := p.Stats(); !errors.Is(err, ErrNoHistory) {
		t.Fatalf("Stats on empty history = %v, want ErrNoHistory", err)
	}

	for i := 0; i < 3; i++ {
		p.ProcessVoiceInput(context.Background(), "What time is it?")
	}

	stats, err := p.Stats()
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.TotalTurns != 3 || stats.SuccessfulTurns != 3 {
		t.Errorf("turns = %d/%d, want 3/3", stats.SuccessfulTurns, stats.TotalTurns)
	}
	if stats.SuccessRate != 100 {
		t.Errorf("success rate = %.1f, want 100", stats.SuccessRate)
	}
	if stats.Fastest > stats.Slowest {
		t.Errorf("fastest %v exceeds slowest %v", stats.Fastest, stats.Slowest)
	}
	if stats.AverageTotal <= 0 {
		t.Error("average total not computed")
	}
}

func TestOnTurnObserver(t *testing.T) {
	svc := newFakeSpeech()
	var seen []*ConversationTurn
	p := New(svc, WithOnTurn(func(turn *ConversationTurn) {
		seen = append(seen, turn)
	}))

	// Even a rejected turn notifies the observer.
	p.ProcessVoiceInput(context.Background(), "hello")
	if len(seen) != 1 {
		t.Fatalf("observed turns = %d, want 1", len(seen))
	}
	if seen[0].ErrorMessage != "Pipeline not initialized" {
		t.Errorf("observed error = %q", seen[0].ErrorMessage)
	}

	if err := p.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	p.ProcessVoiceInput(context.Background(), "What time is it?")
	if len(seen) != 2 {
		t.Fatalf("observed turns = %d, want 2", len(seen))
	}
	if !seen[1].Success {
		t.Error("successful turn not observed as such")
	}
}

func TestConversationLoop(t *testing.T) {
	var out bytes.Buffer
	svc := newFakeSpeech()
	p := newTestPipeline(t, svc, WithOutput(&out), WithTurnPause(time.Millisecond))

	if err := p.ConversationLoop(context.Background(), 3); err != nil {
		t.Fatalf("ConversationLoop: %v", err)
	}

	if len(p.History()) != 3 {
		t.Errorf("history length = %d, want 3", len(p.History()))
	}
	text := out.String()
	if !strings.Contains(text, "--- Turn 3/3 ---") {
		t.Errorf("output missing final turn marker:\n%s", text)
	}
	if !strings.Contains(text, "Performance summary") {
		t.Errorf("output missing summary:\n%s", text)
	}
}

func TestConversationLoopStopsOnFailure(t *testing.T) {
	var out bytes.Buffer
	svc := newFakeSpeech()
	turns := 0
	svc.TranscribeFunc = func(ctx context.Context, provided string) (string, error) {
		turns++
		if turns >= 2 {
			return "", nil
		}
		return provided, nil
	}
	p := newTestPipeline(t, svc, WithOutput(&out), WithTurnPause(time.Millisecond))

	if err := p.ConversationLoop(context.Background(), 5); err != nil {
		t.Fatalf("ConversationLoop: %v", err)
	}

	text := out.String()
	if !strings.Contains(text, "Turn failed: No speech detected or transcription failed") {
		t.Errorf("output missing failure line:\n%s", text)
	}
	if strings.Contains(text, "--- Turn 3/5 ---") {
		t.Errorf("loop continued past the failed turn:\n%s", text)
	}
}

func TestInteractiveLoop(t *testing.T) {
	var out bytes.Buffer
	svc := newFakeSpeech()
	p := newTestPipeline(t, svc, WithOutput(&out))

	in := strings.NewReader("What time is it?\n\n   \nquit\n")
	if err := p.InteractiveLoop(context.Background(), in); err != nil {
		t.Fatalf("InteractiveLoop: %v", err)
	}

	// One real turn; blank lines are skipped.
	if len(p.History()) != 1 {
		t.Errorf("history length = %d, want 1", len(p.History()))
	}
	if len(svc.spoken) == 0 || svc.spoken[len(svc.spoken)-1] != "Goodbye!" {
		t.Errorf("spoken = %v, want farewell last", svc.spoken)
	}
}

func TestInteractiveLoopEOF(t *testing.T) {
	svc := newFakeSpeech()
	p := newTestPipeline(t, svc, WithOutput(&bytes.Buffer{}))

	if err := p.InteractiveLoop(context.Background(), strings.NewReader("")); err != nil {
		t.Fatalf("InteractiveLoop at EOF: %v", err)
	}
}

func TestClose(t *testing.T) {
	svc := newFakeSpeech()
	p := newTestPipeline(t, svc)

	if err := p.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if !svc.closed {
		t.Error("service not closed")
	}
	if p.Initialized() {
		t.Error("pipeline still initialized after Close")
	}
}
