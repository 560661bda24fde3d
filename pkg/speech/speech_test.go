package speech

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/parvislabs/go-parvis/pkg/llm"
	"github.com/parvislabs/go-parvis/pkg/stt"
	"github.com/parvislabs/go-parvis/pkg/tts"
)

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{"hardware", ModeHardware, false},
		{"simulation", ModeSimulation, false},
		{"text", ModeText, false},
		{"voice", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseMode(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseMode(%q): expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseMode(%q) failed: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseMode(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestModeString(t *testing.T) {
	if ModeHardware.String() != "hardware" || ModeText.String() != "text" {
		t.Error("unexpected mode strings")
	}
}

func TestTextModePassesThroughInstantly(t *testing.T) {
	svc := NewService(ModeText, WithGenerator(readyGenerator("ok")))

	start := time.Now()
	got, err := svc.Transcribe(context.Background(), "what time is it")
	if err != nil {
		t.Fatalf("Transcribe failed: %v", err)
	}
	if got != "what time is it" {
		t.Errorf("expected pass-through, got %q", got)
	}
	if elapsed := time.Since(start); elapsed > 100*time.Millisecond {
		t.Errorf("text mode transcription should be instant, took %v", elapsed)
	}
}

func TestSimulationModeUsesScriptedText(t *testing.T) {
	svc := NewService(ModeSimulation,
		WithGenerator(readyGenerator("ok")),
		WithSTTOptions(stt.WithSimDelay(0), stt.WithDefaultUtterance("good morning")),
	)

	got, err := svc.Transcribe(context.Background(), "")
	if err != nil {
		t.Fatalf("Transcribe failed: %v", err)
	}
	if got != "good morning" {
		t.Errorf("expected default utterance, got %q", got)
	}

	got, err = svc.Transcribe(context.Background(), "set a timer")
	if err != nil {
		t.Fatalf("Transcribe failed: %v", err)
	}
	if got != "set a timer" {
		t.Errorf("expected supplied text, got %q", got)
	}
}

func TestInitializeFailsWhenNoBackendAvailable(t *testing.T) {
	engine := llm.NewEngine(llm.WithBackends(llm.MockWithError(errors.New("down"))))
	svc := NewService(ModeText, WithGenerator(engine))

	err := svc.Initialize(context.Background())
	if err == nil {
		t.Fatal("expected Initialize to fail")
	}
	if !strings.Contains(err.Error(), "generator") {
		t.Errorf("expected generator failure context, got %v", err)
	}
}

func TestGenerateDelegatesToEngine(t *testing.T) {
	mock := llm.NewMock()
	mock.GenerateFunc = func(ctx context.Context, prompt string, maxTokens int) (string, error) {
		return "the answer", nil
	}
	engine := llm.NewEngine(llm.WithBackends(mock))

	svc := NewService(ModeText, WithGenerator(engine))
	if err := svc.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	got, err := svc.Generate(context.Background(), "User: hi\nAssistant:", 100)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if got != "the answer" {
		t.Errorf("expected delegated response, got %q", got)
	}
}

func TestSynthesizeDelegatesToSpeaker(t *testing.T) {
	speaker := tts.NewMock()
	svc := NewService(ModeText,
		WithGenerator(readyGenerator("ok")),
		WithSpeaker(speaker),
	)

	if err := svc.Synthesize(context.Background(), "hello there"); err != nil {
		t.Fatalf("Synthesize failed: %v", err)
	}
	spoken := speaker.Spoken()
	if len(spoken) != 1 || spoken[0] != "hello there" {
		t.Errorf("unexpected spoken texts: %v", spoken)
	}
}

func TestTranscribeSurfacesErrors(t *testing.T) {
	wantErr := errors.New("microphone unplugged")
	transcriber := stt.NewMock()
	transcriber.TranscribeFunc = func(ctx context.Context, provided string) (string, error) {
		return "", wantErr
	}

	svc := NewService(ModeHardware,
		WithTranscriber(transcriber),
		WithGenerator(readyGenerator("ok")),
		WithSpeaker(tts.NewMock()),
	)

	text, err := svc.Transcribe(context.Background(), "")
	if !errors.Is(err, wantErr) {
		t.Errorf("expected transcriber error surfaced, got %v", err)
	}
	if text != "" {
		t.Errorf("expected empty text on failure, got %q", text)
	}
}

// readyGenerator is a TextGenerator that needs no backend detection.
func readyGenerator(reply string) TextGenerator {
	return &staticGenerator{reply: reply}
}

type staticGenerator struct {
	reply string
}

func (g *staticGenerator) Initialize(ctx context.Context) error { return nil }

func (g *staticGenerator) Generate(ctx context.Context, prompt string, maxTokens int) (string, error) {
	return g.reply, nil
}

func (g *staticGenerator) Close() error { return nil }
