package tts

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"
)

func TestPrintWritesResponse(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrint(WithOutput(&buf))

	if err := p.Speak(context.Background(), "It's currently 03:04 PM"); err != nil {
		t.Fatalf("Speak failed: %v", err)
	}
	if got := buf.String(); got != "Assistant: It's currently 03:04 PM\n" {
		t.Errorf("unexpected output: %q", got)
	}
}

func TestLoggedHonorsDelay(t *testing.T) {
	l := NewLogged(WithSimDelay(50 * time.Millisecond))
	start := time.Now()
	if err := l.Speak(context.Background(), "hello"); err != nil {
		t.Fatalf("Speak failed: %v", err)
	}
	if elapsed := time.Since(start); elapsed < 50*time.Millisecond {
		t.Errorf("expected at least 50ms delay, got %v", elapsed)
	}
}

func TestLoggedCancelled(t *testing.T) {
	l := NewLogged(WithSimDelay(time.Minute))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := l.Speak(ctx, "hello"); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestMockRecordsSpokenText(t *testing.T) {
	m := NewMock()
	m.Speak(context.Background(), "one")
	m.Speak(context.Background(), "two")

	spoken := m.Spoken()
	if len(spoken) != 2 || spoken[0] != "one" || spoken[1] != "two" {
		t.Errorf("unexpected spoken texts: %v", spoken)
	}
	if n := m.CallCount("Speak"); n != 2 {
		t.Errorf("expected 2 Speak calls, got %d", n)
	}
}

func TestMockSpeakError(t *testing.T) {
	wantErr := errors.New("device busy")
	m := NewMock()
	m.SpeakFunc = func(ctx context.Context, text string) error { return wantErr }

	if err := m.Speak(context.Background(), "hello"); !errors.Is(err, wantErr) {
		t.Errorf("expected injected error, got %v", err)
	}
}
