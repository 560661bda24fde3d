package stt

import (
	"context"
	"log/slog"
	"time"
)

// Scripted returns supplied text after a realistic recognition delay.
// It keeps simulation-mode timing close to the hardware path without
// touching any audio device.
type Scripted struct {
	cfg    *Config
	logger *slog.Logger
}

var _ Transcriber = (*Scripted)(nil)

// NewScripted creates a scripted transcriber.
func NewScripted(opts ...Option) *Scripted {
	cfg := DefaultConfig()
	cfg.Apply(opts...)

	return &Scripted{
		cfg:    cfg,
		logger: cfg.Logger.With("component", "stt.scripted"),
	}
}

// Name identifies the implementation.
func (s *Scripted) Name() string { return "scripted" }

// Initialize always succeeds.
func (s *Scripted) Initialize(ctx context.Context) error { return nil }

// Transcribe waits the simulated delay and returns provided, or the
// default utterance when provided is empty.
func (s *Scripted) Transcribe(ctx context.Context, provided string) (string, error) {
	if err := sleep(ctx, s.cfg.SimDelay); err != nil {
		return "", err
	}
	text := provided
	if text == "" {
		text = s.cfg.DefaultUtterance
	}
	s.logger.Info("simulated transcription", "text", text)
	return text, nil
}

// Close releases nothing.
func (s *Scripted) Close() error { return nil }

// Direct passes caller-supplied text straight through, for text-only
// operation.
type Direct struct{}

var _ Transcriber = (*Direct)(nil)

// NewDirect creates a pass-through transcriber.
func NewDirect() *Direct { return &Direct{} }

// Name identifies the implementation.
func (d *Direct) Name() string { return "direct" }

// Initialize always succeeds.
func (d *Direct) Initialize(ctx context.Context) error { return nil }

// Transcribe returns provided unchanged.
func (d *Direct) Transcribe(ctx context.Context, provided string) (string, error) {
	return provided, nil
}

// Close releases nothing.
func (d *Direct) Close() error { return nil }

// sleep waits for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

