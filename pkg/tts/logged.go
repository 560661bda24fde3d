package tts

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Logged simulates synthesis latency and logs the text instead of
// playing it. It keeps simulation-mode timing close to the hardware
// path without an audio device.
type Logged struct {
	cfg    *Config
	logger *slog.Logger
}

var _ Speaker = (*Logged)(nil)

// NewLogged creates a logging speaker.
func NewLogged(opts ...Option) *Logged {
	cfg := DefaultConfig()
	cfg.Apply(opts...)

	return &Logged{
		cfg:    cfg,
		logger: cfg.Logger.With("component", "tts.logged"),
	}
}

// Name identifies the implementation.
func (l *Logged) Name() string { return "logged" }

// Speak waits the simulated delay and logs the text.
func (l *Logged) Speak(ctx context.Context, text string) error {
	if l.cfg.SimDelay > 0 {
		t := time.NewTimer(l.cfg.SimDelay)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
		}
	}
	l.logger.Info("simulated speech", "text", text)
	return nil
}

// Close releases nothing.
func (l *Logged) Close() error { return nil }

// Print writes responses to the configured output for text-only
// operation.
type Print struct {
	cfg *Config
}

var _ Speaker = (*Print)(nil)

// NewPrint creates a printing speaker.
func NewPrint(opts ...Option) *Print {
	cfg := DefaultConfig()
	cfg.Apply(opts...)
	return &Print{cfg: cfg}
}

// Name identifies the implementation.
func (p *Print) Name() string { return "print" }

// Speak writes the response to the output.
func (p *Print) Speak(ctx context.Context, text string) error {
	_, err := fmt.Fprintf(p.cfg.Output, "Assistant: %s\n", text)
	return err
}

// Close releases nothing.
func (p *Print) Close() error { return nil }
