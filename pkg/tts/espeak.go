package tts

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strconv"
	"strings"
)

// Espeak speaks through the espeak binary. Playback blocks until the
// utterance finishes, which keeps turn timing honest.
type Espeak struct {
	cfg    *Config
	logger *slog.Logger
}

var _ Speaker = (*Espeak)(nil)

// NewEspeak creates an espeak speaker.
func NewEspeak(opts ...Option) *Espeak {
	cfg := DefaultConfig()
	cfg.Apply(opts...)

	return &Espeak{
		cfg:    cfg,
		logger: cfg.Logger.With("component", "tts.espeak"),
	}
}

// Name identifies the implementation.
func (e *Espeak) Name() string { return "espeak" }

// Speak voices the text and waits for playback to finish.
func (e *Espeak) Speak(ctx context.Context, text string) error {
	args := []string{"-s", strconv.Itoa(e.cfg.Speed)}
	if e.cfg.Voice != "" {
		args = append(args, "-v", e.cfg.Voice)
	}
	args = append(args, text)

	cmd := exec.CommandContext(ctx, "espeak", args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		detail := strings.TrimSpace(stderr.String())
		if detail != "" {
			return fmt.Errorf("tts: espeak failed: %w: %s", err, detail)
		}
		return fmt.Errorf("tts: espeak failed: %w", err)
	}

	e.logger.Debug("spoke", "chars", len(text))
	return nil
}

// Close releases nothing, playback is a per-call subprocess.
func (e *Espeak) Close() error { return nil }
