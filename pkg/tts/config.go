package tts

import (
	"io"
	"log/slog"
	"os"
	"time"
)

// Config holds speaker configuration.
type Config struct {
	// Espeak
	Voice string // espeak voice, empty for the binary's default
	Speed int    // words per minute

	// Simulation
	SimDelay time.Duration // simulated synthesis latency

	// Output is where the print speaker writes. Defaults to stdout.
	Output io.Writer

	// Observability
	Logger *slog.Logger
}

// Option is a functional option for configuring speakers.
type Option func(*Config)

// WithVoice sets the espeak voice.
func WithVoice(voice string) Option {
	return func(c *Config) { c.Voice = voice }
}

// WithSpeed sets the speaking rate in words per minute.
func WithSpeed(wpm int) Option {
	return func(c *Config) { c.Speed = wpm }
}

// WithSimDelay sets the simulated synthesis latency.
func WithSimDelay(d time.Duration) Option {
	return func(c *Config) { c.SimDelay = d }
}

// WithOutput sets where the print speaker writes.
func WithOutput(w io.Writer) Option {
	return func(c *Config) { c.Output = w }
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Config) { c.Logger = l }
}

// DefaultConfig returns defaults matching a local espeak setup.
func DefaultConfig() *Config {
	return &Config{
		Voice:    "",
		Speed:    150,
		SimDelay: 300 * time.Millisecond,
		Output:   os.Stdout,
		Logger:   slog.Default(),
	}
}

// Apply applies functional options to the config.
func (c *Config) Apply(opts ...Option) {
	for _, opt := range opts {
		opt(c)
	}
}
