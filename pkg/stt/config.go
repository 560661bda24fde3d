package stt

import (
	"log/slog"
	"time"
)

// Config holds transcriber configuration.
type Config struct {
	// Whisper
	ModelPath  string // ggml model file
	BinaryPath string // whisper.cpp CLI build
	Language   string // recognition language, empty for model default

	// Capture
	SampleRate    int // Hz
	RecordSeconds int // per-utterance recording window

	// Timeouts
	TranscribeTimeout time.Duration // whisper subprocess budget

	// Scripted
	DefaultUtterance string        // returned when no text is supplied
	SimDelay         time.Duration // simulated recognition latency

	// Observability
	Logger *slog.Logger
}

// Option is a functional option for configuring transcribers.
type Option func(*Config)

// WithModelPath sets the ggml model file path.
func WithModelPath(path string) Option {
	return func(c *Config) { c.ModelPath = path }
}

// WithBinaryPath sets the whisper.cpp binary path.
func WithBinaryPath(path string) Option {
	return func(c *Config) { c.BinaryPath = path }
}

// WithLanguage sets the recognition language code.
func WithLanguage(lang string) Option {
	return func(c *Config) { c.Language = lang }
}

// WithSampleRate sets the capture sample rate in Hz.
func WithSampleRate(hz int) Option {
	return func(c *Config) { c.SampleRate = hz }
}

// WithRecordSeconds sets the per-utterance recording window.
func WithRecordSeconds(s int) Option {
	return func(c *Config) { c.RecordSeconds = s }
}

// WithTranscribeTimeout sets the whisper subprocess budget.
func WithTranscribeTimeout(d time.Duration) Option {
	return func(c *Config) { c.TranscribeTimeout = d }
}

// WithDefaultUtterance sets the text the scripted transcriber returns
// when the caller supplies none.
func WithDefaultUtterance(text string) Option {
	return func(c *Config) { c.DefaultUtterance = text }
}

// WithSimDelay sets the scripted transcriber's simulated latency.
func WithSimDelay(d time.Duration) Option {
	return func(c *Config) { c.SimDelay = d }
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Config) { c.Logger = l }
}

// DefaultConfig returns defaults matching a local tiny-model setup.
func DefaultConfig() *Config {
	return &Config{
		ModelPath:         "models/ggml-tiny.bin",
		BinaryPath:        "models/whisper.cpp/main",
		Language:          "en",
		SampleRate:        16000,
		RecordSeconds:     5,
		TranscribeTimeout: 30 * time.Second,
		DefaultUtterance:  "Hello Parvis, how are you today?",
		SimDelay:          500 * time.Millisecond,
		Logger:            slog.Default(),
	}
}

// Apply applies functional options to the config.
func (c *Config) Apply(opts ...Option) {
	for _, opt := range opts {
		opt(c)
	}
}
