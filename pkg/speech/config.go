package speech

import (
	"log/slog"

	"github.com/parvislabs/go-parvis/pkg/llm"
	"github.com/parvislabs/go-parvis/pkg/stt"
	"github.com/parvislabs/go-parvis/pkg/tts"
)

// Config holds service configuration.
type Config struct {
	// Strategy overrides. When nil, the mode picks the strategy.
	Transcriber stt.Transcriber
	Generator   TextGenerator
	Speaker     tts.Speaker

	// Options forwarded to mode-selected strategies.
	STTOptions []stt.Option
	LLMOptions []llm.Option
	TTSOptions []tts.Option

	// Observability
	Logger *slog.Logger
}

// Option is a functional option for configuring the service.
type Option func(*Config)

// WithTranscriber overrides the mode-selected transcriber.
func WithTranscriber(t stt.Transcriber) Option {
	return func(c *Config) { c.Transcriber = t }
}

// WithGenerator overrides the default generative engine.
func WithGenerator(g TextGenerator) Option {
	return func(c *Config) { c.Generator = g }
}

// WithSpeaker overrides the mode-selected speaker.
func WithSpeaker(sp tts.Speaker) Option {
	return func(c *Config) { c.Speaker = sp }
}

// WithSTTOptions forwards options to the mode-selected transcriber.
func WithSTTOptions(opts ...stt.Option) Option {
	return func(c *Config) { c.STTOptions = opts }
}

// WithLLMOptions forwards options to the generative engine.
func WithLLMOptions(opts ...llm.Option) Option {
	return func(c *Config) { c.LLMOptions = opts }
}

// WithTTSOptions forwards options to the mode-selected speaker.
func WithTTSOptions(opts ...tts.Option) Option {
	return func(c *Config) { c.TTSOptions = opts }
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Config) { c.Logger = l }
}

// DefaultConfig returns an empty config with the default logger.
func DefaultConfig() *Config {
	return &Config{Logger: slog.Default()}
}

// Apply applies functional options to the config.
func (c *Config) Apply(opts ...Option) {
	for _, opt := range opts {
		opt(c)
	}
}
