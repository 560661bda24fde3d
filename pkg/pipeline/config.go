package pipeline

import (
	"io"
	"log/slog"
	"os"
	"time"
)

// Config holds pipeline configuration.
type Config struct {
	// Classifier routes utterances before the generative fallback.
	// When nil and intents are not disabled, a registry with the
	// built-in handlers is constructed.
	Classifier Classifier

	// Vision answers vision-delegated turns. When nil a fixed
	// placeholder response is used.
	Vision VisionBridge

	// DisableIntents skips classification entirely, sending every
	// utterance to the generative backend.
	DisableIntents bool

	// MaxTokens is the per-response generation budget.
	MaxTokens int

	// HistoryMax bounds the conversation history. Zero or less keeps
	// everything.
	HistoryMax int

	// TurnPause is the delay between turns in a batch loop.
	TurnPause time.Duration

	// OnTurn observes every completed turn, successful or not.
	OnTurn func(*ConversationTurn)

	// Output is where the interactive loop writes its prompt.
	Output io.Writer

	// Observability
	Logger *slog.Logger
}

// Option is a functional option for configuring the pipeline.
type Option func(*Config)

// WithClassifier sets the intent classifier.
func WithClassifier(c Classifier) Option {
	return func(cfg *Config) { cfg.Classifier = c }
}

// WithVision sets the vision bridge.
func WithVision(v VisionBridge) Option {
	return func(cfg *Config) { cfg.Vision = v }
}

// WithoutIntents disables intent classification.
func WithoutIntents() Option {
	return func(cfg *Config) { cfg.DisableIntents = true }
}

// WithMaxTokens sets the per-response generation budget.
func WithMaxTokens(n int) Option {
	return func(cfg *Config) { cfg.MaxTokens = n }
}

// WithHistoryMax bounds the conversation history length.
func WithHistoryMax(n int) Option {
	return func(cfg *Config) { cfg.HistoryMax = n }
}

// WithTurnPause sets the delay between batch loop turns.
func WithTurnPause(d time.Duration) Option {
	return func(cfg *Config) { cfg.TurnPause = d }
}

// WithOnTurn registers a turn observer.
func WithOnTurn(fn func(*ConversationTurn)) Option {
	return func(cfg *Config) { cfg.OnTurn = fn }
}

// WithOutput sets where the interactive loop writes its prompt.
func WithOutput(w io.Writer) Option {
	return func(cfg *Config) { cfg.Output = w }
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(cfg *Config) { cfg.Logger = l }
}

// DefaultConfig returns defaults matching the assistant's interactive
// use.
func DefaultConfig() *Config {
	return &Config{
		MaxTokens:  100,
		HistoryMax: 10,
		TurnPause:  time.Second,
		Output:     os.Stdout,
		Logger:     slog.Default(),
	}
}

// Apply applies functional options to the config.
func (c *Config) Apply(opts ...Option) {
	for _, opt := range opts {
		opt(c)
	}
}
