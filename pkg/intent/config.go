package intent

import "log/slog"

// Config holds registry configuration.
type Config struct {
	// ConfidenceThreshold is the minimum winning score a handler needs
	// before it is invoked; at or below it the request falls through
	// to generative delegation.
	ConfidenceThreshold float64

	// VisionPhrases short-circuit classification to vision delegation
	// when any of them appears in the lowercased text.
	VisionPhrases []string

	// Handlers are registered after the built-in set, in order.
	Handlers []Handler

	// TimerCompletion, when set, runs on the completion goroutine each
	// time a timer finishes.
	TimerCompletion func(TimerInfo)

	// Observability
	Logger *slog.Logger
}

// Option is a functional option for configuring the registry.
type Option func(*Config)

// WithConfidenceThreshold sets the minimum winning score.
func WithConfidenceThreshold(t float64) Option {
	return func(c *Config) { c.ConfidenceThreshold = t }
}

// WithVisionPhrases replaces the vision trigger phrase list.
func WithVisionPhrases(phrases ...string) Option {
	return func(c *Config) { c.VisionPhrases = phrases }
}

// WithHandlers registers additional handlers after the built-in set.
func WithHandlers(hs ...Handler) Option {
	return func(c *Config) { c.Handlers = append(c.Handlers, hs...) }
}

// WithTimerCompletion sets the timer completion callback.
func WithTimerCompletion(fn func(TimerInfo)) Option {
	return func(c *Config) { c.TimerCompletion = fn }
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Config) { c.Logger = l }
}

// DefaultConfig returns the stock classifier configuration.
func DefaultConfig() *Config {
	return &Config{
		ConfidenceThreshold: 0.3,
		VisionPhrases:       defaultVisionPhrases(),
		Logger:              slog.Default(),
	}
}

// Apply applies functional options to the config.
func (c *Config) Apply(opts ...Option) {
	for _, opt := range opts {
		opt(c)
	}
}

// defaultVisionPhrases marks requests for the camera rather than a
// local handler or the language model.
func defaultVisionPhrases() []string {
	return []string{
		"what do you see", "what can you see", "describe what you see",
		"look around", "tell me what you see", "what's in front",
		"describe the scene", "what's there", "look at", "vision",
		"camera", "image", "picture", "see anything",
	}
}
