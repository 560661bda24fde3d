package assistant

import (
	"io"
	"log/slog"
	"os"

	"github.com/parvislabs/go-parvis/pkg/hotword"
	"github.com/parvislabs/go-parvis/pkg/pipeline"
)

// Config holds construction overrides. Collaborators left nil are
// built from the application configuration during Initialize.
type Config struct {
	// Service overrides the speech façade.
	Service pipeline.SpeechService

	// Detector overrides the wake-word gate.
	Detector hotword.Detector

	// Vision overrides the scene describer.
	Vision SceneDescriber

	// Input feeds the text-mode conversation loop.
	Input io.Reader

	// WakeSeed fixes the simulated wake utterance sequence. Zero
	// seeds from the clock.
	WakeSeed int64

	// Observability
	Logger *slog.Logger
}

// Option is a functional option for configuring the app.
type Option func(*Config)

// WithService supplies the speech façade directly.
func WithService(svc pipeline.SpeechService) Option {
	return func(c *Config) { c.Service = svc }
}

// WithDetector supplies the wake-word gate directly.
func WithDetector(det hotword.Detector) Option {
	return func(c *Config) { c.Detector = det }
}

// WithVision supplies the scene describer directly.
func WithVision(v SceneDescriber) Option {
	return func(c *Config) { c.Vision = v }
}

// WithInput sets the text-mode input stream.
func WithInput(r io.Reader) Option {
	return func(c *Config) { c.Input = r }
}

// WithWakeSeed fixes the simulated wake utterance sequence.
func WithWakeSeed(seed int64) Option {
	return func(c *Config) { c.WakeSeed = seed }
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Config) { c.Logger = l }
}

// DefaultConfig returns the stock app configuration.
func DefaultConfig() *Config {
	return &Config{
		Input:  os.Stdin,
		Logger: slog.Default(),
	}
}

// Apply applies functional options to the config.
func (c *Config) Apply(opts ...Option) {
	for _, opt := range opts {
		opt(c)
	}
}
