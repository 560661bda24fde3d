package hotword

import (
	"log/slog"
	"time"
)

// Config holds detector configuration.
type Config struct {
	// AccessKey is the Picovoice credential. Required for the
	// Porcupine detector.
	AccessKey string

	// KeywordPaths are custom keyword model files, tried as given and
	// then under ModelDir. When none exists the built-in "picovoice"
	// keyword is used instead.
	KeywordPaths []string

	// ModelDir is the fallback directory for keyword files.
	ModelDir string

	// Sensitivity trades misses against false triggers, in [0, 1].
	Sensitivity float32

	// DeviceIndex selects the audio input device. -1 is the default
	// device.
	DeviceIndex int

	// FrameYield is the pause between detection loop iterations.
	FrameYield time.Duration

	// MockInterval is the firing period of the Mock detector.
	MockInterval time.Duration

	// Observability
	Logger *slog.Logger
}

// Option is a functional option for configuring a detector.
type Option func(*Config)

// WithAccessKey sets the Picovoice access key.
func WithAccessKey(key string) Option {
	return func(c *Config) { c.AccessKey = key }
}

// WithKeywordPaths sets the custom keyword model files.
func WithKeywordPaths(paths ...string) Option {
	return func(c *Config) { c.KeywordPaths = paths }
}

// WithModelDir sets the fallback directory for keyword files.
func WithModelDir(dir string) Option {
	return func(c *Config) { c.ModelDir = dir }
}

// WithSensitivity sets the detection sensitivity.
func WithSensitivity(s float32) Option {
	return func(c *Config) { c.Sensitivity = s }
}

// WithDeviceIndex selects the audio input device.
func WithDeviceIndex(i int) Option {
	return func(c *Config) { c.DeviceIndex = i }
}

// WithFrameYield sets the pause between detection loop iterations.
func WithFrameYield(d time.Duration) Option {
	return func(c *Config) { c.FrameYield = d }
}

// WithMockInterval sets the Mock detector's firing period.
func WithMockInterval(d time.Duration) Option {
	return func(c *Config) { c.MockInterval = d }
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Config) { c.Logger = l }
}

// DefaultConfig returns the stock detector configuration.
func DefaultConfig() *Config {
	return &Config{
		KeywordPaths: []string{"parvis_linux.ppn"},
		ModelDir:     "models",
		Sensitivity:  0.5,
		DeviceIndex:  -1,
		FrameYield:   10 * time.Millisecond,
		MockInterval: 10 * time.Second,
		Logger:       slog.Default(),
	}
}

// Apply applies functional options to the config.
func (c *Config) Apply(opts ...Option) {
	for _, opt := range opts {
		opt(c)
	}
}

// Validate checks that required configuration is present. Only the
// Porcupine detector needs the access key; the Mock never calls this.
func (c *Config) Validate() error {
	if c.AccessKey == "" {
		return ErrNoAccessKey
	}
	return nil
}
