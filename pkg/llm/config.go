package llm

import (
	"log/slog"
	"time"
)

// Config holds backend configuration.
type Config struct {
	// Ollama
	OllamaURL      string // daemon base URL
	PreferredModel string // substring match against served model names

	// llama.cpp
	BinaryPath string   // path to the llama-cli build
	ModelPaths []string // GGUF candidates, first one on disk wins
	Threads    int      // CPU threads for subprocess inference

	// Request defaults
	MaxTokens   int
	Temperature float64

	// Timeouts
	Timeout      time.Duration // per-generation budget
	ProbeTimeout time.Duration // availability check budget

	// Backends overrides the probe order, mainly for tests.
	Backends []Generator

	// Observability
	Logger *slog.Logger
}

// Option is a functional option for configuring backends.
type Option func(*Config)

// WithOllamaURL sets the Ollama daemon base URL.
// Example: "http://localhost:11434"
func WithOllamaURL(url string) Option {
	return func(c *Config) { c.OllamaURL = url }
}

// WithPreferredModel sets the model name substring preferred when the
// daemon serves several models.
func WithPreferredModel(name string) Option {
	return func(c *Config) { c.PreferredModel = name }
}

// WithBinaryPath sets the llama.cpp CLI binary path.
func WithBinaryPath(path string) Option {
	return func(c *Config) { c.BinaryPath = path }
}

// WithModelPaths sets the GGUF model candidates for llama.cpp.
func WithModelPaths(paths ...string) Option {
	return func(c *Config) { c.ModelPaths = paths }
}

// WithThreads sets the CPU thread count for subprocess inference.
func WithThreads(n int) Option {
	return func(c *Config) { c.Threads = n }
}

// WithMaxTokens sets the default generation token budget.
func WithMaxTokens(n int) Option {
	return func(c *Config) { c.MaxTokens = n }
}

// WithTemperature sets the sampling temperature.
func WithTemperature(t float64) Option {
	return func(c *Config) { c.Temperature = t }
}

// WithTimeout sets the per-generation timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Config) { c.Timeout = d }
}

// WithProbeTimeout sets the availability check timeout.
func WithProbeTimeout(d time.Duration) Option {
	return func(c *Config) { c.ProbeTimeout = d }
}

// WithBackends replaces the default backend probe order.
func WithBackends(backends ...Generator) Option {
	return func(c *Config) { c.Backends = backends }
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Config) { c.Logger = l }
}

// DefaultConfig returns defaults matching a local TinyLlama setup.
func DefaultConfig() *Config {
	return &Config{
		OllamaURL:      "http://localhost:11434",
		PreferredModel: "tinyllama",
		BinaryPath:     "models/llama.cpp/build/bin/llama-cli",
		ModelPaths: []string{
			"models/tinyllama-1.1b-chat-v1.0.Q4_K_M.gguf",
			"models/Phi-3-mini-4k-instruct-q4.gguf",
		},
		Threads:      4,
		MaxTokens:    256,
		Temperature:  0.7,
		Timeout:      30 * time.Second,
		ProbeTimeout: 2 * time.Second,
		Logger:       slog.Default(),
	}
}

// Apply applies functional options to the config.
func (c *Config) Apply(opts ...Option) {
	for _, opt := range opts {
		opt(c)
	}
}
