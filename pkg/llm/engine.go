package llm

import (
	"context"
	"log/slog"
	"sync"
)

// Engine selects a generative backend at startup. Candidates are
// probed in order and the first one that initializes is adopted for
// the whole session. When none answers, Initialize fails and the
// caller decides what degraded behavior looks like.
type Engine struct {
	cfg      *Config
	backends []Generator
	logger   *slog.Logger

	mu     sync.Mutex
	active Generator
}

// NewEngine creates an engine with the default probe order, Ollama
// first and llama.cpp second. WithBackends replaces the order.
func NewEngine(opts ...Option) *Engine {
	cfg := DefaultConfig()
	cfg.Apply(opts...)

	backends := cfg.Backends
	if len(backends) == 0 {
		backends = []Generator{
			NewOllama(opts...),
			NewLlamaCpp(opts...),
		}
	}

	return &Engine{
		cfg:      cfg,
		backends: backends,
		logger:   cfg.Logger.With("component", "llm.engine"),
	}
}

// Initialize probes candidates in order and adopts the first that
// both answers its availability check and initializes. It returns a
// DetectError when every candidate fails.
func (e *Engine) Initialize(ctx context.Context) error {
	if len(e.backends) == 0 {
		return ErrNoBackend
	}

	var errs []error
	for _, b := range e.backends {
		if err := b.Available(ctx); err != nil {
			e.logger.Warn("backend unavailable, trying next", "backend", b.Name(), "error", err)
			errs = append(errs, err)
			continue
		}
		if err := b.Initialize(ctx); err != nil {
			e.logger.Warn("backend failed to initialize, trying next", "backend", b.Name(), "error", err)
			errs = append(errs, err)
			continue
		}

		e.mu.Lock()
		e.active = b
		e.mu.Unlock()

		e.logger.Info("llm backend selected", "backend", b.Name())
		return nil
	}

	return &DetectError{Errors: errs}
}

// Generate produces completion text with the adopted backend.
func (e *Engine) Generate(ctx context.Context, prompt string, maxTokens int) (string, error) {
	b := e.activeBackend()
	if b == nil {
		return "", ErrNotInitialized
	}
	return b.Generate(ctx, prompt, maxTokens)
}

// Backend returns the adopted backend name, or "" before Initialize
// succeeds.
func (e *Engine) Backend() string {
	b := e.activeBackend()
	if b == nil {
		return ""
	}
	return b.Name()
}

// Ready reports whether a backend has been adopted.
func (e *Engine) Ready() bool {
	return e.activeBackend() != nil
}

// Close closes every candidate backend.
func (e *Engine) Close() error {
	var first error
	for _, b := range e.backends {
		if err := b.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (e *Engine) activeBackend() Generator {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.active
}
