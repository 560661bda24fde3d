package llm

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"sync"
	"time"
)

// LlamaCpp generates text by invoking a local llama.cpp CLI build as
// a subprocess. It is the fallback when no Ollama daemon is running.
type LlamaCpp struct {
	cfg    *Config
	logger *slog.Logger

	mu    sync.Mutex
	model string
}

var _ Generator = (*LlamaCpp)(nil)

// NewLlamaCpp creates a llama.cpp backend. Nothing is checked until
// Available or Initialize is called.
func NewLlamaCpp(opts ...Option) *LlamaCpp {
	cfg := DefaultConfig()
	cfg.Apply(opts...)

	return &LlamaCpp{
		cfg:    cfg,
		logger: cfg.Logger.With("component", "llm.llamacpp"),
	}
}

// Name identifies the backend.
func (l *LlamaCpp) Name() string { return "llamacpp" }

// Available reports whether the CLI binary exists on disk.
func (l *LlamaCpp) Available(ctx context.Context) error {
	if _, err := os.Stat(l.cfg.BinaryPath); err != nil {
		return WrapError(l.Name(), fmt.Errorf("binary not found at %s: %w", l.cfg.BinaryPath, err))
	}
	return nil
}

// Initialize adopts the first model candidate present on disk.
func (l *LlamaCpp) Initialize(ctx context.Context) error {
	if err := l.Available(ctx); err != nil {
		return err
	}

	for _, path := range l.cfg.ModelPaths {
		if _, err := os.Stat(path); err == nil {
			l.mu.Lock()
			l.model = path
			l.mu.Unlock()
			l.logger.Info("llama.cpp model selected", "model", path)
			return nil
		}
	}
	return WrapError(l.Name(), ErrNoModels)
}

// Model returns the model path adopted by Initialize, or "" before it.
func (l *LlamaCpp) Model() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.model
}

// Generate runs one CLI inference. In simple-io mode the binary echoes
// the prompt before the completion, so the echo is stripped.
func (l *LlamaCpp) Generate(ctx context.Context, prompt string, maxTokens int) (string, error) {
	model := l.Model()
	if model == "" {
		return "", WrapError(l.Name(), ErrNotInitialized)
	}
	if maxTokens <= 0 {
		maxTokens = l.cfg.MaxTokens
	}

	ctx, cancel := context.WithTimeout(ctx, l.cfg.Timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, l.cfg.BinaryPath,
		"-m", model,
		"-p", prompt,
		"-n", strconv.Itoa(maxTokens),
		"--temp", strconv.FormatFloat(l.cfg.Temperature, 'f', -1, 64),
		"-t", strconv.Itoa(l.cfg.Threads),
		"--simple-io",
		"--log-disable",
	)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	if err := cmd.Run(); err != nil {
		detail := strings.TrimSpace(stderr.String())
		if detail != "" {
			return "", WrapError(l.Name(), fmt.Errorf("%w: %s", err, detail))
		}
		return "", WrapError(l.Name(), err)
	}

	output := strings.TrimSpace(stdout.String())
	if strings.HasPrefix(output, prompt) {
		output = strings.TrimSpace(output[len(prompt):])
	}

	l.logger.Debug("generation complete", "model", model, "chars", len(output), "elapsed", time.Since(start))
	return output, nil
}

// Close is a no-op, the subprocess exits after each generation.
func (l *LlamaCpp) Close() error { return nil }
