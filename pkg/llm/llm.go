// Package llm provides text generation over locally hosted language
// model backends. Two backends are supported: an Ollama daemon reached
// over HTTP, and a llama.cpp command line build invoked as a
// subprocess. The Engine probes them in order at startup and adopts
// the first one that answers.
//
// Example usage:
//
//	engine := llm.NewEngine(
//		llm.WithOllamaURL("http://localhost:11434"),
//		llm.WithMaxTokens(150),
//	)
//	if err := engine.Initialize(ctx); err != nil {
//		return err
//	}
//	defer engine.Close()
//
//	reply, err := engine.Generate(ctx, "User: hello\nAssistant:", 0)
package llm

import "context"

// Generator produces completion text for a prompt.
type Generator interface {
	// Name identifies the backend in logs and errors.
	Name() string

	// Available is a cheap probe for whether the backend can serve
	// requests at all. It must return quickly.
	Available(ctx context.Context) error

	// Initialize prepares the backend for generation, discovering
	// which model it will serve.
	Initialize(ctx context.Context) error

	// Generate returns completion text for the prompt. A maxTokens of
	// zero or less uses the configured default budget.
	Generate(ctx context.Context, prompt string, maxTokens int) (string, error)

	// Close releases any held resources.
	Close() error
}
