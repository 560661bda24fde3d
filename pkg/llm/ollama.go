package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/parvislabs/go-parvis/internal/httpc"
)

// Ollama generates text through a locally running Ollama daemon.
type Ollama struct {
	cfg    *Config
	http   *http.Client
	logger *slog.Logger

	mu    sync.Mutex
	model string
}

var _ Generator = (*Ollama)(nil)

// NewOllama creates an Ollama backend. It does not contact the daemon
// until Available or Initialize is called.
func NewOllama(opts ...Option) *Ollama {
	cfg := DefaultConfig()
	cfg.Apply(opts...)

	return &Ollama{
		cfg:    cfg,
		http:   httpc.NewClient(cfg.Timeout),
		logger: cfg.Logger.With("component", "llm.ollama"),
	}
}

// Name identifies the backend.
func (o *Ollama) Name() string { return "ollama" }

// Available reports whether the daemon answers its model listing
// within the probe timeout.
func (o *Ollama) Available(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, o.cfg.ProbeTimeout)
	defer cancel()

	resp, err := o.get(ctx, "/api/tags")
	if err != nil {
		return WrapError(o.Name(), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return o.statusError(resp)
	}
	return nil
}

type ollamaTag struct {
	Name string `json:"name"`
}

type ollamaTagsResponse struct {
	Models []ollamaTag `json:"models"`
}

// Initialize lists the daemon's models and picks one: the first whose
// name contains the preferred substring, otherwise the first listed.
func (o *Ollama) Initialize(ctx context.Context) error {
	resp, err := o.get(ctx, "/api/tags")
	if err != nil {
		return WrapError(o.Name(), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return o.statusError(resp)
	}

	var tags ollamaTagsResponse
	if err := json.NewDecoder(resp.Body).Decode(&tags); err != nil {
		return WrapError(o.Name(), fmt.Errorf("decode tags: %w", err))
	}
	if len(tags.Models) == 0 {
		return WrapError(o.Name(), ErrNoModels)
	}

	model := tags.Models[0].Name
	preferred := strings.ToLower(o.cfg.PreferredModel)
	if preferred != "" {
		for _, m := range tags.Models {
			if strings.Contains(strings.ToLower(m.Name), preferred) {
				model = m.Name
				break
			}
		}
	}

	o.mu.Lock()
	o.model = model
	o.mu.Unlock()

	o.logger.Info("ollama model selected", "model", model, "available", len(tags.Models))
	return nil
}

// Model returns the model adopted by Initialize, or "" before it.
func (o *Ollama) Model() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.model
}

type ollamaGenerateRequest struct {
	Model   string         `json:"model"`
	Prompt  string         `json:"prompt"`
	Stream  bool           `json:"stream"`
	Options map[string]any `json:"options"`
}

type ollamaGenerateResponse struct {
	Response string `json:"response"`
}

// Generate posts a completion request and returns the trimmed
// response text.
func (o *Ollama) Generate(ctx context.Context, prompt string, maxTokens int) (string, error) {
	model := o.Model()
	if model == "" {
		return "", WrapError(o.Name(), ErrNotInitialized)
	}
	if maxTokens <= 0 {
		maxTokens = o.cfg.MaxTokens
	}

	req := ollamaGenerateRequest{
		Model:  model,
		Prompt: prompt,
		Stream: false,
		Options: map[string]any{
			"num_predict": maxTokens,
			"temperature": o.cfg.Temperature,
			"top_p":       0.9,
			"stop":        []string{"Human:", "Assistant:", "\n\n"},
		},
	}

	start := time.Now()
	resp, err := o.post(ctx, "/api/generate", req)
	if err != nil {
		return "", WrapError(o.Name(), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", o.statusError(resp)
	}

	var result ollamaGenerateResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", WrapError(o.Name(), fmt.Errorf("decode response: %w", err))
	}

	text := strings.TrimSpace(result.Response)
	o.logger.Debug("generation complete", "model", model, "chars", len(text), "elapsed", time.Since(start))
	return text, nil
}

// Close releases idle connections.
func (o *Ollama) Close() error {
	o.http.CloseIdleConnections()
	return nil
}

func (o *Ollama) get(ctx context.Context, path string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, o.cfg.OllamaURL+path, nil)
	if err != nil {
		return nil, err
	}
	return o.http.Do(req)
}

func (o *Ollama) post(ctx context.Context, path string, payload any) (*http.Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.cfg.OllamaURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return o.http.Do(req)
}

// statusError drains the body into an APIError for non-200 responses.
func (o *Ollama) statusError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	return &APIError{
		Backend:    o.Name(),
		StatusCode: resp.StatusCode,
		Message:    strings.TrimSpace(string(body)),
	}
}
