// Package pipeline runs complete conversation turns: acquire an
// utterance, route it through intent classification to a local
// handler, the vision bridge, or the generative backend, then voice
// the response. Every turn records per-stage timing and a success
// flag; failures end the turn with a specific message and never
// propagate as errors.
//
// Example usage:
//
//	svc := speech.NewService(speech.ModeText)
//	p := pipeline.New(svc)
//	if err := p.Initialize(ctx); err != nil {
//		return err
//	}
//	defer p.Close()
//
//	turn := p.ProcessVoiceInput(ctx, "what time is it")
//	fmt.Println(turn.AssistantText)
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/parvislabs/go-parvis/pkg/intent"
	"github.com/parvislabs/go-parvis/pkg/speech"
)

// SpeechService is the façade surface the executor drives.
// *speech.Service satisfies it.
type SpeechService interface {
	Mode() speech.Mode
	Initialize(ctx context.Context) error
	Transcribe(ctx context.Context, provided string) (string, error)
	Generate(ctx context.Context, prompt string, maxTokens int) (string, error)
	Synthesize(ctx context.Context, text string) error
	Close() error
}

// Classifier routes an utterance to an intent result.
// *intent.Registry satisfies it.
type Classifier interface {
	ClassifyAndHandle(ctx context.Context, text string) *intent.Result
}

// VisionBridge describes the camera scene for vision-delegated turns.
// It never fails, an internal problem becomes an apology string.
type VisionBridge interface {
	DescribeScene(ctx context.Context, prompt string) string
}

// Pipeline executes conversation turns over a speech service.
type Pipeline struct {
	cfg    *Config
	svc    SpeechService
	logger *slog.Logger

	initialized atomic.Bool

	mu      sync.Mutex
	history []*ConversationTurn
}

// New creates a pipeline over the service. Unless intents are
// disabled, a classifier with the built-in handlers is used when none
// is supplied.
func New(svc SpeechService, opts ...Option) *Pipeline {
	cfg := DefaultConfig()
	cfg.Apply(opts...)

	if cfg.Classifier == nil && !cfg.DisableIntents {
		cfg.Classifier = intent.NewRegistry(intent.WithLogger(cfg.Logger))
	}

	return &Pipeline{
		cfg:    cfg,
		svc:    svc,
		logger: cfg.Logger.With("component", "pipeline", "mode", svc.Mode().String()),
	}
}

// Initialize prepares the speech service. The pipeline refuses to
// process turns until this succeeds.
func (p *Pipeline) Initialize(ctx context.Context) error {
	if err := p.svc.Initialize(ctx); err != nil {
		return fmt.Errorf("pipeline: %w", err)
	}
	p.initialized.Store(true)
	p.logger.Info("pipeline initialized")
	return nil
}

// Initialized reports whether the pipeline is ready for turns.
func (p *Pipeline) Initialized() bool {
	return p.initialized.Load()
}

// ProcessVoiceInput runs one conversation turn. utterance feeds the
// simulation and text modes; hardware mode records from the
// microphone instead. The returned turn is always non-nil and carries
// the failure message when a stage fails.
func (p *Pipeline) ProcessVoiceInput(ctx context.Context, utterance string) *ConversationTurn {
	turn := &ConversationTurn{
		ID:        uuid.NewString(),
		StartedAt: time.Now(),
	}
	defer func() {
		if p.cfg.OnTurn != nil {
			p.cfg.OnTurn(turn)
		}
	}()

	if !p.initialized.Load() {
		p.logger.Error("turn rejected, pipeline not initialized")
		turn.ErrorMessage = "Pipeline not initialized"
		return turn
	}

	totalStart := time.Now()

	// Stage 1: acquire the utterance.
	sttStart := time.Now()
	text, err := p.svc.Transcribe(ctx, utterance)
	turn.STTTime = time.Since(sttStart)
	turn.UserText = text

	if err != nil || strings.TrimSpace(text) == "" {
		turn.ErrorMessage = "No speech detected or transcription failed"
		turn.TotalTime = time.Since(totalStart)
		return turn
	}
	p.logger.Info("utterance acquired", "text", text, "elapsed", turn.STTTime)

	// Stage 2: classify and produce the response text.
	llmStart := time.Now()
	assistantText := p.respond(ctx, text)
	turn.LLMTime = time.Since(llmStart)
	turn.AssistantText = assistantText

	if strings.TrimSpace(assistantText) == "" {
		turn.ErrorMessage = "No response generated"
		turn.TotalTime = time.Since(totalStart)
		return turn
	}
	p.logger.Info("response ready", "text", assistantText, "elapsed", turn.LLMTime)

	// Stage 3: voice it.
	ttsStart := time.Now()
	synthErr := p.svc.Synthesize(ctx, assistantText)
	turn.TTSTime = time.Since(ttsStart)

	if synthErr != nil {
		turn.ErrorMessage = "Text-to-speech failed"
		turn.TotalTime = time.Since(totalStart)
		return turn
	}

	turn.Success = true
	turn.TotalTime = time.Since(totalStart)
	p.appendHistory(turn)

	p.logger.Info("conversation turn complete",
		"stt", turn.STTTime, "llm", turn.LLMTime, "tts", turn.TTSTime, "total", turn.TotalTime)
	return turn
}

// respond routes the utterance: local handler response, vision
// delegation, or generative fallback. An empty string means the
// response could not be produced.
func (p *Pipeline) respond(ctx context.Context, text string) string {
	if p.cfg.Classifier != nil {
		res := p.cfg.Classifier.ClassifyAndHandle(ctx, text)
		switch {
		case res.Flag(intent.PayloadDelegateVision):
			p.logger.Info("delegating to vision system")
			return p.describeScene(ctx)
		case res.Flag(intent.PayloadDelegateLLM):
			p.logger.Info("falling back to generative model")
		default:
			p.logger.Info("intent handled",
				"intent", res.Kind.String(), "confidence", res.Confidence, "success", res.Success)
			return res.ResponseText
		}
	}

	reply, err := p.svc.Generate(ctx, buildPrompt(text), p.cfg.MaxTokens)
	if err != nil {
		return ""
	}
	return reply
}

// describeScene asks the vision bridge for a description. Without a
// bridge a fixed response stands in.
func (p *Pipeline) describeScene(ctx context.Context) string {
	if p.cfg.Vision == nil {
		return "Let me take a look around... I can see various objects in the scene."
	}
	return p.cfg.Vision.DescribeScene(ctx, "")
}

// buildPrompt frames the utterance for a single-turn completion.
func buildPrompt(userInput string) string {
	return fmt.Sprintf("User: %s\nAssistant:", userInput)
}

// appendHistory records a successful turn, trimming to the configured
// bound.
func (p *Pipeline) appendHistory(turn *ConversationTurn) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.history = append(p.history, turn)
	if max := p.cfg.HistoryMax; max > 0 && len(p.history) > max {
		p.history = p.history[len(p.history)-max:]
	}
}

// History returns a snapshot of the recorded turns, oldest first.
func (p *Pipeline) History() []ConversationTurn {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]ConversationTurn, len(p.history))
	for i, t := range p.history {
		out[i] = *t
	}
	return out
}

// Close releases the speech service's resources.
func (p *Pipeline) Close() error {
	p.initialized.Store(false)
	return p.svc.Close()
}
