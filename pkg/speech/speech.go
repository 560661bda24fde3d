// Package speech is the façade over speech-to-text, text generation,
// and text-to-speech. A service is built once for a pipeline mode and
// the mode decides which strategy backs each operation: real audio
// tooling in hardware mode, scripted text and logged playback in
// simulation mode, plain pass-through in text mode. Generation always
// uses the real backend so simulated runs still measure real model
// latency.
//
// Example usage:
//
//	svc := speech.NewService(speech.ModeSimulation)
//	if err := svc.Initialize(ctx); err != nil {
//		return err
//	}
//	defer svc.Close()
//
//	text, _ := svc.Transcribe(ctx, "")
//	reply, _ := svc.Generate(ctx, "User: "+text+"\nAssistant:", 100)
//	_ = svc.Synthesize(ctx, reply)
package speech

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/parvislabs/go-parvis/pkg/llm"
	"github.com/parvislabs/go-parvis/pkg/stt"
	"github.com/parvislabs/go-parvis/pkg/tts"
)

// TextGenerator is the generative backend surface the service needs.
// *llm.Engine satisfies it.
type TextGenerator interface {
	Initialize(ctx context.Context) error
	Generate(ctx context.Context, prompt string, maxTokens int) (string, error)
	Close() error
}

// Service exposes the three speech operations with strategies fixed
// at construction.
type Service struct {
	cfg         *Config
	mode        Mode
	transcriber stt.Transcriber
	generator   TextGenerator
	speaker     tts.Speaker
	logger      *slog.Logger
}

// NewService builds a service for the mode. Strategies not overridden
// through options are chosen by the mode.
func NewService(mode Mode, opts ...Option) *Service {
	cfg := DefaultConfig()
	cfg.Apply(opts...)

	s := &Service{
		cfg:    cfg,
		mode:   mode,
		logger: cfg.Logger.With("component", "speech.service", "mode", mode.String()),
	}

	s.transcriber = cfg.Transcriber
	if s.transcriber == nil {
		switch mode {
		case ModeHardware:
			s.transcriber = stt.NewWhisper(cfg.STTOptions...)
		case ModeSimulation:
			s.transcriber = stt.NewScripted(cfg.STTOptions...)
		default:
			s.transcriber = stt.NewDirect()
		}
	}

	s.generator = cfg.Generator
	if s.generator == nil {
		s.generator = llm.NewEngine(cfg.LLMOptions...)
	}

	s.speaker = cfg.Speaker
	if s.speaker == nil {
		switch mode {
		case ModeHardware:
			s.speaker = tts.NewEspeak(cfg.TTSOptions...)
		case ModeSimulation:
			s.speaker = tts.NewLogged(cfg.TTSOptions...)
		default:
			s.speaker = tts.NewPrint(cfg.TTSOptions...)
		}
	}

	return s
}

// Mode returns the mode the service was built for.
func (s *Service) Mode() Mode { return s.mode }

// Initialize prepares the transcriber and detects a generative
// backend. The service is unusable if this fails.
func (s *Service) Initialize(ctx context.Context) error {
	if err := s.transcriber.Initialize(ctx); err != nil {
		return fmt.Errorf("speech: transcriber: %w", err)
	}
	s.logger.Info("transcriber ready", "transcriber", s.transcriber.Name())

	if err := s.generator.Initialize(ctx); err != nil {
		return fmt.Errorf("speech: generator: %w", err)
	}
	s.logger.Info("generator ready")

	return nil
}

// Transcribe returns the utterance text for one turn. provided feeds
// the simulation and text strategies; the hardware strategy records
// from the microphone instead.
func (s *Service) Transcribe(ctx context.Context, provided string) (string, error) {
	text, err := s.transcriber.Transcribe(ctx, provided)
	if err != nil {
		s.logger.Error("transcription failed", "error", err)
		return "", err
	}
	return text, nil
}

// Generate produces completion text for the prompt within the token
// budget.
func (s *Service) Generate(ctx context.Context, prompt string, maxTokens int) (string, error) {
	text, err := s.generator.Generate(ctx, prompt, maxTokens)
	if err != nil {
		s.logger.Error("generation failed", "error", err)
		return "", err
	}
	return text, nil
}

// Synthesize voices the response text.
func (s *Service) Synthesize(ctx context.Context, text string) error {
	if err := s.speaker.Speak(ctx, text); err != nil {
		s.logger.Error("synthesis failed", "error", err)
		return err
	}
	return nil
}

// Close releases all strategy resources.
func (s *Service) Close() error {
	var first error
	if err := s.transcriber.Close(); err != nil {
		first = err
	}
	if err := s.generator.Close(); err != nil && first == nil {
		first = err
	}
	if err := s.speaker.Close(); err != nil && first == nil {
		first = err
	}
	return first
}
