// Package assistant assembles the always-on voice assistant: the
// wake-word gate in front of the conversation pipeline, the intent
// classifier inside it, the vision bridge, and the optional monitor
// server. The App owns the lifecycle; every component must
// initialize or the app refuses to start.
//
// Example usage:
//
//	cfg := config.Load()
//	app := assistant.New(speech.ModeSimulation, cfg)
//	if err := app.Initialize(ctx); err != nil {
//		return err
//	}
//	defer app.Shutdown()
//
//	if err := app.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
//		return err
//	}
package assistant

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"sync/atomic"
	"time"

	"github.com/parvislabs/go-parvis/internal/config"
	"github.com/parvislabs/go-parvis/pkg/hotword"
	"github.com/parvislabs/go-parvis/pkg/intent"
	"github.com/parvislabs/go-parvis/pkg/llm"
	"github.com/parvislabs/go-parvis/pkg/pipeline"
	"github.com/parvislabs/go-parvis/pkg/speech"
	"github.com/parvislabs/go-parvis/pkg/stt"
	"github.com/parvislabs/go-parvis/pkg/tts"
	"github.com/parvislabs/go-parvis/pkg/vision"
	"github.com/parvislabs/go-parvis/pkg/web"
)

// ErrNotInitialized rejects Run before a successful Initialize.
var ErrNotInitialized = errors.New("assistant: not initialized")

// wakeAcknowledgment is spoken right after the wake word, before
// listening for the request.
const wakeAcknowledgment = "Yes? How can I help you?"

// wakeInputs feed simulated conversations; one is picked at random
// per wake trigger.
var wakeInputs = []string{
	"Hello Parvis!",
	"How are you today?",
	"What can you help me with?",
	"Tell me about yourself",
}

// SceneDescriber is the vision surface the app drives.
// *vision.Bridge satisfies it.
type SceneDescriber interface {
	Initialize(ctx context.Context) error
	DescribeScene(ctx context.Context, prompt string) string
	Close() error
}

// App is the assembled assistant.
type App struct {
	appCfg *config.Config
	cfg    *Config
	mode   speech.Mode
	logger *slog.Logger

	svc      pipeline.SpeechService
	registry *intent.Registry
	visioner SceneDescriber
	pipe     *pipeline.Pipeline
	detector hotword.Detector
	monitor  *web.Server

	rng *rand.Rand

	initialized atomic.Bool
	running     atomic.Bool
	turns       atomic.Int64
}

// New creates the app for a mode. appCfg nil loads the environment
// configuration.
func New(mode speech.Mode, appCfg *config.Config, opts ...Option) *App {
	if appCfg == nil {
		appCfg = config.Load()
	}
	cfg := DefaultConfig()
	cfg.Apply(opts...)

	seed := cfg.WakeSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	return &App{
		appCfg: appCfg,
		cfg:    cfg,
		mode:   mode,
		logger: cfg.Logger.With("component", "assistant", "mode", mode.String()),
		rng:    rand.New(rand.NewSource(seed)),
	}
}

// Initialize builds and readies every component: speech façade,
// intent classifier, vision bridge, conversation pipeline, wake-word
// gate, and the monitor when enabled. The first failure aborts and
// tears down whatever already started.
func (a *App) Initialize(ctx context.Context) error {
	a.logger.Info("initializing assistant")

	a.svc = a.cfg.Service
	if a.svc == nil {
		a.svc = a.buildService()
	}

	a.registry = intent.NewRegistry(intent.WithLogger(a.cfg.Logger))
	a.registry.Timers().SetCompletionFunc(a.onTimerComplete)

	a.visioner = a.cfg.Vision
	if a.visioner == nil {
		a.visioner = a.buildVision()
	}
	if err := a.visioner.Initialize(ctx); err != nil {
		a.logger.Error("vision bridge failed to initialize", "error", err)
		return fmt.Errorf("assistant: vision: %w", err)
	}
	a.logger.Info("vision bridge ready")

	a.pipe = pipeline.New(a.svc,
		pipeline.WithClassifier(a.registry),
		pipeline.WithVision(a.visioner),
		pipeline.WithMaxTokens(a.appCfg.LLM.MaxTokens),
		pipeline.WithHistoryMax(a.appCfg.HistoryMax),
		pipeline.WithOnTurn(a.onTurn),
		pipeline.WithLogger(a.cfg.Logger),
	)
	if err := a.pipe.Initialize(ctx); err != nil {
		a.logger.Error("conversation pipeline failed to initialize", "error", err)
		a.visioner.Close()
		return fmt.Errorf("assistant: %w", err)
	}
	a.logger.Info("conversation pipeline ready")

	if a.mode != speech.ModeText {
		a.detector = a.cfg.Detector
		if a.detector == nil {
			a.detector = hotword.New(a.mode == speech.ModeSimulation, a.onWake,
				hotword.WithAccessKey(a.appCfg.Hotword.AccessKey),
				hotword.WithKeywordPaths(a.appCfg.Hotword.KeywordPaths...),
				hotword.WithSensitivity(a.appCfg.Hotword.Sensitivity),
				hotword.WithMockInterval(a.appCfg.Hotword.MockInterval),
				hotword.WithLogger(a.cfg.Logger),
			)
		}
		if err := a.detector.Initialize(ctx); err != nil {
			a.logger.Error("wake word detector failed to initialize", "error", err)
			a.pipe.Close()
			a.visioner.Close()
			return fmt.Errorf("assistant: hotword: %w", err)
		}
		a.logger.Info("wake word detector ready")
	}

	if a.appCfg.Monitor.Enabled {
		a.monitor = web.NewServer(a.appCfg.Monitor.Port, a.cfg.Logger)
		a.monitor.OnStatus = func() any { return a.Status() }
		a.monitor.OnStats = func() any {
			stats, err := a.pipe.Stats()
			if err != nil {
				return &pipeline.PerformanceStats{}
			}
			return stats
		}
		a.monitor.OnHistory = func() any { return a.pipe.History() }
		a.monitor.OnIntents = func() any {
			return map[string]any{
				"stats":         a.registry.Stats(),
				"capabilities":  a.registry.Capabilities(),
				"active_timers": a.registry.Timers().Active(),
			}
		}
	}

	a.initialized.Store(true)
	a.logger.Info("assistant initialization complete")
	return nil
}

// buildService assembles the speech façade from the application
// configuration.
func (a *App) buildService() *speech.Service {
	return speech.NewService(a.mode,
		speech.WithSTTOptions(
			stt.WithModelPath(a.appCfg.STT.ModelPath),
			stt.WithBinaryPath(a.appCfg.STT.BinaryPath),
			stt.WithLanguage(a.appCfg.STT.Language),
			stt.WithSampleRate(a.appCfg.Audio.SampleRate),
			stt.WithRecordSeconds(a.appCfg.Audio.RecordSeconds),
			stt.WithLogger(a.cfg.Logger),
		),
		speech.WithLLMOptions(
			llm.WithOllamaURL(a.appCfg.LLM.OllamaURL),
			llm.WithPreferredModel(a.appCfg.LLM.PreferredModel),
			llm.WithBinaryPath(a.appCfg.LLM.LlamaBinaryPath),
			llm.WithModelPaths(a.appCfg.LLM.LlamaModelPaths...),
			llm.WithMaxTokens(a.appCfg.LLM.MaxTokens),
			llm.WithTemperature(a.appCfg.LLM.Temperature),
			llm.WithThreads(a.appCfg.LLM.Threads),
			llm.WithTimeout(a.appCfg.LLM.Timeout),
			llm.WithLogger(a.cfg.Logger),
		),
		speech.WithTTSOptions(
			tts.WithVoice(a.appCfg.TTS.Voice),
			tts.WithSpeed(a.appCfg.TTS.Speed),
			tts.WithLogger(a.cfg.Logger),
		),
		speech.WithLogger(a.cfg.Logger),
	)
}

// buildVision assembles the vision bridge. Only hardware mode uses
// the real camera and model.
func (a *App) buildVision() *vision.Bridge {
	return vision.New(a.mode != speech.ModeHardware,
		vision.WithModelPath(a.appCfg.Vision.ModelPath),
		vision.WithConfidenceThreshold(float64(a.appCfg.Vision.ConfidenceThreshold)),
		vision.WithCameraIndex(a.appCfg.Vision.CameraIndex),
		vision.WithInputSize(a.appCfg.Vision.ImageSize),
		vision.WithLogger(a.cfg.Logger),
	)
}

// Run serves conversations until ctx is cancelled: the wake-word loop
// in hardware and simulation modes, the interactive loop in text
// mode. It blocks.
func (a *App) Run(ctx context.Context) error {
	if !a.initialized.Load() {
		return ErrNotInitialized
	}

	a.running.Store(true)
	defer a.running.Store(false)

	if a.monitor != nil {
		a.monitor.StartAsync(ctx)
	}

	if a.mode == speech.ModeText {
		a.logger.Info("text conversation ready")
		return a.pipe.InteractiveLoop(ctx, a.cfg.Input)
	}

	a.logger.Info("listening for wake word", "phrase", "Parvis")
	return a.detector.Run(ctx)
}

// onWake runs one full conversation turn while the detector is
// suspended. Errors are logged and swallowed so the gate always
// resumes.
func (a *App) onWake(ctx context.Context) error {
	a.logger.Info("wake word detected, starting conversation")

	if err := a.svc.Synthesize(ctx, wakeAcknowledgment); err != nil {
		a.logger.Warn("wake acknowledgment failed", "error", err)
	}

	input := ""
	if a.mode != speech.ModeHardware {
		input = a.pickWakeInput()
	}

	turn := a.pipe.ProcessVoiceInput(ctx, input)
	if turn.Success {
		a.logger.Info("conversation complete",
			"user", turn.UserText, "assistant", turn.AssistantText, "total", turn.TotalTime)
	} else {
		a.logger.Error("conversation failed", "error", turn.ErrorMessage)
	}
	return nil
}

// pickWakeInput chooses the next simulated utterance.
func (a *App) pickWakeInput() string {
	return wakeInputs[a.rng.Intn(len(wakeInputs))]
}

// onTurn records and publishes every finished turn.
func (a *App) onTurn(t *pipeline.ConversationTurn) {
	a.turns.Add(1)
	if a.monitor != nil {
		a.monitor.PublishTurn(t)
	}
}

// onTimerComplete announces a finished timer. It runs on the timer's
// own goroutine and never blocks a conversation turn.
func (a *App) onTimerComplete(info intent.TimerInfo) {
	message := fmt.Sprintf("Your %s timer is done!", info.Description)
	a.logger.Info("timer finished", "id", info.ID, "duration", info.Description)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := a.svc.Synthesize(ctx, message); err != nil {
		a.logger.Warn("timer announcement failed", "error", err)
	}

	if a.monitor != nil {
		a.monitor.PublishTimer(info, message)
	}
}

// Status is a point-in-time snapshot of the assistant.
type Status struct {
	Running      bool         `json:"running"`
	Mode         string       `json:"mode"`
	GateState    string       `json:"gate_state"`
	Turns        int64        `json:"turns"`
	ActiveTimers int          `json:"active_timers"`
	Intents      intent.Stats `json:"intents"`
}

// Status reports the current snapshot. Safe to call from any
// goroutine.
func (a *App) Status() Status {
	s := Status{
		Running: a.running.Load(),
		Mode:    a.mode.String(),
		Turns:   a.turns.Load(),
	}
	if a.detector != nil {
		s.GateState = a.detector.State().String()
	} else {
		s.GateState = "none"
	}
	if a.registry != nil {
		s.ActiveTimers = len(a.registry.Timers().Active())
		s.Intents = a.registry.Stats()
	}
	return s
}

// Monitor exposes the monitor server when enabled, else nil.
func (a *App) Monitor() *web.Server {
	return a.monitor
}

// Pipeline exposes the conversation pipeline.
func (a *App) Pipeline() *pipeline.Pipeline {
	return a.pipe
}

// Shutdown stops every component. The first failure is returned but
// the teardown always runs to completion.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down assistant")
	a.running.Store(false)
	a.initialized.Store(false)

	var first error
	if a.detector != nil {
		a.detector.Stop()
		if err := a.detector.Close(); err != nil && first == nil {
			first = err
		}
	}
	if a.monitor != nil {
		if err := a.monitor.Shutdown(); err != nil && first == nil {
			first = err
		}
	}
	if a.pipe != nil {
		if err := a.pipe.Close(); err != nil && first == nil {
			first = err
		}
	}
	if a.visioner != nil {
		if err := a.visioner.Close(); err != nil && first == nil {
			first = err
		}
	}

	a.logger.Info("assistant stopped")
	return first
}
