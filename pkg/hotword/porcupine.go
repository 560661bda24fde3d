package hotword

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	porcupine "github.com/Picovoice/porcupine/binding/go/v3"
	pvrecorder "github.com/Picovoice/pvrecorder/binding/go"
)

// Porcupine is the hardware wake-word gate. It feeds fixed-size
// microphone frames through the Porcupine keyword-spotting engine and
// fires the callback on each confident detection. The recorder is
// released while the callback runs so the conversation turn can own
// the audio device.
type Porcupine struct {
	cfg      *Config
	callback Callback
	logger   *slog.Logger

	engine   porcupine.Porcupine
	recorder pvrecorder.PvRecorder

	state gateState

	mu          sync.Mutex
	initialized bool
	stopCh      chan struct{}
	stopOnce    sync.Once
}

// NewPorcupine creates the hardware detector. Initialize must succeed
// before Run.
func NewPorcupine(callback Callback, opts ...Option) *Porcupine {
	cfg := DefaultConfig()
	cfg.Apply(opts...)

	return &Porcupine{
		cfg:      cfg,
		callback: callback,
		logger:   cfg.Logger.With("component", "hotword.porcupine"),
		stopCh:   make(chan struct{}),
	}
}

// Initialize loads the keyword model and opens the audio input. The
// three failure modes - missing access key, unloadable keyword model,
// unavailable audio device - are logged distinctly but all mean the
// detector is not ready.
func (d *Porcupine) Initialize(ctx context.Context) error {
	if err := d.cfg.Validate(); err != nil {
		d.logger.Error("picovoice access key not set",
			"hint", "get a free key from https://console.picovoice.ai/")
		return err
	}

	keywordPaths := d.resolveKeywordPaths()
	if len(keywordPaths) > 0 {
		sens := make([]float32, len(keywordPaths))
		for i := range sens {
			sens[i] = d.cfg.Sensitivity
		}
		d.engine = porcupine.Porcupine{
			AccessKey:     d.cfg.AccessKey,
			KeywordPaths:  keywordPaths,
			Sensitivities: sens,
		}
	} else {
		// The built-in keyword changes the actual trigger phrase, so
		// say it plainly rather than burying it at debug level.
		d.logger.Warn("no keyword model found, using built-in keyword",
			"keyword", "picovoice", "searched", d.cfg.KeywordPaths)
		d.engine = porcupine.Porcupine{
			AccessKey:       d.cfg.AccessKey,
			BuiltInKeywords: []porcupine.BuiltInKeyword{porcupine.PICOVOICE},
			Sensitivities:   []float32{d.cfg.Sensitivity},
		}
	}

	if err := d.engine.Init(); err != nil {
		d.logger.Error("keyword engine init failed", "error", err)
		return fmt.Errorf("hotword: keyword engine: %w", err)
	}

	d.recorder = pvrecorder.NewPvRecorder(porcupine.FrameLength)
	d.recorder.DeviceIndex = d.cfg.DeviceIndex
	if err := d.recorder.Init(); err != nil {
		d.engine.Delete()
		d.logger.Error("audio input unavailable", "device", d.cfg.DeviceIndex, "error", err)
		return fmt.Errorf("hotword: audio input: %w", err)
	}

	d.mu.Lock()
	d.initialized = true
	d.mu.Unlock()
	d.state.set(StateIdle)

	d.logger.Info("porcupine detector ready",
		"sample_rate", porcupine.SampleRate,
		"frame_length", porcupine.FrameLength,
		"custom_keywords", len(keywordPaths))
	return nil
}

// resolveKeywordPaths checks each configured keyword file as given and
// then under the model directory, keeping the ones that exist.
func (d *Porcupine) resolveKeywordPaths() []string {
	var found []string
	for _, p := range d.cfg.KeywordPaths {
		if _, err := os.Stat(p); err == nil {
			found = append(found, p)
			continue
		}
		alt := filepath.Join(d.cfg.ModelDir, p)
		if _, err := os.Stat(alt); err == nil {
			found = append(found, alt)
			continue
		}
		d.logger.Warn("keyword file not found", "path", p)
	}
	return found
}

// Run listens for the wake word until Stop is called or ctx is
// cancelled. Each detection suspends the recorder, runs the callback,
// and resumes listening - also after a callback error, so one bad turn
// never leaves the assistant deaf.
func (d *Porcupine) Run(ctx context.Context) error {
	d.mu.Lock()
	ready := d.initialized
	d.mu.Unlock()
	if !ready {
		return ErrNotInitialized
	}

	if err := d.recorder.Start(); err != nil {
		return fmt.Errorf("hotword: start recorder: %w", err)
	}
	d.state.set(StateListening)
	d.logger.Info("listening for wake word")

	for {
		select {
		case <-ctx.Done():
			d.shutdownLoop()
			return ctx.Err()
		case <-d.stopCh:
			d.shutdownLoop()
			return nil
		default:
		}

		frame, err := d.recorder.Read()
		if err != nil {
			d.logger.Error("audio frame read failed", "error", err)
			if err := sleepCtx(ctx, 100*time.Millisecond); err != nil {
				d.shutdownLoop()
				return err
			}
			continue
		}

		index, err := d.engine.Process(frame)
		if err != nil {
			d.logger.Error("keyword processing failed", "error", err)
			continue
		}
		if index >= 0 {
			if err := d.trigger(ctx); err != nil {
				d.shutdownLoop()
				return err
			}
		}

		// Yield so the loop never monopolizes a core.
		if err := sleepCtx(ctx, d.cfg.FrameYield); err != nil {
			d.shutdownLoop()
			return err
		}
	}
}

// trigger runs the wake callback with audio polling suspended.
func (d *Porcupine) trigger(ctx context.Context) error {
	d.logger.Info("wake word detected")
	d.state.set(StateTriggered)

	if err := d.recorder.Stop(); err != nil {
		d.logger.Warn("recorder pause failed", "error", err)
	}

	if err := d.callback(ctx); err != nil {
		d.logger.Error("wake callback failed, resuming anyway", "error", err)
	}

	select {
	case <-d.stopCh:
		d.state.set(StateStopped)
		return nil
	default:
	}

	if err := d.recorder.Start(); err != nil {
		d.state.set(StateStopped)
		return fmt.Errorf("hotword: resume recorder: %w", err)
	}
	d.state.set(StateListening)
	d.logger.Info("resumed listening for wake word")
	return nil
}

func (d *Porcupine) shutdownLoop() {
	if err := d.recorder.Stop(); err != nil {
		d.logger.Debug("recorder stop on shutdown", "error", err)
	}
	d.state.set(StateStopped)
	d.logger.Info("wake word listening stopped")
}

// Stop ends the listen loop.
func (d *Porcupine) Stop() {
	d.stopOnce.Do(func() { close(d.stopCh) })
}

// State reports the current gate state.
func (d *Porcupine) State() State {
	return d.state.get()
}

// Close releases the engine and audio device.
func (d *Porcupine) Close() error {
	d.Stop()

	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.initialized {
		return nil
	}
	d.initialized = false

	d.recorder.Delete()
	d.engine.Delete()
	d.logger.Info("porcupine detector closed")
	return nil
}

func sleepCtx(ctx context.Context, dur time.Duration) error {
	if dur <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(dur)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Verify Porcupine implements Detector at compile time.
var _ Detector = (*Porcupine)(nil)
