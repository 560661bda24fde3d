package hotword

import (
	"context"
	"log/slog"
	"sync"
)

// Mock is the simulation gate. It fires the callback on a fixed
// interval instead of listening to audio, with the same lifecycle and
// suspend contract as the Porcupine detector, so the rest of the
// system cannot tell the two apart.
type Mock struct {
	cfg      *Config
	callback Callback
	logger   *slog.Logger

	state gateState

	mu          sync.Mutex
	initialized bool
	stopCh      chan struct{}
	stopOnce    sync.Once
}

// NewMock creates the interval detector. The interval comes from
// WithMockInterval.
func NewMock(callback Callback, opts ...Option) *Mock {
	cfg := DefaultConfig()
	cfg.Apply(opts...)

	return &Mock{
		cfg:      cfg,
		callback: callback,
		logger:   cfg.Logger.With("component", "hotword.mock"),
		stopCh:   make(chan struct{}),
	}
}

// Initialize always succeeds; the mock needs no engine or microphone.
func (d *Mock) Initialize(ctx context.Context) error {
	d.mu.Lock()
	d.initialized = true
	d.mu.Unlock()
	d.state.set(StateIdle)
	d.logger.Info("mock detector ready", "interval", d.cfg.MockInterval)
	return nil
}

// Run fires the callback every interval until Stop is called or ctx
// is cancelled. The timer does not tick while the callback runs, so
// triggers never overlap.
func (d *Mock) Run(ctx context.Context) error {
	d.mu.Lock()
	ready := d.initialized
	d.mu.Unlock()
	if !ready {
		return ErrNotInitialized
	}

	d.state.set(StateListening)
	d.logger.Info("simulating wake word", "interval", d.cfg.MockInterval)

	for {
		select {
		case <-ctx.Done():
			d.state.set(StateStopped)
			return ctx.Err()
		case <-d.stopCh:
			d.state.set(StateStopped)
			return nil
		default:
		}

		if err := sleepCtx(ctx, d.cfg.MockInterval); err != nil {
			d.state.set(StateStopped)
			return err
		}

		select {
		case <-d.stopCh:
			d.state.set(StateStopped)
			return nil
		default:
		}

		d.logger.Info("simulated wake word trigger")
		d.state.set(StateTriggered)
		if err := d.callback(ctx); err != nil {
			d.logger.Error("wake callback failed, resuming anyway", "error", err)
		}
		d.state.set(StateListening)
	}
}

// Stop ends the trigger loop.
func (d *Mock) Stop() {
	d.stopOnce.Do(func() { close(d.stopCh) })
}

// State reports the current gate state.
func (d *Mock) State() State {
	return d.state.get()
}

// Close stops the loop. There are no resources to release.
func (d *Mock) Close() error {
	d.Stop()
	return nil
}

var _ Detector = (*Mock)(nil)
