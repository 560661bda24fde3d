// Package hotword gates the assistant behind a wake word.
//
// A Detector runs a continuous listen loop and fires the bound
// callback once per detection. While the callback runs the detector
// is Triggered and does not poll audio: the recorder is stopped
// before the callback and restarted after it returns, so a full
// conversation turn can own the microphone and a slow or failing
// callback never stacks triggers. The Porcupine detector does real
// keyword spotting; the Mock fires on a fixed interval for
// deterministic testing.
//
// Example usage:
//
//	det := hotword.New(false, func(ctx context.Context) error {
//		fmt.Println("wake word heard")
//		return nil
//	}, hotword.WithAccessKey(key))
//
//	if err := det.Initialize(ctx); err != nil {
//		return err
//	}
//	defer det.Close()
//	go det.Run(ctx)
package hotword

import (
	"context"
	"errors"
	"sync/atomic"
)

// State is the gate's position in its lifecycle.
type State int32

// Gate states. Stopped is terminal.
const (
	StateIdle State = iota
	StateListening
	StateTriggered
	StateStopped
)

// String returns the lowercase state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateListening:
		return "listening"
	case StateTriggered:
		return "triggered"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Callback runs when the wake word is heard. The detector logs a
// returned error and resumes listening regardless.
type Callback func(ctx context.Context) error

// Detector is a wake-word gate.
type Detector interface {
	// Initialize prepares the detection engine and audio input. Any
	// error means the detector is not ready and must not be run.
	Initialize(ctx context.Context) error

	// Run listens until Stop is called or ctx is cancelled.
	Run(ctx context.Context) error

	// Stop ends the listen loop. The detector cannot be restarted.
	Stop()

	// State reports the current gate state.
	State() State

	// Close releases engine and audio resources.
	Close() error
}

// Initialization failure modes. Callers treat any of them as a single
// not-ready signal; the distinction is for logs.
var (
	ErrNoAccessKey    = errors.New("hotword: picovoice access key not set")
	ErrNotInitialized = errors.New("hotword: detector not initialized")
	ErrStopped        = errors.New("hotword: detector stopped")
)

// New returns the gate for the session: the interval Mock when
// simulated, otherwise the Porcupine engine. callback is bound for
// the detector's lifetime.
func New(simulated bool, callback Callback, opts ...Option) Detector {
	if simulated {
		return NewMock(callback, opts...)
	}
	return NewPorcupine(callback, opts...)
}

// gateState wraps the atomic state shared by both detectors.
type gateState struct {
	v atomic.Int32
}

func (g *gateState) set(s State) { g.v.Store(int32(s)) }

func (g *gateState) get() State { return State(g.v.Load()) }
