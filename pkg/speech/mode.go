package speech

import "fmt"

// Mode selects which strategy backs each service operation. It is
// fixed for the lifetime of a service.
type Mode int

const (
	// ModeHardware uses real audio capture, local model inference,
	// and audible playback.
	ModeHardware Mode = iota

	// ModeSimulation uses scripted transcription and logged playback
	// with realistic delays, but still calls the real generative
	// backend.
	ModeSimulation

	// ModeText passes text straight through and prints responses,
	// with no audio at all.
	ModeText
)

// String returns the CLI selector value for the mode.
func (m Mode) String() string {
	switch m {
	case ModeHardware:
		return "hardware"
	case ModeSimulation:
		return "simulation"
	case ModeText:
		return "text"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// ParseMode maps a CLI selector value to a Mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "hardware":
		return ModeHardware, nil
	case "simulation":
		return ModeSimulation, nil
	case "text":
		return ModeText, nil
	default:
		return 0, fmt.Errorf("speech: unknown mode %q", s)
	}
}
