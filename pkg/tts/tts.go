// Package tts speaks assistant responses aloud.
//
// Three speakers cover the pipeline's execution modes: Espeak invokes
// the espeak binary for real audio output, Logged simulates synthesis
// latency and logs the text, and Print writes the response to stdout
// for text-only operation. All of them satisfy the Speaker interface
// so the speech service can swap them without changing caller code.
//
// Example usage:
//
//	sp := tts.NewEspeak(tts.WithSpeed(150))
//	defer sp.Close()
//
//	if err := sp.Speak(ctx, "Timer set for 5 minutes."); err != nil {
//		return err
//	}
package tts

import "context"

// Speaker voices one response.
type Speaker interface {
	// Name identifies the implementation in logs.
	Name() string

	// Speak voices the text and returns once playback is done.
	Speak(ctx context.Context, text string) error

	// Close releases audio resources.
	Close() error
}
