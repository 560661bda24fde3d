// Package stt converts spoken audio to text.
//
// Three transcribers cover the pipeline's execution modes: Whisper
// records from the microphone and runs a local whisper.cpp build,
// Scripted returns canned text after a realistic delay, and Direct
// passes caller-supplied text straight through. All of them satisfy
// the Transcriber interface so the speech service can swap them
// without changing caller code.
//
// Example usage:
//
//	w := stt.NewWhisper(stt.WithModelPath("models/ggml-tiny.bin"))
//	if err := w.Initialize(ctx); err != nil {
//		return err
//	}
//	defer w.Close()
//
//	text, err := w.Transcribe(ctx, "")
package stt

import "context"

// Transcriber converts one utterance of speech to text.
type Transcriber interface {
	// Name identifies the implementation in logs.
	Name() string

	// Initialize verifies that models and tooling are present.
	Initialize(ctx context.Context) error

	// Transcribe returns the recognized text for one utterance.
	// Implementations that capture real audio ignore provided; the
	// scripted and pass-through implementations return it. Empty text
	// with a nil error means nothing was recognized.
	Transcribe(ctx context.Context, provided string) (string, error)

	// Close releases audio resources.
	Close() error
}
