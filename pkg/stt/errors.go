package stt

import "errors"

// Sentinel errors for the stt package.
var (
	// ErrModelNotFound is returned when the ggml model file is missing.
	ErrModelNotFound = errors.New("stt: model not found")

	// ErrBinaryNotFound is returned when the whisper.cpp binary is
	// missing.
	ErrBinaryNotFound = errors.New("stt: whisper binary not found")

	// ErrNoAudio is returned when recording produced no audio data.
	ErrNoAudio = errors.New("stt: recording produced no audio")

	// ErrNoTranscript is returned when whisper ran but left no output
	// file behind.
	ErrNoTranscript = errors.New("stt: transcription output not found")
)
