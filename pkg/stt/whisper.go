package stt

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// Whisper records from the default microphone with arecord and
// transcribes with a local whisper.cpp build. arecord is used instead
// of an in-process capture library because it behaves reliably on the
// Raspberry Pi ALSA stack this targets.
type Whisper struct {
	cfg    *Config
	logger *slog.Logger
}

var _ Transcriber = (*Whisper)(nil)

// NewWhisper creates a whisper.cpp transcriber. Nothing is checked
// until Initialize is called.
func NewWhisper(opts ...Option) *Whisper {
	cfg := DefaultConfig()
	cfg.Apply(opts...)

	return &Whisper{
		cfg:    cfg,
		logger: cfg.Logger.With("component", "stt.whisper"),
	}
}

// Name identifies the implementation.
func (w *Whisper) Name() string { return "whisper" }

// Initialize verifies the model and binary exist and that the binary
// runs at all.
func (w *Whisper) Initialize(ctx context.Context) error {
	if _, err := os.Stat(w.cfg.ModelPath); err != nil {
		return fmt.Errorf("%w: %s", ErrModelNotFound, w.cfg.ModelPath)
	}
	if _, err := os.Stat(w.cfg.BinaryPath); err != nil {
		return fmt.Errorf("%w: %s", ErrBinaryNotFound, w.cfg.BinaryPath)
	}

	probeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := exec.CommandContext(probeCtx, w.cfg.BinaryPath, "--help").Run(); err != nil {
		return fmt.Errorf("stt: whisper binary check failed: %w", err)
	}

	w.logger.Info("whisper initialized", "model", w.cfg.ModelPath)
	return nil
}

// Transcribe records one utterance and transcribes it. provided is
// ignored, the audio comes from the microphone.
func (w *Whisper) Transcribe(ctx context.Context, provided string) (string, error) {
	wavPath, err := w.record(ctx)
	if err != nil {
		return "", err
	}
	defer os.Remove(wavPath)

	return w.transcribeFile(ctx, wavPath)
}

// record captures a fixed-duration utterance to a temp WAV file and
// returns its path. The caller removes the file.
func (w *Whisper) record(ctx context.Context) (string, error) {
	tmp, err := os.CreateTemp("", "parvis-*.wav")
	if err != nil {
		return "", fmt.Errorf("stt: create temp file: %w", err)
	}
	path := tmp.Name()
	tmp.Close()

	w.logger.Info("recording", "seconds", w.cfg.RecordSeconds)

	cmd := exec.CommandContext(ctx, "arecord",
		"-f", "S16_LE",
		"-r", strconv.Itoa(w.cfg.SampleRate),
		"-c", "1",
		"-d", strconv.Itoa(w.cfg.RecordSeconds),
		path,
	)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("stt: recording failed: %w: %s", err, strings.TrimSpace(stderr.String()))
	}

	info, err := os.Stat(path)
	if err != nil || info.Size() == 0 {
		os.Remove(path)
		return "", ErrNoAudio
	}
	return path, nil
}

// transcribeFile runs whisper.cpp on a WAV file. The binary writes a
// .txt sidecar next to the input, which is read and removed.
func (w *Whisper) transcribeFile(ctx context.Context, wavPath string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, w.cfg.TranscribeTimeout)
	defer cancel()

	args := []string{
		"-m", w.cfg.ModelPath,
		"-f", wavPath,
		"--output-txt",
		"--no-prints",
	}
	if w.cfg.Language != "" {
		args = append(args, "-l", w.cfg.Language)
	}

	cmd := exec.CommandContext(ctx, w.cfg.BinaryPath, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	start := time.Now()
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("stt: whisper failed: %w: %s", err, strings.TrimSpace(stderr.String()))
	}

	txtPath := strings.TrimSuffix(wavPath, ".wav") + ".txt"
	data, err := os.ReadFile(txtPath)
	if err != nil {
		return "", ErrNoTranscript
	}
	os.Remove(txtPath)

	text := strings.TrimSpace(string(data))
	w.logger.Info("transcription complete", "chars", len(text), "elapsed", time.Since(start))
	return text, nil
}

// Close releases nothing, capture and inference are per-call
// subprocesses.
func (w *Whisper) Close() error { return nil }
