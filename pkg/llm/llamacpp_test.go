package llm

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestLlamaCppAvailableMissingBinary(t *testing.T) {
	l := NewLlamaCpp(WithBinaryPath(filepath.Join(t.TempDir(), "llama-cli")))
	if err := l.Available(context.Background()); err == nil {
		t.Error("expected Available to fail for a missing binary")
	}
}

func TestLlamaCppInitializePicksFirstModelOnDisk(t *testing.T) {
	dir := t.TempDir()
	binary := filepath.Join(dir, "llama-cli")
	if err := os.WriteFile(binary, []byte("fake"), 0o755); err != nil {
		t.Fatal(err)
	}

	missing := filepath.Join(dir, "missing.gguf")
	present := filepath.Join(dir, "present.gguf")
	if err := os.WriteFile(present, []byte("fake model"), 0o644); err != nil {
		t.Fatal(err)
	}

	l := NewLlamaCpp(WithBinaryPath(binary), WithModelPaths(missing, present))
	if err := l.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	if got := l.Model(); got != present {
		t.Errorf("expected model %q, got %q", present, got)
	}
}

func TestLlamaCppInitializeNoModels(t *testing.T) {
	dir := t.TempDir()
	binary := filepath.Join(dir, "llama-cli")
	if err := os.WriteFile(binary, []byte("fake"), 0o755); err != nil {
		t.Fatal(err)
	}

	l := NewLlamaCpp(WithBinaryPath(binary), WithModelPaths(filepath.Join(dir, "missing.gguf")))
	err := l.Initialize(context.Background())
	if !errors.Is(err, ErrNoModels) {
		t.Errorf("expected ErrNoModels, got %v", err)
	}
}

func TestLlamaCppGenerateStripsPromptEcho(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell script fixture requires a unix shell")
	}

	dir := t.TempDir()
	binary := filepath.Join(dir, "llama-cli")
	// Arg layout is -m <model> -p <prompt> ..., so $4 is the prompt.
	// Simple-io builds echo the prompt before the completion.
	script := "#!/bin/sh\nprintf '%s Nice to meet you.' \"$4\"\n"
	if err := os.WriteFile(binary, []byte(script), 0o755); err != nil {
		t.Fatal(err)
	}
	model := filepath.Join(dir, "model.gguf")
	if err := os.WriteFile(model, []byte("fake model"), 0o644); err != nil {
		t.Fatal(err)
	}

	l := NewLlamaCpp(WithBinaryPath(binary), WithModelPaths(model))
	if err := l.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	got, err := l.Generate(context.Background(), "User: hello\nAssistant:", 32)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if got != "Nice to meet you." {
		t.Errorf("expected prompt echo stripped, got %q", got)
	}
}

func TestLlamaCppGenerateCommandFailure(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell script fixture requires a unix shell")
	}

	dir := t.TempDir()
	binary := filepath.Join(dir, "llama-cli")
	script := "#!/bin/sh\necho 'load failed' >&2\nexit 1\n"
	if err := os.WriteFile(binary, []byte(script), 0o755); err != nil {
		t.Fatal(err)
	}
	model := filepath.Join(dir, "model.gguf")
	if err := os.WriteFile(model, []byte("fake model"), 0o644); err != nil {
		t.Fatal(err)
	}

	l := NewLlamaCpp(WithBinaryPath(binary), WithModelPaths(model))
	if err := l.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	_, err := l.Generate(context.Background(), "hello", 32)
	if err == nil {
		t.Fatal("expected Generate to fail on non-zero exit")
	}
	var be *BackendError
	if !errors.As(err, &be) {
		t.Fatalf("expected BackendError, got %T: %v", err, err)
	}
	if be.Backend != "llamacpp" {
		t.Errorf("expected llamacpp backend, got %q", be.Backend)
	}
}

func TestLlamaCppGenerateBeforeInitialize(t *testing.T) {
	l := NewLlamaCpp()
	_, err := l.Generate(context.Background(), "hi", 0)
	if !errors.Is(err, ErrNotInitialized) {
		t.Errorf("expected ErrNotInitialized, got %v", err)
	}
}
