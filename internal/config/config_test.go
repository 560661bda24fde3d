package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load("testdata/nonexistent.env")

	if cfg.Audio.SampleRate != 16000 {
		t.Errorf("SampleRate = %d, want 16000", cfg.Audio.SampleRate)
	}
	if cfg.Audio.RecordSeconds != 5 {
		t.Errorf("RecordSeconds = %d, want 5", cfg.Audio.RecordSeconds)
	}
	if cfg.LLM.MaxTokens != 256 {
		t.Errorf("MaxTokens = %d, want 256", cfg.LLM.MaxTokens)
	}
	if cfg.LLM.OllamaURL != "http://localhost:11434" {
		t.Errorf("OllamaURL = %q", cfg.LLM.OllamaURL)
	}
	if cfg.TTS.Speed != 150 {
		t.Errorf("TTS.Speed = %d, want 150", cfg.TTS.Speed)
	}
	if cfg.HistoryMax != 10 {
		t.Errorf("HistoryMax = %d, want 10", cfg.HistoryMax)
	}
	if len(cfg.Hotword.KeywordPaths) != 1 || cfg.Hotword.KeywordPaths[0] != "parvis_linux.ppn" {
		t.Errorf("KeywordPaths = %v", cfg.Hotword.KeywordPaths)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("PARVIS_MAX_TOKENS", "64")
	t.Setenv("PARVIS_LOG_LEVEL", "debug")
	t.Setenv("PARVIS_MOCK_WAKE_INTERVAL", "2s")
	t.Setenv("PARVIS_KEYWORD_PATHS", "a.ppn, b.ppn")
	t.Setenv("PARVIS_MONITOR", "true")

	cfg := Load("testdata/nonexistent.env")

	if cfg.LLM.MaxTokens != 64 {
		t.Errorf("MaxTokens = %d, want 64", cfg.LLM.MaxTokens)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want debug", cfg.LogLevel)
	}
	if cfg.Hotword.MockInterval != 2*time.Second {
		t.Errorf("MockInterval = %v, want 2s", cfg.Hotword.MockInterval)
	}
	if len(cfg.Hotword.KeywordPaths) != 2 || cfg.Hotword.KeywordPaths[1] != "b.ppn" {
		t.Errorf("KeywordPaths = %v", cfg.Hotword.KeywordPaths)
	}
	if !cfg.Monitor.Enabled {
		t.Error("Monitor.Enabled = false, want true")
	}
}

func TestLoadBadValuesFallBack(t *testing.T) {
	t.Setenv("PARVIS_MAX_TOKENS", "not-a-number")
	t.Setenv("PARVIS_TEMPERATURE", "warm")

	cfg := Load("testdata/nonexistent.env")

	if cfg.LLM.MaxTokens != 256 {
		t.Errorf("MaxTokens = %d, want default 256", cfg.LLM.MaxTokens)
	}
	if cfg.LLM.Temperature != 0.7 {
		t.Errorf("Temperature = %v, want default 0.7", cfg.LLM.Temperature)
	}
}
