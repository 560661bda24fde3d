// Package config loads go-parvis configuration from the environment.
//
// Settings come from three layers, lowest priority first: built-in
// defaults, an optional .env file, and process environment variables.
// All variables are prefixed PARVIS_ except the Picovoice access key,
// which keeps the name its SDK documents.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Audio holds capture settings shared by the wake-word recorder and STT.
type Audio struct {
	SampleRate    int
	Channels      int
	RecordSeconds int
}

// Hotword holds wake-word engine settings.
type Hotword struct {
	AccessKey    string
	KeywordPaths []string
	Sensitivity  float32
	MockInterval time.Duration
}

// STT holds speech-to-text settings.
type STT struct {
	ModelPath  string
	BinaryPath string
	Language   string
}

// LLM holds generative backend settings.
type LLM struct {
	OllamaURL       string
	PreferredModel  string
	LlamaBinaryPath string
	LlamaModelPaths []string
	MaxTokens       int
	Temperature     float64
	Threads         int
	Timeout         time.Duration
}

// TTS holds speech synthesis settings.
type TTS struct {
	Voice string
	Speed int
}

// Vision holds camera and object detection settings.
type Vision struct {
	ModelPath           string
	ConfidenceThreshold float32
	CameraIndex         int
	ImageSize           int
}

// Monitor holds the web dashboard settings.
type Monitor struct {
	Enabled bool
	Port    string
}

// Config is the top-level go-parvis configuration.
type Config struct {
	LogLevel   string
	HistoryMax int
	Audio      Audio
	Hotword    Hotword
	STT        STT
	LLM        LLM
	TTS        TTS
	Vision     Vision
	Monitor    Monitor
}

// Load builds a Config from defaults, an optional .env file, and the
// environment. A missing .env file is not an error.
func Load(envFiles ...string) *Config {
	if len(envFiles) > 0 {
		_ = godotenv.Load(envFiles...)
	} else {
		_ = godotenv.Load()
	}

	return &Config{
		LogLevel:   getEnv("PARVIS_LOG_LEVEL", "info"),
		HistoryMax: getEnvInt("PARVIS_HISTORY_MAX", 10),
		Audio: Audio{
			SampleRate:    getEnvInt("PARVIS_SAMPLE_RATE", 16000),
			Channels:      getEnvInt("PARVIS_CHANNELS", 1),
			RecordSeconds: getEnvInt("PARVIS_RECORD_SECONDS", 5),
		},
		Hotword: Hotword{
			AccessKey:    getEnv("PICOVOICE_ACCESS_KEY", ""),
			KeywordPaths: getEnvList("PARVIS_KEYWORD_PATHS", []string{"parvis_linux.ppn"}),
			Sensitivity:  float32(getEnvFloat("PARVIS_HOTWORD_SENSITIVITY", 0.5)),
			MockInterval: getEnvDuration("PARVIS_MOCK_WAKE_INTERVAL", 10*time.Second),
		},
		STT: STT{
			ModelPath:  getEnv("PARVIS_WHISPER_MODEL", "models/ggml-tiny.bin"),
			BinaryPath: getEnv("PARVIS_WHISPER_BINARY", "models/whisper.cpp/main"),
			Language:   getEnv("PARVIS_LANGUAGE", "en"),
		},
		LLM: LLM{
			OllamaURL:       getEnv("PARVIS_OLLAMA_URL", "http://localhost:11434"),
			PreferredModel:  getEnv("PARVIS_LLM_MODEL", "tinyllama"),
			LlamaBinaryPath: getEnv("PARVIS_LLAMA_BINARY", "models/llama.cpp/build/bin/llama-cli"),
			LlamaModelPaths: getEnvList("PARVIS_LLAMA_MODELS", []string{
				"models/tinyllama-1.1b-chat-v1.0.Q4_K_M.gguf",
				"models/Phi-3-mini-4k-instruct-q4.gguf",
			}),
			MaxTokens:   getEnvInt("PARVIS_MAX_TOKENS", 256),
			Temperature: getEnvFloat("PARVIS_TEMPERATURE", 0.7),
			Threads:     getEnvInt("PARVIS_THREADS", 4),
			Timeout:     getEnvDuration("PARVIS_LLM_TIMEOUT", 30*time.Second),
		},
		TTS: TTS{
			Voice: getEnv("PARVIS_TTS_VOICE", "en"),
			Speed: getEnvInt("PARVIS_TTS_SPEED", 150),
		},
		Vision: Vision{
			ModelPath:           getEnv("PARVIS_VISION_MODEL", "models/yolov8n.onnx"),
			ConfidenceThreshold: float32(getEnvFloat("PARVIS_VISION_CONFIDENCE", 0.5)),
			CameraIndex:         getEnvInt("PARVIS_CAMERA_INDEX", 0),
			ImageSize:           getEnvInt("PARVIS_IMAGE_SIZE", 640),
		},
		Monitor: Monitor{
			Enabled: getEnvBool("PARVIS_MONITOR", false),
			Port:    getEnv("PARVIS_MONITOR_PORT", "8090"),
		},
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func getEnvList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
