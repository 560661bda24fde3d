package vision

import (
	"log/slog"
	"time"
)

// Config holds bridge and collaborator configuration.
type Config struct {
	// ModelPath is the YOLO ONNX weights file.
	ModelPath string

	// ConfidenceThreshold drops detections scoring below it, in [0, 1].
	ConfidenceThreshold float64

	// NMSThreshold is the non-maximum-suppression overlap cutoff.
	NMSThreshold float32

	// InputSize is the square side the detector resizes frames to.
	InputSize int

	// CameraIndex is the preferred video device. The webcam probes it
	// first, then the remaining indices 0 through 4.
	CameraIndex int

	// CaptureDelay is the mock camera's simulated capture time.
	CaptureDelay time.Duration

	// DetectDelay is the mock detector's simulated inference time.
	DetectDelay time.Duration

	// Seed fixes the mock detector's scenario sequence. Zero seeds
	// from the clock.
	Seed int64

	// Camera and Detector override the collaborators chosen by New.
	Camera   Camera
	Detector Detector

	// Observability
	Logger *slog.Logger
}

// Option is a functional option for configuring the bridge.
type Option func(*Config)

// WithModelPath sets the YOLO ONNX weights file.
func WithModelPath(path string) Option {
	return func(c *Config) { c.ModelPath = path }
}

// WithConfidenceThreshold sets the minimum detection confidence.
func WithConfidenceThreshold(t float64) Option {
	return func(c *Config) { c.ConfidenceThreshold = t }
}

// WithNMSThreshold sets the non-maximum-suppression cutoff.
func WithNMSThreshold(t float32) Option {
	return func(c *Config) { c.NMSThreshold = t }
}

// WithInputSize sets the detector's input square side.
func WithInputSize(n int) Option {
	return func(c *Config) { c.InputSize = n }
}

// WithCameraIndex sets the preferred video device index.
func WithCameraIndex(i int) Option {
	return func(c *Config) { c.CameraIndex = i }
}

// WithCaptureDelay sets the mock camera's simulated capture time.
func WithCaptureDelay(d time.Duration) Option {
	return func(c *Config) { c.CaptureDelay = d }
}

// WithDetectDelay sets the mock detector's simulated inference time.
func WithDetectDelay(d time.Duration) Option {
	return func(c *Config) { c.DetectDelay = d }
}

// WithSeed fixes the mock detector's scenario sequence.
func WithSeed(seed int64) Option {
	return func(c *Config) { c.Seed = seed }
}

// WithCamera supplies the camera directly.
func WithCamera(cam Camera) Option {
	return func(c *Config) { c.Camera = cam }
}

// WithDetector supplies the detector directly.
func WithDetector(det Detector) Option {
	return func(c *Config) { c.Detector = det }
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Config) { c.Logger = l }
}

// DefaultConfig returns the stock vision configuration.
func DefaultConfig() *Config {
	return &Config{
		ModelPath:           "models/yolov8n.onnx",
		ConfidenceThreshold: 0.5,
		NMSThreshold:        0.45,
		InputSize:           640,
		CameraIndex:         0,
		CaptureDelay:        500 * time.Millisecond,
		DetectDelay:         300 * time.Millisecond,
		Logger:              slog.Default(),
	}
}

// Apply applies functional options to the config.
func (c *Config) Apply(opts ...Option) {
	for _, opt := range opts {
		opt(c)
	}
}
