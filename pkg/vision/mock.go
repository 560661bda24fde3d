package vision

import (
	"context"
	"errors"
	"image"
	"image/color"
	"log/slog"
	"math/rand"
	"os"
	"sync"
	"time"

	"gocv.io/x/gocv"
)

// MockCamera draws a synthetic scene instead of touching hardware:
// a light blue background with a book and a cup, labelled and
// timestamped, written out after a short simulated capture delay.
type MockCamera struct {
	cfg    *Config
	logger *slog.Logger

	mu          sync.Mutex
	initialized bool
}

// NewMockCamera creates the synthetic camera.
func NewMockCamera(opts ...Option) *MockCamera {
	cfg := DefaultConfig()
	cfg.Apply(opts...)

	return &MockCamera{
		cfg:    cfg,
		logger: cfg.Logger.With("component", "vision.mockcamera"),
	}
}

// Initialize always succeeds.
func (m *MockCamera) Initialize() bool {
	m.mu.Lock()
	m.initialized = true
	m.mu.Unlock()
	m.logger.Info("mock camera ready")
	return true
}

// CaptureImage writes the synthetic scene as a JPEG.
func (m *MockCamera) CaptureImage(path string) (string, error) {
	m.mu.Lock()
	ready := m.initialized
	m.mu.Unlock()
	if !ready {
		return "", ErrNotInitialized
	}

	if path == "" {
		f, err := os.CreateTemp("", "parvis_mock_*.jpg")
		if err != nil {
			return "", err
		}
		path = f.Name()
		f.Close()
	}

	// Light blue canvas, BGR order.
	img := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(230, 216, 173, 0), 480, 640, gocv.MatTypeCV8UC3)
	defer img.Close()

	white := color.RGBA{R: 255, G: 255, B: 255, A: 0}
	black := color.RGBA{A: 0}
	brown := color.RGBA{R: 165, G: 42, B: 42, A: 0}
	darkBlue := color.RGBA{B: 139, A: 0}

	// A book shape.
	gocv.Rectangle(&img, image.Rect(100, 150, 200, 250), brown, -1)
	gocv.Rectangle(&img, image.Rect(100, 150, 200, 250), black, 2)
	gocv.PutText(&img, "BOOK", image.Pt(120, 205), gocv.FontHersheySimplex, 0.5, white, 1)

	// A cup shape.
	gocv.Circle(&img, image.Pt(340, 240), 40, white, -1)
	gocv.Circle(&img, image.Pt(340, 240), 40, black, 2)
	gocv.PutText(&img, "CUP", image.Pt(322, 245), gocv.FontHersheySimplex, 0.5, black, 1)

	stamp := time.Now().Format("2006-01-02 15:04:05")
	gocv.PutText(&img, "Mock Camera - "+stamp, image.Pt(10, 20), gocv.FontHersheySimplex, 0.5, black, 1)
	gocv.PutText(&img, "Simulated camera image", image.Pt(10, 465), gocv.FontHersheySimplex, 0.5, darkBlue, 1)

	time.Sleep(m.cfg.CaptureDelay)

	if ok := gocv.IMWrite(path, img); !ok {
		return "", errors.New("vision: failed to write mock image")
	}
	m.logger.Info("mock image created", "path", path)
	return path, nil
}

// Close marks the camera uninitialized.
func (m *MockCamera) Close() {
	m.mu.Lock()
	m.initialized = false
	m.mu.Unlock()
}

var _ Camera = (*MockCamera)(nil)

// MockDetector invents plausible detections without a model. Each
// call picks one of a fixed set of scene scenarios and jitters the
// confidences slightly; a fixed Seed makes the sequence reproducible.
type MockDetector struct {
	cfg    *Config
	logger *slog.Logger

	mu          sync.Mutex
	rng         *rand.Rand
	initialized bool
}

// NewMockDetector creates the scripted detector.
func NewMockDetector(opts ...Option) *MockDetector {
	cfg := DefaultConfig()
	cfg.Apply(opts...)

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	return &MockDetector{
		cfg:    cfg,
		logger: cfg.Logger.With("component", "vision.mockdetector"),
		rng:    rand.New(rand.NewSource(seed)),
	}
}

// Initialize always succeeds.
func (m *MockDetector) Initialize() bool {
	m.mu.Lock()
	m.initialized = true
	m.mu.Unlock()
	m.logger.Info("mock detector ready")
	return true
}

// mockScenarios are the scenes the detector rotates through. Boxes
// line up with the mock camera's 640x480 drawing.
var mockScenarios = [][]Object{
	{
		{ClassName: "person", Confidence: 0.92, Box: [4]float64{200, 60, 440, 470}},
	},
	{
		{ClassName: "person", Confidence: 0.88, Box: [4]float64{180, 70, 420, 475}},
		{ClassName: "book", Confidence: 0.74, Box: [4]float64{100, 150, 200, 250}},
	},
	{
		{ClassName: "book", Confidence: 0.81, Box: [4]float64{100, 150, 200, 250}},
		{ClassName: "cup", Confidence: 0.67, Box: [4]float64{300, 200, 380, 280}},
	},
	{
		{ClassName: "cup", Confidence: 0.71, Box: [4]float64{300, 200, 380, 280}},
	},
	{
		{ClassName: "person", Confidence: 0.9, Box: [4]float64{210, 65, 430, 470}},
		{ClassName: "book", Confidence: 0.77, Box: [4]float64{100, 150, 200, 250}},
		{ClassName: "cup", Confidence: 0.64, Box: [4]float64{300, 200, 380, 280}},
	},
}

// DetectObjects returns a jittered scenario after the simulated
// inference delay, filtered to confThreshold.
func (m *MockDetector) DetectObjects(ctx context.Context, imagePath string, confThreshold float64) ([]Object, error) {
	m.mu.Lock()
	ready := m.initialized
	m.mu.Unlock()
	if !ready {
		return nil, ErrNotInitialized
	}

	if m.cfg.DetectDelay > 0 {
		t := time.NewTimer(m.cfg.DetectDelay)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-t.C:
		}
	}

	m.mu.Lock()
	scenario := mockScenarios[m.rng.Intn(len(mockScenarios))]
	jitter := make([]float64, len(scenario))
	for i := range jitter {
		jitter[i] = m.rng.Float64()*0.08 - 0.04
	}
	m.mu.Unlock()

	var objects []Object
	for i, obj := range scenario {
		obj.Confidence += jitter[i]
		if obj.Confidence > 1 {
			obj.Confidence = 1
		}
		if obj.Confidence < confThreshold {
			continue
		}
		objects = append(objects, obj)
	}

	m.logger.Info("mock detection complete", "objects", len(objects))
	return objects, nil
}

// Close marks the detector uninitialized.
func (m *MockDetector) Close() {
	m.mu.Lock()
	m.initialized = false
	m.mu.Unlock()
}

var _ Detector = (*MockDetector)(nil)
