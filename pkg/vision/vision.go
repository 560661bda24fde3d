// Package vision answers "what do you see" turns. A Bridge captures a
// frame through a Camera, finds objects with a Detector, and renders
// the detections as a spoken sentence. The bridge never surfaces an
// error to the conversation: any failure becomes an apology the
// assistant can say out loud.
//
// Both collaborators come in a real and a mock flavor. The Webcam and
// YOLO pair needs a video device and ONNX weights; the mocks draw a
// synthetic scene and invent plausible detections, so the full path
// runs on any machine.
//
// Example usage:
//
//	bridge := vision.New(true)
//	if err := bridge.Initialize(ctx); err != nil {
//		return err
//	}
//	defer bridge.Close()
//
//	fmt.Println(bridge.DescribeScene(ctx, ""))
package vision

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// Initialization failure modes. Either collaborator refusing to come
// up keeps the bridge out of service.
var (
	ErrCameraInit     = errors.New("vision: camera initialization failed")
	ErrDetectorInit   = errors.New("vision: detector initialization failed")
	ErrNotInitialized = errors.New("vision: bridge not initialized")
)

// Bridge runs the capture, detect, describe sequence for scene
// questions.
type Bridge struct {
	cfg      *Config
	camera   Camera
	detector Detector
	logger   *slog.Logger

	initialized atomic.Bool

	mu        sync.Mutex
	analyses  int
	successes int
	totalTime time.Duration
}

// New builds a bridge. simulated selects the mock camera and detector;
// otherwise the webcam and YOLO pair is used. WithCamera and
// WithDetector override either collaborator.
func New(simulated bool, opts ...Option) *Bridge {
	cfg := DefaultConfig()
	cfg.Apply(opts...)

	camera := cfg.Camera
	if camera == nil {
		if simulated {
			camera = NewMockCamera(opts...)
		} else {
			camera = NewWebcam(opts...)
		}
	}
	detector := cfg.Detector
	if detector == nil {
		if simulated {
			detector = NewMockDetector(opts...)
		} else {
			detector = NewYOLO(opts...)
		}
	}

	return &Bridge{
		cfg:      cfg,
		camera:   camera,
		detector: detector,
		logger:   cfg.Logger.With("component", "vision.bridge"),
	}
}

// Initialize brings up the camera and the detector. Both must be
// ready or the bridge refuses to serve.
func (b *Bridge) Initialize(ctx context.Context) error {
	if !b.camera.Initialize() {
		return ErrCameraInit
	}
	if !b.detector.Initialize() {
		b.camera.Close()
		return ErrDetectorInit
	}

	b.initialized.Store(true)
	b.logger.Info("vision bridge ready", "confidence_threshold", b.cfg.ConfidenceThreshold)
	return nil
}

// AnalyzeScene captures one frame, detects objects above the
// configured confidence threshold, and fills a Result. The result is
// always non-nil; failures set Error instead of returning one.
func (b *Bridge) AnalyzeScene(ctx context.Context, prompt string) *Result {
	start := time.Now()

	if !b.initialized.Load() {
		return &Result{
			Error:          "Vision bridge not initialized",
			ProcessingTime: time.Since(start),
		}
	}

	imagePath, err := b.camera.CaptureImage("")
	if err != nil {
		b.logger.Error("image capture failed", "error", err)
		b.recordAnalysis(false, time.Since(start))
		return &Result{
			Error:          "Failed to capture image",
			ProcessingTime: time.Since(start),
		}
	}
	b.logger.Info("image captured", "path", imagePath)

	objects, err := b.detector.DetectObjects(ctx, imagePath, b.cfg.ConfidenceThreshold)
	if err != nil {
		b.logger.Error("object detection failed", "error", err)
		b.recordAnalysis(false, time.Since(start))
		return &Result{
			ImagePath:      imagePath,
			Error:          "Object detection failed",
			ProcessingTime: time.Since(start),
		}
	}

	description := Describe(objects)
	if prompt != "" {
		description = prompt + " " + description
	}

	elapsed := time.Since(start)
	b.recordAnalysis(true, elapsed)
	b.logger.Info("scene analysis complete",
		"objects", len(objects), "description", description, "elapsed", elapsed)

	return &Result{
		Success:        true,
		ImagePath:      imagePath,
		Objects:        objects,
		Description:    description,
		ProcessingTime: elapsed,
	}
}

// DescribeScene returns the spoken answer for the scene. On any
// failure the answer is an apology carrying the reason, never an
// error.
func (b *Bridge) DescribeScene(ctx context.Context, prompt string) string {
	res := b.AnalyzeScene(ctx, prompt)
	if res.Success {
		return res.Description
	}
	reason := res.Error
	if reason == "" {
		reason = "Unknown error"
	}
	return "I'm sorry, I couldn't analyze the scene. " + reason
}

func (b *Bridge) recordAnalysis(success bool, elapsed time.Duration) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.analyses++
	if success {
		b.successes++
	}
	b.totalTime += elapsed
}

// Stats is a snapshot of the bridge's analysis counters.
type Stats struct {
	TotalAnalyses      int           `json:"total_analyses"`
	SuccessfulAnalyses int           `json:"successful_analyses"`
	SuccessRate        float64       `json:"success_rate"`
	AverageTime        time.Duration `json:"average_processing_time"`
	TotalTime          time.Duration `json:"total_processing_time"`
}

// Stats reports analysis counts and timing since construction.
func (b *Bridge) Stats() Stats {
	b.mu.Lock()
	defer b.mu.Unlock()

	s := Stats{
		TotalAnalyses:      b.analyses,
		SuccessfulAnalyses: b.successes,
		TotalTime:          b.totalTime,
	}
	if b.analyses > 0 {
		s.SuccessRate = float64(b.successes) / float64(b.analyses) * 100
		s.AverageTime = b.totalTime / time.Duration(b.analyses)
	}
	return s
}

// Close releases the camera and detector.
func (b *Bridge) Close() error {
	b.initialized.Store(false)
	b.camera.Close()
	b.detector.Close()
	b.logger.Info("vision bridge closed")
	return nil
}
