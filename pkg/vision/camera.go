package vision

import (
	"errors"
	"log/slog"
	"os"
	"sync"

	"gocv.io/x/gocv"
)

// Camera captures a single frame to an image file. Initialize
// reports readiness as a plain boolean; the reasons live in logs.
type Camera interface {
	Initialize() bool

	// CaptureImage writes a frame to path, or to a fresh temp file
	// when path is empty, and returns the file written.
	CaptureImage(path string) (string, error)

	Close()
}

// Webcam captures from the first working video device. The preferred
// index is probed first, then the remaining indices 0 through 4.
type Webcam struct {
	cfg    *Config
	logger *slog.Logger

	mu          sync.Mutex
	cam         *gocv.VideoCapture
	index       int
	initialized bool
}

// NewWebcam creates the real camera. Initialize must find a device
// before CaptureImage works.
func NewWebcam(opts ...Option) *Webcam {
	cfg := DefaultConfig()
	cfg.Apply(opts...)

	return &Webcam{
		cfg:    cfg,
		logger: cfg.Logger.With("component", "vision.webcam"),
		index:  -1,
	}
}

// Initialize probes video devices until one yields a valid frame.
func (w *Webcam) Initialize() bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	for _, idx := range w.probeOrder() {
		cam, err := gocv.VideoCaptureDevice(idx)
		if err != nil {
			w.logger.Debug("video device unavailable", "index", idx, "error", err)
			continue
		}
		if !cam.IsOpened() {
			cam.Close()
			continue
		}

		frame := gocv.NewMat()
		ok := cam.Read(&frame)
		empty := frame.Empty()
		frame.Close()

		if ok && !empty {
			w.cam = cam
			w.index = idx
			w.initialized = true
			w.logger.Info("camera ready", "index", idx)
			return true
		}
		cam.Close()
	}

	w.logger.Error("no working video device found")
	return false
}

func (w *Webcam) probeOrder() []int {
	order := []int{w.cfg.CameraIndex}
	for i := 0; i < 5; i++ {
		if i != w.cfg.CameraIndex {
			order = append(order, i)
		}
	}
	return order
}

// CaptureImage reads one frame and writes it as a JPEG.
func (w *Webcam) CaptureImage(path string) (string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.initialized || w.cam == nil {
		return "", ErrNotInitialized
	}

	if path == "" {
		f, err := os.CreateTemp("", "parvis_capture_*.jpg")
		if err != nil {
			return "", err
		}
		path = f.Name()
		f.Close()
	}

	frame := gocv.NewMat()
	defer frame.Close()

	if ok := w.cam.Read(&frame); !ok || frame.Empty() {
		return "", errors.New("vision: failed to read frame from camera")
	}
	if ok := gocv.IMWrite(path, frame); !ok {
		return "", errors.New("vision: failed to write image file")
	}

	w.logger.Info("frame captured", "path", path)
	return path, nil
}

// Close releases the video device.
func (w *Webcam) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.cam != nil {
		if err := w.cam.Close(); err != nil {
			w.logger.Warn("camera close failed", "error", err)
		}
		w.cam = nil
	}
	w.initialized = false
}

var _ Camera = (*Webcam)(nil)
