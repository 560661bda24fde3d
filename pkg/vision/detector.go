package vision

import "context"

// Detector finds objects in an image file. Initialize reports
// readiness as a plain boolean; the reasons live in logs.
type Detector interface {
	Initialize() bool

	// DetectObjects returns the detections in the image scoring at or
	// above confThreshold.
	DetectObjects(ctx context.Context, imagePath string, confThreshold float64) ([]Object, error)

	Close()
}
