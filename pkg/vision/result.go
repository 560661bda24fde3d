package vision

import (
	"sort"
	"time"
)

// Object is one detection: a class name, its confidence, and the
// bounding box as pixel corners x1, y1, x2, y2.
type Object struct {
	ClassName  string     `json:"class"`
	Confidence float64    `json:"confidence"`
	Box        [4]float64 `json:"bbox"`
}

// Result is the outcome of one scene analysis. Success false means
// Error carries the reason and Description is empty.
type Result struct {
	Success        bool          `json:"success"`
	ImagePath      string        `json:"image_path,omitempty"`
	Objects        []Object      `json:"detections"`
	Description    string        `json:"description"`
	Error          string        `json:"error_message,omitempty"`
	ProcessingTime time.Duration `json:"processing_time"`
}

// ObjectCount returns the number of detections.
func (r *Result) ObjectCount() int {
	return len(r.Objects)
}

// DetectedClasses returns the distinct class names, sorted.
func (r *Result) DetectedClasses() []string {
	seen := make(map[string]bool, len(r.Objects))
	var classes []string
	for _, o := range r.Objects {
		if !seen[o.ClassName] {
			seen[o.ClassName] = true
			classes = append(classes, o.ClassName)
		}
	}
	sort.Strings(classes)
	return classes
}
