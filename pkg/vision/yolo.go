package vision

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"os"
	"sync"

	"gocv.io/x/gocv"
)

// YOLO detects objects with a YOLOv8 ONNX model on the CPU.
type YOLO struct {
	cfg    *Config
	logger *slog.Logger

	mu          sync.Mutex
	net         gocv.Net
	initialized bool
}

// NewYOLO creates the real detector. Initialize must load the model
// before DetectObjects works.
func NewYOLO(opts ...Option) *YOLO {
	cfg := DefaultConfig()
	cfg.Apply(opts...)

	return &YOLO{
		cfg:    cfg,
		logger: cfg.Logger.With("component", "vision.yolo"),
	}
}

// Initialize loads the ONNX weights and pins inference to the CPU.
func (y *YOLO) Initialize() bool {
	y.mu.Lock()
	defer y.mu.Unlock()

	if _, err := os.Stat(y.cfg.ModelPath); err != nil {
		y.logger.Error("model file not found", "path", y.cfg.ModelPath)
		return false
	}

	net := gocv.ReadNetFromONNX(y.cfg.ModelPath)
	if net.Empty() {
		y.logger.Error("failed to load model", "path", y.cfg.ModelPath)
		return false
	}
	net.SetPreferableBackend(gocv.NetBackendDefault)
	net.SetPreferableTarget(gocv.NetTargetCPU)

	y.net = net
	y.initialized = true
	y.logger.Info("yolo detector ready", "model", y.cfg.ModelPath, "input_size", y.cfg.InputSize)
	return true
}

// DetectObjects runs one forward pass over the image file.
func (y *YOLO) DetectObjects(ctx context.Context, imagePath string, confThreshold float64) ([]Object, error) {
	y.mu.Lock()
	defer y.mu.Unlock()

	if !y.initialized {
		return nil, ErrNotInitialized
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	img := gocv.IMRead(imagePath, gocv.IMReadColor)
	if img.Empty() {
		return nil, fmt.Errorf("vision: cannot read image %s", imagePath)
	}
	defer img.Close()

	imgW := float32(img.Cols())
	imgH := float32(img.Rows())

	blob := gocv.BlobFromImage(img, 1.0/255.0,
		image.Pt(y.cfg.InputSize, y.cfg.InputSize), gocv.NewScalar(0, 0, 0, 0), true, false)
	defer blob.Close()

	y.net.SetInput(blob, "")
	output := y.net.Forward("")
	defer output.Close()

	objects := y.parseOutput(output, imgW, imgH, float32(confThreshold))
	y.logger.Info("detection complete", "objects", len(objects))
	return objects, nil
}

// parseOutput walks the YOLOv8 output tensor. The layout is
// [1, 84, 8400]: 4 box coordinates plus 80 class scores per column,
// read transposed.
func (y *YOLO) parseOutput(output gocv.Mat, imgW, imgH, confThreshold float32) []Object {
	var boxes []image.Rectangle
	var confidences []float32
	var classIDs []int

	rows := output.Cols()
	cols := output.Rows()

	data, err := output.DataPtrFloat32()
	if err != nil {
		y.logger.Error("cannot access output tensor", "error", err)
		return nil
	}

	inW := float32(y.cfg.InputSize)
	inH := float32(y.cfg.InputSize)

	for i := 0; i < rows; i++ {
		maxScore := float32(0)
		maxClassID := 0
		for c := 4; c < cols; c++ {
			if score := data[c*rows+i]; score > maxScore {
				maxScore = score
				maxClassID = c - 4
			}
		}
		if maxScore < confThreshold {
			continue
		}

		// Center box to corners, scaled back to the source image.
		cx := data[0*rows+i]
		cy := data[1*rows+i]
		w := data[2*rows+i]
		h := data[3*rows+i]

		x1 := int((cx - w/2) * imgW / inW)
		y1 := int((cy - h/2) * imgH / inH)
		x2 := int((cx + w/2) * imgW / inW)
		y2 := int((cy + h/2) * imgH / inH)

		boxes = append(boxes, image.Rect(x1, y1, x2, y2))
		confidences = append(confidences, maxScore)
		classIDs = append(classIDs, maxClassID)
	}

	if len(boxes) == 0 {
		return nil
	}

	indices := gocv.NMSBoxes(boxes, confidences, confThreshold, y.cfg.NMSThreshold)

	objects := make([]Object, 0, len(indices))
	for _, idx := range indices {
		box := boxes[idx]
		objects = append(objects, Object{
			ClassName:  className(classIDs[idx]),
			Confidence: float64(confidences[idx]),
			Box: [4]float64{
				float64(box.Min.X), float64(box.Min.Y),
				float64(box.Max.X), float64(box.Max.Y),
			},
		})
	}
	return objects
}

// Close releases the network.
func (y *YOLO) Close() {
	y.mu.Lock()
	defer y.mu.Unlock()

	if y.initialized {
		if err := y.net.Close(); err != nil {
			y.logger.Warn("network close failed", "error", err)
		}
		y.initialized = false
	}
}

var _ Detector = (*YOLO)(nil)

func className(id int) string {
	if id < 0 || id >= len(COCOClasses) {
		return "object"
	}
	return COCOClasses[id]
}

// COCOClasses are the 80 class names YOLOv8 is trained on, in model
// order.
var COCOClasses = []string{
	"person", "bicycle", "car", "motorcycle", "airplane", "bus", "train", "truck", "boat",
	"traffic light", "fire hydrant", "stop sign", "parking meter", "bench", "bird", "cat",
	"dog", "horse", "sheep", "cow", "elephant", "bear", "zebra", "giraffe", "backpack",
	"umbrella", "handbag", "tie", "suitcase", "frisbee", "skis", "snowboard", "sports ball",
	"kite", "baseball bat", "baseball glove", "skateboard", "surfboard", "tennis racket",
	"bottle", "wine glass", "cup", "fork", "knife", "spoon", "bowl", "banana", "apple",
	"sandwich", "orange", "broccoli", "carrot", "hot dog", "pizza", "donut", "cake", "chair",
	"couch", "potted plant", "bed", "dining table", "toilet", "tv", "laptop", "mouse",
	"remote", "keyboard", "cell phone", "microwave", "oven", "toaster", "sink", "refrigerator",
	"book", "clock", "vase", "scissors", "teddy bear", "hair drier", "toothbrush",
}
