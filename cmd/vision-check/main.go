// Vision check - exercises the capture, detect, describe path.
//
// Runs a handful of scene analyses and prints what the assistant
// would say. Mock components by default, so it works on any machine;
// pass -real to use the webcam and the ONNX model.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/parvislabs/go-parvis/internal/config"
	"github.com/parvislabs/go-parvis/internal/log"
	"github.com/parvislabs/go-parvis/pkg/vision"
)

func main() {
	real := flag.Bool("real", false, "Use the webcam and ONNX model instead of mocks")
	model := flag.String("model", "", "ONNX model path (default from PARVIS_VISION_MODEL)")
	camera := flag.Int("camera", -1, "Camera index (default from PARVIS_CAMERA_INDEX)")
	runs := flag.Int("n", 3, "Number of scene analyses")
	flag.Parse()

	cfg := config.Load()
	log.Init(cfg.LogLevel)
	if *model == "" {
		*model = cfg.Vision.ModelPath
	}
	if *camera < 0 {
		*camera = cfg.Vision.CameraIndex
	}

	mode := "mock"
	if *real {
		mode = "real"
	}
	fmt.Println("👁️  Parvis vision check")
	fmt.Printf("   Components: %s\n", mode)
	if *real {
		fmt.Printf("   Model: %s\n", *model)
		fmt.Printf("   Camera: %d\n", *camera)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	bridge := vision.New(!*real,
		vision.WithModelPath(*model),
		vision.WithConfidenceThreshold(float64(cfg.Vision.ConfidenceThreshold)),
		vision.WithCameraIndex(*camera),
		vision.WithInputSize(cfg.Vision.ImageSize),
	)
	if err := bridge.Initialize(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "❌ Initialization failed: %v\n", err)
		os.Exit(1)
	}
	defer bridge.Close()
	fmt.Println("✅ Vision bridge ready")

	failures := 0
	for i := 1; i <= *runs; i++ {
		if ctx.Err() != nil {
			break
		}
		fmt.Printf("\n--- Analysis %d/%d ---\n", i, *runs)

		result := bridge.AnalyzeScene(ctx, "")
		if !result.Success {
			failures++
			fmt.Printf("❌ %s\n", result.Error)
			continue
		}

		fmt.Printf("✅ %s\n", result.Description)
		for _, obj := range result.Objects {
			fmt.Printf("   - %s (%.2f)\n", obj.ClassName, obj.Confidence)
		}
		fmt.Printf("   %d objects in %.2fs\n", result.ObjectCount(), result.ProcessingTime.Seconds())

		if result.ImagePath != "" {
			os.Remove(result.ImagePath)
		}
	}

	stats := bridge.Stats()
	fmt.Println("\n📊 Statistics:")
	fmt.Printf("   Total analyses: %d\n", stats.TotalAnalyses)
	fmt.Printf("   Success rate: %.1f%%\n", stats.SuccessRate)
	fmt.Printf("   Average time: %.2fs\n", stats.AverageTime.Seconds())

	if failures > 0 {
		os.Exit(1)
	}
}
