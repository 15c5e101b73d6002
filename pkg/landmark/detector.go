package landmark

import (
	"fmt"
	"image"
	"math"
	"os"
	"sync"

	"github.com/teslashibe/go-mannequin/pkg/debug"
	"gocv.io/x/gocv"
)

// Source produces landmark poses from encoded images.
type Source interface {
	// Detect finds the poses in a JPEG image
	Detect(jpeg []byte) ([]Pose, error)

	// Close releases resources
	Close() error
}

// Config holds detector configuration.
type Config struct {
	ModelPath      string  // Path to the pose landmark ONNX model
	InputWidth     int     // Model input width
	InputHeight    int     // Model input height
	ScoreThresh    float64 // Minimum pose presence score (0-1)
	LandmarkOutput string  // Output layer carrying the landmark tensor
	ScoreOutput    string  // Output layer carrying the presence score
	MaxPoses       int     // Poses reported per frame
}

// DefaultConfig returns defaults for the full-body landmark model.
func DefaultConfig() Config {
	return Config{
		ModelPath:      "models/pose_landmark_full.onnx",
		InputWidth:     256,
		InputHeight:    256,
		ScoreThresh:    0.5,
		LandmarkOutput: "Identity",
		ScoreOutput:    "Identity_1",
		MaxPoses:       1,
	}
}

// LiteConfig returns defaults for the lite landmark model.
func LiteConfig() Config {
	cfg := DefaultConfig()
	cfg.ModelPath = "models/pose_landmark_lite.onnx"
	return cfg
}

// valuesPerLandmark is x, y, z, visibility, presence.
const valuesPerLandmark = 5

// Detector runs a pose landmark model through OpenCV's dnn module.
type Detector struct {
	net    gocv.Net
	config Config
	mu     sync.Mutex // Protects inference
}

// NewDetector loads the model at cfg.ModelPath.
func NewDetector(cfg Config) (*Detector, error) {
	if _, err := os.Stat(cfg.ModelPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("model file not found: %s", cfg.ModelPath)
	}

	net := gocv.ReadNetFromONNX(cfg.ModelPath)
	if net.Empty() {
		return nil, fmt.Errorf("failed to load pose model from %s", cfg.ModelPath)
	}
	net.SetPreferableBackend(gocv.NetBackendDefault)
	net.SetPreferableTarget(gocv.NetTargetCPU)

	return &Detector{net: net, config: cfg}, nil
}

// Detect finds the poses in the JPEG image.
func (d *Detector) Detect(jpeg []byte) ([]Pose, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	img, err := gocv.IMDecode(jpeg, gocv.IMReadColor)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	defer img.Close()

	if img.Empty() {
		return nil, fmt.Errorf("empty image")
	}

	size := image.Pt(d.config.InputWidth, d.config.InputHeight)
	blob := gocv.BlobFromImage(img, 1.0/255.0, size, gocv.NewScalar(0, 0, 0, 0), true, false)
	defer blob.Close()

	d.net.SetInput(blob, "")
	outs := d.net.ForwardLayers([]string{d.config.LandmarkOutput, d.config.ScoreOutput})
	defer func() {
		for i := range outs {
			outs[i].Close()
		}
	}()
	if len(outs) < 2 {
		return nil, fmt.Errorf("pose model returned %d outputs", len(outs))
	}

	scores, err := outs[1].DataPtrFloat32()
	if err != nil {
		return nil, fmt.Errorf("read score: %w", err)
	}
	if len(scores) == 0 || sigmoid(float64(scores[0])) < d.config.ScoreThresh {
		return nil, nil
	}

	data, err := outs[0].DataPtrFloat32()
	if err != nil {
		return nil, fmt.Errorf("read landmarks: %w", err)
	}
	pose, err := decodePose(data, float64(d.config.InputWidth), float64(d.config.InputHeight))
	if err != nil {
		return nil, err
	}

	debug.Trace(debug.Landmarks, "pose detected", "score", sigmoid(float64(scores[0])))
	return []Pose{pose}, nil
}

// Close releases the model.
func (d *Detector) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.net.Close()
}

// decodePose reads Count landmarks from a flat tensor of model-input pixel
// coordinates and normalizes them to the image.
func decodePose(data []float32, w, h float64) (Pose, error) {
	if len(data) < Count*valuesPerLandmark {
		return nil, fmt.Errorf("%w: tensor has %d values", ErrShortPose, len(data))
	}
	pose := make(Pose, Count)
	for i := range pose {
		v := data[i*valuesPerLandmark:]
		pose[i] = Point{
			X:          float64(v[0]) / w,
			Y:          float64(v[1]) / h,
			Z:          float64(v[2]) / w,
			Visibility: sigmoid(float64(v[3])),
		}
	}
	return pose, nil
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}
