package camera

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"gocv.io/x/gocv"
)

// ErrClosed is returned when reading from a closed webcam.
var ErrClosed = errors.New("camera closed")

// Frame is one captured, JPEG-encoded video frame.
type Frame struct {
	ID        uint64
	Timestamp int64 // Unix milliseconds, or stream position for files
	Width     int
	Height    int
	JPEG      []byte
}

// Webcam reads frames from an OpenCV capture device.
type Webcam struct {
	cfg    Config
	cap    *gocv.VideoCapture
	img    gocv.Mat
	nextID uint64
	closed bool
	mu     sync.Mutex
}

// Open starts capturing with cfg.
func Open(cfg Config) (*Webcam, error) {
	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, fmt.Errorf("validation failed: %v", errs)
	}

	var device interface{} = cfg.Device
	if idx, err := strconv.Atoi(cfg.Device); err == nil {
		device = idx
	}
	vc, err := gocv.OpenVideoCapture(device)
	if err != nil {
		return nil, fmt.Errorf("open capture %s: %w", cfg.Device, err)
	}
	vc.Set(gocv.VideoCaptureFrameWidth, float64(cfg.Width))
	vc.Set(gocv.VideoCaptureFrameHeight, float64(cfg.Height))
	vc.Set(gocv.VideoCaptureFPS, float64(cfg.Framerate))

	return &Webcam{cfg: cfg, cap: vc, img: gocv.NewMat()}, nil
}

// Reconfigure reopens the device with new settings. It matches the
// Manager.OnConfigChange signature.
func (w *Webcam) Reconfigure(cfg Config) error {
	next, err := Open(cfg)
	if err != nil {
		return err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.cap.Close()
	w.img.Close()
	w.cfg, w.cap, w.img = next.cfg, next.cap, next.img
	return nil
}

// Read grabs and encodes the next frame.
func (w *Webcam) Read() (Frame, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return Frame{}, ErrClosed
	}
	if ok := w.cap.Read(&w.img); !ok || w.img.Empty() {
		return Frame{}, fmt.Errorf("read frame from %s", w.cfg.Device)
	}

	if w.cfg.Mirror {
		gocv.Flip(w.img, &w.img, 1)
	}
	if w.cfg.Brightness != 0 {
		w.img.ConvertToWithParams(&w.img, gocv.MatTypeCV8UC3, 1, float32(w.cfg.Brightness*255))
	}

	buf, err := gocv.IMEncodeWithParams(gocv.JPEGFileExt, w.img, []int{gocv.IMWriteJpegQuality, w.cfg.Quality})
	if err != nil {
		return Frame{}, fmt.Errorf("encode frame: %w", err)
	}
	defer buf.Close()

	ts := int64(w.cap.Get(gocv.VideoCapturePosMsec))
	if ts <= 0 {
		ts = time.Now().UnixMilli()
	}
	w.nextID++
	return Frame{
		ID:        w.nextID,
		Timestamp: ts,
		Width:     w.img.Cols(),
		Height:    w.img.Rows(),
		JPEG:      bytes.Clone(buf.GetBytes()),
	}, nil
}

// Close releases the device.
func (w *Webcam) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil
	}
	w.closed = true
	w.img.Close()
	return w.cap.Close()
}
