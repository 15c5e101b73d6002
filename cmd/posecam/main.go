// posecam - stream webcam body landmarks to a mannequin server
//
// Detects poses locally and sends landmark frames over the websocket, or
// with -raw sends the JPEG frames for the server to detect. Emotion
// classifications coming back are logged.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/teslashibe/go-mannequin/internal/config"
	"github.com/teslashibe/go-mannequin/internal/log"
	"github.com/teslashibe/go-mannequin/pkg/camera"
	"github.com/teslashibe/go-mannequin/pkg/landmark"
	"github.com/teslashibe/go-mannequin/pkg/landmark/stream"
	"github.com/teslashibe/go-mannequin/pkg/protocol"
)

func main() {
	server := flag.String("server", config.ServerURL(), "Landmark websocket URL")
	device := flag.String("device", config.CameraDevice(), "Webcam device index or path")
	model := flag.String("model", config.ModelPath(), "Pose landmark ONNX model")
	preset := flag.String("preset", "", "Camera preset (see /api/camera/presets)")
	raw := flag.Bool("raw", false, "Send JPEG frames instead of detecting locally")
	level := flag.String("log-level", config.LogLevel(), "Log level: debug, info, warn, error")
	flag.Parse()
	log.Init(*level)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	camCfg := camera.DefaultConfig()
	if *preset != "" {
		p := camera.GetPreset(*preset)
		if p == nil {
			log.Error("❌ unknown camera preset", "preset", *preset, "available", camera.PresetNames())
			os.Exit(2)
		}
		camCfg = *p
	}
	camCfg.Device = *device

	cam, err := camera.Open(camCfg)
	if err != nil {
		log.Error("❌ camera", "error", err)
		os.Exit(1)
	}
	defer cam.Close()

	var det landmark.Source
	if !*raw {
		detCfg := landmark.DefaultConfig()
		detCfg.ModelPath = *model
		d, err := landmark.NewDetector(detCfg)
		if err != nil {
			log.Error("❌ pose model", "error", err)
			os.Exit(1)
		}
		defer d.Close()
		det = d
	}

	streamCfg := stream.DefaultConfig()
	streamCfg.URL = *server
	client, err := stream.Dial(ctx, streamCfg)
	if err != nil {
		log.Error("❌ connect", "error", err)
		os.Exit(1)
	}
	defer client.Close()

	last := ""
	client.OnEmotion = func(e protocol.EmotionData) {
		if e.Label != last {
			log.Info("🎭 emotion", "label", e.Label, "variant", e.Variant)
			last = e.Label
		}
	}

	log.Info("📷 streaming", "server", *server, "device", *device, "raw", *raw)
	if err := streamFrames(ctx, cam, det, client); err != nil {
		log.Error("❌ stream ended", "error", err)
		os.Exit(1)
	}
	log.Info("👋 goodbye")
}

// streamFrames reads frames until ctx ends or the server goes away.
func streamFrames(ctx context.Context, cam *camera.Webcam, det landmark.Source, client *stream.Client) error {
	var gate landmark.FrameGate
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-client.Done():
			return stream.ErrNotConnected
		default:
		}

		frame, err := cam.Read()
		if err != nil {
			log.Debug("webcam read failed", "error", err)
			time.Sleep(100 * time.Millisecond)
			continue
		}
		if !gate.Admit(frame.Timestamp) {
			continue
		}

		if det == nil {
			err = client.SendJPEG(frame.Width, frame.Height, frame.JPEG, frame.ID)
		} else {
			var poses []landmark.Pose
			poses, err = det.Detect(frame.JPEG)
			if err != nil {
				log.Warn("pose detection failed", "error", err)
				continue
			}
			err = client.Send(landmark.Frame{
				Timestamp: frame.Timestamp,
				Width:     frame.Width,
				Height:    frame.Height,
				Poses:     poses,
			})
		}
		if err != nil {
			return err
		}
	}
}
