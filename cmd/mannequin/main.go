// Mannequin - posable figure editor served over HTTP and websockets
//
// Runs the scene, the REST API and the websocket feeds. With -webcam it
// also detects body landmarks from a local camera and retargets the active
// figure to them.
package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/teslashibe/go-mannequin/internal/config"
	"github.com/teslashibe/go-mannequin/internal/log"
	"github.com/teslashibe/go-mannequin/pkg/camera"
	"github.com/teslashibe/go-mannequin/pkg/debug"
	"github.com/teslashibe/go-mannequin/pkg/landmark"
	"github.com/teslashibe/go-mannequin/pkg/library"
	"github.com/teslashibe/go-mannequin/pkg/rig"
	"github.com/teslashibe/go-mannequin/pkg/scene"
	"github.com/teslashibe/go-mannequin/pkg/web"
)

type options struct {
	port      string
	static    string
	clips     string
	library   string
	kind      string
	webcam    bool
	device    string
	model     string
	accessLog bool
}

func main() {
	opts := parseFlags()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, opts); err != nil {
		log.Error("❌ mannequin failed", "error", err)
		os.Exit(1)
	}
}

func parseFlags() options {
	var opts options
	level := flag.String("log-level", config.LogLevel(), "Log level: debug, info, warn, error")
	debugSolver := flag.Bool("debug-solver", false, "Log every IK probe and step (very verbose)")
	debugLandmarks := flag.Bool("debug-landmarks", false, "Log every detected pose")
	flag.StringVar(&opts.port, "port", config.Port(), "HTTP port")
	flag.StringVar(&opts.static, "static", config.StaticDir(), "Directory served at / (empty to disable)")
	flag.StringVar(&opts.clips, "clips", config.ClipsDir(), "Directory of extra animation clips")
	flag.StringVar(&opts.library, "library", config.LibraryPath(), "File of saved postures (empty to disable)")
	flag.StringVar(&opts.kind, "kind", "male", "Figure added at startup: male, female, child")
	flag.BoolVar(&opts.webcam, "webcam", false, "Detect landmarks from a local webcam")
	flag.StringVar(&opts.device, "device", config.CameraDevice(), "Webcam device index or path")
	flag.StringVar(&opts.model, "model", config.ModelPath(), "Pose landmark ONNX model")
	flag.BoolVar(&opts.accessLog, "access-log", false, "Log every HTTP request")
	flag.Parse()

	log.Init(*level)
	if *debugSolver {
		debug.Enable(debug.Solver)
	}
	if *debugLandmarks {
		debug.Enable(debug.Landmarks)
	}
	return opts
}

func run(ctx context.Context, opts options) error {
	kind, err := rig.ParseKind(opts.kind)
	if err != nil {
		return err
	}

	renderer := web.NewRenderer()
	sc := scene.New(scene.DefaultConfig(), renderer)
	defer sc.Close()

	if opts.clips != "" {
		if err := sc.LoadClips(opts.clips); err != nil {
			log.Warn("⚠️  custom clips not loaded", "dir", opts.clips, "error", err)
		}
	}
	if _, err := sc.AddModel(kind); err != nil {
		return err
	}

	cams := camera.NewManager()
	server := web.NewServer(web.Config{
		Port:      opts.port,
		StaticDir: opts.static,
		AccessLog: opts.accessLog,
	}, sc, renderer, cams)

	if opts.library != "" {
		lib, err := library.OpenFile(opts.library)
		if err != nil {
			return err
		}
		defer lib.Close()
		server.Library = lib
		log.Info("📚 posture library", "path", opts.library, "entries", lib.Len())
	}

	if opts.webcam {
		stop, err := startWebcam(ctx, opts, sc, server, cams)
		if err != nil {
			return err
		}
		defer stop()
	}

	server.StartAsync(ctx)
	log.Info("🧍 mannequin ready", "url", "http://localhost:"+opts.port, "kind", kind)

	<-ctx.Done()
	log.Info("👋 shutting down")
	return server.Shutdown()
}

// startWebcam opens the camera and the pose model and feeds every new frame
// through the scene. The returned func stops the loop and releases both.
func startWebcam(ctx context.Context, opts options, sc *scene.Scene, server *web.Server, cams *camera.Manager) (func(), error) {
	camCfg := cams.GetConfig()
	camCfg.Device = opts.device
	if err := cams.SetConfig(camCfg); err != nil {
		return nil, err
	}

	cam, err := camera.Open(cams.GetConfig())
	if err != nil {
		return nil, err
	}
	cams.OnConfigChange = cam.Reconfigure

	detCfg := landmark.DefaultConfig()
	detCfg.ModelPath = opts.model
	det, err := landmark.NewDetector(detCfg)
	if err != nil {
		cam.Close()
		return nil, err
	}
	server.Detector = det

	loopCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		webcamLoop(loopCtx, cam, det, sc, server)
	}()

	log.Info("📷 webcam started", "device", opts.device, "model", opts.model)
	return func() {
		cancel()
		<-done
		det.Close()
		cam.Close()
	}, nil
}

func webcamLoop(ctx context.Context, cam *camera.Webcam, det landmark.Source, sc *scene.Scene, server *web.Server) {
	var gate landmark.FrameGate
	for ctx.Err() == nil {
		frame, err := cam.Read()
		if err != nil {
			log.Debug("webcam read failed", "error", err)
			select {
			case <-ctx.Done():
			case <-time.After(100 * time.Millisecond):
			}
			continue
		}
		server.SendPreview(frame.JPEG)

		if !gate.Admit(frame.Timestamp) {
			continue
		}
		poses, err := det.Detect(frame.JPEG)
		if err != nil {
			log.Warn("pose detection failed", "error", err)
			continue
		}
		_, err = sc.Landmarks(landmark.Frame{
			Timestamp: frame.Timestamp,
			Width:     frame.Width,
			Height:    frame.Height,
			Poses:     poses,
		})
		if err != nil && !errors.Is(err, scene.ErrStaleFrame) {
			log.Debug("landmarks rejected", "error", err)
		}
	}
}
