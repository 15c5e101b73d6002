// Package web serves the mannequin editor: a REST API over the scene and
// websocket feeds for rig frames, emotions, pointer gestures and landmarks.
package web

import (
	"context"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/websocket/v2"

	"github.com/teslashibe/go-mannequin/internal/log"
	"github.com/teslashibe/go-mannequin/pkg/camera"
	"github.com/teslashibe/go-mannequin/pkg/hub"
	"github.com/teslashibe/go-mannequin/pkg/landmark"
	"github.com/teslashibe/go-mannequin/pkg/library"
	"github.com/teslashibe/go-mannequin/pkg/scene"
)

// Config holds the server settings
type Config struct {
	Port      string
	StaticDir string // Served at / when set
	AccessLog bool   // Log every request
}

// DefaultConfig returns the server defaults
func DefaultConfig() Config {
	return Config{
		Port:      "8181",
		StaticDir: "./web",
	}
}

// Server is the editor web server
type Server struct {
	app      *fiber.App
	cfg      Config
	scene    *scene.Scene
	renderer *Renderer
	cameras  *camera.Manager
	logger   *slog.Logger

	// Hubs for inbound feeds and the webcam preview
	pointerHub  *hub.Hub
	landmarkHub *hub.Hub
	previewHub  *hub.Hub

	// Detector runs pose detection on frame messages. Without one, frames
	// are rejected and clients must send landmarks.
	Detector landmark.Source

	// Library stores named postures. The /api/library routes answer 404
	// without one.
	Library *library.Library
}

// NewServer creates a server over sc. The renderer must be the one sc
// draws with. cams may be nil when no webcam is configured.
func NewServer(cfg Config, sc *scene.Scene, r *Renderer, cams *camera.Manager) *Server {
	s := &Server{
		cfg:         cfg,
		scene:       sc,
		renderer:    r,
		cameras:     cams,
		logger:      log.With("component", "web"),
		pointerHub:  hub.New("pointer"),
		landmarkHub: hub.New("landmarks"),
		previewHub:  hub.New("preview"),
	}

	app := fiber.New(fiber.Config{
		AppName:               "Mannequin",
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	app.Use(cors.New())
	if cfg.AccessLog {
		app.Use(logger.New())
	}

	if cfg.StaticDir != "" {
		app.Static("/", cfg.StaticDir)
	}

	// API routes
	api := app.Group("/api")
	api.Get("/health", s.handleHealth)

	api.Get("/models", s.handleListModels)
	api.Post("/models", s.handleAddModel)
	api.Delete("/models/:id", s.handleRemoveModel)
	api.Put("/models/:id/active", s.handleActivateModel)
	api.Get("/models/:id/posture", s.handleGetPosture)
	api.Put("/models/:id/posture", s.handlePutPosture)
	api.Get("/models/:id/joints", s.handleJoints)
	api.Put("/models/:id/joints/:joint", s.handleSetMotion)
	api.Post("/blend", s.handleBlend)

	api.Get("/options", s.handleGetOptions)
	api.Put("/options", s.handlePutOptions)
	api.Put("/options/:control", s.handleSetControl)

	api.Get("/view", s.handleGetView)
	api.Put("/view", s.handlePutView)

	api.Get("/camera", s.handleGetCamera)
	api.Put("/camera", s.handlePutCamera)
	api.Get("/camera/presets", s.handleCameraPresets)

	api.Get("/library", s.handleListLibrary)
	api.Get("/library/:name", s.handleGetLibrary)
	api.Put("/library/:name", s.handleSaveLibrary)
	api.Delete("/library/:name", s.handleDeleteLibrary)
	api.Post("/library/:name/apply", s.handleApplyLibrary)

	api.Get("/emotion", s.handleEmotion)

	api.Get("/clips", s.handleListClips)
	api.Post("/clips/stop", s.handleStopClip)
	api.Post("/clips/:name/play", s.handlePlayClip)

	// WebSocket upgrade middleware
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	// WebSocket routes
	app.Get("/ws/rig", websocket.New(s.handleRigWS))
	app.Get("/ws/emotion", websocket.New(s.handleEmotionWS))
	app.Get("/ws/pointer", websocket.New(s.handlePointerWS))
	app.Get("/ws/landmarks", websocket.New(s.handleLandmarksWS))
	app.Get("/ws/preview", websocket.New(s.handlePreviewWS))

	s.app = app
	return s
}

// App returns the underlying fiber app.
func (s *Server) App() *fiber.App {
	return s.app
}

// Start runs the hubs and serves until the listener fails. The hubs stop
// when ctx is done.
func (s *Server) Start(ctx context.Context) error {
	s.logger.Info("web server listening", "url", "http://localhost:"+s.cfg.Port)

	for _, h := range s.hubs() {
		go h.Run(ctx)
	}
	if err := s.scene.RenderAll(); err != nil {
		s.logger.Warn("initial render failed", "error", err)
	}

	return s.app.Listen(":" + s.cfg.Port)
}

func (s *Server) hubs() map[string]*hub.Hub {
	return map[string]*hub.Hub{
		"rig":       s.renderer.rigHub,
		"emotion":   s.renderer.emotionHub,
		"pointer":   s.pointerHub,
		"landmarks": s.landmarkHub,
		"preview":   s.previewHub,
	}
}

// StartAsync starts the web server in a goroutine
func (s *Server) StartAsync(ctx context.Context) {
	go func() {
		if err := s.Start(ctx); err != nil {
			s.logger.Error("web server stopped", "error", err)
		}
	}()
}

// SendPreview broadcasts a JPEG webcam frame to preview viewers.
func (s *Server) SendPreview(jpeg []byte) {
	s.previewHub.Broadcast(hub.NewFrame(jpeg))
}

// Shutdown gracefully stops the web server
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}
