package web

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/teslashibe/go-mannequin/pkg/animation"
	"github.com/teslashibe/go-mannequin/pkg/camera"
	"github.com/teslashibe/go-mannequin/pkg/hub"
	"github.com/teslashibe/go-mannequin/pkg/ik"
	"github.com/teslashibe/go-mannequin/pkg/posture"
	"github.com/teslashibe/go-mannequin/pkg/protocol"
	"github.com/teslashibe/go-mannequin/pkg/rig"
	"github.com/teslashibe/go-mannequin/pkg/scene"
)

// fail writes err as a JSON error with a status derived from its kind.
func fail(c *fiber.Ctx, err error) error {
	status := fiber.StatusBadRequest
	switch {
	case errors.Is(err, scene.ErrUnknownModel), errors.Is(err, scene.ErrNoModel),
		errors.Is(err, animation.ErrNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, scene.ErrTooManyModels), errors.Is(err, animation.ErrAlreadyPlaying):
		status = fiber.StatusConflict
	case errors.Is(err, camera.ErrApply):
		status = fiber.StatusBadGateway
	case errors.Is(err, scene.ErrClosed):
		status = fiber.StatusServiceUnavailable
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}

// handleHealth reports liveness and a summary of the scene
func (s *Server) handleHealth(c *fiber.Ctx) error {
	feeds := make(map[string]hub.Stats)
	for name, h := range s.hubs() {
		feeds[name] = h.Stats()
	}
	return c.JSON(fiber.Map{
		"status":  "ok",
		"models":  len(s.scene.Models()),
		"playing": s.scene.Playing(),
		"feeds":   feeds,
	})
}

// handleListModels returns the models on stage
func (s *Server) handleListModels(c *fiber.Ctx) error {
	return c.JSON(s.scene.Models())
}

// AddModelRequest is the request body for adding a model
type AddModelRequest struct {
	Kind string `json:"kind"` // male, female or child; male when empty
}

// handleAddModel puts a new mannequin on stage
func (s *Server) handleAddModel(c *fiber.Ctx) error {
	var req AddModelRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return fail(c, err)
		}
	}

	kind := rig.Male
	if req.Kind != "" {
		var err error
		if kind, err = rig.ParseKind(req.Kind); err != nil {
			return fail(c, err)
		}
	}

	info, err := s.scene.AddModel(kind)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(info)
}

// handleRemoveModel takes a model off stage
func (s *Server) handleRemoveModel(c *fiber.Ctx) error {
	if err := s.scene.RemoveModel(c.Params("id")); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// handleActivateModel makes a model the landmark and clip target
func (s *Server) handleActivateModel(c *fiber.Ctx) error {
	if err := s.scene.SetActive(c.Params("id")); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// handleGetPosture exports a model's posture
func (s *Server) handleGetPosture(c *fiber.Ctx) error {
	p, err := s.scene.Posture(c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(p)
}

// handlePutPosture imports a posture. Rejected postures leave the model as
// it was and answer with a message meant for the person importing.
func (s *Server) handlePutPosture(c *fiber.Ctx) error {
	p, err := posture.Parse(c.Body())
	if err == nil {
		err = s.scene.ApplyPosture(c.Params("id"), p)
	}
	switch {
	case err == nil:
		return c.SendStatus(fiber.StatusNoContent)
	case errors.Is(err, scene.ErrUnknownModel), errors.Is(err, scene.ErrClosed):
		return fail(c, err)
	}
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": posture.UserMessage(err)})
}

// BlendRequest is the request body for blending two postures
type BlendRequest struct {
	From posture.Posture `json:"from"`
	To   posture.Posture `json:"to"`
	T    float64         `json:"t"` // 0 yields From, 1 yields To
}

// handleBlend interpolates between two postures
func (s *Server) handleBlend(c *fiber.Ctx) error {
	var req BlendRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, err)
	}
	if req.T < 0 || req.T > 1 {
		return fail(c, errors.New("t must be between 0 and 1"))
	}

	from, err := posture.Upgrade(req.From)
	if err != nil {
		return fail(c, err)
	}
	to, err := posture.Upgrade(req.To)
	if err != nil {
		return fail(c, err)
	}
	out, err := posture.Blend(from, to, req.T)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// handleJoints lists a model's joints with limits and motion values
func (s *Server) handleJoints(c *fiber.Ctx) error {
	joints, err := s.scene.Joints(c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(joints)
}

// MotionRequest is the request body for setting a joint motion
type MotionRequest struct {
	Motion string  `json:"motion"`
	Value  float64 `json:"value"` // degrees
}

// handleSetMotion sets one named motion of a joint
func (s *Server) handleSetMotion(c *fiber.Ctx) error {
	var req MotionRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, err)
	}
	if err := s.scene.SetMotion(c.Params("id"), c.Params("joint"), req.Motion, req.Value); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// handleGetOptions returns the solver toggles
func (s *Server) handleGetOptions(c *fiber.Ctx) error {
	return c.JSON(s.scene.Options())
}

// handlePutOptions replaces the solver toggles
func (s *Server) handlePutOptions(c *fiber.Ctx) error {
	var o ik.Options
	if err := c.BodyParser(&o); err != nil {
		return fail(c, err)
	}
	if err := s.scene.SetOptions(o); err != nil {
		return fail(c, err)
	}
	return c.JSON(o)
}

// ControlRequest is the request body for switching one toggle
type ControlRequest struct {
	On bool `json:"on"`
}

// handleSetControl switches one solver toggle
func (s *Server) handleSetControl(c *fiber.Ctx) error {
	var req ControlRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, err)
	}
	o, err := s.scene.SetControl(c.Params("control"), req.On)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(o)
}

// handleGetView returns the view camera
func (s *Server) handleGetView(c *fiber.Ctx) error {
	return c.JSON(s.scene.Camera())
}

// handlePutView replaces the view camera
func (s *Server) handlePutView(c *fiber.Ctx) error {
	cam := s.scene.Camera()
	if err := c.BodyParser(&cam); err != nil {
		return fail(c, err)
	}
	if err := s.scene.SetCamera(cam); err != nil {
		return fail(c, err)
	}
	return c.JSON(cam)
}

// handleGetCamera returns the webcam configuration
func (s *Server) handleGetCamera(c *fiber.Ctx) error {
	if s.cameras == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "no camera configured"})
	}
	return c.JSON(s.cameras.GetConfig())
}

// handlePutCamera updates the webcam configuration. The body may name a
// preset and override single fields.
func (s *Server) handlePutCamera(c *fiber.Ctx) error {
	if s.cameras == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "no camera configured"})
	}

	patch, err := camera.DecodePatch(c.Body())
	if err != nil {
		return fail(c, err)
	}
	cfg, err := s.cameras.Apply(patch)
	if err != nil {
		return fail(c, err)
	}
	s.logger.Info("camera reconfigured", "device", cfg.Device, "width", cfg.Width, "height", cfg.Height, "revision", s.cameras.Revision())
	return c.JSON(cfg)
}

// handleCameraPresets lists webcam presets and limits
func (s *Server) handleCameraPresets(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"presets":      camera.PresetNames(),
		"capabilities": camera.Capabilities(),
	})
}

// handleEmotion returns the latest emotion classification
func (s *Server) handleEmotion(c *fiber.Ctx) error {
	msg, err := protocol.NewEmotionMessage(s.scene.Emotion())
	if err != nil {
		return fail(c, err)
	}
	data, err := msg.GetEmotionData()
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(data)
}

// handleListClips returns available clips with descriptions
func (s *Server) handleListClips(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"clips":   s.scene.Clips(),
		"playing": s.scene.Playing(),
	})
}

// PlayRequest is the request body for playing a clip
type PlayRequest struct {
	Speed     float64 `json:"speed"`
	Loop      bool    `json:"loop"`
	FrameRate float64 `json:"frame_rate"`
}

// handlePlayClip plays a clip on the active model
func (s *Server) handlePlayClip(c *fiber.Ctx) error {
	opts := animation.DefaultPlayerOptions()
	if len(c.Body()) > 0 {
		var req PlayRequest
		if err := c.BodyParser(&req); err != nil {
			return fail(c, err)
		}
		if req.Speed > 0 {
			opts.Speed = req.Speed
		}
		if req.FrameRate > 0 {
			opts.FrameRate = req.FrameRate
		}
		opts.Loop = req.Loop
	}

	name := c.Params("name")
	if err := s.scene.Play(name, opts); err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"clip": name})
}

// handleStopClip stops clip playback
func (s *Server) handleStopClip(c *fiber.Ctx) error {
	s.scene.Stop()
	return c.SendStatus(fiber.StatusNoContent)
}
