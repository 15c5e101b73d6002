package web

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/teslashibe/go-mannequin/pkg/library"
	"github.com/teslashibe/go-mannequin/pkg/posture"
	"github.com/teslashibe/go-mannequin/pkg/scene"
)

var errNoLibrary = errors.New("posture library disabled")

// LibraryRequest selects a model for saving or applying a library entry.
// Posture, when set, is saved instead of the model's current posture.
type LibraryRequest struct {
	Model   string           `json:"model,omitempty"` // active model when empty
	Posture *posture.Posture `json:"posture,omitempty"`
}

func (s *Server) libraryError(c *fiber.Ctx, err error) error {
	if errors.Is(err, errNoLibrary) || errors.Is(err, library.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}
	return fail(c, err)
}

// modelFor resolves the request's model, falling back to the active one.
func (s *Server) modelFor(req LibraryRequest) (scene.ModelInfo, error) {
	if req.Model == "" {
		return s.scene.Active()
	}
	for _, m := range s.scene.Models() {
		if m.ID == req.Model {
			return m, nil
		}
	}
	return scene.ModelInfo{}, scene.ErrUnknownModel
}

func (s *Server) parseLibraryRequest(c *fiber.Ctx) (LibraryRequest, error) {
	var req LibraryRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return req, err
		}
	}
	return req, nil
}

// handleListLibrary returns the saved postures without their data
func (s *Server) handleListLibrary(c *fiber.Ctx) error {
	if s.Library == nil {
		return s.libraryError(c, errNoLibrary)
	}
	return c.JSON(s.Library.List())
}

// handleGetLibrary returns one saved posture
func (s *Server) handleGetLibrary(c *fiber.Ctx) error {
	if s.Library == nil {
		return s.libraryError(c, errNoLibrary)
	}
	e, err := s.Library.Get(c.Params("name"))
	if err != nil {
		return s.libraryError(c, err)
	}
	return c.JSON(e)
}

// handleSaveLibrary saves a model's posture, or the posture in the body,
// under a name
func (s *Server) handleSaveLibrary(c *fiber.Ctx) error {
	if s.Library == nil {
		return s.libraryError(c, errNoLibrary)
	}
	req, err := s.parseLibraryRequest(c)
	if err != nil {
		return fail(c, err)
	}

	var (
		p    posture.Posture
		kind string
	)
	if req.Posture != nil {
		p = *req.Posture
	} else {
		m, err := s.modelFor(req)
		if err != nil {
			return fail(c, err)
		}
		if p, err = s.scene.Posture(m.ID); err != nil {
			return fail(c, err)
		}
		kind = m.Kind
	}

	e, err := s.Library.Save(c.Params("name"), kind, p)
	if errors.Is(err, library.ErrInvalidName) {
		return fail(c, err)
	}
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": posture.UserMessage(err)})
	}
	s.logger.Info("posture saved", "name", e.Name, "kind", e.Kind)
	return c.Status(fiber.StatusCreated).JSON(e)
}

// handleApplyLibrary poses a model with a saved posture
func (s *Server) handleApplyLibrary(c *fiber.Ctx) error {
	if s.Library == nil {
		return s.libraryError(c, errNoLibrary)
	}
	req, err := s.parseLibraryRequest(c)
	if err != nil {
		return fail(c, err)
	}
	e, err := s.Library.Get(c.Params("name"))
	if err != nil {
		return s.libraryError(c, err)
	}
	m, err := s.modelFor(req)
	if err != nil {
		return fail(c, err)
	}
	if err := s.scene.ApplyPosture(m.ID, e.Posture); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// handleDeleteLibrary forgets a saved posture
func (s *Server) handleDeleteLibrary(c *fiber.Ctx) error {
	if s.Library == nil {
		return s.libraryError(c, errNoLibrary)
	}
	if err := s.Library.Delete(c.Params("name")); err != nil {
		return s.libraryError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
