package scene

import (
	"github.com/teslashibe/go-mannequin/pkg/ik"
	"github.com/teslashibe/go-mannequin/pkg/rig"
)

// Selection is the joint grabbed by a pointer press.
type Selection struct {
	Model string `json:"model"`
	Joint string `json:"joint"`
}

// PointerDown hit-tests every model. On a hit the model becomes active and
// the grabbed joint follows the pointer until PointerUp.
func (s *Scene) PointerDown(p ik.Pointer) (Selection, bool, error) {
	var (
		sel Selection
		hit bool
	)
	err := s.do(func() error {
		rigs := make([]*rig.Rig, 0, len(s.order))
		for _, id := range s.order {
			rigs = append(rigs, s.models[id].rig)
		}
		r, ok := s.session.PointerDown(rigs, p)
		if !ok {
			return nil
		}
		m := s.modelOf(r)
		s.active = m.id
		sel = Selection{Model: m.id.String(), Joint: r.Selected().Name}
		hit = true
		s.render(m)
		return nil
	})
	return sel, hit, err
}

// PointerMove moves the drag target. The solver catches up on the next tick.
func (s *Scene) PointerMove(p ik.Pointer) error {
	return s.do(func() error {
		s.session.PointerMove(p)
		return nil
	})
}

// PointerUp ends the gesture.
func (s *Scene) PointerUp() error {
	return s.do(func() error {
		var dragged *model
		if d := s.session.Drag(); d != nil {
			dragged = s.modelOf(d.Rig)
		}
		s.session.PointerUp()
		if dragged != nil {
			s.render(dragged)
		}
		return nil
	})
}

// Dragging reports whether a gesture is in progress.
func (s *Scene) Dragging() bool {
	var on bool
	_ = s.do(func() error {
		on = s.session.State() == ik.Dragging
		return nil
	})
	return on
}

// Options returns the solver toggles.
func (s *Scene) Options() ik.Options {
	var o ik.Options
	_ = s.do(func() error {
		o = s.solver.Options
		return nil
	})
	return o
}

// SetOptions replaces the solver toggles.
func (s *Scene) SetOptions(o ik.Options) error {
	return s.do(func() error {
		s.solver.Options = o
		return nil
	})
}

// SetControl switches one solver toggle by name and returns the result.
func (s *Scene) SetControl(name string, on bool) (ik.Options, error) {
	var o ik.Options
	err := s.do(func() error {
		next := s.solver.Options
		if err := next.SetControl(name, on); err != nil {
			return err
		}
		s.solver.Options = next
		o = next
		return nil
	})
	return o, err
}

// Camera returns the view camera.
func (s *Scene) Camera() ik.Camera {
	var c ik.Camera
	_ = s.do(func() error {
		c = s.camera
		return nil
	})
	return c
}

// SetCamera replaces the view camera. Degenerate cameras are rejected.
func (s *Scene) SetCamera(c ik.Camera) error {
	if err := c.Validate(); err != nil {
		return err
	}
	return s.do(func() error {
		s.camera = c
		return nil
	})
}
