// Package scene is the application context of the editor: the mannequins
// on stage, the view camera, the pointer session driving the IK solver, the
// emotion classifier and clip playback. Every mutation runs on one scene
// goroutine, so rigs are never touched concurrently.
package scene

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/teslashibe/go-mannequin/internal/log"
	"github.com/teslashibe/go-mannequin/pkg/animation"
	"github.com/teslashibe/go-mannequin/pkg/constraint"
	"github.com/teslashibe/go-mannequin/pkg/emotion"
	"github.com/teslashibe/go-mannequin/pkg/ik"
	"github.com/teslashibe/go-mannequin/pkg/landmark"
	"github.com/teslashibe/go-mannequin/pkg/rig"
)

type model struct {
	id   uuid.UUID
	rig  *rig.Rig
	slot int
}

// ModelInfo describes a model in the scene.
type ModelInfo struct {
	ID     string  `json:"id"`
	Kind   string  `json:"kind"`
	Height float64 `json:"height"`
	Active bool    `json:"active"`
}

// Scene owns the models and everything that acts on them.
type Scene struct {
	cfg      Config
	renderer Renderer
	logger   *slog.Logger

	// Owned by the scene goroutine.
	models  map[uuid.UUID]*model
	order   []uuid.UUID
	active  uuid.UUID
	camera  ik.Camera
	solver  *ik.Solver
	session *ik.Session
	target  uuid.UUID // model driven by clip playback

	classifier *emotion.Classifier
	gate       landmark.FrameGate
	clips      *animation.Registry
	playCtx    context.Context
	cancelPlay context.CancelFunc

	cmds      chan func()
	quit      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

// New creates a scene and starts its goroutine. A nil renderer draws
// nothing.
func New(cfg Config, r Renderer) *Scene {
	if r == nil {
		r = Nop{}
	}
	if cfg.TickRate <= 0 {
		cfg.TickRate = DefaultConfig().TickRate
	}

	s := &Scene{
		cfg:        cfg,
		renderer:   r,
		logger:     log.With("component", "scene"),
		models:     make(map[uuid.UUID]*model),
		camera:     cfg.Camera,
		solver:     ik.NewSolver(cfg.Solver, cfg.Options),
		classifier: emotion.NewClassifier(cfg.Emotion),
		clips:      animation.NewRegistry(),
		cmds:       make(chan func()),
		quit:       make(chan struct{}),
		done:       make(chan struct{}),
	}
	s.session = ik.NewSession(s.solver, &s.camera)
	s.playCtx, s.cancelPlay = context.WithCancel(context.Background())

	if err := s.clips.LoadBuiltIn(); err != nil {
		s.logger.Warn("built-in clips unavailable", "error", err)
	}
	s.clips.SetCallback(s.playFrame)

	go s.run()
	return s
}

func (s *Scene) run() {
	defer close(s.done)

	ticker := time.NewTicker(time.Duration(float64(time.Second) / s.cfg.TickRate))
	defer ticker.Stop()

	for {
		select {
		case <-s.quit:
			return
		case fn := <-s.cmds:
			fn()
		case <-ticker.C:
			if s.session.Tick() {
				if d := s.session.Drag(); d != nil {
					s.renderRig(d.Rig)
				}
			}
		}
	}
}

// do runs fn on the scene goroutine and waits for it.
func (s *Scene) do(fn func() error) error {
	result := make(chan error, 1)
	select {
	case s.cmds <- func() { result <- fn() }:
	case <-s.done:
		return ErrClosed
	}
	select {
	case err := <-result:
		return err
	case <-s.done:
		select {
		case err := <-result:
			return err
		default:
			return ErrClosed
		}
	}
}

// Close stops playback and the scene goroutine.
func (s *Scene) Close() error {
	s.closeOnce.Do(func() {
		s.cancelPlay()
		s.clips.Stop()
		close(s.quit)
		<-s.done
		s.logger.Info("scene closed")
	})
	return nil
}

// AddModel places a new mannequin of the given kind next to the others. The
// first model becomes active.
func (s *Scene) AddModel(kind rig.Kind) (ModelInfo, error) {
	var info ModelInfo
	err := s.do(func() error {
		if s.cfg.MaxModels > 0 && len(s.models) >= s.cfg.MaxModels {
			return fmt.Errorf("%w: limit is %d", ErrTooManyModels, s.cfg.MaxModels)
		}

		m := &model{id: uuid.New(), rig: rig.New(kind), slot: s.freeSlot()}
		m.rig.Origin[0] = s.cfg.Spacing * slotOffset(m.slot)
		constraint.Attach(m.rig, s.cfg.Constraint)

		s.models[m.id] = m
		s.order = append(s.order, m.id)
		if s.active == uuid.Nil {
			s.active = m.id
		}

		for _, j := range m.rig.Joints() {
			if j.Shape != nil {
				s.renderer.Attach(m.id.String(), j.Name, *j.Shape)
			}
		}
		s.render(m)
		info = s.info(m)
		s.logger.Info("model added", "model", info.ID, "kind", info.Kind)
		return nil
	})
	return info, err
}

// freeSlot returns the lowest placement slot not taken by a model.
func (s *Scene) freeSlot() int {
	taken := make(map[int]bool, len(s.models))
	for _, m := range s.models {
		taken[m.slot] = true
	}
	slot := 0
	for taken[slot] {
		slot++
	}
	return slot
}

// slotOffset spreads slots out from the centre: 0, 1, -1, 2, -2, ...
func slotOffset(slot int) float64 {
	n := float64((slot + 1) / 2)
	if slot%2 == 0 {
		return -n
	}
	return n
}

// RemoveModel takes a model off stage. Removing the active model activates
// the oldest remaining one.
func (s *Scene) RemoveModel(id string) error {
	return s.do(func() error {
		m, err := s.lookup(id)
		if err != nil {
			return err
		}

		s.session.Forget(m.rig)
		delete(s.models, m.id)
		for i, o := range s.order {
			if o == m.id {
				s.order = append(s.order[:i], s.order[i+1:]...)
				break
			}
		}
		if s.active == m.id {
			s.active = uuid.Nil
			if len(s.order) > 0 {
				s.active = s.order[0]
			}
		}
		s.renderer.Detach(m.id.String())
		s.logger.Info("model removed", "model", id)
		return nil
	})
}

// Models lists the models in the order they were added.
func (s *Scene) Models() []ModelInfo {
	var out []ModelInfo
	_ = s.do(func() error {
		out = make([]ModelInfo, 0, len(s.order))
		for _, id := range s.order {
			out = append(out, s.info(s.models[id]))
		}
		return nil
	})
	return out
}

// SetActive makes a model the target of landmarks and clip playback.
func (s *Scene) SetActive(id string) error {
	return s.do(func() error {
		m, err := s.lookup(id)
		if err != nil {
			return err
		}
		s.active = m.id
		return nil
	})
}

// Active returns the active model.
func (s *Scene) Active() (ModelInfo, error) {
	var info ModelInfo
	err := s.do(func() error {
		m, ok := s.models[s.active]
		if !ok {
			return ErrNoModel
		}
		info = s.info(m)
		return nil
	})
	return info, err
}

// RenderAll renders every model, for example when a viewer connects.
func (s *Scene) RenderAll() error {
	return s.do(func() error {
		for _, id := range s.order {
			s.render(s.models[id])
		}
		return nil
	})
}

func (s *Scene) lookup(id string) (*model, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownModel, id)
	}
	m, ok := s.models[uid]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownModel, id)
	}
	return m, nil
}

func (s *Scene) activeModel() (*model, error) {
	m, ok := s.models[s.active]
	if !ok {
		return nil, ErrNoModel
	}
	return m, nil
}

func (s *Scene) info(m *model) ModelInfo {
	return ModelInfo{
		ID:     m.id.String(),
		Kind:   m.rig.Kind.String(),
		Height: m.rig.Height,
		Active: m.id == s.active,
	}
}

func (s *Scene) render(m *model) {
	s.renderer.Render(newFrame(m, s.session.Gauge()))
}

func (s *Scene) renderRig(r *rig.Rig) {
	if m := s.modelOf(r); m != nil {
		s.render(m)
	}
}

func (s *Scene) modelOf(r *rig.Rig) *model {
	for _, m := range s.models {
		if m.rig == r {
			return m
		}
	}
	return nil
}
