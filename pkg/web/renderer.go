package web

import (
	"log/slog"
	"sync"

	"github.com/teslashibe/go-mannequin/internal/log"
	"github.com/teslashibe/go-mannequin/pkg/emotion"
	"github.com/teslashibe/go-mannequin/pkg/hub"
	"github.com/teslashibe/go-mannequin/pkg/protocol"
	"github.com/teslashibe/go-mannequin/pkg/rig"
	"github.com/teslashibe/go-mannequin/pkg/scene"
)

// Renderer draws the scene for browser viewers by broadcasting rig frames
// and emotion results over websocket hubs.
type Renderer struct {
	rigHub     *hub.Hub
	emotionHub *hub.Hub
	logger     *slog.Logger

	mu     sync.RWMutex
	shapes map[string]map[string]rig.Shape
}

// NewRenderer creates a renderer with its own rig and emotion hubs.
func NewRenderer() *Renderer {
	return &Renderer{
		rigHub:     hub.New("rig"),
		emotionHub: hub.New("emotion"),
		logger:     log.With("component", "renderer"),
		shapes:     make(map[string]map[string]rig.Shape),
	}
}

// Attach records the visual of a joint so frames can carry it.
func (r *Renderer) Attach(model, joint string, shape rig.Shape) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.shapes[model] == nil {
		r.shapes[model] = make(map[string]rig.Shape)
	}
	r.shapes[model][joint] = shape
}

// Detach forgets a model and tells viewers to drop it.
func (r *Renderer) Detach(model string) {
	r.mu.Lock()
	delete(r.shapes, model)
	r.mu.Unlock()

	msg, err := protocol.NewRemovedMessage(model)
	r.broadcast(r.rigHub, msg, err, func(data []byte) hub.Message {
		return hub.NewForget(model, data)
	})
}

// Render broadcasts a rig frame. The hub keeps the latest frame per model
// for viewers that connect later.
func (r *Renderer) Render(f scene.Frame) {
	msg, err := protocol.NewRigMessage(r.rigFrame(f))
	r.broadcast(r.rigHub, msg, err, func(data []byte) hub.Message {
		return hub.NewState(f.Model, data)
	})
}

// RenderEmotion broadcasts an emotion result.
func (r *Renderer) RenderEmotion(res emotion.Result) {
	msg, err := protocol.NewEmotionMessage(res)
	r.broadcast(r.emotionHub, msg, err, func(data []byte) hub.Message {
		return hub.NewState("emotion", data)
	})
}

func (r *Renderer) rigFrame(f scene.Frame) protocol.RigFrame {
	r.mu.RLock()
	shapes := r.shapes[f.Model]
	r.mu.RUnlock()

	out := protocol.RigFrame{
		Model:    f.Model,
		Kind:     f.Kind.String(),
		Selected: f.Selected,
		Joints:   make([]protocol.JointFrame, 0, len(f.Joints)),
		Posture:  f.Posture,
	}
	for _, j := range f.Joints {
		jf := protocol.JointFrame{
			Name:   j.Name,
			Matrix: [16]float64(j.World),
			Image:  [16]float64(j.Image),
		}
		if s, ok := shapes[j.Name]; ok {
			jf.Shape = &protocol.ShapeData{Center: [3]float64(s.Center), Radii: [3]float64(s.Radii)}
		}
		out.Joints = append(out.Joints, jf)
	}
	if g := f.Gauge; g != nil && g.Visible {
		out.Gauge = &protocol.GaugeData{Joint: g.Joint, OffsetY: g.OffsetY, Rotation: g.Rotation}
	}
	return out
}

func (r *Renderer) broadcast(h *hub.Hub, msg *protocol.Message, err error, wrap func([]byte) hub.Message) {
	if err == nil {
		var data []byte
		if data, err = msg.Bytes(); err == nil {
			h.Broadcast(wrap(data))
			return
		}
	}
	r.logger.Warn("failed to encode frame", "error", err)
}
