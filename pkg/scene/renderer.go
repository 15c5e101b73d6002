package scene

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/teslashibe/go-mannequin/pkg/emotion"
	"github.com/teslashibe/go-mannequin/pkg/ik"
	"github.com/teslashibe/go-mannequin/pkg/posture"
	"github.com/teslashibe/go-mannequin/pkg/rig"
)

// Renderer draws the scene. Attach is called once per shaped joint when a
// model enters the scene and Detach when it leaves. Render receives a frame
// every time a model changes. Calls come from the scene goroutine and must
// not block.
type Renderer interface {
	Attach(model, joint string, shape rig.Shape)
	Detach(model string)
	Render(f Frame)
}

// EmotionRenderer is implemented by renderers that display emotion
// classifications.
type EmotionRenderer interface {
	RenderEmotion(r emotion.Result)
}

// Frame is a renderable snapshot of one model.
type Frame struct {
	Model    string
	Kind     rig.Kind
	Selected string
	Joints   []JointPose
	Gauge    *ik.Gauge
	Posture  posture.Posture
}

// JointPose is the placement of one joint in the scene frame.
type JointPose struct {
	Name  string
	World mgl64.Mat4
	Image mgl64.Mat4 // placement of the joint's shape
}

func newFrame(m *model, gauge *ik.Gauge) Frame {
	r := m.rig
	f := Frame{
		Model:   m.id.String(),
		Kind:    r.Kind,
		Joints:  make([]JointPose, 0, len(r.Joints())),
		Posture: posture.Capture(r),
	}
	if sel := r.Selected(); sel != nil {
		f.Selected = sel.Name
		if gauge != nil && gauge.Joint == sel.Name {
			g := *gauge
			f.Gauge = &g
		}
	}
	for _, j := range r.Joints() {
		f.Joints = append(f.Joints, JointPose{Name: j.Name, World: j.World(), Image: j.ImageWorld()})
	}
	return f
}

// Nop is a Renderer that draws nothing.
type Nop struct{}

func (Nop) Attach(string, string, rig.Shape) {}
func (Nop) Detach(string)                    {}
func (Nop) Render(Frame)                     {}
