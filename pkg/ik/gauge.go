package ik

import (
	"math"

	"github.com/teslashibe/go-mannequin/pkg/rig"
)

// Gauge is the rotation indicator drawn around the selected joint. It lives
// in the joint's wrapper frame and only exists while a joint is selected.
type Gauge struct {
	Joint    string     `json:"joint"`
	Visible  bool       `json:"visible"`
	OffsetY  float64    `json:"offset_y"`
	Rotation [3]float64 `json:"rotation"` // XYZ Euler angles in radians
}

// NewGauge places a gauge on the selected joint. The gauge is hidden while
// translating the rig.
func NewGauge(j *rig.Joint, opts Options) *Gauge {
	g := &Gauge{Joint: j.Name, Visible: !opts.Moving()}
	if j.Role == rig.RoleAnkle {
		g.OffsetY = 2
	}
	return g
}

// Orient turns the gauge to the axis being driven.
func (g *Gauge) Orient(j *rig.Joint, opts Options, buttons int) {
	spin := 0.0
	if j.Role == rig.RoleAnkle {
		spin = math.Pi / 2
	}
	none := opts.none()

	g.Rotation = [3]float64{0, 0, -spin}
	if opts.RotX || none && buttons&ButtonSecondary != 0 {
		g.Rotation = [3]float64{0, math.Pi / 2, 2 * spin}
	}
	if opts.RotY || none && buttons&ButtonMiddle != 0 {
		g.Rotation = [3]float64{math.Pi / 2, 0, -math.Pi / 2}
	}
}
