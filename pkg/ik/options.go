package ik

import (
	"fmt"

	"github.com/teslashibe/go-mannequin/pkg/rig"
)

// Options are the user toggles that steer the solver.
type Options struct {
	RotX bool `json:"rot_x"`
	RotY bool `json:"rot_y"`
	RotZ bool `json:"rot_z"`
	MovX bool `json:"mov_x"`
	MovY bool `json:"mov_y"`
	MovZ bool `json:"mov_z"`

	// Constraints enables limit and plausibility checks.
	Constraints bool `json:"constraints"`

	// Chain propagates each tick up the parent joints.
	Chain bool `json:"chain"`
}

// DefaultOptions returns constraints on, chain on, no axis lock.
func DefaultOptions() Options {
	return Options{Constraints: true, Chain: true}
}

// Mouse button bits as reported by pointer events.
const (
	ButtonPrimary   = 0x1
	ButtonSecondary = 0x2
	ButtonMiddle    = 0x4
)

// Channel is one degree of freedom the solver can drive.
type Channel struct {
	Axis rig.Axis
	Move bool // translate instead of rotate
}

func (c Channel) String() string {
	if c.Move {
		return "position." + c.Axis.String()
	}
	return c.Axis.String()
}

// Moving reports whether any translation toggle is set.
func (o Options) Moving() bool {
	return o.MovX || o.MovY || o.MovZ
}

// none reports whether no axis toggle is set.
func (o Options) none() bool {
	return !o.RotX && !o.RotY && !o.RotZ && !o.Moving()
}

// Channels returns the channels to drive, in solver order. Without a toggle
// the held mouse buttons pick the axes.
func (o Options) Channels(buttons int) []Channel {
	none := o.none()
	var out []Channel
	if o.RotZ || none && buttons&ButtonPrimary != 0 {
		out = append(out, Channel{Axis: rig.AxisZ})
	}
	if o.RotX || none && buttons&ButtonSecondary != 0 {
		out = append(out, Channel{Axis: rig.AxisX})
	}
	if o.RotY || none && buttons&ButtonMiddle != 0 {
		out = append(out, Channel{Axis: rig.AxisY})
	}
	if o.MovX {
		out = append(out, Channel{Axis: rig.AxisX, Move: true})
	}
	if o.MovY {
		out = append(out, Channel{Axis: rig.AxisY, Move: true})
	}
	if o.MovZ {
		out = append(out, Channel{Axis: rig.AxisZ, Move: true})
	}
	return out
}

// SetControl switches one toggle. Axis toggles are exclusive: turning one on
// clears the others. Constraints and chain are independent.
func (o *Options) SetControl(name string, on bool) error {
	axes := map[string]*bool{
		"rot_x": &o.RotX, "rot_y": &o.RotY, "rot_z": &o.RotZ,
		"mov_x": &o.MovX, "mov_y": &o.MovY, "mov_z": &o.MovZ,
	}
	switch name {
	case "constraints":
		o.Constraints = on
		return nil
	case "chain":
		o.Chain = on
		return nil
	}

	target, ok := axes[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownControl, name)
	}
	if on {
		for _, p := range axes {
			*p = false
		}
	}
	*target = on
	return nil
}
