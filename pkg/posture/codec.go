package posture

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/teslashibe/go-mannequin/pkg/rig"
)

// Capture reads the current pose of r. Angles are rounded to one decimal
// degree in XYZ order.
func Capture(r *rig.Rig) Posture {
	p := Posture{Version: Version, Data: make([]Entry, len(Names))}

	pos := r.Root().Position
	p.Data[0] = Entry{rig.Round1(pos[0]), rig.Round1(pos[1]), rig.Round1(pos[2])}

	for i := 1; i < len(Names); i++ {
		j := r.Get(Names[i])
		if j == nil {
			continue
		}
		p.Data[i] = captureJoint(j)
	}
	return p
}

func captureJoint(j *rig.Joint) Entry {
	e := roundAll(j.EulerXYZ())

	switch j.Role.PostureWidth() {
	case 1:
		return Entry{e[2]}
	case 7:
		out := Entry{e[0], e[1], e[2]}
		for ph := firstChild(j); ph != nil; ph = firstChild(ph) {
			pe := roundAll(ph.EulerXYZ())
			out = append(out, pe[0], pe[2])
		}
		return out
	default:
		return Entry{e[0], e[1], e[2]}
	}
}

func roundAll(v mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{rig.Round1(v[0]), rig.Round1(v[1]), rig.Round1(v[2])}
}

func firstChild(j *rig.Joint) *rig.Joint {
	if c := j.Children(); len(c) > 0 {
		return c[0]
	}
	return nil
}

// Apply writes p into r. Postures of an older version are migrated first
// when a migration exists. Validation happens before any joint is touched,
// and the previous pose is restored if writing fails part way.
func Apply(r *rig.Rig, p Posture) error {
	p, err := Upgrade(p)
	if err != nil {
		return err
	}
	if err := Validate(p); err != nil {
		return err
	}

	saved := r.Snapshot()
	if err := write(r, p); err != nil {
		r.Restore(saved)
		return err
	}
	return nil
}

// ApplyString parses s and applies it to r.
func ApplyString(r *rig.Rig, s string) error {
	p, err := Parse([]byte(s))
	if err != nil {
		return err
	}
	return Apply(r, p)
}

func write(r *rig.Rig, p Posture) error {
	root := r.Root()
	if pos := p.Data[0]; len(pos) == 1 {
		root.Position = mgl64.Vec3{0, pos[0], 0}
	} else {
		root.Position = mgl64.Vec3{pos[0], pos[1], pos[2]}
	}

	for i := 1; i < len(Names); i++ {
		j, err := r.Lookup(Names[i])
		if err != nil {
			return fmt.Errorf("%w: %v", ErrMalformedPosture, err)
		}
		e := p.Data[i]

		switch j.Role.PostureWidth() {
		case 1:
			j.SetEulerXYZ(mgl64.Vec3{0, 0, e[0]})
		case 7:
			j.SetEulerXYZ(mgl64.Vec3{e[0], e[1], e[2]})
			mid := firstChild(j)
			if mid == nil {
				return malformed("%s has no phalanges", j.Name)
			}
			mid.SetEulerXYZ(mgl64.Vec3{e[3], 0, e[4]})
			tip := firstChild(mid)
			if tip == nil {
				return malformed("%s has no tip", j.Name)
			}
			tipZ := 0.0
			if len(e) == 7 {
				tipZ = e[6]
			}
			tip.SetEulerXYZ(mgl64.Vec3{e[5], 0, tipZ})
		default:
			j.SetEulerXYZ(mgl64.Vec3{e[0], e[1], e[2]})
		}

		if j.Role.Spec().SharesParent && j.Parent() != nil {
			j.Parent().SetEulerXYZ(mgl64.Vec3{e[0], e[1], e[2]})
		}
	}
	return nil
}

// Migration upgrades posture data by one version.
type Migration func(Posture) (Posture, error)

// Migrations maps a source version to the migration that upgrades it.
var Migrations = map[int]Migration{
	6: Migrate6to7,
}

// Upgrade applies registered migrations until p reaches Version. Unknown
// versions fail with VersionMismatchError.
func Upgrade(p Posture) (Posture, error) {
	for p.Version != Version {
		m, ok := Migrations[p.Version]
		if !ok {
			return Posture{}, &VersionMismatchError{Version: p.Version}
		}
		next, err := m(p)
		if err != nil {
			return Posture{}, err
		}
		p = next
	}
	return p, nil
}

// Version 6 layout: one combined [turn, curl] entry per hand at 13 and 17.
const (
	v6Entries      = 18
	v6LeftFingers  = 13
	v6RightFingers = 17
)

// Migrate6to7 splits the combined per-hand finger entry of version 6 into
// five independent finger entries, half of the curl going to each of the
// two outer phalanges.
func Migrate6to7(p Posture) (Posture, error) {
	if p.Version != 6 {
		return Posture{}, &VersionMismatchError{Version: p.Version}
	}
	if len(p.Data) != v6Entries {
		return Posture{}, malformed("version 6 expects %d entries, got %d", v6Entries, len(p.Data))
	}

	fingers := func(e Entry) ([]Entry, error) {
		if len(e) != 2 {
			return nil, malformed("version 6 finger entry has %d values", len(e))
		}
		a, b := e[0], e[1]
		out := make([]Entry, 5)
		for i := range out {
			out[i] = Entry{0, a, 0, b / 2, 0, b / 2}
		}
		return out, nil
	}

	data := make([]Entry, 0, len(Names))
	data = append(data, p.Data[:v6LeftFingers]...)
	left, err := fingers(p.Data[v6LeftFingers])
	if err != nil {
		return Posture{}, err
	}
	data = append(data, left...)
	data = append(data, p.Data[v6LeftFingers+1:v6RightFingers]...)
	right, err := fingers(p.Data[v6RightFingers])
	if err != nil {
		return Posture{}, err
	}
	data = append(data, right...)

	return Posture{Version: 7, Data: data}.Clone(), nil
}

// Blend linearly interpolates every value of a towards b. t=0 yields a and
// t=1 yields b.
func Blend(a, b Posture, t float64) (Posture, error) {
	if a.Version != b.Version {
		return Posture{}, fmt.Errorf("%w: versions %d and %d", ErrIncompatibleBlend, a.Version, b.Version)
	}
	if len(a.Data) != len(b.Data) {
		return Posture{}, malformed("blend of %d and %d entries", len(a.Data), len(b.Data))
	}

	out := Posture{Version: b.Version, Data: make([]Entry, len(a.Data))}
	for i := range a.Data {
		ea, eb := a.Data[i], b.Data[i]
		if len(ea) != len(eb) {
			return Posture{}, malformed("blend of entry %d with %d and %d values", i, len(ea), len(eb))
		}
		e := make(Entry, len(ea))
		for k := range ea {
			e[k] = lerp(ea[k], eb[k], t)
		}
		out.Data[i] = e
	}
	return out, nil
}

func lerp(a, b, t float64) float64 {
	switch t {
	case 0:
		return a
	case 1:
		return b
	}
	return a*(1-t) + b*t
}

// UserMessage turns an Apply error into the text shown to a person
// importing a posture.
func UserMessage(err error) string {
	var vm *VersionMismatchError
	if errors.As(err, &vm) {
		return vm.Error()
	}
	return "The provided posture was either invalid or impossible to understand."
}
