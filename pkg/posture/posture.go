// Package posture serializes the joint angles of a rig into a versioned,
// ordered list of per-joint tuples and back.
package posture

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
)

// Version is the posture format produced by Capture.
const Version = 7

// Names lists the posture entries in order. The first entry is the root
// position; every other entry is named after the joint it describes.
var Names = []string{
	"position",
	"body", "torso", "head",
	"l_leg", "l_knee", "l_ankle",
	"r_leg", "r_knee", "r_ankle",
	"l_arm", "l_elbow", "l_wrist",
	"l_finger_0", "l_finger_1", "l_finger_2", "l_finger_3", "l_finger_4",
	"r_arm", "r_elbow", "r_wrist",
	"r_finger_0", "r_finger_1", "r_finger_2", "r_finger_3", "r_finger_4",
}

// Entry is one tuple of a posture. A bare JSON number decodes as a single
// value entry, which older files use for the root height.
type Entry []float64

// UnmarshalJSON accepts either an array of numbers or a single number.
func (e *Entry) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] != '[' {
		var v float64
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*e = Entry{v}
		return nil
	}
	var vs []float64
	if err := json.Unmarshal(b, &vs); err != nil {
		return err
	}
	*e = vs
	return nil
}

// Posture is a complete snapshot of a rig's joint angles.
type Posture struct {
	Version int     `json:"version"`
	Data    []Entry `json:"data"`
}

// Parse decodes a posture from its JSON form. Structural problems are
// reported as ErrMalformedPosture.
func Parse(data []byte) (Posture, error) {
	var p Posture
	if err := json.Unmarshal(data, &p); err != nil {
		return Posture{}, fmt.Errorf("%w: %v", ErrMalformedPosture, err)
	}
	return p, nil
}

// String returns the JSON form of p.
func (p Posture) String() string {
	b, err := json.Marshal(p)
	if err != nil {
		return ""
	}
	return string(b)
}

// Clone returns a deep copy of p.
func (p Posture) Clone() Posture {
	out := Posture{Version: p.Version, Data: make([]Entry, len(p.Data))}
	for i, e := range p.Data {
		out.Data[i] = append(Entry(nil), e...)
	}
	return out
}

// Entry returns the named entry or nil.
func (p Posture) Entry(name string) Entry {
	for i, n := range Names {
		if n == name && i < len(p.Data) {
			return p.Data[i]
		}
	}
	return nil
}

// Validate checks that p is a well-formed posture of the current version.
func Validate(p Posture) error {
	if p.Version != Version {
		return &VersionMismatchError{Version: p.Version}
	}
	if len(p.Data) != len(Names) {
		return malformed("expected %d entries, got %d", len(Names), len(p.Data))
	}
	for i, e := range p.Data {
		if !validWidth(i, len(e)) {
			return malformed("entry %d (%s) has %d values", i, Names[i], len(e))
		}
		for _, v := range e {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return malformed("entry %d (%s) is not finite", i, Names[i])
			}
		}
	}
	return nil
}

func validWidth(i, n int) bool {
	switch w := entryWidth(i); w {
	case 7:
		return n == 6 || n == 7
	case 3:
		if i == 0 {
			return n == 1 || n == 3
		}
		return n == 3
	default:
		return n == w
	}
}

// entryWidth is the number of values Capture writes for entry i.
func entryWidth(i int) int {
	switch name := Names[i]; {
	case name == "l_knee", name == "r_knee", name == "l_elbow", name == "r_elbow":
		return 1
	case len(name) > 8 && name[2:8] == "finger":
		return 7
	default:
		return 3
	}
}

// Diff returns the names of the entries that differ by more than tol.
func Diff(a, b Posture, tol float64) []string {
	var out []string
	for i := range Names {
		if i >= len(a.Data) || i >= len(b.Data) {
			out = append(out, Names[i])
			continue
		}
		ea, eb := a.Data[i], b.Data[i]
		if len(ea) != len(eb) {
			out = append(out, Names[i])
			continue
		}
		for k := range ea {
			if math.Abs(ea[k]-eb[k]) > tol {
				out = append(out, Names[i])
				break
			}
		}
	}
	return out
}
