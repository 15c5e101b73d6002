package scene

import (
	"github.com/teslashibe/go-mannequin/pkg/posture"
	"github.com/teslashibe/go-mannequin/pkg/rig"
)

// JointInfo describes one joint for editing panels.
type JointInfo struct {
	Name     string             `json:"name"`
	Role     string             `json:"role"`
	Controls [3]string          `json:"controls"`
	Min      [3]float64         `json:"min"`
	Max      [3]float64         `json:"max"`
	Free     bool               `json:"free,omitempty"` // no rotation limits; Min and Max are zero
	Motions  map[string]float64 `json:"motions"`
}

// Posture captures the pose of a model.
func (s *Scene) Posture(id string) (posture.Posture, error) {
	var p posture.Posture
	err := s.do(func() error {
		m, err := s.lookup(id)
		if err != nil {
			return err
		}
		p = posture.Capture(m.rig)
		return nil
	})
	return p, err
}

// ApplyPosture writes p into a model. A posture that cannot be applied
// leaves the model untouched.
func (s *Scene) ApplyPosture(id string, p posture.Posture) error {
	return s.do(func() error {
		m, err := s.lookup(id)
		if err != nil {
			return err
		}
		if err := posture.Apply(m.rig, p); err != nil {
			s.logger.Debug("posture rejected", "model", id, "error", err)
			return err
		}
		s.render(m)
		return nil
	})
}

// SetMotion writes one named motion of a joint, e.g. "l_elbow" "bend".
func (s *Scene) SetMotion(id, joint, motion string, v float64) error {
	return s.do(func() error {
		m, err := s.lookup(id)
		if err != nil {
			return err
		}
		j, err := m.rig.Lookup(joint)
		if err != nil {
			return err
		}
		if err := j.SetMotion(motion, v); err != nil {
			return err
		}
		s.render(m)
		return nil
	})
}

// Joints describes every joint of a model with its current motion values.
func (s *Scene) Joints(id string) ([]JointInfo, error) {
	var out []JointInfo
	err := s.do(func() error {
		m, err := s.lookup(id)
		if err != nil {
			return err
		}
		out = make([]JointInfo, 0, len(m.rig.Joints()))
		for _, j := range m.rig.Joints() {
			out = append(out, jointInfo(j))
		}
		return nil
	})
	return out, err
}

func jointInfo(j *rig.Joint) JointInfo {
	info := JointInfo{
		Name:     j.Name,
		Role:     j.Role.String(),
		Controls: j.Controls,
		Motions:  make(map[string]float64),
	}
	if j.Unbounded() {
		info.Free = true
	} else {
		info.Min, info.Max = [3]float64(j.MinRot), [3]float64(j.MaxRot)
	}
	for _, name := range j.Role.Motions() {
		if v, err := j.Motion(name); err == nil {
			info.Motions[name] = rig.Round1(v)
		}
	}
	return info
}
