package scene

import (
	"github.com/teslashibe/go-mannequin/pkg/emotion"
	"github.com/teslashibe/go-mannequin/pkg/ik"
	"github.com/teslashibe/go-mannequin/pkg/landmark"
)

// Landmarks classifies a frame of detected poses and, with retargeting on,
// drives the active model from the last pose. A model being dragged is left
// alone. Frames whose timestamp did not advance are rejected with
// ErrStaleFrame.
func (s *Scene) Landmarks(f landmark.Frame) ([]emotion.Result, error) {
	if !s.gate.Admit(f.Timestamp) {
		return nil, ErrStaleFrame
	}

	results, err := s.classifier.ClassifyFrame(f)
	if err != nil {
		return nil, err
	}

	err = s.do(func() error {
		if n := len(results); n > 0 {
			if er, ok := s.renderer.(EmotionRenderer); ok {
				er.RenderEmotion(results[n-1])
			}
		}

		if !s.cfg.Retarget || len(f.Poses) == 0 {
			return nil
		}
		m, err := s.activeModel()
		if err != nil {
			return nil
		}
		if d := s.session.Drag(); s.session.State() == ik.Dragging && d != nil && d.Rig == m.rig {
			return nil
		}
		if err := landmark.Retarget(m.rig, f.Poses[len(f.Poses)-1]); err != nil {
			return err
		}
		s.render(m)
		return nil
	})
	return results, err
}

// Emotion returns the latest classification.
func (s *Scene) Emotion() emotion.Result {
	return s.classifier.Last()
}
