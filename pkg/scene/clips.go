package scene

import (
	"time"

	"github.com/teslashibe/go-mannequin/pkg/animation"
	"github.com/teslashibe/go-mannequin/pkg/posture"
)

// Play starts a clip on the active model. Playback runs until the clip
// ends, Stop is called, the model is removed or the scene closes.
func (s *Scene) Play(name string, opts animation.PlayerOptions) error {
	err := s.do(func() error {
		m, err := s.activeModel()
		if err != nil {
			return err
		}
		s.target = m.id
		return nil
	})
	if err != nil {
		return err
	}
	return s.clips.PlayWithOptions(s.playCtx, name, opts)
}

// Stop halts clip playback.
func (s *Scene) Stop() {
	s.clips.Stop()
}

// Playing returns the clip being played, empty when idle.
func (s *Scene) Playing() string {
	return s.clips.CurrentClip()
}

// Clips lists the available clips with their descriptions.
func (s *Scene) Clips() map[string]string {
	return s.clips.ListWithDescriptions()
}

// LoadClips registers every clip file in dir.
func (s *Scene) LoadClips(dir string) error {
	return s.clips.LoadCustomDir(dir)
}

// playFrame applies one playback frame to the target model.
func (s *Scene) playFrame(p posture.Posture, _ time.Duration) bool {
	err := s.do(func() error {
		m, ok := s.models[s.target]
		if !ok {
			return ErrNoModel
		}
		if err := posture.Apply(m.rig, p); err != nil {
			return err
		}
		s.render(m)
		return nil
	})
	if err != nil {
		s.logger.Debug("clip playback ended", "error", err)
	}
	return err == nil
}
