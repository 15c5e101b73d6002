package animation

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/teslashibe/go-mannequin/pkg/posture"
)

// Player handles clip playback with keyframe blending.
type Player struct {
	mu       sync.RWMutex
	state    PlaybackState
	clip     *Clip
	opts     PlayerOptions
	startAt  time.Time
	pausedAt time.Duration
	stopCh   chan struct{}
}

// NewPlayer creates a new clip player.
func NewPlayer() *Player {
	return &Player{
		state:  StateStopped,
		opts:   DefaultPlayerOptions(),
		stopCh: make(chan struct{}),
	}
}

// Play starts playback of a clip with default options.
// Blocks until playback completes or is stopped.
func (p *Player) Play(ctx context.Context, clip *Clip, callback PlayerCallback) error {
	return p.PlayWithOptions(ctx, clip, callback, DefaultPlayerOptions())
}

// PlayWithOptions starts playback with custom options.
func (p *Player) PlayWithOptions(ctx context.Context, clip *Clip, callback PlayerCallback, opts PlayerOptions) error {
	if opts.FrameRate <= 0 {
		opts.FrameRate = DefaultPlayerOptions().FrameRate
	}
	if opts.Speed <= 0 {
		opts.Speed = 1
	}

	p.mu.Lock()
	if p.state != StateStopped {
		p.mu.Unlock()
		return ErrAlreadyPlaying
	}
	p.clip = clip
	p.opts = opts
	p.state = StatePlaying
	p.startAt = time.Now()
	p.pausedAt = 0
	p.stopCh = make(chan struct{})
	stopCh := p.stopCh
	p.mu.Unlock()

	defer func() {
		p.mu.Lock()
		p.state = StateStopped
		p.mu.Unlock()
	}()

	ticker := time.NewTicker(time.Duration(float64(time.Second) / opts.FrameRate))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case <-stopCh:
			return nil

		case <-ticker.C:
			elapsed, playing := p.position()
			if !playing {
				continue
			}
			elapsed = time.Duration(float64(elapsed) * opts.Speed)

			if elapsed >= clip.Duration {
				if !opts.Loop {
					callback(clip.At(clip.Duration), clip.Duration)
					return nil
				}
				p.mu.Lock()
				p.startAt = time.Now()
				p.pausedAt = 0
				p.mu.Unlock()
				elapsed = 0
			}

			if !callback(clip.At(elapsed), elapsed) {
				return nil
			}
		}
	}
}

// position returns the unscaled playback time and whether playback runs.
func (p *Player) position() (time.Duration, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.state != StatePlaying {
		return 0, false
	}
	return p.pausedAt + time.Since(p.startAt), true
}

// At returns the blended posture at a time offset into the clip. Offsets
// before the first or after the last keyframe clamp to it.
func (c *Clip) At(elapsed time.Duration) posture.Posture {
	if len(c.Keyframes) == 0 {
		return posture.Posture{}
	}
	if len(c.Keyframes) == 1 {
		return c.Keyframes[0]
	}

	t := c.Timestamps[0] + elapsed.Seconds()
	idx := sort.Search(len(c.Timestamps), func(i int) bool {
		return c.Timestamps[i] > t
	})
	if idx == 0 {
		return c.Keyframes[0]
	}
	if idx >= len(c.Timestamps) {
		return c.Keyframes[len(c.Keyframes)-1]
	}

	tPrev, tNext := c.Timestamps[idx-1], c.Timestamps[idx]
	alpha := 0.0
	if tNext != tPrev {
		alpha = clamp((t-tPrev)/(tNext-tPrev), 0, 1)
	}

	out, err := posture.Blend(c.Keyframes[idx-1], c.Keyframes[idx], alpha)
	if err != nil {
		// Mismatched hand-built keyframes hold the earlier one.
		return c.Keyframes[idx-1]
	}
	return out
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Stop halts playback immediately.
func (p *Player) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state == StatePlaying || p.state == StatePaused {
		close(p.stopCh)
		p.state = StateStopped
	}
}

// Pause temporarily stops playback.
func (p *Player) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state == StatePlaying {
		p.pausedAt += time.Since(p.startAt)
		p.state = StatePaused
	}
}

// Resume continues paused playback.
func (p *Player) Resume() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state == StatePaused {
		p.startAt = time.Now()
		p.state = StatePlaying
	}
}

// State returns the current playback state.
func (p *Player) State() PlaybackState {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.state
}

// CurrentClip returns the clip being played, if any.
func (p *Player) CurrentClip() *Clip {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.state == StateStopped {
		return nil
	}
	return p.clip
}

// Elapsed returns how much unscaled time has passed in the current playback.
func (p *Player) Elapsed() time.Duration {
	p.mu.RLock()
	defer p.mu.RUnlock()

	switch p.state {
	case StateStopped:
		return 0
	case StatePaused:
		return p.pausedAt
	}
	return p.pausedAt + time.Since(p.startAt)
}
