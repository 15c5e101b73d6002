package animation

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/teslashibe/go-mannequin/internal/log"
)

// Registry manages a collection of clips and provides playback.
type Registry struct {
	mu       sync.RWMutex
	clips    map[string]*Clip
	player   *Player
	callback PlayerCallback
}

// NewRegistry creates a new clip registry.
func NewRegistry() *Registry {
	return &Registry{
		clips:  make(map[string]*Clip),
		player: NewPlayer(),
	}
}

// LoadBuiltIn loads all embedded clips into the registry.
func (r *Registry) LoadBuiltIn() error {
	names, err := ListEmbedded()
	if err != nil {
		return err
	}

	for _, name := range names {
		clip, err := LoadEmbedded(name)
		if err != nil {
			return fmt.Errorf("failed to load clip %q: %w", name, err)
		}
		r.Register(clip)
	}
	return nil
}

// LoadCustomDir loads clips from a directory, replacing built-ins of the
// same name.
func (r *Registry) LoadCustomDir(dir string) error {
	clips, err := LoadFromDirectory(dir)
	if err != nil {
		return err
	}
	for _, clip := range clips {
		r.Register(clip)
	}
	log.Info("loaded custom clips", "dir", dir, "count", len(clips))
	return nil
}

// Register adds a clip to the registry.
func (r *Registry) Register(clip *Clip) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clips[clip.Name] = clip
}

// Unregister removes a clip from the registry.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.clips, name)
}

// Get retrieves a clip by name.
func (r *Registry) Get(name string) (*Clip, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	clip, ok := r.clips[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return clip, nil
}

// List returns all registered clip names, sorted alphabetically.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.clips))
	for name := range r.clips {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ListWithDescriptions returns all clips with their descriptions.
func (r *Registry) ListWithDescriptions() map[string]string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make(map[string]string, len(r.clips))
	for name, clip := range r.clips {
		result[name] = clip.Description
	}
	return result
}

// Count returns the number of registered clips.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.clips)
}

// SetCallback sets the callback function for playback.
// This should be set before calling Play.
func (r *Registry) SetCallback(cb PlayerCallback) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.callback = cb
}

func (r *Registry) prepare(name string) (*Clip, PlayerCallback, error) {
	clip, err := r.Get(name)
	if err != nil {
		return nil, nil, err
	}

	r.mu.RLock()
	cb := r.callback
	r.mu.RUnlock()

	if cb == nil {
		return nil, nil, ErrNoCallback
	}
	if r.player.State() != StateStopped {
		return nil, nil, ErrAlreadyPlaying
	}
	return clip, cb, nil
}

// Play starts playing a clip by name.
// Returns immediately; playback happens in a goroutine.
func (r *Registry) Play(ctx context.Context, name string) error {
	return r.PlayWithOptions(ctx, name, DefaultPlayerOptions())
}

// PlayWithOptions plays a clip with custom options in a goroutine.
func (r *Registry) PlayWithOptions(ctx context.Context, name string, opts PlayerOptions) error {
	clip, cb, err := r.prepare(name)
	if err != nil {
		return err
	}

	go func() {
		if err := r.player.PlayWithOptions(ctx, clip, cb, opts); err != nil && ctx.Err() == nil {
			log.Warn("clip playback failed", "clip", name, "error", err)
		}
	}()
	return nil
}

// PlaySync plays a clip and blocks until complete.
func (r *Registry) PlaySync(ctx context.Context, name string) error {
	clip, cb, err := r.prepare(name)
	if err != nil {
		return err
	}
	return r.player.Play(ctx, clip, cb)
}

// Stop halts the currently playing clip.
func (r *Registry) Stop() {
	r.player.Stop()
}

// Pause pauses the currently playing clip.
func (r *Registry) Pause() {
	r.player.Pause()
}

// Resume resumes a paused clip.
func (r *Registry) Resume() {
	r.player.Resume()
}

// State returns the current playback state.
func (r *Registry) State() PlaybackState {
	return r.player.State()
}

// IsPlaying returns true if a clip is currently playing.
func (r *Registry) IsPlaying() bool {
	return r.player.State() == StatePlaying
}

// CurrentClip returns the name of the currently playing clip.
func (r *Registry) CurrentClip() string {
	if c := r.player.CurrentClip(); c != nil {
		return c.Name
	}
	return ""
}

// Search finds clips whose name or description contains query, ignoring case.
func (r *Registry) Search(query string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	q := strings.ToLower(query)
	var matches []string
	for name, clip := range r.clips {
		if strings.Contains(strings.ToLower(name), q) || strings.Contains(strings.ToLower(clip.Description), q) {
			matches = append(matches, name)
		}
	}
	sort.Strings(matches)
	return matches
}
