// Package debug gates the per-frame trace logs that are too noisy for the
// normal debug level. Each topic is switched on separately from the command
// line and its records go through the shared slog logger.
package debug

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/teslashibe/go-mannequin/internal/log"
)

// Topic names one family of trace logs.
type Topic uint32

const (
	// Solver traces every IK probe and step.
	Solver Topic = 1 << iota
	// Landmarks traces detected poses and per-frame emotion results.
	Landmarks
)

func (t Topic) String() string {
	switch t {
	case Solver:
		return "solver"
	case Landmarks:
		return "landmarks"
	}
	return "unknown"
}

var topics atomic.Uint32

// Enable switches t on. Trace records are emitted at debug level, so the
// logger is lowered to debug when it is above it.
func Enable(t Topic) {
	topics.Or(uint32(t))
	if log.Level() > slog.LevelDebug {
		log.SetLevel(slog.LevelDebug)
	}
}

// Disable switches t off.
func Disable(t Topic) { topics.And(^uint32(t)) }

// On reports whether t is enabled.
func On(t Topic) bool { return topics.Load()&uint32(t) != 0 }

// Trace logs msg under t when t is enabled.
func Trace(t Topic, msg string, args ...any) {
	if !On(t) {
		return
	}
	l := log.L()
	if !l.Enabled(context.Background(), slog.LevelDebug) {
		return
	}
	l.Debug(msg, append([]any{"topic", t.String()}, args...)...)
}
