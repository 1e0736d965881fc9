// Package logutil provides the project's loggers.
//
// Loggers obtained from GetLogger discard everything until SetOutput wires
// them to a destination, so library code can log unconditionally and
// binaries opt in (typically behind a -log flag).
package logutil

import (
	"context"
	"io"
	"log/slog"
	"sync"
)

var state = struct {
	sync.RWMutex
	backing slog.Handler
}{}

// SetOutput directs all loggers to w at the given level. A nil w restores
// the default of discarding everything.
func SetOutput(w io.Writer, level slog.Level) {
	state.Lock()
	defer state.Unlock()
	if w == nil {
		state.backing = nil
		return
	}
	state.backing = slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
}

// GetLogger returns a named logger. The name appears as a "logger"
// attribute on every record.
func GetLogger(name string) *slog.Logger {
	return slog.New(&handler{name: name})
}

// handler forwards to the current backing handler, so that SetOutput
// affects loggers created before it was called.
type handler struct {
	name  string
	attrs []slog.Attr
}

func backing() slog.Handler {
	state.RLock()
	defer state.RUnlock()
	return state.backing
}

func (h *handler) Enabled(ctx context.Context, level slog.Level) bool {
	b := backing()
	return b != nil && b.Enabled(ctx, level)
}

func (h *handler) Handle(ctx context.Context, r slog.Record) error {
	b := backing()
	if b == nil {
		return nil
	}
	r = r.Clone()
	r.AddAttrs(slog.String("logger", h.name))
	r.AddAttrs(h.attrs...)
	return b.Handle(ctx, r)
}

func (h *handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	all := append(append([]slog.Attr(nil), h.attrs...), attrs...)
	return &handler{name: h.name, attrs: all}
}

func (h *handler) WithGroup(name string) slog.Handler {
	// Groups are not used in this project; flatten them.
	return h
}
