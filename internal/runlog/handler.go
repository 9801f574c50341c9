// Package runlog provides compflow's logging bootstrap: a stderr-only
// text logger available before configuration loads, upgraded in place
// to a stderr-plus-rotating-file fanout once it has.
package runlog

import (
	"context"
	"log/slog"
	"os"
	"sync/atomic"

	slogmulti "github.com/samber/slog-multi"
	"gopkg.in/natefinch/lumberjack.v2"
)

// SwappableHandler wraps a slog.Handler that can be atomically replaced
// at runtime, so a *slog.Logger handed out during bootstrap keeps
// working, under the upgraded handler, once UpgradeToRotatingFile runs.
type SwappableHandler struct {
	handler atomic.Pointer[slog.Handler]
}

// NewSwappableHandler wraps initial as the handler's starting point.
func NewSwappableHandler(initial slog.Handler) *SwappableHandler {
	sh := &SwappableHandler{}
	sh.handler.Store(&initial)
	return sh
}

// Swap atomically replaces the underlying handler.
func (sh *SwappableHandler) Swap(next slog.Handler) {
	sh.handler.Store(&next)
}

func (sh *SwappableHandler) current() slog.Handler {
	return *sh.handler.Load()
}

func (sh *SwappableHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return sh.current().Enabled(ctx, level)
}

func (sh *SwappableHandler) Handle(ctx context.Context, r slog.Record) error {
	return sh.current().Handle(ctx, r)
}

func (sh *SwappableHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return NewSwappableHandler(sh.current().WithAttrs(attrs))
}

func (sh *SwappableHandler) WithGroup(name string) slog.Handler {
	return NewSwappableHandler(sh.current().WithGroup(name))
}

// UpgradeToRotatingFile builds a stderr-text-plus-rotating-JSON-file
// fanout handler and swaps it in as sh's new underlying handler. The
// returned *lumberjack.Logger is the caller's to Close when logging
// shuts down; sh itself owns no file handles.
func (sh *SwappableHandler) UpgradeToRotatingFile(path string, level slog.Leveler, maxSizeMB, maxBackups int) *lumberjack.Logger {
	rotator := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    maxSizeMB,
		MaxBackups: maxBackups,
		Compress:   true,
	}

	opts := &slog.HandlerOptions{Level: level}
	sh.Swap(slogmulti.Fanout(
		slog.NewTextHandler(os.Stderr, opts),
		slog.NewJSONHandler(rotator, opts),
	))
	return rotator
}
