package runlog

import (
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Manager owns compflow's logger lifecycle. Callers obtain a logger via
// Logger() before Upgrade runs and keep using the same *slog.Logger
// value afterward; the handler underneath it is swapped in place.
type Manager struct {
	handler *SwappableHandler
	logger  *slog.Logger
	rotator *lumberjack.Logger
	level   *slog.LevelVar
}

// NewManager returns a Manager in bootstrap mode: text to stderr only,
// at info level, before runconfig has had a chance to load.
func NewManager() *Manager {
	level := new(slog.LevelVar)
	level.Set(slog.LevelInfo)

	bootstrap := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	handler := NewSwappableHandler(bootstrap)

	return &Manager{
		handler: handler,
		logger:  slog.New(handler),
		level:   level,
	}
}

// Logger returns the manager's logger. The returned value is stable
// across calls to Upgrade and SetLevel.
func (m *Manager) Logger() *slog.Logger {
	return m.logger
}

// Upgrade switches to full mode: text to stderr plus JSON to a
// size-rotated log file at path, at the given level. The compflow run
// loop and registry log their missing-requirement, skip, and
// unresolved-name events at debug.
func (m *Manager) Upgrade(path string, level slog.Level, maxSizeMB, maxBackups int) error {
	m.level.Set(level)
	m.rotator = m.handler.UpgradeToRotatingFile(path, m.level, maxSizeMB, maxBackups)
	return nil
}

// SetLevel changes the active level immediately, in either mode.
func (m *Manager) SetLevel(level slog.Level) {
	m.level.Set(level)
}

// Close releases the rotating file handle, if Upgrade ever ran.
func (m *Manager) Close() error {
	if m.rotator == nil {
		return nil
	}
	if err := m.rotator.Close(); err != nil {
		return fmt.Errorf("runlog: closing log file; %w", err)
	}
	return nil
}
