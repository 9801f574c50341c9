package runlog

import (
	"bytes"
	"context"
	"log/slog"
	"path/filepath"
	"testing"
)

func TestSwappableHandlerUsesLatestSwap(t *testing.T) {
	var first, second bytes.Buffer
	sh := NewSwappableHandler(slog.NewTextHandler(&first, nil))

	logger := slog.New(sh)
	logger.Info("to first")
	if first.Len() == 0 {
		t.Fatal("expected a record written to the first handler")
	}

	sh.Swap(slog.NewTextHandler(&second, nil))
	logger.Info("to second")
	if second.Len() == 0 {
		t.Fatal("expected a record written to the second handler after swapping")
	}
	if bytes.Contains(second.Bytes(), []byte("to first")) {
		t.Fatal("the second handler should not see records logged before the swap")
	}
}

func TestSwappableHandlerEnabledReflectsCurrentHandler(t *testing.T) {
	level := new(slog.LevelVar)
	level.Set(slog.LevelWarn)
	sh := NewSwappableHandler(slog.NewTextHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: level}))

	if sh.Enabled(context.Background(), slog.LevelInfo) {
		t.Fatal("expected info to be disabled at warn level")
	}
	if !sh.Enabled(context.Background(), slog.LevelError) {
		t.Fatal("expected error to be enabled at warn level")
	}
}

func TestManagerUpgradeSwitchesToRotatingFile(t *testing.T) {
	m := NewManager()
	m.Logger().Info("bootstrap message")

	logPath := filepath.Join(t.TempDir(), "compflow.log")
	if err := m.Upgrade(logPath, slog.LevelDebug, 1, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	m.Logger().Debug("post-upgrade message")

	if err := m.Close(); err != nil {
		t.Fatalf("unexpected error closing manager: %v", err)
	}
}

func TestManagerCloseIsNoopBeforeUpgrade(t *testing.T) {
	m := NewManager()
	if err := m.Close(); err != nil {
		t.Fatalf("expected no error closing a manager that never upgraded, got %v", err)
	}
}
