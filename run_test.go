package compflow

import (
	"context"
	"testing"
)

// TestRunIsIdempotentOnExistingBroker verifies the round-trip property
// that running the same group again against a broker that already
// holds every result is a no-op, because every component is already
// present and runComponents skips it.
func TestRunIsIdempotentOnExistingBroker(t *testing.T) {
	reg := NewRegistry()
	rg := NewComponentType(reg)

	var calls int
	a := rg.New(func() (int, error) {
		calls++
		return 1, nil
	})

	ctx := context.Background()
	broker, err := Run(ctx, reg, DefaultGroup)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected a to run once, ran %d times", calls)
	}

	if _, err := Run(ctx, reg, DefaultGroup, WithRunBroker(broker)); err != nil {
		t.Fatalf("unexpected error on second run: %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected a second run against the same broker to be a no-op, ran %d times total", calls)
	}
	_ = a
}

func TestRunHonorsContextCancellation(t *testing.T) {
	reg := NewRegistry()
	rg := NewComponentType(reg)

	var ran bool
	rg.New(func() (int, error) {
		ran = true
		return 1, nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := Run(ctx, reg, DefaultGroup); err != nil {
		t.Fatalf("Run itself should not error on an already-cancelled context: %v", err)
	}
	if ran {
		t.Fatal("expected no component to run once the context is already cancelled")
	}
}
