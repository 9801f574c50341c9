package discovery

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatcherDeliversManifestOnWrite(t *testing.T) {
	dir := t.TempDir()
	w, err := New(dir, WithDebounce(10*time.Millisecond))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go w.Run(ctx)

	path := filepath.Join(dir, "ingest.manifest")
	contents := "alpha\n# a comment\n\nbeta\n"
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("unexpected error writing manifest: %v", err)
	}

	select {
	case m := <-w.Changes():
		if m.Group != "ingest" {
			t.Fatalf("expected group \"ingest\", got %q", m.Group)
		}
		if len(m.Names) != 2 || m.Names[0] != "alpha" || m.Names[1] != "beta" {
			t.Fatalf("expected names [alpha beta], got %v", m.Names)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for manifest delivery")
	}
}

func TestWatcherIgnoresNonManifestFiles(t *testing.T) {
	dir := t.TempDir()
	w, err := New(dir, WithDebounce(10*time.Millisecond))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go w.Run(ctx)

	path := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(path, []byte("irrelevant"), 0o644); err != nil {
		t.Fatalf("unexpected error writing file: %v", err)
	}

	select {
	case m := <-w.Changes():
		t.Fatalf("expected no delivery for a non-manifest file, got %v", m)
	case <-time.After(200 * time.Millisecond):
	}
}
