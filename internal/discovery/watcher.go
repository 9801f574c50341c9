// Package discovery watches a directory of group manifests — plain text
// files listing component names, one per line — and republishes the
// named groups whenever a manifest changes. It never imports compflow's
// registration package: the manifest only carries names, which the
// caller resolves against its own *compflow.Registry via Resolve. This
// keeps dynamic filesystem discovery entirely outside compflow's core.
package discovery

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Manifest is one group's desired component list, as read from a file
// named <group>.manifest in the watched directory.
type Manifest struct {
	Group string
	Names []string
}

// Watcher watches a directory of manifests and delivers a fresh
// Manifest over Changes() each time one is created or modified,
// debounced so a burst of writes to the same file yields one delivery.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	logger    *slog.Logger
	debounce  time.Duration

	mu      sync.Mutex
	pending map[string]*time.Timer

	out chan Manifest
}

// WatcherOption configures a Watcher at construction time.
type WatcherOption func(*Watcher)

// WithDebounce overrides the default 200ms debounce window.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) { w.debounce = d }
}

// WithLogger overrides the default slog.Default() logger.
func WithLogger(l *slog.Logger) WatcherOption {
	return func(w *Watcher) { w.logger = l }
}

// New watches dir for manifest files matching *.manifest.
func New(dir string, opts ...WatcherOption) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("discovery: creating watcher; %w", err)
	}
	if err := fsw.Add(dir); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("discovery: watching %q; %w", dir, err)
	}

	w := &Watcher{
		fsWatcher: fsw,
		logger:    slog.Default(),
		debounce:  200 * time.Millisecond,
		pending:   make(map[string]*time.Timer),
		out:       make(chan Manifest),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Changes returns the channel manifests are delivered on. It is closed
// once Run returns.
func (w *Watcher) Changes() <-chan Manifest {
	return w.out
}

// Run processes filesystem events until ctx is cancelled or the
// underlying watcher's event channel closes.
func (w *Watcher) Run(ctx context.Context) error {
	defer close(w.out)
	defer w.fsWatcher.Close()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-w.fsWatcher.Events:
			if !ok {
				return nil
			}
			if !strings.HasSuffix(ev.Name, ".manifest") {
				continue
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) {
				w.scheduleLoad(ctx, ev.Name)
			}
		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("discovery: fsnotify error", "error", err)
		}
	}
}

func (w *Watcher) scheduleLoad(ctx context.Context, path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if t, ok := w.pending[path]; ok {
		t.Stop()
	}
	w.pending[path] = time.AfterFunc(w.debounce, func() {
		m, err := loadManifest(path)
		if err != nil {
			w.logger.Warn("discovery: loading manifest", "path", path, "error", err)
			return
		}
		select {
		case w.out <- m:
		case <-ctx.Done():
		}
	})
}

func loadManifest(path string) (Manifest, error) {
	f, err := os.Open(path)
	if err != nil {
		return Manifest{}, err
	}
	defer f.Close()

	group := strings.TrimSuffix(filepath.Base(path), ".manifest")
	m := Manifest{Group: group}

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		m.Names = append(m.Names, line)
	}
	return m, scanner.Err()
}
