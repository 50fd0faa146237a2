package local

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
)

// Notifier receives the change signal.
type Notifier interface {
	Notify()
}

// Watcher turns writes to the database file by any process into Notify
// calls. It watches the directory because SQLite replaces the -wal and
// -shm files rather than writing them in place.
type Watcher struct {
	fs   *fsnotify.Watcher
	base string
	bus  Notifier
}

// NewWatcher starts watching the directory that holds dbPath.
func NewWatcher(dbPath string, bus Notifier) (*Watcher, error) {
	abs, err := filepath.Abs(dbPath)
	if err != nil {
		return nil, fmt.Errorf("watch %s: %w", dbPath, err)
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch %s: %w", dbPath, err)
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watch %s: %w", dbPath, err)
	}
	return &Watcher{fs: fw, base: filepath.Base(abs), bus: bus}, nil
}

// Run forwards relevant events until ctx is done, then closes the watcher.
func (w *Watcher) Run(ctx context.Context) {
	defer w.fs.Close()
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if w.relevant(ev) {
				slog.Debug("storage_signal", "source", "fsnotify", "file", filepath.Base(ev.Name), "op", ev.Op.String())
				w.bus.Notify()
			}
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			slog.Warn("storage_signal", "source", "fsnotify", "error", err)
		}
	}
}

func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
		return false
	}
	name := filepath.Base(ev.Name)
	return name == w.base || strings.HasPrefix(name, w.base+"-wal")
}
