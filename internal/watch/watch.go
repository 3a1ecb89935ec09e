// Package watch observes a status file for changes made by other processes.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/starford/modeswitch/internal/statusfile"
)

// Callback is called with the new status value after each observed change.
type Callback func(value int)

// Watch starts an fsnotify watcher on the status file and reports value
// changes until ctx is cancelled.
//
// The watcher is registered on the parent directory, not the file itself:
// the store replaces the file by rename, so the watched inode would go
// stale after the first write. Events are debounced briefly because a
// rename-based replace surfaces as a short burst of events.
func Watch(ctx context.Context, store *statusfile.Store, logger *slog.Logger, cb Callback) error {
	abs, err := filepath.Abs(store.Path())
	if err != nil {
		return fmt.Errorf("watch: resolve path: %w", err)
	}
	dir := filepath.Dir(abs)
	base := filepath.Base(abs)

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: create watcher: %w", err)
	}
	defer w.Close()

	if err := w.Add(dir); err != nil {
		return fmt.Errorf("watch: add %s: %w", dir, err)
	}

	logger.Info("watcher: started", slog.String("file", abs))

	// Seed the last seen value so an unchanged rewrite is not reported.
	last, haveLast := 0, false
	if v, readErr := store.Read(); readErr == nil {
		last, haveLast = v, true
	}

	// rereadTimer debounces the event burst of a rename-based replace.
	var rereadTimer *time.Timer
	var rereadCh <-chan time.Time

	scheduleReread := func() {
		if rereadTimer == nil {
			rereadTimer = time.NewTimer(100 * time.Millisecond)
			rereadCh = rereadTimer.C
		} else {
			rereadTimer.Reset(100 * time.Millisecond)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if rereadTimer != nil {
				rereadTimer.Stop()
			}
			logger.Info("watcher: stopped")
			return nil

		case <-rereadCh:
			v, readErr := store.Read()
			if readErr != nil {
				logger.Warn("watcher: read failed", slog.String("error", readErr.Error()))
				continue
			}
			if haveLast && v == last {
				continue
			}
			last, haveLast = v, true
			logger.Debug("watcher: status changed", slog.Int("value", v))
			if cb != nil {
				cb(v)
			}

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Base(ev.Name) != base {
				continue
			}
			switch {
			case ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) != 0:
				scheduleReread()
			case ev.Op&fsnotify.Remove != 0:
				logger.Warn("watcher: status file removed", slog.String("file", abs))
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}
