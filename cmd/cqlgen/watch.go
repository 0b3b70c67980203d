package main

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounce groups the bursts of events editors emit on save.
const debounce = 200 * time.Millisecond

// watch runs generate once, then again after every change of the file at
// path, until ctx is done. Generation errors are logged and do not stop
// the watch.
func watch(ctx context.Context, path string, logger *slog.Logger, generate func() error) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	defer w.Close()
	// Watch the directory: editors often replace the file on save.
	if err := w.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("watch %s: %w", path, err)
	}
	target := filepath.Clean(path)

	run := func() {
		if err := generate(); err != nil {
			logger.Error("generation failed", "error", err)
		}
	}
	run()
	logger.Info("watching for changes", "file", path)

	var (
		timer  = time.NewTimer(debounce)
		events = 0
	)
	timer.Stop()
	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target || ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			events++
			timer.Reset(debounce)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error", "error", err)
		case <-timer.C:
			logger.Debug("schema changed", "file", path, "events", events)
			events = 0
			run()
		}
	}
}
