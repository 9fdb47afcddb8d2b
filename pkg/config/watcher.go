package config

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watchDebounce absorbs the burst of events a single editor save produces.
const watchDebounce = 500 * time.Millisecond

// WatchSystem re-reads the system settings file whenever it changes on
// disk and hands the freshly loaded values to apply. The directory is
// watched rather than the file itself, since atomic saves replace the
// inode and would detach a plain file watch. apply runs on the watcher
// goroutine; the watcher stops when ctx is canceled.
func WatchSystem(ctx context.Context, path string, apply func(*SystemConfig)) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(absPath)); err != nil {
		watcher.Close()
		return err
	}
	slog.Debug("Watching system settings", "file", absPath)

	go func() {
		defer watcher.Close()

		var timer *time.Timer
		for {
			select {
			case <-ctx.Done():
				if timer != nil {
					timer.Stop()
				}
				return

			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Name != absPath {
					continue
				}
				if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) {
					continue
				}
				if timer != nil {
					timer.Stop()
				}
				timer = time.AfterFunc(watchDebounce, func() {
					sys := LoadSystemConfig(path)
					slog.Info("⚙️ System settings reloaded", "file", path, "log_level", sys.LogLevel)
					apply(sys)
				})

			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				slog.Error("Settings watcher error", "error", err)
			}
		}
	}()

	return nil
}
