package envsync

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long the watcher waits for writes to settle.
const DefaultDebounce = 500 * time.Millisecond

// ErrNothingToWatch is returned when the remote settings path is not
// usable.
var ErrNothingToWatch = errors.New("remote settings path is not configured or not reachable")

// Watch syncs settings once and then again whenever the remote settings
// or defaults document changes, until ctx ends. Passes run in automatic
// mode.
func (s *Syncer) Watch(ctx context.Context, debounce time.Duration) error {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	remote, err := s.confirmRemoteSettings(ctx, Automatic)
	if err != nil {
		return err
	}
	if !remote.Confirmed() {
		return ErrNothingToWatch
	}
	files := []string{remote.Path}
	if defaults, err := s.confirmDefaults(ctx, Automatic, remote.Path); err != nil {
		return err
	} else if defaults.Confirmed() {
		files = append(files, defaults.Path)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating file watcher: %w", err)
	}
	defer watcher.Close()

	// Editors and share clients replace files, so watch the directories.
	watched := make(map[string]bool, len(files))
	dirs := make(map[string]bool)
	for _, f := range files {
		clean := filepath.Clean(f)
		watched[clean] = true
		dir := filepath.Dir(clean)
		if dirs[dir] {
			continue
		}
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("watching %s: %w", dir, err)
		}
		dirs[dir] = true
	}

	s.runWatchedSync(ctx)
	s.logger.Info("watching for changes", "files", files)

	timer := time.NewTimer(debounce)
	timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !watched[filepath.Clean(event.Name)] || !relevant(event) {
				continue
			}
			s.logger.Debug("change detected", "file", event.Name, "op", event.Op)
			timer.Reset(debounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Warn("file watcher error", "err", err)

		case <-timer.C:
			s.runWatchedSync(ctx)
		}
	}
}

func relevant(event fsnotify.Event) bool {
	return event.Has(fsnotify.Create) || event.Has(fsnotify.Write) || event.Has(fsnotify.Rename)
}

func (s *Syncer) runWatchedSync(ctx context.Context) {
	if err := s.SyncSettings(ctx, Automatic); err != nil && !errors.Is(err, context.Canceled) {
		s.logger.Error("settings sync failed", "err", err)
	}
}
