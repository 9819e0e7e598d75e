package scanner

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/soundforge/beatscan/internal/analyze"
	"github.com/soundforge/beatscan/internal/discover"
	"github.com/soundforge/beatscan/internal/models"
)

// EventCallback is called after the watcher registers a new sample.
type EventCallback func(rec *models.SampleRecord)

// settleDelay is how long a file must stay quiet before the watcher
// analyzes it. Copies into the library fire a Create followed by a
// stream of Writes; analyzing a half-copied file would just fail.
const settleDelay = 500 * time.Millisecond

// Watch starts an fsnotify watcher on the library root and analyzes and
// registers audio files as they appear, until ctx is cancelled. New
// directories created at runtime are added to the watch list. cb (if
// non-nil) runs after each successful registration.
func Watch(ctx context.Context, svc *Service, root string, userID, projectID int64, logger *slog.Logger, cb EventCallback) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := addDirsRecursive(w, root, logger); err != nil {
		return err
	}

	logger.Info("watcher: started", slog.String("root", root))

	pending := make(map[string]time.Time)
	settle := time.NewTicker(settleDelay / 2)
	defer settle.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("watcher: stopped")
			return nil

		case <-settle.C:
			now := time.Now()
			for path, last := range pending {
				if now.Sub(last) < settleDelay {
					continue
				}
				delete(pending, path)
				processWatched(ctx, svc, path, userID, projectID, logger, cb)
			}

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}

			if ev.Op&fsnotify.Create != 0 {
				if info, statErr := os.Stat(ev.Name); statErr == nil && info.IsDir() {
					if addErr := addDirsRecursive(w, ev.Name, logger); addErr != nil {
						logger.Warn("watcher: add new dir failed",
							slog.String("path", ev.Name),
							slog.String("error", addErr.Error()))
					}
					continue
				}
			}

			if !discover.IsAudio(ev.Name) {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write) != 0 {
				pending[ev.Name] = time.Now()
			}

		case werr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher: error", slog.String("error", werr.Error()))
		}
	}
}

func processWatched(ctx context.Context, svc *Service, path string, userID, projectID int64, logger *slog.Logger, cb EventCallback) {
	rec, err := svc.analyzer.Analyze(ctx, path, analyze.Options{})
	if err != nil {
		logger.Warn("watcher: analysis failed",
			slog.String("path", path),
			slog.String("error", err.Error()))
		return
	}
	if err := svc.Register(rec, userID, projectID); err != nil {
		logger.Warn("watcher: registration failed",
			slog.String("path", path),
			slog.String("error", err.Error()))
		return
	}
	logger.Info("watcher: sample registered", slog.String("path", path))
	if cb != nil {
		cb(rec)
	}
}

// addDirsRecursive adds dir and every subdirectory to the watch list.
// Only a failure on dir itself is fatal; unreadable subdirectories are
// logged and skipped so one protected folder cannot keep the rest of
// the library from being watched.
func addDirsRecursive(w *fsnotify.Watcher, dir string, logger *slog.Logger) error {
	return filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if p == dir {
				return err
			}
			logger.Warn("watcher: skipping unreadable entry",
				slog.String("path", p),
				slog.String("error", err.Error()))
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if addErr := w.Add(p); addErr != nil {
				if p == dir {
					return addErr
				}
				logger.Warn("watcher: cannot watch directory",
					slog.String("path", p),
					slog.String("error", addErr.Error()))
				return fs.SkipDir
			}
		}
		return nil
	})
}
