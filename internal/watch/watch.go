// Package watch re-runs a render whenever its input file changes.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/HamletTheHamster/gammaplot/pkg/logger"
)

// DefaultDebounce groups the bursts of events editors emit on save.
const DefaultDebounce = 250 * time.Millisecond

// FileWatcher reports changes to a single file. The parent directory is
// watched so that files replaced by rename are still seen.
type FileWatcher struct {
	watcher  *fsnotify.Watcher
	path     string
	debounce time.Duration
	log      logger.Logger
}

// NewFileWatcher starts watching path.
func NewFileWatcher(path string, debounce time.Duration, log logger.Logger) (*FileWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if log == nil {
		log = logger.Nop()
	}
	return &FileWatcher{watcher: watcher, path: abs, debounce: debounce, log: log}, nil
}

// Run calls fn once per settled burst of changes until ctx is done. Errors
// from fn are logged and watching continues.
func (fw *FileWatcher) Run(ctx context.Context, fn func(context.Context) error) error {
	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fw.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != fw.path || !event.Has(fsnotify.Write|fsnotify.Create|fsnotify.Rename) {
				continue
			}
			fw.log.Debug(ctx, "input changed", logger.String("path", event.Name), logger.String("op", event.Op.String()))
			if timer == nil {
				timer = time.NewTimer(fw.debounce)
			} else {
				timer.Reset(fw.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			if err := fn(ctx); err != nil {
				fw.log.Error(ctx, "re-render failed", logger.String("path", fw.path), logger.Error(err))
			}

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return nil
			}
			fw.log.Warn(ctx, "file watch error", logger.Error(err))
		}
	}
}

// Close stops watching.
func (fw *FileWatcher) Close() error {
	return fw.watcher.Close()
}
