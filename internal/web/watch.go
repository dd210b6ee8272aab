package web

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/featuremap/featuremap/internal/contract"
)

// reloadDelay coalesces the event bursts editors produce on save.
const reloadDelay = 250 * time.Millisecond

// Watch re-ingests the source file whenever it changes, until the context is
// cancelled. The watch covers the parent directory because editors often
// replace files through rename-and-create.
func (s *Server) Watch(ctx context.Context) error {
	if contract.IsRemoteSource(s.cfg.Source) {
		return errors.New("--watch requires a local source file")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	dir := filepath.Dir(s.cfg.Source)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	base := filepath.Base(s.cfg.Source)

	timer := time.NewTimer(reloadDelay)
	if !timer.Stop() {
		<-timer.C
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Base(event.Name) != base {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			timer.Reset(reloadDelay)

		case <-timer.C:
			if err := s.Reload(); err != nil {
				contract.LogWarn("reloading source", err)
				continue
			}
			fmt.Printf("Reloaded %s (%d features)\n", s.cfg.Source, s.Snapshot().FeatureCount())

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			contract.LogWarn("watching source", err)
		}
	}
}
