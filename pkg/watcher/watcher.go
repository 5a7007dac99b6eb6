// Package watcher observes project manifests and triggers regeneration when
// they change.
package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/xcgen/xcgen/pkg/logging"
	"github.com/xcgen/xcgen/pkg/manifest"
)

// ChangeEvent represents a batch of manifest changes
type ChangeEvent struct {
	Paths     []string
	Timestamp time.Time
}

// ManifestWatcher watches a project directory for manifest changes
type ManifestWatcher struct {
	watcher *fsnotify.Watcher
	dir     string
	events  chan ChangeEvent
}

// NewManifestWatcher creates a watcher for the manifests under dir
func NewManifestWatcher(dir string) (*ManifestWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	return &ManifestWatcher{
		watcher: watcher,
		dir:     dir,
		events:  make(chan ChangeEvent, 100),
	}, nil
}

// Start begins watching for manifest changes. Events are batched with a
// short flush window so editor save bursts produce one regeneration.
func (mw *ManifestWatcher) Start(ctx context.Context) error {
	if err := mw.watchManifestDirs(); err != nil {
		return err
	}
	logging.Info("watching manifests", "path", mw.dir)

	go mw.processEvents(ctx)
	return nil
}

// watchManifestDirs adds every directory containing a manifest to the watcher
func (mw *ManifestWatcher) watchManifestDirs() error {
	dirs := make(map[string]bool)

	err := filepath.Walk(mw.dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // Skip files we can't access
		}
		if info.IsDir() && strings.HasSuffix(info.Name(), ".xcworkspace") {
			return filepath.SkipDir
		}
		if !info.IsDir() && isManifest(info.Name()) {
			dirs[filepath.Dir(path)] = true
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to walk %s: %w", mw.dir, err)
	}

	for dir := range dirs {
		if err := mw.watcher.Add(dir); err != nil {
			logging.Warn("failed to watch directory", "path", dir, "error", err)
		}
	}
	return nil
}

// processEvents batches manifest events and forwards them on the channel
func (mw *ManifestWatcher) processEvents(ctx context.Context) {
	var changed []string

	flushTimer := time.NewTimer(100 * time.Millisecond)
	flushTimer.Stop()

	flush := func() {
		if len(changed) == 0 {
			return
		}
		mw.events <- ChangeEvent{
			Paths:     changed,
			Timestamp: time.Now(),
		}
		changed = nil
	}

	for {
		select {
		case <-ctx.Done():
			mw.watcher.Close()
			close(mw.events)
			return

		case event, ok := <-mw.watcher.Events:
			if !ok {
				return
			}
			if isManifest(filepath.Base(event.Name)) {
				changed = append(changed, event.Name)
				flushTimer.Reset(100 * time.Millisecond)
			}

		case <-flushTimer.C:
			flush()

		case err, ok := <-mw.watcher.Errors:
			if !ok {
				return
			}
			logging.Error("watcher error", "error", err)
		}
	}
}

// Events returns the channel of change events
func (mw *ManifestWatcher) Events() <-chan ChangeEvent {
	return mw.events
}

func isManifest(name string) bool {
	return name == manifest.WorkspaceFileName || name == manifest.ProjectFileName
}
