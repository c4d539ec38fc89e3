package filesystem

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/sercha-inspect/internal/core/domain"
	"github.com/custodia-labs/sercha-inspect/internal/logger"
)

// Watcher reports file changes under a directory tree.
type Watcher struct {
	rootPath string

	mu      sync.Mutex
	watcher *fsnotify.Watcher
}

// NewWatcher creates a watcher for rootPath. Nothing is watched until Watch is called.
func NewWatcher(rootPath string) *Watcher {
	return &Watcher{rootPath: rootPath}
}

// Watch starts watching the tree and returns a channel of changes.
// The channel is closed when ctx is cancelled or Close is called.
// Hidden files and directories are ignored.
func (w *Watcher) Watch(ctx context.Context) (<-chan domain.FileChange, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := w.addTree(fw, w.rootPath); err != nil {
		fw.Close()
		return nil, err
	}

	w.mu.Lock()
	w.watcher = fw
	w.mu.Unlock()

	changes := make(chan domain.FileChange)
	go func() {
		defer close(changes)
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-fw.Events:
				if !ok {
					return
				}
				if event.Has(fsnotify.Create) {
					if info, err := os.Stat(event.Name); err == nil && info.IsDir() && !w.hidden(event.Name) {
						if err := w.addTree(fw, event.Name); err != nil {
							logger.Warn("watch %s: %v", event.Name, err)
						}
					}
				}
				change := w.handleFsEvent(event)
				if change == nil {
					continue
				}
				select {
				case changes <- *change:
				case <-ctx.Done():
					return
				}
			case err, ok := <-fw.Errors:
				if !ok {
					return
				}
				logger.Warn("watcher error: %v", err)
			}
		}
	}()

	return changes, nil
}

// Close stops watching.
func (w *Watcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.watcher == nil {
		return nil
	}
	err := w.watcher.Close()
	w.watcher = nil
	return err
}

// addTree watches dir and every non-hidden directory below it.
func (w *Watcher) addTree(fw *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != dir && isHidden(d.Name()) {
			return filepath.SkipDir
		}
		if err := fw.Add(path); err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
		return nil
	})
}

// handleFsEvent converts an fsnotify event to a change, or nil if the event
// is not interesting (directories, hidden files, attribute changes).
func (w *Watcher) handleFsEvent(event fsnotify.Event) *domain.FileChange {
	if w.hidden(event.Name) {
		return nil
	}

	switch {
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		return &domain.FileChange{Type: domain.ChangeDeleted, Path: event.Name}
	case event.Has(fsnotify.Create), event.Has(fsnotify.Write):
		info, err := os.Stat(event.Name)
		if err != nil || info.IsDir() {
			return nil
		}
		changeType := domain.ChangeUpdated
		if event.Has(fsnotify.Create) {
			changeType = domain.ChangeCreated
		}
		return &domain.FileChange{Type: changeType, Path: event.Name}
	default:
		return nil
	}
}

// hidden reports whether path is hidden relative to the watched root.
func (w *Watcher) hidden(path string) bool {
	if rel, err := filepath.Rel(w.rootPath, path); err == nil {
		return isHidden(rel)
	}
	return isHidden(path)
}
