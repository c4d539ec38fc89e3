package filesystem

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sercha-inspect/internal/core/domain"
)

func TestWatcher_Watch(t *testing.T) {
	t.Run("watches for new files", func(t *testing.T) {
		tempDir := t.TempDir()

		w := NewWatcher(tempDir)
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		changes, err := w.Watch(ctx)
		require.NoError(t, err)
		defer w.Close()

		testFile := filepath.Join(tempDir, "new-file.txt")
		go func() {
			time.Sleep(50 * time.Millisecond)
			os.WriteFile(testFile, []byte("content"), 0644)
		}()

		select {
		case change := <-changes:
			assert.Equal(t, domain.ChangeCreated, change.Type)
			assert.Equal(t, testFile, change.Path)
		case <-time.After(2 * time.Second):
			t.Fatal("timeout waiting for file change event")
		}
	})

	t.Run("channel closes on cancel", func(t *testing.T) {
		w := NewWatcher(t.TempDir())
		ctx, cancel := context.WithCancel(context.Background())

		changes, err := w.Watch(ctx)
		require.NoError(t, err)
		defer w.Close()

		cancel()

		select {
		case _, ok := <-changes:
			assert.False(t, ok)
		case <-time.After(2 * time.Second):
			t.Fatal("channel not closed after cancel")
		}
	})

	t.Run("missing root", func(t *testing.T) {
		w := NewWatcher(filepath.Join(t.TempDir(), "missing"))

		_, err := w.Watch(context.Background())
		assert.Error(t, err)
	})

	t.Run("close without watch", func(t *testing.T) {
		w := NewWatcher(t.TempDir())
		assert.NoError(t, w.Close())
	})
}

// TestHandleFsEvent tests the handleFsEvent function with various event types.
func TestHandleFsEvent(t *testing.T) {
	tests := []struct {
		name           string
		setupFile      bool
		setupDir       bool
		setupHidden    bool
		operation      fsnotify.Op
		expectedChange bool
		expectedType   domain.ChangeType
	}{
		{
			name:           "create file event",
			setupFile:      true,
			operation:      fsnotify.Create,
			expectedChange: true,
			expectedType:   domain.ChangeCreated,
		},
		{
			name:           "write file event",
			setupFile:      true,
			operation:      fsnotify.Write,
			expectedChange: true,
			expectedType:   domain.ChangeUpdated,
		},
		{
			name:           "remove file event",
			operation:      fsnotify.Remove,
			expectedChange: true,
			expectedType:   domain.ChangeDeleted,
		},
		{
			name:           "rename file event",
			operation:      fsnotify.Rename,
			expectedChange: true,
			expectedType:   domain.ChangeDeleted,
		},
		{
			name:           "chmod file event - not handled",
			setupFile:      true,
			operation:      fsnotify.Chmod,
			expectedChange: false,
		},
		{
			name:           "create directory event - should be skipped",
			setupDir:       true,
			operation:      fsnotify.Create,
			expectedChange: false,
		},
		{
			name:           "hidden file create - should be skipped",
			setupHidden:    true,
			operation:      fsnotify.Create,
			expectedChange: false,
		},
		{
			name:           "hidden file remove - should be skipped",
			setupHidden:    true,
			operation:      fsnotify.Remove,
			expectedChange: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tempDir := t.TempDir()

			var eventPath string
			switch {
			case tt.setupDir:
				eventPath = filepath.Join(tempDir, "testdir")
				require.NoError(t, os.Mkdir(eventPath, 0755))
			case tt.setupHidden:
				eventPath = filepath.Join(tempDir, ".hidden.txt")
				if tt.operation != fsnotify.Remove {
					require.NoError(t, os.WriteFile(eventPath, []byte("hidden"), 0644))
				}
			case tt.setupFile:
				eventPath = filepath.Join(tempDir, "test.txt")
				require.NoError(t, os.WriteFile(eventPath, []byte("content"), 0644))
			default:
				eventPath = filepath.Join(tempDir, "removed.txt")
			}

			w := NewWatcher(tempDir)
			change := w.handleFsEvent(fsnotify.Event{Name: eventPath, Op: tt.operation})

			if tt.expectedChange {
				require.NotNil(t, change, "expected change but got nil")
				assert.Equal(t, tt.expectedType, change.Type)
				assert.Equal(t, eventPath, change.Path)
			} else {
				assert.Nil(t, change, "expected no change but got one")
			}
		})
	}

	t.Run("combined operations", func(t *testing.T) {
		tempDir := t.TempDir()
		testFile := filepath.Join(tempDir, "test.txt")
		require.NoError(t, os.WriteFile(testFile, []byte("content"), 0644))

		w := NewWatcher(tempDir)
		change := w.handleFsEvent(fsnotify.Event{Name: testFile, Op: fsnotify.Write | fsnotify.Chmod})

		require.NotNil(t, change)
		assert.Equal(t, domain.ChangeUpdated, change.Type)
	})
}
