package store

import (
	"context"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultSettle is how long the watcher waits after the last event on the
// preferences file before reloading it.
const DefaultSettle = 50 * time.Millisecond

// FileWatcher reloads a FileKV when another process rewrites its file.
// A replace-by-rename shows up as several events, so events are coalesced
// and the store is reloaded once they settle.
type FileWatcher struct {
	kv     *FileKV
	fsw    *fsnotify.Watcher
	logger *slog.Logger
	settle time.Duration

	mu     sync.Mutex
	cancel context.CancelFunc
	exited chan struct{}
	closed bool
}

// NewFileWatcher prepares a watcher for kv's file. Nothing is watched until
// Start is called.
func NewFileWatcher(kv *FileKV, logger *slog.Logger) (*FileWatcher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &FileWatcher{
		kv:     kv,
		fsw:    fsw,
		logger: logger,
		settle: DefaultSettle,
	}, nil
}

// Start watches the directory holding the preferences file. Starting a
// running or stopped watcher does nothing.
func (fw *FileWatcher) Start() error {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	if fw.cancel != nil || fw.closed {
		return nil
	}
	if err := fw.fsw.Add(filepath.Dir(fw.kv.Path())); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	fw.cancel = cancel
	fw.exited = make(chan struct{})
	go fw.run(ctx, fw.exited)
	return nil
}

func (fw *FileWatcher) run(ctx context.Context, exited chan<- struct{}) {
	defer close(exited)

	name := filepath.Base(fw.kv.Path())
	settle := time.NewTimer(fw.settle)
	settle.Stop()
	defer settle.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case ev, ok := <-fw.fsw.Events:
			if !ok {
				return
			}
			if filepath.Base(ev.Name) != name {
				continue
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename) {
				settle.Reset(fw.settle)
			}

		case <-settle.C:
			fw.logger.Debug("preferences changed on disk, reloading", "file", fw.kv.Path())
			if err := fw.kv.Reload(); err != nil {
				fw.logger.Warn("failed to reload preferences", "error", err)
			}

		case err, ok := <-fw.fsw.Errors:
			if !ok {
				return
			}
			fw.logger.Warn("preferences watcher error", "error", err)
		}
	}
}

// Stop ends the watch and releases the underlying watcher. It is safe to
// call more than once, and before Start.
func (fw *FileWatcher) Stop() error {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	if fw.closed {
		return nil
	}
	fw.closed = true

	if fw.cancel != nil {
		fw.cancel()
		<-fw.exited
	}
	return fw.fsw.Close()
}
