// Package watch reports when a single file is rewritten on disk.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Watcher signals on Changed whenever the watched file is written or re-created.
// Bursts of events collapse into a single pending signal.
type Watcher struct {
	path    string
	fs      *fsnotify.Watcher
	changed chan struct{}
	errs    chan error
	done    chan struct{}
	once    sync.Once
}

// New watches path. The parent directory is watched so that editors which
// replace the file by rename are still seen.
func New(ctx context.Context, path string) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %q: %w", path, err)
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("watch %q: %w", filepath.Dir(abs), err)
	}

	w := &Watcher{
		path:    abs,
		fs:      fsw,
		changed: make(chan struct{}, 1),
		errs:    make(chan error, 1),
		done:    make(chan struct{}),
	}
	go w.loop(ctx)
	return w, nil
}

// Changed receives one value per burst of modifications
func (w *Watcher) Changed() <-chan struct{} {
	return w.changed
}

// Errors receives watcher failures; only the latest unread error is kept
func (w *Watcher) Errors() <-chan error {
	return w.errs
}

// Close stops watching. It is safe to call more than once.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		err = w.fs.Close()
		<-w.done
	})
	return err
}

func (w *Watcher) loop(ctx context.Context) {
	defer close(w.done)
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			select {
			case w.changed <- struct{}{}:
			default:
			}
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			select {
			case w.errs <- err:
			default:
			}
		}
	}
}
