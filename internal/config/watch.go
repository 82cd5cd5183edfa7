package config

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watchDebounce is how long a file must stay quiet before it is reloaded.
const watchDebounce = 100 * time.Millisecond

// Watcher reloads a config file whenever it changes on disk. Each reload
// merges defaults, the file and command-line flags, like Load.
type Watcher struct {
	watcher *fsnotify.Watcher
	path    string
	Changes chan *Config
	Errors  chan error
	closeCh chan struct{}
	done    chan struct{}
	once    sync.Once
}

// Watch starts watching path. The parent directory is watched so editors
// that replace the file by renaming are still seen.
func Watch(path string) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", path, err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("watching %s: %w", filepath.Dir(abs), err)
	}

	watcher := &Watcher{
		watcher: w,
		path:    abs,
		Changes: make(chan *Config, 1),
		Errors:  make(chan error, 1),
		closeCh: make(chan struct{}),
		done:    make(chan struct{}),
	}
	go watcher.run()
	return watcher, nil
}

// Close stops the watcher. Changes and Errors are closed once it returns.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.watcher.Close()
		<-w.done
	})
	return err
}

func (w *Watcher) run() {
	defer close(w.done)
	defer close(w.Errors)
	defer close(w.Changes)

	pending := time.NewTimer(watchDebounce)
	pending.Stop()
	defer pending.Stop()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			pending.Reset(watchDebounce)
		case <-pending.C:
			cfg, err := load(w.path)
			if err != nil {
				w.send(nil, err)
				continue
			}
			w.send(cfg, nil)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.send(nil, err)
		case <-w.closeCh:
			return
		}
	}
}

// send delivers a reload outcome unless the watcher is closing.
func (w *Watcher) send(cfg *Config, err error) {
	if err != nil {
		select {
		case w.Errors <- err:
		case <-w.closeCh:
		}
		return
	}
	select {
	case w.Changes <- cfg:
	case <-w.closeCh:
	}
}
