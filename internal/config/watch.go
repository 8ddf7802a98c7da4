// internal/config/watch.go
//
// Config hot reload.
//
// The parent directory is watched so editors that replace the file are seen.
// Events for the file are debounced on the trailing edge: the file is loaded
// once the burst has been quiet for the debounce window, so a truncate
// followed by a write loads the final contents. An empty file is skipped,
// since that is what a reader sees between truncate and write.

package config

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
)

// DefaultDebounce is the quiet period Watch waits for before reloading.
const DefaultDebounce = 100 * time.Millisecond

// Watcher reloads a config file when it changes on disk.
type Watcher struct {
	watcher  *fsnotify.Watcher
	path     string
	onLoad   func(*Config)
	debounce time.Duration
	closeCh  chan struct{}
	done     chan struct{}
	once     sync.Once
}

// Watch calls onLoad with a freshly loaded Config after each change to path.
// A file that fails to load is logged and skipped.
func Watch(path string, onLoad func(*Config)) (*Watcher, error) {
	return watch(path, DefaultDebounce, onLoad)
}

func watch(path string, debounce time.Duration, onLoad func(*Config)) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(filepath.Dir(path)); err != nil {
		_ = w.Close()
		return nil, err
	}
	watcher := &Watcher{
		watcher:  w,
		path:     filepath.Clean(path),
		onLoad:   onLoad,
		debounce: debounce,
		closeCh:  make(chan struct{}),
		done:     make(chan struct{}),
	}
	go watcher.run()
	return watcher, nil
}

// Close stops watching and waits for the watch goroutine. Safe to call twice.
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

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			timer.Reset(w.debounce)
		case <-timer.C:
			w.reload()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Warn().Err(err).Msg("config watcher")
		case <-w.closeCh:
			return
		}
	}
}

func (w *Watcher) reload() {
	if fi, err := os.Stat(w.path); err != nil || fi.Size() == 0 {
		log.Debug().Str("path", w.path).Msg("config missing or empty, reload skipped")
		return
	}
	cfg, err := Load(w.path)
	if err != nil {
		log.Warn().Err(err).Str("path", w.path).Msg("config reload failed")
		return
	}
	log.Info().Str("path", w.path).Msg("config reloaded")
	w.onLoad(cfg)
}
