// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/jeranaias/threadchat/internal/logger"
)

// DefaultReloadDebounce groups the bursts of events editors produce on save.
const DefaultReloadDebounce = 200 * time.Millisecond

// Reload is delivered by a Watcher after the config file changed.
// Err is set when the new file failed to load; Config is then nil.
type Reload struct {
	Config *Config
	Err    error
}

// Watcher reloads a config file when it changes on disk.
//
// The parent directory is watched rather than the file itself so that
// editors that save by rename are still noticed.
type Watcher struct {
	path     string
	debounce time.Duration
	watcher  *fsnotify.Watcher
	events   chan Reload

	mu      sync.Mutex
	timer   *time.Timer
	closed  bool
	done    chan struct{}
	stopped sync.WaitGroup
}

// NewWatcher starts watching path. Call Close to release resources.
func NewWatcher(path string, debounce time.Duration) (*Watcher, error) {
	if debounce <= 0 {
		debounce = DefaultReloadDebounce
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		fw.Close()
		return nil, err
	}

	w := &Watcher{
		path:     abs,
		debounce: debounce,
		watcher:  fw,
		events:   make(chan Reload, 1),
		done:     make(chan struct{}),
	}
	w.stopped.Add(1)
	go w.processEvents()
	return w, nil
}

// Path returns the watched file.
func (w *Watcher) Path() string {
	return w.path
}

// Events delivers reload results. Only the latest pending result is kept.
func (w *Watcher) Events() <-chan Reload {
	return w.events
}

// Done is closed when the watcher is closed.
func (w *Watcher) Done() <-chan struct{} {
	return w.done
}

// Close stops the watcher. It is safe to call more than once.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	if w.timer != nil {
		w.timer.Stop()
	}
	close(w.done)
	w.mu.Unlock()

	err := w.watcher.Close()
	w.stopped.Wait()
	return err
}

func (w *Watcher) processEvents() {
	defer w.stopped.Done()
	defer func() {
		if r := recover(); r != nil {
			logger.Errorw("CONFIG_WATCHER_PANIC", "panic", r)
		}
	}()

	for {
		select {
		case <-w.done:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				w.schedule()
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logger.Warnw("CONFIG_WATCHER_ERROR", "error", err)
		}
	}
}

func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.reload)
}

func (w *Watcher) reload() {
	cfg, err := LoadFromPath(w.path)
	if err != nil {
		logger.Warnw("CONFIG_RELOAD_FAILED", "path", w.path, "error", err)
	} else {
		logger.Infow("CONFIG_RELOADED", "path", w.path)
	}
	w.publish(Reload{Config: cfg, Err: err})
}

func (w *Watcher) publish(r Reload) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	// Drop a stale unread result.
	select {
	case <-w.events:
	default:
	}
	w.events <- r
}
