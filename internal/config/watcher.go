package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DevOverrides is the runtime-changeable subset of configuration the local
// dev server reloads without a restart.
type DevOverrides struct {
	AllowOrigin  string `json:"allowOrigin"`
	DefaultLimit int    `json:"defaultLimit"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Watcher watches a JSON overrides file for changes
type Watcher struct {
	path     string
	watcher  *fsnotify.Watcher
	current  *DevOverrides
	mu       sync.RWMutex
	onChange []func(*DevOverrides)
	logger   *zap.Logger
	stopCh   chan struct{}
}

// NewWatcher creates a watcher over the given overrides file and loads the
// initial state.
func NewWatcher(path string, logger *zap.Logger) (*Watcher, error) {
	overrides, err := loadOverrides(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load initial overrides: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	if err := watcher.Add(path); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch overrides file: %w", err)
	}

	// Also watch the directory for atomic saves (rename operations)
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		logger.Warn("Failed to watch overrides directory", zap.Error(err))
	}

	w := &Watcher{
		path:    path,
		watcher: watcher,
		current: overrides,
		logger:  logger,
		stopCh:  make(chan struct{}),
	}
	go w.loop()
	return w, nil
}

// Current returns the latest overrides.
func (w *Watcher) Current() *DevOverrides {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.current
}

// OnChange registers a callback invoked after every successful reload.
func (w *Watcher) OnChange(fn func(*DevOverrides)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onChange = append(w.onChange, fn)
}

// Stop terminates the watch loop.
func (w *Watcher) Stop() {
	close(w.stopCh)
	w.watcher.Close()
}

func (w *Watcher) loop() {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Name != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.reload()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("overrides watcher error", zap.Error(err))
		case <-w.stopCh:
			return
		}
	}
}

func (w *Watcher) reload() {
	overrides, err := loadOverrides(w.path)
	if err != nil {
		// Keep the previous state; a half-written file must not take effect.
		w.logger.Warn("failed to reload overrides", zap.Error(err))
		return
	}

	w.mu.Lock()
	w.current = overrides
	callbacks := make([]func(*DevOverrides), len(w.onChange))
	copy(callbacks, w.onChange)
	w.mu.Unlock()

	w.logger.Info("reloaded dev overrides",
		zap.String("allow_origin", overrides.AllowOrigin),
		zap.Int("default_limit", overrides.DefaultLimit),
	)
	for _, fn := range callbacks {
		fn(overrides)
	}
}

func loadOverrides(path string) (*DevOverrides, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var overrides DevOverrides
	if err := json.Unmarshal(data, &overrides); err != nil {
		return nil, err
	}
	return &overrides, nil
}
