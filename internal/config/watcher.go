package config

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/mantonx/moviecatalog/internal/logger"
)

const reloadDebounce = 250 * time.Millisecond

// Watch reloads the configuration whenever the file it was loaded from is
// written. It blocks until ctx is cancelled. The parent directory is watched
// so editors that replace the file on save are handled.
func (cm *ConfigManager) Watch(ctx context.Context) error {
	path := cm.ConfigPath()
	if path == "" {
		return fmt.Errorf("no config path set")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", path, err)
	}

	log := logger.Named("config")
	target := filepath.Clean(path)
	var pending *time.Timer
	reload := make(chan struct{}, 1)

	for {
		select {
		case <-ctx.Done():
			if pending != nil {
				pending.Stop()
			}
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if pending != nil {
				pending.Stop()
			}
			pending = time.AfterFunc(reloadDebounce, func() {
				select {
				case reload <- struct{}{}:
				default:
				}
			})

		case <-reload:
			if err := cm.LoadConfig(path); err != nil {
				log.Error("config reload failed", "path", path, "error", err)
				continue
			}
			log.Info("configuration reloaded", "path", path)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn("config watcher error", "error", err)
		}
	}
}

// Watch watches the global configuration file
func Watch(ctx context.Context) error {
	return GetConfigManager().Watch(ctx)
}
