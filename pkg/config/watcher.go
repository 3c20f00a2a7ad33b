package config

import (
	"context"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	log "github.com/sirupsen/logrus"
)

// Watch monitors the configuration directories and calls onChange with a
// freshly loaded config whenever a *.conf file is created, modified,
// removed or renamed.
// It blocks until the context is cancelled.
func Watch(ctx context.Context, dirs []string, onChange func(*Config)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	watching := 0
	for _, dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			log.Debugf("not watching config directory %s: %s", dir, err)
			continue
		}
		watching++
	}
	if watching == 0 {
		log.Warn("no config directory available to watch")
		<-ctx.Done()
		return ctx.Err()
	}

	for {
		select {
		case event := <-watcher.Events:
			if filepath.Ext(event.Name) != ".conf" {
				continue
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			log.Infof("config change detected: %s", event.Name)
			onChange(Load(dirs...))
		case err := <-watcher.Errors:
			log.Warnf("config watcher error: %s", err)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
