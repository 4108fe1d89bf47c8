package i18n

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch reloads the catalog from dir whenever a language pack changes. It
// blocks until ctx is done. Reload failures are logged and the previous packs
// stay active.
func Watch(ctx context.Context, dir string, catalog *Catalog, logger *slog.Logger) error {
	if catalog == nil {
		return fmt.Errorf("i18n: watch needs a catalog")
	}
	if logger == nil {
		logger = slog.Default()
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("i18n: create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("i18n: watch %s: %w", dir, err)
	}

	fsys := os.DirFS(dir)
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !isPackFile(filepath.Base(event.Name)) {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
				!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}
			if err := catalog.ReloadFS(fsys); err != nil {
				logger.Warn("language pack reload failed", "file", event.Name, "error", err)
				continue
			}
			logger.Info("language packs reloaded", "file", event.Name, "locales", catalog.Locales())
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("language pack watcher error", "error", err)
		}
	}
}
