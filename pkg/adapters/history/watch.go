package history

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long Watch waits for a burst of file events to settle.
const DefaultDebounce = 100 * time.Millisecond

// ReloadFunc receives the freshly parsed document, or the error that prevented parsing.
type ReloadFunc func(doc *Document, err error)

// Watch calls fn with the parsed document once at start and again every time the file
// changes, until ctx is canceled. The parent directory is watched so editors that
// replace the file through a rename are handled.
func Watch(ctx context.Context, path string, debounce time.Duration, fn ReloadFunc) error {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", path, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}

	fn(ParseFile(abs))

	timer := time.NewTimer(debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				timer.Reset(debounce)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fn(nil, fmt.Errorf("file watcher: %w", err))
		case <-timer.C:
			fn(ParseFile(abs))
		}
	}
}
