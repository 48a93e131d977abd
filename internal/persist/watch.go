package persist

import (
	"context"
	"fmt"
	"io"
	"log"

	"github.com/fsnotify/fsnotify"
)

// Watch reports keys whose files were changed by another process, such as a
// second pomflow invocation editing tasks while the TUI runs. Writes made
// through store itself are not reported. The watcher stops when ctx ends.
func Watch(ctx context.Context, store *FileStore, logger *log.Logger, onChange func(Key)) error {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Add(store.Dir()); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("watch %s: %w", store.Dir(), err)
	}

	go func() {
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}
				key, ok := store.keyForPath(event.Name)
				if !ok {
					continue
				}
				changed, err := store.ChangedExternally(key)
				if err != nil {
					logger.Printf("persist: inspect %s: %v", key, err)
					continue
				}
				if changed {
					onChange(key)
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Printf("persist: watcher error: %v", err)
			}
		}
	}()
	return nil
}
