package tables

import (
	"context"
	"log"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long the watcher waits after the last filesystem
// event before reloading, so editors that save in several steps trigger a
// single reload.
const DefaultDebounce = 200 * time.Millisecond

// Watch reloads the store whenever one of its table files changes on disk.
// Reload failures keep the previous tables active; onReload, when non-nil,
// observes the outcome of every attempt. Watch blocks until ctx is done.
func (s *Store) Watch(ctx context.Context, debounce time.Duration, onReload func(error)) error {
	if s.dir == "" {
		<-ctx.Done()
		return nil
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()
	if err := watcher.Add(s.dir); err != nil {
		return err
	}

	var timer *time.Timer
	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !ev.Op.Has(fsnotify.Write | fsnotify.Create | fsnotify.Rename | fsnotify.Remove) {
				continue
			}
			if !isTableFile(filepath.Base(ev.Name)) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(debounce)
				pending = timer.C
			} else {
				timer.Reset(debounce)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Printf("tables watcher: %v", err)
		case <-pending:
			timer = nil
			pending = nil
			if _, err := s.Reload(); err != nil {
				log.Printf("tables reload failed, keeping previous tables: %v", err)
				if onReload != nil {
					onReload(err)
				}
				continue
			}
			log.Printf("tables reloaded from %s", s.dir)
			if onReload != nil {
				onReload(nil)
			}
		}
	}
}

func isTableFile(name string) bool {
	switch name {
	case DictionaryFile, NormalizationFile, LocationsFile, AvailabilityFile, KeywordsFile:
		return true
	}
	return false
}
