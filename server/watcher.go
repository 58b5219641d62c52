package server

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/sambeau/nujelmode/pkg/nujel/logging"
)

// DefaultDebounce is how long repeated events for one file are ignored.
const DefaultDebounce = 100 * time.Millisecond

// watchedExts are the file types whose changes are reported.
var watchedExts = map[string]bool{
	".nuj":  true,
	".md":   true,
	".yaml": true,
	".css":  true,
}

// Watcher monitors directory trees and reports changed sources.
type Watcher struct {
	watcher  *fsnotify.Watcher
	log      logging.Logger
	onChange func(path string)
	debounce time.Duration

	mu         sync.Mutex
	lastChange map[string]time.Time
	changeSeq  uint64 // incremented on each reported change for live reload
}

// NewWatcher creates a watcher that calls onChange for each debounced change.
// onChange may be nil.
func NewWatcher(log logging.Logger, onChange func(path string)) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = logging.Null()
	}
	return &Watcher{
		watcher:    fsWatcher,
		log:        log,
		onChange:   onChange,
		debounce:   DefaultDebounce,
		lastChange: make(map[string]time.Time),
	}, nil
}

// Add watches root and every non-hidden directory below it. A file root
// watches its directory.
func (w *Watcher) Add(root string) error {
	info, err := os.Stat(root)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return w.watcher.Add(filepath.Dir(root))
	}
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // skip unreadable entries
		}
		if !info.IsDir() {
			return nil
		}
		if strings.HasPrefix(info.Name(), ".") && path != root {
			return filepath.SkipDir
		}
		w.log.Debugf("watching %s", path)
		return w.watcher.Add(path)
	})
}

// Start runs the event loop until ctx is cancelled or the watcher is closed.
func (w *Watcher) Start(ctx context.Context) {
	go w.eventLoop(ctx)
}

func (w *Watcher) eventLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := w.Add(event.Name); err != nil {
						w.log.Warnf("failed to watch %s: %v", event.Name, err)
					}
					continue
				}
			}
			w.changed(event.Name, time.Now())

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Errorf("watcher error: %v", err)
		}
	}
}

// changed reports a change to path at now unless the path is not a watched
// type or changed within the debounce window. It returns whether the change
// was reported.
func (w *Watcher) changed(path string, now time.Time) bool {
	if !watchedExts[strings.ToLower(filepath.Ext(path))] {
		return false
	}
	if strings.HasPrefix(filepath.Base(path), ".") {
		return false
	}

	w.mu.Lock()
	if last, ok := w.lastChange[path]; ok && now.Sub(last) < w.debounce {
		w.mu.Unlock()
		return false
	}
	w.lastChange[path] = now
	w.changeSeq++
	w.mu.Unlock()

	w.log.Infof("changed: %s", path)
	if w.onChange != nil {
		w.onChange(path)
	}
	return true
}

// Seq returns the current change sequence number for live reload
func (w *Watcher) Seq() uint64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.changeSeq
}

// Close stops the watcher
func (w *Watcher) Close() error {
	return w.watcher.Close()
}
