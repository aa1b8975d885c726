package tweak

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// Watcher reports edits to a preset file. The parent directory is watched
// so editors that replace the file on save are still seen. Writes made
// through Save are not reported.
type Watcher struct {
	path    string
	watcher *fsnotify.Watcher
	changed chan struct{}
	done    chan struct{}

	mu     sync.Mutex
	saving bool
	own    stamp
}

// stamp identifies one version of the file on disk.
type stamp struct {
	mod  time.Time
	size int64
}

func statStamp(path string) (stamp, bool) {
	fi, err := os.Stat(path)
	if err != nil {
		return stamp{}, false
	}
	return stamp{fi.ModTime(), fi.Size()}, true
}

// WatchPreset starts watching path. Errors from the watcher are logged to
// logger and otherwise ignored.
func WatchPreset(path string, logger *log.Logger) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("tweak: watch: %w", err)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		fw.Close()
		return nil, fmt.Errorf("tweak: watch %s: %w", path, err)
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("tweak: watch %s: %w", path, err)
	}

	w := &Watcher{path: abs, watcher: fw, changed: make(chan struct{}, 1), done: make(chan struct{})}
	go func() {
		defer close(w.done)
		for {
			select {
			case event, ok := <-fw.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != abs {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
					continue
				}
				if w.ownWrite() {
					continue
				}
				select {
				case w.changed <- struct{}{}:
				default:
				}
			case err, ok := <-fw.Errors:
				if !ok {
					return
				}
				if logger != nil {
					logger.Warn("preset watcher", "err", err)
				}
			}
		}
	}()
	return w, nil
}

func (w *Watcher) ownWrite() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.saving {
		return true
	}
	st, ok := statStamp(w.path)
	return ok && st == w.own
}

// Save writes the preset through save and marks the result as this
// process's own, so it is not reported as a change.
func (w *Watcher) Save(save func(path string) error) error {
	w.mu.Lock()
	w.saving = true
	w.mu.Unlock()

	err := save(w.path)

	w.mu.Lock()
	defer w.mu.Unlock()
	w.saving = false
	if st, ok := statStamp(w.path); ok {
		w.own = st
	}
	select {
	case <-w.changed:
	default:
	}
	return err
}

// Changed receives once per burst of edits. Drain it from the frame loop.
func (w *Watcher) Changed() <-chan struct{} {
	return w.changed
}

// Close stops watching.
func (w *Watcher) Close() error {
	err := w.watcher.Close()
	<-w.done
	return err
}
