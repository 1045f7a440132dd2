// Package watch reports changes other processes make to a trip directory, so an open board can
// reload after `waypoint points ...` runs in another terminal.
package watch

import (
	"log"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher watches one directory and sends a debounced signal on Changes whenever a file matching
// its prefix is written, created, removed or renamed.
type Watcher struct {
	fs       *fsnotify.Watcher
	prefix   string
	debounce *Debouncer
	done     chan struct{}
	once     sync.Once

	mu      sync.Mutex
	closed  bool
	changes chan struct{}
}

// New starts watching dir for files whose base name starts with prefix (for example
// "state.sqlite", which also matches its -wal and -shm companions).
func New(dir, prefix string, window time.Duration) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(dir); err != nil {
		_ = fw.Close()
		return nil, err
	}
	w := &Watcher{
		fs:       fw,
		prefix:   prefix,
		debounce: NewDebouncer(window),
		changes:  make(chan struct{}, 1),
		done:     make(chan struct{}),
	}
	go w.loop()
	return w, nil
}

// Changes delivers at most one pending signal; bursts collapse into one. It is closed by Close.
func (w *Watcher) Changes() <-chan struct{} { return w.changes }

func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.done)
		w.debounce.Cancel()
		err = w.fs.Close()

		// A timer that already fired may still be in signal.
		w.mu.Lock()
		w.closed = true
		close(w.changes)
		w.mu.Unlock()
	})
	return err
}

func (w *Watcher) loop() {
	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if !w.relevant(ev) {
				continue
			}
			w.debounce.Trigger(w.signal)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			log.Printf("watch: %v", err)
		}
	}
}

func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
		return false
	}
	return strings.HasPrefix(filepath.Base(ev.Name), w.prefix)
}

func (w *Watcher) signal() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	select {
	case w.changes <- struct{}{}:
	default:
	}
}
