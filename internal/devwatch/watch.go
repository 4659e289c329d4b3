// Package devwatch watches a behaviour tree's YAML source file and swaps
// the runtime's root descriptor when it changes, using an fsnotify-based
// debounced event loop reduced here to a single tracked file.
package devwatch

import (
	"log/slog"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/fibretree/fibre"
)

// Reloader re-parses the watched file into a fibre.Descriptor. It is
// supplied by the caller because parsing is format-specific (pkg/btree's
// ParseTree, in the demo binary).
type Reloader func(path string) (fibre.Descriptor, error)

// Watcher watches one file and, on change, reloads it and swaps the
// runtime's root descriptor via Runtime.SetRoot, then requests a tick.
type Watcher struct {
	path     string
	rt       *fibre.Runtime
	reload   Reloader
	log      *slog.Logger
	watcher  *fsnotify.Watcher
	stopOnce sync.Once
	done     chan struct{}
}

// New creates a Watcher for path. Call Start to begin watching.
func New(path string, rt *fibre.Runtime, reload Reloader, log *slog.Logger) (*Watcher, error) {
	if log == nil {
		log = slog.Default()
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(path); err != nil {
		fw.Close()
		return nil, err
	}
	return &Watcher{path: path, rt: rt, reload: reload, log: log, watcher: fw, done: make(chan struct{})}, nil
}

// Start runs the debounced watch loop in a goroutine. Call Stop to end it.
func (w *Watcher) Start() {
	go w.loop()
}

// Stop closes the underlying fsnotify watcher and ends the watch loop.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		w.watcher.Close()
		<-w.done
	})
}

func (w *Watcher) loop() {
	defer close(w.done)

	debounce := time.NewTimer(0)
	<-debounce.C

	pending := false
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			pending = true
			debounce.Reset(100 * time.Millisecond)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Warn("devwatch: watcher error", "error", err)

		case <-debounce.C:
			if !pending {
				continue
			}
			pending = false
			w.reloadAndTick()
		}
	}
}

func (w *Watcher) reloadAndTick() {
	root, err := w.reload(w.path)
	if err != nil {
		w.log.Warn("devwatch: reload failed, keeping previous tree", "path", w.path, "error", err)
		return
	}
	w.rt.SetRoot(root)
	if err := w.rt.RunTick(); err != nil {
		w.log.Warn("devwatch: tick after reload failed", "error", err)
	}
}
