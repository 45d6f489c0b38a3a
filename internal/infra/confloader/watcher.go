package confloader

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/yndnr/civ7save-go/internal/telemetry/logger"
)

// Watcher watches files and directories for changes. Bursts of events for
// the same path are coalesced: a callback runs once the path has been quiet
// for the debounce interval.
type Watcher struct {
	watcher   *fsnotify.Watcher
	callbacks []func(string)
	filter    func(string) bool
	debounce  time.Duration
	mu        sync.RWMutex
	pending   map[string]*time.Timer
	pendingMu sync.Mutex
	done      chan struct{}
	stopOnce  sync.Once
	logger    logger.Logger
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithWatcherLogger sets the logger for the watcher.
func WithWatcherLogger(l logger.Logger) WatcherOption {
	return func(w *Watcher) {
		w.logger = l
	}
}

// WithFilter restricts callbacks to paths for which keep returns true.
func WithFilter(keep func(path string) bool) WatcherOption {
	return func(w *Watcher) {
		w.filter = keep
	}
}

// WithDebounce sets how long a path must be quiet before callbacks run.
// Zero runs callbacks on every event.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		w.debounce = d
	}
}

// NewWatcher creates a new watcher.
func NewWatcher(opts ...WatcherOption) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	watcher := &Watcher{
		watcher: w,
		pending: make(map[string]*time.Timer),
		done:    make(chan struct{}),
		logger:  logger.Default(),
	}

	for _, opt := range opts {
		opt(watcher)
	}

	return watcher, nil
}

// Watch watches a single file. The file's directory is watched, so editors
// that replace the file by rename are still seen.
func (w *Watcher) Watch(path string) error {
	return w.add(filepath.Dir(path))
}

// WatchDir watches every file directly inside dir.
func (w *Watcher) WatchDir(dir string) error {
	return w.add(dir)
}

func (w *Watcher) add(dir string) error {
	if err := w.watcher.Add(dir); err != nil {
		w.logger.Error("watch", "dir", dir, "error", err)
		return err
	}
	w.logger.Debug("watch", "dir", dir)
	return nil
}

// OnChange adds fn to the callbacks run, in registration order, with the
// path of each settled change.
func (w *Watcher) OnChange(fn func(string)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.callbacks = append(w.callbacks, fn)
}

// Start dispatches events until Stop. Only writes and creates that pass
// the filter are considered.
func (w *Watcher) Start() {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if w.filter != nil && !w.filter(event.Name) {
				continue
			}
			w.logger.Debug("fs event", "path", event.Name, "op", event.Op.String())
			w.schedule(event.Name)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("fsnotify", "error", err)
		case <-w.done:
			return
		}
	}
}

func (w *Watcher) StartAsync() {
	go w.Start()
}

// Stop stops the watcher. Pending debounced callbacks are dropped.
func (w *Watcher) Stop() error {
	var err error
	w.stopOnce.Do(func() {
		close(w.done)

		w.pendingMu.Lock()
		for path, t := range w.pending {
			t.Stop()
			delete(w.pending, path)
		}
		w.pendingMu.Unlock()

		if err = w.watcher.Close(); err != nil {
			w.logger.Warn("close fsnotify", "error", err)
		}
	})
	return err
}

func (w *Watcher) schedule(path string) {
	if w.debounce <= 0 {
		w.fire(path)
		return
	}

	w.pendingMu.Lock()
	defer w.pendingMu.Unlock()

	if t, ok := w.pending[path]; ok {
		t.Reset(w.debounce)
		return
	}
	w.pending[path] = time.AfterFunc(w.debounce, func() {
		w.pendingMu.Lock()
		delete(w.pending, path)
		w.pendingMu.Unlock()

		select {
		case <-w.done:
			return
		default:
		}
		w.fire(path)
	})
}

func (w *Watcher) fire(path string) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	for _, cb := range w.callbacks {
		cb(path)
	}
}
