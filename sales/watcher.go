package sales

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/teranos/barista/errors"
	"github.com/teranos/barista/logger"
)

// DefaultDebounce collapses the burst of events an editor produces on save
const DefaultDebounce = 500 * time.Millisecond

// ChangeCallback is called after the sales file changed on disk
type ChangeCallback func() error

// Watcher watches the sales file for edits made outside this process.
//
// The parent directory is watched rather than the file itself: Save replaces the
// file by rename, which would drop a watch on the old inode.
type Watcher struct {
	path           string
	watcher        *fsnotify.Watcher
	callbacks      []ChangeCallback
	mu             sync.RWMutex
	debounceTimer  *time.Timer
	debouncePeriod time.Duration
	ownWriteUntil  time.Time
	ownWriteMu     sync.Mutex
	started        bool
	done           chan struct{}
	logger         *zap.SugaredLogger
}

// NewWatcher creates a watcher for the sales file at path
func NewWatcher(path string, debounce time.Duration, log *zap.SugaredLogger) (*Watcher, error) {
	if log == nil {
		log = logger.Logger
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to resolve sales file path")
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create fsnotify watcher")
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		fw.Close()
		return nil, errors.Wrapf(err, "failed to watch %s", filepath.Dir(abs))
	}

	return &Watcher{
		path:           abs,
		watcher:        fw,
		debouncePeriod: debounce,
		done:           make(chan struct{}),
		logger:         log,
	}, nil
}

// OnChange registers a callback to be called after an external change
func (w *Watcher) OnChange(callback ChangeCallback) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.callbacks = append(w.callbacks, callback)
}

// MarkOwnWrite suppresses events for the next debounce window, so writes made by
// this process (AddData) do not trigger a reload.
func (w *Watcher) MarkOwnWrite() {
	w.ownWriteMu.Lock()
	defer w.ownWriteMu.Unlock()
	w.ownWriteUntil = time.Now().Add(2 * w.debouncePeriod)
}

// isOwnWrite reports whether an event falls inside the own-write window
func (w *Watcher) isOwnWrite() bool {
	w.ownWriteMu.Lock()
	defer w.ownWriteMu.Unlock()
	return time.Now().Before(w.ownWriteUntil)
}

// Start begins watching in a background goroutine
func (w *Watcher) Start() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.started {
		return
	}
	w.started = true
	go w.watchLoop()
}

// watchLoop monitors file system events
func (w *Watcher) watchLoop() {
	defer close(w.done)
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !w.relevant(event) {
				continue
			}
			if w.isOwnWrite() {
				w.logger.Debugw("Sales watcher ignoring own write", logger.FieldPath, event.Name)
				continue
			}

			w.logger.Infow("Sales watcher detected change",
				logger.FieldPath, event.Name,
				"op", event.Op.String())
			w.scheduleReload()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warnw("Sales watcher error", logger.FieldError, err)
		}
	}
}

// relevant filters events down to writes and replacements of the watched file
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != w.path {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create)
}

// scheduleReload debounces rapid file changes and triggers the callbacks
func (w *Watcher) scheduleReload() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	w.debounceTimer = time.AfterFunc(w.debouncePeriod, w.fire)
}

// fire runs every callback; a failing callback does not stop the others
func (w *Watcher) fire() {
	w.mu.RLock()
	callbacks := make([]ChangeCallback, len(w.callbacks))
	copy(callbacks, w.callbacks)
	w.mu.RUnlock()

	for _, callback := range callbacks {
		if err := callback(); err != nil {
			w.logger.Warnw("Sales change callback error", logger.FieldError, err)
		}
	}
}

// Stop stops watching and waits for the event loop to exit
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	started := w.started
	w.mu.Unlock()

	err := w.watcher.Close()
	if started {
		<-w.done
	}
	return err
}
