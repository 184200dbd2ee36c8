package cart

import (
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watcher observes the FileStorage directory and republishes external
// writes as reload signals. It is the server-side analogue of the
// browser storage event: another process (or instance) touching a cart
// file makes every subscribed surface here resynchronize.
//
// Our own saves show up too; the debounce folds those in with any
// external change, and subscribers re-read full state either way.
type Watcher struct {
	fs    *fsnotify.Watcher
	store *Store
	log   *zap.Logger

	mu       sync.Mutex
	lastSeen map[string]time.Time
	debounce time.Duration

	stopCh chan struct{}
	doneCh chan struct{}
}

func NewWatcher(store *Store, dir string, log *zap.Logger) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(dir); err != nil {
		fw.Close()
		return nil, err
	}

	return &Watcher{
		fs:       fw,
		store:    store,
		log:      log,
		lastSeen: map[string]time.Time{},
		debounce: 200 * time.Millisecond,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}

func (w *Watcher) Start() {
	go w.loop()
}

func (w *Watcher) Stop() {
	close(w.stopCh)
	_ = w.fs.Close()
	<-w.doneCh
}

func (w *Watcher) loop() {
	defer close(w.doneCh)

	for {
		select {
		case <-w.stopCh:
			return

		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			key, ok := keyFromFile(ev.Name)
			if !ok || w.debounced(key) {
				continue
			}
			w.store.publish(Event{Type: EventReloaded, Key: key})

		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.log.Warn("cart watcher error", zap.Error(err))
		}
	}
}

func (w *Watcher) debounced(key string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	now := time.Now()
	if t, ok := w.lastSeen[key]; ok && now.Sub(t) < w.debounce {
		return true
	}
	w.lastSeen[key] = now
	return false
}
