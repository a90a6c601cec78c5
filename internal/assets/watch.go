package assets

import (
	"errors"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watcher re-submits requests when their files change on disk. It watches
// parent directories because editors often replace files instead of
// writing them in place.
type Watcher struct {
	fs      *fsnotify.Watcher
	loader  *Loader
	log     *zap.Logger
	targets map[string]Request
	done    chan struct{}
	stopped chan struct{}
	started bool

	// Debounce coalesces bursts of events for one file.
	Debounce time.Duration
}

// NewWatcher creates a watcher that submits reloads to loader.
func NewWatcher(loader *Loader, log *zap.Logger) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Watcher{
		fs:       fw,
		loader:   loader,
		log:      log,
		targets:  make(map[string]Request),
		done:     make(chan struct{}),
		stopped:  make(chan struct{}),
		Debounce: 100 * time.Millisecond,
	}, nil
}

// Watch reloads r whenever the file at file is written or created.
// Call before Start.
func (w *Watcher) Watch(file string, r Request) error {
	if file == "" {
		return errors.New("watch: asset has no filesystem path")
	}
	abs, err := filepath.Abs(file)
	if err != nil {
		return err
	}
	if err := w.fs.Add(filepath.Dir(abs)); err != nil {
		return err
	}
	w.targets[abs] = r
	return nil
}

// Start runs the event loop on its own goroutine.
func (w *Watcher) Start() {
	w.started = true
	go w.run()
}

func (w *Watcher) run() {
	defer close(w.stopped)
	pending := make(map[string]time.Time)
	if w.Debounce <= 0 {
		w.Debounce = time.Millisecond
	}
	tick := time.NewTicker(w.Debounce)
	defer tick.Stop()

	for {
		select {
		case e, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if e.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			abs, err := filepath.Abs(e.Name)
			if err != nil {
				continue
			}
			if _, ok := w.targets[abs]; ok {
				pending[abs] = time.Now()
			}

		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.log.Warn("watch error", zap.Error(err))

		case now := <-tick.C:
			for file, at := range pending {
				if now.Sub(at) < w.Debounce {
					continue
				}
				delete(pending, file)
				r := w.targets[file]
				w.log.Info("asset changed, reloading", zap.String("path", r.Path))
				w.loader.Reload(r)
			}

		case <-w.done:
			return
		}
	}
}

// Close stops the event loop and releases the watcher.
func (w *Watcher) Close() error {
	select {
	case <-w.done:
		return nil
	default:
	}
	close(w.done)
	err := w.fs.Close()
	if w.started {
		<-w.stopped
	}
	return err
}
