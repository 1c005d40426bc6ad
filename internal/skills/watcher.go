package skills

import (
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Watcher reloads the connected-skills file when it changes and swaps the
// router atomically. Lookups always see a complete manifest list.
type Watcher struct {
	path string

	mu     sync.RWMutex
	router *Router

	watcher  *fsnotify.Watcher
	done     chan struct{}
	onReload func(*Router)
}

// NewWatcher loads the skills file and starts watching its directory for
// writes. onReload, when non-nil, is invoked after every successful swap.
func NewWatcher(path string, onReload func(*Router)) (*Watcher, error) {
	router, err := LoadRouter(path)
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		path:     path,
		router:   router,
		done:     make(chan struct{}),
		onReload: onReload,
	}

	// Watch the parent directory so editors that replace the file (rename
	// over it) still trigger a reload.
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		// Continue without live reload
		return w, nil
	}
	if err := fsw.Add(filepath.Dir(path)); err != nil {
		fsw.Close()
		return w, nil
	}
	w.watcher = fsw

	go w.watch()

	return w, nil
}

// Router returns the current router.
func (w *Watcher) Router() *Router {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.router
}

// Reload re-reads the skills file and swaps the router. A file that fails
// to load leaves the previous router in place.
func (w *Watcher) Reload() error {
	router, err := LoadRouter(w.path)
	if err != nil {
		return err
	}

	w.mu.Lock()
	w.router = router
	w.mu.Unlock()

	if w.onReload != nil {
		w.onReload(router)
	}
	return nil
}

// watch reacts to writes of the skills file.
func (w *Watcher) watch() {
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != filepath.Base(w.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				// A failed reload keeps the last good router.
				w.Reload()
			}
		case <-w.watcher.Errors:
			// Ignore errors, keep watching
		}
	}
}

// Close stops watching.
func (w *Watcher) Close() {
	close(w.done)
	if w.watcher != nil {
		w.watcher.Close()
	}
}
