package skill

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/junction-mcp/junction/pkg/logging"
)

// Watcher recursively observes a Registry's configured directories and
// invalidates its cache on any SKILL.md change (§4.E "Watching").
type Watcher struct {
	registry *Registry
	watcher  *fsnotify.Watcher
	observer func()

	stopOnce sync.Once
	done     chan struct{}
}

// NewWatcher starts watching every existing directory named by the registry's
// configured paths and every subdirectory beneath them, at any depth, that
// exists when the watcher starts. observer, if non-nil, is called after each
// invalidation.
func NewWatcher(r *Registry, observer func()) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{registry: r, watcher: fsw, observer: observer, done: make(chan struct{})}

	for _, p := range r.paths {
		dir := p
		if !filepath.IsAbs(dir) {
			dir = filepath.Join(r.workDir, dir)
		}
		w.addDirRecursive(dir)
	}

	go w.run()
	return w, nil
}

func (w *Watcher) addDirRecursive(dir string) {
	if err := w.watcher.Add(dir); err != nil {
		logging.Warn("Skill", "watching %s failed: %v", dir, err)
		return
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}
	for _, e := range entries {
		if e.IsDir() {
			w.addDirRecursive(filepath.Join(dir, e.Name()))
		}
	}
}

func (w *Watcher) run() {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if strings.HasSuffix(event.Name, skillFileName) {
				w.registry.ClearCache()
				if w.observer != nil {
					w.observer()
				}
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logging.Warn("Skill", "watch error: %v", err)
		case <-w.done:
			return
		}
	}
}

// Stop halts all watch streams. Idempotent.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.done)
		w.watcher.Close()
	})
}
