package preset

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
)

// FileWatcher polls the preset directory and calls onChange when a YAML file is
// added, modified or removed.
type FileWatcher struct {
	paths    Paths
	interval time.Duration
	onChange func(path string)
	log      logrus.FieldLogger
	mtimes   map[string]time.Time
}

// NewFileWatcher creates a watcher for the loader's directory.
func NewFileWatcher(paths Paths, interval time.Duration, log logrus.FieldLogger, onChange func(string)) *FileWatcher {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &FileWatcher{
		paths:    paths,
		interval: interval,
		onChange: onChange,
		log:      log,
		mtimes:   make(map[string]time.Time),
	}
}

// WatchLoader returns a watcher that drops l's cache on every change and then
// calls onReload, which may be nil.
func WatchLoader(l *Loader, interval time.Duration, log logrus.FieldLogger, onReload func(path string)) *FileWatcher {
	return NewFileWatcher(l.Paths(), interval, log, func(path string) {
		l.Invalidate()
		if onReload != nil {
			onReload(path)
		}
	})
}

// Run polls until ctx is done.
func (w *FileWatcher) Run(ctx context.Context) {
	if w.paths.BaseDir == "" || w.interval <= 0 {
		return
	}
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	// prime cache
	w.Scan(true)
	for {
		select {
		case <-ticker.C:
			w.Scan(false)
		case <-ctx.Done():
			return
		}
	}
}

func (w *FileWatcher) files() []string {
	files := []string{w.paths.DefaultPath()}
	for _, dir := range []string{w.paths.BannerDir(), w.paths.GoalDir()} {
		m, _ := filepath.Glob(filepath.Join(dir, "*.yaml"))
		files = append(files, m...)
	}
	return files
}

// Scan checks every file once and reports the number of changes seen.
// With prime set it only records modification times.
func (w *FileWatcher) Scan(prime bool) int {
	seen := make(map[string]bool)
	changed := 0
	for _, p := range w.files() {
		fi, err := os.Stat(p)
		if err != nil {
			continue
		}
		seen[p] = true
		mt := fi.ModTime()
		last, ok := w.mtimes[p]
		w.mtimes[p] = mt
		if prime || (ok && !mt.After(last)) {
			continue
		}
		changed++
		w.notify(p)
	}
	for p := range w.mtimes {
		if !seen[p] {
			delete(w.mtimes, p)
			changed++
			w.notify(p)
		}
	}
	return changed
}

func (w *FileWatcher) notify(path string) {
	w.log.WithField("path", path).Info("preset changed")
	if w.onChange != nil {
		w.onChange(path)
	}
}
