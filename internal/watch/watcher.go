// Package watch monitors a catalog file for edits so long-running sessions
// can rebuild the phase diagram when entries change on disk.
package watch

import (
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ChangeKind describes the type of catalog change detected.
type ChangeKind int

const (
	ChangeModified ChangeKind = iota // Catalog file edited
	ChangeRemoved                    // Catalog file deleted
)

// CatalogChange represents a detected change to the watched catalog.
type CatalogChange struct {
	Kind ChangeKind
	File string // Absolute path
}

// Watcher monitors a catalog file for changes using fsnotify. The parent
// directory is watched rather than the file itself, since most editors
// replace files on save.
type Watcher struct {
	Path    string
	Changes <-chan CatalogChange // Read-only external channel

	changes chan CatalogChange // Internal write channel
	done    chan struct{}
	watcher *fsnotify.Watcher
}

// NewWatcher creates a new watcher for the given catalog path.
func NewWatcher(path string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		fw.Close()
		return nil, err
	}

	ch := make(chan CatalogChange, 16)
	w := &Watcher{
		Path:    abs,
		Changes: ch,
		changes: ch,
		done:    make(chan struct{}),
		watcher: fw,
	}
	return w, nil
}

// Start begins watching the catalog's directory for changes.
func (w *Watcher) Start() error {
	if err := w.watcher.Add(filepath.Dir(w.Path)); err != nil {
		return err
	}

	go w.loop()
	return nil
}

// Stop closes the watcher and channels.
func (w *Watcher) Stop() {
	w.watcher.Close()
	<-w.done // Wait for loop to exit
	close(w.changes)
}

func (w *Watcher) loop() {
	defer close(w.done)

	// Debounce: editors often emit several events per save.
	const debounce = 100 * time.Millisecond
	pending := make(map[string]ChangeKind)
	last := time.Now()
	ticker := time.NewTicker(debounce)
	defer ticker.Stop()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				for file, kind := range pending {
					w.changes <- CatalogChange{Kind: kind, File: file}
				}
				return
			}

			if !w.isCatalog(event.Name) {
				continue
			}

			switch {
			case event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename):
				pending[event.Name] = ChangeRemoved
				last = time.Now()
			case event.Has(fsnotify.Write) || event.Has(fsnotify.Create):
				pending[event.Name] = ChangeModified
				last = time.Now()
			}

		case _, ok := <-ticker.C:
			if !ok {
				return
			}
			if len(pending) == 0 || time.Since(last) < debounce {
				continue
			}
			for file, kind := range pending {
				w.changes <- CatalogChange{Kind: kind, File: file}
				delete(pending, file)
			}

		case _, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			// Ignore watch errors; they're non-fatal.
		}
	}
}

func (w *Watcher) isCatalog(name string) bool {
	return filepath.Base(name) == filepath.Base(w.Path)
}
