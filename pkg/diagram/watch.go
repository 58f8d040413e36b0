package diagram

import (
	"context"
	"crypto/sha256"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/matzehuels/dirchart/pkg/errors"
)

// DefaultDebounce is how long a Watcher waits for writes to settle.
const DefaultDebounce = 250 * time.Millisecond

// Watcher reloads a layout file when it changes on disk.
//
// The parent directory is watched rather than the file itself, so editors
// that save by writing a temp file and renaming it over the original are
// still seen.
type Watcher struct {
	path     string
	debounce time.Duration
	fsw      *fsnotify.Watcher
}

// NewWatcher starts watching path. A non-positive debounce uses
// [DefaultDebounce].
func NewWatcher(path string, debounce time.Duration) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "layout %s", path)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeIO, err, "watch %s", path)
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		fsw.Close()
		return nil, errors.Wrap(errors.ErrCodeIO, err, "watch %s", path)
	}
	return &Watcher{path: abs, debounce: debounce, fsw: fsw}, nil
}

// Run blocks until ctx ends. After each settled change it calls onReload
// with the reloaded layout, or with the error that prevented loading it.
// Saves that leave the content unchanged are ignored.
func (w *Watcher) Run(ctx context.Context, onReload func(*Diagram, error)) error {
	defer w.fsw.Close()

	last := w.sum()
	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != w.path || ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			onReload(nil, errors.Wrap(errors.ErrCodeIO, err, "watch %s", w.path))

		case <-fire:
			fire = nil
			data, err := os.ReadFile(w.path)
			if err != nil {
				onReload(nil, errors.Wrap(errors.ErrCodeIO, err, "read layout %s", w.path))
				continue
			}
			sum := sha256.Sum256(data)
			if sum == last {
				continue
			}
			last = sum
			onReload(Parse(data))
		}
	}
}

func (w *Watcher) sum() [sha256.Size]byte {
	data, err := os.ReadFile(w.path)
	if err != nil {
		return [sha256.Size]byte{}
	}
	return sha256.Sum256(data)
}
