package tutorial

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/guidekit/guidekit/internal/logging"
)

const watchDebounce = 250 * time.Millisecond

// Watcher emits the id of a tutorial whenever its source file under the
// directory is written. Writes within the debounce window coalesce into a
// single emission so editors that save in multiple bursts do not trigger
// repeated reloads.
type Watcher struct {
	dir      string
	debounce time.Duration
	logger   *slog.Logger
}

// NewWatcher creates a watcher over the source directory.
func NewWatcher(dir string, logger *slog.Logger) *Watcher {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Watcher{dir: dir, debounce: watchDebounce, logger: logger}
}

// Watch starts observing the directory and returns a channel of tutorial
// ids for files that change. The channel closes when ctx is cancelled.
func (w *Watcher) Watch(ctx context.Context) (<-chan string, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(w.dir); err != nil {
		fsw.Close()
		return nil, err
	}

	out := make(chan string, 8)
	go w.loop(ctx, fsw, out)
	return out, nil
}

func (w *Watcher) loop(ctx context.Context, fsw *fsnotify.Watcher, out chan<- string) {
	defer fsw.Close()
	defer close(out)

	pending := map[string]struct{}{}
	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-fsw.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			id, ok := tutorialID(event.Name)
			if !ok {
				continue
			}
			pending[id] = struct{}{}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			for id := range pending {
				w.logger.Debug("tutorial source changed", "tutorialId", id)
				select {
				case out <- id:
				default:
					w.logger.Warn("dropping change notification, channel full", "tutorialId", id)
				}
			}
			pending = map[string]struct{}{}

		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			w.logger.Error("watch error", "err", err)
		}
	}
}

// tutorialID maps a source filename back to the id Load resolves it from.
func tutorialID(path string) (string, bool) {
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	switch ext {
	case ".json", ".yaml", ".yml":
	default:
		return "", false
	}
	id := strings.TrimSuffix(base, ext)
	id = strings.TrimSuffix(id, "_tutorial")
	if id == "" {
		return "", false
	}
	return id, true
}
