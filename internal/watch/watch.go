// Package watch notifies about changes to an on-disk store so open views
// can refresh when another medilog process logs a session.
package watch

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// DefaultDebounce coalesces the burst of events a single write produces.
const DefaultDebounce = 250 * time.Millisecond

// Watcher calls a function after files in a directory change.
type Watcher struct {
	fs       *fsnotify.Watcher
	logger   zerolog.Logger
	debounce time.Duration
	onChange func()

	stopOnce sync.Once
	done     chan struct{}
}

// Start watches dir until ctx is done or Close is called.
func Start(ctx context.Context, dir string, debounce time.Duration, onChange func(), logger zerolog.Logger) (*Watcher, error) {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fs.Add(dir); err != nil {
		_ = fs.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}
	w := &Watcher{
		fs:       fs,
		logger:   logger,
		debounce: debounce,
		onChange: onChange,
		done:     make(chan struct{}),
	}
	logger.Debug().Str("dir", dir).Msg("watching store for changes")
	go w.loop(ctx)
	return w, nil
}

// Close stops the watcher. It is safe to call more than once.
func (w *Watcher) Close() error {
	var err error
	w.stopOnce.Do(func() {
		close(w.done)
		err = w.fs.Close()
	})
	return err
}

func (w *Watcher) loop(ctx context.Context) {
	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()
	for {
		select {
		case <-ctx.Done():
			_ = w.Close()
			return
		case <-w.done:
			return
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
				!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}
			w.logger.Debug().Str("file", event.Name).Str("op", event.Op.String()).Msg("store changed")
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(w.debounce, w.fire)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.logger.Warn().Err(err).Msg("store watcher error")
		}
	}
}

func (w *Watcher) fire() {
	select {
	case <-w.done:
	default:
		w.onChange()
	}
}
