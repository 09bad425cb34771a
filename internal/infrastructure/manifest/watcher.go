package manifest

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// DefaultDebounce coalesces editor write bursts into one reload.
const DefaultDebounce = 300 * time.Millisecond

// Watcher observes a manifest directory and invokes onChange after
// changes settle. The callback typically reloads the plugin set, which
// in turn invalidates the registry's resolution cache.
type Watcher struct {
	dir      string
	debounce time.Duration
	onChange func()
	logger   zerolog.Logger
	fs       *fsnotify.Watcher
}

// NewWatcher starts watching dir. The caller drives delivery with Start.
func NewWatcher(dir string, debounce time.Duration, onChange func(), logger zerolog.Logger) (*Watcher, error) {
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create filesystem watcher: %w", err)
	}
	if err := fs.Add(dir); err != nil {
		fs.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{
		dir:      dir,
		debounce: debounce,
		onChange: onChange,
		logger:   logger,
		fs:       fs,
	}, nil
}

// Start consumes filesystem events until ctx is cancelled.
func (w *Watcher) Start(ctx context.Context) {
	defer w.fs.Close()

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	armed := false

	for {
		select {
		case <-ctx.Done():
			return
		case evt, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if !relevant(evt) {
				continue
			}
			if armed && !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(w.debounce)
			armed = true
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.logger.Warn().Err(err).Msg("manifest watcher error")
		case <-timer.C:
			armed = false
			w.logger.Info().Str("dir", w.dir).Msg("manifest change detected, reloading plugins")
			w.onChange()
		}
	}
}

// relevant filters for manifest file mutations.
func relevant(evt fsnotify.Event) bool {
	if !strings.HasSuffix(evt.Name, ".toml") {
		return false
	}
	return evt.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) != 0
}
