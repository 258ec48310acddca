package sources

import (
	"context"
	"log"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long a Watcher waits after the last change before
// reloading.
const DefaultDebounce = 100 * time.Millisecond

// Watcher reloads a shader directory whenever a shader file in it changes.
type Watcher struct {
	Debounce time.Duration

	dir      string
	watcher  *fsnotify.Watcher
	onChange func(Sources)
}

// Watch starts watching dir. onChange receives the full reloaded set and
// is called from the goroutine running Run.
func Watch(dir string, onChange func(Sources)) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(dir); err != nil {
		fw.Close()
		return nil, err
	}
	return &Watcher{
		Debounce: DefaultDebounce,
		dir:      dir,
		watcher:  fw,
		onChange: onChange,
	}, nil
}

// Run delivers reloads until ctx is done or the watcher is closed.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !IsShaderFile(event.Name) {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
				!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.Debounce)
			} else {
				timer.Reset(w.Debounce)
			}
			fire = timer.C
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			log.Printf("Warning: shader watcher error: %v", err)
		case <-fire:
			fire = nil
			s, err := LoadDir(w.dir)
			if err != nil {
				log.Printf("Warning: failed to reload shaders from %s: %v", w.dir, err)
				continue
			}
			log.Printf("Reloaded %d shader sources from %s", len(s), w.dir)
			w.onChange(s)
		}
	}
}

// Close stops the watcher; a running Run returns.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}
