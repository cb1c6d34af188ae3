package catalog

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/idilsaglam/breachtrack/internal/logging"
	"github.com/idilsaglam/breachtrack/internal/model"
)

// Watcher reloads a YAML catalog file whenever it changes on disk.
type Watcher struct {
	path     string
	watcher  *fsnotify.Watcher
	onChange func(model.Catalog)
	log      *zap.Logger
	settle   time.Duration
	done     chan struct{}
}

// Watch starts watching path. The parent directory is watched rather than the
// file itself because editors usually save by rename, which drops a file watch.
// onChange runs on the watcher goroutine with every successfully parsed catalog;
// broken edits are logged and skipped. The watcher stops when ctx is done.
func Watch(ctx context.Context, path string, log *zap.Logger, onChange func(model.Catalog)) (*Watcher, error) {
	if path == "" {
		return nil, fmt.Errorf("watch catalog: empty path")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("watch catalog: %w", err)
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch catalog: %w", err)
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		_ = fw.Close()
		return nil, fmt.Errorf("watch catalog: %w", err)
	}
	w := &Watcher{
		path:     abs,
		watcher:  fw,
		onChange: onChange,
		log:      logging.OrNop(log),
		settle:   100 * time.Millisecond,
		done:     make(chan struct{}),
	}
	go w.run(ctx)
	return w, nil
}

// Done is closed once the watch loop has exited and the fsnotify handle is closed.
func (w *Watcher) Done() <-chan struct{} { return w.done }

func (w *Watcher) run(ctx context.Context) {
	defer close(w.done)
	defer w.watcher.Close()

	// Editors emit bursts (truncate, write, chmod); reload once the burst settles.
	var settle *time.Timer
	var settleC <-chan time.Time
	defer func() {
		if settle != nil {
			settle.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			if settle == nil {
				settle = time.NewTimer(w.settle)
			} else {
				settle.Reset(w.settle)
			}
			settleC = settle.C
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Warn("catalog watcher error", zap.Error(err))
		case <-settleC:
			settleC = nil
			w.reload()
		}
	}
}

func (w *Watcher) reload() {
	b, err := os.ReadFile(w.path)
	if err != nil {
		// Mid-rename saves briefly remove the file; the Create that follows reloads it.
		w.log.Debug("catalog not readable", zap.String("path", w.path), zap.Error(err))
		return
	}
	c, err := Parse(b)
	if err != nil {
		w.log.Warn("catalog reload failed; keeping previous catalog", zap.String("path", w.path), zap.Error(err))
		return
	}
	w.log.Info("catalog reloaded", zap.String("path", w.path), zap.Int("domains", c.Len()))
	if w.onChange != nil {
		w.onChange(c)
	}
}
