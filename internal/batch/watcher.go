// Package batch watches a book's work_dir for newly dropped chapter
// directories and feeds them into a batch pipeline run, so an unattended
// drop-folder workflow doesn't need a human to invoke `masterctl run --all`
// after every new chapter lands.
package batch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/jackzampolin/audiobook-master/internal/workdir"
)

// ReadyFunc is invoked once the debounce window has elapsed after the last
// filesystem event, with every chapter ID currently present under
// work_dir. It is the caller's job (typically svcctx.Services.Runner.
// RunBatch) to skip chapters whose stages are already up to date.
type ReadyFunc func(ctx context.Context, chapterIDs []string)

// Watcher debounces fsnotify events on a work_dir into ReadyFunc calls.
type Watcher struct {
	work     *workdir.Dir
	debounce time.Duration
	logger   *slog.Logger
}

// NewWatcher builds a Watcher over work's directory tree. debounce bounds
// how long the watcher waits after the last filesystem event before
// declaring the drop quiescent and calling ReadyFunc; a manuscript/audio
// upload usually touches several files in quick succession, so firing on
// every single event would trigger redundant runs mid-upload.
func NewWatcher(work *workdir.Dir, debounce time.Duration, logger *slog.Logger) *Watcher {
	if debounce <= 0 {
		debounce = 5 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{work: work, debounce: debounce, logger: logger}
}

// Run watches work_dir until ctx is cancelled, calling onReady after each
// debounced batch of filesystem activity. It blocks until ctx is done.
func (w *Watcher) Run(ctx context.Context, onReady ReadyFunc) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("batch: create fsnotify watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(w.work.Path()); err != nil {
		return fmt.Errorf("batch: watch %s: %w", w.work.Path(), err)
	}
	w.logger.Info("batch watcher started", "work_dir", w.work.Path(), "debounce", w.debounce)

	var timer *time.Timer
	var timerC <-chan time.Time

	resetTimer := func() {
		if timer == nil {
			timer = time.NewTimer(w.debounce)
		} else {
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(w.debounce)
		}
		timerC = timer.C
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			w.logger.Debug("batch watcher event", "name", event.Name, "op", event.Op.String())
			if event.Op&fsnotify.Create == fsnotify.Create {
				// New top-level entries (a freshly dropped chapter directory)
				// need their own watch to pick up subsequent file writes.
				_ = fw.Add(event.Name)
			}
			resetTimer()

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("batch watcher error", "error", err)

		case <-timerC:
			chapterIDs, err := w.work.ListChapters()
			if err != nil {
				w.logger.Error("batch watcher: list chapters", "error", err)
				continue
			}
			if len(chapterIDs) == 0 {
				continue
			}
			w.logger.Info("batch watcher: drop settled, running batch", "chapters", len(chapterIDs))
			onReady(ctx, chapterIDs)
		}
	}
}
