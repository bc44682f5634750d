package batch

import (
	"context"
	"testing"
	"time"

	"github.com/jackzampolin/audiobook-master/internal/workdir"
)

func TestWatcher_FiresAfterDebounceSettles(t *testing.T) {
	dir := t.TempDir()
	work, err := workdir.New(dir)
	if err != nil {
		t.Fatalf("workdir.New: %v", err)
	}
	if err := work.EnsureExists(); err != nil {
		t.Fatalf("EnsureExists: %v", err)
	}

	w := NewWatcher(work, 100*time.Millisecond, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	fired := make(chan []string, 1)
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx, func(_ context.Context, chapterIDs []string) {
			select {
			case fired <- chapterIDs:
			default:
			}
		})
	}()

	// Give the watcher a moment to start before dropping a chapter in.
	time.Sleep(50 * time.Millisecond)
	if err := work.EnsureChapterDir("ch01"); err != nil {
		t.Fatalf("EnsureChapterDir: %v", err)
	}

	select {
	case chapterIDs := <-fired:
		if len(chapterIDs) != 1 || chapterIDs[0] != "ch01" {
			t.Errorf("expected [ch01], got %v", chapterIDs)
		}
	case <-ctx.Done():
		t.Fatal("timed out waiting for watcher to fire")
	}

	cancel()
	<-done
}

func TestNewWatcher_DefaultsDebounce(t *testing.T) {
	work, _ := workdir.New(t.TempDir())
	w := NewWatcher(work, 0, nil)
	if w.debounce != 5*time.Second {
		t.Errorf("expected default debounce of 5s, got %v", w.debounce)
	}
}
