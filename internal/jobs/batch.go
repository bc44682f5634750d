package jobs

import (
	"context"
	"log/slog"
	"sync"
)

// ChapterFunc runs one chapter's pipeline to completion (or failure) and
// returns an error that the batch driver folds into its aggregate result.
// Implementations are expected to be safe for concurrent invocation across
// distinct chapter IDs; ordering between chapters is explicitly undefined
// per §5.
type ChapterFunc func(ctx context.Context, chapterID string) error

// ChapterResult pairs a chapter ID with the outcome of its pipeline run.
type ChapterResult struct {
	ChapterID string
	Err       error
}

// RunBatch executes fn for every chapter ID with bounded concurrency
// maxWorkers (§4.H "Batch mode"). A failing chapter does not affect
// siblings; all results are collected and returned once every chapter has
// finished or ctx is cancelled.
func RunBatch(ctx context.Context, logger *slog.Logger, chapterIDs []string, maxWorkers int, fn ChapterFunc) []ChapterResult {
	if logger == nil {
		logger = slog.Default()
	}
	if maxWorkers <= 0 {
		maxWorkers = len(chapterIDs)
	}
	if maxWorkers <= 0 {
		maxWorkers = 1
	}

	sem := NewSemaphore(maxWorkers)
	results := make([]ChapterResult, len(chapterIDs))

	var wg sync.WaitGroup
	for i, id := range chapterIDs {
		i, id := i, id
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := sem.Acquire(ctx); err != nil {
				results[i] = ChapterResult{ChapterID: id, Err: err}
				return
			}
			defer sem.Release()

			logger.Info("chapter run starting", "chapter_id", id)
			err := fn(ctx, id)
			if err != nil {
				logger.Error("chapter run failed", "chapter_id", id, "error", err)
			} else {
				logger.Info("chapter run completed", "chapter_id", id)
			}
			results[i] = ChapterResult{ChapterID: id, Err: err}
		}()
	}
	wg.Wait()

	return results
}

// AggregateError collects per-chapter failures from a batch run into a
// single error the caller can surface, or nil if every chapter succeeded.
func AggregateError(results []ChapterResult) error {
	var failed []ChapterResult
	for _, r := range results {
		if r.Err != nil {
			failed = append(failed, r)
		}
	}
	if len(failed) == 0 {
		return nil
	}
	return &BatchError{Failed: failed}
}

// BatchError reports every chapter that failed during a batch run.
type BatchError struct {
	Failed []ChapterResult
}

func (e *BatchError) Error() string {
	if len(e.Failed) == 1 {
		return "chapter " + e.Failed[0].ChapterID + " failed: " + e.Failed[0].Err.Error()
	}
	msg := "batch run: "
	for i, r := range e.Failed {
		if i > 0 {
			msg += "; "
		}
		msg += r.ChapterID + ": " + r.Err.Error()
	}
	return msg
}
