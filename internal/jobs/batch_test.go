package jobs

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
)

func TestRunBatch_SiblingsUnaffectedByFailure(t *testing.T) {
	ids := []string{"ch1", "ch2", "ch3"}
	results := RunBatch(context.Background(), nil, ids, 2, func(ctx context.Context, id string) error {
		if id == "ch2" {
			return errors.New("boom")
		}
		return nil
	})

	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}

	err := AggregateError(results)
	if err == nil {
		t.Fatal("expected aggregate error for ch2 failure")
	}

	var batchErr *BatchError
	if !errors.As(err, &batchErr) {
		t.Fatalf("expected *BatchError, got %T", err)
	}
	if len(batchErr.Failed) != 1 || batchErr.Failed[0].ChapterID != "ch2" {
		t.Fatalf("expected only ch2 to fail, got %+v", batchErr.Failed)
	}
}

func TestRunBatch_BoundsConcurrency(t *testing.T) {
	ids := make([]string, 20)
	for i := range ids {
		ids[i] = "ch"
	}

	var inFlight, maxSeen int64
	RunBatch(context.Background(), nil, ids, 3, func(ctx context.Context, id string) error {
		n := atomic.AddInt64(&inFlight, 1)
		for {
			cur := atomic.LoadInt64(&maxSeen)
			if n <= cur || atomic.CompareAndSwapInt64(&maxSeen, cur, n) {
				break
			}
		}
		atomic.AddInt64(&inFlight, -1)
		return nil
	})

	if maxSeen > 3 {
		t.Fatalf("expected at most 3 concurrent chapters, saw %d", maxSeen)
	}
}

func TestAggregateError_AllSucceed(t *testing.T) {
	results := []ChapterResult{{ChapterID: "a"}, {ChapterID: "b"}}
	if err := AggregateError(results); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
}
