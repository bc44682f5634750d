package jobs

import (
	"context"
	"testing"
	"time"
)

func TestSemaphore_AcquireRelease(t *testing.T) {
	sem := NewSemaphore(2)

	ctx := context.Background()
	if err := sem.Acquire(ctx); err != nil {
		t.Fatalf("acquire 1: %v", err)
	}
	if err := sem.Acquire(ctx); err != nil {
		t.Fatalf("acquire 2: %v", err)
	}
	if sem.InUse() != 2 {
		t.Fatalf("expected 2 in use, got %d", sem.InUse())
	}

	if sem.TryAcquire() {
		t.Fatal("expected TryAcquire to fail at capacity")
	}

	sem.Release()
	if !sem.TryAcquire() {
		t.Fatal("expected TryAcquire to succeed after release")
	}
}

func TestSemaphore_AcquireRespectsContext(t *testing.T) {
	sem := NewSemaphore(1)
	if err := sem.Acquire(context.Background()); err != nil {
		t.Fatalf("acquire: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if err := sem.Acquire(ctx); err == nil {
		t.Fatal("expected context deadline error")
	}
}

func TestSemaphore_ZeroCapacityDefaultsToOne(t *testing.T) {
	sem := NewSemaphore(0)
	if sem.Capacity() != 1 {
		t.Fatalf("expected capacity 1, got %d", sem.Capacity())
	}
}

func TestSemaphore_ReleaseWithoutAcquirePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic releasing an unacquired semaphore")
		}
	}()
	NewSemaphore(1).Release()
}
