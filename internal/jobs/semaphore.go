// Package jobs implements the concurrency and resource model of §5: bounded
// worker pools for running chapters in parallel, and capacity semaphores for
// the shared external resources (ASR service, forced aligner) that chapter
// stages contend over.
package jobs

import (
	"context"
	"fmt"
)

// Semaphore is a context-aware counting semaphore. Workers suspend on
// Acquire at I/O and subprocess boundaries, never across stage boundaries,
// matching the design note that semaphores are held only across suspension
// points.
type Semaphore struct {
	slots chan struct{}
}

// NewSemaphore creates a semaphore with the given capacity. A capacity <= 0
// is treated as 1 (e.g. the book-index writer semaphore, which is always
// single-slot).
func NewSemaphore(capacity int) *Semaphore {
	if capacity <= 0 {
		capacity = 1
	}
	return &Semaphore{slots: make(chan struct{}, capacity)}
}

// Acquire blocks until a slot is free or ctx is cancelled.
func (s *Semaphore) Acquire(ctx context.Context) error {
	select {
	case s.slots <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// TryAcquire attempts to acquire a slot without blocking.
func (s *Semaphore) TryAcquire() bool {
	select {
	case s.slots <- struct{}{}:
		return true
	default:
		return false
	}
}

// Release returns a slot to the semaphore.
func (s *Semaphore) Release() {
	select {
	case <-s.slots:
	default:
		panic("jobs: Semaphore released more times than acquired")
	}
}

// InUse returns the number of currently held slots.
func (s *Semaphore) InUse() int {
	return len(s.slots)
}

// Capacity returns the semaphore's total capacity.
func (s *Semaphore) Capacity() int {
	return cap(s.slots)
}

// Pools bundles the shared-resource semaphores described in §5: one writer
// slot for book-index rebuilds, a configurable ASR capacity (≈ GPU count or
// 1 for an HTTP service), and a configurable forced-aligner capacity.
type Pools struct {
	BookIndexWriter *Semaphore
	ASR             *Semaphore
	ForcedAligner   *Semaphore
}

// NewPools builds the standard resource pool set. asrCapacity and
// mfaCapacity <= 0 default to 1.
func NewPools(asrCapacity, mfaCapacity int) *Pools {
	if asrCapacity <= 0 {
		asrCapacity = 1
	}
	if mfaCapacity <= 0 {
		mfaCapacity = 1
	}
	return &Pools{
		BookIndexWriter: NewSemaphore(1),
		ASR:             NewSemaphore(asrCapacity),
		ForcedAligner:   NewSemaphore(mfaCapacity),
	}
}

// ErrPoolClosed is returned by operations on a pool that has been torn down.
var ErrPoolClosed = fmt.Errorf("jobs: pool closed")
