package jobs

import (
	"sync"
	"testing"
)

// TestClaim_OnlyOneWinnerUnderContention exercises §8 scenario 5: two
// parallel batch runs both request force_index=true; exactly one actually
// claims the rebuild.
func TestClaim_OnlyOneWinnerUnderContention(t *testing.T) {
	c := NewClaim()

	const attempts = 32
	var wg sync.WaitGroup
	wins := make([]bool, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			wins[i] = c.TryClaim("book-hash")
		}(i)
	}
	wg.Wait()

	won := 0
	for _, w := range wins {
		if w {
			won++
		}
	}
	if won != 1 {
		t.Fatalf("expected exactly 1 winner, got %d", won)
	}
}

func TestClaim_ReleaseAllowsReclaim(t *testing.T) {
	c := NewClaim()
	if !c.TryClaim("k") {
		t.Fatal("expected first claim to succeed")
	}
	if c.TryClaim("k") {
		t.Fatal("expected second claim to fail while held")
	}
	c.Release("k")
	if !c.TryClaim("k") {
		t.Fatal("expected claim to succeed after release")
	}
}
