package jobs

import "sync"

// Claim implements compare-and-swap style single-flight ownership for the
// book-index force-rebuild race in §5/§8 scenario 5: when two runs both
// force a rebuild of the same chapter/stage pair, exactly one proceeds to
// rebuild; the other waits until the claim is released and then skips.
type Claim struct {
	mu      sync.Mutex
	holders map[string]bool
}

// NewClaim creates an empty claim tracker.
func NewClaim() *Claim {
	return &Claim{holders: make(map[string]bool)}
}

// TryClaim attempts to become the sole owner of a rebuild for key (the
// pipeline runner uses "<chapterID>:<stage>"). Returns true if this call
// won the race; false means another goroutine already holds the claim.
func (c *Claim) TryClaim(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.holders[key] {
		return false
	}
	c.holders[key] = true
	return true
}

// Release gives up ownership of key, allowing a future TryClaim to succeed.
func (c *Claim) Release(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.holders, key)
}
