package network

import (
	"sync"
	"time"

	"github.com/zeebo/blake3"
)

const (
	// defaultDedupTTL bounds how long an announced envelope digest is
	// remembered.
	defaultDedupTTL = 30 * time.Second

	// sweepInterval bounds how often expired digests are swept.
	sweepInterval = 1 * time.Second
)

// Dedup remembers the blake3 digests of recently announced envelopes so a
// certificate bouncing around the mesh is handed to the node once per TTL
// window. The mesh moves opaque compressed bytes, so the digest is taken
// over the payload rather than the decoded certificate. Expired digests
// are swept inline on the next Check past the sweep interval.
type Dedup struct {
	mu        sync.Mutex
	seen      map[[32]byte]time.Time // seen maps payload digest to first sighting
	ttl       time.Duration
	lastSweep time.Time
}

// NewDedup creates a tracker that filters re-announcements within ttl.
func NewDedup(ttl time.Duration) *Dedup {
	return &Dedup{
		seen: make(map[[32]byte]time.Time),
		ttl:  ttl,
	}
}

// Check reports whether the payload is new within the TTL window, and
// records its digest when it is.
func (d *Dedup) Check(payload []byte) bool {
	digest := blake3.Sum256(payload)
	now := time.Now()

	d.mu.Lock()
	defer d.mu.Unlock()

	if now.Sub(d.lastSweep) >= sweepInterval {
		for h, ts := range d.seen {
			if now.Sub(ts) >= d.ttl {
				delete(d.seen, h)
			}
		}
		d.lastSweep = now
	}

	if ts, ok := d.seen[digest]; ok && now.Sub(ts) < d.ttl {
		return false
	}

	d.seen[digest] = now

	return true
}
