package clip

import (
	"sync/atomic"

	"github.com/cespare/xxhash"
)

// Deduplicator suppresses repeated notifications for identical content.
// Polling watchers see the same clipboard state on every tick; only a hash
// change is a real update.
type Deduplicator struct {
	lastHash atomic.Uint64
}

// Check returns the content hash and whether data differs from the last
// observed content, recording it as observed.
func (d *Deduplicator) Check(data []byte) (uint64, bool) {
	h := xxhash.Sum64(data)
	if h == d.lastHash.Load() {
		return h, false
	}
	d.lastHash.Store(h)
	return h, true
}

// Mark records data as observed without reporting it, so a backend's own
// writes do not echo back as change events.
func (d *Deduplicator) Mark(data []byte) {
	d.lastHash.Store(xxhash.Sum64(data))
}
