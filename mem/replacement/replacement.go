// Package replacement provides the per-set bookkeeping that decides which
// way to evict when a set is full.
package replacement

// A Tracker follows the accesses of one set and nominates a victim way.
type Tracker interface {
	// Touch records an access to a way.
	Touch(wayID int)

	// Victim returns the way to evict.
	Victim() int

	// Reset puts the tracker back to its initial ordering.
	Reset()
}

var (
	_ Tracker = (*LRUCounter)(nil)
	_ Tracker = (*FIFOCountdown)(nil)
	_ Tracker = (*LRUMatrix)(nil)
)
