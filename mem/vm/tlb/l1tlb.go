package tlb

import (
	"io"
	"math/rand/v2"

	"github.com/sarchlab/memhier/mem/vm"
)

// A VictimReceiver takes the entries that the L1 TLB evicts.
type VictimReceiver interface {
	Update(vpn, frame uint64, shared bool)
}

// L1TLB is the first TLB level. It keeps no recency state.
type L1TLB struct {
	level

	rng *rand.Rand
}

// Search returns the frame number cached for the virtual page number.
func (t *L1TLB) Search(vpn uint64) (frame uint64, found bool) {
	_, entry, found := t.lookup(vpn)
	if !found {
		return 0, false
	}

	return entry.Frame, true
}

// Update caches a translation. A page that is already cached is updated in
// place. Otherwise the first invalid way is used. When the set is full a
// random way is evicted, and its translation is handed to the next level.
// next may be nil, in which case the victim is dropped.
func (t *L1TLB) Update(next VictimReceiver, vpn, frame uint64, shared bool) {
	vm.FrameMustFit(frame)

	tag, setID := t.decompose(vpn)
	s := t.sets[setID]

	wayID, _, found := s.Lookup(tag)
	if !found {
		wayID, found = s.FindEmpty()
	}

	if !found {
		wayID = t.rng.IntN(s.NumWays())
		victim := t.evict(wayID, setID)

		if next != nil {
			next.Update(t.vpn(victim.Tag, setID), victim.Frame, victim.Shared)
		}
	}

	t.install(wayID, setID, vpn, frame, shared)
}

// Dump writes every valid entry.
func (t *L1TLB) Dump(w io.Writer) error {
	return t.dumpEntries(w, nil)
}
