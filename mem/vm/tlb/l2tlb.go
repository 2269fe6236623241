package tlb

import (
	"fmt"
	"io"
	"strings"

	"github.com/sarchlab/memhier/mem/replacement"
	"github.com/sarchlab/memhier/mem/vm"
)

// L2TLB is the second TLB level. Each set has an LRU matrix.
type L2TLB struct {
	level

	lru []*replacement.LRUMatrix
}

// Search returns the frame number cached for the virtual page number. A hit
// makes the entry the most recently used of its set.
func (t *L2TLB) Search(vpn uint64) (frame uint64, found bool) {
	entry, found := t.SearchEntry(vpn)
	return entry.Frame, found
}

// SearchEntry is Search, but it returns the whole entry.
func (t *L2TLB) SearchEntry(vpn uint64) (Entry, bool) {
	wayID, entry, found := t.lookup(vpn)
	if !found {
		return Entry{}, false
	}

	_, setID := t.decompose(vpn)
	t.lru[setID].Touch(wayID)

	return entry, true
}

// Update caches a translation. A page that is already cached is updated in
// place. Otherwise the first invalid way is used, and then the least
// recently used way. The way that receives the entry becomes the most
// recently used.
func (t *L2TLB) Update(vpn, frame uint64, shared bool) {
	vm.FrameMustFit(frame)

	tag, setID := t.decompose(vpn)
	s := t.sets[setID]

	wayID, _, found := s.Lookup(tag)
	if !found {
		wayID, found = s.FindEmpty()
	}

	if !found {
		wayID = t.lru[setID].Victim()
		t.evict(wayID, setID)
	}

	t.install(wayID, setID, vpn, frame, shared)
	t.lru[setID].Touch(wayID)
}

// LRUMatrix returns the rows of the LRU matrix of a set, one string of 0s
// and 1s per way.
func (t *L2TLB) LRUMatrix(setID int) []string {
	return strings.Split(t.lru[setID].String(), "\n")
}

// Dump writes every valid entry and the LRU matrix of every non-empty set.
func (t *L2TLB) Dump(w io.Writer) error {
	return t.dumpEntries(w, func(setID int) string {
		sb := strings.Builder{}
		for wayID, row := range t.LRUMatrix(setID) {
			fmt.Fprintf(&sb, "\tlru %d\t%s\t\n", wayID, row)
		}

		return sb.String()
	})
}
