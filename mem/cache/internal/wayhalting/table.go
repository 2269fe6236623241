// Package wayhalting provides the halt-tag table of a way-halting cache.
//
// A way-halting cache keeps a few low bits of every stored tag in a small
// table that is indexed per way and per set. Before the full tag comparison,
// the same bits of the requested tag are compared against the table. A way
// whose fragment differs cannot hold the requested block and is halted, so
// its full tag and data arrays are never read for this access.
package wayhalting

import "fmt"

// WayStatus tells if a way takes part in the current access.
type WayStatus int

// The two states of a way.
const (
	Active WayStatus = iota
	Halted
)

func (s WayStatus) String() string {
	if s == Halted {
		return "HALTED"
	}

	return "ACTIVE"
}

// Table holds one fragment per (way, set) and the status of every way for
// the latest access.
type Table struct {
	numSets   int
	haltBits  int
	fragments [][]uint64
	status    []WayStatus
}

// NewTable creates a table for numWays ways and numSets sets, keeping
// haltBits bits of each tag.
func NewTable(numWays, numSets, haltBits int) *Table {
	if numWays <= 0 || numSets <= 0 {
		panic(fmt.Sprintf("invalid halt tag table %d ways x %d sets",
			numWays, numSets))
	}

	if haltBits <= 0 || haltBits >= 64 {
		panic(fmt.Sprintf("invalid number of halt tag bits %d", haltBits))
	}

	t := &Table{
		numSets:   numSets,
		haltBits:  haltBits,
		fragments: make([][]uint64, numWays),
		status:    make([]WayStatus, numWays),
	}

	for i := range t.fragments {
		t.fragments[i] = make([]uint64, numSets)
	}

	return t
}

// HaltBits returns the width of a fragment.
func (t *Table) HaltBits() int {
	return t.haltBits
}

// Fragment extracts the halt fragment of a full tag. The fragment is the
// low bits of the tag.
func (t *Table) Fragment(tag uint64) uint64 {
	return tag & (1<<t.haltBits - 1)
}

// MainTag returns the part of the tag that is not kept in the table.
func (t *Table) MainTag(tag uint64) uint64 {
	return tag >> t.haltBits
}

// FullTag rebuilds a tag from its main part and its fragment.
func (t *Table) FullTag(mainTag, fragment uint64) uint64 {
	return mainTag<<t.haltBits | fragment
}

// Record stores the fragment of the block filled into a way of a set.
func (t *Table) Record(wayID, setID int, fragment uint64) {
	t.mustBeInRange(wayID, setID)

	if fragment>>t.haltBits != 0 {
		panic(fmt.Sprintf("halt fragment 0x%x wider than %d bits",
			fragment, t.haltBits))
	}

	t.fragments[wayID][setID] = fragment
}

// Lookup returns the fragment stored for a way of a set.
func (t *Table) Lookup(wayID, setID int) uint64 {
	t.mustBeInRange(wayID, setID)
	return t.fragments[wayID][setID]
}

// Filter compares the requested fragment with the fragment of every way at
// the set. Ways that do not match are halted for this access; all the
// others are active. It reports whether every way has been halted.
func (t *Table) Filter(setID int, fragment uint64) (allHalted bool) {
	allHalted = true

	for wayID := range t.fragments {
		t.mustBeInRange(wayID, setID)

		if t.fragments[wayID][setID] == fragment {
			t.status[wayID] = Active
			allHalted = false
		} else {
			t.status[wayID] = Halted
		}
	}

	return allHalted
}

// Status returns the status a way got from the latest Filter.
func (t *Table) Status(wayID int) WayStatus {
	t.mustBeInRange(wayID, 0)
	return t.status[wayID]
}

// Statuses returns the status of every way from the latest Filter.
func (t *Table) Statuses() []WayStatus {
	return append([]WayStatus(nil), t.status...)
}

func (t *Table) mustBeInRange(wayID, setID int) {
	if wayID < 0 || wayID >= len(t.fragments) {
		panic(fmt.Sprintf("way %d out of range", wayID))
	}

	if setID < 0 || setID >= t.numSets {
		panic(fmt.Sprintf("set %d out of range", setID))
	}
}
