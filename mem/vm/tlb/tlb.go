// Package tlb provides the two TLB levels that cache page translations.
//
// The L1 TLB places new entries in a random way once a set is full and
// hands the evicted entry down to the L2 TLB. The L2 TLB picks its victims
// with an LRU matrix. Flushing either level drops every entry that is not
// shared.
package tlb

import (
	"fmt"
	"io"

	"github.com/sarchlab/memhier/mem/cache"
	"github.com/sarchlab/memhier/mem/mem"
	"github.com/sarchlab/memhier/mem/vm/tlb/internal"
	"github.com/sarchlab/memhier/sim/hooking"
)

// An Entry is what a TLB way holds.
type Entry = internal.Entry

// level is the part that both TLB levels share.
type level struct {
	hooking.HookableBase

	name     string
	geometry mem.Geometry
	sets     []*internal.Set
}

func newLevel(name string, numWays int, numSets uint64) level {
	l := level{
		name:     name,
		geometry: mem.NewGeometry(1, numSets, mem.PageNumberBits),
		sets:     make([]*internal.Set, numSets),
	}

	for i := range l.sets {
		l.sets[i] = internal.NewSet(numWays)
	}

	return l
}

// Name returns the name of the TLB.
func (l *level) Name() string {
	return l.name
}

// Geometry returns how the TLB slices a virtual page number.
func (l *level) Geometry() mem.Geometry {
	return l.geometry
}

// NumWays returns the associativity.
func (l *level) NumWays() int {
	return l.sets[0].NumWays()
}

// Entries returns a copy of the entries of a set.
func (l *level) Entries(setID int) []Entry {
	return l.sets[setID].Entries()
}

func (l *level) decompose(vpn uint64) (tag uint64, setID int) {
	tag, set, _ := l.geometry.Decompose(vpn)
	return tag, int(set)
}

func (l *level) vpn(tag uint64, setID int) uint64 {
	return l.geometry.Compose(tag, uint64(setID))
}

func (l *level) lookup(vpn uint64) (wayID int, entry Entry, found bool) {
	tag, setID := l.decompose(vpn)
	wayID, entry, found = l.sets[setID].Lookup(tag)

	res := cache.Result{Status: cache.Miss, SetID: setID, WayID: -1}
	if found {
		res.Status = cache.Hit
		res.WayID = wayID
	}

	hooking.InvokeAccessHook(l, hooking.HookPosAccess, hooking.Access{
		What:    "translate",
		Address: vpn,
		SetID:   res.SetID,
		WayID:   res.WayID,
		Status:  res.Status.String(),
	})

	return wayID, entry, found
}

func (l *level) install(wayID, setID int, vpn, frame uint64, shared bool) {
	tag, _ := l.decompose(vpn)
	l.sets[setID].Update(wayID, Entry{Tag: tag, Frame: frame, Shared: shared})

	hooking.InvokeAccessHook(l, hooking.HookPosFill, hooking.Access{
		What:    "fill",
		Address: vpn,
		SetID:   setID,
		WayID:   wayID,
	})
}

func (l *level) evict(wayID, setID int) Entry {
	entry := l.sets[setID].Entry(wayID)
	l.sets[setID].Invalidate(wayID)

	hooking.InvokeAccessHook(l, hooking.HookPosEvict, hooking.Access{
		What:    "evict",
		Address: l.vpn(entry.Tag, setID),
		SetID:   setID,
		WayID:   wayID,
	})

	return entry
}

// Flush invalidates every entry that is not shared.
func (l *level) Flush() {
	dropped := 0
	for _, s := range l.sets {
		dropped += s.Flush()
	}

	hooking.InvokeAccessHook(l, hooking.HookPosFlush, hooking.Access{
		What:    "flush",
		Address: uint64(dropped),
		SetID:   -1,
		WayID:   -1,
	})
}

func (l *level) dumpEntries(w io.Writer, extra func(setID int) string) error {
	tw := cache.NewDumpWriter(w)

	fmt.Fprintf(tw, "%s: %d sets x %d ways, %d tag bits\n",
		l.name, l.geometry.NumSets, l.NumWays(), l.geometry.TagBits())

	for setID, s := range l.sets {
		entries := s.Entries()
		if !hasValidEntry(entries) {
			continue
		}

		fmt.Fprintf(tw, "SET %d\n", setID)
		fmt.Fprintln(tw, "\tway\ttag\tvpn\tframe\tshared\t")

		for wayID, e := range entries {
			if !e.Valid {
				continue
			}

			fmt.Fprintf(tw, "\t%d\t0x%x\t0x%x\t0x%x\t%t\t\n",
				wayID, e.Tag, l.vpn(e.Tag, setID), e.Frame, e.Shared)
		}

		if extra != nil {
			fmt.Fprint(tw, extra(setID))
		}
	}

	return tw.Flush()
}

func hasValidEntry(entries []Entry) bool {
	for _, e := range entries {
		if e.Valid {
			return true
		}
	}

	return false
}
