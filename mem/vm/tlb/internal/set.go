// Package internal provides the sets that TLB levels are made of.
package internal

import "fmt"

// An Entry caches the translation of one virtual page.
type Entry struct {
	Tag    uint64
	Frame  uint64
	Valid  bool
	Shared bool
}

// A Set holds a fixed number of entries. At most one valid entry of a set
// holds a given tag.
type Set struct {
	entries     []Entry
	tagWayIDMap map[uint64]int
}

// NewSet creates a TLB set with every entry invalid.
func NewSet(numWays int) *Set {
	if numWays <= 0 {
		panic(fmt.Sprintf("invalid number of ways %d", numWays))
	}

	return &Set{
		entries:     make([]Entry, numWays),
		tagWayIDMap: make(map[uint64]int),
	}
}

// NumWays returns the number of entries in the set.
func (s *Set) NumWays() int {
	return len(s.entries)
}

// Lookup finds the valid entry that holds the tag.
func (s *Set) Lookup(tag uint64) (wayID int, entry Entry, found bool) {
	wayID, found = s.tagWayIDMap[tag]
	if !found {
		return 0, Entry{}, false
	}

	return wayID, s.entries[wayID], true
}

// FindEmpty returns the first invalid way.
func (s *Set) FindEmpty() (wayID int, found bool) {
	for i, e := range s.entries {
		if !e.Valid {
			return i, true
		}
	}

	return 0, false
}

// Entry returns the entry held by a way.
func (s *Set) Entry(wayID int) Entry {
	s.wayMustBeInRange(wayID)
	return s.entries[wayID]
}

// Entries returns a copy of all the entries.
func (s *Set) Entries() []Entry {
	return append([]Entry(nil), s.entries...)
}

// Update puts a valid entry into a way, replacing whatever was there.
func (s *Set) Update(wayID int, entry Entry) {
	s.wayMustBeInRange(wayID)

	if other, found := s.tagWayIDMap[entry.Tag]; found && other != wayID {
		panic(fmt.Sprintf("tag 0x%x is already held by way %d",
			entry.Tag, other))
	}

	s.Invalidate(wayID)

	entry.Valid = true
	s.entries[wayID] = entry
	s.tagWayIDMap[entry.Tag] = wayID
}

// Invalidate drops the entry held by a way.
func (s *Set) Invalidate(wayID int) {
	s.wayMustBeInRange(wayID)

	old := s.entries[wayID]
	if old.Valid {
		delete(s.tagWayIDMap, old.Tag)
	}

	s.entries[wayID].Valid = false
}

// Flush invalidates every entry that is not shared and returns how many
// entries were dropped.
func (s *Set) Flush() int {
	n := 0

	for i, e := range s.entries {
		if e.Valid && !e.Shared {
			s.Invalidate(i)
			n++
		}
	}

	return n
}

func (s *Set) wayMustBeInRange(wayID int) {
	if wayID < 0 || wayID >= len(s.entries) {
		panic(fmt.Sprintf("way %d out of range", wayID))
	}
}
