// Package writeback provides the L1 instruction and data caches.
//
// The caches use a write-back policy: a write hit only marks the line
// dirty, and the line is written to the next level when it is evicted. In
// front of the tag comparison sits a way-halting filter that skips the ways
// that cannot hold the requested block.
package writeback

import (
	"fmt"

	"github.com/sarchlab/memhier/mem/cache"
	"github.com/sarchlab/memhier/mem/cache/internal/wayhalting"
	"github.com/sarchlab/memhier/mem/mem"
	"github.com/sarchlab/memhier/mem/replacement"
	"github.com/sarchlab/memhier/sim/hooking"
)

// Kind tells if an L1 cache holds instructions or data.
type Kind int

// The two kinds of L1 caches.
const (
	Instruction Kind = iota
	Data
)

func (k Kind) String() string {
	if k == Instruction {
		return "instruction"
	}

	return "data"
}

// NextLevel is what an L1 cache needs from the level below it.
type NextLevel interface {
	// Writable tells if a write to the address can ever succeed below.
	Writable(address uint64) bool

	// WriteBack receives a dirty block evicted from the L1 cache.
	WriteBack(address uint64, data []byte) error
}

// A Line is one way of a set. Only the main part of the tag is kept in the
// line. The low bits live in the halt tag table.
type Line struct {
	MainTag  uint64
	Valid    bool
	Dirty    bool
	Writable bool
	Data     []byte
}

type set struct {
	lines []Line
	lru   *replacement.LRUCounter
}

// Cache is a set-associative, way-halting, write-back cache.
type Cache struct {
	hooking.HookableBase

	name      string
	kind      Kind
	geometry  mem.Geometry
	numWays   int
	haltTable *wayhalting.Table
	sets      []set
}

// Name returns the name of the cache.
func (c *Cache) Name() string {
	return c.name
}

// Kind returns whether the cache holds instructions or data.
func (c *Cache) Kind() Kind {
	return c.kind
}

// Geometry returns how the cache decomposes addresses.
func (c *Cache) Geometry() mem.Geometry {
	return c.geometry
}

// NumWays returns the associativity.
func (c *Cache) NumWays() int {
	return c.numWays
}

// HaltTagBits returns the width of the halt tags.
func (c *Cache) HaltTagBits() int {
	return c.haltTable.HaltBits()
}

// Search looks the address up.
//
// The halt tag of every way at the target set is compared first. Ways whose
// halt tag differs are halted and are not compared further. If every way is
// halted, the result is MissPredetermined. Otherwise the main tags of the
// active ways are compared. A read hit returns a copy of the block. A write
// hit on a writable line copies writeData into the block at the address and
// marks the line dirty. A write hit on a read-only line changes nothing.
func (c *Cache) Search(
	address uint64,
	writeData []byte,
	accessType cache.AccessType,
) cache.Result {
	accessType.MustBeValid()

	tag, setID, offset := c.geometry.Decompose(address)
	if accessType == cache.Write {
		c.writeMustFit(offset, writeData)
	}

	res := cache.Result{Status: cache.Miss, SetID: int(setID), WayID: -1}

	allHalted := c.haltTable.Filter(int(setID), c.haltTable.Fragment(tag))
	if allHalted {
		res.Status = cache.MissPredetermined
		c.reportAccess(address, accessType, res)

		return res
	}

	s := &c.sets[setID]
	mainTag := c.haltTable.MainTag(tag)

	for wayID := range s.lines {
		if c.haltTable.Status(wayID) == wayhalting.Halted {
			continue
		}

		line := &s.lines[wayID]
		if !line.Valid || line.MainTag != mainTag {
			continue
		}

		res.WayID = wayID

		switch accessType {
		case cache.Read:
			res.Status = cache.Hit
			res.Data = append([]byte(nil), line.Data...)
			s.lru.Touch(wayID)
		case cache.Write:
			res.Status = c.write(s, wayID, offset, writeData)
		}

		break
	}

	c.reportAccess(address, accessType, res)

	return res
}

func (c *Cache) write(
	s *set,
	wayID int,
	offset uint64,
	writeData []byte,
) cache.Status {
	line := &s.lines[wayID]
	if !line.Writable {
		return cache.WriteProtectionException
	}

	copy(line.Data[offset:], writeData)
	line.Dirty = true
	s.lru.Touch(wayID)

	return cache.WriteSuccessful
}

func (c *Cache) writeMustFit(offset uint64, writeData []byte) {
	if offset+uint64(len(writeData)) > c.geometry.BlockSize {
		panic(fmt.Sprintf(
			"%s: %d bytes at offset %d do not fit in a %d-byte block",
			c.name, len(writeData), offset, c.geometry.BlockSize))
	}
}

func (c *Cache) reportAccess(
	address uint64,
	accessType cache.AccessType,
	res cache.Result,
) {
	hooking.InvokeAccessHook(c, hooking.HookPosAccess, hooking.Access{
		What:    accessType.String(),
		Address: address,
		SetID:   res.SetID,
		WayID:   res.WayID,
		Status:  res.Status.String(),
	})
}

// HaltedWays returns the ways that the latest search halted.
func (c *Cache) HaltedWays() []int {
	halted := []int{}

	for wayID, status := range c.haltTable.Statuses() {
		if status == wayhalting.Halted {
			halted = append(halted, wayID)
		}
	}

	return halted
}

// Lines returns a copy of the lines of a set.
func (c *Cache) Lines(setID int) []Line {
	lines := make([]Line, len(c.sets[setID].lines))
	for i, l := range c.sets[setID].lines {
		lines[i] = l
		lines[i].Data = append([]byte(nil), l.Data...)
	}

	return lines
}

// HaltTag returns the halt tag recorded for a way of a set.
func (c *Cache) HaltTag(wayID, setID int) uint64 {
	return c.haltTable.Lookup(wayID, setID)
}

// LRUCounters returns the LRU counters of a set.
func (c *Cache) LRUCounters(setID int) []int {
	return c.sets[setID].lru.Counters()
}

func (c *Cache) fullTag(wayID, setID int) uint64 {
	return c.haltTable.FullTag(
		c.sets[setID].lines[wayID].MainTag,
		c.haltTable.Lookup(wayID, setID))
}

// BlockAddress returns the address of the block held by a way of a set.
func (c *Cache) BlockAddress(wayID, setID int) uint64 {
	return c.geometry.Compose(c.fullTag(wayID, setID), uint64(setID))
}
