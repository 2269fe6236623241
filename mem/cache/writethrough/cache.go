// Package writethrough provides the unified L2 cache. Every write that hits
// is forwarded to main memory at once, so lines never become dirty and an
// evicted line can be dropped without a write-back.
package writethrough

import (
	"fmt"

	"github.com/sarchlab/memhier/mem/cache"
	"github.com/sarchlab/memhier/mem/mem"
	"github.com/sarchlab/memhier/mem/replacement"
	"github.com/sarchlab/memhier/sim/hooking"
)

// A Line is one way of a set.
type Line struct {
	Tag      uint64
	Valid    bool
	Writable bool
	Data     []byte
}

type set struct {
	lines []Line
	fifo  *replacement.FIFOCountdown
}

// Cache is a set-associative write-through cache with FIFO replacement.
type Cache struct {
	hooking.HookableBase

	name         string
	geometry     mem.Geometry
	numWays      int
	subBlockSize uint64
	protectedSet int
	mainMemory   mem.BlockStore
	sets         []set
}

// Name returns the name of the cache.
func (c *Cache) Name() string {
	return c.name
}

// Geometry returns how the cache decomposes addresses.
func (c *Cache) Geometry() mem.Geometry {
	return c.geometry
}

// NumWays returns the associativity.
func (c *Cache) NumWays() int {
	return c.numWays
}

// ProtectedSet returns the write-protected set, or -1 if there is none.
func (c *Cache) ProtectedSet() int {
	return c.protectedSet
}

func (c *Cache) isProtected(setID int) bool {
	return setID == c.protectedSet
}

// Writable tells if a write to the address can ever succeed at this level.
func (c *Cache) Writable(address uint64) bool {
	_, setID, _ := c.geometry.Decompose(address)
	return !c.isProtected(int(setID))
}

// Search looks the address up. A read hit returns the sub-block that holds
// the address. A write hit on a writable line stores writeData at the
// address, both in the line and in main memory. Any write to the protected
// set is refused whether the line is present or not.
//
// The returned error only reports a failure of main memory during a
// write-through. In that case the line is left unchanged and the status is
// Hit, since the tag matched but nothing was written.
func (c *Cache) Search(
	address uint64,
	writeData []byte,
	accessType cache.AccessType,
) (cache.Result, error) {
	accessType.MustBeValid()

	tag, setID, offset := c.geometry.Decompose(address)
	res := cache.Result{Status: cache.Miss, SetID: int(setID), WayID: -1}

	if accessType == cache.Write {
		c.writeMustFit(offset, writeData)

		if c.isProtected(int(setID)) {
			res.Status = cache.WriteProtectionException
			c.reportAccess(address, accessType, res)

			return res, nil
		}
	}

	s := &c.sets[setID]
	for wayID := range s.lines {
		line := &s.lines[wayID]
		if !line.Valid || line.Tag != tag {
			continue
		}

		res.WayID = wayID

		var err error

		switch accessType {
		case cache.Read:
			res = c.readHit(s, wayID, offset, res)
		case cache.Write:
			res, err = c.writeHit(s, wayID, address, offset, writeData, res)
		}

		c.reportAccess(address, accessType, res)

		return res, err
	}

	c.reportAccess(address, accessType, res)

	return res, nil
}

func (c *Cache) readHit(
	s *set,
	wayID int,
	offset uint64,
	res cache.Result,
) cache.Result {
	start := offset &^ (c.subBlockSize - 1)
	res.Data = append([]byte(nil),
		s.lines[wayID].Data[start:start+c.subBlockSize]...)
	res.Status = cache.Hit

	s.fifo.Touch(wayID)

	return res
}

func (c *Cache) writeHit(
	s *set,
	wayID int,
	address, offset uint64,
	writeData []byte,
	res cache.Result,
) (cache.Result, error) {
	line := &s.lines[wayID]
	if !line.Writable {
		res.Status = cache.WriteProtectionException
		return res, nil
	}

	err := c.mainMemory.WriteBlock(address, writeData)
	if err != nil {
		res.Status = cache.Hit
		return res, fmt.Errorf("%s: write-through of 0x%x: %w",
			c.name, address, err)
	}

	copy(line.Data[offset:], writeData)
	s.fifo.Touch(wayID)

	res.Status = cache.WriteSuccessful

	return res, nil
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

// Lines returns a copy of the lines of a set.
func (c *Cache) Lines(setID int) []Line {
	lines := make([]Line, len(c.sets[setID].lines))
	for i, l := range c.sets[setID].lines {
		lines[i] = l
		lines[i].Data = append([]byte(nil), l.Data...)
	}

	return lines
}

// Countdowns returns the FIFO countdowns of a set.
func (c *Cache) Countdowns(setID int) []int {
	return c.sets[setID].fifo.Counters()
}
