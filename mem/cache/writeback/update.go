package writeback

import (
	"fmt"

	"github.com/sarchlab/memhier/sim/hooking"
)

// Update installs a block fetched from the next level. The block goes to
// the way that already holds the tag, or to the first invalid way, or to
// the least recently used way. A dirty line is written back to the next
// level before it is overwritten; if the write-back fails the cache is left
// unchanged and the error is returned.
//
// Instruction lines are always read-only. Data lines are writable when the
// next level accepts writes to the address.
func (c *Cache) Update(next NextLevel, block []byte, address uint64) error {
	if uint64(len(block)) != c.geometry.BlockSize {
		panic(fmt.Sprintf("%s: filling a %d-byte block with %d bytes",
			c.name, c.geometry.BlockSize, len(block)))
	}

	if next == nil {
		panic(fmt.Sprintf("%s: next level is not set", c.name))
	}

	tag, setID64, _ := c.geometry.Decompose(address)
	setID := int(setID64)
	s := &c.sets[setID]
	fragment := c.haltTable.Fragment(tag)
	wayID := c.findWay(setID, tag)

	err := c.evict(next, wayID, setID, tag)
	if err != nil {
		return err
	}

	s.lines[wayID] = Line{
		MainTag:  c.haltTable.MainTag(tag),
		Valid:    true,
		Writable: c.kind == Data && next.Writable(address),
		Data:     append([]byte(nil), block...),
	}
	c.haltTable.Record(wayID, setID, fragment)
	s.lru.Touch(wayID)

	hooking.InvokeAccessHook(c, hooking.HookPosFill, hooking.Access{
		What:    "fill",
		Address: c.geometry.BlockAddr(address),
		SetID:   setID,
		WayID:   wayID,
	})

	return nil
}

func (c *Cache) findWay(setID int, tag uint64) int {
	s := &c.sets[setID]

	for wayID, line := range s.lines {
		if line.Valid && c.fullTag(wayID, setID) == tag {
			return wayID
		}
	}

	for wayID, line := range s.lines {
		if !line.Valid {
			return wayID
		}
	}

	return s.lru.Victim()
}

func (c *Cache) evict(next NextLevel, wayID, setID int, newTag uint64) error {
	line := &c.sets[setID].lines[wayID]
	if !line.Valid {
		return nil
	}

	addr := c.BlockAddress(wayID, setID)

	if line.Dirty {
		err := c.writeBack(next, wayID, setID)
		if err != nil {
			return err
		}
	}

	if c.fullTag(wayID, setID) != newTag {
		hooking.InvokeAccessHook(c, hooking.HookPosEvict, hooking.Access{
			What:    "evict",
			Address: addr,
			SetID:   setID,
			WayID:   wayID,
		})
	}

	return nil
}

func (c *Cache) writeBack(next NextLevel, wayID, setID int) error {
	line := &c.sets[setID].lines[wayID]
	addr := c.BlockAddress(wayID, setID)

	err := next.WriteBack(addr, line.Data)
	if err != nil {
		return fmt.Errorf("%s: writing back 0x%x: %w", c.name, addr, err)
	}

	line.Dirty = false

	hooking.InvokeAccessHook(c, hooking.HookPosWriteBack, hooking.Access{
		What:    "writeback",
		Address: addr,
		SetID:   setID,
		WayID:   wayID,
	})

	return nil
}

// FlushDirty writes every dirty line back to the next level and marks it
// clean. The lines stay valid. It stops at the first failing write-back.
func (c *Cache) FlushDirty(next NextLevel) error {
	for setID := range c.sets {
		for wayID, line := range c.sets[setID].lines {
			if !line.Valid || !line.Dirty {
				continue
			}

			err := c.writeBack(next, wayID, setID)
			if err != nil {
				return err
			}
		}
	}

	hooking.InvokeAccessHook(c, hooking.HookPosFlush, hooking.Access{
		What:  "flush",
		SetID: -1,
		WayID: -1,
	})

	return nil
}

// Invalidate drops the block that holds the address, writing it back first
// if it is dirty. It reports whether a block was dropped.
func (c *Cache) Invalidate(next NextLevel, address uint64) (bool, error) {
	tag, setID64, _ := c.geometry.Decompose(address)
	setID := int(setID64)

	for wayID, line := range c.sets[setID].lines {
		if !line.Valid || c.fullTag(wayID, setID) != tag {
			continue
		}

		if line.Dirty {
			err := c.writeBack(next, wayID, setID)
			if err != nil {
				return false, err
			}
		}

		c.sets[setID].lines[wayID].Valid = false

		return true, nil
	}

	return false, nil
}
