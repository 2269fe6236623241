package writethrough

import (
	"fmt"

	"github.com/sarchlab/memhier/mem/cache"
	"github.com/sarchlab/memhier/sim/hooking"
)

// Update installs a block fetched from main memory. The block goes to the
// way that already holds the tag, or to the first invalid way, or to the
// FIFO victim. Main memory is always current, so the victim is simply
// overwritten.
func (c *Cache) Update(block []byte, address uint64) {
	if uint64(len(block)) != c.geometry.BlockSize {
		panic(fmt.Sprintf("%s: filling a %d-byte block with %d bytes",
			c.name, c.geometry.BlockSize, len(block)))
	}

	tag, setID, _ := c.geometry.Decompose(address)
	s := &c.sets[setID]
	wayID := c.findWay(s, tag)

	victim := &s.lines[wayID]
	if victim.Valid && victim.Tag != tag {
		hooking.InvokeAccessHook(c, hooking.HookPosEvict, hooking.Access{
			What:    "evict",
			Address: c.geometry.Compose(victim.Tag, setID),
			SetID:   int(setID),
			WayID:   wayID,
		})
	}

	s.lines[wayID] = Line{
		Tag:      tag,
		Valid:    true,
		Writable: !c.isProtected(int(setID)),
		Data:     append([]byte(nil), block...),
	}
	s.fifo.Insert(wayID)

	hooking.InvokeAccessHook(c, hooking.HookPosFill, hooking.Access{
		What:    "fill",
		Address: c.geometry.BlockAddr(address),
		SetID:   int(setID),
		WayID:   wayID,
	})
}

func (c *Cache) findWay(s *set, tag uint64) int {
	for wayID, line := range s.lines {
		if line.Valid && line.Tag == tag {
			return wayID
		}
	}

	for wayID, line := range s.lines {
		if !line.Valid {
			return wayID
		}
	}

	return s.fifo.Victim()
}

// Fill serves a read miss: it fetches the line that holds the address from
// main memory, installs it, and returns the read hit on it.
func (c *Cache) Fill(address uint64) (cache.Result, error) {
	lineAddr := c.geometry.BlockAddr(address)

	block, err := c.mainMemory.FetchBlock(lineAddr, c.geometry.BlockSize)
	if err != nil {
		return cache.Result{Status: cache.Miss, WayID: -1},
			fmt.Errorf("%s: fetching 0x%x: %w", c.name, lineAddr, err)
	}

	c.Update(block, address)

	return c.Search(address, nil, cache.Read)
}

// WriteBack accepts a block evicted from the level above. A resident line
// is updated and written through. A block that is not resident goes
// straight to main memory without being allocated here.
func (c *Cache) WriteBack(address uint64, data []byte) error {
	res, err := c.Search(address, data, cache.Write)
	if err != nil {
		return err
	}

	hooking.InvokeAccessHook(c, hooking.HookPosWriteBack, hooking.Access{
		What:    "writeback",
		Address: address,
		SetID:   res.SetID,
		WayID:   res.WayID,
		Status:  res.Status.String(),
	})

	switch res.Status {
	case cache.WriteSuccessful:
		return nil
	case cache.WriteProtectionException:
		return fmt.Errorf("%s: write-back of 0x%x: %w",
			c.name, address, cache.ErrWriteProtected)
	}

	err = c.mainMemory.WriteBlock(address, data)
	if err != nil {
		return fmt.Errorf("%s: write-back of 0x%x: %w", c.name, address, err)
	}

	return nil
}
