package hooking

import (
	"sort"
	"sync"
)

// StatusCounter counts how many times each (location, status) pair has been
// reported through access hooks.
type StatusCounter struct {
	lock      sync.Mutex
	positions map[*HookPos]bool
	counts    map[string]map[string]uint64
}

// NewStatusCounter creates a StatusCounter that listens to the given hook
// positions. With no position given it listens to HookPosAccess only.
func NewStatusCounter(positions ...*HookPos) *StatusCounter {
	if len(positions) == 0 {
		positions = []*HookPos{HookPosAccess}
	}

	c := &StatusCounter{
		positions: make(map[*HookPos]bool),
		counts:    make(map[string]map[string]uint64),
	}

	for _, p := range positions {
		c.positions[p] = true
	}

	return c
}

// Func counts the access carried by the context.
func (c *StatusCounter) Func(ctx HookCtx) {
	if !c.positions[ctx.Pos] {
		return
	}

	access, ok := ctx.Item.(Access)
	if !ok {
		return
	}

	c.lock.Lock()
	defer c.lock.Unlock()

	perStatus, ok := c.counts[access.Where]
	if !ok {
		perStatus = make(map[string]uint64)
		c.counts[access.Where] = perStatus
	}

	perStatus[access.Status]++
}

// Count returns the number of accesses at a location with a status.
func (c *StatusCounter) Count(where, status string) uint64 {
	c.lock.Lock()
	defer c.lock.Unlock()

	return c.counts[where][status]
}

// Locations returns all the locations seen, sorted.
func (c *StatusCounter) Locations() []string {
	c.lock.Lock()
	defer c.lock.Unlock()

	names := make([]string, 0, len(c.counts))
	for name := range c.counts {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// Snapshot returns a copy of all the counts, by location and then status.
func (c *StatusCounter) Snapshot() map[string]map[string]uint64 {
	c.lock.Lock()
	defer c.lock.Unlock()

	res := make(map[string]map[string]uint64, len(c.counts))
	for where, perStatus := range c.counts {
		cp := make(map[string]uint64, len(perStatus))
		for status, n := range perStatus {
			cp[status] = n
		}

		res[where] = cp
	}

	return res
}
