package replacement

import "fmt"

// LRUCounter is a counter-based LRU. Each way owns a counter in
// [0, ways-1]; the counters of a set always form a permutation, and the
// value of a counter is the recency rank of the way. The most recently used
// way holds ways-1 and the least recently used way holds 0.
type LRUCounter struct {
	counters []int
}

// NewLRUCounter creates a tracker for a set with numWays ways.
func NewLRUCounter(numWays int) *LRUCounter {
	if numWays <= 0 {
		panic(fmt.Sprintf("invalid number of ways %d", numWays))
	}

	c := &LRUCounter{
		counters: make([]int, numWays),
	}
	c.Reset()

	return c
}

// Reset restores the initial ordering, in which way i has rank i.
func (c *LRUCounter) Reset() {
	for i := range c.counters {
		c.counters[i] = i
	}
}

// Touch promotes a way to most recently used. Ways that were more recent
// than it move down by one rank.
func (c *LRUCounter) Touch(wayID int) {
	c.wayMustBeInRange(wayID)

	old := c.counters[wayID]
	for i, v := range c.counters {
		if v > old {
			c.counters[i] = v - 1
		}
	}

	c.counters[wayID] = len(c.counters) - 1
}

// Victim returns the way whose counter is 0.
func (c *LRUCounter) Victim() int {
	for i, v := range c.counters {
		if v == 0 {
			return i
		}
	}

	panic("LRU counters are not a permutation")
}

// Rank returns the recency rank of a way.
func (c *LRUCounter) Rank(wayID int) int {
	c.wayMustBeInRange(wayID)
	return c.counters[wayID]
}

// Counters returns a copy of all the counters, indexed by way.
func (c *LRUCounter) Counters() []int {
	return append([]int(nil), c.counters...)
}

func (c *LRUCounter) wayMustBeInRange(wayID int) {
	if wayID < 0 || wayID >= len(c.counters) {
		panic(fmt.Sprintf("way %d out of range", wayID))
	}
}
