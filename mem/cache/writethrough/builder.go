package writethrough

import (
	"github.com/sarchlab/memhier/mem/mem"
	"github.com/sarchlab/memhier/mem/replacement"
)

// A Builder can build write-through caches.
type Builder struct {
	numWays      int
	numSets      uint64
	blockSize    uint64
	subBlockSize uint64
	addressBits  int
	protectLast  bool
	mainMemory   mem.BlockStore
}

// MakeBuilder returns a Builder with the reference L2 geometry: 16 ways,
// 32 sets, 64-byte blocks, a 25-bit physical address, and a write-protected
// last set.
func MakeBuilder() Builder {
	return Builder{
		numWays:      16,
		numSets:      32,
		blockSize:    64,
		subBlockSize: 32,
		addressBits:  mem.PhysicalAddressBits,
		protectLast:  true,
	}
}

// WithNumWays sets the associativity.
func (b Builder) WithNumWays(n int) Builder {
	b.numWays = n
	return b
}

// WithNumSets sets the number of sets. It must be a power of 2.
func (b Builder) WithNumSets(n uint64) Builder {
	b.numSets = n
	return b
}

// WithBlockSize sets the size of a cache line in bytes.
func (b Builder) WithBlockSize(n uint64) Builder {
	b.blockSize = n
	return b
}

// WithSubBlockSize sets the number of bytes a read returns. It is the block
// size of the level above.
func (b Builder) WithSubBlockSize(n uint64) Builder {
	b.subBlockSize = n
	return b
}

// WithAddressBits sets the width of the physical address.
func (b Builder) WithAddressBits(n int) Builder {
	b.addressBits = n
	return b
}

// WithProtectedLastSet decides if the highest set is write-protected.
func (b Builder) WithProtectedLastSet(protect bool) Builder {
	b.protectLast = protect
	return b
}

// WithMainMemory sets the memory that writes go through to and that fills
// come from.
func (b Builder) WithMainMemory(m mem.BlockStore) Builder {
	b.mainMemory = m
	return b
}

// Build creates a write-through cache with every line invalid.
func (b Builder) Build(name string) *Cache {
	b.mustBeValid()

	c := &Cache{
		name:         name,
		geometry:     mem.NewGeometry(b.blockSize, b.numSets, b.addressBits),
		numWays:      b.numWays,
		subBlockSize: b.subBlockSize,
		protectedSet: -1,
		mainMemory:   b.mainMemory,
	}

	if b.protectLast {
		c.protectedSet = int(b.numSets) - 1
	}

	c.sets = make([]set, b.numSets)
	for i := range c.sets {
		c.sets[i] = set{
			lines: make([]Line, b.numWays),
			fifo:  replacement.NewFIFOCountdown(b.numWays),
		}

		for j := range c.sets[i].lines {
			c.sets[i].lines[j].Writable = !c.isProtected(i)
		}
	}

	return c
}

func (b Builder) mustBeValid() {
	if b.mainMemory == nil {
		panic("main memory is not set")
	}

	if b.numWays <= 0 {
		panic("number of ways must be positive")
	}

	if b.subBlockSize == 0 || b.subBlockSize > b.blockSize ||
		b.blockSize%b.subBlockSize != 0 {
		panic("sub-block size must divide the block size")
	}
}
