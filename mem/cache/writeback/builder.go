package writeback

import (
	"fmt"

	"github.com/sarchlab/memhier/mem/cache/internal/wayhalting"
	"github.com/sarchlab/memhier/mem/mem"
	"github.com/sarchlab/memhier/mem/replacement"
)

// DefaultBlockSize is the line size of the reference L1 caches. No single
// access may cross it.
const DefaultBlockSize = 32

// A Builder can build way-halting write-back caches.
type Builder struct {
	kind        Kind
	numWays     int
	numSets     uint64
	blockSize   uint64
	addressBits int
	haltBits    int
}

// MakeBuilder returns a Builder with the reference L1 geometry: a 2 KB data
// cache with 4 ways, 16 sets, 32-byte blocks, a 25-bit physical address,
// and 4 halt tag bits.
func MakeBuilder() Builder {
	return Builder{
		kind:        Data,
		numWays:     4,
		numSets:     16,
		blockSize:   DefaultBlockSize,
		addressBits: mem.PhysicalAddressBits,
		haltBits:    4,
	}
}

// WithKind sets whether the cache holds instructions or data.
func (b Builder) WithKind(kind Kind) Builder {
	b.kind = kind
	return b
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

// WithAddressBits sets the width of the physical address.
func (b Builder) WithAddressBits(n int) Builder {
	b.addressBits = n
	return b
}

// WithHaltTagBits sets how many low tag bits the halt tag table keeps.
func (b Builder) WithHaltTagBits(n int) Builder {
	b.haltBits = n
	return b
}

// Build creates a cache with every line invalid, every halt tag cleared,
// and the LRU counters of every set at their initial order.
func (b Builder) Build(name string) *Cache {
	if b.kind != Instruction && b.kind != Data {
		panic(fmt.Sprintf("unknown cache kind %d", b.kind))
	}

	if b.numWays <= 0 {
		panic("number of ways must be positive")
	}

	geometry := mem.NewGeometry(b.blockSize, b.numSets, b.addressBits)
	if b.haltBits >= geometry.TagBits() {
		panic(fmt.Sprintf("%d halt tag bits leave no main tag in %d tag bits",
			b.haltBits, geometry.TagBits()))
	}

	c := &Cache{
		name:      name,
		kind:      b.kind,
		geometry:  geometry,
		numWays:   b.numWays,
		haltTable: wayhalting.NewTable(b.numWays, int(b.numSets), b.haltBits),
		sets:      make([]set, b.numSets),
	}

	for i := range c.sets {
		c.sets[i] = set{
			lines: make([]Line, b.numWays),
			lru:   replacement.NewLRUCounter(b.numWays),
		}
	}

	return c
}
