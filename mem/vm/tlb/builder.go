package tlb

import (
	"math/rand/v2"

	"github.com/sarchlab/memhier/mem/replacement"
)

// A Builder can build TLBs.
type Builder struct {
	numWays int
	numSets uint64
	seed    uint64
}

// MakeL1Builder returns a Builder with the reference L1 TLB geometry: 8
// ways and 2 sets.
func MakeL1Builder() Builder {
	return Builder{
		numWays: 8,
		numSets: 2,
	}
}

// MakeL2Builder returns a Builder with the reference L2 TLB geometry: 4
// ways and 8 sets.
func MakeL2Builder() Builder {
	return Builder{
		numWays: 4,
		numSets: 8,
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

// WithSeed sets the seed of the random victim choice of the L1 TLB.
func (b Builder) WithSeed(seed uint64) Builder {
	b.seed = seed
	return b
}

// BuildL1 creates an L1 TLB with every entry invalid.
func (b Builder) BuildL1(name string) *L1TLB {
	return &L1TLB{
		level: newLevel(name, b.numWays, b.numSets),
		rng:   rand.New(rand.NewPCG(b.seed, b.seed)),
	}
}

// BuildL2 creates an L2 TLB with every entry invalid and every LRU matrix
// cleared.
func (b Builder) BuildL2(name string) *L2TLB {
	t := &L2TLB{
		level: newLevel(name, b.numWays, b.numSets),
		lru:   make([]*replacement.LRUMatrix, b.numSets),
	}

	for i := range t.lru {
		t.lru[i] = replacement.NewLRUMatrix(b.numWays)
	}

	return t
}
