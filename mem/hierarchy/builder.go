package hierarchy

import (
	"github.com/sarchlab/memhier/mem/cache/writeback"
	"github.com/sarchlab/memhier/mem/cache/writethrough"
	"github.com/sarchlab/memhier/mem/mem"
	"github.com/sarchlab/memhier/mem/vm"
	"github.com/sarchlab/memhier/mem/vm/tlb"
	"github.com/sarchlab/memhier/sim/hooking"
)

// A Builder can build memory hierarchies with the reference geometry.
type Builder struct {
	mainMemory mem.BlockStore
	walker     vm.PageTableWalker
	seed       uint64
	haltBits   int
	hooks      []hooking.Hook
}

// MakeBuilder creates a builder with default parameters.
func MakeBuilder() Builder {
	return Builder{
		haltBits: 4,
	}
}

// WithMainMemory sets the memory below the L2 cache.
func (b Builder) WithMainMemory(m mem.BlockStore) Builder {
	b.mainMemory = m
	return b
}

// WithWalker sets where translations come from when both TLBs miss.
func (b Builder) WithWalker(w vm.PageTableWalker) Builder {
	b.walker = w
	return b
}

// WithSeed sets the seed of the L1 TLB victim choice.
func (b Builder) WithSeed(seed uint64) Builder {
	b.seed = seed
	return b
}

// WithHaltTagBits sets how many tag bits the L1 way-halting filter keeps.
func (b Builder) WithHaltTagBits(n int) Builder {
	b.haltBits = n
	return b
}

// WithHook attaches a hook to the hierarchy and to every structure in it.
func (b Builder) WithHook(hook hooking.Hook) Builder {
	b.hooks = append(append([]hooking.Hook(nil), b.hooks...), hook)
	return b
}

// Build creates a hierarchy with every structure empty.
func (b Builder) Build(name string) *Hierarchy {
	if b.mainMemory == nil {
		panic("main memory is not set")
	}

	if b.walker == nil {
		panic("page table walker is not set")
	}

	h := &Hierarchy{
		name:   name,
		walker: b.walker,
		stats:  hooking.NewStatusCounter(),
	}

	h.l1i = writeback.MakeBuilder().
		WithKind(writeback.Instruction).
		WithHaltTagBits(b.haltBits).
		Build(name + ".L1I")
	h.l1d = writeback.MakeBuilder().
		WithKind(writeback.Data).
		WithHaltTagBits(b.haltBits).
		Build(name + ".L1D")
	h.l2 = writethrough.MakeBuilder().
		WithMainMemory(b.mainMemory).
		Build(name + ".L2")
	h.l1tlb = tlb.MakeL1Builder().
		WithSeed(b.seed).
		BuildL1(name + ".L1TLB")
	h.l2tlb = tlb.MakeL2Builder().
		BuildL2(name + ".L2TLB")

	h.AcceptHook(h.stats)
	for _, s := range h.Structures() {
		s.AcceptHook(h.stats)
	}

	for _, hook := range b.hooks {
		h.AcceptHookAll(hook)
	}

	return h
}
