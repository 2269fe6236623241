package mem

import (
	"fmt"
	"math/bits"
)

// Geometry describes how one cache or TLB level slices an address into a
// tag, a set index, and a block offset.
type Geometry struct {
	BlockSize   uint64
	NumSets     uint64
	AddressBits int
}

// NewGeometry returns a geometry after checking that it is well formed.
func NewGeometry(blockSize, numSets uint64, addressBits int) Geometry {
	g := Geometry{
		BlockSize:   blockSize,
		NumSets:     numSets,
		AddressBits: addressBits,
	}

	g.mustBeValid()

	return g
}

func (g Geometry) mustBeValid() {
	if !isPowerOfTwo(g.BlockSize) {
		panic(fmt.Sprintf("block size %d is not a power of 2", g.BlockSize))
	}

	if !isPowerOfTwo(g.NumSets) {
		panic(fmt.Sprintf("number of sets %d is not a power of 2", g.NumSets))
	}

	if g.AddressBits <= 0 || g.AddressBits > 64 {
		panic(fmt.Sprintf("address width %d is out of range", g.AddressBits))
	}

	if g.OffsetBits()+g.IndexBits() > g.AddressBits {
		panic(fmt.Sprintf(
			"%d offset bits and %d index bits do not fit in %d address bits",
			g.OffsetBits(), g.IndexBits(), g.AddressBits))
	}
}

func isPowerOfTwo(n uint64) bool {
	return n != 0 && n&(n-1) == 0
}

// OffsetBits returns the width of the block offset field.
func (g Geometry) OffsetBits() int {
	return bits.TrailingZeros64(g.BlockSize)
}

// IndexBits returns the width of the set index field.
func (g Geometry) IndexBits() int {
	return bits.TrailingZeros64(g.NumSets)
}

// TagBits returns the width of the tag field. Tag, index, and offset always
// add up to the address width.
func (g Geometry) TagBits() int {
	return g.AddressBits - g.OffsetBits() - g.IndexBits()
}

// Contains tells if the address can be expressed in the address width.
func (g Geometry) Contains(addr uint64) bool {
	if g.AddressBits == 64 {
		return true
	}

	return addr>>g.AddressBits == 0
}

// Decompose splits an address into its tag, set index, and block offset.
func (g Geometry) Decompose(addr uint64) (tag, setID, offset uint64) {
	if !g.Contains(addr) {
		panic(fmt.Sprintf("address 0x%x does not fit in %d bits",
			addr, g.AddressBits))
	}

	offset = addr & (g.BlockSize - 1)
	setID = (addr >> g.OffsetBits()) & (g.NumSets - 1)
	tag = addr >> (g.OffsetBits() + g.IndexBits())

	return tag, setID, offset
}

// Compose rebuilds the block-aligned address of a tag stored in a set.
func (g Geometry) Compose(tag, setID uint64) uint64 {
	if setID >= g.NumSets {
		panic(fmt.Sprintf("set %d out of range", setID))
	}

	if tag>>g.TagBits() != 0 {
		panic(fmt.Sprintf("tag 0x%x does not fit in %d bits",
			tag, g.TagBits()))
	}

	return tag<<(g.OffsetBits()+g.IndexBits()) | setID<<g.OffsetBits()
}

// BlockAddr aligns an address down to the start of its block.
func (g Geometry) BlockAddr(addr uint64) uint64 {
	return addr &^ (g.BlockSize - 1)
}

// TotalSize returns the maximum number of bytes the level can hold with
// the given associativity.
func (g Geometry) TotalSize(numWays int) uint64 {
	return g.NumSets * uint64(numWays) * g.BlockSize
}
