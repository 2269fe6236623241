// Package mem defines the pieces shared by every level of the memory
// hierarchy: address decomposition, the main-memory contract, and a
// reference main-memory implementation.
package mem

// For capacity
const (
	_  = iota
	KB = 1 << (10 * iota)
	MB
	GB
)

// Address widths of the reference hierarchy.
const (
	PhysicalAddressBits = 25
	VirtualAddressBits  = 32
	Log2PageSize        = 9
	FrameNumberBits     = PhysicalAddressBits - Log2PageSize
	PageNumberBits      = VirtualAddressBits - Log2PageSize
)

// A BlockStore is the main memory seen by the last cache level. It serves
// whole-block fetches on a miss and accepts writes, either write-throughs of
// a single hit or write-backs of an evicted block.
type BlockStore interface {
	FetchBlock(addr uint64, size uint64) ([]byte, error)
	WriteBlock(addr uint64, data []byte) error
}
