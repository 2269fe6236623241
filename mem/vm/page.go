// Package vm provides the virtual memory pieces of the hierarchy: the page
// table walker contract, a reference page table, and the helpers that split
// a virtual address into a page number and an offset.
package vm

import (
	"errors"
	"fmt"

	"github.com/sarchlab/memhier/mem/mem"
)

// ErrPageFault is returned when a walker has no translation for a page.
var ErrPageFault = errors.New("page fault")

// A Page maps a virtual page number to a physical frame number. Shared pages
// survive TLB flushes.
type Page struct {
	VPN    uint64
	Frame  uint64
	Shared bool
}

// A PageTableWalker is the last source of translations, consulted when both
// TLB levels miss.
type PageTableWalker interface {
	Translate(vpn uint64) (frame uint64, shared bool, err error)
}

// PageNumber returns the virtual page number of a virtual address.
func PageNumber(vAddr uint64) uint64 {
	addressMustFit(vAddr, mem.VirtualAddressBits, "virtual")
	return vAddr >> mem.Log2PageSize
}

// PageOffset returns the offset of an address inside its page.
func PageOffset(addr uint64) uint64 {
	return addr & (1<<mem.Log2PageSize - 1)
}

// PhysicalAddress joins a frame number and a page offset.
func PhysicalAddress(frame, offset uint64) uint64 {
	FrameMustFit(frame)

	if offset >= 1<<mem.Log2PageSize {
		panic(fmt.Sprintf("page offset 0x%x out of range", offset))
	}

	return frame<<mem.Log2PageSize | offset
}

// FrameMustFit panics if the frame number is wider than a physical address
// allows.
func FrameMustFit(frame uint64) {
	if frame >= 1<<mem.FrameNumberBits {
		panic(fmt.Sprintf("frame number 0x%x is wider than %d bits",
			frame, mem.FrameNumberBits))
	}
}

func addressMustFit(addr uint64, bits int, kind string) {
	if addr >= 1<<bits {
		panic(fmt.Sprintf("%s address 0x%x is wider than %d bits",
			kind, addr, bits))
	}
}
