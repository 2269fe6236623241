// Package hierarchy connects the TLBs and the caches into one memory
// hierarchy.
//
// A virtual address is translated by the L1 TLB, then the L2 TLB, then the
// page table walker. The physical address is served by the L1 instruction
// or data cache, then the L2 cache, then main memory. Blocks fetched from a
// lower level fill every level above it.
package hierarchy

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/sarchlab/memhier/mem/cache"
	"github.com/sarchlab/memhier/mem/cache/writeback"
	"github.com/sarchlab/memhier/mem/cache/writethrough"
	"github.com/sarchlab/memhier/mem/vm"
	"github.com/sarchlab/memhier/mem/vm/tlb"
	"github.com/sarchlab/memhier/sim/hooking"
)

// ErrUnknownStructure is returned when a structure name is not part of the
// hierarchy.
var ErrUnknownStructure = errors.New("unknown structure")

// TranslationSource tells which level provided a translation.
type TranslationSource int

// The levels that can provide a translation.
const (
	FromL1TLB TranslationSource = iota
	FromL2TLB
	FromWalker
)

func (s TranslationSource) String() string {
	switch s {
	case FromL1TLB:
		return "L1TLB"
	case FromL2TLB:
		return "L2TLB"
	case FromWalker:
		return "walker"
	default:
		return fmt.Sprintf("TranslationSource(%d)", int(s))
	}
}

// A Structure is one cache or TLB of the hierarchy.
type Structure interface {
	hooking.NamedHookable
	Dump(w io.Writer) error
}

// Hierarchy is a complete two-level cache and TLB hierarchy. It is safe to
// use from multiple goroutines. Accesses are served one at a time.
type Hierarchy struct {
	hooking.HookableBase

	lock   sync.Mutex
	name   string
	walker vm.PageTableWalker
	stats  *hooking.StatusCounter

	l1i   *writeback.Cache
	l1d   *writeback.Cache
	l2    *writethrough.Cache
	l1tlb *tlb.L1TLB
	l2tlb *tlb.L2TLB
}

// Name returns the name of the hierarchy.
func (h *Hierarchy) Name() string {
	return h.name
}

// Structures returns every cache and TLB, from the top of the hierarchy to
// the bottom.
func (h *Hierarchy) Structures() []Structure {
	return []Structure{h.l1tlb, h.l2tlb, h.l1i, h.l1d, h.l2}
}

// Structure returns the cache or TLB with the name.
func (h *Hierarchy) Structure(name string) (Structure, error) {
	for _, s := range h.Structures() {
		if s.Name() == name {
			return s, nil
		}
	}

	return nil, fmt.Errorf("%q: %w", name, ErrUnknownStructure)
}

// AcceptHookAll attaches a hook to the hierarchy and to every structure.
func (h *Hierarchy) AcceptHookAll(hook hooking.Hook) {
	h.lock.Lock()
	defer h.lock.Unlock()

	h.AcceptHook(hook)
	for _, s := range h.Structures() {
		s.AcceptHook(hook)
	}
}

// Translate turns a virtual address into a physical address. An L2 TLB hit
// and a page walk both fill the L1 TLB.
func (h *Hierarchy) Translate(vAddr uint64) (uint64, TranslationSource, error) {
	h.lock.Lock()
	defer h.lock.Unlock()

	return h.translate(vAddr)
}

func (h *Hierarchy) translate(vAddr uint64) (uint64, TranslationSource, error) {
	vpn := vm.PageNumber(vAddr)
	offset := vm.PageOffset(vAddr)

	frame, found := h.l1tlb.Search(vpn)
	if found {
		return vm.PhysicalAddress(frame, offset), FromL1TLB, nil
	}

	entry, found := h.l2tlb.SearchEntry(vpn)
	if found {
		h.l1tlb.Update(h.l2tlb, vpn, entry.Frame, entry.Shared)
		return vm.PhysicalAddress(entry.Frame, offset), FromL2TLB, nil
	}

	frame, shared, err := h.walker.Translate(vpn)
	if err != nil {
		return 0, FromWalker, fmt.Errorf("translating 0x%x: %w", vAddr, err)
	}

	h.l1tlb.Update(h.l2tlb, vpn, frame, shared)

	return vm.PhysicalAddress(frame, offset), FromWalker, nil
}

// FetchInstruction returns the block that holds the instruction at the
// virtual address, through the L1 instruction cache.
func (h *Hierarchy) FetchInstruction(vAddr uint64) (cache.Result, error) {
	return h.access("fetch", h.l1i, vAddr, nil, cache.Read)
}

// Read returns the block that holds the data at the virtual address,
// through the L1 data cache.
func (h *Hierarchy) Read(vAddr uint64) (cache.Result, error) {
	return h.access("read", h.l1d, vAddr, nil, cache.Read)
}

// Write stores data at the virtual address. A block that is not in the L1
// data cache is brought in before the write. The data must not cross an L1
// block boundary. A write to a protected line returns a
// WriteProtectionException result together with cache.ErrWriteProtected.
func (h *Hierarchy) Write(vAddr uint64, data []byte) (cache.Result, error) {
	return h.access("write", h.l1d, vAddr, data, cache.Write)
}

func (h *Hierarchy) access(
	what string,
	l1 *writeback.Cache,
	vAddr uint64,
	data []byte,
	accessType cache.AccessType,
) (cache.Result, error) {
	h.lock.Lock()
	defer h.lock.Unlock()

	pAddr, _, err := h.translate(vAddr)
	if err != nil {
		return cache.Result{}, err
	}

	res := l1.Search(pAddr, data, accessType)
	if res.Status.IsMiss() {
		err = h.fill(l1, pAddr)
		if err != nil {
			return cache.Result{}, err
		}

		res = l1.Search(pAddr, data, accessType)
	}

	hooking.InvokeAccessHook(h, hooking.HookPosAccess, hooking.Access{
		What:    what,
		Address: vAddr,
		SetID:   res.SetID,
		WayID:   res.WayID,
		Status:  res.Status.String(),
	})

	if res.Status == cache.WriteProtectionException {
		return res, fmt.Errorf("writing 0x%x: %w", vAddr, cache.ErrWriteProtected)
	}

	return res, nil
}

// fill brings the L1 block that holds the physical address in from the L2
// cache, filling the L2 cache from main memory if needed.
func (h *Hierarchy) fill(l1 *writeback.Cache, pAddr uint64) error {
	blockAddr := l1.Geometry().BlockAddr(pAddr)

	res, err := h.l2.Search(blockAddr, nil, cache.Read)
	if err != nil {
		return err
	}

	if res.Status.IsMiss() {
		res, err = h.l2.Fill(blockAddr)
		if err != nil {
			return fmt.Errorf("filling 0x%x: %w", blockAddr, err)
		}
	}

	return l1.Update(h.l2, res.Data, blockAddr)
}

// ContextSwitch flushes the non-shared entries of both TLBs.
func (h *Hierarchy) ContextSwitch() {
	h.lock.Lock()
	defer h.lock.Unlock()

	h.l1tlb.Flush()
	h.l2tlb.Flush()
}

// Drain writes every dirty L1 data line back to the L2 cache.
func (h *Hierarchy) Drain() error {
	h.lock.Lock()
	defer h.lock.Unlock()

	return h.l1d.FlushDirty(h.l2)
}

// Stats returns how many accesses of each status every structure has seen,
// keyed by structure name and then status name.
func (h *Hierarchy) Stats() map[string]map[string]uint64 {
	return h.stats.Snapshot()
}

// DumpStructure writes the content of one structure.
func (h *Hierarchy) DumpStructure(name string, w io.Writer) error {
	s, err := h.Structure(name)
	if err != nil {
		return err
	}

	h.lock.Lock()
	defer h.lock.Unlock()

	return s.Dump(w)
}

// Dump writes the content of every structure.
func (h *Hierarchy) Dump(w io.Writer) error {
	h.lock.Lock()
	defer h.lock.Unlock()

	for _, s := range h.Structures() {
		err := s.Dump(w)
		if err != nil {
			return err
		}

		fmt.Fprintln(w)
	}

	return nil
}

// Inspect runs f while no access is in flight.
func (h *Hierarchy) Inspect(f func()) {
	h.lock.Lock()
	defer h.lock.Unlock()

	f()
}
