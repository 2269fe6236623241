package vm

import (
	"container/list"
	"fmt"
	"sync"

	"github.com/sarchlab/memhier/mem/mem"
)

// A PageTable holds the pages of the single address space being simulated.
type PageTable struct {
	sync.Mutex
	entries      *list.List
	entriesTable map[uint64]*list.Element
}

// NewPageTable creates an empty PageTable.
func NewPageTable() *PageTable {
	return &PageTable{
		entries:      list.New(),
		entriesTable: make(map[uint64]*list.Element),
	}
}

// Insert puts a new page into the PageTable.
func (pt *PageTable) Insert(page Page) {
	pt.Lock()
	defer pt.Unlock()

	FrameMustFit(page.Frame)
	pt.pageMustNotExist(page.VPN)

	elem := pt.entries.PushBack(page)
	pt.entriesTable[page.VPN] = elem
}

// Remove removes the page with the virtual page number.
func (pt *PageTable) Remove(vpn uint64) {
	pt.Lock()
	defer pt.Unlock()

	pt.pageMustExist(vpn)

	elem := pt.entriesTable[vpn]
	pt.entries.Remove(elem)
	delete(pt.entriesTable, vpn)
}

// Find returns the page with the virtual page number. The bool return value
// indicates if the page is found or not.
func (pt *PageTable) Find(vpn uint64) (Page, bool) {
	pt.Lock()
	defer pt.Unlock()

	elem, found := pt.entriesTable[vpn]
	if found {
		return elem.Value.(Page), true
	}

	return Page{}, false
}

// Update changes the field of an existing page. The VPN field is used to
// locate the page to update.
func (pt *PageTable) Update(page Page) {
	pt.Lock()
	defer pt.Unlock()

	FrameMustFit(page.Frame)
	pt.pageMustExist(page.VPN)

	elem := pt.entriesTable[page.VPN]
	elem.Value = page
}

// Translate walks the table. A missing page is a page fault.
func (pt *PageTable) Translate(vpn uint64) (frame uint64, shared bool, err error) {
	page, found := pt.Find(vpn)
	if !found {
		return 0, false, fmt.Errorf("vpn 0x%x: %w", vpn, ErrPageFault)
	}

	return page.Frame, page.Shared, nil
}

// Pages returns all the pages in insertion order.
func (pt *PageTable) Pages() []Page {
	pt.Lock()
	defer pt.Unlock()

	pages := make([]Page, 0, pt.entries.Len())
	for e := pt.entries.Front(); e != nil; e = e.Next() {
		pages = append(pages, e.Value.(Page))
	}

	return pages
}

// Len returns the number of pages.
func (pt *PageTable) Len() int {
	pt.Lock()
	defer pt.Unlock()

	return pt.entries.Len()
}

func (pt *PageTable) pageMustExist(vpn uint64) {
	_, found := pt.entriesTable[vpn]
	if !found {
		panic(fmt.Sprintf("page 0x%x does not exist", vpn))
	}
}

func (pt *PageTable) pageMustNotExist(vpn uint64) {
	_, found := pt.entriesTable[vpn]
	if found {
		panic(fmt.Sprintf("page 0x%x exists", vpn))
	}
}

// IdentityWalker maps every page to the frame with the same number, wrapped
// to the frame width. No page is shared.
type IdentityWalker struct{}

// Translate returns the page number as the frame number.
func (IdentityWalker) Translate(vpn uint64) (uint64, bool, error) {
	return vpn & (1<<mem.FrameNumberBits - 1), false, nil
}
