package vm

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("PageTable", func() {
	var pt *PageTable

	BeforeEach(func() {
		pt = NewPageTable()
	})

	It("should find inserted pages", func() {
		pt.Insert(Page{VPN: 0x10, Frame: 0x3})
		pt.Insert(Page{VPN: 0x11, Frame: 0x7, Shared: true})

		page, found := pt.Find(0x11)

		Expect(found).To(BeTrue())
		Expect(page.Frame).To(Equal(uint64(0x7)))
		Expect(page.Shared).To(BeTrue())
		Expect(pt.Len()).To(Equal(2))
		Expect(pt.Pages()[0].VPN).To(Equal(uint64(0x10)))
	})

	It("should update and remove pages", func() {
		pt.Insert(Page{VPN: 0x10, Frame: 0x3})

		pt.Update(Page{VPN: 0x10, Frame: 0x4})
		page, _ := pt.Find(0x10)
		Expect(page.Frame).To(Equal(uint64(0x4)))

		pt.Remove(0x10)
		_, found := pt.Find(0x10)
		Expect(found).To(BeFalse())
	})

	It("should translate", func() {
		pt.Insert(Page{VPN: 0x2, Frame: 0x9, Shared: true})

		frame, shared, err := pt.Translate(0x2)

		Expect(err).NotTo(HaveOccurred())
		Expect(frame).To(Equal(uint64(0x9)))
		Expect(shared).To(BeTrue())
	})

	It("should fault on a missing page", func() {
		_, _, err := pt.Translate(0x5)

		Expect(errors.Is(err, ErrPageFault)).To(BeTrue())
	})

	It("should panic on contract violations", func() {
		pt.Insert(Page{VPN: 1})

		Expect(func() { pt.Insert(Page{VPN: 1}) }).To(Panic())
		Expect(func() { pt.Remove(2) }).To(Panic())
		Expect(func() { pt.Update(Page{VPN: 2}) }).To(Panic())
		Expect(func() { pt.Insert(Page{VPN: 3, Frame: 1 << 16}) }).To(Panic())
	})
})

var _ = Describe("Address helpers", func() {
	It("should split a virtual address", func() {
		Expect(PageNumber(0x1234)).To(Equal(uint64(0x9)))
		Expect(PageOffset(0x1234)).To(Equal(uint64(0x34)))
		Expect(PhysicalAddress(0x9, 0x34)).To(Equal(uint64(0x1234)))
	})

	It("should reject oversized addresses", func() {
		Expect(func() { PageNumber(1 << 32) }).To(Panic())
		Expect(func() { PhysicalAddress(1<<16, 0) }).To(Panic())
		Expect(func() { PhysicalAddress(0, 512) }).To(Panic())
	})

	It("should map pages onto themselves with the identity walker", func() {
		frame, shared, err := IdentityWalker{}.Translate(0x10005)

		Expect(err).NotTo(HaveOccurred())
		Expect(frame).To(Equal(uint64(0x5)))
		Expect(shared).To(BeFalse())
	})
})
