package mem

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Geometry", func() {
	Context("L1 cache geometry", func() {
		var g Geometry

		BeforeEach(func() {
			g = NewGeometry(32, 16, PhysicalAddressBits)
		})

		It("should derive field widths", func() {
			Expect(g.OffsetBits()).To(Equal(5))
			Expect(g.IndexBits()).To(Equal(4))
			Expect(g.TagBits()).To(Equal(16))
			Expect(g.TotalSize(4)).To(Equal(uint64(2 * KB)))
		})

		It("should decompose an address", func() {
			tag, setID, offset := g.Decompose(0x20)
			Expect(tag).To(Equal(uint64(0)))
			Expect(setID).To(Equal(uint64(1)))
			Expect(offset).To(Equal(uint64(0)))

			tag, setID, offset = g.Decompose(0x220)
			Expect(tag).To(Equal(uint64(1)))
			Expect(setID).To(Equal(uint64(1)))
			Expect(offset).To(Equal(uint64(0)))

			tag, setID, offset = g.Decompose(0x1ABCDEF)
			Expect(offset).To(Equal(uint64(0x1ABCDEF % 32)))
			Expect(setID).To(Equal(uint64(0x1ABCDEF / 32 % 16)))
			Expect(tag).To(Equal(uint64(0x1ABCDEF / (32 * 16))))
		})

		It("should compose back the block address", func() {
			for _, addr := range []uint64{0, 0x20, 0x3F, 0x220, 0x1FFFFFF} {
				tag, setID, _ := g.Decompose(addr)
				Expect(g.Compose(tag, setID)).To(Equal(g.BlockAddr(addr)))
			}
		})

		It("should panic if the address is too wide", func() {
			Expect(func() { g.Decompose(1 << PhysicalAddressBits) }).
				To(Panic())
		})

		It("should panic if the tag is too wide", func() {
			Expect(func() { g.Compose(1<<16, 0) }).To(Panic())
		})
	})

	It("should derive L2 widths", func() {
		g := NewGeometry(64, 32, PhysicalAddressBits)
		Expect(g.TagBits()).To(Equal(14))
	})

	It("should derive TLB widths", func() {
		l1 := NewGeometry(1, 2, PageNumberBits)
		l2 := NewGeometry(1, 8, PageNumberBits)

		Expect(l1.TagBits()).To(Equal(22))
		Expect(l2.TagBits()).To(Equal(20))

		tag, setID, offset := l2.Decompose(0b1011_101)
		Expect(tag).To(Equal(uint64(0b1011)))
		Expect(setID).To(Equal(uint64(0b101)))
		Expect(offset).To(BeZero())
	})

	It("should reject bad geometries", func() {
		Expect(func() { NewGeometry(24, 16, 25) }).To(Panic())
		Expect(func() { NewGeometry(32, 12, 25) }).To(Panic())
		Expect(func() { NewGeometry(32, 16, 8) }).To(Panic())
		Expect(func() { NewGeometry(32, 16, 0) }).To(Panic())
	})
})
