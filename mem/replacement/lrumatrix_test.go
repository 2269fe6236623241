package replacement

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("LRUMatrix", func() {
	var m *LRUMatrix

	BeforeEach(func() {
		m = NewLRUMatrix(4)
	})

	It("should pick way 0 before any access", func() {
		Expect(m.Victim()).To(Equal(0))
		Expect(m.String()).To(Equal("0000\n0000\n0000\n0000"))
	})

	It("should set the row and clear the column", func() {
		m.Touch(1)

		Expect(m.String()).To(Equal("0000\n1011\n0000\n0000"))
		Expect(m.MoreRecent(1, 0)).To(BeTrue())
		Expect(m.MoreRecent(0, 1)).To(BeFalse())
	})

	It("should evict the least recently used way", func() {
		for _, w := range []int{2, 0, 1, 3, 0} {
			m.Touch(w)
		}

		Expect(m.Victim()).To(Equal(2))
	})

	It("should have a unique all-zero row once every way is touched", func() {
		for _, w := range []int{3, 1, 2, 0} {
			m.Touch(w)
		}

		zeroRows := 0
		for i := 0; i < 4; i++ {
			if !m.MoreRecent(i, 0) && !m.MoreRecent(i, 1) &&
				!m.MoreRecent(i, 2) && !m.MoreRecent(i, 3) {
				zeroRows++
			}
		}

		Expect(zeroRows).To(Equal(1))
		Expect(m.Victim()).To(Equal(3))
	})

	It("should reset", func() {
		m.Touch(0)
		m.Reset()

		Expect(m.Victim()).To(Equal(0))
	})
})
