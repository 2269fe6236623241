package replacement

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("FIFOCountdown", func() {
	var f *FIFOCountdown

	BeforeEach(func() {
		f = NewFIFOCountdown(16)
	})

	It("should start every countdown at ways-1", func() {
		for i := 0; i < 16; i++ {
			Expect(f.Countdown(i)).To(Equal(15))
		}
	})

	It("should count down the other valid lines only", func() {
		f.Insert(0)
		f.Insert(1)

		f.Touch(1)

		Expect(f.Countdown(0)).To(Equal(14))
		Expect(f.Countdown(1)).To(Equal(15))
		Expect(f.Countdown(2)).To(Equal(15))
	})

	It("should evict the first inserted line", func() {
		for i := 0; i < 16; i++ {
			f.Insert(i)
		}

		for i := 1; i < 16; i++ {
			f.Touch(i)
		}

		Expect(f.Countdown(0)).To(Equal(0))
		Expect(f.Victim()).To(Equal(0))
	})

	It("should not count below zero", func() {
		f.Insert(0)
		f.Insert(1)

		for i := 0; i < 40; i++ {
			f.Touch(1)
		}

		Expect(f.Countdown(0)).To(Equal(0))
	})

	It("should fall back to the lowest countdown", func() {
		for i := 0; i < 16; i++ {
			f.Insert(i)
		}

		f.Touch(3)
		f.Touch(3)

		Expect(f.Victim()).To(Equal(0))

		f.Touch(0)

		Expect(f.Victim()).To(Equal(1))
	})

	It("should restart the countdown on insert", func() {
		f.Insert(0)
		f.Insert(1)
		f.Touch(1)

		f.Insert(0)

		Expect(f.Countdown(0)).To(Equal(15))
	})

	It("should stop counting invalidated lines", func() {
		f.Insert(0)
		f.Insert(1)
		f.Invalidate(0)

		f.Touch(1)

		Expect(f.Countdown(0)).To(Equal(15))
	})
})
