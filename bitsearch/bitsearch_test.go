package bitsearch_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/hwsimlab/hwblocks/bitsearch"
)

var _ = Describe("Searcher", func() {
	var s bitsearch.Searcher

	BeforeEach(func() {
		s = bitsearch.NewSearcher()
	})

	makeBitmap := func(width int, setBits ...int) *bitsearch.Bitmap {
		bm := bitsearch.NewBitmap(width)
		for _, i := range setBits {
			bm.Set(i)
		}

		return bm
	}

	It("should not find anything in an empty-width bitmap", func() {
		bm := makeBitmap(0)

		_, found := s.Search(bm, true, bitsearch.LowToHigh)
		Expect(found).To(BeFalse())
	})

	It("should handle single-bit bitmaps", func() {
		bm := makeBitmap(1, 0)

		index, found := s.Search(bm, true, bitsearch.LowToHigh)
		Expect(found).To(BeTrue())
		Expect(index).To(Equal(0))

		_, found = s.Search(bm, false, bitsearch.LowToHigh)
		Expect(found).To(BeFalse())
	})

	It("should handle two-bit bitmaps", func() {
		bm := makeBitmap(2, 0, 1)

		index, found := s.Search(bm, true, bitsearch.LowToHigh)
		Expect(found).To(BeTrue())
		Expect(index).To(Equal(0))

		index, found = s.Search(bm, true, bitsearch.HighToLow)
		Expect(found).To(BeTrue())
		Expect(index).To(Equal(1))
	})

	It("should prefer the lowest index when scanning low to high", func() {
		bm := makeBitmap(8, 2, 5, 7)

		index, found := s.Search(bm, true, bitsearch.LowToHigh)
		Expect(found).To(BeTrue())
		Expect(index).To(Equal(2))
	})

	It("should prefer the highest index when scanning high to low", func() {
		bm := makeBitmap(8, 2, 5, 7)

		index, found := s.Search(bm, true, bitsearch.HighToLow)
		Expect(found).To(BeTrue())
		Expect(index).To(Equal(7))
	})

	It("should search for clear bits", func() {
		bm := makeBitmap(8)
		bm.Fill()
		bm.Clear(3)
		bm.Clear(6)

		index, found := s.Search(bm, false, bitsearch.LowToHigh)
		Expect(found).To(BeTrue())
		Expect(index).To(Equal(3))

		index, found = s.Search(bm, false, bitsearch.HighToLow)
		Expect(found).To(BeTrue())
		Expect(index).To(Equal(6))
	})

	It("should report not found on an all-clear bitmap", func() {
		bm := makeBitmap(130)

		_, found := s.Search(bm, true, bitsearch.LowToHigh)
		Expect(found).To(BeFalse())

		_, found = s.Search(bm, true, bitsearch.HighToLow)
		Expect(found).To(BeFalse())
	})

	It("should find bits across word boundaries", func() {
		bm := makeBitmap(130, 64, 129)

		index, found := s.Search(bm, true, bitsearch.LowToHigh)
		Expect(found).To(BeTrue())
		Expect(index).To(Equal(64))

		index, found = s.Search(bm, true, bitsearch.HighToLow)
		Expect(found).To(BeTrue())
		Expect(index).To(Equal(129))
	})

	It("should not mutate the bitmap", func() {
		bm := makeBitmap(16, 1, 9)

		s.Search(bm, true, bitsearch.HighToLow)

		Expect(bm.OnesCount()).To(Equal(2))
		Expect(bm.Bit(1)).To(BeTrue())
		Expect(bm.Bit(9)).To(BeTrue())
	})
})

var _ = Describe("Bitmap", func() {
	It("should set, clear, and report bits", func() {
		bm := bitsearch.NewBitmap(70)

		bm.Set(0)
		bm.Set(69)
		Expect(bm.Bit(0)).To(BeTrue())
		Expect(bm.Bit(69)).To(BeTrue())
		Expect(bm.Bit(35)).To(BeFalse())
		Expect(bm.OnesCount()).To(Equal(2))

		bm.Clear(69)
		Expect(bm.Bit(69)).To(BeFalse())
		Expect(bm.OnesCount()).To(Equal(1))
	})

	It("should fill and reset", func() {
		bm := bitsearch.NewBitmap(70)

		bm.Fill()
		Expect(bm.OnesCount()).To(Equal(70))

		bm.Reset()
		Expect(bm.OnesCount()).To(Equal(0))
	})

	It("should clone independently", func() {
		bm := bitsearch.NewBitmap(8)
		bm.Set(3)

		clone := bm.Clone()
		clone.Clear(3)
		clone.Set(5)

		Expect(bm.Bit(3)).To(BeTrue())
		Expect(bm.Bit(5)).To(BeFalse())
	})

	It("should panic on out-of-range access", func() {
		bm := bitsearch.NewBitmap(8)

		Expect(func() { bm.Set(8) }).To(Panic())
		Expect(func() { bm.Bit(-1) }).To(Panic())
	})
})
