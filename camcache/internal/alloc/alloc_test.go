package alloc_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	gomock "go.uber.org/mock/gomock"

	"github.com/hwsimlab/hwblocks/bitsearch"
	"github.com/hwsimlab/hwblocks/camcache/internal/alloc"
)

var _ = Describe("Allocator", func() {
	var a alloc.Allocator

	BeforeEach(func() {
		a = alloc.NewAllocator(4, bitsearch.NewSearcher())
	})

	It("should start with all slots free", func() {
		Expect(a.NumFree()).To(Equal(4))
		for i := 0; i < 4; i++ {
			Expect(a.IsFree(i)).To(BeTrue())
		}
	})

	It("should hand out the lowest free index", func() {
		a.Commit(2)

		index, ok := a.Request()
		Expect(ok).To(BeTrue())
		Expect(index).To(Equal(0))

		a.Commit(0)
		a.Commit(1)

		index, ok = a.Request()
		Expect(ok).To(BeTrue())
		Expect(index).To(Equal(3))
	})

	It("should not mutate state on request", func() {
		a.Request()
		a.Request()

		Expect(a.NumFree()).To(Equal(4))
	})

	It("should report no free slot when exhausted", func() {
		for i := 0; i < 4; i++ {
			a.Commit(i)
		}

		_, ok := a.Request()
		Expect(ok).To(BeFalse())
	})

	It("should merge a release with a grant in the same step", func() {
		for i := 0; i < 4; i++ {
			a.Commit(i)
		}

		a.Release(1)

		index, ok := a.Request()
		Expect(ok).To(BeTrue())
		Expect(index).To(Equal(1))

		a.Commit(index)
		Expect(a.NumFree()).To(Equal(0))
		Expect(a.IsFree(1)).To(BeFalse())
	})

	It("should prefer a pending release below the lowest free bit", func() {
		a.Commit(0)
		a.Commit(1)

		a.Release(0)

		index, ok := a.Request()
		Expect(ok).To(BeTrue())
		Expect(index).To(Equal(0))
	})

	It("should apply a release without a grant", func() {
		a.Commit(3)

		a.Release(3)
		a.Commit(alloc.None)

		Expect(a.IsFree(3)).To(BeTrue())
		Expect(a.NumFree()).To(Equal(4))
	})

	It("should panic on granting an occupied slot", func() {
		a.Commit(0)

		Expect(func() { a.Commit(0) }).To(Panic())
	})

	It("should panic on a second release in the same step", func() {
		a.Release(0)

		Expect(func() { a.Release(1) }).To(Panic())
	})

	It("should reset to all free", func() {
		a.Commit(0)
		a.Commit(1)

		a.Reset()

		Expect(a.NumFree()).To(Equal(4))
	})
})

var _ = Describe("Allocator with a mocked searcher", func() {
	var (
		mockCtrl *gomock.Controller
		searcher *MockSearcher
		a        alloc.Allocator
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		searcher = NewMockSearcher(mockCtrl)
		a = alloc.NewAllocator(4, searcher)
	})

	It("should search the free bitmap for a set bit, low to high", func() {
		searcher.EXPECT().
			Search(gomock.Any(), true, bitsearch.LowToHigh).
			Return(2, true)

		index, ok := a.Request()
		Expect(ok).To(BeTrue())
		Expect(index).To(Equal(2))
	})

	It("should report exhaustion when the searcher finds nothing", func() {
		searcher.EXPECT().
			Search(gomock.Any(), true, bitsearch.LowToHigh).
			Return(0, false)

		_, ok := a.Request()
		Expect(ok).To(BeFalse())
	})
})
