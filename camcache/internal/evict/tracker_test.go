package evict_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/hwsimlab/hwblocks/bitsearch"
	"github.com/hwsimlab/hwblocks/camcache/internal/evict"
)

var _ = Describe("Tracker", func() {
	var t evict.Tracker

	Context("with every slot initially reclaimable", func() {
		BeforeEach(func() {
			t = evict.NewTracker(4, bitsearch.NewSearcher(), true)
		})

		It("should offer slot 0 right after reset", func() {
			index, ok := t.NextCandidate()
			Expect(ok).To(BeTrue())
			Expect(index).To(Equal(0))
		})

		It("should stop offering a cleared slot", func() {
			t.Clear(0)
			t.Clear(1)

			index, ok := t.NextCandidate()
			Expect(ok).To(BeTrue())
			Expect(index).To(Equal(2))
		})
	})

	Context("with a clean initial candidate set", func() {
		BeforeEach(func() {
			t = evict.NewTracker(4, bitsearch.NewSearcher(), false)
		})

		It("should offer nothing before any mark", func() {
			_, ok := t.NextCandidate()
			Expect(ok).To(BeFalse())
		})

		It("should pick the lowest marked slot", func() {
			t.Mark(2)
			t.Mark(1)

			index, ok := t.NextCandidate()
			Expect(ok).To(BeTrue())
			Expect(index).To(Equal(1))
		})

		It("should not consume the candidate", func() {
			t.Mark(3)

			t.NextCandidate()

			index, ok := t.NextCandidate()
			Expect(ok).To(BeTrue())
			Expect(index).To(Equal(3))
			Expect(t.IsMarked(3)).To(BeTrue())
		})

		It("should restore the clean set on reset", func() {
			t.Mark(0)

			t.Reset()

			_, ok := t.NextCandidate()
			Expect(ok).To(BeFalse())
		})
	})
})
