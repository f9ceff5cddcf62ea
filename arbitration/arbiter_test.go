package arbitration_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/hwsimlab/hwblocks/arbitration"
	"github.com/hwsimlab/hwblocks/bitsearch"
	"github.com/hwsimlab/hwblocks/queueing"
)

var _ = Describe("RoundRobinArbiter", func() {
	var (
		a    arbitration.Arbiter
		bufs []queueing.Buffer
	)

	BeforeEach(func() {
		a = arbitration.NewRoundRobinArbiter(bitsearch.NewSearcher())

		bufs = nil
		for i := 0; i < 3; i++ {
			buf := queueing.NewBuffer("Buf", 4)
			bufs = append(bufs, buf)
			a.AddBuffer(buf)
		}
	})

	It("should grant nothing when no buffer requests", func() {
		_, found := a.Arbitrate()
		Expect(found).To(BeFalse())
	})

	It("should grant the only requester", func() {
		bufs[1].Push(1)

		granted, found := a.Arbitrate()
		Expect(found).To(BeTrue())
		Expect(granted).To(BeIdenticalTo(bufs[1]))
	})

	It("should rotate among persistent requesters", func() {
		bufs[0].Push(1)
		bufs[1].Push(1)
		bufs[2].Push(1)

		var order []queueing.Buffer
		for i := 0; i < 6; i++ {
			granted, found := a.Arbitrate()
			Expect(found).To(BeTrue())
			order = append(order, granted)
		}

		Expect(order).To(Equal([]queueing.Buffer{
			bufs[0], bufs[1], bufs[2],
			bufs[0], bufs[1], bufs[2],
		}))
	})

	It("should skip empty buffers while rotating", func() {
		bufs[0].Push(1)
		bufs[2].Push(1)

		granted, _ := a.Arbitrate()
		Expect(granted).To(BeIdenticalTo(bufs[0]))

		granted, _ = a.Arbitrate()
		Expect(granted).To(BeIdenticalTo(bufs[2]))

		granted, _ = a.Arbitrate()
		Expect(granted).To(BeIdenticalTo(bufs[0]))
	})

	It("should not starve a late requester", func() {
		bufs[0].Push(1)

		a.Arbitrate()

		bufs[1].Push(1)

		granted, _ := a.Arbitrate()
		Expect(granted).To(BeIdenticalTo(bufs[1]))
	})

	It("should grant nothing with no registered buffers", func() {
		empty := arbitration.NewRoundRobinArbiter(bitsearch.NewSearcher())

		_, found := empty.Arbitrate()
		Expect(found).To(BeFalse())
	})
})
