package prng

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/occugrid/sim"
)

var _ = Describe("Generator", func() {
	var (
		clock *sim.Clock
		comp  *Comp
	)

	BeforeEach(func() {
		clock = sim.NewClock("Clock", nil, 500*sim.MHz)
		comp = MakeBuilder().Build("PRNG")
		clock.Register(comp)
	})

	It("should reject invalid shifts", func() {
		Expect(Spec{ShiftA: 0, ShiftB: 7, ShiftC: 17}.Validate()).NotTo(Succeed())
		Expect(Spec{ShiftA: 13, ShiftB: 64, ShiftC: 17}.Validate()).NotTo(Succeed())
		Expect(func() {
			MakeBuilder().WithSpec(Spec{}).BuildGenerator()
		}).To(Panic())
	})

	It("should hold the seed while disabled", func() {
		comp.In = Inputs{Reset: true, Seed: 123}
		clock.Step()
		comp.In = Inputs{Seed: 123}
		clock.Step()

		Expect(comp.Out()).To(Equal(uint64(123)))

		for i := 0; i < 10; i++ {
			clock.Step()
			Expect(comp.Out()).To(Equal(uint64(123)))
		}
	})

	It("should change on every edge while enabled", func() {
		comp.In = Inputs{Reset: true, En: true, Seed: 123}
		clock.Step()
		comp.In.Reset = false

		last := comp.Out()
		for i := 0; i < 10; i++ {
			clock.Step()
			Expect(comp.Out()).NotTo(Equal(last))
			last = comp.Out()
		}
	})

	It("should reload the seed on reset", func() {
		comp.In = Inputs{En: true, Seed: 10}
		clock.Step()
		comp.In.Reset = true
		clock.Step()

		Expect(comp.Out()).To(Equal(uint64(10)))
	})

	It("should follow the xorshift sequence", func() {
		g := MakeBuilder().BuildGenerator()
		g.Step(Inputs{Reset: true, Seed: 1})

		Expect(g.Step(Inputs{En: true})).To(Equal(uint64(1082269761)))
		Expect(g.Step(Inputs{En: true})).To(Equal(Next(Defaults(), 1082269761)))
	})

	It("should stay at zero", func() {
		g := MakeBuilder().BuildGenerator()
		g.Step(Inputs{Reset: true})

		Expect(g.Step(Inputs{En: true})).To(Equal(uint64(0)))
	})
})
