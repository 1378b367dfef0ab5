package testbench

import (
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/occugrid/mem/occupancygrid"
	"github.com/sarchlab/occugrid/sim"
)

var _ = Describe("Agent", func() {
	var (
		spec   occupancygrid.Spec
		engine *sim.SerialEngine
		clock  *sim.Clock
		grid   *occupancygrid.Comp
		agent  *Agent
	)

	BeforeEach(func() {
		spec = occupancygrid.Defaults()
		engine = sim.NewSerialEngine()
		clock = sim.NewClock("Clock", engine, 1*sim.GHz)
		grid = occupancygrid.MakeBuilder().WithSpec(spec).Build("Grid")
		agent = NewAgent("Agent", grid)

		clock.Register(grid)
		clock.RegisterFallingEdgeHandler(agent)
	})

	run := func() {
		clock.Start()
		Expect(engine.Run()).To(Succeed())
		Expect(clock.IsRunning()).To(BeFalse())
	}

	It("should stop the clock when there is nothing to do", func() {
		run()

		Expect(clock.CurrentCycle()).To(Equal(uint64(1)))
	})

	It("should write and read back", func() {
		agent.Enqueue(Write(1, 1, 1), Read(1, 1), Read(2, 2))

		run()

		Expect(agent.Idle()).To(BeTrue())
		Expect(agent.Results()).To(HaveLen(2))
		Expect(agent.Results()[0].Value).To(Equal(uint64(1)))
		Expect(agent.Results()[1].Value).To(Equal(uint64(0)))
		Expect(grid.Stats().DroppedRequests).To(BeZero())
	})

	It("should issue back to back requests every three cycles", func() {
		agent.Enqueue(Write(0, 0, 1), Write(1, 0, 1), Write(2, 0, 1))

		run()

		Expect(clock.CurrentCycle()).To(Equal(uint64(10)))
		Expect(grid.Stats().CompletedWrites).To(Equal(uint64(3)))
		Expect(engine.CurrentTime()).To(
			BeNumerically("~", 9.5e-9, 1e-15))
	})

	It("should pass random writes through the model", func() {
		rng := rand.New(rand.NewSource(1))
		model := NewModel(spec)

		ops := RandomOps(rng, spec, 50)
		for _, op := range ops {
			model.Apply(op)
		}

		agent.Enqueue(ops...)
		agent.Enqueue(model.Written()...)

		run()

		Expect(agent.Results()).To(HaveLen(len(model.Written())))
		Expect(model.Check(agent.Results())).To(Succeed())
		Expect(grid.Stats().DroppedRequests).To(BeZero())
	})

	It("should reset the controller", func() {
		agent.Enqueue(
			Write(1, 1, 1),
			Op{Kind: OpReset},
			Read(1, 1),
		)

		run()

		Expect(agent.Results()).To(HaveLen(1))
		Expect(agent.Results()[0].Value).To(Equal(uint64(0)))
		Expect(grid.Stats().Resets).To(Equal(uint64(1)))
	})
})

var _ = Describe("Model", func() {
	It("should report mismatches", func() {
		spec := occupancygrid.Defaults()
		model := NewModel(spec)
		model.Apply(Write(1, 2, 0x1ff))

		Expect(model.Expect(1, 2)).To(Equal(uint64(0xff)))

		err := model.Check([]Result{
			{Op: Read(1, 2), Value: 0xff},
			{Op: Read(3, 3), Value: 1},
		})
		Expect(err).To(MatchError(ErrMismatch))
		Expect(err.Error()).To(ContainSubstring("(3, 3)"))
	})

	It("should list written cells in address order", func() {
		model := NewModel(occupancygrid.Defaults())
		model.Apply(Write(0, 1, 1))
		model.Apply(Write(5, 0, 1))
		model.Apply(Read(7, 7))

		Expect(model.Written()).To(Equal([]Op{Read(5, 0), Read(0, 1)}))
	})
})
