package sim

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"
)

type countdownCircuit struct {
	busyCycles uint64
	edges      []uint64
	times      []VTimeInSec
	engine     Engine
}

func (c *countdownCircuit) Name() string {
	return "Countdown"
}

func (c *countdownCircuit) RisingEdge(cycle uint64) bool {
	c.edges = append(c.edges, cycle)
	if c.engine != nil {
		c.times = append(c.times, c.engine.CurrentTime())
	}

	return cycle < c.busyCycles
}

var _ = Describe("Clock", func() {
	var (
		mockCtrl *gomock.Controller
		circuit  *MockClocked
		faller   *MockFallingEdgeHandler
		clock    *Clock
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		circuit = NewMockClocked(mockCtrl)
		faller = NewMockFallingEdgeHandler(mockCtrl)
		clock = NewClock("Clock", nil, 1*GHz)
		clock.Register(circuit)
		clock.RegisterFallingEdgeHandler(faller)
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should panic with a zero frequency", func() {
		Expect(func() { NewClock("Clock", nil, 0) }).To(Panic())
	})

	It("should run the rising edge before the falling edge", func() {
		gomock.InOrder(
			circuit.EXPECT().RisingEdge(uint64(1)).Return(false),
			faller.EXPECT().FallingEdge(uint64(1)).Return(false),
			circuit.EXPECT().RisingEdge(uint64(2)).Return(false),
			faller.EXPECT().FallingEdge(uint64(2)).Return(false),
		)

		Expect(clock.Step()).To(BeFalse())
		Expect(clock.Step()).To(BeFalse())
		Expect(clock.CurrentCycle()).To(Equal(uint64(2)))
	})

	It("should report busy if any circuit is busy", func() {
		circuit.EXPECT().RisingEdge(uint64(1)).Return(true)
		faller.EXPECT().FallingEdge(uint64(1)).Return(false)

		Expect(clock.Step()).To(BeTrue())
	})

	It("should report busy if any falling-edge handler is busy", func() {
		circuit.EXPECT().RisingEdge(gomock.Any()).Return(false).Times(3)
		faller.EXPECT().FallingEdge(gomock.Any()).Return(true).Times(3)

		clock.RunCycles(3)

		Expect(clock.CurrentCycle()).To(Equal(uint64(3)))
	})

	It("should invoke edge hooks with the cycle number", func() {
		hook := NewMockHook(mockCtrl)
		clock.AcceptHook(hook)

		circuit.EXPECT().RisingEdge(uint64(1)).Return(false)
		faller.EXPECT().FallingEdge(uint64(1)).Return(false)

		gomock.InOrder(
			hook.EXPECT().Func(gomock.Any()).Do(func(ctx HookCtx) {
				Expect(ctx.Pos).To(BeIdenticalTo(HookPosRisingEdge))
				Expect(ctx.Item).To(Equal(uint64(1)))
			}),
			hook.EXPECT().Func(gomock.Any()).Do(func(ctx HookCtx) {
				Expect(ctx.Pos).To(BeIdenticalTo(HookPosFallingEdge))
				Expect(ctx.Item).To(Equal(uint64(1)))
			}),
		)

		clock.Step()
	})
})

var _ = Describe("Clock on an engine", func() {
	var (
		engine  *SerialEngine
		clock   *Clock
		circuit *countdownCircuit
	)

	BeforeEach(func() {
		engine = NewSerialEngine()
		clock = NewClock("Clock", engine, 1*Hz)
		circuit = &countdownCircuit{busyCycles: 3, engine: engine}
		clock.Register(circuit)
	})

	It("should tick while the circuit is busy", func() {
		clock.Start()

		Expect(engine.Run()).To(Succeed())
		Expect(circuit.edges).To(Equal([]uint64{1, 2, 3}))
		Expect(circuit.times).To(Equal([]VTimeInSec{0, 1, 2}))
		Expect(clock.IsRunning()).To(BeFalse())
		Expect(engine.CurrentTime()).To(BeNumerically("~", 2.5, 1e-12))
	})

	It("should resume on the next tick after a restart", func() {
		clock.Start()
		Expect(engine.Run()).To(Succeed())

		circuit.busyCycles = 5
		clock.Start()
		Expect(engine.Run()).To(Succeed())

		Expect(circuit.edges).To(Equal([]uint64{1, 2, 3, 4, 5}))
		Expect(circuit.times[3]).To(BeNumerically("~", 3, 1e-12))
	})

	It("should stop when asked even if the circuit is busy", func() {
		circuit.busyCycles = 100
		clock.AcceptHook(HookFunc(func(ctx HookCtx) {
			if ctx.Pos == HookPosRisingEdge && ctx.Item.(uint64) == 4 {
				clock.Stop()
			}
		}))

		clock.Start()

		Expect(engine.Run()).To(Succeed())
		Expect(circuit.edges).To(HaveLen(4))
	})

	It("should refuse foreign events", func() {
		evt := NewEventBase(0, clock)
		Expect(clock.Handle(evt)).NotTo(Succeed())
	})
})
