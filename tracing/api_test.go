package tracing

import (
	"github.com/sarchlab/occugrid/sim"
	"go.uber.org/mock/gomock"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Api", func() {
	var (
		mockCtrl *gomock.Controller
		domain   *MockNamedHookable
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		domain = NewMockNamedHookable(mockCtrl)
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	Context("when hooked", func() {
		BeforeEach(func() {
			domain.EXPECT().NumHooks().Return(1).AnyTimes()
		})

		It("should panic if ID is not given", func() {
			domain.EXPECT().Name().Return("Grid").AnyTimes()
			Expect(func() {
				StartTask("", "123", domain, "kind", "what", nil)
			}).Should(Panic())
		})

		It("should panic if the domain has no name", func() {
			domain.EXPECT().Name().Return("").AnyTimes()
			Expect(func() {
				StartTask("id", "123", domain, "kind", "what", nil)
			}).Should(Panic())
		})

		It("should panic if kind is empty", func() {
			domain.EXPECT().Name().Return("Grid").AnyTimes()
			Expect(func() {
				StartTask("id", "123", domain, "", "what", nil)
			}).Should(Panic())
		})

		It("should panic if what is empty", func() {
			domain.EXPECT().Name().Return("Grid").AnyTimes()
			Expect(func() {
				StartTask("id", "123", domain, "kind", "", nil)
			}).Should(Panic())
		})

		It("should fill the location with the domain name", func() {
			domain.EXPECT().Name().Return("Grid").AnyTimes()
			domain.EXPECT().
				InvokeHook(gomock.Any()).
				Do(func(ctx sim.HookCtx) {
					Expect(ctx.Pos).To(BeIdenticalTo(HookPosTaskStart))
					task := ctx.Item.(Task)
					Expect(task.ID).To(Equal("1"))
					Expect(task.Location).To(Equal("Grid"))
					Expect(task.Detail).To(Equal(42))
				})

			StartTask("1", "", domain, "req", "read", 42)
		})

		It("should send a step with one entry", func() {
			domain.EXPECT().
				InvokeHook(gomock.Any()).
				Do(func(ctx sim.HookCtx) {
					Expect(ctx.Pos).To(BeIdenticalTo(HookPosTaskStep))
					task := ctx.Item.(Task)
					Expect(task.Steps).To(HaveLen(1))
					Expect(task.Steps[0].What).To(Equal("wait"))
				})

			AddTaskStep("1", domain, "wait")
		})

		It("should send the end of a task", func() {
			domain.EXPECT().
				InvokeHook(gomock.Any()).
				Do(func(ctx sim.HookCtx) {
					Expect(ctx.Pos).To(BeIdenticalTo(HookPosTaskEnd))
					Expect(ctx.Item.(Task).ID).To(Equal("1"))
				})

			EndTask("1", domain)
		})
	})

	It("should panic if domain is nil", func() {
		Expect(func() {
			StartTask("id", "123", nil, "kind", "what", nil)
		}).Should(Panic())
	})

	It("should do nothing if the domain has no hooks", func() {
		domain.EXPECT().NumHooks().Return(0).Times(3)

		StartTask("", "", domain, "", "", nil)
		AddTaskStep("1", domain, "wait")
		EndTask("1", domain)
	})
})

var _ = Describe("CollectTrace", func() {
	var (
		mockCtrl *gomock.Controller
		tracer   *MockTracer
		domain   *sim.ComponentBase
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		tracer = NewMockTracer(mockCtrl)
		domain = sim.NewComponentBase("Grid")
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should route tasks to the tracer", func() {
		CollectTrace(domain, tracer)

		gomock.InOrder(
			tracer.EXPECT().StartTask(gomock.Any()).Do(func(task Task) {
				Expect(task.What).To(Equal("write"))
			}),
			tracer.EXPECT().StepTask(gomock.Any()),
			tracer.EXPECT().EndTask(gomock.Any()),
		)

		StartTask("1", "", domain, "req", "write", nil)
		AddTaskStep("1", domain, "wait")
		EndTask("1", domain)
	})

	It("should not attach the same tracer twice", func() {
		CollectTrace(domain, tracer)

		Expect(func() { CollectTrace(domain, tracer) }).To(Panic())
	})
})
