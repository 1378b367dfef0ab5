package sim

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("ComponentBase", func() {
	It("should keep its name", func() {
		component := NewComponentBase(BuildName("Bench", "Grid"))

		Expect(component.Name()).To(Equal("Bench.Grid"))
	})

	It("should reject names that break the naming rules", func() {
		Expect(func() { NewComponentBase("grid") }).To(Panic())
		Expect(func() { NewComponentBase("") }).To(Panic())
	})

	It("should invoke the hooks it accepts", func() {
		component := NewComponentBase("Grid")
		pos := &HookPos{Name: "Test"}

		var got []any
		component.AcceptHook(HookFunc(func(ctx HookCtx) {
			Expect(ctx.Pos).To(BeIdenticalTo(pos))
			got = append(got, ctx.Item)
		}))

		Expect(component.NumHooks()).To(Equal(1))

		component.InvokeHook(HookCtx{Domain: component, Pos: pos, Item: 7})

		Expect(got).To(Equal([]any{7}))
	})
})
