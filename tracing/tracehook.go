package tracing

import (
	"fmt"

	"github.com/sarchlab/occugrid/sim"
)

// CollectTrace makes the tracer receive the tasks of a domain. A tracer can
// only be attached to a domain once.
func CollectTrace(domain NamedHookable, tracer Tracer) {
	if hasTracer(domain, tracer) {
		panic(fmt.Sprintf("domain %s already has tracer %T",
			domain.Name(), tracer))
	}

	domain.AcceptHook(&traceHook{tracer: tracer})
}

func hasTracer(domain NamedHookable, tracer Tracer) bool {
	for _, h := range domain.Hooks() {
		if th, ok := h.(*traceHook); ok && th.tracer == tracer {
			return true
		}
	}

	return false
}

// traceHook forwards the task hook positions to a tracer. Other positions
// are ignored.
type traceHook struct {
	tracer Tracer
}

func (h *traceHook) Func(ctx sim.HookCtx) {
	task, ok := ctx.Item.(Task)
	if !ok {
		return
	}

	switch ctx.Pos {
	case HookPosTaskStart:
		h.tracer.StartTask(task)
	case HookPosTaskStep:
		h.tracer.StepTask(task)
	case HookPosTaskEnd:
		h.tracer.EndTask(task)
	}
}
