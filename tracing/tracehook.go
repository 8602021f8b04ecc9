package tracing

import (
	"fmt"
	"reflect"

	"github.com/sarchlab/heatbench/hooking"
	"github.com/sarchlab/heatbench/stencil"
)

// NamedHookable is a hookable that has a name.
type NamedHookable interface {
	hooking.Hookable
	Name() string
}

// CollectTrace let the tracer to collect trace from a domain
func CollectTrace(domain NamedHookable, tracer Tracer) {
	hooks := domain.Hooks()
	for _, hook := range hooks {
		hook, ok := hook.(*traceHook)
		if ok && hook.t == tracer {
			panic(fmt.Sprintf(
				"domain %s already has tracer %s",
				domain.Name(), reflect.TypeOf(tracer)))
		}
	}

	h := traceHook{t: tracer, where: domain.Name()}
	domain.AcceptHook(&h)
}

// A traceHook turns the phase spans of a solver into tasks.
type traceHook struct {
	t     Tracer
	where string
}

// Func calls the tracer interfaces when the hook is triggered
func (h *traceHook) Func(ctx hooking.HookCtx) {
	if ctx.Pos != stencil.HookPosPhaseEnd {
		return
	}

	task := TaskFromSpan(h.where, ctx.Item.(stencil.PhaseSpan))
	h.t.StartTask(task)
	h.t.EndTask(task)
}
