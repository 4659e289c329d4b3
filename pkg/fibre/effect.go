package fibre

// Cleanup is returned by an effect body (and a Resource's release step) to
// be run before the next body invocation or on unmount.
type Cleanup func()

// effectState is the persistent record behind an Effect hook slot. It
// outlives individual evaluations, unlike hookSlot itself, so the runtime
// can run its body after the tick's evaluation phase completes.
type effectState struct {
	fibre    *Fibre
	deps     []any
	hasDeps  bool
	body     func() Cleanup
	cleanup  Cleanup
	disposed bool
}

type effectSlotData struct {
	effect *effectState
}

// UseEffect registers (or retrieves) an Effect hook slot. When deps changed
// since the last evaluation (or this is the first evaluation), the effect
// is queued to run after the tick commits.
func UseEffect(ctx *Ctx, deps []any, body func() Cleanup) {
	f := ctx.fibre
	slot := f.nextHookSlot(hookEffect, func() any {
		e := &effectState{fibre: f}
		f.effects = append(f.effects, e)
		return &effectSlotData{effect: e}
	})
	data := slot.data.(*effectSlotData)
	e := data.effect
	e.body = body

	if !e.hasDeps || !DepsEqual(e.deps, deps) {
		e.deps = deps
		e.hasDeps = true
		ctx.runtime.scheduleEffect(e)
	}
}

// runEffect runs an effect's prior cleanup (if any) then its body, storing
// the returned cleanup. Called only from the runtime's post-commit drain.
func runEffect(e *effectState) {
	if e.disposed {
		return
	}
	if e.cleanup != nil {
		e.cleanup()
		e.cleanup = nil
	}
	if e.body != nil {
		e.cleanup = e.body()
	}
}

// disposeEffect runs the effect's outstanding cleanup exactly once and
// marks it dead so a queued-but-not-yet-run effect for a disposed fibre
// never fires.
func disposeEffect(e *effectState) {
	if e.disposed {
		return
	}
	e.disposed = true
	if e.cleanup != nil {
		e.cleanup()
		e.cleanup = nil
	}
}
