package fibre

// resourceState is the persistent record behind a Resource hook slot.
type resourceState struct {
	fibre    *Fibre
	deps     []any
	hasDeps  bool
	value    any
	release  Cleanup
	disposed bool
}

type resourceSlotData struct {
	resource *resourceState
}

// UseResource acquires a scoped value synchronously, releasing the prior
// acquisition first when deps changed (or on first evaluation). Unlike
// UseEffect, acquisition happens inline — the value is available
// immediately to the calling node function.
func UseResource[T any](ctx *Ctx, deps []any, acquire func() (T, Cleanup)) T {
	f := ctx.fibre
	slot := f.nextHookSlot(hookResource, func() any {
		r := &resourceState{fibre: f}
		f.resources = append(f.resources, r)
		return &resourceSlotData{resource: r}
	})
	data := slot.data.(*resourceSlotData)
	r := data.resource

	if !r.hasDeps || !DepsEqual(r.deps, deps) {
		if r.release != nil {
			r.release()
			r.release = nil
		}
		value, release := acquire()
		r.value = value
		r.release = release
		r.deps = deps
		r.hasDeps = true
	}

	value, _ := r.value.(T)
	return value
}

// disposeResource releases a resource exactly once.
func disposeResource(r *resourceState) {
	if r.disposed {
		return
	}
	r.disposed = true
	if r.release != nil {
		r.release()
		r.release = nil
	}
}
