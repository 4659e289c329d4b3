package fibre

// stateSlotData holds a State hook's current value. Setter calls never
// mutate this in place while the owning fibre is evaluating — they buffer a
// pending write on the runtime, applied at the start of the next tick.
type stateSlotData struct {
	value any
}

// Setter updates a State hook's value. Calling it with a value equal to the
// current one is a no-op; otherwise the owning fibre is marked StateChanged
// and enqueued for the next tick.
type Setter[T any] func(T)

// UseState registers (or retrieves) a State hook slot. initial is only used
// on the fibre's first evaluation; subsequent evaluations return the
// current buffered value and a stable setter.
func UseState[T any](ctx *Ctx, initial T) (T, Setter[T]) {
	f := ctx.fibre
	slot := f.nextHookSlot(hookState, func() any {
		return &stateSlotData{value: initial}
	})
	data := slot.data.(*stateSlotData)

	slotIndex := ctx.hookSlotIndex()
	setter := Setter[T](func(next T) {
		ctx.runtime.queueStateWrite(f, slotIndex, next)
	})

	value, _ := data.value.(T)
	return value, setter
}

// hookSlotIndex returns the index the cursor just consumed, i.e. the slot
// this UseState call bound to.
func (ctx *Ctx) hookSlotIndex() int {
	return ctx.fibre.hookCursor - 1
}

// applyStateWrite installs a new value into a state slot if it differs from
// the current one by equality, returning whether it changed.
func applyStateWrite(f *Fibre, slotIndex int, value any) bool {
	if slotIndex < 0 || slotIndex >= len(f.hooks) {
		return false
	}
	slot := &f.hooks[slotIndex]
	if slot.kind != hookState {
		return false
	}
	data := slot.data.(*stateSlotData)
	if ResultsEqual(data.value, value) {
		return false
	}
	data.value = value
	return true
}
