package fibre

// memoSlotData holds a Memo hook's last computed value and the deps that
// produced it.
type memoSlotData struct {
	value   any
	deps    []any
	hasDeps bool
}

// UseMemo recomputes value only when deps changed by equality. A nil deps
// slice means "recompute on every evaluation".
func UseMemo[T any](ctx *Ctx, deps []any, compute func() T) T {
	f := ctx.fibre
	slot := f.nextHookSlot(hookMemo, func() any {
		return &memoSlotData{}
	})
	data := slot.data.(*memoSlotData)

	if data.hasDeps && DepsEqual(data.deps, deps) {
		value, _ := data.value.(T)
		return value
	}

	value := compute()
	data.value = value
	data.deps = deps
	data.hasDeps = true
	return value
}
