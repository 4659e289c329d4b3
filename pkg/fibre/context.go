package fibre

// ProvideContext binds key to value for this fibre's subtree. Descendants
// read it with UseContext. Unlike UseContext, providing a value is not a
// hook — it may be called any number of times per evaluation and does not
// participate in hook-order validation; it is a plain scoped write, not a
// tracked read.
//
// Rebinding a key to a changed value invalidates that key's current
// subscribers directly, rather than waiting on this fibre's own committed
// result to change. A provider that simply forwards a descendant's value as
// its own return value (a common pattern: provide, then evaluate_child the
// subtree that reads it) would otherwise never signal the rebind — the
// descendant is evaluated, and memo-skipped, before this fibre's own commit
// runs and compares its result.
func ProvideContext(ctx *Ctx, key any, value any) {
	f := ctx.fibre
	if f.contextValues == nil {
		f.contextValues = make(map[any]any)
	}
	old, existed := f.contextValues[key]
	f.contextValues[key] = value

	if existed && !ResultsEqual(old, value) {
		for reader := range f.contextSubs[key] {
			reader.invalidate(dirtyPredecessor)
		}
	}
}

// UseContext walks ancestors for the nearest ProvideContext binding of key,
// adds that provider as a predecessor of the current fibre (so a future
// change to the provider's own committed result also invalidates this
// fibre), subscribes to direct rebind notifications for key, and returns
// the bound value. Panics with ErrMissingContext if no ancestor provides
// key.
func UseContext[T any](ctx *Ctx, key any) T {
	f := ctx.fibre
	f.nextHookSlot(hookContext, func() any {
		return &contextSlotData{key: key}
	})

	for anc := f.parent; anc != nil; anc = anc.parent {
		if anc.contextValues == nil {
			continue
		}
		if raw, ok := anc.contextValues[key]; ok {
			addDependency(f, anc)
			if anc.contextSubs == nil {
				anc.contextSubs = make(map[any]map[*Fibre]struct{})
			}
			subs := anc.contextSubs[key]
			if subs == nil {
				subs = make(map[*Fibre]struct{})
				anc.contextSubs[key] = subs
			}
			subs[f] = struct{}{}
			value, _ := raw.(T)
			return value
		}
	}

	panic(wrapEvalError(f.keyPath, ErrMissingContext))
}

type contextSlotData struct {
	key any
}
