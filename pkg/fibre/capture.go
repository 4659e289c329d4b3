package fibre

// Reducer folds a pre-order sequence of contributed values into one
// aggregate. Built-in reducers cover the common cases; callers may supply
// their own for domain-specific aggregation.
type Reducer func(values []any) any

// FirstReducer returns the first contribution in tree order, or nil if
// there were none.
func FirstReducer(values []any) any {
	if len(values) == 0 {
		return nil
	}
	return values[0]
}

// CountReducer returns the number of contributions.
func CountReducer(values []any) any {
	return len(values)
}

// SumIntReducer adds int contributions, treating non-int entries as 0.
func SumIntReducer(values []any) any {
	total := 0
	for _, v := range values {
		if n, ok := v.(int); ok {
			total += n
		}
	}
	return total
}

// AnyTrueReducer reports whether any contribution is the boolean true.
func AnyTrueReducer(values []any) any {
	for _, v := range values {
		if b, ok := v.(bool); ok && b {
			return true
		}
	}
	return false
}

// captureProvider is the aggregator state behind one ProvideCapture binding.
// contributions persists across ticks so a descendant whose evaluation was
// skipped by memoization this tick does not silently vanish from the
// aggregate: an entry is only added or overwritten when its owning fibre
// actually calls UseCapture again, and only removed when that fibre is
// disposed.
type captureProvider struct {
	key      string
	owner    *Fibre
	reducer  Reducer
	contribs map[*Fibre]any
}

// ProvideCapture registers (or re-binds the reducer of) a capture aggregator
// on the current fibre, identified by key within this fibre's scope. Like
// ProvideContext, this is an untracked scoped write, not a hook — callable
// any number of times per evaluation.
func ProvideCapture(ctx *Ctx, key string, reducer Reducer) {
	f := ctx.fibre
	if f.captures == nil {
		f.captures = make(map[string]*captureProvider)
	}
	p, ok := f.captures[key]
	if !ok {
		p = &captureProvider{key: key, owner: f, contribs: make(map[*Fibre]any)}
		f.captures[key] = p
	}
	p.reducer = reducer
}

// UseCapture contributes value under key to the nearest ancestor capture
// aggregator for that key. It is hook-tracked so repeated calls with the
// same key within a single evaluation are caught as ErrDuplicateCapture. A
// fibre with no ancestor aggregator for key is a silent no-op: unlike
// UseContext, a missing capture provider is not a required error — it
// simply means nobody upstream is listening.
func UseCapture(ctx *Ctx, key string, value any) {
	f := ctx.fibre
	f.nextHookSlot(hookCapture, func() any {
		return &captureSlotData{key: key}
	})

	if ctx.seenCaptureKeys == nil {
		ctx.seenCaptureKeys = make(map[string]bool)
	}
	if ctx.seenCaptureKeys[key] {
		panic(wrapEvalError(f.keyPath, ErrDuplicateCapture))
	}
	ctx.seenCaptureKeys[key] = true

	for anc := f.parent; anc != nil; anc = anc.parent {
		if anc.captures == nil {
			continue
		}
		if p, ok := anc.captures[key]; ok {
			p.contribs[f] = value
			addDependency(p.owner, f)
			return
		}
	}
}

// ReadCapture reads the current aggregate for key, searching ancestors
// (starting at the calling fibre itself) for a ProvideCapture binding, then
// folding every live contribution in deterministic pre-order — a depth-first
// walk of the aggregator's current child tree in child-key order — through
// the bound reducer. Returns the zero value of T if no binding is found.
func ReadCapture[T any](ctx *Ctx, key string) T {
	f := ctx.fibre

	var provider *captureProvider
	for anc := f; anc != nil; anc = anc.parent {
		if anc.captures == nil {
			continue
		}
		if p, ok := anc.captures[key]; ok {
			provider = p
			break
		}
	}

	var zero T
	if provider == nil {
		return zero
	}

	values := make([]any, 0, len(provider.contribs))
	collectCaptureOrder(provider.owner, provider, &values)
	addDependency(f, provider.owner)

	if provider.reducer == nil {
		return zero
	}
	result, ok := provider.reducer(values).(T)
	if !ok {
		return zero
	}
	return result
}

// collectCaptureOrder walks node's subtree in child-key order, appending
// node's own contribution (if any) before descending — a pre-order visit.
// It registers no dependencies; UseCapture already made the aggregator a
// successor of each contributor.
func collectCaptureOrder(node *Fibre, p *captureProvider, out *[]any) {
	if v, ok := p.contribs[node]; ok {
		*out = append(*out, v)
	}
	for _, keyStr := range node.childOrder {
		child, ok := node.children[keyStr]
		if !ok {
			continue
		}
		collectCaptureOrder(child, p, out)
	}
}

type captureSlotData struct {
	key string
}
