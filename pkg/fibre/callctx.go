package fibre

// Ctx is passed to every Descriptor.Evaluate call. It is the only handle a
// node function has onto the engine: hooks (UseState, UseMemo, ...) and
// child evaluation (EvaluateChild) are both methods/functions that take a
// *Ctx rather than methods on Fibre directly, since Go has no generic
// methods and UseState/UseMemo/UseResource need a type parameter.
type Ctx struct {
	fibre   *Fibre
	runtime *Runtime

	// analysis selects AnalysisDescriptor.EvaluateAnalysis over Evaluate for
	// descriptors that implement it.
	analysis bool

	// seenKeys guards against two children sharing a key within the same
	// evaluation (ErrDuplicateKey).
	seenKeys map[string]bool

	// seenCaptureKeys guards against UseCapture being called twice for the
	// same key within the same evaluation (ErrDuplicateCapture).
	seenCaptureKeys map[string]bool
}

// Fibre returns the fibre this Ctx is evaluating, for node functions or
// instrumentation that want its key path or ID without a full Observer
// subscription.
func (ctx *Ctx) Fibre() *Fibre { return ctx.fibre }

// EvaluateChild evaluates (or mounts) the child identified by key under the
// current fibre, using descriptor d as its props for this tick. The child is
// recorded as a predecessor of the current fibre: a future change to the
// child's committed result invalidates the parent.
//
// Calling EvaluateChild twice with the same key in one evaluation is a
// programmer error (ErrDuplicateKey) — every child must be uniquely
// addressable within its parent's evaluation.
func (ctx *Ctx) EvaluateChild(key Key, d Descriptor) Result {
	f := ctx.fibre
	keyStr := formatKey(key)

	if ctx.seenKeys == nil {
		ctx.seenKeys = make(map[string]bool)
	}
	if ctx.seenKeys[keyStr] {
		panic(wrapEvalError(f.keyPath, ErrDuplicateKey))
	}
	ctx.seenKeys[keyStr] = true
	f.childOrder = append(f.childOrder, keyStr)

	child, exists := f.children[keyStr]
	if !exists {
		child = newFibre(ctx.runtime, f, f.keyPath.Child(key), d)
		f.children[keyStr] = child
	}

	addDependency(f, child)
	return child.evaluate(d, ctx.analysis)
}

// EvaluateInline runs d's Evaluate/EvaluateAnalysis in the current fibre's
// own evaluation — no child fibre is created, no key is consumed, and d's
// own hook calls (if any) share the calling fibre's hook slot sequence. Used
// to compose descriptors as plain value-returning helpers without growing
// the tree.
func (ctx *Ctx) EvaluateInline(d Descriptor) Result {
	return dispatch(d, ctx)
}
