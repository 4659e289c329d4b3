package fibre

import (
	"errors"
	"fmt"
)

// evaluate runs the five-step evaluation protocol for a single fibre:
//
//  1. Memoization check — if the fibre has a committed result, its new
//     descriptor equals the old one, and nothing dirtied it, the cached
//     result is returned without invoking the node function or touching
//     children.
//  2. Predecessor reset — the fibre's predecessor set is cleared; it is
//     rebuilt fresh as EvaluateChild/UseContext/ReadCapture calls run.
//  3. Node function invocation — the descriptor's Evaluate (or
//     EvaluateAnalysis) runs against a fresh hook cursor.
//  4. Commit — unvisited children are disposed, the result is updated, the
//     revision is incremented only if the result changed, and every
//     successor is marked PredecessorChanged and enqueued when it did.
//  5. Failure handling — a panic from the node function (or from hook/child
//     misuse) marks the fibre Failed and propagates. A panic that is already
//     a *NodeFailure or *EvalError is re-raised unchanged; any other panic
//     value is wrapped in a *NodeFailure.
func (f *Fibre) evaluate(d Descriptor, analysis bool) (result Result) {
	if f.status == StatusDisposed {
		panic(wrapEvalError(f.keyPath, ErrDisposedAccess))
	}

	if f.hasResult && !f.descriptor.Equal(d) {
		f.dirty |= dirtyProps
	}

	if f.hasResult && f.status == StatusActive && !f.dirty.any() {
		return f.result
	}

	f.descriptor = d
	f.clearPredecessors()
	f.beginEvaluation()
	f.childOrder = nil

	ctx := &Ctx{fibre: f, runtime: f.runtime, analysis: analysis}

	defer func() {
		if r := recover(); r != nil {
			f.status = StatusFailed
			var nf *NodeFailure
			var ee *EvalError
			if errors.As(asError(r), &nf) || errors.As(asError(r), &ee) {
				f.err = asError(r)
				panic(r)
			}
			cause := asError(r)
			failure := &NodeFailure{KeyPath: f.keyPath, Cause: cause}
			f.err = failure
			panic(failure)
		}
	}()

	result = dispatch(d, ctx)
	f.endEvaluation()
	f.commit(ctx, result)
	return result
}

// asError normalizes a recovered panic value to an error.
func asError(r any) error {
	if err, ok := r.(error); ok {
		return err
	}
	return fmt.Errorf("%v", r)
}

// commit finalizes a successful evaluation: children not visited this pass
// are disposed, the result is updated, the revision counter advances only
// when the result actually changed under equality, and the instrumentation
// observer (if any) is notified of a mount (first-ever commit) or a commit
// with a changed result — never of an unchanged re-run. Successors are
// invalidated exactly when the result changed.
func (f *Fibre) commit(ctx *Ctx, result Result) {
	for keyStr, child := range f.children {
		if !ctx.seenKeys[keyStr] {
			disposeFibre(child)
			delete(f.children, keyStr)
		}
	}

	isMount := !f.hasResult
	changed := isMount || !ResultsEqual(f.result, result)
	f.result = result
	f.hasResult = true
	f.status = StatusActive
	f.dirty = 0
	f.err = nil

	if changed {
		f.revision++
	}

	if f.runtime != nil {
		kind := ""
		if f.descriptor != nil {
			kind = f.descriptor.Kind()
		}
		switch {
		case isMount:
			f.runtime.notifyMount(f.keyPath, kind, result)
		case changed:
			f.runtime.notifyCommit(f.keyPath, kind, result)
		}
	}

	if changed {
		f.markSuccessorsPredecessorChanged()
	}
}

// disposeFibre tears down a fibre and its entire subtree, post-order:
// children unmount (and are reported to the instrumentation observer) before
// their parent. Effect cleanups and resource releases run, dependency edges
// are severed, and the fibre is marked Disposed so any straggling reference
// (e.g. a queued effect for a fibre unmounted earlier in the same tick)
// becomes a no-op.
func disposeFibre(f *Fibre) {
	if f.status == StatusDisposed {
		return
	}

	for _, child := range f.children {
		disposeFibre(child)
	}

	for _, e := range f.effects {
		disposeEffect(e)
	}
	for _, r := range f.resources {
		disposeResource(r)
	}

	for p := range f.preds {
		delete(p.succs, f)
	}
	for s := range f.succs {
		delete(s.preds, f)
	}
	f.preds = nil
	f.succs = nil

	for anc := f.parent; anc != nil; anc = anc.parent {
		for _, p := range anc.captures {
			delete(p.contribs, f)
		}
		for _, subs := range anc.contextSubs {
			delete(subs, f)
		}
	}

	if f.runtime != nil {
		kind := ""
		if f.descriptor != nil {
			kind = f.descriptor.Kind()
		}
		f.runtime.notifyUnmount(f.keyPath, kind, f.result)
	}

	f.status = StatusDisposed
}
