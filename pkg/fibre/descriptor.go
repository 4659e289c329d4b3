package fibre

import "reflect"

// Result is the arbitrary equatable value a descriptor's Evaluate returns.
// The behaviour-tree layer in pkg/btree specializes this to a tagged union
// of {Success, Running, Failure}; the core engine treats it opaquely and
// only ever compares it for equality.
type Result any

// Descriptor is an immutable, deep-equatable value describing a fibre's
// function and inputs. Kind identifies the descriptor's type for
// instrumentation and Export; Equal governs
// memoization — if a child's new descriptor equals its old one and none of
// its tracked predecessors changed, its node function is not invoked.
type Descriptor interface {
	// Kind returns a stable type identity, e.g. "Counter" (pkg/btree's
	// nodes return their type and name, e.g. "Sequence:root").
	Kind() string

	// Equal reports whether this descriptor is interchangeable with other
	// for memoization purposes. Implementations compare props by value, not
	// by identity — two descriptors built independently with equal fields
	// must compare equal.
	Equal(other Descriptor) bool

	// Evaluate runs the node function. It may read hooks and children
	// through ctx, and may panic to signal a NodeFailure.
	Evaluate(ctx *Ctx) Result
}

// AnalysisDescriptor is implemented by descriptors that want a distinct
// evaluation path when the call context is in analysis mode, e.g. to
// evaluate branches a standard tick would short-circuit (the untaken side
// of a Selector). Runtime.RunTick always evaluates in standard mode, and
// the Runtime exposes no way to run a tick in analysis mode, so
// EvaluateAnalysis is only reached through a Ctx already in that mode.
type AnalysisDescriptor interface {
	Descriptor
	EvaluateAnalysis(ctx *Ctx) Result
}

// dispatch picks EvaluateAnalysis over Evaluate when ctx is in analysis
// mode and the descriptor opts in.
func dispatch(d Descriptor, ctx *Ctx) Result {
	if ctx.analysis {
		if ad, ok := d.(AnalysisDescriptor); ok {
			return ad.EvaluateAnalysis(ctx)
		}
	}
	return d.Evaluate(ctx)
}

// ResultsEqual reports whether two committed results are equal for
// memoization purposes, via reflect.DeepEqual so struct and slice-valued
// results compare by value rather than by identity.
func ResultsEqual(a, b Result) bool {
	return reflect.DeepEqual(a, b)
}

// DepsEqual compares two dependency arrays element-wise by equality. A nil
// deps slice means "recompute on every evaluation".
func DepsEqual(a, b []any) bool {
	if a == nil || b == nil {
		return false
	}
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !reflect.DeepEqual(a[i], b[i]) {
			return false
		}
	}
	return true
}
