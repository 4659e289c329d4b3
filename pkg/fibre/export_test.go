package fibre

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

// snapshotCmpOpts ignores IDs, which are allocation-order identifiers rather
// than part of a snapshot's logical shape, and compares errors with
// errors.Is semantics rather than by identity.
var snapshotCmpOpts = []cmp.Option{
	cmpopts.IgnoreFields(Snapshot{}, "ID"),
	cmpopts.EquateErrors(),
}

func TestExportMatchesTreeShapeAfterTick(t *testing.T) {
	root := node("root", nil, func(ctx *Ctx) Result {
		ctx.EvaluateChild(Key("left"), node("leaf", nil, func(ctx *Ctx) Result {
			return "left-value"
		}))
		ctx.EvaluateChild(Key("right"), node("leaf", nil, func(ctx *Ctx) Result {
			return "right-value"
		}))
		return "root-value"
	})

	rt := NewRuntime(root)
	if err := rt.RunTick(); err != nil {
		t.Fatalf("RunTick: %v", err)
	}

	got := Export(rt.Root())
	want := Snapshot{
		KeyPath:      "/",
		Kind:         "root",
		Status:       StatusActive,
		Result:       "root-value",
		Revision:     1,
		Predecessors: []string{"/left", "/right"},
		Children: []Snapshot{
			{KeyPath: "/left", Kind: "leaf", Status: StatusActive, Result: "left-value", Revision: 1},
			{KeyPath: "/right", Kind: "leaf", Status: StatusActive, Result: "right-value", Revision: 1},
		},
	}

	if diff := cmp.Diff(want, got, snapshotCmpOpts...); diff != "" {
		t.Fatalf("Export() mismatch (-want +got):\n%s", diff)
	}
}

func TestExportIsStableAcrossMemoizedTicks(t *testing.T) {
	root := node("root", nil, func(ctx *Ctx) Result {
		return ctx.EvaluateChild(Key("child"), node("leaf", nil, func(ctx *Ctx) Result {
			return "value"
		}))
	})

	rt := NewRuntime(root)
	if err := rt.RunTick(); err != nil {
		t.Fatalf("RunTick (first): %v", err)
	}
	first := Export(rt.Root())

	// The second tick re-runs the root while the child stays memoized; the
	// root's result is unchanged, so its revision does not advance and the
	// exported shape (aside from identity) is unchanged.
	rt.Invalidate(rt.Root())
	if err := rt.RunTick(); err != nil {
		t.Fatalf("RunTick (second): %v", err)
	}
	second := Export(rt.Root())

	if diff := cmp.Diff(first, second, snapshotCmpOpts...); diff != "" {
		t.Fatalf("Export() changed across a re-run with no dependency changes (-first +second):\n%s", diff)
	}
}
