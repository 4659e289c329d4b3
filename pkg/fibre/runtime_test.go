package fibre

import (
	"errors"
	"testing"
)

func TestMountEvaluatesOnce(t *testing.T) {
	calls := 0
	root := node("root", nil, func(ctx *Ctx) Result {
		calls++
		return "ok"
	})

	rt := NewRuntime(root)
	if err := rt.RunTick(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected 1 call, got %d", calls)
	}
	result, ok := rt.Root().Result()
	if !ok || result != "ok" {
		t.Fatalf("expected committed result %q, got %v (ok=%v)", "ok", result, ok)
	}
}

func TestStateToggleInvalidatesAncestorsOnly(t *testing.T) {
	var leafSetter Setter[bool]
	midCalls, rootCalls, siblingCalls := 0, 0, 0

	var sibling *funcDescriptor
	sibling = node("sibling", nil, func(ctx *Ctx) Result {
		siblingCalls++
		return nil
	})

	leaf := node("leaf", nil, func(ctx *Ctx) Result {
		v, set := UseState(ctx, false)
		leafSetter = set
		return v
	})

	mid := node("mid", nil, func(ctx *Ctx) Result {
		midCalls++
		return ctx.EvaluateChild("leaf", leaf)
	})

	root := node("root", nil, func(ctx *Ctx) Result {
		rootCalls++
		ctx.EvaluateChild("sibling", sibling)
		return ctx.EvaluateChild("mid", mid)
	})

	rt := NewRuntime(root)
	if err := rt.RunTick(); err != nil {
		t.Fatalf("mount tick: %v", err)
	}
	if midCalls != 1 || rootCalls != 1 || siblingCalls != 1 {
		t.Fatalf("unexpected mount call counts: mid=%d root=%d sibling=%d", midCalls, rootCalls, siblingCalls)
	}

	leafSetter(true)
	if err := rt.RunTick(); err != nil {
		t.Fatalf("toggle tick: %v", err)
	}

	if midCalls != 2 {
		t.Errorf("expected mid re-evaluated once more, got %d calls", midCalls)
	}
	if rootCalls != 2 {
		t.Errorf("expected root re-evaluated once more (ancestor of leaf), got %d calls", rootCalls)
	}
	if siblingCalls != 1 {
		t.Errorf("expected sibling untouched by the toggle, got %d calls", siblingCalls)
	}
}

func TestMemoizedChildSkipsNodeFunction(t *testing.T) {
	childCalls := 0
	child := node("child", "same-props", func(ctx *Ctx) Result {
		childCalls++
		return nil
	})

	var toggle Setter[int]
	root := node("root", nil, func(ctx *Ctx) Result {
		_, set := UseState(ctx, 0)
		toggle = set
		return ctx.EvaluateChild("child", child)
	})

	rt := NewRuntime(root)
	if err := rt.RunTick(); err != nil {
		t.Fatalf("mount tick: %v", err)
	}
	if childCalls != 1 {
		t.Fatalf("expected 1 call at mount, got %d", childCalls)
	}

	toggle(1)
	if err := rt.RunTick(); err != nil {
		t.Fatalf("second tick: %v", err)
	}
	toggle(2)
	if err := rt.RunTick(); err != nil {
		t.Fatalf("third tick: %v", err)
	}

	if childCalls != 1 {
		t.Errorf("expected child's node function to run once despite 3 ticks (memoized), got %d", childCalls)
	}
}

func TestDuplicateChildKeyIsError(t *testing.T) {
	root := node("root", nil, func(ctx *Ctx) Result {
		leaf := node("leaf", nil, func(ctx *Ctx) Result { return nil })
		ctx.EvaluateChild("x", leaf)
		ctx.EvaluateChild("x", leaf)
		return nil
	})

	rt := NewRuntime(root)
	err := rt.RunTick()
	if err == nil {
		t.Fatal("expected an error from duplicate child keys")
	}
	if !errors.Is(err, ErrDuplicateKey) {
		t.Errorf("expected ErrDuplicateKey, got %v", err)
	}
}

func TestHookOrderViolationIsError(t *testing.T) {
	first := true
	root := node("root", nil, func(ctx *Ctx) Result {
		if first {
			UseState(ctx, 0)
		} else {
			UseMemo(ctx, nil, func() int { return 1 })
		}
		return nil
	})

	rt := NewRuntime(root)
	if err := rt.RunTick(); err != nil {
		t.Fatalf("mount tick: %v", err)
	}

	first = false
	rt.root.invalidate(dirtyState)
	err := rt.RunTick()
	if err == nil {
		t.Fatal("expected a hook order violation error")
	}
	if !errors.Is(err, ErrHookOrderViolation) {
		t.Errorf("expected ErrHookOrderViolation, got %v", err)
	}
}

func TestNodeFailurePropagates(t *testing.T) {
	root := node("root", nil, func(ctx *Ctx) Result {
		panic("boom")
	})

	rt := NewRuntime(root)
	err := rt.RunTick()
	if err == nil {
		t.Fatal("expected an error")
	}
	var nf *NodeFailure
	if !errors.As(err, &nf) {
		t.Fatalf("expected *NodeFailure, got %T: %v", err, err)
	}
	if rt.Root().Status() != StatusFailed {
		t.Errorf("expected root status Failed, got %v", rt.Root().Status())
	}
}

func TestEffectRunsAfterCommitAndCleansUpOnDepsChange(t *testing.T) {
	var order []string
	var setDeps Setter[int]

	root := node("root", nil, func(ctx *Ctx) Result {
		dep, set := UseState(ctx, 0)
		setDeps = set
		UseEffect(ctx, []any{dep}, func() Cleanup {
			order = append(order, "run")
			return func() { order = append(order, "cleanup") }
		})
		return nil
	})

	rt := NewRuntime(root)
	if err := rt.RunTick(); err != nil {
		t.Fatalf("mount tick: %v", err)
	}
	if len(order) != 1 || order[0] != "run" {
		t.Fatalf("expected a single run after mount, got %v", order)
	}

	setDeps(1)
	if err := rt.RunTick(); err != nil {
		t.Fatalf("second tick: %v", err)
	}
	if len(order) != 3 || order[1] != "cleanup" || order[2] != "run" {
		t.Fatalf("expected cleanup then run after deps change, got %v", order)
	}
}
