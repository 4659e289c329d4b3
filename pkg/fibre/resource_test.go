package fibre

import "testing"

func TestResourceAcquiresOnceAndReleasesOnDepsChange(t *testing.T) {
	var log []string
	var setDep Setter[int]

	root := node("root", nil, func(ctx *Ctx) Result {
		dep, set := UseState(ctx, 0)
		setDep = set
		value := UseResource(ctx, []any{dep}, func() (string, Cleanup) {
			log = append(log, "acquire")
			return "res", func() { log = append(log, "release") }
		})
		return value
	})

	rt := NewRuntime(root)
	if err := rt.RunTick(); err != nil {
		t.Fatalf("mount tick: %v", err)
	}
	if got := []string{"acquire"}; !equalStrings(log, got) {
		t.Fatalf("expected %v after mount, got %v", got, log)
	}
	result, _ := rt.Root().Result()
	if result != "res" {
		t.Fatalf("expected %q, got %v", "res", result)
	}

	setDep(0)
	if err := rt.RunTick(); err != nil {
		t.Fatalf("unchanged-dep tick: %v", err)
	}
	if got := []string{"acquire"}; !equalStrings(log, got) {
		t.Fatalf("expected no reacquire for unchanged dep, got %v", log)
	}

	setDep(1)
	if err := rt.RunTick(); err != nil {
		t.Fatalf("changed-dep tick: %v", err)
	}
	if got := []string{"acquire", "release", "acquire"}; !equalStrings(log, got) {
		t.Fatalf("expected release then reacquire, got %v", log)
	}
}

func TestResourceReleasedOnUnmount(t *testing.T) {
	var log []string
	var setMounted Setter[bool]

	leaf := node("leaf", nil, func(ctx *Ctx) Result {
		UseResource(ctx, nil, func() (int, Cleanup) {
			log = append(log, "acquire")
			return 1, func() { log = append(log, "release") }
		})
		return nil
	})

	root := node("root", nil, func(ctx *Ctx) Result {
		mounted, set := UseState(ctx, true)
		setMounted = set
		if mounted {
			ctx.EvaluateChild("leaf", leaf)
		}
		return nil
	})

	rt := NewRuntime(root)
	if err := rt.RunTick(); err != nil {
		t.Fatalf("mount tick: %v", err)
	}

	setMounted(false)
	if err := rt.RunTick(); err != nil {
		t.Fatalf("unmount tick: %v", err)
	}

	if got := []string{"acquire", "release"}; !equalStrings(log, got) {
		t.Fatalf("expected acquire then release on unmount, got %v", log)
	}
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
