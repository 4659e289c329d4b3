package fibre

import (
	"errors"
	"testing"
)

type themeKey struct{}

func TestContextProvideAndUse(t *testing.T) {
	child := node("child", nil, func(ctx *Ctx) Result {
		return UseContext[string](ctx, themeKey{})
	})

	root := node("root", nil, func(ctx *Ctx) Result {
		ProvideContext(ctx, themeKey{}, "dark")
		return ctx.EvaluateChild("child", child)
	})

	rt := NewRuntime(root)
	if err := rt.RunTick(); err != nil {
		t.Fatalf("tick: %v", err)
	}
	childFibre := rt.Root().children["child"]
	result, _ := childFibre.Result()
	if result != "dark" {
		t.Fatalf("expected %q, got %v", "dark", result)
	}
}

func TestContextMissingProviderIsError(t *testing.T) {
	child := node("child", nil, func(ctx *Ctx) Result {
		return UseContext[string](ctx, themeKey{})
	})
	root := node("root", nil, func(ctx *Ctx) Result {
		return ctx.EvaluateChild("child", child)
	})

	rt := NewRuntime(root)
	err := rt.RunTick()
	if err == nil {
		t.Fatal("expected an error")
	}
	if !errors.Is(err, ErrMissingContext) {
		t.Errorf("expected ErrMissingContext, got %v", err)
	}
}

func TestContextRebindInvalidatesReaders(t *testing.T) {
	var setTheme Setter[string]
	child := node("child", nil, func(ctx *Ctx) Result {
		return UseContext[string](ctx, themeKey{})
	})
	root := node("root", nil, func(ctx *Ctx) Result {
		theme, set := UseState(ctx, "light")
		setTheme = set
		ProvideContext(ctx, themeKey{}, theme)
		return ctx.EvaluateChild("child", child)
	})

	rt := NewRuntime(root)
	if err := rt.RunTick(); err != nil {
		t.Fatalf("mount: %v", err)
	}

	setTheme("dark")
	if err := rt.RunTick(); err != nil {
		t.Fatalf("second tick: %v", err)
	}

	childFibre := rt.Root().children["child"]
	result, _ := childFibre.Result()
	if result != "dark" {
		t.Fatalf("expected child to observe rebound context value %q, got %v", "dark", result)
	}
}
