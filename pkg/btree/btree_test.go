package btree

import (
	"testing"

	"github.com/fibretree/fibre"
)

func leaf(name string, status Status) *Action {
	return &Action{Name: name, Run: func(ctx *fibre.Ctx) Status { return status }}
}

func TestSequenceShortCircuitsOnFirstFailure(t *testing.T) {
	order := []string{}
	track := func(name string, status Status) *Action {
		return &Action{Name: name, Run: func(ctx *fibre.Ctx) Status {
			order = append(order, name)
			return status
		}}
	}

	tree := &Sequence{Name: "root", Children: []fibre.Descriptor{
		track("a", Success),
		track("b", Failure),
		track("c", Success),
	}}

	rt := fibre.NewRuntime(tree)
	if err := rt.RunTick(); err != nil {
		t.Fatalf("tick: %v", err)
	}
	result, _ := rt.Root().Result()
	if result.(Status) != Failure {
		t.Fatalf("expected Failure, got %v", result)
	}
	if len(order) != 2 || order[0] != "a" || order[1] != "b" {
		t.Fatalf("expected [a b] (c skipped), got %v", order)
	}
}

func TestSelectorReturnsFirstNonFailure(t *testing.T) {
	order := []string{}
	track := func(name string, status Status) *Action {
		return &Action{Name: name, Run: func(ctx *fibre.Ctx) Status {
			order = append(order, name)
			return status
		}}
	}

	tree := &Selector{Name: "root", Children: []fibre.Descriptor{
		track("a", Failure),
		track("b", Success),
		track("c", Success),
	}}

	rt := fibre.NewRuntime(tree)
	if err := rt.RunTick(); err != nil {
		t.Fatalf("tick: %v", err)
	}
	result, _ := rt.Root().Result()
	if result.(Status) != Success {
		t.Fatalf("expected Success, got %v", result)
	}
	if len(order) != 2 || order[0] != "a" || order[1] != "b" {
		t.Fatalf("expected [a b] (c skipped), got %v", order)
	}
}

func TestInvertSwapsSuccessAndFailure(t *testing.T) {
	tree := &Invert{Name: "root", Child: leaf("leaf", Success)}
	rt := fibre.NewRuntime(tree)
	if err := rt.RunTick(); err != nil {
		t.Fatalf("tick: %v", err)
	}
	result, _ := rt.Root().Result()
	if result.(Status) != Failure {
		t.Fatalf("expected Failure, got %v", result)
	}
}

func TestParallelRequiresAllForSuccess(t *testing.T) {
	tree := &Parallel{Name: "root", Children: []fibre.Descriptor{
		leaf("a", Success),
		leaf("b", Running),
	}}
	rt := fibre.NewRuntime(tree)
	if err := rt.RunTick(); err != nil {
		t.Fatalf("tick: %v", err)
	}
	result, _ := rt.Root().Result()
	if result.(Status) != Running {
		t.Fatalf("expected Running, got %v", result)
	}
}

func TestConditionEvaluatesExpression(t *testing.T) {
	cond, err := NewCondition("battery_ok", "BatteryLevel > 20", func(ctx *fibre.Ctx) map[string]any {
		return map[string]any{"BatteryLevel": 55}
	})
	if err != nil {
		t.Fatalf("compile: %v", err)
	}

	rt := fibre.NewRuntime(cond)
	if err := rt.RunTick(); err != nil {
		t.Fatalf("tick: %v", err)
	}
	result, _ := rt.Root().Result()
	if result.(Status) != Success {
		t.Fatalf("expected Success, got %v", result)
	}
}

func TestSequenceReevaluatesLaterChildAfterFirstChildSucceeds(t *testing.T) {
	var setA fibre.Setter[bool]
	bCalls := 0

	a := &Action{Name: "a", Run: func(ctx *fibre.Ctx) Status {
		ok, set := fibre.UseState(ctx, false)
		setA = set
		if ok {
			return Success
		}
		return Failure
	}}
	b := &Action{Name: "b", Run: func(ctx *fibre.Ctx) Status {
		bCalls++
		return Success
	}}

	tree := &Sequence{Name: "root", Children: []fibre.Descriptor{a, b}}
	rt := fibre.NewRuntime(tree)

	if err := rt.RunTick(); err != nil {
		t.Fatalf("tick 1: %v", err)
	}
	result, _ := rt.Root().Result()
	if result.(Status) != Failure {
		t.Fatalf("tick 1: expected Failure, got %v", result)
	}
	if bCalls != 0 {
		t.Fatalf("tick 1: expected b not evaluated, got %d calls", bCalls)
	}

	setA(true)
	if err := rt.RunTick(); err != nil {
		t.Fatalf("tick 2: %v", err)
	}
	result, _ = rt.Root().Result()
	if result.(Status) != Success {
		t.Fatalf("tick 2: expected Success, got %v", result)
	}
	if bCalls != 1 {
		t.Fatalf("tick 2: expected b evaluated exactly once, got %d calls", bCalls)
	}
}

func TestParseTreeFromYAML(t *testing.T) {
	src := []byte(`
kind: selector
name: root
children:
  - kind: condition
    name: battery_ok
    expr: "BatteryLevel > 20"
  - kind: action
    name: recharge
`)
	reg := Registry{
		Actions: map[string]func(ctx *fibre.Ctx) Status{
			"recharge": func(ctx *fibre.Ctx) Status { return Success },
		},
		Env: func(ctx *fibre.Ctx) map[string]any {
			return map[string]any{"BatteryLevel": 5}
		},
	}

	tree, err := ParseTree(src, reg)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	rt := fibre.NewRuntime(tree)
	if err := rt.RunTick(); err != nil {
		t.Fatalf("tick: %v", err)
	}
	result, _ := rt.Root().Result()
	if result.(Status) != Success {
		t.Fatalf("expected Success (recharge fallback), got %v", result)
	}
}
