package btree

import (
	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/fibretree/fibre"
)

// Condition is a leaf node whose result is a boolean expression compiled
// with expr-lang/expr, evaluated against an environment supplied by Env.
// Authoring a predicate as data ("BatteryLevel > 20") rather than a Go
// closure is what lets trees live in the YAML format parsed by ParseTree.
type Condition struct {
	Name string
	Expr string
	Env  func(ctx *fibre.Ctx) map[string]any

	program *vm.Program
}

// NewCondition compiles expr once at construction time; a Condition built
// this way is safe to reuse as a descriptor across many ticks.
func NewCondition(name, expression string, env func(ctx *fibre.Ctx) map[string]any) (*Condition, error) {
	program, err := expr.Compile(expression, expr.AsBool())
	if err != nil {
		return nil, err
	}
	return &Condition{Name: name, Expr: expression, Env: env, program: program}, nil
}

func (c *Condition) Kind() string { return "Condition:" + c.Name }

func (c *Condition) Equal(other fibre.Descriptor) bool {
	o, ok := other.(*Condition)
	return ok && c.Name == o.Name && c.Expr == o.Expr
}

func (c *Condition) Evaluate(ctx *fibre.Ctx) fibre.Result {
	var env map[string]any
	if c.Env != nil {
		env = c.Env(ctx)
	}
	result, err := expr.Run(c.program, env)
	if err != nil {
		panic(err)
	}
	ok, _ := result.(bool)
	if ok {
		return Success
	}
	return Failure
}
