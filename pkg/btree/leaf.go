package btree

import "github.com/fibretree/fibre"

// Action is a leaf node wrapping a Go function. Two Actions are considered
// equal for memoization purposes if they share the same Name — the function
// value itself is not comparable in Go, so identity is carried by name
// instead.
type Action struct {
	Name string
	Run  func(ctx *fibre.Ctx) Status
}

func (a *Action) Kind() string { return "Action:" + a.Name }

func (a *Action) Equal(other fibre.Descriptor) bool {
	o, ok := other.(*Action)
	return ok && a.Name == o.Name
}

func (a *Action) Evaluate(ctx *fibre.Ctx) fibre.Result {
	return a.Run(ctx)
}
