package btree

import (
	"github.com/fibretree/fibre"
)

// Sequence evaluates its children in order and stops at the first child that
// does not return Success, returning that child's status. Returns Success
// only if every child succeeded.
type Sequence struct {
	Name     string
	Children []fibre.Descriptor
}

func (s *Sequence) Kind() string { return "Sequence:" + s.Name }

func (s *Sequence) Equal(other fibre.Descriptor) bool {
	o, ok := other.(*Sequence)
	if !ok || s.Name != o.Name || len(s.Children) != len(o.Children) {
		return false
	}
	for i := range s.Children {
		if !descriptorsEqual(s.Children[i], o.Children[i]) {
			return false
		}
	}
	return true
}

func (s *Sequence) Evaluate(ctx *fibre.Ctx) fibre.Result {
	for i, child := range s.Children {
		status := ctx.EvaluateChild(i, child).(Status)
		if status != Success {
			return status
		}
	}
	return Success
}

// Selector evaluates its children in order and stops at the first child that
// does not return Failure, returning that child's status. Returns Failure
// only if every child failed.
type Selector struct {
	Name     string
	Children []fibre.Descriptor
}

func (s *Selector) Kind() string { return "Selector:" + s.Name }

func (s *Selector) Equal(other fibre.Descriptor) bool {
	o, ok := other.(*Selector)
	if !ok || s.Name != o.Name || len(s.Children) != len(o.Children) {
		return false
	}
	for i := range s.Children {
		if !descriptorsEqual(s.Children[i], o.Children[i]) {
			return false
		}
	}
	return true
}

func (s *Selector) Evaluate(ctx *fibre.Ctx) fibre.Result {
	for i, child := range s.Children {
		status := ctx.EvaluateChild(i, child).(Status)
		if status != Failure {
			return status
		}
	}
	return Failure
}

// Parallel evaluates every child regardless of the others' outcomes. It
// commits Failure as soon as any child fails, Success once every child has
// succeeded, and Running otherwise — the classic "require all, fail fast on
// one" parallel policy.
type Parallel struct {
	Name     string
	Children []fibre.Descriptor
}

func (p *Parallel) Kind() string { return "Parallel:" + p.Name }

func (p *Parallel) Equal(other fibre.Descriptor) bool {
	o, ok := other.(*Parallel)
	if !ok || p.Name != o.Name || len(p.Children) != len(o.Children) {
		return false
	}
	for i := range p.Children {
		if !descriptorsEqual(p.Children[i], o.Children[i]) {
			return false
		}
	}
	return true
}

func (p *Parallel) Evaluate(ctx *fibre.Ctx) fibre.Result {
	anyFailed := false
	allSucceeded := true
	for i, child := range p.Children {
		status := ctx.EvaluateChild(i, child).(Status)
		if status == Failure {
			anyFailed = true
		}
		if status != Success {
			allSucceeded = false
		}
	}
	switch {
	case anyFailed:
		return Failure
	case allSucceeded:
		return Success
	default:
		return Running
	}
}

// Invert evaluates a single child and swaps Success and Failure, passing
// Running through unchanged.
type Invert struct {
	Name  string
	Child fibre.Descriptor
}

func (v *Invert) Kind() string { return "Invert:" + v.Name }

func (v *Invert) Equal(other fibre.Descriptor) bool {
	o, ok := other.(*Invert)
	if !ok || v.Name != o.Name {
		return false
	}
	return descriptorsEqual(v.Child, o.Child)
}

func (v *Invert) Evaluate(ctx *fibre.Ctx) fibre.Result {
	status := ctx.EvaluateChild(0, v.Child).(Status)
	switch status {
	case Success:
		return Failure
	case Failure:
		return Success
	default:
		return Running
	}
}

func descriptorsEqual(a, b fibre.Descriptor) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(b)
}
