package fibre

import "sort"

// Snapshot is a read-only, detached view of one fibre for visualization and
// debugging. It is a value copy — mutating it has no effect on the live
// tree, and holding one past the tick it was taken in is safe even if the
// corresponding Fibre is later disposed.
type Snapshot struct {
	ID           uint64
	KeyPath      string
	Kind         string
	Status       Status
	Result       Result
	Revision     uint64
	Failed       bool
	Err          error
	Predecessors []string
	Children     []Snapshot
}

// Export walks f's subtree in child-evaluation order and returns a detached
// Snapshot tree. Safe to call at any time, including from an Observer
// callback mid-notification.
func Export(f *Fibre) Snapshot {
	s := Snapshot{
		ID:       f.id,
		KeyPath:  f.keyPath.String(),
		Status:   f.status,
		Result:   f.result,
		Revision: f.revision,
		Failed:   f.status == StatusFailed,
		Err:      f.err,
	}
	if f.descriptor != nil {
		s.Kind = f.descriptor.Kind()
	}
	if len(f.preds) > 0 {
		s.Predecessors = make([]string, 0, len(f.preds))
		for p := range f.preds {
			s.Predecessors = append(s.Predecessors, p.keyPath.String())
		}
		sort.Strings(s.Predecessors)
	}
	for _, keyStr := range f.childOrder {
		child, ok := f.children[keyStr]
		if !ok {
			continue
		}
		s.Children = append(s.Children, Export(child))
	}
	return s
}

// Walk calls visit for every fibre in f's subtree, in child-evaluation
// order, stopping early if visit returns false.
func Walk(f *Fibre, visit func(*Fibre) bool) {
	if !visit(f) {
		return
	}
	for _, keyStr := range f.childOrder {
		child, ok := f.children[keyStr]
		if !ok {
			continue
		}
		Walk(child, visit)
	}
}
