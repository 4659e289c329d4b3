package fibre

// Observer receives per-fibre instrumentation events as the runtime mounts,
// commits with a changed result, and unmounts fibres, each carrying that
// fibre's key path, descriptor type identity, and current result. Mount and
// commit events are delivered as each fibre commits, which is after the
// children it evaluated have committed, so a child's event precedes its
// parent's. Unmount events are also delivered children before parent; the
// order among unmounted siblings is not defined. An Observer carries no
// semantic load — the runtime's correctness
// never depends on one being registered.
type Observer interface {
	OnMount(keyPath KeyPath, kind string, result Result)
	OnCommit(keyPath KeyPath, kind string, result Result)
	OnUnmount(keyPath KeyPath, kind string, result Result)
}

// ObserverFuncs adapts up to three plain functions to the Observer
// interface; a nil field is a no-op for that event.
type ObserverFuncs struct {
	Mount   func(keyPath KeyPath, kind string, result Result)
	Commit  func(keyPath KeyPath, kind string, result Result)
	Unmount func(keyPath KeyPath, kind string, result Result)
}

func (o ObserverFuncs) OnMount(keyPath KeyPath, kind string, result Result) {
	if o.Mount != nil {
		o.Mount(keyPath, kind, result)
	}
}

func (o ObserverFuncs) OnCommit(keyPath KeyPath, kind string, result Result) {
	if o.Commit != nil {
		o.Commit(keyPath, kind, result)
	}
}

func (o ObserverFuncs) OnUnmount(keyPath KeyPath, kind string, result Result) {
	if o.Unmount != nil {
		o.Unmount(keyPath, kind, result)
	}
}

// MultiObserver fans each instrumentation event out to every observer in
// order.
type MultiObserver []Observer

func (m MultiObserver) OnMount(keyPath KeyPath, kind string, result Result) {
	for _, o := range m {
		o.OnMount(keyPath, kind, result)
	}
}

func (m MultiObserver) OnCommit(keyPath KeyPath, kind string, result Result) {
	for _, o := range m {
		o.OnCommit(keyPath, kind, result)
	}
}

func (m MultiObserver) OnUnmount(keyPath KeyPath, kind string, result Result) {
	for _, o := range m {
		o.OnUnmount(keyPath, kind, result)
	}
}

// TickObserver is notified once a tick fully commits, with the root fibre
// of the resulting tree (read it with Export or Walk). This is a separate,
// coarser-grained
// mechanism from Observer: it exists for consumers that want the whole
// current tree on tick boundaries (a visualization push, a tick-scoped
// trace span), not a running count of individual mount/commit/unmount
// events.
type TickObserver interface {
	OnTickCommitted(tick uint64, root *Fibre)
}

// TickObserverFunc adapts a plain function to the TickObserver interface.
type TickObserverFunc func(tick uint64, root *Fibre)

func (f TickObserverFunc) OnTickCommitted(tick uint64, root *Fibre) { f(tick, root) }

// MultiTickObserver fans a single tick notification out to every observer
// in order.
type MultiTickObserver []TickObserver

func (m MultiTickObserver) OnTickCommitted(tick uint64, root *Fibre) {
	for _, o := range m {
		o.OnTickCommitted(tick, root)
	}
}
