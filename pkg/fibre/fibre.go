package fibre

// Status is the lifecycle state of a fibre.
type Status uint8

const (
	StatusUninitialized Status = iota
	StatusActive
	StatusFailed
	StatusDisposed
)

func (s Status) String() string {
	switch s {
	case StatusUninitialized:
		return "Uninitialized"
	case StatusActive:
		return "Active"
	case StatusFailed:
		return "Failed"
	case StatusDisposed:
		return "Disposed"
	default:
		return "Unknown"
	}
}

// dirtyBits tracks why a fibre needs re-evaluation.
type dirtyBits uint8

const (
	dirtyProps dirtyBits = 1 << iota
	dirtyPredecessor
	dirtyState
)

func (d dirtyBits) any() bool { return d != 0 }

// Fibre is the per-call evaluation record the runtime keeps for one node in
// the tree. The runtime's fibre arena owns every Fibre; parent and
// predecessor pointers are non-owning references used only for traversal.
type Fibre struct {
	id      uint64
	keyPath KeyPath
	parent  *Fibre
	runtime *Runtime

	descriptor Descriptor
	result     Result
	hasResult  bool
	revision   uint64

	// children is keyed by the string form of the child's Key; childOrder
	// preserves the order children were first evaluated this tick.
	children   map[string]*Fibre
	childOrder []string

	hooks      []hookSlot
	hookCursor int

	// preds/succs are the dependency edges: if X is a predecessor of Y, a
	// change to X's committed result invalidates Y.
	preds map[*Fibre]struct{}
	succs map[*Fibre]struct{}

	// contextValues holds context bindings provided by this fibre via
	// ProvideContext, keyed by context key.
	contextValues map[any]any

	// contextSubs holds the current UseContext readers of each key this
	// fibre provides, so ProvideContext can invalidate them directly when a
	// rebind changes the value (see ProvideContext).
	contextSubs map[any]map[*Fibre]struct{}

	// captures holds capture aggregators registered by this fibre via
	// ProvideCapture, keyed by capture key.
	captures map[string]*captureProvider

	status Status
	dirty  dirtyBits
	err    error

	effects   []*effectState
	resources []*resourceState
}

func newFibre(runtime *Runtime, parent *Fibre, keyPath KeyPath, descriptor Descriptor) *Fibre {
	return &Fibre{
		id:         nextID(),
		keyPath:    keyPath,
		parent:     parent,
		runtime:    runtime,
		descriptor: descriptor,
		children:   make(map[string]*Fibre),
		preds:      make(map[*Fibre]struct{}),
		succs:      make(map[*Fibre]struct{}),
		status:     StatusUninitialized,
		dirty:      dirtyProps,
	}
}

// ID returns the fibre's process-unique identifier.
func (f *Fibre) ID() uint64 { return f.id }

// KeyPath returns the fibre's stable identity in the tree.
func (f *Fibre) KeyPath() KeyPath { return f.keyPath }

// Status returns the fibre's current lifecycle status.
func (f *Fibre) Status() Status { return f.status }

// Result returns the last committed result and whether one has ever been
// committed.
func (f *Fibre) Result() (Result, bool) { return f.result, f.hasResult }

// Descriptor returns the fibre's current descriptor.
func (f *Fibre) Descriptor() Descriptor { return f.descriptor }

// addDependency records that reader's committed result depends on source's
// committed result. Edges are mutual: reader gains source as a predecessor
// and source gains reader as a successor.
func addDependency(reader, source *Fibre) {
	if reader == nil || source == nil || reader == source {
		return
	}
	reader.preds[source] = struct{}{}
	source.succs[reader] = struct{}{}
}

// clearPredecessors removes this fibre from the successor sets of every
// predecessor it previously read, and empties its own predecessor set. It
// runs at the start of every evaluation since a fibre's predecessor set is
// recomputed fresh each time it runs (a predecessor no longer read must
// stop invalidating it).
func (f *Fibre) clearPredecessors() {
	for p := range f.preds {
		delete(p.succs, f)
	}
	f.preds = make(map[*Fibre]struct{})
}

// invalidate sets a dirty bit and enrolls the fibre in the runtime's work
// queue.
func (f *Fibre) invalidate(reason dirtyBits) {
	if f.status == StatusDisposed {
		return
	}
	f.dirty |= reason
	f.runtime.enqueue(f)
}

// markSuccessorsPredecessorChanged invalidates every successor of f — called
// after a commit in which f's result changed.
func (f *Fibre) markSuccessorsPredecessorChanged() {
	for s := range f.succs {
		s.invalidate(dirtyPredecessor)
	}
}
