package fibre

import (
	"fmt"
	"log/slog"
	"sort"
)

// pendingStateWrite is a buffered Setter call, applied at the start of the
// tick that processes it rather than immediately — so every reader of a
// state value sees a consistent snapshot for the duration of one tick.
type pendingStateWrite struct {
	fibre     *Fibre
	slotIndex int
	value     any
}

// Runtime owns the fibre arena rooted at root, the tick work queue, and the
// observers notified as ticks commit. One Runtime runs exactly one tree; it
// is not safe for concurrent use from multiple goroutines — the tick loop is
// single-threaded and cooperative, and RunTick rejects reentrant calls.
type Runtime struct {
	root *Fibre

	queue      map[*Fibre]struct{}
	queueOrder []*Fibre

	pendingWrites []pendingStateWrite
	pendingFx     []*effectState

	ticking bool
	tickNum uint64

	observers     []Observer
	tickObservers []TickObserver
	log           *slog.Logger
}

// Option configures a Runtime at construction time.
type Option func(*Runtime)

// WithLogger overrides the runtime's logger; the default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(rt *Runtime) { rt.log = l }
}

// NewRuntime constructs a Runtime whose root fibre is described by root.
// root is mounted (its first evaluate) on the first call to RunTick, not
// here — construction never evaluates node functions.
func NewRuntime(root Descriptor, opts ...Option) *Runtime {
	rt := &Runtime{
		queue: make(map[*Fibre]struct{}),
		log:   slog.Default(),
	}
	for _, opt := range opts {
		opt(rt)
	}
	rt.root = newFibre(rt, nil, RootKeyPath, root)
	rt.queue[rt.root] = struct{}{}
	rt.queueOrder = append(rt.queueOrder, rt.root)
	return rt
}

// Root returns the runtime's root fibre.
func (rt *Runtime) Root() *Fibre { return rt.root }

// SetRoot replaces the descriptor evaluated at the root on the next tick —
// the external-invalidation entry point devwatch and similar adapters use
// to swap in a freshly parsed tree without discarding the rest of the
// runtime's state. The new descriptor is evaluated against the existing
// root fibre, so children whose keys and props are unchanged are still
// memoized.
func (rt *Runtime) SetRoot(d Descriptor) {
	rt.root.descriptor = d
	rt.root.invalidate(dirtyProps)
}

// AddObserver registers an Observer to receive per-fibre mount/commit/
// unmount instrumentation events. Not safe to call while a tick is in
// progress.
func (rt *Runtime) AddObserver(o Observer) {
	rt.observers = append(rt.observers, o)
}

// AddTickObserver registers a TickObserver to be notified once per
// committed tick with the root fibre of the resulting tree. Not safe to call
// while a tick is in progress.
func (rt *Runtime) AddTickObserver(o TickObserver) {
	rt.tickObservers = append(rt.tickObservers, o)
}

func (rt *Runtime) notifyMount(keyPath KeyPath, kind string, result Result) {
	for _, o := range rt.observers {
		o.OnMount(keyPath, kind, result)
	}
}

func (rt *Runtime) notifyCommit(keyPath KeyPath, kind string, result Result) {
	for _, o := range rt.observers {
		o.OnCommit(keyPath, kind, result)
	}
}

func (rt *Runtime) notifyUnmount(keyPath KeyPath, kind string, result Result) {
	for _, o := range rt.observers {
		o.OnUnmount(keyPath, kind, result)
	}
}

// enqueue adds a fibre to the pending work queue, deduplicating by pointer
// identity — a fibre invalidated twice in the same tick is only evaluated
// once per queue pass.
func (rt *Runtime) enqueue(f *Fibre) {
	if _, ok := rt.queue[f]; ok {
		return
	}
	rt.queue[f] = struct{}{}
	rt.queueOrder = append(rt.queueOrder, f)
}

// queueStateWrite buffers a Setter call for application at the start of the
// next tick to process it.
func (rt *Runtime) queueStateWrite(f *Fibre, slotIndex int, value any) {
	rt.pendingWrites = append(rt.pendingWrites, pendingStateWrite{fibre: f, slotIndex: slotIndex, value: value})
}

// scheduleEffect queues an effect to run during the post-commit drain of the
// tick currently being processed.
func (rt *Runtime) scheduleEffect(e *effectState) {
	rt.pendingFx = append(rt.pendingFx, e)
}

// Invalidate marks an external source of change — e.g. a devwatch file
// event or a robot simulation tick — by invalidating an arbitrary fibre
// directly, bypassing the State/Setter path. Used by observers and adapters
// that sit outside the hook system.
func (rt *Runtime) Invalidate(f *Fibre) {
	f.invalidate(dirtyState)
}

// RunTick drives one full tick: applies buffered state writes, repeatedly
// evaluates the work queue (shallowest key-path depth first, so a parent
// invalidated alongside its own child is re-evaluated before the child
// would otherwise be redundantly visited twice) until empty, then drains
// queued effects in the order they were scheduled.
//
// RunTick returns an error wrapping ErrReentrantTick if called while a tick
// it started is still executing — the engine has no reentrant or concurrent
// tick support.
func (rt *Runtime) RunTick() (err error) {
	if rt.ticking {
		return wrapEvalError(rt.root.keyPath, ErrReentrantTick)
	}
	rt.ticking = true
	rt.tickNum++
	rt.log.Debug("tick started", "tick", rt.tickNum)
	defer func() { rt.ticking = false }()

	defer func() {
		if r := recover(); r != nil {
			var cause error
			if e, ok := r.(error); ok {
				cause = e
			} else {
				cause = fmt.Errorf("fibre: tick panic: %v", r)
			}
			rt.log.Error("tick aborted", "tick", rt.tickNum, "error", cause)
			err = cause
		}
	}()

	rt.applyPendingWrites()

	for len(rt.queueOrder) > 0 {
		batch := rt.queueOrder
		rt.queueOrder = nil
		rt.queue = make(map[*Fibre]struct{})

		sort.SliceStable(batch, func(i, j int) bool {
			return batch[i].keyPath.Depth() < batch[j].keyPath.Depth()
		})

		for _, f := range batch {
			if f.status == StatusDisposed {
				continue
			}
			f.evaluate(f.descriptor, false)
			if f.status == StatusFailed {
				rt.log.Warn("node failure", "keyPath", f.keyPath.String(), "error", f.err)
			}
		}
	}

	rt.drainEffects()
	rt.notifyTickObservers()
	rt.log.Debug("tick committed", "tick", rt.tickNum)
	return nil
}

// applyPendingWrites installs every buffered Setter call and invalidates the
// owning fibre when the value actually changed.
func (rt *Runtime) applyPendingWrites() {
	writes := rt.pendingWrites
	rt.pendingWrites = nil
	for _, w := range writes {
		if w.fibre.status == StatusDisposed {
			continue
		}
		if applyStateWrite(w.fibre, w.slotIndex, w.value) {
			w.fibre.invalidate(dirtyState)
		}
	}
}

// drainEffects runs every effect scheduled during this tick's evaluation
// phase, in the order UseEffect scheduled them (the order node functions
// called UseEffect during evaluation).
func (rt *Runtime) drainEffects() {
	fx := rt.pendingFx
	rt.pendingFx = nil
	for _, e := range fx {
		runEffect(e)
	}
}

func (rt *Runtime) notifyTickObservers() {
	for _, o := range rt.tickObservers {
		o.OnTickCommitted(rt.tickNum, rt.root)
	}
}

// Dispose tears down the entire tree, running every live effect's cleanup
// and every live resource's release.
func (rt *Runtime) Dispose() {
	rt.log.Debug("runtime disposed", "keyPath", rt.root.keyPath.String())
	disposeFibre(rt.root)
}
