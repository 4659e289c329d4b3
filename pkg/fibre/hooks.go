package fibre

// hookKind identifies the type of hook occupying a slot, used to detect a
// HookOrderViolation when the sequence of use_* calls changes between
// evaluations of the same fibre.
type hookKind uint8

const (
	hookState hookKind = iota + 1
	hookEffect
	hookMemo
	hookResource
	hookContext
	hookCapture
)

func (k hookKind) String() string {
	switch k {
	case hookState:
		return "State"
	case hookEffect:
		return "Effect"
	case hookMemo:
		return "Memo"
	case hookResource:
		return "Resource"
	case hookContext:
		return "Context"
	case hookCapture:
		return "Capture"
	default:
		return "Unknown"
	}
}

// hookSlot is one entry in a fibre's hook registry. data holds the
// kind-specific state (see state.go, effect.go, memo.go, resource.go,
// context.go, capture.go for the concrete payload types).
type hookSlot struct {
	kind hookKind
	data any
}

// beginEvaluation resets the hook cursor for a fresh pass over the fibre's
// hook slots. Called at the top of Fibre.evaluate before the descriptor's
// Evaluate/EvaluateAnalysis runs.
func (f *Fibre) beginEvaluation() {
	f.hookCursor = 0
}

// endEvaluation validates that every previously-recorded hook slot was
// visited this pass — a shrinking hook count is also a HookOrderViolation.
func (f *Fibre) endEvaluation() {
	if f.hookCursor != len(f.hooks) {
		panic(wrapEvalError(f.keyPath, ErrHookOrderViolation))
	}
}

// nextHookSlot advances the cursor and returns the slot for this call,
// creating it on first encounter. It panics with HookOrderViolation if an
// existing slot's kind doesn't match what's being requested — the hook call
// sequence must be identical across evaluations of an Active fibre.
func (f *Fibre) nextHookSlot(kind hookKind, init func() any) *hookSlot {
	idx := f.hookCursor
	f.hookCursor++

	if idx < len(f.hooks) {
		slot := &f.hooks[idx]
		if slot.kind != kind {
			panic(wrapEvalError(f.keyPath, ErrHookOrderViolation))
		}
		return slot
	}

	// A slot beyond what earlier evaluations established is only legal on
	// the fibre's first-ever evaluation (mount). Growing the hook count on
	// any later evaluation is a HookOrderViolation, just like shrinking it.
	if f.hasResult {
		panic(wrapEvalError(f.keyPath, ErrHookOrderViolation))
	}
	f.hooks = append(f.hooks, hookSlot{kind: kind, data: init()})
	return &f.hooks[idx]
}
