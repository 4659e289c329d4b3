package fibre

import "sync/atomic"

// globalIDCounter is the source of unique ids for fibres and hook-owned
// primitives (effects, resources). Atomic so ids stay unique when several
// runtimes run on different goroutines.
var globalIDCounter uint64

func nextID() uint64 {
	return atomic.AddUint64(&globalIDCounter, 1)
}
