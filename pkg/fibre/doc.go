// Package fibre implements an incremental reactive evaluation runtime for
// dynamic, tree-shaped call graphs.
//
// A caller describes computation as a tree of immutable node descriptions
// ("descriptors"). On each tick the runtime evaluates only the fibres whose
// props or tracked dependencies changed since the last commit; unchanged
// subtrees reuse their prior result. Descriptors may register in-tree state,
// subscribe to ancestor-provided context values, and contribute to
// ancestor-aggregated captures via the hook functions on Ctx.
//
// The package is single-threaded and cooperative: a tick runs to completion
// on the goroutine that calls Runtime.RunTick, and a re-entrant call to
// RunTick fails with ErrReentrantTick. Node functions must not block on
// external I/O; asynchronous work is modeled with UseResource.
package fibre
