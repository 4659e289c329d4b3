package fibre

// funcDescriptor is a test-only Descriptor built from a plain function,
// mirroring how the teacher's own tests wrap closures behind small adapter
// types instead of hand-writing a new type per scenario.
type funcDescriptor struct {
	kind  string
	props any
	fn    func(ctx *Ctx) Result
}

func (d *funcDescriptor) Kind() string { return d.kind }

func (d *funcDescriptor) Equal(other Descriptor) bool {
	o, ok := other.(*funcDescriptor)
	if !ok {
		return false
	}
	return d.kind == o.kind && ResultsEqual(d.props, o.props)
}

func (d *funcDescriptor) Evaluate(ctx *Ctx) Result {
	return d.fn(ctx)
}

func node(kind string, props any, fn func(ctx *Ctx) Result) *funcDescriptor {
	return &funcDescriptor{kind: kind, props: props, fn: fn}
}
