package lll

// Component G (spec.md §4.G): the contract a front end must meet, and the
// single entrypoint that exercises the whole pipeline.

// A Source supplies the LLL tree for one contract (or one independently
// compiled sub-program, e.g. an "lll" node's inner body). Implementations
// are expected to build their tree with New or FromList, which enforce
// spec.md §3's validity rules at construction time; Compile trusts that a
// tree it's handed already satisfies them.
type Source interface {
	LLL() (*Node, error)
}

// SourceFunc adapts a plain function to a Source.
type SourceFunc func() (*Node, error)

// LLL calls f.
func (f SourceFunc) LLL() (*Node, error) { return f() }

// Compile runs the whole pipeline against src's tree: lowering (Component
// D) to a flat Assembly, then assembling (Component E) to bytecode. Under
// the front-end contract documented on Source, a successful call returns
// valid bytecode; any violation of §3's invariants surfaces as one of the
// error kinds in spec.md §7, wrapping back to the offending construct.
func Compile(src Source) ([]byte, error) {
	n, err := src.LLL()
	if err != nil {
		return nil, err
	}
	asm, err := Lower(n, new(symbolGen))
	if err != nil {
		return nil, err
	}
	return Assemble(asm)
}
