package lll

import (
	"fmt"
	"sync/atomic"
)

// symbolGen mints symbol strings of the form "_sym_<n>", per spec.md §4.F,
// unique within one symbolGen. Compile creates a fresh symbolGen per call, so
// symbols are unique within one compilation; separate compilations mint the
// same names. The zero value is ready to use. Every increment uses
// sync/atomic, so a symbolGen is safe for concurrent use — Design Notes §9:
// "an atomic counter on the compiler context object".
type symbolGen struct {
	next atomic.Uint64
}

// mint returns a new, never-before-returned symbol from this generator.
func (g *symbolGen) mint() string {
	n := g.next.Add(1)
	return fmt.Sprintf("_sym_%d", n)
}
