// Package lll implements the Low-Level Lisp-like intermediate
// representation at the heart of a Python-surface smart-contract compiler
// targeting the Ethereum Virtual Machine: the IR tree and its validity
// rules (this file), a static gas estimator, lowering to a linear assembly
// sequence with symbolic labels, and a two-pass assembler that resolves
// those labels into concrete bytecode.
//
// The surface-language front end (AST-to-LLL lowering of expressions,
// statements, types and function dispatch), the ABI signature emitter and
// the Keccak-256 primitive are all out of scope: this package only fixes
// the contract a front end must meet (see Source and Compile).
package lll

import (
	"fmt"
	"math/big"
	"strings"
)

type form uint8

const (
	formLiteral form = iota
	formOpcode
	formVar
	formIf
	formWith
	formRepeat
	formSeq
	formPass
	formBreak
	formLLL
	formClamp
	formClampLT
	formClampNonZero
)

// A Node is a validated LLL intermediate-representation tree. Node values are
// immutable once constructed: New() and FromList() are the only ways to
// build one, and both fully validate the tree (and compute its Valency) at
// construction time per the invariants documented on New().
//
// Node deliberately classifies itself into one of a fixed set of forms once,
// at construction (see the unexported `form` type), rather than repeatedly
// re-inspecting Value()'s dynamic type in every downstream pass; Valency,
// the gas estimator and lowering all switch on the same classification.
type Node struct {
	form       form
	value      any // *big.Int (formLiteral) or string (all other forms)
	args       []*Node
	typ        string
	annotation string
	annotated  bool
	valency    int

	// count is populated only for formRepeat: the validated, positive,
	// constant iteration count taken from args[2].
	count int64
}

// Value returns the node's literal integer (as *big.Int) or its symbol
// string (opcode/pseudo-opcode name, "if"/"with"/"repeat"/"seq"/"pass"/
// "break"/"lll", or a variable name).
func (n *Node) Value() any { return n.value }

// Args returns the node's children, in order. The returned slice MUST NOT be
// mutated.
func (n *Node) Args() []*Node { return n.args }

// Typ returns the opaque, front-end-supplied type annotation. The core
// never interprets it.
func (n *Node) Typ() string { return n.typ }

// Annotation returns the opaque, front-end-supplied annotation (e.g. source
// position or comment). The core never interprets it.
func (n *Node) Annotation() string { return n.annotation }

// Valency returns 0 if evaluating the node leaves the stack unchanged, or 1
// if it leaves the stack exactly one word taller. No Node has any other
// valency.
func (n *Node) Valency() int { return n.valency }

// Option configures an optional field of a Node at construction. See
// WithType and WithAnnotation.
type Option func(*Node)

// WithType sets the node's opaque type annotation.
func WithType(typ string) Option {
	return func(n *Node) { n.typ = typ }
}

// WithAnnotation sets the node's opaque annotation.
func WithAnnotation(a string) Option {
	return func(n *Node) { n.annotation = a; n.annotated = true }
}

// New constructs and validates a Node with the given value and children,
// computing its Valency. The value MUST be one of: an integer type
// (int, int64, uint64 or *big.Int), or a string naming an opcode,
// pseudo-opcode, one of the special forms ("if", "with", "repeat", "seq",
// "pass", "break", "lll"), or (if it matches none of those) a variable
// reference.
//
// New enforces spec.md §3's invariants:
//
//   - an integer literal has valency 1 and takes no arguments;
//   - an opcode/pseudo-opcode name requires exactly as many arguments as
//     its table arity, each of valency 1; the node's valency is the table's;
//   - "if" with 2 args requires the test to have valency 1 and the body
//     valency 0, and itself has valency 0; with 3 args, the test must have
//     valency 1 and both arms must have equal valency, which becomes the
//     node's;
//   - "with" takes exactly 3 args: a leaf naming the bound variable, an
//     init of valency 1, and a body whose valency becomes the node's;
//   - "repeat" takes 4 args: a memory location (valency 1), a start value
//     (valency 1), a constant positive integer count (a literal leaf), and
//     a body of valency 0; the node's valency is 0. (This is the
//     four-argument convention this implementation adopts to resolve
//     spec.md §9's documented validator/lowering inconsistency; see
//     SPEC_FULL.md §6.)
//   - "seq" has the valency of its last child (0 if empty);
//   - "lll" takes 2 args — an inner program compiled independently, and a
//     destination of valency 1 — and itself has valency 1 (it leaves the
//     inner program's byte length on the stack);
//   - a bare string matching none of the above is a variable reference of
//     valency 1 and takes no arguments.
//
// Any violation is reported as a *MalformedIRError naming the offending
// construct and its children.
func New(value any, args []*Node, opts ...Option) (*Node, error) {
	n := &Node{args: args}
	for _, o := range opts {
		o(n)
	}

	switch v := value.(type) {
	case *big.Int:
		return finishLiteral(n, new(big.Int).Set(v))
	case int:
		return finishLiteral(n, big.NewInt(int64(v)))
	case int64:
		return finishLiteral(n, big.NewInt(v))
	case uint64:
		return finishLiteral(n, new(big.Int).SetUint64(v))
	case string:
		return finishSymbol(n, v)
	default:
		return nil, &MalformedIRError{
			Form:   fmt.Sprintf("%T", value),
			Node:   value,
			Reason: "value must be an integer or a string",
		}
	}
}

func finishLiteral(n *Node, v *big.Int) (*Node, error) {
	if len(n.args) != 0 {
		return nil, &MalformedIRError{Form: "literal", Node: v, Children: n.args, Reason: "literal nodes take no arguments"}
	}
	n.form = formLiteral
	n.value = v
	n.valency = 1
	return n, nil
}

func finishSymbol(n *Node, v string) (*Node, error) {
	n.value = v
	upper := strings.ToUpper(v)

	if rec, ok := opcodeTable[upper]; ok {
		return finishOpcodeLike(n, upper, rec)
	}

	switch v {
	case "if":
		return finishIf(n)
	case "with":
		return finishWith(n)
	case "repeat":
		return finishRepeat(n)
	case "seq":
		return finishSeq(n)
	case "pass":
		return finishNoArg(n, formPass, 0)
	case "break":
		return finishNoArg(n, formBreak, 0)
	case "lll":
		return finishLLL(n)
	}

	if len(n.args) != 0 {
		return nil, &MalformedIRError{Form: "variable", Node: v, Children: n.args, Reason: fmt.Sprintf("%q is not a known opcode or special form, so it cannot take arguments", v)}
	}
	n.form = formVar
	n.valency = 1
	return n, nil
}

func finishOpcodeLike(n *Node, upper string, rec opRecord) (*Node, error) {
	if got, want := len(n.args), rec.arity; got != want {
		return nil, &MalformedIRError{Form: upper, Node: upper, Children: n.args, Reason: fmt.Sprintf("got %d argument(s), want %d", got, want)}
	}
	for i, a := range n.args {
		if a.valency != 1 {
			return nil, &MalformedIRError{Form: upper, Node: upper, Children: n.args, Reason: fmt.Sprintf("argument %d has valency %d; opcode arguments must have valency 1", i, a.valency)}
		}
	}
	switch upper {
	case pseudoClamp:
		n.form = formClamp
	case pseudoClampLT:
		n.form = formClampLT
	case pseudoClampNonZero:
		n.form = formClampNonZero
	default:
		n.form = formOpcode
	}
	n.valency = rec.valency
	return n, nil
}

func finishIf(n *Node) (*Node, error) {
	switch len(n.args) {
	case 2:
		test, body := n.args[0], n.args[1]
		if test.valency != 1 {
			return nil, &MalformedIRError{Form: "if", Children: n.args, Reason: "2-arg if: test must have valency 1"}
		}
		if body.valency != 0 {
			return nil, &MalformedIRError{Form: "if", Children: n.args, Reason: "2-arg if: body must have valency 0"}
		}
		n.form = formIf
		n.valency = 0
	case 3:
		test, then, els := n.args[0], n.args[1], n.args[2]
		if test.valency != 1 {
			return nil, &MalformedIRError{Form: "if", Children: n.args, Reason: "3-arg if: test must have valency 1"}
		}
		if then.valency != els.valency {
			return nil, &MalformedIRError{Form: "if", Children: n.args, Reason: "3-arg if: then/else valency mismatch"}
		}
		n.form = formIf
		n.valency = then.valency
	default:
		return nil, &MalformedIRError{Form: "if", Children: n.args, Reason: fmt.Sprintf("got %d argument(s), want 2 or 3", len(n.args))}
	}
	return n, nil
}

func finishWith(n *Node) (*Node, error) {
	if len(n.args) != 3 {
		return nil, &MalformedIRError{Form: "with", Children: n.args, Reason: fmt.Sprintf("got %d argument(s), want 3", len(n.args))}
	}
	name, init, body := n.args[0], n.args[1], n.args[2]
	if _, ok := name.value.(string); !ok || len(name.args) != 0 {
		return nil, &MalformedIRError{Form: "with", Children: n.args, Reason: "first argument must be a bare variable name"}
	}
	if init.valency != 1 {
		return nil, &MalformedIRError{Form: "with", Children: n.args, Reason: "init (second argument) must have valency 1"}
	}
	n.form = formWith
	n.valency = body.valency
	return n, nil
}

func finishRepeat(n *Node) (*Node, error) {
	if len(n.args) != 4 {
		return nil, &MalformedIRError{Form: "repeat", Children: n.args, Reason: fmt.Sprintf("got %d argument(s), want 4 (<memloc> <start> <count> <body>)", len(n.args))}
	}
	memloc, start, count, body := n.args[0], n.args[1], n.args[2], n.args[3]
	if memloc.valency != 1 {
		return nil, &MalformedIRError{Form: "repeat", Children: n.args, Reason: "memory-location argument (1st) must have valency 1"}
	}
	if start.valency != 1 {
		return nil, &MalformedIRError{Form: "repeat", Children: n.args, Reason: "start-value argument (2nd) must have valency 1"}
	}
	countVal, ok := count.value.(*big.Int)
	if !ok || len(count.args) != 0 || countVal.Sign() <= 0 || !countVal.IsInt64() {
		return nil, &MalformedIRError{Form: "repeat", Children: n.args, Reason: "count argument (3rd) must be a constant positive integer literal"}
	}
	if body.valency != 0 {
		return nil, &MalformedIRError{Form: "repeat", Children: n.args, Reason: "body argument (4th) must have valency 0"}
	}
	n.form = formRepeat
	n.count = countVal.Int64()
	n.valency = 0
	return n, nil
}

func finishSeq(n *Node) (*Node, error) {
	n.form = formSeq
	if len(n.args) == 0 {
		n.valency = 0
	} else {
		n.valency = n.args[len(n.args)-1].valency
	}
	return n, nil
}

func finishNoArg(n *Node, f form, valency int) (*Node, error) {
	if len(n.args) != 0 {
		return nil, &MalformedIRError{Form: n.value.(string), Children: n.args, Reason: "takes no arguments"}
	}
	n.form = f
	n.valency = valency
	return n, nil
}

func finishLLL(n *Node) (*Node, error) {
	if len(n.args) != 2 {
		return nil, &MalformedIRError{Form: "lll", Children: n.args, Reason: fmt.Sprintf("got %d argument(s), want 2 (<body> <destination>)", len(n.args))}
	}
	if dest := n.args[1]; dest.valency != 1 {
		return nil, &MalformedIRError{Form: "lll", Children: n.args, Reason: "destination (2nd argument) must have valency 1"}
	}
	n.form = formLLL
	n.valency = 1
	return n, nil
}

// FromList is a convenience constructor mirroring the source language's own
// nested-list literal shape (spec.md §4.B): obj's first element is the
// value and the remainder are args, each recursively converted. An element
// that is already a *Node is reused verbatim (so a tree can be assembled
// from a mix of pre-built sub-nodes and raw literals/lists).
//
// obj must be a non-empty []any, or a single *Node/integer/string (in which
// case it's equivalent to FromList([]any{obj}), i.e. a leaf).
func FromList(obj any) (*Node, error) {
	if existing, ok := obj.(*Node); ok {
		return existing, nil
	}
	list, ok := obj.([]any)
	if !ok {
		return New(obj, nil)
	}
	if len(list) == 0 {
		return nil, &MalformedIRError{Form: "list", Node: obj, Reason: "empty list has no value"}
	}
	args := make([]*Node, len(list)-1)
	for i, elt := range list[1:] {
		a, err := FromList(elt)
		if err != nil {
			return nil, err
		}
		args[i] = a
	}
	return New(list[0], args)
}

// String returns a Lisp-like s-expression rendering of n: a single line if
// short, otherwise an indented multi-line form, mirroring the original
// implementation's pretty-printer (see DESIGN.md).
func (n *Node) String() string {
	short := n.shortForm()
	if len(short) < 80 {
		return short
	}
	var b strings.Builder
	fmt.Fprintf(&b, "[%v,\n  ", n.value)
	for _, a := range n.args {
		sub := strings.ReplaceAll(a.String(), "\n", "\n  ")
		b.WriteString(strings.TrimLeft(sub, " "))
		b.WriteString("\n  ")
	}
	return strings.TrimRight(b.String(), " ") + "]"
}

func (n *Node) shortForm() string {
	parts := make([]string, 0, len(n.args)+1)
	parts = append(parts, fmt.Sprintf("%v", n.value))
	for _, a := range n.args {
		parts = append(parts, a.shortForm())
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
