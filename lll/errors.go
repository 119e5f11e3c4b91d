package lll

import "fmt"

// A MalformedIRError reports an LLL node that fails the validity rules
// checked at construction time (see Node's doc comment).
type MalformedIRError struct {
	Form     string
	Node     any
	Children []*Node
	Reason   string
}

func (e *MalformedIRError) Error() string {
	return fmt.Sprintf("malformed LLL %s node %v (children %v): %s", e.Form, e.Node, e.Children, e.Reason)
}

// A WithDepthExceededError is returned when lowering a variable reference
// would require a DUP deeper than 16, i.e. when height-withargs[name] > 16.
type WithDepthExceededError struct {
	Name  string
	Depth uint
}

func (e *WithDepthExceededError) Error() string {
	return fmt.Sprintf("variable %q is %d deep; DUP can only reach 16", e.Name, e.Depth)
}

// A LiteralOutOfRangeError is returned when an integer literal lies outside
// [-2^255, 2^256).
type LiteralOutOfRangeError struct {
	Value fmt.Stringer
}

func (e *LiteralOutOfRangeError) Error() string {
	return fmt.Sprintf("literal %s outside [-2^255, 2^256)", e.Value)
}

// A BreakOutsideLoopError is returned when lowering a `break` node with no
// enclosing `repeat`.
type BreakOutsideLoopError struct{}

func (e *BreakOutsideLoopError) Error() string {
	return "break outside of an enclosing repeat loop"
}

// An UnknownLLLFormError is returned when a Node's value matches none of the
// recognised forms.
type UnknownLLLFormError struct {
	Node *Node
}

func (e *UnknownLLLFormError) Error() string {
	return fmt.Sprintf("unrecognised LLL form: %v", e.Node)
}

// A GasEstimateUnknownError is returned by the gas estimator when it
// encounters a construct it doesn't know how to classify.
type GasEstimateUnknownError struct {
	Node *Node
}

func (e *GasEstimateUnknownError) Error() string {
	return fmt.Sprintf("can't estimate gas for: %v", e.Node)
}

// An AssemblerUnknownItemError is returned by the two-pass assembler when an
// Item doesn't match any of the enumerated item kinds.
type AssemblerUnknownItemError struct {
	Item any
}

func (e *AssemblerUnknownItemError) Error() string {
	return fmt.Sprintf("assembler encountered unsupported item %T(%v)", e.Item, e.Item)
}
