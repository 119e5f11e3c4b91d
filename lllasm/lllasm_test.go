package lllasm

import (
	"testing"

	"github.com/solidifylabs/lllc/lll"
)

func TestParseLiteral(t *testing.T) {
	n, err := Parse("42")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	got, err := lll.Compile(lll.SourceFunc(func() (*lll.Node, error) { return n, nil }))
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if want := []byte{0x60, 0x2a}; string(got) != string(want) {
		t.Errorf("bytecode = %x; want %x", got, want)
	}
}

func TestParseHex(t *testing.T) {
	n, err := Parse("0x2a")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got, want := n.Valency(), 1; got != want {
		t.Errorf("Valency() = %d; want %d", got, want)
	}
}

func TestParseNestedList(t *testing.T) {
	n, err := Parse("(with x 5 (add x x))")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	got, err := lll.Compile(lll.SourceFunc(func() (*lll.Node, error) { return n, nil }))
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	want := []byte{0x60, 0x05, 0x80, 0x81, 0x01}
	if string(got) != string(want) {
		t.Errorf("bytecode = %x; want %x", got, want)
	}
}

func TestParseIgnoresLineComments(t *testing.T) {
	n, err := Parse("; a comment\n(seq 1 2) ; trailing comment\n")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got, want := len(n.Args()), 2; got != want {
		t.Errorf("len(Args()) = %d; want %d", got, want)
	}
}

func TestParseRejectsUnbalancedParens(t *testing.T) {
	if _, err := Parse("(add 1 2"); err == nil {
		t.Error("Parse with unclosed '(': want error, got nil")
	}
	if _, err := Parse("add 1 2)"); err == nil {
		t.Error("Parse with unexpected ')': want error, got nil")
	}
}

func TestSourceImplementsLLLSource(t *testing.T) {
	var _ lll.Source = Source("42")
}
