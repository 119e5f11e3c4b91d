package lll

import (
	"errors"
	"math/big"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func mustNode(t *testing.T, obj any) *Node {
	t.Helper()
	n, err := FromList(obj)
	if err != nil {
		t.Fatalf("FromList(%v) error %v", obj, err)
	}
	return n
}

func TestValency(t *testing.T) {
	tests := []struct {
		name string
		obj  any
		want int
	}{
		{"literal", 42, 1},
		{"opcode valency 1", []any{"add", 1, 2}, 1},
		{"opcode valency 0", []any{"pop", 1}, 0},
		{"variable", "x", 1},
		{"if 2-arg", []any{"if", 1, []any{"pop", 1}}, 0},
		{"if 3-arg", []any{"if", 1, 2, 3}, 1},
		{"with", []any{"with", "x", 5, []any{"add", "x", "x"}}, 1},
		{"repeat", []any{"repeat", 0, 0, 3, []any{"pass"}}, 0},
		{"seq empty", []any{"seq"}, 0},
		{"seq", []any{"seq", 1, 2}, 1},
		{"pass", []any{"pass"}, 0},
		{"break (inside loop, checked elsewhere)", []any{"break"}, 0},
		{"lll", []any{"lll", []any{"pass"}, 0}, 1},
		{"clamp", []any{"clamp", 0, 5, 10}, 1},
		{"clamplt", []any{"clamplt", 5, 10}, 1},
		{"clamp_nonzero", []any{"clamp_nonzero", 7}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := mustNode(t, tt.obj)
			if got := n.Valency(); got != tt.want {
				t.Errorf("Valency() = %d; want %d", got, tt.want)
			}
		})
	}
}

func TestMalformed(t *testing.T) {
	tests := []struct {
		name string
		obj  any
	}{
		{"add wrong arity", []any{"add", 1}},
		{"add arg valency 0", []any{"add", []any{"pop", 1}, 1}},
		{"if wrong arity", []any{"if", 1}},
		{"if 2-arg body valency 1", []any{"if", 1, 2}},
		{"if 3-arg valency mismatch", []any{"if", 1, 2, []any{"pop", 1}}},
		{"with wrong arity", []any{"with", "x", 5}},
		{"with non-leaf name", []any{"with", []any{"pop", 1}, 5, "x"}},
		{"repeat wrong arity", []any{"repeat", 0, 0, 3}},
		{"repeat non-constant count", []any{"repeat", 0, 0, "n", []any{"pass"}}},
		{"repeat zero count", []any{"repeat", 0, 0, 0, []any{"pass"}}},
		{"repeat negative count", []any{"repeat", 0, 0, -1, []any{"pass"}}},
		{"lll wrong arity", []any{"lll", []any{"pass"}}},
		{"unknown variable with args", []any{"frobnicate", 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromList(tt.obj)
			if err == nil {
				t.Fatalf("FromList(%v) succeeded; want error", tt.obj)
			}
			var malformed *MalformedIRError
			if !errors.As(err, &malformed) {
				t.Errorf("error %v is not a *MalformedIRError", err)
			}
		})
	}
}

func TestFromListReusesExistingNode(t *testing.T) {
	leaf := mustNode(t, 7)
	n := mustNode(t, []any{"add", leaf, leaf})
	if got, want := len(n.Args()), 2; got != want {
		t.Fatalf("len(Args()) = %d; want %d", got, want)
	}
	sameInstance := cmp.Comparer(func(a, b *Node) bool { return a == b })
	if diff := cmp.Diff(leaf, n.Args()[0], sameInstance); diff != "" {
		t.Errorf("first arg should be the same *Node instance passed in (-want +got):\n%s", diff)
	}
}

func TestLiteralValue(t *testing.T) {
	n := mustNode(t, 42)
	got, ok := n.Value().(*big.Int)
	if !ok {
		t.Fatalf("Value() = %T; want *big.Int", n.Value())
	}
	if want := big.NewInt(42); got.Cmp(want) != 0 {
		t.Errorf("Value() = %v; want %v", got, want)
	}
}

func TestOptions(t *testing.T) {
	n, err := New(1, nil, WithType("uint256"), WithAnnotation("line 1"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if got, want := n.Typ(), "uint256"; got != want {
		t.Errorf("Typ() = %q; want %q", got, want)
	}
	if got, want := n.Annotation(), "line 1"; got != want {
		t.Errorf("Annotation() = %q; want %q", got, want)
	}
}

func TestStringRendersShortFormOnOneLine(t *testing.T) {
	n := mustNode(t, []any{"add", 1, 2})
	if got, want := n.String(), "[add, [1], [2]]"; got != want {
		t.Errorf("String() = %q; want %q", got, want)
	}
}
