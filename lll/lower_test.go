package lll

import (
	"errors"
	"math/big"
	"testing"
)

func TestLowerLiteralRangeChecksAndReduces(t *testing.T) {
	tests := []struct {
		name    string
		v       *big.Int
		wantErr bool
		wantLen int // number of immediate bytes, when no error
	}{
		{"zero", big.NewInt(0), false, 1},
		{"small positive", big.NewInt(42), false, 1},
		{"256 needs two bytes", big.NewInt(256), false, 2},
		{"-1 reduces to all-ones 32 bytes", big.NewInt(-1), false, 32},
		{"lower bound -2^255 is in range", new(big.Int).Neg(twoTo255), false, 32},
		{"one below lower bound is out of range", new(big.Int).Sub(new(big.Int).Neg(twoTo255), big.NewInt(1)), true, 0},
		{"2^256-1 is in range", new(big.Int).Sub(twoTo256, big.NewInt(1)), false, 32},
		{"2^256 is out of range", twoTo256, true, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			asm, err := lowerLiteral(tt.v)
			if tt.wantErr {
				var want *LiteralOutOfRangeError
				if !errors.As(err, &want) {
					t.Fatalf("lowerLiteral(%v) error = %v; want *LiteralOutOfRangeError", tt.v, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("lowerLiteral(%v): %v", tt.v, err)
			}
			if got, want := len(asm), tt.wantLen+1; got != want {
				t.Fatalf("lowerLiteral(%v) produced %d items; want %d", tt.v, got, want)
			}
			if _, ok := asm[0].(PushK); !ok {
				t.Fatalf("first item is %T; want PushK", asm[0])
			}
			if got, want := int(asm[0].(PushK)), tt.wantLen; got != want {
				t.Errorf("PushK = %d; want %d", got, want)
			}
		})
	}
}

func TestLowerVariableDepth(t *testing.T) {
	n, err := FromList("x")
	if err != nil {
		t.Fatal(err)
	}
	env := withargs{"x": 0}

	asm, err := lower(n, env, nil, 1, new(symbolGen))
	if err != nil {
		t.Fatalf("lower: %v", err)
	}
	if got, want := asm, (Assembly{DupK(1)}); len(got) != 1 || got[0] != want[0] {
		t.Errorf("lower(x) at height 1 with binding at 0 = %v; want %v", got, want)
	}

	if _, err := lower(n, env, nil, 17, new(symbolGen)); err == nil {
		t.Fatal("lower(x) at depth 17 beyond binding: want WithDepthExceededError, got nil")
	} else {
		var want *WithDepthExceededError
		if !errors.As(err, &want) {
			t.Errorf("error = %v; want *WithDepthExceededError", err)
		}
	}
}

func TestLowerBreakOutsideLoop(t *testing.T) {
	n, err := FromList([]any{"break"})
	if err != nil {
		t.Fatal(err)
	}
	_, err = lower(n, withargs{}, nil, 0, new(symbolGen))
	var want *BreakOutsideLoopError
	if !errors.As(err, &want) {
		t.Fatalf("lower(break) outside loop error = %v; want *BreakOutsideLoopError", err)
	}
}

func TestLowerBreakPopsWordsAboveLoopHead(t *testing.T) {
	brk := &breakTarget{sym: "_sym_loop_end", height: 1}
	n, err := FromList([]any{"break"})
	if err != nil {
		t.Fatal(err)
	}
	asm, err := lower(n, withargs{}, brk, 3, new(symbolGen))
	if err != nil {
		t.Fatalf("lower: %v", err)
	}
	pops := 0
	for _, it := range asm {
		if op, ok := it.(Op); ok && op == "POP" {
			pops++
		}
	}
	if want := 2; pops != want {
		t.Errorf("got %d POPs; want %d (height 3 - loop head 1)", pops, want)
	}
	last := asm[len(asm)-1]
	if op, ok := last.(Op); !ok || op != "JUMP" {
		t.Errorf("last item = %v; want JUMP", last)
	}
}

func TestLowerWithRestoresShadowedBinding(t *testing.T) {
	// (with x 1 (with x 2 x)) -- once lowering of the nested, shadowing
	// withs returns, the environment must be back to its prior state: no
	// binding for x may be left behind.
	n, err := FromList([]any{"with", "x", 1, []any{"with", "x", 2, "x"}})
	if err != nil {
		t.Fatal(err)
	}
	env := withargs{}
	if _, err := lower(n, env, nil, 0, new(symbolGen)); err != nil {
		t.Fatalf("lower: %v", err)
	}
	if _, present := env["x"]; present {
		t.Errorf("env[x] leaked out of with scope: %v", env)
	}
}

func TestLowerClampNonZeroMatchesS6(t *testing.T) {
	n, err := FromList([]any{"clamp_nonzero", 7})
	if err != nil {
		t.Fatal(err)
	}
	asm, err := Lower(n, new(symbolGen))
	if err != nil {
		t.Fatalf("Lower: %v", err)
	}
	got, err := Assemble(asm)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	want := []byte{0x60, 0x07, 0x80, 0x15, 0x58, 0x57}
	if string(got) != string(want) {
		t.Errorf("bytecode = %x; want %x", got, want)
	}
}
