package runexec_test

import (
	"testing"

	"github.com/solidifylabs/lllc/lll"
	"github.com/solidifylabs/lllc/lllasm"
	"github.com/solidifylabs/lllc/runexec"
)

func compile(t *testing.T, src string) []byte {
	t.Helper()
	got, err := lll.Compile(lllasm.Source(src))
	if err != nil {
		t.Fatalf("lll.Compile(%q): %v", src, err)
	}
	return got
}

// returnWord wraps an expression that leaves a single 32-byte word on the
// stack with the MSTORE/RETURN boilerplate needed to surface it as the call's
// return data.
func returnWord(expr string) string {
	return "(seq (mstore 0 " + expr + ") (return 0 32))"
}

func TestRunReturnsLiteral(t *testing.T) {
	code := compile(t, returnWord("42"))

	out, err := runexec.Run(code, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got, want := len(out), 32; got != want {
		t.Fatalf("len(Run()) = %d; want %d", got, want)
	}
	if got, want := out[31], byte(42); got != want {
		t.Errorf("Run()[31] = %d; want %d", got, want)
	}
}

func TestRunAddition(t *testing.T) {
	code := compile(t, returnWord("(add 30 12)"))

	out, err := runexec.Run(code, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got, want := out[31], byte(42); got != want {
		t.Errorf("Run()[31] = %d; want %d", got, want)
	}
}

func TestRunRevertPropagatesError(t *testing.T) {
	code := compile(t, "(revert 0 0)")

	if _, err := runexec.Run(code, nil); err == nil {
		t.Error("Run(REVERT): want error, got nil")
	}
}

func TestStartDebuggingSteppingThroughLiteral(t *testing.T) {
	code := compile(t, returnWord("7"))

	dbg, result := runexec.StartDebugging(code, nil)
	defer dbg.FastForward()

	var ops []string
	for !dbg.Done() {
		dbg.Step()
		ops = append(ops, dbg.State().Op.String())
	}

	if len(ops) == 0 {
		t.Fatal("debugger captured zero opcodes before completion")
	}
	if got, want := ops[0], "PUSH1"; got != want {
		t.Errorf("first captured opcode = %q; want %q", got, want)
	}

	out, err := result()
	if err != nil {
		t.Fatalf("result(): %v", err)
	}
	if got, want := out[31], byte(7); got != want {
		t.Errorf("result()[31] = %d; want %d", got, want)
	}
}

func TestRunReadOnlyOption(t *testing.T) {
	code := compile(t, returnWord("1"))

	captured := make(chan bool, 1)
	probe := runexec.FuncOption(func(c *runexec.Configuration) error {
		captured <- c.ReadOnly
		return nil
	})

	if _, err := runexec.Run(code, nil, runexec.ReadOnly(), probe); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := <-captured; !got {
		t.Error("ReadOnly() option did not set Configuration.ReadOnly")
	}
}
