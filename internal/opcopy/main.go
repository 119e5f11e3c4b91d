// The opcopy binary cross-checks lll/opcodes.go's hand-maintained arity and
// valency columns against go-ethereum's own instruction set, printing a Go
// literal of what those columns derive to. Diff its output's arity/valency
// pairs against lll/opcodes.go after a go-ethereum upgrade to catch any
// stack-effect change upstream; base gas still comes from params' named
// gas-step constants by hand in opcodes.go, since go-ethereum's
// per-instruction constant gas isn't exported.
package main

import (
	"fmt"
	"os"
	"sort"
	"text/template"

	"github.com/ethereum/go-ethereum/core/vm"
	"github.com/ethereum/go-ethereum/params"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type opRow struct {
	Name           string
	Op             vm.OpCode
	Arity, Valency uint
}

func run() error {
	rules := params.Rules{IsCancun: true}
	jumpTable, err := vm.LookupInstructionSet(rules)
	if err != nil {
		return fmt.Errorf("go-ethereum/core/vm.LookupInstructionSet(%+v): %w", rules, err)
	}

	var rows []opRow
	for i := 0; i < 256; i++ {
		o := vm.OpCode(i)
		if vm.StringToOp(o.String()) != o { // invalid opcode
			continue
		}
		// PUSH*/DUP*/SWAP*/JUMPDEST aren't usable as LLL expression
		// opcode nodes (see lll/opcodes.go's package doc): the assembler
		// synthesises PUSH/DUP for literals and variable references, and
		// JUMPDEST only appears in lowered assembly, never in source.
		if (o.IsPush() && o != vm.PUSH0) || o&0xf0 == vm.DUP1 || o&0xf0 == vm.SWAP1 || o == vm.JUMPDEST {
			continue
		}

		minStack, maxStack := jumpTable[o].Stack()
		// Invert the derivation of minStack/maxStack from pop/push:
		// https://github.com/ethereum/go-ethereum/blob/master/core/vm/stack_table.go
		pop := uint(minStack)
		push := uint(params.StackLimit) + pop - uint(maxStack)
		if push > 1 {
			// Not representable as an LLL node: spec.md §3 allows only
			// valency 0 or 1.
			continue
		}

		rows = append(rows, opRow{Name: o.String(), Op: o, Arity: pop, Valency: push})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Name < rows[j].Name })

	tmpl := template.Must(template.New("go").Parse(`// cross-check output from internal/opcopy; not compiled into lllc.
package main

// name: byte, arity, valency
var crossCheck = map[string][3]int{
{{- range .}}
	"{{.Name}}": {int(byte({{printf "%d" .Op}})), {{.Arity}}, {{.Valency}}},
{{- end}}
}
`))
	return tmpl.Execute(os.Stdout, rows)
}
