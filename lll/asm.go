package lll

import "github.com/ethereum/go-ethereum/core/vm"

// Assembly is an ordered sequence of assembly Items, the output of lowering
// (lower.go) and the input to the two-pass assembler (assemble.go). See
// spec.md §3's "Assembly item" definition.
type Assembly []Item

// An Item is one element of an Assembly: an opcode mnemonic, an inline
// immediate byte, a parametric PUSH/DUP/SWAP mnemonic, a symbol use or
// definition site, the JUMPDEST/BLANK sentinels, or a nested sub-assembly.
// Concrete Item types below are a closed set; the assembler rejects any
// other implementation of Item.
type Item interface {
	item()
}

// Op is a plain opcode mnemonic, e.g. "ADD", "JUMP", "JUMPI". It contributes
// exactly one byte: the opcode's value in the opcode table.
type Op string

func (Op) item() {}

// Imm is a single immediate byte, e.g. one of the bytes following a PUSHk.
type Imm byte

func (Imm) item() {}

// PushK is the parametric PUSHk mnemonic, k in [1,32]. It MUST be followed
// by exactly k Imm items.
type PushK int

func (PushK) item() {}

// DupK is the parametric DUPk mnemonic, k in [1,16].
type DupK int

func (DupK) item() {}

// SwapK is the parametric SWAPk mnemonic, k in [1,16].
type SwapK int

func (SwapK) item() {}

// SymbolUse pushes the (as yet possibly unresolved) byte offset of the
// matching SymbolDef, as a fixed-width PUSH2 (spec.md §3: "at each use site
// it expands to three bytes (PUSH2 hi lo)").
type SymbolUse string

func (SymbolUse) item() {}

// SymbolDef marks the definition site of a symbol: the byte offset
// immediately following it is recorded as that symbol's resolved location.
// It occupies zero bytes itself; it MUST be immediately followed by either
// JumpDest or Blank.
type SymbolDef string

func (SymbolDef) item() {}

// JumpDest emits a single vm.JUMPDEST byte. It follows a SymbolDef when the
// label marks a jump target.
type JumpDest struct{}

func (JumpDest) item() {}

// Blank is the zero-byte sentinel that follows a SymbolDef when the label
// marks a pure code-offset (e.g. the bounds of an "lll" sub-program), adding
// no bytes of its own.
type Blank struct{}

func (Blank) item() {}

// Sub is a nested sub-assembly (spec.md §3: "a nested list that denotes a
// sub-assembly to be assembled independently and appended inline at that
// point"), used by "lll" lowering (spec.md §4.D item 10) to embed an
// independently-labelled inner program.
type Sub Assembly

func (Sub) item() {}

// Byte values borrowed from go-ethereum rather than hand-transcribed, as
// the bases for the parametric PUSHk/DUPk/SWAPk families (spec.md §6:
// "PUSHk (opcode 0x5f + k)").
var (
	pushBase = byte(vm.PUSH0)    // PUSHk = pushBase + k, k in [1,32]
	dupBase  = byte(vm.DUP1) - 1 // DUPk = dupBase + k, k in [1,16]
	swapBase = byte(vm.SWAP1) - 1 // SWAPk = swapBase + k, k in [1,16]

	jumpDestByte = byte(vm.JUMPDEST)
)
