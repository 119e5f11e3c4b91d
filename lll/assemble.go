package lll

// Component E (spec.md §4.E): a two-pass assembler over a flat Assembly.
// The layout pass walks the items computing each one's byte length (and,
// for a symbol at a definition site, its resolved offset); the emission
// pass walks the same items again, now able to resolve every symbol use to
// a concrete PUSH2 operand. The layout pass sizes items with itemLen and the
// emission pass (emit) has its own switch over the same item kinds; the two
// are kept in step by hand so that a length computed in the layout pass
// matches the bytes produced for that same item in the emission pass
// (spec.md §8's "two-pass agreement" property).
//
// Every symbol reference assembles to a fixed-width 3-byte PUSH2, unlike
// an iterative variable-width encoding: spec.md
// puts code-size optimisation out of scope, so there is no need for the
// fixed point loop a variable-width encoder would require.

import "fmt"

// Assemble resolves asm's symbols and flattens it into bytecode.
func Assemble(asm Assembly) ([]byte, error) {
	offsets, subBytes, _, err := layout(asm)
	if err != nil {
		return nil, err
	}
	return emit(asm, offsets, subBytes)
}

// layout computes every SymbolDef's resolved byte offset within asm and the
// pre-assembled bytes of every nested Sub (assembled independently, against
// its own offsets, per Design Notes on nested sub-assemblies), alongside
// the total length of asm once flattened.
func layout(asm Assembly) (offsets map[string]uint64, subBytes map[int][]byte, total uint64, err error) {
	offsets = map[string]uint64{}
	subBytes = map[int][]byte{}

	var pos uint64
	for i, it := range asm {
		if def, ok := it.(SymbolDef); ok {
			offsets[string(def)] = pos
			continue
		}
		n, bytes, err := itemLen(it)
		if err != nil {
			return nil, nil, 0, err
		}
		if bytes != nil {
			subBytes[i] = bytes
		}
		pos += n
	}
	return offsets, subBytes, pos, nil
}

// itemLen returns the byte length item contributes when flattened. For a
// Sub, it also returns the sub-assembly's fully-resolved bytes (computed
// eagerly here so the emission pass can simply copy them in place).
func itemLen(it Item) (uint64, []byte, error) {
	switch v := it.(type) {
	case Op:
		if _, ok := opcodeTable[string(v)]; !ok {
			return 0, nil, &AssemblerUnknownItemError{Item: it}
		}
		return 1, nil, nil
	case Imm:
		return 1, nil, nil
	case PushK:
		if v < 1 || v > 32 {
			return 0, nil, &AssemblerUnknownItemError{Item: it}
		}
		return 1, nil, nil
	case DupK:
		if v < 1 || v > 16 {
			return 0, nil, &AssemblerUnknownItemError{Item: it}
		}
		return 1, nil, nil
	case SwapK:
		if v < 1 || v > 16 {
			return 0, nil, &AssemblerUnknownItemError{Item: it}
		}
		return 1, nil, nil
	case SymbolUse:
		return 3, nil, nil
	case SymbolDef:
		return 0, nil, nil
	case JumpDest:
		return 1, nil, nil
	case Blank:
		return 0, nil, nil
	case Sub:
		bytes, err := Assemble(Assembly(v))
		if err != nil {
			return 0, nil, err
		}
		return uint64(len(bytes)), bytes, nil
	default:
		return 0, nil, &AssemblerUnknownItemError{Item: it}
	}
}

func emit(asm Assembly, offsets map[string]uint64, subBytes map[int][]byte) ([]byte, error) {
	var out []byte
	for i, it := range asm {
		switch v := it.(type) {
		case Op:
			out = append(out, opcodeTable[string(v)].byte)
		case Imm:
			out = append(out, byte(v))
		case PushK:
			out = append(out, pushBase+byte(v))
		case DupK:
			out = append(out, dupBase+byte(v))
		case SwapK:
			out = append(out, swapBase+byte(v))
		case SymbolUse:
			off, ok := offsets[string(v)]
			if !ok {
				return nil, fmt.Errorf("lll: symbol %q used but never defined", string(v))
			}
			out = append(out, pushBase+2, byte(off>>8), byte(off))
		case SymbolDef:
			// Zero bytes; its offset was already recorded during layout.
		case JumpDest:
			out = append(out, jumpDestByte)
		case Blank:
			// Zero bytes.
		case Sub:
			out = append(out, subBytes[i]...)
		default:
			return nil, &AssemblerUnknownItemError{Item: it}
		}
	}
	return out, nil
}
