package lll

// Component D (spec.md §4.D): turns a validated Node into a linear Assembly,
// resolving variable references to DUP depths and control flow to symbolic
// jump targets. Dispatch is a switch over Node's own `form` classification
// (see node.go) rather than repeated inspection of Value()'s dynamic type,
// per the tagged-variant Design Note.
//
// `height` is threaded through the recursion and names the notional number
// of words already sitting on the operand stack above wherever the overall
// compilation began (always 0 at the outermost call). It is maintained
// exactly, unlike the gas estimator's depth (gas.go), because it is used to
// compute concrete DUP offsets.

import (
	"math/big"

	"github.com/holiman/uint256"
)

// withargs maps a bound variable name to the height at which "with"
// captured it.
type withargs map[string]uint64

// breakTarget names the loop a "break" would exit to: the label to jump to
// and the height at loop entry, used to compute how many words "break" must
// POP before jumping.
type breakTarget struct {
	sym    string
	height uint64
}

// Lower assembles n into a flat Assembly, starting a fresh binding
// environment, height 0 and no enclosing loop. sym mints this compilation's
// symbols; callers share one symbolGen across an entire Compile call so
// that symbols are unique within it (spec.md §4.F).
func Lower(n *Node, sym *symbolGen) (Assembly, error) {
	return lower(n, withargs{}, nil, 0, sym)
}

func lower(n *Node, env withargs, brk *breakTarget, height uint64, sym *symbolGen) (Assembly, error) {
	switch n.form {
	case formLiteral:
		return lowerLiteral(n.value.(*big.Int))

	case formOpcode:
		return lowerOpcode(n, env, brk, height, sym)

	case formVar:
		return lowerVar(n, env, height)

	case formPass:
		return Assembly{}, nil

	case formIf:
		if len(n.args) == 2 {
			return lowerIf2(n, env, brk, height, sym)
		}
		return lowerIf3(n, env, brk, height, sym)

	case formRepeat:
		return lowerRepeat(n, env, height, sym)

	case formBreak:
		return lowerBreak(brk, height)

	case formWith:
		return lowerWith(n, env, brk, height, sym)

	case formLLL:
		return lowerLLL(n, env, brk, height, sym)

	case formSeq:
		return lowerSeq(n, env, brk, height, sym)

	case formClampLT:
		return lowerClampLT(n, env, brk, height, sym)

	case formClamp:
		return lowerClamp(n, env, brk, height, sym)

	case formClampNonZero:
		return lowerClampNonZero(n, env, brk, height, sym)

	default:
		return nil, &UnknownLLLFormError{Node: n}
	}
}

// twoTo255 and twoTo256 bound the range a literal may occupy (spec.md
// §4.D item 2): [-2^255, 2^256).
var (
	twoTo255 = new(big.Int).Lsh(big.NewInt(1), 255)
	twoTo256 = new(big.Int).Lsh(big.NewInt(1), 256)
)

// lowerLiteral range-checks v, reduces it modulo 2^256 and encodes the
// result as the minimal big-endian byte sequence a PUSHk would carry.
// math/big performs the signed pre-reduction arithmetic (uint256.Int is
// unsigned-only and cannot represent v before it's brought into range);
// the reduced, now-unsigned value is then handed to uint256.Int for the
// byte encoding, matching how the rest of this package handles 256-bit
// words.
func lowerLiteral(v *big.Int) (Assembly, error) {
	lo := new(big.Int).Neg(twoTo255)
	if v.Cmp(lo) < 0 || v.Cmp(twoTo256) >= 0 {
		return nil, &LiteralOutOfRangeError{Value: v}
	}
	mod := new(big.Int).Mod(v, twoTo256)

	u := new(uint256.Int)
	u.SetFromBig(mod) // mod is already in [0, 2^256), so this never overflows
	b := u.Bytes()
	if len(b) == 0 {
		b = []byte{0}
	}

	asm := make(Assembly, 0, len(b)+1)
	asm = append(asm, PushK(len(b)))
	for _, x := range b {
		asm = append(asm, Imm(x))
	}
	return asm, nil
}

func lowerOpcode(n *Node, env withargs, brk *breakTarget, height uint64, sym *symbolGen) (Assembly, error) {
	var asm Assembly
	for i := 0; i < len(n.args); i++ {
		child := n.args[len(n.args)-1-i]
		sub, err := lower(child, env, brk, height+uint64(i), sym)
		if err != nil {
			return nil, err
		}
		asm = append(asm, sub...)
	}
	asm = append(asm, Op(toUpper(n.value.(string))))
	return asm, nil
}

func lowerVar(n *Node, env withargs, height uint64) (Assembly, error) {
	name := n.value.(string)
	entry, ok := env[name]
	if !ok {
		// The front-end contract (spec.md §4.G) guarantees every variable
		// reference has an enclosing "with"; this is unreachable under it.
		return nil, &WithDepthExceededError{Name: name, Depth: 0}
	}
	gap := height - entry
	if gap < 1 || gap > 16 {
		return nil, &WithDepthExceededError{Name: name, Depth: uint(gap)}
	}
	return Assembly{DupK(int(gap))}, nil
}

func lowerIf2(n *Node, env withargs, brk *breakTarget, height uint64, sym *symbolGen) (Assembly, error) {
	end := sym.mint()
	test, err := lower(n.args[0], env, brk, height, sym)
	if err != nil {
		return nil, err
	}
	body, err := lower(n.args[1], env, brk, height, sym)
	if err != nil {
		return nil, err
	}
	asm := append(Assembly{}, test...)
	asm = append(asm, Op("ISZERO"), SymbolUse(end), Op("JUMPI"))
	asm = append(asm, body...)
	asm = append(asm, SymbolDef(end), JumpDest{})
	return asm, nil
}

func lowerIf3(n *Node, env withargs, brk *breakTarget, height uint64, sym *symbolGen) (Assembly, error) {
	mid, end := sym.mint(), sym.mint()
	test, err := lower(n.args[0], env, brk, height, sym)
	if err != nil {
		return nil, err
	}
	then, err := lower(n.args[1], env, brk, height, sym)
	if err != nil {
		return nil, err
	}
	els, err := lower(n.args[2], env, brk, height, sym)
	if err != nil {
		return nil, err
	}
	asm := append(Assembly{}, test...)
	asm = append(asm, Op("ISZERO"), SymbolUse(mid), Op("JUMPI"))
	asm = append(asm, then...)
	asm = append(asm, SymbolUse(end), Op("JUMP"), SymbolDef(mid), JumpDest{})
	asm = append(asm, els...)
	asm = append(asm, SymbolDef(end), JumpDest{})
	return asm, nil
}

// lowerRepeat implements the four-argument convention <memloc> <start>
// <count> <body> this implementation adopts to resolve spec.md §9's
// documented validator/lowering inconsistency (see SPEC_FULL.md §6): memloc is
// validated for valency by node.go but never lowered or read as an address,
// matching the original implementation's behaviour of always hardcoding
// memory cell 0 for the loop counter.
func lowerRepeat(n *Node, env withargs, height uint64, sym *symbolGen) (Assembly, error) {
	start, count, body := n.args[1], n.args[2], n.args[3]

	countAsm, err := lowerLiteral(count.value.(*big.Int))
	if err != nil {
		return nil, err
	}
	startAsm, err := lower(start, env, nil, height+1, sym)
	if err != nil {
		return nil, err
	}

	startSym, end := sym.mint(), sym.mint()
	brk := &breakTarget{sym: end, height: height + 1}
	bodyAsm, err := lower(body, env, brk, height+1, sym)
	if err != nil {
		return nil, err
	}

	asm := append(Assembly{}, countAsm...)
	asm = append(asm, startAsm...)
	asm = append(asm, PushK(1), Imm(0), DupK(2), Op("MSTORE"), SymbolDef(startSym), JumpDest{})
	asm = append(asm, bodyAsm...)
	asm = append(asm,
		DupK(1), Op("MLOAD"), PushK(1), Imm(1), Op("ADD"), DupK(1), DupK(3), Op("MSTORE"),
		DupK(3), Op("EQ"), Op("ISZERO"), SymbolUse(startSym), Op("JUMPI"),
		SymbolDef(end), JumpDest{}, Op("POP"), Op("POP"),
	)
	return asm, nil
}

func lowerBreak(brk *breakTarget, height uint64) (Assembly, error) {
	if brk == nil {
		return nil, &BreakOutsideLoopError{}
	}
	gap := height - brk.height
	asm := make(Assembly, 0, gap+2)
	for i := uint64(0); i < gap; i++ {
		asm = append(asm, Op("POP"))
	}
	asm = append(asm, SymbolUse(brk.sym), Op("JUMP"))
	return asm, nil
}

func lowerWith(n *Node, env withargs, brk *breakTarget, height uint64, sym *symbolGen) (Assembly, error) {
	name := n.args[0].value.(string)
	init, err := lower(n.args[1], env, brk, height, sym)
	if err != nil {
		return nil, err
	}

	prior, hadPrior := env[name]
	env[name] = height
	defer func() {
		if hadPrior {
			env[name] = prior
		} else {
			delete(env, name)
		}
	}()

	body, err := lower(n.args[2], env, brk, height+1, sym)
	if err != nil {
		return nil, err
	}
	return append(init, body...), nil
}

// lowerLLL implements spec.md §4.D item 10: compile the inner program in an
// empty environment, emit a forward jump over an inlined copy of it, then
// CODECOPY that copy to the destination at runtime, leaving its length on
// the stack.
func lowerLLL(n *Node, env withargs, brk *breakTarget, height uint64, sym *symbolGen) (Assembly, error) {
	inner, err := Lower(n.args[0], sym)
	if err != nil {
		return nil, err
	}
	begin, end := sym.mint(), sym.mint()

	dest, err := lower(n.args[1], env, brk, height+2, sym)
	if err != nil {
		return nil, err
	}

	asm := Assembly{SymbolUse(end), Op("JUMP"), SymbolDef(begin), Blank{}}
	asm = append(asm, Sub(inner))
	asm = append(asm, SymbolDef(end), JumpDest{})
	asm = append(asm, SymbolUse(begin), SymbolUse(end), Op("SUB"))
	asm = append(asm, SymbolUse(begin))
	asm = append(asm, dest...)
	asm = append(asm, Op("CODECOPY"))
	asm = append(asm, SymbolUse(begin), SymbolUse(end), Op("SUB"))
	return asm, nil
}

func lowerSeq(n *Node, env withargs, brk *breakTarget, height uint64, sym *symbolGen) (Assembly, error) {
	var asm Assembly
	for _, a := range n.args {
		sub, err := lower(a, env, brk, height, sym)
		if err != nil {
			return nil, err
		}
		asm = append(asm, sub...)
	}
	return asm, nil
}

func lowerClampLT(n *Node, env withargs, brk *breakTarget, height uint64, sym *symbolGen) (Assembly, error) {
	a, err := lower(n.args[0], env, brk, height, sym)
	if err != nil {
		return nil, err
	}
	bound, err := lower(n.args[1], env, brk, height+1, sym)
	if err != nil {
		return nil, err
	}
	asm := append(Assembly{}, a...)
	asm = append(asm, bound...)
	asm = append(asm, DupK(2), Op("LT"), Op("ISZERO"), Op("PC"), Op("JUMPI"))
	return asm, nil
}

func lowerClamp(n *Node, env withargs, brk *breakTarget, height uint64, sym *symbolGen) (Assembly, error) {
	lo, err := lower(n.args[0], env, brk, height, sym)
	if err != nil {
		return nil, err
	}
	a, err := lower(n.args[1], env, brk, height, sym)
	if err != nil {
		return nil, err
	}
	hi, err := lower(n.args[2], env, brk, height+2, sym)
	if err != nil {
		return nil, err
	}
	asm := append(Assembly{}, lo...)
	asm = append(asm, a...)
	asm = append(asm, DupK(1))
	asm = append(asm, hi...)
	asm = append(asm,
		SwapK(1), Op("GT"), Op("PC"), Op("JUMPI"),
		DupK(1), SwapK(2), Op("LT"), Op("PC"), Op("JUMPI"),
	)
	return asm, nil
}

func lowerClampNonZero(n *Node, env withargs, brk *breakTarget, height uint64, sym *symbolGen) (Assembly, error) {
	a, err := lower(n.args[0], env, brk, height, sym)
	if err != nil {
		return nil, err
	}
	asm := append(Assembly{}, a...)
	asm = append(asm, DupK(1), Op("ISZERO"), Op("PC"), Op("JUMPI"))
	return asm, nil
}
