// Package lllasm reads a small s-expression text syntax and turns it into
// an *lll.Node tree via lll.FromList. It is a minimal stand-in "front end"
// for exercising lll.Source (Component G) from the command line and from
// tests; it is not the surface-language front end spec.md places out of
// scope (no types, no statements, no ABI).
//
// Syntax: a form is either an atom or a parenthesised list of forms.
// An atom is an integer (optionally signed) in Go's integer-literal syntax
// as read by big.Int.SetString with base 0 — decimal, `0x` hexadecimal,
// `0b` binary, or `0o`/leading-`0` octal (so `010` is 8), with optional `_`
// digit separators — or a bare symbol (an opcode/pseudo-opcode name, one of
// the special forms, or a variable name). `;` starts a line comment.
package lllasm

import (
	"fmt"
	"math/big"
	"strings"
	"unicode"

	"github.com/solidifylabs/lllc/lll"
)

// Parse reads exactly one top-level form from src and builds it into an
// *lll.Node tree, applying lll.New's validity rules along the way.
func Parse(src string) (*lll.Node, error) {
	toks := tokenize(src)
	if len(toks) == 0 {
		return nil, fmt.Errorf("lllasm: empty source")
	}
	p := &parser{toks: toks}
	val, err := p.parseForm()
	if err != nil {
		return nil, err
	}
	if p.pos != len(p.toks) {
		return nil, fmt.Errorf("lllasm: unexpected trailing input at token %d (%q)", p.pos, p.toks[p.pos])
	}
	return lll.FromList(val)
}

// Source adapts a literal string of lllasm syntax to lll.Source.
type Source string

// LLL parses s as a single top-level form.
func (s Source) LLL() (*lll.Node, error) { return Parse(string(s)) }

type parser struct {
	toks []string
	pos  int
}

func (p *parser) parseForm() (any, error) {
	if p.pos >= len(p.toks) {
		return nil, fmt.Errorf("lllasm: unexpected end of input")
	}
	tok := p.toks[p.pos]

	if tok == "(" {
		p.pos++
		var list []any
		for {
			if p.pos >= len(p.toks) {
				return nil, fmt.Errorf("lllasm: unclosed '('")
			}
			if p.toks[p.pos] == ")" {
				p.pos++
				break
			}
			elt, err := p.parseForm()
			if err != nil {
				return nil, err
			}
			list = append(list, elt)
		}
		if len(list) == 0 {
			return nil, fmt.Errorf("lllasm: empty list '()'")
		}
		return list, nil
	}
	if tok == ")" {
		return nil, fmt.Errorf("lllasm: unexpected ')'")
	}

	p.pos++
	return parseAtom(tok), nil
}

// parseAtom returns a *big.Int for anything that parses as an integer
// (big.Int.SetString with base 0: decimal, or a 0x/0b/0o/leading-0 prefix,
// optionally signed), and the bare token string otherwise.
func parseAtom(tok string) any {
	if v, ok := new(big.Int).SetString(tok, 0); ok {
		return v
	}
	return tok
}

// tokenize splits src into "(", ")" and bare-word tokens, stripping `;`
// line comments and whitespace.
func tokenize(src string) []string {
	var toks []string
	var cur strings.Builder
	flush := func() {
		if cur.Len() > 0 {
			toks = append(toks, cur.String())
			cur.Reset()
		}
	}

	inComment := false
	for _, r := range src {
		switch {
		case inComment:
			if r == '\n' {
				inComment = false
			}
		case r == ';':
			flush()
			inComment = true
		case r == '(' || r == ')':
			flush()
			toks = append(toks, string(r))
		case unicode.IsSpace(r):
			flush()
		default:
			cur.WriteRune(r)
		}
	}
	flush()
	return toks
}
