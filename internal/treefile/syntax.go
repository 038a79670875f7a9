package treefile

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/jward/lookout/types"
)

// ParseType parses the printed form of a type, the same syntax types.Type
// String produces:
//
//	Int    a    Option (Array a)    a -> b -> a    forall a . a -> a
//	{ x : Int, y : a }    (Int, String)    ()    | None | Some a
//
// Names starting with a lowercase letter are type variables.
func ParseType(s string) (types.Type, error) {
	p, err := newSyntaxParser(s)
	if err != nil {
		return nil, fmt.Errorf("parse type %q: %w", s, err)
	}
	t, err := p.typ()
	if err == nil && !p.done() {
		err = fmt.Errorf("unexpected %q", p.peek())
	}
	if err != nil {
		return nil, fmt.Errorf("parse type %q: %w", s, err)
	}
	return t, nil
}

// ParseKind parses a kind such as "Type", "Row" or "Type -> Type".
func ParseKind(s string) (types.Kind, error) {
	p, err := newSyntaxParser(s)
	if err != nil {
		return nil, fmt.Errorf("parse kind %q: %w", s, err)
	}
	k, err := p.kind()
	if err == nil && !p.done() {
		err = fmt.Errorf("unexpected %q", p.peek())
	}
	if err != nil {
		return nil, fmt.Errorf("parse kind %q: %w", s, err)
	}
	return k, nil
}

type syntaxParser struct {
	toks []string
	i    int
}

func newSyntaxParser(s string) (*syntaxParser, error) {
	toks, err := tokenize(s)
	if err != nil {
		return nil, err
	}
	return &syntaxParser{toks: toks}, nil
}

func isNameRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '#' || r == '\''
}

func tokenize(s string) ([]string, error) {
	var toks []string
	rs := []rune(s)
	for i := 0; i < len(rs); {
		r := rs[i]
		switch {
		case unicode.IsSpace(r):
			i++
		case r == '-' && i+1 < len(rs) && rs[i+1] == '>':
			toks = append(toks, "->")
			i += 2
		case strings.ContainsRune("(){},:|.", r):
			toks = append(toks, string(r))
			i++
		case isNameRune(r):
			j := i
			for j < len(rs) && isNameRune(rs[j]) {
				j++
			}
			toks = append(toks, string(rs[i:j]))
			i = j
		default:
			return nil, fmt.Errorf("unexpected character %q", r)
		}
	}
	return toks, nil
}

func (p *syntaxParser) done() bool { return p.i >= len(p.toks) }

func (p *syntaxParser) peek() string {
	if p.done() {
		return ""
	}
	return p.toks[p.i]
}

func (p *syntaxParser) next() string {
	t := p.peek()
	p.i++
	return t
}

func (p *syntaxParser) expect(tok string) error {
	if got := p.next(); got != tok {
		if got == "" {
			return fmt.Errorf("expected %q, got end of input", tok)
		}
		return fmt.Errorf("expected %q, got %q", tok, got)
	}
	return nil
}

func isName(tok string) bool {
	if tok == "" {
		return false
	}
	for _, r := range tok {
		if !isNameRune(r) {
			return false
		}
	}
	return true
}

func isVarName(name string) bool {
	for _, r := range name {
		return unicode.IsLower(r) || r == '_'
	}
	return false
}

func (p *syntaxParser) typ() (types.Type, error) {
	switch p.peek() {
	case "forall":
		p.next()
		var params []string
		for isName(p.peek()) {
			params = append(params, p.next())
		}
		if len(params) == 0 {
			return nil, fmt.Errorf("forall without parameters")
		}
		if err := p.expect("."); err != nil {
			return nil, err
		}
		body, err := p.typ()
		if err != nil {
			return nil, err
		}
		return &types.Forall{Params: params, Body: body}, nil
	case "|":
		return p.variant()
	}

	lhs, err := p.app()
	if err != nil {
		return nil, err
	}
	if p.peek() != "->" {
		return lhs, nil
	}
	p.next()
	rhs, err := p.typ()
	if err != nil {
		return nil, err
	}
	return &types.Function{Arg: lhs, Ret: rhs}, nil
}

// variant parses `| A x | B`. Constructor result types are not written, so
// each constructor returns the variant itself.
func (p *syntaxParser) variant() (types.Type, error) {
	v := &types.Variant{}
	for p.peek() == "|" {
		p.next()
		name := p.next()
		if !isName(name) {
			return nil, fmt.Errorf("expected constructor name, got %q", name)
		}
		var args []types.Type
		for p.startsAtom() {
			a, err := p.atom()
			if err != nil {
				return nil, err
			}
			args = append(args, a)
		}
		v.Ctors = append(v.Ctors, types.Field{Name: name, Type: types.Func(args, v)})
	}
	return v, nil
}

func (p *syntaxParser) startsAtom() bool {
	tok := p.peek()
	return tok == "(" || tok == "{" || (isName(tok) && tok != "forall")
}

func (p *syntaxParser) app() (types.Type, error) {
	head, err := p.atom()
	if err != nil {
		return nil, err
	}
	var args []types.Type
	for p.startsAtom() {
		a, err := p.atom()
		if err != nil {
			return nil, err
		}
		args = append(args, a)
	}
	if len(args) == 0 {
		return head, nil
	}
	return types.NewApp(head, args...), nil
}

func (p *syntaxParser) atom() (types.Type, error) {
	tok := p.next()
	switch {
	case tok == "(":
		if p.peek() == ")" {
			p.next()
			return types.Unit(), nil
		}
		first, err := p.typ()
		if err != nil {
			return nil, err
		}
		if p.peek() != "," {
			return first, p.expect(")")
		}
		elems := []types.Type{first}
		for p.peek() == "," {
			p.next()
			e, err := p.typ()
			if err != nil {
				return nil, err
			}
			elems = append(elems, e)
		}
		return &types.Tuple{Elems: elems}, p.expect(")")

	case tok == "{":
		rec := types.NewRecord()
		for p.peek() != "}" {
			if len(rec.Fields) > 0 {
				if err := p.expect(","); err != nil {
					return nil, err
				}
			}
			name := p.next()
			if !isName(name) {
				return nil, fmt.Errorf("expected field name, got %q", name)
			}
			if err := p.expect(":"); err != nil {
				return nil, err
			}
			ft, err := p.typ()
			if err != nil {
				return nil, err
			}
			rec.Fields = append(rec.Fields, types.Field{Name: name, Type: ft})
		}
		p.next()
		return rec, nil

	case isName(tok):
		if isVarName(tok) {
			return types.NewVar(tok), nil
		}
		return types.NewCon(tok), nil
	}
	if tok == "" {
		return nil, fmt.Errorf("unexpected end of input")
	}
	return nil, fmt.Errorf("unexpected %q", tok)
}

func (p *syntaxParser) kind() (types.Kind, error) {
	var lhs types.Kind
	switch tok := p.next(); {
	case tok == "(":
		k, err := p.kind()
		if err != nil {
			return nil, err
		}
		if err := p.expect(")"); err != nil {
			return nil, err
		}
		lhs = k
	case tok == "Type":
		lhs = types.Typ()
	case tok == "Row":
		lhs = &types.Row{}
	case isName(tok) && isVarName(tok):
		lhs = &types.KindVar{Name: tok}
	case tok == "":
		return nil, fmt.Errorf("unexpected end of input")
	default:
		return nil, fmt.Errorf("unexpected %q", tok)
	}
	if p.peek() != "->" {
		return lhs, nil
	}
	p.next()
	rhs, err := p.kind()
	if err != nil {
		return nil, err
	}
	return types.KindFunc(lhs, rhs), nil
}
