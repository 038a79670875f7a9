package lookout

import (
	"fmt"

	"github.com/jward/lookout/ast"
	"github.com/jward/lookout/pos"
	"github.com/jward/lookout/types"
)

// Extractor pulls one piece of information out of a match.
type Extractor[T any] interface {
	Extract(m *Match) (T, error)
}

// ExtractorFunc adapts a function to the Extractor interface.
type ExtractorFunc[T any] func(m *Match) (T, error)

// Extract calls f(m).
func (f ExtractorFunc[T]) Extract(m *Match) (T, error) { return f(m) }

// TypeOrKind holds either a kind (type-level match) or a type (value-level
// match).
type TypeOrKind struct {
	kind types.Kind
	typ  types.Type
}

// KindResult wraps a kind.
func KindResult(k types.Kind) TypeOrKind { return TypeOrKind{kind: k} }

// TypeResult wraps a type.
func TypeResult(t types.Type) TypeOrKind { return TypeOrKind{typ: t} }

// Kind returns the kind when the result is type-level.
func (r TypeOrKind) Kind() (types.Kind, bool) { return r.kind, r.kind != nil }

// Type returns the type when the result is value-level.
func (r TypeOrKind) Type() (types.Type, bool) { return r.typ, r.typ != nil }

func (r TypeOrKind) String() string {
	if r.kind != nil {
		return r.kind.String()
	}
	if r.typ != nil {
		return r.typ.String()
	}
	return "<none>"
}

// Pair is the result of two extractors run on the same match.
type Pair[A, B any] struct {
	First  A
	Second B
}

// SpanAt extracts the span of the matched node.
type SpanAt struct{}

// Extract returns the matched node's span.
func (SpanAt) Extract(m *Match) (pos.Span, error) { return m.Span(), nil }

// TypeAt extracts the type at a value-level match or the kind at a
// type-level match. Names without an attached type or kind, such as builtin
// operators and primitive types, are looked up in Env.
type TypeAt struct {
	Env types.Env
}

// Extract returns the type or kind at the match.
func (x TypeAt) Extract(m *Match) (TypeOrKind, error) {
	if m.Level() == TypeLevel {
		k, err := KindAt(x).Extract(m)
		if err != nil {
			return TypeOrKind{}, err
		}
		return KindResult(k), nil
	}
	if t := m.Type(); t != nil {
		return TypeResult(t), nil
	}
	if id, ok := m.Node.(*ast.Ident); ok && x.Env != nil {
		if t, ok := x.Env.FindType(id.Name); ok {
			return TypeResult(t), nil
		}
	}
	return TypeOrKind{}, fmt.Errorf("type at %d: %w", m.Pos, ErrNotFound)
}

// KindAt extracts the kind at a type-level match. Value-level matches have
// no kind.
type KindAt struct {
	Env types.Env
}

// Extract returns the kind at the match.
func (x KindAt) Extract(m *Match) (types.Kind, error) {
	if m.Level() != TypeLevel {
		return nil, fmt.Errorf("kind at %d: value-level node: %w", m.Pos, ErrNotFound)
	}
	if k := m.Kind(); k != nil {
		return k, nil
	}
	if id := kindIdent(m); id != nil && x.Env != nil {
		if k, ok := x.Env.FindKind(id.Name); ok {
			return k, nil
		}
	}
	return nil, fmt.Errorf("kind at %d: %w", m.Pos, ErrNotFound)
}

// kindIdent is the type identifier whose kind the match has when the tree
// attaches none: the match itself, or the type of a record type field.
func kindIdent(m *Match) *ast.TypeIdent {
	field, ok := m.Node.(*ast.TypeField)
	if !ok {
		if id, ok := m.Node.(*ast.TypeIdent); ok {
			return id
		}
		field, ok = m.Parent().(*ast.TypeField)
		if !ok {
			return nil
		}
	}
	id, _ := field.Type.(*ast.TypeIdent)
	return id
}

type both[A, B any] struct {
	a Extractor[A]
	b Extractor[B]
}

// Both runs a and b on the same match and pairs their results. It fails if
// either extractor fails.
func Both[A, B any](a Extractor[A], b Extractor[B]) Extractor[Pair[A, B]] {
	return both[A, B]{a: a, b: b}
}

func (x both[A, B]) Extract(m *Match) (Pair[A, B], error) {
	var out Pair[A, B]
	first, err := x.a.Extract(m)
	if err != nil {
		return out, err
	}
	second, err := x.b.Extract(m)
	if err != nil {
		return out, err
	}
	out.First, out.Second = first, second
	return out, nil
}

// Completion locates p in root and runs ex on the match.
func Completion[T any](ex Extractor[T], root ast.Expr, p pos.BytePos) (T, error) {
	m, err := Locate(root, p)
	if err != nil {
		var zero T
		return zero, err
	}
	return ex.Extract(m)
}

// Find returns the type or kind at p.
func Find(env types.Env, root ast.Expr, p pos.BytePos) (TypeOrKind, error) {
	return Completion[TypeOrKind](TypeAt{Env: env}, root, p)
}

// SpanType returns the span of the node at p together with its type or kind.
func SpanType(env types.Env, root ast.Expr, p pos.BytePos) (pos.Span, TypeOrKind, error) {
	r, err := Completion(Both[pos.Span, TypeOrKind](SpanAt{}, TypeAt{Env: env}), root, p)
	if err != nil {
		return pos.Span{}, TypeOrKind{}, err
	}
	return r.First, r.Second, nil
}
