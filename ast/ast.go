// Package ast defines the typed syntax tree that the introspection engine
// queries. Trees are produced by an external parser and type checker: every
// node carries its source span, expressions and patterns carry the type the
// checker assigned, and type-level nodes carry their kind.
//
// Spans nest. A child's span lies within its parent's span and siblings do
// not overlap, except that zero-width nodes may sit on a sibling boundary.
package ast

import (
	"github.com/jward/lookout/metadata"
	"github.com/jward/lookout/pos"
	"github.com/jward/lookout/types"
)

// Node represents any tree node with an associated source span.
type Node interface {
	Span() pos.Span
}

// Expr represents a value-level expression.
type Expr interface {
	Node
	// Type returns the type the checker assigned, or nil when unknown.
	Type() types.Type
	exprNode()
}

// Pattern represents a binding pattern.
type Pattern interface {
	Node
	Type() types.Type
	patternNode()
}

// TypeExpr represents a type written in source.
type TypeExpr interface {
	Node
	// Kind returns the kind the checker assigned, or nil when unknown.
	Kind() types.Kind
	typeExprNode()
}

// Ident is an occurrence of a value-level name. It appears as an expression
// (a variable reference), as a pattern (a binding), and as the name part of
// arguments, record fields, projections and constructors.
type Ident struct {
	Name string
	// Typ is the type of this occurrence. It may be nil, in which case the
	// type is looked up by name in the environment.
	Typ  types.Type
	span pos.Span
}

// NewIdent constructs an identifier node.
func NewIdent(name string, typ types.Type, span pos.Span) *Ident {
	return &Ident{Name: name, Typ: typ, span: span}
}

// Span returns the identifier span.
func (i *Ident) Span() pos.Span { return i.span }

// SetSpan updates the identifier span.
func (i *Ident) SetSpan(span pos.Span) { i.span = span }

// Type returns the type of this occurrence.
func (i *Ident) Type() types.Type { return i.Typ }

func (*Ident) exprNode()    {}
func (*Ident) patternNode() {}

// TypeIdent is an occurrence of a type-level name: a type constructor, an
// alias, or a type parameter.
type TypeIdent struct {
	Name string
	Knd  types.Kind
	span pos.Span
}

// NewTypeIdent constructs a type name node.
func NewTypeIdent(name string, kind types.Kind, span pos.Span) *TypeIdent {
	return &TypeIdent{Name: name, Knd: kind, span: span}
}

// Span returns the type name span.
func (t *TypeIdent) Span() pos.Span { return t.span }

// SetSpan updates the type name span.
func (t *TypeIdent) SetSpan(span pos.Span) { t.span = span }

// Kind returns the kind of the named type.
func (t *TypeIdent) Kind() types.Kind { return t.Knd }

func (*TypeIdent) typeExprNode() {}

// Documented is implemented by declarations that may carry a doc comment.
type Documented interface {
	Node
	Doc() *metadata.Metadata
}
