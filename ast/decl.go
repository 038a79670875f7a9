package ast

import (
	"github.com/jward/lookout/metadata"
	"github.com/jward/lookout/pos"
	"github.com/jward/lookout/types"
)

// ValueBinding is one `let` binding: `let name args : annot = expr`.
type ValueBinding struct {
	Metadata *metadata.Metadata
	Name     Pattern
	Args     []*Ident
	// Annotation is the written type signature, or nil.
	Annotation TypeExpr
	Expr       Expr
	// Resolved is the full type of the bound name, including arguments.
	Resolved types.Type
	span     pos.Span
}

// NewValueBinding constructs a value binding node.
func NewValueBinding(name Pattern, args []*Ident, expr Expr, resolved types.Type, span pos.Span) *ValueBinding {
	return &ValueBinding{Name: name, Args: args, Expr: expr, Resolved: resolved, span: span}
}

// Span returns the binding span.
func (b *ValueBinding) Span() pos.Span { return b.span }

// SetSpan updates the binding span.
func (b *ValueBinding) SetSpan(span pos.Span) { b.span = span }

// Doc returns the binding's doc metadata.
func (b *ValueBinding) Doc() *metadata.Metadata { return b.Metadata }

// Type returns the type of the bound name: the resolved type when known,
// otherwise the type on the name pattern.
func (b *ValueBinding) Type() types.Type {
	if b.Resolved != nil {
		return b.Resolved
	}
	if b.Name != nil {
		return b.Name.Type()
	}
	return nil
}

// TypeBinding is one `type Name params = alias` binding.
type TypeBinding struct {
	Metadata *metadata.Metadata
	Name     *TypeIdent
	Params   []*TypeIdent
	Alias    TypeExpr
	span     pos.Span
}

// NewTypeBinding constructs a type binding node.
func NewTypeBinding(name *TypeIdent, params []*TypeIdent, alias TypeExpr, span pos.Span) *TypeBinding {
	return &TypeBinding{Name: name, Params: params, Alias: alias, span: span}
}

// Span returns the binding span.
func (b *TypeBinding) Span() pos.Span { return b.span }

// SetSpan updates the binding span.
func (b *TypeBinding) SetSpan(span pos.Span) { b.span = span }

// Doc returns the binding's doc metadata.
func (b *TypeBinding) Doc() *metadata.Metadata { return b.Metadata }

// RecordField is one value field of a record literal. A field without Value
// is punned: `{ x }` takes the value of the variable x.
type RecordField struct {
	Metadata *metadata.Metadata
	Name     *Ident
	Value    Expr
	span     pos.Span
}

// NewRecordField constructs a record literal field.
func NewRecordField(name *Ident, value Expr, span pos.Span) *RecordField {
	return &RecordField{Name: name, Value: value, span: span}
}

// Span returns the field span.
func (f *RecordField) Span() pos.Span { return f.span }

// SetSpan updates the field span.
func (f *RecordField) SetSpan(span pos.Span) { f.span = span }

// Doc returns the field's doc metadata.
func (f *RecordField) Doc() *metadata.Metadata { return f.Metadata }

// Type returns the type of the field value.
func (f *RecordField) Type() types.Type {
	if f.Value != nil {
		return f.Value.Type()
	}
	if f.Name != nil {
		return f.Name.Typ
	}
	return nil
}

// Alternative is one arm of a match expression.
type Alternative struct {
	Pattern Pattern
	Expr    Expr
	span    pos.Span
}

// NewAlternative constructs a match arm.
func NewAlternative(pattern Pattern, expr Expr, span pos.Span) *Alternative {
	return &Alternative{Pattern: pattern, Expr: expr, span: span}
}

// Span returns the arm span.
func (a *Alternative) Span() pos.Span { return a.span }

// SetSpan updates the arm span.
func (a *Alternative) SetSpan(span pos.Span) { a.span = span }
