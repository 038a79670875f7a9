package ast

import (
	"github.com/jward/lookout/pos"
	"github.com/jward/lookout/types"
)

// An *Ident used as a pattern binds the matched value to its name, and a
// *Literal used as a pattern matches a constant.

// RecordPattern destructures a record `{ Test, x, y = p }`. Types lists the
// type names brought into scope.
type RecordPattern struct {
	Types  []*TypeIdent
	Fields []*PatternField
	Typ    types.Type
	span   pos.Span
}

// NewRecordPattern constructs a record pattern node.
func NewRecordPattern(typeFields []*TypeIdent, fields []*PatternField, typ types.Type, span pos.Span) *RecordPattern {
	return &RecordPattern{Types: typeFields, Fields: fields, Typ: typ, span: span}
}

// Span returns the pattern span.
func (p *RecordPattern) Span() pos.Span { return p.span }

// SetSpan updates the pattern span.
func (p *RecordPattern) SetSpan(span pos.Span) { p.span = span }

// Type returns the record type being destructured.
func (p *RecordPattern) Type() types.Type { return p.Typ }

func (*RecordPattern) patternNode() {}

// PatternField is one field of a record pattern. A field without Value is
// punned: `{ x }` binds the field x to a variable named x.
type PatternField struct {
	Name  *Ident
	Value Pattern
	span  pos.Span
}

// NewPatternField constructs a record pattern field.
func NewPatternField(name *Ident, value Pattern, span pos.Span) *PatternField {
	return &PatternField{Name: name, Value: value, span: span}
}

// Span returns the field span.
func (f *PatternField) Span() pos.Span { return f.span }

// SetSpan updates the field span.
func (f *PatternField) SetSpan(span pos.Span) { f.span = span }

// ConstructorPattern matches a variant constructor `Some x`.
type ConstructorPattern struct {
	Ctor *Ident
	Args []Pattern
	Typ  types.Type
	span pos.Span
}

// NewConstructorPattern constructs a constructor pattern node.
func NewConstructorPattern(ctor *Ident, args []Pattern, typ types.Type, span pos.Span) *ConstructorPattern {
	return &ConstructorPattern{Ctor: ctor, Args: args, Typ: typ, span: span}
}

// Span returns the pattern span.
func (p *ConstructorPattern) Span() pos.Span { return p.span }

// SetSpan updates the pattern span.
func (p *ConstructorPattern) SetSpan(span pos.Span) { p.span = span }

// Type returns the variant type being matched.
func (p *ConstructorPattern) Type() types.Type { return p.Typ }

func (*ConstructorPattern) patternNode() {}

// TuplePattern destructures a tuple.
type TuplePattern struct {
	Elems []Pattern
	Typ   types.Type
	span  pos.Span
}

// NewTuplePattern constructs a tuple pattern node.
func NewTuplePattern(elems []Pattern, typ types.Type, span pos.Span) *TuplePattern {
	return &TuplePattern{Elems: elems, Typ: typ, span: span}
}

// Span returns the pattern span.
func (p *TuplePattern) Span() pos.Span { return p.span }

// SetSpan updates the pattern span.
func (p *TuplePattern) SetSpan(span pos.Span) { p.span = span }

// Type returns the tuple type.
func (p *TuplePattern) Type() types.Type { return p.Typ }

func (*TuplePattern) patternNode() {}
