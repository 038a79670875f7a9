package ast

import (
	"github.com/jward/lookout/metadata"
	"github.com/jward/lookout/pos"
	"github.com/jward/lookout/types"
)

// TypeAppExpr applies a type constructor to arguments: `Option Int`.
type TypeAppExpr struct {
	Head TypeExpr
	Args []TypeExpr
	Knd  types.Kind
	span pos.Span
}

// NewTypeAppExpr constructs a type application node.
func NewTypeAppExpr(head TypeExpr, args []TypeExpr, kind types.Kind, span pos.Span) *TypeAppExpr {
	return &TypeAppExpr{Head: head, Args: args, Knd: kind, span: span}
}

// Span returns the application span.
func (t *TypeAppExpr) Span() pos.Span { return t.span }

// SetSpan updates the application span.
func (t *TypeAppExpr) SetSpan(span pos.Span) { t.span = span }

// Kind returns the kind of the applied type.
func (t *TypeAppExpr) Kind() types.Kind { return t.Knd }

func (*TypeAppExpr) typeExprNode() {}

// FunctionTypeExpr is a function type `a -> b -> c`.
type FunctionTypeExpr struct {
	Args []TypeExpr
	Ret  TypeExpr
	Knd  types.Kind
	span pos.Span
}

// NewFunctionTypeExpr constructs a function type node.
func NewFunctionTypeExpr(args []TypeExpr, ret TypeExpr, kind types.Kind, span pos.Span) *FunctionTypeExpr {
	return &FunctionTypeExpr{Args: args, Ret: ret, Knd: kind, span: span}
}

// Span returns the function type span.
func (t *FunctionTypeExpr) Span() pos.Span { return t.span }

// SetSpan updates the function type span.
func (t *FunctionTypeExpr) SetSpan(span pos.Span) { t.span = span }

// Kind returns the kind of the function type.
func (t *FunctionTypeExpr) Kind() types.Kind { return t.Knd }

func (*FunctionTypeExpr) typeExprNode() {}

// RecordTypeExpr is a record type `{ x : Int, y : Int }`.
type RecordTypeExpr struct {
	Fields []*TypeField
	Knd    types.Kind
	span   pos.Span
}

// NewRecordTypeExpr constructs a record type node.
func NewRecordTypeExpr(fields []*TypeField, kind types.Kind, span pos.Span) *RecordTypeExpr {
	return &RecordTypeExpr{Fields: fields, Knd: kind, span: span}
}

// Span returns the record type span.
func (t *RecordTypeExpr) Span() pos.Span { return t.span }

// SetSpan updates the record type span.
func (t *RecordTypeExpr) SetSpan(span pos.Span) { t.span = span }

// Kind returns the kind of the record type.
func (t *RecordTypeExpr) Kind() types.Kind { return t.Knd }

func (*RecordTypeExpr) typeExprNode() {}

// TypeField is one field of a record type.
type TypeField struct {
	Metadata *metadata.Metadata
	Name     *Ident
	Type     TypeExpr
	span     pos.Span
}

// NewTypeField constructs a record type field.
func NewTypeField(name *Ident, typ TypeExpr, span pos.Span) *TypeField {
	return &TypeField{Name: name, Type: typ, span: span}
}

// Span returns the field span.
func (f *TypeField) Span() pos.Span { return f.span }

// SetSpan updates the field span.
func (f *TypeField) SetSpan(span pos.Span) { f.span = span }

// Doc returns the field's doc metadata.
func (f *TypeField) Doc() *metadata.Metadata { return f.Metadata }

// VariantTypeExpr is a sum type `| A Int | B`.
type VariantTypeExpr struct {
	Ctors []*Constructor
	Knd   types.Kind
	span  pos.Span
}

// NewVariantTypeExpr constructs a variant type node.
func NewVariantTypeExpr(ctors []*Constructor, kind types.Kind, span pos.Span) *VariantTypeExpr {
	return &VariantTypeExpr{Ctors: ctors, Knd: kind, span: span}
}

// Span returns the variant span.
func (t *VariantTypeExpr) Span() pos.Span { return t.span }

// SetSpan updates the variant span.
func (t *VariantTypeExpr) SetSpan(span pos.Span) { t.span = span }

// Kind returns the kind of the variant type.
func (t *VariantTypeExpr) Kind() types.Kind { return t.Knd }

func (*VariantTypeExpr) typeExprNode() {}

// Constructor declares one alternative of a variant type. Name is a value:
// its type is the constructor function.
type Constructor struct {
	Metadata *metadata.Metadata
	Name     *Ident
	Args     []TypeExpr
	span     pos.Span
}

// NewConstructor constructs a variant constructor node.
func NewConstructor(name *Ident, args []TypeExpr, span pos.Span) *Constructor {
	return &Constructor{Name: name, Args: args, span: span}
}

// Span returns the constructor span.
func (c *Constructor) Span() pos.Span { return c.span }

// SetSpan updates the constructor span.
func (c *Constructor) SetSpan(span pos.Span) { c.span = span }

// Doc returns the constructor's doc metadata.
func (c *Constructor) Doc() *metadata.Metadata { return c.Metadata }
