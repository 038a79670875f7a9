package ast

import (
	"github.com/jward/lookout/pos"
	"github.com/jward/lookout/types"
)

// LiteralKind enumerates literal forms.
type LiteralKind uint8

const (
	IntLit LiteralKind = iota
	FloatLit
	StringLit
	CharLit
	ByteLit
)

// Literal is a constant. It is both an expression and a pattern.
type Literal struct {
	LitKind LiteralKind
	Value   string
	Typ     types.Type
	span    pos.Span
}

// NewLiteral constructs a literal node.
func NewLiteral(kind LiteralKind, value string, typ types.Type, span pos.Span) *Literal {
	return &Literal{LitKind: kind, Value: value, Typ: typ, span: span}
}

// Span returns the literal span.
func (l *Literal) Span() pos.Span { return l.span }

// SetSpan updates the literal span.
func (l *Literal) SetSpan(span pos.Span) { l.span = span }

// Type returns the literal's type.
func (l *Literal) Type() types.Type { return l.Typ }

func (*Literal) exprNode()    {}
func (*Literal) patternNode() {}

// AppExpr is a function application `f a b`. A parenthesized application
// has its span widened to include the parentheses.
type AppExpr struct {
	Func Expr
	Args []Expr
	Typ  types.Type
	span pos.Span
}

// NewAppExpr constructs an application node.
func NewAppExpr(fn Expr, args []Expr, typ types.Type, span pos.Span) *AppExpr {
	return &AppExpr{Func: fn, Args: args, Typ: typ, span: span}
}

// Span returns the application span.
func (e *AppExpr) Span() pos.Span { return e.span }

// SetSpan updates the application span.
func (e *AppExpr) SetSpan(span pos.Span) { e.span = span }

// Type returns the result type of the application.
func (e *AppExpr) Type() types.Type { return e.Typ }

func (*AppExpr) exprNode() {}

// InfixExpr is a binary operator application `lhs op rhs`.
type InfixExpr struct {
	Lhs  Expr
	Op   *Ident
	Rhs  Expr
	Typ  types.Type
	span pos.Span
}

// NewInfixExpr constructs an infix node.
func NewInfixExpr(lhs Expr, op *Ident, rhs Expr, typ types.Type, span pos.Span) *InfixExpr {
	return &InfixExpr{Lhs: lhs, Op: op, Rhs: rhs, Typ: typ, span: span}
}

// Span returns the infix span.
func (e *InfixExpr) Span() pos.Span { return e.span }

// SetSpan updates the infix span.
func (e *InfixExpr) SetSpan(span pos.Span) { e.span = span }

// Type returns the result type of the operator.
func (e *InfixExpr) Type() types.Type { return e.Typ }

func (*InfixExpr) exprNode() {}

// LambdaExpr is an anonymous function `\x y -> body`.
type LambdaExpr struct {
	Args []*Ident
	Body Expr
	// Typ is the full function type of the lambda.
	Typ  types.Type
	span pos.Span
}

// NewLambdaExpr constructs a lambda node.
func NewLambdaExpr(args []*Ident, body Expr, typ types.Type, span pos.Span) *LambdaExpr {
	return &LambdaExpr{Args: args, Body: body, Typ: typ, span: span}
}

// Span returns the lambda span.
func (e *LambdaExpr) Span() pos.Span { return e.span }

// SetSpan updates the lambda span.
func (e *LambdaExpr) SetSpan(span pos.Span) { e.span = span }

// Type returns the function type of the lambda.
func (e *LambdaExpr) Type() types.Type { return e.Typ }

func (*LambdaExpr) exprNode() {}

// LetExpr introduces value bindings visible in Body. When Rec is set every
// binding of the group is visible in all binding bodies.
type LetExpr struct {
	Rec      bool
	Bindings []*ValueBinding
	Body     Expr
	span     pos.Span
}

// NewLetExpr constructs a let node.
func NewLetExpr(rec bool, bindings []*ValueBinding, body Expr, span pos.Span) *LetExpr {
	return &LetExpr{Rec: rec, Bindings: bindings, Body: body, span: span}
}

// Span returns the let span.
func (e *LetExpr) Span() pos.Span { return e.span }

// SetSpan updates the let span.
func (e *LetExpr) SetSpan(span pos.Span) { e.span = span }

// Type returns the type of the body.
func (e *LetExpr) Type() types.Type { return typeOf(e.Body) }

func (*LetExpr) exprNode() {}

// TypeLetExpr introduces type bindings visible in Body.
type TypeLetExpr struct {
	Bindings []*TypeBinding
	Body     Expr
	span     pos.Span
}

// NewTypeLetExpr constructs a type binding node.
func NewTypeLetExpr(bindings []*TypeBinding, body Expr, span pos.Span) *TypeLetExpr {
	return &TypeLetExpr{Bindings: bindings, Body: body, span: span}
}

// Span returns the type binding span.
func (e *TypeLetExpr) Span() pos.Span { return e.span }

// SetSpan updates the type binding span.
func (e *TypeLetExpr) SetSpan(span pos.Span) { e.span = span }

// Type returns the type of the body.
func (e *TypeLetExpr) Type() types.Type { return typeOf(e.Body) }

func (*TypeLetExpr) exprNode() {}

// RecordExpr is a record literal `{ Test, x = 1, y }`. Types lists exported
// type names; Fields lists value fields. Base is the record being extended
// by a `..base` suffix, or nil.
type RecordExpr struct {
	Types  []*TypeIdent
	Fields []*RecordField
	Base   Expr
	Typ    types.Type
	span   pos.Span
}

// NewRecordExpr constructs a record literal node.
func NewRecordExpr(typeFields []*TypeIdent, fields []*RecordField, base Expr, typ types.Type, span pos.Span) *RecordExpr {
	return &RecordExpr{Types: typeFields, Fields: fields, Base: base, Typ: typ, span: span}
}

// Span returns the record span.
func (e *RecordExpr) Span() pos.Span { return e.span }

// SetSpan updates the record span.
func (e *RecordExpr) SetSpan(span pos.Span) { e.span = span }

// Type returns the record type.
func (e *RecordExpr) Type() types.Type { return e.Typ }

func (*RecordExpr) exprNode() {}

// ProjectionExpr is a field access `expr.field`. The type of the projection
// is the type recorded on Field.
type ProjectionExpr struct {
	Expr  Expr
	Field *Ident
	span  pos.Span
}

// NewProjectionExpr constructs a field access node.
func NewProjectionExpr(expr Expr, field *Ident, span pos.Span) *ProjectionExpr {
	return &ProjectionExpr{Expr: expr, Field: field, span: span}
}

// Span returns the projection span.
func (e *ProjectionExpr) Span() pos.Span { return e.span }

// SetSpan updates the projection span.
func (e *ProjectionExpr) SetSpan(span pos.Span) { e.span = span }

// Type returns the type of the accessed field.
func (e *ProjectionExpr) Type() types.Type {
	if e.Field == nil {
		return nil
	}
	return e.Field.Typ
}

func (*ProjectionExpr) exprNode() {}

// DoExpr is a monadic binding `do binder = bound` followed by Body. Binder
// is nil for the `seq bound` form.
type DoExpr struct {
	Binder Pattern
	Bound  Expr
	Body   Expr
	// FlatMap is the bind operation the checker selected, or nil.
	FlatMap *Ident
	span    pos.Span
}

// NewDoExpr constructs a do binding node.
func NewDoExpr(binder Pattern, bound, body Expr, span pos.Span) *DoExpr {
	return &DoExpr{Binder: binder, Bound: bound, Body: body, span: span}
}

// Span returns the do span.
func (e *DoExpr) Span() pos.Span { return e.span }

// SetSpan updates the do span.
func (e *DoExpr) SetSpan(span pos.Span) { e.span = span }

// Type returns the type of the body.
func (e *DoExpr) Type() types.Type { return typeOf(e.Body) }

func (*DoExpr) exprNode() {}

// MatchExpr is a case analysis `match scrutinee with | pat -> expr`.
type MatchExpr struct {
	Scrutinee Expr
	Alts      []*Alternative
	Typ       types.Type
	span      pos.Span
}

// NewMatchExpr constructs a match node.
func NewMatchExpr(scrutinee Expr, alts []*Alternative, typ types.Type, span pos.Span) *MatchExpr {
	return &MatchExpr{Scrutinee: scrutinee, Alts: alts, Typ: typ, span: span}
}

// Span returns the match span.
func (e *MatchExpr) Span() pos.Span { return e.span }

// SetSpan updates the match span.
func (e *MatchExpr) SetSpan(span pos.Span) { e.span = span }

// Type returns the type shared by all alternatives.
func (e *MatchExpr) Type() types.Type { return e.Typ }

func (*MatchExpr) exprNode() {}

// IfExpr is a conditional.
type IfExpr struct {
	Cond Expr
	Then Expr
	Else Expr
	span pos.Span
}

// NewIfExpr constructs a conditional node.
func NewIfExpr(cond, then, els Expr, span pos.Span) *IfExpr {
	return &IfExpr{Cond: cond, Then: then, Else: els, span: span}
}

// Span returns the conditional span.
func (e *IfExpr) Span() pos.Span { return e.span }

// SetSpan updates the conditional span.
func (e *IfExpr) SetSpan(span pos.Span) { e.span = span }

// Type returns the type of the branches.
func (e *IfExpr) Type() types.Type { return typeOf(e.Then) }

func (*IfExpr) exprNode() {}

// TupleExpr is a tuple. The empty tuple is the unit value `()`.
type TupleExpr struct {
	Elems []Expr
	Typ   types.Type
	span  pos.Span
}

// NewTupleExpr constructs a tuple node.
func NewTupleExpr(elems []Expr, typ types.Type, span pos.Span) *TupleExpr {
	return &TupleExpr{Elems: elems, Typ: typ, span: span}
}

// Span returns the tuple span.
func (e *TupleExpr) Span() pos.Span { return e.span }

// SetSpan updates the tuple span.
func (e *TupleExpr) SetSpan(span pos.Span) { e.span = span }

// Type returns the tuple type.
func (e *TupleExpr) Type() types.Type { return e.Typ }

func (*TupleExpr) exprNode() {}

// ArrayExpr is an array literal `[a, b]`.
type ArrayExpr struct {
	Elems []Expr
	Typ   types.Type
	span  pos.Span
}

// NewArrayExpr constructs an array node.
func NewArrayExpr(elems []Expr, typ types.Type, span pos.Span) *ArrayExpr {
	return &ArrayExpr{Elems: elems, Typ: typ, span: span}
}

// Span returns the array span.
func (e *ArrayExpr) Span() pos.Span { return e.span }

// SetSpan updates the array span.
func (e *ArrayExpr) SetSpan(span pos.Span) { e.span = span }

// Type returns the array type.
func (e *ArrayExpr) Type() types.Type { return e.Typ }

func (*ArrayExpr) exprNode() {}

// BlockExpr is a sequence of expressions evaluated in order.
type BlockExpr struct {
	Exprs []Expr
	span  pos.Span
}

// NewBlockExpr constructs a block node.
func NewBlockExpr(exprs []Expr, span pos.Span) *BlockExpr {
	return &BlockExpr{Exprs: exprs, span: span}
}

// Span returns the block span.
func (e *BlockExpr) Span() pos.Span { return e.span }

// SetSpan updates the block span.
func (e *BlockExpr) SetSpan(span pos.Span) { e.span = span }

// Type returns the type of the last expression.
func (e *BlockExpr) Type() types.Type {
	if len(e.Exprs) == 0 {
		return types.Unit()
	}
	return typeOf(e.Exprs[len(e.Exprs)-1])
}

func (*BlockExpr) exprNode() {}

func typeOf(e Expr) types.Type {
	if e == nil {
		return nil
	}
	return e.Type()
}
