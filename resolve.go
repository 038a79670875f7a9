package lookout

import (
	"sort"

	"github.com/jward/lookout/ast"
	"github.com/jward/lookout/pos"
	"github.com/jward/lookout/symbol"
)

// Symbol is a declaration identity.
type Symbol = symbol.Symbol

// scope is one level of lexical nesting. Declarations are kept in order so
// that later ones shadow earlier ones within the same level.
type scope struct {
	parent *scope
	decls  []Symbol
}

func (s *scope) child() *scope { return &scope{parent: s} }

func (s *scope) declare(sym Symbol) { s.decls = append(s.decls, sym) }

func (s *scope) lookup(name string, ns symbol.Namespace) (Symbol, bool) {
	for sc := s; sc != nil; sc = sc.parent {
		for i := len(sc.decls) - 1; i >= 0; i-- {
			d := sc.decls[i]
			if d.Name == name && d.Namespace == ns {
				return d, true
			}
		}
	}
	return Symbol{}, false
}

// visible lists the declarations visible from s, innermost first. Shadowed
// declarations are omitted.
func (s *scope) visible() []Symbol {
	type key struct {
		name string
		ns   symbol.Namespace
	}
	seen := make(map[key]bool)
	var out []Symbol
	for sc := s; sc != nil; sc = sc.parent {
		for i := len(sc.decls) - 1; i >= 0; i-- {
			d := sc.decls[i]
			k := key{d.Name, d.Namespace}
			if seen[k] {
				continue
			}
			seen[k] = true
			out = append(out, d)
		}
	}
	return out
}

// occurrence is one appearance of a symbol in the tree.
type occurrence struct {
	node ast.Node
	sym  Symbol
	decl bool
}

// resolution maps every name occurrence in a tree to the symbol it denotes.
type resolution struct {
	bySite      map[ast.Node]Symbol
	occurrences []occurrence
	declSites   map[Symbol]ast.Node

	// defs records the expression bound to a value symbol, so that a
	// projection on the symbol can be resolved to the field declaration.
	defs        map[Symbol]ast.Expr
	projections []*ast.ProjectionExpr

	// at is the position whose scope is captured in atScope.
	at      pos.BytePos
	hasAt   bool
	atScope *scope
	atDepth int
}

// resolveTree resolves every name occurrence in root.
func resolveTree(root ast.Expr) *resolution {
	r := newResolution()
	r.expr(root, &scope{}, 0)
	r.finish()
	return r
}

// resolveAt resolves root and additionally captures the scope in effect at p.
func resolveAt(root ast.Expr, p pos.BytePos) *resolution {
	r := newResolution()
	r.at, r.hasAt, r.atDepth = p, true, -1
	r.expr(root, &scope{}, 0)
	r.finish()
	return r
}

func newResolution() *resolution {
	return &resolution{
		bySite:    make(map[ast.Node]Symbol),
		declSites: make(map[Symbol]ast.Node),
		defs:      make(map[Symbol]ast.Expr),
	}
}

// symbolOf returns the symbol for an identifier-shaped node.
func (r *resolution) symbolOf(n ast.Node) (Symbol, bool) {
	sym, ok := r.bySite[n]
	return sym, ok
}

// occurrencesOf returns the spans at which sym appears: the declaration
// first, then every use in source order.
func (r *resolution) occurrencesOf(sym Symbol) []pos.Span {
	var decl []pos.Span
	var uses []pos.Span
	for _, o := range r.occurrences {
		if o.sym != sym {
			continue
		}
		if o.decl {
			decl = append(decl, o.node.Span())
		} else {
			uses = append(uses, o.node.Span())
		}
	}
	sort.SliceStable(uses, func(i, j int) bool { return uses[i].Start < uses[j].Start })
	return append(decl, uses...)
}

// visibleAt returns the declarations in scope at the captured position.
func (r *resolution) visibleAt() []Symbol {
	if r.atScope == nil {
		return nil
	}
	return r.atScope.visible()
}

func (r *resolution) capture(n ast.Node, sc *scope, depth int) {
	if r.hasAt && depth >= r.atDepth && n.Span().Contains(r.at) {
		r.atScope, r.atDepth = sc, depth
	}
}

func (r *resolution) record(n ast.Node, sym Symbol, decl bool) {
	r.bySite[n] = sym
	r.occurrences = append(r.occurrences, occurrence{node: n, sym: sym, decl: decl})
	if decl {
		if _, ok := r.declSites[sym]; !ok {
			r.declSites[sym] = n
		}
	}
}

func (r *resolution) declareValue(id *ast.Ident, sc *scope) Symbol {
	sym := symbol.New(id.Name, id.Span(), symbol.Value)
	sc.declare(sym)
	r.record(id, sym, true)
	return sym
}

func (r *resolution) declareType(id *ast.TypeIdent, sc *scope) Symbol {
	sym := symbol.New(id.Name, id.Span(), symbol.Type)
	sc.declare(sym)
	r.record(id, sym, true)
	return sym
}

func (r *resolution) useValue(id *ast.Ident, sc *scope) {
	sym, ok := sc.lookup(id.Name, symbol.Value)
	if !ok {
		sym = symbol.NewFree(id.Name, symbol.Value)
	}
	r.record(id, sym, false)
}

func (r *resolution) useType(id *ast.TypeIdent, sc *scope) {
	sym, ok := sc.lookup(id.Name, symbol.Type)
	if !ok {
		sym = symbol.NewFree(id.Name, symbol.Type)
	}
	r.record(id, sym, false)
}

func (r *resolution) expr(e ast.Expr, sc *scope, depth int) {
	if e == nil {
		return
	}
	r.capture(e, sc, depth)
	depth++

	switch e := e.(type) {
	case *ast.Ident:
		r.useValue(e, sc)

	case *ast.Literal:

	case *ast.AppExpr:
		r.expr(e.Func, sc, depth)
		for _, a := range e.Args {
			r.expr(a, sc, depth)
		}

	case *ast.InfixExpr:
		r.expr(e.Lhs, sc, depth)
		if e.Op != nil {
			r.capture(e.Op, sc, depth)
			r.useValue(e.Op, sc)
		}
		r.expr(e.Rhs, sc, depth)

	case *ast.LambdaExpr:
		inner := sc.child()
		for _, a := range e.Args {
			r.capture(a, inner, depth)
			r.declareValue(a, inner)
		}
		r.expr(e.Body, inner, depth)

	case *ast.LetExpr:
		r.let(e, sc, depth)

	case *ast.TypeLetExpr:
		r.typeLet(e, sc, depth)

	case *ast.RecordExpr:
		for _, t := range e.Types {
			r.capture(t, sc, depth)
			r.useType(t, sc)
		}
		for _, f := range e.Fields {
			r.capture(f, sc, depth)
			if f.Name == nil {
				r.expr(f.Value, sc, depth+1)
				continue
			}
			r.capture(f.Name, sc, depth+1)
			if f.Value == nil {
				r.useValue(f.Name, sc)
				continue
			}
			r.record(f.Name, symbol.New(f.Name.Name, f.Name.Span(), symbol.Field), true)
			r.expr(f.Value, sc, depth+1)
		}
		r.expr(e.Base, sc, depth)

	case *ast.ProjectionExpr:
		r.expr(e.Expr, sc, depth)
		if e.Field != nil {
			r.capture(e.Field, sc, depth)
			r.projections = append(r.projections, e)
		}

	case *ast.DoExpr:
		r.expr(e.Bound, sc, depth)
		if e.FlatMap != nil {
			r.useValue(e.FlatMap, sc)
		}
		inner := sc.child()
		r.pattern(e.Binder, inner, depth)
		r.expr(e.Body, inner, depth)

	case *ast.MatchExpr:
		r.expr(e.Scrutinee, sc, depth)
		for _, alt := range e.Alts {
			r.capture(alt, sc, depth)
			inner := sc.child()
			r.pattern(alt.Pattern, inner, depth+1)
			r.expr(alt.Expr, inner, depth+1)
		}

	case *ast.IfExpr:
		r.expr(e.Cond, sc, depth)
		r.expr(e.Then, sc, depth)
		r.expr(e.Else, sc, depth)

	case *ast.TupleExpr:
		for _, x := range e.Elems {
			r.expr(x, sc, depth)
		}

	case *ast.ArrayExpr:
		for _, x := range e.Elems {
			r.expr(x, sc, depth)
		}

	case *ast.BlockExpr:
		for _, x := range e.Exprs {
			r.expr(x, sc, depth)
		}
	}
}

// let resolves a let group. Bindings of a non-recursive group see the
// bindings before them; a binding with arguments also sees itself. In a
// recursive group every binding sees the whole group.
func (r *resolution) let(e *ast.LetExpr, sc *scope, depth int) {
	cur := sc
	if e.Rec {
		cur = sc.child()
		for _, b := range e.Bindings {
			r.capture(b, cur, depth)
			r.pattern(b.Name, cur, depth+1)
			r.define(b)
		}
		for _, b := range e.Bindings {
			r.bindingBody(b, cur, depth+1)
		}
	} else {
		for _, b := range e.Bindings {
			r.capture(b, cur, depth)
			next := cur.child()
			if len(b.Args) > 0 {
				r.pattern(b.Name, next, depth+1)
				r.bindingBody(b, next, depth+1)
			} else {
				r.bindingBody(b, cur, depth+1)
				r.pattern(b.Name, next, depth+1)
			}
			r.define(b)
			cur = next
		}
	}
	r.expr(e.Body, cur, depth)
}

// define remembers the expression bound to a plainly named binding.
func (r *resolution) define(b *ast.ValueBinding) {
	if id, ok := b.Name.(*ast.Ident); ok && b.Expr != nil {
		if sym, ok := r.bySite[id]; ok {
			r.defs[sym] = b.Expr
		}
	}
}

func (r *resolution) bindingBody(b *ast.ValueBinding, sc *scope, depth int) {
	r.typeExpr(b.Annotation, sc, depth)
	inner := sc.child()
	for _, a := range b.Args {
		r.capture(a, inner, depth)
		r.declareValue(a, inner)
	}
	r.expr(b.Expr, inner, depth)
}

// typeLet resolves a type binding group. Type names are visible throughout
// the group and the body; variant constructors are values in the body.
func (r *resolution) typeLet(e *ast.TypeLetExpr, sc *scope, depth int) {
	inner := sc.child()
	for _, b := range e.Bindings {
		r.capture(b, inner, depth)
		if b.Name != nil {
			r.capture(b.Name, inner, depth+1)
			r.declareType(b.Name, inner)
		}
	}
	for _, b := range e.Bindings {
		params := inner.child()
		for _, p := range b.Params {
			r.capture(p, params, depth+1)
			r.declareType(p, params)
		}
		r.typeExpr(b.Alias, params, depth+1)
		if v, ok := b.Alias.(*ast.VariantTypeExpr); ok {
			for _, c := range v.Ctors {
				if c.Name != nil {
					r.declareValue(c.Name, inner)
				}
			}
		}
	}
	r.expr(e.Body, inner, depth)
}

func (r *resolution) pattern(p ast.Pattern, sc *scope, depth int) {
	if p == nil {
		return
	}
	r.capture(p, sc, depth)
	depth++

	switch p := p.(type) {
	case *ast.Ident:
		r.declareValue(p, sc)

	case *ast.Literal:

	case *ast.RecordPattern:
		for _, t := range p.Types {
			r.capture(t, sc, depth)
			r.declareType(t, sc)
		}
		for _, f := range p.Fields {
			r.capture(f, sc, depth)
			if f.Name == nil {
				r.pattern(f.Value, sc, depth+1)
				continue
			}
			if f.Value == nil {
				r.capture(f.Name, sc, depth+1)
				r.declareValue(f.Name, sc)
				continue
			}
			r.capture(f.Name, sc, depth+1)
			r.record(f.Name, symbol.NewFree(f.Name.Name, symbol.Field), false)
			r.pattern(f.Value, sc, depth+1)
		}

	case *ast.ConstructorPattern:
		if p.Ctor != nil {
			r.capture(p.Ctor, sc, depth)
			r.useValue(p.Ctor, sc)
		}
		for _, a := range p.Args {
			r.pattern(a, sc, depth)
		}

	case *ast.TuplePattern:
		for _, x := range p.Elems {
			r.pattern(x, sc, depth)
		}
	}
}

func (r *resolution) typeExpr(t ast.TypeExpr, sc *scope, depth int) {
	if t == nil {
		return
	}
	r.capture(t, sc, depth)
	depth++

	switch t := t.(type) {
	case *ast.TypeIdent:
		r.useType(t, sc)

	case *ast.TypeAppExpr:
		r.typeExpr(t.Head, sc, depth)
		for _, a := range t.Args {
			r.typeExpr(a, sc, depth)
		}

	case *ast.FunctionTypeExpr:
		for _, a := range t.Args {
			r.typeExpr(a, sc, depth)
		}
		r.typeExpr(t.Ret, sc, depth)

	case *ast.RecordTypeExpr:
		for _, f := range t.Fields {
			r.capture(f, sc, depth)
			if f.Name != nil {
				r.record(f.Name, symbol.New(f.Name.Name, f.Name.Span(), symbol.Field), true)
			}
			r.typeExpr(f.Type, sc, depth+1)
		}

	case *ast.VariantTypeExpr:
		for _, c := range t.Ctors {
			r.capture(c, sc, depth)
			for _, a := range c.Args {
				r.typeExpr(a, sc, depth+1)
			}
		}
	}
}

// finish resolves projection fields. A field projected from a name bound to
// a record literal resolves to the field's declaration in that literal;
// anything else is a free field name.
func (r *resolution) finish() {
	for _, p := range r.projections {
		sym := symbol.NewFree(p.Field.Name, symbol.Field)
		if base, ok := p.Expr.(*ast.Ident); ok {
			if baseSym, ok := r.bySite[base]; ok {
				if rec, ok := r.defs[baseSym].(*ast.RecordExpr); ok {
					for _, f := range rec.Fields {
						if f.Name != nil && f.Name.Name == p.Field.Name {
							if fs, ok := r.bySite[f.Name]; ok && fs.Namespace == symbol.Field {
								sym = fs
							}
							break
						}
					}
				}
			}
		}
		r.record(p.Field, sym, false)
	}
}

// projectionBase returns the symbol of the name a projection is taken from.
func (r *resolution) projectionBase(p *ast.ProjectionExpr) (Symbol, bool) {
	base, ok := p.Expr.(*ast.Ident)
	if !ok {
		return Symbol{}, false
	}
	return r.symbolOf(base)
}
