package lookout

import (
	"strings"

	"github.com/jward/lookout/ast"
	"github.com/jward/lookout/pos"
	"github.com/jward/lookout/types"
)

// Suggestion is a name that may complete a partially typed identifier.
type Suggestion struct {
	Name string
	// Symbol is the declaration of the name; it is zero for record fields
	// known only from a type.
	Symbol Symbol
	Detail TypeOrKind
}

// Suggest lists the names starting with prefix that are visible at p, or
// the matching fields when p is on a field projection. Names in scope are
// listed innermost first; fields in declaration order.
func Suggest(env types.Env, root ast.Expr, p pos.BytePos, prefix string) []Suggestion {
	if root == nil || !root.Span().Contains(p) {
		return nil
	}
	res := resolveAt(root, p)

	if m, err := Locate(root, p); err == nil {
		if proj := projectionAt(m); proj != nil {
			return suggestFields(env, res, proj, prefix)
		}
	}

	var out []Suggestion
	for _, sym := range res.visibleAt() {
		if !strings.HasPrefix(sym.Name, prefix) {
			continue
		}
		out = append(out, Suggestion{Name: sym.Name, Symbol: sym, Detail: declDetail(env, res, sym)})
	}
	return out
}

func suggestFields(env types.Env, res *resolution, proj *ast.ProjectionExpr, prefix string) []Suggestion {
	var out []Suggestion
	if proj.Expr != nil {
		for _, f := range types.Fields(env, proj.Expr.Type()) {
			if !strings.HasPrefix(f.Name, prefix) {
				continue
			}
			s := Suggestion{Name: f.Name, Detail: TypeResult(f.Type)}
			if decl, ok := fieldDeclaration(res, proj, f.Name); ok {
				s.Symbol = decl
			}
			out = append(out, s)
		}
	}
	if len(out) > 0 {
		return out
	}
	if rec := boundRecord(res, proj); rec != nil {
		for _, f := range rec.Fields {
			if f.Name == nil || !strings.HasPrefix(f.Name.Name, prefix) {
				continue
			}
			s := Suggestion{Name: f.Name.Name, Detail: TypeResult(f.Type())}
			if decl, ok := res.symbolOf(f.Name); ok {
				s.Symbol = decl
			}
			out = append(out, s)
		}
	}
	return out
}

// declDetail is the type or kind recorded at a symbol's declaration.
func declDetail(env types.Env, res *resolution, sym Symbol) TypeOrKind {
	switch n := res.declSites[sym].(type) {
	case *ast.Ident:
		if n.Typ != nil {
			return TypeResult(n.Typ)
		}
		if env != nil {
			if t, ok := env.FindType(n.Name); ok {
				return TypeResult(t)
			}
		}
	case *ast.TypeIdent:
		if n.Knd != nil {
			return KindResult(n.Knd)
		}
		if env != nil {
			if k, ok := env.FindKind(n.Name); ok {
				return KindResult(k)
			}
		}
	}
	return TypeOrKind{}
}
