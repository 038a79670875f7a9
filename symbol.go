package lookout

import (
	"fmt"

	"github.com/jward/lookout/ast"
	"github.com/jward/lookout/pos"
)

// SymbolAt returns the symbol named at p: the declaration the name
// occurrence under p refers to, after shadowing. It fails with ErrNotFound
// when the node at p is not a name.
func SymbolAt(root ast.Expr, p pos.BytePos) (Symbol, error) {
	m, err := Locate(root, p)
	if err != nil {
		return Symbol{}, err
	}
	return symbolForMatch(resolveTree(root), m)
}

func symbolForMatch(res *resolution, m *Match) (Symbol, error) {
	if _, ok := m.Name(); !ok {
		return Symbol{}, fmt.Errorf("symbol at %d: %T is not a name: %w", m.Pos, m.Node, ErrNotFound)
	}
	sym, ok := res.symbolOf(m.Node)
	if !ok {
		return Symbol{}, fmt.Errorf("symbol at %d: unresolved: %w", m.Pos, ErrNotFound)
	}
	return sym, nil
}

// FindAllSymbols returns the declared name of the symbol at p and the spans
// of its declaration and every occurrence, in source order. Occurrences of
// other symbols with the same name, such as shadowing declarations, are not
// included.
func FindAllSymbols(root ast.Expr, p pos.BytePos) (string, []pos.Span, error) {
	m, err := Locate(root, p)
	if err != nil {
		return "", nil, err
	}
	res := resolveTree(root)
	sym, err := symbolForMatch(res, m)
	if err != nil {
		return "", nil, err
	}
	return sym.DeclaredName(), res.occurrencesOf(sym), nil
}
