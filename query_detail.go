package lookout

import (
	"database/sql"
	"fmt"

	"github.com/jward/lookout/internal/store"
)

// SymbolDetail bundles a symbol with its doc comment, documented
// arguments and direct children.
type SymbolDetail struct {
	Symbol    SymbolResult      // the symbol itself with its ref count
	Doc       *store.Doc        // nil when the symbol is undocumented
	Arguments []*store.Argument // documented parameters in order (empty if none)
	Children  []SymbolResult    // nested entries in source order (empty if none)
}

// SymbolDetail returns the symbol with its doc, arguments and children.
// Returns nil with no error if the symbol ID does not exist.
func (q *QueryBuilder) SymbolDetail(symbolID int64) (*SymbolDetail, error) {
	sr, err := q.symbolResultByID(symbolID)
	if err != nil {
		return nil, fmt.Errorf("symbol detail: %w", err)
	}
	if sr == nil {
		return nil, nil
	}

	doc, err := q.store.DocBySymbol(symbolID)
	if err != nil {
		return nil, fmt.Errorf("symbol detail: doc: %w", err)
	}

	args, err := q.store.Arguments(symbolID)
	if err != nil {
		return nil, fmt.Errorf("symbol detail: arguments: %w", err)
	}
	if args == nil {
		args = []*store.Argument{}
	}

	parent := symbolID
	children, err := q.Symbols(SymbolFilter{ParentID: &parent}, Sort{Field: SortByPosition}, Pagination{Limit: maxLimit})
	if err != nil {
		return nil, fmt.Errorf("symbol detail: children: %w", err)
	}

	return &SymbolDetail{
		Symbol:    *sr,
		Doc:       doc,
		Arguments: args,
		Children:  children.Items,
	}, nil
}

// SymbolDetailAt resolves the innermost symbol occurrence at
// (file, line, col) and returns its SymbolDetail. Line and col are 0-based.
// Returns nil with no error if no symbol occurs there.
func (q *QueryBuilder) SymbolDetailAt(file string, line, col int) (*SymbolDetail, error) {
	sym, err := q.SymbolAt(file, line, col)
	if err != nil {
		return nil, fmt.Errorf("symbol detail at: %w", err)
	}
	if sym == nil {
		return nil, nil
	}
	return q.SymbolDetail(sym.ID)
}

// OutlineNode is one entry of a file outline.
type OutlineNode struct {
	Symbol   SymbolResult
	Doc      *store.Doc
	Children []*OutlineNode
}

// FileOutline rebuilds the nested outline of an indexed file from the
// store. Returns nil with no error if the file is not indexed.
func (q *QueryBuilder) FileOutline(path string) ([]*OutlineNode, error) {
	f, err := q.store.FileByPath(path)
	if err != nil {
		return nil, fmt.Errorf("file outline: lookup file: %w", err)
	}
	if f == nil {
		return nil, nil
	}

	syms, err := q.querySymbolResults(fmt.Sprintf(
		`SELECT %s, COALESCE(f.path, '') AS file_path, %s AS ref_count
		 FROM symbols s
		 LEFT JOIN files f ON s.file_id = f.id
		 WHERE s.file_id = ?
		 ORDER BY s.start_offset, s.id`,
		prefixSymbolCols("s"), refCountExpr,
	), f.ID)
	if err != nil {
		return nil, fmt.Errorf("file outline: %w", err)
	}

	nodes := make(map[int64]*OutlineNode, len(syms))
	roots := []*OutlineNode{}
	for _, sr := range syms {
		doc, err := q.store.DocBySymbol(sr.ID)
		if err != nil {
			return nil, fmt.Errorf("file outline: doc: %w", err)
		}
		n := &OutlineNode{Symbol: sr, Doc: doc}
		nodes[sr.ID] = n
	}
	for _, sr := range syms {
		n := nodes[sr.ID]
		if sr.ParentSymbolID != nil {
			if p, ok := nodes[*sr.ParentSymbolID]; ok {
				p.Children = append(p.Children, n)
				continue
			}
		}
		roots = append(roots, n)
	}
	return roots, nil
}

// symbolResultByID loads a single symbol as a SymbolResult by its ID.
// Returns nil with no error if not found.
func (q *QueryBuilder) symbolResultByID(symbolID int64) (*SymbolResult, error) {
	row := q.store.DB().QueryRow(
		fmt.Sprintf(
			`SELECT %s, COALESCE(f.path, '') AS file_path, %s AS ref_count
			 FROM symbols s
			 LEFT JOIN files f ON s.file_id = f.id
			 WHERE s.id = ?`,
			prefixSymbolCols("s"), refCountExpr,
		),
		symbolID,
	)
	sr, err := scanSymbolResult(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &sr, nil
}
