package lookout

import (
	"fmt"

	"github.com/jward/lookout/internal/store"
)

// QueryBuilder answers position and navigation queries against the
// persisted outline index without reparsing any document.
type QueryBuilder struct {
	store *store.Store
}

// NewQueryBuilder wraps an open store for read-only queries.
func NewQueryBuilder(s *store.Store) *QueryBuilder {
	return &QueryBuilder{store: s}
}

// Location is a span in an indexed file. Lines and columns are 0-based.
type Location struct {
	File      string
	StartLine int
	StartCol  int
	EndLine   int
	EndCol    int
}

// DefinitionAt finds the declaration of the symbol whose occurrence covers
// (line, col) in file. It returns nil when the file is not indexed or no
// indexed occurrence covers the position.
func (q *QueryBuilder) DefinitionAt(file string, line, col int) ([]Location, error) {
	refs, err := q.referencesAtLocation(file, line, col)
	if err != nil {
		return nil, fmt.Errorf("definition at: %w", err)
	}

	var locations []Location
	seen := make(map[int64]bool)
	for _, ref := range refs {
		if seen[ref.SymbolID] {
			continue
		}
		seen[ref.SymbolID] = true
		loc, err := q.declarationLocation(ref.SymbolID)
		if err != nil {
			return nil, fmt.Errorf("definition at: declaration of %d: %w", ref.SymbolID, err)
		}
		if loc != nil {
			locations = append(locations, *loc)
		}
	}
	return locations, nil
}

// SymbolAt returns the indexed symbol whose occurrence covers (line, col)
// in file, or nil when there is none. When occurrences nest, the innermost
// one wins.
func (q *QueryBuilder) SymbolAt(file string, line, col int) (*store.Symbol, error) {
	refs, err := q.referencesAtLocation(file, line, col)
	if err != nil {
		return nil, fmt.Errorf("symbol at: %w", err)
	}
	if len(refs) == 0 {
		return nil, nil
	}
	return q.store.SymbolByID(refs[0].SymbolID)
}

// ReferencesTo finds every occurrence of the given symbol, declaration
// first.
func (q *QueryBuilder) ReferencesTo(symbolID int64) ([]Location, error) {
	refs, err := q.store.ReferencesToSymbol(symbolID)
	if err != nil {
		return nil, fmt.Errorf("references to: %w", err)
	}

	paths := make(map[int64]string)
	var locations []Location
	for _, ref := range refs {
		path, err := q.filePath(paths, ref.FileID)
		if err != nil {
			return nil, fmt.Errorf("references to: %w", err)
		}
		locations = append(locations, referenceLocation(path, ref))
	}
	return locations, nil
}

// referencesAtLocation returns the occurrences covering (line, col),
// innermost first.
func (q *QueryBuilder) referencesAtLocation(file string, line, col int) ([]*store.Reference, error) {
	f, err := q.store.FileByPath(file)
	if err != nil {
		return nil, fmt.Errorf("lookup file: %w", err)
	}
	if f == nil {
		return nil, nil
	}

	refs, err := q.store.ReferencesAtLocation(f.ID, line, col)
	if err != nil {
		return nil, fmt.Errorf("query references: %w", err)
	}
	return refs, nil
}

// declarationLocation returns the declaring occurrence of a symbol, falling
// back to the symbol's own span.
func (q *QueryBuilder) declarationLocation(symbolID int64) (*Location, error) {
	refs, err := q.store.ReferencesToSymbol(symbolID)
	if err != nil {
		return nil, err
	}
	for _, ref := range refs {
		if !ref.IsDeclaration {
			continue
		}
		path, err := q.filePath(nil, ref.FileID)
		if err != nil {
			return nil, err
		}
		loc := referenceLocation(path, ref)
		return &loc, nil
	}
	return q.symbolLocation(symbolID)
}

// symbolLocation resolves a symbol ID to its file path and full span.
func (q *QueryBuilder) symbolLocation(symbolID int64) (*Location, error) {
	sym, err := q.store.SymbolByID(symbolID)
	if err != nil || sym == nil {
		return nil, err
	}
	if sym.FileID == nil {
		return nil, nil
	}
	path, err := q.filePath(nil, *sym.FileID)
	if err != nil {
		return nil, err
	}
	return &Location{
		File:      path,
		StartLine: sym.StartLine,
		StartCol:  sym.StartCol,
		EndLine:   sym.EndLine,
		EndCol:    sym.EndCol,
	}, nil
}

func (q *QueryBuilder) filePath(cache map[int64]string, fileID int64) (string, error) {
	if p, ok := cache[fileID]; ok {
		return p, nil
	}
	f, err := q.store.FileByID(fileID)
	if err != nil {
		return "", fmt.Errorf("lookup file %d: %w", fileID, err)
	}
	if f == nil {
		return "", fmt.Errorf("file %d not indexed", fileID)
	}
	if cache != nil {
		cache[fileID] = f.Path
	}
	return f.Path, nil
}

func referenceLocation(path string, ref *store.Reference) Location {
	return Location{
		File:      path,
		StartLine: ref.StartLine,
		StartCol:  ref.StartCol,
		EndLine:   ref.EndLine,
		EndCol:    ref.EndCol,
	}
}
