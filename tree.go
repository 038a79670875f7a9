package lookout

import (
	"fmt"
	"sync"

	"github.com/jward/lookout/ast"
	"github.com/jward/lookout/metadata"
	"github.com/jward/lookout/pos"
	"github.com/jward/lookout/types"
)

// Tree bundles one checked document with its environment and metadata so
// that repeated queries, such as one per keystroke, share the name
// resolution of the tree. A Tree is safe for concurrent use.
type Tree struct {
	source string
	root   ast.Expr
	env    types.Env
	meta   metadata.Map
	lines  *pos.LineIndex

	once sync.Once
	res  *resolution
}

// NewTree validates root and wraps it for querying. When meta is nil the
// metadata map is collected from the doc comments attached to the tree.
func NewTree(source string, root ast.Expr, env types.Env, meta metadata.Map) (*Tree, error) {
	if err := Validate(root); err != nil {
		return nil, fmt.Errorf("new tree: %w", err)
	}
	if end := root.Span().End; source != "" && int(end) > len(source) {
		return nil, fmt.Errorf("new tree: root span %s exceeds source length %d: %w", root.Span(), len(source), ErrMalformedTree)
	}
	if meta == nil {
		meta = CollectMetadata(root)
	}
	return &Tree{
		source: source,
		root:   root,
		env:    env,
		meta:   meta,
		lines:  pos.NewLineIndex(source),
	}, nil
}

// Root returns the root expression.
func (t *Tree) Root() ast.Expr { return t.root }

// Source returns the document text.
func (t *Tree) Source() string { return t.source }

// Env returns the environment used for builtin names.
func (t *Tree) Env() types.Env { return t.env }

// Metadata returns the metadata map.
func (t *Tree) Metadata() metadata.Map { return t.meta }

// Text returns the source text covered by span.
func (t *Tree) Text(span pos.Span) string { return span.Text(t.source) }

// Offset converts a 0-based line and column to a byte offset.
func (t *Tree) Offset(line, column int) (pos.BytePos, error) {
	return t.lines.Offset(line, column)
}

// Location converts a byte offset to a 0-based line and column.
func (t *Tree) Location(p pos.BytePos) (pos.Location, error) {
	return t.lines.Location(p)
}

func (t *Tree) resolution() *resolution {
	t.once.Do(func() { t.res = resolveTree(t.root) })
	return t.res
}

// Locate returns the match at p.
func (t *Tree) Locate(p pos.BytePos) (*Match, error) { return Locate(t.root, p) }

// TypeAt returns the type or kind at p.
func (t *Tree) TypeAt(p pos.BytePos) (TypeOrKind, error) { return Find(t.env, t.root, p) }

// KindAt returns the kind at p, failing at value-level positions.
func (t *Tree) KindAt(p pos.BytePos) (types.Kind, error) {
	return Completion[types.Kind](KindAt{Env: t.env}, t.root, p)
}

// SpanTypeAt returns the span of the node at p with its type or kind.
func (t *Tree) SpanTypeAt(p pos.BytePos) (pos.Span, TypeOrKind, error) {
	return SpanType(t.env, t.root, p)
}

// SymbolAt returns the symbol named at p.
func (t *Tree) SymbolAt(p pos.BytePos) (Symbol, error) {
	m, err := Locate(t.root, p)
	if err != nil {
		return Symbol{}, err
	}
	return symbolForMatch(t.resolution(), m)
}

// References returns the name and occurrence spans of the symbol at p.
func (t *Tree) References(p pos.BytePos) (string, []pos.Span, error) {
	sym, err := t.SymbolAt(p)
	if err != nil {
		return "", nil, err
	}
	return sym.DeclaredName(), t.resolution().occurrencesOf(sym), nil
}

// Doc returns the documentation of the declaration named at p, or nil.
func (t *Tree) Doc(p pos.BytePos) *metadata.Metadata {
	m, err := Locate(t.root, p)
	if err != nil {
		return nil
	}
	return metadataForMatch(t.meta, t.resolution(), m)
}

// SuggestDoc returns the documentation of the visible declaration best
// matching partial at p, or nil.
func (t *Tree) SuggestDoc(p pos.BytePos, partial string) *metadata.Metadata {
	return SuggestMetadata(t.meta, t.env, t.root, p, partial)
}

// Suggest lists the completions for prefix at p.
func (t *Tree) Suggest(p pos.BytePos, prefix string) []Suggestion {
	return Suggest(t.env, t.root, p, prefix)
}

// Outline returns the symbol index of the tree.
func (t *Tree) Outline() []*SymbolEntry { return AllSymbols(t.root) }

// TypeAtLocation is TypeAt for a 0-based line and column.
func (t *Tree) TypeAtLocation(line, column int) (TypeOrKind, error) {
	p, err := t.Offset(line, column)
	if err != nil {
		return TypeOrKind{}, fmt.Errorf("type at %d:%d: %w", line, column, err)
	}
	return t.TypeAt(p)
}

// SymbolAtLocation is SymbolAt for a 0-based line and column.
func (t *Tree) SymbolAtLocation(line, column int) (Symbol, error) {
	p, err := t.Offset(line, column)
	if err != nil {
		return Symbol{}, fmt.Errorf("symbol at %d:%d: %w", line, column, err)
	}
	return t.SymbolAt(p)
}

// ReferencesAtLocation is References for a 0-based line and column.
func (t *Tree) ReferencesAtLocation(line, column int) (string, []pos.Span, error) {
	p, err := t.Offset(line, column)
	if err != nil {
		return "", nil, fmt.Errorf("references at %d:%d: %w", line, column, err)
	}
	return t.References(p)
}

// DocAtLocation is Doc for a 0-based line and column.
func (t *Tree) DocAtLocation(line, column int) *metadata.Metadata {
	p, err := t.Offset(line, column)
	if err != nil {
		return nil
	}
	return t.Doc(p)
}
