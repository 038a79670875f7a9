package lookout

import (
	"github.com/jward/lookout/ast"
	"github.com/jward/lookout/metadata"
	"github.com/jward/lookout/pos"
	"github.com/jward/lookout/symbol"
)

// SymbolKind classifies outline entries.
type SymbolKind uint8

const (
	ValueSymbol SymbolKind = iota
	FunctionSymbol
	TypeSymbol
	ConstructorSymbol
	FieldSymbol
)

var symbolKindNames = [...]string{
	ValueSymbol:       "value",
	FunctionSymbol:    "function",
	TypeSymbol:        "type",
	ConstructorSymbol: "constructor",
	FieldSymbol:       "field",
}

func (k SymbolKind) String() string {
	if int(k) < len(symbolKindNames) {
		return symbolKindNames[k]
	}
	return "unknown"
}

// ParseSymbolKind is the inverse of SymbolKind.String.
func ParseSymbolKind(s string) (SymbolKind, bool) {
	for k, name := range symbolKindNames {
		if name == s {
			return SymbolKind(k), true
		}
	}
	return 0, false
}

// SymbolEntry is one declaration in a file outline.
type SymbolEntry struct {
	Symbol Symbol
	Kind   SymbolKind
	// Span covers the whole declaration, not just its name.
	Span     pos.Span
	Detail   TypeOrKind
	Metadata *metadata.Metadata
	Children []*SymbolEntry
}

// AllSymbols returns the outline of root: every declaration that has a
// single name span, in source order. Declarations made inside a binding's
// expression are children of that binding, fields of a record literal bound
// directly to a name are children of the name, and constructors are
// children of their type. Names bound by destructuring patterns are left
// out, though declarations inside the destructured expression are kept.
func AllSymbols(root ast.Expr) []*SymbolEntry {
	var out []*SymbolEntry
	collectExpr(root, &out)
	return out
}

func collectExpr(e ast.Expr, out *[]*SymbolEntry) {
	switch e := e.(type) {
	case nil:
		return

	case *ast.LetExpr:
		for _, b := range e.Bindings {
			id, ok := b.Name.(*ast.Ident)
			if !ok {
				collectExpr(b.Expr, out)
				continue
			}
			*out = append(*out, bindingEntry(id, b))
		}
		collectExpr(e.Body, out)

	case *ast.TypeLetExpr:
		for _, b := range e.Bindings {
			if b.Name == nil {
				continue
			}
			*out = append(*out, typeEntry(b))
		}
		collectExpr(e.Body, out)

	default:
		for _, c := range ast.Children(e) {
			switch c := c.(type) {
			case ast.Expr:
				collectExpr(c, out)
			case *ast.RecordField:
				collectExpr(c.Value, out)
			case *ast.Alternative:
				collectExpr(c.Expr, out)
			}
		}
	}
}

func bindingEntry(id *ast.Ident, b *ast.ValueBinding) *SymbolEntry {
	entry := &SymbolEntry{
		Symbol:   symbol.New(id.Name, id.Span(), symbol.Value),
		Kind:     ValueSymbol,
		Span:     b.Span(),
		Detail:   TypeResult(b.Type()),
		Metadata: nonEmpty(bindingMetadata(b)),
	}
	if len(b.Args) > 0 {
		entry.Kind = FunctionSymbol
	}
	if rec, ok := b.Expr.(*ast.RecordExpr); ok {
		entry.Children = fieldEntries(rec)
		return entry
	}
	collectExpr(b.Expr, &entry.Children)
	return entry
}

func fieldEntries(rec *ast.RecordExpr) []*SymbolEntry {
	var out []*SymbolEntry
	for _, f := range rec.Fields {
		if f.Name == nil || f.Value == nil {
			continue
		}
		entry := &SymbolEntry{
			Symbol:   symbol.New(f.Name.Name, f.Name.Span(), symbol.Field),
			Kind:     FieldSymbol,
			Span:     f.Span(),
			Detail:   TypeResult(f.Type()),
			Metadata: nonEmpty(recordFieldMetadata(f)),
		}
		if nested, ok := f.Value.(*ast.RecordExpr); ok {
			entry.Children = fieldEntries(nested)
		} else {
			collectExpr(f.Value, &entry.Children)
		}
		out = append(out, entry)
	}
	return out
}

func typeEntry(b *ast.TypeBinding) *SymbolEntry {
	entry := &SymbolEntry{
		Symbol:   symbol.New(b.Name.Name, b.Name.Span(), symbol.Type),
		Kind:     TypeSymbol,
		Span:     b.Span(),
		Detail:   KindResult(b.Name.Knd),
		Metadata: nonEmpty(typeBindingMetadata(b)),
	}
	if v, ok := b.Alias.(*ast.VariantTypeExpr); ok {
		for _, c := range v.Ctors {
			if c.Name == nil {
				continue
			}
			entry.Children = append(entry.Children, &SymbolEntry{
				Symbol:   symbol.New(c.Name.Name, c.Name.Span(), symbol.Value),
				Kind:     ConstructorSymbol,
				Span:     c.Span(),
				Detail:   TypeResult(c.Name.Typ),
				Metadata: nonEmpty(c.Metadata),
			})
		}
	}
	return entry
}

func nonEmpty(md *metadata.Metadata) *metadata.Metadata {
	if md.IsEmpty() {
		return nil
	}
	return md
}

// Flatten lists entries and all their descendants in pre-order.
func Flatten(entries []*SymbolEntry) []*SymbolEntry {
	var out []*SymbolEntry
	var walk func([]*SymbolEntry)
	walk = func(es []*SymbolEntry) {
		for _, e := range es {
			out = append(out, e)
			walk(e.Children)
		}
	}
	walk(entries)
	return out
}
