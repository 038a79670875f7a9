package lookout

import (
	"fmt"

	"github.com/jward/lookout/internal/store"
	"github.com/jward/lookout/pos"
)

// writeOutline writes the outline of tree to ds: one symbol per entry with
// parent links, its doc comment and arguments, and every occurrence of the
// declared name.
func writeOutline(ds store.DataStore, fileID int64, tree *Tree) error {
	w := outlineWriter{ds: ds, fileID: fileID, tree: tree}
	for _, entry := range tree.Outline() {
		if err := w.entry(entry, nil); err != nil {
			return err
		}
	}
	return nil
}

type outlineWriter struct {
	ds     store.DataStore
	fileID int64
	tree   *Tree
}

func (w *outlineWriter) location(span pos.Span) (start, end pos.Location, err error) {
	if start, err = w.tree.Location(span.Start); err != nil {
		return start, end, err
	}
	end, err = w.tree.Location(span.End)
	return start, end, err
}

func (w *outlineWriter) entry(e *SymbolEntry, parentID *int64) error {
	start, end, err := w.location(e.Span)
	if err != nil {
		return fmt.Errorf("symbol %s: %w", e.Symbol.Name, err)
	}

	var doc *store.Doc
	var args []*store.Argument
	if md := e.Metadata; md != nil {
		if md.Comment != nil {
			doc = &store.Doc{CommentType: md.Comment.Type.String(), Content: md.Comment.Content}
		}
		for i, a := range md.Args {
			args = append(args, &store.Argument{Name: a.Name, Ordinal: i, Offset: int(a.Pos)})
		}
	}

	detail := ""
	if _, ok := e.Detail.Type(); ok {
		detail = e.Detail.String()
	} else if _, ok := e.Detail.Kind(); ok {
		detail = e.Detail.String()
	}

	fileID := w.fileID
	sym := &store.Symbol{
		FileID:         &fileID,
		Name:           e.Symbol.Name,
		Kind:           e.Kind.String(),
		Namespace:      e.Symbol.Namespace.String(),
		Detail:         detail,
		StartOffset:    int(e.Span.Start),
		EndOffset:      int(e.Span.End),
		NameStart:      int(e.Symbol.Span.Start),
		NameEnd:        int(e.Symbol.Span.End),
		StartLine:      start.Line,
		StartCol:       start.Column,
		EndLine:        end.Line,
		EndCol:         end.Column,
		ParentSymbolID: parentID,
	}
	sym.SignatureHash = store.ComputeSignatureHash(sym.Name, sym.Kind, sym.Namespace, sym.Detail, doc, args)

	id, err := w.ds.InsertSymbol(sym)
	if err != nil {
		return fmt.Errorf("symbol %s: %w", sym.Name, err)
	}
	if doc != nil {
		doc.SymbolID = id
		if _, err := w.ds.InsertDoc(doc); err != nil {
			return fmt.Errorf("symbol %s: doc: %w", sym.Name, err)
		}
	}
	for _, a := range args {
		a.SymbolID = id
		if _, err := w.ds.InsertArgument(a); err != nil {
			return fmt.Errorf("symbol %s: argument %s: %w", sym.Name, a.Name, err)
		}
	}
	if err := w.references(e, id); err != nil {
		return fmt.Errorf("symbol %s: %w", sym.Name, err)
	}

	for _, child := range e.Children {
		if err := w.entry(child, &id); err != nil {
			return err
		}
	}
	return nil
}

// references records the declaration and every use of the entry's name.
func (w *outlineWriter) references(e *SymbolEntry, symbolID int64) error {
	spans := w.tree.resolution().occurrencesOf(e.Symbol)
	if len(spans) == 0 {
		spans = []pos.Span{e.Symbol.Span}
	}
	for _, span := range spans {
		start, end, err := w.location(span)
		if err != nil {
			return err
		}
		ref := &store.Reference{
			FileID:        w.fileID,
			SymbolID:      symbolID,
			StartOffset:   int(span.Start),
			EndOffset:     int(span.End),
			StartLine:     start.Line,
			StartCol:      start.Column,
			EndLine:       end.Line,
			EndCol:        end.Column,
			IsDeclaration: span == e.Symbol.Span,
		}
		if _, err := w.ds.InsertReference(ref); err != nil {
			return fmt.Errorf("reference: %w", err)
		}
	}
	return nil
}
