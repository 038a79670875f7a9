package runtime

import (
	"context"
	"errors"
	"sort"

	"github.com/risor-io/risor/object"

	"github.com/jward/lookout"
	"github.com/jward/lookout/metadata"
	"github.com/jward/lookout/pos"
)

// Tree host functions answer queries on the loaded tree. A position that
// carries no answer yields nil rather than an error so scripts can try
// freely.

// makeTypeAtFn creates the "type_at" host function.
//
// type_at(offset) → string or nil
func makeTypeAtFn(t *lookout.Tree) *object.Builtin {
	return object.NewBuiltin("type_at", func(ctx context.Context, args ...object.Object) object.Object {
		p, errObj := positionArg("type_at", args)
		if errObj != nil {
			return errObj
		}
		r, err := t.TypeAt(p)
		if err != nil {
			return queryError("type_at", err)
		}
		return object.NewString(r.String())
	})
}

// makeKindAtFn creates the "kind_at" host function.
//
// kind_at(offset) → string or nil
func makeKindAtFn(t *lookout.Tree) *object.Builtin {
	return object.NewBuiltin("kind_at", func(ctx context.Context, args ...object.Object) object.Object {
		p, errObj := positionArg("kind_at", args)
		if errObj != nil {
			return errObj
		}
		k, err := t.KindAt(p)
		if err != nil {
			return queryError("kind_at", err)
		}
		return object.NewString(k.String())
	})
}

// makeSpanAtFn creates the "span_at" host function.
//
// span_at(offset) → {start, end, text, type} or nil
func makeSpanAtFn(t *lookout.Tree) *object.Builtin {
	return object.NewBuiltin("span_at", func(ctx context.Context, args ...object.Object) object.Object {
		p, errObj := positionArg("span_at", args)
		if errObj != nil {
			return errObj
		}
		span, r, err := t.SpanTypeAt(p)
		if err != nil {
			return queryError("span_at", err)
		}
		m := spanMap(span)
		m["text"] = object.NewString(t.Text(span))
		m["type"] = object.NewString(r.String())
		return object.NewMap(m)
	})
}

// makeSymbolAtFn creates the "symbol_at" host function.
//
// symbol_at(offset) → {name, namespace, start, end, free} or nil
func makeSymbolAtFn(t *lookout.Tree) *object.Builtin {
	return object.NewBuiltin("symbol_at", func(ctx context.Context, args ...object.Object) object.Object {
		p, errObj := positionArg("symbol_at", args)
		if errObj != nil {
			return errObj
		}
		sym, err := t.SymbolAt(p)
		if err != nil {
			return queryError("symbol_at", err)
		}
		return symbolObject(sym)
	})
}

// makeReferencesFn creates the "references" host function.
//
// references(offset) → [{start, end}] with the declaration first, or nil
func makeReferencesFn(t *lookout.Tree) *object.Builtin {
	return object.NewBuiltin("references", func(ctx context.Context, args ...object.Object) object.Object {
		p, errObj := positionArg("references", args)
		if errObj != nil {
			return errObj
		}
		_, spans, err := t.References(p)
		if err != nil {
			return queryError("references", err)
		}
		results := make([]object.Object, 0, len(spans))
		for _, s := range spans {
			results = append(results, object.NewMap(spanMap(s)))
		}
		return object.NewList(results)
	})
}

// makeDocAtFn creates the "doc_at" host function.
//
// doc_at(offset) → {comment, comment_type, args, fields} or nil
func makeDocAtFn(t *lookout.Tree) *object.Builtin {
	return object.NewBuiltin("doc_at", func(ctx context.Context, args ...object.Object) object.Object {
		p, errObj := positionArg("doc_at", args)
		if errObj != nil {
			return errObj
		}
		return metadataObject(t.Doc(p))
	})
}

// makeSuggestDocFn creates the "suggest_doc" host function.
//
// suggest_doc(offset, partial) → {comment, comment_type, args, fields} or nil
func makeSuggestDocFn(t *lookout.Tree) *object.Builtin {
	return object.NewBuiltin("suggest_doc", func(ctx context.Context, args ...object.Object) object.Object {
		if len(args) != 2 {
			return object.NewArgsError("suggest_doc", 2, len(args))
		}
		p, errObj := positionArg("suggest_doc", args[:1])
		if errObj != nil {
			return errObj
		}
		partial, err := toString(args[1])
		if err != nil {
			return object.Errorf("suggest_doc: %v", err)
		}
		return metadataObject(t.SuggestDoc(p, partial))
	})
}

// makeSuggestFn creates the "suggest" host function.
//
// suggest(offset, prefix) → [{name, detail}]
func makeSuggestFn(t *lookout.Tree) *object.Builtin {
	return object.NewBuiltin("suggest", func(ctx context.Context, args ...object.Object) object.Object {
		if len(args) != 2 {
			return object.NewArgsError("suggest", 2, len(args))
		}
		p, errObj := positionArg("suggest", args[:1])
		if errObj != nil {
			return errObj
		}
		prefix, err := toString(args[1])
		if err != nil {
			return object.Errorf("suggest: %v", err)
		}
		var results []object.Object
		for _, s := range t.Suggest(p, prefix) {
			results = append(results, object.NewMap(map[string]object.Object{
				"name":   object.NewString(s.Name),
				"detail": object.NewString(s.Detail.String()),
			}))
		}
		if results == nil {
			results = []object.Object{}
		}
		return object.NewList(results)
	})
}

// makeOutlineFn creates the "outline" host function.
//
// outline() → [{name, kind, namespace, start, end, detail, doc, children}]
func makeOutlineFn(t *lookout.Tree) *object.Builtin {
	return object.NewBuiltin("outline", func(ctx context.Context, args ...object.Object) object.Object {
		if len(args) != 0 {
			return object.NewArgsError("outline", 0, len(args))
		}
		return entriesToList(t.Outline())
	})
}

// makeTextFn creates the "text" host function.
//
// text(start, end) → string
func makeTextFn(t *lookout.Tree) *object.Builtin {
	return object.NewBuiltin("text", func(ctx context.Context, args ...object.Object) object.Object {
		if len(args) != 2 {
			return object.NewArgsError("text", 2, len(args))
		}
		start, err := toInt64(args[0])
		if err != nil {
			return object.Errorf("text: start: %v", err)
		}
		end, err := toInt64(args[1])
		if err != nil {
			return object.Errorf("text: end: %v", err)
		}
		n := int64(len(t.Source()))
		if start < 0 || end < start || end > n {
			return object.Errorf("text: span %d..%d out of range 0..%d", start, end, n)
		}
		return object.NewString(t.Text(pos.Span{Start: pos.BytePos(start), End: pos.BytePos(end)}))
	})
}

// makeLocationFn creates the "location" host function.
//
// location(offset) → {line, column}
func makeLocationFn(t *lookout.Tree) *object.Builtin {
	return object.NewBuiltin("location", func(ctx context.Context, args ...object.Object) object.Object {
		p, errObj := positionArg("location", args)
		if errObj != nil {
			return errObj
		}
		loc, err := t.Location(p)
		if err != nil {
			return object.Errorf("location: %v", err)
		}
		return object.NewMap(map[string]object.Object{
			"line":   object.NewInt(int64(loc.Line)),
			"column": object.NewInt(int64(loc.Column)),
		})
	})
}

// makeOffsetFn creates the "offset" host function.
//
// offset(line, column) → int
func makeOffsetFn(t *lookout.Tree) *object.Builtin {
	return object.NewBuiltin("offset", func(ctx context.Context, args ...object.Object) object.Object {
		if len(args) != 2 {
			return object.NewArgsError("offset", 2, len(args))
		}
		line, err := toInt64(args[0])
		if err != nil {
			return object.Errorf("offset: line: %v", err)
		}
		col, err := toInt64(args[1])
		if err != nil {
			return object.Errorf("offset: column: %v", err)
		}
		p, err := t.Offset(int(line), int(col))
		if err != nil {
			return object.Errorf("offset: %v", err)
		}
		return object.NewInt(int64(p))
	})
}

// --- Conversion helpers ---

func positionArg(name string, args []object.Object) (pos.BytePos, object.Object) {
	if len(args) != 1 {
		return 0, object.NewArgsError(name, 1, len(args))
	}
	p, err := toInt64(args[0])
	if err != nil {
		return 0, object.Errorf("%s: position: %v", name, err)
	}
	return pos.BytePos(p), nil
}

// queryError maps ErrNotFound to nil and anything else to a Risor error.
func queryError(name string, err error) object.Object {
	if errors.Is(err, lookout.ErrNotFound) {
		return object.Nil
	}
	return object.Errorf("%s: %v", name, err)
}

func spanMap(s pos.Span) map[string]object.Object {
	return map[string]object.Object{
		"start": object.NewInt(int64(s.Start)),
		"end":   object.NewInt(int64(s.End)),
	}
}

func symbolObject(sym lookout.Symbol) object.Object {
	m := spanMap(sym.Span)
	m["name"] = object.NewString(sym.Name)
	m["namespace"] = object.NewString(sym.Namespace.String())
	m["free"] = object.NewBool(sym.Free)
	return object.NewMap(m)
}

func metadataObject(md *metadata.Metadata) object.Object {
	if md.IsEmpty() {
		return object.Nil
	}
	m := map[string]object.Object{
		"comment":      object.NewString(md.Text()),
		"comment_type": object.NewString(""),
	}
	if md.Comment != nil {
		m["comment_type"] = object.NewString(md.Comment.Type.String())
	}

	args := make([]object.Object, 0, len(md.Args))
	for _, a := range md.Args {
		args = append(args, object.NewMap(map[string]object.Object{
			"name": object.NewString(a.Name),
			"pos":  object.NewInt(int64(a.Pos)),
		}))
	}
	m["args"] = object.NewList(args)

	names := make([]string, 0, len(md.Module))
	for name := range md.Module {
		names = append(names, name)
	}
	sort.Strings(names)
	fields := make([]object.Object, 0, len(names))
	for _, name := range names {
		fields = append(fields, object.NewString(name))
	}
	m["fields"] = object.NewList(fields)
	return object.NewMap(m)
}

func entriesToList(entries []*lookout.SymbolEntry) object.Object {
	results := make([]object.Object, 0, len(entries))
	for _, e := range entries {
		m := spanMap(e.Span)
		m["name"] = object.NewString(e.Symbol.Name)
		m["kind"] = object.NewString(e.Kind.String())
		m["namespace"] = object.NewString(e.Symbol.Namespace.String())
		m["name_start"] = object.NewInt(int64(e.Symbol.Span.Start))
		m["name_end"] = object.NewInt(int64(e.Symbol.Span.End))
		m["detail"] = object.NewString(e.Detail.String())
		m["doc"] = metadataObject(e.Metadata)
		m["children"] = entriesToList(e.Children)
		results = append(results, object.NewMap(m))
	}
	return object.NewList(results)
}
