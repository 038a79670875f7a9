// Package lookout answers position-based questions about a type-checked
// syntax tree: what is at a byte offset, what is its type or kind, which
// declaration does a name refer to, where else is it used, what
// documentation is attached, and what does the file declare.
//
// # Queries
//
// Every query starts with [Locate], which finds the innermost node whose
// span contains the position and reports it as a [Match]. An [Extractor]
// turns a match into an answer; [SpanAt], [TypeAt] and [KindAt] are the
// built-in strategies and [Both] combines two of them. [Completion] runs
// an extractor at a position and [Find] is the type lookup shorthand.
//
// Names are resolved by [SymbolAt] into a [Symbol], which [FindAllSymbols]
// expands into every occurrence. [GetMetadata] and [SuggestMetadata] return
// the documentation attached to a declaration, and [AllSymbols] produces
// the nested outline of a tree.
//
// A [Tree] bundles the source, root and environment of one document and
// adds line/column variants of each query:
//
//	tree, err := lookout.NewTree(src, root, env, nil)
//	if err != nil { ... }
//	typ, err := tree.TypeAtLocation(3, 12)
//
// # Outline Index
//
// An [Engine] persists the outlines of many tree documents in SQLite.
// [Engine.IndexFiles] skips documents whose content hash is unchanged and
// records per-file symbol changes for [Engine.TakeChanges]. The
// [QueryBuilder] returned by [Engine.Query] searches and navigates the
// index without reparsing:
//
//	e, err := lookout.New(".lookout/index.db")
//	if err != nil { ... }
//	defer e.Close()
//
//	err = e.IndexGlob(ctx, ".", []string{"**/*.tree.yaml"}, nil)
//	res, err := e.Query().SearchSymbols("parse*", lookout.SymbolFilter{}, lookout.Sort{}, lookout.Pagination{})
//
// Documents are decoded by the internal/treefile package. Scripts can query
// a loaded tree through the Risor host in internal/runtime.
package lookout
