package lookout

import "github.com/jward/lookout/internal/store"

// Public aliases for the store types returned by the QueryBuilder API. The
// Indexed prefix keeps them apart from the in-memory Symbol of a Tree.

type Store = store.Store
type IndexedFile = store.File
type IndexedSymbol = store.Symbol
type IndexedDoc = store.Doc
type IndexedArgument = store.Argument
type IndexedReference = store.Reference
