package store

// DataStore is the interface for outline writes during indexing. Both Store
// (direct SQLite) and BatchedStore (in-memory buffering for parallel
// indexing) implement this interface.
type DataStore interface {
	// Inserts each return the assigned ID.
	InsertSymbol(sym *Symbol) (int64, error)
	InsertDoc(doc *Doc) (int64, error)
	InsertArgument(arg *Argument) (int64, error)
	InsertReference(ref *Reference) (int64, error)

	SymbolsByName(name string) ([]*Symbol, error)
	SymbolsByFile(fileID int64) ([]*Symbol, error)
}

// Compile-time check: *Store satisfies DataStore.
var _ DataStore = (*Store)(nil)
