package store

import (
	"database/sql"
	"fmt"
)

// --- File operations ---

const fileCols = "id, path, hash, line_count, last_indexed"

func (s *Store) InsertFile(f *File) (int64, error) {
	res, err := s.db.Exec(
		"INSERT INTO files (path, hash, line_count, last_indexed) VALUES (?, ?, ?, ?)",
		f.Path, f.Hash, f.LineCount, f.LastIndexed,
	)
	if err != nil {
		return 0, fmt.Errorf("insert file: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}
	f.ID = id
	return id, nil
}

func scanFile(scanner interface{ Scan(...any) error }) (*File, error) {
	f := &File{}
	if err := scanner.Scan(&f.ID, &f.Path, &f.Hash, &f.LineCount, &f.LastIndexed); err != nil {
		return nil, err
	}
	return f, nil
}

func (s *Store) FileByPath(path string) (*File, error) {
	f, err := scanFile(s.db.QueryRow("SELECT "+fileCols+" FROM files WHERE path = ?", path))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("file by path: %w", err)
	}
	return f, nil
}

func (s *Store) FileByID(id int64) (*File, error) {
	f, err := scanFile(s.db.QueryRow("SELECT "+fileCols+" FROM files WHERE id = ?", id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("file by id: %w", err)
	}
	return f, nil
}

// UpdateFileLineCount records the source line count of a file.
func (s *Store) UpdateFileLineCount(fileID int64, lineCount int) error {
	if _, err := s.db.Exec("UPDATE files SET line_count = ? WHERE id = ?", lineCount, fileID); err != nil {
		return fmt.Errorf("update line count: %w", err)
	}
	return nil
}

// Files returns every indexed file ordered by path.
func (s *Store) Files() ([]*File, error) {
	rows, err := s.db.Query("SELECT " + fileCols + " FROM files ORDER BY path")
	if err != nil {
		return nil, fmt.Errorf("files: %w", err)
	}
	defer rows.Close()
	var files []*File
	for rows.Next() {
		f, err := scanFile(rows)
		if err != nil {
			return nil, fmt.Errorf("scan file: %w", err)
		}
		files = append(files, f)
	}
	return files, rows.Err()
}

// --- Symbol operations ---

func (s *Store) InsertSymbol(sym *Symbol) (int64, error) {
	id, err := insertSymbolTx(s.db, sym)
	if err != nil {
		return 0, fmt.Errorf("insert symbol: %w", err)
	}
	sym.ID = id
	return id, nil
}

func (s *Store) scanSymbol(scanner interface{ Scan(...any) error }) (*Symbol, error) {
	sym := &Symbol{}
	err := scanner.Scan(
		&sym.ID, &sym.FileID, &sym.Name, &sym.Kind, &sym.Namespace, &sym.Detail,
		&sym.SignatureHash, &sym.StartOffset, &sym.EndOffset, &sym.NameStart, &sym.NameEnd,
		&sym.StartLine, &sym.StartCol, &sym.EndLine, &sym.EndCol, &sym.ParentSymbolID,
	)
	if err != nil {
		return nil, err
	}
	return sym, nil
}

// SymbolCols is the column list for symbol queries, exported for use by QueryBuilder.
const SymbolCols = `id, file_id, name, kind, namespace, detail, signature_hash,
	start_offset, end_offset, name_start, name_end,
	start_line, start_col, end_line, end_col, parent_symbol_id`

func (s *Store) querySymbols(query string, args ...any) ([]*Symbol, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var symbols []*Symbol
	for rows.Next() {
		sym, err := s.scanSymbol(rows)
		if err != nil {
			return nil, fmt.Errorf("scan symbol: %w", err)
		}
		symbols = append(symbols, sym)
	}
	return symbols, rows.Err()
}

func (s *Store) SymbolByID(id int64) (*Symbol, error) {
	sym, err := s.scanSymbol(s.db.QueryRow("SELECT "+SymbolCols+" FROM symbols WHERE id = ?", id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("symbol by id: %w", err)
	}
	return sym, nil
}

// SymbolsByFile returns a file's symbols in source order.
func (s *Store) SymbolsByFile(fileID int64) ([]*Symbol, error) {
	return s.querySymbols("SELECT "+SymbolCols+" FROM symbols WHERE file_id = ? ORDER BY start_offset, id", fileID)
}

func (s *Store) SymbolsByName(name string) ([]*Symbol, error) {
	return s.querySymbols("SELECT "+SymbolCols+" FROM symbols WHERE name = ?", name)
}

func (s *Store) SymbolsByKind(kind string) ([]*Symbol, error) {
	return s.querySymbols("SELECT "+SymbolCols+" FROM symbols WHERE kind = ?", kind)
}

func (s *Store) SymbolChildren(symbolID int64) ([]*Symbol, error) {
	return s.querySymbols("SELECT "+SymbolCols+" FROM symbols WHERE parent_symbol_id = ? ORDER BY start_offset, id", symbolID)
}

// SymbolsByIDs fetches the given symbols. Unknown IDs are ignored.
func (s *Store) SymbolsByIDs(ids []int64) ([]*Symbol, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return s.querySymbols(
		"SELECT "+SymbolCols+" FROM symbols WHERE id IN ("+placeholderList(len(ids))+") ORDER BY file_id, start_offset",
		int64sToArgs(ids)...,
	)
}

// --- Doc operations ---

func (s *Store) InsertDoc(doc *Doc) (int64, error) {
	id, err := insertDocTx(s.db, doc)
	if err != nil {
		return 0, fmt.Errorf("insert doc: %w", err)
	}
	doc.ID = id
	return id, nil
}

// DocBySymbol returns the doc comment of a symbol, or nil when it has none.
func (s *Store) DocBySymbol(symbolID int64) (*Doc, error) {
	d := &Doc{}
	err := s.db.QueryRow(
		"SELECT id, symbol_id, comment_type, content FROM docs WHERE symbol_id = ?", symbolID,
	).Scan(&d.ID, &d.SymbolID, &d.CommentType, &d.Content)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("doc by symbol: %w", err)
	}
	return d, nil
}

// --- Argument operations ---

func (s *Store) InsertArgument(arg *Argument) (int64, error) {
	id, err := insertArgumentTx(s.db, arg)
	if err != nil {
		return 0, fmt.Errorf("insert argument: %w", err)
	}
	arg.ID = id
	return id, nil
}

// Arguments returns a symbol's arguments ordered by ordinal.
func (s *Store) Arguments(symbolID int64) ([]*Argument, error) {
	rows, err := s.db.Query(
		"SELECT id, symbol_id, name, ordinal, name_offset FROM arguments WHERE symbol_id = ? ORDER BY ordinal", symbolID,
	)
	if err != nil {
		return nil, fmt.Errorf("arguments: %w", err)
	}
	defer rows.Close()
	var args []*Argument
	for rows.Next() {
		a := &Argument{}
		if err := rows.Scan(&a.ID, &a.SymbolID, &a.Name, &a.Ordinal, &a.Offset); err != nil {
			return nil, fmt.Errorf("scan argument: %w", err)
		}
		args = append(args, a)
	}
	return args, rows.Err()
}

// --- Reference operations ---

const referenceCols = `id, file_id, symbol_id, start_offset, end_offset,
	start_line, start_col, end_line, end_col, is_declaration`

func (s *Store) InsertReference(ref *Reference) (int64, error) {
	id, err := insertReferenceTx(s.db, ref)
	if err != nil {
		return 0, fmt.Errorf("insert reference: %w", err)
	}
	ref.ID = id
	return id, nil
}

func (s *Store) scanReference(scanner interface{ Scan(...any) error }) (*Reference, error) {
	r := &Reference{}
	err := scanner.Scan(
		&r.ID, &r.FileID, &r.SymbolID, &r.StartOffset, &r.EndOffset,
		&r.StartLine, &r.StartCol, &r.EndLine, &r.EndCol, &r.IsDeclaration,
	)
	if err != nil {
		return nil, err
	}
	return r, nil
}

func (s *Store) queryReferences(query string, args ...any) ([]*Reference, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var refs []*Reference
	for rows.Next() {
		r, err := s.scanReference(rows)
		if err != nil {
			return nil, fmt.Errorf("scan reference: %w", err)
		}
		refs = append(refs, r)
	}
	return refs, rows.Err()
}

func (s *Store) ReferencesByFile(fileID int64) ([]*Reference, error) {
	return s.queryReferences("SELECT "+referenceCols+" FROM references_ WHERE file_id = ? ORDER BY start_offset", fileID)
}

// ReferencesToSymbol returns every occurrence of a symbol, declaration first.
func (s *Store) ReferencesToSymbol(symbolID int64) ([]*Reference, error) {
	return s.queryReferences(
		"SELECT "+referenceCols+" FROM references_ WHERE symbol_id = ? ORDER BY is_declaration DESC, start_offset",
		symbolID,
	)
}

// ReferencesAt returns the occurrences in a file whose span contains offset.
// Both boundaries are inclusive, so a cursor just past a name still hits it.
func (s *Store) ReferencesAt(fileID int64, offset int) ([]*Reference, error) {
	return s.queryReferences(
		"SELECT "+referenceCols+" FROM references_ WHERE file_id = ? AND start_offset <= ? AND end_offset >= ? ORDER BY start_offset DESC",
		fileID, offset, offset,
	)
}

// ReferencesAtLocation is ReferencesAt for a 0-based line and column.
func (s *Store) ReferencesAtLocation(fileID int64, line, col int) ([]*Reference, error) {
	return s.queryReferences(
		`SELECT `+referenceCols+` FROM references_
		 WHERE file_id = ? AND start_line <= ? AND end_line >= ?
		   AND (start_line < ? OR (start_line = ? AND start_col <= ?))
		   AND (end_line > ? OR (end_line = ? AND end_col >= ?))
		 ORDER BY start_offset DESC`,
		fileID, line, line,
		line, line, col,
		line, line, col,
	)
}
