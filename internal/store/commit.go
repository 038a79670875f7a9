package store

import (
	"database/sql"
	"fmt"
)

// CommitBatch inserts all buffered data from a BatchedStore into SQLite
// within a single transaction. Fake (negative) IDs are remapped to real
// (positive, AUTOINCREMENT) IDs, and all FK references within the batch
// are rewritten using the fakeToReal mapping.
//
// Insert order respects FK dependencies:
//  1. Symbols (depend on file_id, and on parent symbols inserted earlier)
//  2. Docs (depend on symbol_id)
//  3. Arguments (depend on symbol_id)
//  4. References (depend on file_id, symbol_id)
func (s *Store) CommitBatch(batch *BatchedStore) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("commit batch: begin: %w", err)
	}
	defer tx.Rollback()

	fakeToReal := make(map[int64]int64)
	remap := func(id int64) (int64, error) {
		if id >= 0 {
			return id, nil
		}
		realID, ok := fakeToReal[id]
		if !ok {
			return 0, fmt.Errorf("id %d not in fakeToReal map (have %d symbols)", id, len(batch.Symbols))
		}
		return realID, nil
	}

	// 1. Symbols
	for _, sym := range batch.Symbols {
		if sym.ParentSymbolID != nil {
			realID, err := remap(*sym.ParentSymbolID)
			if err != nil {
				return fmt.Errorf("commit batch: symbol %q parent: %w", sym.Name, err)
			}
			sym.ParentSymbolID = &realID
		}
		realID, err := insertSymbolTx(tx, &sym)
		if err != nil {
			return fmt.Errorf("commit batch: symbol %q: %w", sym.Name, err)
		}
		fakeToReal[sym.ID] = realID
	}

	// 2. Docs
	for _, doc := range batch.Docs {
		symID, err := remap(doc.SymbolID)
		if err != nil {
			return fmt.Errorf("commit batch: doc: %w", err)
		}
		doc.SymbolID = symID
		realID, err := insertDocTx(tx, &doc)
		if err != nil {
			return fmt.Errorf("commit batch: doc: %w", err)
		}
		fakeToReal[doc.ID] = realID
	}

	// 3. Arguments
	for _, arg := range batch.Arguments {
		symID, err := remap(arg.SymbolID)
		if err != nil {
			return fmt.Errorf("commit batch: argument %q: %w", arg.Name, err)
		}
		arg.SymbolID = symID
		realID, err := insertArgumentTx(tx, &arg)
		if err != nil {
			return fmt.Errorf("commit batch: argument %q: %w", arg.Name, err)
		}
		fakeToReal[arg.ID] = realID
	}

	// 4. References
	for _, ref := range batch.References {
		symID, err := remap(ref.SymbolID)
		if err != nil {
			return fmt.Errorf("commit batch: reference: %w", err)
		}
		ref.SymbolID = symID
		realID, err := insertReferenceTx(tx, &ref)
		if err != nil {
			return fmt.Errorf("commit batch: reference: %w", err)
		}
		fakeToReal[ref.ID] = realID
	}

	return tx.Commit()
}

// execer is satisfied by both *sql.DB and *sql.Tx, so Store inserts and
// batch commits share one set of statements.
type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

func insertSymbolTx(tx execer, sym *Symbol) (int64, error) {
	res, err := tx.Exec(
		`INSERT INTO symbols (file_id, name, kind, namespace, detail, signature_hash,
			start_offset, end_offset, name_start, name_end,
			start_line, start_col, end_line, end_col, parent_symbol_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sym.FileID, sym.Name, sym.Kind, sym.Namespace, sym.Detail, sym.SignatureHash,
		sym.StartOffset, sym.EndOffset, sym.NameStart, sym.NameEnd,
		sym.StartLine, sym.StartCol, sym.EndLine, sym.EndCol, sym.ParentSymbolID,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func insertDocTx(tx execer, doc *Doc) (int64, error) {
	res, err := tx.Exec(
		`INSERT INTO docs (symbol_id, comment_type, content) VALUES (?, ?, ?)`,
		doc.SymbolID, doc.CommentType, doc.Content,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func insertArgumentTx(tx execer, arg *Argument) (int64, error) {
	res, err := tx.Exec(
		`INSERT INTO arguments (symbol_id, name, ordinal, name_offset) VALUES (?, ?, ?, ?)`,
		arg.SymbolID, arg.Name, arg.Ordinal, arg.Offset,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func insertReferenceTx(tx execer, ref *Reference) (int64, error) {
	res, err := tx.Exec(
		`INSERT INTO references_ (file_id, symbol_id, start_offset, end_offset,
			start_line, start_col, end_line, end_col, is_declaration)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		ref.FileID, ref.SymbolID, ref.StartOffset, ref.EndOffset,
		ref.StartLine, ref.StartCol, ref.EndLine, ref.EndCol, ref.IsDeclaration,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}
