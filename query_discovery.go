package lookout

import (
	"fmt"
	"strings"

	"github.com/jward/lookout/internal/store"
)

// --- Common Types ---

// Pagination controls offset+limit paging on list/search results.
type Pagination struct {
	Offset int // skip this many results (default 0)
	Limit  int // max results to return (default 50, max 500)
}

const (
	defaultLimit = 50
	maxLimit     = 500
)

// normalize returns a Pagination with defaults applied and bounds enforced.
func (p Pagination) normalize() Pagination {
	if p.Offset < 0 {
		p.Offset = 0
	}
	if p.Limit <= 0 {
		p.Limit = defaultLimit
	}
	if p.Limit > maxLimit {
		p.Limit = maxLimit
	}
	return p
}

// SortField specifies how to order results.
type SortField string

const (
	SortByName     SortField = "name"
	SortByKind     SortField = "kind"
	SortByFile     SortField = "file"
	SortByPosition SortField = "position"
	SortByRefCount SortField = "ref_count"
)

// SortOrder specifies ascending or descending.
type SortOrder string

const (
	Asc  SortOrder = "asc"
	Desc SortOrder = "desc"
)

// Sort controls result ordering.
type Sort struct {
	Field SortField
	Order SortOrder
}

// SymbolResult extends an indexed symbol with computed fields useful for
// discovery.
type SymbolResult struct {
	store.Symbol
	FilePath string // path of the declaring file
	RefCount int    // occurrences other than the declaration
}

// PagedResult wraps a page of results with total count for pagination.
type PagedResult[T any] struct {
	Items      []T
	TotalCount int // total matching results (before pagination)
}

// SymbolFilter specifies which symbols to include.
type SymbolFilter struct {
	Kinds      []string // match any of these kinds
	Namespace  *string  // exact match: value, type or field
	FileID     *int64   // restrict to a single file
	ParentID   *int64   // restrict to direct children of this symbol
	TopLevel   bool     // restrict to symbols without a parent
	PathPrefix *string  // restrict to symbols in files under this path
}

// --- Internal Helpers ---

// normalizePathPrefix ensures a path prefix ends with "/" for correct LIKE matching.
// "lib/core" -> "lib/core/" to prevent matching "lib/core_utils/".
func normalizePathPrefix(prefix string) string {
	if prefix == "" {
		return ""
	}
	if !strings.HasSuffix(prefix, "/") {
		return prefix + "/"
	}
	return prefix
}

// symbolSortColumn returns the SQL ORDER BY expression for symbol queries.
// Falls back to "s.name" for unknown fields.
func symbolSortColumn(field SortField) string {
	switch field {
	case SortByName:
		return "s.name"
	case SortByKind:
		return "s.kind"
	case SortByFile:
		return "f.path"
	case SortByPosition:
		return "f.path, s.start_offset"
	case SortByRefCount:
		return "ref_count"
	default:
		return "s.name"
	}
}

// sortDirection returns "ASC" or "DESC".
func sortDirection(order SortOrder) string {
	if order == Desc {
		return "DESC"
	}
	return "ASC"
}

// where builds the WHERE clause and arguments for a symbol filter.
func (filter SymbolFilter) where() ([]string, []any) {
	var where []string
	var args []any

	if len(filter.Kinds) > 0 {
		where = append(where, "s.kind IN ("+strings.Repeat("?,", len(filter.Kinds)-1)+"?)")
		for _, k := range filter.Kinds {
			args = append(args, k)
		}
	}
	if filter.Namespace != nil {
		where = append(where, "s.namespace = ?")
		args = append(args, *filter.Namespace)
	}
	if filter.FileID != nil {
		where = append(where, "s.file_id = ?")
		args = append(args, *filter.FileID)
	}
	if filter.ParentID != nil {
		where = append(where, "s.parent_symbol_id = ?")
		args = append(args, *filter.ParentID)
	}
	if filter.TopLevel {
		where = append(where, "s.parent_symbol_id IS NULL")
	}
	if filter.PathPrefix != nil {
		prefix := normalizePathPrefix(*filter.PathPrefix)
		if prefix != "" {
			where = append(where, "f.path LIKE ? ESCAPE '\\'")
			args = append(args, escapeLike(prefix)+"%")
		}
	}
	return where, args
}

// --- Enumeration Endpoints ---

// Symbols is the primary listing/filtering endpoint. All filter fields are optional.
func (q *QueryBuilder) Symbols(filter SymbolFilter, sort Sort, page Pagination) (*PagedResult[SymbolResult], error) {
	where, args := filter.where()
	res, err := q.pagedSymbols(where, args, sort, page)
	if err != nil {
		return nil, fmt.Errorf("symbols: %w", err)
	}
	return res, nil
}

// SearchSymbols performs glob-style search on symbol names.
// '*' is the wildcard (mapped to SQL '%'). A pattern without '*' matches
// names starting with it.
func (q *QueryBuilder) SearchSymbols(pattern string, filter SymbolFilter, sort Sort, page Pagination) (*PagedResult[SymbolResult], error) {
	where, args := filter.where()

	// Escape literal % and _ first, then convert * to %.
	if pattern != "" && pattern != "*" {
		likePattern := strings.ReplaceAll(escapeLike(pattern), "*", "%")
		if !strings.Contains(pattern, "*") {
			likePattern += "%"
		}
		where = append(where, "s.name LIKE ? ESCAPE '\\'")
		args = append(args, likePattern)
	}

	res, err := q.pagedSymbols(where, args, sort, page)
	if err != nil {
		return nil, fmt.Errorf("search symbols: %w", err)
	}
	return res, nil
}

func (q *QueryBuilder) pagedSymbols(where []string, args []any, sort Sort, page Pagination) (*PagedResult[SymbolResult], error) {
	page = page.normalize()

	whereClause := ""
	if len(where) > 0 {
		whereClause = "WHERE " + strings.Join(where, " AND ")
	}

	countSQL := `SELECT COUNT(*) FROM symbols s LEFT JOIN files f ON s.file_id = f.id ` + whereClause
	var totalCount int
	if err := q.store.DB().QueryRow(countSQL, args...).Scan(&totalCount); err != nil {
		return nil, fmt.Errorf("count: %w", err)
	}

	dataSQL := fmt.Sprintf(
		`SELECT %s, COALESCE(f.path, '') AS file_path, %s AS ref_count
		 FROM symbols s
		 LEFT JOIN files f ON s.file_id = f.id
		 %s
		 ORDER BY %s %s, s.id
		 LIMIT ? OFFSET ?`,
		prefixSymbolCols("s"), refCountExpr, whereClause,
		symbolSortColumn(sort.Field), sortDirection(sort.Order),
	)
	dataArgs := append(append([]any{}, args...), page.Limit, page.Offset)

	items, err := q.querySymbolResults(dataSQL, dataArgs...)
	if err != nil {
		return nil, err
	}
	return &PagedResult[SymbolResult]{Items: items, TotalCount: totalCount}, nil
}

// Files lists indexed files, optionally restricted to a path prefix.
func (q *QueryBuilder) Files(pathPrefix string, sort Sort, page Pagination) (*PagedResult[store.File], error) {
	page = page.normalize()

	whereClause := ""
	var args []any
	if pathPrefix != "" {
		whereClause = "WHERE path LIKE ? ESCAPE '\\'"
		args = append(args, escapeLike(normalizePathPrefix(pathPrefix))+"%")
	}

	var totalCount int
	if err := q.store.DB().QueryRow("SELECT COUNT(*) FROM files "+whereClause, args...).Scan(&totalCount); err != nil {
		return nil, fmt.Errorf("files: count: %w", err)
	}

	dataSQL := fmt.Sprintf(
		`SELECT id, path, hash, line_count, last_indexed FROM files %s ORDER BY path %s LIMIT ? OFFSET ?`,
		whereClause, sortDirection(sort.Order),
	)
	dataArgs := append(append([]any{}, args...), page.Limit, page.Offset)

	rows, err := q.store.DB().Query(dataSQL, dataArgs...)
	if err != nil {
		return nil, fmt.Errorf("files: query: %w", err)
	}
	defer rows.Close()

	items := []store.File{}
	for rows.Next() {
		var f store.File
		if err := rows.Scan(&f.ID, &f.Path, &f.Hash, &f.LineCount, &f.LastIndexed); err != nil {
			return nil, fmt.Errorf("files: scan: %w", err)
		}
		items = append(items, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("files: rows: %w", err)
	}
	return &PagedResult[store.File]{Items: items, TotalCount: totalCount}, nil
}

// --- Digest Endpoints ---

// ProjectSummary provides a high-level overview of the index.
type ProjectSummary struct {
	FileCount   int
	SymbolCount int
	KindCounts  map[string]int
	TopSymbols  []SymbolResult
}

// ProjectSummary returns file and symbol counts plus the topN most
// referenced symbols.
func (q *QueryBuilder) ProjectSummary(topN int) (*ProjectSummary, error) {
	summary := &ProjectSummary{KindCounts: make(map[string]int)}

	if err := q.store.DB().QueryRow("SELECT COUNT(*) FROM files").Scan(&summary.FileCount); err != nil {
		return nil, fmt.Errorf("project summary: file count: %w", err)
	}

	rows, err := q.store.DB().Query("SELECT kind, COUNT(*) FROM symbols GROUP BY kind")
	if err != nil {
		return nil, fmt.Errorf("project summary: kind counts: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var kind string
		var count int
		if err := rows.Scan(&kind, &count); err != nil {
			return nil, fmt.Errorf("project summary: scan kind: %w", err)
		}
		summary.KindCounts[kind] = count
		summary.SymbolCount += count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("project summary: kind rows: %w", err)
	}

	summary.TopSymbols = []SymbolResult{}
	if topN > 0 {
		topSQL := fmt.Sprintf(
			`SELECT %s, COALESCE(f.path, '') AS file_path, %s AS ref_count
			 FROM symbols s
			 LEFT JOIN files f ON s.file_id = f.id
			 WHERE %s > 0
			 ORDER BY ref_count DESC, s.name, s.id
			 LIMIT ?`,
			prefixSymbolCols("s"), refCountExpr, refCountExpr,
		)
		top, err := q.querySymbolResults(topSQL, topN)
		if err != nil {
			return nil, fmt.Errorf("project summary: top symbols: %w", err)
		}
		summary.TopSymbols = top
	}
	return summary, nil
}

// --- Scan Helpers ---

const refCountExpr = `(SELECT COUNT(*) FROM references_ r WHERE r.symbol_id = s.id AND r.is_declaration = 0)`

// prefixSymbolCols returns the SymbolCols with a table prefix applied.
func prefixSymbolCols(prefix string) string {
	cols := strings.Split(store.SymbolCols, ",")
	prefixed := make([]string, len(cols))
	for i, c := range cols {
		prefixed[i] = prefix + "." + strings.TrimSpace(c)
	}
	return strings.Join(prefixed, ", ")
}

type scanner interface {
	Scan(dest ...any) error
}

// scanSymbolResult scans a row into a SymbolResult.
// Expects columns: [SymbolCols..., file_path, ref_count].
func scanSymbolResult(row scanner) (SymbolResult, error) {
	var sr SymbolResult
	err := row.Scan(
		&sr.ID, &sr.FileID, &sr.Name, &sr.Kind, &sr.Namespace, &sr.Detail, &sr.SignatureHash,
		&sr.StartOffset, &sr.EndOffset, &sr.NameStart, &sr.NameEnd,
		&sr.StartLine, &sr.StartCol, &sr.EndLine, &sr.EndCol, &sr.ParentSymbolID,
		&sr.FilePath, &sr.RefCount,
	)
	return sr, err
}

func (q *QueryBuilder) querySymbolResults(query string, args ...any) ([]SymbolResult, error) {
	rows, err := q.store.DB().Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	items := []SymbolResult{}
	for rows.Next() {
		sr, err := scanSymbolResult(rows)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		items = append(items, sr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return items, nil
}

// escapeLike escapes SQL LIKE special characters (% and _) with backslash.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}
