package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/jward/lookout"
	"github.com/jward/lookout/internal/store"
)

var (
	flagLimit      int
	flagOffset     int
	flagSort       string
	flagOrder      string
	flagKind       string
	flagNamespace  string
	flagFile       string
	flagPathPrefix string
	flagTopLevel   bool
	flagTop        int
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Query the outline index",
	Long:  "Run queries against indexed tree documents. All line and column numbers are 0-based.",
}

var definitionCmd = &cobra.Command{
	Use:   "definition <file> <line> <col>",
	Short: "Find the declaration of the symbol at a location",
	Args:  cobra.ExactArgs(3),
	RunE:  runDefinition,
}

var symbolAtCmd = &cobra.Command{
	Use:   "symbol-at <file> <line> <col>",
	Short: "Show the indexed symbol whose occurrence covers a location",
	Args:  cobra.ExactArgs(3),
	RunE:  runSymbolAt,
}

var referencesCmd = &cobra.Command{
	Use:   "references [<file> <line> <col>]",
	Short: "List every occurrence of a symbol",
	Long:  "List every occurrence of a symbol, given either by location or by --symbol.",
	Args:  cobra.RangeArgs(0, 3),
	RunE:  runReferences,
}

var symbolsCmd = &cobra.Command{
	Use:   "symbols",
	Short: "List indexed symbols with optional filters",
	Args:  cobra.NoArgs,
	RunE:  runSymbols,
}

var searchCmd = &cobra.Command{
	Use:   "search <pattern>",
	Short: "Search indexed symbols by name",
	Long:  "Search indexed symbols by name. A pattern without * matches names starting with it; * matches any run of characters.",
	Args:  cobra.ExactArgs(1),
	RunE:  runSearch,
}

var filesCmd = &cobra.Command{
	Use:   "files",
	Short: "List indexed files",
	Args:  cobra.NoArgs,
	RunE:  runFiles,
}

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Summarize the index",
	Args:  cobra.NoArgs,
	RunE:  runSummary,
}

var detailCmd = &cobra.Command{
	Use:   "detail [<file> <line> <col>]",
	Short: "Show a symbol with its doc, arguments and children",
	Args:  cobra.RangeArgs(0, 3),
	RunE:  runDetail,
}

var fileOutlineCmd = &cobra.Command{
	Use:   "outline <file>",
	Short: "Show the stored outline of an indexed file",
	Args:  cobra.ExactArgs(1),
	RunE:  runFileOutline,
}

func init() {
	queryCmd.PersistentFlags().IntVar(&flagLimit, "limit", 0, "pagination limit (default: query.limit from .lookout.yaml, max 500)")
	queryCmd.PersistentFlags().IntVar(&flagOffset, "offset", 0, "pagination offset")
	queryCmd.PersistentFlags().StringVar(&flagSort, "sort", "", "sort field: name|kind|file|position|ref_count")
	queryCmd.PersistentFlags().StringVar(&flagOrder, "order", "asc", "sort order: asc|desc")

	for _, c := range []*cobra.Command{symbolsCmd, searchCmd} {
		c.Flags().StringVar(&flagKind, "kind", "", "filter by symbol kind (value, function, type, constructor, field)")
		c.Flags().StringVar(&flagNamespace, "namespace", "", "filter by namespace (value, type, field)")
		c.Flags().StringVar(&flagFile, "file", "", "filter by file path")
		c.Flags().StringVar(&flagPathPrefix, "path-prefix", "", "filter by file path prefix")
		c.Flags().BoolVar(&flagTopLevel, "top-level", false, "only symbols without an enclosing declaration")
	}
	filesCmd.Flags().StringVar(&flagPathPrefix, "path-prefix", "", "filter by file path prefix")
	summaryCmd.Flags().IntVar(&flagTop, "top", 10, "number of most referenced symbols to list")
	referencesCmd.Flags().Int64("symbol", 0, "symbol ID (instead of a location)")
	detailCmd.Flags().Int64("symbol", 0, "symbol ID (instead of a location)")

	// search sits at the top level, outside the query group's persistent flags.
	searchCmd.Flags().IntVar(&flagLimit, "limit", 0, "pagination limit (default: query.limit from .lookout.yaml, max 500)")
	searchCmd.Flags().IntVar(&flagOffset, "offset", 0, "pagination offset")
	searchCmd.Flags().StringVar(&flagSort, "sort", "", "sort field: name|kind|file|position|ref_count")
	searchCmd.Flags().StringVar(&flagOrder, "order", "asc", "sort order: asc|desc")

	queryCmd.AddCommand(definitionCmd)
	queryCmd.AddCommand(symbolAtCmd)
	queryCmd.AddCommand(referencesCmd)
	queryCmd.AddCommand(symbolsCmd)
	queryCmd.AddCommand(filesCmd)
	queryCmd.AddCommand(summaryCmd)
	queryCmd.AddCommand(detailCmd)
	queryCmd.AddCommand(fileOutlineCmd)
}

// --- Helpers ---

// openStore opens the Store from the --db flag path (or the config default).
func openStore() (*store.Store, error) {
	dbPath := resolveDBPath(repoRoot)
	if !fileExists(dbPath) {
		return nil, fmt.Errorf("database not found: %s (run 'lookout index' first)", dbPath)
	}
	return store.NewStore(dbPath)
}

// resolveFilePath converts a file argument to an absolute path, the form
// in which indexed paths are stored.
func resolveFilePath(file string) (string, error) {
	if filepath.IsAbs(file) {
		return file, nil
	}
	abs, err := filepath.Abs(file)
	if err != nil {
		return "", fmt.Errorf("resolving file path %q: %w", file, err)
	}
	return abs, nil
}

// parseLocationArgs parses <file> <line> <col>.
func parseLocationArgs(args []string) (string, int, int, error) {
	file, err := resolveFilePath(args[0])
	if err != nil {
		return "", 0, 0, err
	}
	line, err := parseIntArg(args[1], "line")
	if err != nil {
		return "", 0, 0, err
	}
	col, err := parseIntArg(args[2], "col")
	if err != nil {
		return "", 0, 0, err
	}
	return file, line, col, nil
}

// resolveSymbolID resolves a symbol ID from either positional args
// (<file> <line> <col>) or the --symbol flag.
func resolveSymbolID(cmd *cobra.Command, args []string, qb *lookout.QueryBuilder) (int64, error) {
	symbolFlag, _ := cmd.Flags().GetInt64("symbol")
	if symbolFlag != 0 {
		return symbolFlag, nil
	}
	if len(args) < 3 {
		return 0, fmt.Errorf("requires either <file> <line> <col> arguments or --symbol flag")
	}

	file, line, col, err := parseLocationArgs(args)
	if err != nil {
		return 0, err
	}
	sym, err := qb.SymbolAt(file, line, col)
	if err != nil {
		return 0, fmt.Errorf("looking up symbol: %w", err)
	}
	if sym == nil {
		return 0, fmt.Errorf("no symbol found at %s:%d:%d", file, line, col)
	}
	return sym.ID, nil
}

// outputResult marshals a CLIResult to stdout in the selected format.
func outputResult(result CLIResult) error {
	if flagFormat == "text" {
		return outputResultText(os.Stdout, result)
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

// outputError writes an error in the selected format and returns it so RunE
// can propagate it to Cobra. In JSON mode the error is written to stdout as a
// CLIResult envelope. In text mode it goes to stderr.
func outputError(command string, err error) error {
	errorHandled = true
	if flagFormat == "text" {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		return err
	}
	result := CLIResult{
		Command: command,
		Error:   err.Error(),
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(result)
	return err
}

// buildPagination creates a Pagination from CLI flags.
func buildPagination() lookout.Pagination {
	limit := flagLimit
	if limit == 0 {
		limit = cfg.Query.Limit
	}
	return lookout.Pagination{Limit: limit, Offset: flagOffset}
}

// buildSort creates a Sort from CLI flags.
func buildSort() lookout.Sort {
	var field lookout.SortField
	switch flagSort {
	case "kind":
		field = lookout.SortByKind
	case "file":
		field = lookout.SortByFile
	case "position":
		field = lookout.SortByPosition
	case "ref_count":
		field = lookout.SortByRefCount
	default:
		field = lookout.SortByName
	}

	order := lookout.Asc
	if flagOrder == "desc" {
		order = lookout.Desc
	}
	return lookout.Sort{Field: field, Order: order}
}

// buildFilter creates a SymbolFilter from CLI flags.
func buildFilter(s *store.Store) (lookout.SymbolFilter, error) {
	filter := lookout.SymbolFilter{TopLevel: flagTopLevel}
	if flagKind != "" {
		filter.Kinds = []string{flagKind}
	}
	if flagNamespace != "" {
		filter.Namespace = &flagNamespace
	}
	if flagPathPrefix != "" {
		prefix, err := resolveFilePath(flagPathPrefix)
		if err != nil {
			return filter, err
		}
		filter.PathPrefix = &prefix
	}
	if flagFile != "" {
		path, err := resolveFilePath(flagFile)
		if err != nil {
			return filter, err
		}
		f, err := s.FileByPath(path)
		if err != nil {
			return filter, fmt.Errorf("looking up file: %w", err)
		}
		if f == nil {
			return filter, fmt.Errorf("file not indexed: %s", path)
		}
		filter.FileID = &f.ID
	}
	return filter, nil
}

func symbolResultToCLI(sr lookout.SymbolResult) CLISymbol {
	return CLISymbol{
		ID:        sr.ID,
		Name:      sr.Name,
		Kind:      sr.Kind,
		Namespace: sr.Namespace,
		Detail:    sr.Detail,
		File:      sr.FilePath,
		ParentID:  sr.ParentSymbolID,
		StartLine: sr.StartLine,
		StartCol:  sr.StartCol,
		EndLine:   sr.EndLine,
		EndCol:    sr.EndCol,
		RefCount:  sr.RefCount,
	}
}

func symbolResultsToCLI(items []lookout.SymbolResult) []CLISymbol {
	out := make([]CLISymbol, len(items))
	for i, sr := range items {
		out[i] = symbolResultToCLI(sr)
	}
	return out
}

func locationsToCLI(locs []lookout.Location) []CLILocation {
	out := make([]CLILocation, len(locs))
	for i, l := range locs {
		out[i] = CLILocation{File: l.File, StartLine: l.StartLine, StartCol: l.StartCol, EndLine: l.EndLine, EndCol: l.EndCol}
	}
	return out
}

func storeDocToCLI(doc *store.Doc, args []*store.Argument) *CLIDoc {
	if doc == nil && len(args) == 0 {
		return nil
	}
	out := &CLIDoc{}
	if doc != nil {
		out.Comment = doc.Content
		out.CommentType = doc.CommentType
	}
	for _, a := range args {
		out.Args = append(out.Args, CLIArgument{Name: a.Name, Offset: a.Offset})
	}
	return out
}

func outlineToCLI(nodes []*lookout.OutlineNode) []CLIOutlineNode {
	out := make([]CLIOutlineNode, len(nodes))
	for i, n := range nodes {
		out[i] = CLIOutlineNode{
			Symbol:   symbolResultToCLI(n.Symbol),
			Doc:      storeDocToCLI(n.Doc, nil),
			Children: outlineToCLI(n.Children),
		}
	}
	return out
}

// --- Commands ---

func runDefinition(cmd *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return outputError("definition", err)
	}
	defer s.Close()

	file, line, col, err := parseLocationArgs(args)
	if err != nil {
		return outputError("definition", err)
	}
	locs, err := lookout.NewQueryBuilder(s).DefinitionAt(file, line, col)
	if err != nil {
		return outputError("definition", err)
	}
	return outputResult(CLIResult{Command: "definition", Results: locationsToCLI(locs)})
}

func runSymbolAt(cmd *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return outputError("symbol-at", err)
	}
	defer s.Close()

	file, line, col, err := parseLocationArgs(args)
	if err != nil {
		return outputError("symbol-at", err)
	}
	qb := lookout.NewQueryBuilder(s)
	detail, err := qb.SymbolDetailAt(file, line, col)
	if err != nil {
		return outputError("symbol-at", err)
	}
	if detail == nil {
		return outputResult(CLIResult{Command: "symbol-at"})
	}
	return outputResult(CLIResult{Command: "symbol-at", Results: symbolResultToCLI(detail.Symbol)})
}

func runReferences(cmd *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return outputError("references", err)
	}
	defer s.Close()

	qb := lookout.NewQueryBuilder(s)
	id, err := resolveSymbolID(cmd, args, qb)
	if err != nil {
		return outputError("references", err)
	}
	locs, err := qb.ReferencesTo(id)
	if err != nil {
		return outputError("references", err)
	}
	total := len(locs)
	return outputResult(CLIResult{Command: "references", Results: locationsToCLI(locs), TotalCount: &total})
}

func runSymbols(cmd *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return outputError("symbols", err)
	}
	defer s.Close()

	filter, err := buildFilter(s)
	if err != nil {
		return outputError("symbols", err)
	}
	result, err := lookout.NewQueryBuilder(s).Symbols(filter, buildSort(), buildPagination())
	if err != nil {
		return outputError("symbols", err)
	}
	return outputResult(CLIResult{
		Command:    "symbols",
		Results:    symbolResultsToCLI(result.Items),
		TotalCount: &result.TotalCount,
	})
}

func runSearch(cmd *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return outputError("search", err)
	}
	defer s.Close()

	filter, err := buildFilter(s)
	if err != nil {
		return outputError("search", err)
	}
	result, err := lookout.NewQueryBuilder(s).SearchSymbols(args[0], filter, buildSort(), buildPagination())
	if err != nil {
		return outputError("search", err)
	}
	return outputResult(CLIResult{
		Command:    "search",
		Results:    symbolResultsToCLI(result.Items),
		TotalCount: &result.TotalCount,
	})
}

func runFiles(cmd *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return outputError("files", err)
	}
	defer s.Close()

	prefix := ""
	if flagPathPrefix != "" {
		if prefix, err = resolveFilePath(flagPathPrefix); err != nil {
			return outputError("files", err)
		}
	}
	result, err := lookout.NewQueryBuilder(s).Files(prefix, buildSort(), buildPagination())
	if err != nil {
		return outputError("files", err)
	}
	files := make([]CLIFile, len(result.Items))
	for i, f := range result.Items {
		files[i] = CLIFile{
			ID:          f.ID,
			Path:        f.Path,
			LineCount:   f.LineCount,
			LastIndexed: f.LastIndexed.Format(time.RFC3339),
		}
	}
	return outputResult(CLIResult{Command: "files", Results: files, TotalCount: &result.TotalCount})
}

func runSummary(cmd *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return outputError("summary", err)
	}
	defer s.Close()

	summary, err := lookout.NewQueryBuilder(s).ProjectSummary(flagTop)
	if err != nil {
		return outputError("summary", err)
	}
	return outputResult(CLIResult{
		Command: "summary",
		Results: CLIProjectSummary{
			FileCount:   summary.FileCount,
			SymbolCount: summary.SymbolCount,
			KindCounts:  summary.KindCounts,
			TopSymbols:  symbolResultsToCLI(summary.TopSymbols),
		},
	})
}

func runDetail(cmd *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return outputError("detail", err)
	}
	defer s.Close()

	qb := lookout.NewQueryBuilder(s)
	id, err := resolveSymbolID(cmd, args, qb)
	if err != nil {
		return outputError("detail", err)
	}
	detail, err := qb.SymbolDetail(id)
	if err != nil {
		return outputError("detail", err)
	}
	if detail == nil {
		return outputError("detail", fmt.Errorf("symbol %d not found", id))
	}

	params := make([]CLIArgument, len(detail.Arguments))
	for i, a := range detail.Arguments {
		params[i] = CLIArgument{Name: a.Name, Offset: a.Offset}
	}
	return outputResult(CLIResult{
		Command: "detail",
		Results: CLISymbolDetail{
			Symbol:    symbolResultToCLI(detail.Symbol),
			Doc:       storeDocToCLI(detail.Doc, nil),
			Arguments: params,
			Children:  symbolResultsToCLI(detail.Children),
		},
	})
}

func runFileOutline(cmd *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return outputError("outline", err)
	}
	defer s.Close()

	path, err := resolveFilePath(args[0])
	if err != nil {
		return outputError("outline", err)
	}
	nodes, err := lookout.NewQueryBuilder(s).FileOutline(path)
	if err != nil {
		return outputError("outline", err)
	}
	if nodes == nil {
		return outputError("outline", fmt.Errorf("file not indexed: %s", path))
	}
	return outputResult(CLIResult{Command: "outline", Results: outlineToCLI(nodes)})
}
