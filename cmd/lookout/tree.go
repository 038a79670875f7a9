package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jward/lookout"
	"github.com/jward/lookout/internal/runtime"
	"github.com/jward/lookout/internal/store"
	"github.com/jward/lookout/internal/treefile"
	"github.com/jward/lookout/metadata"
	"github.com/jward/lookout/pos"
	"github.com/jward/lookout/scripts"
)

// --- Tree Document Commands ---
//
// These commands load one tree document and answer a query at a position.
// A position is either a byte offset or a 0-based "line:col" pair.

var flagPartial string

var typeCmd = &cobra.Command{
	Use:   "type <tree-file> <pos>",
	Short: "Show the type or kind of the innermost node at a position",
	Args:  cobra.ExactArgs(2),
	RunE:  runType,
}

var kindCmd = &cobra.Command{
	Use:   "kind <tree-file> <pos>",
	Short: "Show the kind at a type-level position",
	Args:  cobra.ExactArgs(2),
	RunE:  runKind,
}

var symbolCmd = &cobra.Command{
	Use:   "symbol <tree-file> <pos>",
	Short: "Show the declaration a position names",
	Args:  cobra.ExactArgs(2),
	RunE:  runSymbol,
}

var refsCmd = &cobra.Command{
	Use:   "refs <tree-file> <pos>",
	Short: "List every occurrence of the symbol at a position",
	Args:  cobra.ExactArgs(2),
	RunE:  runRefs,
}

var docCmd = &cobra.Command{
	Use:   "doc <tree-file> <pos>",
	Short: "Show the documentation of the declaration at a position",
	Long:  "Show the documentation of the declaration at a position. With --partial, show the documentation of the visible declaration best matching a partially typed name instead.",
	Args:  cobra.ExactArgs(2),
	RunE:  runDoc,
}

var suggestCmd = &cobra.Command{
	Use:   "suggest <tree-file> <pos> <prefix>",
	Short: "List names visible at a position that start with prefix",
	Args:  cobra.RangeArgs(2, 3),
	RunE:  runSuggest,
}

var outlineCmd = &cobra.Command{
	Use:   "outline <tree-file>",
	Short: "Show the declaration outline of a tree document",
	Args:  cobra.ExactArgs(1),
	RunE:  runOutline,
}

var scriptCmd = &cobra.Command{
	Use:   "script <script> <tree-file>",
	Short: "Run a Risor script against a tree document",
	Long:  "Run a Risor script with the tree query functions bound as globals. When the index database exists its read-only query functions are bound too. The tree path is available to the script as tree_path.",
	Args:  cobra.ExactArgs(2),
	RunE:  runScript,
}

var checkCmd = &cobra.Command{
	Use:   "check <tree-file>",
	Short: "Run the built-in checks against a tree document",
	Long:  "Run every embedded check script (undocumented declarations, unused bindings) and list what they report.",
	Args:  cobra.ExactArgs(1),
	RunE:  runCheck,
}

func init() {
	docCmd.Flags().StringVar(&flagPartial, "partial", "", "partially typed name to complete")
}

// loadTree decodes and validates a tree document.
func loadTree(path string) (*lookout.Tree, error) {
	doc, err := treefile.Load(path)
	if err != nil {
		return nil, err
	}
	return lookout.NewTree(doc.Source, doc.Root, doc.Env, nil)
}

// parsePosition parses a byte offset or a 0-based "line:col" pair.
func parsePosition(tree *lookout.Tree, arg string) (pos.BytePos, error) {
	if line, col, ok := strings.Cut(arg, ":"); ok {
		l, err := parseIntArg(line, "line")
		if err != nil {
			return 0, err
		}
		c, err := parseIntArg(col, "col")
		if err != nil {
			return 0, err
		}
		return tree.Offset(l, c)
	}
	n, err := parseIntArg(arg, "offset")
	if err != nil {
		return 0, err
	}
	return pos.BytePos(n), nil
}

// parseIntArg parses a positional argument as an integer with a clear error.
func parseIntArg(value, name string) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: must be a non-negative integer", name, value)
	}
	if n < 0 {
		return 0, fmt.Errorf("invalid %s %q: must be non-negative", name, value)
	}
	return n, nil
}

// treeAt loads the tree document and parses the position argument.
func treeAt(args []string) (*lookout.Tree, pos.BytePos, error) {
	tree, err := loadTree(args[0])
	if err != nil {
		return nil, 0, err
	}
	p, err := parsePosition(tree, args[1])
	if err != nil {
		return nil, 0, err
	}
	return tree, p, nil
}

func runType(cmd *cobra.Command, args []string) error {
	tree, p, err := treeAt(args)
	if err != nil {
		return outputError("type", err)
	}
	span, r, err := tree.SpanTypeAt(p)
	if errors.Is(err, lookout.ErrNotFound) {
		return outputResult(CLIResult{Command: "type"})
	}
	if err != nil {
		return outputError("type", err)
	}
	level := "type"
	if _, ok := r.Kind(); ok {
		level = "kind"
	}
	return outputResult(CLIResult{
		Command: "type",
		Results: CLIType{Span: spanToCLI(tree, span), Level: level, Type: r.String()},
	})
}

func runKind(cmd *cobra.Command, args []string) error {
	tree, p, err := treeAt(args)
	if err != nil {
		return outputError("kind", err)
	}
	k, err := tree.KindAt(p)
	if errors.Is(err, lookout.ErrNotFound) {
		return outputResult(CLIResult{Command: "kind"})
	}
	if err != nil {
		return outputError("kind", err)
	}
	span, _, err := tree.SpanTypeAt(p)
	if err != nil {
		return outputError("kind", err)
	}
	return outputResult(CLIResult{
		Command: "kind",
		Results: CLIType{Span: spanToCLI(tree, span), Level: "kind", Type: k.String()},
	})
}

func runSymbol(cmd *cobra.Command, args []string) error {
	tree, p, err := treeAt(args)
	if err != nil {
		return outputError("symbol", err)
	}
	sym, err := tree.SymbolAt(p)
	if errors.Is(err, lookout.ErrNotFound) {
		return outputResult(CLIResult{Command: "symbol"})
	}
	if err != nil {
		return outputError("symbol", err)
	}
	return outputResult(CLIResult{Command: "symbol", Results: treeSymbolToCLI(tree, sym)})
}

func runRefs(cmd *cobra.Command, args []string) error {
	tree, p, err := treeAt(args)
	if err != nil {
		return outputError("refs", err)
	}
	name, spans, err := tree.References(p)
	if errors.Is(err, lookout.ErrNotFound) {
		return outputResult(CLIResult{Command: "refs"})
	}
	if err != nil {
		return outputError("refs", err)
	}
	refs := CLIReferences{Name: name, Spans: make([]CLISpan, len(spans))}
	for i, sp := range spans {
		refs.Spans[i] = spanToCLI(tree, sp)
	}
	total := len(spans)
	return outputResult(CLIResult{Command: "refs", Results: refs, TotalCount: &total})
}

func runDoc(cmd *cobra.Command, args []string) error {
	tree, p, err := treeAt(args)
	if err != nil {
		return outputError("doc", err)
	}
	var md *metadata.Metadata
	if cmd.Flags().Changed("partial") {
		md = tree.SuggestDoc(p, flagPartial)
	} else {
		md = tree.Doc(p)
	}
	if doc := metadataToCLI(md); doc != nil {
		return outputResult(CLIResult{Command: "doc", Results: *doc})
	}
	return outputResult(CLIResult{Command: "doc"})
}

func runSuggest(cmd *cobra.Command, args []string) error {
	tree, p, err := treeAt(args[:2])
	if err != nil {
		return outputError("suggest", err)
	}
	prefix := ""
	if len(args) == 3 {
		prefix = args[2]
	}
	suggestions := tree.Suggest(p, prefix)
	out := make([]CLISuggestion, len(suggestions))
	for i, s := range suggestions {
		out[i] = CLISuggestion{
			Name:      s.Name,
			Namespace: s.Symbol.Namespace.String(),
			Detail:    detailString(s.Detail),
		}
		if !s.Symbol.Free && s.Symbol.Name != "" {
			sp := spanToCLI(tree, s.Symbol.Span)
			out[i].Span = &sp
		}
	}
	total := len(out)
	return outputResult(CLIResult{Command: "suggest", Results: out, TotalCount: &total})
}

func runOutline(cmd *cobra.Command, args []string) error {
	tree, err := loadTree(args[0])
	if err != nil {
		return outputError("outline", err)
	}
	return outputResult(CLIResult{Command: "outline", Results: entriesToCLI(tree, tree.Outline())})
}

func runScript(cmd *cobra.Command, args []string) error {
	scriptPath, err := filepath.Abs(args[0])
	if err != nil {
		return outputError("script", err)
	}
	tree, err := loadTree(args[1])
	if err != nil {
		return outputError("script", err)
	}

	opts := []runtime.RuntimeOption{runtime.WithLogger(logger)}
	if dbPath := resolveDBPath(repoRoot); fileExists(dbPath) {
		s, err := store.NewStore(dbPath)
		if err != nil {
			return outputError("script", err)
		}
		defer s.Close()
		opts = append(opts, runtime.WithStore(s))
	}

	rt := runtime.NewRuntime(tree, filepath.Dir(scriptPath), opts...)
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if err := rt.RunScript(ctx, filepath.Base(scriptPath), map[string]any{"tree_path": args[1]}); err != nil {
		return outputError("script", err)
	}
	return nil
}

func runCheck(cmd *cobra.Command, args []string) error {
	tree, err := loadTree(args[0])
	if err != nil {
		return outputError("check", err)
	}
	checks, err := scripts.Checks()
	if err != nil {
		return outputError("check", err)
	}

	rt := runtime.NewRuntime(tree, "", runtime.WithRuntimeFS(scripts.FS), runtime.WithLogger(logger))
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	for _, c := range checks {
		if err := rt.RunScript(ctx, c, map[string]any{"tree_path": args[0]}); err != nil {
			return outputError("check", err)
		}
	}

	findings := rt.Findings()
	out := make([]CLIFinding, len(findings))
	for i, f := range findings {
		out[i] = CLIFinding{Check: f.Check, Message: f.Message, Span: spanToCLI(tree, f.Span)}
	}
	total := len(out)
	return outputResult(CLIResult{Command: "check", Results: out, TotalCount: &total})
}

// --- Conversions ---

// spanToCLI converts a span, resolving its start line and column.
func spanToCLI(tree *lookout.Tree, span pos.Span) CLISpan {
	out := CLISpan{Start: int(span.Start), End: int(span.End), Text: tree.Text(span)}
	if loc, err := tree.Location(span.Start); err == nil {
		out.Line = loc.Line
		out.Col = loc.Column
	}
	return out
}

func treeSymbolToCLI(tree *lookout.Tree, sym lookout.Symbol) CLITreeSymbol {
	out := CLITreeSymbol{Name: sym.Name, Namespace: sym.Namespace.String(), Free: sym.Free}
	if !sym.Free {
		sp := spanToCLI(tree, sym.Span)
		out.Span = &sp
	}
	return out
}

// detailString renders a type or kind, leaving absent details empty.
func detailString(r lookout.TypeOrKind) string {
	_, isKind := r.Kind()
	_, isType := r.Type()
	if !isKind && !isType {
		return ""
	}
	return r.String()
}

// metadataToCLI returns nil for absent or empty metadata.
func metadataToCLI(md *metadata.Metadata) *CLIDoc {
	if md.IsEmpty() {
		return nil
	}
	out := &CLIDoc{}
	if md.Comment != nil {
		out.Comment = md.Comment.Content
		out.CommentType = md.Comment.Type.String()
	}
	for _, a := range md.Args {
		out.Args = append(out.Args, CLIArgument{Name: a.Name, Offset: int(a.Pos)})
	}
	for name, child := range md.Module {
		if c := metadataToCLI(child); c != nil {
			if out.Fields == nil {
				out.Fields = make(map[string]CLIDoc)
			}
			out.Fields[name] = *c
		}
	}
	return out
}

func entriesToCLI(tree *lookout.Tree, entries []*lookout.SymbolEntry) []CLIEntry {
	out := make([]CLIEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, CLIEntry{
			Name:     e.Symbol.Name,
			Kind:     e.Kind.String(),
			Detail:   detailString(e.Detail),
			Span:     spanToCLI(tree, e.Span),
			Doc:      metadataToCLI(e.Metadata),
			Children: entriesToCLI(tree, e.Children),
		})
	}
	return out
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
