package main

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"
)

// formatLocationsText formats CLILocation results as "file:line:col" lines.
func formatLocationsText(w io.Writer, locs []CLILocation) {
	for _, loc := range locs {
		fmt.Fprintf(w, "%s:%d:%d\n", loc.File, loc.StartLine, loc.StartCol)
	}
}

// formatSymbolsText formats CLISymbol results as aligned columns.
func formatSymbolsText(w io.Writer, syms []CLISymbol) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tKIND\tDETAIL\tFILE\tLINE\tREFS")
	for _, s := range syms {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%d\t%d\n",
			s.ID, s.Name, s.Kind, s.Detail, s.File, s.StartLine, s.RefCount)
	}
	tw.Flush()
}

// formatFilesText formats CLIFile results as aligned columns.
func formatFilesText(w io.Writer, files []CLIFile) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tPATH\tLINES")
	for _, f := range files {
		fmt.Fprintf(tw, "%d\t%s\t%d\n", f.ID, f.Path, f.LineCount)
	}
	tw.Flush()
}

// formatSummaryText formats CLIProjectSummary as readable text.
func formatSummaryText(w io.Writer, summary CLIProjectSummary) {
	fmt.Fprintln(w, "Index Summary")
	fmt.Fprintln(w, "=============")
	fmt.Fprintf(w, "Files: %d\n", summary.FileCount)
	fmt.Fprintf(w, "Symbols: %d\n", summary.SymbolCount)
	fmt.Fprintln(w)

	if len(summary.KindCounts) > 0 {
		fmt.Fprintln(w, "Symbol Kinds:")
		kinds := make([]string, 0, len(summary.KindCounts))
		for kind := range summary.KindCounts {
			kinds = append(kinds, kind)
		}
		sort.Strings(kinds)
		for _, kind := range kinds {
			fmt.Fprintf(w, "  %s: %d\n", kind, summary.KindCounts[kind])
		}
		fmt.Fprintln(w)
	}

	if len(summary.TopSymbols) > 0 {
		fmt.Fprintln(w, "Top Symbols by References:")
		for _, sym := range summary.TopSymbols {
			fmt.Fprintf(w, "  %s (%s) - %d refs\n", sym.Name, sym.Kind, sym.RefCount)
		}
	}
}

// formatDetailText formats CLISymbolDetail as readable text.
func formatDetailText(w io.Writer, d CLISymbolDetail) {
	fmt.Fprintf(w, "%s %s", d.Symbol.Kind, d.Symbol.Name)
	if d.Symbol.Detail != "" {
		fmt.Fprintf(w, " : %s", d.Symbol.Detail)
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:%d:%d (%d refs)\n", d.Symbol.File, d.Symbol.StartLine, d.Symbol.StartCol, d.Symbol.RefCount)
	if d.Doc != nil {
		fmt.Fprintln(w)
		formatDocText(w, *d.Doc, "")
	}
	if len(d.Arguments) > 0 {
		names := make([]string, len(d.Arguments))
		for i, a := range d.Arguments {
			names[i] = a.Name
		}
		fmt.Fprintf(w, "\nArguments: %s\n", strings.Join(names, " "))
	}
	if len(d.Children) > 0 {
		fmt.Fprintln(w, "\nChildren:")
		formatSymbolsText(w, d.Children)
	}
}

// formatDocText formats a doc comment and its nested field docs.
func formatDocText(w io.Writer, doc CLIDoc, indent string) {
	if doc.Comment != "" {
		for _, line := range strings.Split(doc.Comment, "\n") {
			fmt.Fprintf(w, "%s%s\n", indent, line)
		}
	}
	if len(doc.Args) > 0 {
		names := make([]string, len(doc.Args))
		for i, a := range doc.Args {
			names[i] = a.Name
		}
		fmt.Fprintf(w, "%sargs: %s\n", indent, strings.Join(names, " "))
	}
	fields := make([]string, 0, len(doc.Fields))
	for name := range doc.Fields {
		fields = append(fields, name)
	}
	sort.Strings(fields)
	for _, name := range fields {
		fmt.Fprintf(w, "%s%s:\n", indent, name)
		formatDocText(w, doc.Fields[name], indent+"  ")
	}
}

// formatEntriesText formats a tree outline as an indented list.
func formatEntriesText(w io.Writer, entries []CLIEntry, indent string) {
	for _, e := range entries {
		fmt.Fprintf(w, "%s%s %s", indent, e.Kind, e.Name)
		if e.Detail != "" {
			fmt.Fprintf(w, " : %s", e.Detail)
		}
		fmt.Fprintf(w, "  [%d:%d]\n", e.Span.Line, e.Span.Col)
		formatEntriesText(w, e.Children, indent+"  ")
	}
}

// formatOutlineText formats an indexed file outline as an indented list.
func formatOutlineText(w io.Writer, nodes []CLIOutlineNode, indent string) {
	for _, n := range nodes {
		fmt.Fprintf(w, "%s%s %s", indent, n.Symbol.Kind, n.Symbol.Name)
		if n.Symbol.Detail != "" {
			fmt.Fprintf(w, " : %s", n.Symbol.Detail)
		}
		fmt.Fprintf(w, "  [%d:%d]\n", n.Symbol.StartLine, n.Symbol.StartCol)
		formatOutlineText(w, n.Children, indent+"  ")
	}
}

// formatSuggestionsText formats completions as aligned columns.
func formatSuggestionsText(w io.Writer, suggestions []CLISuggestion) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tNAMESPACE\tDETAIL")
	for _, s := range suggestions {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", s.Name, s.Namespace, s.Detail)
	}
	tw.Flush()
}

// formatChangesText lists the declarations indexing added, removed or changed.
func formatChangesText(w io.Writer, changes []CLIFileChange) {
	for _, c := range changes {
		fmt.Fprintln(w, c.Path)
		for _, s := range c.Added {
			fmt.Fprintf(w, "  + %s\n", s)
		}
		for _, s := range c.Removed {
			fmt.Fprintf(w, "  - %s\n", s)
		}
		for _, s := range c.Changed {
			fmt.Fprintf(w, "  ~ %s\n", s)
		}
	}
}

// outputResultText dispatches to the appropriate text formatter based on the
// result type.
func outputResultText(w io.Writer, result CLIResult) error {
	switch v := result.Results.(type) {
	case CLIType:
		fmt.Fprintf(w, "%s\t%s\n", v.Span.Text, v.Type)
	case CLITreeSymbol:
		if v.Span != nil {
			fmt.Fprintf(w, "%s %s %d:%d\n", v.Namespace, v.Name, v.Span.Line, v.Span.Col)
		} else {
			fmt.Fprintf(w, "%s %s (free)\n", v.Namespace, v.Name)
		}
	case CLIReferences:
		for _, sp := range v.Spans {
			fmt.Fprintf(w, "%d:%d\t%s\n", sp.Line, sp.Col, sp.Text)
		}
	case CLIDoc:
		formatDocText(w, v, "")
	case []CLISuggestion:
		formatSuggestionsText(w, v)
	case []CLIEntry:
		formatEntriesText(w, v, "")
	case []CLIFileChange:
		formatChangesText(w, v)
	case []CLIFinding:
		for _, f := range v {
			fmt.Fprintf(w, "%d:%d\t%s\t%s\n", f.Span.Line, f.Span.Col, f.Check, f.Message)
		}
	case []CLILocation:
		formatLocationsText(w, v)
	case []CLISymbol:
		formatSymbolsText(w, v)
	case CLISymbol:
		formatSymbolsText(w, []CLISymbol{v})
	case []CLIFile:
		formatFilesText(w, v)
	case CLIProjectSummary:
		formatSummaryText(w, v)
	case CLISymbolDetail:
		formatDetailText(w, v)
	case []CLIOutlineNode:
		formatOutlineText(w, v, "")
	case nil:
		// No output for nil results (e.g., symbol with no match).
	default:
		return fmt.Errorf("unsupported result type for text format: %T", v)
	}

	// Pagination footer.
	if result.TotalCount != nil {
		count := *result.TotalCount
		shown := resultLen(result.Results)
		if shown < count {
			fmt.Fprintf(w, "\nShowing %d of %d results\n", shown, count)
		}
	}
	return nil
}

// resultLen returns the length of a result slice, or 1 for a single value.
func resultLen(v any) int {
	switch r := v.(type) {
	case []CLILocation:
		return len(r)
	case []CLISymbol:
		return len(r)
	case []CLIFile:
		return len(r)
	case []CLISuggestion:
		return len(r)
	case []CLIFileChange:
		return len(r)
	case []CLIFinding:
		return len(r)
	case CLIReferences:
		return len(r.Spans)
	case nil:
		return 0
	default:
		return 1
	}
}

// validFormats lists accepted values for --format.
var validFormats = []string{"json", "text"}

// validateFormat checks that the --format flag value is recognized.
func validateFormat(format string) error {
	for _, f := range validFormats {
		if format == f {
			return nil
		}
	}
	return fmt.Errorf("invalid format %q: must be %s", format, strings.Join(validFormats, " or "))
}
