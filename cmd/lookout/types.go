package main

// CLIResult is the top-level JSON envelope for all commands.
type CLIResult struct {
	Command    string `json:"command"`
	Results    any    `json:"results"`
	TotalCount *int   `json:"total_count,omitempty"`
	Error      string `json:"error,omitempty"`
}

// CLISpan is a byte span of a tree document with its 0-based start line
// and column.
type CLISpan struct {
	Start int    `json:"start"`
	End   int    `json:"end"`
	Line  int    `json:"line"`
	Col   int    `json:"col"`
	Text  string `json:"text,omitempty"`
}

// CLIType is the type or kind found at a position.
type CLIType struct {
	Span CLISpan `json:"span"`
	// Level is "type" for value-level results and "kind" for type-level ones.
	Level string `json:"level"`
	Type  string `json:"type"`
}

// CLITreeSymbol is a resolved declaration in a tree document.
type CLITreeSymbol struct {
	Name      string   `json:"name"`
	Namespace string   `json:"namespace"`
	Free      bool     `json:"free,omitempty"`
	Span      *CLISpan `json:"span,omitempty"`
}

// CLIReferences lists every occurrence of one symbol in a tree document.
type CLIReferences struct {
	Name  string    `json:"name"`
	Spans []CLISpan `json:"spans"`
}

// CLIArgument is a documented parameter.
type CLIArgument struct {
	Name   string `json:"name"`
	Offset int    `json:"offset"`
}

// CLIDoc is the documentation of a declaration.
type CLIDoc struct {
	Comment     string            `json:"comment,omitempty"`
	CommentType string            `json:"comment_type,omitempty"`
	Args        []CLIArgument     `json:"args,omitempty"`
	Fields      map[string]CLIDoc `json:"fields,omitempty"`
}

// CLISuggestion is one completion candidate.
type CLISuggestion struct {
	Name      string   `json:"name"`
	Namespace string   `json:"namespace"`
	Detail    string   `json:"detail,omitempty"`
	Span      *CLISpan `json:"span,omitempty"`
}

// CLIEntry is one node of a tree document outline.
type CLIEntry struct {
	Name     string     `json:"name"`
	Kind     string     `json:"kind"`
	Detail   string     `json:"detail,omitempty"`
	Span     CLISpan    `json:"span"`
	Doc      *CLIDoc    `json:"doc,omitempty"`
	Children []CLIEntry `json:"children,omitempty"`
}

// CLIFinding is one problem reported by a check script.
type CLIFinding struct {
	Check   string  `json:"check"`
	Message string  `json:"message"`
	Span    CLISpan `json:"span"`
}

// CLIFileChange reports how indexing changed one file's declarations.
type CLIFileChange struct {
	Path    string   `json:"path"`
	Added   []string `json:"added,omitempty"`
	Removed []string `json:"removed,omitempty"`
	Changed []string `json:"changed,omitempty"`
}

// CLISymbol is a JSON-friendly indexed symbol.
type CLISymbol struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Kind      string `json:"kind"`
	Namespace string `json:"namespace"`
	Detail    string `json:"detail,omitempty"`
	File      string `json:"file,omitempty"`
	ParentID  *int64 `json:"parent_id,omitempty"`
	StartLine int    `json:"start_line"`
	StartCol  int    `json:"start_col"`
	EndLine   int    `json:"end_line"`
	EndCol    int    `json:"end_col"`
	RefCount  int    `json:"ref_count"`
}

// CLILocation is a span in an indexed file.
type CLILocation struct {
	File      string `json:"file"`
	StartLine int    `json:"start_line"`
	StartCol  int    `json:"start_col"`
	EndLine   int    `json:"end_line"`
	EndCol    int    `json:"end_col"`
}

// CLIFile is a JSON-friendly indexed file.
type CLIFile struct {
	ID          int64  `json:"id"`
	Path        string `json:"path"`
	LineCount   int    `json:"line_count"`
	LastIndexed string `json:"last_indexed"`
}

// CLIProjectSummary is a JSON-friendly project summary.
type CLIProjectSummary struct {
	FileCount   int            `json:"file_count"`
	SymbolCount int            `json:"symbol_count"`
	KindCounts  map[string]int `json:"kind_counts"`
	TopSymbols  []CLISymbol    `json:"top_symbols"`
}

// CLISymbolDetail is a JSON-friendly symbol detail.
type CLISymbolDetail struct {
	Symbol    CLISymbol     `json:"symbol"`
	Doc       *CLIDoc       `json:"doc,omitempty"`
	Arguments []CLIArgument `json:"arguments"`
	Children  []CLISymbol   `json:"children"`
}

// CLIOutlineNode is one node of an indexed file outline.
type CLIOutlineNode struct {
	Symbol   CLISymbol        `json:"symbol"`
	Doc      *CLIDoc          `json:"doc,omitempty"`
	Children []CLIOutlineNode `json:"children,omitempty"`
}
