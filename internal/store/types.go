package store

import "time"

// File is one indexed tree document.
type File struct {
	ID          int64
	Path        string
	Hash        string
	LineCount   int
	LastIndexed time.Time
}

// Symbol is one outline entry. Offsets are byte offsets into the document
// source; lines and columns are 0-based.
type Symbol struct {
	ID             int64
	FileID         *int64
	Name           string
	Kind           string
	Namespace      string
	Detail         string
	SignatureHash  string
	StartOffset    int
	EndOffset      int
	NameStart      int
	NameEnd        int
	StartLine      int
	StartCol       int
	EndLine        int
	EndCol         int
	ParentSymbolID *int64
}

// Doc is the doc comment attached to a symbol.
type Doc struct {
	ID          int64
	SymbolID    int64
	CommentType string
	Content     string
}

// Argument is a parameter of a documented function symbol.
type Argument struct {
	ID       int64
	SymbolID int64
	Name     string
	Ordinal  int
	// Offset is the byte offset of the parameter name.
	Offset int
}

// Reference is one occurrence of a symbol, its declaration included.
type Reference struct {
	ID            int64
	FileID        int64
	SymbolID      int64
	StartOffset   int
	EndOffset     int
	StartLine     int
	StartCol      int
	EndLine       int
	EndCol        int
	IsDeclaration bool
}
