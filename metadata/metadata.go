// Package metadata holds documentation attached to declarations: the doc
// comment written before a binding, its curried argument names, and nested
// metadata for the fields of records it defines.
package metadata

import (
	"strings"

	"github.com/jward/lookout/pos"
	"github.com/jward/lookout/symbol"
)

// CommentType distinguishes /// line comments from /** */ block comments.
type CommentType uint8

const (
	Line CommentType = iota
	Block
)

func (t CommentType) String() string {
	if t == Block {
		return "block"
	}
	return "line"
}

// Comment is a doc comment with its markers removed.
type Comment struct {
	Type    CommentType
	Content string
}

// LineComment returns a line doc comment with the given content.
func LineComment(content string) *Comment {
	return &Comment{Type: Line, Content: content}
}

// BlockComment returns a block doc comment with the given content.
func BlockComment(content string) *Comment {
	return &Comment{Type: Block, Content: content}
}

// Argument records one curried parameter of a binding by its name and the
// offset at which the parameter is declared.
type Argument struct {
	Name string
	Pos  pos.BytePos
}

// Metadata is the documentation known for one declaration.
type Metadata struct {
	Comment *Comment
	Args    []Argument
	// Module maps the name of a field or child declaration to its metadata.
	Module map[string]*Metadata
}

// IsEmpty reports whether m carries no documentation at all.
func (m *Metadata) IsEmpty() bool {
	return m == nil || (m.Comment == nil && len(m.Args) == 0 && len(m.Module) == 0)
}

// Child returns the nested metadata recorded for name, or nil.
func (m *Metadata) Child(name string) *Metadata {
	if m == nil {
		return nil
	}
	return m.Module[name]
}

// Text returns the comment content, or "" when there is no comment.
func (m *Metadata) Text() string {
	if m == nil || m.Comment == nil {
		return ""
	}
	return m.Comment.Content
}

// Map associates declarations with their metadata. It is built once per
// checked tree and only read afterwards.
type Map map[symbol.Symbol]*Metadata

// Get returns the metadata recorded for sym, or nil.
func (m Map) Get(sym symbol.Symbol) *Metadata {
	if m == nil {
		return nil
	}
	return m[sym]
}

// ParseComment strips doc comment markers from raw comment text. Consecutive
// /// lines are joined with newlines; a /** */ block has its delimiters and
// leading asterisks removed.
func ParseComment(raw string) *Comment {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "/**") {
		body := strings.TrimSuffix(strings.TrimPrefix(raw, "/**"), "*/")
		lines := strings.Split(body, "\n")
		for i, l := range lines {
			l = strings.TrimSpace(l)
			l = strings.TrimPrefix(l, "*")
			lines[i] = strings.TrimSpace(l)
		}
		return BlockComment(strings.TrimSpace(strings.Join(lines, "\n")))
	}

	lines := strings.Split(raw, "\n")
	for i, l := range lines {
		l = strings.TrimSpace(l)
		l = strings.TrimPrefix(l, "///")
		lines[i] = strings.TrimPrefix(l, " ")
	}
	return LineComment(strings.Join(lines, "\n"))
}
