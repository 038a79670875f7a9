// Package symbol defines declaration identity: a declared name together with
// the span of the name at its declaration.
package symbol

import (
	"fmt"

	"github.com/jward/lookout/pos"
)

// Namespace separates names that may coincide textually, such as a type
// Test and its constructor Test.
type Namespace uint8

const (
	Value Namespace = iota
	Type
	Field
)

var namespaceNames = [...]string{
	Value: "value",
	Type:  "type",
	Field: "field",
}

func (ns Namespace) String() string {
	if int(ns) < len(namespaceNames) {
		return namespaceNames[ns]
	}
	return fmt.Sprintf("namespace(%d)", uint8(ns))
}

// Symbol identifies one declaration. Two declarations with the same name but
// different spans, such as an outer binding and an inner one shadowing it,
// are different symbols. Symbols compare with ==.
type Symbol struct {
	Name      string
	Span      pos.Span
	Namespace Namespace
	// Free marks names that are referenced but not declared in the tree,
	// such as builtin operators and primitive types. Span is zero for them.
	Free bool
}

// New returns the symbol declared as name at span.
func New(name string, span pos.Span, ns Namespace) Symbol {
	return Symbol{Name: name, Span: span, Namespace: ns}
}

// NewFree returns the symbol for a name the tree references without declaring.
func NewFree(name string, ns Namespace) Symbol {
	return Symbol{Name: name, Namespace: ns, Free: true}
}

// DeclaredName returns the name as written at the declaration.
func (s Symbol) DeclaredName() string { return s.Name }

func (s Symbol) String() string {
	if s.Free {
		return fmt.Sprintf("%s %s (free)", s.Namespace, s.Name)
	}
	return fmt.Sprintf("%s %s@%s", s.Namespace, s.Name, s.Span)
}
