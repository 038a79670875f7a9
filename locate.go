package lookout

import (
	"fmt"

	"github.com/jward/lookout/ast"
	"github.com/jward/lookout/pos"
	"github.com/jward/lookout/types"
)

// Level tells whether a match sits in a value-level or a type-level part of
// the tree.
type Level uint8

const (
	ValueLevel Level = iota
	TypeLevel
)

func (l Level) String() string {
	if l == TypeLevel {
		return "type"
	}
	return "value"
}

// Match is the innermost node containing a position, together with the
// path leading to it and the type or kind that applies at that site.
type Match struct {
	// Node is the innermost node whose span contains Pos.
	Node ast.Node
	// Path lists the nodes from the root down to Node, inclusive.
	Path []ast.Node
	Pos  pos.BytePos

	level Level
	typ   types.Type
	kind  types.Kind
}

// Span returns the span of the matched node.
func (m *Match) Span() pos.Span { return m.Node.Span() }

// Level reports whether the match is inside a type-level sub-tree.
func (m *Match) Level() Level { return m.level }

// Type returns the value-level type at the match site, or nil. For
// parameters, field names and do binders this is the type the context gives
// the name rather than the node's own annotation.
func (m *Match) Type() types.Type { return m.typ }

// Kind returns the kind at a type-level match site, or nil.
func (m *Match) Kind() types.Kind { return m.kind }

// Parent returns the node enclosing the match, or nil at the root.
func (m *Match) Parent() ast.Node {
	if len(m.Path) < 2 {
		return nil
	}
	return m.Path[len(m.Path)-2]
}

// Name returns the name when the match is identifier-shaped.
func (m *Match) Name() (string, bool) {
	switch n := m.Node.(type) {
	case *ast.Ident:
		return n.Name, true
	case *ast.TypeIdent:
		return n.Name, true
	}
	return "", false
}

// Locate finds the innermost node of root whose span contains p. Spans are
// treated as closed: a position on a node's end offset is inside it. Where
// two siblings meet, the one owning the character at p wins. A position in
// a gap between children matches the parent.
func Locate(root ast.Expr, p pos.BytePos) (*Match, error) {
	if root == nil || !root.Span().Contains(p) {
		return nil, fmt.Errorf("locate %d: %w", p, ErrNotFound)
	}

	path := []ast.Node{root}
	node := ast.Node(root)
	for {
		next := pickChild(ast.Children(node), p)
		if next == nil {
			break
		}
		path = append(path, next)
		node = next
	}

	m := &Match{Node: node, Path: path, Pos: p}
	m.level, m.typ, m.kind = classify(path)
	return m, nil
}

// pickChild selects the child containing p. Non-empty siblings never
// overlap, so at most one owns p; otherwise the first child touching p wins.
func pickChild(kids []ast.Node, p pos.BytePos) ast.Node {
	var touching ast.Node
	for _, c := range kids {
		s := c.Span()
		if !s.Contains(p) {
			continue
		}
		if s.Owns(p) {
			return c
		}
		if touching == nil {
			touching = c
		}
	}
	return touching
}

// classify computes the level and the type or kind of the last node in
// path, taking the enclosing node into account where the context decides.
func classify(path []ast.Node) (Level, types.Type, types.Kind) {
	node := path[len(path)-1]
	var parent ast.Node
	if len(path) > 1 {
		parent = path[len(path)-2]
	}

	switch n := node.(type) {
	case *ast.Ident:
		// A field name in a record type belongs to the type declaration.
		if f, ok := parent.(*ast.TypeField); ok && f.Name == n {
			if f.Type == nil {
				return TypeLevel, nil, nil
			}
			return TypeLevel, nil, f.Type.Kind()
		}
		return ValueLevel, identType(n, parent), nil
	case *ast.TypeIdent:
		return TypeLevel, nil, n.Knd
	case ast.TypeExpr:
		return TypeLevel, nil, n.Kind()
	case *ast.TypeBinding:
		if n.Name == nil {
			return TypeLevel, nil, nil
		}
		return TypeLevel, nil, n.Name.Knd
	case *ast.TypeField:
		if n.Type == nil {
			return TypeLevel, nil, nil
		}
		return TypeLevel, nil, n.Type.Kind()
	case *ast.ValueBinding:
		return ValueLevel, n.Type(), nil
	case *ast.RecordField:
		return ValueLevel, n.Type(), nil
	case *ast.PatternField:
		return ValueLevel, patternFieldType(n, parent), nil
	case *ast.Constructor:
		if n.Name == nil {
			return ValueLevel, nil, nil
		}
		return ValueLevel, n.Name.Typ, nil
	case *ast.Alternative:
		if n.Expr == nil {
			return ValueLevel, nil, nil
		}
		return ValueLevel, n.Expr.Type(), nil
	case ast.Pattern:
		if do, ok := parent.(*ast.DoExpr); ok && do.Binder == node {
			if t := doPayload(do); t != nil {
				return ValueLevel, t, nil
			}
		}
		return ValueLevel, n.Type(), nil
	case ast.Expr:
		return ValueLevel, n.Type(), nil
	}
	return ValueLevel, nil, nil
}

// identType is the type an identifier has in its context.
func identType(id *ast.Ident, parent ast.Node) types.Type {
	switch p := parent.(type) {
	case *ast.ValueBinding:
		if i := argIndex(p.Args, id); i >= 0 {
			if t, ok := types.NthArg(p.Type(), i); ok {
				return t
			}
		}
	case *ast.LambdaExpr:
		if i := argIndex(p.Args, id); i >= 0 {
			if t, ok := types.NthArg(p.Typ, i); ok {
				return t
			}
		}
	case *ast.RecordField:
		if p.Name == id && p.Value != nil {
			if t := p.Value.Type(); t != nil {
				return t
			}
		}
	case *ast.PatternField:
		if p.Name == id {
			if p.Value != nil {
				if t := p.Value.Type(); t != nil {
					return t
				}
			}
		}
	case *ast.DoExpr:
		if p.Binder == ast.Pattern(id) {
			if t := doPayload(p); t != nil {
				return t
			}
		}
	}
	return id.Typ
}

func patternFieldType(f *ast.PatternField, parent ast.Node) types.Type {
	if f.Value != nil {
		if t := f.Value.Type(); t != nil {
			return t
		}
	}
	if f.Name == nil {
		return nil
	}
	if f.Name.Typ != nil {
		return f.Name.Typ
	}
	if rp, ok := parent.(*ast.RecordPattern); ok && rp.Typ != nil {
		if t, ok := types.FieldType(rp.Typ, f.Name.Name); ok {
			return t
		}
	}
	return nil
}

// doPayload is the type a do binder receives: the payload of the bound
// monadic value.
func doPayload(do *ast.DoExpr) types.Type {
	if do.Bound == nil {
		return nil
	}
	t, ok := types.Payload(do.Bound.Type())
	if !ok {
		return nil
	}
	return t
}

func argIndex(args []*ast.Ident, id *ast.Ident) int {
	for i, a := range args {
		if a == id {
			return i
		}
	}
	return -1
}
