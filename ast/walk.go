package ast

import "sort"

// Children returns the direct children of node in source order. Nil
// optional parts are omitted.
func Children(node Node) []Node {
	var out []Node
	add := func(n Node) {
		if n != nil {
			out = append(out, n)
		}
	}

	switch n := node.(type) {
	case *Ident, *TypeIdent, *Literal:
		return nil

	case *AppExpr:
		add(n.Func)
		for _, a := range n.Args {
			add(a)
		}

	case *InfixExpr:
		add(n.Lhs)
		if n.Op != nil {
			add(n.Op)
		}
		add(n.Rhs)

	case *LambdaExpr:
		for _, a := range n.Args {
			add(a)
		}
		add(n.Body)

	case *LetExpr:
		for _, b := range n.Bindings {
			add(b)
		}
		add(n.Body)

	case *TypeLetExpr:
		for _, b := range n.Bindings {
			add(b)
		}
		add(n.Body)

	case *RecordExpr:
		for _, t := range n.Types {
			add(t)
		}
		for _, f := range n.Fields {
			add(f)
		}
		sortBySpan(out)
		add(n.Base)

	case *ProjectionExpr:
		add(n.Expr)
		if n.Field != nil {
			add(n.Field)
		}

	case *DoExpr:
		add(n.Binder)
		add(n.Bound)
		add(n.Body)

	case *MatchExpr:
		add(n.Scrutinee)
		for _, a := range n.Alts {
			add(a)
		}

	case *IfExpr:
		add(n.Cond)
		add(n.Then)
		add(n.Else)

	case *TupleExpr:
		for _, e := range n.Elems {
			add(e)
		}

	case *ArrayExpr:
		for _, e := range n.Elems {
			add(e)
		}

	case *BlockExpr:
		for _, e := range n.Exprs {
			add(e)
		}

	case *RecordPattern:
		for _, t := range n.Types {
			add(t)
		}
		for _, f := range n.Fields {
			add(f)
		}
		sortBySpan(out)

	case *PatternField:
		if n.Name != nil {
			add(n.Name)
		}
		add(n.Value)

	case *ConstructorPattern:
		if n.Ctor != nil {
			add(n.Ctor)
		}
		for _, a := range n.Args {
			add(a)
		}

	case *TuplePattern:
		for _, e := range n.Elems {
			add(e)
		}

	case *TypeAppExpr:
		add(n.Head)
		for _, a := range n.Args {
			add(a)
		}

	case *FunctionTypeExpr:
		for _, a := range n.Args {
			add(a)
		}
		add(n.Ret)

	case *RecordTypeExpr:
		for _, f := range n.Fields {
			add(f)
		}

	case *TypeField:
		if n.Name != nil {
			add(n.Name)
		}
		add(n.Type)

	case *VariantTypeExpr:
		for _, c := range n.Ctors {
			add(c)
		}

	case *Constructor:
		if n.Name != nil {
			add(n.Name)
		}
		for _, a := range n.Args {
			add(a)
		}

	case *ValueBinding:
		add(n.Name)
		for _, a := range n.Args {
			add(a)
		}
		add(n.Annotation)
		add(n.Expr)

	case *TypeBinding:
		if n.Name != nil {
			add(n.Name)
		}
		for _, p := range n.Params {
			add(p)
		}
		add(n.Alias)

	case *RecordField:
		if n.Name != nil {
			add(n.Name)
		}
		add(n.Value)

	case *Alternative:
		add(n.Pattern)
		add(n.Expr)
	}
	return out
}

// Walk traverses the tree starting from node, calling fn for each node in
// pre-order. If fn returns false, Walk stops traversing that branch.
func Walk(node Node, fn func(Node) bool) {
	if node == nil || !fn(node) {
		return
	}
	for _, c := range Children(node) {
		Walk(c, fn)
	}
}

func sortBySpan(nodes []Node) {
	sort.SliceStable(nodes, func(i, j int) bool {
		return nodes[i].Span().Start < nodes[j].Span().Start
	})
}
