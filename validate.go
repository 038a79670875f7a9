package lookout

import (
	"fmt"

	"github.com/jward/lookout/ast"
)

// Validate checks the span nesting the locator relies on: every child lies
// within its parent and siblings appear in order without overlapping.
// Zero-width siblings may share an offset with a neighbour's boundary.
func Validate(root ast.Node) error {
	if root == nil {
		return fmt.Errorf("validate: nil root: %w", ErrMalformedTree)
	}
	var err error
	ast.Walk(root, func(n ast.Node) bool {
		if err != nil {
			return false
		}
		parent := n.Span()
		if parent.Start > parent.End {
			err = fmt.Errorf("validate: %T at %s: inverted span: %w", n, parent, ErrMalformedTree)
			return false
		}
		kids := ast.Children(n)
		for i, c := range kids {
			cs := c.Span()
			if !parent.ContainsSpan(cs) {
				err = fmt.Errorf("validate: %T at %s escapes parent %T at %s: %w", c, cs, n, parent, ErrMalformedTree)
				return false
			}
			if i > 0 {
				prev := kids[i-1].Span()
				if cs.Start < prev.End {
					err = fmt.Errorf("validate: %T at %s overlaps sibling at %s: %w", c, cs, prev, ErrMalformedTree)
					return false
				}
			}
		}
		return true
	})
	return err
}
