package lookout

import "errors"

// ErrNotFound is returned when a position lies outside the tree or the node
// at the position carries no answer for the query (no type, no kind, not a
// name).
var ErrNotFound = errors.New("not found")

// ErrMalformedTree is returned by Validate when a tree violates span nesting.
var ErrMalformedTree = errors.New("malformed tree")
