package store

import (
	"crypto/sha256"
	"fmt"
	"sort"
)

// ComputeSignatureHash computes a deterministic hash from a symbol's semantic identity.
// Covers: name, kind, namespace, detail (printed type or kind), doc comment and arguments.
// Location changes do NOT affect the hash.
func ComputeSignatureHash(name, kind, namespace, detail string, doc *Doc, args []*Argument) string {
	h := sha256.New()

	fmt.Fprintf(h, "name:%s\n", name)
	fmt.Fprintf(h, "kind:%s\n", kind)
	fmt.Fprintf(h, "namespace:%s\n", namespace)
	fmt.Fprintf(h, "detail:%s\n", detail)

	if doc != nil {
		fmt.Fprintf(h, "doc:%s:%s\n", doc.CommentType, doc.Content)
	}

	// Arguments are sorted by ordinal.
	type argKey struct {
		name    string
		ordinal int
	}
	keys := make([]argKey, len(args))
	for i, a := range args {
		keys[i] = argKey{a.Name, a.Ordinal}
	}
	sort.Slice(keys, func(i, j int) bool {
		return keys[i].ordinal < keys[j].ordinal
	})
	for _, k := range keys {
		fmt.Fprintf(h, "arg:%s:%d\n", k.name, k.ordinal)
	}

	return fmt.Sprintf("%x", h.Sum(nil))
}
