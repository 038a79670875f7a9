package lookout

import (
	"strings"

	"github.com/jward/lookout/ast"
	"github.com/jward/lookout/metadata"
	"github.com/jward/lookout/pos"
	"github.com/jward/lookout/types"
)

// Metadata is the documentation recorded for a declaration.
type Metadata = metadata.Metadata

// MetadataMap associates declarations with their documentation.
type MetadataMap = metadata.Map

// GetMetadata returns the documentation of the declaration that the name at
// p refers to. It returns nil when p is not on a name or the declaration is
// undocumented; missing documentation is not an error.
func GetMetadata(meta metadata.Map, root ast.Expr, p pos.BytePos) *metadata.Metadata {
	m, err := Locate(root, p)
	if err != nil {
		return nil
	}
	return metadataForMatch(meta, resolveTree(root), m)
}

func metadataForMatch(meta metadata.Map, res *resolution, m *Match) *metadata.Metadata {
	sym, err := symbolForMatch(res, m)
	if err != nil {
		return nil
	}
	if md := meta.Get(sym); !md.IsEmpty() {
		return md
	}
	if proj, ok := m.Parent().(*ast.ProjectionExpr); ok && proj.Field == m.Node {
		if base, ok := res.projectionBase(proj); ok {
			if md := meta.Get(base).Child(proj.Field.Name); !md.IsEmpty() {
				return md
			}
		}
	}
	return nil
}

// SuggestMetadata returns the documentation of the declaration the user is
// most likely typing at p. Candidates are the names in scope at p, or the
// fields of the record when p is on a field projection. A candidate named
// exactly partial wins; otherwise the innermost candidate starting with
// partial wins. It returns nil when nothing matches.
func SuggestMetadata(meta metadata.Map, env types.Env, root ast.Expr, p pos.BytePos, partial string) *metadata.Metadata {
	if root == nil || !root.Span().Contains(p) {
		return nil
	}
	res := resolveAt(root, p)

	if m, err := Locate(root, p); err == nil {
		if proj := projectionAt(m); proj != nil {
			return suggestFieldMetadata(meta, env, res, proj, partial)
		}
	}

	sym, ok := bestCandidate(res.visibleAt(), partial, func(s Symbol) string { return s.Name })
	if !ok {
		return nil
	}
	if md := meta.Get(sym); !md.IsEmpty() {
		return md
	}
	return nil
}

func suggestFieldMetadata(meta metadata.Map, env types.Env, res *resolution, proj *ast.ProjectionExpr, partial string) *metadata.Metadata {
	names := fieldNames(env, res, proj)
	name, ok := bestCandidate(names, partial, func(s string) string { return s })
	if !ok {
		return nil
	}
	if decl, ok := fieldDeclaration(res, proj, name); ok {
		if md := meta.Get(decl); !md.IsEmpty() {
			return md
		}
	}
	if base, ok := res.projectionBase(proj); ok {
		if md := meta.Get(base).Child(name); !md.IsEmpty() {
			return md
		}
	}
	return nil
}

// projectionAt returns the projection whose field p is on, if any.
func projectionAt(m *Match) *ast.ProjectionExpr {
	if proj, ok := m.Node.(*ast.ProjectionExpr); ok {
		return proj
	}
	if proj, ok := m.Parent().(*ast.ProjectionExpr); ok && proj.Field != nil && m.Node == ast.Node(proj.Field) {
		return proj
	}
	return nil
}

// fieldNames lists the fields that can follow the projection's base: the
// fields of its record type, or of the record literal it is bound to.
func fieldNames(env types.Env, res *resolution, proj *ast.ProjectionExpr) []string {
	var names []string
	if proj.Expr != nil {
		for _, f := range types.Fields(env, proj.Expr.Type()) {
			names = append(names, f.Name)
		}
	}
	if len(names) > 0 {
		return names
	}
	if rec := boundRecord(res, proj); rec != nil {
		for _, f := range rec.Fields {
			if f.Name != nil {
				names = append(names, f.Name.Name)
			}
		}
	}
	return names
}

func boundRecord(res *resolution, proj *ast.ProjectionExpr) *ast.RecordExpr {
	base, ok := res.projectionBase(proj)
	if !ok {
		return nil
	}
	rec, _ := res.defs[base].(*ast.RecordExpr)
	return rec
}

// fieldDeclaration finds the declaration of a field in the record literal
// the projection's base is bound to.
func fieldDeclaration(res *resolution, proj *ast.ProjectionExpr, name string) (Symbol, bool) {
	rec := boundRecord(res, proj)
	if rec == nil {
		return Symbol{}, false
	}
	for _, f := range rec.Fields {
		if f.Name != nil && f.Name.Name == name {
			return res.symbolOf(f.Name)
		}
	}
	return Symbol{}, false
}

// bestCandidate picks the exact match for partial, or else the first
// candidate that has partial as a prefix. Candidates are ordered innermost
// first.
func bestCandidate[T any](candidates []T, partial string, name func(T) string) (T, bool) {
	for _, c := range candidates {
		if name(c) == partial {
			return c, true
		}
	}
	for _, c := range candidates {
		if strings.HasPrefix(name(c), partial) {
			return c, true
		}
	}
	var zero T
	return zero, false
}

// CollectMetadata builds the metadata map from the doc comments attached to
// declarations in root. Bindings with arguments record each argument with
// its declaring offset. A binding bound directly to a record literal nests
// the documentation of the literal's fields, and a type binding nests the
// documentation of its constructors and record fields. Names brought into
// scope by destructuring a record literal inherit the documentation of the
// field they come from.
func CollectMetadata(root ast.Expr) metadata.Map {
	res := resolveTree(root)
	out := make(metadata.Map)
	put := func(n ast.Node, md *metadata.Metadata) {
		if md.IsEmpty() {
			return
		}
		if sym, ok := res.symbolOf(n); ok {
			out[sym] = md
		}
	}

	ast.Walk(root, func(n ast.Node) bool {
		switch n := n.(type) {
		case *ast.ValueBinding:
			if id, ok := n.Name.(*ast.Ident); ok {
				put(id, bindingMetadata(n))
			}
		case *ast.RecordField:
			if n.Name != nil && n.Value != nil {
				put(n.Name, recordFieldMetadata(n))
			}
		case *ast.TypeBinding:
			if n.Name != nil {
				put(n.Name, typeBindingMetadata(n))
			}
		case *ast.Constructor:
			if n.Name != nil {
				put(n.Name, n.Metadata)
			}
		case *ast.TypeField:
			if n.Name != nil {
				put(n.Name, n.Metadata)
			}
		}
		return true
	})

	ast.Walk(root, func(n ast.Node) bool {
		b, ok := n.(*ast.ValueBinding)
		if !ok {
			return true
		}
		rp, ok := b.Name.(*ast.RecordPattern)
		if !ok {
			return true
		}
		rec := recordLiteral(b.Expr)
		if rec == nil {
			return true
		}
		for _, t := range rp.Types {
			for _, lt := range rec.Types {
				if lt.Name != t.Name {
					continue
				}
				if src, ok := res.symbolOf(lt); ok {
					put(t, out[src])
				}
			}
		}
		for _, f := range rp.Fields {
			target, ok := fieldBinder(f)
			if !ok {
				continue
			}
			for _, lf := range rec.Fields {
				if lf.Name == nil || lf.Name.Name != f.Name.Name {
					continue
				}
				if src, ok := res.symbolOf(lf.Name); ok {
					put(target, out[src])
				}
			}
		}
		return true
	})
	return out
}

// fieldBinder returns the identifier a record pattern field binds.
func fieldBinder(f *ast.PatternField) (*ast.Ident, bool) {
	if f.Name == nil {
		return nil, false
	}
	if f.Value == nil {
		return f.Name, true
	}
	id, ok := f.Value.(*ast.Ident)
	return id, ok
}

// recordLiteral finds the record literal an expression evaluates to,
// looking through the bodies of let and type bindings.
func recordLiteral(e ast.Expr) *ast.RecordExpr {
	for {
		switch x := e.(type) {
		case *ast.RecordExpr:
			return x
		case *ast.LetExpr:
			e = x.Body
		case *ast.TypeLetExpr:
			e = x.Body
		default:
			return nil
		}
	}
}

func bindingMetadata(b *ast.ValueBinding) *metadata.Metadata {
	md := cloneMetadata(b.Metadata)
	if md.Comment != nil && len(md.Args) == 0 {
		for _, a := range b.Args {
			md.Args = append(md.Args, metadata.Argument{Name: a.Name, Pos: a.Span().Start})
		}
	}
	if rec, ok := b.Expr.(*ast.RecordExpr); ok {
		addFieldMetadata(md, rec)
	}
	return md
}

func recordFieldMetadata(f *ast.RecordField) *metadata.Metadata {
	md := cloneMetadata(f.Metadata)
	if rec, ok := f.Value.(*ast.RecordExpr); ok {
		addFieldMetadata(md, rec)
	}
	return md
}

func addFieldMetadata(md *metadata.Metadata, rec *ast.RecordExpr) {
	for _, f := range rec.Fields {
		if f.Name == nil {
			continue
		}
		child := recordFieldMetadata(f)
		if child.IsEmpty() {
			continue
		}
		if md.Module == nil {
			md.Module = make(map[string]*metadata.Metadata)
		}
		md.Module[f.Name.Name] = child
	}
}

func typeBindingMetadata(b *ast.TypeBinding) *metadata.Metadata {
	md := cloneMetadata(b.Metadata)
	add := func(name string, child *metadata.Metadata) {
		if child.IsEmpty() {
			return
		}
		if md.Module == nil {
			md.Module = make(map[string]*metadata.Metadata)
		}
		md.Module[name] = child
	}
	switch alias := b.Alias.(type) {
	case *ast.VariantTypeExpr:
		for _, c := range alias.Ctors {
			if c.Name != nil {
				add(c.Name.Name, c.Metadata)
			}
		}
	case *ast.RecordTypeExpr:
		for _, f := range alias.Fields {
			if f.Name != nil {
				add(f.Name.Name, f.Metadata)
			}
		}
	}
	return md
}

func cloneMetadata(md *metadata.Metadata) *metadata.Metadata {
	if md == nil {
		return &metadata.Metadata{}
	}
	out := &metadata.Metadata{Comment: md.Comment}
	if len(md.Args) > 0 {
		out.Args = append([]metadata.Argument(nil), md.Args...)
	}
	if len(md.Module) > 0 {
		out.Module = make(map[string]*metadata.Metadata, len(md.Module))
		for k, v := range md.Module {
			out.Module[k] = v
		}
	}
	return out
}
