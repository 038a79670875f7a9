// Package treefile decodes checked-tree documents. A checker that wants its
// trees queried writes one document per source file: the source text, the
// typed syntax tree with byte spans, and the environment entries the tree
// refers to (operator types, builtin kinds, type aliases). Documents are
// YAML; JSON documents decode as well.
//
//	source: "let x = 1\nx"
//	env:
//	  types: { "#Int+": "Int -> Int -> Int" }
//	root:
//	  node: let
//	  span: [0, 11]
//	  bindings:
//	    - span: [4, 9]
//	      id: { node: ident, name: x, span: [4, 5], type: Int }
//	      expr: { node: literal, lit: int, text: "1", span: [8, 9], type: Int }
//	      doc: "/// the answer"
//	  body: { node: ident, name: x, span: [10, 11], type: Int }
//
// Types and kinds are written in their printed form and parsed with
// ParseType and ParseKind.
package treefile

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/jward/lookout/ast"
	"github.com/jward/lookout/metadata"
	"github.com/jward/lookout/pos"
	"github.com/jward/lookout/types"
)

// ErrInvalid marks documents that decode as YAML but do not describe a tree.
var ErrInvalid = errors.New("invalid tree document")

// Document is a decoded tree document.
type Document struct {
	Source string
	Root   ast.Expr
	// Env holds the builtin environment overlaid with the document's entries.
	Env *types.MapEnv
}

type rawDocument struct {
	Source string   `yaml:"source"`
	Env    rawEnv   `yaml:"env"`
	Root   *rawNode `yaml:"root"`
}

type rawEnv struct {
	Types   map[string]string `yaml:"types"`
	Kinds   map[string]string `yaml:"kinds"`
	Aliases map[string]string `yaml:"aliases"`
}

// rawNode is the union of every node shape. Which fields apply depends on
// Node; see decoder.expr and friends.
type rawNode struct {
	Node string `yaml:"node"`
	Span []int  `yaml:"span"`

	Name string `yaml:"name"`
	Type string `yaml:"type"`
	Kind string `yaml:"kind"`
	Lit  string `yaml:"lit"`
	Text string `yaml:"text"`
	Doc  string `yaml:"doc"`
	Rec  bool   `yaml:"rec"`

	ID         *rawNode   `yaml:"id"`
	Func       *rawNode   `yaml:"func"`
	Args       []*rawNode `yaml:"args"`
	Lhs        *rawNode   `yaml:"lhs"`
	Op         *rawNode   `yaml:"op"`
	Rhs        *rawNode   `yaml:"rhs"`
	Body       *rawNode   `yaml:"body"`
	Bindings   []*rawNode `yaml:"bindings"`
	Types      []*rawNode `yaml:"types"`
	Fields     []*rawNode `yaml:"fields"`
	Base       *rawNode   `yaml:"base"`
	Expr       *rawNode   `yaml:"expr"`
	Field      *rawNode   `yaml:"field"`
	Binder     *rawNode   `yaml:"binder"`
	Bound      *rawNode   `yaml:"bound"`
	FlatMap    *rawNode   `yaml:"flat_map"`
	Scrutinee  *rawNode   `yaml:"scrutinee"`
	Alts       []*rawNode `yaml:"alts"`
	Pattern    *rawNode   `yaml:"pattern"`
	Cond       *rawNode   `yaml:"cond"`
	Then       *rawNode   `yaml:"then"`
	Else       *rawNode   `yaml:"else"`
	Elems      []*rawNode `yaml:"elems"`
	Value      *rawNode   `yaml:"value"`
	Annotation *rawNode   `yaml:"annotation"`
	Params     []*rawNode `yaml:"params"`
	Alias      *rawNode   `yaml:"alias"`
	Head       *rawNode   `yaml:"head"`
	Ret        *rawNode   `yaml:"ret"`
	Of         *rawNode   `yaml:"of"`
	Ctors      []*rawNode `yaml:"ctors"`
}

// Decode reads one tree document from r.
func Decode(r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("treefile: read: %w", err)
	}
	return Parse(data)
}

// Load reads and decodes the document at path.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("treefile: %w", err)
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// Parse decodes one tree document.
func Parse(data []byte) (*Document, error) {
	var raw rawDocument
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("treefile: decode: %w", err)
	}
	if raw.Root == nil {
		return nil, fmt.Errorf("treefile: missing root: %w", ErrInvalid)
	}

	env, err := decodeEnv(raw.Env)
	if err != nil {
		return nil, fmt.Errorf("treefile: env: %w", err)
	}
	root, err := expr(raw.Root)
	if err != nil {
		return nil, fmt.Errorf("treefile: root: %w", err)
	}
	return &Document{Source: raw.Source, Root: root, Env: env}, nil
}

func decodeEnv(raw rawEnv) (*types.MapEnv, error) {
	env := types.Builtins()
	for name, s := range raw.Types {
		t, err := ParseType(s)
		if err != nil {
			return nil, fmt.Errorf("type of %s: %w", name, err)
		}
		env.Types[name] = t
	}
	for name, s := range raw.Kinds {
		k, err := ParseKind(s)
		if err != nil {
			return nil, fmt.Errorf("kind of %s: %w", name, err)
		}
		env.Kinds[name] = k
	}
	for name, s := range raw.Aliases {
		t, err := ParseType(s)
		if err != nil {
			return nil, fmt.Errorf("alias %s: %w", name, err)
		}
		env.Aliases[name] = t
	}
	return env, nil
}

// errNullEntry reports a null element in a list of nodes.
var errNullEntry = fmt.Errorf("null entry: %w", ErrInvalid)

func invalid(n *rawNode, format string, args ...any) error {
	return fmt.Errorf("%s node at %v: %s: %w", n.Node, n.Span, fmt.Sprintf(format, args...), ErrInvalid)
}

func span(n *rawNode) (pos.Span, error) {
	if n == nil {
		return pos.Span{}, errNullEntry
	}
	if len(n.Span) != 2 {
		return pos.Span{}, invalid(n, "span must be [start, end]")
	}
	if n.Span[0] < 0 || n.Span[1] < n.Span[0] {
		return pos.Span{}, invalid(n, "bad span")
	}
	return pos.NewSpan(pos.BytePos(n.Span[0]), pos.BytePos(n.Span[1])), nil
}

func optType(n *rawNode) (types.Type, error) {
	if n.Type == "" {
		return nil, nil
	}
	t, err := ParseType(n.Type)
	if err != nil {
		return nil, invalid(n, "%v", err)
	}
	return t, nil
}

func optKind(n *rawNode) (types.Kind, error) {
	if n.Kind == "" {
		return nil, nil
	}
	k, err := ParseKind(n.Kind)
	if err != nil {
		return nil, invalid(n, "%v", err)
	}
	return k, nil
}

func doc(n *rawNode) *metadata.Metadata {
	if n.Doc == "" {
		return nil
	}
	return &metadata.Metadata{Comment: metadata.ParseComment(n.Doc)}
}

// header decodes the parts every node has.
func header(n *rawNode) (pos.Span, types.Type, error) {
	sp, err := span(n)
	if err != nil {
		return sp, nil, err
	}
	t, err := optType(n)
	return sp, t, err
}

func ident(n *rawNode) (*ast.Ident, error) {
	if n == nil {
		return nil, nil
	}
	if n.Node != "ident" {
		return nil, invalid(n, "expected ident")
	}
	sp, t, err := header(n)
	if err != nil {
		return nil, err
	}
	if n.Name == "" {
		return nil, invalid(n, "missing name")
	}
	return ast.NewIdent(n.Name, t, sp), nil
}

func idents(ns []*rawNode) ([]*ast.Ident, error) {
	out := make([]*ast.Ident, 0, len(ns))
	for _, n := range ns {
		if n == nil {
			return nil, errNullEntry
		}
		id, err := ident(n)
		if err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, nil
}

func typeIdent(n *rawNode) (*ast.TypeIdent, error) {
	if n == nil {
		return nil, nil
	}
	if n.Node != "type_ident" {
		return nil, invalid(n, "expected type_ident")
	}
	sp, err := span(n)
	if err != nil {
		return nil, err
	}
	k, err := optKind(n)
	if err != nil {
		return nil, err
	}
	return ast.NewTypeIdent(n.Name, k, sp), nil
}

func typeIdents(ns []*rawNode) ([]*ast.TypeIdent, error) {
	out := make([]*ast.TypeIdent, 0, len(ns))
	for _, n := range ns {
		if n == nil {
			return nil, errNullEntry
		}
		ti, err := typeIdent(n)
		if err != nil {
			return nil, err
		}
		out = append(out, ti)
	}
	return out, nil
}

func exprs(ns []*rawNode) ([]ast.Expr, error) {
	out := make([]ast.Expr, 0, len(ns))
	for _, n := range ns {
		e, err := expr(n)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

func optExpr(n *rawNode) (ast.Expr, error) {
	if n == nil {
		return nil, nil
	}
	return expr(n)
}

func literal(n *rawNode, sp pos.Span, t types.Type) (*ast.Literal, error) {
	kinds := map[string]ast.LiteralKind{
		"int":    ast.IntLit,
		"float":  ast.FloatLit,
		"string": ast.StringLit,
		"char":   ast.CharLit,
		"byte":   ast.ByteLit,
	}
	k, ok := kinds[n.Lit]
	if !ok {
		return nil, invalid(n, "unknown literal kind %q", n.Lit)
	}
	return ast.NewLiteral(k, n.Text, t, sp), nil
}

// expr decodes a value-level expression.
func expr(n *rawNode) (ast.Expr, error) {
	if n == nil {
		return nil, fmt.Errorf("missing expression: %w", ErrInvalid)
	}
	sp, t, err := header(n)
	if err != nil {
		return nil, err
	}

	switch n.Node {
	case "ident":
		return ident(n)

	case "literal":
		return literal(n, sp, t)

	case "app":
		fn, err := expr(n.Func)
		if err != nil {
			return nil, err
		}
		args, err := exprs(n.Args)
		if err != nil {
			return nil, err
		}
		return ast.NewAppExpr(fn, args, t, sp), nil

	case "infix":
		lhs, err := expr(n.Lhs)
		if err != nil {
			return nil, err
		}
		op, err := ident(n.Op)
		if err != nil {
			return nil, err
		}
		rhs, err := expr(n.Rhs)
		if err != nil {
			return nil, err
		}
		return ast.NewInfixExpr(lhs, op, rhs, t, sp), nil

	case "lambda":
		args, err := idents(n.Args)
		if err != nil {
			return nil, err
		}
		body, err := expr(n.Body)
		if err != nil {
			return nil, err
		}
		return ast.NewLambdaExpr(args, body, t, sp), nil

	case "let":
		bindings := make([]*ast.ValueBinding, 0, len(n.Bindings))
		for _, b := range n.Bindings {
			vb, err := valueBinding(b)
			if err != nil {
				return nil, err
			}
			bindings = append(bindings, vb)
		}
		body, err := expr(n.Body)
		if err != nil {
			return nil, err
		}
		return ast.NewLetExpr(n.Rec, bindings, body, sp), nil

	case "type_let":
		bindings := make([]*ast.TypeBinding, 0, len(n.Bindings))
		for _, b := range n.Bindings {
			tb, err := typeBinding(b)
			if err != nil {
				return nil, err
			}
			bindings = append(bindings, tb)
		}
		body, err := expr(n.Body)
		if err != nil {
			return nil, err
		}
		return ast.NewTypeLetExpr(bindings, body, sp), nil

	case "record":
		typeFields, err := typeIdents(n.Types)
		if err != nil {
			return nil, err
		}
		fields := make([]*ast.RecordField, 0, len(n.Fields))
		for _, f := range n.Fields {
			rf, err := recordField(f)
			if err != nil {
				return nil, err
			}
			fields = append(fields, rf)
		}
		base, err := optExpr(n.Base)
		if err != nil {
			return nil, err
		}
		return ast.NewRecordExpr(typeFields, fields, base, t, sp), nil

	case "projection":
		e, err := expr(n.Expr)
		if err != nil {
			return nil, err
		}
		field, err := ident(n.Field)
		if err != nil {
			return nil, err
		}
		return ast.NewProjectionExpr(e, field, sp), nil

	case "do":
		binder, err := pattern(n.Binder)
		if err != nil {
			return nil, err
		}
		bound, err := expr(n.Bound)
		if err != nil {
			return nil, err
		}
		body, err := expr(n.Body)
		if err != nil {
			return nil, err
		}
		d := ast.NewDoExpr(binder, bound, body, sp)
		if d.FlatMap, err = ident(n.FlatMap); err != nil {
			return nil, err
		}
		return d, nil

	case "match":
		scrutinee, err := expr(n.Scrutinee)
		if err != nil {
			return nil, err
		}
		alts := make([]*ast.Alternative, 0, len(n.Alts))
		for _, a := range n.Alts {
			asp, err := span(a)
			if err != nil {
				return nil, err
			}
			p, err := pattern(a.Pattern)
			if err != nil {
				return nil, err
			}
			e, err := expr(a.Expr)
			if err != nil {
				return nil, err
			}
			alts = append(alts, ast.NewAlternative(p, e, asp))
		}
		return ast.NewMatchExpr(scrutinee, alts, t, sp), nil

	case "if":
		c, err := expr(n.Cond)
		if err != nil {
			return nil, err
		}
		th, err := expr(n.Then)
		if err != nil {
			return nil, err
		}
		el, err := expr(n.Else)
		if err != nil {
			return nil, err
		}
		return ast.NewIfExpr(c, th, el, sp), nil

	case "tuple":
		elems, err := exprs(n.Elems)
		if err != nil {
			return nil, err
		}
		return ast.NewTupleExpr(elems, t, sp), nil

	case "array":
		elems, err := exprs(n.Elems)
		if err != nil {
			return nil, err
		}
		return ast.NewArrayExpr(elems, t, sp), nil

	case "block":
		es, err := exprs(n.Elems)
		if err != nil {
			return nil, err
		}
		return ast.NewBlockExpr(es, sp), nil
	}
	return nil, invalid(n, "unknown expression node")
}

func valueBinding(n *rawNode) (*ast.ValueBinding, error) {
	sp, t, err := header(n)
	if err != nil {
		return nil, err
	}
	name, err := pattern(n.ID)
	if err != nil {
		return nil, err
	}
	args, err := idents(n.Args)
	if err != nil {
		return nil, err
	}
	e, err := expr(n.Expr)
	if err != nil {
		return nil, err
	}
	b := ast.NewValueBinding(name, args, e, t, sp)
	if n.Annotation != nil {
		if b.Annotation, err = typeExpr(n.Annotation); err != nil {
			return nil, err
		}
	}
	b.Metadata = doc(n)
	return b, nil
}

func typeBinding(n *rawNode) (*ast.TypeBinding, error) {
	sp, err := span(n)
	if err != nil {
		return nil, err
	}
	name, err := typeIdent(n.ID)
	if err != nil {
		return nil, err
	}
	params, err := typeIdents(n.Params)
	if err != nil {
		return nil, err
	}
	alias, err := typeExpr(n.Alias)
	if err != nil {
		return nil, err
	}
	b := ast.NewTypeBinding(name, params, alias, sp)
	b.Metadata = doc(n)
	return b, nil
}

func recordField(n *rawNode) (*ast.RecordField, error) {
	sp, err := span(n)
	if err != nil {
		return nil, err
	}
	name, err := ident(n.ID)
	if err != nil {
		return nil, err
	}
	value, err := optExpr(n.Value)
	if err != nil {
		return nil, err
	}
	f := ast.NewRecordField(name, value, sp)
	f.Metadata = doc(n)
	return f, nil
}

// pattern decodes a binding pattern.
func pattern(n *rawNode) (ast.Pattern, error) {
	if n == nil {
		return nil, fmt.Errorf("missing pattern: %w", ErrInvalid)
	}
	sp, t, err := header(n)
	if err != nil {
		return nil, err
	}

	switch n.Node {
	case "ident":
		return ident(n)

	case "literal":
		return literal(n, sp, t)

	case "record_pattern":
		typeFields, err := typeIdents(n.Types)
		if err != nil {
			return nil, err
		}
		fields := make([]*ast.PatternField, 0, len(n.Fields))
		for _, f := range n.Fields {
			fsp, err := span(f)
			if err != nil {
				return nil, err
			}
			name, err := ident(f.ID)
			if err != nil {
				return nil, err
			}
			var value ast.Pattern
			if f.Value != nil {
				if value, err = pattern(f.Value); err != nil {
					return nil, err
				}
			}
			fields = append(fields, ast.NewPatternField(name, value, fsp))
		}
		return ast.NewRecordPattern(typeFields, fields, t, sp), nil

	case "ctor_pattern":
		ctor, err := ident(n.ID)
		if err != nil {
			return nil, err
		}
		args := make([]ast.Pattern, 0, len(n.Args))
		for _, a := range n.Args {
			p, err := pattern(a)
			if err != nil {
				return nil, err
			}
			args = append(args, p)
		}
		return ast.NewConstructorPattern(ctor, args, t, sp), nil

	case "tuple_pattern":
		elems := make([]ast.Pattern, 0, len(n.Elems))
		for _, e := range n.Elems {
			p, err := pattern(e)
			if err != nil {
				return nil, err
			}
			elems = append(elems, p)
		}
		return ast.NewTuplePattern(elems, t, sp), nil
	}
	return nil, invalid(n, "unknown pattern node")
}

func typeExprs(ns []*rawNode) ([]ast.TypeExpr, error) {
	out := make([]ast.TypeExpr, 0, len(ns))
	for _, n := range ns {
		te, err := typeExpr(n)
		if err != nil {
			return nil, err
		}
		out = append(out, te)
	}
	return out, nil
}

// typeExpr decodes a type written in source.
func typeExpr(n *rawNode) (ast.TypeExpr, error) {
	if n == nil {
		return nil, fmt.Errorf("missing type expression: %w", ErrInvalid)
	}
	sp, err := span(n)
	if err != nil {
		return nil, err
	}
	k, err := optKind(n)
	if err != nil {
		return nil, err
	}

	switch n.Node {
	case "type_ident":
		return typeIdent(n)

	case "type_app":
		head, err := typeExpr(n.Head)
		if err != nil {
			return nil, err
		}
		args, err := typeExprs(n.Args)
		if err != nil {
			return nil, err
		}
		return ast.NewTypeAppExpr(head, args, k, sp), nil

	case "function_type":
		args, err := typeExprs(n.Args)
		if err != nil {
			return nil, err
		}
		ret, err := typeExpr(n.Ret)
		if err != nil {
			return nil, err
		}
		return ast.NewFunctionTypeExpr(args, ret, k, sp), nil

	case "record_type":
		fields := make([]*ast.TypeField, 0, len(n.Fields))
		for _, f := range n.Fields {
			fsp, err := span(f)
			if err != nil {
				return nil, err
			}
			name, err := ident(f.ID)
			if err != nil {
				return nil, err
			}
			ft, err := typeExpr(f.Of)
			if err != nil {
				return nil, err
			}
			tf := ast.NewTypeField(name, ft, fsp)
			tf.Metadata = doc(f)
			fields = append(fields, tf)
		}
		return ast.NewRecordTypeExpr(fields, k, sp), nil

	case "variant_type":
		ctors := make([]*ast.Constructor, 0, len(n.Ctors))
		for _, c := range n.Ctors {
			csp, err := span(c)
			if err != nil {
				return nil, err
			}
			name, err := ident(c.ID)
			if err != nil {
				return nil, err
			}
			args, err := typeExprs(c.Args)
			if err != nil {
				return nil, err
			}
			ctor := ast.NewConstructor(name, args, csp)
			ctor.Metadata = doc(c)
			ctors = append(ctors, ctor)
		}
		return ast.NewVariantTypeExpr(ctors, k, sp), nil
	}
	return nil, invalid(n, "unknown type node")
}
