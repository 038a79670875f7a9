package treefile

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jward/lookout/ast"
	"github.com/jward/lookout/types"
)

// let x = 1
// x
const letDocument = `
source: "let x = 1\nx"
env:
  types: { "#Int+": "Int -> Int -> Int" }
  kinds: { Test: "Type -> Type" }
  aliases: { R: "{ x : Int }" }
root:
  node: let
  span: [0, 11]
  bindings:
    - span: [4, 9]
      type: Int
      doc: "/// the answer"
      id: { node: ident, name: x, span: [4, 5], type: Int }
      expr: { node: literal, lit: int, text: "1", span: [8, 9], type: Int }
  body: { node: ident, name: x, span: [10, 11], type: Int }
`

// outline renders every node as "Type span" in pre-order.
func outline(root ast.Node) []string {
	var out []string
	ast.Walk(root, func(n ast.Node) bool {
		name := strings.TrimPrefix(fmt.Sprintf("%T", n), "*ast.")
		out = append(out, name+" "+n.Span().String())
		return true
	})
	return out
}

func TestParse_Let(t *testing.T) {
	t.Parallel()
	doc, err := Parse([]byte(letDocument))
	require.NoError(t, err)
	assert.Equal(t, "let x = 1\nx", doc.Source)

	want := []string{
		"LetExpr 0..11",
		"ValueBinding 4..9",
		"Ident 4..5",
		"Literal 8..9",
		"Ident 10..11",
	}
	if diff := cmp.Diff(want, outline(doc.Root)); diff != "" {
		t.Errorf("outline mismatch (-want +got):\n%s", diff)
	}

	let := doc.Root.(*ast.LetExpr)
	b := let.Bindings[0]
	require.NotNil(t, b.Metadata)
	assert.Equal(t, "the answer", b.Metadata.Comment.Content)
	assert.Equal(t, "Int", b.Type().String())

	op, ok := doc.Env.FindType("#Int+")
	require.True(t, ok)
	assert.Equal(t, "Int -> Int -> Int", op.String())
	k, ok := doc.Env.FindKind("Test")
	require.True(t, ok)
	assert.Equal(t, "Type -> Type", k.String())
	alias, ok := doc.Env.FindAlias("R")
	require.True(t, ok)
	assert.Equal(t, "{ x : Int }", alias.String())

	// Builtins stay available underneath the document's entries.
	_, ok = doc.Env.FindKind("Int")
	assert.True(t, ok)
}

func TestParse_JSON(t *testing.T) {
	t.Parallel()
	doc, err := Parse([]byte(`{"source": "x", "root": {"node": "ident", "name": "x", "span": [0, 1], "type": "a -> a"}}`))
	require.NoError(t, err)
	id, ok := doc.Root.(*ast.Ident)
	require.True(t, ok)
	assert.Equal(t, "x", id.Name)
	assert.IsType(t, &types.Function{}, id.Typ)
}

// type Test a = | Test a
// let f { x } = x
// match Test 1 with
// | Test y -> f { x = y }
func TestParse_AllShapes(t *testing.T) {
	t.Parallel()
	const src = `
source: ""
root:
  node: type_let
  span: [0, 100]
  bindings:
    - span: [0, 22]
      doc: "/** a box */"
      id: { node: type_ident, name: Test, span: [5, 9], kind: "Type -> Type" }
      params: [{ node: type_ident, name: a, span: [10, 11], kind: Type }]
      alias:
        node: variant_type
        span: [14, 22]
        ctors:
          - span: [16, 22]
            doc: "/// wraps"
            id: { node: ident, name: Test, span: [16, 20], type: "a -> Test a" }
            args: [{ node: type_ident, name: a, span: [21, 22] }]
  body:
    node: let
    span: [23, 100]
    bindings:
      - span: [27, 38]
        id: { node: ident, name: f, span: [27, 28] }
        args: [{ node: ident, name: arg, span: [29, 32] }]
        annotation:
          node: function_type
          span: [33, 34]
          args: [{ node: record_type, span: [33, 33], fields: [{ span: [33, 33], id: { node: ident, name: x, span: [33, 33] }, of: { node: type_ident, name: Int, span: [33, 33] } }] }]
          ret: { node: type_app, span: [34, 34], head: { node: type_ident, name: Test, span: [34, 34] }, args: [] }
        expr:
          node: do
          span: [35, 38]
          binder: { node: record_pattern, span: [35, 36], fields: [{ span: [35, 36], id: { node: ident, name: x, span: [35, 36] } }] }
          bound: { node: projection, span: [36, 37], expr: { node: ident, name: arg, span: [36, 37] }, field: { node: ident, name: y, span: [37, 37] } }
          body: { node: tuple, span: [37, 38], elems: [] }
          flat_map: { node: ident, name: flat_map, span: [35, 35] }
    body:
      node: match
      span: [40, 100]
      scrutinee: { node: app, span: [46, 52], func: { node: ident, name: Test, span: [46, 50] }, args: [{ node: literal, lit: int, text: "1", span: [51, 52] }] }
      alts:
        - span: [58, 100]
          pattern: { node: ctor_pattern, span: [60, 66], id: { node: ident, name: Test, span: [60, 64] }, args: [{ node: ident, name: y, span: [65, 66] }] }
          expr:
            node: if
            span: [70, 100]
            cond: { node: infix, span: [70, 75], lhs: { node: ident, name: y, span: [70, 71] }, op: { node: ident, name: "#Int+", span: [72, 73] }, rhs: { node: literal, lit: int, text: "2", span: [74, 75] } }
            then: { node: record, span: [76, 85], fields: [{ span: [78, 83], id: { node: ident, name: x, span: [78, 79] }, value: { node: ident, name: y, span: [82, 83] } }] }
            else: { node: lambda, span: [86, 100], args: [{ node: ident, name: z, span: [87, 88] }], body: { node: array, span: [92, 100], elems: [{ node: block, span: [93, 99], elems: [{ node: ident, name: z, span: [93, 94] }] }] } }
`
	doc, err := Parse([]byte(src))
	require.NoError(t, err)

	kinds := map[string]bool{}
	for _, line := range outline(doc.Root) {
		kinds[strings.Fields(line)[0]] = true
	}
	for _, want := range []string{
		"TypeLetExpr", "TypeBinding", "TypeIdent", "VariantTypeExpr", "Constructor",
		"LetExpr", "ValueBinding", "FunctionTypeExpr", "RecordTypeExpr", "TypeField", "TypeAppExpr",
		"DoExpr", "RecordPattern", "PatternField", "ProjectionExpr", "TupleExpr",
		"MatchExpr", "AppExpr", "Literal", "Alternative", "ConstructorPattern",
		"IfExpr", "InfixExpr", "RecordExpr", "RecordField", "LambdaExpr", "ArrayExpr", "BlockExpr",
	} {
		assert.True(t, kinds[want], "missing %s", want)
	}

	tl := doc.Root.(*ast.TypeLetExpr)
	tb := tl.Bindings[0]
	require.NotNil(t, tb.Metadata)
	assert.Equal(t, "a box", tb.Metadata.Comment.Content)
	ctor := tb.Alias.(*ast.VariantTypeExpr).Ctors[0]
	require.NotNil(t, ctor.Metadata)
	assert.Equal(t, "wraps", ctor.Metadata.Comment.Content)
	assert.Equal(t, "Type -> Type", tb.Name.Kind().String())

	do := tl.Body.(*ast.LetExpr).Bindings[0].Expr.(*ast.DoExpr)
	require.NotNil(t, do.FlatMap)
	assert.Equal(t, "flat_map", do.FlatMap.Name)
}

func TestParse_Errors(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"not yaml", "root: [", "decode"},
		{"missing root", "source: x", "missing root"},
		{"unknown node", `root: { node: nope, span: [0, 1] }`, "unknown expression node"},
		{"bad span", `root: { node: ident, name: x, span: [3, 1] }`, "bad span"},
		{"short span", `root: { node: ident, name: x, span: [3] }`, "span must be"},
		{"bad type", `root: { node: ident, name: x, span: [0, 1], type: "->" }`, "parse type"},
		{"bad literal", `root: { node: literal, lit: nope, span: [0, 1] }`, "unknown literal kind"},
		{"bad env", "env: { kinds: { T: Int } }\nroot: { node: ident, name: x, span: [0, 1] }", "kind of T"},
		{"ident without name", `root: { node: ident, span: [0, 1] }`, "missing name"},
		{"let without body", `root: { node: let, span: [0, 1], bindings: [] }`, "missing expression"},
		{"null lambda arg", "root: { node: lambda, span: [0, 5], args: [~], body: { node: literal, lit: int, text: \"1\", span: [4, 5] } }", "null entry"},
		{"null record type", "root: { node: record, span: [0, 2], types: [~] }", "null entry"},
		{"null binding", "root: { node: let, span: [0, 3], bindings: [~], body: { node: ident, name: x, span: [2, 3] } }", "null entry"},
		{"null ctor", "root: { node: type_let, span: [0, 3], bindings: [{ span: [0, 1], id: { node: type_ident, name: T, span: [0, 1] }, alias: { node: variant_type, span: [0, 1], ctors: [~] } }], body: { node: ident, name: x, span: [2, 3] } }", "null entry"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := Parse([]byte(tt.src))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}

	_, err := Parse([]byte(`root: { node: nope, span: [0, 1] }`))
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestLoadAndDecode(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "main.tree.yaml")
	require.NoError(t, os.WriteFile(path, []byte(letDocument), 0o644))

	doc, err := Load(path)
	require.NoError(t, err)
	assert.IsType(t, &ast.LetExpr{}, doc.Root)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	doc, err = Decode(f)
	require.NoError(t, err)
	assert.Equal(t, "let x = 1\nx", doc.Source)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
