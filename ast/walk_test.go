package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jward/lookout/pos"
	"github.com/jward/lookout/types"
)

func sp(s, e int) pos.Span { return pos.NewSpan(pos.BytePos(s), pos.BytePos(e)) }

// let id x = x
// id 1
func idProgram() (*LetExpr, *Ident) {
	param := NewIdent("x", types.NewVar("a"), sp(7, 8))
	fnType := types.Func([]types.Type{types.NewVar("a")}, types.NewVar("a"))
	binding := NewValueBinding(
		NewIdent("id", fnType, sp(4, 6)),
		[]*Ident{param},
		NewIdent("x", types.NewVar("a"), sp(11, 12)),
		fnType,
		sp(0, 12),
	)
	body := NewAppExpr(
		NewIdent("id", types.Func([]types.Type{types.Int()}, types.Int()), sp(13, 15)),
		[]Expr{NewLiteral(IntLit, "1", types.Int(), sp(16, 17))},
		types.Int(),
		sp(13, 17),
	)
	return NewLetExpr(false, []*ValueBinding{binding}, body, sp(0, 17)), param
}

func TestWalk_PreOrder(t *testing.T) {
	t.Parallel()
	root, _ := idProgram()

	var names []string
	Walk(root, func(n Node) bool {
		switch n := n.(type) {
		case *Ident:
			names = append(names, n.Name)
		case *Literal:
			names = append(names, n.Value)
		}
		return true
	})
	assert.Equal(t, []string{"id", "x", "x", "id", "1"}, names)
}

func TestWalk_PruneBranch(t *testing.T) {
	t.Parallel()
	root, _ := idProgram()

	count := 0
	Walk(root, func(n Node) bool {
		count++
		_, isBinding := n.(*ValueBinding)
		return !isBinding
	})
	// let, binding (pruned), app, id, 1
	assert.Equal(t, 5, count)
}

func TestChildren_RecordSourceOrder(t *testing.T) {
	t.Parallel()
	// { x = 1, Test, y }
	rec := NewRecordExpr(
		[]*TypeIdent{NewTypeIdent("Test", types.Typ(), sp(9, 13))},
		[]*RecordField{
			NewRecordField(NewIdent("x", types.Int(), sp(2, 3)), NewLiteral(IntLit, "1", types.Int(), sp(6, 7)), sp(2, 7)),
			NewRecordField(NewIdent("y", types.Int(), sp(15, 16)), nil, sp(15, 16)),
		},
		nil, nil, sp(0, 18),
	)
	kids := Children(rec)
	require.Len(t, kids, 3)
	assert.IsType(t, &RecordField{}, kids[0])
	assert.IsType(t, &TypeIdent{}, kids[1])
	assert.IsType(t, &RecordField{}, kids[2])
}

func TestTypes_DerivedFromChildren(t *testing.T) {
	t.Parallel()
	root, _ := idProgram()
	assert.Equal(t, "Int", root.Type().String())
	assert.Equal(t, "a -> a", root.Bindings[0].Type().String())

	assert.Equal(t, "()", NewBlockExpr(nil, sp(0, 0)).Type().String())
	assert.Nil(t, NewProjectionExpr(nil, nil, sp(0, 0)).Type())

	punned := NewRecordField(NewIdent("y", types.Float(), sp(0, 1)), nil, sp(0, 1))
	assert.Equal(t, "Float", punned.Type().String())
}
