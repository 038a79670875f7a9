package treefile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jward/lookout/types"
)

func TestParseType_RoundTrip(t *testing.T) {
	t.Parallel()
	for _, s := range []string{
		"Int",
		"a",
		"Int -> Float -> Int",
		"(Int -> Int) -> Int",
		"Option Int",
		"Option (Array Int)",
		"{ x : Int }",
		"{ x : Int, f : a -> a }",
		"{}",
		"()",
		"(Int, String)",
		"forall a . a -> a",
		"| None | Some a",
		"Test a -> Test Int",
	} {
		t.Run(s, func(t *testing.T) {
			t.Parallel()
			typ, err := ParseType(s)
			require.NoError(t, err)
			assert.Equal(t, s, typ.String())
		})
	}
}

func TestParseType_Shapes(t *testing.T) {
	t.Parallel()

	typ, err := ParseType("a -> b")
	require.NoError(t, err)
	fn, ok := typ.(*types.Function)
	require.True(t, ok)
	assert.IsType(t, &types.Var{}, fn.Arg)

	typ, err = ParseType("#Int")
	require.NoError(t, err)
	assert.IsType(t, &types.Con{}, typ)

	typ, err = ParseType("| Some a")
	require.NoError(t, err)
	v := typ.(*types.Variant)
	require.Len(t, v.Ctors, 1)
	assert.Equal(t, []types.Type{types.NewVar("a")}, types.ArgTypes(v.Ctors[0].Type))
}

func TestParseType_Errors(t *testing.T) {
	t.Parallel()
	for _, s := range []string{"", "Int ->", "(Int", "{ x Int }", "forall . a", "Int $", "Int )"} {
		_, err := ParseType(s)
		assert.Error(t, err, "%q", s)
	}
}

func TestParseKind(t *testing.T) {
	t.Parallel()
	for _, s := range []string{"Type", "Row", "Type -> Type", "(Type -> Type) -> Type", "k -> Type"} {
		k, err := ParseKind(s)
		require.NoError(t, err, s)
		assert.Equal(t, s, k.String())
	}

	_, err := ParseKind("Int")
	assert.Error(t, err)
	_, err = ParseKind("Type ->")
	assert.Error(t, err)
}
