package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestType_String(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		typ  Type
		want string
	}{
		{"con", Int(), "Int"},
		{"fresh vars", Func([]Type{NewVar("a")}, NewVar("a0")), "a -> a0"},
		{"curried", Func([]Type{Int(), Float()}, Int()), "Int -> Float -> Int"},
		{"higher order", Func([]Type{Func([]Type{Int()}, Int())}, Int()), "(Int -> Int) -> Int"},
		{"app", NewApp(NewCon("Option"), Int()), "Option Int"},
		{"nested app", NewApp(NewCon("Option"), NewApp(NewCon("Array"), Int())), "Option (Array Int)"},
		{"record", NewRecord(Field{Name: "x", Type: Int()}), "{ x : Int }"},
		{"empty record", NewRecord(), "{}"},
		{"unit", Unit(), "()"},
		{"tuple", &Tuple{Elems: []Type{Int(), String()}}, "(Int, String)"},
		{"forall", &Forall{Params: []string{"a"}, Body: Func([]Type{NewVar("a")}, NewVar("a"))}, "forall a . a -> a"},
		{"variant", &Variant{Ctors: []Field{
			{Name: "None", Type: NewApp(NewCon("Option"), NewVar("a"))},
			{Name: "Some", Type: Func([]Type{NewVar("a")}, NewApp(NewCon("Option"), NewVar("a")))},
		}}, "| None | Some a"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.typ.String())
		})
	}
}

func TestKind_String(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "Type", Typ().String())
	assert.Equal(t, "Type -> Type", KindArity(1).String())
	assert.Equal(t, "Type -> Type -> Type", KindArity(2).String())
	assert.Equal(t, "(Type -> Type) -> Type", KindFunc(KindArity(1), Typ()).String())
	assert.Equal(t, KindFunc(Typ(), Typ()), KindArity(1))
}

func TestArgTypes(t *testing.T) {
	t.Parallel()
	fn := &Forall{Params: []string{"a"}, Body: Func([]Type{Int(), String()}, String())}

	assert.Equal(t, []Type{Int(), String()}, ArgTypes(fn))
	arg, ok := NthArg(fn, 1)
	require.True(t, ok)
	assert.Equal(t, String(), arg)

	_, ok = NthArg(fn, 2)
	assert.False(t, ok)
	_, ok = NthArg(nil, 0)
	assert.False(t, ok)

	assert.Equal(t, Func([]Type{String()}, String()), ReturnType(fn, 1))
	assert.Equal(t, String(), ReturnType(fn, 5))
}

func TestPayload(t *testing.T) {
	t.Parallel()
	got, ok := Payload(NewApp(NewCon("Option"), Int()))
	require.True(t, ok)
	assert.Equal(t, Int(), got)

	_, ok = Payload(Int())
	assert.False(t, ok)
}

func TestFields_ExpandsAliases(t *testing.T) {
	t.Parallel()
	env := NewMapEnv()
	rec := NewRecord(Field{Name: "abc", Type: Int()}, Field{Name: "abb", Type: Int()})
	env.Aliases["Module"] = rec
	env.Aliases["Loop"] = NewCon("Loop")

	assert.Equal(t, rec.Fields, Fields(env, rec))
	assert.Equal(t, rec.Fields, Fields(env, NewCon("Module")))
	assert.Nil(t, Fields(env, NewCon("Loop")))
	assert.Nil(t, Fields(nil, NewCon("Module")))
	assert.Nil(t, Fields(env, Int()))

	ft, ok := FieldType(rec, "abb")
	require.True(t, ok)
	assert.Equal(t, Int(), ft)
}

func TestBuiltins(t *testing.T) {
	t.Parallel()
	env := Builtins()

	typ, ok := env.FindType("#Int+")
	require.True(t, ok)
	assert.Equal(t, "Int -> Int -> Int", typ.String())

	k, ok := env.FindKind("Int")
	require.True(t, ok)
	assert.Equal(t, Typ(), k)

	_, ok = env.FindType("missing")
	assert.False(t, ok)
}
