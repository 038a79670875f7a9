package lookout

import (
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/jward/lookout/symbol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// outline renders entries one per line, indented by depth.
func outline(entries []*SymbolEntry) []string {
	var out []string
	var walk func([]*SymbolEntry, int)
	walk = func(es []*SymbolEntry, depth int) {
		for _, e := range es {
			out = append(out, fmt.Sprintf("%s%s %s : %s", strings.Repeat("  ", depth), e.Kind, e.Symbol.Name, e.Detail))
			walk(e.Children, depth+1)
		}
	}
	walk(entries, 0)
	return out
}

func TestAllSymbols_SkipsDestructuring(t *testing.T) {
	_, root := allSymbolsProgram()

	entries := AllSymbols(root)
	require.Len(t, entries, 3)
	assert.Len(t, entries[1].Children, 1)

	want := []string{
		"value test : Int",
		"value dummy : Int",
		"  value test : Int",
		"type Abc : Type -> Type",
	}
	if diff := cmp.Diff(want, outline(entries)); diff != "" {
		t.Errorf("outline mismatch (-want +got):\n%s", diff)
	}
}

func TestAllSymbols_SpansCoverDeclaration(t *testing.T) {
	s, root := allSymbolsProgram()

	entries := AllSymbols(root)
	require.Len(t, entries, 3)
	assert.Equal(t, "test = 1", s.source(entries[0].Span))
	assert.Equal(t, s.within("let test = 1", 0, "test"), entries[0].Symbol.Span)
	assert.Equal(t, symbol.Type, entries[2].Symbol.Namespace)
}

func TestAllSymbols_FunctionsAndConstructors(t *testing.T) {
	_, root := typeProgram()

	want := []string{
		"type Test : Type -> Type",
		"  constructor Test : a -> Test a",
		"value x : Test Int",
	}
	entries := AllSymbols(root)
	if diff := cmp.Diff(want, outline(entries)); diff != "" {
		t.Errorf("outline mismatch (-want +got):\n%s", diff)
	}
	require.Len(t, entries[0].Children, 1)
	assert.Equal(t, "the only constructor", entries[0].Children[0].Metadata.Text())

	_, root = binopDocProgram()
	entries = AllSymbols(root)
	require.Len(t, entries, 1)
	assert.Equal(t, FunctionSymbol, entries[0].Kind)
	assert.Equal(t, "test", entries[0].Metadata.Text())
	assert.Len(t, entries[0].Metadata.Args, 2)
}

func TestAllSymbols_RecordFields(t *testing.T) {
	_, root := moduleProgram("abc")

	entries := AllSymbols(root)
	want := []string{
		"value module : { abc : Int, abb : Int }",
		"  field abc : Int",
		"  field abb : Int",
	}
	if diff := cmp.Diff(want, outline(entries)); diff != "" {
		t.Errorf("outline mismatch (-want +got):\n%s", diff)
	}
	require.Len(t, entries[0].Children, 2)
	assert.Equal(t, "test", entries[0].Children[0].Metadata.Text())
	assert.Nil(t, entries[0].Children[1].Metadata)
}

func TestAllSymbols_NestedInBody(t *testing.T) {
	_, root := letInLetProgram()

	want := []string{
		"value f : a -> Int",
		"  function g : a -> Int",
	}
	if diff := cmp.Diff(want, outline(AllSymbols(root))); diff != "" {
		t.Errorf("outline mismatch (-want +got):\n%s", diff)
	}
}

func TestFlatten(t *testing.T) {
	_, root := allSymbolsProgram()

	flat := Flatten(AllSymbols(root))
	var names []string
	for _, e := range flat {
		names = append(names, e.Symbol.Name)
	}
	assert.Equal(t, []string{"test", "dummy", "test", "Abc"}, names)
}

func TestParseSymbolKind(t *testing.T) {
	for _, k := range []SymbolKind{ValueSymbol, FunctionSymbol, TypeSymbol, ConstructorSymbol, FieldSymbol} {
		got, ok := ParseSymbolKind(k.String())
		require.True(t, ok)
		assert.Equal(t, k, got)
	}
	_, ok := ParseSymbolKind("struct")
	assert.False(t, ok)
}
