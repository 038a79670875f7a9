package lookout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSymbolDetail(t *testing.T) {
	q, pair, _ := indexedPair(t)

	sym, err := q.SymbolAt(pair, 0, 4)
	require.NoError(t, err)
	require.NotNil(t, sym)

	d, err := q.SymbolDetail(sym.ID)
	require.NoError(t, err)
	require.NotNil(t, d)
	assert.Equal(t, "inc", d.Symbol.Name)
	assert.Equal(t, "Int -> Int", d.Symbol.Detail)
	assert.Equal(t, pair, d.Symbol.FilePath)
	assert.Equal(t, 1, d.Symbol.RefCount)
	require.NotNil(t, d.Doc)
	assert.Equal(t, "adds one", d.Doc.Content)
	require.Len(t, d.Arguments, 1)
	assert.Equal(t, "n", d.Arguments[0].Name)
	assert.NotNil(t, d.Children)
	assert.Empty(t, d.Children)
}

func TestSymbolDetail_Children(t *testing.T) {
	q, _, record := indexedPair(t)

	d, err := q.SymbolDetailAt(record, 1, 0)
	require.NoError(t, err)
	require.NotNil(t, d)
	assert.Equal(t, "p", d.Symbol.Name)
	require.NotNil(t, d.Doc)
	assert.Equal(t, "block", d.Doc.CommentType)
	assert.Equal(t, "a point", d.Doc.Content)
	assert.Empty(t, d.Arguments, "values have no arguments")
	require.Len(t, d.Children, 1)
	assert.Equal(t, "x", d.Children[0].Name)
	assert.Equal(t, "field", d.Children[0].Kind)
}

func TestSymbolDetail_NotFound(t *testing.T) {
	q, pair, _ := indexedPair(t)

	d, err := q.SymbolDetail(99999)
	require.NoError(t, err)
	assert.Nil(t, d)

	d, err = q.SymbolDetailAt(pair, 0, 10)
	require.NoError(t, err)
	assert.Nil(t, d)
}

func TestFileOutline(t *testing.T) {
	q, pair, record := indexedPair(t)

	nodes, err := q.FileOutline(record)
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	assert.Equal(t, "p", nodes[0].Symbol.Name)
	require.Len(t, nodes[0].Children, 1)
	x := nodes[0].Children[0]
	assert.Equal(t, "x", x.Symbol.Name)
	require.NotNil(t, x.Doc)
	assert.Equal(t, "the x", x.Doc.Content)

	nodes, err = q.FileOutline(pair)
	require.NoError(t, err)
	require.Len(t, nodes, 2)
	assert.Equal(t, "inc", nodes[0].Symbol.Name)
	assert.Equal(t, "two", nodes[1].Symbol.Name)
	assert.Nil(t, nodes[1].Doc)

	nodes, err = q.FileOutline("missing.tree.yaml")
	require.NoError(t, err)
	assert.Nil(t, nodes)
}
