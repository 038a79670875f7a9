package main_test

import (
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pairDocument is the tree of
//
//	let inc n = n
//	let two = 2
//	inc two
const pairDocument = `
source: "let inc n = n\nlet two = 2\ninc two"
root:
  node: let
  span: [0, 33]
  bindings:
    - span: [4, 13]
      type: "Int -> Int"
      doc: "/// adds one"
      id: { node: ident, name: inc, span: [4, 7], type: "Int -> Int" }
      args: [{ node: ident, name: n, span: [8, 9], type: Int }]
      expr: { node: ident, name: n, span: [12, 13], type: Int }
  body:
    node: let
    span: [14, 33]
    bindings:
      - span: [18, 25]
        type: Int
        id: { node: ident, name: two, span: [18, 21], type: Int }
        expr: { node: literal, lit: int, text: "2", span: [24, 25], type: Int }
    body:
      node: app
      span: [26, 33]
      type: Int
      func: { node: ident, name: inc, span: [26, 29], type: "Int -> Int" }
      args: [{ node: ident, name: two, span: [30, 33], type: Int }]
`

// buildBinary compiles the lookout binary and returns the path.
// The binary is placed in t.TempDir() so it's cleaned up automatically.
func buildBinary(t *testing.T) string {
	t.Helper()
	binName := "lookout"
	if runtime.GOOS == "windows" {
		binName += ".exe"
	}
	bin := filepath.Join(t.TempDir(), binName)
	cmd := exec.Command("go", "build", "-o", bin, ".")
	cmd.Dir = filepath.Join(projectRoot(t), "cmd", "lookout")
	cmd.Env = append(os.Environ(), "CGO_ENABLED=1")
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, "build failed: %s", string(out))
	return bin
}

// projectRoot returns the module root by walking up from the test file's
// directory to find go.mod.
func projectRoot(t *testing.T) string {
	t.Helper()
	_, filename, _, ok := runtime.Caller(0)
	require.True(t, ok, "runtime.Caller failed")
	dir := filepath.Dir(filename)
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		require.NotEqual(t, parent, dir, "could not find project root")
		dir = parent
	}
}

// createFixture creates a temporary repo holding pair.tree.yaml and
// returns the directory and the document path.
func createFixture(t *testing.T) (dir, doc string) {
	t.Helper()
	dir = t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, ".git"), 0o755))
	doc = filepath.Join(dir, "pair.tree.yaml")
	require.NoError(t, os.WriteFile(doc, []byte(pairDocument), 0o644))
	return dir, doc
}

// run executes the binary in dir and returns the parsed CLIResult.
func run(t *testing.T, bin, dir string, args ...string) map[string]any {
	t.Helper()
	cmd := exec.Command(bin, args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), "HOME="+t.TempDir())
	stdout, err := cmd.Output()
	// Allow non-zero exit for error cases, but we always expect JSON on stdout.
	if err != nil && len(stdout) == 0 {
		t.Fatalf("%v failed with no output: %v", args, err)
	}

	var result map[string]any
	require.NoError(t, json.Unmarshal(stdout, &result), "invalid JSON output: %s", string(stdout))
	return result
}

func TestCLI_TreeCommands(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	bin := buildBinary(t)
	dir, doc := createFixture(t)

	t.Run("type", func(t *testing.T) {
		result := run(t, bin, dir, "type", doc, "26")
		assert.Equal(t, "type", result["command"])
		res := result["results"].(map[string]any)
		assert.Equal(t, "Int -> Int", res["type"])
		assert.Equal(t, "type", res["level"])
	})

	t.Run("symbol by line and column", func(t *testing.T) {
		result := run(t, bin, dir, "symbol", doc, "2:0")
		res := result["results"].(map[string]any)
		assert.Equal(t, "inc", res["name"])
		span := res["span"].(map[string]any)
		assert.Equal(t, float64(4), span["start"])
		assert.Equal(t, float64(0), span["line"])
	})

	t.Run("symbol outside the tree", func(t *testing.T) {
		result := run(t, bin, dir, "symbol", doc, "99")
		assert.Nil(t, result["results"])
		assert.Empty(t, result["error"])
	})

	t.Run("refs", func(t *testing.T) {
		result := run(t, bin, dir, "refs", doc, "30")
		res := result["results"].(map[string]any)
		assert.Equal(t, "two", res["name"])
		assert.Len(t, res["spans"], 2)
	})

	t.Run("doc", func(t *testing.T) {
		result := run(t, bin, dir, "doc", doc, "26")
		res := result["results"].(map[string]any)
		assert.Contains(t, res["comment"], "adds one")
	})

	t.Run("suggest", func(t *testing.T) {
		result := run(t, bin, dir, "suggest", doc, "30", "tw")
		res := result["results"].([]any)
		require.Len(t, res, 1)
		assert.Equal(t, "two", res[0].(map[string]any)["name"])
	})

	t.Run("outline", func(t *testing.T) {
		result := run(t, bin, dir, "outline", doc)
		res := result["results"].([]any)
		require.Len(t, res, 2)
		assert.Equal(t, "inc", res[0].(map[string]any)["name"])
		assert.Equal(t, "function", res[0].(map[string]any)["kind"])
	})

	t.Run("check", func(t *testing.T) {
		result := run(t, bin, dir, "check", doc)
		res := result["results"].([]any)
		require.Len(t, res, 1)
		finding := res[0].(map[string]any)
		assert.Equal(t, "undocumented", finding["check"])
		assert.Equal(t, "value two is undocumented", finding["message"])
	})

	t.Run("bad position", func(t *testing.T) {
		result := run(t, bin, dir, "type", doc, "x:y")
		assert.Contains(t, result["error"], "invalid line")
	})
}

func TestCLI_IndexAndQuery(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	bin := buildBinary(t)
	dir, doc := createFixture(t)

	result := run(t, bin, dir, "index", "--no-progress", dir)
	assert.Equal(t, "index", result["command"])
	assert.Empty(t, result["error"])
	require.FileExists(t, filepath.Join(dir, ".lookout", "index.db"))

	t.Run("definition", func(t *testing.T) {
		result := run(t, bin, dir, "query", "definition", doc, "2", "0")
		res := result["results"].([]any)
		require.Len(t, res, 1)
		loc := res[0].(map[string]any)
		assert.Equal(t, doc, loc["file"])
		assert.Equal(t, float64(0), loc["start_line"])
		assert.Equal(t, float64(4), loc["start_col"])
	})

	t.Run("references", func(t *testing.T) {
		result := run(t, bin, dir, "query", "references", doc, "1", "4")
		assert.Equal(t, float64(2), result["total_count"])
	})

	t.Run("search", func(t *testing.T) {
		result := run(t, bin, dir, "search", "tw")
		res := result["results"].([]any)
		require.Len(t, res, 1)
		assert.Equal(t, "two", res[0].(map[string]any)["name"])
	})

	t.Run("symbols by kind", func(t *testing.T) {
		result := run(t, bin, dir, "query", "symbols", "--kind", "function")
		res := result["results"].([]any)
		require.Len(t, res, 1)
		assert.Equal(t, "inc", res[0].(map[string]any)["name"])
	})

	t.Run("summary", func(t *testing.T) {
		result := run(t, bin, dir, "query", "summary")
		res := result["results"].(map[string]any)
		assert.Equal(t, float64(1), res["file_count"])
		assert.Equal(t, float64(2), res["symbol_count"])
	})

	t.Run("outline", func(t *testing.T) {
		result := run(t, bin, dir, "query", "outline", doc)
		assert.Len(t, result["results"], 2)
	})

	t.Run("reindex unchanged", func(t *testing.T) {
		result := run(t, bin, dir, "index", "--no-progress", dir)
		assert.Equal(t, float64(0), result["total_count"])
	})
}

func TestCLI_QueryWithoutDatabase(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	bin := buildBinary(t)
	dir, _ := createFixture(t)

	result := run(t, bin, dir, "query", "summary")
	assert.Contains(t, result["error"], "database not found")
}
