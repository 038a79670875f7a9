package runtime

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/risor-io/risor"
	"github.com/risor-io/risor/importer"
	"github.com/risor-io/risor/object"

	"github.com/jward/lookout"
	"github.com/jward/lookout/internal/store"
)

// Runtime embeds a Risor VM and exposes the queries of one loaded tree,
// and optionally the outline index, to user scripts.
type Runtime struct {
	tree       *lookout.Tree
	store      *store.Store
	logger     *slog.Logger
	scriptsDir string
	fsys       fs.FS
	findings   findings
}

// RuntimeOption configures a Runtime.
type RuntimeOption func(*Runtime)

// WithRuntimeFS configures the Runtime to load scripts from an fs.FS
// instead of from disk. Also configures the Risor importer to use
// FSImporter for import statement resolution.
func WithRuntimeFS(fsys fs.FS) RuntimeOption {
	return func(r *Runtime) {
		r.fsys = fsys
	}
}

// WithStore exposes the outline index to scripts through the read-only
// index globals.
func WithStore(s *store.Store) RuntimeOption {
	return func(r *Runtime) {
		r.store = s
	}
}

// WithLogger sets the logger behind the script log global.
func WithLogger(logger *slog.Logger) RuntimeOption {
	return func(r *Runtime) {
		r.logger = logger
	}
}

// NewRuntime creates a Runtime over tree with scripts loaded relative to
// scriptsDir. tree may be nil, in which case only log and the index
// globals are available.
func NewRuntime(tree *lookout.Tree, scriptsDir string, opts ...RuntimeOption) *Runtime {
	r := &Runtime{
		tree:       tree,
		scriptsDir: scriptsDir,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RunScript loads and executes a Risor script with all standard globals
// plus any extra globals provided by the caller.
func (r *Runtime) RunScript(ctx context.Context, scriptPath string, extraGlobals map[string]any) error {
	src, err := r.LoadScript(scriptPath)
	if err != nil {
		return err
	}
	return r.eval(ctx, src, scriptPath, extraGlobals)
}

// RunSource executes Risor source code directly with all standard globals
// plus any extra globals. Useful for testing without script files.
func (r *Runtime) RunSource(ctx context.Context, source string, extraGlobals map[string]any) error {
	return r.eval(ctx, source, "<inline>", extraGlobals)
}

func (r *Runtime) eval(ctx context.Context, source, label string, extraGlobals map[string]any) error {
	globals := r.buildGlobals(extraGlobals)
	if _, ok := globals["report"]; !ok {
		globals["report"] = r.makeReportFn(label)
	}

	var opts []risor.Option
	for name, val := range globals {
		opts = append(opts, risor.WithGlobal(name, val))
	}

	// Wire importer so Risor import statements resolve correctly.
	if imp := r.buildImporter(globals); imp != nil {
		opts = append(opts, risor.WithImporter(imp))
	}

	r.logger.Debug("running script", "script", label)
	_, err := risor.Eval(ctx, source, opts...)
	if err != nil {
		return fmt.Errorf("runtime: script %s: %w", label, err)
	}
	return nil
}

// buildImporter returns a Risor importer configured for the Runtime's script source.
// Returns nil if neither fs.FS nor scriptsDir is configured.
func (r *Runtime) buildImporter(globals map[string]any) importer.Importer {
	globalNames := make([]string, 0, len(globals))
	for name := range globals {
		globalNames = append(globalNames, name)
	}

	if r.fsys != nil {
		return importer.NewFSImporter(importer.FSImporterOptions{
			GlobalNames: globalNames,
			SourceFS:    r.fsys,
			Extensions:  []string{".risor"},
		})
	}
	if r.scriptsDir != "" {
		return importer.NewLocalImporter(importer.LocalImporterOptions{
			GlobalNames: globalNames,
			SourceDir:   r.scriptsDir,
			Extensions:  []string{".risor"},
		})
	}
	return nil
}

// LoadScript reads a .risor file and returns its source code.
// When an fs.FS is configured, uses fs.ReadFile on that filesystem.
// Otherwise, uses os.ReadFile with scriptsDir as the base directory.
func (r *Runtime) LoadScript(path string) (string, error) {
	if r.fsys != nil {
		// Paths are relative within the FS ("/checks/a.risor" -> "checks/a.risor").
		fsPath := strings.TrimPrefix(filepath.ToSlash(path), "/")
		data, err := fs.ReadFile(r.fsys, fsPath)
		if err != nil {
			return "", fmt.Errorf("runtime: loading script %s from fs: %w", fsPath, err)
		}
		return string(data), nil
	}

	fullPath := path
	if !filepath.IsAbs(path) {
		fullPath = filepath.Join(r.scriptsDir, path)
	}

	data, err := os.ReadFile(fullPath)
	if err != nil {
		return "", fmt.Errorf("runtime: loading script %s: %w", fullPath, err)
	}
	return string(data), nil
}

// buildGlobals constructs the full set of globals exposed to Risor scripts.
func (r *Runtime) buildGlobals(extra map[string]any) map[string]any {
	globals := map[string]any{
		"log": mustProxy(&logObject{logger: r.logger}),
	}

	if r.tree != nil {
		// Position queries. Positions are byte offsets; offset() and
		// location() convert from and to 0-based line/column.
		globals["type_at"] = makeTypeAtFn(r.tree)
		globals["kind_at"] = makeKindAtFn(r.tree)
		globals["span_at"] = makeSpanAtFn(r.tree)
		globals["symbol_at"] = makeSymbolAtFn(r.tree)
		globals["references"] = makeReferencesFn(r.tree)
		globals["doc_at"] = makeDocAtFn(r.tree)
		globals["suggest_doc"] = makeSuggestDocFn(r.tree)
		globals["suggest"] = makeSuggestFn(r.tree)
		globals["outline"] = makeOutlineFn(r.tree)
		globals["text"] = makeTextFn(r.tree)
		globals["location"] = makeLocationFn(r.tree)
		globals["offset"] = makeOffsetFn(r.tree)
	}

	if r.store != nil {
		globals["files"] = makeFilesFn(r.store)
		globals["symbols_by_name"] = makeSymbolsByNameFn(r.store)
		globals["symbols_by_kind"] = makeSymbolsByKindFn(r.store)
		globals["symbols_by_file"] = makeSymbolsByFileFn(r.store)
		globals["references_to"] = makeReferencesToFn(r.store)
		globals["db_query"] = makeDBQueryFn(r.store)
	}

	for k, v := range extra {
		globals[k] = v
	}
	return globals
}

func mustProxy(v any) object.Object {
	p, err := object.NewProxy(v)
	if err != nil {
		panic(fmt.Sprintf("runtime: proxy error: %v", err))
	}
	return p
}

// logObject provides log.Debug/Info/Warn/Error methods for Risor scripts.
type logObject struct {
	logger *slog.Logger
}

func (l *logObject) Debug(msg string) { l.logger.Debug(msg, "source", "script") }

func (l *logObject) Info(msg string) { l.logger.Info(msg, "source", "script") }

func (l *logObject) Warn(msg string) { l.logger.Warn(msg, "source", "script") }

func (l *logObject) Error(msg string) { l.logger.Error(msg, "source", "script") }
