package lookout

import (
	"context"
	"crypto/sha256"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/jward/lookout/internal/store"
	"github.com/jward/lookout/internal/treefile"
)

// OutlineVersion identifies the layout of indexed outlines. Databases built
// with another version are stale and must be rebuilt.
const OutlineVersion = "1"

const outlineVersionKey = "outline_version"

// Engine maintains a persistent outline index over tree documents.
type Engine struct {
	store    *store.Store
	logger   *slog.Logger
	progress ProgressFunc

	// useParallel enables the parallel indexing pipeline.
	useParallel bool

	// changes accumulates per-file symbol changes since the last TakeChanges.
	changes []FileChange
}

// ProgressFunc is called after each file is indexed or skipped.
type ProgressFunc func(done, total int, path string)

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the structured logger. The default discards output.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithParallel controls parallel indexing. When true (default), IndexFiles
// decodes and outlines documents on a worker pool, with a single writer
// committing batches to SQLite. Set to false for serial mode.
func WithParallel(parallel bool) Option {
	return func(e *Engine) {
		e.useParallel = parallel
	}
}

// WithProgress registers a callback reporting indexing progress.
func WithProgress(fn ProgressFunc) Option {
	return func(e *Engine) {
		e.progress = fn
	}
}

// New creates an Engine backed by a SQLite database at dbPath.
func New(dbPath string, opts ...Option) (*Engine, error) {
	if dir := filepath.Dir(dbPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("lookout: create database dir: %w", err)
		}
	}
	s, err := store.NewStore(dbPath)
	if err != nil {
		return nil, fmt.Errorf("lookout: create store: %w", err)
	}
	if err := s.Migrate(); err != nil {
		s.Close()
		return nil, fmt.Errorf("lookout: migrate: %w", err)
	}

	e := &Engine{
		store:       s,
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		useParallel: true,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Close releases the Engine's database resources.
func (e *Engine) Close() error {
	return e.store.Close()
}

// Store returns the underlying Store for direct access.
func (e *Engine) Store() *Store {
	return e.store
}

// Query returns a new QueryBuilder wrapping the Store.
func (e *Engine) Query() *QueryBuilder {
	return &QueryBuilder{store: e.store}
}

// Stale reports whether the database holds outlines written with a different
// OutlineVersion. A fresh database is not stale.
func (e *Engine) Stale() (bool, error) {
	stored, err := e.store.GetSetting(outlineVersionKey)
	if err != nil {
		return false, fmt.Errorf("lookout: stale: %w", err)
	}
	if stored == "" {
		files, err := e.store.Files()
		if err != nil {
			return false, fmt.Errorf("lookout: stale: %w", err)
		}
		return len(files) > 0, nil
	}
	return stored != OutlineVersion, nil
}

// Reset removes every indexed file so the next IndexFiles rebuilds from scratch.
func (e *Engine) Reset() error {
	files, err := e.store.Files()
	if err != nil {
		return fmt.Errorf("lookout: reset: %w", err)
	}
	for _, f := range files {
		if err := e.store.DeleteFileData(f.ID); err != nil {
			return fmt.Errorf("lookout: reset %s: %w", f.Path, err)
		}
	}
	e.logger.Info("index reset", "files", len(files))
	return nil
}

// FileChange summarises how reindexing a file changed its declarations.
// Symbols are named "kind name", qualified by their enclosing declarations.
type FileChange struct {
	Path    string
	Added   []string
	Removed []string
	Changed []string
}

// TakeChanges returns the changes recorded since the previous call.
func (e *Engine) TakeChanges() []FileChange {
	out := e.changes
	e.changes = nil
	return out
}

// symbolKey identifies a symbol across reindexing by name, kind and the
// chain of enclosing declarations.
type symbolKey struct {
	Name   string
	Kind   string
	Parent string
}

func (k symbolKey) String() string {
	if k.Parent == "" {
		return k.Kind + " " + k.Name
	}
	return k.Kind + " " + k.Parent + "." + k.Name
}

// capturedSymbol holds a symbol's identity and hash for change detection.
type capturedSymbol struct {
	Key           symbolKey
	SignatureHash string
}

// captureSymbols captures the current symbols for a file with their stored
// signature hashes.
func (e *Engine) captureSymbols(fileID int64) ([]capturedSymbol, error) {
	syms, err := e.store.SymbolsByFile(fileID)
	if err != nil {
		return nil, err
	}
	byID := make(map[int64]*store.Symbol, len(syms))
	for _, sym := range syms {
		byID[sym.ID] = sym
	}
	var parentPath func(sym *store.Symbol) string
	parentPath = func(sym *store.Symbol) string {
		if sym.ParentSymbolID == nil {
			return ""
		}
		parent, ok := byID[*sym.ParentSymbolID]
		if !ok {
			return ""
		}
		if pp := parentPath(parent); pp != "" {
			return pp + "." + parent.Name
		}
		return parent.Name
	}

	captured := make([]capturedSymbol, 0, len(syms))
	for _, sym := range syms {
		captured = append(captured, capturedSymbol{
			Key:           symbolKey{Name: sym.Name, Kind: sym.Kind, Parent: parentPath(sym)},
			SignatureHash: sym.SignatureHash,
		})
	}
	return captured, nil
}

// computeChanges compares old vs new symbols of one file.
func computeChanges(path string, oldSyms, newSyms []capturedSymbol) FileChange {
	change := FileChange{Path: path}
	oldByKey := make(map[symbolKey]capturedSymbol, len(oldSyms))
	for _, s := range oldSyms {
		oldByKey[s.Key] = s
	}
	newByKey := make(map[symbolKey]capturedSymbol, len(newSyms))
	for _, s := range newSyms {
		newByKey[s.Key] = s
	}

	for key, oldSym := range oldByKey {
		newSym, ok := newByKey[key]
		switch {
		case !ok:
			change.Removed = append(change.Removed, key.String())
		case oldSym.SignatureHash != newSym.SignatureHash:
			change.Changed = append(change.Changed, key.String())
		}
	}
	for key := range newByKey {
		if _, ok := oldByKey[key]; !ok {
			change.Added = append(change.Added, key.String())
		}
	}
	sort.Strings(change.Added)
	sort.Strings(change.Removed)
	sort.Strings(change.Changed)
	return change
}

func (c FileChange) empty() bool {
	return len(c.Added) == 0 && len(c.Removed) == 0 && len(c.Changed) == 0
}

// IndexFiles indexes the given tree documents. When WithParallel is enabled,
// uses a worker pool for decoding with batched SQLite writes. Otherwise
// falls back to the serial path.
//
// For each file:
// 1. Skip unchanged files (same content hash)
// 2. Capture old symbols (for change reporting)
// 3. Delete stale data, insert the file record
// 4. Decode the document, validate the tree and compute its outline
// 5. Write symbols, docs, arguments and occurrences
// 6. Capture new symbols, record the change
//
// Errors on individual files are collected; processing continues.
func (e *Engine) IndexFiles(ctx context.Context, paths []string) error {
	var err error
	if e.useParallel {
		err = e.IndexFilesParallel(ctx, paths)
	} else {
		err = e.indexFilesSerial(ctx, paths)
	}
	if verr := e.store.SetSetting(outlineVersionKey, OutlineVersion); verr != nil && err == nil {
		err = fmt.Errorf("lookout: %w", verr)
	}
	return err
}

func (e *Engine) indexFilesSerial(ctx context.Context, paths []string) error {
	var errs []error
	for i, path := range paths {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := e.indexFile(ctx, path); err != nil {
			e.logger.Warn("index failed", "path", path, "error", err)
			errs = append(errs, fmt.Errorf("index %s: %w", path, err))
		}
		e.report(i+1, len(paths), path)
	}
	if len(errs) > 0 {
		return fmt.Errorf("indexing had %d error(s): %w", len(errs), errs[0])
	}
	return nil
}

func (e *Engine) indexFile(ctx context.Context, path string) error {
	item, skip, err := e.prepareFile(ctx, path)
	if err != nil || skip {
		return err
	}
	lineCount, err := e.extractFile(ctx, item)
	if err != nil {
		// Drop the empty file record so the next run retries the file.
		if derr := e.store.DeleteFileData(item.fileID); derr != nil {
			return fmt.Errorf("%w (cleanup: %v)", err, derr)
		}
		return err
	}
	return e.commitFile(item, lineCount)
}

func (e *Engine) report(done, total int, path string) {
	if e.progress != nil {
		e.progress(done, total, path)
	}
}

// prepareFile does the serial setup for a single file: hash check, cleanup,
// file record. Returns (item, skip, error). skip=true means the file is unchanged.
func (e *Engine) prepareFile(_ context.Context, path string) (workItem, bool, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return workItem{}, false, fmt.Errorf("read file: %w", err)
	}
	hash := fmt.Sprintf("%x", sha256.Sum256(content))

	existing, err := e.store.FileByPath(path)
	if err != nil {
		return workItem{}, false, fmt.Errorf("lookup file: %w", err)
	}
	if existing != nil && existing.Hash == hash {
		e.logger.Debug("unchanged", "path", path)
		return workItem{}, true, nil
	}

	var oldSymbols []capturedSymbol
	if existing != nil {
		oldSymbols, err = e.captureSymbols(existing.ID)
		if err != nil {
			return workItem{}, false, fmt.Errorf("capture old symbols: %w", err)
		}
		if err := e.store.DeleteFileData(existing.ID); err != nil {
			return workItem{}, false, fmt.Errorf("delete old data: %w", err)
		}
	}

	fileID, err := e.store.InsertFile(&store.File{
		Path:        path,
		Hash:        hash,
		LastIndexed: time.Now(),
	})
	if err != nil {
		return workItem{}, false, fmt.Errorf("insert file: %w", err)
	}

	return workItem{
		path:       path,
		content:    content,
		fileID:     fileID,
		batch:      store.NewBatchedStore(e.store),
		oldSymbols: oldSymbols,
		reindex:    existing != nil,
	}, false, nil
}

// extractFile decodes the document and buffers its outline into the item's
// batch. It returns the source line count.
func (e *Engine) extractFile(_ context.Context, item workItem) (int, error) {
	doc, err := treefile.Parse(item.content)
	if err != nil {
		return 0, err
	}
	tree, err := NewTree(doc.Source, doc.Root, doc.Env, nil)
	if err != nil {
		return 0, err
	}
	if err := writeOutline(item.batch, item.fileID, tree); err != nil {
		return 0, fmt.Errorf("write outline: %w", err)
	}
	return tree.lines.LineCount(), nil
}

// commitFile flushes the item's batch and records what changed.
func (e *Engine) commitFile(item workItem, lineCount int) error {
	if err := e.store.CommitBatch(item.batch); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	if err := e.store.UpdateFileLineCount(item.fileID, lineCount); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	newSymbols, err := e.captureSymbols(item.fileID)
	if err != nil {
		return fmt.Errorf("capture new symbols: %w", err)
	}
	e.logger.Info("indexed", "path", item.path, "symbols", len(newSymbols))
	if item.reindex {
		if change := computeChanges(item.path, item.oldSymbols, newSymbols); !change.empty() {
			e.logger.Debug("outline changed", "path", item.path,
				"added", len(change.Added), "removed", len(change.Removed), "changed", len(change.Changed))
			e.changes = append(e.changes, change)
		}
	}
	return nil
}

// DiscoverFiles walks root and returns the files matching any include
// pattern and no exclude pattern. Patterns use doublestar syntax and are
// matched against slash-separated paths relative to root.
func DiscoverFiles(root string, includes, excludes []string) ([]string, error) {
	if len(includes) == 0 {
		includes = []string{"**/*"}
	}
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("discover: %w", err)
	}
	matches := func(patterns []string, rel string) bool {
		for _, pattern := range patterns {
			if ok, err := doublestar.Match(pattern, rel); err == nil && ok {
				return true
			}
		}
		return false
	}

	var paths []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if d.IsDir() {
			if rel != "." && matches(excludes, rel+"/") {
				return filepath.SkipDir
			}
			return nil
		}
		if matches(includes, rel) && !matches(excludes, rel) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("discover: %w", err)
	}
	return paths, nil
}

// IndexGlob discovers tree documents under root with DiscoverFiles and
// indexes them.
func (e *Engine) IndexGlob(ctx context.Context, root string, includes, excludes []string) error {
	paths, err := DiscoverFiles(root, includes, excludes)
	if err != nil {
		return err
	}
	e.logger.Debug("discovered", "root", root, "files", len(paths))
	return e.IndexFiles(ctx, paths)
}
