package lookout

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/jward/lookout/internal/store"
)

// workItem holds everything a parallel indexing worker needs.
type workItem struct {
	path    string
	content []byte
	fileID  int64
	batch   *store.BatchedStore

	// Pre-captured old symbols for change reporting after commit.
	oldSymbols []capturedSymbol
	reindex    bool
}

// IndexFilesParallel indexes files using a three-phase parallel pipeline:
//
//	Phase A (serial):   Hash check, delete old data, prepare file records.
//	Phase B (parallel): Decode, validate and outline via worker pool.
//	Phase C (serial):   Commit batches to SQLite, record changes.
func (e *Engine) IndexFilesParallel(ctx context.Context, paths []string) error {
	// ---- Phase A: Serial file preparation ----
	var items []workItem
	var errs []error
	done := 0
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return err
		}
		item, skip, err := e.prepareFile(ctx, path)
		if err != nil {
			errs = append(errs, fmt.Errorf("prepare %s: %w", path, err))
			done++
			e.report(done, len(paths), path)
			continue
		}
		if skip {
			done++
			e.report(done, len(paths), path)
			continue
		}
		items = append(items, item)
	}

	if len(items) > 0 {
		errs = append(errs, e.runWorkers(ctx, items, &done, len(paths))...)
	}

	if len(errs) > 0 {
		for _, err := range errs {
			e.logger.Warn("index failed", "error", err)
		}
		return fmt.Errorf("parallel indexing had %d error(s): %w", len(errs), errs[0])
	}
	return nil
}

// runWorkers runs phases B and C over the prepared items.
func (e *Engine) runWorkers(ctx context.Context, items []workItem, done *int, total int) []error {
	numWorkers := min(runtime.NumCPU(), len(items))
	if numWorkers < 1 {
		numWorkers = 1
	}

	workCh := make(chan workItem, len(items))
	for _, item := range items {
		workCh <- item
	}
	close(workCh)

	type result struct {
		item      workItem
		lineCount int
		err       error
	}
	resultCh := make(chan result, len(items))

	var wg sync.WaitGroup
	for range numWorkers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			// The BatchedStore per item handles write isolation.
			for item := range workCh {
				if err := ctx.Err(); err != nil {
					resultCh <- result{item: item, err: err}
					continue
				}
				n, err := e.extractFile(ctx, item)
				resultCh <- result{item: item, lineCount: n, err: err}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(resultCh)
	}()

	// ---- Phase C: Serial commit ----
	var errs []error
	for res := range resultCh {
		*done++
		e.report(*done, total, res.item.path)
		if res.err != nil {
			errs = append(errs, fmt.Errorf("extract %s: %w", res.item.path, res.err))
			// Drop the empty file record so the next run retries the file.
			if err := e.store.DeleteFileData(res.item.fileID); err != nil {
				errs = append(errs, fmt.Errorf("cleanup %s: %w", res.item.path, err))
			}
			continue
		}
		if err := e.commitFile(res.item, res.lineCount); err != nil {
			errs = append(errs, fmt.Errorf("commit %s: %w", res.item.path, err))
		}
	}
	return errs
}
