// Package app wires the validation, caching, coalescing and queueing layers
// into the scan control plane.
package app

import (
	"context"
	"fmt"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"go.trai.ch/scout/internal/core/domain"
	"go.trai.ch/scout/internal/core/ports"
	"go.trai.ch/scout/internal/engine/coalesce"
	"go.trai.ch/scout/internal/engine/queue"
	"go.trai.ch/zerr"
)

// Stats aggregates the counters of every layer for inspection callers.
type Stats struct {
	Cache     ports.CacheStats     `json:"cache"`
	Validator ports.ValidatorStats `json:"validator"`
	Coalescer coalesce.Stats       `json:"coalescer"`
	Queue     queue.Progress       `json:"queue"`
}

// Orchestrator is the front door for scan requests. Every request passes
// validation, then the result cache, then the coalescer; only a request that
// misses all three reaches the scanner.
type Orchestrator struct {
	validator ports.PathValidator
	cache     ports.ResultCache
	coalescer *coalesce.Coalescer
	queue     *queue.Queue
	scanner   ports.Scanner
	logger    ports.Logger
	resultTTL time.Duration

	batchSeq atomic.Int64
}

// NewOrchestrator creates an Orchestrator. resultTTL is the lifetime of
// cached scan reports.
func NewOrchestrator(
	validator ports.PathValidator,
	cache ports.ResultCache,
	coalescer *coalesce.Coalescer,
	q *queue.Queue,
	scanner ports.Scanner,
	logger ports.Logger,
	resultTTL time.Duration,
) *Orchestrator {
	return &Orchestrator{
		validator: validator,
		cache:     cache,
		coalescer: coalescer,
		queue:     q,
		scanner:   scanner,
		logger:    logger,
		resultTTL: resultTTL,
	}
}

// Scan validates path and returns its scan report, served from cache when
// possible. Concurrent calls for the same path and options share a single
// scanner run.
func (o *Orchestrator) Scan(ctx context.Context, path string, opts domain.ScanOptions) (*domain.ScanReport, error) {
	res := o.validator.Validate(ctx, path)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !res.Valid() {
		return nil, invalidPathError(path, res)
	}

	key := domain.Fingerprint(res.NormalizedPath, opts)
	return o.lookupOrScan(ctx, key, res.NormalizedPath, opts)
}

// lookupOrScan serves key from the cache or runs the scanner through the
// coalescer. The cache write happens inside the coalesced executor, so
// joiners of an in-flight scan never race a missing entry.
func (o *Orchestrator) lookupOrScan(ctx context.Context, key, normalized string, opts domain.ScanOptions) (*domain.ScanReport, error) {
	if v, ok := o.cache.Get(key); ok {
		if report, ok := v.(*domain.ScanReport); ok {
			return report, nil
		}
	}

	v, err := o.coalescer.Do(ctx, key, func(ctx context.Context) (any, error) {
		report, err := o.scanner.Scan(ctx, normalized, opts)
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, domain.ErrScanFailed.Error()), "path", normalized)
		}
		o.cache.Set(key, report, o.resultTTL)
		return report, nil
	})
	if err != nil {
		return nil, err
	}

	report, ok := v.(*domain.ScanReport)
	if !ok {
		return nil, zerr.With(zerr.Wrap(domain.ErrScanFailed, "unexpected result type"), "path", normalized)
	}
	return report, nil
}

type batchItem struct {
	index      int
	taskID     string
	normalized string
	key        string
}

// ScanBatch scans several repositories through the bounded queue and returns
// one result per input path, in input order. Invalid paths fail fast without
// occupying a queue slot; a cancelled context fails the unsettled remainder
// with the context error. The returned error reports only whole-batch
// failures, never a single repository's.
func (o *Orchestrator) ScanBatch(ctx context.Context, paths []string, opts domain.ScanOptions) ([]domain.RepoResult, error) {
	if len(paths) == 0 {
		return nil, domain.ErrNoRepositories
	}

	results := make([]domain.RepoResult, len(paths))
	items := o.validateBatch(ctx, paths, opts, results)
	if rejected := len(paths) - len(items); rejected > 0 {
		o.logger.Warn(fmt.Sprintf("%d of %d repositories rejected by validation", rejected, len(paths)))
	}
	if len(items) == 0 {
		return results, nil
	}

	var mu sync.Mutex
	remaining := len(items)
	done := make(chan struct{})
	taskIndex := make(map[string]int, len(items))
	for _, item := range items {
		taskIndex[item.taskID] = item.index
	}

	settleOne := func(taskID string, report *domain.ScanReport, err error) {
		mu.Lock()
		defer mu.Unlock()

		idx, ok := taskIndex[taskID]
		if !ok {
			return
		}
		delete(taskIndex, taskID)
		results[idx] = domain.RepoResult{Path: paths[idx], Report: report, Err: err}

		remaining--
		if remaining == 0 {
			close(done)
		}
	}

	cancelSub := o.queue.Subscribe(func(ev queue.Event) {
		switch ev.Type {
		case queue.EventTaskCompleted:
			report, _ := ev.Task.Result.(*domain.ScanReport)
			settleOne(ev.Task.ID, report, nil)
		case queue.EventTaskFailed:
			settleOne(ev.Task.ID, nil, ev.Task.Err)
		}
	})
	defer cancelSub()

	for _, item := range items {
		item := item
		job := queue.Job(func(taskCtx context.Context) (any, error) {
			return o.lookupOrScan(taskCtx, item.key, item.normalized, opts)
		})
		if _, err := o.queue.Submit(item.taskID, job); err != nil {
			settleOne(item.taskID, nil, err)
		}
	}

	select {
	case <-done:
		return results, nil
	case <-ctx.Done():
		mu.Lock()
		defer mu.Unlock()
		for taskID, idx := range taskIndex {
			results[idx] = domain.RepoResult{Path: paths[idx], Err: ctx.Err()}
			delete(taskIndex, taskID)
		}
		return results, nil
	}
}

// validateBatch validates all paths concurrently. Invalid paths get their
// error recorded in results; valid ones come back as queue submissions.
func (o *Orchestrator) validateBatch(ctx context.Context, paths []string, opts domain.ScanOptions, results []domain.RepoResult) []batchItem {
	batchID := o.batchSeq.Add(1)

	items := make([]*batchItem, len(paths))
	g, vctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	for i, p := range paths {
		i, p := i, p
		g.Go(func() error {
			res := o.validator.Validate(vctx, p)
			if !res.Valid() {
				results[i] = domain.RepoResult{Path: p, Err: invalidPathError(p, res)}
				return nil
			}

			items[i] = &batchItem{
				index:      i,
				taskID:     fmt.Sprintf("scan-%d-%d", batchID, i),
				normalized: res.NormalizedPath,
				key:        domain.Fingerprint(res.NormalizedPath, opts),
			}
			return nil
		})
	}
	// Validation never returns an error through the group; the group only
	// carries the shared context.
	_ = g.Wait()

	out := make([]batchItem, 0, len(paths))
	for _, item := range items {
		if item != nil {
			out = append(out, *item)
		}
	}
	return out
}

// InvalidateRepository removes every cached report for the repository at
// path, across all option variants. Returns the count removed.
func (o *Orchestrator) InvalidateRepository(path string) int {
	return o.cache.InvalidatePattern(domain.CanonicalizePath(path) + "@*")
}

// InvalidatePattern removes cached reports whose key matches the wildcard
// pattern. Returns the count removed.
func (o *Orchestrator) InvalidatePattern(pattern string) int {
	return o.cache.InvalidatePattern(pattern)
}

// ClearCaches empties both the result cache and the validator's cache.
func (o *Orchestrator) ClearCaches() int {
	removed := o.cache.InvalidateAll()
	o.validator.ClearCache()
	return removed
}

// Stats returns a snapshot of every layer's counters.
func (o *Orchestrator) Stats() Stats {
	return Stats{
		Cache:     o.cache.Stats(),
		Validator: o.validator.Stats(),
		Coalescer: o.coalescer.Stats(),
		Queue:     o.queue.Progress(),
	}
}

// Subscribe registers fn for queue lifecycle events and returns a cancel
// function.
func (o *Orchestrator) Subscribe(fn func(queue.Event)) func() {
	return o.queue.Subscribe(fn)
}

// Close shuts down the queue, the coalescer and the cache, waiting for
// running scans to settle.
func (o *Orchestrator) Close() {
	o.queue.Close()
	o.coalescer.Close()
	o.cache.Close()
}

// invalidPathError builds the rejection error for a failed validation,
// carrying the error codes and the offending path. The sentinel is wrapped,
// not annotated directly, so it survives errors.Is matching.
func invalidPathError(path string, res *domain.PathValidation) error {
	codes := res.ErrorCodes()
	labels := make([]string, len(codes))
	for i, code := range codes {
		labels[i] = string(code)
	}

	err := zerr.With(zerr.Wrap(domain.ErrInvalidPath, "validation rejected the path"), "path", path)
	return zerr.With(err, "codes", strings.Join(labels, ","))
}
