// Package pathcheck implements cross-platform path validation with caching,
// timeouts and cancellation.
package pathcheck

import (
	"context"
	"errors"
	"strings"

	"go.trai.ch/scout/internal/adapters/fs"
	"go.trai.ch/scout/internal/core/domain"
	"go.trai.ch/scout/internal/core/ports"
)

// Pipeline stages reported through the progress callback.
const (
	StageFormatValidation = "format_validation"
	StagePlatformRules    = "platform_rules"
	StageExistenceCheck   = "existence_check"
	StagePermissionCheck  = "permission_check"
	StageCompleted        = "completed"
)

// StatFunc looks up path metadata. Injected so tests can simulate slow or
// failing filesystems.
type StatFunc func(path string) (domain.PathMetadata, error)

// ReadableFunc probes read access to a path.
type ReadableFunc func(path string) error

// Validator implements ports.PathValidator.
type Validator struct {
	cache    *resultCache
	stat     StatFunc
	readable ReadableFunc
}

var _ ports.PathValidator = (*Validator)(nil)

// New creates a Validator whose result cache holds at most cacheSize entries.
func New(cacheSize int) *Validator {
	return &Validator{
		cache:    newResultCache(cacheSize),
		stat:     fs.Stat,
		readable: fs.Readable,
	}
}

// NewWithFilesystem creates a Validator with injected filesystem probes.
func NewWithFilesystem(cacheSize int, stat StatFunc, readable ReadableFunc) *Validator {
	return &Validator{
		cache:    newResultCache(cacheSize),
		stat:     stat,
		readable: readable,
	}
}

// Validate runs the validation pipeline. It always returns a complete,
// inspectable result: format and platform findings, filesystem metadata,
// and, when the context is cancelled or the timeout fires first, an
// OPERATION_CANCELLED or OPERATION_TIMED_OUT error entry. It never returns
// an error value.
func (v *Validator) Validate(ctx context.Context, raw string, opts ...ports.ValidateOption) *domain.PathValidation {
	cfg := ports.ValidateConfig{Platform: domain.NativePlatform()}
	for _, opt := range opts {
		opt(&cfg)
	}

	cacheKey := raw + "\x00" + string(cfg.Platform)
	if cached, ok := v.cache.get(cacheKey); ok {
		report(cfg, StageCompleted, 100)
		return cached
	}

	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	res := v.run(ctx, raw, cfg)

	// A result cut short by cancellation or timeout reflects the caller's
	// deadline, not the path; it must never be served to later callers.
	if !interruptedResult(res) {
		v.cache.put(cacheKey, res)
	}
	report(cfg, StageCompleted, 100)
	return res
}

func interruptedResult(res *domain.PathValidation) bool {
	return res.HasCode(domain.CodeOperationCancelled) || res.HasCode(domain.CodeOperationTimedOut)
}

func (v *Validator) run(ctx context.Context, raw string, cfg ports.ValidateConfig) *domain.PathValidation {
	res := &domain.PathValidation{}

	// Stage 1: format validation (pure).
	report(cfg, StageFormatValidation, 10)
	if raw == "" {
		res.Errors = append(res.Errors, domain.Issue{
			Code:    domain.CodeInvalidInput,
			Message: "path must not be empty",
		})
		return res
	}
	res.NormalizedPath = normalizeSeparators(raw, cfg.Platform)

	// Stage 2: platform rules (pure).
	if interrupted(ctx, res) {
		return res
	}
	report(cfg, StagePlatformRules, 30)
	var errs, warns []domain.Issue
	if cfg.Platform == domain.PlatformWindows {
		errs, warns = windowsIssues(res.NormalizedPath)
	} else {
		errs, warns = posixIssues(res.NormalizedPath)
	}
	res.Errors = append(res.Errors, errs...)
	res.Warnings = append(res.Warnings, warns...)

	// Stages 3 and 4 touch the real filesystem; they only make sense for
	// the native platform family.
	if cfg.Platform != domain.NativePlatform() {
		return res
	}

	// Stage 3: existence check (I/O).
	if interrupted(ctx, res) {
		return res
	}
	report(cfg, StageExistenceCheck, 60)
	meta, err := v.statWithContext(ctx, res.NormalizedPath)
	if err != nil {
		res.Errors = append(res.Errors, issueFromIO(ctx, err))
		return res
	}
	res.Metadata = meta

	// Stage 4: permission check (I/O).
	if interrupted(ctx, res) {
		return res
	}
	report(cfg, StagePermissionCheck, 80)
	if err := v.readableWithContext(ctx, res.NormalizedPath); err != nil {
		res.Errors = append(res.Errors, issueFromIO(ctx, err))
	}

	return res
}

// statWithContext runs the stat probe in its own goroutine so a hung or slow
// filesystem cannot outlive the caller's timeout. A probe that loses the
// race keeps running until it finishes on its own; only its result is
// discarded.
func (v *Validator) statWithContext(ctx context.Context, path string) (domain.PathMetadata, error) {
	type outcome struct {
		meta domain.PathMetadata
		err  error
	}
	ch := make(chan outcome, 1)
	go func() {
		meta, err := v.stat(path)
		ch <- outcome{meta, err}
	}()

	select {
	case out := <-ch:
		return out.meta, out.err
	case <-ctx.Done():
		return domain.PathMetadata{}, ctx.Err()
	}
}

func (v *Validator) readableWithContext(ctx context.Context, path string) error {
	ch := make(chan error, 1)
	go func() { ch <- v.readable(path) }()

	select {
	case err := <-ch:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stats returns the hit/miss counters of the validator's cache.
func (v *Validator) Stats() ports.ValidatorStats {
	return v.cache.stats()
}

// ClearCache empties the validator's cache synchronously.
func (v *Validator) ClearCache() {
	v.cache.clear()
}

// interrupted appends a cancellation or timeout issue and reports true when
// ctx is done. Checked between pipeline stages so whichever of the caller's
// cancellation and the timeout fires first wins.
func interrupted(ctx context.Context, res *domain.PathValidation) bool {
	select {
	case <-ctx.Done():
		res.Errors = append(res.Errors, cancellationIssue(ctx))
		return true
	default:
		return false
	}
}

func cancellationIssue(ctx context.Context) domain.Issue {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return domain.Issue{
			Code:    domain.CodeOperationTimedOut,
			Message: "validation timed out",
		}
	}
	return domain.Issue{
		Code:    domain.CodeOperationCancelled,
		Message: "validation was cancelled",
	}
}

// issueFromIO converts a classified filesystem error, or a context error
// surfaced through an I/O probe, into a result issue.
func issueFromIO(ctx context.Context, err error) domain.Issue {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return cancellationIssue(ctx)
	}
	return domain.Issue{
		Code:    fs.IssueCode(err),
		Message: err.Error(),
	}
}

// normalizeSeparators rewrites path separators for the target platform
// family.
func normalizeSeparators(raw string, platform domain.Platform) string {
	if platform == domain.PlatformWindows {
		return strings.ReplaceAll(raw, "/", "\\")
	}
	return strings.ReplaceAll(raw, "\\", "/")
}

func report(cfg ports.ValidateConfig, stage string, percent int) {
	if cfg.OnProgress != nil {
		cfg.OnProgress(stage, percent)
	}
}
