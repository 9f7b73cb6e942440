package ports

import (
	"context"
	"time"

	"go.trai.ch/scout/internal/core/domain"
)

// ValidateConfig holds configuration for a single validation call.
type ValidateConfig struct {
	// Timeout bounds the whole validation, including filesystem I/O.
	// Zero means no timeout beyond what ctx carries.
	Timeout time.Duration
	// Platform selects the rule family. Defaults to the native platform.
	Platform domain.Platform
	// OnProgress, when set, is invoked once per pipeline stage with the
	// stage name and a completion percentage.
	OnProgress func(stage string, percent int)
}

// ValidateOption is a functional option for configuring a validation call.
type ValidateOption func(*ValidateConfig)

// WithTimeout bounds the validation to d. Whichever of the timeout and the
// caller's context fires first wins.
func WithTimeout(d time.Duration) ValidateOption {
	return func(c *ValidateConfig) { c.Timeout = d }
}

// WithPlatform selects the rule family to validate against, overriding the
// native default.
func WithPlatform(p domain.Platform) ValidateOption {
	return func(c *ValidateConfig) { c.Platform = p }
}

// WithProgress registers a per-stage progress callback.
func WithProgress(fn func(stage string, percent int)) ValidateOption {
	return func(c *ValidateConfig) { c.OnProgress = fn }
}

// ValidatorStats reports the validator's internal cache counters.
type ValidatorStats struct {
	Hits     uint64 `json:"hits"`
	Misses   uint64 `json:"misses"`
	Entries  int    `json:"entries"`
	Capacity int    `json:"capacity"`
}

// PathValidator turns an untrusted path string into a validated, normalized
// result.
//
//go:generate go run go.uber.org/mock/mockgen -source=validator.go -destination=mocks/mock_validator.go -package=mocks
type PathValidator interface {
	// Validate runs the validation pipeline. It always returns a complete
	// result; failures, cancellation and timeout are reported as error
	// entries on the result, never as a panic or error value.
	Validate(ctx context.Context, raw string, opts ...ValidateOption) *domain.PathValidation

	// Stats returns the hit/miss counters of the validator's own cache.
	Stats() ValidatorStats

	// ClearCache empties the validator's cache synchronously.
	ClearCache()
}
