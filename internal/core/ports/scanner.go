// Package ports defines the core interfaces for the application.
package ports

import (
	"context"

	"go.trai.ch/scout/internal/core/domain"
)

// Scanner performs the expensive repository scan. Implementations must be
// deterministic for an unchanged repository so that cached and coalesced
// results are interchangeable with fresh ones.
//
//go:generate go run go.uber.org/mock/mockgen -source=scanner.go -destination=mocks/mock_scanner.go -package=mocks
type Scanner interface {
	// Scan walks the repository at path and produces a report.
	// It honors ctx cancellation between files.
	Scan(ctx context.Context, path string, opts domain.ScanOptions) (*domain.ScanReport, error)
}
