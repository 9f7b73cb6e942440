// Package fs provides filesystem adapters: metadata lookups classified into
// the domain error taxonomy, and a repository file walker.
package fs

import (
	"errors"
	iofs "io/fs"
	"os"

	"go.trai.ch/scout/internal/core/domain"
	"go.trai.ch/zerr"
)

// Stat returns metadata for path. I/O failures are classified exactly once,
// here at the boundary, into the domain taxonomy; callers match with
// errors.Is and never see raw syscall errors.
func Stat(path string) (domain.PathMetadata, error) {
	info, err := os.Stat(path)
	if err != nil {
		return domain.PathMetadata{}, classify(err, path)
	}

	return domain.PathMetadata{
		Exists:      true,
		IsDirectory: info.IsDir(),
		SizeBytes:   info.Size(),
	}, nil
}

// Readable reports whether path can be opened for reading, classifying any
// failure into the domain taxonomy.
func Readable(path string) error {
	f, err := os.Open(path) //nolint:gosec // Path has been validated by the caller
	if err != nil {
		return classify(err, path)
	}
	return f.Close()
}

// classify wraps the sentinel rather than the raw error so the sentinel
// stays in the cause chain for errors.Is.
func classify(err error, path string) error {
	switch {
	case errors.Is(err, iofs.ErrNotExist):
		return zerr.With(zerr.Wrap(domain.ErrNotFound, err.Error()), "path", path)
	case errors.Is(err, iofs.ErrPermission):
		return zerr.With(zerr.Wrap(domain.ErrPermissionDenied, err.Error()), "path", path)
	default:
		return zerr.With(zerr.Wrap(domain.ErrUnknownIO, err.Error()), "path", path)
	}
}

// IssueCode maps a classified filesystem error to its validation issue code.
func IssueCode(err error) domain.IssueCode {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return domain.CodeNotFound
	case errors.Is(err, domain.ErrPermissionDenied):
		return domain.CodePermissionDenied
	default:
		return domain.CodeUnknown
	}
}
