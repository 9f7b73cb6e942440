package domain

import "go.trai.ch/zerr"

var (
	// ErrNotFound is returned when a path does not exist on the filesystem.
	ErrNotFound = zerr.New("path not found")

	// ErrPermissionDenied is returned when a path exists but cannot be accessed.
	ErrPermissionDenied = zerr.New("permission denied")

	// ErrInvalidPath is returned when path validation rejects a repository path.
	ErrInvalidPath = zerr.New("invalid path")

	// ErrReadError is returned when reading a path fails for a reason other
	// than absence or permissions.
	ErrReadError = zerr.New("read error")

	// ErrUnknownIO is returned when a filesystem failure cannot be classified.
	ErrUnknownIO = zerr.New("unknown filesystem error")

	// ErrTaskAlreadyQueued is returned when submitting a task whose id is
	// already present in the queue's task table.
	ErrTaskAlreadyQueued = zerr.New("task already queued")

	// ErrTaskTimedOut marks a queued task whose processing exceeded the
	// configured per-task timeout.
	ErrTaskTimedOut = zerr.New("task timed out")

	// ErrQueueClosed is returned when submitting to a queue that has been
	// closed.
	ErrQueueClosed = zerr.New("queue closed")

	// ErrScanFailed is returned when one or more repositories in a batch
	// could not be scanned.
	ErrScanFailed = zerr.New("scan failed")

	// ErrNoRepositories is returned when a batch request names no repositories.
	ErrNoRepositories = zerr.New("no repositories specified")

	// ErrConfigReadFailed is returned when a configuration file exists but
	// cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when a configuration file is not valid
	// YAML or carries values outside their allowed range.
	ErrConfigParseFailed = zerr.New("failed to parse config file")
)
