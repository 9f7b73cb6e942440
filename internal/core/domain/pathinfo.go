package domain

import "runtime"

// Platform selects which family of path rules a validation applies.
type Platform string

const (
	// PlatformWindows applies drive letter, UNC, reserved name and
	// character rules.
	PlatformWindows Platform = "windows"
	// PlatformPosix applies the permissive POSIX rules.
	PlatformPosix Platform = "posix"
)

// NativePlatform returns the platform family of the running process.
func NativePlatform() Platform {
	if runtime.GOOS == "windows" {
		return PlatformWindows
	}
	return PlatformPosix
}

// IssueCode identifies a validation error or warning.
type IssueCode string

const (
	CodeInvalidInput           IssueCode = "INVALID_INPUT"
	CodeInvalidDriveLetter     IssueCode = "INVALID_DRIVE_LETTER"
	CodeInvalidUNCPath         IssueCode = "INVALID_UNC_PATH"
	CodeReservedName           IssueCode = "RESERVED_NAME"
	CodeInvalidCharacters      IssueCode = "INVALID_CHARACTERS"
	CodePathTooLong            IssueCode = "PATH_TOO_LONG"
	CodeInvalidComponentEnding IssueCode = "INVALID_COMPONENT_ENDING"
	CodeVeryLongPath           IssueCode = "VERY_LONG_PATH"
	CodeNotFound               IssueCode = "NOT_FOUND"
	CodePermissionDenied       IssueCode = "PERMISSION_DENIED"
	CodeUnknown                IssueCode = "UNKNOWN"
	CodeOperationCancelled     IssueCode = "OPERATION_CANCELLED"
	CodeOperationTimedOut      IssueCode = "OPERATION_TIMED_OUT"
)

// Issue is a single validation finding.
type Issue struct {
	Code    IssueCode `json:"code"`
	Message string    `json:"message"`
	Details string    `json:"details,omitempty"`
}

// PathMetadata describes what the filesystem reported for a path.
type PathMetadata struct {
	Exists      bool  `json:"exists"`
	IsDirectory bool  `json:"isDirectory"`
	SizeBytes   int64 `json:"sizeBytes"`
}

// PathValidation is the complete, inspectable outcome of validating a path.
// It is produced fresh per call (or served from the validator cache) and
// never mutated after return. Failures of any kind, including cancellation
// and timeout, appear as entries in Errors; Validate never panics or returns
// an error value.
type PathValidation struct {
	NormalizedPath string       `json:"normalizedPath"`
	Errors         []Issue      `json:"errors"`
	Warnings       []Issue      `json:"warnings"`
	Metadata       PathMetadata `json:"metadata"`
}

// Valid reports whether the path passed validation. Warnings do not affect
// validity.
func (v *PathValidation) Valid() bool {
	return len(v.Errors) == 0
}

// HasCode reports whether Errors contains an issue with the given code.
func (v *PathValidation) HasCode(code IssueCode) bool {
	for _, issue := range v.Errors {
		if issue.Code == code {
			return true
		}
	}
	return false
}

// ErrorCodes returns the codes of all error entries, in order.
func (v *PathValidation) ErrorCodes() []IssueCode {
	codes := make([]IssueCode, len(v.Errors))
	for i, issue := range v.Errors {
		codes[i] = issue.Code
	}
	return codes
}
