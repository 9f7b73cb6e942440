package pathcheck

import (
	"fmt"
	"regexp"
	"strings"

	"go.trai.ch/scout/internal/core/domain"
)

const (
	// windowsMaxPath is the classic MAX_PATH limit enforced as a hard error.
	windowsMaxPath = 260
	// posixLongPathThreshold is the length past which POSIX paths only draw
	// a warning, never an error.
	posixLongPathThreshold = 4096
)

var (
	driveLetterRe = regexp.MustCompile(`^[A-Za-z]:`)

	// Device names Windows reserves regardless of extension or case.
	reservedNames = map[string]bool{
		"CON": true, "PRN": true, "AUX": true, "NUL": true,
		"COM1": true, "COM2": true, "COM3": true, "COM4": true, "COM5": true,
		"COM6": true, "COM7": true, "COM8": true, "COM9": true,
		"LPT1": true, "LPT2": true, "LPT3": true, "LPT4": true, "LPT5": true,
		"LPT6": true, "LPT7": true, "LPT8": true, "LPT9": true,
	}
)

// windowsIssues applies the Windows path legality rules to an already
// separator-normalized (backslash) path. Pure; no filesystem access.
func windowsIssues(path string) (errs, warns []domain.Issue) {
	if len(path) > windowsMaxPath {
		errs = append(errs, domain.Issue{
			Code:    domain.CodePathTooLong,
			Message: fmt.Sprintf("path length %d exceeds the %d character limit", len(path), windowsMaxPath),
		})
	}

	isUNC := strings.HasPrefix(path, `\\`)
	rest := path

	switch {
	case isUNC:
		if issue, ok := checkUNC(path); !ok {
			errs = append(errs, issue)
		}
		rest = strings.TrimPrefix(path, `\\`)
	case strings.Contains(path, ":"):
		// A colon is only legal as part of a leading drive letter.
		if !driveLetterRe.MatchString(path) {
			errs = append(errs, domain.Issue{
				Code:    domain.CodeInvalidDriveLetter,
				Message: "drive specifier must be a single letter followed by a colon",
				Details: path,
			})
		}
		rest = path[min(2, len(path)):]
	}

	if illegal := illegalChars(rest); len(illegal) > 0 {
		errs = append(errs, domain.Issue{
			Code:    domain.CodeInvalidCharacters,
			Message: "path contains characters not allowed on windows",
			Details: strings.Join(illegal, " "),
		})
	}

	errs = append(errs, componentIssues(rest)...)
	return errs, warns
}

// posixIssues applies the permissive POSIX rules: anything goes, but
// pathologically long paths draw a warning. Hidden (dot-prefixed)
// components are never an error.
func posixIssues(path string) (errs, warns []domain.Issue) {
	if len(path) > posixLongPathThreshold {
		warns = append(warns, domain.Issue{
			Code:    domain.CodeVeryLongPath,
			Message: fmt.Sprintf("path length %d exceeds %d characters and may not be portable", len(path), posixLongPathThreshold),
		})
	}
	return nil, warns
}

// checkUNC validates the \\server\share\... shape.
func checkUNC(path string) (domain.Issue, bool) {
	parts := strings.Split(strings.TrimPrefix(path, `\\`), `\`)
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return domain.Issue{
			Code:    domain.CodeInvalidUNCPath,
			Message: "UNC path must name a server and a share",
			Details: path,
		}, false
	}
	return domain.Issue{}, true
}

// illegalChars returns the distinct forbidden characters present in the
// path remainder (the drive specifier's colon has already been stripped).
func illegalChars(rest string) []string {
	var found []string
	seen := map[rune]bool{}
	for _, r := range rest {
		switch r {
		case '<', '>', ':', '"', '|', '?', '*':
			if !seen[r] {
				seen[r] = true
				found = append(found, string(r))
			}
		}
	}
	return found
}

// componentIssues checks each path component for reserved device names and
// forbidden trailing characters.
func componentIssues(rest string) []domain.Issue {
	var issues []domain.Issue
	for _, component := range strings.Split(rest, `\`) {
		if component == "" || component == "." || component == ".." {
			continue
		}

		stem := component
		if dot := strings.IndexByte(component, '.'); dot > 0 {
			stem = component[:dot]
		}
		if reservedNames[strings.ToUpper(stem)] {
			issues = append(issues, domain.Issue{
				Code:    domain.CodeReservedName,
				Message: fmt.Sprintf("%q is a reserved device name on windows", strings.ToUpper(stem)),
				Details: component,
			})
		}

		if strings.HasSuffix(component, " ") || strings.HasSuffix(component, ".") {
			issues = append(issues, domain.Issue{
				Code:    domain.CodeInvalidComponentEnding,
				Message: "path components must not end with a space or dot",
				Details: component,
			})
		}
	}
	return issues
}
