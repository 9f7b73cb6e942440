package pathcheck

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.trai.ch/scout/internal/core/domain"
)

// codesOf keeps a nil slice for a clean path so it compares equal to a nil
// expectation.
func codesOf(issues []domain.Issue) []domain.IssueCode {
	var codes []domain.IssueCode
	for _, issue := range issues {
		codes = append(codes, issue.Code)
	}
	return codes
}

func TestWindowsIssues(t *testing.T) {
	tests := []struct {
		name      string
		path      string
		wantCodes []domain.IssueCode
	}{
		{
			name:      "plain path is legal",
			path:      `C:\Users\dev\repo`,
			wantCodes: nil,
		},
		{
			name:      "reserved device name",
			path:      `C:\projects\CON\file.txt`,
			wantCodes: []domain.IssueCode{domain.CodeReservedName},
		},
		{
			name:      "reserved name with extension",
			path:      `C:\projects\nul.log`,
			wantCodes: []domain.IssueCode{domain.CodeReservedName},
		},
		{
			name:      "misplaced colon",
			path:      `CC:\projects`,
			wantCodes: []domain.IssueCode{domain.CodeInvalidDriveLetter, domain.CodeInvalidCharacters},
		},
		{
			name:      "illegal characters",
			path:      `C:\pro<ject>s\a|b`,
			wantCodes: []domain.IssueCode{domain.CodeInvalidCharacters},
		},
		{
			name:      "unc path missing share",
			path:      `\\server`,
			wantCodes: []domain.IssueCode{domain.CodeInvalidUNCPath},
		},
		{
			name:      "valid unc path",
			path:      `\\server\share\repo`,
			wantCodes: nil,
		},
		{
			name:      "component ends with dot",
			path:      `C:\projects\repo.\src`,
			wantCodes: []domain.IssueCode{domain.CodeInvalidComponentEnding},
		},
		{
			name:      "component ends with space",
			path:      `C:\projects\repo \src`,
			wantCodes: []domain.IssueCode{domain.CodeInvalidComponentEnding},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs, warns := windowsIssues(tt.path)
			assert.Empty(t, warns)
			assert.Equal(t, tt.wantCodes, codesOf(errs))
		})
	}
}

func TestWindowsIssues_PathTooLong(t *testing.T) {
	long := `C:\` + strings.Repeat(`a\`, 140)

	errs, _ := windowsIssues(long)
	require.NotEmpty(t, errs)
	assert.Equal(t, domain.CodePathTooLong, errs[0].Code)
	assert.Contains(t, errs[0].Message, "260")
}

func TestWindowsIssues_ReservedNameMessageNamesDevice(t *testing.T) {
	errs, _ := windowsIssues(`C:\projects\con.txt`)

	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Message, "CON")
}

func TestWindowsIssues_Deterministic(t *testing.T) {
	first, _ := windowsIssues(`C:\projects\CON\file?.txt`)
	second, _ := windowsIssues(`C:\projects\CON\file?.txt`)

	assert.Equal(t, first, second)
}

func TestPosixIssues(t *testing.T) {
	t.Run("ordinary path", func(t *testing.T) {
		errs, warns := posixIssues("/home/user/repo")
		assert.Empty(t, errs)
		assert.Empty(t, warns)
	})

	t.Run("hidden components are legal", func(t *testing.T) {
		errs, warns := posixIssues("/home/user/.config/repo")
		assert.Empty(t, errs)
		assert.Empty(t, warns)
	})

	t.Run("windows reserved names are legal", func(t *testing.T) {
		errs, warns := posixIssues("/tmp/CON/nul.txt")
		assert.Empty(t, errs)
		assert.Empty(t, warns)
	})

	t.Run("very long path warns without failing", func(t *testing.T) {
		errs, warns := posixIssues("/" + strings.Repeat("a", posixLongPathThreshold))
		assert.Empty(t, errs)
		require.Len(t, warns, 1)
		assert.Equal(t, domain.CodeVeryLongPath, warns[0].Code)
	})
}
