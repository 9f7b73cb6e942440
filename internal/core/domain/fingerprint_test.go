package domain_test

import (
	"strings"
	"testing"

	"go.trai.ch/scout/internal/core/domain"
)

func TestCanonicalizePath(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"forward slashes untouched", "/home/user/repo", "/home/user/repo"},
		{"backslashes converted", `C:\Users\dev\repo`, "c:/Users/dev/repo"},
		{"drive letter lowercased", "D:/Projects", "d:/Projects"},
		{"trailing separator dropped", "/home/user/repo/", "/home/user/repo"},
		{"duplicate separators collapsed", "/home//user///repo", "/home/user/repo"},
		{"dot segments resolved", "/home/user/./repo/../repo", "/home/user/repo"},
		{"unc prefix preserved", `\\server\share\repo`, "//server/share/repo"},
		{"bare root", "/", "/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := domain.CanonicalizePath(tt.in); got != tt.want {
				t.Errorf("CanonicalizePath(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestFingerprint_EquivalentPathsCollide(t *testing.T) {
	opts := domain.ScanOptions{}

	base := domain.Fingerprint("/home/user/repo", opts)
	variants := []string{
		"/home/user/repo/",
		"/home/user//repo",
		`\home\user\repo`,
		"/home/user/./repo",
	}

	for _, v := range variants {
		if got := domain.Fingerprint(v, opts); got != base {
			t.Errorf("Fingerprint(%q) = %q, want %q", v, got, base)
		}
	}
}

func TestFingerprint_DriveLetterCaseInsensitive(t *testing.T) {
	opts := domain.ScanOptions{}

	upper := domain.Fingerprint(`C:\repo`, opts)
	lower := domain.Fingerprint(`c:\repo`, opts)
	if upper != lower {
		t.Errorf("drive letter case changed the fingerprint: %q vs %q", upper, lower)
	}
}

func TestFingerprint_OptionsChangeKey(t *testing.T) {
	path := "/home/user/repo"

	base := domain.Fingerprint(path, domain.ScanOptions{})
	tests := []struct {
		name string
		opts domain.ScanOptions
	}{
		{"include patterns", domain.ScanOptions{Include: []string{"*.go"}}},
		{"exclude patterns", domain.ScanOptions{Exclude: []string{"*.md"}}},
		{"max file size", domain.ScanOptions{MaxFileSize: 1024}},
		{"top files", domain.ScanOptions{TopFiles: 5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := domain.Fingerprint(path, tt.opts); got == base {
				t.Errorf("expected distinct fingerprint for %+v", tt.opts)
			}
		})
	}
}

func TestFingerprint_PatternOrderIrrelevant(t *testing.T) {
	path := "/home/user/repo"

	a := domain.Fingerprint(path, domain.ScanOptions{Exclude: []string{"*.md", "*.txt"}})
	b := domain.Fingerprint(path, domain.ScanOptions{Exclude: []string{"*.txt", "*.md"}})
	if a != b {
		t.Errorf("pattern order changed the fingerprint: %q vs %q", a, b)
	}
}

func TestFingerprint_KeyEmbedsCanonicalPath(t *testing.T) {
	key := domain.Fingerprint(`C:\Users\dev\repo\`, domain.ScanOptions{})

	if !strings.HasPrefix(key, "c:/Users/dev/repo@") {
		t.Errorf("key %q does not start with the canonical path", key)
	}
}
