package domain

import (
	"fmt"
	"path"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// CanonicalizePath reduces a repository path to a form that is stable across
// separator style, drive letter case and trailing separators:
//   - backslashes become forward slashes
//   - "." and ".." segments and duplicate separators are collapsed
//   - a leading drive letter is lowercased
//   - trailing separators are dropped (except for a bare root)
func CanonicalizePath(raw string) string {
	s := strings.ReplaceAll(raw, "\\", "/")

	// path.Clean collapses a leading "//" (UNC marker) into "/"; keep it.
	unc := strings.HasPrefix(s, "//")
	s = path.Clean(s)
	if unc && !strings.HasPrefix(s, "//") {
		s = "/" + s
	}

	if len(s) >= 2 && s[1] == ':' && isDriveLetter(s[0]) {
		s = strings.ToLower(s[:1]) + s[1:]
	}

	return s
}

func isDriveLetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

// Fingerprint derives the cache and coalescing key for a (path, options)
// request. The key embeds the canonical path followed by an xxhash of the
// canonical path and the canonical option serialization, so key strings stay
// meaningful for prefix and wildcard invalidation while equal requests always
// collide and different options never do (modulo hash collisions).
func Fingerprint(rawPath string, opts ScanOptions) string {
	canonical := CanonicalizePath(rawPath)

	d := xxhash.New()
	_, _ = d.WriteString(canonical)
	_, _ = d.Write([]byte{0})
	opts.appendCanonical(d)

	return fmt.Sprintf("%s@%016x", canonical, d.Sum64())
}
