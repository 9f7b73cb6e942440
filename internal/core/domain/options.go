package domain

import (
	"slices"
	"strconv"

	"github.com/cespare/xxhash/v2"
)

// ScanOptions controls what a repository scan looks at and how much of the
// ranking it reports. The zero value means "scan everything, report the top
// ten files".
type ScanOptions struct {
	// Include restricts the scan to files whose base name matches one of
	// these glob patterns. Empty means no restriction.
	Include []string
	// Exclude skips files whose base name matches one of these glob patterns.
	Exclude []string
	// MaxFileSize skips files larger than this many bytes. Zero means no limit.
	MaxFileSize int64
	// TopFiles is the number of ranked files to report. Zero means the default.
	TopFiles int
}

// DefaultTopFiles is the ranking size used when TopFiles is zero.
const DefaultTopFiles = 10

// appendCanonical writes a canonical serialization of the options to the
// digest. Field order is fixed and pattern lists are sorted, so two options
// values that are semantically equal always produce the same bytes.
func (o ScanOptions) appendCanonical(d *xxhash.Digest) {
	writeSorted := func(patterns []string) {
		sorted := slices.Clone(patterns)
		slices.Sort(sorted)
		for _, p := range sorted {
			_, _ = d.WriteString(p)
			_, _ = d.Write([]byte{0})
		}
		_, _ = d.Write([]byte{0})
	}

	writeSorted(o.Include)
	writeSorted(o.Exclude)
	_, _ = d.WriteString(strconv.FormatInt(o.MaxFileSize, 10))
	_, _ = d.Write([]byte{0})
	_, _ = d.WriteString(strconv.Itoa(o.TopFiles))
	_, _ = d.Write([]byte{0})
}
