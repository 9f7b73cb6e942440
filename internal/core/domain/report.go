package domain

import "time"

// FileRank is one entry of a scan report's importance ranking.
type FileRank struct {
	Path      string  `json:"path"`
	SizeBytes int64   `json:"sizeBytes"`
	Score     float64 `json:"score"`
}

// ScanReport is the result of scanning a single repository. Reports are
// immutable once produced; the result cache stores them by reference and
// replaces entries wholesale.
type ScanReport struct {
	Repository string         `json:"repository"`
	Files      int            `json:"files"`
	Bytes      int64          `json:"bytes"`
	Languages  map[string]int `json:"languages"`
	TopFiles   []FileRank     `json:"topFiles"`
	Duration   time.Duration  `json:"duration"`
	ScannedAt  time.Time      `json:"scannedAt"`
}

// SizeHint estimates the in-memory footprint of the report for cache
// accounting. It is an estimate, not an exact measurement.
func (r *ScanReport) SizeHint() int64 {
	hint := int64(len(r.Repository)) + 64
	for lang := range r.Languages {
		hint += int64(len(lang)) + 16
	}
	for _, f := range r.TopFiles {
		hint += int64(len(f.Path)) + 24
	}
	return hint
}

// RepoResult is the per-repository outcome of a batch scan. Exactly one of
// Report and Err is set.
type RepoResult struct {
	Path   string
	Report *ScanReport
	Err    error
}
