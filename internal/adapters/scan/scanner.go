// Package scan implements the repository scanner that produces size,
// language and ranking reports.
package scan

import (
	"context"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"go.trai.ch/scout/internal/adapters/fs"
	"go.trai.ch/scout/internal/core/domain"
	"go.trai.ch/scout/internal/core/ports"
	"go.trai.ch/zerr"
)

// RepoScanner implements ports.Scanner by walking a repository tree on the
// local filesystem.
type RepoScanner struct {
	walker *fs.Walker
}

var _ ports.Scanner = (*RepoScanner)(nil)

// NewRepoScanner creates a RepoScanner using the given walker.
func NewRepoScanner(walker *fs.Walker) *RepoScanner {
	return &RepoScanner{walker: walker}
}

// Scan walks the repository at path and aggregates file counts, byte totals,
// a per-language breakdown and a size ranking of the largest files. The
// context is checked between files, so cancellation takes effect without
// waiting for the walk to finish.
func (s *RepoScanner) Scan(ctx context.Context, path string, opts domain.ScanOptions) (*domain.ScanReport, error) {
	meta, err := fs.Stat(path)
	if err != nil {
		return nil, zerr.With(err, "path", path)
	}
	if !meta.IsDirectory {
		return nil, zerr.With(zerr.Wrap(domain.ErrInvalidPath, "not a directory"), "path", path)
	}

	top := opts.TopFiles
	if top <= 0 {
		top = domain.DefaultTopFiles
	}

	start := time.Now()
	report := &domain.ScanReport{
		Repository: path,
		Languages:  make(map[string]int),
	}
	var ranked []domain.FileRank

	for filePath, entry := range s.walker.WalkFiles(path, opts.Exclude) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		name := entry.Name()
		if len(opts.Include) > 0 && !matchAny(opts.Include, name) {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			// The file vanished between listing and stat; skip it.
			continue
		}

		size := info.Size()
		if opts.MaxFileSize > 0 && size > opts.MaxFileSize {
			continue
		}

		report.Files++
		report.Bytes += size
		report.Languages[languageKey(name)]++

		rel, err := filepath.Rel(path, filePath)
		if err != nil {
			rel = filePath
		}
		ranked = append(ranked, domain.FileRank{Path: rel, SizeBytes: size})
	}

	report.TopFiles = rankTop(ranked, report.Bytes, top)
	report.Duration = time.Since(start)
	report.ScannedAt = time.Now()
	return report, nil
}

// rankTop sorts files by size descending, ties broken by path, truncates to
// n and scores each entry as its share of the repository's total bytes.
func rankTop(ranked []domain.FileRank, totalBytes int64, n int) []domain.FileRank {
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].SizeBytes != ranked[j].SizeBytes {
			return ranked[i].SizeBytes > ranked[j].SizeBytes
		}
		return ranked[i].Path < ranked[j].Path
	})

	if len(ranked) > n {
		ranked = ranked[:n]
	}
	for i := range ranked {
		if totalBytes > 0 {
			ranked[i].Score = float64(ranked[i].SizeBytes) / float64(totalBytes)
		}
	}
	return ranked
}

// languageKey buckets a file by its extension, lowercased and without the
// dot. Extensionless files share the "none" bucket.
func languageKey(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	if ext == "" || ext == "." {
		return "none"
	}
	return ext[1:]
}

func matchAny(patterns []string, name string) bool {
	for _, pattern := range patterns {
		if matched, _ := filepath.Match(pattern, name); matched {
			return true
		}
	}
	return false
}
