package fs

import (
	iofs "io/fs"
	"iter"
	"path/filepath"
)

// Walker yields the regular files of a repository tree.
type Walker struct{}

// NewWalker creates a new Walker.
func NewWalker() *Walker {
	return &Walker{}
}

// WalkFiles yields every file under root together with its directory entry,
// skipping version control metadata and entries matching the ignore
// patterns. Patterns match against base names, filepath.Match style.
func (w *Walker) WalkFiles(root string, ignores []string) iter.Seq2[string, iofs.DirEntry] {
	return func(yield func(string, iofs.DirEntry) bool) {
		_ = filepath.WalkDir(root, func(path string, d iofs.DirEntry, err error) error {
			if err != nil {
				// Unreadable subtrees are skipped rather than aborting the
				// whole walk; the scan reports what it could reach.
				if d != nil && d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}

			name := d.Name()
			if d.IsDir() {
				if name == ".git" || name == ".jj" || name == ".hg" || matchAny(ignores, name) {
					return filepath.SkipDir
				}
				return nil
			}

			if matchAny(ignores, name) {
				return nil
			}
			if !yield(path, d) {
				return filepath.SkipAll
			}
			return nil
		})
	}
}

func matchAny(patterns []string, name string) bool {
	for _, pattern := range patterns {
		if matched, _ := filepath.Match(pattern, name); matched {
			return true
		}
	}
	return false
}
