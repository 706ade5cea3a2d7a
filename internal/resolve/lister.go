package resolve

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// Lister enumerates files matching a glob pattern below a base directory.
// Implementations return paths relative to the base directory, using
// forward slashes, with directories excluded.
type Lister interface {
	List(pattern, baseDir string) ([]string, error)
}

// GlobLister is the default Lister, backed by filepath.Glob. Its output is
// sorted, so resolution is deterministic for a fixed candidate set.
type GlobLister struct{}

// List implements Lister.
func (GlobLister) List(pattern, baseDir string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(baseDir, pattern))
	if err != nil {
		return nil, fmt.Errorf("invalid glob pattern %q: %w", pattern, err)
	}

	files := make([]string, 0, len(matches))
	for _, match := range matches {
		info, err := os.Stat(match)
		if err != nil || info.IsDir() {
			continue
		}
		rel, err := filepath.Rel(baseDir, match)
		if err != nil {
			continue
		}
		files = append(files, filepath.ToSlash(rel))
	}
	sort.Strings(files)

	return files, nil
}
