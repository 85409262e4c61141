package parser

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// ListFiles returns the regular files in dir whose names match pattern,
// sorted lexicographically. A missing directory yields no files.
func ListFiles(dir, pattern string) ([]string, error) {
	if _, err := filepath.Match(pattern, ""); err != nil {
		return nil, fmt.Errorf("invalid glob pattern %q: %w", pattern, err)
	}

	matches, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		return nil, fmt.Errorf("invalid glob pattern %q: %w", pattern, err)
	}

	result := make([]string, 0, len(matches))
	for _, match := range matches {
		info, err := os.Stat(match)
		if err != nil {
			return nil, fmt.Errorf("inspecting %s: %w", match, err)
		}
		if info.IsDir() {
			continue
		}
		result = append(result, match)
	}

	// Sort for deterministic ordering
	sort.Strings(result)

	return result, nil
}
