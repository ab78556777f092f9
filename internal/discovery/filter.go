package discovery

import (
	"fmt"
	"path"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"tsa/internal/domain"
)

// Filter filters staged files by identity pattern
type Filter struct{}

// NewFilter creates a new Filter
func NewFilter() *Filter {
	return &Filter{}
}

// FilterByPattern keeps the files whose identity matches pattern.
// Supports doublestar globs like "src/test/ui/**/*.rs" or "*issue-*", which
// are tried against the full identity and against the file name.
// A pattern without glob characters is a plain substring match.
func (f *Filter) FilterByPattern(files []domain.TestFile, pattern string) ([]domain.TestFile, error) {
	if pattern == "" {
		return files, nil
	}

	if !strings.ContainsAny(pattern, "*?[{") {
		var filtered []domain.TestFile
		for _, file := range files {
			if strings.Contains(file.Identity, pattern) {
				filtered = append(filtered, file)
			}
		}
		return filtered, nil
	}

	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid filter pattern %q: %w", pattern, doublestar.ErrBadPattern)
	}

	var filtered []domain.TestFile
	for _, file := range files {
		if doublestar.MatchUnvalidated(pattern, file.Identity) ||
			doublestar.MatchUnvalidated(pattern, path.Base(file.Identity)) {
			filtered = append(filtered, file)
		}
	}

	return filtered, nil
}
