// Package search executes literal text search over a repository index.
package search

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/codescope/mcp-codescope-server/internal/domain"
)

// MaxLimit is the hard cap on results per search, regardless of the
// caller-requested limit.
const MaxLimit = 100

// DefaultLimit applies when the caller does not request a limit.
const DefaultLimit = 50

// Options control a single search.
type Options struct {
	// FilePattern, when set, is a regex applied to file paths as a
	// pre-filter.
	FilePattern string

	// CaseSensitive disables the default case-insensitive matching.
	CaseSensitive bool

	// Limit caps the number of results. Zero means DefaultLimit; values
	// above MaxLimit are clamped.
	Limit int
}

// Run searches the index for the query as a literal substring. Files are
// visited in index-insertion order and lines in order; the search returns
// as soon as the limit is reached. Every match is classified "exact" with
// score 1.0.
func Run(idx *domain.RepoIndex, repository, query string, opts Options) ([]domain.SearchResult, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	// Literal text search: special regex characters are escaped.
	pattern := regexp.QuoteMeta(query)
	if !opts.CaseSensitive {
		pattern = "(?i)" + pattern
	}
	matcher, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("%w: query %q: %v", domain.ErrInvalidPattern, query, err)
	}

	var pathFilter *regexp.Regexp
	if opts.FilePattern != "" {
		pathFilter, err = regexp.Compile(opts.FilePattern)
		if err != nil {
			return nil, fmt.Errorf("%w: file pattern %q: %v", domain.ErrInvalidPattern, opts.FilePattern, err)
		}
	}

	var results []domain.SearchResult
	for _, file := range idx.Files() {
		if pathFilter != nil && !pathFilter.MatchString(file.Path) {
			continue
		}
		for i, line := range strings.Split(file.Content, "\n") {
			if !matcher.MatchString(line) {
				continue
			}
			results = append(results, domain.SearchResult{
				Repository: repository,
				FilePath:   file.Path,
				Line:       i + 1,
				Content:    strings.TrimSpace(line),
				MatchType:  domain.MatchExact,
				Score:      1.0,
			})
			if len(results) >= limit {
				return results, nil
			}
		}
	}
	return results, nil
}
