// Package query turns free-text questions into keyword fan-out searches.
// It is recall-oriented: no relevance ranking beyond accumulation order.
package query

import (
	"strings"

	"github.com/codescope/mcp-codescope-server/internal/domain"
	"github.com/codescope/mcp-codescope-server/internal/search"
)

// MaxKeywords caps the keyword list extracted from a question.
const MaxKeywords = 10

// stopWords are articles, conjunctions, pronouns, and common
// interrogatives that carry no search signal.
var stopWords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "and": {}, "or": {}, "but": {}, "not": {},
	"is": {}, "are": {}, "was": {}, "were": {}, "be": {}, "been": {},
	"being": {}, "do": {}, "does": {}, "did": {}, "done": {},
	"can": {}, "could": {}, "should": {}, "would": {}, "will": {},
	"shall": {}, "may": {}, "might": {}, "must": {},
	"how": {}, "what": {}, "where": {}, "when": {}, "why": {}, "who": {},
	"whom": {}, "which": {},
	"in": {}, "on": {}, "at": {}, "to": {}, "of": {}, "for": {},
	"with": {}, "from": {}, "into": {}, "over": {}, "under": {},
	"about": {}, "than": {}, "then": {}, "there": {}, "here": {},
	"this": {}, "that": {}, "these": {}, "those": {}, "it": {}, "its": {},
	"they": {}, "them": {}, "their": {}, "you": {}, "your": {}, "our": {},
	"his": {}, "her": {}, "she": {}, "him": {}, "any": {}, "all": {},
	"use": {}, "used": {}, "using": {},
}

// Keywords reduces a natural-language query to a stop-word-filtered token
// set: lowercased, punctuation stripped, tokens of length <= 2 dropped,
// capped at MaxKeywords. Order of first occurrence is preserved and
// duplicates are collapsed.
func Keywords(text string) []string {
	lowered := strings.ToLower(text)
	normalized := strings.Map(func(r rune) rune {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r == '_' {
			return r
		}
		return ' '
	}, lowered)

	var keywords []string
	seen := make(map[string]struct{})
	for _, token := range strings.Fields(normalized) {
		if len(token) <= 2 {
			continue
		}
		if _, stop := stopWords[token]; stop {
			continue
		}
		if _, dup := seen[token]; dup {
			continue
		}
		seen[token] = struct{}{}
		keywords = append(keywords, token)
		if len(keywords) >= MaxKeywords {
			break
		}
	}
	return keywords
}

// Target couples a repository display key with its index.
type Target struct {
	Repository string
	Index      *domain.RepoIndex
}

// FileGroup holds the deduplicated matches for one file.
type FileGroup struct {
	Repository string                `json:"repository"`
	FilePath   string                `json:"file_path"`
	Results    []domain.SearchResult `json:"results"`
}

// Run fans the extracted keywords out as one search per keyword per target
// and returns the results grouped by file in accumulation order. Matches are
// deduplicated by (repository, file, line); the first occurrence wins.
func Run(text string, targets []Target) ([]FileGroup, []string, error) {
	keywords := Keywords(text)
	if len(keywords) == 0 {
		return nil, nil, nil
	}

	type lineKey struct {
		repository string
		path       string
		line       int
	}
	seen := make(map[lineKey]struct{})
	groupIdx := make(map[string]int)
	var groups []FileGroup

	for _, target := range targets {
		for _, keyword := range keywords {
			results, err := search.Run(target.Index, target.Repository, keyword, search.Options{})
			if err != nil {
				return nil, keywords, err
			}
			for _, r := range results {
				k := lineKey{r.Repository, r.FilePath, r.Line}
				if _, dup := seen[k]; dup {
					continue
				}
				seen[k] = struct{}{}

				gk := r.Repository + "\x00" + r.FilePath
				i, ok := groupIdx[gk]
				if !ok {
					i = len(groups)
					groupIdx[gk] = i
					groups = append(groups, FileGroup{Repository: r.Repository, FilePath: r.FilePath})
				}
				groups[i].Results = append(groups[i].Results, r)
			}
		}
	}
	return groups, keywords, nil
}
