package index

import (
	"fmt"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/blevesearch/bleve/v2/search/query"
	"github.com/codescope/mcp-codescope-server/internal/domain"
)

// symbolsBoost weights function-name matches above plain content matches.
const symbolsBoost = 5.0

// newFullTextMapping builds the mapping for CodeDocument.
func newFullTextMapping() mapping.IndexMapping {
	docMapping := bleve.NewDocumentMapping()

	contentField := bleve.NewTextFieldMapping()
	contentField.Analyzer = standard.Name
	contentField.Store = true
	contentField.IncludeTermVectors = true
	docMapping.AddFieldMappingsAt(domain.CodeFieldContent, contentField)

	symbolsField := bleve.NewTextFieldMapping()
	symbolsField.Analyzer = standard.Name
	symbolsField.Store = true
	docMapping.AddFieldMappingsAt(domain.CodeFieldSymbols, symbolsField)

	for _, name := range []string{
		domain.CodeFieldRepository,
		domain.CodeFieldFilePath,
		domain.CodeFieldExtension,
		domain.CodeFieldLanguage,
	} {
		field := bleve.NewTextFieldMapping()
		field.Analyzer = keyword.Name
		field.Store = true
		docMapping.AddFieldMappingsAt(name, field)
	}

	idField := bleve.NewTextFieldMapping()
	idField.Index = false
	idField.Store = true
	docMapping.AddFieldMappingsAt(domain.CodeFieldID, idField)

	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultMapping = docMapping
	indexMapping.DefaultAnalyzer = standard.Name
	return indexMapping
}

// newFullTextIndex creates an in-memory full-text index. Nothing is
// persisted: the index lives and dies with the process.
func newFullTextIndex() (bleve.Index, error) {
	idx, err := bleve.NewMemOnly(newFullTextMapping())
	if err != nil {
		return nil, fmt.Errorf("failed to create full-text index: %w", err)
	}
	return idx, nil
}

// FullTextHit is one ranked full-text match.
type FullTextHit struct {
	Repository string   `json:"repository"`
	FilePath   string   `json:"file_path"`
	Score      float64  `json:"score"`
	Fragments  []string `json:"fragments,omitempty"`
}

// FullTextSearch runs a ranked query across the full-text indexes of the
// given repositories. Content and symbol fields are searched disjunctively
// with symbols boosted; an optional extension filters matches. The read
// lock is held for the duration of the query so a concurrent re-index
// cannot close a member index mid-search.
func (r *Registry) FullTextSearch(keys []domain.RepoKey, queryStr, extension string, limit int) ([]FullTextHit, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	alias, err := r.fullTextAliasLocked(keys)
	if err != nil {
		return nil, err
	}

	contentQuery := bleve.NewMatchQuery(queryStr)
	contentQuery.SetField(domain.CodeFieldContent)

	symbolsQuery := bleve.NewMatchQuery(queryStr)
	symbolsQuery.SetField(domain.CodeFieldSymbols)
	symbolsQuery.SetBoost(symbolsBoost)

	var searchQuery query.Query = bleve.NewDisjunctionQuery(contentQuery, symbolsQuery)
	if extension != "" {
		extQuery := bleve.NewTermQuery(extension)
		extQuery.SetField(domain.CodeFieldExtension)
		searchQuery = bleve.NewConjunctionQuery(searchQuery, extQuery)
	}

	req := bleve.NewSearchRequest(searchQuery)
	req.Size = limit
	req.Fields = []string{domain.CodeFieldRepository, domain.CodeFieldFilePath}
	req.Highlight = bleve.NewHighlight()
	req.Highlight.AddField(domain.CodeFieldContent)

	results, err := alias.Search(req)
	if err != nil {
		return nil, fmt.Errorf("full-text search failed: %w", err)
	}

	hits := make([]FullTextHit, 0, len(results.Hits))
	for _, hit := range results.Hits {
		h := FullTextHit{Score: hit.Score}
		if v, ok := hit.Fields[domain.CodeFieldRepository].(string); ok {
			h.Repository = v
		}
		if v, ok := hit.Fields[domain.CodeFieldFilePath].(string); ok {
			h.FilePath = v
		}
		if fragments, ok := hit.Fragments[domain.CodeFieldContent]; ok {
			h.Fragments = fragments
		}
		hits = append(hits, h)
	}
	return hits, nil
}
