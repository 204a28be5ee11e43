// Package service orchestrates repository indexing and query operations on
// top of the registry. It owns the background indexing passes and the
// per-repository in-flight guard.
package service

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"sync"

	"github.com/hbollon/go-edlib"
	"golang.org/x/sync/singleflight"

	"github.com/codescope/mcp-codescope-server/internal/config"
	"github.com/codescope/mcp-codescope-server/internal/domain"
	"github.com/codescope/mcp-codescope-server/internal/gitrepos"
	"github.com/codescope/mcp-codescope-server/internal/index"
	"github.com/codescope/mcp-codescope-server/internal/query"
	"github.com/codescope/mcp-codescope-server/internal/search"
)

const (
	// maxSuggestions bounds the number of near-miss function names returned
	// when an exact lookup finds nothing.
	maxSuggestions = 5

	// suggestionMinSimilarity is the Levenshtein similarity floor for a name
	// to qualify as a suggestion.
	suggestionMinSimilarity = 0.5
)

// RepoFetcher materializes a repository working tree and returns its local path.
type RepoFetcher interface {
	Ensure(ctx context.Context, key domain.RepoKey) (string, error)
}

// Service coordinates fetching, indexing and querying of repositories.
type Service struct {
	settings config.IndexSettings
	fetcher  RepoFetcher
	registry *index.Registry
	logger   *slog.Logger

	// passes collapses concurrent indexing requests for the same key into
	// one running pass.
	passes singleflight.Group
	wg     sync.WaitGroup
}

// New creates a Service backed by the given fetcher.
func New(settings config.IndexSettings, fetcher RepoFetcher, logger *slog.Logger) *Service {
	return &Service{
		settings: settings,
		fetcher:  fetcher,
		registry: index.NewRegistry(),
		logger:   logger,
	}
}

// NewWithGit creates a Service that fetches repositories with the git CLI.
func NewWithGit(settings config.IndexSettings, logger *slog.Logger) *Service {
	return New(settings, gitrepos.NewFetcher(settings.BaseDir, logger), logger)
}

// Registry exposes the underlying registry, mainly for tests.
func (s *Service) Registry() *index.Registry {
	return s.registry
}

// IndexRepository registers the repository and starts an indexing pass in
// the background, returning the record snapshot immediately. A repository
// that is already ready is left untouched unless forceReload is set. When a
// pass for the same key is already running, the request attaches to it
// instead of starting another.
func (s *Service) IndexRepository(key domain.RepoKey, forceReload bool) (domain.Repository, bool) {
	rec := s.registry.Register(key, "")

	if rec.Status == domain.StatusReady && !forceReload {
		return rec, false
	}
	if rec.Status == domain.StatusIndexing {
		return rec, false
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		_, _, _ = s.passes.Do(key.Display(), func() (any, error) {
			s.runPass(key)
			return nil, nil
		})
	}()

	rec, _ = s.Status(key)
	return rec, true
}

// runPass fetches the working tree and executes one indexing pass.
// Passes run detached from the request that triggered them, bounded only by
// the configured timeout.
func (s *Service) runPass(key domain.RepoKey) {
	ctx, cancel := context.WithTimeout(context.Background(), s.settings.IndexTimeout)
	defer cancel()

	localPath, err := s.fetcher.Ensure(ctx, key)
	if err != nil {
		s.logger.Error("Failed to fetch repository", "repository", key.Display(), "error", err)
		s.registry.Fail(key, err)
		return
	}

	src := gitrepos.NewWorkTree(localPath, s.settings.MaxFileSize)
	if err := s.registry.RunPass(ctx, key, src); err != nil {
		s.logger.Error("Indexing pass failed", "repository", key.Display(), "error", err)
	}
}

// Wait blocks until all background passes have finished. Used in shutdown
// and tests.
func (s *Service) Wait() {
	s.wg.Wait()
}

// Status returns the lifecycle record for a registered repository.
func (s *Service) Status(key domain.RepoKey) (domain.Repository, error) {
	return s.registry.Get(key)
}

// Repositories lists all registered repositories sorted by display key.
func (s *Service) Repositories() []domain.Repository {
	return s.registry.List()
}

// resolveKeys parses display keys, defaulting to all ready repositories
// when none are given.
func (s *Service) resolveKeys(repositories []string) ([]domain.RepoKey, error) {
	if len(repositories) == 0 {
		return s.registry.ReadyKeys(), nil
	}

	keys := make([]domain.RepoKey, 0, len(repositories))
	for _, display := range repositories {
		key, err := domain.ParseDisplayKey(display)
		if err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}
	return keys, nil
}

// Search runs a literal search across the given repositories. Results keep
// per-repository file insertion order, and the scan stops as soon as the
// effective limit is reached.
func (s *Service) Search(repositories []string, queryStr string, opts search.Options) ([]domain.SearchResult, error) {
	keys, err := s.resolveKeys(repositories)
	if err != nil {
		return nil, err
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = search.DefaultLimit
	}
	if limit > search.MaxLimit {
		limit = search.MaxLimit
	}

	var results []domain.SearchResult
	for _, key := range keys {
		idx, err := s.registry.Index(key)
		if err != nil {
			return nil, err
		}

		perRepo := opts
		perRepo.Limit = limit - len(results)
		repoResults, err := search.Run(idx, key.Display(), queryStr, perRepo)
		if err != nil {
			return nil, err
		}
		results = append(results, repoResults...)
		if len(results) >= limit {
			break
		}
	}
	return results, nil
}

// Query routes a natural-language question as a keyword search over the
// given repositories and groups the hits by file. Requested repositories
// that are registered but not ready are skipped rather than failing the
// whole query; unknown repositories still error.
func (s *Service) Query(text string, repositories []string) ([]query.FileGroup, []string, error) {
	keys, err := s.resolveKeys(repositories)
	if err != nil {
		return nil, nil, err
	}

	targets := make([]query.Target, 0, len(keys))
	for _, key := range keys {
		idx, err := s.registry.Index(key)
		if errors.Is(err, domain.ErrRepositoryNotIndexed) {
			continue
		}
		if err != nil {
			return nil, nil, err
		}
		targets = append(targets, query.Target{Repository: key.Display(), Index: idx})
	}

	return query.Run(text, targets)
}

// LookupFunction returns all indexed functions with the exact name,
// optionally disambiguated by file path. When none match, it returns up to
// maxSuggestions near-miss names instead.
func (s *Service) LookupFunction(repository, name, filePath string) ([]*domain.FunctionRecord, []string, error) {
	key, err := domain.ParseDisplayKey(repository)
	if err != nil {
		return nil, nil, err
	}
	idx, err := s.registry.Index(key)
	if err != nil {
		return nil, nil, err
	}

	if filePath != "" {
		if fn, ok := idx.Function(filePath, name); ok {
			return []*domain.FunctionRecord{fn}, nil, nil
		}
		return nil, suggestNames(name, idx.FunctionNames()), nil
	}

	if records := idx.FunctionsByName(name); len(records) > 0 {
		return records, nil, nil
	}

	return nil, suggestNames(name, idx.FunctionNames()), nil
}

// suggestNames ranks candidates by Levenshtein similarity to the input.
func suggestNames(name string, candidates []string) []string {
	type scored struct {
		name  string
		score float32
	}

	var matches []scored
	for _, candidate := range candidates {
		score, err := edlib.StringsSimilarity(name, candidate, edlib.Levenshtein)
		if err != nil || score < suggestionMinSimilarity {
			continue
		}
		matches = append(matches, scored{name: candidate, score: score})
	}

	sort.SliceStable(matches, func(i, j int) bool { return matches[i].score > matches[j].score })
	if len(matches) > maxSuggestions {
		matches = matches[:maxSuggestions]
	}

	names := make([]string, len(matches))
	for i, m := range matches {
		names[i] = m.name
	}
	return names
}

// FileTree returns the sorted file paths of an indexed repository.
func (s *Service) FileTree(repository string) ([]string, error) {
	key, err := domain.ParseDisplayKey(repository)
	if err != nil {
		return nil, err
	}
	idx, err := s.registry.Index(key)
	if err != nil {
		return nil, err
	}
	return idx.Paths(), nil
}

// ReadFile returns the indexed content of one file.
func (s *Service) ReadFile(repository, path string) (string, error) {
	key, err := domain.ParseDisplayKey(repository)
	if err != nil {
		return "", err
	}
	idx, err := s.registry.Index(key)
	if err != nil {
		return "", err
	}

	file, ok := idx.File(path)
	if !ok {
		return "", domain.ErrFileNotFound
	}
	return file.Content, nil
}

// FullTextSearch runs a ranked full-text query across the given repositories.
func (s *Service) FullTextSearch(repositories []string, queryStr, extension string, limit int) ([]index.FullTextHit, error) {
	keys, err := s.resolveKeys(repositories)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = s.settings.MaxResults
	}
	return s.registry.FullTextSearch(keys, queryStr, extension, limit)
}

// Close releases registry resources after waiting for running passes.
func (s *Service) Close() error {
	s.wg.Wait()
	return s.registry.Close()
}
