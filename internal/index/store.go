// Package index owns repository lifecycle records and their derived
// indexes. The Registry is an explicitly injected store: no process-wide
// singletons, so tests and embedders can run isolated instances.
package index

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/blevesearch/bleve/v2"
	"github.com/codescope/mcp-codescope-server/internal/domain"
)

// Registry tracks one Repository record per key plus the RepoIndex and
// full-text index derived from it. Records are keyed by the RepoKey value
// itself so distinct (remote, owner, name, branch) tuples never alias.
// It is a single-writer-per-key, multi-reader structure: one indexing pass
// mutates a record at a time while status reads and searches observe
// consistent snapshots.
type Registry struct {
	mu       sync.RWMutex
	repos    map[domain.RepoKey]*domain.Repository
	indexes  map[domain.RepoKey]*domain.RepoIndex
	fulltext map[domain.RepoKey]bleve.Index
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		repos:    make(map[domain.RepoKey]*domain.Repository),
		indexes:  make(map[domain.RepoKey]*domain.RepoIndex),
		fulltext: make(map[domain.RepoKey]bleve.Index),
	}
}

// Register creates a pending record for the key if none exists and returns
// a snapshot. Re-registering an existing key is a no-op.
func (r *Registry) Register(key domain.RepoKey, localPath string) domain.Repository {
	r.mu.Lock()
	defer r.mu.Unlock()

	if rec, ok := r.repos[key]; ok {
		return rec.Snapshot()
	}
	rec := &domain.Repository{
		Key:       key,
		LocalPath: localPath,
		Status:    domain.StatusPending,
	}
	r.repos[key] = rec
	return rec.Snapshot()
}

// Get returns a snapshot of the record for the key.
// Returns ErrRepositoryNotFound for keys never registered.
func (r *Registry) Get(key domain.RepoKey) (domain.Repository, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.repos[key]
	if !ok {
		return domain.Repository{}, fmt.Errorf("%w: %s", domain.ErrRepositoryNotFound, key.Display())
	}
	return rec.Snapshot(), nil
}

// List returns snapshots of all records sorted by display key.
func (r *Registry) List() []domain.Repository {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Repository, 0, len(r.repos))
	for _, rec := range r.repos {
		out = append(out, rec.Snapshot())
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Key.Display() < out[j].Key.Display()
	})
	return out
}

// Index returns the RepoIndex for a key. It exists only once the owning
// repository has reached ready at least once; otherwise
// ErrRepositoryNotIndexed is returned (ErrRepositoryNotFound for unknown
// keys).
func (r *Registry) Index(key domain.RepoKey) (*domain.RepoIndex, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.repos[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrRepositoryNotFound, key.Display())
	}
	idx, ok := r.indexes[key]
	if !ok || rec.LastIndexed.IsZero() {
		return nil, fmt.Errorf("%w: %s (status %s)", domain.ErrRepositoryNotIndexed, key.Display(), rec.Status)
	}
	return idx, nil
}

// FullTextAlias returns a read alias combining the full-text indexes of the
// given keys. Every key must reference a repository that reached ready.
// The alias is only valid until the next re-index of any member; use
// FullTextSearch for queries that must not race a re-index.
func (r *Registry) FullTextAlias(keys []domain.RepoKey) (bleve.IndexAlias, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.fullTextAliasLocked(keys)
}

// fullTextAliasLocked builds the alias. Callers hold r.mu.
func (r *Registry) fullTextAliasLocked(keys []domain.RepoKey) (bleve.IndexAlias, error) {
	indexes := make([]bleve.Index, 0, len(keys))
	for _, key := range keys {
		rec, ok := r.repos[key]
		if !ok {
			return nil, fmt.Errorf("%w: %s", domain.ErrRepositoryNotFound, key.Display())
		}
		ft, ok := r.fulltext[key]
		if !ok || rec.LastIndexed.IsZero() {
			return nil, fmt.Errorf("%w: %s (status %s)", domain.ErrRepositoryNotIndexed, key.Display(), rec.Status)
		}
		indexes = append(indexes, ft)
	}
	if len(indexes) == 0 {
		return nil, fmt.Errorf("%w: no indexed repositories requested", domain.ErrRepositoryNotIndexed)
	}
	return bleve.NewIndexAlias(indexes...), nil
}

// ReadyKeys returns the keys of all repositories currently at status ready,
// sorted by display key.
func (r *Registry) ReadyKeys() []domain.RepoKey {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var keys []domain.RepoKey
	for _, rec := range r.repos {
		if rec.Status == domain.StatusReady {
			keys = append(keys, rec.Key)
		}
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Display() < keys[j].Display() })
	return keys
}

// beginPass marks the record as indexing and resets its counters.
func (r *Registry) beginPass(key domain.RepoKey, passID, localPath string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.repos[key]
	if !ok {
		rec = &domain.Repository{Key: key}
		r.repos[key] = rec
	}
	rec.Status = domain.StatusIndexing
	rec.LocalPath = localPath
	rec.FilesProcessed = 0
	rec.TotalFiles = 0
	rec.LastError = ""
	rec.LastPassID = passID
}

// setTotalFiles records the eligible file count for the running pass.
func (r *Registry) setTotalFiles(key domain.RepoKey, total int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if rec, ok := r.repos[key]; ok {
		rec.TotalFiles = total
	}
}

// setProcessed flushes the files-processed counter.
func (r *Registry) setProcessed(key domain.RepoKey, processed int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if rec, ok := r.repos[key]; ok {
		rec.FilesProcessed = processed
	}
}

// installIndex replaces the derived indexes for a key wholesale. Readers of
// an already-ready repository observe the fresh, progressively populated
// index from this point on. The previous full-text index is closed under
// the write lock, so in-flight FullTextSearch calls drain first.
func (r *Registry) installIndex(key domain.RepoKey, idx *domain.RepoIndex, ft bleve.Index) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if old, ok := r.fulltext[key]; ok {
		_ = old.Close()
	}
	r.indexes[key] = idx
	r.fulltext[key] = ft
}

// completePass finalizes a successful pass.
func (r *Registry) completePass(key domain.RepoKey, processed int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if rec, ok := r.repos[key]; ok {
		rec.FilesProcessed = processed
		rec.Status = domain.StatusReady
		rec.LastIndexed = time.Now()
	}
}

// failPass finalizes a failed pass with the captured message.
func (r *Registry) failPass(key domain.RepoKey, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if rec, ok := r.repos[key]; ok {
		rec.Status = domain.StatusError
		rec.LastError = err.Error()
	}
}

// Fail marks the record as failed before a pass could start, for example
// when the repository could not be fetched.
func (r *Registry) Fail(key domain.RepoKey, err error) {
	r.failPass(key, err)
}

// Close releases all full-text indexes.
func (r *Registry) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var firstErr error
	for key, ft := range r.fulltext {
		if err := ft.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		delete(r.fulltext, key)
	}
	return firstErr
}
