package index

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/codescope/mcp-codescope-server/internal/domain"
	"github.com/codescope/mcp-codescope-server/internal/extract"
	"github.com/codescope/mcp-codescope-server/internal/ignore"
	"github.com/codescope/mcp-codescope-server/internal/lang"
	"github.com/google/uuid"
)

const (
	// counterFlushEvery bounds the overhead of files-processed updates.
	counterFlushEvery = 10

	// fullTextBatchSize is the number of documents per full-text batch.
	fullTextBatchSize = 100
)

// FileSource abstracts the repository working tree for the indexing pass.
type FileSource interface {
	// ListFiles returns all repository-relative file paths.
	ListFiles(ctx context.Context) ([]string, error)

	// ReadFile returns the content of one file.
	ReadFile(ctx context.Context, relPath string) (string, error)

	// IgnoreFile returns the repository's own ignore-file content, or an
	// empty string if it has none.
	IgnoreFile(ctx context.Context) string
}

// RunPass executes one indexing pass for the key: list files, filter,
// classify, extract, store. A per-file read failure is logged and skipped;
// a failure to list files at all fails the whole pass and leaves the record
// at status error. The derived indexes replace any previous ones wholesale.
func (r *Registry) RunPass(ctx context.Context, key domain.RepoKey, src FileSource) error {
	passID := uuid.NewString()
	logger := slog.With("repository", key.Display(), "pass_id", passID)

	r.beginPass(key, passID, localPathOf(r, key))
	logger.Info("Indexing pass started")

	files, err := src.ListFiles(ctx)
	if err != nil {
		err = fmt.Errorf("failed to list repository files: %w", err)
		r.failPass(key, err)
		return err
	}

	resolver := ignore.NewResolver(src.IgnoreFile(ctx))
	eligible := make([]string, 0, len(files))
	for _, relPath := range files {
		if resolver.Eligible(relPath) {
			eligible = append(eligible, relPath)
		}
	}
	r.setTotalFiles(key, len(eligible))

	idx := domain.NewRepoIndex()
	ft, err := newFullTextIndex()
	if err != nil {
		r.failPass(key, err)
		return err
	}
	r.installIndex(key, idx, ft)

	batch := ft.NewBatch()
	batchSize := 0
	processed := 0
	repoID := key.ID()
	display := key.Display()

	for _, relPath := range eligible {
		select {
		case <-ctx.Done():
			err := fmt.Errorf("indexing pass canceled: %w", ctx.Err())
			r.failPass(key, err)
			return err
		default:
		}

		content, err := src.ReadFile(ctx, relPath)
		if err != nil {
			logger.Warn("Skipping unreadable file", "path", relPath, "error", err)
			continue
		}

		entry, functions := BuildFileEntry(relPath, content)
		idx.AddFile(entry, functions)

		doc := domain.CodeDocument{
			ID:         repoID + "/" + relPath,
			Repository: display,
			FilePath:   relPath,
			Extension:  fileExtension(relPath),
			Language:   entry.Language,
			Content:    content,
			Symbols:    entry.Functions,
		}
		if err := batch.Index(doc.ID, doc); err != nil {
			logger.Warn("Skipping file in full-text index", "path", relPath, "error", err)
		} else {
			batchSize++
		}
		if batchSize >= fullTextBatchSize {
			if err := flushBatch(ft, batch); err != nil {
				r.failPass(key, err)
				return err
			}
			batch = ft.NewBatch()
			batchSize = 0
		}

		processed++
		if processed%counterFlushEvery == 0 {
			r.setProcessed(key, processed)
		}
	}

	if batchSize > 0 {
		if err := flushBatch(ft, batch); err != nil {
			r.failPass(key, err)
			return err
		}
	}

	r.completePass(key, processed)
	logger.Info("Indexing pass complete", "files", processed, "eligible", len(eligible))
	return nil
}

// flushBatch applies a full-text batch.
func flushBatch(ft bleve.Index, batch *bleve.Batch) error {
	if err := ft.Batch(batch); err != nil {
		return fmt.Errorf("full-text batch failed: %w", err)
	}
	return nil
}

// localPathOf preserves the recorded local path across passes.
func localPathOf(r *Registry, key domain.RepoKey) string {
	if rec, err := r.Get(key); err == nil {
		return rec.LocalPath
	}
	return ""
}

// BuildFileEntry classifies one file and derives its structural facts.
func BuildFileEntry(relPath, content string) (*domain.IndexedFile, []*domain.FunctionRecord) {
	entry := &domain.IndexedFile{
		Path:      relPath,
		Content:   content,
		Language:  lang.Classify(fileExtension(relPath)),
		LineCount: strings.Count(content, "\n") + 1,
		Functions: extract.FunctionNames(content),
		Imports:   extract.Imports(content),
		Exports:   extract.Exports(content),
	}

	spans := extract.Functions(content)
	functions := make([]*domain.FunctionRecord, 0, len(spans))
	for _, span := range spans {
		functions = append(functions, &domain.FunctionRecord{
			Name:      span.Name,
			FilePath:  relPath,
			StartLine: span.StartLine,
			EndLine:   span.EndLine,
			Signature: span.Signature,
			// Call graphs are not derived; keep the lists empty, not null.
			Calls:    []string{},
			CalledBy: []string{},
		})
	}
	return entry, functions
}

// fileExtension returns the extension without the leading dot. Extensionless
// files classified by name (Dockerfile, Makefile) use the lowercased base.
func fileExtension(path string) string {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return strings.ToLower(filepath.Base(path))
	}
	return ext
}
