package gitrepos

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

// WorkTree exposes a cloned working tree to the indexing pass.
// Paths are relative to the clone root and use forward slashes.
type WorkTree struct {
	root        string
	maxFileSize int64
}

// NewWorkTree creates a WorkTree rooted at dir. Files larger than
// maxFileSize bytes are omitted from listings; zero disables the limit.
func NewWorkTree(dir string, maxFileSize int64) *WorkTree {
	return &WorkTree{root: dir, maxFileSize: maxFileSize}
}

// Root returns the working tree root directory.
func (w *WorkTree) Root() string {
	return w.root
}

// ListFiles walks the working tree and returns all regular file paths in
// sorted order, skipping the .git directory and oversized files.
func (w *WorkTree) ListFiles(ctx context.Context) ([]string, error) {
	var files []string

	err := filepath.WalkDir(w.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		if d.IsDir() {
			if d.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}

		if w.maxFileSize > 0 {
			info, err := d.Info()
			if err != nil {
				return err
			}
			if info.Size() > w.maxFileSize {
				return nil
			}
		}

		rel, err := filepath.Rel(w.root, path)
		if err != nil {
			return err
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", w.root, err)
	}

	sort.Strings(files)
	return files, nil
}

// ReadFile returns the content of a file relative to the tree root.
func (w *WorkTree) ReadFile(_ context.Context, relPath string) (string, error) {
	data, err := os.ReadFile(filepath.Join(w.root, filepath.FromSlash(relPath)))
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// IgnoreFile returns the repository's .gitignore content, or the empty
// string when the repository has none.
func (w *WorkTree) IgnoreFile(_ context.Context) string {
	data, err := os.ReadFile(filepath.Join(w.root, ".gitignore"))
	if err != nil {
		return ""
	}
	return string(data)
}
