package gitrepos

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/codescope/mcp-codescope-server/internal/domain"
)

const lockTimeout = 5 * time.Minute

// Fetcher materializes repository working trees on local disk.
// Each repository key maps to one clone directory under the base directory,
// guarded by a file lock so concurrent passes and sibling processes do not
// clobber each other's git operations.
type Fetcher struct {
	baseDir string
	git     *GitClient
	logger  *slog.Logger
}

// NewFetcher creates a Fetcher that clones under baseDir using the real git CLI.
func NewFetcher(baseDir string, logger *slog.Logger) *Fetcher {
	return NewFetcherWithClient(baseDir, NewGitClient(), logger)
}

// NewFetcherWithClient creates a Fetcher with a custom git client (for testing).
func NewFetcherWithClient(baseDir string, git *GitClient, logger *slog.Logger) *Fetcher {
	return &Fetcher{baseDir: baseDir, git: git, logger: logger}
}

// Ensure makes sure a fresh working tree for the key exists locally and
// returns its path. An existing clone is fetched and hard-reset to the
// remote branch head; anything else is cloned from scratch.
func (f *Fetcher) Ensure(ctx context.Context, key domain.RepoKey) (string, error) {
	dir := RepoDir(f.baseDir, key)

	lock := NewFileLock(LockPath(f.baseDir, key))
	if err := lock.Lock(ctx, lockTimeout); err != nil {
		return "", fmt.Errorf("failed to lock %s: %w", key.Display(), err)
	}
	defer func() { _ = lock.Unlock() }()

	if f.git.IsGitRepository(ctx, dir) {
		f.logger.Debug("refreshing existing clone", "repository", key.Display(), "dir", dir)
		if err := f.git.Fetch(ctx, dir); err != nil {
			return "", err
		}
		if err := f.git.Reset(ctx, dir, key.Branch); err != nil {
			return "", err
		}
		return dir, nil
	}

	// A directory that is not a git repository is a leftover from an
	// interrupted clone. Remove it before cloning again.
	if _, err := os.Stat(dir); err == nil {
		if err := os.RemoveAll(dir); err != nil {
			return "", fmt.Errorf("failed to remove stale clone dir: %w", err)
		}
	}

	url := CloneURL(key)
	f.logger.Info("cloning repository", "repository", key.Display(), "url", url)
	if err := f.git.Clone(ctx, url, key.Branch, dir); err != nil {
		return "", err
	}
	return dir, nil
}
