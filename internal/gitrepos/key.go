package gitrepos

import (
	"fmt"
	"path/filepath"

	"github.com/codescope/mcp-codescope-server/internal/domain"
)

// CloneURL builds the HTTPS clone URL for a repository key.
//
// Examples:
//   - github/org/repo -> https://github.com/org/repo.git
//   - gitlab/group/proj -> https://gitlab.com/group/proj.git
func CloneURL(key domain.RepoKey) string {
	return fmt.Sprintf("https://%s/%s/%s.git", key.Remote.Host(), key.Owner, key.Name)
}

// RepoDir returns the local clone directory for a repository key.
// Clones live under <baseDir>/repos, one directory per key.
func RepoDir(baseDir string, key domain.RepoKey) string {
	return filepath.Join(baseDir, "repos", key.ID())
}

// LockPath returns the lock file path guarding the clone directory.
func LockPath(baseDir string, key domain.RepoKey) string {
	return filepath.Join(baseDir, "repos", key.ID()+".lock")
}
