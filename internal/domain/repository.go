package domain

import (
	"fmt"
	"strings"
	"time"
)

// RemoteKind identifies the hosting service a repository is cloned from.
type RemoteKind string

const (
	RemoteGitHub    RemoteKind = "github"
	RemoteGitLab    RemoteKind = "gitlab"
	RemoteBitbucket RemoteKind = "bitbucket"
)

// Host returns the canonical hostname for the remote kind.
func (k RemoteKind) Host() string {
	switch k {
	case RemoteGitHub:
		return "github.com"
	case RemoteGitLab:
		return "gitlab.com"
	case RemoteBitbucket:
		return "bitbucket.org"
	default:
		return string(k)
	}
}

// ParseRemoteKind parses a remote kind string (case-insensitive).
func ParseRemoteKind(s string) (RemoteKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "github":
		return RemoteGitHub, nil
	case "gitlab":
		return RemoteGitLab, nil
	case "bitbucket":
		return RemoteBitbucket, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownRemote, s)
	}
}

// RepoKey uniquely identifies a repository under analysis.
// Two index requests with the same key address the same repository record.
type RepoKey struct {
	Remote RemoteKind
	Owner  string
	Name   string
	Branch string
}

// ID returns a filesystem-safe identifier for the key.
// Format: "github_owner_name_branch". Used for directory names only; it is
// lossy (distinct keys can sanitize to the same string), so identity
// comparisons use the RepoKey value or Display instead.
func (k RepoKey) ID() string {
	sanitize := func(s string) string {
		s = strings.ReplaceAll(s, "/", "_")
		s = strings.ReplaceAll(s, ":", "_")
		s = strings.ReplaceAll(s, "@", "_")
		return s
	}
	return strings.Join([]string{
		sanitize(string(k.Remote)),
		sanitize(k.Owner),
		sanitize(k.Name),
		sanitize(k.Branch),
	}, "_")
}

// Display returns the human-readable form of the key.
// Format: "github/owner/name@branch".
func (k RepoKey) Display() string {
	return fmt.Sprintf("%s/%s/%s@%s", k.Remote, k.Owner, k.Name, k.Branch)
}

// ParseDisplayKey parses a display-form key ("github/owner/name@branch").
// The branch suffix is optional and defaults to "main".
func ParseDisplayKey(s string) (RepoKey, error) {
	s = strings.TrimSpace(s)
	branch := "main"
	if at := strings.LastIndex(s, "@"); at >= 0 {
		branch = s[at+1:]
		s = s[:at]
	}
	parts := strings.Split(s, "/")
	if len(parts) != 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" || branch == "" {
		return RepoKey{}, fmt.Errorf("invalid repository key %q, expected remote/owner/name@branch", s)
	}
	remote, err := ParseRemoteKind(parts[0])
	if err != nil {
		return RepoKey{}, err
	}
	return RepoKey{Remote: remote, Owner: parts[1], Name: parts[2], Branch: branch}, nil
}

// Status is the lifecycle state of a repository record.
// Transitions are pending -> indexing -> {ready, error} only.
type Status string

const (
	StatusPending  Status = "pending"
	StatusIndexing Status = "indexing"
	StatusReady    Status = "ready"
	StatusError    Status = "error"
)

// Repository is the lifecycle record for one cloned codebase.
// Records live only for the process lifetime; there is no persistence.
type Repository struct {
	Key            RepoKey   `json:"key"`
	LocalPath      string    `json:"local_path"`
	Status         Status    `json:"status"`
	FilesProcessed int       `json:"files_processed"`
	TotalFiles     int       `json:"total_files"`
	LastIndexed    time.Time `json:"last_indexed,omitzero"`
	LastError      string    `json:"last_error,omitempty"`
	LastPassID     string    `json:"last_pass_id,omitempty"`
}

// Snapshot returns a copy safe to hand to readers while the record is
// being mutated by an indexing pass.
func (r *Repository) Snapshot() Repository {
	return *r
}
