package ignore

import (
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultExcludePatterns are the built-in exclusions appended after the
// repository's own ignore rules. They cover dependency directories, build
// output, version-control metadata, lockfiles, minified assets, and logs.
// Repository rules cannot un-ignore a built-in exclusion.
var DefaultExcludePatterns = []string{
	// Dependency directories
	"**/node_modules/**", "**/vendor/**", "**/venv/**", "**/.venv/**",
	"**/bower_components/**", "**/__pycache__/**", "**/.gradle/**",
	"**/.yarn/**", "**/.npm/**", "**/site-packages/**",

	// Build output
	"**/dist/**", "**/build/**", "**/out/**", "**/target/**",
	"**/bin/**", "**/obj/**", "**/.next/**", "**/coverage/**",

	// Version-control metadata
	"**/.git/**", "**/.svn/**", "**/.hg/**",

	// Lockfiles
	"**/package-lock.json", "**/yarn.lock", "**/pnpm-lock.yaml",
	"**/go.sum", "**/Cargo.lock", "**/poetry.lock", "**/Gemfile.lock",
	"**/composer.lock",

	// Minified and generated assets
	"**/*.min.js", "**/*.min.css", "**/*.map", "**/*.pb.go",

	// Logs
	"**/*.log",
}

// indexableExtensions is the set of extensions eligible for indexing.
// It is deliberately wider than the language classifier's table: files with
// an indexable but unclassified extension are indexed with the "unknown"
// language tag.
var indexableExtensions = map[string]struct{}{
	"go": {}, "c": {}, "h": {}, "cpp": {}, "cc": {}, "cxx": {}, "hpp": {},
	"cs": {}, "java": {}, "kt": {}, "kts": {}, "rs": {}, "swift": {},
	"scala": {}, "zig": {},
	"js": {}, "jsx": {}, "mjs": {}, "cjs": {}, "ts": {}, "tsx": {},
	"vue": {}, "svelte": {}, "html": {}, "htm": {}, "css": {}, "scss": {},
	"sass": {}, "less": {},
	"py": {}, "rb": {}, "php": {}, "pl": {}, "lua": {}, "sh": {},
	"bash": {}, "zsh": {}, "fish": {}, "ps1": {}, "r": {}, "ex": {},
	"exs": {}, "dart": {},
	"json": {}, "yaml": {}, "yml": {}, "toml": {}, "xml": {}, "md": {},
	"rst": {}, "txt": {}, "sql": {}, "proto": {}, "graphql": {}, "gql": {},
	"tf": {}, "tfvars": {}, "dockerfile": {}, "hcl": {}, "nix": {},
	"cfg": {}, "ini": {}, "conf": {}, "properties": {}, "gradle": {},
	"cmake": {}, "mk": {}, "bat": {},
}

// rule is one parsed ignore-file pattern.
type rule struct {
	pattern string
	negate  bool
}

// Resolver combines repository-declared ignore rules with the built-in
// exclusion list to decide which files enter the index.
type Resolver struct {
	repoRules []rule
	builtins  []string
}

// NewResolver parses the repository ignore-file content (may be empty) and
// layers the built-in exclusions after it. A missing ignore file is
// represented by empty content, not an error.
func NewResolver(ignoreFileContent string) *Resolver {
	r := &Resolver{builtins: DefaultExcludePatterns}
	for _, line := range strings.Split(ignoreFileContent, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		r.repoRules = append(r.repoRules, parseRule(line))
	}
	return r
}

// parseRule translates one ignore-file line into a doublestar glob.
func parseRule(line string) rule {
	ru := rule{}
	if strings.HasPrefix(line, "!") {
		ru.negate = true
		line = line[1:]
	}

	// Directory-only patterns apply to everything beneath the directory.
	if strings.HasSuffix(line, "/") {
		line = strings.TrimSuffix(line, "/") + "/**"
	}

	if strings.HasPrefix(line, "/") {
		// Anchored at the repository root.
		line = strings.TrimPrefix(line, "/")
	} else if !strings.Contains(strings.TrimSuffix(line, "/**"), "/") {
		// Bare names match at any depth, per the ignore-file convention.
		line = "**/" + line
	}

	ru.pattern = line
	return ru
}

// Excluded reports whether any ignore rule matches the repository-relative
// path. Repository rules are evaluated in order with last-match-wins
// negation semantics; built-in exclusions are checked afterwards and are
// not negatable.
func (r *Resolver) Excluded(relPath string) bool {
	relPath = filepath.ToSlash(relPath)

	ignored := false
	for _, ru := range r.repoRules {
		if matched, err := doublestar.Match(ru.pattern, relPath); err == nil && matched {
			ignored = !ru.negate
		}
	}
	if ignored {
		return true
	}

	for _, pattern := range r.builtins {
		if matched, err := doublestar.Match(pattern, relPath); err == nil && matched {
			return true
		}
	}
	return false
}

// Eligible reports whether the file should enter the index: its extension
// must be indexable and its path must match no ignore rule.
func (r *Resolver) Eligible(relPath string) bool {
	return IndexableExtension(relPath) && !r.Excluded(relPath)
}

// IndexableExtension reports whether the file's extension is in the
// indexable set. Files named "Dockerfile" or "Makefile" without an
// extension are indexable as well.
func IndexableExtension(path string) bool {
	base := strings.ToLower(filepath.Base(path))
	if base == "dockerfile" || base == "makefile" {
		return true
	}
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if ext == "" {
		return false
	}
	_, ok := indexableExtensions[ext]
	return ok
}
