package domain

import (
	"sort"
	"sync"
)

// IndexedFile is one source file inside a repository index.
// The entry is immutable once stored; a re-index replaces it wholesale.
type IndexedFile struct {
	Path      string   `json:"path"`
	Content   string   `json:"content"`
	Language  string   `json:"language"`
	LineCount int      `json:"line_count"`
	Functions []string `json:"functions,omitempty"`
	Imports   []string `json:"imports,omitempty"`
	Exports   []string `json:"exports,omitempty"`
}

// FunctionRecord is one heuristically detected function or method.
// Calls and CalledBy are declared for consumers but never populated:
// cross-file call resolution is out of scope for the lexical index.
type FunctionRecord struct {
	Name      string   `json:"name"`
	FilePath  string   `json:"file_path"`
	StartLine int      `json:"start_line"`
	EndLine   int      `json:"end_line"`
	Signature string   `json:"signature"`
	Calls     []string `json:"calls"`
	CalledBy  []string `json:"called_by"`
}

// MatchType classifies how a search result matched the query.
type MatchType string

const (
	MatchExact    MatchType = "exact"
	MatchFuzzy    MatchType = "fuzzy"
	MatchSemantic MatchType = "semantic"
)

// SearchResult is one matched line. Transient, never stored.
type SearchResult struct {
	Repository string    `json:"repository"`
	FilePath   string    `json:"file_path"`
	Line       int       `json:"line"`
	Content    string    `json:"content"`
	MatchType  MatchType `json:"match_type"`
	Score      float64   `json:"score"`
}

// RepoIndex is the aggregate of derived tables for one repository.
// File entries are inserted atomically as a whole; readers may observe a
// partially populated index while a pass is running, but never a torn
// per-file record.
type RepoIndex struct {
	mu        sync.RWMutex
	files     map[string]*IndexedFile
	order     []string
	functions map[string]*FunctionRecord
	imports   map[string][]string
	exports   map[string][]string
}

// NewRepoIndex creates an empty repository index.
func NewRepoIndex() *RepoIndex {
	return &RepoIndex{
		files:     make(map[string]*IndexedFile),
		functions: make(map[string]*FunctionRecord),
		imports:   make(map[string][]string),
		exports:   make(map[string][]string),
	}
}

// functionKey builds the lookup key for a function record.
func functionKey(path, name string) string {
	return path + ":" + name
}

// AddFile inserts a file entry and its derived records in one step.
// If two functions in the same file share a name, the later record wins.
// Re-inserting a path replaces the previous entry wholesale.
func (x *RepoIndex) AddFile(f *IndexedFile, functions []*FunctionRecord) {
	x.mu.Lock()
	defer x.mu.Unlock()

	if _, exists := x.files[f.Path]; !exists {
		x.order = append(x.order, f.Path)
	}
	x.files[f.Path] = f
	for _, fn := range functions {
		x.functions[functionKey(fn.FilePath, fn.Name)] = fn
	}
	if len(f.Imports) > 0 {
		x.imports[f.Path] = f.Imports
	}
	if len(f.Exports) > 0 {
		x.exports[f.Path] = f.Exports
	}
}

// File returns the entry for a path.
func (x *RepoIndex) File(path string) (*IndexedFile, bool) {
	x.mu.RLock()
	defer x.mu.RUnlock()
	f, ok := x.files[path]
	return f, ok
}

// Files returns all entries in index-insertion order.
func (x *RepoIndex) Files() []*IndexedFile {
	x.mu.RLock()
	defer x.mu.RUnlock()
	out := make([]*IndexedFile, 0, len(x.order))
	for _, path := range x.order {
		out = append(out, x.files[path])
	}
	return out
}

// Paths returns all indexed paths sorted lexicographically.
func (x *RepoIndex) Paths() []string {
	x.mu.RLock()
	defer x.mu.RUnlock()
	out := make([]string, len(x.order))
	copy(out, x.order)
	sort.Strings(out)
	return out
}

// FileCount returns the number of indexed files.
func (x *RepoIndex) FileCount() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return len(x.files)
}

// Function returns the record for (path, name).
func (x *RepoIndex) Function(path, name string) (*FunctionRecord, bool) {
	x.mu.RLock()
	defer x.mu.RUnlock()
	fn, ok := x.functions[functionKey(path, name)]
	return fn, ok
}

// FunctionsByName returns all records with the given name across files,
// sorted by file path.
func (x *RepoIndex) FunctionsByName(name string) []*FunctionRecord {
	x.mu.RLock()
	defer x.mu.RUnlock()
	var out []*FunctionRecord
	for _, fn := range x.functions {
		if fn.Name == name {
			out = append(out, fn)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FilePath < out[j].FilePath })
	return out
}

// FunctionNames returns the distinct function names in the index, sorted.
func (x *RepoIndex) FunctionNames() []string {
	x.mu.RLock()
	defer x.mu.RUnlock()
	seen := make(map[string]struct{}, len(x.functions))
	for _, fn := range x.functions {
		seen[fn.Name] = struct{}{}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Imports returns the import targets recorded for a path.
func (x *RepoIndex) Imports(path string) []string {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return x.imports[path]
}

// Exports returns the export names recorded for a path.
func (x *RepoIndex) Exports(path string) []string {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return x.exports[path]
}
