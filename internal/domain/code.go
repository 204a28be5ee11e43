package domain

// CodeDocument is the shape stored in the per-repository full-text index.
// It backs the ranked search path only; the exact-match search engine reads
// the RepoIndex directly.
type CodeDocument struct {
	// ID combines the repository ID and file path.
	// Format: "github_owner_repo_main/path/to/file.go"
	ID string `json:"id"`

	// Repository is the display-form repository key.
	// Format: "github/owner/repo@main"
	Repository string `json:"repository"`

	// FilePath is the file path relative to the repository root.
	FilePath string `json:"file_path"`

	// Extension is the file extension without the leading dot.
	Extension string `json:"extension"`

	// Language is the classified language tag.
	Language string `json:"language"`

	// Content is the full file content.
	Content string `json:"content"`

	// Symbols are the extracted function names, boosted at query time.
	Symbols []string `json:"symbols,omitempty"`
}

// Full-text field name constants used by mappings and queries.
const (
	CodeFieldID         = "id"
	CodeFieldRepository = "repository"
	CodeFieldFilePath   = "file_path"
	CodeFieldExtension  = "extension"
	CodeFieldLanguage   = "language"
	CodeFieldContent    = "content"
	CodeFieldSymbols    = "symbols"
)
