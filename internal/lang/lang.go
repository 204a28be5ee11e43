package lang

import "strings"

// Unknown is the tag returned for extensions outside the classification table.
const Unknown = "unknown"

// extensionTags maps lowercase file extensions (without the leading dot) to
// language tags. Pure lookup, no failure mode.
var extensionTags = map[string]string{
	// C-like / systems
	"go":    "go",
	"c":     "c",
	"h":     "c",
	"cpp":   "cpp",
	"cc":    "cpp",
	"cxx":   "cpp",
	"hpp":   "cpp",
	"cs":    "csharp",
	"java":  "java",
	"kt":    "kotlin",
	"kts":   "kotlin",
	"rs":    "rust",
	"swift": "swift",
	"scala": "scala",
	"zig":   "zig",

	// Web frontend
	"js":   "javascript",
	"jsx":  "javascript",
	"mjs":  "javascript",
	"cjs":  "javascript",
	"ts":   "typescript",
	"tsx":  "typescript",
	"vue":  "vue",
	"html": "html",
	"htm":  "html",
	"css":  "css",
	"scss": "scss",
	"sass": "scss",
	"less": "less",

	// Scripting
	"py":   "python",
	"rb":   "ruby",
	"php":  "php",
	"pl":   "perl",
	"lua":  "lua",
	"sh":   "shell",
	"bash": "shell",
	"zsh":  "shell",
	"fish": "shell",
	"ps1":  "powershell",
	"r":    "r",
	"ex":   "elixir",
	"exs":  "elixir",

	// Data / markup
	"json":    "json",
	"yaml":    "yaml",
	"yml":     "yaml",
	"toml":    "toml",
	"xml":     "xml",
	"md":      "markdown",
	"rst":     "markdown",
	"txt":     "text",
	"sql":     "sql",
	"proto":   "protobuf",
	"graphql": "graphql",
	"gql":     "graphql",

	// Infrastructure as code
	"tf":         "terraform",
	"tfvars":     "terraform",
	"dockerfile": "dockerfile",
	"hcl":        "hcl",
	"nix":        "nix",
}

// Classify maps a file extension (with or without a leading dot,
// case-insensitive) to a language tag. Unrecognized extensions yield
// Unknown; they are still indexable unless excluded upstream.
func Classify(ext string) string {
	normalized := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
	if tag, ok := extensionTags[normalized]; ok {
		return tag
	}
	return Unknown
}

// Known reports whether the extension maps to a known language tag.
func Known(ext string) bool {
	return Classify(ext) != Unknown
}
