package ignore

import "testing"

func TestResolver_BuiltinExclusions(t *testing.T) {
	r := NewResolver("")

	tests := []struct {
		path     string
		excluded bool
	}{
		{"node_modules/package/index.js", true},
		{"src/node_modules/fake.js", true},
		{"vendor/github.com/pkg/file.go", true},
		{"dist/app.js", true},
		{"deep/dist/app.js", true},
		{".git/config", true},
		{"package-lock.json", true},
		{"sub/yarn.lock", true},
		{"assets/app.min.js", true},
		{"server.log", true},
		{"src/index.js", false},
		{"nodemodules/file.js", false},
		{"distances/file.go", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := r.Excluded(tt.path); got != tt.excluded {
				t.Errorf("Excluded(%q) = %v, want %v", tt.path, got, tt.excluded)
			}
		})
	}
}

func TestResolver_RepoRules(t *testing.T) {
	content := `
# build artifacts
generated/
*.tmp
/secrets.yaml
!keep.tmp
`
	r := NewResolver(content)

	tests := []struct {
		path     string
		excluded bool
	}{
		{"generated/a.go", true},
		{"sub/generated/a.go", true},
		{"scratch.tmp", true},
		{"sub/scratch.tmp", true},
		{"keep.tmp", false}, // negated by the repo's own rule
		{"secrets.yaml", true},
		{"sub/secrets.yaml", false}, // anchored pattern
		{"src/main.go", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := r.Excluded(tt.path); got != tt.excluded {
				t.Errorf("Excluded(%q) = %v, want %v", tt.path, got, tt.excluded)
			}
		})
	}
}

func TestResolver_RepoRulesCannotUnignoreBuiltins(t *testing.T) {
	r := NewResolver("!node_modules/\n!go.sum\n")

	if !r.Excluded("node_modules/lib/index.js") {
		t.Error("repository rules must not un-ignore built-in exclusions")
	}
	if !r.Excluded("go.sum") {
		t.Error("repository rules must not un-ignore built-in lockfile exclusions")
	}
}

func TestResolver_Eligible(t *testing.T) {
	r := NewResolver("")

	tests := []struct {
		path     string
		eligible bool
	}{
		{"src/main.ts", true},
		{"README.md", true},
		{"Dockerfile", true},
		{"Makefile", true},
		{"config.ini", true}, // indexable but unclassified extension
		{"node_modules/a.ts", false},
		{"image.png", false},
		{"binary", false},
		{"app.exe", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := r.Eligible(tt.path); got != tt.eligible {
				t.Errorf("Eligible(%q) = %v, want %v", tt.path, got, tt.eligible)
			}
		})
	}
}

func TestResolver_EmptyAndCommentLines(t *testing.T) {
	r := NewResolver("\n\n# just a comment\n   \n")
	if len(r.repoRules) != 0 {
		t.Errorf("expected no repo rules, got %d", len(r.repoRules))
	}
}
