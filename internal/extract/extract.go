// Package extract derives structural facts from raw source text using
// line-oriented pattern matching. It is deliberately approximate: no AST,
// no scope resolution. Brace counting does not understand string or comment
// literals containing braces, nested anonymous functions, or brace-less
// single-statement bodies.
package extract

import (
	"regexp"
	"strings"
)

// FunctionSpan is one heuristically detected function with an approximate
// line range. Lines are 1-indexed and inclusive.
type FunctionSpan struct {
	Name      string
	Params    string
	Signature string
	StartLine int
	EndLine   int
}

// declPattern is one declaration form. Group 1 captures the name; group 2,
// when present, captures the raw parameter text.
type declPattern struct {
	re        *regexp.Regexp
	hasParams bool
}

// declPatterns is the fixed ordered list of declaration forms. The first
// pattern that matches on a line wins.
var declPatterns = []declPattern{
	// JS/TS function keyword, optionally exported/async/generator.
	{regexp.MustCompile(`^\s*(?:export\s+)?(?:default\s+)?(?:async\s+)?function\s*\*?\s*([A-Za-z_$][\w$]*)\s*\(([^)]*)\)`), true},
	// Go func, optionally with a receiver.
	{regexp.MustCompile(`^\s*func\s+(?:\([^)]*\)\s*)?([A-Za-z_]\w*)\s*\(([^)]*)\)`), true},
	// Rust fn.
	{regexp.MustCompile(`^\s*(?:pub(?:\([^)]*\))?\s+)?(?:async\s+)?(?:unsafe\s+)?fn\s+([A-Za-z_]\w*)\s*\(([^)]*)\)`), true},
	// Python / Ruby def.
	{regexp.MustCompile(`^\s*(?:async\s+)?def\s+([A-Za-z_]\w*)\s*\(([^)]*)\)`), true},
	{regexp.MustCompile(`^\s*def\s+([A-Za-z_]\w*[!?]?)\s*$`), false},
	// Arrow / lambda assigned to a binding.
	{regexp.MustCompile(`^\s*(?:export\s+)?(?:const|let|var)\s+([A-Za-z_$][\w$]*)\s*(?::[^=]+)?=\s*(?:async\s*)?\(([^)]*)\)\s*(?::[^=]*)?=>`), true},
	{regexp.MustCompile(`^\s*(?:export\s+)?(?:const|let|var)\s+([A-Za-z_$][\w$]*)\s*=\s*(?:async\s+)?[A-Za-z_$][\w$]*\s*=>`), false},
	// Bare-name method form: name(params) {
	{regexp.MustCompile(`^\s*(?:(?:public|private|protected|static|final|async|override|abstract)\s+)*([A-Za-z_$][\w$]*)\s*\(([^)]*)\)\s*\{`), true},
	// C-style: one or more type words before the name.
	{regexp.MustCompile(`^\s*(?:[\w\*]+\s+)+\*?([A-Za-z_]\w*)\s*\(([^)]*)\)\s*\{`), true},
}

// controlKeywords are names that superficially resemble call or declaration
// syntax but never denote a function.
var controlKeywords = map[string]struct{}{
	"if": {}, "else": {}, "elif": {}, "for": {}, "foreach": {}, "while": {},
	"do": {}, "switch": {}, "case": {}, "match": {}, "catch": {}, "try": {},
	"finally": {}, "except": {}, "return": {}, "throw": {}, "raise": {},
	"new": {}, "delete": {}, "typeof": {}, "instanceof": {}, "void": {},
	"with": {}, "defer": {}, "select": {}, "go": {}, "assert": {},
	"yield": {}, "await": {}, "unless": {}, "until": {},
}

// matchDecl tests a line against the ordered declaration patterns.
func matchDecl(line string) (name, params string, ok bool) {
	for _, p := range declPatterns {
		m := p.re.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		name = m[1]
		if _, control := controlKeywords[name]; control {
			continue
		}
		if p.hasParams && len(m) > 2 {
			params = strings.TrimSpace(m[2])
		}
		return name, params, true
	}
	return "", "", false
}

// Functions extracts candidate function declarations with approximate line
// ranges in a single forward pass over the text.
func Functions(content string) []FunctionSpan {
	lines := strings.Split(content, "\n")
	var out []FunctionSpan
	var cur *FunctionSpan
	balance := 0

	for i, line := range lines {
		lineNo := i + 1

		if name, params, ok := matchDecl(line); ok {
			if cur != nil {
				// Best-effort boundary for the previous function.
				cur.EndLine = lineNo
				out = append(out, *cur)
			}
			cur = &FunctionSpan{
				Name:      name,
				Params:    params,
				Signature: name + "(" + params + ")",
				StartLine: lineNo,
				EndLine:   lineNo,
			}
			balance = 0
		}

		if cur == nil {
			continue
		}

		balance += strings.Count(line, "{") - strings.Count(line, "}")
		if balance <= 0 && strings.Contains(line, "}") {
			cur.EndLine = lineNo
			out = append(out, *cur)
			cur = nil
		}
	}

	if cur != nil {
		cur.EndLine = len(lines)
		out = append(out, *cur)
	}
	return out
}

// FunctionNames extracts just the declared function names, deduplicated in
// first-seen order.
func FunctionNames(content string) []string {
	var names []string
	seen := make(map[string]struct{})
	for _, line := range strings.Split(content, "\n") {
		name, _, ok := matchDecl(line)
		if !ok {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	return names
}

// importPatterns match import statements across language families.
// Group 1 captures the import target.
var importPatterns = []*regexp.Regexp{
	// JS/TS: import ... from '...' and bare import '...'
	regexp.MustCompile(`^\s*import\s+.*?\s+from\s+['"]([^'"]+)['"]`),
	regexp.MustCompile(`^\s*import\s+['"]([^'"]+)['"]`),
	// CommonJS require
	regexp.MustCompile(`require\(\s*['"]([^'"]+)['"]\s*\)`),
	// Go single import and import-block lines
	regexp.MustCompile(`^\s*import\s+(?:\w+\s+)?"([^"]+)"`),
	regexp.MustCompile(`^\s*(?:_\s+|\w+\s+)?"([\w./~-]+)"\s*$`),
	// Python
	regexp.MustCompile(`^\s*from\s+([\w.]+)\s+import\b`),
	regexp.MustCompile(`^\s*import\s+([\w.]+)`),
	// C/C++
	regexp.MustCompile(`^\s*#include\s+[<"]([^>"]+)[>"]`),
	// Rust
	regexp.MustCompile(`^\s*use\s+([\w:]+)`),
	// Ruby
	regexp.MustCompile(`^\s*require(?:_relative)?\s+['"]([^'"]+)['"]`),
}

// Imports extracts import targets. Duplicates within a file are collapsed;
// entries are returned in first-seen order.
func Imports(content string) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, line := range strings.Split(content, "\n") {
		for _, re := range importPatterns {
			m := re.FindStringSubmatch(line)
			if m == nil {
				continue
			}
			target := strings.TrimSpace(m[1])
			if target != "" {
				if _, dup := seen[target]; !dup {
					seen[target] = struct{}{}
					out = append(out, target)
				}
			}
			break
		}
	}
	return out
}

// exportPatterns match single-name export statements. Group 1 captures the
// exported name.
var exportPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^\s*export\s+(?:default\s+)?(?:abstract\s+)?(?:async\s+)?(?:function\s*\*?|class|interface|enum|type|const|let|var)\s+([A-Za-z_$][\w$]*)`),
	regexp.MustCompile(`^\s*export\s+default\s+([A-Za-z_$][\w$]*)\s*;?\s*$`),
	regexp.MustCompile(`module\.exports\.([A-Za-z_$][\w$]*)\s*=`),
	regexp.MustCompile(`module\.exports\s*=\s*([A-Za-z_$][\w$]*)\s*;?\s*$`),
	regexp.MustCompile(`^\s*exports\.([A-Za-z_$][\w$]*)\s*=`),
}

// exportListPattern matches brace-list exports: export { a, b as c }.
var exportListPattern = regexp.MustCompile(`^\s*export\s*\{([^}]+)\}`)

// Exports extracts exported names. Duplicates within a file are collapsed;
// entries are returned in first-seen order.
func Exports(content string) []string {
	var out []string
	seen := make(map[string]struct{})
	add := func(name string) {
		name = strings.TrimSpace(name)
		if name == "" {
			return
		}
		if _, dup := seen[name]; !dup {
			seen[name] = struct{}{}
			out = append(out, name)
		}
	}

	for _, line := range strings.Split(content, "\n") {
		if m := exportListPattern.FindStringSubmatch(line); m != nil {
			for _, entry := range strings.Split(m[1], ",") {
				entry = strings.TrimSpace(entry)
				// "name as alias" exports the alias.
				if _, alias, found := strings.Cut(entry, " as "); found {
					add(alias)
				} else {
					add(entry)
				}
			}
			continue
		}
		for _, re := range exportPatterns {
			if m := re.FindStringSubmatch(line); m != nil {
				add(m[1])
				break
			}
		}
	}
	return out
}
