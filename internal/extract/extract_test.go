package extract

import (
	"reflect"
	"testing"
)

func TestFunctions_ExportedArrowOneLiner(t *testing.T) {
	content := `export const add = (a, b) => a + b;`

	fns := Functions(content)
	if len(fns) != 1 {
		t.Fatalf("expected 1 function, got %d", len(fns))
	}
	fn := fns[0]
	if fn.Name != "add" {
		t.Errorf("Name = %q, want %q", fn.Name, "add")
	}
	if fn.StartLine != 1 || fn.EndLine != 1 {
		t.Errorf("span = [%d,%d], want [1,1]", fn.StartLine, fn.EndLine)
	}
	if fn.Signature != "add(a, b)" {
		t.Errorf("Signature = %q, want %q", fn.Signature, "add(a, b)")
	}
}

func TestFunctions_BraceBalancedGo(t *testing.T) {
	content := `package main

func main() {
	if ready {
		run()
	}
}

func helper(x int) int {
	return x * 2
}`

	fns := Functions(content)
	if len(fns) != 2 {
		t.Fatalf("expected 2 functions, got %d: %+v", len(fns), fns)
	}
	if fns[0].Name != "main" || fns[0].StartLine != 3 || fns[0].EndLine != 7 {
		t.Errorf("main span = %q [%d,%d], want main [3,7]", fns[0].Name, fns[0].StartLine, fns[0].EndLine)
	}
	if fns[1].Name != "helper" || fns[1].StartLine != 9 || fns[1].EndLine != 11 {
		t.Errorf("helper span = %q [%d,%d], want helper [9,11]", fns[1].Name, fns[1].StartLine, fns[1].EndLine)
	}
}

func TestFunctions_GoMethodReceiver(t *testing.T) {
	content := `func (s *Service) Close() error {
	return nil
}`
	fns := Functions(content)
	if len(fns) != 1 || fns[0].Name != "Close" {
		t.Fatalf("expected method Close, got %+v", fns)
	}
}

func TestFunctions_MethodFormSkipsControlFlow(t *testing.T) {
	content := `class Widget {
	render() {
		if (this.visible) {
			draw();
		}
		while (pending()) {
			tick();
		}
	}
}`
	fns := Functions(content)
	if len(fns) != 1 {
		t.Fatalf("expected 1 function, got %d: %+v", len(fns), fns)
	}
	if fns[0].Name != "render" {
		t.Errorf("Name = %q, want render", fns[0].Name)
	}
}

func TestFunctions_OneLinerBody(t *testing.T) {
	content := `function inc(x) { return x + 1; }`
	fns := Functions(content)
	if len(fns) != 1 {
		t.Fatalf("expected 1 function, got %d", len(fns))
	}
	if fns[0].StartLine != 1 || fns[0].EndLine != 1 {
		t.Errorf("span = [%d,%d], want [1,1]", fns[0].StartLine, fns[0].EndLine)
	}
}

func TestFunctions_UnclosedAtEOF(t *testing.T) {
	content := `def compute(x):
    total = 0
    return total`
	fns := Functions(content)
	if len(fns) != 1 {
		t.Fatalf("expected 1 function, got %d", len(fns))
	}
	if fns[0].Name != "compute" || fns[0].EndLine != 3 {
		t.Errorf("got %q end=%d, want compute end=3", fns[0].Name, fns[0].EndLine)
	}
}

func TestFunctions_NewDeclarationClosesPrevious(t *testing.T) {
	content := `def first():
    pass

def second():
    pass`
	fns := Functions(content)
	if len(fns) != 2 {
		t.Fatalf("expected 2 functions, got %d", len(fns))
	}
	if fns[0].Name != "first" || fns[1].Name != "second" {
		t.Errorf("names = %q, %q", fns[0].Name, fns[1].Name)
	}
	if fns[1].StartLine != 4 {
		t.Errorf("second.StartLine = %d, want 4", fns[1].StartLine)
	}
}

func TestFunctions_CStyle(t *testing.T) {
	content := `static int helper(int x) {
	return x;
}`
	fns := Functions(content)
	if len(fns) != 1 || fns[0].Name != "helper" {
		t.Fatalf("expected helper, got %+v", fns)
	}
}

func TestFunctions_Deterministic(t *testing.T) {
	content := `function a() {}
const b = () => 1;
func c() {}`
	first := Functions(content)
	for range 5 {
		if got := Functions(content); !reflect.DeepEqual(got, first) {
			t.Fatalf("extraction is not deterministic: %+v vs %+v", got, first)
		}
	}
}

func TestFunctionNames(t *testing.T) {
	content := `function alpha() {}
const beta = (x) => x;
if (beta) {
	gamma();
}
function alpha() {}`

	names := FunctionNames(content)
	expected := []string{"alpha", "beta"}
	if !reflect.DeepEqual(names, expected) {
		t.Errorf("FunctionNames = %v, want %v", names, expected)
	}
}

func TestImports(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		expected []string
	}{
		{
			name: "typescript",
			content: `import React from 'react';
import { useState } from 'react';
import './styles.css';
const fs = require('fs');`,
			expected: []string{"react", "./styles.css", "fs"},
		},
		{
			name: "go",
			content: `import "fmt"

import (
	"os"
	"path/filepath"
)`,
			expected: []string{"fmt", "os", "path/filepath"},
		},
		{
			name: "python",
			content: `import os
from collections import OrderedDict
import os`,
			expected: []string{"os", "collections"},
		},
		{
			name: "c",
			content: `#include <stdio.h>
#include "local.h"`,
			expected: []string{"stdio.h", "local.h"},
		},
		{
			name:     "rust",
			content:  `use std::collections::HashMap;`,
			expected: []string{"std::collections::HashMap"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Imports(tt.content); !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("Imports = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestExports(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		expected []string
	}{
		{
			name: "named declarations",
			content: `export const add = (a, b) => a + b;
export function sub(a, b) { return a - b; }
export class Calculator {}
export interface Options {}`,
			expected: []string{"add", "sub", "Calculator", "Options"},
		},
		{
			name:     "default",
			content:  `export default App;`,
			expected: []string{"App"},
		},
		{
			name:     "brace list with alias",
			content:  `export { alpha, beta as gamma };`,
			expected: []string{"alpha", "gamma"},
		},
		{
			name: "commonjs",
			content: `module.exports.run = run;
exports.stop = stop;
module.exports = main;`,
			expected: []string{"run", "stop", "main"},
		},
		{
			name:     "duplicates collapsed",
			content:  "export const x = 1;\nexport { x };",
			expected: []string{"x"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Exports(tt.content); !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("Exports = %v, want %v", got, tt.expected)
			}
		})
	}
}
