package domain

import (
	"reflect"
	"testing"
)

func TestRepoIndex_InsertionOrderPreserved(t *testing.T) {
	idx := NewRepoIndex()
	idx.AddFile(&IndexedFile{Path: "z.go", Content: "z"}, nil)
	idx.AddFile(&IndexedFile{Path: "a.go", Content: "a"}, nil)
	idx.AddFile(&IndexedFile{Path: "m.go", Content: "m"}, nil)

	files := idx.Files()
	got := []string{files[0].Path, files[1].Path, files[2].Path}
	if !reflect.DeepEqual(got, []string{"z.go", "a.go", "m.go"}) {
		t.Errorf("insertion order not preserved: %v", got)
	}

	if paths := idx.Paths(); !reflect.DeepEqual(paths, []string{"a.go", "m.go", "z.go"}) {
		t.Errorf("Paths() not sorted: %v", paths)
	}
}

func TestRepoIndex_ReinsertReplacesWholesale(t *testing.T) {
	idx := NewRepoIndex()
	idx.AddFile(&IndexedFile{Path: "a.go", Content: "old"}, nil)
	idx.AddFile(&IndexedFile{Path: "a.go", Content: "new"}, nil)

	if idx.FileCount() != 1 {
		t.Fatalf("FileCount = %d, want 1", idx.FileCount())
	}
	f, _ := idx.File("a.go")
	if f.Content != "new" {
		t.Errorf("Content = %q, want new", f.Content)
	}
}

func TestRepoIndex_FunctionLookup(t *testing.T) {
	idx := NewRepoIndex()
	idx.AddFile(&IndexedFile{Path: "a.go"}, []*FunctionRecord{
		{Name: "run", FilePath: "a.go", StartLine: 1, EndLine: 3},
	})
	idx.AddFile(&IndexedFile{Path: "b.go"}, []*FunctionRecord{
		{Name: "run", FilePath: "b.go", StartLine: 5, EndLine: 9},
	})

	fn, ok := idx.Function("a.go", "run")
	if !ok || fn.StartLine != 1 {
		t.Errorf("Function(a.go, run) = %+v, %v", fn, ok)
	}

	all := idx.FunctionsByName("run")
	if len(all) != 2 || all[0].FilePath != "a.go" || all[1].FilePath != "b.go" {
		t.Errorf("FunctionsByName = %+v", all)
	}

	if _, ok := idx.Function("a.go", "missing"); ok {
		t.Error("expected miss for unknown function")
	}
}

func TestRepoIndex_DuplicateNameLastWriteWins(t *testing.T) {
	idx := NewRepoIndex()
	idx.AddFile(&IndexedFile{Path: "a.go"}, []*FunctionRecord{
		{Name: "run", FilePath: "a.go", StartLine: 1, EndLine: 2},
		{Name: "run", FilePath: "a.go", StartLine: 10, EndLine: 12},
	})

	fn, ok := idx.Function("a.go", "run")
	if !ok || fn.StartLine != 10 {
		t.Errorf("later detection must overwrite earlier: %+v", fn)
	}
}

func TestRepoIndex_FunctionNames(t *testing.T) {
	idx := NewRepoIndex()
	idx.AddFile(&IndexedFile{Path: "a.go"}, []*FunctionRecord{
		{Name: "zeta", FilePath: "a.go"},
		{Name: "alpha", FilePath: "a.go"},
	})
	idx.AddFile(&IndexedFile{Path: "b.go"}, []*FunctionRecord{
		{Name: "alpha", FilePath: "b.go"},
	})

	if got := idx.FunctionNames(); !reflect.DeepEqual(got, []string{"alpha", "zeta"}) {
		t.Errorf("FunctionNames = %v, want [alpha zeta]", got)
	}
}

func TestRepoIndex_ImportsExports(t *testing.T) {
	idx := NewRepoIndex()
	idx.AddFile(&IndexedFile{
		Path:    "a.ts",
		Imports: []string{"react"},
		Exports: []string{"App"},
	}, nil)

	if got := idx.Imports("a.ts"); !reflect.DeepEqual(got, []string{"react"}) {
		t.Errorf("Imports = %v", got)
	}
	if got := idx.Exports("a.ts"); !reflect.DeepEqual(got, []string{"App"}) {
		t.Errorf("Exports = %v", got)
	}
	if got := idx.Imports("missing.ts"); got != nil {
		t.Errorf("Imports(missing) = %v, want nil", got)
	}
}
