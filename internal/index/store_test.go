package index

import (
	"context"
	"errors"
	"testing"

	"github.com/codescope/mcp-codescope-server/internal/domain"
)

func TestRegistry_GetUnknownKey(t *testing.T) {
	reg := NewRegistry()

	_, err := reg.Get(testKey())
	if !errors.Is(err, domain.ErrRepositoryNotFound) {
		t.Errorf("expected ErrRepositoryNotFound, got %v", err)
	}
}

func TestRegistry_RegisterIsIdempotent(t *testing.T) {
	reg := NewRegistry()
	key := testKey()

	first := reg.Register(key, "/tmp/repo")
	if first.Status != domain.StatusPending {
		t.Errorf("Status = %s, want pending", first.Status)
	}

	again := reg.Register(key, "/tmp/other")
	if again.LocalPath != "/tmp/repo" {
		t.Errorf("re-register must not overwrite the record, got path %q", again.LocalPath)
	}
}

func TestRegistry_IndexBeforeReady(t *testing.T) {
	reg := NewRegistry()
	key := testKey()
	reg.Register(key, "")

	_, err := reg.Index(key)
	if !errors.Is(err, domain.ErrRepositoryNotIndexed) {
		t.Errorf("expected ErrRepositoryNotIndexed, got %v", err)
	}
}

func TestRegistry_IndexUnknownKey(t *testing.T) {
	reg := NewRegistry()

	_, err := reg.Index(testKey())
	if !errors.Is(err, domain.ErrRepositoryNotFound) {
		t.Errorf("expected ErrRepositoryNotFound, got %v", err)
	}
}

func TestRegistry_List(t *testing.T) {
	reg := NewRegistry()
	reg.Register(domain.RepoKey{Remote: domain.RemoteGitHub, Owner: "org", Name: "zeta", Branch: "main"}, "")
	reg.Register(domain.RepoKey{Remote: domain.RemoteGitHub, Owner: "org", Name: "alpha", Branch: "main"}, "")

	records := reg.List()
	if len(records) != 2 {
		t.Fatalf("List returned %d records, want 2", len(records))
	}
	if records[0].Key.Name != "alpha" || records[1].Key.Name != "zeta" {
		t.Errorf("records not sorted by display key: %v, %v", records[0].Key, records[1].Key)
	}
}

func TestRegistry_ReadyKeys(t *testing.T) {
	reg := NewRegistry()
	ready := testKey()
	pending := domain.RepoKey{Remote: domain.RemoteGitLab, Owner: "org", Name: "other", Branch: "main"}
	reg.Register(pending, "")

	src := newFakeSource([2]string{"a.go", "package a"})
	if err := reg.RunPass(context.Background(), ready, src); err != nil {
		t.Fatalf("RunPass failed: %v", err)
	}

	keys := reg.ReadyKeys()
	if len(keys) != 1 || keys[0] != ready {
		t.Errorf("ReadyKeys = %v, want [%v]", keys, ready)
	}
}

func TestRegistry_StatusTransitions(t *testing.T) {
	reg := NewRegistry()
	key := testKey()

	rec := reg.Register(key, "")
	if rec.Status != domain.StatusPending {
		t.Fatalf("initial status = %s, want pending", rec.Status)
	}

	reg.beginPass(key, "pass-1", "")
	rec, _ = reg.Get(key)
	if rec.Status != domain.StatusIndexing {
		t.Errorf("status after beginPass = %s, want indexing", rec.Status)
	}

	reg.completePass(key, 3)
	rec, _ = reg.Get(key)
	if rec.Status != domain.StatusReady || rec.FilesProcessed != 3 {
		t.Errorf("status after completePass = %s/%d, want ready/3", rec.Status, rec.FilesProcessed)
	}

	// A later pass failing moves the record to error but keeps it readable.
	reg.beginPass(key, "pass-2", "")
	reg.failPass(key, errors.New("disk gone"))
	rec, _ = reg.Get(key)
	if rec.Status != domain.StatusError || rec.LastError != "disk gone" {
		t.Errorf("status after failPass = %s/%q", rec.Status, rec.LastError)
	}
}

func TestRegistry_FullTextAliasRequiresReady(t *testing.T) {
	reg := NewRegistry()
	key := testKey()
	reg.Register(key, "")

	_, err := reg.FullTextAlias([]domain.RepoKey{key})
	if !errors.Is(err, domain.ErrRepositoryNotIndexed) {
		t.Errorf("expected ErrRepositoryNotIndexed, got %v", err)
	}
}

func TestRegistry_Close(t *testing.T) {
	reg := NewRegistry()
	key := testKey()
	src := newFakeSource([2]string{"a.go", "package a"})
	if err := reg.RunPass(context.Background(), key, src); err != nil {
		t.Fatalf("RunPass failed: %v", err)
	}

	if err := reg.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if _, err := reg.FullTextAlias([]domain.RepoKey{key}); err == nil {
		t.Error("full-text indexes must be released on close")
	}
}

func TestRegistry_DistinctKeysWithCollidingIDs(t *testing.T) {
	reg := NewRegistry()
	a := domain.RepoKey{Remote: domain.RemoteGitHub, Owner: "a_b", Name: "c", Branch: "main"}
	b := domain.RepoKey{Remote: domain.RemoteGitHub, Owner: "a", Name: "b_c", Branch: "main"}
	if a.ID() != b.ID() {
		t.Fatalf("fixture keys must sanitize to the same ID, got %q and %q", a.ID(), b.ID())
	}

	reg.Register(a, "")
	reg.Register(b, "")
	if got := len(reg.List()); got != 2 {
		t.Fatalf("registered repositories = %d, want 2", got)
	}

	reg.Fail(a, errors.New("clone failed"))

	recA, err := reg.Get(a)
	if err != nil {
		t.Fatalf("Get(a) failed: %v", err)
	}
	if recA.Status != domain.StatusError {
		t.Errorf("a.Status = %s, want error", recA.Status)
	}

	recB, err := reg.Get(b)
	if err != nil {
		t.Fatalf("Get(b) failed: %v", err)
	}
	if recB.Status != domain.StatusPending {
		t.Errorf("b.Status = %s, want pending", recB.Status)
	}
}

func TestRegistry_FullTextSearchDuringReindex(t *testing.T) {
	reg := NewRegistry()
	key := testKey()
	src := newFakeSource([2]string{"main.ts", "export const add = (a, b) => a + b;"})
	if err := reg.RunPass(context.Background(), key, src); err != nil {
		t.Fatalf("RunPass failed: %v", err)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 20; i++ {
			if err := reg.RunPass(context.Background(), key, src); err != nil {
				t.Errorf("re-index pass failed: %v", err)
				return
			}
		}
	}()

	for {
		select {
		case <-done:
			return
		default:
		}
		if _, err := reg.FullTextSearch([]domain.RepoKey{key}, "add", "", 10); err != nil {
			t.Fatalf("FullTextSearch failed during re-index: %v", err)
		}
	}
}
