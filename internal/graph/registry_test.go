package graph

import (
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestEnsureInternalAtMostOnce(t *testing.T) {
	r := NewRegistry()
	const n = 50
	var wg sync.WaitGroup
	created := make([]bool, n)
	modules := make([]*InternalModule, n)
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(i int) {
			defer wg.Done()
			m, c, err := r.EnsureInternal("/a/b")
			if err != nil {
				t.Error(err)
			}
			created[i] = c
			modules[i] = m
		}(i)
	}
	wg.Wait()

	createdCount := 0
	for i := 0; i < n; i++ {
		if created[i] {
			createdCount++
		}
		if modules[i] != modules[0] {
			t.Fatal("expected every caller to observe the same module instance")
		}
	}
	if createdCount != 1 {
		t.Fatalf("expected exactly one creator, got %d", createdCount)
	}
}

func TestInternalIDCannotBeExternal(t *testing.T) {
	r := NewRegistry()
	if _, _, err := r.EnsureInternal("/a/b"); err != nil {
		t.Fatal(err)
	}
	if _, err := r.EnsureExternal("/a/b", true); err == nil {
		t.Fatal("expected INTERNAL_ID_CANNOT_BE_EXTERNAL")
	}
}

func TestEnsureExternalIdempotent(t *testing.T) {
	r := NewRegistry()
	first, err := r.EnsureExternal("lodash", true)
	if err != nil {
		t.Fatal(err)
	}
	second, err := r.EnsureExternal("lodash", false)
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Fatal("expected the same ExternalModule instance back")
	}
}

func TestImportersSortedNoDuplicates(t *testing.T) {
	m := NewInternalModule("/a/b")
	var wg sync.WaitGroup
	ids := []string{"/c", "/a", "/b", "/a", "/c"}
	wg.Add(len(ids))
	for _, id := range ids {
		go func(id string) {
			defer wg.Done()
			m.AddImporter(id)
		}(id)
	}
	wg.Wait()

	got := m.Importers()
	want := []string{"/a", "/b", "/c"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Importers() mismatch (-want +got):\n%s", diff)
	}
}
