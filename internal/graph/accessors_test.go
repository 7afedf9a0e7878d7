package graph

import "testing"

func TestManualChunkAliasConflict(t *testing.T) {
	m := NewInternalModule("/a")
	if conflict, _ := m.SetManualChunkAlias("vendor"); conflict {
		t.Fatal("first assignment should not conflict")
	}
	if conflict, existing := m.SetManualChunkAlias("vendor"); conflict || existing != "vendor" {
		t.Fatal("re-assigning the same alias should be a no-op")
	}
	if conflict, _ := m.SetManualChunkAlias("other"); !conflict {
		t.Fatal("expected a conflict for a different alias")
	}
}

func TestResolvedIDMemoizedOnce(t *testing.T) {
	m := NewInternalModule("/a")
	first := m.SetResolvedIDOnce("./c", ResolvedID{ID: "/a/c"})
	second := m.SetResolvedIDOnce("./c", ResolvedID{ID: "/a/other"})
	if second != first {
		t.Fatalf("expected memoized value %v, got %v", first, second)
	}
	got, ok := m.GetResolvedID("./c")
	if !ok || got != first {
		t.Fatal("GetResolvedID should return the memoized value")
	}
}

func TestExportsAllSeedingExcludesDefault(t *testing.T) {
	m := NewInternalModule("/a")
	m.SetExports([]string{"foo", "default"})
	m.SeedOwnExportsIntoExportsAll()
	all := m.ExportsAllSnapshot()
	if all["foo"] != "/a" {
		t.Fatalf("expected foo to map to /a, got %v", all)
	}
	if _, ok := all["default"]; ok {
		t.Fatal("exportsAll must never contain \"default\" sourced from the module itself")
	}
}

func TestTryAddExportAllConflict(t *testing.T) {
	m := NewInternalModule("/y")
	m.SetExports([]string{"foo"})
	m.SeedOwnExportsIntoExportsAll()
	if conflict := m.TryAddExportAll("foo", "/x"); !conflict {
		t.Fatal("expected a conflict since /y already declares foo")
	}
	all := m.ExportsAllSnapshot()
	if all["foo"] != "/y" {
		t.Fatal("own export must win over the export * source on conflict")
	}
	if conflict := m.TryAddExportAll("bar", "/x"); conflict {
		t.Fatal("expected no conflict for a fresh name")
	}
}
