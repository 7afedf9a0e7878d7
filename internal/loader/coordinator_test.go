package loader

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestAddEntryModulesOrderingAcrossBatches(t *testing.T) {
	l, log := newTestLoader(map[string]string{
		"/e1": `export const a = 1`,
		"/e2": `export const b = 1`,
		"/e3": `export const c = 1`,
	}, nil)
	defer log.Done()
	c := NewCoordinator(l)

	r1, err := c.AddEntryModules(context.Background(), []EntryInput{{Specifier: "/e1"}, {Specifier: "/e2"}}, true)
	if err != nil {
		t.Fatal(err)
	}
	r2, err := c.AddEntryModules(context.Background(), []EntryInput{{Specifier: "/e3"}}, true)
	if err != nil {
		t.Fatal(err)
	}
	if len(r1.NewEntryModules) != 2 || r1.NewEntryModules[0].ID != "/e1" || r1.NewEntryModules[1].ID != "/e2" {
		t.Fatalf("got %v", r1.NewEntryModules)
	}

	entries := c.EntryModules()
	got := make([]string, len(entries))
	for i, m := range entries {
		got[i] = m.ID
	}
	want := []string{"/e1", "/e2", "/e3"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("entry order mismatch (-want +got):\n%s", diff)
	}
	if len(r2.NewEntryModules) != 1 || r2.NewEntryModules[0].ID != "/e3" {
		t.Fatalf("got %v", r2.NewEntryModules)
	}
}

func TestAddEntryModulesSameEntryTwiceKeepsMinIndex(t *testing.T) {
	l, log := newTestLoader(map[string]string{
		"/e1": `export const a = 1`,
	}, nil)
	defer log.Done()
	c := NewCoordinator(l)

	r1, err := c.AddEntryModules(context.Background(), []EntryInput{{Specifier: "/e1"}}, true)
	if err != nil {
		t.Fatal(err)
	}
	firstModule := r1.EntryModules[0]

	r2, err := c.AddEntryModules(context.Background(), []EntryInput{{Specifier: "/e1"}}, true)
	if err != nil {
		t.Fatal(err)
	}
	if r2.EntryModules[0] != firstModule {
		t.Fatal("expected the same module instance across both calls")
	}
	if len(r2.NewEntryModules) != 0 {
		t.Fatal("re-adding an existing entry must not appear in NewEntryModules")
	}
	if len(c.EntryModules()) != 1 {
		t.Fatal("re-adding the same entry must not create a second record")
	}
	if rec := c.entriesByID["/e1"]; rec == nil || rec.Index != 0 {
		t.Fatalf("expected /e1 to keep the minimum index 0, got %+v", rec)
	}
}

func TestEntryCannotBeExternal(t *testing.T) {
	l, log := newTestLoader(nil, nil)
	defer log.Done()
	c := NewCoordinator(l)
	l.Resolver = newExternalOnlyResolver()

	_, err := c.AddEntryModules(context.Background(), []EntryInput{{Specifier: "anything"}}, true)
	if err == nil {
		t.Fatal("expected ENTRY_CANNOT_BE_EXTERNAL")
	}
}

func TestUnresolvedEntryIsFatal(t *testing.T) {
	l, log := newTestLoader(nil, nil)
	defer log.Done()
	c := NewCoordinator(l)

	// A bare (non-relative) specifier with no plugin and no external
	// match resolves to null (spec.md §4.3 step 3's falsy branch), which
	// the entry coordinator turns into a fatal UNRESOLVED_ENTRY — unlike
	// a bare *import*, entries have no "treat as external" fallback.
	_, err := c.AddEntryModules(context.Background(), []EntryInput{{Specifier: "missing-entry"}}, true)
	if err == nil {
		t.Fatal("expected UNRESOLVED_ENTRY")
	}
}

func TestAddManualChunksThenAssignIsNoOp(t *testing.T) {
	l, log := newTestLoader(map[string]string{
		"/vendor": `export const v = 1`,
	}, nil)
	defer log.Done()
	c := NewCoordinator(l)

	if err := c.AddManualChunks(context.Background(), map[string][]string{"vendor": {"/vendor"}}); err != nil {
		t.Fatal(err)
	}
	err := c.AssignManualChunks(func(id string, api ManualChunkAPI) string {
		if id == "/vendor" {
			return "vendor"
		}
		return ""
	})
	if err != nil {
		t.Fatalf("re-assigning the same alias should be a no-op, got %v", err)
	}
}

func TestAssignManualChunksConflict(t *testing.T) {
	l, log := newTestLoader(map[string]string{
		"/vendor": `export const v = 1`,
	}, nil)
	defer log.Done()
	c := NewCoordinator(l)

	if err := c.AddManualChunks(context.Background(), map[string][]string{"a": {"/vendor"}}); err != nil {
		t.Fatal(err)
	}
	err := c.AssignManualChunks(func(id string, api ManualChunkAPI) string {
		if id == "/vendor" {
			return "b"
		}
		return ""
	})
	if err == nil {
		t.Fatal("expected CANNOT_ASSIGN_MODULE_TO_CHUNK")
	}
}
