package core

import (
	"context"
	"testing"

	"github.com/mangs/rollup/internal/fs"
	"github.com/mangs/rollup/internal/graph"
	"github.com/mangs/rollup/internal/logger"
)

func TestBuildSimpleGraph(t *testing.T) {
	memFS := fs.NewInMemory()
	memFS.Files["/entry"] = `
import "./dep"
export const main = 1
`
	memFS.Files["/dep"] = `export const d = 1`

	g, err := Build(context.Background(), Options{
		EntryPoints: []string{"/entry"},
		FS:          memFS,
	})
	if err != nil {
		t.Fatal(err)
	}

	if len(g.EntryModules()) != 1 || g.EntryModules()[0].ID != "/entry" {
		t.Fatalf("got %v", g.EntryModules())
	}
	if g.Lookup("/dep") == nil {
		t.Fatal("expected /dep to be registered")
	}
	if len(g.Modules()) != 2 {
		t.Fatalf("got %d modules", len(g.Modules()))
	}
}

func TestBuildUnresolvedEntryIsFatal(t *testing.T) {
	memFS := fs.NewInMemory()
	_, err := Build(context.Background(), Options{
		EntryPoints: []string{"missing"},
		FS:          memFS,
	})
	if err == nil {
		t.Fatal("expected an error")
	}
	ce, ok := logger.AsCoreError(err)
	if !ok || ce.ID != logger.UnresolvedEntry {
		t.Fatalf("got %v", err)
	}
}

func TestBuildBareImportWarnsAndTreatsAsExternal(t *testing.T) {
	memFS := fs.NewInMemory()
	memFS.Files["/entry"] = `import "lodash"`

	g, err := Build(context.Background(), Options{
		EntryPoints: []string{"/entry"},
		FS:          memFS,
	})
	if err != nil {
		t.Fatal(err)
	}

	node := g.Lookup("lodash")
	if node == nil || node.Kind != graph.KindExternal {
		t.Fatalf("expected lodash registered external, got %+v", node)
	}

	found := false
	for _, m := range g.Warnings() {
		if m.ID == logger.UnresolvedImportTreatedAsExternal {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected UNRESOLVED_IMPORT_TREATED_AS_EXTERNAL, got %+v", g.Warnings())
	}
}

func TestBuildManualChunks(t *testing.T) {
	memFS := fs.NewInMemory()
	memFS.Files["/entry"] = `export const a = 1`
	memFS.Files["/vendor"] = `export const v = 1`

	g, err := Build(context.Background(), Options{
		EntryPoints:  []string{"/entry"},
		ManualChunks: map[string][]string{"vendor": {"/vendor"}},
		FS:           memFS,
	})
	if err != nil {
		t.Fatal(err)
	}
	node := g.Lookup("/vendor")
	if node == nil || node.Kind != graph.KindInternal {
		t.Fatalf("expected /vendor registered internal, got %+v", node)
	}
}
