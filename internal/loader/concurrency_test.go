package loader

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/mangs/rollup/internal/plugin"
)

// TestFetchModuleSiblingWaitsForInFlightLoad exercises spec.md §5's
// "memoize the in-flight promise, not just the completed result"
// requirement: two sibling importers racing to load the same shared
// dependency must both observe it fully linked, not a half-populated
// module returned to whichever loses the EnsureInternal race.
func TestFetchModuleSiblingWaitsForInFlightLoad(t *testing.T) {
	var started sync.WaitGroup
	started.Add(1)
	release := make(chan struct{})

	driver := plugin.NewDriver(plugin.Plugin{
		Name: "delay",
		Load: func(ctx context.Context, id string) (plugin.LoadResult, error) {
			if id == "/shared" {
				started.Done()
				<-release
			}
			return plugin.LoadResult{}, nil
		},
	})

	l, log := newTestLoader(map[string]string{
		"/a":      `import "./shared"`,
		"/b":      `import "./shared"`,
		"/shared": "export const x = 1\nexport * from \"./shared-base\"",
		"/shared-base": `export const base = 1`,
	}, driver)

	var wg sync.WaitGroup
	results := make([]error, 2)
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, _, results[0] = l.fetchModule(context.Background(), "/a", "", true, false, true)
	}()
	go func() {
		defer wg.Done()
		started.Wait()
		time.Sleep(20 * time.Millisecond)
		_, _, results[1] = l.fetchModule(context.Background(), "/b", "", true, false, true)
	}()

	go func() {
		time.Sleep(50 * time.Millisecond)
		close(release)
	}()

	wg.Wait()
	log.Done()

	for _, err := range results {
		if err != nil {
			t.Fatal(err)
		}
	}

	node := l.Registry.Get("/shared")
	if node == nil || node.Internal == nil {
		t.Fatal("expected /shared registered internal")
	}
	exportsAll := node.Internal.ExportsAllSnapshot()
	if exportsAll["base"] != "/shared-base" {
		t.Fatalf("expected /shared fully linked by the time both siblings return, got %+v", exportsAll)
	}
	if got := node.Internal.Importers(); len(got) != 2 || got[0] != "/a" || got[1] != "/b" {
		t.Fatalf("got importers %v", got)
	}
}
