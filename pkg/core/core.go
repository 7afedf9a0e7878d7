// Package core is the public facade over internal/loader, analogous to
// evanw/esbuild's pkg/api wrapping internal/bundler: it takes a
// configuration surface expressed in plain Go values, wires up the
// resolver/fetcher/loader collaborators described in SPEC_FULL.md, and
// returns a queryable module graph plus any diagnostics collected along
// the way.
//
// Example usage:
//
//	package main
//
//	import (
//	    "context"
//	    "fmt"
//
//	    "github.com/mangs/rollup/pkg/core"
//	)
//
//	func main() {
//	    graph, err := core.Build(context.Background(), core.Options{
//	        EntryPoints: []string{"./src/main.js"},
//	    })
//	    if err != nil {
//	        panic(err)
//	    }
//	    fmt.Printf("%d modules loaded, %d warnings\n",
//	        len(graph.Modules()), len(graph.Warnings()))
//	}
package core

import (
	"context"

	"github.com/mangs/rollup/internal/fetcher"
	"github.com/mangs/rollup/internal/fs"
	"github.com/mangs/rollup/internal/graph"
	"github.com/mangs/rollup/internal/loader"
	"github.com/mangs/rollup/internal/logger"
	"github.com/mangs/rollup/internal/matcher"
	"github.com/mangs/rollup/internal/plugin"
	"github.com/mangs/rollup/internal/resolver"
	"github.com/mangs/rollup/internal/sideeffects"
)

// Options is the configuration surface spec.md §6 describes, expressed
// as plain Go values. A zero Options loads EntryPoints with no plugins,
// no external matching, and the default side-effect policy.
type Options struct {
	EntryPoints  []string
	ManualChunks map[string][]string

	Plugins []plugin.Plugin

	External          matcher.Config
	PureExternals     matcher.Config
	ModuleSideEffects sideeffects.Config

	PreserveSymlinks bool

	// FS overrides the filesystem collaborator; nil means the real one
	// (fs.Real). Builds that only exercise plugin-supplied virtual
	// modules can leave this nil.
	FS fs.FS

	// Cache carries a prior build's fetcher.Cache forward, enabling the
	// originalCode reconciliation spec.md §4.4 step 3 describes across
	// repeated Build calls (e.g. a watch-mode rebuild loop).
	Cache *fetcher.Cache
}

// Graph is the queryable result of a Build call: the populated registry
// plus the entry list and any diagnostics collected while loading it.
type Graph struct {
	registry *graph.Registry
	entries  []*graph.InternalModule
	warnings []logger.Msg
}

// Modules returns every internal module discovered during the build, in
// no particular order.
func (g *Graph) Modules() []*graph.InternalModule {
	return g.registry.InternalModules()
}

// Lookup returns the registered node for id, or nil if nothing was
// registered under that id.
func (g *Graph) Lookup(id string) *graph.Node {
	return g.registry.Get(id)
}

// EntryModules returns the entry modules in their final index order
// (spec.md §4.7 step 4).
func (g *Graph) EntryModules() []*graph.InternalModule {
	return g.entries
}

// Warnings returns every non-fatal diagnostic collected while building
// the graph (spec.md §7's warning-kind messages).
func (g *Graph) Warnings() []logger.Msg {
	return g.warnings
}

// Build resolves and loads opts.EntryPoints (and opts.ManualChunks, if
// any) into a complete module graph, running spec.md §4.7's
// addEntryModules then addManualChunks; assignManualChunks is not
// called. A single Build call runs to quiescence before returning; for
// incremental rebuilds against the same graph, construct a
// *loader.Coordinator directly.
func Build(ctx context.Context, opts Options) (*Graph, error) {
	filesystem := opts.FS
	if filesystem == nil {
		filesystem = fs.Real{}
	}

	driver := plugin.NewDriver(opts.Plugins...)
	log := logger.NewLog()

	res := resolver.New(resolver.Config{
		External:         opts.External,
		SideEffects:      opts.ModuleSideEffects,
		PureExternals:    opts.PureExternals,
		PreserveSymlinks: opts.PreserveSymlinks,
	}, driver)
	fetch := fetcher.New(driver, filesystem, opts.Cache)
	registry := graph.NewRegistry()
	ld := loader.New(registry, res, fetch, driver, log)
	coordinator := loader.NewCoordinator(ld)

	inputs := make([]loader.EntryInput, len(opts.EntryPoints))
	for i, specifier := range opts.EntryPoints {
		inputs[i] = loader.EntryInput{Specifier: specifier}
	}

	result, err := coordinator.AddEntryModules(ctx, inputs, true)
	if err != nil {
		log.Done()
		return nil, err
	}

	if len(opts.ManualChunks) > 0 {
		if err := coordinator.AddManualChunks(ctx, opts.ManualChunks); err != nil {
			log.Done()
			return nil, err
		}
	}

	coordinator.Await()
	msgs := log.Done()

	return &Graph{registry: registry, entries: result.EntryModules, warnings: msgs}, nil
}
