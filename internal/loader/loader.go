// Package loader implements spec.md §4.5–§4.8: the graph walker, the
// entry coordinator, batch quiescence, and the export linker — the
// operations that sit on top of the registry (internal/graph), the
// resolver (internal/resolver) and the source fetcher
// (internal/fetcher) to actually discover a module graph.
//
// Grounded on evanw/esbuild's bundler.go: maybeParseFile /
// scanAllDependencies / addEntryPoints supply the shape for fetchModule,
// fetchAllDependencies and the entry coordinator respectively, adapted
// from esbuild's two-phase (parse-then-resolve-later) model to spec.md's
// synchronous-within-a-module-fetch model, and from esbuild's one-shot
// ScanBundle to spec.md's batch/index-range entry API.
package loader

import (
	"context"

	"github.com/mangs/rollup/internal/fetcher"
	"github.com/mangs/rollup/internal/graph"
	"github.com/mangs/rollup/internal/logger"
	"github.com/mangs/rollup/internal/plugin"
	"github.com/mangs/rollup/internal/resolver"
)

// Loader owns the registry and the collaborators needed to populate it.
type Loader struct {
	Registry *graph.Registry
	Resolver *resolver.Resolver
	Fetcher  *fetcher.Fetcher
	Driver   *plugin.Driver
	Log      logger.Log
}

func New(registry *graph.Registry, res *resolver.Resolver, fetch *fetcher.Fetcher, driver *plugin.Driver, log logger.Log) *Loader {
	return &Loader{Registry: registry, Resolver: res, Fetcher: fetch, Driver: driver, Log: log}
}

// resolvedDependency is the materialized result of fetchResolvedDependency
// (spec.md §4.5): exactly one of Internal/External is set.
type resolvedDependency struct {
	Internal *graph.InternalModule
	External *graph.ExternalModule
}

// fetchResolvedDependency implements spec.md §4.5's operation of the
// same name.
func (l *Loader) fetchResolvedDependency(ctx context.Context, importerID string, resolved graph.ResolvedID) (resolvedDependency, error) {
	if resolved.External {
		external, err := l.Registry.EnsureExternal(resolved.ID, resolved.ModuleSideEffects)
		if err != nil {
			return resolvedDependency{}, err
		}
		return resolvedDependency{External: external}, nil
	}
	module, _, err := l.fetchModule(ctx, resolved.ID, importerID, resolved.ModuleSideEffects, resolved.SyntheticNamedExports, false)
	if err != nil {
		return resolvedDependency{}, err
	}
	return resolvedDependency{Internal: module}, nil
}

// chainKey tags the context value holding the set of module ids
// currently being fetched along this call path (spec.md §9's cyclic
// back-edge: an ancestor must not be waited on, or the load deadlocks).
type chainKey struct{}

// withChainID returns a context recording that id is now in-flight on
// this call path, for a descendant fetchModule call to check against.
func withChainID(ctx context.Context, id string) context.Context {
	existing, _ := ctx.Value(chainKey{}).(map[string]struct{})
	next := make(map[string]struct{}, len(existing)+1)
	for k := range existing {
		next[k] = struct{}{}
	}
	next[id] = struct{}{}
	return context.WithValue(ctx, chainKey{}, next)
}

// isAncestor reports whether id is already in-flight on this call path.
func isAncestor(ctx context.Context, id string) bool {
	chain, _ := ctx.Value(chainKey{}).(map[string]struct{})
	_, ok := chain[id]
	return ok
}

// fetchModule implements spec.md §4.5's central operation. The returned
// bool reports whether this call was the one that created (and fetched)
// the module, as opposed to finding it already registered.
func (l *Loader) fetchModule(ctx context.Context, id, importerID string, sideEffects, synthetic, isEntry bool) (*graph.InternalModule, bool, error) {
	module, created, err := l.Registry.EnsureInternal(id)
	if err != nil {
		return nil, false, err
	}
	module.MarkEntryPoint(isEntry)
	if !created {
		// "Do not re-fetch or re-parse" (spec.md §4.5). A cyclic
		// back-edge (id is an ancestor of the fetch already in
		// progress on this call path) must not wait, or the load
		// deadlocks — that's how the cycle is broken (spec.md §9).
		// Any other concurrent fetch of the same id (two sibling
		// importers racing to load a shared dependency) blocks on the
		// in-flight load instead of returning a half-populated module,
		// per spec.md §5's "memoize the in-flight promise" requirement.
		if !isAncestor(ctx, id) {
			select {
			case <-module.Ready():
			case <-ctx.Done():
			}
		}
		return module, false, nil
	}

	module.SetModuleSideEffects(sideEffects)
	module.SetSyntheticNamedExports(synthetic)
	defer module.MarkReady()

	childCtx := withChainID(ctx, id)
	if err := l.Fetcher.FetchSource(childCtx, id, importerID, module, l.Log); err != nil {
		return nil, false, err
	}
	if err := l.fetchAllDependencies(childCtx, module); err != nil {
		return nil, false, err
	}
	l.linkExports(module)
	return module, true, nil
}
