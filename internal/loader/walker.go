package loader

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/mangs/rollup/internal/graph"
	"github.com/mangs/rollup/internal/plugin"
)

// fetchAllDependencies implements spec.md §4.5: concurrent fan-out over
// every static source and every dynamic import of module, using
// errgroup.Group the way github.com/liuxd6825/k6server (grafana-k6) and
// bennypowers.dev/cem use it for "fan out N goroutines, collect the
// first error, wait for all of them" (see SPEC_FULL.md's DOMAIN STACK
// section) — replacing the teacher's hand-rolled sync.WaitGroup/channel
// plumbing in bundler.go's scanAllDependencies with the same shape via a
// real dependency.
func (l *Loader) fetchAllDependencies(ctx context.Context, module *graph.InternalModule) error {
	g, gctx := errgroup.WithContext(ctx)

	for _, source := range module.Sources() {
		source := source
		g.Go(func() error {
			return l.fetchStaticDependency(gctx, module, source)
		})
	}
	for _, dynamicImport := range module.DynamicImports() {
		dynamicImport := dynamicImport
		g.Go(func() error {
			return l.fetchDynamicDependency(gctx, module, dynamicImport)
		})
	}

	return g.Wait()
}

// resolveMemoized implements the memoization spec.md invariant 3
// requires: module.resolvedIds[s] is written at most once.
func (l *Loader) resolveMemoized(ctx context.Context, module *graph.InternalModule, specifier string) (graph.ResolvedID, error) {
	if existing, ok := module.GetResolvedID(specifier); ok {
		return existing, nil
	}
	resolved, err := l.Resolver.HandleResolveID(ctx, l.Log, specifier, module.ID)
	if err != nil {
		return graph.ResolvedID{}, err
	}
	return module.SetResolvedIDOnce(specifier, resolved), nil
}

func (l *Loader) fetchStaticDependency(ctx context.Context, module *graph.InternalModule, source string) error {
	resolved, err := l.resolveMemoized(ctx, module, source)
	if err != nil {
		return err
	}
	dep, err := l.fetchResolvedDependency(ctx, module.ID, resolved)
	if err != nil {
		return err
	}
	if dep.Internal != nil {
		dep.Internal.AddImporter(module.ID)
	}
	return nil
}

// normalizeDynamicHookResult applies the dynamic-import-specific
// defaults spec.md §4.5 and §9 call out verbatim: an object-shape result
// defaults external=false, moduleSideEffects=true (syntheticNamedExports
// defaults false, "unclear" per spec.md §9's open question, resolved
// here by keeping the stated default).
func normalizeDynamicHookResult(raw plugin.ResolveIDResult) (resolved graph.ResolvedID, isString bool, str string, ok bool) {
	switch {
	case raw.IsString:
		return graph.ResolvedID{}, true, raw.String, true
	case raw.IsSet:
		res := graph.ResolvedID{ID: raw.ID, ModuleSideEffects: true}
		if raw.ExternalSet {
			res.External = raw.External
		}
		if raw.ModuleSideEffectsSet {
			res.ModuleSideEffects = raw.ModuleSideEffects
		}
		if raw.SyntheticNamedExportsSet {
			res.SyntheticNamedExports = raw.SyntheticNamedExports
		}
		return res, false, "", true
	default:
		return graph.ResolvedID{}, false, "", false
	}
}

func (l *Loader) fetchDynamicDependency(ctx context.Context, module *graph.InternalModule, d *graph.DynamicImport) error {
	specifierForHook := d.Argument.Literal
	if !d.Argument.IsLiteral {
		specifierForHook = d.Argument.Expr
	}

	hookResult, handled, err := l.Driver.ResolveDynamicImport(ctx, specifierForHook, module.ID)
	if err != nil {
		return err
	}

	if handled {
		resolved, isString, str, ok := normalizeDynamicHookResult(hookResult)
		if !ok {
			// Hook declined; fall through to the literal-specifier path
			// below, or leave the resolution unset for a non-literal one.
		} else if isString {
			d.Resolution = graph.DynamicResolution{IsSet: true, IsString: true, String: str}
			return nil
		} else {
			dep, err := l.fetchResolvedDependency(ctx, module.ID, resolved)
			if err != nil {
				return err
			}
			if dep.Internal != nil {
				dep.Internal.AddDynamicImporter(module.ID)
			}
			d.Resolution = graph.DynamicResolution{IsSet: true, Resolved: resolved}
			return nil
		}
	}

	if !d.Argument.IsLiteral {
		// Non-literal argument, hook declined: resolution stays unset
		// (spec.md §4.5).
		return nil
	}

	resolved, err := l.resolveMemoized(ctx, module, d.Argument.Literal)
	if err != nil {
		return err
	}
	dep, err := l.fetchResolvedDependency(ctx, module.ID, resolved)
	if err != nil {
		return err
	}
	if dep.Internal != nil {
		dep.Internal.AddDynamicImporter(module.ID)
	}
	d.Resolution = graph.DynamicResolution{IsSet: true, Resolved: resolved}
	return nil
}
