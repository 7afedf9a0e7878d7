// Package resolver implements spec.md §4.3: combining user resolveId
// hooks with built-in path resolution, normalizing whatever comes back
// into a canonical graph.ResolvedID.
//
// Grounded on evanw/esbuild's internal/resolver.Resolver.Resolve combined
// with bundler.RunOnResolvePlugins's "ask every plugin, fall back to the
// built-in resolver" shape; HandleResolveID mirrors
// bundler.maybeParseFile's resolve-or-log-error branch, generalized to
// the relative/bare split spec.md §4.3 names.
package resolver

import (
	"context"
	"fmt"

	"github.com/mangs/rollup/internal/graph"
	"github.com/mangs/rollup/internal/logger"
	"github.com/mangs/rollup/internal/matcher"
	"github.com/mangs/rollup/internal/pathutil"
	"github.com/mangs/rollup/internal/plugin"
	"github.com/mangs/rollup/internal/sideeffects"
)

// SkipOption is the opaque "skip" value spec.md §4.3 says a plugin may
// use to request that a resolution not return its own earlier answer.
// The resolver never inspects it; it is only threaded through to
// plugin.ResolveIDOptions.
type SkipOption struct {
	Value interface{}
}

// Config is the resolver's construction-time configuration (spec.md §6
// "Configuration surface").
type Config struct {
	External         matcher.Config
	SideEffects      sideeffects.Config
	PureExternals    matcher.Config
	PreserveSymlinks bool
}

// Resolver implements spec.md §4.3.
type Resolver struct {
	external         matcher.Matcher
	sideEffects      sideeffects.Policy
	driver           *plugin.Driver
	preserveSymlinks bool
}

// New compiles cfg and wires driver as the plugin collaborator.
func New(cfg Config, driver *plugin.Driver) *Resolver {
	return &Resolver{
		external:         matcher.Compile(cfg.External),
		sideEffects:      sideeffects.NewPolicy(cfg.SideEffects, cfg.PureExternals),
		driver:           driver,
		preserveSymlinks: cfg.PreserveSymlinks,
	}
}

// resolveRelative implements the spec's "resolveRelative(specifier,
// importer)" pure helper: join relative specifiers against the
// importer's directory; leave anything else (bare names, already
// absolute/virtual ids) untouched.
func (r *Resolver) resolveRelative(specifier, importer string) string {
	if pathutil.IsRelative(specifier) {
		return pathutil.Resolve(pathutil.Dir(importer), specifier)
	}
	return specifier
}

// builtinResolve is the "built-in path resolver parameterized by
// preserveSymlinks" spec.md §4.3 step 2 names. This headless core has no
// filesystem-existence check of its own (spec.md §1 scopes the real
// filesystem out to the source fetcher's collaborator), so the builtin
// resolver only performs the pure path join; preserveSymlinks is carried
// through the Resolver's configuration for a concrete filesystem-backed
// resolver to consult, but there is nothing for this package itself to
// evaluate against (see DESIGN.md).
func (r *Resolver) builtinResolve(specifier, importer string) (string, bool) {
	if !pathutil.IsRelative(specifier) {
		return "", false
	}
	return r.resolveRelative(specifier, importer), true
}

// Resolve implements spec.md §4.3's numbered resolve algorithm. A nil
// *graph.ResolvedID with a nil error means "unresolved" (caller decides
// what that means).
func (r *Resolver) Resolve(ctx context.Context, specifier, importer string, skip SkipOption) (*graph.ResolvedID, error) {
	if r.external.Match(specifier, importer, false) {
		id := r.resolveRelative(specifier, importer)
		return &graph.ResolvedID{ID: id, External: true, ModuleSideEffects: r.sideEffects.SideEffects(id, true)}, nil
	}

	hookResult, handled, err := r.driver.ResolveID(ctx, specifier, importer, plugin.ResolveIDOptions{Skip: skip.Value})
	if err != nil {
		return nil, err
	}

	var raw plugin.ResolveIDResult
	if handled {
		raw = hookResult
	} else if id, ok := r.builtinResolve(specifier, importer); ok {
		raw = plugin.ResolveIDResult{IsSet: true, ID: id}
	}
	// Neither a plugin hook nor the builtin resolver produced anything:
	// raw stays the zero value, the "falsy" branch below.

	return r.normalize(raw, specifier, importer)
}

// normalize implements spec.md §4.3 step 3.
func (r *Resolver) normalize(raw plugin.ResolveIDResult, specifier, importer string) (*graph.ResolvedID, error) {
	switch {
	case raw.IsSet:
		res := graph.ResolvedID{ID: raw.ID}
		if raw.ExternalSet {
			res.External = raw.External
		}
		if raw.ModuleSideEffectsSet {
			res.ModuleSideEffects = raw.ModuleSideEffects
		} else {
			res.ModuleSideEffects = r.sideEffects.SideEffects(res.ID, res.External)
		}
		if raw.SyntheticNamedExportsSet {
			res.SyntheticNamedExports = raw.SyntheticNamedExports
		}
		return &res, nil

	case raw.IsString:
		// An external hint may still be a "./x" path, so it must be
		// re-normalized against the importer (spec.md §4.3 step 3).
		if r.external.Match(raw.String, importer, true) {
			id := r.resolveRelative(raw.String, importer)
			return &graph.ResolvedID{ID: id, External: true, ModuleSideEffects: r.sideEffects.SideEffects(id, true)}, nil
		}
		return &graph.ResolvedID{ID: raw.String, External: false, ModuleSideEffects: r.sideEffects.SideEffects(raw.String, false)}, nil

	default: // falsy: raw.IsFalse, or a plain declined/undefined result
		id := r.resolveRelative(specifier, importer)
		if raw.IsFalse {
			return &graph.ResolvedID{ID: id, External: true, ModuleSideEffects: r.sideEffects.SideEffects(id, true)}, nil
		}
		if !r.external.Match(id, importer, true) {
			return nil, nil
		}
		return &graph.ResolvedID{ID: id, External: true, ModuleSideEffects: r.sideEffects.SideEffects(id, true)}, nil
	}
}

// HandleResolveID wraps Resolve with the unresolved-import policy from
// spec.md §4.3's second operation.
func (r *Resolver) HandleResolveID(ctx context.Context, log logger.Log, specifier, importer string) (graph.ResolvedID, error) {
	resolved, err := r.Resolve(ctx, specifier, importer, SkipOption{})
	if err != nil {
		return graph.ResolvedID{}, err
	}
	if resolved == nil {
		if pathutil.IsRelative(specifier) {
			return graph.ResolvedID{}, logger.NewError(logger.UnresolvedImport, importer,
				"Could not resolve %q from %q", specifier, importer)
		}
		id := specifier
		sideEffects := r.sideEffects.SideEffects(id, true)
		log.AddWarningID(logger.UnresolvedImportTreatedAsExternal, importer, fmt.Sprintf(
			"%q is imported by %q but could not be resolved – treating it as an external dependency", specifier, importer))
		return graph.ResolvedID{ID: id, External: true, ModuleSideEffects: sideEffects}, nil
	}
	if resolved.External && resolved.SyntheticNamedExports {
		log.AddWarningID(logger.ExternalSyntheticExports, resolved.ID, fmt.Sprintf(
			"%q is marked as having synthetic named exports but is also an external dependency; "+
				"synthetic named exports are ignored for external modules", resolved.ID))
	}
	return *resolved, nil
}
