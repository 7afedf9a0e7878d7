// Package plugin models the plugin-driver collaborator spec.md §1/§6
// treats as out of scope and consumes only by contract: a first-hook-wins
// async dispatcher over named hooks (ResolveID, Load, ResolveDynamicImport)
// plus a sequential Transform pipeline.
//
// Grounded on evanw/esbuild's internal/config.Plugin/OnResolve/OnLoad and
// bundler.RunOnResolvePlugins/runOnLoadPlugins: a plugin list is walked in
// order, the first one whose hook returns a non-nil result wins, later
// plugins are never consulted for that call. Unlike the teacher (which
// filters plugins by a name+path predicate registered per hook), this
// spec's hooks have no filter stage, so Driver dispatches over the raw
// hook list directly.
package plugin

import "context"

// ResolveIDOptions mirrors spec.md §4.3's "skip" passthrough used for
// plugin chaining (a plugin asking not to see its own earlier answer).
type ResolveIDOptions struct {
	Skip interface{}
}

// ResolveIDResult is the tagged union over the four shapes spec.md §6
// allows a resolveId/resolveDynamicImport hook to return:
// string | object | false | null/undefined. Exactly one of IsSet,
// IsString, IsFalse is true for a "handled" result; all false means the
// hook declined (null/undefined).
type ResolveIDResult struct {
	// Object form.
	IsSet                    bool
	ID                       string
	ExternalSet              bool
	External                 bool
	ModuleSideEffectsSet     bool
	ModuleSideEffects        bool
	SyntheticNamedExportsSet bool
	SyntheticNamedExports    bool

	// String form.
	IsString bool
	String   string

	// Literal `false`.
	IsFalse bool
}

// LoadResult is the tagged union a load hook may return: string | object
// | null/undefined. CodeIsString distinguishes a well-formed string code
// payload from a loader that (mis)behaved and produced something else,
// the trigger for spec.md's BAD_LOADER fatal error; real JS dynamic
// typing has no Go equivalent, so a test or adversarial plugin signals
// this case explicitly by leaving CodeIsString false while IsSet is true.
type LoadResult struct {
	IsSet                    bool
	Code                     string
	CodeIsString             bool
	Map                      string
	ModuleSideEffectsSet     bool
	ModuleSideEffects        bool
	SyntheticNamedExportsSet bool
	SyntheticNamedExports    bool
}

// SourceDescription is the mutable description threaded through the
// transform pipeline (spec.md §4.4, §6).
type SourceDescription struct {
	Code                     string
	Map                      string
	ModuleSideEffectsSet     bool
	ModuleSideEffects        bool
	SyntheticNamedExportsSet bool
	SyntheticNamedExports    bool
}

// FileDescriptor is the argument to a plugin's EmitFile hook (spec.md
// §6). Driver has no emitFile dispatch and nothing in the core calls
// EmitFile; chunk/asset emission is out of scope (spec.md §1).
type FileDescriptor struct {
	Name   string
	Source []byte
}

// Plugin is one entry of a plugin list. Any hook may be nil, meaning
// "this plugin does not participate in this hook" — Driver treats a nil
// hook exactly like one that returned a declined result.
type Plugin struct {
	Name string

	ResolveID func(ctx context.Context, specifier, importer string, opts ResolveIDOptions) (ResolveIDResult, error)

	Load func(ctx context.Context, id string) (LoadResult, error)

	ResolveDynamicImport func(ctx context.Context, specifier, importer string) (ResolveIDResult, error)

	// Transform is part of the sequential pipeline, not first-hook-wins:
	// every plugin's Transform (in list order) runs and may rewrite desc
	// for the next one. Returning handled=false leaves desc untouched.
	Transform func(ctx context.Context, desc SourceDescription, moduleID string) (result SourceDescription, handled bool, err error)

	EmitFile func(ctx context.Context, file FileDescriptor) error
}

// Driver dispatches the plugin hooks described above. The zero value (no
// plugins) is a valid driver under which every hook declines and
// Transform is the identity function.
type Driver struct {
	Plugins []Plugin
}

func NewDriver(plugins ...Plugin) *Driver {
	return &Driver{Plugins: plugins}
}

// ResolveID runs the first-hook-wins resolveId dispatch (spec.md §6).
func (d *Driver) ResolveID(ctx context.Context, specifier, importer string, opts ResolveIDOptions) (ResolveIDResult, bool, error) {
	for _, p := range d.Plugins {
		if p.ResolveID == nil {
			continue
		}
		result, err := p.ResolveID(ctx, specifier, importer, opts)
		if err != nil {
			return ResolveIDResult{}, false, err
		}
		if result.IsSet || result.IsString || result.IsFalse {
			return result, true, nil
		}
	}
	return ResolveIDResult{}, false, nil
}

// Load runs the first-hook-wins load dispatch (spec.md §6).
func (d *Driver) Load(ctx context.Context, id string) (LoadResult, bool, error) {
	for _, p := range d.Plugins {
		if p.Load == nil {
			continue
		}
		result, err := p.Load(ctx, id)
		if err != nil {
			return LoadResult{}, false, err
		}
		if result.IsSet {
			return result, true, nil
		}
	}
	return LoadResult{}, false, nil
}

// ResolveDynamicImport runs the first-hook-wins resolveDynamicImport
// dispatch (spec.md §6).
func (d *Driver) ResolveDynamicImport(ctx context.Context, specifier, importer string) (ResolveIDResult, bool, error) {
	for _, p := range d.Plugins {
		if p.ResolveDynamicImport == nil {
			continue
		}
		result, err := p.ResolveDynamicImport(ctx, specifier, importer)
		if err != nil {
			return ResolveIDResult{}, false, err
		}
		if result.IsSet || result.IsString || result.IsFalse {
			return result, true, nil
		}
	}
	return ResolveIDResult{}, false, nil
}

// Transform threads desc through every plugin's Transform hook in list
// order (spec.md §6 "sequential pipeline, not first-hook-wins").
func (d *Driver) Transform(ctx context.Context, desc SourceDescription, moduleID string) (SourceDescription, error) {
	for _, p := range d.Plugins {
		if p.Transform == nil {
			continue
		}
		result, handled, err := p.Transform(ctx, desc, moduleID)
		if err != nil {
			return SourceDescription{}, err
		}
		if handled {
			desc = result
		}
	}
	return desc, nil
}
