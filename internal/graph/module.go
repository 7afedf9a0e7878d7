// Package graph holds the data model of spec.md §3: ResolvedID, the two
// module kinds, and the Registry that owns them with an
// at-most-one-instance-per-id invariant.
//
// Grounded on evanw/esbuild's internal/graph package (graph.InputFile,
// graph.EntryPoint) for the general "one node per loaded file, tagged by
// kind" shape, generalized to spec.md's two concrete module kinds and
// its richer per-module bookkeeping (manual chunk aliases, exportsAll).
package graph

import "sync"

// ResolvedID is the canonical record for a resolved reference
// (spec.md §3).
type ResolvedID struct {
	ID                    string
	External              bool
	ModuleSideEffects     bool
	SyntheticNamedExports bool
}

// DynamicImportArgument is either a string literal specifier or an
// opaque non-literal expression (an AST node in the original spec;
// this core doesn't parse ASTs, so a non-literal argument just carries
// a descriptive placeholder rather than a real node).
type DynamicImportArgument struct {
	Literal   string
	IsLiteral bool
	// Expr holds a descriptive placeholder for a non-literal argument
	// (this core doesn't parse ASTs; see spec.md §3).
	Expr string
}

// DynamicResolution is the mutable "resolution" slot of a
// DynamicImport. It is either unset, a bare string (spec.md §4.5 "If
// the hook returns a string, set d.resolution = string"), or a fully
// normalized ResolvedID.
type DynamicResolution struct {
	IsSet    bool
	IsString bool
	String   string
	Resolved ResolvedID
}

// DynamicImport is one entry of InternalModule.DynamicImports.
type DynamicImport struct {
	Argument   DynamicImportArgument
	Resolution DynamicResolution
}

// InternalModule is a node owned by the Registry (spec.md §3).
// All fields after mu are guarded by it; callers must use the
// accessor methods rather than touching fields directly from more than
// one goroutine.
type InternalModule struct {
	ID string

	mu                      sync.Mutex
	isEntryPoint            bool
	isUserDefinedEntryPoint bool
	manualChunkAlias        *string
	chunkName               *string
	chunkFileNames          map[string]struct{}
	userChunkNames          map[string]struct{}

	sources          map[string]struct{}
	dynamicImports   []*DynamicImport
	exportAllSources map[string]struct{}
	exports          map[string]struct{}
	exportsAll       map[string]string
	resolvedIDs      map[string]ResolvedID

	importers        []string
	dynamicImporters []string

	// moduleSideEffects/syntheticNamedExports start from the ResolvedID
	// that first caused this module to be fetched (spec.md §4.5
	// fetchModule(id, importer, sideEffects, synthetic, isEntry)) and may
	// be overridden once a load() result declares its own value
	// (spec.md §4.4).
	moduleSideEffects     bool
	syntheticNamedExports bool

	// originalCode backs the source-fetcher cache check (spec.md §4.4
	// step 3: "its originalCode matches the new code").
	originalCode    string
	hasOriginalCode bool

	// ready is closed once this module's own fetch-and-link has
	// finished. spec.md §5/§9: on a genuinely parallel runtime,
	// fetchModule must "memoize the in-flight promise, not just the
	// completed result" so a sibling fetch of the same id blocks on the
	// original load instead of observing a half-populated module; a
	// cycle-closing fetch (an ancestor of its own load) must not wait on
	// it, which is why this is exposed as a channel callers select on
	// rather than something fetchModule blocks on unconditionally.
	ready chan struct{}
}

// NewInternalModule constructs an empty node for id. Callers populate
// Sources/DynamicImports/etc. once the body has been parsed.
func NewInternalModule(id string) *InternalModule {
	return &InternalModule{
		ID:               id,
		chunkFileNames:   make(map[string]struct{}),
		userChunkNames:   make(map[string]struct{}),
		sources:          make(map[string]struct{}),
		exportAllSources: make(map[string]struct{}),
		exports:          make(map[string]struct{}),
		exportsAll:       make(map[string]string),
		resolvedIDs:      make(map[string]ResolvedID),
		ready:            make(chan struct{}),
	}
}

// MarkReady closes the ready channel, unblocking any concurrent fetch of
// the same id that is waiting on this module's load to finish. Safe to
// call more than once (only the first call closes the channel).
func (m *InternalModule) MarkReady() {
	m.mu.Lock()
	defer m.mu.Unlock()
	select {
	case <-m.ready:
	default:
		close(m.ready)
	}
}

// Ready returns the channel that closes once this module's load has
// finished, for a caller to select on alongside ctx.Done().
func (m *InternalModule) Ready() <-chan struct{} {
	return m.ready
}

// ExternalModule is a node left out of the bundle (spec.md §3).
type ExternalModule struct {
	ID                string
	ModuleSideEffects bool
}
