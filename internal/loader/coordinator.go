package loader

import (
	"context"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/mangs/rollup/internal/graph"
	"github.com/mangs/rollup/internal/logger"
	"github.com/mangs/rollup/internal/resolver"
)

// EntryInput is one user-declared entry point (spec.md §4.7).
type EntryInput struct {
	Specifier string
	FileName  string
	Name      string
}

// entryRecord is spec.md §3's EntryRecord, plus the module pointer so
// EntryModules() doesn't need a second registry lookup.
type entryRecord struct {
	Index  int
	Module *graph.InternalModule
}

// AddEntryModulesResult is the return value of Coordinator.AddEntryModules
// (spec.md §4.7).
type AddEntryModulesResult struct {
	EntryModules              []*graph.InternalModule
	ManualChunkModulesByAlias map[string][]*graph.InternalModule
	NewEntryModules           []*graph.InternalModule
}

// Coordinator implements spec.md §4.7 (entry coordinator) and §4.8
// (batch quiescence). Grounded on evanw/esbuild's bundler.scanner's
// "reserve indices, resolve concurrently, stitch back in submission
// order" shape in addEntryPoints, generalized to spec.md's batch API
// (esbuild has no batching: one ScanBundle call is one shot, so the
// index-range reservation and the merge-or-append-by-minimum-index rule
// below are new logic grounded directly in spec.md rather than the
// teacher).
type Coordinator struct {
	loader *Loader

	batchMu   sync.Mutex
	nextIndex int
	latest    chan struct{}

	recMu       sync.Mutex
	entriesByID map[string]*entryRecord

	manualMu     sync.Mutex
	manualChunks map[string][]*graph.InternalModule
}

func NewCoordinator(loader *Loader) *Coordinator {
	return &Coordinator{
		loader:       loader,
		entriesByID:  make(map[string]*entryRecord),
		manualChunks: make(map[string][]*graph.InternalModule),
	}
}

// loadEntryModule implements spec.md §4.7 step 2's per-entry resolution.
func (c *Coordinator) loadEntryModule(ctx context.Context, specifier string, isEntry bool) (*graph.InternalModule, bool, error) {
	resolved, err := c.loader.Resolver.Resolve(ctx, specifier, "", resolver.SkipOption{})
	if err != nil {
		return nil, false, err
	}
	if resolved == nil {
		return nil, false, logger.NewError(logger.UnresolvedEntry, specifier,
			"Could not resolve entry module %q", specifier)
	}
	if resolved.External {
		return nil, false, logger.NewError(logger.EntryCannotBeExternal, resolved.ID,
			"Entry module %q cannot be external", resolved.ID)
	}
	module, created, err := c.loader.fetchModule(ctx, resolved.ID, "", resolved.ModuleSideEffects, resolved.SyntheticNamedExports, isEntry)
	if err != nil {
		return nil, false, err
	}
	return module, created, nil
}

// upsertEntry implements spec.md §4.7 step 3's last bullet: insert a new
// EntryRecord, or lower an existing one's index to the minimum of old
// and new (spec.md §3 "EntryRecord").
func (c *Coordinator) upsertEntry(module *graph.InternalModule, idx int) {
	c.recMu.Lock()
	defer c.recMu.Unlock()
	if rec, ok := c.entriesByID[module.ID]; ok {
		if idx < rec.Index {
			rec.Index = idx
		}
		return
	}
	c.entriesByID[module.ID] = &entryRecord{Index: idx, Module: module}
}

// EntryModules returns the entry list sorted by index (spec.md §4.7
// step 4).
func (c *Coordinator) EntryModules() []*graph.InternalModule {
	c.recMu.Lock()
	recs := make([]entryRecord, 0, len(c.entriesByID))
	for _, r := range c.entriesByID {
		recs = append(recs, *r)
	}
	c.recMu.Unlock()

	sort.Slice(recs, func(i, j int) bool { return recs[i].Index < recs[j].Index })
	out := make([]*graph.InternalModule, len(recs))
	for i, r := range recs {
		out[i] = r.Module
	}
	return out
}

// AddEntryModules implements spec.md §4.7's addEntryModules operation.
func (c *Coordinator) AddEntryModules(ctx context.Context, inputs []EntryInput, isUserDefined bool) (*AddEntryModulesResult, error) {
	c.batchMu.Lock()
	prev := c.latest
	done := make(chan struct{})
	joined := make(chan struct{})
	c.latest = joined
	firstIdx := c.nextIndex
	c.nextIndex += len(inputs)
	c.batchMu.Unlock()

	// Batch quiescence (spec.md §4.8): replace L with join(newBatch, L).
	// joined only closes once both this batch's own work (done) and
	// whatever was previously in flight (prev) have finished, so Await()
	// transitively waits for every batch regardless of when it started.
	go func() {
		if prev != nil {
			<-prev
		}
		<-done
		close(joined)
	}()
	defer close(done)

	g, gctx := errgroup.WithContext(ctx)
	modules := make([]*graph.InternalModule, len(inputs))
	created := make([]bool, len(inputs))
	for i, input := range inputs {
		i, input := i, input
		g.Go(func() error {
			module, wasCreated, err := c.loadEntryModule(gctx, input.Specifier, true)
			if err != nil {
				return err
			}
			modules[i] = module
			created[i] = wasCreated
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := &AddEntryModulesResult{}
	for i, input := range inputs {
		module := modules[i]
		if isUserDefined {
			module.MarkUserDefinedEntryPoint()
		}
		if input.FileName != "" {
			module.AddChunkFileName(input.FileName)
		} else if input.Name != "" {
			module.SetChunkNameIfUnset(input.Name)
			if isUserDefined {
				module.AddUserChunkName(input.Name)
			}
		}
		c.upsertEntry(module, firstIdx+i)
		if created[i] {
			result.NewEntryModules = append(result.NewEntryModules, module)
		}
	}

	result.EntryModules = c.EntryModules()
	result.ManualChunkModulesByAlias = c.manualChunkSnapshot()
	return result, nil
}

// Await implements spec.md §4.8's polling loop: snapshot L, wait for it,
// retry if a newer batch replaced it in the meantime, expressed as a
// loop rather than recursion per spec.md §9.
func (c *Coordinator) Await() {
	for {
		c.batchMu.Lock()
		l := c.latest
		c.batchMu.Unlock()
		if l == nil {
			return
		}
		<-l
		c.batchMu.Lock()
		stable := c.latest == l
		c.batchMu.Unlock()
		if stable {
			return
		}
	}
}

func (c *Coordinator) manualChunkSnapshot() map[string][]*graph.InternalModule {
	c.manualMu.Lock()
	defer c.manualMu.Unlock()
	out := make(map[string][]*graph.InternalModule, len(c.manualChunks))
	for alias, modules := range c.manualChunks {
		copied := make([]*graph.InternalModule, len(modules))
		copy(copied, modules)
		out[alias] = copied
	}
	return out
}

// addModuleToManualChunk implements spec.md §4.7's operation of the same
// name. Re-assigning the same alias is a documented no-op (spec.md §8
// round-trip property); a different alias is the fatal
// CANNOT_ASSIGN_MODULE_TO_CHUNK error.
func (c *Coordinator) addModuleToManualChunk(alias string, module *graph.InternalModule) error {
	conflict, existing := module.SetManualChunkAlias(alias)
	if conflict {
		return logger.NewError(logger.CannotAssignModuleToChunk, module.ID,
			"Cannot assign %q to the %q chunk as it is already in the %q chunk", module.ID, alias, existing)
	}

	c.manualMu.Lock()
	defer c.manualMu.Unlock()
	for _, m := range c.manualChunks[alias] {
		if m.ID == module.ID {
			return nil
		}
	}
	c.manualChunks[alias] = append(c.manualChunks[alias], module)
	return nil
}

// AddManualChunks implements spec.md §4.7's addManualChunks operation:
// loads each id as a non-entry module and assigns it to alias.
func (c *Coordinator) AddManualChunks(ctx context.Context, chunks map[string][]string) error {
	type job struct {
		alias     string
		specifier string
	}
	var jobs []job
	for alias, specifiers := range chunks {
		for _, s := range specifiers {
			jobs = append(jobs, job{alias: alias, specifier: s})
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, j := range jobs {
		j := j
		g.Go(func() error {
			module, _, err := c.loadEntryModule(gctx, j.specifier, false)
			if err != nil {
				return err
			}
			return c.addModuleToManualChunk(j.alias, module)
		})
	}
	return g.Wait()
}

// ModuleInfo is the read-only view of a module spec.md §4.7's
// getModuleInfo exposes to a getManualChunk callback.
type ModuleInfo struct {
	ID                string
	IsEntry           bool
	ModuleSideEffects bool
	Importers         []string
}

// ManualChunkAPI is the `{getModuleIds, getModuleInfo}` object spec.md
// §4.7's assignManualChunks passes to the user function.
type ManualChunkAPI struct {
	GetModuleIDs  func() []string
	GetModuleInfo func(id string) (ModuleInfo, bool)
}

// GetManualChunkFunc is the user callback spec.md §4.7 names.
type GetManualChunkFunc func(id string, api ManualChunkAPI) string

// AssignManualChunks implements spec.md §4.7's assignManualChunks
// operation.
func (c *Coordinator) AssignManualChunks(fn GetManualChunkFunc) error {
	modules := c.loader.Registry.InternalModules()
	sort.Slice(modules, func(i, j int) bool { return modules[i].ID < modules[j].ID })

	byID := make(map[string]*graph.InternalModule, len(modules))
	ids := make([]string, len(modules))
	for i, m := range modules {
		byID[m.ID] = m
		ids[i] = m.ID
	}

	api := ManualChunkAPI{
		GetModuleIDs: func() []string {
			out := make([]string, len(ids))
			copy(out, ids)
			return out
		},
		GetModuleInfo: func(id string) (ModuleInfo, bool) {
			m, ok := byID[id]
			if !ok {
				return ModuleInfo{}, false
			}
			return ModuleInfo{
				ID:                m.ID,
				IsEntry:           m.IsEntryPoint(),
				ModuleSideEffects: m.ModuleSideEffects(),
				Importers:         m.Importers(),
			}, true
		},
	}

	for _, m := range modules {
		alias := fn(m.ID, api)
		if alias == "" {
			continue
		}
		if err := c.addModuleToManualChunk(alias, m); err != nil {
			return err
		}
	}
	return nil
}
