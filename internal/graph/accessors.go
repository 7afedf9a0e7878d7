package graph

import "sort"

// MarkEntryPoint implements "isEntryPoint |= isEntry" from spec.md §4.5
// and §4.7.
func (m *InternalModule) MarkEntryPoint(isEntry bool) {
	if !isEntry {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.isEntryPoint = true
}

func (m *InternalModule) IsEntryPoint() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.isEntryPoint
}

func (m *InternalModule) MarkUserDefinedEntryPoint() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.isUserDefinedEntryPoint = true
}

func (m *InternalModule) IsUserDefinedEntryPoint() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.isUserDefinedEntryPoint
}

// SetManualChunkAlias enforces invariant 4 from spec.md §3: once set to
// a non-null alias a, subsequent calls must pass the same a.
func (m *InternalModule) SetManualChunkAlias(alias string) (conflict bool, existing string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.manualChunkAlias != nil {
		if *m.manualChunkAlias != alias {
			return true, *m.manualChunkAlias
		}
		return false, *m.manualChunkAlias
	}
	m.manualChunkAlias = &alias
	return false, alias
}

func (m *InternalModule) ManualChunkAlias() (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.manualChunkAlias == nil {
		return "", false
	}
	return *m.manualChunkAlias, true
}

func (m *InternalModule) AddChunkFileName(name string) {
	if name == "" {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.chunkFileNames[name] = struct{}{}
}

// SetChunkNameIfUnset sets chunkName the first time it's called with a
// non-empty name; later calls are no-ops (spec.md §4.7 step 3: "set
// chunkName if still unset").
func (m *InternalModule) SetChunkNameIfUnset(name string) {
	if name == "" {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.chunkName == nil {
		m.chunkName = &name
	}
}

func (m *InternalModule) ChunkName() (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.chunkName == nil {
		return "", false
	}
	return *m.chunkName, true
}

func (m *InternalModule) AddUserChunkName(name string) {
	if name == "" {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.userChunkNames[name] = struct{}{}
}

// SetSources adds specifiers to the set of static-import specifiers
// parsed from the module body; existing entries are kept (use
// ReplaceParsedBody to replace the set).
func (m *InternalModule) SetSources(specifiers []string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range specifiers {
		m.sources[s] = struct{}{}
	}
}

func (m *InternalModule) Sources() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.sources))
	for s := range m.sources {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// AddDynamicImport appends a dynamic import record and returns a pointer
// to it so the caller can later fill in its Resolution.
func (m *InternalModule) AddDynamicImport(arg DynamicImportArgument) *DynamicImport {
	m.mu.Lock()
	defer m.mu.Unlock()
	d := &DynamicImport{Argument: arg}
	m.dynamicImports = append(m.dynamicImports, d)
	return d
}

func (m *InternalModule) DynamicImports() []*DynamicImport {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*DynamicImport, len(m.dynamicImports))
	copy(out, m.dynamicImports)
	return out
}

func (m *InternalModule) SetExportAllSources(specifiers []string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range specifiers {
		m.exportAllSources[s] = struct{}{}
	}
}

func (m *InternalModule) ExportAllSources() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.exportAllSources))
	for s := range m.exportAllSources {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// SetExports records the names the module declares itself.
func (m *InternalModule) SetExports(names []string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, n := range names {
		m.exports[n] = struct{}{}
	}
}

func (m *InternalModule) Exports() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.exports))
	for n := range m.exports {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// SeedOwnExportsIntoExportsAll implements export linker step 1
// (spec.md §4.6): every declared export other than "default" is its
// own defining source, unconditionally (invariant 5: exportsAll never
// contains "default" sourced from the module itself).
func (m *InternalModule) SeedOwnExportsIntoExportsAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for n := range m.exports {
		if n == "default" {
			continue
		}
		m.exportsAll[n] = m.ID
	}
}

// TryAddExportAll implements export linker step 2's per-name merge
// (spec.md §4.6): returns conflict=true (and leaves the existing
// mapping untouched) if name is already present.
func (m *InternalModule) TryAddExportAll(name, definingModuleID string) (conflict bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.exportsAll[name]; ok {
		return true
	}
	m.exportsAll[name] = definingModuleID
	return false
}

// ExportsAllSnapshot returns a copy of the current exportsAll map. Per
// spec.md §9, this may be read before the owning module is "fully
// linked" when the dependency graph is cyclic; the copy reflects
// whatever has been written so far.
func (m *InternalModule) ExportsAllSnapshot() map[string]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]string, len(m.exportsAll))
	for k, v := range m.exportsAll {
		out[k] = v
	}
	return out
}

// GetResolvedID implements memoization lookup for spec.md invariant 3.
func (m *InternalModule) GetResolvedID(specifier string) (ResolvedID, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.resolvedIDs[specifier]
	return r, ok
}

// SetResolvedIDOnce writes resolvedIDs[specifier] the first time it's
// called for that specifier and otherwise returns the value that won
// the race, never overwriting (spec.md invariant 3).
func (m *InternalModule) SetResolvedIDOnce(specifier string, r ResolvedID) ResolvedID {
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.resolvedIDs[specifier]; ok {
		return existing
	}
	m.resolvedIDs[specifier] = r
	return r
}

// SetModuleSideEffects sets the module's own side-effect flag, as seeded
// from the ResolvedID that first caused it to be fetched, or later
// overridden by a load() result that declares its own value (spec.md
// §4.4, §4.5).
func (m *InternalModule) SetModuleSideEffects(v bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.moduleSideEffects = v
}

func (m *InternalModule) ModuleSideEffects() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.moduleSideEffects
}

func (m *InternalModule) SetSyntheticNamedExports(v bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.syntheticNamedExports = v
}

func (m *InternalModule) SyntheticNamedExports() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.syntheticNamedExports
}

// SetOriginalCode records the most recently loaded source text, used by
// the cache-reconciliation check in spec.md §4.4 step 3.
func (m *InternalModule) SetOriginalCode(code string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.originalCode = code
	m.hasOriginalCode = true
}

// OriginalCode returns the previously recorded source text, if any.
func (m *InternalModule) OriginalCode() (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.originalCode, m.hasOriginalCode
}

// ReplaceParsedBody overwrites the sets derived from parsing — used both
// for a fresh parse and for replaying a cache hit (spec.md §4.4 step 3),
// where the new sets must fully replace rather than merge with whatever
// a stale prior parse left behind.
func (m *InternalModule) ReplaceParsedBody(sources, exportAllSources, exports []string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sources = make(map[string]struct{}, len(sources))
	for _, s := range sources {
		m.sources[s] = struct{}{}
	}
	m.exportAllSources = make(map[string]struct{}, len(exportAllSources))
	for _, s := range exportAllSources {
		m.exportAllSources[s] = struct{}{}
	}
	m.exports = make(map[string]struct{}, len(exports))
	for _, n := range exports {
		m.exports[n] = struct{}{}
	}
}

func addSorted(list []string, id string) []string {
	i := sort.SearchStrings(list, id)
	if i < len(list) && list[i] == id {
		return list
	}
	list = append(list, "")
	copy(list[i+1:], list[i:])
	list[i] = id
	return list
}

// AddImporter appends id to the importer list, keeping it sorted with
// no duplicates (spec.md invariant 2).
func (m *InternalModule) AddImporter(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.importers = addSorted(m.importers, id)
}

func (m *InternalModule) Importers() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.importers))
	copy(out, m.importers)
	return out
}

func (m *InternalModule) AddDynamicImporter(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dynamicImporters = addSorted(m.dynamicImporters, id)
}

func (m *InternalModule) DynamicImporters() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.dynamicImporters))
	copy(out, m.dynamicImporters)
	return out
}
