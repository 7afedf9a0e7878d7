package loader

import (
	"fmt"

	"github.com/mangs/rollup/internal/graph"
	"github.com/mangs/rollup/internal/logger"
)

// linkExports implements spec.md §4.6, the export linker. Grounded on
// nothing byte-for-byte in evanw/esbuild (esbuild defers "export *"
// resolution to its whole-bundle linker phase, not per-module during
// scan); shaped instead after the general "walk a dependency, merge
// namespace maps, warn on conflict" pattern evanw/esbuild's own
// internal/linker/linker.go uses for namespace-export merging, adapted
// here to run eagerly per module as spec.md §4.6 describes.
//
// Per spec.md §4.6's closing note, this reads a *snapshot* of each
// dependency's exportsAll: a dependency on the other side of a cycle may
// not be fully linked yet, and that is an accepted outcome of eager
// per-module linking, not a bug to work around.
func (l *Loader) linkExports(module *graph.InternalModule) {
	module.SeedOwnExportsIntoExportsAll()

	for _, source := range module.ExportAllSources() {
		resolved, ok := module.GetResolvedID(source)
		if !ok || resolved.External {
			continue
		}
		node := l.Registry.Get(resolved.ID)
		if node == nil || node.Kind != graph.KindInternal {
			continue
		}
		for name, definingModuleID := range node.Internal.ExportsAllSnapshot() {
			if conflict := module.TryAddExportAll(name, definingModuleID); conflict {
				l.Log.AddWarningID(logger.NamespaceConflict, module.ID, fmt.Sprintf(
					"%q re-exports %q from both itself (or an earlier source) and %q; keeping the first definition",
					module.ID, name, resolved.ID))
			}
		}
	}
}
