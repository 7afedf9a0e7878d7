// Command rollup-core is a minimal driver over pkg/core: it wires a real
// filesystem and a small example plugin together, loads the module graph
// rooted at the given entry points, and reports what it found.
//
// It exists to exercise the library end to end (analogous to
// evanw/esbuild's cmd/esbuild), not to implement a real bundler CLI:
// there is no flag for output format, minification, or code splitting,
// because chunk assembly and code generation are out of scope for this
// core (see SPEC_FULL.md).
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/mangs/rollup/internal/plugin"
	"github.com/mangs/rollup/pkg/core"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: rollup-core <entry-point>...")
		os.Exit(1)
	}

	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "rollup-core:", err)
		os.Exit(1)
	}
}

// virtualPlugin demonstrates the resolveId/load hook shape by serving a
// single virtual module, "virtual:banner", without touching disk.
var virtualPlugin = plugin.Plugin{
	Name: "virtual",
	ResolveID: func(ctx context.Context, specifier, importer string, opts plugin.ResolveIDOptions) (plugin.ResolveIDResult, error) {
		if specifier == "virtual:banner" {
			return plugin.ResolveIDResult{IsSet: true, ID: specifier}, nil
		}
		return plugin.ResolveIDResult{}, nil
	},
	Load: func(ctx context.Context, id string) (plugin.LoadResult, error) {
		if id == "virtual:banner" {
			return plugin.LoadResult{IsSet: true, CodeIsString: true, Code: `export const banner = "built with rollup-core"`}, nil
		}
		return plugin.LoadResult{}, nil
	},
}

func run(entryPoints []string) error {
	g, err := core.Build(context.Background(), core.Options{
		EntryPoints: entryPoints,
		Plugins:     []plugin.Plugin{virtualPlugin},
	})
	if err != nil {
		return err
	}

	modules := g.Modules()
	fmt.Printf("%d modules loaded\n", len(modules))

	for _, m := range g.EntryModules() {
		fmt.Printf("entry %s: exports %v\n", m.ID, m.Exports())
	}

	for _, msg := range g.Warnings() {
		fmt.Fprintln(os.Stderr, msg.String())
	}

	return nil
}
