package loader

import (
	"github.com/mangs/rollup/internal/fetcher"
	"github.com/mangs/rollup/internal/fs"
	"github.com/mangs/rollup/internal/graph"
	"github.com/mangs/rollup/internal/logger"
	"github.com/mangs/rollup/internal/matcher"
	"github.com/mangs/rollup/internal/plugin"
	"github.com/mangs/rollup/internal/resolver"
	"github.com/mangs/rollup/internal/sideeffects"
)

func newTestLoader(files map[string]string, driver *plugin.Driver) (*Loader, logger.Log) {
	if driver == nil {
		driver = plugin.NewDriver()
	}
	memFS := fs.NewInMemory()
	for id, code := range files {
		memFS.Files[id] = code
	}
	res := resolver.New(resolver.Config{
		External:      matcher.Never(),
		SideEffects:   sideeffects.Default(),
		PureExternals: matcher.Never(),
	}, driver)
	fetch := fetcher.New(driver, memFS, nil)
	log := logger.NewLog()
	registry := graph.NewRegistry()
	return New(registry, res, fetch, driver, log), log
}

// newExternalOnlyResolver returns a resolver whose external matcher
// matches everything, for exercising the ENTRY_CANNOT_BE_EXTERNAL path.
func newExternalOnlyResolver() *resolver.Resolver {
	return resolver.New(resolver.Config{
		External:      matcher.Always(),
		SideEffects:   sideeffects.Default(),
		PureExternals: matcher.Never(),
	}, plugin.NewDriver())
}
