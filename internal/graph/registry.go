package graph

import (
	"sync"

	"github.com/mangs/rollup/internal/logger"
)

// Kind tags which of the two module variants a Node holds. Modeled as a
// tagged sum per spec.md §9 ("model as a tagged sum with shared header
// fields rather than an inheritance hierarchy"), the same shape
// evanw/esbuild uses for graph.InputFile's Repr (JSRepr vs CSSRepr).
type Kind uint8

const (
	KindInternal Kind = iota
	KindExternal
)

// Node is one entry of the Registry: exactly one of Internal/External is
// set, selected by Kind.
type Node struct {
	Kind     Kind
	Internal *InternalModule
	External *ExternalModule
}

// Registry is the process-wide id -> module mapping spec.md §3
// describes, with the at-most-one-instance-per-id invariant.
type Registry struct {
	mu    sync.Mutex
	nodes map[string]*Node
}

func NewRegistry() *Registry {
	return &Registry{nodes: make(map[string]*Node)}
}

// Get returns the existing node for id, or nil.
func (r *Registry) Get(id string) *Node {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.nodes[id]
}

// EnsureInternal implements the "insert placeholder before recursing"
// policy from spec.md §9: if id is already registered as an
// InternalModule, it is returned immediately with created=false so the
// caller never re-fetches or re-parses (spec.md §4.5). EnsureInternal
// itself never waits for the existing module's own load to finish;
// loader.fetchModule decides whether to wait on its Ready channel (it
// skips the wait only for a cyclic back-edge to an ancestor of the
// current fetch). If id is new, a module is allocated and stored under the
// lock before being returned, so a second concurrent caller is
// guaranteed to observe it.
func (r *Registry) EnsureInternal(id string) (module *InternalModule, created bool, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if node, ok := r.nodes[id]; ok {
		if node.Kind == KindExternal {
			return nil, false, logger.NewError(logger.InternalIDCannotBeExternal, id,
				"id %q was already resolved as external and cannot also be used as an internal module", id)
		}
		return node.Internal, false, nil
	}
	module = NewInternalModule(id)
	r.nodes[id] = &Node{Kind: KindInternal, Internal: module}
	return module, true, nil
}

// EnsureExternal registers id as external, or returns the existing
// ExternalModule. It is a fatal INTERNAL_ID_CANNOT_BE_EXTERNAL error
// (spec.md §4.5, §7) for an id that was previously registered as an
// InternalModule.
func (r *Registry) EnsureExternal(id string, sideEffects bool) (*ExternalModule, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if node, ok := r.nodes[id]; ok {
		if node.Kind == KindInternal {
			return nil, logger.NewError(logger.InternalIDCannotBeExternal, id,
				"id %q was already resolved as an internal module and cannot also be external", id)
		}
		return node.External, nil
	}
	external := &ExternalModule{ID: id, ModuleSideEffects: sideEffects}
	r.nodes[id] = &Node{Kind: KindExternal, External: external}
	return external, nil
}

// InternalModules returns every internal module currently registered,
// in no particular order; callers that need a deterministic order
// (spec.md §4.7 assignManualChunks) must sort the result themselves.
func (r *Registry) InternalModules() []*InternalModule {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*InternalModule, 0, len(r.nodes))
	for _, node := range r.nodes {
		if node.Kind == KindInternal {
			out = append(out, node.Internal)
		}
	}
	return out
}

// Len returns the total number of registered ids, internal and external.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.nodes)
}
