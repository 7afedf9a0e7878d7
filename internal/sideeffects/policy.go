// Package sideeffects implements spec.md §4.2, the side-effect policy:
// deriving a (id, external) -> bool oracle from user options, with a
// pure-externals matcher fallback.
//
// Grounded on how evanw/esbuild's resolver attaches
// resolver.SideEffectsData to a ResolveResult from "sideEffects" in
// package.json plus plugin overrides (internal/resolver/package_json.go),
// generalized here to the four config shapes spec.md §4.2 names.
package sideeffects

import "github.com/mangs/rollup/internal/matcher"

// Func is the callable config shape.
type Func func(id string, external bool) bool

type kind uint8

const (
	kindDefault kind = iota // "otherwise" branch: policy.pureExternals decides
	kindBool
	kindNoExternal
	kindFunc
	kindList
)

// Config is the uncompiled moduleSideEffects option (spec.md §6).
type Config struct {
	kind kind
	b    bool
	fn   Func
	list []string
}

// Bool wraps a scalar boolean constant.
func Bool(b bool) Config { return Config{kind: kindBool, b: b} }

// NoExternal implements the "no-external" string shape: side-effectful
// unless the module is external.
func NoExternal() Config { return Config{kind: kindNoExternal} }

// FromFunc wraps a callable.
func FromFunc(fn Func) Config {
	if fn == nil {
		return Config{kind: kindDefault}
	}
	return Config{kind: kindFunc, fn: fn}
}

// FromList wraps an explicit id allowlist.
func FromList(ids ...string) Config {
	return Config{kind: kindList, list: ids}
}

// Default requests the fallback branch: for externals, consult a
// pure-externals matcher; for internals, always true.
func Default() Config { return Config{kind: kindDefault} }

// InvalidWarning is reported through OnInvalid when a Config cannot be
// honored and the policy falls back to Default() (spec.md §4.2
// "Invalid values are reported via a non-fatal warning").
type InvalidWarning struct {
	Reason string
}

// Policy is the compiled (id, external) -> bool oracle.
type Policy struct {
	cfg           Config
	pureExternals matcher.Matcher
}

// NewPolicy compiles cfg into a Policy. pureExternals backs the
// "otherwise" fallback branch.
func NewPolicy(cfg Config, pureExternals matcher.Config) Policy {
	return Policy{
		cfg:           cfg,
		pureExternals: matcher.Compile(pureExternals),
	}
}

// FromRaw decodes an untyped option value (as it would arrive from a
// config file or API boundary) into a Config, reporting InvalidOption
// through onInvalid and falling back to Default() for anything that
// doesn't match one of the four documented shapes.
func FromRaw(v interface{}, onInvalid func(InvalidWarning)) Config {
	switch value := v.(type) {
	case nil:
		return Default()
	case bool:
		return Bool(value)
	case string:
		if value == "no-external" {
			return NoExternal()
		}
		if onInvalid != nil {
			onInvalid(InvalidWarning{Reason: "moduleSideEffects: unrecognized string value " + value})
		}
		return Default()
	case Func:
		return FromFunc(value)
	case []string:
		return FromList(value...)
	default:
		if onInvalid != nil {
			onInvalid(InvalidWarning{Reason: "moduleSideEffects: unrecognized option type"})
		}
		return Default()
	}
}

func isSynthetic(id string) bool {
	return len(id) > 0 && id[0] == 0
}

// SideEffects evaluates the oracle for one (id, external) pair.
func (p Policy) SideEffects(id string, external bool) bool {
	switch p.cfg.kind {
	case kindBool:
		return p.cfg.b
	case kindNoExternal:
		return !external
	case kindFunc:
		// Synthetic modules are pessimistically assumed side-effectful,
		// overriding whatever the user callable would have said.
		if isSynthetic(id) {
			return true
		}
		return p.cfg.fn(id, external) != false
	case kindList:
		for _, item := range p.cfg.list {
			if item == id {
				return true
			}
		}
		return false
	default: // kindDefault, or an invalid config that fell through
		if external {
			return !p.pureExternals.Match(id, "", true)
		}
		return true
	}
}
