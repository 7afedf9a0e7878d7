// Package matcher implements spec.md §4.1, the id-matcher: compiling a
// user-supplied configuration value (boolean / list of literals and
// patterns / predicate function) into one uniform predicate.
//
// Grounded on evanw/esbuild's internal/config.ExternalMatchers (an
// Exact set plus a Patterns list, checked by resolver.isExternal) and
// on config.PluginAppliesToPath's filter-or-match-everything shape.
// Unlike the teacher's restricted prefix/suffix WildcardPattern, this
// spec calls for general regex patterns, so *regexp.Regexp is used
// directly — the teacher's own config.Options.MangleProps field is
// already a *regexp.Regexp, so this isn't reaching outside the
// teacher's own stdlib usage.
package matcher

import "regexp"

// Item is one entry of a list-shaped Config: either a literal string or
// a compiled regex pattern.
type Item struct {
	Literal string
	Pattern *regexp.Regexp
}

// Literal builds a literal-string list item.
func Literal(s string) Item { return Item{Literal: s} }

// Pattern builds a regex list item.
func Pattern(re *regexp.Regexp) Item { return Item{Pattern: re} }

// Func is the callable config shape: (id, importer, isResolved) -> bool.
type Func func(id, importer string, isResolved bool) bool

type kind uint8

const (
	kindFalsy kind = iota
	kindTrue
	kindFunc
	kindList
)

// Config is the uncompiled value a user supplied (V in spec.md §4.1).
type Config struct {
	kind kind
	fn   Func
	list []Item
}

// Always returns a Config that matches everything ("V = true").
func Always() Config { return Config{kind: kindTrue} }

// Never returns a Config that matches nothing ("V is falsy").
func Never() Config { return Config{kind: kindFalsy} }

// FromFunc wraps a predicate function.
func FromFunc(fn Func) Config {
	if fn == nil {
		return Never()
	}
	return Config{kind: kindFunc, fn: fn}
}

// FromList wraps a list of literals and/or patterns. An empty list is
// equivalent to Never().
func FromList(items ...Item) Config {
	if len(items) == 0 {
		return Never()
	}
	return Config{kind: kindList, list: items}
}

// Matcher is the compiled predicate: (id, importer, isResolved) -> bool.
type Matcher struct {
	cfg     Config
	literal map[string]struct{}
	pattern []*regexp.Regexp
}

// Compile turns a Config into a ready-to-use Matcher. Pure and safe to
// share across goroutines once built.
func Compile(cfg Config) Matcher {
	m := Matcher{cfg: cfg}
	if cfg.kind == kindList {
		m.literal = make(map[string]struct{}, len(cfg.list))
		for _, it := range cfg.list {
			if it.Pattern != nil {
				m.pattern = append(m.pattern, it.Pattern)
			} else {
				m.literal[it.Literal] = struct{}{}
			}
		}
	}
	return m
}

// isSynthetic reports whether id starts with the NUL byte, marking a
// plugin-private virtual module that must never reach user predicates
// (spec.md §3 "Specifier").
func isSynthetic(id string) bool {
	return len(id) > 0 && id[0] == 0
}

// Match evaluates the compiled predicate against one (id, importer,
// isResolved) triple.
func (m Matcher) Match(id, importer string, isResolved bool) bool {
	switch m.cfg.kind {
	case kindTrue:
		return true
	case kindFunc:
		if isSynthetic(id) {
			return false
		}
		return m.cfg.fn(id, importer, isResolved)
	case kindList:
		if _, ok := m.literal[id]; ok {
			return true
		}
		for _, re := range m.pattern {
			if re.MatchString(id) {
				return true
			}
		}
		return false
	default: // kindFalsy
		return false
	}
}

// HasAny reports whether this matcher could ever return true (i.e. the
// config wasn't falsy/empty). Used by callers who only need to know
// "is there any external configuration at all" without a concrete id.
func (m Matcher) HasAny() bool {
	switch m.cfg.kind {
	case kindTrue, kindFunc:
		return true
	case kindList:
		return len(m.literal) > 0 || len(m.pattern) > 0
	default:
		return false
	}
}
