package sideeffects

import (
	"testing"

	"github.com/mangs/rollup/internal/matcher"
)

func TestBool(t *testing.T) {
	p := NewPolicy(Bool(false), matcher.Never())
	if p.SideEffects("x", false) {
		t.Fatal("expected false")
	}
}

func TestNoExternal(t *testing.T) {
	p := NewPolicy(NoExternal(), matcher.Never())
	if !p.SideEffects("x", false) {
		t.Fatal("internal should be side-effectful")
	}
	if p.SideEffects("x", true) {
		t.Fatal("external should not be side-effectful")
	}
}

func TestFuncSyntheticOverride(t *testing.T) {
	p := NewPolicy(FromFunc(func(id string, external bool) bool { return false }), matcher.Never())
	if !p.SideEffects("\x00virtual:x", false) {
		t.Fatal("synthetic modules must be pessimistically side-effectful")
	}
	if p.SideEffects("x", false) {
		t.Fatal("expected func result to be honored for non-synthetic ids")
	}
}

func TestDefaultFallsBackToPureExternals(t *testing.T) {
	pure := matcher.FromList(matcher.Literal("lodash"))
	p := NewPolicy(Default(), pure)
	if p.SideEffects("lodash", true) {
		t.Fatal("pure external should be side-effect free")
	}
	if !p.SideEffects("left-pad", true) {
		t.Fatal("non-pure external should default to side-effectful")
	}
	if !p.SideEffects("./local", false) {
		t.Fatal("internal modules always default to side-effectful")
	}
}

func TestFromRawInvalidFallsBackToDefault(t *testing.T) {
	var got *InvalidWarning
	cfg := FromRaw(42, func(w InvalidWarning) { got = &w })
	if cfg.kind != kindDefault {
		t.Fatal("expected fallback to Default()")
	}
	if got == nil {
		t.Fatal("expected an invalid-option warning")
	}
}
