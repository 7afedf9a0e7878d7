package parser

import "testing"

func TestParseStaticImports(t *testing.T) {
	body := Parse(`
import a from "./a"
import { b } from "./b"
import "./c"
`)
	want := []string{"./a", "./b", "./c"}
	if len(body.Sources) != len(want) {
		t.Fatalf("got %v, want %v", body.Sources, want)
	}
	for i, s := range want {
		if body.Sources[i] != s {
			t.Fatalf("got %v, want %v", body.Sources, want)
		}
	}
}

func TestParseExportAll(t *testing.T) {
	body := Parse(`export * from "./x"`)
	if len(body.ExportAllSources) != 1 || body.ExportAllSources[0] != "./x" {
		t.Fatalf("got %v", body.ExportAllSources)
	}
	if len(body.Sources) != 1 || body.Sources[0] != "./x" {
		t.Fatalf("expected export * from to also register as a source, got %v", body.Sources)
	}
}

func TestParseExportNames(t *testing.T) {
	body := Parse(`
export const foo = 1
export function bar() {}
export { baz, qux as quux }
export default function() {}
`)
	want := map[string]bool{"foo": true, "bar": true, "baz": true, "quux": true, "default": true}
	if len(body.Exports) != len(want) {
		t.Fatalf("got %v", body.Exports)
	}
	for _, e := range body.Exports {
		if !want[e] {
			t.Fatalf("unexpected export %q in %v", e, body.Exports)
		}
	}
}

func TestParseDynamicImports(t *testing.T) {
	body := Parse(`
const a = import("./a")
const b = import(someExpr())
`)
	if len(body.DynamicImports) != 2 {
		t.Fatalf("got %v", body.DynamicImports)
	}
	if !body.DynamicImports[0].IsLiteral || body.DynamicImports[0].Literal != "./a" {
		t.Fatalf("expected literal dynamic import, got %+v", body.DynamicImports[0])
	}
	if body.DynamicImports[1].IsLiteral {
		t.Fatalf("expected non-literal dynamic import, got %+v", body.DynamicImports[1])
	}
}
