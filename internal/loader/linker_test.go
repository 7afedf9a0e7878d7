package loader

import (
	"context"
	"testing"

	"github.com/mangs/rollup/internal/logger"
)

func TestExportAllConflictWarns(t *testing.T) {
	l, log := newTestLoader(map[string]string{
		"/y": `
export * from "./x"
export const foo = 1
`,
		"/x": `export const foo = 1`,
	}, nil)

	moduleY, _, err := l.fetchModule(context.Background(), "/y", "", true, false, true)
	if err != nil {
		t.Fatal(err)
	}
	msgs := log.Done()

	all := moduleY.ExportsAllSnapshot()
	if all["foo"] != moduleY.ID {
		t.Fatalf("own export must win over export * source, got %v", all)
	}
	found := false
	for _, m := range msgs {
		if m.ID == logger.NamespaceConflict {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a NAMESPACE_CONFLICT warning, got %+v", msgs)
	}
}

func TestExportAllChainNoConflict(t *testing.T) {
	l, log := newTestLoader(map[string]string{
		"/z": `export * from "./y"`,
		"/y": `export const bar = 1`,
	}, nil)

	moduleZ, _, err := l.fetchModule(context.Background(), "/z", "", true, false, true)
	if err != nil {
		t.Fatal(err)
	}
	msgs := log.Done()

	all := moduleZ.ExportsAllSnapshot()
	if all["bar"] != "/y" {
		t.Fatalf("expected bar to be sourced from /y, got %v", all)
	}
	if logger.HasErrors(msgs) {
		t.Fatalf("unexpected errors: %+v", msgs)
	}
}
