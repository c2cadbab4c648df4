package choixe

import (
	"sort"
	"testing"
)

func compileAndProcessOne(t *testing.T, tree Tree, ctx *Map) Tree {
	t.Helper()

	node, err := Compile(tree, "")
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	out, err := ProcessOne(node, Options{Context: ctx})
	if err != nil {
		t.Fatalf("ProcessOne: %v", err)
	}

	return out
}

func TestProcessPureDataIsIdentity(t *testing.T) {
	m := NewMap()
	m.Put("a", int64(1))
	m.Put("b", "plain string")

	out := compileAndProcessOne(t, m, nil)

	om, ok := out.(*Map)
	if !ok {
		t.Fatalf("unexpected output: %+v", out)
	}

	v, _ := om.Get("a")
	if v != int64(1) {
		t.Fatalf("unexpected value: %v", v)
	}
}

func TestProcessVarDefault(t *testing.T) {
	out := compileAndProcessOne(t, "$var(missing.key, default=42)", nil)
	if out != int64(42) {
		t.Fatalf("expected default 42, got %v", out)
	}
}

func TestProcessVarUnresolvedFails(t *testing.T) {
	node, err := Compile("$var(missing.key)", "")
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	if _, err := ProcessOne(node, Options{}); err == nil {
		t.Fatal("expected unresolved variable error")
	}
}

func TestProcessVarResolvesFromContext(t *testing.T) {
	ctx := NewMap()
	ctx.Put("name", "world")

	out := compileAndProcessOne(t, "hello $var(name)", ctx)
	if out != "hello world" {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestProcessVarEnvFallback(t *testing.T) {
	t.Setenv("CHOIXE_TEST_HOST", "h1")

	out := compileAndProcessOne(t, `$var(CHOIXE_TEST_HOST, default="localhost", env=true)`, nil)
	if out != "h1" {
		t.Fatalf("expected env value, got %v", out)
	}
}

func TestProcessVarEnvFallsBackToDefault(t *testing.T) {
	out := compileAndProcessOne(t, `$var(CHOIXE_TEST_MISSING, default="localhost", env=true)`, nil)
	if out != "localhost" {
		t.Fatalf("expected default value, got %v", out)
	}
}

func TestProcessSweepCardinality(t *testing.T) {
	node, err := Compile("$sweep(1, 2, 3)", "")
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	alts, err := Process(node, Options{})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	if len(alts) != 3 {
		t.Fatalf("expected 3 alternatives, got %d", len(alts))
	}
}

func TestProcessSweepCartesianAcrossMapEntries(t *testing.T) {
	m := NewMap()
	m.Put("a", "$sweep(1, 2)")
	m.Put("b", "$sweep('x', 'y')")

	node, err := Compile(m, "")
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	alts, err := Process(node, Options{})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	if len(alts) != 4 {
		t.Fatalf("expected 4 alternatives, got %d", len(alts))
	}
}

func TestProcessSweepCollapsesUnderProcessOne(t *testing.T) {
	out := compileAndProcessOne(t, "$sweep(1, 2, 3)", nil)
	if out != int64(1) {
		t.Fatalf("expected first sweep option, got %v", out)
	}
}

func TestProcessForOverSequence(t *testing.T) {
	ctx := NewMap()
	ctx.Put("items", []any{int64(1), int64(2), int64(3)})

	m := NewMap()
	m.Put("$for(items, x)", "$item(x)")

	node, err := Compile(m, "")
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	out, err := ProcessOne(node, Options{Context: ctx})
	if err != nil {
		t.Fatalf("ProcessOne: %v", err)
	}

	seq, ok := out.([]any)
	if !ok || len(seq) != 3 {
		t.Fatalf("unexpected output: %+v", out)
	}

	if seq[0] != int64(1) || seq[2] != int64(3) {
		t.Fatalf("unexpected sequence values: %+v", seq)
	}
}

func TestProcessForOverMapMergesLastWriterWins(t *testing.T) {
	ctx := NewMap()
	ctx.Put("items", []any{int64(1), int64(2)})

	inner := NewMap()
	inner.Put("k", "$item(x)")

	outer := NewMap()
	outer.Put("$for(items, x)", inner)

	node, err := Compile(outer, "")
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	out, err := ProcessOne(node, Options{Context: ctx})
	if err != nil {
		t.Fatalf("ProcessOne: %v", err)
	}

	om, ok := out.(*Map)
	if !ok {
		t.Fatalf("unexpected output: %+v", out)
	}

	v, _ := om.Get("k")
	if v != int64(2) {
		t.Fatalf("expected last iteration to win, got %v", v)
	}
}

func TestProcessForEmptyIterableYieldsIdentity(t *testing.T) {
	ctx := NewMap()
	ctx.Put("items", []any{})

	m := NewMap()
	m.Put("$for(items, x)", "$item(x)")

	out := compileAndProcessOne(t, m, ctx)

	seq, ok := out.([]any)
	if !ok || len(seq) != 0 {
		t.Fatalf("expected empty sequence identity, got %+v", out)
	}
}

func TestProcessImportInlinesDocument(t *testing.T) {
	child := NewMap()
	child.Put("greeting", "hi")

	node, err := Compile(`$import("child.yaml")`, "")
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	out, err := ProcessOne(node, Options{Loader: fakeLoader{"child.yaml": child}})
	if err != nil {
		t.Fatalf("ProcessOne: %v", err)
	}

	om, ok := out.(*Map)
	if !ok {
		t.Fatalf("unexpected output: %+v", out)
	}

	v, _ := om.Get("greeting")
	if v != "hi" {
		t.Fatalf("unexpected greeting: %v", v)
	}
}

func TestProcessImportCycleFails(t *testing.T) {
	loader := fakeLoader{"self.yaml": `$import("self.yaml")`}

	node, err := Compile(`$import("self.yaml")`, "")
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	if _, err := ProcessOne(node, Options{Loader: loader}); err == nil {
		t.Fatal("expected import cycle error")
	}
}

func TestProcessCallInvokesSymbol(t *testing.T) {
	args := NewMap()
	args.Put("scale", int64(2))

	m := NewMap()
	m.Put("$call", "double")
	m.Put("$args", args)

	node, err := Compile(m, "")
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	out, err := ProcessOne(node, Options{Resolver: fakeResolver{}})
	if err != nil {
		t.Fatalf("ProcessOne: %v", err)
	}

	op, ok := out.(Opaque)
	if !ok || op.Value != int64(4) {
		t.Fatalf("unexpected output: %+v", out)
	}
}

func TestProcessModelRequiresModelSymbol(t *testing.T) {
	m := NewMap()
	m.Put("$model", "double")

	node, err := Compile(m, "")
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	if _, err := ProcessOne(node, Options{Resolver: fakeResolver{}}); err == nil {
		t.Fatal("expected not-a-model error")
	}
}

func TestInspectFindsExternalDependencies(t *testing.T) {
	m := NewMap()
	m.Put("a", "$var(name, default=1)")
	m.Put("b", "$sweep(1, 2)")
	m.Put("c", `$import("other.yaml")`)

	node, err := Compile(m, "")
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	insp := Inspect(node)

	if len(insp.Variables) != 1 || insp.Variables[0].ID != "name" {
		t.Fatalf("unexpected variables: %+v", insp.Variables)
	}

	if insp.Sweeps != 1 {
		t.Fatalf("unexpected sweep count: %d", insp.Sweeps)
	}

	if len(insp.Imports) != 1 || insp.Imports[0] != "other.yaml" {
		t.Fatalf("unexpected imports: %+v", insp.Imports)
	}
}

func TestMapKeyOrderPreserved(t *testing.T) {
	m := NewMap()
	m.Put("z", int64(1))
	m.Put("a", int64(2))
	m.Put("m", int64(3))

	out := compileAndProcessOne(t, m, nil)

	om := out.(*Map)

	got := om.Keys()

	want := []string{"z", "a", "m"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("keys out of order: %+v", got)
		}
	}

	sorted := append([]string(nil), got...)
	sort.Strings(sorted)

	if sorted[0] != "a" {
		t.Fatalf("sanity check failed: %+v", sorted)
	}
}

type fakeLoader map[string]Tree

func (f fakeLoader) Load(path string) (Tree, error) {
	m, ok := f[path]
	if !ok {
		return nil, ErrImportNotFound.With(fieldPath(path))
	}

	return m, nil
}

type fakeResolver struct{}

func (fakeResolver) Resolve(name string) (Symbol, error) {
	switch name {
	case "double":
		return doubleSymbol{}, nil
	default:
		return nil, ErrSymbolResolutionFailed.With(fieldSymbol(name))
	}
}

type doubleSymbol struct{}

func (doubleSymbol) Call(args *Map) (any, error) {
	v, _ := args.Get("scale")

	n, _ := v.(int64)

	return n * 2, nil
}
