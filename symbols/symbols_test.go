package symbols

import (
	"runtime"
	"testing"

	"github.com/ardnew/choixe/choixe"
)

func TestResolveBuiltin(t *testing.T) {
	r := NewRegistry()

	sym, err := r.Resolve("path.join")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	args := choixe.NewMap()
	args.Put("parts", []any{"a", "b", "c"})

	out, err := sym.Call(args)
	if err != nil {
		t.Fatalf("Call: %v", err)
	}

	want := "a/b/c"
	if runtime.GOOS == "windows" {
		want = `a\b\c`
	}

	if out != want {
		t.Fatalf("unexpected result: %v", out)
	}
}

func TestResolveUnknownFails(t *testing.T) {
	r := NewRegistry()

	if _, err := r.Resolve("nope"); err == nil {
		t.Fatal("expected error for unknown symbol")
	}
}

func TestRegisterCustomSymbol(t *testing.T) {
	r := NewRegistry()
	r.Register("custom.echo", Func(func(args *choixe.Map) (any, error) {
		v, _ := args.Get("value")

		return v, nil
	}))

	sym, err := r.Resolve("custom.echo")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	args := choixe.NewMap()
	args.Put("value", int64(9))

	out, err := sym.Call(args)
	if err != nil {
		t.Fatalf("Call: %v", err)
	}

	if out != int64(9) {
		t.Fatalf("unexpected result: %v", out)
	}
}

func TestModelSymbolIsModel(t *testing.T) {
	m := Model{Func: func(*choixe.Map) (any, error) { return nil, nil }}

	if !m.IsModel() {
		t.Fatal("expected IsModel to report true")
	}
}
