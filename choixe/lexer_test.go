package choixe

import "testing"

func TestLexPlain(t *testing.T) {
	toks, err := Lex("hello world")
	if err != nil {
		t.Fatalf("Lex: %v", err)
	}

	if len(toks) != 1 || toks[0].Kind != TokPlain || toks[0].Text != "hello world" {
		t.Fatalf("unexpected tokens: %+v", toks)
	}
}

func TestLexCompactDirective(t *testing.T) {
	toks, err := Lex("$item")
	if err != nil {
		t.Fatalf("Lex: %v", err)
	}

	if len(toks) != 1 || toks[0].Kind != TokDirective || toks[0].Name != "item" || toks[0].HasArgs {
		t.Fatalf("unexpected tokens: %+v", toks)
	}
}

func TestLexCallDirective(t *testing.T) {
	toks, err := Lex("$var(foo.bar, default=1)")
	if err != nil {
		t.Fatalf("Lex: %v", err)
	}

	if len(toks) != 1 {
		t.Fatalf("expected single token, got %+v", toks)
	}

	tok := toks[0]
	if tok.Name != "var" || !tok.HasArgs || tok.Arg != "foo.bar, default=1" {
		t.Fatalf("unexpected token: %+v", tok)
	}
}

func TestLexBundle(t *testing.T) {
	toks, err := Lex("prefix-$var(x)-suffix")
	if err != nil {
		t.Fatalf("Lex: %v", err)
	}

	if len(toks) != 3 {
		t.Fatalf("expected 3 tokens, got %d: %+v", len(toks), toks)
	}

	if toks[0].Kind != TokPlain || toks[1].Kind != TokDirective || toks[2].Kind != TokPlain {
		t.Fatalf("unexpected token kinds: %+v", toks)
	}
}

func TestLexUnterminatedCall(t *testing.T) {
	if _, err := Lex("$var(foo"); err == nil {
		t.Fatal("expected error for unterminated call")
	}
}

func TestLexUnsupportedNesting(t *testing.T) {
	if _, err := Lex("$var(foo(bar))"); err == nil {
		t.Fatal("expected error for nested parens")
	}
}

func TestLexQuotedParenIsNotNesting(t *testing.T) {
	toks, err := Lex(`$var(x, default="a(b)")`)
	if err != nil {
		t.Fatalf("Lex: %v", err)
	}

	if toks[0].Arg != `x, default="a(b)"` {
		t.Fatalf("unexpected arg text: %q", toks[0].Arg)
	}
}

func TestLexLoneDollar(t *testing.T) {
	toks, err := Lex("cost: $5")
	if err != nil {
		t.Fatalf("Lex: %v", err)
	}

	if len(toks) != 1 || toks[0].Kind != TokPlain || toks[0].Text != "cost: $5" {
		t.Fatalf("unexpected tokens: %+v", toks)
	}
}

func TestIsDottedIdentifier(t *testing.T) {
	cases := map[string]bool{
		"foo":         true,
		"foo.bar":     true,
		"foo.bar.baz": true,
		"":            false,
		"1foo":        false,
		"foo.":        false,
		".foo":        false,
		"foo..bar":    false,
	}

	for s, want := range cases {
		if got := isDottedIdentifier(s); got != want {
			t.Errorf("isDottedIdentifier(%q) = %v, want %v", s, got, want)
		}
	}
}
