package choixe

import "testing"

func TestParseArgsPositionalAndKeyword(t *testing.T) {
	call, err := parseArgs("var", `foo.bar, default="hi", env=true`)
	if err != nil {
		t.Fatalf("parseArgs: %v", err)
	}

	if len(call.Args) != 1 || call.Args[0].Kind != ArgIdent || call.Args[0].Ident != "foo.bar" {
		t.Fatalf("unexpected positional args: %+v", call.Args)
	}

	def, ok := call.Kwargs["default"]
	if !ok || def.Value != "hi" {
		t.Fatalf("unexpected default kwarg: %+v", def)
	}

	env, ok := call.Kwargs["env"]
	if !ok || env.Value != true {
		t.Fatalf("unexpected env kwarg: %+v", env)
	}
}

func TestParseArgsRejectsPositionalAfterKeyword(t *testing.T) {
	if _, err := parseArgs("var", `default=1, foo.bar`); err == nil {
		t.Fatal("expected error for positional after keyword")
	}
}

func TestParseArgsRejectsDuplicateKeyword(t *testing.T) {
	if _, err := parseArgs("var", `foo, default=1, default=2`); err == nil {
		t.Fatal("expected error for duplicate keyword")
	}
}

func TestParseArgValueLiterals(t *testing.T) {
	cases := []struct {
		in   string
		want any
	}{
		{"true", true},
		{"FALSE", false},
		{"null", nil},
		{"42", int64(42)},
		{"-3.5", -3.5},
		{`"a\nb"`, "a\nb"},
		{"'quoted'", "quoted"},
	}

	for _, c := range cases {
		arg, err := parseArgValue(c.in)
		if err != nil {
			t.Errorf("parseArgValue(%q): %v", c.in, err)

			continue
		}

		if arg.Kind != ArgLiteral || arg.Value != c.want {
			t.Errorf("parseArgValue(%q) = %+v, want %v", c.in, arg, c.want)
		}
	}
}

func TestParseArgValueIdent(t *testing.T) {
	arg, err := parseArgValue("foo.bar")
	if err != nil {
		t.Fatalf("parseArgValue: %v", err)
	}

	if arg.Kind != ArgIdent || arg.Ident != "foo.bar" {
		t.Fatalf("unexpected argument: %+v", arg)
	}
}

func TestParseArgValueMalformedQuote(t *testing.T) {
	if _, err := parseArgValue(`"unterminated`); err == nil {
		t.Fatal("expected error for malformed quote")
	}
}

func TestSplitTopLevelRespectsQuotes(t *testing.T) {
	elems, err := splitTopLevel(`a, "b,c", d`)
	if err != nil {
		t.Fatalf("splitTopLevel: %v", err)
	}

	if len(elems) != 3 {
		t.Fatalf("expected 3 elements, got %+v", elems)
	}
}

func TestSplitAssignmentSkipsEscapedEquals(t *testing.T) {
	name, value, ok := splitAssignment(`default="a\=b"`)
	if !ok || name != "default" || value != `"a\=b"` {
		t.Fatalf("unexpected split: name=%q value=%q ok=%v", name, value, ok)
	}
}
