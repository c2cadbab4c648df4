package choixe

import "testing"

func TestInspectVariable(t *testing.T) {
	node, err := Compile("$var(a.b, default=1)", "")
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	insp := Inspect(node)

	if !insp.Processed {
		t.Error("Processed = false, want true")
	}

	if len(insp.Variables) != 1 || insp.Variables[0].ID != "a.b" {
		t.Fatalf("unexpected variables: %+v", insp.Variables)
	}
}

func TestInspectUnprocessedLiteral(t *testing.T) {
	node, err := Compile("plain text", "")
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	insp := Inspect(node)

	if insp.Processed {
		t.Error("Processed = true, want false for a directive-free tree")
	}
}

func TestInspectForRecordsIterable(t *testing.T) {
	m := NewMap()
	m.Put("$for(p.cs, x)", "$item")

	node, err := Compile(m, "")
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	insp := Inspect(node)

	if !insp.Processed {
		t.Error("Processed = false, want true")
	}

	if len(insp.Loops) != 1 {
		t.Fatalf("unexpected loops: %+v", insp.Loops)
	}

	var found bool

	for _, v := range insp.Variables {
		if v.ID == "p.cs" {
			found = true
		}
	}

	if !found {
		t.Fatalf("expected p.cs among variables, got %+v", insp.Variables)
	}
}
