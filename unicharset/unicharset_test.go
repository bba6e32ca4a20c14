package unicharset

import "testing"

func TestAddOrGetIsStable(t *testing.T) {
	u := New()
	id1 := u.AddOrGet("a")
	id2 := u.AddOrGet("a")
	if id1 != id2 {
		t.Fatalf("AddOrGet() not idempotent: %v != %v", id1, id2)
	}
	id3 := u.AddOrGet("b")
	if id3 == id1 {
		t.Fatalf("distinct strings got the same id")
	}
}

func TestAttrsClassification(t *testing.T) {
	u := New()
	idDigit := u.AddOrGet("7")
	idAlpha := u.AddOrGet("A")
	idPunct := u.AddOrGet(".")
	if !u.Attrs(idDigit).Digit {
		t.Fatalf("'7' not classified as digit")
	}
	if !u.Attrs(idAlpha).Alpha {
		t.Fatalf("'A' not classified as alpha")
	}
	if !u.Attrs(idPunct).Punct {
		t.Fatalf("'.' not classified as punct")
	}
}

func TestScriptClassification(t *testing.T) {
	if got := RuneScript('अ'); got != ScriptDevanagari {
		t.Fatalf("RuneScript(अ) = %v, want Devanagari", got)
	}
	if got := RuneScript('A'); got != ScriptLatin {
		t.Fatalf("RuneScript(A) = %v, want Latin", got)
	}
	if got := RuneScript('๐'); got != ScriptThai {
		t.Fatalf("RuneScript(Thai digit) = %v, want Thai", got)
	}
}

func TestIDOfUnknown(t *testing.T) {
	u := New()
	if id := u.IDOf("nope"); id != InvalidID {
		t.Fatalf("IDOf() on unknown string = %v, want InvalidID", id)
	}
}
