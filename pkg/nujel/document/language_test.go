package document

import (
	"testing"

	"github.com/sambeau/nujelmode/pkg/nujel/mode"
)

func TestClosingPair(t *testing.T) {
	tests := []struct {
		open rune
		want rune
		ok   bool
	}{
		{'(', ')', true},
		{'[', ']', true},
		{'{', '}', true},
		{'"', '"', true},
		{'x', 0, false},
	}
	for _, tt := range tests {
		got, ok := Nujel.ClosingPair(tt.open)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ClosingPair(%q) = %q, %v", tt.open, got, ok)
		}
	}
}

func TestHasExtension(t *testing.T) {
	if !Nujel.HasExtension("lib/core.nuj") {
		t.Error(".nuj should match")
	}
	if Nujel.HasExtension("notes.md") {
		t.Error(".md should not match")
	}
}

func TestToggleComment(t *testing.T) {
	src := "  (a\n\n    b)\n(c)"
	d := New(nil, src)

	if err := d.ToggleComment(0, 2); err != nil {
		t.Fatal(err)
	}
	want := "  ;; (a\n\n  ;;   b)\n(c)"
	if d.Text() != want {
		t.Errorf("commented text = %q, want %q", d.Text(), want)
	}
	if d.Tokens(2)[1].Style.Class != mode.Comment {
		t.Errorf("line 2 tokens = %v", d.Tokens(2))
	}
	if !d.StateAt(3).TopLevel() {
		t.Error("commented form should leave the document at top level")
	}
	assertMatchesFresh(t, d)

	if err := d.ToggleComment(0, 2); err != nil {
		t.Fatal(err)
	}
	if d.Text() != src {
		t.Errorf("uncommented text = %q, want %q", d.Text(), src)
	}
	assertMatchesFresh(t, d)
}

func TestToggleCommentSkipsStrings(t *testing.T) {
	d := New(nil, "(a \"x\ny\")")
	if err := d.ToggleComment(0, 1); err != nil {
		t.Fatal(err)
	}
	if d.Text() != ";; (a \"x\ny\")" {
		t.Errorf("text = %q", d.Text())
	}
	if err := d.ToggleComment(0, 5); err == nil {
		t.Error("out of range line should fail")
	}
}
