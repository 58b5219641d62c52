package server

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sambeau/nujelmode/pkg/nujel/highlight"
)

func TestBuilderRenders(t *testing.T) {
	b := NewBuilder(nil, nil, false)
	tests := []struct {
		name string
		want bool
	}{
		{"main.nuj", true},
		{"README.md", true},
		{"NOTES.MD", true},
		{"style.css", false},
		{"main.nuj.bak", false},
	}
	for _, tt := range tests {
		if got := b.Renders(tt.name); got != tt.want {
			t.Errorf("Renders(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
	if _, err := b.Render("style.css", nil); err == nil {
		t.Error("expected error rendering an unsupported file")
	}
}

func TestBuildFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "fib.nuj")
	if err := os.WriteFile(src, []byte("(defn fib (n)\n  (+ n 1))\n"), 0644); err != nil {
		t.Fatal(err)
	}

	plain, _ := highlight.LookupTheme("plain")
	b := NewBuilder(highlight.New(nil, 4), plain, true)
	out, err := b.BuildFile(src)
	if err != nil {
		t.Fatalf("BuildFile failed: %v", err)
	}
	if out != filepath.Join(dir, "fib.html") {
		t.Errorf("unexpected output path %q", out)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	page := string(data)
	for _, want := range []string{
		"<title>fib.nuj</title>",
		`<pre class="nujel cm-s-plain">`,
		`<span class="cm-builtin">defn</span>`,
		`<span class="cm-linenumber">2 </span>`,
	} {
		if !strings.Contains(page, want) {
			t.Errorf("page missing %q", want)
		}
	}

	if _, err := b.BuildFile(filepath.Join(dir, "missing.nuj")); err == nil {
		t.Error("expected error for missing source")
	}
}

func TestOutputPath(t *testing.T) {
	tests := map[string]string{
		"a/b.nuj":   "a/b.html",
		"README.md": "README.html",
		"noext":     "noext.html",
	}
	for in, want := range tests {
		if got := OutputPath(in); got != want {
			t.Errorf("OutputPath(%q) = %q, want %q", in, got, want)
		}
	}
}
