package repl

import (
	"bytes"
	"slices"
	"strings"
	"testing"

	"github.com/sambeau/nujelmode/pkg/nujel/mode"
)

func TestHandleTokenizesLine(t *testing.T) {
	var out bytes.Buffer
	s := NewSession(nil, nil, &out)

	if quit := s.Handle("(def x 5)"); quit {
		t.Fatal("Handle should not quit")
	}
	want := "bracket-0:( builtin:def variable:x number:5 bracket-0:)\n"
	if out.String() != want {
		t.Errorf("expected %q, got %q", want, out.String())
	}
}

func TestHandleQuotesTokensWithSpaces(t *testing.T) {
	var out bytes.Buffer
	s := NewSession(nil, nil, &out)
	s.Handle(`(display "hello world")`)
	if !strings.Contains(out.String(), `string:"\"hello world\""`) {
		t.Errorf("string token should be quoted, got %q", out.String())
	}
}

func TestPromptFollowsState(t *testing.T) {
	var out bytes.Buffer
	s := NewSession(nil, nil, &out)

	if s.Prompt() != PROMPT {
		t.Fatalf("fresh session should use %q, got %q", PROMPT, s.Prompt())
	}

	s.Handle("(defn f (x)")
	st := s.State()
	if st.TopLevel() {
		t.Fatal("form should still be open")
	}
	want := CONTINUATION_PROMPT + strings.Repeat(" ", mode.Indent(st))
	if s.Prompt() != want {
		t.Errorf("expected %q, got %q", want, s.Prompt())
	}
	if mode.Indent(st) == 0 {
		t.Error("continuation inside a form should be indented")
	}

	// exit inside an open form is just a symbol
	if s.Handle("  exit") {
		t.Error("exit inside an open form should not quit")
	}

	s.Handle("  (+ x 1))")
	if s.Prompt() != PROMPT {
		t.Errorf("closing the form should restore %q, got %q", PROMPT, s.Prompt())
	}
}

func TestPromptInsideString(t *testing.T) {
	var out bytes.Buffer
	s := NewSession(nil, nil, &out)
	s.Handle(`"open`)
	if s.State().Mode != mode.InString {
		t.Fatalf("expected string mode, got %s", s.State().Mode)
	}
	if !strings.HasPrefix(s.Prompt(), CONTINUATION_PROMPT) {
		t.Errorf("expected continuation prompt, got %q", s.Prompt())
	}
	// blank lines inside the string keep the state
	s.Handle("")
	if s.State().Mode != mode.InString {
		t.Error("blank line should not leave string mode")
	}
	s.Handle(`close"`)
	if s.Prompt() != PROMPT {
		t.Errorf("expected %q after closing the string, got %q", PROMPT, s.Prompt())
	}
}

func TestCommands(t *testing.T) {
	tests := []struct {
		name  string
		setup []string
		input string
		want  []string
	}{
		{"help", nil, ":help", []string{":state", ":reset", "exit, quit"}},
		{"state at top level", nil, ":state", []string{"mode: default", "depth: 0", "indent: 0"}},
		{"state in form", []string{"(let ((a 1)"}, ":state", []string{"mode: default", "depth: 2", "( at column"}},
		{"unknown", nil, ":bogus", []string{"Unknown command: :bogus"}},
		{"color", nil, ":color", []string{"Color output ON"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			s := NewSession(nil, nil, &out)
			for _, line := range tt.setup {
				s.Handle(line)
			}
			out.Reset()
			s.Handle(tt.input)
			for _, want := range tt.want {
				if !strings.Contains(out.String(), want) {
					t.Errorf("output missing %q:\n%s", want, out.String())
				}
			}
		})
	}
}

func TestCommandsInsideOpenForm(t *testing.T) {
	var out bytes.Buffer
	s := NewSession(nil, nil, &out)
	s.Handle("(car")
	before := s.State()

	out.Reset()
	s.Handle(":state")
	if !strings.Contains(out.String(), "depth: 1") {
		t.Errorf(":state should report the open form, got %q", out.String())
	}
	if !s.State().Equal(before) {
		t.Error(":state must not be tokenized into the form")
	}

	// other colon words are keywords inside the form
	out.Reset()
	s.Handle(":kw")
	if !strings.Contains(out.String(), "variable::kw") {
		t.Errorf("expected :kw tokenized, got %q", out.String())
	}
}

func TestReset(t *testing.T) {
	var out bytes.Buffer
	s := NewSession(nil, nil, &out)
	s.Handle("#| never closed")
	if s.State().Mode != mode.InBlockComment {
		t.Fatalf("expected block comment mode, got %s", s.State().Mode)
	}
	s.Handle("(a")
	s.Handle(":reset")
	if !s.State().Equal(mode.NewState()) {
		t.Error(":reset should restore the fresh state")
	}
	if !strings.Contains(out.String(), "State reset") {
		t.Errorf("expected confirmation, got %q", out.String())
	}
}

func TestQuit(t *testing.T) {
	for _, cmd := range []string{"exit", "quit", "  quit  "} {
		var out bytes.Buffer
		if !NewSession(nil, nil, &out).Handle(cmd) {
			t.Errorf("%q should quit", cmd)
		}
		if !strings.Contains(out.String(), "Goodbye!") {
			t.Errorf("%q: expected goodbye, got %q", cmd, out.String())
		}
	}
}

func TestColorOutput(t *testing.T) {
	var out bytes.Buffer
	s := NewSession(nil, nil, &out)
	s.SetColor(true)
	s.Handle("(def x 5)")
	got := out.String()
	if !strings.Contains(got, "\x1b[") || !strings.HasSuffix(got, "\n") {
		t.Errorf("expected ANSI colored line, got %q", got)
	}
	if !strings.Contains(got, "def") {
		t.Errorf("colored output should keep the text, got %q", got)
	}
}

func TestComplete(t *testing.T) {
	s := NewSession(nil, nil, &bytes.Buffer{})

	tests := []struct {
		name    string
		line    string
		want    string
		wantNil bool
	}{
		{"head position", "(disp", "(display", false},
		{"later word", "(car l) (cd", "(car l) (cdr", false},
		{"empty", "", "", true},
		{"after space", "(car ", "", true},
		{"no match", "(zzzzqq", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.Complete(tt.line)
			if tt.wantNil {
				if got != nil {
					t.Errorf("expected no completions, got %v", got)
				}
				return
			}
			if !slices.Contains(got, tt.want) {
				t.Errorf("expected %q among %v", tt.want, got)
			}
			for _, c := range got {
				if !strings.HasPrefix(c, tt.line) {
					t.Errorf("completion %q should extend the line", c)
				}
			}
		})
	}
}
