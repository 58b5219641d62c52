package mode

import "testing"

func TestCounter(t *testing.T) {
	var c Counter
	c.inc()
	if c.Active() || c.Depth() != 0 {
		t.Fatalf("inactive counter changed: %+v", c)
	}
	if c.dec() {
		t.Error("dec on an inactive counter reported zero")
	}

	c = startCounter()
	c.inc()
	c.inc()
	if c.Depth() != 2 {
		t.Errorf("Depth() = %d, want 2", c.Depth())
	}
	if c.dec() {
		t.Error("dec from 2 reported zero")
	}
	if !c.dec() {
		t.Error("dec from 1 should report zero")
	}
	if c.Active() {
		t.Error("counter should deactivate on reaching zero")
	}
}

func TestStateStack(t *testing.T) {
	st := NewState()
	if !st.TopLevel() {
		t.Fatal("new state should be at top level")
	}
	if _, ok := st.Top(); ok {
		t.Error("Top() on an empty stack reported a frame")
	}

	st.push(2, '(')
	st.push(5, '[')
	top, ok := st.Top()
	if !ok || top != (Frame{Indent: 5, Bracket: '[', Depth: 1}) {
		t.Errorf("Top() = %+v, %v", top, ok)
	}
	if Indent(st) != 5 {
		t.Errorf("Indent() = %d, want 5", Indent(st))
	}

	st.pop()
	st.pop()
	st.pop()
	if !st.TopLevel() {
		t.Error("stack should be empty")
	}
}

func TestStateEqual(t *testing.T) {
	a := NewState()
	b := NewState()
	if !a.Equal(b) {
		t.Error("fresh states should be equal")
	}

	tests := []struct {
		name   string
		mutate func(*State)
	}{
		{"mode", func(s *State) { s.Mode = InString }},
		{"comment depth", func(s *State) { s.CommentDepth = startCounter() }},
		{"quote depth", func(s *State) { s.QuoteDepth = startCounter() }},
		{"line indent", func(s *State) { s.LineIndent = 3 }},
		{"stack", func(s *State) { s.push(1, '(') }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := a.Clone()
			tt.mutate(c)
			if c.Equal(a) {
				t.Error("mutated state compared equal")
			}
		})
	}

	var nilState *State
	if !nilState.Equal(nil) {
		t.Error("nil states should be equal")
	}
	if a.Equal(nil) {
		t.Error("state should not equal nil")
	}
}

func TestModeString(t *testing.T) {
	tests := map[Mode]string{
		Default:        "default",
		InString:       "string",
		InSymbol:       "symbol",
		InBlockComment: "comment",
		InSExprComment: "s-expr-comment",
		Mode(99):       "unknown",
	}
	for m, want := range tests {
		if got := m.String(); got != want {
			t.Errorf("Mode(%d).String() = %q, want %q", int(m), got, want)
		}
	}
}
