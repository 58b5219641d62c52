package mode

import "slices"

// Mode selects the sub-scanner that runs on the next call.
type Mode int

const (
	Default        Mode = iota
	InString            // inside "..."
	InSymbol            // inside |...|
	InBlockComment      // inside #| ... |#
	InSExprComment      // after #;, waiting for the form to suppress
)

func (m Mode) String() string {
	switch m {
	case Default:
		return "default"
	case InString:
		return "string"
	case InSymbol:
		return "symbol"
	case InBlockComment:
		return "comment"
	case InSExprComment:
		return "s-expr-comment"
	}
	return "unknown"
}

// Frame is one open bracket on the indent stack.
type Frame struct {
	Indent  int  // column continuation lines align to
	Bracket byte // '(' or '['
	Depth   int  // nesting depth, 0 for the outermost bracket
}

// Counter is an optional nesting counter. The zero value is inactive.
type Counter struct {
	depth  int
	active bool
}

// Active reports whether the counter is running.
func (c Counter) Active() bool { return c.active }

// Depth returns the current count; it is 0 when inactive.
func (c Counter) Depth() int { return c.depth }

func startCounter() Counter { return Counter{active: true} }

func (c *Counter) inc() {
	if c.active {
		c.depth++
	}
}

// dec decrements an active counter and reports whether it just reached zero,
// in which case it is deactivated.
func (c *Counter) dec() bool {
	if !c.active {
		return false
	}
	c.depth--
	if c.depth <= 0 {
		*c = Counter{}
		return true
	}
	return false
}

// State is the tokenizer state carried from one token, and one line, to the
// next. It belongs to a single document and is not safe for concurrent use.
// Use Clone to snapshot it.
type State struct {
	Mode Mode

	// CommentDepth runs while a #; suppressed form is open.
	CommentDepth Counter
	// QuoteDepth runs while a '( quoted form is open.
	QuoteDepth Counter

	// LineIndent is the indentation of the last line that started at top level.
	LineIndent int

	stack []Frame
}

// NewState returns the top-level state for a fresh document.
func NewState() *State {
	return &State{}
}

// Clone returns an independent copy of st.
func (st *State) Clone() *State {
	c := *st
	c.stack = slices.Clone(st.stack)
	return &c
}

// Equal reports whether two states would tokenize the following text the same
// way.
func (st *State) Equal(o *State) bool {
	if st == nil || o == nil {
		return st == o
	}
	return st.Mode == o.Mode &&
		st.CommentDepth == o.CommentDepth &&
		st.QuoteDepth == o.QuoteDepth &&
		st.LineIndent == o.LineIndent &&
		slices.Equal(st.stack, o.stack)
}

// TopLevel reports whether no bracket is open.
func (st *State) TopLevel() bool { return len(st.stack) == 0 }

// Depth returns the number of open brackets.
func (st *State) Depth() int { return len(st.stack) }

// Top returns the innermost open bracket.
func (st *State) Top() (Frame, bool) {
	if len(st.stack) == 0 {
		return Frame{}, false
	}
	return st.stack[len(st.stack)-1], true
}

// Frames returns a copy of the indent stack, outermost first.
func (st *State) Frames() []Frame {
	return slices.Clone(st.stack)
}

func (st *State) push(indent int, bracket byte) {
	depth := 0
	if top, ok := st.Top(); ok {
		depth = top.Depth + 1
	}
	st.stack = append(st.stack, Frame{Indent: indent, Bracket: bracket, Depth: depth})
}

func (st *State) pop() {
	if len(st.stack) > 0 {
		st.stack = st.stack[:len(st.stack)-1]
	}
}

// Indent returns the column a new line should be indented to: the innermost
// bracket's alignment column, or the last top-level line's indentation.
func Indent(st *State) int {
	if top, ok := st.Top(); ok {
		return top.Indent
	}
	return st.LineIndent
}
