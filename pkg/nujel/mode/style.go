package mode

import "fmt"

// Class is the highlighting category of a token.
type Class int

const (
	None Class = iota // whitespace or unclassified text
	Builtin
	Comment
	String
	Symbol
	Atom
	Number
	Bracket
	Variable
)

var classNames = [...]string{
	None:     "",
	Builtin:  "builtin",
	Comment:  "comment",
	String:   "string",
	Symbol:   "symbol",
	Atom:     "atom",
	Number:   "number",
	Bracket:  "bracket",
	Variable: "variable",
}

// String returns the CodeMirror style name; None is "".
func (c Class) String() string {
	if c < 0 || int(c) >= len(classNames) {
		return fmt.Sprintf("Class(%d)", int(c))
	}
	return classNames[c]
}

// Classes lists every class except None, in declaration order.
func Classes() []Class {
	return []Class{Builtin, Comment, String, Symbol, Atom, Number, Bracket, Variable}
}

// ParseClass maps a style name back to its class.
func ParseClass(name string) (Class, bool) {
	for i, n := range classNames {
		if n == name {
			return Class(i), true
		}
	}
	return None, false
}

// Style is the result of one tokenizer call. Depth is the bracket nesting
// depth modulo 4 and is only meaningful for Bracket.
type Style struct {
	Class Class
	Depth int
}

// String renders the style the way CodeMirror modes do, e.g. "bracket depth-2".
func (s Style) String() string {
	if s.Class == Bracket {
		return fmt.Sprintf("bracket depth-%d", s.Depth)
	}
	return s.Class.String()
}
