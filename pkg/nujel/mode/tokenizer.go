// Package mode is the incremental Nujel tokenizer. The host feeds it one line
// at a time through a stream.Stream and calls Token until the line is
// exhausted; everything that must survive a line break (open strings and
// comments, open brackets, suppressed or quoted forms) lives in State.
package mode

import (
	"unicode"

	"github.com/sambeau/nujelmode/pkg/nujel/errors"
	"github.com/sambeau/nujelmode/pkg/nujel/keywords"
	"github.com/sambeau/nujelmode/pkg/nujel/numeric"
	"github.com/sambeau/nujelmode/pkg/nujel/stream"
)

// indentWordSkip is how far the body of an indent-word form is indented.
const indentWordSkip = 2

// Tokenizer classifies Nujel source. It holds no per-document state and is
// safe for concurrent use.
type Tokenizer struct {
	keywords *keywords.Table
}

// New returns a tokenizer that classifies identifiers with kw.
func New(kw *keywords.Table) (*Tokenizer, error) {
	if kw == nil {
		return nil, errors.New("KEYWORDS-0004", nil)
	}
	return &Tokenizer{keywords: kw}, nil
}

var defaultTokenizer = &Tokenizer{keywords: keywords.Default()}

// Standard returns a tokenizer using the standard keyword table.
func Standard() *Tokenizer {
	return defaultTokenizer
}

// Keywords returns the tokenizer's keyword table.
func (t *Tokenizer) Keywords() *keywords.Table {
	return t.keywords
}

// Token consumes one token from s and returns its style. The token is
// exactly the text consumed, available as s.Current() afterwards. Runs of
// whitespace come back as a None token. At end of line nothing is consumed.
func (t *Tokenizer) Token(s *stream.Stream, st *State) Style {
	s.Begin()
	if st.TopLevel() && s.SOL() {
		st.LineIndent = s.Indentation()
	}
	if s.EOL() {
		return Style{}
	}

	var style Style
	switch st.Mode {
	case InString:
		scanEscaped(s, st, '"')
		style = Style{Class: String}
	case InSymbol:
		scanEscaped(s, st, '|')
		style = Style{Class: Symbol}
	case InBlockComment:
		scanBlockComment(s, st)
		style = Style{Class: Comment}
	default:
		if s.EatSpace() {
			return Style{}
		}
		style = t.scanDefault(s, st)
	}

	switch {
	case st.CommentDepth.Active():
		return Style{Class: Comment}
	case st.QuoteDepth.Active():
		return Style{Class: Atom}
	}
	return style
}

func (t *Tokenizer) scanDefault(s *stream.Stream, st *State) Style {
	if st.Mode == InSExprComment {
		st.Mode = Default
		if c := s.Peek(); c != '(' && c != '[' {
			if s.EatWhile(isAtomChar) {
				return Style{Class: Comment}
			}
			// A closing bracket right after #; is handled as usual.
		} else if !st.CommentDepth.Active() {
			st.CommentDepth = startCounter()
		}
	}

	ch := s.Next()
	switch {
	case ch == '"':
		st.Mode = InString
		scanEscaped(s, st, '"')
		return Style{Class: String}

	case ch == '\'':
		if c := s.Peek(); c == '(' || c == '[' {
			if !st.QuoteDepth.Active() {
				st.QuoteDepth = startCounter()
			}
		} else {
			s.EatWhile(isSymbolChar)
		}
		return Style{Class: Atom}

	case ch == '|':
		st.Mode = InSymbol
		scanEscaped(s, st, '|')
		return Style{Class: Symbol}

	case ch == '#':
		return t.scanHash(s, st)

	case ch < unicode.MaxASCII && numeric.StartsNumber(byte(ch)) && matchNumber(s, numeric.Decimal, true):
		return Style{Class: Number}

	case ch == ';':
		s.SkipToEnd()
		return Style{Class: Comment}

	case ch == '(' || ch == '[':
		return t.openBracket(s, st, byte(ch))

	case ch == ')' || ch == ']':
		return closeBracket(st, byte(ch))
	}

	s.EatWhile(isSymbolChar)
	if t.keywords.IsBuiltin(s.Current()) {
		return Style{Class: Builtin}
	}
	return Style{Class: Variable}
}

// scanHash handles everything introduced by '#': block comments, booleans,
// s-expression comments and prefixed numbers.
func (t *Tokenizer) scanHash(s *stream.Stream, st *State) Style {
	switch {
	case s.EatRune('|'):
		st.Mode = InBlockComment
		scanBlockComment(s, st)
		return Style{Class: Comment}
	case eatFold(s, 't', 'f'):
		return Style{Class: Atom}
	case s.EatRune(';'):
		st.Mode = InSExprComment
		return Style{Class: Comment}
	}

	exact := eatFold(s, 'e', 'i')
	if !exact {
		s.BackUp(1)
	}

	radix, hasRadix := numeric.Decimal, false
	try := false
	if rest := s.Rest(); len(rest) >= 2 && rest[0] == '#' {
		if r, ok := numeric.RadixFor(rest[1]); ok {
			s.Advance(2)
			radix, hasRadix, try = r, true, true
		}
	}
	if !try {
		if rest := s.Rest(); rest != "" && numeric.StartsNumber(rest[0]) {
			try = true
		} else if !exact {
			s.EatRune('#')
		}
	}

	if try {
		if hasRadix && !exact {
			// exactness may also follow the radix: #x#e10
			if rest := s.Rest(); len(rest) >= 2 && rest[0] == '#' && isExactness(rest[1]) {
				s.Advance(2)
			}
		}
		if matchNumber(s, radix, false) {
			return Style{Class: Number}
		}
	}
	return Style{}
}

// matchNumber consumes a number literal in radix. With backUp the character
// the caller already consumed is returned to the stream first; it stays
// un-consumed when no number matches.
func matchNumber(s *stream.Stream, radix numeric.Radix, backUp bool) bool {
	if backUp {
		s.BackUp(1)
	}
	n, ok := numeric.Match(radix, s.Rest())
	if !ok {
		return false
	}
	s.Advance(n)
	return true
}

func (t *Tokenizer) openBracket(s *stream.Stream, st *State, bracket byte) Style {
	col := s.Column()
	s.EatWhile(isHeadChar)
	word := s.Current()[1:]

	var indent int
	switch {
	case word != "" && t.keywords.IsIndent(word):
		indent = col + indentWordSkip
	default:
		s.EatSpace()
		if s.EOL() || s.Peek() == ';' {
			// nothing significant follows: indent one past the bracket
			indent = col + 1
		} else {
			// align continuation lines with the first argument
			indent = col + s.Width(s.Current(), col)
		}
	}
	st.push(indent, bracket)
	s.BackUp(len(s.Current()) - 1)

	st.CommentDepth.inc()
	st.QuoteDepth.inc()

	top, _ := st.Top()
	return Style{Class: Bracket, Depth: top.Depth % 4}
}

func closeBracket(st *State, closer byte) Style {
	top, open := st.Top()
	style := Style{Class: Bracket, Depth: top.Depth % 4}
	if !open || top.Bracket != opening(closer) {
		// mismatched or stray closer: leave the stack alone
		return style
	}
	st.pop()

	if st.CommentDepth.dec() {
		style = Style{Class: Comment}
	}
	if st.QuoteDepth.dec() {
		style = Style{Class: Atom}
	}
	return style
}

func opening(closer byte) byte {
	if closer == ']' {
		return '['
	}
	return '('
}

// scanEscaped consumes up to and including an unescaped terminator, returning
// st to Default when it is found.
func scanEscaped(s *stream.Stream, st *State, terminator rune) {
	escaped := false
	for {
		r := s.Next()
		if r == stream.EOL {
			return
		}
		if r == terminator && !escaped {
			st.Mode = Default
			return
		}
		escaped = !escaped && r == '\\'
	}
}

// scanBlockComment consumes up to and including "|#". Block comments do not
// nest.
func scanBlockComment(s *stream.Stream, st *State) {
	maybeEnd := false
	for {
		r := s.Next()
		if r == stream.EOL {
			return
		}
		if r == '#' && maybeEnd {
			st.Mode = Default
			return
		}
		maybeEnd = r == '|'
	}
}

func eatFold(s *stream.Stream, letters ...rune) bool {
	_, ok := s.Eat(func(r rune) bool {
		for _, l := range letters {
			if unicode.ToLower(r) == l {
				return true
			}
		}
		return false
	})
	return ok
}

func isExactness(c byte) bool {
	return c == 'e' || c == 'E' || c == 'i' || c == 'I'
}

// isSymbolChar accepts identifier characters.
func isSymbolChar(r rune) bool {
	if unicode.IsLetter(r) || unicode.IsDigit(r) {
		return true
	}
	switch r {
	case '_', '-', '!', '$', '%', '&', '*', '+', '.', '/', ':', '<', '=', '>', '?', '@', '^', '~':
		return true
	}
	return false
}

// isHeadChar accepts the characters of the word after an opening bracket.
func isHeadChar(r rune) bool {
	switch r {
	case '(', '[', ')', ']', ';':
		return false
	}
	return !unicode.IsSpace(r)
}

// isAtomChar accepts the characters of an atom suppressed by #;.
func isAtomChar(r rune) bool {
	switch r {
	case '(', ')', '[', ']':
		return false
	}
	return !unicode.IsSpace(r)
}
