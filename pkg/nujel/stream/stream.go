// Package stream provides the single-line character cursor the tokenizer
// reads from. A Stream tracks two byte offsets into its line: Start, where the
// token being scanned began, and Pos, the next unread byte. Columns are display
// columns: tabs advance to the next tab stop and East Asian wide characters
// count as two.
package stream

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/width"
)

// EOL is returned by Peek and Next at the end of the line.
const EOL rune = -1

// DefaultTabSize is the tab width used when none is configured.
const DefaultTabSize = 8

// Stream is a cursor over one line of text. It is not safe for concurrent use.
type Stream struct {
	line    string
	pos     int
	start   int
	tabSize int
}

// New returns a cursor at the start of line. tabSize <= 0 selects
// DefaultTabSize.
func New(line string, tabSize int) *Stream {
	if tabSize <= 0 {
		tabSize = DefaultTabSize
	}
	return &Stream{line: line, tabSize: tabSize}
}

// Line returns the whole line.
func (s *Stream) Line() string { return s.line }

// Pos returns the byte offset of the next unread character.
func (s *Stream) Pos() int { return s.pos }

// Start returns the byte offset where the current token began.
func (s *Stream) Start() int { return s.start }

// Begin marks the current position as the start of a new token.
func (s *Stream) Begin() { s.start = s.pos }

// SOL reports whether the cursor is at the start of the line.
func (s *Stream) SOL() bool { return s.pos == 0 }

// EOL reports whether the whole line has been consumed.
func (s *Stream) EOL() bool { return s.pos >= len(s.line) }

// Peek returns the next character without consuming it.
func (s *Stream) Peek() rune {
	if s.pos >= len(s.line) {
		return EOL
	}
	r, _ := utf8.DecodeRuneInString(s.line[s.pos:])
	return r
}

// Next consumes and returns the next character.
func (s *Stream) Next() rune {
	if s.pos >= len(s.line) {
		return EOL
	}
	r, size := utf8.DecodeRuneInString(s.line[s.pos:])
	s.pos += size
	return r
}

// Eat consumes the next character if pred accepts it.
func (s *Stream) Eat(pred func(rune) bool) (rune, bool) {
	r := s.Peek()
	if r == EOL || !pred(r) {
		return EOL, false
	}
	return s.Next(), true
}

// EatRune consumes the next character if it equals r.
func (s *Stream) EatRune(r rune) bool {
	_, ok := s.Eat(func(c rune) bool { return c == r })
	return ok
}

// EatWhile consumes characters while pred accepts them and reports whether
// anything was consumed.
func (s *Stream) EatWhile(pred func(rune) bool) bool {
	from := s.pos
	for {
		if _, ok := s.Eat(pred); !ok {
			break
		}
	}
	return s.pos > from
}

// EatSpace consumes a run of horizontal whitespace.
func (s *Stream) EatSpace() bool {
	return s.EatWhile(IsSpace)
}

// Match tests re against the unread text. re must be anchored with ^. When
// consume is true the matched text is consumed. ok is false on no match.
func (s *Stream) Match(re *regexp.Regexp, consume bool) (string, bool) {
	loc := re.FindStringIndex(s.line[s.pos:])
	if loc == nil || loc[0] != 0 {
		return "", false
	}
	text := s.line[s.pos : s.pos+loc[1]]
	if consume {
		s.pos += loc[1]
	}
	return text, true
}

// MatchString tests for a literal prefix, optionally ignoring ASCII case.
func (s *Stream) MatchString(prefix string, consume, foldCase bool) bool {
	rest := s.line[s.pos:]
	if len(rest) < len(prefix) {
		return false
	}
	head := rest[:len(prefix)]
	if head != prefix && !(foldCase && strings.EqualFold(head, prefix)) {
		return false
	}
	if consume {
		s.pos += len(prefix)
	}
	return true
}

// Rest returns the unread remainder of the line.
func (s *Stream) Rest() string { return s.line[s.pos:] }

// Advance consumes n bytes, clamped to the end of the line.
func (s *Stream) Advance(n int) {
	s.pos = min(s.pos+n, len(s.line))
}

// BackUp un-consumes n bytes, never moving before the token start.
func (s *Stream) BackUp(n int) {
	s.pos = max(s.pos-n, s.start)
}

// SkipToEnd consumes the rest of the line.
func (s *Stream) SkipToEnd() { s.pos = len(s.line) }

// Current returns the text consumed since the token start.
func (s *Stream) Current() string { return s.line[s.start:s.pos] }

// Column returns the display column of the token start.
func (s *Stream) Column() int {
	return CountColumn(s.line[:s.start], 0, s.tabSize)
}

// Indentation returns the display width of the line's leading whitespace.
func (s *Stream) Indentation() int {
	end := strings.IndexFunc(s.line, func(r rune) bool { return !IsSpace(r) })
	if end < 0 {
		end = len(s.line)
	}
	return CountColumn(s.line[:end], 0, s.tabSize)
}

// Width returns the display width of text that starts at display column col.
func (s *Stream) Width(text string, col int) int {
	return CountColumn(text, col, s.tabSize) - col
}

// IsSpace reports horizontal whitespace.
func IsSpace(r rune) bool {
	return r != '\n' && r != '\r' && unicode.IsSpace(r)
}

// CountColumn returns the display column reached after text when it starts at
// display column col.
func CountColumn(text string, col, tabSize int) int {
	if tabSize <= 0 {
		tabSize = DefaultTabSize
	}
	for _, r := range text {
		if r == '\t' {
			col += tabSize - col%tabSize
			continue
		}
		col += RuneWidth(r)
	}
	return col
}

// RuneWidth returns the number of display cells r occupies.
func RuneWidth(r rune) int {
	switch width.LookupRune(r).Kind() {
	case width.EastAsianWide, width.EastAsianFullwidth:
		return 2
	}
	return 1
}
