// Package highlight drives the Nujel tokenizer over whole lines and documents
// and renders the resulting token streams as HTML, ANSI text or JSON.
package highlight

import (
	"strings"

	"github.com/sambeau/nujelmode/pkg/nujel/mode"
	"github.com/sambeau/nujelmode/pkg/nujel/stream"
)

// Token is a styled region of one line. Start and End are byte offsets into
// the line; Text is line[Start:End].
type Token struct {
	Style mode.Style
	Text  string
	Start int
	End   int
}

// Highlighter tokenizes text with a fixed tokenizer and tab size.
type Highlighter struct {
	tok     *mode.Tokenizer
	tabSize int
}

// New returns a highlighter. A nil tokenizer means mode.Standard(); a tab size
// below 1 means stream.DefaultTabSize.
func New(tok *mode.Tokenizer, tabSize int) *Highlighter {
	if tok == nil {
		tok = mode.Standard()
	}
	if tabSize < 1 {
		tabSize = stream.DefaultTabSize
	}
	return &Highlighter{tok: tok, tabSize: tabSize}
}

// TabSize returns the tab width used for column computation.
func (h *Highlighter) TabSize() int { return h.tabSize }

// Tokenizer returns the underlying tokenizer.
func (h *Highlighter) Tokenizer() *mode.Tokenizer { return h.tok }

// Line tokenizes one line, advancing st. Whitespace comes back as None tokens
// so the texts concatenate to the line. An empty line never reaches the
// tokenizer and leaves st unchanged.
func (h *Highlighter) Line(st *mode.State, text string) []Token {
	s := stream.New(text, h.tabSize)
	var tokens []Token
	for !s.EOL() {
		style := h.tok.Token(s, st)
		if s.Pos() == s.Start() {
			// the tokenizer always consumes before EOL; guard against a stall
			s.Next()
		}
		tokens = append(tokens, Token{
			Style: style,
			Text:  s.Current(),
			Start: s.Start(),
			End:   s.Pos(),
		})
	}
	return tokens
}

// Line tokenizes one line with the default tab size.
func Line(tok *mode.Tokenizer, st *mode.State, text string) []Token {
	return New(tok, 0).Line(st, text)
}

// LineResult is one highlighted line of a document.
type LineResult struct {
	Number int // 1-based
	Text   string
	Tokens []Token
	// Start is the state the line was tokenized from.
	Start *mode.State
	// Indent is the column the calculator suggests for this line.
	Indent int
}

// Result is a fully highlighted document.
type Result struct {
	Lines []LineResult
	// End is the state after the last line.
	End *mode.State
	// TrailingNewline records whether the source ended with a newline.
	TrailingNewline bool
}

// Source reassembles the text the result was built from, with "\n" line
// endings.
func (r *Result) Source() string {
	var sb strings.Builder
	for i, l := range r.Lines {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(l.Text)
	}
	if r.TrailingNewline {
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Document tokenizes src line by line from a fresh state.
func (h *Highlighter) Document(src string) *Result {
	lines, trailing := SplitLines(src)
	res := &Result{Lines: make([]LineResult, 0, len(lines)), TrailingNewline: trailing}
	st := mode.NewState()
	for i, text := range lines {
		start := st.Clone()
		res.Lines = append(res.Lines, LineResult{
			Number: i + 1,
			Text:   text,
			Tokens: h.Line(st, text),
			Start:  start,
			Indent: mode.Indent(start),
		})
	}
	res.End = st
	return res
}

// Document tokenizes src with the default tab size.
func Document(tok *mode.Tokenizer, src string) *Result {
	return New(tok, 0).Document(src)
}

// SplitLines splits src on "\n", dropping a "\r" before each break. A final
// newline does not start an extra line; it is reported instead.
func SplitLines(src string) (lines []string, trailingNewline bool) {
	if src == "" {
		return nil, false
	}
	trailingNewline = strings.HasSuffix(src, "\n")
	src = strings.TrimSuffix(src, "\n")
	lines = strings.Split(src, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines, trailingNewline
}
