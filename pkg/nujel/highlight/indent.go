package highlight

import (
	"strings"

	"github.com/sambeau/nujelmode/pkg/nujel/mode"
	"github.com/sambeau/nujelmode/pkg/nujel/stream"
)

// Reindent rewrites the leading whitespace of every line to the column the
// indentation calculator suggests. Lines that start inside a string, symbol
// or block comment keep their text, and whitespace-only lines become empty.
// Each line is tokenized after it is re-indented so alignment carries through.
func (h *Highlighter) Reindent(src string) string {
	lines, trailing := SplitLines(src)
	st := mode.NewState()
	out := make([]string, len(lines))
	for i, line := range lines {
		switch st.Mode {
		case mode.InString, mode.InSymbol, mode.InBlockComment:
		default:
			body := strings.TrimLeftFunc(line, stream.IsSpace)
			if body == "" {
				line = ""
			} else {
				line = strings.Repeat(" ", mode.Indent(st)) + body
			}
		}
		h.Line(st, line)
		out[i] = line
	}
	res := strings.Join(out, "\n")
	if trailing {
		res += "\n"
	}
	return res
}

// Reindent re-indents src with the default tab size.
func Reindent(tok *mode.Tokenizer, src string) string {
	return New(tok, 0).Reindent(src)
}
