package document

import (
	"strings"

	"github.com/sambeau/nujelmode/pkg/nujel/stream"
)

// Language describes editor behavior for Nujel buffers.
type Language struct {
	Name        string
	Extensions  []string
	LineComment string
	// Fold names the folding strategy.
	Fold string
	// Pairs holds opening and closing characters for auto-close, two per
	// pair.
	Pairs string
}

// Nujel is the language description used by every Nujel document.
var Nujel = Language{
	Name:        "nujel",
	Extensions:  []string{".nuj"},
	LineComment: ";;",
	Fold:        "brace-paren",
	Pairs:       "()[]{}\"\"",
}

// ClosingPair returns the character auto-inserted after open.
func (l Language) ClosingPair(open rune) (rune, bool) {
	pairs := []rune(l.Pairs)
	for i := 0; i+1 < len(pairs); i += 2 {
		if pairs[i] == open {
			return pairs[i+1], true
		}
	}
	return 0, false
}

// HasExtension reports whether path names a file of this language.
func (l Language) HasExtension(path string) bool {
	for _, ext := range l.Extensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}

// ToggleComment comments out lines from through to inclusive with the line
// comment marker, or uncomments them when every non-blank line in the range
// is already commented. Lines that start inside a string, symbol or block
// comment are left alone.
func (d *Document) ToggleComment(from, to int) error {
	if err := d.checkLine(from); err != nil {
		return err
	}
	if err := d.checkLine(to); err != nil {
		return err
	}
	marker := Nujel.LineComment

	commented := true
	indent := -1
	for i := from; i <= to; i++ {
		body := strings.TrimLeftFunc(d.lines[i], stream.IsSpace)
		if body == "" || !d.inCode(i) {
			continue
		}
		if !strings.HasPrefix(body, marker) {
			commented = false
		}
		if n := len(d.lines[i]) - len(body); indent < 0 || n < indent {
			indent = n
		}
	}
	if indent < 0 {
		return nil
	}

	changed := make([]string, 0, to-from+1)
	for i := from; i <= to; i++ {
		line := d.lines[i]
		body := strings.TrimLeftFunc(line, stream.IsSpace)
		if body != "" && d.inCode(i) {
			lead := line[:len(line)-len(body)]
			if commented {
				body = strings.TrimPrefix(strings.TrimPrefix(body, marker), " ")
				line = lead + body
			} else {
				line = line[:indent] + marker + " " + line[indent:]
			}
		}
		changed = append(changed, line)
	}
	for i, line := range changed {
		d.lines[from+i] = line
	}
	d.rescan(from, to)
	return nil
}
