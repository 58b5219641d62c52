// Package document keeps a Nujel buffer highlighted while it is edited. Each
// line caches the tokenizer state it starts from; an edit re-tokenizes from
// the first changed line until the carried state matches the cached start of
// the next line, at which point the rest of the buffer is known to be valid.
package document

import (
	"fmt"
	"slices"
	"strings"

	"github.com/sambeau/nujelmode/pkg/nujel/highlight"
	"github.com/sambeau/nujelmode/pkg/nujel/mode"
)

// Document is an editable, incrementally highlighted buffer. It is not safe
// for concurrent use.
type Document struct {
	hl     *highlight.Highlighter
	lines  []string
	tokens [][]highlight.Token
	// states[i] is the state line i starts from; states[len(lines)] is the
	// state after the last line.
	states []*mode.State

	rescanned int
}

// New returns a document holding src. A document always has at least one
// line; lines are split on "\n" with a trailing "\r" dropped.
func New(hl *highlight.Highlighter, src string) *Document {
	if hl == nil {
		hl = highlight.New(nil, 0)
	}
	lines := strings.Split(src, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	d := &Document{
		hl:     hl,
		lines:  lines,
		tokens: make([][]highlight.Token, len(lines)),
		states: make([]*mode.State, len(lines)+1),
	}
	d.states[0] = mode.NewState()
	d.rescan(0, len(lines)-1)
	return d
}

// Len returns the number of lines.
func (d *Document) Len() int { return len(d.lines) }

// Line returns the text of line i.
func (d *Document) Line(i int) string { return d.lines[i] }

// Text returns the whole buffer joined with "\n".
func (d *Document) Text() string { return strings.Join(d.lines, "\n") }

// Tokens returns the tokens of line i.
func (d *Document) Tokens(i int) []highlight.Token { return d.tokens[i] }

// StateAt returns a copy of the state line i starts from. StateAt(Len())
// is the state after the last line.
func (d *Document) StateAt(i int) *mode.State { return d.states[i].Clone() }

// Indent returns the indentation the calculator suggests for line i.
func (d *Document) Indent(i int) int { return mode.Indent(d.states[i]) }

// Rescanned reports how many lines the last edit re-tokenized.
func (d *Document) Rescanned() int { return d.rescanned }

func (d *Document) checkLine(i int) error {
	if i < 0 || i >= len(d.lines) {
		return fmt.Errorf("line %d out of range [0,%d)", i, len(d.lines))
	}
	return nil
}

// SetLine replaces the text of line i.
func (d *Document) SetLine(i int, text string) error {
	if err := d.checkLine(i); err != nil {
		return err
	}
	if strings.Contains(text, "\n") {
		return fmt.Errorf("line text contains a newline")
	}
	d.lines[i] = text
	d.rescan(i, i)
	return nil
}

// Insert inserts lines before line i; i may equal Len() to append.
func (d *Document) Insert(i int, lines ...string) error {
	if i < 0 || i > len(d.lines) {
		return fmt.Errorf("insert position %d out of range [0,%d]", i, len(d.lines))
	}
	if len(lines) == 0 {
		d.rescanned = 0
		return nil
	}
	for _, l := range lines {
		if strings.Contains(l, "\n") {
			return fmt.Errorf("line text contains a newline")
		}
	}
	m := len(lines)
	d.lines = slices.Insert(d.lines, i, lines...)
	d.tokens = slices.Insert(d.tokens, i, make([][]highlight.Token, m)...)

	// The first inserted line starts where line i used to. The line that used
	// to be i keeps its old start as the cached value to converge against.
	cached := d.states[i]
	d.states = slices.Insert(d.states, i+1, make([]*mode.State, m)...)
	d.states[i+m] = cached

	d.rescan(i, i+m-1)
	return nil
}

// Delete removes n lines starting at line i. Deleting every line leaves one
// empty line.
func (d *Document) Delete(i, n int) error {
	if err := d.checkLine(i); err != nil {
		return err
	}
	if n < 0 || i+n > len(d.lines) {
		return fmt.Errorf("cannot delete %d lines at %d of %d", n, i, len(d.lines))
	}
	if n == 0 {
		d.rescanned = 0
		return nil
	}
	d.lines = slices.Delete(d.lines, i, i+n)
	d.tokens = slices.Delete(d.tokens, i, i+n)
	d.states = slices.Delete(d.states, i+1, i+n+1)
	if len(d.lines) == 0 {
		d.lines = []string{""}
		d.tokens = make([][]highlight.Token, 1)
		d.states = []*mode.State{d.states[0], nil}
	}
	d.rescan(i, min(i, len(d.lines)-1))
	return nil
}

// rescan re-tokenizes from line from. Every line up to and including
// through is scanned; after that scanning stops as soon as the state at the
// end of a line equals the cached start of the next one.
func (d *Document) rescan(from, through int) {
	d.rescanned = 0
	for j := from; j < len(d.lines); j++ {
		st := d.states[j].Clone()
		d.tokens[j] = d.hl.Line(st, d.lines[j])
		d.rescanned++

		converged := j >= through && st.Equal(d.states[j+1])
		d.states[j+1] = st
		if converged {
			return
		}
	}
}
