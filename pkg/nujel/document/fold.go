package document

import (
	"github.com/sambeau/nujelmode/pkg/nujel/mode"
	"github.com/sambeau/nujelmode/pkg/nujel/stream"
)

// walk re-runs the tokenizer over line i from its cached start state and
// calls fn with the bracket depth after every token.
func (d *Document) walk(i int, fn func(depth int) bool) {
	st := d.states[i].Clone()
	tok := d.hl.Tokenizer()
	s := stream.New(d.lines[i], d.hl.TabSize())
	for !s.EOL() {
		tok.Token(s, st)
		if s.Pos() == s.Start() {
			s.Next()
		}
		if !fn(st.Depth()) {
			return
		}
	}
}

// FoldRange reports the lines spanned by the outermost bracket form that
// opens on line i and is still open at the end of it. end is the line holding
// the matching closer; ok is false when no form opens on line i or it never
// closes.
func (d *Document) FoldRange(i int) (start, end int, ok bool) {
	if d.checkLine(i) != nil {
		return 0, 0, false
	}

	// depths of the brackets opened on this line that are still open
	var open []int
	prev := d.states[i].Depth()
	d.walk(i, func(depth int) bool {
		switch {
		case depth > prev:
			open = append(open, depth)
		case depth < prev:
			for len(open) > 0 && open[len(open)-1] > depth {
				open = open[:len(open)-1]
			}
		}
		prev = depth
		return true
	})
	if len(open) == 0 {
		return 0, 0, false
	}
	target := open[0]

	for j := i + 1; j < len(d.lines); j++ {
		closed := false
		d.walk(j, func(depth int) bool {
			closed = depth < target
			return !closed
		})
		if closed {
			return i, j, true
		}
	}
	return 0, 0, false
}

// Folds returns every foldable range in the document in line order.
func (d *Document) Folds() [][2]int {
	var folds [][2]int
	for i := range d.lines {
		if start, end, ok := d.FoldRange(i); ok {
			folds = append(folds, [2]int{start, end})
		}
	}
	return folds
}

// inCode reports whether line i starts outside strings, symbols and block
// comments.
func (d *Document) inCode(i int) bool {
	switch d.states[i].Mode {
	case mode.InString, mode.InSymbol, mode.InBlockComment:
		return false
	}
	return true
}
