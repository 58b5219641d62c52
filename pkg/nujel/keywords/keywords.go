// Package keywords holds the identifier tables the tokenizer consults:
// builtins (highlighted as Builtin) and indent words (an opening bracket
// followed by one of these indents its body by two columns).
package keywords

import (
	"sort"
	"strings"

	"github.com/sambeau/nujelmode/pkg/nujel/errors"
)

// Table is an immutable pair of keyword sets. It is safe for concurrent use.
type Table struct {
	builtins map[string]struct{}
	indent   map[string]struct{}
}

var defaultTable = mustNew(strings.Fields(builtinWords), strings.Fields(indentWords))

// Default returns the table for the standard Nujel runtime.
func Default() *Table {
	return defaultTable
}

// New builds a table from explicit word lists. Both lists must be non-empty
// and every word must be a single bracket-free token.
func New(builtins, indent []string) (*Table, error) {
	if len(builtins) == 0 {
		return nil, errors.New("KEYWORDS-0001", nil)
	}
	if len(indent) == 0 {
		return nil, errors.New("KEYWORDS-0002", nil)
	}

	t := &Table{
		builtins: make(map[string]struct{}, len(builtins)),
		indent:   make(map[string]struct{}, len(indent)),
	}
	for _, w := range builtins {
		if err := validate(w); err != nil {
			return nil, err
		}
		t.builtins[w] = struct{}{}
	}
	for _, w := range indent {
		if err := validate(w); err != nil {
			return nil, err
		}
		t.indent[w] = struct{}{}
	}
	return t, nil
}

func mustNew(builtins, indent []string) *Table {
	t, err := New(builtins, indent)
	if err != nil {
		panic(err)
	}
	return t
}

// Extend returns a new table holding the receiver's words plus the extras.
func (t *Table) Extend(builtins, indent []string) (*Table, error) {
	return New(append(t.Builtins(), builtins...), append(t.IndentWords(), indent...))
}

func validate(w string) error {
	if w == "" || strings.ContainsAny(w, " \t\r\n\v\f()[];") {
		return errors.New("KEYWORDS-0003", map[string]any{"Word": w})
	}
	return nil
}

// IsBuiltin reports whether w is highlighted as a builtin.
func (t *Table) IsBuiltin(w string) bool {
	_, ok := t.builtins[w]
	return ok
}

// IsIndent reports whether an opening bracket followed by w indents by two.
func (t *Table) IsIndent(w string) bool {
	_, ok := t.indent[w]
	return ok
}

// Builtins returns the builtin words, sorted.
func (t *Table) Builtins() []string {
	return sortedKeys(t.builtins)
}

// IndentWords returns the indent words, sorted.
func (t *Table) IndentWords() []string {
	return sortedKeys(t.indent)
}

// Complete returns every word in either set that starts with prefix.
func (t *Table) Complete(prefix string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, set := range []map[string]struct{}{t.builtins, t.indent} {
		for w := range set {
			if _, dup := seen[w]; dup || !strings.HasPrefix(w, prefix) {
				continue
			}
			seen[w] = struct{}{}
			out = append(out, w)
		}
	}
	sort.Strings(out)
	return out
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
