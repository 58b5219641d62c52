package highlight

import (
	"fmt"
	"io"
	"sort"

	"github.com/sambeau/nujelmode/pkg/nujel/errors"
	"github.com/sambeau/nujelmode/pkg/nujel/mode"
)

// Theme maps token classes to colors. Colors are "#rrggbb" strings; an empty
// color leaves the text unstyled.
type Theme struct {
	Name       string
	Background string
	Foreground string
	Classes    map[mode.Class]string
	// Brackets is indexed by bracket depth.
	Brackets [4]string
}

// Color returns the color for a style.
func (t *Theme) Color(s mode.Style) string {
	if s.Class == mode.Bracket {
		return t.Brackets[s.Depth%len(t.Brackets)]
	}
	return t.Classes[s.Class]
}

var themes = map[string]*Theme{
	"ayu-dark": {
		Name:       "ayu-dark",
		Background: "#0a0e14",
		Foreground: "#b3b1ad",
		Classes: map[mode.Class]string{
			mode.Builtin:  "#e6b450",
			mode.Comment:  "#626a73",
			mode.String:   "#c2d94c",
			mode.Symbol:   "#39bae6",
			mode.Atom:     "#ae81ff",
			mode.Number:   "#e6b450",
			mode.Variable: "#b3b1ad",
		},
		Brackets: [4]string{"#ff8f40", "#39bae6", "#c2d94c", "#f07178"},
	},
	"plain": {
		Name:    "plain",
		Classes: map[mode.Class]string{},
	},
}

// DefaultTheme is used when no theme is configured.
const DefaultTheme = "ayu-dark"

// LookupTheme returns the named theme. An unknown name is a RENDER-0002
// error carrying a suggestion when a theme name is close.
func LookupTheme(name string) (*Theme, error) {
	if name == "" {
		name = DefaultTheme
	}
	if t, ok := themes[name]; ok {
		return t, nil
	}
	err := errors.New("RENDER-0002", map[string]any{"Theme": name})
	return nil, err.WithSuggestion(name, ThemeNames())
}

// ThemeNames lists the built-in themes, sorted.
func ThemeNames() []string {
	names := make([]string, 0, len(themes))
	for n := range themes {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// WriteCSS writes a stylesheet for the HTML renderer's class names, scoped to
// the theme's cm-s-NAME class.
func WriteCSS(w io.Writer, t *Theme) error {
	scope := ".nujel.cm-s-" + t.Name
	if _, err := fmt.Fprintf(w, "%s { font-family: monospace; tab-size: 8;", scope); err != nil {
		return err
	}
	if t.Background != "" {
		fmt.Fprintf(w, " background: %s;", t.Background)
	}
	if t.Foreground != "" {
		fmt.Fprintf(w, " color: %s;", t.Foreground)
	}
	fmt.Fprintln(w, " padding: 0.5em; }")
	fmt.Fprintf(w, "%s .cm-linenumber { opacity: 0.5; user-select: none; }\n", scope)

	for _, c := range mode.Classes() {
		if color := t.Classes[c]; color != "" {
			fmt.Fprintf(w, "%s .cm-%s { color: %s; }\n", scope, c, color)
		}
	}
	for depth, color := range t.Brackets {
		if color != "" {
			fmt.Fprintf(w, "%s .cm-bracket.cm-depth-%d { color: %s; }\n", scope, depth, color)
		}
	}
	_, err := fmt.Fprintf(w, "%s .cm-comment { font-style: italic; }\n", scope)
	return err
}
