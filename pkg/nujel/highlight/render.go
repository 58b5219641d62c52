package highlight

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/yuin/goldmark/util"

	"github.com/sambeau/nujelmode/pkg/nujel/errors"
	"github.com/sambeau/nujelmode/pkg/nujel/mode"
)

// Output formats.
const (
	FormatHTML   = "html"
	FormatANSI   = "ansi"
	FormatJSON   = "json"
	FormatTokens = "tokens"
)

// Formats lists the supported output formats.
func Formats() []string {
	return []string{FormatHTML, FormatANSI, FormatJSON, FormatTokens}
}

// Renderer writes a highlighted document.
type Renderer interface {
	Render(w io.Writer, res *Result) error
}

// Options configure NewRenderer.
type Options struct {
	Theme       *Theme
	LineNumbers bool
	// Standalone makes the HTML renderer emit a complete page with its
	// stylesheet.
	Standalone bool
	Title      string
	// Profile is the ANSI color profile; the zero value is true color.
	Profile termenv.Profile
}

// NewRenderer returns the renderer for format. An unknown format is a
// RENDER-0001 error.
func NewRenderer(format string, opts Options) (Renderer, error) {
	if opts.Theme == nil {
		t, err := LookupTheme(DefaultTheme)
		if err != nil {
			return nil, err
		}
		opts.Theme = t
	}
	switch format {
	case FormatHTML, "":
		return &HTMLRenderer{Theme: opts.Theme, LineNumbers: opts.LineNumbers, Standalone: opts.Standalone, Title: opts.Title}, nil
	case FormatANSI:
		return &ANSIRenderer{Theme: opts.Theme, LineNumbers: opts.LineNumbers, Profile: opts.Profile}, nil
	case FormatJSON:
		return JSONRenderer{}, nil
	case FormatTokens:
		return TokensRenderer{}, nil
	}
	err := errors.New("RENDER-0001", map[string]any{"Format": format})
	return nil, err
}

func numberWidth(res *Result) int {
	return len(strconv.Itoa(len(res.Lines)))
}

// HTMLRenderer writes CodeMirror-compatible markup: a <pre> carrying the
// theme class and one cm-CLASS span per styled token.
type HTMLRenderer struct {
	Theme       *Theme
	LineNumbers bool
	Standalone  bool
	Title       string
}

func (r *HTMLRenderer) Render(w io.Writer, res *Result) error {
	bw := bufio.NewWriter(w)
	if r.Standalone {
		bw.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<title>")
		bw.Write(util.EscapeHTML([]byte(r.Title)))
		bw.WriteString("</title>\n<style>\n")
		if err := WriteCSS(bw, r.Theme); err != nil {
			return err
		}
		bw.WriteString("</style>\n</head>\n<body>\n")
	}
	r.writeFragment(bw, res)
	if r.Standalone {
		bw.WriteString("</body>\n</html>\n")
	}
	return bw.Flush()
}

// Fragment renders just the <pre> element.
func (r *HTMLRenderer) Fragment(res *Result) []byte {
	var buf bytes.Buffer
	bw := bufio.NewWriter(&buf)
	r.writeFragment(bw, res)
	bw.Flush()
	return buf.Bytes()
}

func (r *HTMLRenderer) writeFragment(bw *bufio.Writer, res *Result) {
	fmt.Fprintf(bw, `<pre class="nujel cm-s-%s"><code>`, r.Theme.Name)
	width := numberWidth(res)
	for i, line := range res.Lines {
		if i > 0 {
			bw.WriteByte('\n')
		}
		if r.LineNumbers {
			fmt.Fprintf(bw, `<span class="cm-linenumber">%*d </span>`, width, line.Number)
		}
		for _, tok := range line.Tokens {
			text := util.EscapeHTML([]byte(tok.Text))
			if tok.Style.Class == mode.None {
				bw.Write(text)
				continue
			}
			bw.WriteString(`<span class="`)
			bw.WriteString(HTMLClass(tok.Style))
			bw.WriteString(`">`)
			bw.Write(text)
			bw.WriteString(`</span>`)
		}
	}
	bw.WriteString("</code></pre>\n")
}

// HTMLClass returns the class attribute for a styled token, e.g.
// "cm-bracket cm-depth-1".
func HTMLClass(s mode.Style) string {
	if s.Class == mode.Bracket {
		return "cm-bracket cm-depth-" + strconv.Itoa(s.Depth)
	}
	return "cm-" + s.Class.String()
}

// ANSIRenderer writes terminal output colored with the theme palette.
type ANSIRenderer struct {
	Theme       *Theme
	LineNumbers bool
	Profile     termenv.Profile
}

func (r *ANSIRenderer) Render(w io.Writer, res *Result) error {
	bw := bufio.NewWriter(w)
	lg := lipgloss.NewRenderer(bw)
	lg.SetColorProfile(r.Profile)

	styles := make(map[mode.Style]lipgloss.Style)
	styleFor := func(s mode.Style) (lipgloss.Style, bool) {
		color := r.Theme.Color(s)
		if color == "" {
			return lipgloss.Style{}, false
		}
		st, ok := styles[s]
		if !ok {
			st = lg.NewStyle().
				Foreground(lipgloss.Color(color)).
				Italic(s.Class == mode.Comment).
				TabWidth(lipgloss.NoTabConversion)
			styles[s] = st
		}
		return st, true
	}
	gutter := lg.NewStyle().Faint(true)

	width := numberWidth(res)
	for _, line := range res.Lines {
		if r.LineNumbers {
			bw.WriteString(gutter.Render(fmt.Sprintf("%*d ", width, line.Number)))
		}
		for _, tok := range line.Tokens {
			if st, ok := styleFor(tok.Style); ok && tok.Style.Class != mode.None {
				bw.WriteString(st.Render(tok.Text))
				continue
			}
			bw.WriteString(tok.Text)
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// JSONToken is the JSON form of a token.
type JSONToken struct {
	Class string `json:"class"`
	Depth *int   `json:"depth,omitempty"`
	Text  string `json:"text"`
	Start int    `json:"start"`
	End   int    `json:"end"`
}

// JSONLine is the JSON form of a line.
type JSONLine struct {
	Line   int         `json:"line"`
	Indent int         `json:"indent"`
	Tokens []JSONToken `json:"tokens"`
}

// JSONDocument is the JSON form of a document.
type JSONDocument struct {
	Lines []JSONLine `json:"lines"`
	Mode  string     `json:"mode"`
	Depth int        `json:"depth"`
}

// JSONRenderer writes the token stream as an indented JSON document.
type JSONRenderer struct{}

func (JSONRenderer) Render(w io.Writer, res *Result) error {
	doc := JSONDocument{Lines: make([]JSONLine, 0, len(res.Lines))}
	for _, line := range res.Lines {
		jl := JSONLine{Line: line.Number, Indent: line.Indent, Tokens: make([]JSONToken, 0, len(line.Tokens))}
		for _, tok := range line.Tokens {
			jt := JSONToken{Class: tok.Style.Class.String(), Text: tok.Text, Start: tok.Start, End: tok.End}
			if tok.Style.Class == mode.Bracket {
				depth := tok.Style.Depth
				jt.Depth = &depth
			}
			jl.Tokens = append(jl.Tokens, jt)
		}
		doc.Lines = append(doc.Lines, jl)
	}
	if res.End != nil {
		doc.Mode = res.End.Mode.String()
		doc.Depth = res.End.Depth()
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

// TokensRenderer writes one "LINE:START-END style text" row per styled token.
// Whitespace is omitted.
type TokensRenderer struct{}

func (TokensRenderer) Render(w io.Writer, res *Result) error {
	bw := bufio.NewWriter(w)
	for _, line := range res.Lines {
		for _, tok := range line.Tokens {
			if tok.Style.Class == mode.None {
				continue
			}
			fmt.Fprintf(bw, "%d:%d-%d\t%s\t%q\n", line.Number, tok.Start, tok.End, tok.Style, tok.Text)
		}
	}
	return bw.Flush()
}
