// Package markdown renders Markdown documents, highlighting fenced code
// blocks written in Nujel.
package markdown

import (
	"bytes"
	"io"
	"strings"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	goldmarkParser "github.com/yuin/goldmark/parser"
	goldmarkRenderer "github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"

	"github.com/sambeau/nujelmode/pkg/nujel/highlight"
)

// Languages are the fence info strings highlighted as Nujel.
var Languages = []string{"nujel", "nuj", "lisp"}

func isNujel(lang string) bool {
	lang = strings.ToLower(lang)
	for _, l := range Languages {
		if lang == l {
			return true
		}
	}
	return false
}

// fenceRenderer replaces goldmark's fenced code block renderer.
type fenceRenderer struct {
	hl   *highlight.Highlighter
	html *highlight.HTMLRenderer
}

// RegisterFuncs registers the render function for fenced code blocks
func (r *fenceRenderer) RegisterFuncs(reg goldmarkRenderer.NodeRendererFuncRegisterer) {
	reg.Register(gmast.KindFencedCodeBlock, r.renderFencedCodeBlock)
}

func (r *fenceRenderer) renderFencedCodeBlock(w util.BufWriter, source []byte, node gmast.Node, entering bool) (gmast.WalkStatus, error) {
	if !entering {
		return gmast.WalkContinue, nil
	}
	n := node.(*gmast.FencedCodeBlock)
	lang := string(n.Language(source))

	var code bytes.Buffer
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		code.Write(line.Value(source))
	}

	if isNujel(lang) {
		w.Write(r.html.Fragment(r.hl.Document(code.String())))
		return gmast.WalkSkipChildren, nil
	}

	// same markup goldmark produces for other languages
	w.WriteString("<pre><code")
	if lang != "" {
		w.WriteString(` class="language-`)
		w.Write(util.EscapeHTML([]byte(lang)))
		w.WriteString(`"`)
	}
	w.WriteString(">")
	w.Write(util.EscapeHTML(code.Bytes()))
	w.WriteString("</code></pre>\n")
	return gmast.WalkSkipChildren, nil
}

// Extension is a goldmark extension that highlights Nujel code fences.
type Extension struct {
	hl   *highlight.Highlighter
	html *highlight.HTMLRenderer
}

// NewExtension creates the extension. A nil theme means the default theme.
func NewExtension(hl *highlight.Highlighter, theme *highlight.Theme, lineNumbers bool) goldmark.Extender {
	if hl == nil {
		hl = highlight.New(nil, 0)
	}
	if theme == nil {
		theme, _ = highlight.LookupTheme(highlight.DefaultTheme)
	}
	return &Extension{hl: hl, html: &highlight.HTMLRenderer{Theme: theme, LineNumbers: lineNumbers}}
}

// Extend adds the fenced code renderer to goldmark
func (e *Extension) Extend(m goldmark.Markdown) {
	m.Renderer().AddOptions(goldmarkRenderer.WithNodeRenderers(
		util.Prioritized(&fenceRenderer{hl: e.hl, html: e.html}, 200),
	))
}

// Renderer converts Markdown to HTML.
type Renderer struct {
	md    goldmark.Markdown
	theme *highlight.Theme
}

// New returns a GFM renderer with Nujel highlighting.
func New(hl *highlight.Highlighter, theme *highlight.Theme, lineNumbers bool) *Renderer {
	if theme == nil {
		theme, _ = highlight.LookupTheme(highlight.DefaultTheme)
	}
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			NewExtension(hl, theme, lineNumbers),
		),
		goldmark.WithParserOptions(goldmarkParser.WithAutoHeadingID()),
	)
	return &Renderer{md: md, theme: theme}
}

// Convert writes the HTML body for src.
func (r *Renderer) Convert(src []byte, w io.Writer) error {
	return r.md.Convert(src, w)
}

// Page writes a complete HTML page for src, including the theme stylesheet.
func (r *Renderer) Page(src []byte, title string, w io.Writer) error {
	var body bytes.Buffer
	if err := r.md.Convert(src, &body); err != nil {
		return err
	}
	var page bytes.Buffer
	page.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<title>")
	page.Write(util.EscapeHTML([]byte(title)))
	page.WriteString("</title>\n<style>\n")
	if err := highlight.WriteCSS(&page, r.theme); err != nil {
		return err
	}
	page.WriteString("</style>\n</head>\n<body>\n")
	page.Write(body.Bytes())
	page.WriteString("</body>\n</html>\n")
	_, err := w.Write(page.Bytes())
	return err
}
