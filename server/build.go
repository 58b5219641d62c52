package server

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sambeau/nujelmode/pkg/nujel/document"
	"github.com/sambeau/nujelmode/pkg/nujel/errors"
	"github.com/sambeau/nujelmode/pkg/nujel/highlight"
	"github.com/sambeau/nujelmode/pkg/nujel/markdown"
)

// Builder renders Nujel sources and Markdown documents to standalone HTML pages.
type Builder struct {
	hl          *highlight.Highlighter
	theme       *highlight.Theme
	lineNumbers bool
	md          *markdown.Renderer
}

// NewBuilder creates a builder. A nil theme means the default theme.
func NewBuilder(hl *highlight.Highlighter, theme *highlight.Theme, lineNumbers bool) *Builder {
	if hl == nil {
		hl = highlight.New(nil, 0)
	}
	if theme == nil {
		theme, _ = highlight.LookupTheme(highlight.DefaultTheme)
	}
	return &Builder{
		hl:          hl,
		theme:       theme,
		lineNumbers: lineNumbers,
		md:          markdown.New(hl, theme, lineNumbers),
	}
}

// Renders reports whether name is a file the builder turns into a page.
func (b *Builder) Renders(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return document.Nujel.HasExtension(name) || ext == ".md"
}

// Render returns the page for src, choosing the renderer from the name's extension.
func (b *Builder) Render(name string, src []byte) ([]byte, error) {
	title := filepath.Base(name)
	var buf bytes.Buffer
	switch {
	case document.Nujel.HasExtension(name):
		r := &highlight.HTMLRenderer{Theme: b.theme, LineNumbers: b.lineNumbers, Standalone: true, Title: title}
		if err := r.Render(&buf, b.hl.Document(string(src))); err != nil {
			return nil, err
		}
	case strings.EqualFold(filepath.Ext(name), ".md"):
		if err := b.md.Page(src, title, &buf); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("no renderer for %s", name)
	}
	return buf.Bytes(), nil
}

// OutputPath returns the page written next to a source: foo.nuj becomes foo.html.
func OutputPath(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ".html"
}

// BuildFile renders the file at path and writes the page next to it,
// returning the page's path.
func (b *Builder) BuildFile(path string) (string, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return "", errors.NewIO("read", path, err)
	}
	page, err := b.Render(path, src)
	if err != nil {
		return "", err
	}
	out := OutputPath(path)
	if err := os.WriteFile(out, page, 0644); err != nil {
		return "", errors.NewIO("write", out, err)
	}
	return out, nil
}
