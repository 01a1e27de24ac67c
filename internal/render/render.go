// Package render turns article markdown into HTML.
//
// Code blocks are syntax-highlighted server-side, and relative image
// references are rewritten to live under the static asset prefix so
// content files can say `![chart](chart.png)` and still resolve once
// published.
package render

import (
	"bytes"
	"fmt"
	"html/template"
	"net/url"
	"path"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// Renderer converts markdown bodies to HTML. Safe for concurrent use.
type Renderer struct {
	md goldmark.Markdown
}

// New builds a [Renderer]. assetPrefix is the URL prefix relative image
// sources are rewritten under, e.g. "/static/".
func New(assetPrefix string) *Renderer {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			highlighting.NewHighlighting(
				highlighting.WithStyle("friendly"),
				highlighting.WithFormatOptions(
					chromahtml.WithLineNumbers(false),
				),
			),
		),
		goldmark.WithParserOptions(
			parser.WithASTTransformers(
				util.Prioritized(&assetRewriter{prefix: assetPrefix}, 100),
			),
		),
		// Content files are trusted input written by the site owner,
		// so inline HTML passes through.
		goldmark.WithRendererOptions(html.WithUnsafe()),
	)

	return &Renderer{md: md}
}

// Render converts one markdown body to HTML.
func (r *Renderer) Render(markdown string) (template.HTML, error) {
	var buf bytes.Buffer

	err := r.md.Convert([]byte(markdown), &buf)
	if err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}

	return template.HTML(buf.String()), nil
}

// assetRewriter prefixes relative image destinations with the static
// asset path. Absolute URLs and rooted paths are left alone.
type assetRewriter struct {
	prefix string
}

func (t *assetRewriter) Transform(doc *ast.Document, _ text.Reader, _ parser.Context) {
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		img, ok := n.(*ast.Image)
		if !ok {
			return ast.WalkContinue, nil
		}

		dst := string(img.Destination)
		if rewritten, ok := t.rewrite(dst); ok {
			img.Destination = []byte(rewritten)
		}

		return ast.WalkContinue, nil
	})
}

func (t *assetRewriter) rewrite(dst string) (string, bool) {
	if dst == "" || dst[0] == '/' || dst[0] == '#' {
		return "", false
	}

	if u, err := url.Parse(dst); err != nil || u.IsAbs() {
		return "", false
	}

	return path.Join(t.prefix, dst), true
}
