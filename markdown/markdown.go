// Package markdown renders the admin-edited markdown sections as HTML for
// the invitation page.
package markdown

import (
	"bytes"
	"html/template"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

var headingClasses = map[int]string{
	1: "font-serif text-4xl md:text-5xl text-primary mb-6",
	2: "font-serif text-3xl md:text-4xl text-primary mb-4 mt-8",
	3: "font-serif text-2xl md:text-3xl text-primary mb-3 mt-6",
	4: "font-serif text-xl md:text-2xl text-primary mb-2 mt-4",
}

const (
	paragraphClass   = "text-gray-700 leading-relaxed mb-4"
	linkClass        = "text-accent hover:underline"
	bulletListClass  = "list-disc list-inside mb-4 space-y-1 text-gray-700"
	orderedListClass = "list-decimal list-inside mb-4 space-y-1 text-gray-700"
	strongClass      = "font-semibold text-primary"
	emphasisClass    = "italic"
	blockquoteClass  = "border-l-4 border-primary pl-4 italic text-gray-600 my-4"
	ruleClass        = "my-8 border-t border-gray-200"
)

var renderer = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,
		&weddingStyle{},
	),
)

// Render converts src to HTML. Raw HTML in src is not passed through.
func Render(src string) template.HTML {
	src = strings.TrimSpace(src)
	if src == "" {
		return ""
	}
	var b bytes.Buffer
	if err := renderer.Convert([]byte(src), &b); err != nil {
		return template.HTML("<pre>" + template.HTMLEscapeString(src) + "</pre>")
	}
	// goldmark output is trusted only because raw HTML is disabled.
	return template.HTML(b.String())
}

type weddingStyle struct{}

func (e *weddingStyle) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(parser.WithASTTransformers(
		util.Prioritized(&styleTransformer{}, 100),
	))
}

type styleTransformer struct{}

func (t *styleTransformer) Transform(node *ast.Document, reader text.Reader, pc parser.Context) {
	_ = ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch v := n.(type) {
		case *ast.Heading:
			if class, ok := headingClasses[v.Level]; ok {
				v.SetAttributeString("class", []byte(class))
			}
		case *ast.Paragraph:
			v.SetAttributeString("class", []byte(paragraphClass))
		case *ast.List:
			if v.IsOrdered() {
				v.SetAttributeString("class", []byte(orderedListClass))
			} else {
				v.SetAttributeString("class", []byte(bulletListClass))
			}
		case *ast.Emphasis:
			if v.Level >= 2 {
				v.SetAttributeString("class", []byte(strongClass))
			} else {
				v.SetAttributeString("class", []byte(emphasisClass))
			}
		case *ast.Blockquote:
			v.SetAttributeString("class", []byte(blockquoteClass))
		case *ast.ThematicBreak:
			v.SetAttributeString("class", []byte(ruleClass))
		case *ast.Link:
			v.SetAttributeString("class", []byte(linkClass))
			if isExternal(v.Destination) {
				v.SetAttributeString("target", []byte("_blank"))
				v.SetAttributeString("rel", []byte("noopener noreferrer"))
			}
		case *ast.AutoLink:
			v.SetAttributeString("class", []byte(linkClass))
			if v.AutoLinkType == ast.AutoLinkURL && isExternal(v.URL(reader.Source())) {
				v.SetAttributeString("target", []byte("_blank"))
				v.SetAttributeString("rel", []byte("noopener noreferrer"))
			}
		}
		return ast.WalkContinue, nil
	})
}

func isExternal(dest []byte) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(string(dest))), "http")
}
