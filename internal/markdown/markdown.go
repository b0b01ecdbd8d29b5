// Package markdown renders entry content to HTML. The journal stores raw
// markdown; rendering is a pure pass-through to goldmark and never fails
// from the caller's perspective.
package markdown

import (
	"bytes"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// Renderer converts markdown source to HTML.
type Renderer struct {
	md goldmark.Markdown
}

// NewRenderer creates a renderer with GFM extensions enabled.
func NewRenderer() *Renderer {
	return &Renderer{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithRendererOptions(html.WithHardWraps()),
		),
	}
}

// ToHTML renders markdown source. Empty input renders as an empty document;
// a conversion failure also yields an empty document rather than an error.
func (r *Renderer) ToHTML(source string) string {
	if source == "" {
		return ""
	}
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(source), &buf); err != nil {
		return ""
	}
	return buf.String()
}
