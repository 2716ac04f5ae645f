// Package render turns model output into HTML for the comparison view.
package render

import (
	"bytes"
	stdhtml "html"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// 默认不透传原始 HTML，模型输出里的 <script> 等会被省略。
var md = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithRendererOptions(html.WithHardWraps()),
)

// Markdown converts markdown text to an HTML fragment.
func Markdown(src string) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(src), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// MarkdownOrText is Markdown with a plain-text fallback on conversion failure.
func MarkdownOrText(src string) string {
	out, err := Markdown(src)
	if err != nil {
		return "<pre>" + stdhtml.EscapeString(src) + "</pre>"
	}
	return out
}
