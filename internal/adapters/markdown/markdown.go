// Package markdown renders product descriptions and notification bodies to HTML.
package markdown

import (
	"bytes"
	"html"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"
)

// Raw HTML in the input is escaped (WithUnsafe is not set).
var renderer = goldmark.New(
	goldmark.WithExtensions(extension.Strikethrough),
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

// ToHTML converts markdown to an HTML fragment. On a render failure the input is
// returned HTML-escaped.
func ToHTML(md string) string {
	var buf bytes.Buffer
	if err := renderer.Convert([]byte(md), &buf); err != nil {
		return html.EscapeString(md)
	}
	return buf.String()
}

var escaper = strings.NewReplacer(
	`\`, `\\`, "`", "\\`", "*", `\*`, "_", `\_`,
	"{", `\{`, "}", `\}`, "[", `\[`, "]", `\]`,
	"(", `\(`, ")", `\)`, "#", `\#`, "+", `\+`,
	"-", `\-`, ".", `\.`, "!", `\!`, "<", `\<`,
	">", `\>`, "|", `\|`, "~", `\~`,
)

// Escape backslash-escapes markdown metacharacters so user-supplied text renders
// as the literal characters it contains.
func Escape(s string) string {
	return escaper.Replace(s)
}
