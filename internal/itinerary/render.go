package itinerary

import (
	"bytes"
	"fmt"
	"html"

	"github.com/charmbracelet/glamour"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var markdownHTML = goldmark.New(goldmark.WithExtensions(extension.GFM))

// HTML renders markdown as a standalone page.
func HTML(title, markdown string) (string, error) {
	var body bytes.Buffer
	if err := markdownHTML.Convert([]byte(markdown), &body); err != nil {
		return "", fmt.Errorf("converting itinerary to HTML: %w", err)
	}
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>%s</title>
<style>body{font-family:sans-serif;max-width:48rem;margin:2rem auto;line-height:1.5;padding:0 1rem}</style>
</head>
<body>
%s</body>
</html>
`, html.EscapeString(title), body.String()), nil
}

// Terminal renders markdown for a terminal of the given width.
func Terminal(markdown string, width int) (string, error) {
	if width <= 0 {
		width = 80
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", fmt.Errorf("creating terminal renderer: %w", err)
	}
	out, err := r.Render(markdown)
	if err != nil {
		return "", fmt.Errorf("rendering itinerary: %w", err)
	}
	return out, nil
}
