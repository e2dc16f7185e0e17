package render

import (
	"strings"

	"github.com/charmbracelet/x/ansi"

	"github.com/diogo/askchat/internal/models"
)

// Markdown renders markdown content for terminal display.
func Markdown(content string, opts Options) (string, error) {
	renderer, err := globalPool.get(opts)
	if err != nil {
		return "", err
	}
	defer globalPool.put(opts, renderer)

	return renderer.Render(content)
}

// MarkdownWithWidth renders with default options at the given width.
func MarkdownWithWidth(content string, width int) (string, error) {
	return Markdown(content, DefaultOptions().WithWidth(width))
}

// PlainText wraps content at width without interpreting any markup.
func PlainText(content string, width int) string {
	if width <= 0 {
		return content
	}
	return ansi.Wordwrap(content, width, "")
}

// Message renders a single conversation entry: user text verbatim,
// assistant text as markdown. Markdown failures degrade to plain text.
func Message(msg models.Message, opts Options) string {
	if msg.IsUser() {
		return PlainText(msg.Content, opts.Width)
	}

	rendered, err := Markdown(msg.Content, opts)
	if err != nil {
		return PlainText(msg.Content, opts.Width)
	}
	return strings.Trim(rendered, "\n")
}
