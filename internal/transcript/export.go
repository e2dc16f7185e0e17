// Package transcript exports the in-memory conversation to a file.
package transcript

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	gmhtml "github.com/yuin/goldmark/renderer/html"
	"gopkg.in/yaml.v3"

	"github.com/diogo/askchat/internal/models"
)

// Format represents the format for exporting a conversation
type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
	FormatHTML     Format = "html"
)

// FormatForPath picks the format from the file extension, defaulting to markdown
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	case ".html", ".htm":
		return FormatHTML
	default:
		return FormatMarkdown
	}
}

// Markdown renders a conversation as a markdown document
func Markdown(title string, messages []models.Message, exportedAt time.Time) string {
	var sb strings.Builder

	sb.WriteString("# ")
	sb.WriteString(title)
	sb.WriteString("\n\n")

	sb.WriteString("**Exported:** ")
	sb.WriteString(exportedAt.Format("2006-01-02 15:04:05"))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("**Messages:** %d", len(messages)))
	sb.WriteString("\n\n---\n\n")

	for i, msg := range messages {
		role := "User"
		if msg.Role == models.RoleAssistant {
			role = "Assistant"
		}

		sb.WriteString("## ")
		sb.WriteString(role)
		sb.WriteString("\n\n")
		sb.WriteString(msg.Content)
		sb.WriteString("\n")

		if i < len(messages)-1 {
			sb.WriteString("\n---\n\n")
		}
	}

	return sb.String()
}

type exportConversation struct {
	Title      string           `json:"title" yaml:"title"`
	ExportedAt time.Time        `json:"exported_at" yaml:"exported_at"`
	Messages   []models.Message `json:"messages" yaml:"messages"`
}

// JSON renders a conversation as indented JSON
func JSON(title string, messages []models.Message, exportedAt time.Time) ([]byte, error) {
	if messages == nil {
		messages = []models.Message{}
	}
	return json.MarshalIndent(exportConversation{
		Title:      title,
		ExportedAt: exportedAt,
		Messages:   messages,
	}, "", "  ")
}

// YAML renders a conversation as a YAML document
func YAML(title string, messages []models.Message, exportedAt time.Time) ([]byte, error) {
	if messages == nil {
		messages = []models.Message{}
	}
	return yaml.Marshal(exportConversation{
		Title:      title,
		ExportedAt: exportedAt,
		Messages:   messages,
	})
}

// markdownToHTML converts GFM with hard line breaks; raw HTML in messages is escaped
var markdownToHTML = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithRendererOptions(gmhtml.WithHardWraps()),
)

// HTML renders a conversation as a standalone HTML page
func HTML(title string, messages []models.Message, exportedAt time.Time) ([]byte, error) {
	var body bytes.Buffer
	if err := markdownToHTML.Convert([]byte(Markdown(title, messages, exportedAt)), &body); err != nil {
		return nil, err
	}

	var page bytes.Buffer
	page.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<title>")
	page.WriteString(html.EscapeString(title))
	page.WriteString("</title>\n</head>\n<body>\n")
	page.Write(body.Bytes())
	page.WriteString("</body>\n</html>\n")
	return page.Bytes(), nil
}

// Write saves a conversation to path in the format implied by its extension
func Write(path, title string, messages []models.Message) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return fmt.Errorf("transcript path cannot be empty")
	}

	now := time.Now()

	var (
		data []byte
		err  error
	)
	switch FormatForPath(path) {
	case FormatJSON:
		data, err = JSON(title, messages, now)
	case FormatYAML:
		data, err = YAML(title, messages, now)
	case FormatHTML:
		data, err = HTML(title, messages, now)
	default:
		data = []byte(Markdown(title, messages, now))
	}
	if err != nil {
		return fmt.Errorf("failed to encode transcript: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create transcript directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write transcript: %w", err)
	}
	return nil
}
