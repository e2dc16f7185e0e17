package transcript

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/diogo/askchat/internal/models"
)

var sample = []models.Message{
	models.UserMessage("Hello, how are you?"),
	models.AssistantMessage("I'm doing **well**, thank you!"),
}

func TestMarkdown(t *testing.T) {
	at := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	md := Markdown("Trip questions", sample, at)

	checks := []string{
		"# Trip questions",
		"**Exported:** 2026-03-14 09:30:00",
		"**Messages:** 2",
		"## User\n\nHello, how are you?",
		"## Assistant\n\nI'm doing **well**, thank you!",
	}
	for _, want := range checks {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q:\n%s", want, md)
		}
	}

	if strings.Count(md, "---") != 2 {
		t.Errorf("expected header rule and one separator, got:\n%s", md)
	}
}

func TestJSON(t *testing.T) {
	at := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	data, err := JSON("Trip questions", sample, at)
	if err != nil {
		t.Fatalf("JSON failed: %v", err)
	}

	var parsed struct {
		Title      string           `json:"title"`
		ExportedAt time.Time        `json:"exported_at"`
		Messages   []models.Message `json:"messages"`
	}
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	if parsed.Title != "Trip questions" {
		t.Errorf("title = %q", parsed.Title)
	}
	if !parsed.ExportedAt.Equal(at) {
		t.Errorf("exported_at = %v", parsed.ExportedAt)
	}
	if len(parsed.Messages) != 2 || parsed.Messages[1].Role != models.RoleAssistant {
		t.Errorf("unexpected messages: %+v", parsed.Messages)
	}
}

func TestJSON_EmptyConversation(t *testing.T) {
	data, err := JSON("Empty", nil, time.Now())
	if err != nil {
		t.Fatalf("JSON failed: %v", err)
	}
	if !strings.Contains(string(data), `"messages": []`) {
		t.Errorf("expected empty messages array, got %s", data)
	}
}

func TestYAML(t *testing.T) {
	at := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	data, err := YAML("Trip questions", sample, at)
	if err != nil {
		t.Fatalf("YAML failed: %v", err)
	}

	var parsed struct {
		Title    string `yaml:"title"`
		Messages []struct {
			Role    string `yaml:"role"`
			Content string `yaml:"content"`
		} `yaml:"messages"`
	}
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("invalid YAML: %v\n%s", err, data)
	}

	if parsed.Title != "Trip questions" {
		t.Errorf("title = %q", parsed.Title)
	}
	if len(parsed.Messages) != 2 || parsed.Messages[0].Role != "user" || parsed.Messages[1].Content != "I'm doing **well**, thank you!" {
		t.Errorf("unexpected messages: %+v", parsed.Messages)
	}
}

func TestHTML(t *testing.T) {
	messages := []models.Message{
		models.UserMessage("<script>alert(1)</script>"),
		models.AssistantMessage("| Class | Bags |\n|---|---|\n| Economy | 1 |\n\n~~old fee~~ **20kg**"),
	}

	data, err := HTML("Trip <questions>", messages, time.Now())
	if err != nil {
		t.Fatalf("HTML failed: %v", err)
	}
	page := string(data)

	checks := []string{
		"<title>Trip &lt;questions&gt;</title>",
		"<table>",
		"<del>old fee</del>",
		"<strong>20kg</strong>",
	}
	for _, want := range checks {
		if !strings.Contains(page, want) {
			t.Errorf("html missing %q:\n%s", want, page)
		}
	}
	if strings.Contains(page, "<script>") {
		t.Errorf("raw html from messages must not pass through:\n%s", page)
	}
}

func TestFormatForPath(t *testing.T) {
	tests := map[string]Format{
		"chat.json": FormatJSON,
		"CHAT.JSON": FormatJSON,
		"chat.yaml": FormatYAML,
		"chat.yml":  FormatYAML,
		"chat.html": FormatHTML,
		"chat.md":   FormatMarkdown,
		"chat":      FormatMarkdown,
	}
	for path, want := range tests {
		if got := FormatForPath(path); got != want {
			t.Errorf("FormatForPath(%q) = %q, want %q", path, got, want)
		}
	}
}

func TestWrite(t *testing.T) {
	dir := t.TempDir()

	mdPath := filepath.Join(dir, "nested", "chat.md")
	if err := Write(mdPath, "Trip", sample); err != nil {
		t.Fatalf("Write markdown failed: %v", err)
	}
	data, err := os.ReadFile(mdPath)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.HasPrefix(string(data), "# Trip") {
		t.Errorf("unexpected markdown file:\n%s", data)
	}

	jsonPath := filepath.Join(dir, "chat.json")
	if err := Write(jsonPath, "Trip", sample); err != nil {
		t.Fatalf("Write JSON failed: %v", err)
	}
	data, err = os.ReadFile(jsonPath)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !json.Valid(data) {
		t.Errorf("expected valid JSON, got %s", data)
	}

	if err := Write("  ", "Trip", sample); err == nil {
		t.Error("expected error for empty path")
	}
}
