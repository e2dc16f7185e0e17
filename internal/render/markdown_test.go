package render

import (
	"regexp"
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diogo/askchat/internal/models"
)

// boldSGR matches an SGR sequence whose parameters include bold (1)
var boldSGR = regexp.MustCompile(`\x1b\[(?:\d+;)*1(?:;\d+)*m`)

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()

	assert.Equal(t, 80, opts.Width)
	assert.Equal(t, ThemeDark, opts.Style)
	assert.True(t, opts.EnableEmoji)
	assert.True(t, opts.PreserveNewLines)
	assert.True(t, opts.TableWrap)
	assert.False(t, opts.InlineTableLinks)
}

func TestAssistantMessageRendersBold(t *testing.T) {
	out := Message(models.AssistantMessage("**20kg** checked baggage."), DefaultOptions())
	plain := ansi.Strip(out)

	assert.Contains(t, plain, "20kg checked baggage.")
	assert.NotContains(t, plain, "**")
	assert.True(t, boldSGR.MatchString(out), "expected a bold escape sequence in %q", out)
}

func TestUserMessageIsPlainText(t *testing.T) {
	out := Message(models.UserMessage("**not bold** ~~kept~~"), DefaultOptions())

	assert.Equal(t, "**not bold** ~~kept~~", out)
}

func TestPlainTextWraps(t *testing.T) {
	out := PlainText("the quick brown fox jumps over the lazy dog", 10)

	for _, line := range strings.Split(out, "\n") {
		assert.LessOrEqual(t, ansi.StringWidth(line), 10, "line %q too wide", line)
	}
	assert.Equal(t, "no wrap", PlainText("no wrap", 0))
}

func TestMarkdownExtendedFormatting(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		contains   []string
		notContain []string
	}{
		{
			name:       "table",
			input:      "| Class | Allowance |\n|---|---|\n| Economy | 20kg |\n| Business | 32kg |",
			contains:   []string{"Class", "Allowance", "Economy", "32kg"},
			notContain: []string{"|---|"},
		},
		{
			name:       "strikethrough",
			input:      "Fee is ~~$50~~ waived.",
			contains:   []string{"$50", "waived."},
			notContain: []string{"~~"},
		},
		{
			name:       "task list",
			input:      "- [x] passport\n- [ ] visa",
			contains:   []string{"passport", "visa"},
			notContain: []string{"[x]"},
		},
		{
			name:     "heading and list",
			input:    "# Summary\n\n* one\n* two",
			contains: []string{"Summary", "one", "two"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := MarkdownWithWidth(tt.input, 80)
			require.NoError(t, err)
			plain := ansi.Strip(out)

			for _, want := range tt.contains {
				assert.Contains(t, plain, want)
			}
			for _, unwanted := range tt.notContain {
				assert.NotContains(t, plain, unwanted)
			}
		})
	}
}

func TestMarkdownEmoji(t *testing.T) {
	out, err := Markdown("Hello :smile: world", DefaultOptions())
	require.NoError(t, err)
	assert.NotContains(t, out, ":smile:")

	out, err = Markdown("Hello :smile: world", DefaultOptions().WithEmoji(false))
	require.NoError(t, err)
	assert.Contains(t, ansi.Strip(out), ":smile:")
}

func TestMessageFallsBackOnInvalidStyle(t *testing.T) {
	opts := DefaultOptions().WithStyle("nonexistent_style_path")

	_, err := Markdown("# Test", opts)
	assert.Error(t, err)

	out := Message(models.AssistantMessage("# Test"), opts)
	assert.Equal(t, "# Test", out)
}

func TestStyles(t *testing.T) {
	assert.True(t, IsBuiltinStyle(ThemeDark))
	assert.True(t, IsBuiltinStyle(ThemeTokyoNight))
	assert.False(t, IsBuiltinStyle("/tmp/custom.json"))
	assert.Equal(t, len(AvailableThemes()), len(ThemeNames()))

	for _, name := range ThemeNames() {
		_, err := Markdown("**x**", DefaultOptions().WithStyle(name))
		assert.NoError(t, err, "style %s", name)
	}
}
