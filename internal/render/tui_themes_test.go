package render

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

var hexColor = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

func TestTUIThemes_Colors(t *testing.T) {
	for _, theme := range AvailableTUIThemes() {
		t.Run(theme.Name, func(t *testing.T) {
			assert.NotEmpty(t, theme.Description)
			assert.True(t, IsBuiltinStyle(theme.MarkdownStyle), "markdown style %q", theme.MarkdownStyle)

			colors := map[string]string{
				"surface":   string(theme.Surface),
				"border":    string(theme.Border),
				"primary":   string(theme.Primary),
				"secondary": string(theme.Secondary),
				"accent":    string(theme.Accent),
				"error":     string(theme.Error),
				"text":      string(theme.Text),
				"text_dim":  string(theme.TextDim),
				"text_mute": string(theme.TextMute),
			}
			for field, c := range colors {
				assert.Regexp(t, hexColor, c, "%s color", field)
			}
		})
	}
}

func TestGetTUIThemeByName(t *testing.T) {
	theme, ok := GetTUIThemeByName("dracula")
	assert.True(t, ok)
	assert.Equal(t, DraculaTheme.Primary, theme.Primary)

	_, ok = GetTUIThemeByName("solarized")
	assert.False(t, ok)
}

func TestSetTUITheme(t *testing.T) {
	defer SetTUITheme(TokyoNightTheme.Name)

	assert.True(t, SetTUITheme("nord"))
	assert.Equal(t, "nord", GetTUITheme().Name)

	assert.False(t, SetTUITheme("unknown"))
	assert.Equal(t, "nord", GetTUITheme().Name, "unknown names keep the current theme")
}

func TestTUIThemeNames(t *testing.T) {
	assert.Equal(t, []string{"tokyonight", "nord", "dracula", "light"}, TUIThemeNames())
}
