package render

import (
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// TUITheme defines the color scheme for the chat screen
type TUITheme struct {
	Name        string
	Description string

	// MarkdownStyle is the markdown style that matches this palette
	MarkdownStyle string

	Surface lipgloss.Color
	Border  lipgloss.Color

	Primary   lipgloss.Color // assistant accents, header title
	Secondary lipgloss.Color // user accents
	Accent    lipgloss.Color // spinner, "Thinking..." entry
	Error     lipgloss.Color

	Text     lipgloss.Color
	TextDim  lipgloss.Color
	TextMute lipgloss.Color
}

// Built-in TUI themes
var (
	TokyoNightTheme = TUITheme{
		Name:          "tokyonight",
		Description:   "Tokyo Night - dark theme with blue accents",
		MarkdownStyle: ThemeTokyoNight,
		Surface:       lipgloss.Color("#24283b"),
		Border:        lipgloss.Color("#414868"),
		Primary:       lipgloss.Color("#7aa2f7"),
		Secondary:     lipgloss.Color("#9ece6a"),
		Accent:        lipgloss.Color("#bb9af7"),
		Error:         lipgloss.Color("#f7768e"),
		Text:          lipgloss.Color("#c0caf5"),
		TextDim:       lipgloss.Color("#565f89"),
		TextMute:      lipgloss.Color("#3b4261"),
	}

	NordTheme = TUITheme{
		Name:          "nord",
		Description:   "Nord - arctic theme with cool tones",
		MarkdownStyle: ThemeDark,
		Surface:       lipgloss.Color("#3b4252"),
		Border:        lipgloss.Color("#4c566a"),
		Primary:       lipgloss.Color("#88c0d0"),
		Secondary:     lipgloss.Color("#a3be8c"),
		Accent:        lipgloss.Color("#b48ead"),
		Error:         lipgloss.Color("#bf616a"),
		Text:          lipgloss.Color("#eceff4"),
		TextDim:       lipgloss.Color("#7b88a1"),
		TextMute:      lipgloss.Color("#4c566a"),
	}

	DraculaTheme = TUITheme{
		Name:          "dracula",
		Description:   "Dracula - dark theme with vibrant colors",
		MarkdownStyle: ThemeDracula,
		Surface:       lipgloss.Color("#44475a"),
		Border:        lipgloss.Color("#6272a4"),
		Primary:       lipgloss.Color("#8be9fd"),
		Secondary:     lipgloss.Color("#50fa7b"),
		Accent:        lipgloss.Color("#ff79c6"),
		Error:         lipgloss.Color("#ff5555"),
		Text:          lipgloss.Color("#f8f8f2"),
		TextDim:       lipgloss.Color("#6272a4"),
		TextMute:      lipgloss.Color("#44475a"),
	}

	LightTheme = TUITheme{
		Name:          "light",
		Description:   "Light - for bright terminals",
		MarkdownStyle: ThemeLight,
		Surface:       lipgloss.Color("#e9e9ec"),
		Border:        lipgloss.Color("#a8aecb"),
		Primary:       lipgloss.Color("#2e7de9"),
		Secondary:     lipgloss.Color("#587539"),
		Accent:        lipgloss.Color("#9854f1"),
		Error:         lipgloss.Color("#f52a65"),
		Text:          lipgloss.Color("#3760bf"),
		TextDim:       lipgloss.Color("#6172b0"),
		TextMute:      lipgloss.Color("#a1a6c5"),
	}
)

var (
	tuiThemeMu      sync.RWMutex
	currentTUITheme = TokyoNightTheme
)

// GetTUITheme returns the currently active TUI theme
func GetTUITheme() TUITheme {
	tuiThemeMu.RLock()
	defer tuiThemeMu.RUnlock()
	return currentTUITheme
}

// SetTUITheme sets the active TUI theme by name. Unknown names are ignored.
func SetTUITheme(name string) bool {
	theme, ok := GetTUIThemeByName(name)
	if !ok {
		return false
	}
	tuiThemeMu.Lock()
	currentTUITheme = theme
	tuiThemeMu.Unlock()
	return true
}

// GetTUIThemeByName returns a TUI theme by its name
func GetTUIThemeByName(name string) (TUITheme, bool) {
	for _, theme := range AvailableTUIThemes() {
		if theme.Name == name {
			return theme, true
		}
	}
	return TUITheme{}, false
}

// AvailableTUIThemes returns a list of all available TUI themes
func AvailableTUIThemes() []TUITheme {
	return []TUITheme{
		TokyoNightTheme,
		NordTheme,
		DraculaTheme,
		LightTheme,
	}
}

// TUIThemeNames returns just the theme names for selection
func TUIThemeNames() []string {
	themes := AvailableTUIThemes()
	names := make([]string, len(themes))
	for i, t := range themes {
		names[i] = t.Name
	}
	return names
}
