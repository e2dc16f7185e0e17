package render

import "github.com/charmbracelet/glamour/styles"

// Markdown style names accepted in Options.Style
const (
	ThemeDark       = "dark"
	ThemeLight      = "light"
	ThemeTokyoNight = "tokyonight"
	ThemeDracula    = "dracula"
	ThemePink       = "pink"
	ThemeNoTTY      = "notty"
	ThemeASCII      = "ascii"
)

// styleAliases maps our names to glamour's built-in style names
var styleAliases = map[string]string{
	ThemeTokyoNight: styles.TokyoNightStyle,
}

// resolveStyle returns the glamour style name or path for a configured style
func resolveStyle(style string) string {
	if alias, ok := styleAliases[style]; ok {
		return alias
	}
	return style
}

// IsBuiltinStyle reports whether style names a built-in markdown style
// rather than a path to a JSON style file.
func IsBuiltinStyle(style string) bool {
	_, ok := styles.DefaultStyles[resolveStyle(style)]
	return ok
}

// ThemeInfo contains information about a theme for display purposes.
type ThemeInfo struct {
	Name        string
	Description string
}

// AvailableThemes lists the built-in markdown styles.
func AvailableThemes() []ThemeInfo {
	return []ThemeInfo{
		{Name: ThemeDark, Description: "Dark theme (default)"},
		{Name: ThemeLight, Description: "Light theme for bright terminals"},
		{Name: ThemeTokyoNight, Description: "Tokyo Night color scheme"},
		{Name: ThemeDracula, Description: "Dracula color scheme"},
		{Name: ThemePink, Description: "Pink accents"},
		{Name: ThemeNoTTY, Description: "Plain text (no styling)"},
		{Name: ThemeASCII, Description: "ASCII-only output"},
	}
}

// ThemeNames returns just the theme names for selection.
func ThemeNames() []string {
	themes := AvailableThemes()
	names := make([]string, len(themes))
	for i, t := range themes {
		names[i] = t.Name
	}
	return names
}
