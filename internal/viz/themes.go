package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme defines color scheme for the TUI
type Theme struct {
	Name    string
	Primary lipgloss.Color
	Accent  lipgloss.Color
	Text    lipgloss.Color
	Muted   lipgloss.Color
	Success lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color
	// Palette maps scenario color tokens to terminal colors. Unknown
	// tokens that look like colors (#rrggbb or an ANSI number) are used
	// as is; anything else renders in Text.
	Palette map[string]lipgloss.Color
}

// Available themes
var (
	ThemeSpace = Theme{
		Name:    "space",
		Primary: lipgloss.Color("86"),
		Accent:  lipgloss.Color("205"),
		Text:    lipgloss.Color("252"),
		Muted:   lipgloss.Color("240"),
		Success: lipgloss.Color("#00ff88"),
		Warning: lipgloss.Color("#ffaa00"),
		Error:   lipgloss.Color("#ff4444"),
		Palette: map[string]lipgloss.Color{
			"yellow": "#ffd75f",
			"orange": "#ff8700",
			"red":    "#ff5f5f",
			"blue":   "#5f87ff",
			"cyan":   "#5fffff",
			"green":  "#5fff87",
			"gray":   "#8a8a8a",
			"grey":   "#8a8a8a",
			"white":  "#ffffff",
			"purple": "#af87ff",
			"brown":  "#af875f",
		},
	}

	ThemeRetroGreen = Theme{
		Name:    "retro",
		Primary: lipgloss.Color("#00ff00"), // Green phosphor
		Accent:  lipgloss.Color("#88ff88"),
		Text:    lipgloss.Color("#00ff00"),
		Muted:   lipgloss.Color("#005500"),
		Success: lipgloss.Color("#88ff88"),
		Warning: lipgloss.Color("#ffff00"),
		Error:   lipgloss.Color("#ff0000"),
		Palette: map[string]lipgloss.Color{},
	}

	ThemeMinimal = Theme{
		Name:    "minimal",
		Primary: lipgloss.Color("#ffffff"),
		Accent:  lipgloss.Color("#0088ff"),
		Text:    lipgloss.Color("#ffffff"),
		Muted:   lipgloss.Color("#888888"),
		Success: lipgloss.Color("#00ff00"),
		Warning: lipgloss.Color("#ffaa00"),
		Error:   lipgloss.Color("#ff0000"),
		Palette: map[string]lipgloss.Color{
			"yellow": "11",
			"orange": "208",
			"red":    "9",
			"blue":   "12",
			"cyan":   "14",
			"green":  "10",
			"gray":   "8",
			"grey":   "8",
			"white":  "15",
			"purple": "13",
			"brown":  "130",
		},
	}

	// All available themes
	Themes = []Theme{
		ThemeSpace,
		ThemeRetroGreen,
		ThemeMinimal,
	}
)

// Body returns the terminal color for a scenario color token.
func (t Theme) Body(token string) lipgloss.Color {
	if c, ok := t.Palette[strings.ToLower(token)]; ok {
		return c
	}
	if isColorLiteral(token) {
		return lipgloss.Color(token)
	}
	return t.Text
}

func isColorLiteral(token string) bool {
	if len(token) == 7 && token[0] == '#' {
		for _, r := range token[1:] {
			if !strings.ContainsRune("0123456789abcdefABCDEF", r) {
				return false
			}
		}
		return true
	}
	if token == "" || len(token) > 3 {
		return false
	}
	for _, r := range token {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// GetTheme returns a theme by name
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeSpace
}

// NextTheme returns the theme after t in Themes, wrapping around.
func NextTheme(t Theme) Theme {
	for i, th := range Themes {
		if th.Name == t.Name {
			return Themes[(i+1)%len(Themes)]
		}
	}
	return Themes[0]
}

// ThemeNames returns list of available theme names
func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}
