package viz

import "github.com/charmbracelet/lipgloss"

// Theme colors the panel around the particle canvas.
type Theme struct {
	Name   string
	Accent lipgloss.Color
	Border lipgloss.Color
	Text   lipgloss.Color
	Muted  lipgloss.Color
}

var (
	ThemeNight = Theme{
		Name:   "night",
		Accent: lipgloss.Color("#00ffff"),
		Border: lipgloss.Color("#444466"),
		Text:   lipgloss.Color("#e0e0ff"),
		Muted:  lipgloss.Color("#666688"),
	}

	ThemeEmber = Theme{
		Name:   "ember",
		Accent: lipgloss.Color("#ff9f43"),
		Border: lipgloss.Color("#5a3d2b"),
		Text:   lipgloss.Color("#fff5eb"),
		Muted:  lipgloss.Color("#8b6b5c"),
	}

	ThemeMono = Theme{
		Name:   "mono",
		Accent: lipgloss.Color("#ffffff"),
		Border: lipgloss.Color("#555555"),
		Text:   lipgloss.Color("#dddddd"),
		Muted:  lipgloss.Color("#777777"),
	}

	Themes = []Theme{ThemeNight, ThemeEmber, ThemeMono}
)

// GetTheme returns a theme by name, falling back to night.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeNight
}

// NextTheme returns the theme after t in Themes.
func NextTheme(t Theme) Theme {
	for i, th := range Themes {
		if th.Name == t.Name {
			return Themes[(i+1)%len(Themes)]
		}
	}
	return Themes[0]
}
