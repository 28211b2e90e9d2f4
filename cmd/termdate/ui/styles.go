// Package ui provides the bubbletea interface for termdate: profile browsing,
// chat, and the collaborative coding challenge flow.
package ui

import "github.com/charmbracelet/lipgloss"

// Gruvbox-leaning palette, light and dark variants.
var (
	LightBackground = lipgloss.Color("#fbf1c7")
	LightForeground = lipgloss.Color("#3c3836")
	LightAccent     = lipgloss.Color("#b57614")
	LightMuted      = lipgloss.Color("#a89984")
	LightBorder     = lipgloss.Color("#d5c4a1")

	DarkBackground = lipgloss.Color("#282828")
	DarkForeground = lipgloss.Color("#d5c4a1")
	DarkAccent     = lipgloss.Color("#d79921")
	DarkMuted      = lipgloss.Color("#7c9e91")
	DarkBorder     = lipgloss.Color("#3c3836")

	// Semantic colors, same in both modes.
	Success = lipgloss.Color("#a4a73a")
	Warning = lipgloss.Color("#d7a957")
	Danger  = lipgloss.Color("#cc8f81")
	Info    = lipgloss.Color("#79918e")
)

// Theme holds the active color scheme.
type Theme struct {
	Background lipgloss.Color
	Foreground lipgloss.Color
	Accent     lipgloss.Color
	Muted      lipgloss.Color
	Border     lipgloss.Color
	IsDark     bool
}

// LightTheme returns the light variant.
func LightTheme() Theme {
	return Theme{
		Background: LightBackground,
		Foreground: LightForeground,
		Accent:     LightAccent,
		Muted:      LightMuted,
		Border:     LightBorder,
	}
}

// DarkTheme returns the dark variant.
func DarkTheme() Theme {
	return Theme{
		Background: DarkBackground,
		Foreground: DarkForeground,
		Accent:     DarkAccent,
		Muted:      DarkMuted,
		Border:     DarkBorder,
		IsDark:     true,
	}
}

// ThemeByName resolves a config theme name, defaulting to dark.
func ThemeByName(name string) Theme {
	if name == "light" {
		return LightTheme()
	}
	return DarkTheme()
}

// Styles are the pre-built lipgloss styles shared by the pages.
type Styles struct {
	Theme Theme

	Title     lipgloss.Style
	Header    lipgloss.Style
	Card      lipgloss.Style
	Label     lipgloss.Style
	Value     lipgloss.Style
	Hint      lipgloss.Style
	ErrorLine lipgloss.Style

	MsgMine   lipgloss.Style
	MsgTheirs lipgloss.Style
	Unread    lipgloss.Style

	CountdownHigh lipgloss.Style // plenty of time
	CountdownMid  lipgloss.Style
	CountdownLow  lipgloss.Style // about to start
	ResultPass    lipgloss.Style
	ResultFail    lipgloss.Style
}

// DefaultStyles builds the style set for a theme.
func DefaultStyles(theme Theme) Styles {
	return Styles{
		Theme: theme,

		Title:     lipgloss.NewStyle().Bold(true).Foreground(theme.Accent),
		Header:    lipgloss.NewStyle().Bold(true).Foreground(theme.Foreground),
		Card:      lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(theme.Border).Padding(1, 2),
		Label:     lipgloss.NewStyle().Foreground(theme.Muted),
		Value:     lipgloss.NewStyle().Foreground(theme.Foreground),
		Hint:      lipgloss.NewStyle().Faint(true).Foreground(theme.Muted),
		ErrorLine: lipgloss.NewStyle().Foreground(Danger),

		MsgMine:   lipgloss.NewStyle().Foreground(theme.Accent),
		MsgTheirs: lipgloss.NewStyle().Foreground(theme.Foreground),
		Unread:    lipgloss.NewStyle().Bold(true).Foreground(Warning),

		CountdownHigh: lipgloss.NewStyle().Bold(true).Foreground(Success),
		CountdownMid:  lipgloss.NewStyle().Bold(true).Foreground(Warning),
		CountdownLow:  lipgloss.NewStyle().Bold(true).Foreground(Danger),
		ResultPass:    lipgloss.NewStyle().Bold(true).Foreground(Success),
		ResultFail:    lipgloss.NewStyle().Bold(true).Foreground(Danger),
	}
}

// CountdownStyle picks the style for the remaining ticks, shifting from green
// through yellow to red as the start approaches.
func (s Styles) CountdownStyle(remaining int) lipgloss.Style {
	switch {
	case remaining <= 1:
		return s.CountdownLow
	case remaining <= 3:
		return s.CountdownMid
	default:
		return s.CountdownHigh
	}
}
