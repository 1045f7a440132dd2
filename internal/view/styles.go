package view

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// Palette helpers. Colors adapt to light and dark terminals; faint text is only used on dark
// backgrounds where it stays legible.

func ac(light, dark string) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{Light: light, Dark: dark}
}

func faintIfDark(st lipgloss.Style) lipgloss.Style {
	if lipgloss.HasDarkBackground() {
		return st.Faint(true)
	}
	return st
}

var (
	colorMuted       lipgloss.TerminalColor = ac("240", "243")
	colorAccent      lipgloss.TerminalColor = ac("27", "62")
	colorFavorite    lipgloss.TerminalColor = ac("214", "220")
	colorError       lipgloss.TerminalColor = ac("160", "203")
	colorFocusBg     lipgloss.TerminalColor = ac("#e9e9e9", "#262626")
	colorFormBorder  lipgloss.TerminalColor = ac("250", "243")
	colorOfferActive lipgloss.TerminalColor = ac("28", "78")
)

func styleMuted() lipgloss.Style {
	return faintIfDark(lipgloss.NewStyle().Foreground(colorMuted))
}

func styleLabel() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(colorMuted).Width(12)
}

func styleFocused() lipgloss.Style {
	return lipgloss.NewStyle().Background(colorFocusBg).Bold(true)
}

func styleError() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(colorError).Bold(true)
}

// FormatDuration renders 30M, 02H 05M or 01D 02H 05M.
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d / time.Minute)
	days := total / (24 * 60)
	hours := (total / 60) % 24
	mins := total % 60
	switch {
	case days > 0:
		return fmt.Sprintf("%02dD %02dH %02dM", days, hours, mins)
	case hours > 0:
		return fmt.Sprintf("%02dH %02dM", hours, mins)
	default:
		return fmt.Sprintf("%02dM", mins)
	}
}
