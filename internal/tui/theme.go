package tui

import (
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Board chrome palette. Point rows and forms carry their own styles.

func ac(light, dark string) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{Light: light, Dark: dark}
}

var (
	colorMuted    lipgloss.TerminalColor = ac("240", "243")
	colorAccent   lipgloss.TerminalColor = ac("27", "62")
	colorHeaderFg lipgloss.TerminalColor = ac("235", "252")
	colorError    lipgloss.TerminalColor = ac("160", "203")
	colorCursor   lipgloss.TerminalColor = ac("27", "75")
)

func styleMuted() lipgloss.Style {
	st := lipgloss.NewStyle().Foreground(colorMuted)
	if lipgloss.HasDarkBackground() {
		return st.Faint(true)
	}
	return st
}

func styleHeader() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(colorHeaderFg).Bold(true)
}

func styleTab(active bool) lipgloss.Style {
	if active {
		return lipgloss.NewStyle().Foreground(colorAccent).Bold(true).Underline(true)
	}
	return styleMuted()
}

func styleStatus(isErr bool) lipgloss.Style {
	if isErr {
		return lipgloss.NewStyle().Foreground(colorError).Bold(true)
	}
	return styleMuted()
}

// applyColorProfilePreference sets Lip Gloss's color profile for the TUI.
//
// termenv.EnvColorProfile honors CLICOLOR, which is right for piped CLI output but can turn colors
// off inside the alt screen, so only NO_COLOR is respected here.
func applyColorProfilePreference() {
	if strings.TrimSpace(os.Getenv("NO_COLOR")) != "" {
		lipgloss.SetColorProfile(termenv.Ascii)
		return
	}

	profile := termenv.ColorProfile()
	term := strings.ToLower(strings.TrimSpace(os.Getenv("TERM")))
	colorterm := strings.ToLower(strings.TrimSpace(os.Getenv("COLORTERM")))
	if strings.Contains(colorterm, "truecolor") || strings.Contains(colorterm, "24bit") {
		if profile != termenv.Ascii {
			profile = termenv.TrueColor
		}
	} else if strings.Contains(term, "256color") && profile != termenv.TrueColor {
		profile = termenv.ANSI256
	}
	lipgloss.SetColorProfile(profile)
}

// applyThemePreference fixes the background guess when the terminal does not report it.
//
// Priority:
// 1) WAYPOINT_TUI_THEME=light|dark|auto
// 2) COLORFGBG heuristic ("fg;bg")
func applyThemePreference() {
	switch strings.ToLower(strings.TrimSpace(os.Getenv("WAYPOINT_TUI_THEME"))) {
	case "light":
		lipgloss.SetHasDarkBackground(false)
		return
	case "dark":
		lipgloss.SetHasDarkBackground(true)
		return
	}

	if v := strings.TrimSpace(os.Getenv("COLORFGBG")); v != "" {
		parts := strings.Split(v, ";")
		if bg, err := strconv.Atoi(strings.TrimSpace(parts[len(parts)-1])); err == nil {
			lipgloss.SetHasDarkBackground(bg < 7)
		}
	}
}

// Appearance profiles selectable with tui.profile.
const (
	profileDefault = "default"
	profileMono    = "mono"
	profileLight   = "light"
	profileDark    = "dark"
)

var knownProfiles = []string{profileDefault, profileMono, profileLight, profileDark}

// applyAppearance applies a tui.profile value. Unknown values fall back to default and report false.
func applyAppearance(profile string) bool {
	switch strings.ToLower(strings.TrimSpace(profile)) {
	case "", profileDefault:
		return true
	case profileMono:
		lipgloss.SetColorProfile(termenv.Ascii)
		return true
	case profileLight:
		lipgloss.SetHasDarkBackground(false)
		return true
	case profileDark:
		lipgloss.SetHasDarkBackground(true)
		return true
	default:
		return false
	}
}
