package ui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Color palette
// - Default (white/black): Primary text
// - Accent (soft purple #A78BFA): Highlights, paths, interactive elements
// - Muted (gray): Secondary info, line numbers
// - No colored success/error/warning - use unicode symbols only

const defaultAccentColor = "#A78BFA"

// accentColor is the active accent, empty when accent styling is disabled.
var accentColor = defaultAccentColor

var (
	// Accent style for file paths, entity references, highlights
	Accent = lipgloss.NewStyle().Foreground(lipgloss.Color(defaultAccentColor))

	// Muted style for secondary info, hints, line numbers
	Muted = lipgloss.NewStyle().Foreground(lipgloss.Color("#6C7086"))

	// Bold style for emphasis
	Bold = lipgloss.NewStyle().Bold(true)

	// AccentBold combines accent color with bold
	AccentBold = lipgloss.NewStyle().Foreground(lipgloss.Color(defaultAccentColor)).Bold(true)
)

// DisableColors strips color from every style, leaving plain text. Bold
// survives since it renders on monochrome terminals.
func DisableColors() {
	accentColor = ""
	Accent = lipgloss.NewStyle()
	Muted = lipgloss.NewStyle()
	Bold = lipgloss.NewStyle().Bold(true)
	AccentBold = lipgloss.NewStyle().Bold(true)
}

// ConfigureTheme applies the user's accent color from config. Accepts ANSI
// 256 codes ("39") or hex ("#7aa2f7"); "none", "off", "default", and the
// empty string disable accent styling. Invalid values leave the default.
func ConfigureTheme(accent string) {
	trimmed := strings.ToLower(strings.TrimSpace(accent))
	if trimmed == "" {
		return
	}
	if trimmed == "none" || trimmed == "off" || trimmed == "default" {
		accentColor = ""
		Accent = lipgloss.NewStyle()
		AccentBold = lipgloss.NewStyle().Bold(true)
		return
	}

	color, ok := normalizeAccentColor(accent)
	if !ok {
		return
	}
	accentColor = color
	Accent = lipgloss.NewStyle().Foreground(lipgloss.Color(color))
	AccentBold = lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Bold(true)
}

// AccentColor reports the active accent color. ok is false when accent
// styling is disabled.
func AccentColor() (string, bool) {
	if accentColor == "" {
		return "", false
	}
	return accentColor, true
}

// normalizeAccentColor validates and canonicalizes a color value: ANSI 256
// codes pass through, 3-digit hex expands to 6 digits, everything else is
// rejected.
func normalizeAccentColor(input string) (string, bool) {
	s := strings.ToLower(strings.TrimSpace(input))
	switch s {
	case "", "none", "off", "default":
		return "", false
	}

	if strings.HasPrefix(s, "#") {
		hex := s[1:]
		switch len(hex) {
		case 3:
			if !isHex(hex) {
				return "", false
			}
			expanded := make([]byte, 0, 7)
			expanded = append(expanded, '#')
			for i := 0; i < 3; i++ {
				expanded = append(expanded, hex[i], hex[i])
			}
			return string(expanded), true
		case 6:
			if !isHex(hex) {
				return "", false
			}
			return s, true
		default:
			return "", false
		}
	}

	code, err := strconv.Atoi(s)
	if err != nil || code < 0 || code > 255 {
		return "", false
	}
	return s, true
}

func isHex(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}
