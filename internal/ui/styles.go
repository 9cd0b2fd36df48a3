package ui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Color palette
// - Default (white/black): primary text
// - Accent (soft purple, configurable): node paths, page names, highlights
// - Muted (gray): secondary info, node IDs, hints
// Status lines lead with unicode symbols; color only reinforces them.

const (
	defaultAccentColor = "#A78BFA"
	mutedColor         = "#6C7086"
)

var (
	// Accent style for node paths, page names, highlights
	Accent = lipgloss.NewStyle().Foreground(lipgloss.Color(defaultAccentColor))

	// Muted style for secondary info, hints, node IDs
	Muted = lipgloss.NewStyle().Foreground(lipgloss.Color(mutedColor))

	// Bold style for emphasis
	Bold = lipgloss.NewStyle().Bold(true)

	// AccentBold combines accent color with bold
	AccentBold = lipgloss.NewStyle().Foreground(lipgloss.Color(defaultAccentColor)).Bold(true)

	// ErrorText, WarningText and SuccessText tint status symbols.
	ErrorText   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	WarningText = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	SuccessText = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
)

// accentColor is the effective accent; empty means accent styling is
// disabled.
var accentColor = defaultAccentColor

// ConfigureTheme applies the configured accent color. Valid values are
// ANSI color codes ("0" to "255") and hex colors ("#RGB", "#RRGGBB").
// "none", "off" and "default" disable accent styling; anything else
// keeps the current accent.
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

// AccentColor returns the effective accent color, with ok=false when
// accent styling is disabled.
func AccentColor() (string, bool) {
	if accentColor == "" {
		return "", false
	}
	return accentColor, true
}

// ConfigureColorMode forces color output on or off. "auto" and unknown
// values keep terminal detection (which already honors NO_COLOR).
func ConfigureColorMode(mode string) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "always":
		lipgloss.SetColorProfile(termenv.TrueColor)
	case "never":
		lipgloss.SetColorProfile(termenv.Ascii)
	}
}

// normalizeAccentColor validates and canonicalizes a user-supplied
// accent color. Short hex colors expand to six digits.
func normalizeAccentColor(input string) (string, bool) {
	trimmed := strings.ToLower(strings.TrimSpace(input))
	if trimmed == "" {
		return "", false
	}

	if strings.HasPrefix(trimmed, "#") {
		hex := trimmed[1:]
		if !isHex(hex) {
			return "", false
		}
		switch len(hex) {
		case 3:
			var sb strings.Builder
			for _, c := range hex {
				sb.WriteRune(c)
				sb.WriteRune(c)
			}
			return "#" + sb.String(), true
		case 6:
			return "#" + hex, true
		}
		return "", false
	}

	n, err := strconv.Atoi(trimmed)
	if err != nil || n < 0 || n > 255 {
		return "", false
	}
	return strconv.Itoa(n), true
}

func isHex(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}
