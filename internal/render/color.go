package render

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// defaultEventColor is used when an event has no color or an unknown one.
const defaultEventColor = "#1976D2"

// Basic CSS color keywords seen in event data files.
var namedColors = map[string]string{
	"black":  "#000000",
	"blue":   "#2196F3",
	"brown":  "#795548",
	"cyan":   "#00BCD4",
	"gray":   "#9E9E9E",
	"green":  "#4CAF50",
	"grey":   "#9E9E9E",
	"indigo": "#3F51B5",
	"orange": "#FF9800",
	"pink":   "#E91E63",
	"purple": "#9C27B0",
	"red":    "#F44336",
	"teal":   "#009688",
	"white":  "#FFFFFF",
	"yellow": "#FFEB3B",
}

// Color converts an event color token to a terminal color. Hex values
// ("#1976d2", "#fff") and ANSI numbers ("203") pass through; basic CSS names
// are mapped; anything else falls back to the default event color.
func Color(token string) lipgloss.TerminalColor {
	token = strings.ToLower(strings.TrimSpace(token))
	if hex, ok := namedColors[token]; ok {
		return lipgloss.Color(hex)
	}
	if strings.HasPrefix(token, "#") && isHex(token[1:]) && (len(token) == 4 || len(token) == 7) {
		return lipgloss.Color(token)
	}
	if n, err := strconv.Atoi(token); err == nil && n >= 0 && n <= 255 {
		return lipgloss.Color(token)
	}
	return lipgloss.Color(defaultEventColor)
}

func isHex(s string) bool {
	for _, r := range s {
		if !strings.ContainsRune("0123456789abcdef", r) {
			return false
		}
	}
	return s != ""
}
