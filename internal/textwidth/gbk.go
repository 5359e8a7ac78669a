package textwidth

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/transform"
)

var ansiRegexp = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// StringWidth returns the maximum visual width (in monospace columns) of the
// provided string. It treats a single Chinese character as occupying two
// columns by encoding the string as GBK.
func StringWidth(s string) int {
	if s == "" {
		return 0
	}
	maxWidth := 0
	for _, line := range strings.Split(s, "\n") {
		width := lineWidth(line)
		if width > maxWidth {
			maxWidth = width
		}
	}
	return maxWidth
}

// Truncate shortens s so it fits in width columns, ending with "…" when
// anything was cut.
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if StringWidth(s) <= width {
		return s
	}
	const ellipsis = "…"
	limit := width - lineWidth(ellipsis)
	var sb strings.Builder
	used := 0
	for _, r := range stripANSI(s) {
		w := lineWidth(string(r))
		if used+w > limit {
			break
		}
		sb.WriteRune(r)
		used += w
	}
	if limit < 0 {
		return ""
	}
	return sb.String() + ellipsis
}

func lineWidth(s string) int {
	if s == "" {
		return 0
	}
	clean := stripANSI(s)
	encoder := simplifiedchinese.GBK.NewEncoder()
	encoded, _, err := transform.String(encoder, clean)
	if err != nil {
		return fallbackWidth(clean)
	}
	return len(encoded)
}

func stripANSI(s string) string {
	return ansiRegexp.ReplaceAllString(s, "")
}

func fallbackWidth(s string) int {
	width := 0
	for _, r := range s {
		if r == '\n' || r == '\r' {
			continue
		}
		if r <= unicode.MaxASCII {
			width++
		} else {
			width += 2
		}
	}
	return width
}

