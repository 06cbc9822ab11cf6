package view

import "strings"

// Line colours keyed by lower-cased line name.
var lineColors = map[string]string{
	"green":  "#4CAF50",
	"red":    "#F44336",
	"blue":   "#2196F3",
	"orange": "#FF9800",
}

// DefaultLineColor is used for lines without a palette entry.
const DefaultLineColor = "#cccccc"

// LineColor returns the hex colour for a line, case-insensitively.
func LineColor(line string) string {
	if c, ok := lineColors[strings.ToLower(line)]; ok {
		return c
	}
	return DefaultLineColor
}
