package output

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// ExpandTabs replaces tabs with spaces up to the next multiple of tabWidth,
// measuring columns in terminal cells.
func ExpandTabs(text string, tabWidth int) string {
	if tabWidth <= 0 || !strings.ContainsRune(text, '\t') {
		return text
	}
	var sb strings.Builder
	col := 0
	for _, r := range text {
		if r == '\t' {
			pad := tabWidth - col%tabWidth
			sb.WriteString(strings.Repeat(" ", pad))
			col += pad
			continue
		}
		sb.WriteRune(r)
		col += runewidth.RuneWidth(r)
	}
	return sb.String()
}

// TruncateToWidth cuts text to at most width cells, ending in "..." when
// anything was dropped and there is room for it.
func TruncateToWidth(text string, width int) string {
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(text) <= width {
		return text
	}
	if width <= 3 {
		return trimToWidth(text, width)
	}
	return trimToWidth(text, width-3) + "..."
}

func trimToWidth(text string, width int) string {
	var sb strings.Builder
	w := 0
	for _, r := range text {
		rw := runewidth.RuneWidth(r)
		if w+rw > width {
			break
		}
		sb.WriteRune(r)
		w += rw
	}
	return sb.String()
}
