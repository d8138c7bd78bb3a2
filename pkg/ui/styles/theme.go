// Package styles provides the terminal styles used when rendering debugger
// output, one per message kind.
package styles

import (
	"charm.land/lipgloss/v2"
)

// Color palette - ANSI 256 colors
var (
	ColorText       = lipgloss.Color("252") // Ordinary source lines
	ColorTextBright = lipgloss.Color("15")  // Current line
	ColorCurrentBg  = lipgloss.Color("237") // Current line background

	ColorError   = lipgloss.Color("196")
	ColorWarning = lipgloss.Color("214")
)

var (
	// TextStyle for ordinary source lines
	TextStyle = lipgloss.NewStyle().
			Foreground(ColorText)

	// EmphasisStyle marks the current execution line
	EmphasisStyle = lipgloss.NewStyle().
			Foreground(ColorTextBright).
			Background(ColorCurrentBg).
			Bold(true)

	// NoticeStyle for advisories that do not stop a command
	NoticeStyle = lipgloss.NewStyle().
			Foreground(ColorWarning).
			Italic(true)

	// ErrorStyle for error messages
	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorError)
)
