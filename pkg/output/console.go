package output

import (
	"io"
	"os"

	"sdb_cli/pkg/ui/styles"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"
	"golang.org/x/term"
)

// Color modes accepted by NewConsole.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

const (
	tabWidth       = 4
	emphasisGutter = "=> "
	infoGutter     = "   "
)

// Console renders messages as terminal lines, one per message.
// Source lines get a gutter so the current line stays visible without color.
type Console struct {
	w        io.Writer
	color    bool
	maxWidth int
	err      error
}

// NewConsole creates a console sink writing to w.
// maxWidth <= 0 disables truncation.
func NewConsole(w io.Writer, colorMode string, maxWidth int) *Console {
	return &Console{
		w:        w,
		color:    useColor(w, colorMode),
		maxWidth: maxWidth,
	}
}

func useColor(w io.Writer, mode string) bool {
	switch mode {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(interface{ Fd() uintptr })
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

// Emit writes a single message. After the first write failure further
// messages are dropped; the failure is available from Err.
func (c *Console) Emit(kind Kind, text string) {
	if c.err != nil {
		return
	}
	_, c.err = io.WriteString(c.w, c.Format(kind, text)+"\n")
}

// Format returns the rendered line for a message without the trailing newline.
func (c *Console) Format(kind Kind, text string) string {
	// Source files may carry their own escape sequences; never pass them through.
	line := ExpandTabs(ansi.Strip(text), tabWidth)

	switch kind {
	case Emphasis:
		line = emphasisGutter + line
	case Info:
		line = infoGutter + line
	}

	if c.maxWidth > 0 {
		line = TruncateToWidth(line, c.maxWidth)
	}
	if !c.color {
		return line
	}
	return styleFor(kind).Render(line)
}

// Err returns the first write error, if any.
func (c *Console) Err() error {
	return c.err
}

// Colored reports whether the console emits ANSI styling.
func (c *Console) Colored() bool {
	return c.color
}

func styleFor(kind Kind) lipgloss.Style {
	switch kind {
	case Emphasis:
		return styles.EmphasisStyle
	case Notice:
		return styles.NoticeStyle
	case Error:
		return styles.ErrorStyle
	default:
		return styles.TextStyle
	}
}
