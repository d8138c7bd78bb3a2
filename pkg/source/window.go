package source

// Role is how a scanned line is presented.
type Role int

const (
	// Skipped lines fall outside the window and are not printed.
	Skipped Role = iota
	// Info lines are printed normally.
	Info
	// Emphasis is the line marked as the current one.
	Emphasis
)

func (r Role) String() string {
	switch r {
	case Info:
		return "info"
	case Emphasis:
		return "emphasis"
	default:
		return "skipped"
	}
}

// Line is one physical line of a source file with its role.
type Line struct {
	Index int // zero-based
	Text  string
	Role  Role
}

// Window selects lines around a target line.
//
// Target is compared against zero-based line indices as is. Up to Lower+1
// lines before Target are shown, and Upper lines starting at Target. The
// emphasized line is the one at Target-1, which is the current line when
// Target carries a one-based line number.
type Window struct {
	Bounds Bounds
	Target int
}

// Classify returns the role of the line at the zero-based index cur.
func (w Window) Classify(cur int) Role {
	before := w.Target - cur
	after := cur - w.Target

	// before-2 < Lower is before < Lower+2 without overflowing on huge bounds.
	included := (before > 0 && before-2 < w.Bounds.Lower) ||
		(after >= 0 && after < w.Bounds.Upper)
	if !included {
		return Skipped
	}
	if cur == w.Target-1 {
		return Emphasis
	}
	return Info
}
