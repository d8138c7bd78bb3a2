// Package output models the leveled messages a debugger command prints and
// the sinks that receive them.
package output

// Kind classifies a message written by a command.
type Kind int

const (
	// Info is an ordinary line, e.g. a source line outside the current one.
	Info Kind = iota
	// Emphasis marks the current execution line.
	Emphasis
	// Notice is a non-fatal advisory such as a staleness warning.
	Notice
	// Error reports a condition that aborted the command.
	Error
)

func (k Kind) String() string {
	switch k {
	case Info:
		return "info"
	case Emphasis:
		return "emphasis"
	case Notice:
		return "notice"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// Message is a single line emitted to a sink.
type Message struct {
	Kind Kind
	Text string
}

// Sink receives the messages produced by a command, in order.
type Sink interface {
	Emit(kind Kind, text string)
}

// Recorder is a Sink that keeps every message in memory.
type Recorder struct {
	Messages []Message
}

// NewRecorder creates an empty recorder
func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Emit(kind Kind, text string) {
	r.Messages = append(r.Messages, Message{Kind: kind, Text: text})
}

// Count returns how many recorded messages have the given kind.
func (r *Recorder) Count(kind Kind) int {
	n := 0
	for _, m := range r.Messages {
		if m.Kind == kind {
			n++
		}
	}
	return n
}

// Texts returns the text of every recorded message of the given kinds.
func (r *Recorder) Texts(kinds ...Kind) []string {
	var texts []string
	for _, m := range r.Messages {
		for _, k := range kinds {
			if m.Kind == k {
				texts = append(texts, m.Text)
				break
			}
		}
	}
	return texts
}

// Reset drops all recorded messages
func (r *Recorder) Reset() {
	r.Messages = nil
}
