// Package debugger describes the parts of a paused debuggee that commands
// read: the selected stack frame and the executable being debugged.
package debugger

import (
	"fmt"
	"os"
	"time"
)

// UnknownLine is the line number of a frame without line information.
const UnknownLine = -1

// SourceLocation is where a frame is paused in source code.
// FileName is empty and Line is UnknownLine when debug info is missing.
type SourceLocation struct {
	FileName string
	Line     int
}

// Known reports whether both the file and the line are available.
func (l SourceLocation) Known() bool {
	return l.FileName != "" && l.Line != UnknownLine
}

func (l SourceLocation) String() string {
	if !l.Known() {
		return "<unknown>"
	}
	return fmt.Sprintf("%s:%d", l.FileName, l.Line)
}

// Frame is a paused execution context.
type Frame struct {
	Method   string
	Location SourceLocation
}

// SourceLocation returns the frame's position in source code.
func (f *Frame) SourceLocation() SourceLocation {
	return f.Location
}

// Executable is the binary the debuggee was started from.
type Executable struct {
	Path          string
	LastWriteTime time.Time
}

// Session exposes the state of the debuggee to commands.
type Session interface {
	// ActiveFrame returns the selected frame, or nil when none is selected.
	ActiveFrame() *Frame
	// CurrentExecutable returns the debuggee binary, or nil when unknown.
	CurrentExecutable() *Executable
}

// StaticSession is a Session with fixed values.
type StaticSession struct {
	Frame      *Frame
	Executable *Executable
}

func (s *StaticSession) ActiveFrame() *Frame {
	return s.Frame
}

func (s *StaticSession) CurrentExecutable() *Executable {
	return s.Executable
}

// LoadExecutable describes the binary at path using its modification time.
func LoadExecutable(path string) (*Executable, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat executable: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("executable %s is a directory", path)
	}
	return &Executable{
		Path:          path,
		LastWriteTime: info.ModTime(),
	}, nil
}
