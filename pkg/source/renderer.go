package source

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"sdb_cli/pkg/debugger"
	"sdb_cli/pkg/output"
)

// FileSystem is the file access the renderer needs.
type FileSystem interface {
	Stat(name string) (fs.FileInfo, error)
	Open(name string) (io.ReadCloser, error)
}

// OSFileSystem reads from the local disk.
type OSFileSystem struct{}

func (OSFileSystem) Stat(name string) (fs.FileInfo, error) {
	return os.Stat(name)
}

func (OSFileSystem) Open(name string) (io.ReadCloser, error) {
	return os.Open(name)
}

// Locator finds a local copy of a source file whose recorded path does not
// exist, e.g. because the debuggee was built on another machine.
type Locator interface {
	Locate(path string) (string, bool)
}

// Request is everything needed to print one window.
type Request struct {
	Bounds     Bounds
	Location   debugger.SourceLocation
	Executable *debugger.Executable // nil when unknown
}

// Renderer prints source windows to a sink.
type Renderer struct {
	fs      FileSystem
	locator Locator
}

// NewRenderer creates a renderer. A nil fsys reads from disk; a nil locator
// disables path remapping.
func NewRenderer(fsys FileSystem, locator Locator) *Renderer {
	if fsys == nil {
		fsys = OSFileSystem{}
	}
	return &Renderer{
		fs:      fsys,
		locator: locator,
	}
}

// Render prints the lines of req.Location's file that fall inside the window.
// A notice is emitted first when the file is newer than the executable.
// Nothing is emitted when the file cannot be found or opened.
func (r *Renderer) Render(ctx context.Context, sink output.Sink, req Request) error {
	if !req.Location.Known() {
		return ErrNoSourceInfo
	}

	path := r.resolve(req.Location.FileName)

	info, err := r.fs.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: '%s'", ErrSourceFileNotFound, path)
		}
		return fmt.Errorf("%w '%s': %w", ErrSourceFileUnreadable, path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%w: '%s'", ErrSourceFileNotFound, path)
	}

	f, err := r.fs.Open(path)
	if err != nil {
		return fmt.Errorf("%w '%s': %w", ErrSourceFileUnreadable, path, err)
	}
	defer f.Close()

	if exe := req.Executable; exe != nil && info.ModTime().After(exe.LastWriteTime) {
		sink.Emit(output.Notice, fmt.Sprintf("Source file '%s' is newer than the debuggee executable", path))
	}

	win := Window{Bounds: req.Bounds, Target: req.Location.Line}
	emitted := 0
	err = Scan(ctx, f, win, func(l Line) {
		emitted++
		if l.Role == Emphasis {
			sink.Emit(output.Emphasis, l.Text)
			return
		}
		sink.Emit(output.Info, l.Text)
	})
	if err != nil {
		if ctx.Err() != nil {
			return err
		}
		return fmt.Errorf("%w '%s': %w", ErrSourceFileUnreadable, path, err)
	}

	slog.Debug("source_window_rendered",
		"file", path,
		"line", req.Location.Line,
		"lower", req.Bounds.Lower,
		"upper", req.Bounds.Upper,
		"emitted", emitted)
	return nil
}

func (r *Renderer) resolve(path string) string {
	if r.locator == nil {
		return path
	}
	if _, err := r.fs.Stat(path); !errors.Is(err, fs.ErrNotExist) {
		return path
	}
	local, ok := r.locator.Locate(path)
	if !ok {
		return path
	}
	slog.Debug("source_path_remapped", "from", path, "to", local)
	return local
}

// Scan reads rd line by line and calls emit for every line the window
// includes, in file order. Lines end at "\n", "\r\n" or a lone "\r"; a
// UTF-8 byte order mark before the first line is dropped. Reading stops at
// end of input or once no later line can be included. ctx is checked before
// each line.
func Scan(ctx context.Context, rd io.Reader, win Window, emit func(Line)) error {
	br := bufio.NewReader(rd)
	var buf []byte
	for cur := 0; ; cur++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if cur >= win.Target && cur-win.Target >= win.Bounds.Upper {
			return nil
		}

		line, ok, err := readLine(br, buf)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		buf = line

		text := string(line)
		if cur == 0 {
			text = strings.TrimPrefix(text, "\ufeff")
		}

		if role := win.Classify(cur); role != Skipped {
			emit(Line{Index: cur, Text: text, Role: role})
		}
	}
}

// readLine reads the next line into buf without its terminator. ok is false
// once the input is exhausted. A line cut short by a read error is dropped.
func readLine(br *bufio.Reader, buf []byte) ([]byte, bool, error) {
	buf = buf[:0]
	for {
		c, err := br.ReadByte()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return buf, len(buf) > 0, nil
			}
			return buf, false, err
		}

		switch c {
		case '\n':
			return buf, true, nil
		case '\r':
			next, err := br.ReadByte()
			switch {
			case err == nil && next != '\n':
				_ = br.UnreadByte()
			case err != nil && !errors.Is(err, io.EOF):
				return buf, false, err
			}
			return buf, true, nil
		}
		buf = append(buf, c)
	}
}
