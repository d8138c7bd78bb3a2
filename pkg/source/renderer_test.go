package source

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"sdb_cli/pkg/debugger"
	"sdb_cli/pkg/output"
)

func writeSource(t *testing.T, lines int, modTime time.Time) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "main.cs")
	if err := os.WriteFile(path, []byte(numberedLines(lines)), 0o644); err != nil {
		t.Fatalf("WriteFile() failed: %v", err)
	}
	if err := os.Chtimes(path, modTime, modTime); err != nil {
		t.Fatalf("Chtimes() failed: %v", err)
	}
	return path
}

var baseTime = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func TestRender_Window(t *testing.T) {
	path := writeSource(t, 20, baseTime)
	rec := output.NewRecorder()

	err := NewRenderer(nil, nil).Render(context.Background(), rec, Request{
		Bounds:   Bounds{Lower: 2, Upper: 2},
		Location: debugger.SourceLocation{FileName: path, Line: 8},
	})
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}

	want := []output.Message{
		{Kind: output.Info, Text: "line 5"},
		{Kind: output.Info, Text: "line 6"},
		{Kind: output.Emphasis, Text: "line 7"},
		{Kind: output.Info, Text: "line 8"},
		{Kind: output.Info, Text: "line 9"},
	}
	if len(rec.Messages) != len(want) {
		t.Fatalf("Expected %d messages, got %d: %+v", len(want), len(rec.Messages), rec.Messages)
	}
	for i := range want {
		if rec.Messages[i] != want[i] {
			t.Errorf("Message %d = %+v, want %+v", i, rec.Messages[i], want[i])
		}
	}
}

func TestRender_StaleNotice(t *testing.T) {
	path := writeSource(t, 20, baseTime)
	rec := output.NewRecorder()

	err := NewRenderer(nil, nil).Render(context.Background(), rec, Request{
		Bounds:     DefaultBounds(),
		Location:   debugger.SourceLocation{FileName: path, Line: 5},
		Executable: &debugger.Executable{LastWriteTime: baseTime.Add(-time.Hour)},
	})
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}

	if rec.Count(output.Notice) != 1 {
		t.Fatalf("Expected 1 notice, got %d", rec.Count(output.Notice))
	}
	if rec.Messages[0].Kind != output.Notice {
		t.Errorf("Expected notice before source lines, got %+v", rec.Messages[0])
	}
	if !strings.Contains(rec.Messages[0].Text, path) {
		t.Errorf("Expected notice to name the file, got %q", rec.Messages[0].Text)
	}
}

func TestRender_NoNoticeWhenOlderOrUnknown(t *testing.T) {
	path := writeSource(t, 20, baseTime)

	for _, exe := range []*debugger.Executable{
		nil,
		{LastWriteTime: baseTime},
		{LastWriteTime: baseTime.Add(time.Hour)},
	} {
		rec := output.NewRecorder()
		err := NewRenderer(nil, nil).Render(context.Background(), rec, Request{
			Bounds:     DefaultBounds(),
			Location:   debugger.SourceLocation{FileName: path, Line: 5},
			Executable: exe,
		})
		if err != nil {
			t.Fatalf("Render() error: %v", err)
		}
		if rec.Count(output.Notice) != 0 {
			t.Errorf("Expected no notice for executable %+v", exe)
		}
	}
}

func TestRender_NotFound(t *testing.T) {
	rec := output.NewRecorder()
	missing := filepath.Join(t.TempDir(), "missing.cs")

	err := NewRenderer(nil, nil).Render(context.Background(), rec, Request{
		Bounds:   DefaultBounds(),
		Location: debugger.SourceLocation{FileName: missing, Line: 1},
	})
	if !errors.Is(err, ErrSourceFileNotFound) {
		t.Fatalf("Expected ErrSourceFileNotFound, got %v", err)
	}
	if !strings.Contains(err.Error(), missing) {
		t.Errorf("Expected error to name the path, got %q", err.Error())
	}
	if len(rec.Messages) != 0 {
		t.Errorf("Expected no output, got %+v", rec.Messages)
	}
}

func TestRender_DirectoryIsNotFound(t *testing.T) {
	err := NewRenderer(nil, nil).Render(context.Background(), output.NewRecorder(), Request{
		Bounds:   DefaultBounds(),
		Location: debugger.SourceLocation{FileName: t.TempDir(), Line: 1},
	})
	if !errors.Is(err, ErrSourceFileNotFound) {
		t.Errorf("Expected ErrSourceFileNotFound, got %v", err)
	}
}

func TestRender_NoSourceInfo(t *testing.T) {
	err := NewRenderer(nil, nil).Render(context.Background(), output.NewRecorder(), Request{
		Bounds:   DefaultBounds(),
		Location: debugger.SourceLocation{FileName: "x.cs", Line: debugger.UnknownLine},
	})
	if !errors.Is(err, ErrNoSourceInfo) {
		t.Errorf("Expected ErrNoSourceInfo, got %v", err)
	}
}

func TestRender_Idempotent(t *testing.T) {
	path := writeSource(t, 40, baseTime)
	req := Request{
		Bounds:     Bounds{Lower: 4, Upper: 7},
		Location:   debugger.SourceLocation{FileName: path, Line: 20},
		Executable: &debugger.Executable{LastWriteTime: baseTime.Add(-time.Minute)},
	}

	first := output.NewRecorder()
	second := output.NewRecorder()
	r := NewRenderer(nil, nil)
	if err := r.Render(context.Background(), first, req); err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	if err := r.Render(context.Background(), second, req); err != nil {
		t.Fatalf("Render() error: %v", err)
	}

	if len(first.Messages) != len(second.Messages) {
		t.Fatalf("Message counts differ: %d vs %d", len(first.Messages), len(second.Messages))
	}
	for i := range first.Messages {
		if first.Messages[i] != second.Messages[i] {
			t.Errorf("Message %d differs: %+v vs %+v", i, first.Messages[i], second.Messages[i])
		}
	}
}

// fakeFS serves a single file from memory and records whether it was closed.
type fakeFS struct {
	info    fs.FileInfo
	statErr error
	openErr error
	reader  io.Reader
	closed  bool
}

func (f *fakeFS) Stat(string) (fs.FileInfo, error) {
	return f.info, f.statErr
}

func (f *fakeFS) Open(string) (io.ReadCloser, error) {
	if f.openErr != nil {
		return nil, f.openErr
	}
	return &trackingReader{Reader: f.reader, closed: &f.closed}, nil
}

type trackingReader struct {
	io.Reader
	closed *bool
}

func (r *trackingReader) Close() error {
	*r.closed = true
	return nil
}

type fakeInfo struct {
	fs.FileInfo
	modTime time.Time
}

func (i fakeInfo) ModTime() time.Time { return i.modTime }
func (i fakeInfo) IsDir() bool        { return false }

// failingReader returns its content and then fails.
type failingReader struct {
	content string
	done    bool
}

func (r *failingReader) Read(p []byte) (int, error) {
	if r.done {
		return 0, errors.New("device error")
	}
	r.done = true
	return copy(p, r.content), nil
}

func TestRender_OpenFailure(t *testing.T) {
	fsys := &fakeFS{
		info:    fakeInfo{modTime: baseTime},
		openErr: fs.ErrPermission,
	}
	rec := output.NewRecorder()

	err := NewRenderer(fsys, nil).Render(context.Background(), rec, Request{
		Bounds:     DefaultBounds(),
		Location:   debugger.SourceLocation{FileName: "secret.cs", Line: 1},
		Executable: &debugger.Executable{LastWriteTime: baseTime.Add(-time.Hour)},
	})
	if !errors.Is(err, ErrSourceFileUnreadable) {
		t.Fatalf("Expected ErrSourceFileUnreadable, got %v", err)
	}
	if !errors.Is(err, fs.ErrPermission) {
		t.Errorf("Expected underlying error to be kept, got %v", err)
	}
	if len(rec.Messages) != 0 {
		t.Errorf("Expected no output, got %+v", rec.Messages)
	}
}

func TestRender_StatFailure(t *testing.T) {
	fsys := &fakeFS{statErr: fs.ErrPermission}

	err := NewRenderer(fsys, nil).Render(context.Background(), output.NewRecorder(), Request{
		Bounds:   DefaultBounds(),
		Location: debugger.SourceLocation{FileName: "secret.cs", Line: 1},
	})
	if !errors.Is(err, ErrSourceFileUnreadable) {
		t.Errorf("Expected ErrSourceFileUnreadable, got %v", err)
	}
}

func TestRender_ReadFailureClosesFile(t *testing.T) {
	fsys := &fakeFS{
		info:   fakeInfo{modTime: baseTime},
		reader: &failingReader{content: "a\nb\npartial"},
	}
	rec := output.NewRecorder()

	err := NewRenderer(fsys, nil).Render(context.Background(), rec, Request{
		Bounds:   DefaultBounds(),
		Location: debugger.SourceLocation{FileName: "flaky.cs", Line: 1},
	})
	if !errors.Is(err, ErrSourceFileUnreadable) {
		t.Fatalf("Expected ErrSourceFileUnreadable, got %v", err)
	}
	if !fsys.closed {
		t.Error("Expected file to be closed after read failure")
	}
	if got := rec.Texts(output.Info, output.Emphasis); len(got) != 2 {
		t.Errorf("Expected the 2 complete lines before the failure, got %v", got)
	}
}

func TestRender_ClosesFileOnSuccess(t *testing.T) {
	fsys := &fakeFS{
		info:   fakeInfo{modTime: baseTime},
		reader: strings.NewReader(numberedLines(3)),
	}

	err := NewRenderer(fsys, nil).Render(context.Background(), output.NewRecorder(), Request{
		Bounds:   DefaultBounds(),
		Location: debugger.SourceLocation{FileName: "ok.cs", Line: 1},
	})
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	if !fsys.closed {
		t.Error("Expected file to be closed")
	}
}

func TestRender_Cancelled(t *testing.T) {
	path := writeSource(t, 5, baseTime)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewRenderer(nil, nil).Render(ctx, output.NewRecorder(), Request{
		Bounds:   DefaultBounds(),
		Location: debugger.SourceLocation{FileName: path, Line: 1},
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
	if errors.Is(err, ErrSourceFileUnreadable) {
		t.Error("Cancellation should not be reported as a read failure")
	}
}

type mapLocator map[string]string

func (m mapLocator) Locate(path string) (string, bool) {
	p, ok := m[path]
	return p, ok
}

func TestRender_UsesLocatorForMissingFile(t *testing.T) {
	local := writeSource(t, 5, baseTime)
	rec := output.NewRecorder()

	r := NewRenderer(nil, mapLocator{"/build/agent/main.cs": local})
	err := r.Render(context.Background(), rec, Request{
		Bounds:   DefaultBounds(),
		Location: debugger.SourceLocation{FileName: "/build/agent/main.cs", Line: 1},
	})
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	if len(rec.Messages) != 5 {
		t.Errorf("Expected 5 lines from remapped file, got %d", len(rec.Messages))
	}
}
