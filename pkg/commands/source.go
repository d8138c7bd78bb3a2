package commands

import (
	"context"

	"sdb_cli/pkg/source"
)

// SourceHandler handles the source command
type SourceHandler struct {
	defaults source.Bounds
	renderer *source.Renderer
}

// NewSourceHandler creates a source command printing defaults lines around
// the current line when called without arguments.
func NewSourceHandler(defaults source.Bounds, renderer *source.Renderer) *SourceHandler {
	if renderer == nil {
		renderer = source.NewRenderer(nil, nil)
	}
	return &SourceHandler{
		defaults: defaults,
		renderer: renderer,
	}
}

func (h *SourceHandler) Names() []string { return []string{"source", "src"} }
func (h *SourceHandler) Summary() string { return "Show the source for the current stack frame." }
func (h *SourceHandler) Syntax() string  { return "source|src [lower] [upper]" }

func (h *SourceHandler) Help() string {
	return "Prints the source for the current stack frame and highlights the current\n" +
		"line.\n" +
		"\n" +
		"If arguments are given, they specify how many lines to print before and\n" +
		"after the current line."
}

func (h *SourceHandler) Execute(ctx context.Context, env *Context, args string) error {
	frame := env.Session.ActiveFrame()
	if frame == nil {
		return source.ErrNoActiveFrame
	}

	bounds, err := source.ParseBounds(args, h.defaults)
	if err != nil {
		return err
	}

	loc := frame.SourceLocation()
	if !loc.Known() {
		return source.ErrNoSourceInfo
	}

	return h.renderer.Render(ctx, env.Sink, source.Request{
		Bounds:     bounds,
		Location:   loc,
		Executable: env.Session.CurrentExecutable(),
	})
}
