package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"sdb_cli/pkg/output"
)

// ErrUnknownCommand is returned by Dispatch for names nobody registered.
var ErrUnknownCommand = errors.New("unknown command")

// Handler is the interface for command handlers
type Handler interface {
	// Names returns the command name followed by its aliases.
	Names() []string
	Summary() string
	Syntax() string
	Help() string
	Execute(ctx context.Context, env *Context, args string) error
}

// Dispatcher routes command lines to their handlers
type Dispatcher struct {
	handlers map[string]Handler
	order    []Handler
}

// NewDispatcher creates a dispatcher with the help command registered
func NewDispatcher() *Dispatcher {
	d := &Dispatcher{
		handlers: make(map[string]Handler),
	}

	d.Register(&HelpHandler{dispatcher: d})

	return d
}

// Register adds a handler under each of its names. Later registrations
// replace earlier ones for the same name; a replaced handler stays listed
// while any of its other names still reach it.
func (d *Dispatcher) Register(h Handler) {
	var replaced []Handler
	for _, name := range h.Names() {
		name = strings.ToLower(name)
		if old, ok := d.handlers[name]; ok && old != h {
			replaced = append(replaced, old)
		}
		d.handlers[name] = h
	}

	for _, old := range replaced {
		if d.reachable(old) {
			continue
		}
		d.order = slices.DeleteFunc(d.order, func(x Handler) bool { return x == old })
		slog.Debug("command_replaced", "command", old.Names()[0], "by", h.Names()[0])
	}

	if !slices.Contains(d.order, h) {
		d.order = append(d.order, h)
	}
}

// reachable reports whether any registered name still dispatches to h.
func (d *Dispatcher) reachable(h Handler) bool {
	for _, registered := range d.handlers {
		if registered == h {
			return true
		}
	}
	return false
}

// GetHandler returns a handler by name or alias
func (d *Dispatcher) GetHandler(cmdName string) (Handler, bool) {
	h, ok := d.handlers[strings.ToLower(cmdName)]
	return h, ok
}

// Handlers returns the registered handlers in registration order
func (d *Dispatcher) Handlers() []Handler {
	return append([]Handler(nil), d.order...)
}

// Dispatch runs a command line such as "src 5 3". A failing command is
// reported to env.Sink as a single error message and its error returned.
// Blank lines are ignored.
func (d *Dispatcher) Dispatch(ctx context.Context, line string, env *Context) error {
	name, args := splitCommand(line)
	if name == "" {
		return nil
	}

	handler, ok := d.GetHandler(name)
	if !ok {
		err := fmt.Errorf("%w: %s", ErrUnknownCommand, name)
		env.Sink.Emit(output.Error, displayError(err))
		return err
	}

	slog.Debug("command_dispatch", "command", name, "args", args)
	if err := handler.Execute(ctx, env, args); err != nil {
		slog.Info("command_failed", "command", name, "error", err)
		env.Sink.Emit(output.Error, displayError(err))
		return err
	}
	return nil
}

// splitCommand separates the command name from the raw argument text.
func splitCommand(line string) (string, string) {
	line = strings.TrimSpace(line)
	i := strings.IndexFunc(line, unicode.IsSpace)
	if i < 0 {
		return line, ""
	}
	return line[:i], strings.TrimSpace(line[i:])
}

func displayError(err error) string {
	msg := err.Error()
	r, size := utf8.DecodeRuneInString(msg)
	if r == utf8.RuneError {
		return msg
	}
	return string(unicode.ToUpper(r)) + msg[size:]
}
