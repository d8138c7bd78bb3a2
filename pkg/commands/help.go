package commands

import (
	"context"
	"fmt"
	"strings"

	"sdb_cli/pkg/output"
)

// HelpHandler handles the help command
type HelpHandler struct {
	dispatcher *Dispatcher
}

func (h *HelpHandler) Names() []string { return []string{"help"} }
func (h *HelpHandler) Summary() string { return "Show help for commands." }
func (h *HelpHandler) Syntax() string  { return "help [command]" }

func (h *HelpHandler) Help() string {
	return "Lists all commands, or prints the syntax and help text of a single\n" +
		"command."
}

func (h *HelpHandler) Execute(_ context.Context, env *Context, args string) error {
	if args == "" {
		for _, handler := range h.dispatcher.Handlers() {
			env.Sink.Emit(output.Info, fmt.Sprintf("%-28s %s", handler.Syntax(), handler.Summary()))
		}
		return nil
	}

	name, _ := splitCommand(args)
	handler, ok := h.dispatcher.GetHandler(name)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownCommand, name)
	}

	env.Sink.Emit(output.Info, handler.Syntax())
	env.Sink.Emit(output.Info, "")
	for _, line := range strings.Split(handler.Help(), "\n") {
		env.Sink.Emit(output.Info, line)
	}
	return nil
}
