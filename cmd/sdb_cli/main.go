package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"sdb_cli/pkg/commands"
	"sdb_cli/pkg/config"
	"sdb_cli/pkg/debugger"
	"sdb_cli/pkg/logging"
	"sdb_cli/pkg/output"
	"sdb_cli/pkg/source"
	"sdb_cli/pkg/version"

	"golang.org/x/term"
)

const prompt = "(sdb) "

// errCommandFailed signals that a one-shot command already reported its error.
var errCommandFailed = errors.New("command failed")

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, errCommandFailed) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

// run parses flags, builds the session and either executes the command given
// as trailing arguments or reads commands from stdin until EOF or "quit".
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("sdb_cli", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		flagConfig  = fs.String("config", config.GetConfigPath(), "path to the config file")
		flagFile    = fs.String("file", "", "source file of the active frame")
		flagLine    = fs.Int("line", debugger.UnknownLine, "current line (1-based) of the active frame")
		flagMethod  = fs.String("method", "", "method name of the active frame")
		flagExe     = fs.String("exe", "", "debuggee executable, used for staleness checks")
		flagVersion = fs.Bool("version", false, "print version information and exit")
	)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	if *flagVersion {
		fmt.Fprintln(stdout, version.Info())
		return nil
	}

	cfg, err := config.Load(*flagConfig)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config %s: %w", *flagConfig, err)
	}

	_, closeLog, err := logging.Init(cfg)
	if err != nil {
		fmt.Fprintf(stderr, "Warning: diagnostics disabled: %v\n", err)
	}
	defer closeLog()

	sess, err := newSession(*flagFile, *flagLine, *flagMethod, *flagExe)
	if err != nil {
		return err
	}

	var locator source.Locator
	if cfg.Source.SearchRepo {
		if wd, err := os.Getwd(); err == nil {
			locator = source.RepoLocator{Dir: wd}
		}
	}

	dispatcher := commands.NewDispatcher()
	dispatcher.Register(commands.NewSourceHandler(
		source.Bounds{Lower: cfg.Source.Lower, Upper: cfg.Source.Upper},
		source.NewRenderer(nil, locator),
	))

	console := output.NewConsole(stdout, cfg.Output.Color, cfg.Output.MaxWidth)
	env := commands.NewContext(sess, console)

	interrupts := make(chan os.Signal, 1)
	signal.Notify(interrupts, os.Interrupt)
	defer signal.Stop(interrupts)

	ctx := context.Background()
	slog.Info("session_start", "frame", frameLocation(sess), "version", version.Summary())

	if rest := fs.Args(); len(rest) > 0 {
		if err := execute(ctx, dispatcher, env, strings.Join(rest, " "), interrupts); err != nil {
			return errCommandFailed
		}
		return console.Err()
	}

	return shell(ctx, dispatcher, env, stdin, stdout, isTerminal(stdin), interrupts)
}

// shell executes one command per input line. Command failures are reported
// by the dispatcher and do not end the loop; an interrupt cancels only the
// command in flight. A failing output writer ends the session.
func shell(ctx context.Context, d *commands.Dispatcher, env *commands.Context, in io.Reader, out io.Writer, interactive bool, interrupts <-chan os.Signal) error {
	scanner := bufio.NewScanner(in)
	for {
		if interactive {
			fmt.Fprint(out, prompt)
		}
		if !scanner.Scan() {
			break
		}

		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "quit", "exit", "q":
			return nil
		}
		_ = execute(ctx, d, env, line, interrupts)

		if err := sinkErr(env.Sink); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return scanner.Err()
}

// execute dispatches one command line under its own context, cancelled by
// the first interrupt received while the command runs. Interrupts received
// while idle are discarded.
func execute(ctx context.Context, d *commands.Dispatcher, env *commands.Context, line string, interrupts <-chan os.Signal) error {
	for drained := false; !drained; {
		select {
		case <-interrupts:
		default:
			drained = true
		}
	}

	cmdCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-interrupts:
			slog.Info("command_interrupted", "line", line)
			cancel()
		case <-done:
		}
	}()

	return d.Dispatch(cmdCtx, line, env)
}

// sinkErr reports the sticky write error of sinks that keep one.
func sinkErr(sink output.Sink) error {
	if s, ok := sink.(interface{ Err() error }); ok {
		return s.Err()
	}
	return nil
}

func newSession(file string, line int, method, exe string) (*debugger.StaticSession, error) {
	sess := &debugger.StaticSession{}
	if file != "" || line != debugger.UnknownLine {
		sess.Frame = &debugger.Frame{
			Method:   method,
			Location: debugger.SourceLocation{FileName: file, Line: line},
		}
	}
	if exe != "" {
		executable, err := debugger.LoadExecutable(exe)
		if err != nil {
			return nil, err
		}
		sess.Executable = executable
	}
	return sess, nil
}

func frameLocation(sess debugger.Session) string {
	frame := sess.ActiveFrame()
	if frame == nil {
		return "none"
	}
	return frame.SourceLocation().String()
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
