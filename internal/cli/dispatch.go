// Package cli parses the command line, starts a session and runs the shell.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/pflag"

	"tasksh/internal/commands"
	"tasksh/internal/config"
	"tasksh/internal/credential"
	"tasksh/internal/deeplink"
	"tasksh/internal/editor"
	"tasksh/internal/exitcode"
	"tasksh/internal/nav"
	"tasksh/internal/output"
	"tasksh/internal/pager"
	"tasksh/internal/service"
)

// ServiceFactory creates a Service from config and the API key.
// Used to inject the backend during dispatch.
type ServiceFactory func(ctx context.Context, cfg *config.Config, apiKey string, log *slog.Logger) (service.Service, error)

// ReaderFactory creates the LineReader for a session. complete offers tab
// completions for a partial line.
type ReaderFactory func(cfg *config.Config, complete func(line string) []string) (LineReader, error)

// LinerReaders creates liner-backed readers with history in the config dir.
func LinerReaders(cfg *config.Config, complete func(line string) []string) (LineReader, error) {
	if err := cfg.EnsureDir(); err != nil {
		return nil, fmt.Errorf("create config directory: %w", err)
	}
	return NewLinerReader(cfg.HistoryPath(), complete), nil
}

// Dispatcher handles command-line parsing and session startup.
type Dispatcher struct {
	registry *commands.Registry
	factory  ServiceFactory
	readers  ReaderFactory
}

// NewDispatcher creates a new dispatcher with the given registry, service
// factory and reader factory.
func NewDispatcher(registry *commands.Registry, factory ServiceFactory, readers ReaderFactory) *Dispatcher {
	return &Dispatcher{
		registry: registry,
		factory:  factory,
		readers:  readers,
	}
}

// Run parses arguments, starts a session and runs the shell until it ends.
// Returns the exit code.
func (d *Dispatcher) Run(ctx context.Context, args []string, in io.Reader, out, errOut io.Writer) int {
	fs := pflag.NewFlagSet(config.AppName, pflag.ContinueOnError)
	fs.SetOutput(io.Discard) // We handle errors ourselves

	configDir := fs.String("config", "", "configuration directory")
	debug := fs.Bool("debug", false, "log requests to stderr")
	help := fs.BoolP("help", "h", false, "show this help")

	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(errOut, "error: %s\n", err)
		return exitcode.UserError
	}

	if *help {
		fmt.Fprintf(out, "Usage: %s [flags] [link]\n\nFlags:\n%s", config.AppName, fs.FlagUsages())
		return exitcode.Success
	}

	if fs.NArg() > 1 {
		fmt.Fprintf(errOut, "error: too many arguments: expected at most one link\n")
		return exitcode.UserError
	}

	cfg, err := config.Load(*configDir)
	if err != nil {
		fmt.Fprintf(errOut, "error: %s\n", err)
		return exitcode.UserError
	}
	cfg.Debug = cfg.Debug || *debug

	log := newLogger(errOut, cfg.Debug)

	apiKey, err := credential.GetOrPrompt(cfg, in, out)
	if err != nil {
		fmt.Fprintf(errOut, "error: auth error: %s\n", err)
		return exitcode.AuthError
	}

	svc, err := d.factory(ctx, cfg, apiKey, log)
	if err != nil {
		fmt.Fprintf(errOut, "error: backend error: %s\n", err)
		return exitcode.BackendError
	}

	navigator, err := nav.New(ctx, svc)
	if err != nil {
		fmt.Fprintf(errOut, "error: backend error: %s\n", err)
		return exitcode.BackendError
	}

	if fs.NArg() == 1 {
		follow(ctx, navigator, fs.Arg(0), errOut)
	}

	reader, err := d.readers(cfg, navigator.Completions)
	if err != nil {
		fmt.Fprintf(errOut, "error: %s\n", err)
		return exitcode.UserError
	}
	defer reader.Close()

	theme := output.ThemeFor(out)
	shell := NewShell(navigator, Options{
		Reader:   reader,
		Out:      out,
		ErrOut:   errOut,
		Theme:    &theme,
		Size:     terminalSize(out),
		Compose:  composer(cfg),
		Page:     pager.New(cfg.Pager).Page,
		Registry: d.registry,
		Logger:   log,
	})
	return shell.Run(ctx)
}

// follow pre-navigates to a deep link. Failures are reported and the
// session starts wherever navigation stopped.
func follow(ctx context.Context, n *nav.Navigator, raw string, errOut io.Writer) {
	link, err := deeplink.Parse(raw)
	if err != nil {
		fmt.Fprintf(errOut, "error: %s\n", err)
		return
	}
	if err := n.Follow(ctx, link); err != nil {
		var remote *service.RemoteError
		if errors.As(err, &remote) {
			fmt.Fprintf(errOut, "error: backend error: %s\n", err)
			return
		}
		fmt.Fprintf(errOut, "error: %s\n", err)
	}
}

func newLogger(w io.Writer, debug bool) *slog.Logger {
	level := slog.LevelWarn
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// composer resolves the editor on each use so a missing editor only fails
// the comment command.
func composer(cfg *config.Config) func(ctx context.Context) (string, error) {
	return func(ctx context.Context) (string, error) {
		e, err := editor.New(cfg.Editor)
		if err != nil {
			return "", err
		}
		return e.Compose(ctx)
	}
}

func terminalSize(out io.Writer) func() (int, int) {
	f, ok := out.(*os.File)
	if !ok {
		return nil
	}
	return func() (int, int) { return output.TerminalSize(f) }
}
