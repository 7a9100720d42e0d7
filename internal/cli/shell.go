package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/peterh/liner"

	"tasksh/internal/commands"
	"tasksh/internal/editor"
	"tasksh/internal/exitcode"
	"tasksh/internal/nav"
	"tasksh/internal/output"
	"tasksh/internal/pager"
	"tasksh/internal/service"
)

// LineReader reads command lines from the user.
type LineReader interface {
	Prompt(prompt string) (string, error)
	AppendHistory(line string)
	Close() error
}

// Options configures a Shell. Zero fields get working defaults, except
// Reader, which is required.
type Options struct {
	Reader LineReader
	Out    io.Writer
	ErrOut io.Writer
	Theme  *output.Theme

	// Size reports the terminal height and width.
	Size func() (height, width int)

	// Compose collects comment text, normally in an editor.
	Compose func(ctx context.Context) (string, error)

	// Page shows text that does not fit on screen.
	Page func(ctx context.Context, text string) error

	Registry *commands.Registry
	Logger   *slog.Logger
}

// Shell is the interactive loop over a Navigator.
type Shell struct {
	nav      *nav.Navigator
	reader   LineReader
	out      io.Writer
	errOut   io.Writer
	theme    output.Theme
	size     func() (int, int)
	compose  func(ctx context.Context) (string, error)
	page     func(ctx context.Context, text string) error
	registry *commands.Registry
	log      *slog.Logger
}

// NewShell creates a shell over n.
func NewShell(n *nav.Navigator, opts Options) *Shell {
	s := &Shell{
		nav:      n,
		reader:   opts.Reader,
		out:      opts.Out,
		errOut:   opts.ErrOut,
		size:     opts.Size,
		compose:  opts.Compose,
		page:     opts.Page,
		registry: opts.Registry,
		log:      opts.Logger,
	}
	if s.out == nil {
		s.out = io.Discard
	}
	if s.errOut == nil {
		s.errOut = io.Discard
	}
	if opts.Theme != nil {
		s.theme = *opts.Theme
	} else {
		s.theme = output.PlainTheme()
	}
	if s.size == nil {
		s.size = func() (int, int) { return output.DefaultHeight, output.DefaultWidth }
	}
	if s.compose == nil {
		s.compose = func(context.Context) (string, error) { return "", editor.ErrNoEditor }
	}
	if s.registry == nil {
		s.registry = commands.DefaultRegistry
	}
	if s.log == nil {
		s.log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return s
}

// Run renders the current location and reads commands until end of input,
// an aborted prompt, or exit. Returns the exit code.
func (s *Shell) Run(ctx context.Context) int {
	s.render(ctx)

	for {
		if ctx.Err() != nil {
			return exitcode.Success
		}

		line, err := s.reader.Prompt(output.Prompt(s.nav.PathNames()))
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
				fmt.Fprintln(s.out)
				return exitcode.Success
			}
			fmt.Fprintf(s.errOut, "error: reading input: %v\n", err)
			return exitcode.UserError
		}

		if strings.TrimSpace(line) == "" {
			continue
		}
		s.reader.AppendHistory(line)

		if s.Execute(ctx, line) {
			return exitcode.Success
		}
	}
}

// Execute runs one command line. It reports whether the shell should exit.
// An interrupt while the command runs cancels only that command.
func (s *Shell) Execute(ctx context.Context, line string) (exit bool) {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	cmd := s.registry.Parse(line)
	s.log.Debug("command", "line", line, "type", fmt.Sprintf("%T", cmd))

	switch c := cmd.(type) {
	case commands.ChangeDir:
		moved, err := s.nav.ChangeDir(ctx, c.Target)
		if err != nil {
			s.report(err)
		} else if moved {
			s.render(ctx)
		}
	case commands.List:
		if err := s.nav.Refresh(ctx); err != nil {
			s.report(err)
			return false
		}
		s.render(ctx)
	case commands.ToggleDone:
		if err := s.nav.ToggleDone(ctx); err != nil {
			s.report(err)
			return false
		}
		s.render(ctx)
	case commands.AddComment:
		s.addComment(ctx)
	case commands.Help:
		commands.PrintHelp(s.out, s.registry)
	case commands.Exit:
		return true
	case commands.Unrecognized:
		fmt.Fprintf(s.errOut, "error: unrecognized command: %s (try help)\n", c.Name)
	default:
		panic(fmt.Sprintf("cli: unhandled command %T", cmd))
	}
	return false
}

func (s *Shell) addComment(ctx context.Context) {
	if s.nav.Depth() != nav.AtTask {
		s.report(nav.ErrNotAtTask)
		return
	}

	text, err := s.compose(ctx)
	if err != nil {
		s.report(err)
		return
	}

	if _, err := s.nav.AddComment(ctx, text); err != nil {
		if errors.Is(err, nav.ErrEmptyComment) {
			fmt.Fprintln(s.errOut, "comment is empty; nothing posted")
			return
		}
		s.report(err)
		return
	}
	s.render(ctx)
}

// render writes the listing or task at the current location.
func (s *Shell) render(ctx context.Context) {
	height, width := s.size()

	switch s.nav.Depth() {
	case nav.AtWorkspaces:
		output.Workspaces(s.out, s.nav.Workspaces(), width)
	case nav.AtProjects:
		output.Projects(s.out, nav.AggregateName, s.nav.Projects(), width)
	case nav.AtTasks:
		scope, _ := s.nav.Scope()
		output.Tasks(s.out, s.theme, s.nav.Tasks(), scope.IsAggregate())
	case nav.AtTask:
		task, ok := s.nav.Detail()
		if !ok {
			return
		}
		text := output.TaskDetail(s.theme, task, width)
		if s.page != nil && pager.Needed(text, height) {
			err := s.page(ctx, text+"\n")
			if err == nil {
				return
			}
			s.report(err)
		}
		fmt.Fprintln(s.out, text)
	}
}

// report converts an error into a one-line message on the error stream.
func (s *Shell) report(err error) {
	var remote *service.RemoteError
	switch {
	case errors.Is(err, context.Canceled):
		fmt.Fprintln(s.errOut, "error: interrupted")
	case errors.As(err, &remote):
		fmt.Fprintf(s.errOut, "error: backend error: %v\n", err)
	case errors.Is(err, service.ErrInvalidArgument):
		s.log.Error("invalid request", "err", err)
		fmt.Fprintf(s.errOut, "error: %v\n", err)
	default:
		fmt.Fprintf(s.errOut, "error: %v\n", err)
	}
}
