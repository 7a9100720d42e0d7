// Package pager pipes long output through an external pager.
package pager

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// DefaultCommand keeps ANSI colors intact.
const DefaultCommand = "less --RAW-CONTROL-CHARS"

// ErrPagerFailed indicates the pager could not be run or exited abnormally.
var ErrPagerFailed = errors.New("pager failed")

// Pager runs a pager command with text on its stdin.
type Pager struct {
	Command string
	Stdout  io.Writer
	Stderr  io.Writer
}

// New returns a pager attached to the process's terminal.
// Priority: configured -> $PAGER -> DefaultCommand.
func New(configured string) *Pager {
	command := configured
	if strings.TrimSpace(command) == "" {
		command = os.Getenv("PAGER")
	}
	if strings.TrimSpace(command) == "" {
		command = DefaultCommand
	}
	return &Pager{Command: command, Stdout: os.Stdout, Stderr: os.Stderr}
}

// Needed reports whether text has at least as many lines as the terminal
// is tall.
func Needed(text string, height int) bool {
	if text == "" {
		return false
	}
	lines := strings.Count(strings.TrimSuffix(text, "\n"), "\n") + 1
	return lines >= height
}

// Page shows text in the pager and waits for it to exit. Once started, the
// pager is not tied to ctx: it owns the terminal and handles Ctrl-C itself.
func (p *Pager) Page(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrPagerFailed, err)
	}

	fields := strings.Fields(p.Command)
	if len(fields) == 0 {
		return fmt.Errorf("%w: no pager command", ErrPagerFailed)
	}

	cmd := exec.Command(fields[0], fields[1:]...)
	cmd.Stdin = strings.NewReader(text)
	cmd.Stdout = p.Stdout
	cmd.Stderr = p.Stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrPagerFailed, fields[0], err)
	}
	return nil
}
