// Package editor composes text in the user's editor through a temporary file.
package editor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

var (
	// ErrNoEditor indicates that no editor could be found.
	ErrNoEditor = errors.New("no editor found (set $EDITOR)")

	// ErrEditorFailed indicates the editor exited abnormally or left no file.
	ErrEditorFailed = errors.New("editor failed")
)

// fallbacks are tried in order when neither config nor $EDITOR name one.
var fallbacks = []string{"vi", "nano"}

// Editor runs an editor command on a temporary file.
type Editor struct {
	// Command is the editor and its leading arguments, e.g. "code -w".
	Command string

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// Resolve picks an editor command.
// Priority: configured -> $EDITOR -> vi -> nano -> error.
func Resolve(configured string, getenv func(string) string) (string, error) {
	candidates := []string{configured, getenv("EDITOR")}
	candidates = append(candidates, fallbacks...)

	for _, c := range candidates {
		fields := strings.Fields(c)
		if len(fields) == 0 {
			continue
		}
		if _, err := exec.LookPath(fields[0]); err == nil {
			return c, nil
		}
	}
	return "", ErrNoEditor
}

// New resolves an editor attached to the process's terminal.
func New(configured string) (*Editor, error) {
	command, err := Resolve(configured, os.Getenv)
	if err != nil {
		return nil, err
	}
	return &Editor{
		Command: command,
		Stdin:   os.Stdin,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
	}, nil
}

// Compose opens the editor on an empty temporary file and returns the saved
// contents with surrounding whitespace trimmed. The file is always removed.
// Once started, the editor is not tied to ctx: it owns the terminal until
// the user quits it.
func (e *Editor) Compose(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%w: %v", ErrEditorFailed, err)
	}

	f, err := os.CreateTemp("", "tasksh-comment-*.txt")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	path := f.Name()
	defer os.Remove(path)

	if err := f.Close(); err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}

	fields := strings.Fields(e.Command)
	if len(fields) == 0 {
		return "", ErrNoEditor
	}
	args := append(fields[1:], path)

	cmd := exec.Command(fields[0], args...)
	cmd.Stdin = e.Stdin
	cmd.Stdout = e.Stdout
	cmd.Stderr = e.Stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return "", fmt.Errorf("%w: %s exited with status %d", ErrEditorFailed, fields[0], exitErr.ExitCode())
		}
		return "", fmt.Errorf("%w: %v", ErrEditorFailed, err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrEditorFailed, err)
	}
	return strings.TrimSpace(string(data)), nil
}
