package cli_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"tasksh/internal/cli"
	"tasksh/internal/commands"
	"tasksh/internal/config"
	"tasksh/internal/exitcode"
	"tasksh/internal/service"
	"tasksh/internal/testutil"
)

type launch struct {
	svc      *testutil.FakeService
	reader   *scriptReader
	apiKey   string
	complete func(string) []string
}

// testFactory creates a service factory that returns the given FakeService.
func (l *launch) testFactory() cli.ServiceFactory {
	return func(ctx context.Context, cfg *config.Config, apiKey string, log *slog.Logger) (service.Service, error) {
		l.apiKey = apiKey
		return l.svc, nil
	}
}

func (l *launch) testReaders() cli.ReaderFactory {
	return func(cfg *config.Config, complete func(string) []string) (cli.LineReader, error) {
		l.complete = complete
		return l.reader, nil
	}
}

func (l *launch) dispatcher() *cli.Dispatcher {
	return cli.NewDispatcher(commands.DefaultRegistry, l.testFactory(), l.testReaders())
}

// configDir creates a config directory holding a stored API key.
func configDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, config.CredentialFile), []byte("0/key\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestDispatcher_Help(t *testing.T) {
	l := &launch{svc: seededService(), reader: newScript()}

	var stdout, stderr bytes.Buffer
	code := l.dispatcher().Run(context.Background(), []string{"--help"}, strings.NewReader(""), &stdout, &stderr)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if !strings.HasPrefix(stdout.String(), "Usage: tasksh [flags] [link]") {
		t.Errorf("unexpected usage output: %q", stdout.String())
	}
	for _, flag := range []string{"--config", "--debug", "--help"} {
		if !strings.Contains(stdout.String(), flag) {
			t.Errorf("usage missing %s", flag)
		}
	}
	if l.svc.Calls() != 0 {
		t.Error("help should not contact the backend")
	}
}

func TestDispatcher_UsageErrors(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected string
	}{
		{"unknown flag", []string{"--bogus"}, "error: unknown flag: --bogus\n"},
		{"missing flag value", []string{"--config"}, "error: flag needs an argument: --config\n"},
		{"too many arguments", []string{"a", "b"}, "error: too many arguments: expected at most one link\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := &launch{svc: seededService(), reader: newScript()}

			var stdout, stderr bytes.Buffer
			code := l.dispatcher().Run(context.Background(), tt.args, strings.NewReader(""), &stdout, &stderr)

			if code != exitcode.UserError {
				t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
			}
			if stderr.String() != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, stderr.String())
			}
		})
	}
}

func TestDispatcher_InvalidSettings(t *testing.T) {
	dir := configDir(t)
	if err := os.WriteFile(filepath.Join(dir, config.SettingsFile), []byte(`{"request_timeout": "soon"}`), 0o600); err != nil {
		t.Fatal(err)
	}
	l := &launch{svc: seededService(), reader: newScript()}

	var stdout, stderr bytes.Buffer
	code := l.dispatcher().Run(context.Background(), []string{"--config", dir}, strings.NewReader(""), &stdout, &stderr)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if !strings.HasPrefix(stderr.String(), "error: invalid config.jsonc") {
		t.Errorf("unexpected stderr: %q", stderr.String())
	}
}

func TestDispatcher_MissingCredential(t *testing.T) {
	l := &launch{svc: seededService(), reader: newScript()}

	var stdout, stderr bytes.Buffer
	code := l.dispatcher().Run(context.Background(), []string{"--config", t.TempDir()}, strings.NewReader("\n"), &stdout, &stderr)

	if code != exitcode.AuthError {
		t.Errorf("expected exit code %d, got %d", exitcode.AuthError, code)
	}
	expected := "error: auth error: no api key provided\n"
	if stderr.String() != expected {
		t.Errorf("expected %q, got %q", expected, stderr.String())
	}
}

func TestDispatcher_PromptsForCredential(t *testing.T) {
	dir := t.TempDir()
	l := &launch{svc: seededService(), reader: newScript()}

	var stdout, stderr bytes.Buffer
	code := l.dispatcher().Run(context.Background(), []string{"--config", dir}, strings.NewReader("0/typed\n"), &stdout, &stderr)

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (stderr %q)", exitcode.Success, code, stderr.String())
	}
	if l.apiKey != "0/typed" {
		t.Errorf("expected factory to get typed key, got %q", l.apiKey)
	}
	if _, err := os.Stat(filepath.Join(dir, config.CredentialFile)); err != nil {
		t.Errorf("expected key to be saved: %v", err)
	}
}

func TestDispatcher_InitialListingFails(t *testing.T) {
	svc := seededService()
	svc.ListWorkspacesErr = &service.RemoteError{Op: "list workspaces", Status: 401, Messages: []string{"Not Authorized"}}
	l := &launch{svc: svc, reader: newScript()}

	var stdout, stderr bytes.Buffer
	code := l.dispatcher().Run(context.Background(), []string{"--config", configDir(t)}, strings.NewReader(""), &stdout, &stderr)

	if code != exitcode.BackendError {
		t.Errorf("expected exit code %d, got %d", exitcode.BackendError, code)
	}
	expected := "error: backend error: list workspaces (401): Not Authorized\n"
	if stderr.String() != expected {
		t.Errorf("expected %q, got %q", expected, stderr.String())
	}
}

func TestDispatcher_FactoryFails(t *testing.T) {
	factory := func(ctx context.Context, cfg *config.Config, apiKey string, log *slog.Logger) (service.Service, error) {
		return nil, errors.New("bad api url")
	}
	l := &launch{reader: newScript()}
	d := cli.NewDispatcher(commands.DefaultRegistry, factory, l.testReaders())

	var stdout, stderr bytes.Buffer
	code := d.Run(context.Background(), []string{"--config", configDir(t)}, strings.NewReader(""), &stdout, &stderr)

	if code != exitcode.BackendError {
		t.Errorf("expected exit code %d, got %d", exitcode.BackendError, code)
	}
}

func TestDispatcher_RunsShell(t *testing.T) {
	l := &launch{svc: seededService(), reader: newScript("cl Acme")}

	var stdout, stderr bytes.Buffer
	code := l.dispatcher().Run(context.Background(), []string{"--config", configDir(t)}, strings.NewReader(""), &stdout, &stderr)

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (stderr %q)", exitcode.Success, code, stderr.String())
	}
	if l.apiKey != "0/key" {
		t.Errorf("expected stored key, got %q", l.apiKey)
	}
	if !strings.HasPrefix(stdout.String(), "Acme  Home\n") {
		t.Errorf("expected workspace listing first, got %q", stdout.String())
	}
	if !l.reader.closed {
		t.Error("expected reader to be closed")
	}

	got := l.complete("cl L")
	if len(got) != 1 || got[0] != "cl Launch" {
		t.Errorf("expected completion of the current listing, got %v", got)
	}
}

func TestDispatcher_FollowsDeepLink(t *testing.T) {
	tests := []struct {
		name          string
		link          string
		expectedFirst string
		expectedErr   string
	}{
		{
			name:          "task link",
			link:          "https://app.asana.com/0/p1/t1",
			expectedFirst: "Acme, Launch, Write post> ",
		},
		{
			name:          "project link",
			link:          "https://app.asana.com/0/p1",
			expectedFirst: "Acme, Launch> ",
		},
		{
			name:          "unknown task",
			link:          "https://app.asana.com/0/p1/999",
			expectedFirst: "Acme, Launch> ",
			expectedErr:   "error: not found: task 999\n",
		},
		{
			name:          "workspace out of range",
			link:          "https://app.asana.com/7/p1",
			expectedFirst: "> ",
			expectedErr:   "error: not found: workspace index 7 (have 2)\n",
		},
		{
			name:          "malformed",
			link:          "https://app.asana.com/zero/p1",
			expectedFirst: "> ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := &launch{svc: seededService(), reader: newScript()}

			var stdout, stderr bytes.Buffer
			args := []string{"--config", configDir(t), tt.link}
			code := l.dispatcher().Run(context.Background(), args, strings.NewReader(""), &stdout, &stderr)

			if code != exitcode.Success {
				t.Fatalf("expected exit code %d, got %d", exitcode.Success, code)
			}
			if l.reader.prompts[0] != tt.expectedFirst {
				t.Errorf("expected first prompt %q, got %q", tt.expectedFirst, l.reader.prompts[0])
			}
			if tt.expectedErr != "" && stderr.String() != tt.expectedErr {
				t.Errorf("expected %q, got %q", tt.expectedErr, stderr.String())
			}
			if tt.name == "malformed" && !strings.HasPrefix(stderr.String(), "error: ") {
				t.Errorf("expected a malformed link error, got %q", stderr.String())
			}
		})
	}
}

func TestDispatcher_DebugLogging(t *testing.T) {
	l := &launch{svc: seededService(), reader: newScript("help")}

	var stdout, stderr bytes.Buffer
	code := l.dispatcher().Run(context.Background(), []string{"--config", configDir(t), "--debug"}, strings.NewReader(""), &stdout, &stderr)

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if !strings.Contains(stderr.String(), "level=DEBUG msg=command line=help") {
		t.Errorf("expected debug log of the command, got %q", stderr.String())
	}
}
