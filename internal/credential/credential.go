// Package credential loads the API key from disk, prompting for it once.
package credential

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/natefinch/atomic"
	"golang.org/x/term"

	"tasksh/internal/config"
)

const filePerms = 0o600

// ErrNoCredential indicates no key was stored and none was entered.
var ErrNoCredential = errors.New("no api key provided")

// Load reads the stored key. It returns ErrNoCredential when the file is
// missing or blank.
func Load(cfg *config.Config) (string, error) {
	data, err := os.ReadFile(cfg.CredentialPath())
	if errors.Is(err, os.ErrNotExist) {
		return "", ErrNoCredential
	}
	if err != nil {
		return "", fmt.Errorf("read api key: %w", err)
	}
	key := strings.TrimSpace(string(data))
	if key == "" {
		return "", ErrNoCredential
	}
	return key, nil
}

// Save writes key to the credential file, readable only by the owner.
func Save(cfg *config.Config, key string) error {
	if err := cfg.EnsureDir(); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	path := cfg.CredentialPath()
	if err := atomic.WriteFile(path, strings.NewReader(key+"\n")); err != nil {
		return fmt.Errorf("write api key: %w", err)
	}

	// atomic.WriteFile doesn't set permissions for new files
	if err := os.Chmod(path, filePerms); err != nil {
		return fmt.Errorf("set api key permissions: %w", err)
	}
	return nil
}

// GetOrPrompt returns the stored key, or asks for one on in and saves it.
// Input from a terminal is read without echo.
func GetOrPrompt(cfg *config.Config, in io.Reader, out io.Writer) (string, error) {
	key, err := Load(cfg)
	if err == nil {
		return key, nil
	}
	if !errors.Is(err, ErrNoCredential) {
		return "", err
	}

	fmt.Fprintf(out, "No API key found in %s.\n", cfg.CredentialPath())
	fmt.Fprint(out, "Enter your API key (it will be saved): ")

	key, err = readKey(in)
	fmt.Fprintln(out)
	if err != nil {
		return "", err
	}
	if key == "" {
		return "", ErrNoCredential
	}

	if err := Save(cfg, key); err != nil {
		return "", err
	}
	fmt.Fprintf(out, "Saved API key to %s\n", cfg.CredentialPath())
	return key, nil
}

func readKey(in io.Reader) (string, error) {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		b, err := term.ReadPassword(int(f.Fd()))
		if err != nil {
			return "", fmt.Errorf("read api key: %w", err)
		}
		return strings.TrimSpace(string(b)), nil
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read api key: %w", err)
	}
	return strings.TrimSpace(line), nil
}
