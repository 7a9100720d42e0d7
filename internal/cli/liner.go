package cli

import (
	"os"

	"github.com/peterh/liner"
)

// LinerReader is a LineReader backed by liner, with history persisted to a
// file and tab completion.
type LinerReader struct {
	state       *liner.State
	historyPath string
}

// NewLinerReader takes over the terminal for line editing. Close restores it
// and saves history.
func NewLinerReader(historyPath string, complete func(line string) []string) *LinerReader {
	state := liner.NewLiner()
	state.SetCtrlCAborts(true)
	if complete != nil {
		state.SetCompleter(complete)
	}

	if f, err := os.Open(historyPath); err == nil {
		state.ReadHistory(f)
		f.Close()
	}

	return &LinerReader{state: state, historyPath: historyPath}
}

func (r *LinerReader) Prompt(prompt string) (string, error) {
	return r.state.Prompt(prompt)
}

func (r *LinerReader) AppendHistory(line string) {
	r.state.AppendHistory(line)
}

// Close saves history and restores the terminal.
func (r *LinerReader) Close() error {
	if r.historyPath != "" {
		if f, err := os.OpenFile(r.historyPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600); err == nil {
			r.state.WriteHistory(f)
			f.Close()
		}
	}
	return r.state.Close()
}
