// Package commands defines the shell's command set and parses input lines into it.
package commands

// Command is a parsed shell command. The set of commands is closed: the
// concrete types below are the only implementations.
type Command interface {
	command()
}

// ChangeDir moves into a named entry, or up with "..". Target is empty when
// the argument was omitted.
type ChangeDir struct {
	Target string
}

// List re-fetches the current listing or task.
type List struct{}

// ToggleDone flips the completion flag of the current task.
type ToggleDone struct{}

// AddComment composes a comment in the editor and posts it.
type AddComment struct{}

// Help prints the command summary.
type Help struct{}

// Exit leaves the shell.
type Exit struct{}

// Unrecognized is any line whose first word is not a command.
type Unrecognized struct {
	Name string
}

func (ChangeDir) command()    {}
func (List) command()         {}
func (ToggleDone) command()   {}
func (AddComment) command()   {}
func (Help) command()         {}
func (Exit) command()         {}
func (Unrecognized) command() {}
