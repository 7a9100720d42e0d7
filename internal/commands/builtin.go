package commands

import (
	"fmt"
	"io"
)

func init() {
	Register(Spec{
		Name:     "cl",
		Synopsis: `Move into a workspace, project or task; ".." moves up, "me" lists your tasks`,
		Usage:    "cl <name>|..",
		Build:    func(arg string) Command { return ChangeDir{Target: arg} },
	})
	Register(Spec{
		Name:     "ls",
		Synopsis: "Refresh the current listing",
		Usage:    "ls",
		Build:    func(string) Command { return List{} },
	})
	Register(Spec{
		Name:     "done",
		Synopsis: "Toggle completion of the current task",
		Usage:    "done",
		Build:    func(string) Command { return ToggleDone{} },
	})
	Register(Spec{
		Name:     "comment",
		Synopsis: "Write a comment on the current task in your editor",
		Usage:    "comment",
		Build:    func(string) Command { return AddComment{} },
	})
	Register(Spec{
		Name:     "help",
		Aliases:  []string{"?"},
		Synopsis: "Show this help",
		Usage:    "help",
		Build:    func(string) Command { return Help{} },
	})
	Register(Spec{
		Name:     "exit",
		Aliases:  []string{"quit"},
		Synopsis: "Leave the shell (Ctrl-D works too)",
		Usage:    "exit",
		Build:    func(string) Command { return Exit{} },
	})
}

// PrintHelp writes the command summary of r.
func PrintHelp(w io.Writer, r *Registry) {
	fmt.Fprintln(w, "Commands:")
	for _, s := range r.All() {
		fmt.Fprintf(w, "  %-14s %s\n", s.Usage, s.Synopsis)
	}
}
