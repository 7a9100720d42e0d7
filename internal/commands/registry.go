package commands

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Spec describes a command: its names, help text, and how to build it from
// the argument text.
type Spec struct {
	Name     string
	Aliases  []string
	Synopsis string
	Usage    string
	Build    func(arg string) Command
}

// Registry holds registered commands.
type Registry struct {
	mu   sync.RWMutex
	cmds map[string]Spec // name and aliases map to spec
}

// NewRegistry creates a new command registry.
func NewRegistry() *Registry {
	return &Registry{
		cmds: make(map[string]Spec),
	}
}

// Register adds a command to the registry.
// Returns an error if the name or any alias is already registered.
func (r *Registry) Register(s Spec) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.cmds[s.Name]; exists {
		return fmt.Errorf("command already registered: %s", s.Name)
	}

	for _, alias := range s.Aliases {
		if _, exists := r.cmds[alias]; exists {
			return fmt.Errorf("command alias already registered: %s", alias)
		}
	}

	r.cmds[s.Name] = s
	for _, alias := range s.Aliases {
		r.cmds[alias] = s
	}

	return nil
}

// Find looks up a command by name or alias.
func (r *Registry) Find(name string) (Spec, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.cmds[name]
	return s, ok
}

// All returns all unique commands sorted by name.
func (r *Registry) All() []Spec {
	r.mu.RLock()
	defer r.mu.RUnlock()

	// Collect unique commands by primary name
	seen := make(map[string]Spec)
	for _, s := range r.cmds {
		seen[s.Name] = s
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)

	result := make([]Spec, len(names))
	for i, name := range names {
		result[i] = seen[name]
	}
	return result
}

// Parse splits line on the first space into a command word and its
// argument, and builds the matching command. Only leading whitespace is
// dropped: the argument keeps its exact text, so names with inner or
// trailing spaces need no quoting. A blank argument counts as missing.
func (r *Registry) Parse(line string) Command {
	line = strings.TrimLeft(line, " \t")
	name, arg, _ := strings.Cut(line, " ")
	name = strings.TrimRight(name, " \t\r\n")
	if strings.TrimSpace(arg) == "" {
		arg = ""
	}

	s, ok := r.Find(name)
	if !ok {
		return Unrecognized{Name: name}
	}
	return s.Build(arg)
}

// DefaultRegistry is the registry of the shell's built-in commands.
var DefaultRegistry = NewRegistry()

// Register adds a command to the default registry.
func Register(s Spec) {
	if err := DefaultRegistry.Register(s); err != nil {
		panic(err)
	}
}

// Parse parses line against the default registry.
func Parse(line string) Command {
	return DefaultRegistry.Parse(line)
}
