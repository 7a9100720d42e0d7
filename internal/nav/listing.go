package nav

import (
	"slices"
	"strings"

	"tasksh/internal/service"
)

// Workspace returns the selected workspace.
func (n *Navigator) Workspace() (service.Workspace, bool) {
	if n.path.workspace == nil {
		return service.Workspace{}, false
	}
	return *n.path.workspace, true
}

// Scope returns the selected project scope.
func (n *Navigator) Scope() (ProjectScope, bool) {
	if n.path.scope == nil {
		return ProjectScope{}, false
	}
	return *n.path.scope, true
}

// Task returns the selected task summary.
func (n *Navigator) Task() (service.TaskSummary, bool) {
	if n.path.task == nil {
		return service.TaskSummary{}, false
	}
	return *n.path.task, true
}

// Workspaces returns the cached workspace listing.
func (n *Navigator) Workspaces() []service.Workspace {
	return slices.Clone(n.cache.workspaces)
}

// Projects returns the cached project listing of the selected workspace.
func (n *Navigator) Projects() []service.Project {
	return slices.Clone(n.cache.projects)
}

// Tasks returns the cached task listing of the selected scope.
func (n *Navigator) Tasks() []service.TaskSummary {
	return slices.Clone(n.cache.tasks)
}

// Detail returns the cached detail of the selected task.
func (n *Navigator) Detail() (service.Task, bool) {
	if n.cache.detail == nil {
		return service.Task{}, false
	}
	detail := *n.cache.detail
	detail.Followers = slices.Clone(detail.Followers)
	detail.Stories = slices.Clone(detail.Stories)
	return detail, true
}

// PathNames returns the display names of the selected entities, shallowest first.
func (n *Navigator) PathNames() []string {
	var names []string
	if n.path.workspace != nil {
		names = append(names, n.path.workspace.Name)
	}
	if n.path.scope != nil {
		names = append(names, n.path.scope.Name())
	}
	if n.path.task != nil {
		names = append(names, n.path.task.Name)
	}
	return names
}

// entryNames returns the names in the listing at the current depth.
// The task level has no listing.
func (n *Navigator) entryNames() []string {
	var names []string
	switch n.Depth() {
	case AtWorkspaces:
		for _, w := range n.cache.workspaces {
			names = append(names, w.Name)
		}
	case AtProjects:
		for _, p := range n.cache.projects {
			names = append(names, p.Name)
		}
	case AtTasks:
		for _, t := range n.cache.tasks {
			names = append(names, t.Name)
		}
	case AtTask:
	}
	return names
}

const completionPrefix = "cl "

// Completion returns the index-th completion of a "cl " line: the listing
// names at the current depth containing the typed text, case-insensitively,
// in listing order. ok is false when there are no further matches.
func (n *Navigator) Completion(line string, index int) (completion string, ok bool) {
	if !strings.HasPrefix(line, completionPrefix) || len(line) <= len(completionPrefix) {
		return "", false
	}
	needle := strings.ToLower(line[len(completionPrefix):])

	match := 0
	for _, name := range n.entryNames() {
		if !strings.Contains(strings.ToLower(name), needle) {
			continue
		}
		if match == index {
			return completionPrefix + name, true
		}
		match++
	}
	return "", false
}

// Completions returns every completion of line, in order.
func (n *Navigator) Completions(line string) []string {
	var result []string
	for i := 0; ; i++ {
		c, ok := n.Completion(line, i)
		if !ok {
			return result
		}
		result = append(result, c)
	}
}
