package nav

import "tasksh/internal/service"

// Depth is the navigator's position in the hierarchy.
type Depth int

const (
	AtWorkspaces Depth = iota
	AtProjects
	AtTasks
	AtTask
)

func (d Depth) String() string {
	switch d {
	case AtWorkspaces:
		return "workspaces"
	case AtProjects:
		return "projects"
	case AtTasks:
		return "tasks"
	case AtTask:
		return "task"
	}
	return "unknown"
}

// entryKind names what a listing at depth d contains, for messages.
func (d Depth) entryKind() string {
	switch d {
	case AtWorkspaces:
		return "workspace"
	case AtProjects:
		return "project"
	case AtTasks:
		return "task"
	}
	return "entry"
}

// AggregateName selects the current user's cross-project task view.
const AggregateName = "me"

// ProjectScope is the selection at depth 1: either a specific project or the
// aggregate "my tasks" view of the workspace.
type ProjectScope struct {
	project *service.Project // nil for the aggregate view
}

// Aggregate returns the "my tasks" scope.
func Aggregate() ProjectScope { return ProjectScope{} }

// Specific returns the scope of a single project.
func Specific(p service.Project) ProjectScope { return ProjectScope{project: &p} }

// IsAggregate reports whether s is the "my tasks" scope.
func (s ProjectScope) IsAggregate() bool { return s.project == nil }

// Project returns the selected project; ok is false for the aggregate scope.
func (s ProjectScope) Project() (service.Project, bool) {
	if s.project == nil {
		return service.Project{}, false
	}
	return *s.project, true
}

// Name is the display name of the scope.
func (s ProjectScope) Name() string {
	if s.project == nil {
		return AggregateName
	}
	return s.project.Name
}

// query builds the task listing request for this scope within a workspace.
func (s ProjectScope) query(workspaceID string) service.TaskQuery {
	if s.project == nil {
		return service.TaskQuery{WorkspaceID: workspaceID}
	}
	return service.TaskQuery{ProjectID: s.project.ID}
}

// order applies the listing order the service uses for this scope.
func (s ProjectScope) order(tasks []service.TaskSummary) []service.TaskSummary {
	if s.project == nil {
		return service.GroupMyTasks(tasks)
	}
	return service.SortProjectTasks(tasks)
}

// path is the sequence of selected entities. A level is selected only if
// every shallower level is.
type path struct {
	workspace *service.Workspace
	scope     *ProjectScope
	task      *service.TaskSummary
}

func (p path) depth() Depth {
	switch {
	case p.task != nil:
		return AtTask
	case p.scope != nil:
		return AtTasks
	case p.workspace != nil:
		return AtProjects
	}
	return AtWorkspaces
}

// cache holds the data displayed at each depth. The slot for depth d is
// filled by a request scoped to the selection at depth d-1.
type cache struct {
	workspaces []service.Workspace
	projects   []service.Project
	tasks      []service.TaskSummary
	detail     *service.Task
}
