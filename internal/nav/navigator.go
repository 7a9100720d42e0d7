// Package nav implements the navigation state machine of the shell: a path of
// up to three selected entities into the workspace, project, task hierarchy,
// and the data fetched for each level.
//
// Every operation fetches before it mutates, so a failed remote call leaves
// the path and all caches as they were.
package nav

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"tasksh/internal/deeplink"
	"tasksh/internal/service"
)

var (
	// ErrUsage indicates a command line missing its argument.
	ErrUsage = errors.New("you must specify a \"directory\" to move to")

	// ErrAtRoot indicates "cl .." at the top level.
	ErrAtRoot = errors.New("already at the top level")

	// ErrNotFound indicates a name or id absent from the current listing.
	ErrNotFound = errors.New("not found")

	// ErrNotAtTask indicates a task command issued outside a task.
	ErrNotAtTask = errors.New("not inside a task")

	// ErrEmptyComment indicates a comment with no text.
	ErrEmptyComment = errors.New("comment is empty")
)

// Parent is the argument of ChangeDir that moves one level up.
const Parent = ".."

// Navigator owns the current path and the cached data at each depth.
// It is not safe for concurrent use.
type Navigator struct {
	svc   service.Service
	path  path
	cache cache
}

// New creates a navigator at the workspace listing.
func New(ctx context.Context, svc service.Service) (*Navigator, error) {
	workspaces, err := svc.ListWorkspaces(ctx)
	if err != nil {
		return nil, err
	}
	return &Navigator{
		svc:   svc,
		cache: cache{workspaces: workspaces},
	}, nil
}

// Depth returns the current depth.
func (n *Navigator) Depth() Depth {
	return n.path.depth()
}

// ChangeDir moves into the entry named target, or up one level if target is
// "..". At depth 1 the name "me" selects the aggregate scope. Names match
// exactly; the first match in listing order wins. moved is false when
// nothing changed, which at the task level is not an error.
func (n *Navigator) ChangeDir(ctx context.Context, target string) (moved bool, err error) {
	if target == "" {
		return false, ErrUsage
	}
	if target == Parent {
		return n.up()
	}

	switch n.Depth() {
	case AtWorkspaces:
		for _, w := range n.cache.workspaces {
			if w.Name == target {
				return entered(n.enterWorkspace(ctx, w))
			}
		}
	case AtProjects:
		if target == AggregateName {
			return entered(n.enterScope(ctx, Aggregate()))
		}
		for _, p := range n.cache.projects {
			if p.Name == target {
				return entered(n.enterScope(ctx, Specific(p)))
			}
		}
	case AtTasks:
		for _, t := range n.cache.tasks {
			if t.Name == target {
				return entered(n.enterTask(ctx, t))
			}
		}
	case AtTask:
		return false, nil
	}

	return false, fmt.Errorf("%w: no %s named %q", ErrNotFound, n.Depth().entryKind(), target)
}

// entered reports a move for a successful enter.
func entered(err error) (bool, error) {
	return err == nil, err
}

// up pops the deepest selection and drops the data it scoped.
func (n *Navigator) up() (bool, error) {
	switch n.Depth() {
	case AtWorkspaces:
		return false, ErrAtRoot
	case AtProjects:
		n.path.workspace = nil
		n.cache.projects = nil
	case AtTasks:
		n.path.scope = nil
		n.cache.tasks = nil
	case AtTask:
		n.path.task = nil
		n.cache.detail = nil
	}
	return true, nil
}

func (n *Navigator) enterWorkspace(ctx context.Context, w service.Workspace) error {
	projects, err := n.svc.ListProjects(ctx, w.ID)
	if err != nil {
		return err
	}
	n.path.workspace = &w
	n.cache.projects = projects
	return nil
}

func (n *Navigator) enterScope(ctx context.Context, s ProjectScope) error {
	tasks, err := n.svc.ListTasks(ctx, s.query(n.path.workspace.ID))
	if err != nil {
		return err
	}
	n.path.scope = &s
	n.cache.tasks = tasks
	return nil
}

func (n *Navigator) enterTask(ctx context.Context, t service.TaskSummary) error {
	detail, err := n.svc.GetTask(ctx, t.ID)
	if err != nil {
		return err
	}
	n.path.task = &t
	n.cache.detail = &detail
	return nil
}

// Refresh re-fetches the data displayed at the current depth.
func (n *Navigator) Refresh(ctx context.Context) error {
	switch n.Depth() {
	case AtWorkspaces:
		workspaces, err := n.svc.ListWorkspaces(ctx)
		if err != nil {
			return err
		}
		n.cache.workspaces = workspaces
	case AtProjects:
		projects, err := n.svc.ListProjects(ctx, n.path.workspace.ID)
		if err != nil {
			return err
		}
		n.cache.projects = projects
	case AtTasks:
		tasks, err := n.svc.ListTasks(ctx, n.path.scope.query(n.path.workspace.ID))
		if err != nil {
			return err
		}
		n.cache.tasks = tasks
	case AtTask:
		detail, err := n.svc.GetTask(ctx, n.path.task.ID)
		if err != nil {
			return err
		}
		n.cache.detail = &detail
	}
	return nil
}

// ToggleDone flips the completion flag of the current task. The update
// response is merged over the cached detail; stories and followers are kept.
func (n *Navigator) ToggleDone(ctx context.Context) error {
	if n.Depth() != AtTask {
		return ErrNotAtTask
	}

	current := *n.cache.detail
	echoed, err := n.svc.SetTaskCompleted(ctx, current.ID, !current.Completed)
	if err != nil {
		return err
	}

	merged := mergeDetail(current, echoed)
	n.cache.detail = &merged

	summary := *n.path.task
	summary.Completed = merged.Completed
	n.path.task = &summary

	tasks := slices.Clone(n.cache.tasks)
	for i := range tasks {
		if tasks[i].ID == merged.ID {
			tasks[i].Completed = merged.Completed
		}
	}
	n.cache.tasks = n.path.scope.order(tasks)
	return nil
}

// mergeDetail overlays the fields a partial update response carries.
func mergeDetail(local, echoed service.Task) service.Task {
	merged := local
	merged.Completed = echoed.Completed
	if echoed.Name != "" {
		merged.Name = echoed.Name
	}
	if echoed.AssigneeStatus != "" {
		merged.AssigneeStatus = echoed.AssigneeStatus
	}
	if echoed.Assignee != nil {
		merged.Assignee = echoed.Assignee
	}
	if echoed.Notes != "" {
		merged.Notes = echoed.Notes
	}
	if echoed.DueOn != "" {
		merged.DueOn = echoed.DueOn
	}
	return merged
}

// AddComment posts text as a comment on the current task and appends the
// created story. Blank text is rejected without a remote call.
func (n *Navigator) AddComment(ctx context.Context, text string) (service.Story, error) {
	if n.Depth() != AtTask {
		return service.Story{}, ErrNotAtTask
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return service.Story{}, ErrEmptyComment
	}

	story, err := n.svc.AddComment(ctx, n.cache.detail.ID, text)
	if err != nil {
		return service.Story{}, err
	}

	detail := *n.cache.detail
	detail.Stories = append(slices.Clone(detail.Stories), story)
	n.cache.detail = &detail
	return story, nil
}

// Follow pre-navigates to the entities encoded in a deep link, going as deep
// as the link allows. On a miss the navigator stays at the deepest level
// reached and the error says what could not be resolved.
func (n *Navigator) Follow(ctx context.Context, link deeplink.Link) error {
	for n.Depth() != AtWorkspaces {
		if _, err := n.up(); err != nil {
			return err
		}
	}

	if link.WorkspaceIndex < 0 || link.WorkspaceIndex >= len(n.cache.workspaces) {
		return fmt.Errorf("%w: workspace index %d (have %d)", ErrNotFound, link.WorkspaceIndex, len(n.cache.workspaces))
	}
	if err := n.enterWorkspace(ctx, n.cache.workspaces[link.WorkspaceIndex]); err != nil {
		return err
	}

	if link.ProjectID == "" {
		return nil
	}
	i := slices.IndexFunc(n.cache.projects, func(p service.Project) bool { return p.ID == link.ProjectID })
	if i < 0 {
		return fmt.Errorf("%w: project %s", ErrNotFound, link.ProjectID)
	}
	if err := n.enterScope(ctx, Specific(n.cache.projects[i])); err != nil {
		return err
	}

	if link.TaskID == "" {
		return nil
	}
	i = slices.IndexFunc(n.cache.tasks, func(t service.TaskSummary) bool { return t.ID == link.TaskID })
	if i < 0 {
		return fmt.Errorf("%w: task %s", ErrNotFound, link.TaskID)
	}
	return n.enterTask(ctx, n.cache.tasks[i])
}
