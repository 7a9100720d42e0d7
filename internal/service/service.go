// Package service defines the backend-agnostic interface for task operations.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Service defines the interface for task backend operations.
// All remote calls go through this interface.
// The navigator and commands never import a backend directly.
type Service interface {
	// ListWorkspaces returns all workspaces visible to the user.
	ListWorkspaces(ctx context.Context) ([]Workspace, error)

	// ListProjects returns the non-archived projects of a workspace,
	// most recently modified first.
	ListProjects(ctx context.Context, workspaceID string) ([]Project, error)

	// ListTasks returns the tasks of a project, or the current user's tasks
	// in a workspace. Returns ErrInvalidArgument unless exactly one scope is set.
	// Project listings put completed tasks first; workspace listings are
	// grouped completed, inbox, today, upcoming, later.
	ListTasks(ctx context.Context, q TaskQuery) ([]TaskSummary, error)

	// GetTask returns a task with its full story list.
	GetTask(ctx context.Context, taskID string) (Task, error)

	// SetTaskCompleted updates the completion flag.
	// The returned task carries only the fields echoed by the service;
	// Stories and Followers are not populated.
	SetTaskCompleted(ctx context.Context, taskID string, completed bool) (Task, error)

	// AddComment posts a comment story on a task and returns it.
	AddComment(ctx context.Context, taskID, text string) (Story, error)
}

// ErrInvalidArgument indicates a caller contract violation.
var ErrInvalidArgument = errors.New("invalid argument")

// Validate checks that exactly one scope is set.
func (q TaskQuery) Validate() error {
	switch {
	case q.ProjectID != "" && q.WorkspaceID != "":
		return fmt.Errorf("%w: both project and workspace scope set", ErrInvalidArgument)
	case q.ProjectID == "" && q.WorkspaceID == "":
		return fmt.Errorf("%w: one of project or workspace scope required", ErrInvalidArgument)
	}
	return nil
}

// RemoteError is a failed remote call: either the service answered with an
// error payload, or the request never completed.
type RemoteError struct {
	Op       string   // e.g. "GET /workspaces"
	Status   int      // HTTP status, 0 for transport failures
	Messages []string // messages from the errors payload
	Err      error    // underlying transport or decode error
}

func (e *RemoteError) Error() string {
	var b strings.Builder
	b.WriteString(e.Op)
	if e.Status != 0 {
		fmt.Fprintf(&b, " (%d)", e.Status)
	}
	if len(e.Messages) > 0 {
		b.WriteString(": ")
		b.WriteString(strings.Join(e.Messages, "; "))
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *RemoteError) Unwrap() error { return e.Err }
