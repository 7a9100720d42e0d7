// Package service defines the backend-agnostic interface for task operations.
package service

import "time"

// AssigneeStatus is the scheduling bucket of a task in the current user's
// "my tasks" view. Only meaningful for workspace-scoped listings.
type AssigneeStatus string

const (
	StatusInbox    AssigneeStatus = "inbox"
	StatusToday    AssigneeStatus = "today"
	StatusUpcoming AssigneeStatus = "upcoming"
	StatusLater    AssigneeStatus = "later"
)

// StoryType distinguishes user comments from events synthesized by the service.
type StoryType string

const (
	StorySystem  StoryType = "system"
	StoryComment StoryType = "comment"
)

// Workspace is a top-level container.
type Workspace struct {
	ID   string
	Name string
}

// Project is a named collection of tasks within a workspace.
type Project struct {
	ID         string
	Name       string
	Archived   bool
	ModifiedAt time.Time
}

// TaskSummary is a task as it appears in a listing.
type TaskSummary struct {
	ID             string
	Name           string
	Completed      bool
	AssigneeStatus AssigneeStatus
}

// Person is a user referenced by a task or story.
type Person struct {
	Name string
}

// Story is a comment or system event in a task's activity log.
type Story struct {
	ID        string
	Type      StoryType
	CreatedBy Person
	CreatedAt time.Time
	Text      string
}

// Task is the full detail of a single task.
type Task struct {
	TaskSummary
	Assignee  *Person // nil if unassigned
	Notes     string
	DueOn     string // YYYY-MM-DD, empty if unset
	Followers []Person
	Stories   []Story
}

// TaskQuery scopes a task listing. Exactly one of ProjectID and WorkspaceID
// must be set; WorkspaceID selects the tasks assigned to the current user.
type TaskQuery struct {
	ProjectID   string
	WorkspaceID string
}
