// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"tasksh/internal/service"
)

// ErrNotFound is returned when a resource is not found.
var ErrNotFound = errors.New("not found")

// FakeService is an in-memory implementation of service.Service for testing.
// Listings are returned in the order they were added; tests seed them in
// the order the real client would produce.
type FakeService struct {
	mu         sync.RWMutex
	workspaces []service.Workspace
	projects   map[string][]service.Project     // workspaceID -> projects
	tasks      map[string][]service.TaskSummary // projectID -> tasks
	myTasks    map[string][]service.TaskSummary // workspaceID -> tasks
	details    map[string]service.Task          // taskID -> detail
	calls      int
	nextStory  int

	// Error injection for testing
	ListWorkspacesErr   error
	ListProjectsErr     error
	ListTasksErr        error
	GetTaskErr          error
	SetTaskCompletedErr error
	AddCommentErr       error
}

// NewFakeService creates an empty FakeService.
func NewFakeService() *FakeService {
	return &FakeService{
		projects: make(map[string][]service.Project),
		tasks:    make(map[string][]service.TaskSummary),
		myTasks:  make(map[string][]service.TaskSummary),
		details:  make(map[string]service.Task),
	}
}

// AddWorkspace adds a workspace.
func (f *FakeService) AddWorkspace(id, name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.workspaces = append(f.workspaces, service.Workspace{ID: id, Name: name})
}

// AddProject adds a project to a workspace.
func (f *FakeService) AddProject(workspaceID, id, name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.projects[workspaceID] = append(f.projects[workspaceID], service.Project{
		ID:         id,
		Name:       name,
		ModifiedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	})
}

// AddTask adds an incomplete task to a project and registers its detail.
func (f *FakeService) AddTask(projectID, id, name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	summary := service.TaskSummary{ID: id, Name: name}
	f.tasks[projectID] = append(f.tasks[projectID], summary)
	if _, ok := f.details[id]; !ok {
		f.details[id] = service.Task{TaskSummary: summary}
	}
}

// AddMyTask adds a task to the current user's view of a workspace.
func (f *FakeService) AddMyTask(workspaceID, id, name string, status service.AssigneeStatus) {
	f.mu.Lock()
	defer f.mu.Unlock()
	summary := service.TaskSummary{ID: id, Name: name, AssigneeStatus: status}
	f.myTasks[workspaceID] = append(f.myTasks[workspaceID], summary)
	if _, ok := f.details[id]; !ok {
		f.details[id] = service.Task{TaskSummary: summary}
	}
}

// SetDetail replaces the detail returned by GetTask.
func (f *FakeService) SetDetail(task service.Task) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.details[task.ID] = task
}

// Detail returns the stored detail of a task.
func (f *FakeService) Detail(id string) service.Task {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.details[id]
}

// Calls returns the number of Service calls made so far.
func (f *FakeService) Calls() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.calls
}

func (f *FakeService) record() {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
}

// ListWorkspaces implements service.Service.
func (f *FakeService) ListWorkspaces(ctx context.Context) ([]service.Workspace, error) {
	f.record()
	if f.ListWorkspacesErr != nil {
		return nil, f.ListWorkspacesErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	return slices.Clone(f.workspaces), nil
}

// ListProjects implements service.Service.
func (f *FakeService) ListProjects(ctx context.Context, workspaceID string) ([]service.Project, error) {
	f.record()
	if f.ListProjectsErr != nil {
		return nil, f.ListProjectsErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	return slices.Clone(f.projects[workspaceID]), nil
}

// ListTasks implements service.Service.
func (f *FakeService) ListTasks(ctx context.Context, q service.TaskQuery) ([]service.TaskSummary, error) {
	f.record()
	if err := q.Validate(); err != nil {
		return nil, err
	}
	if f.ListTasksErr != nil {
		return nil, f.ListTasksErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	if q.ProjectID != "" {
		return slices.Clone(f.tasks[q.ProjectID]), nil
	}
	return slices.Clone(f.myTasks[q.WorkspaceID]), nil
}

// GetTask implements service.Service.
func (f *FakeService) GetTask(ctx context.Context, taskID string) (service.Task, error) {
	f.record()
	if f.GetTaskErr != nil {
		return service.Task{}, f.GetTaskErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	task, ok := f.details[taskID]
	if !ok {
		return service.Task{}, ErrNotFound
	}
	task.Followers = slices.Clone(task.Followers)
	task.Stories = slices.Clone(task.Stories)
	return task, nil
}

// SetTaskCompleted implements service.Service.
// Like the real service, the response carries no stories or followers.
func (f *FakeService) SetTaskCompleted(ctx context.Context, taskID string, completed bool) (service.Task, error) {
	f.record()
	if f.SetTaskCompletedErr != nil {
		return service.Task{}, f.SetTaskCompletedErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	task, ok := f.details[taskID]
	if !ok {
		return service.Task{}, ErrNotFound
	}
	task.Completed = completed
	f.details[taskID] = task

	return service.Task{
		TaskSummary: task.TaskSummary,
		Assignee:    task.Assignee,
		Notes:       task.Notes,
		DueOn:       task.DueOn,
	}, nil
}

// AddComment implements service.Service.
func (f *FakeService) AddComment(ctx context.Context, taskID, text string) (service.Story, error) {
	f.record()
	if f.AddCommentErr != nil {
		return service.Story{}, f.AddCommentErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	task, ok := f.details[taskID]
	if !ok {
		return service.Story{}, ErrNotFound
	}
	f.nextStory++
	story := service.Story{
		ID:        fmt.Sprintf("story-%d", f.nextStory),
		Type:      service.StoryComment,
		CreatedBy: service.Person{Name: "me"},
		CreatedAt: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		Text:      text,
	}
	task.Stories = append(task.Stories, story)
	f.details[taskID] = task
	return story, nil
}
