// Package asana implements the service.Service interface using the Asana REST API.
package asana

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"tasksh/internal/config"
	"tasksh/internal/service"
)

const (
	projectFields = "name,archived,modified_at"
	taskFields    = "name,completed,assignee_status"
	detailFields  = "name,completed,assignee_status,assignee.name,notes,due_on,followers.name"
	storyFields   = "type,created_by.name,created_at,text"
)

// Client implements service.Service against the Asana API.
type Client struct {
	http    *http.Client
	baseURL string
	timeout time.Duration
	log     *slog.Logger
}

// New creates a client authenticating every request with the API key
// as a bearer token.
func New(ctx context.Context, cfg *config.Config, apiKey string, log *slog.Logger) *Client {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: apiKey})
	c := NewWithHTTPClient(cfg.APIURL, oauth2.NewClient(ctx, ts), log)
	c.timeout = cfg.RequestTimeout
	return c
}

// NewWithHTTPClient creates a client with a custom HTTP client (for testing).
func NewWithHTTPClient(baseURL string, httpClient *http.Client, log *slog.Logger) *Client {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Client{
		http:    httpClient,
		baseURL: strings.TrimRight(baseURL, "/"),
		log:     log,
	}
}

type workspaceJSON struct {
	GID  string `json:"gid"`
	Name string `json:"name"`
}

type projectJSON struct {
	GID        string    `json:"gid"`
	Name       string    `json:"name"`
	Archived   bool      `json:"archived"`
	ModifiedAt time.Time `json:"modified_at"`
}

type personJSON struct {
	Name string `json:"name"`
}

type taskJSON struct {
	GID            string       `json:"gid"`
	Name           string       `json:"name"`
	Completed      bool         `json:"completed"`
	AssigneeStatus string       `json:"assignee_status"`
	Assignee       *personJSON  `json:"assignee"`
	Notes          string       `json:"notes"`
	DueOn          string       `json:"due_on"`
	Followers      []personJSON `json:"followers"`
}

type storyJSON struct {
	GID       string     `json:"gid"`
	Type      string     `json:"type"`
	CreatedBy personJSON `json:"created_by"`
	CreatedAt time.Time  `json:"created_at"`
	Text      string     `json:"text"`
}

// ListWorkspaces returns all workspaces in API order.
func (c *Client) ListWorkspaces(ctx context.Context) ([]service.Workspace, error) {
	var data []workspaceJSON
	if err := c.do(ctx, http.MethodGet, "/workspaces", nil, nil, &data); err != nil {
		return nil, err
	}

	result := make([]service.Workspace, 0, len(data))
	for _, w := range data {
		result = append(result, service.Workspace{ID: w.GID, Name: w.Name})
	}
	return result, nil
}

// ListProjects returns non-archived projects, most recently modified first.
func (c *Client) ListProjects(ctx context.Context, workspaceID string) ([]service.Project, error) {
	q := url.Values{}
	q.Set("archived", "false")
	q.Set("opt_fields", projectFields)

	var data []projectJSON
	path := "/workspaces/" + url.PathEscape(workspaceID) + "/projects"
	if err := c.do(ctx, http.MethodGet, path, q, nil, &data); err != nil {
		return nil, err
	}

	projects := make([]service.Project, 0, len(data))
	for _, p := range data {
		projects = append(projects, service.Project{
			ID:         p.GID,
			Name:       p.Name,
			Archived:   p.Archived,
			ModifiedAt: p.ModifiedAt,
		})
	}
	return service.SortProjects(projects), nil
}

// ListTasks returns the tasks of a project, or the current user's tasks in a workspace.
func (c *Client) ListTasks(ctx context.Context, tq service.TaskQuery) ([]service.TaskSummary, error) {
	if err := tq.Validate(); err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("opt_fields", taskFields)

	var path string
	if tq.ProjectID != "" {
		path = "/projects/" + url.PathEscape(tq.ProjectID) + "/tasks"
	} else {
		path = "/tasks"
		q.Set("assignee", "me")
		q.Set("workspace", tq.WorkspaceID)
	}

	var data []taskJSON
	if err := c.do(ctx, http.MethodGet, path, q, nil, &data); err != nil {
		return nil, err
	}

	tasks := make([]service.TaskSummary, 0, len(data))
	for _, t := range data {
		tasks = append(tasks, t.summary())
	}

	if tq.ProjectID != "" {
		return service.SortProjectTasks(tasks), nil
	}

	grouped := service.GroupMyTasks(tasks)
	if dropped := len(tasks) - len(grouped); dropped > 0 {
		c.log.Debug("dropped tasks with unknown assignee status",
			"workspace", tq.WorkspaceID, "count", dropped)
	}
	return grouped, nil
}

// GetTask fetches a task and its stories and merges them into one record.
func (c *Client) GetTask(ctx context.Context, taskID string) (service.Task, error) {
	q := url.Values{}
	q.Set("opt_fields", detailFields)

	var data taskJSON
	path := "/tasks/" + url.PathEscape(taskID)
	if err := c.do(ctx, http.MethodGet, path, q, nil, &data); err != nil {
		return service.Task{}, err
	}

	sq := url.Values{}
	sq.Set("opt_fields", storyFields)

	var stories []storyJSON
	if err := c.do(ctx, http.MethodGet, path+"/stories", sq, nil, &stories); err != nil {
		return service.Task{}, err
	}

	task := data.detail()
	task.Stories = make([]service.Story, 0, len(stories))
	for _, s := range stories {
		task.Stories = append(task.Stories, s.story())
	}
	return task, nil
}

// SetTaskCompleted updates the completion flag and returns the echoed fields.
func (c *Client) SetTaskCompleted(ctx context.Context, taskID string, completed bool) (service.Task, error) {
	q := url.Values{}
	q.Set("opt_fields", detailFields)

	body := map[string]any{"completed": completed}

	var data taskJSON
	path := "/tasks/" + url.PathEscape(taskID)
	if err := c.do(ctx, http.MethodPut, path, q, body, &data); err != nil {
		return service.Task{}, err
	}

	return data.detail(), nil
}

// AddComment creates a comment story on a task.
func (c *Client) AddComment(ctx context.Context, taskID, text string) (service.Story, error) {
	q := url.Values{}
	q.Set("opt_fields", storyFields)

	body := map[string]any{"text": text}

	var data storyJSON
	path := "/tasks/" + url.PathEscape(taskID) + "/stories"
	if err := c.do(ctx, http.MethodPost, path, q, body, &data); err != nil {
		return service.Story{}, err
	}
	return data.story(), nil
}

// envelope is the response wrapper used by every endpoint.
type envelope struct {
	Data   json.RawMessage `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// do performs one request and decodes the data payload into out.
// An errors payload, a non-2xx status or a transport failure yields a
// *service.RemoteError. No retries.
func (c *Client) do(ctx context.Context, method, path string, q url.Values, body any, out any) error {
	op := method + " " + path

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	u := c.baseURL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		payload, err := json.Marshal(map[string]any{"data": body})
		if err != nil {
			return &service.RemoteError{Op: op, Err: err}
		}
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return &service.RemoteError{Op: op, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debug("request failed", "op", op, "err", err)
		return &service.RemoteError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	c.log.Debug("request", "op", op, "status", resp.StatusCode, "duration", time.Since(start))

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return &service.RemoteError{Op: op, Status: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}

	if len(env.Errors) > 0 {
		msgs := make([]string, 0, len(env.Errors))
		for _, e := range env.Errors {
			msgs = append(msgs, e.Message)
		}
		return &service.RemoteError{Op: op, Status: resp.StatusCode, Messages: msgs}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &service.RemoteError{Op: op, Status: resp.StatusCode, Err: fmt.Errorf("unexpected status %s", resp.Status)}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return &service.RemoteError{Op: op, Status: resp.StatusCode, Err: fmt.Errorf("decode data: %w", err)}
	}
	return nil
}

func (t taskJSON) summary() service.TaskSummary {
	return service.TaskSummary{
		ID:             t.GID,
		Name:           t.Name,
		Completed:      t.Completed,
		AssigneeStatus: service.AssigneeStatus(t.AssigneeStatus),
	}
}

func (t taskJSON) detail() service.Task {
	task := service.Task{
		TaskSummary: t.summary(),
		Notes:       t.Notes,
		DueOn:       t.DueOn,
	}
	if t.Assignee != nil {
		task.Assignee = &service.Person{Name: t.Assignee.Name}
	}
	for _, f := range t.Followers {
		task.Followers = append(task.Followers, service.Person{Name: f.Name})
	}
	return task
}

func (s storyJSON) story() service.Story {
	return service.Story{
		ID:        s.GID,
		Type:      service.StoryType(s.Type),
		CreatedBy: service.Person{Name: s.CreatedBy.Name},
		CreatedAt: s.CreatedAt,
		Text:      s.Text,
	}
}
