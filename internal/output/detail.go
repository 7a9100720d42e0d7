package output

import (
	"strings"
	"time"

	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"

	"tasksh/internal/service"
)

const (
	// maxBodyWidth caps the width comment and note bodies wrap to.
	maxBodyWidth = 100

	bodyIndent = 4

	timestampLayout = "2006-01-02 15:04"
)

// TaskDetail renders a task with its fields, stories and followers. The
// result has no trailing newline.
func TaskDetail(t Theme, task service.Task, width int) string {
	var lines []string
	add := func(s ...string) { lines = append(lines, s...) }

	add(t.Title.Render(task.Name))
	if task.Completed {
		add(t.Check.Render("completed"))
	}

	assignee := "none"
	if task.Assignee != nil {
		assignee = task.Assignee.Name
	}
	add(t.Label.Render("assignee:") + " " + assignee)

	if task.DueOn != "" {
		add(t.Label.Render("due on:") + " " + task.DueOn)
	}

	if strings.TrimSpace(task.Notes) != "" {
		add(t.Label.Render("notes:"))
		add(wrapBody(task.Notes, width))
	}

	if len(task.Stories) > 0 {
		add(t.Label.Render("comments:"))
		for _, s := range task.Stories {
			add(renderStory(t, s, width)...)
		}
	}

	if len(task.Followers) > 0 {
		names := make([]string, len(task.Followers))
		for i, f := range task.Followers {
			names[i] = f.Name
		}
		add(t.Label.Render("followers:") + " " + strings.Join(names, ", "))
	}

	return strings.Join(lines, "\n")
}

func renderStory(t Theme, s service.Story, width int) []string {
	header := joinNonEmpty(s.CreatedBy.Name, formatTime(s.CreatedAt))

	switch s.Type {
	case service.StoryComment:
		return []string{t.Comment.Render(header), wrapBody(s.Text, width)}
	case service.StorySystem:
		return []string{t.System.Render(joinNonEmpty(s.CreatedBy.Name, s.Text, formatTime(s.CreatedAt)))}
	default:
		return []string{t.Dim.Render(joinNonEmpty(s.CreatedBy.Name, s.Text, formatTime(s.CreatedAt)))}
	}
}

// wrapBody word-wraps text to the terminal width, capped at maxBodyWidth,
// and indents every line.
func wrapBody(text string, width int) string {
	limit := min(width, maxBodyWidth) - bodyIndent
	if limit < 20 {
		limit = 20
	}
	text = strings.TrimRight(text, "\n")
	return indent.String(wordwrap.String(text, limit), bodyIndent)
}

func formatTime(ts time.Time) string {
	if ts.IsZero() {
		return ""
	}
	return ts.Format(timestampLayout)
}

func joinNonEmpty(parts ...string) string {
	var kept []string
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, " ")
}
