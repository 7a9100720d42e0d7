package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"tasksh/internal/service"
)

// columnGap separates columns in a column layout.
const columnGap = 2

// Columns writes names in column-major order, as many columns as fit in
// width. Nothing is written for an empty list.
func Columns(w io.Writer, names []string, width int) {
	if len(names) == 0 {
		return
	}

	colWidth := 0
	for _, name := range names {
		colWidth = max(colWidth, lipgloss.Width(name))
	}
	colWidth += columnGap

	cols := max(width/colWidth, 1)
	rows := (len(names) + cols - 1) / cols

	for r := 0; r < rows; r++ {
		var line strings.Builder
		for c := 0; c < cols; c++ {
			i := c*rows + r
			if i >= len(names) {
				break
			}
			line.WriteString(names[i])
			line.WriteString(strings.Repeat(" ", colWidth-lipgloss.Width(names[i])))
		}
		fmt.Fprintln(w, strings.TrimRight(line.String(), " "))
	}
}

// Workspaces writes workspace names in columns.
func Workspaces(w io.Writer, workspaces []service.Workspace, width int) {
	names := make([]string, len(workspaces))
	for i, ws := range workspaces {
		names[i] = ws.Name
	}
	Columns(w, names, width)
}

// Projects writes project names in columns, led by the aggregate entry.
func Projects(w io.Writer, aggregate string, projects []service.Project, width int) {
	names := make([]string, 0, len(projects)+1)
	names = append(names, aggregate)
	for _, p := range projects {
		names = append(names, p.Name)
	}
	Columns(w, names, width)
}

// Tasks writes one task per line. Completed tasks carry a check mark;
// names ending in ":" are section headings. With grouped set, a status
// heading is written whenever the assignee status of incomplete tasks
// changes.
func Tasks(w io.Writer, t Theme, tasks []service.TaskSummary, grouped bool) {
	var status service.AssigneeStatus
	for _, task := range tasks {
		if task.Completed {
			fmt.Fprintf(w, "%s %s\n", t.Check.Render(" ✓ "), t.DoneName.Render(task.Name))
			continue
		}

		if grouped && task.AssigneeStatus != status {
			status = task.AssigneeStatus
			fmt.Fprintln(w, t.Status.Render(string(status)))
		}

		if strings.HasSuffix(task.Name, ":") {
			fmt.Fprintln(w, t.Section.Render(task.Name))
		} else {
			fmt.Fprintln(w, "    "+task.Name)
		}
	}
}
