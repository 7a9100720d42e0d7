package service

import (
	"cmp"
	"slices"
)

// myTaskBuckets is the display order of the "my tasks" view.
var myTaskBuckets = []AssigneeStatus{
	StatusInbox,
	StatusToday,
	StatusUpcoming,
	StatusLater,
}

// SortProjects drops archived projects and orders the rest by ModifiedAt,
// most recent first. Ties keep service order.
func SortProjects(projects []Project) []Project {
	result := make([]Project, 0, len(projects))
	for _, p := range projects {
		if !p.Archived {
			result = append(result, p)
		}
	}
	slices.SortStableFunc(result, func(a, b Project) int {
		return b.ModifiedAt.Compare(a.ModifiedAt)
	})
	return result
}

// SortProjectTasks puts completed tasks first, keeping service order
// within each group.
func SortProjectTasks(tasks []TaskSummary) []TaskSummary {
	result := slices.Clone(tasks)
	slices.SortStableFunc(result, func(a, b TaskSummary) int {
		return cmp.Compare(rank(b.Completed), rank(a.Completed))
	})
	return result
}

// GroupMyTasks concatenates the buckets completed, inbox, today, upcoming,
// later. Incomplete tasks with any other assignee status are dropped.
func GroupMyTasks(tasks []TaskSummary) []TaskSummary {
	byStatus := make(map[AssigneeStatus][]TaskSummary, len(myTaskBuckets))
	var completed []TaskSummary

	for _, t := range tasks {
		if t.Completed {
			completed = append(completed, t)
			continue
		}
		byStatus[t.AssigneeStatus] = append(byStatus[t.AssigneeStatus], t)
	}

	result := make([]TaskSummary, 0, len(tasks))
	result = append(result, completed...)
	for _, status := range myTaskBuckets {
		result = append(result, byStatus[status]...)
	}
	return result
}

func rank(b bool) int {
	if b {
		return 1
	}
	return 0
}
