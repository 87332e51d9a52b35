package view

import (
	"sort"
	"strings"

	"github.com/HannanShehzad/TaskManager/internal/models"
)

// SortColumn names a sortable table column.
type SortColumn string

const (
	SortByTitle     SortColumn = "title"
	SortByDueDate   SortColumn = "due_date"
	SortByStatus    SortColumn = "status"
	SortByCreatedAt SortColumn = "created_at"
)

// Query is the table view's filter and sort state. It operates purely over
// the in-memory cache snapshot and never triggers network calls.
type Query struct {
	Status string     // exact match against the status enum; empty = all
	Text   string     // case-insensitive substring over title/description
	SortBy SortColumn // empty = snapshot order
	Desc   bool
}

// Apply filters and sorts a snapshot. The input slice is not modified.
func Apply(tasks []models.Task, q Query) []models.Task {
	out := make([]models.Task, 0, len(tasks))

	needle := strings.ToLower(q.Text)
	for _, t := range tasks {
		if q.Status != "" && t.Status != q.Status {
			continue
		}
		if needle != "" &&
			!strings.Contains(strings.ToLower(t.Title), needle) &&
			!strings.Contains(strings.ToLower(t.Description), needle) {
			continue
		}
		out = append(out, t)
	}

	if q.SortBy != "" {
		sort.SliceStable(out, func(i, j int) bool {
			less := lessBy(q.SortBy, out[i], out[j])
			if q.Desc {
				return lessBy(q.SortBy, out[j], out[i])
			}
			return less
		})
	}
	return out
}

func lessBy(col SortColumn, a, b models.Task) bool {
	switch col {
	case SortByTitle:
		return strings.ToLower(a.Title) < strings.ToLower(b.Title)
	case SortByDueDate:
		return a.DueDate.Before(b.DueDate)
	case SortByStatus:
		return statusRank(a.Status) < statusRank(b.Status)
	case SortByCreatedAt:
		return a.CreatedAt.Before(b.CreatedAt)
	default:
		return false
	}
}

// statusRank orders statuses by lifecycle position rather than
// alphabetically.
func statusRank(status string) int {
	for i, s := range models.Statuses {
		if s == status {
			return i
		}
	}
	return len(models.Statuses)
}
