// Package stats derives the dashboard numbers and chart series from a board
// snapshot. Everything is recomputed from scratch on each call.
package stats

import (
	"math"

	"github.com/tgienger/kanboard/internal/models"
)

// Column roles are matched by exact title. Renaming "Done" stops completion tracking.
const (
	DoneTitle       = "Done"
	InProgressTitle = "In Progress"
)

// PriorityCounts is the priority histogram across every task
type PriorityCounts struct {
	High   int
	Medium int
	Low    int
}

// Summary holds the aggregate dashboard values
type Summary struct {
	Total          int
	Completed      int
	InProgress     int
	CompletionRate int // percent, 0..100
	Priority       PriorityCounts
}

// Chart is a labelled series handed to a chart widget
type Chart struct {
	Labels []string
	Series []int
}

// Compute derives the summary for columns
func Compute(columns []models.Column) Summary {
	var s Summary
	for _, col := range columns {
		s.Total += len(col.Tasks)
		if col.Title == DoneTitle {
			s.Completed = len(col.Tasks)
		}
		if col.Title == InProgressTitle {
			s.InProgress = len(col.Tasks)
		}
		for _, t := range col.Tasks {
			switch t.Priority {
			case models.PriorityHigh:
				s.Priority.High++
			case models.PriorityMedium:
				s.Priority.Medium++
			case models.PriorityLow:
				s.Priority.Low++
			}
		}
	}
	s.CompletionRate = CompletionRate(s.Completed, s.Total)
	return s
}

// CompletionRate is completed/total as a rounded percentage, 0 when total is 0
func CompletionRate(completed, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(completed) / float64(total) * 100))
}

// Distribution is the per-column task count chart
func Distribution(columns []models.Column) Chart {
	c := Chart{
		Labels: make([]string, len(columns)),
		Series: make([]int, len(columns)),
	}
	for i, col := range columns {
		c.Labels[i] = col.Title
		c.Series[i] = len(col.Tasks)
	}
	return c
}

// PriorityChart is the high/medium/low breakdown chart
func PriorityChart(columns []models.Column) Chart {
	p := Compute(columns).Priority
	return Chart{
		Labels: []string{"High", "Medium", "Low"},
		Series: []int{p.High, p.Medium, p.Low},
	}
}
