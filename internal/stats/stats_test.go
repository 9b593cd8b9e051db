package stats

import (
	"testing"

	"github.com/tgienger/kanboard/internal/models"
)

func tasks(priorities ...models.Priority) []models.Task {
	out := make([]models.Task, len(priorities))
	for i, p := range priorities {
		out[i] = models.Task{ID: int64(i + 1), Title: "t", Priority: p}
	}
	return out
}

func sampleColumns() []models.Column {
	h, m, l := models.PriorityHigh, models.PriorityMedium, models.PriorityLow
	return []models.Column{
		{ID: 1, Title: "To Do", Tasks: tasks(h, m, l)},
		{ID: 2, Title: "In Progress", Tasks: tasks(h, m)},
		{ID: 3, Title: "Done", Tasks: tasks(h, m, l)},
	}
}

func TestComputeSampleBoard(t *testing.T) {
	s := Compute(sampleColumns())
	if s.Total != 8 || s.Completed != 3 || s.InProgress != 2 {
		t.Fatalf("unexpected summary %+v", s)
	}
	if s.CompletionRate != 38 {
		t.Fatalf("expected 38%%, got %d", s.CompletionRate)
	}
	if s.Priority != (PriorityCounts{High: 3, Medium: 3, Low: 2}) {
		t.Fatalf("unexpected priorities %+v", s.Priority)
	}
}

func TestComputeMatchesRoleByTitle(t *testing.T) {
	cols := sampleColumns()
	cols[2].Title = "Finished"
	s := Compute(cols)
	if s.Completed != 0 || s.CompletionRate != 0 {
		t.Fatalf("renamed Done column should stop completion tracking: %+v", s)
	}
}

func TestCompletionRateBounds(t *testing.T) {
	tests := []struct {
		completed, total, want int
	}{
		{0, 0, 0},
		{0, 5, 0},
		{5, 5, 100},
		{1, 3, 33},
		{2, 3, 67},
		{1, 8, 13},
	}
	for _, tt := range tests {
		got := CompletionRate(tt.completed, tt.total)
		if got != tt.want {
			t.Errorf("CompletionRate(%d, %d) = %d, want %d", tt.completed, tt.total, got, tt.want)
		}
		if got < 0 || got > 100 {
			t.Errorf("rate %d out of bounds", got)
		}
	}
}

func TestEmptyBoard(t *testing.T) {
	s := Compute([]models.Column{{ID: 1, Title: "Done"}})
	if s.Total != 0 || s.CompletionRate != 0 {
		t.Fatalf("unexpected summary %+v", s)
	}
}

func TestCharts(t *testing.T) {
	cols := sampleColumns()
	dist := Distribution(cols)
	wantLabels := []string{"To Do", "In Progress", "Done"}
	wantSeries := []int{3, 2, 3}
	for i := range wantLabels {
		if dist.Labels[i] != wantLabels[i] || dist.Series[i] != wantSeries[i] {
			t.Fatalf("distribution = %+v", dist)
		}
	}

	pc := PriorityChart(cols)
	if len(pc.Labels) != 3 || pc.Labels[0] != "High" || pc.Series[0] != 3 || pc.Series[1] != 3 || pc.Series[2] != 2 {
		t.Fatalf("priority chart = %+v", pc)
	}
}
