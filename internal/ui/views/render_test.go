package views

import (
	"strings"
	"testing"

	"github.com/tgienger/kanboard/internal/db"
	"github.com/tgienger/kanboard/internal/models"
	"github.com/tgienger/kanboard/internal/ui/styles"
)

func sampleColumns(t *testing.T) []models.Column {
	t.Helper()
	database, err := db.New()
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	if err := database.Seed(); err != nil {
		t.Fatalf("seed: %v", err)
	}
	cols, err := database.Columns()
	if err != nil {
		t.Fatalf("columns: %v", err)
	}
	return cols
}

func zonesOf(f boardFrame, kind zoneKind) []zone {
	var out []zone
	for _, z := range f.zones {
		if z.kind == kind {
			out = append(out, z)
		}
	}
	return out
}

func center(z zone) (int, int) {
	return z.x + z.w/2, z.y + z.h/2
}

func TestRenderBoardZones(t *testing.T) {
	cols := sampleColumns(t)
	frame := renderBoard(cols, styles.NewStyles(), boardOptions{Width: 120, OriginY: 4})

	columns := zonesOf(frame, zoneColumn)
	tasks := zonesOf(frame, zoneTask)
	adds := zonesOf(frame, zoneAddTask)
	if len(columns) != 3 || len(tasks) != 8 || len(adds) != 3 {
		t.Fatalf("unexpected zone counts: %d columns, %d tasks, %d add buttons", len(columns), len(tasks), len(adds))
	}

	byColumn := map[int64]zone{}
	for _, c := range columns {
		if c.y != 4 {
			t.Fatalf("column zone should start at origin row, got %d", c.y)
		}
		byColumn[c.columnID] = c
	}
	for i := 1; i < len(columns); i++ {
		if columns[i].x <= columns[i-1].x+columns[i-1].w-1 {
			t.Fatalf("columns overlap: %+v %+v", columns[i-1], columns[i])
		}
	}

	lastY := map[int64]int{}
	for _, z := range tasks {
		col := byColumn[z.columnID]
		if !col.contains(z.x, z.y) || !col.contains(z.x+z.w-1, z.y+z.h-1) {
			t.Fatalf("task %d zone %+v escapes column %+v", z.taskID, z, col)
		}
		if prev, ok := lastY[z.columnID]; ok && z.y <= prev {
			t.Fatalf("task zones out of order in column %d", z.columnID)
		}
		lastY[z.columnID] = z.y

		x, y := center(z)
		hit, ok := frame.hit(x, y)
		if !ok || hit.kind != zoneTask || hit.taskID != z.taskID {
			t.Fatalf("hit at task %d center returned %+v", z.taskID, hit)
		}
		if id, ok := frame.columnAt(x, y); !ok || id != z.columnID {
			t.Fatalf("columnAt under task %d = %d", z.taskID, id)
		}
	}

	for _, z := range adds {
		if z.y <= lastY[z.columnID] {
			t.Fatalf("add button should sit below the cards in column %d", z.columnID)
		}
	}

	if _, ok := frame.hit(0, 0); ok {
		t.Fatalf("nothing should be drawn above the origin")
	}
}

func TestRenderBoardHeadersShowCounts(t *testing.T) {
	cols := sampleColumns(t)
	frame := renderBoard(cols, styles.NewStyles(), boardOptions{Width: 120})
	for _, want := range []string{"To Do (3)", "In Progress (2)", "Done (3)", "+ Add Task", "HIGH", "Design Homepage"} {
		if !strings.Contains(frame.view, want) {
			t.Fatalf("board view missing %q", want)
		}
	}
}

func TestRenderBoardEmpty(t *testing.T) {
	frame := renderBoard(nil, styles.NewStyles(), boardOptions{Width: 80})
	if len(frame.zones) != 0 {
		t.Fatalf("expected no zones, got %d", len(frame.zones))
	}
	if !strings.Contains(frame.view, "No columns") {
		t.Fatalf("expected empty board hint, got %q", frame.view)
	}
}

func TestRenderBoardOnlyZonesVisibleColumns(t *testing.T) {
	cols := make([]models.Column, 6)
	for i := range cols {
		cols[i] = models.Column{ID: int64(i + 1), Title: "C"}
	}
	frame := renderBoard(cols, styles.NewStyles(), boardOptions{Width: 60, FocusColumn: 5})
	columns := zonesOf(frame, zoneColumn)
	if len(columns) != 2 {
		t.Fatalf("expected 2 visible columns, got %d", len(columns))
	}
	if columns[1].columnID != 6 {
		t.Fatalf("focused column should be visible, got %+v", columns)
	}
	if !strings.Contains(frame.view, "columns 5-6 of 6") {
		t.Fatalf("missing overflow marker in %q", frame.view)
	}
}

func TestVisibleColumns(t *testing.T) {
	tests := []struct {
		n, focus, width, colW int
		first, last           int
	}{
		{n: 3, focus: 0, width: 120, colW: 39, first: 0, last: 3},
		{n: 10, focus: 9, width: 80, colW: 26, first: 7, last: 10},
		{n: 10, focus: 0, width: 80, colW: 26, first: 0, last: 3},
		{n: 4, focus: 2, width: 0, colW: 26, first: 0, last: 4},
	}
	for _, tt := range tests {
		first, last := visibleColumns(tt.n, tt.focus, tt.width, tt.colW)
		if first != tt.first || last != tt.last {
			t.Fatalf("visibleColumns(%d, %d, %d, %d) = [%d, %d), want [%d, %d)",
				tt.n, tt.focus, tt.width, tt.colW, first, last, tt.first, tt.last)
		}
	}
}

func TestCardWindow(t *testing.T) {
	if first, last := cardWindow(3, 0, 0); first != 0 || last != 3 {
		t.Fatalf("unlimited height should show every card, got [%d, %d)", first, last)
	}
	if first, last := cardWindow(10, 9, 20); first != 7 || last != 10 {
		t.Fatalf("focused card should stay visible, got [%d, %d)", first, last)
	}
	if first, last := cardWindow(10, 0, 1); first != 0 || last != 1 {
		t.Fatalf("tiny height should still show one card, got [%d, %d)", first, last)
	}
}

func TestSearchMatching(t *testing.T) {
	cols := sampleColumns(t)
	if n := countMatches(cols, "project"); n != 2 {
		t.Fatalf("expected 2 matches for project, got %d", n)
	}
	if n := countMatches(cols, ""); n != 0 {
		t.Fatalf("empty term should match nothing, got %d", n)
	}
	task := models.Task{Title: "Write Documentation", Description: "API guides"}
	if !matchesSearch(task, strings.ToLower("API")) {
		t.Fatalf("description match should be case-insensitive")
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("multi\nline   text", 40); got != "multi line text" {
		t.Fatalf("whitespace not flattened: %q", got)
	}
	if got := truncate("Technology Stack Selection", 10); got != "Technolog…" {
		t.Fatalf("unexpected truncation %q", got)
	}
	if got := truncate("abc", 0); got != "" {
		t.Fatalf("zero width should be empty, got %q", got)
	}
}
