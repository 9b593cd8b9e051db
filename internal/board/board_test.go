package board

import (
	"errors"
	"strings"
	"testing"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"

	"github.com/tgienger/kanboard/internal/db"
	"github.com/tgienger/kanboard/internal/dnd"
	"github.com/tgienger/kanboard/internal/feed"
	"github.com/tgienger/kanboard/internal/models"
	"github.com/tgienger/kanboard/internal/prompt"
)

func newTestService(t *testing.T) (*Service, *test.Hook) {
	t.Helper()
	database, err := db.New()
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	if err := database.Seed(); err != nil {
		t.Fatalf("seed: %v", err)
	}
	logger, hook := test.NewNullLogger()
	logger.SetLevel(log.DebugLevel)
	clock := func() time.Time { return time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC) }
	return New(database, feed.New(database, clock), logger), hook
}

func snapshot(t *testing.T, s *Service) Snapshot {
	t.Helper()
	snap, err := s.Snapshot()
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	return snap
}

func column(t *testing.T, snap Snapshot, title string) models.Column {
	t.Helper()
	for _, c := range snap.Columns {
		if c.Title == title {
			return c
		}
	}
	t.Fatalf("column %q not found", title)
	return models.Column{}
}

func TestAddTaskScenario(t *testing.T) {
	s, hook := newTestService(t)
	todo := column(t, snapshot(t, s), "To Do")

	res, err := s.SaveTask(prompt.Yes(), TaskForm{
		ColumnID:       todo.ID,
		Title:          "Plan sprint",
		Description:    "pick stories",
		Priority:       models.PriorityHigh,
		TargetColumnID: todo.ID,
	})
	if err != nil {
		t.Fatalf("save task: %v", err)
	}
	if !res.Changed || res.Type != models.NotifyAdd {
		t.Fatalf("unexpected result %+v", res)
	}
	if res.Toast != `New task "Plan sprint" added to To Do` {
		t.Fatalf("unexpected toast %q", res.Toast)
	}

	snap := snapshot(t, s)
	if snap.Summary.Total != 9 {
		t.Fatalf("expected 9 tasks, got %d", snap.Summary.Total)
	}
	if got := len(column(t, snap, "To Do").Tasks); got != 4 {
		t.Fatalf("expected To Do to hold 4, got %d", got)
	}
	if len(snap.Notifications) != 4 || snap.Notifications[0].Type != models.NotifyAdd || snap.Notifications[0].Title != "Task Added" {
		t.Fatalf("add notification not prepended: %+v", snap.Notifications[0])
	}

	entry := hook.LastEntry()
	if entry == nil || entry.Data["action"] != "add_task" {
		t.Fatalf("expected add_task log entry, got %+v", entry)
	}
}

func TestDeleteColumnScenario(t *testing.T) {
	s, hook := newTestService(t)
	before := snapshot(t, s)
	todo := column(t, before, "To Do")
	inProgress := column(t, before, "In Progress")

	p := prompt.Yes()
	res, err := s.DeleteColumn(p, inProgress.ID)
	if err != nil {
		t.Fatalf("delete column: %v", err)
	}
	if len(p.Questions) != 1 || !strings.Contains(p.Questions[0], `"In Progress"`) {
		t.Fatalf("expected confirmation naming the column, got %v", p.Questions)
	}
	if res.Type != models.NotifyDelete {
		t.Fatalf("unexpected result %+v", res)
	}

	snap := snapshot(t, s)
	if len(snap.Columns) != 2 {
		t.Fatalf("expected 2 columns, got %d", len(snap.Columns))
	}
	got := column(t, snap, "To Do").Tasks
	want := append(append([]models.Task{}, todo.Tasks...), inProgress.Tasks...)
	if len(got) != len(want) {
		t.Fatalf("To Do has %d tasks, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].ID != want[i].ID {
			t.Fatalf("task order %d: got %d want %d", i, got[i].ID, want[i].ID)
		}
	}
	top := snap.Notifications[0]
	if top.Type != models.NotifyDelete || top.Message != `Column "In Progress" was deleted and 2 tasks moved to To Do` {
		t.Fatalf("unexpected notification %+v", top)
	}

	var found bool
	for _, e := range hook.AllEntries() {
		if e.Data["action"] == "delete_column" && e.Data["moved"] == 2 {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected delete_column log entry with moved=2")
	}
}

func TestDeclinedActionsLeaveStateUntouched(t *testing.T) {
	s, _ := newTestService(t)
	before := snapshot(t, s)
	todo := column(t, before, "To Do")

	if res, err := s.DeleteColumn(prompt.No(), todo.ID); err != nil || res.Changed {
		t.Fatalf("declined column delete: %+v %v", res, err)
	}
	if res, err := s.DeleteTask(prompt.No(), todo.Tasks[0].ID, todo.ID); err != nil || res.Changed {
		t.Fatalf("declined task delete: %+v %v", res, err)
	}
	if res, err := s.ClearNotifications(prompt.No()); err != nil || res.Changed {
		t.Fatalf("declined clear: %+v %v", res, err)
	}

	after := snapshot(t, s)
	if len(after.Columns) != 3 || after.Summary.Total != 8 || len(after.Notifications) != 3 {
		t.Fatalf("state changed: %d columns, %d tasks, %d notifications",
			len(after.Columns), after.Summary.Total, len(after.Notifications))
	}
}

func TestLastColumnGuardAlerts(t *testing.T) {
	s, _ := newTestService(t)
	snap := snapshot(t, s)
	yes := prompt.Yes()
	for _, c := range snap.Columns[1:] {
		if _, err := s.DeleteColumn(yes, c.ID); err != nil {
			t.Fatalf("delete %q: %v", c.Title, err)
		}
	}

	p := prompt.Yes()
	_, err := s.DeleteColumn(p, snap.Columns[0].ID)
	if !errors.Is(err, db.ErrLastColumn) {
		t.Fatalf("expected ErrLastColumn, got %v", err)
	}
	if len(p.Alerts) != 1 || p.Alerts[0] != "You must have at least one column" {
		t.Fatalf("expected alert, got %v", p.Alerts)
	}
	if len(p.Questions) != 0 {
		t.Fatalf("should not ask for confirmation: %v", p.Questions)
	}
	if after := snapshot(t, s); len(after.Columns) != 1 || after.Summary.Total != 8 {
		t.Fatalf("board changed: %+v", after.Summary)
	}
}

func TestValidationAlerts(t *testing.T) {
	s, _ := newTestService(t)
	todo := column(t, snapshot(t, s), "To Do")

	p := prompt.Yes()
	_, err := s.SaveTask(p, TaskForm{ColumnID: todo.ID, TargetColumnID: todo.ID, Title: "  ", Priority: models.PriorityLow})
	var verr *db.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	_, err = s.SaveColumn(p, 0, "")
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	want := []string{"Please enter a task title", "Please enter a column title"}
	if len(p.Alerts) != 2 || p.Alerts[0] != want[0] || p.Alerts[1] != want[1] {
		t.Fatalf("alerts = %v, want %v", p.Alerts, want)
	}
	if snap := snapshot(t, s); len(snap.Notifications) != 3 || len(snap.Columns) != 3 {
		t.Fatalf("validation failure changed state")
	}
}

func TestEditTaskMovesAndNotifiesWithOldTitle(t *testing.T) {
	s, _ := newTestService(t)
	snap := snapshot(t, s)
	todo := column(t, snap, "To Do")
	done := column(t, snap, "Done")
	task := todo.Tasks[0]

	res, err := s.SaveTask(prompt.Yes(), TaskForm{
		TaskID:         task.ID,
		ColumnID:       todo.ID,
		Title:          "Homepage v2",
		Description:    task.Description,
		Priority:       models.PriorityMedium,
		TargetColumnID: done.ID,
	})
	if err != nil {
		t.Fatalf("edit: %v", err)
	}
	if res.Toast != `Task "Design Homepage" was updated` || res.Type != models.NotifyUpdate {
		t.Fatalf("unexpected result %+v", res)
	}
	after := snapshot(t, s)
	doneTasks := column(t, after, "Done").Tasks
	last := doneTasks[len(doneTasks)-1]
	if last.ID != task.ID || last.Title != "Homepage v2" || last.Priority != models.PriorityMedium {
		t.Fatalf("edited task not moved: %+v", last)
	}
	if after.Summary.Completed != 4 {
		t.Fatalf("expected 4 completed, got %d", after.Summary.Completed)
	}
}

func TestRenameColumn(t *testing.T) {
	s, _ := newTestService(t)
	done := column(t, snapshot(t, s), "Done")

	res, err := s.SaveColumn(prompt.Yes(), done.ID, "Shipped")
	if err != nil {
		t.Fatalf("rename: %v", err)
	}
	if res.Toast != `Column renamed to "Shipped"` {
		t.Fatalf("unexpected toast %q", res.Toast)
	}
	if snap := snapshot(t, s); snap.Summary.Completed != 0 {
		t.Fatalf("completion is tracked by title, got %d", snap.Summary.Completed)
	}

	res, err = s.SaveColumn(prompt.Yes(), 999, "Ghost")
	if err != nil || res.Changed {
		t.Fatalf("renaming a missing column should be a silent no-op: %+v %v", res, err)
	}
}

func TestDropTask(t *testing.T) {
	s, _ := newTestService(t)
	snap := snapshot(t, s)
	todo := column(t, snap, "To Do")
	inProgress := column(t, snap, "In Progress")
	task := todo.Tasks[2]

	var c dnd.Controller
	c.Start(task.ID, todo.ID)
	c.Over(inProgress.ID)
	move, ok := c.Drop(inProgress.ID)
	if !ok {
		t.Fatalf("expected move")
	}
	res, err := s.DropTask(move)
	if err != nil {
		t.Fatalf("drop: %v", err)
	}
	if res.Toast != `Task "Setup Project Repository" moved to In Progress` || res.Type != models.NotifyMove {
		t.Fatalf("unexpected result %+v", res)
	}
	after := snapshot(t, s)
	if after.Summary.InProgress != 3 || len(column(t, after, "To Do").Tasks) != 2 {
		t.Fatalf("move not applied: %+v", after.Summary)
	}

	// replaying a stale move does nothing
	res, err = s.DropTask(move)
	if err != nil || res.Changed {
		t.Fatalf("stale move: %+v %v", res, err)
	}
}

func TestClearNotifications(t *testing.T) {
	s, _ := newTestService(t)
	res, err := s.ClearNotifications(prompt.Yes())
	if err != nil {
		t.Fatalf("clear: %v", err)
	}
	if res.Toast != "All notifications cleared" {
		t.Fatalf("unexpected toast %q", res.Toast)
	}
	if snap := snapshot(t, s); len(snap.Notifications) != 0 {
		t.Fatalf("feed not empty: %d", len(snap.Notifications))
	}
}

func TestDeleteColumnMissingIsNoOp(t *testing.T) {
	s, _ := newTestService(t)

	p := prompt.Yes()
	res, err := s.DeleteColumn(p, 999)
	if err != nil || res.Changed {
		t.Fatalf("missing column: %+v %v", res, err)
	}
	if len(p.Questions) != 0 {
		t.Fatalf("nothing to confirm for a missing column, got %v", p.Questions)
	}
}

func TestColumnLookupErrorsAreReturned(t *testing.T) {
	s, _ := newTestService(t)
	todo := column(t, snapshot(t, s), "To Do")

	// break the column lookup without touching the column count
	if _, err := s.db.Exec("ALTER TABLE columns RENAME COLUMN title TO name"); err != nil {
		t.Fatalf("alter: %v", err)
	}

	p := prompt.Yes()
	res, err := s.DeleteColumn(p, todo.ID)
	if err == nil || errors.Is(err, db.ErrNotFound) {
		t.Fatalf("expected the lookup error, got %v", err)
	}
	if res.Changed || len(p.Questions) != 0 {
		t.Fatalf("nothing should happen: %+v %v", res, p.Questions)
	}

	if _, err := s.SaveColumn(p, todo.ID, "Backlog"); err == nil {
		t.Fatalf("rename should report the lookup error")
	}
}

func TestFeedFailureKeepsMutationAndReportsIt(t *testing.T) {
	s, hook := newTestService(t)
	todo := column(t, snapshot(t, s), "To Do")

	if _, err := s.db.Exec("DROP TABLE notifications"); err != nil {
		t.Fatalf("drop: %v", err)
	}

	res, err := s.SaveTask(prompt.Yes(), TaskForm{
		ColumnID:       todo.ID,
		TargetColumnID: todo.ID,
		Title:          "Audit logs",
		Priority:       models.PriorityLow,
	})
	if err == nil || !strings.Contains(err.Error(), "record notification") {
		t.Fatalf("expected the feed error, got %v", err)
	}
	if !res.Changed || res.Toast != "" {
		t.Fatalf("the board changed and must be reloaded: %+v", res)
	}

	cols, err := s.db.Columns()
	if err != nil {
		t.Fatalf("columns: %v", err)
	}
	var found bool
	for _, c := range cols {
		for _, task := range c.Tasks {
			if task.Title == "Audit logs" {
				found = true
			}
		}
	}
	if !found {
		t.Fatalf("the task insert committed before the feed write")
	}
	if e := hook.LastEntry(); e == nil || e.Level != log.ErrorLevel {
		t.Fatalf("feed failure should be logged at error level")
	}
}
