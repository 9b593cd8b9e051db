// Package board runs one user action end to end: the store mutation, the
// feed entry and the toast text the UI shows afterwards.
package board

import (
	"errors"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/tgienger/kanboard/internal/db"
	"github.com/tgienger/kanboard/internal/dnd"
	"github.com/tgienger/kanboard/internal/feed"
	"github.com/tgienger/kanboard/internal/models"
	"github.com/tgienger/kanboard/internal/prompt"
	"github.com/tgienger/kanboard/internal/stats"
)

// Result describes what an action did, for the toast and for re-rendering
type Result struct {
	Toast   string
	Type    models.NotificationType
	Changed bool
}

// TaskForm is what the task modal submits. TaskID 0 means a new task;
// ColumnID is the column the modal was opened from.
type TaskForm struct {
	TaskID         int64
	ColumnID       int64
	Title          string
	Description    string
	Priority       models.Priority
	TargetColumnID int64
}

// Snapshot is everything the board screen renders
type Snapshot struct {
	Columns       []models.Column
	Notifications []models.Notification
	Summary       stats.Summary
}

// Service owns the board store and the feed
type Service struct {
	db   *db.DB
	feed *feed.Feed
	log  log.FieldLogger
}

// New creates a service. A nil logger logs through the logrus standard logger.
func New(database *db.DB, f *feed.Feed, logger log.FieldLogger) *Service {
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &Service{db: database, feed: f, log: logger}
}

// Snapshot loads the current board, feed and summary
func (s *Service) Snapshot() (Snapshot, error) {
	columns, err := s.db.Columns()
	if err != nil {
		return Snapshot{}, fmt.Errorf("load columns: %w", err)
	}
	notifications, err := s.feed.List()
	if err != nil {
		return Snapshot{}, fmt.Errorf("load notifications: %w", err)
	}
	return Snapshot{
		Columns:       columns,
		Notifications: notifications,
		Summary:       stats.Compute(columns),
	}, nil
}

// notify records a feed entry and turns it into a result
func (s *Service) notify(title, message string, typ models.NotificationType) (Result, error) {
	if _, err := s.feed.Record(title, message, typ); err != nil {
		s.log.WithError(err).WithField("notification", title).Error("record notification")
		return Result{Changed: true}, fmt.Errorf("record notification: %w", err)
	}
	return Result{Toast: message, Type: typ, Changed: true}, nil
}

// SaveColumn adds a column when id is 0, otherwise renames it
func (s *Service) SaveColumn(p prompt.Prompter, id int64, title string) (Result, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		p.Alert("Please enter a column title")
		return Result{}, &db.ValidationError{Field: "title"}
	}

	if id == 0 {
		col, err := s.db.AddColumn(title)
		if err != nil {
			return Result{}, fmt.Errorf("add column: %w", err)
		}
		s.log.WithFields(log.Fields{"action": "add_column", "column_id": col.ID}).Info("column added")
		return s.notify("Column Added", fmt.Sprintf("New column %q added", title), models.NotifyAdd)
	}

	_, err := s.db.GetColumn(id)
	if errors.Is(err, db.ErrNotFound) {
		// stale id; renaming a missing column is a silent no-op
		s.log.WithFields(log.Fields{"action": "rename_column", "column_id": id}).Debug("column not found")
		return Result{}, nil
	}
	if err != nil {
		return Result{}, err
	}
	if err := s.db.RenameColumn(id, title); err != nil {
		return Result{}, fmt.Errorf("rename column: %w", err)
	}
	s.log.WithFields(log.Fields{"action": "rename_column", "column_id": id}).Info("column renamed")
	return s.notify("Column Updated", fmt.Sprintf("Column renamed to %q", title), models.NotifyUpdate)
}

// DeleteColumn removes a column after confirmation, moving its tasks to the
// first remaining column
func (s *Service) DeleteColumn(p prompt.Prompter, id int64) (Result, error) {
	count, err := s.db.ColumnCount()
	if err != nil {
		return Result{}, err
	}
	if count <= 1 {
		p.Alert("You must have at least one column")
		return Result{}, db.ErrLastColumn
	}

	col, err := s.db.GetColumn(id)
	if errors.Is(err, db.ErrNotFound) {
		return Result{}, nil
	}
	if err != nil {
		return Result{}, err
	}
	question := fmt.Sprintf("Are you sure you want to delete the %q column? All tasks in this column will be moved to the first available column.", col.Title)
	if !p.Confirm(question) {
		return Result{}, nil
	}

	moved, dest, err := s.db.DeleteColumn(id)
	if err != nil {
		return Result{}, fmt.Errorf("delete column: %w", err)
	}
	s.log.WithFields(log.Fields{
		"action":    "delete_column",
		"column_id": id,
		"moved":     moved,
		"dest_id":   dest.ID,
	}).Info("column deleted")
	return s.notify("Column Deleted",
		fmt.Sprintf("Column %q was deleted and %d tasks moved to %s", col.Title, moved, dest.Title),
		models.NotifyDelete)
}

// SaveTask adds a task when form.TaskID is 0, otherwise edits it and moves
// it when the target column changed
func (s *Service) SaveTask(p prompt.Prompter, form TaskForm) (Result, error) {
	title := strings.TrimSpace(form.Title)
	if title == "" {
		p.Alert("Please enter a task title")
		return Result{}, &db.ValidationError{Field: "title"}
	}
	description := strings.TrimSpace(form.Description)

	if form.TaskID == 0 {
		col, err := s.db.GetColumn(form.TargetColumnID)
		if errors.Is(err, db.ErrNotFound) {
			return Result{}, nil
		}
		if err != nil {
			return Result{}, err
		}
		task, err := s.db.AddTask(col.ID, title, description, form.Priority)
		if err != nil {
			return Result{}, fmt.Errorf("add task: %w", err)
		}
		s.log.WithFields(log.Fields{"action": "add_task", "task_id": task.ID, "column_id": col.ID}).Info("task added")
		return s.notify("Task Added", fmt.Sprintf("New task %q added to %s", title, col.Title), models.NotifyAdd)
	}

	old, err := s.db.GetTask(form.TaskID)
	if errors.Is(err, db.ErrNotFound) {
		return Result{}, nil
	}
	if err != nil {
		return Result{}, err
	}
	task, err := s.db.EditTask(form.TaskID, title, description, form.Priority, form.TargetColumnID)
	if err != nil {
		return Result{}, fmt.Errorf("edit task: %w", err)
	}
	s.log.WithFields(log.Fields{
		"action":    "edit_task",
		"task_id":   task.ID,
		"column_id": task.ColumnID,
		"moved":     task.ColumnID != old.ColumnID,
	}).Info("task updated")
	return s.notify("Task Updated", fmt.Sprintf("Task %q was updated", old.Title), models.NotifyUpdate)
}

// DeleteTask removes a task from its column after confirmation
func (s *Service) DeleteTask(p prompt.Prompter, taskID, columnID int64) (Result, error) {
	if !p.Confirm("Are you sure you want to delete this task?") {
		return Result{}, nil
	}
	task, err := s.db.DeleteTask(taskID, columnID)
	if errors.Is(err, db.ErrNotFound) {
		return Result{}, nil
	}
	if err != nil {
		return Result{}, fmt.Errorf("delete task: %w", err)
	}
	s.log.WithFields(log.Fields{"action": "delete_task", "task_id": taskID, "column_id": columnID}).Info("task deleted")
	return s.notify("Task Deleted", fmt.Sprintf("Task %q was deleted", task.Title), models.NotifyDelete)
}

// DropTask commits a finished drag gesture
func (s *Service) DropTask(move dnd.Move) (Result, error) {
	task, err := s.db.GetTask(move.TaskID)
	if errors.Is(err, db.ErrNotFound) {
		return Result{}, nil
	}
	if err != nil {
		return Result{}, err
	}
	if task.ColumnID != move.FromColumnID {
		return Result{}, nil
	}
	dest, err := s.db.GetColumn(move.ToColumnID)
	if errors.Is(err, db.ErrNotFound) {
		return Result{}, nil
	}
	if err != nil {
		return Result{}, err
	}

	if err := s.db.MoveTask(move.TaskID, move.FromColumnID, move.ToColumnID); err != nil {
		return Result{}, fmt.Errorf("move task: %w", err)
	}
	s.log.WithFields(log.Fields{
		"action":    "move_task",
		"task_id":   move.TaskID,
		"column_id": move.ToColumnID,
		"from_id":   move.FromColumnID,
	}).Info("task moved")
	return s.notify("Task Moved", fmt.Sprintf("Task %q moved to %s", task.Title, dest.Title), models.NotifyMove)
}

// ClearNotifications empties the feed after confirmation
func (s *Service) ClearNotifications(p prompt.Prompter) (Result, error) {
	cleared, err := s.feed.Clear(p)
	if err != nil {
		return Result{}, fmt.Errorf("clear notifications: %w", err)
	}
	if !cleared {
		return Result{}, nil
	}
	s.log.WithField("action", "clear_notifications").Info("notifications cleared")
	return Result{Toast: "All notifications cleared", Type: models.NotifyInfo, Changed: true}, nil
}
