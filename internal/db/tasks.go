package db

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/tgienger/kanboard/internal/models"
)

const taskColumns = "id, column_id, title, description, priority"

func scanTask(row interface{ Scan(...any) error }, t *models.Task) error {
	var priority string
	if err := row.Scan(&t.ID, &t.ColumnID, &t.Title, &t.Description, &priority); err != nil {
		return err
	}
	t.Priority = models.Priority(priority)
	return nil
}

func validateTask(title string, priority models.Priority) (string, error) {
	title, err := requireTitle(title)
	if err != nil {
		return "", err
	}
	if !priority.Valid() {
		return "", &ValidationError{Field: "priority"}
	}
	return title, nil
}

// appendPosition is the next free slot at the end of a column
const appendPosition = "(SELECT COALESCE(MAX(position), 0) + 1 FROM tasks WHERE column_id = ?)"

// AddTask appends a new task to the end of a column
func (db *DB) AddTask(columnID int64, title, description string, priority models.Priority) (*models.Task, error) {
	title, err := validateTask(title, priority)
	if err != nil {
		return nil, err
	}
	if _, err := db.GetColumn(columnID); err != nil {
		return nil, fmt.Errorf("column %d: %w", columnID, err)
	}

	result, err := db.Exec(`
		INSERT INTO tasks (column_id, title, description, priority, position)
		VALUES (?, ?, ?, ?, `+appendPosition+`)
	`, columnID, title, strings.TrimSpace(description), string(priority), columnID)
	if err != nil {
		return nil, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}

	return db.GetTask(id)
}

// GetTask retrieves a task by ID from whichever column holds it
func (db *DB) GetTask(id int64) (*models.Task, error) {
	t := &models.Task{}
	err := scanTask(db.QueryRow("SELECT "+taskColumns+" FROM tasks WHERE id = ?", id), t)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

// listTasks returns every task ordered by column position, then task position
func (db *DB) listTasks() ([]models.Task, error) {
	rows, err := db.Query(`
		SELECT t.id, t.column_id, t.title, t.description, t.priority
		FROM tasks t
		JOIN columns c ON c.id = t.column_id
		ORDER BY c.position, t.position
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []models.Task
	for rows.Next() {
		var t models.Task
		if err := scanTask(rows, &t); err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// EditTask updates a task in place and moves it when targetColumnID names a
// different existing column
func (db *DB) EditTask(id int64, title, description string, priority models.Priority, targetColumnID int64) (*models.Task, error) {
	title, err := validateTask(title, priority)
	if err != nil {
		return nil, err
	}

	err = db.withTx(func(tx *sql.Tx) error {
		var current int64
		err := tx.QueryRow("SELECT column_id FROM tasks WHERE id = ?", id).Scan(&current)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("task %d: %w", id, ErrNotFound)
		}
		if err != nil {
			return err
		}

		_, err = tx.Exec(`
			UPDATE tasks SET title = ?, description = ?, priority = ?
			WHERE id = ?
		`, title, strings.TrimSpace(description), string(priority), id)
		if err != nil {
			return err
		}

		if targetColumnID == current {
			return nil
		}
		return moveTx(tx, id, current, targetColumnID)
	})
	if err != nil {
		return nil, err
	}

	return db.GetTask(id)
}

// DeleteTask removes a task from the given column and returns it
func (db *DB) DeleteTask(id, columnID int64) (*models.Task, error) {
	t := &models.Task{}
	err := db.withTx(func(tx *sql.Tx) error {
		err := scanTask(tx.QueryRow("SELECT "+taskColumns+" FROM tasks WHERE id = ? AND column_id = ?", id, columnID), t)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("task %d in column %d: %w", id, columnID, ErrNotFound)
		}
		if err != nil {
			return err
		}
		_, err = tx.Exec("DELETE FROM tasks WHERE id = ?", id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

// MoveTask appends a task to the end of another column. Unknown columns or a
// task missing from the source column leave the board unchanged.
func (db *DB) MoveTask(id, fromColumnID, toColumnID int64) error {
	return db.withTx(func(tx *sql.Tx) error {
		return moveTx(tx, id, fromColumnID, toColumnID)
	})
}

func moveTx(tx *sql.Tx, id, fromColumnID, toColumnID int64) error {
	var found int
	err := tx.QueryRow(`
		SELECT
			(SELECT COUNT(*) FROM columns WHERE id = ?) +
			(SELECT COUNT(*) FROM columns WHERE id = ?) +
			(SELECT COUNT(*) FROM tasks WHERE id = ? AND column_id = ?)
	`, fromColumnID, toColumnID, id, fromColumnID).Scan(&found)
	if err != nil {
		return err
	}
	if found < 3 || fromColumnID == toColumnID {
		return nil
	}

	_, err = tx.Exec(`
		UPDATE tasks SET column_id = ?, position = `+appendPosition+`
		WHERE id = ?
	`, toColumnID, toColumnID, id)
	return err
}
