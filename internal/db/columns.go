package db

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/tgienger/kanboard/internal/models"
)

// AddColumn appends a new empty column to the end of the board
func (db *DB) AddColumn(title string) (*models.Column, error) {
	title, err := requireTitle(title)
	if err != nil {
		return nil, err
	}

	result, err := db.Exec(`
		INSERT INTO columns (title, position)
		VALUES (?, (SELECT COALESCE(MAX(position), 0) + 1 FROM columns))
	`, title)
	if err != nil {
		return nil, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}

	return db.GetColumn(id)
}

// GetColumn retrieves a column by ID without its tasks
func (db *DB) GetColumn(id int64) (*models.Column, error) {
	c := &models.Column{}
	err := db.QueryRow("SELECT id, title FROM columns WHERE id = ?", id).Scan(&c.ID, &c.Title)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

// RenameColumn changes a column title. Unknown ids are ignored.
func (db *DB) RenameColumn(id int64, title string) error {
	title, err := requireTitle(title)
	if err != nil {
		return err
	}
	_, err = db.Exec("UPDATE columns SET title = ? WHERE id = ?", title, id)
	return err
}

// DeleteColumn removes a column after appending its tasks, in order, to the
// first remaining column. It returns how many tasks moved and where.
func (db *DB) DeleteColumn(id int64) (int, *models.Column, error) {
	var moved int
	var destID int64

	err := db.withTx(func(tx *sql.Tx) error {
		var count int
		if err := tx.QueryRow("SELECT COUNT(*) FROM columns").Scan(&count); err != nil {
			return err
		}
		if count <= 1 {
			return ErrLastColumn
		}

		var exists int
		if err := tx.QueryRow("SELECT COUNT(*) FROM columns WHERE id = ?", id).Scan(&exists); err != nil {
			return err
		}
		if exists == 0 {
			return fmt.Errorf("column %d: %w", id, ErrNotFound)
		}

		err := tx.QueryRow(`
			SELECT id FROM columns WHERE id != ? ORDER BY position LIMIT 1
		`, id).Scan(&destID)
		if err != nil {
			return err
		}

		// Shift positions past the destination's tail so relative order survives
		var tail int
		err = tx.QueryRow(`
			SELECT COALESCE(MAX(position), 0) FROM tasks WHERE column_id = ?
		`, destID).Scan(&tail)
		if err != nil {
			return err
		}

		result, err := tx.Exec(`
			UPDATE tasks SET column_id = ?, position = position + ?
			WHERE column_id = ?
		`, destID, tail, id)
		if err != nil {
			return err
		}
		n, err := result.RowsAffected()
		if err != nil {
			return err
		}
		moved = int(n)

		_, err = tx.Exec("DELETE FROM columns WHERE id = ?", id)
		return err
	})
	if err != nil {
		return 0, nil, err
	}

	dest, err := db.GetColumn(destID)
	if err != nil {
		return 0, nil, err
	}
	return moved, dest, nil
}

// ColumnCount returns the number of columns on the board
func (db *DB) ColumnCount() (int, error) {
	var count int
	err := db.QueryRow("SELECT COUNT(*) FROM columns").Scan(&count)
	return count, err
}

// Columns returns the whole board in display order with tasks loaded
func (db *DB) Columns() ([]models.Column, error) {
	rows, err := db.Query("SELECT id, title FROM columns ORDER BY position")
	if err != nil {
		return nil, err
	}

	var columns []models.Column
	index := make(map[int64]int)
	for rows.Next() {
		var c models.Column
		if err := rows.Scan(&c.ID, &c.Title); err != nil {
			rows.Close()
			return nil, err
		}
		index[c.ID] = len(columns)
		columns = append(columns, c)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	// The pool holds a single connection, so tasks load after the first cursor closes
	tasks, err := db.listTasks()
	if err != nil {
		return nil, err
	}
	for _, t := range tasks {
		if i, ok := index[t.ColumnID]; ok {
			columns[i].Tasks = append(columns[i].Tasks, t)
		}
	}

	return columns, nil
}
