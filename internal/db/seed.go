package db

import (
	"database/sql"

	"github.com/tgienger/kanboard/internal/models"
)

type sampleTask struct {
	title       string
	description string
	priority    models.Priority
}

type sampleColumn struct {
	title string
	tasks []sampleTask
}

var sampleBoard = []sampleColumn{
	{title: "To Do", tasks: []sampleTask{
		{"Design Homepage", "Create wireframes and mockups for the homepage", models.PriorityHigh},
		{"Research Competitors", "Analyze competitor websites and features", models.PriorityMedium},
		{"Setup Project Repository", "Initialize Git repository and project structure", models.PriorityLow},
	}},
	{title: "In Progress", tasks: []sampleTask{
		{"Develop Login Feature", "Implement user authentication system", models.PriorityHigh},
		{"Write Documentation", "Create user guides and API documentation", models.PriorityMedium},
	}},
	{title: "Done", tasks: []sampleTask{
		{"Project Planning", "Define project scope and requirements", models.PriorityHigh},
		{"Team Setup", "Assign roles and responsibilities to team members", models.PriorityMedium},
		{"Technology Stack Selection", "Choose frameworks and tools for development", models.PriorityLow},
	}},
}

// Inserted oldest first so the newest lands on top of the feed
var sampleNotifications = []models.Notification{
	{Title: "Task Updated", Message: "Task 'Develop Login Feature' was updated", Time: "2 hours ago", Type: models.NotifyUpdate},
	{Title: "Task Moved", Message: "Task 'Project Planning' moved to Done", Time: "1 hour ago", Type: models.NotifyMove},
	{Title: "Task Added", Message: "New task 'Design Homepage' added to To Do", Time: "10 minutes ago", Type: models.NotifyAdd},
}

// Seed loads the sample board and feed into an empty database
func (db *DB) Seed() error {
	return db.withTx(func(tx *sql.Tx) error {
		for ci, col := range sampleBoard {
			result, err := tx.Exec("INSERT INTO columns (title, position) VALUES (?, ?)", col.title, ci+1)
			if err != nil {
				return err
			}
			columnID, err := result.LastInsertId()
			if err != nil {
				return err
			}
			for ti, t := range col.tasks {
				_, err := tx.Exec(`
					INSERT INTO tasks (column_id, title, description, priority, position)
					VALUES (?, ?, ?, ?, ?)
				`, columnID, t.title, t.description, string(t.priority), ti+1)
				if err != nil {
					return err
				}
			}
		}
		for _, n := range sampleNotifications {
			_, err := tx.Exec(`
				INSERT INTO notifications (title, message, time_label, type) VALUES (?, ?, ?, ?)
			`, n.Title, n.Message, n.Time, string(n.Type))
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// SeedColumns creates empty columns with the given titles, in order
func (db *DB) SeedColumns(titles []string) error {
	for _, title := range titles {
		if _, err := db.AddColumn(title); err != nil {
			return err
		}
	}
	return nil
}
