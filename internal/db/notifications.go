package db

import (
	"github.com/tgienger/kanboard/internal/models"
)

// CreateNotification stores a new feed entry
func (db *DB) CreateNotification(title, message, timeLabel string, typ models.NotificationType) (*models.Notification, error) {
	result, err := db.Exec(`
		INSERT INTO notifications (title, message, time_label, type) VALUES (?, ?, ?, ?)
	`, title, message, timeLabel, string(typ))
	if err != nil {
		return nil, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}

	return &models.Notification{ID: id, Title: title, Message: message, Time: timeLabel, Type: typ}, nil
}

// ListNotifications returns the feed, newest first
func (db *DB) ListNotifications() ([]models.Notification, error) {
	rows, err := db.Query(`
		SELECT id, title, message, time_label, type
		FROM notifications ORDER BY id DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notifications []models.Notification
	for rows.Next() {
		var n models.Notification
		var typ string
		if err := rows.Scan(&n.ID, &n.Title, &n.Message, &n.Time, &typ); err != nil {
			return nil, err
		}
		n.Type = models.NotificationType(typ)
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

// NotificationCount returns the number of feed entries
func (db *DB) NotificationCount() (int, error) {
	var count int
	err := db.QueryRow("SELECT COUNT(*) FROM notifications").Scan(&count)
	return count, err
}

// ClearNotifications deletes every feed entry. Ids keep counting up afterwards.
func (db *DB) ClearNotifications() error {
	_, err := db.Exec("DELETE FROM notifications")
	return err
}
