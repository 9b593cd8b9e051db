// Package feed keeps the newest-first activity log shown in the
// notification panel.
package feed

import (
	"fmt"
	"time"

	"github.com/tgienger/kanboard/internal/db"
	"github.com/tgienger/kanboard/internal/models"
	"github.com/tgienger/kanboard/internal/prompt"
)

const clearQuestion = "Clear all notifications?"

// Feed records notifications in the board database
type Feed struct {
	db  *db.DB
	now func() time.Time
}

// New creates a feed backed by database. A nil clock uses time.Now.
func New(database *db.DB, now func() time.Time) *Feed {
	if now == nil {
		now = time.Now
	}
	return &Feed{db: database, now: now}
}

// Record prepends an entry. Its time label is computed once and never refreshed.
func (f *Feed) Record(title, message string, typ models.NotificationType) (*models.Notification, error) {
	created := f.now()
	return f.db.CreateNotification(title, message, FormatTime(created, f.now()), typ)
}

// List returns every entry, newest first
func (f *Feed) List() ([]models.Notification, error) {
	return f.db.ListNotifications()
}

// Clear empties the feed once the user confirms. An empty feed is left
// alone without asking.
func (f *Feed) Clear(p prompt.Prompter) (bool, error) {
	count, err := f.db.NotificationCount()
	if err != nil {
		return false, err
	}
	if count == 0 || !p.Confirm(clearQuestion) {
		return false, nil
	}
	if err := f.db.ClearNotifications(); err != nil {
		return false, err
	}
	return true, nil
}

// FormatTime renders how long ago t happened relative to now
func FormatTime(t, now time.Time) string {
	diff := now.Sub(t)
	mins := int(diff / time.Minute)
	hours := int(diff / time.Hour)

	switch {
	case mins < 1:
		return "Just now"
	case mins < 60:
		return fmt.Sprintf("%d minutes ago", mins)
	case hours < 24:
		return fmt.Sprintf("%d hours ago", hours)
	}
	return t.Format("1/2/2006")
}
