package models

// Priority is the urgency of a task
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Priorities lists every priority, most urgent first
var Priorities = []Priority{PriorityHigh, PriorityMedium, PriorityLow}

// Valid reports whether p is one of the known priorities
func (p Priority) Valid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

// NotificationType classifies a feed entry
type NotificationType string

const (
	NotifyAdd    NotificationType = "add"
	NotifyUpdate NotificationType = "update"
	NotifyDelete NotificationType = "delete"
	NotifyMove   NotificationType = "move"
	NotifyInfo   NotificationType = "info"
)

// Task represents a single card on the board
type Task struct {
	ID          int64
	ColumnID    int64
	Title       string
	Description string
	Priority    Priority
}

// Column represents a board column and its ordered tasks
type Column struct {
	ID    int64
	Title string
	Tasks []Task // populated when loading the board
}

// Notification represents one entry of the activity feed
type Notification struct {
	ID      int64
	Title   string
	Message string
	Time    string // display label, frozen at creation
	Type    NotificationType
}
