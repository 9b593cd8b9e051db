// Package dnd tracks a single drag gesture of a task card between columns.
package dnd

// Phase is the state of the current gesture
type Phase int

const (
	Idle Phase = iota
	Dragging
	Dropped
	Cancelled
)

func (p Phase) String() string {
	switch p {
	case Dragging:
		return "dragging"
	case Dropped:
		return "dropped"
	case Cancelled:
		return "cancelled"
	}
	return "idle"
}

// Move is a committed relocation of a task
type Move struct {
	TaskID       int64
	FromColumnID int64
	ToColumnID   int64
}

// Controller holds at most one in-flight drag
type Controller struct {
	phase    Phase
	taskID   int64
	fromID   int64
	overID   int64
	hovering bool
}

// Phase returns the current state
func (c *Controller) Phase() Phase { return c.phase }

// Dragging reports whether a gesture is in flight
func (c *Controller) Dragging() bool { return c.phase == Dragging }

// TaskID is the dragged task, valid while dragging
func (c *Controller) TaskID() int64 { return c.taskID }

// Origin is the column the drag started from
func (c *Controller) Origin() int64 { return c.fromID }

// Target returns the hovered drop column, if any
func (c *Controller) Target() (int64, bool) {
	return c.overID, c.phase == Dragging && c.hovering
}

// Start begins dragging taskID out of columnID. A gesture already in flight
// is replaced.
func (c *Controller) Start(taskID, columnID int64) {
	c.phase = Dragging
	c.taskID = taskID
	c.fromID = columnID
	c.overID = columnID
	c.hovering = true
}

// Over records the column under the pointer
func (c *Controller) Over(columnID int64) {
	if c.phase != Dragging {
		return
	}
	c.overID = columnID
	c.hovering = true
}

// Leave clears the hovered column, e.g. when the pointer exits the board
func (c *Controller) Leave() {
	if c.phase != Dragging {
		return
	}
	c.hovering = false
}

// Drop ends the gesture on columnID. It returns a move only when the task
// changes column; dropping back on the origin changes nothing.
func (c *Controller) Drop(columnID int64) (Move, bool) {
	if c.phase != Dragging {
		return Move{}, false
	}
	c.phase = Dropped
	c.hovering = false
	if columnID == c.fromID {
		return Move{}, false
	}
	return Move{TaskID: c.taskID, FromColumnID: c.fromID, ToColumnID: columnID}, true
}

// Cancel abandons the gesture without any effect
func (c *Controller) Cancel() {
	if c.phase != Dragging {
		return
	}
	c.phase = Cancelled
	c.hovering = false
}
