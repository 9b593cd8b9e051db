package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/tgienger/kanboard/internal/models"
	"github.com/tgienger/kanboard/internal/ui/styles"
)

// clamp returns val clamped between minVal and maxVal
func clamp(val, minVal, maxVal int) int {
	if val < minVal {
		return minVal
	}
	if val > maxVal {
		return maxVal
	}
	return val
}

// truncate flattens whitespace and cuts s to w display cells
func truncate(s string, w int) string {
	if w <= 0 {
		return ""
	}
	s = strings.Join(strings.Fields(s), " ")
	return runewidth.Truncate(s, w, "…")
}

// matchesSearch reports whether term (already lower-cased) occurs in the
// task title or description
func matchesSearch(t models.Task, term string) bool {
	if term == "" {
		return false
	}
	return strings.Contains(strings.ToLower(t.Title), term) ||
		strings.Contains(strings.ToLower(t.Description), term)
}

func countMatches(columns []models.Column, term string) int {
	n := 0
	for _, col := range columns {
		for _, t := range col.Tasks {
			if matchesSearch(t, term) {
				n++
			}
		}
	}
	return n
}

type zoneKind int

const (
	zoneColumn zoneKind = iota
	zoneTask
	zoneAddTask
)

// zone maps a screen rectangle to the board element drawn there
type zone struct {
	kind     zoneKind
	columnID int64
	taskID   int64
	x, y     int
	w, h     int
}

func (z zone) contains(x, y int) bool {
	return x >= z.x && x < z.x+z.w && y >= z.y && y < z.y+z.h
}

// boardOptions controls one render of the columns
type boardOptions struct {
	Width  int
	Height int // rows available to the columns; 0 means no limit

	// screen position of the top-left corner, added to every zone
	OriginX int
	OriginY int

	FocusColumn int
	FocusTask   int

	DraggingID int64
	DropTarget int64

	Search string
}

// boardFrame is the rendered board plus the zones pointer events are
// resolved against. A new frame replaces the old one on every render.
type boardFrame struct {
	view  string
	zones []zone

	// visible column range [first, last)
	first int
	last  int
}

// hit returns the most specific zone under (x, y)
func (f boardFrame) hit(x, y int) (zone, bool) {
	var col zone
	found := false
	for _, z := range f.zones {
		if !z.contains(x, y) {
			continue
		}
		if z.kind != zoneColumn {
			return z, true
		}
		col, found = z, true
	}
	return col, found
}

// columnAt returns the column under (x, y)
func (f boardFrame) columnAt(x, y int) (int64, bool) {
	for _, z := range f.zones {
		if z.kind == zoneColumn && z.contains(x, y) {
			return z.columnID, true
		}
	}
	return 0, false
}

const (
	columnGap      = 1
	minColumnWidth = 26
	maxColumnWidth = 40
	cardHeight     = 4
)

func columnWidth(n, width int) int {
	if n == 0 || width <= 0 {
		return minColumnWidth
	}
	w := (width - columnGap*(n-1)) / n
	return clamp(w, minColumnWidth, maxColumnWidth)
}

// visibleColumns picks the window of columns that fits in width while
// keeping the focused one on screen
func visibleColumns(n, focus, width, colW int) (int, int) {
	if width <= 0 {
		return 0, n
	}
	fit := max(1, (width+columnGap)/(colW+columnGap))
	if fit >= n {
		return 0, n
	}
	start := clamp(focus-fit/2, 0, n-fit)
	return start, start + fit
}

// cardWindow picks which cards of a column fit in height rows
func cardWindow(n, focus, height int) (int, int) {
	if height <= 0 {
		return 0, n
	}
	// border, header, add button and two overflow markers
	avail := height - 6
	fit := max(1, avail/cardHeight)
	if fit >= n {
		return 0, n
	}
	start := clamp(focus-fit+1, 0, n-fit)
	return start, start + fit
}

// renderBoard lays the columns out side by side
func renderBoard(columns []models.Column, s *styles.Styles, opts boardOptions) boardFrame {
	if len(columns) == 0 {
		return boardFrame{view: s.TitleMuted.Render("No columns. Press 'C' to add one.")}
	}

	colW := columnWidth(len(columns), opts.Width)
	first, last := visibleColumns(len(columns), opts.FocusColumn, opts.Width, colW)
	term := strings.ToLower(strings.TrimSpace(opts.Search))

	bodies := make([]columnBody, 0, last-first)
	maxH := 0
	for i := first; i < last; i++ {
		focusTask := -1
		if i == opts.FocusColumn {
			focusTask = opts.FocusTask
		}
		b := renderColumnBody(columns[i], s, colW, focusTask, opts.Height, opts.DraggingID, term)
		bodies = append(bodies, b)
		maxH = max(maxH, lipgloss.Height(b.content))
	}

	frame := boardFrame{first: first, last: last}
	boxes := make([]string, 0, 2*len(bodies))
	x := opts.OriginX
	for i, b := range bodies {
		col := columns[first+i]
		style := s.Column
		switch {
		case opts.DraggingID != 0 && opts.DropTarget == col.ID:
			style = s.ColumnDropTarget
		case first+i == opts.FocusColumn:
			style = s.ColumnFocused
		}
		box := style.Width(colW - 2).Height(maxH).Render(b.content)
		w, h := lipgloss.Width(box), lipgloss.Height(box)

		frame.zones = append(frame.zones, zone{kind: zoneColumn, columnID: col.ID, x: x, y: opts.OriginY, w: w, h: h})
		for _, z := range b.zones {
			// border plus left padding
			z.x += x + 2
			z.y += opts.OriginY + 1
			frame.zones = append(frame.zones, z)
		}

		if i > 0 {
			boxes = append(boxes, strings.Repeat(" ", columnGap))
		}
		boxes = append(boxes, box)
		x += w + columnGap
	}

	frame.view = lipgloss.JoinHorizontal(lipgloss.Top, boxes...)
	if first > 0 || last < len(columns) {
		frame.view += "\n" + s.TitleMuted.Render(fmt.Sprintf("columns %d-%d of %d", first+1, last, len(columns)))
	}
	return frame
}

type columnBody struct {
	content string
	zones   []zone // relative to the column's content area
}

func renderColumnBody(col models.Column, s *styles.Styles, colW, focusTask, height int, draggingID int64, term string) columnBody {
	inner := colW - 4
	var (
		blocks []string
		zones  []zone
		y      int
	)
	push := func(block string) int {
		top := y
		blocks = append(blocks, block)
		y += lipgloss.Height(block)
		return top
	}

	count := fmt.Sprintf("(%d)", len(col.Tasks))
	push(s.ColumnTitle.Render(truncate(col.Title, inner-len(count)-1)) + " " + s.TaskCount.Render(count))

	start, end := cardWindow(len(col.Tasks), max(focusTask, 0), height)
	if start > 0 {
		push(s.TaskCount.Render(fmt.Sprintf("↑ %d more", start)))
	}
	for i := start; i < end; i++ {
		t := col.Tasks[i]
		style := s.Card
		switch {
		case t.ID == draggingID:
			style = s.CardDragging
		case i == focusTask:
			style = s.CardSelected
		case matchesSearch(t, term):
			style = s.CardHighlight
		}
		card := renderCard(t, s, style, inner)
		top := push(card)
		zones = append(zones, zone{
			kind:     zoneTask,
			columnID: col.ID,
			taskID:   t.ID,
			y:        top,
			w:        lipgloss.Width(card),
			h:        lipgloss.Height(card),
		})
	}
	if end < len(col.Tasks) {
		push(s.TaskCount.Render(fmt.Sprintf("↓ %d more", len(col.Tasks)-end)))
	}
	if len(col.Tasks) == 0 {
		push(s.TitleMuted.Render("No tasks"))
	}

	add := s.AddTask.Render("+ Add Task")
	top := push(add)
	zones = append(zones, zone{kind: zoneAddTask, columnID: col.ID, y: top, w: lipgloss.Width(add), h: 1})

	return columnBody{content: lipgloss.JoinVertical(lipgloss.Left, blocks...), zones: zones}
}

// renderCard draws a task as a bordered card width cells wide
func renderCard(t models.Task, s *styles.Styles, style lipgloss.Style, width int) string {
	text := width - 4
	badge := s.Priority.Background(styles.PriorityColor(t.Priority)).Render(strings.ToUpper(string(t.Priority)))
	title := s.CardTitle.Render(truncate(t.Title, text))
	desc := s.CardDesc.Render(truncate(t.Description, text-lipgloss.Width(badge)-1))
	return style.Width(width - 2).Render(title + "\n" + badge + " " + desc)
}
