package views

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tgienger/kanboard/internal/board"
	"github.com/tgienger/kanboard/internal/models"
	"github.com/tgienger/kanboard/internal/ui/keys"
	"github.com/tgienger/kanboard/internal/ui/styles"
)

const (
	taskFieldTitle = iota
	taskFieldDesc
	taskFieldPriority
	taskFieldColumn
	taskFieldSave
	taskFieldCount
)

// taskForm is the add/edit task modal
type taskForm struct {
	keys keys.KeyMap

	taskID   int64
	columnID int64

	title    textinput.Model
	desc     textarea.Model
	priority int // index into models.Priorities
	columns  []models.Column
	column   int // index into columns
	focusIdx int
}

func newTaskForm(km keys.KeyMap) *taskForm {
	title := textinput.New()
	title.Placeholder = "Task title"
	title.CharLimit = 200

	desc := textarea.New()
	desc.Placeholder = "Description"
	desc.CharLimit = 1000
	desc.SetWidth(50)
	desc.SetHeight(3)
	desc.ShowLineNumbers = false

	return &taskForm{keys: km, title: title, desc: desc}
}

// open blanks the form for a new task in columnID, or fills it from task
func (f *taskForm) open(task *models.Task, columnID int64, columns []models.Column) {
	f.columns = columns
	f.columnID = columnID
	f.focusIdx = taskFieldTitle
	f.title.Reset()
	f.desc.Reset()
	f.priority = 1
	f.taskID = 0
	if task != nil {
		f.taskID = task.ID
		f.title.SetValue(task.Title)
		f.desc.SetValue(task.Description)
		for i, p := range models.Priorities {
			if p == task.Priority {
				f.priority = i
			}
		}
	}
	f.column = 0
	for i, c := range columns {
		if c.ID == columnID {
			f.column = i
		}
	}
	f.updateFocus()
}

func (f *taskForm) isNew() bool { return f.taskID == 0 }

// value is what gets submitted to the board service
func (f *taskForm) value() board.TaskForm {
	target := f.columnID
	if f.column < len(f.columns) {
		target = f.columns[f.column].ID
	}
	return board.TaskForm{
		TaskID:         f.taskID,
		ColumnID:       f.columnID,
		Title:          f.title.Value(),
		Description:    f.desc.Value(),
		Priority:       models.Priorities[f.priority],
		TargetColumnID: target,
	}
}

func (f *taskForm) setWidth(w int) {
	f.desc.SetWidth(w)
}

func (f *taskForm) updateFocus() {
	f.title.Blur()
	f.desc.Blur()
	switch f.focusIdx {
	case taskFieldTitle:
		f.title.Focus()
	case taskFieldDesc:
		f.desc.Focus()
	}
}

// update handles a key. submit is set when the user asked to save and
// cancel when the form should close without saving.
func (f *taskForm) update(msg tea.KeyMsg) (submit, cancel bool, cmd tea.Cmd) {
	switch {
	case key.Matches(msg, f.keys.Back):
		return false, true, nil

	case key.Matches(msg, f.keys.Save):
		return true, false, nil

	case key.Matches(msg, f.keys.Tab):
		f.focusIdx = (f.focusIdx + 1) % taskFieldCount
		f.updateFocus()
		return false, false, nil

	case msg.String() == "shift+tab":
		f.focusIdx = (f.focusIdx + taskFieldCount - 1) % taskFieldCount
		f.updateFocus()
		return false, false, nil

	case key.Matches(msg, f.keys.Enter):
		switch f.focusIdx {
		case taskFieldTitle, taskFieldPriority, taskFieldColumn:
			f.focusIdx++
			f.updateFocus()
			return false, false, nil
		case taskFieldSave:
			return true, false, nil
		}
		// enter in the description is a newline
	}

	if f.focusIdx == taskFieldPriority || f.focusIdx == taskFieldColumn {
		step := 0
		switch {
		case key.Matches(msg, f.keys.Left):
			step = -1
		case key.Matches(msg, f.keys.Right), msg.String() == " ":
			step = 1
		}
		if step != 0 {
			if f.focusIdx == taskFieldPriority {
				n := len(models.Priorities)
				f.priority = (f.priority + step + n) % n
			} else if n := len(f.columns); n > 0 {
				f.column = (f.column + step + n) % n
			}
		}
		return false, false, nil
	}

	switch f.focusIdx {
	case taskFieldTitle:
		f.title, cmd = f.title.Update(msg)
	case taskFieldDesc:
		f.desc, cmd = f.desc.Update(msg)
	}
	return false, false, cmd
}

func (f *taskForm) view(s *styles.Styles, width, height int) string {
	contentWidth := styles.ContentWidth(width)

	formTitle := "Add New Task"
	if !f.isNew() {
		formTitle = "Edit Task"
	}

	fieldStyle := func(idx int) lipgloss.Style {
		if f.focusIdx == idx {
			return s.InputFocused
		}
		return s.Input
	}
	btnStyle := s.Button
	if f.focusIdx == taskFieldSave {
		btnStyle = s.ButtonFocused
	}

	var prios []string
	for i, p := range models.Priorities {
		label := strings.ToUpper(string(p))
		if i == f.priority {
			label = s.Priority.Background(styles.PriorityColor(p)).Render(label)
		} else {
			label = s.TitleMuted.Render(label)
		}
		prios = append(prios, label)
	}

	columnLabel := ""
	if f.column < len(f.columns) {
		columnLabel = f.columns[f.column].Title
	}

	inputWidth := clamp(contentWidth-6, 20, 50)

	form := lipgloss.JoinVertical(lipgloss.Left,
		s.Title.Render(formTitle),
		"",
		"Title:",
		fieldStyle(taskFieldTitle).Width(inputWidth).Render(f.title.View()),
		"",
		"Description:",
		fieldStyle(taskFieldDesc).Render(f.desc.View()),
		"",
		"Priority:",
		fieldStyle(taskFieldPriority).Width(inputWidth).Render(strings.Join(prios, " ")),
		"",
		"Column:",
		fieldStyle(taskFieldColumn).Width(inputWidth).Render("◀ "+columnLabel+" ▶"),
		"",
		btnStyle.Render(" Save Task "),
		"",
		s.TitleMuted.Render("Tab: next • ←→: choose • Ctrl+S: save • Esc: cancel"),
	)

	centered := lipgloss.Place(contentWidth, height,
		lipgloss.Center, lipgloss.Center,
		form,
	)
	return styles.CenterView(centered, width, height)
}
