package views

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tgienger/kanboard/internal/models"
	"github.com/tgienger/kanboard/internal/ui/keys"
	"github.com/tgienger/kanboard/internal/ui/styles"
)

// columnForm adds a column (id 0) or renames one
type columnForm struct {
	keys     keys.KeyMap
	id       int64
	title    textinput.Model
	focusIdx int // 0=title, 1=save
}

func newColumnForm(km keys.KeyMap) *columnForm {
	title := textinput.New()
	title.Placeholder = "Column title"
	title.CharLimit = 100
	return &columnForm{keys: km, title: title}
}

func (f *columnForm) open(col *models.Column) {
	f.id = 0
	f.focusIdx = 0
	f.title.Reset()
	if col != nil {
		f.id = col.ID
		f.title.SetValue(col.Title)
	}
	f.title.Focus()
}

func (f *columnForm) update(msg tea.KeyMsg) (submit, cancel bool, cmd tea.Cmd) {
	switch {
	case key.Matches(msg, f.keys.Back):
		return false, true, nil
	case key.Matches(msg, f.keys.Save):
		return true, false, nil
	case key.Matches(msg, f.keys.Enter):
		return true, false, nil
	case key.Matches(msg, f.keys.Tab), msg.String() == "shift+tab":
		f.focusIdx = 1 - f.focusIdx
		if f.focusIdx == 0 {
			f.title.Focus()
		} else {
			f.title.Blur()
		}
		return false, false, nil
	}
	if f.focusIdx == 0 {
		f.title, cmd = f.title.Update(msg)
	}
	return false, false, cmd
}

func (f *columnForm) view(s *styles.Styles, width, height int) string {
	contentWidth := styles.ContentWidth(width)

	heading := "Add New Column"
	if f.id != 0 {
		heading = "Rename Column"
	}
	titleStyle := s.Input
	btnStyle := s.Button
	if f.focusIdx == 0 {
		titleStyle = s.InputFocused
	} else {
		btnStyle = s.ButtonFocused
	}

	form := lipgloss.JoinVertical(lipgloss.Left,
		s.Title.Render(heading),
		"",
		"Title:",
		titleStyle.Width(clamp(contentWidth-6, 20, 50)).Render(f.title.View()),
		"",
		btnStyle.Render(" Save Column "),
		"",
		s.TitleMuted.Render("↵/Ctrl+S: save • Esc: cancel"),
	)

	centered := lipgloss.Place(contentWidth, height,
		lipgloss.Center, lipgloss.Center,
		form,
	)
	return styles.CenterView(centered, width, height)
}
