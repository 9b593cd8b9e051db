package views

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/tgienger/kanboard/internal/board"
	"github.com/tgienger/kanboard/internal/prompt"
	"github.com/tgienger/kanboard/internal/ui/styles"
)

// action is a board service call that may ask for confirmation
type action func(p prompt.Prompter) (board.Result, error)

// confirmation is an action waiting on a y/n answer
type confirmation struct {
	question string
	prompter *prompt.Deferred
	act      action
}

// outcome is what running an action produced
type outcome struct {
	result  board.Result
	alert   string
	err     error
	confirm *confirmation
}

// perform runs act once. If it asked a question the outcome carries the
// confirmation to show instead of a result.
func perform(act action) outcome {
	d := &prompt.Deferred{}
	res, err := act(d)
	if q, ok := d.Pending(); ok {
		return outcome{confirm: &confirmation{question: q, prompter: d, act: act}}
	}
	alert, _ := d.Alerted()
	return outcome{result: res, alert: alert, err: err}
}

// answer replays the action with the user's reply
func (c *confirmation) answer(yes bool) outcome {
	p := c.prompter.Resolve(yes)
	res, err := c.act(p)
	alert, _ := p.Alerted()
	return outcome{result: res, alert: alert, err: err}
}

func renderConfirm(s *styles.Styles, title, question string, width, height int) string {
	contentWidth := styles.ContentWidth(width)

	content := lipgloss.JoinVertical(lipgloss.Center,
		s.Title.Foreground(styles.Current.Error).Render(title),
		"",
		lipgloss.NewStyle().Width(clamp(contentWidth-10, 20, 60)).Align(lipgloss.Center).Render(question),
		"",
		lipgloss.JoinHorizontal(lipgloss.Center,
			s.ButtonPrimary.Render(" Y - Yes "),
			"  ",
			s.Button.Render(" N - No "),
		),
	)

	centered := lipgloss.Place(contentWidth, height,
		lipgloss.Center, lipgloss.Center,
		s.Panel.Render(content),
	)
	return styles.CenterView(centered, width, height)
}

func renderHelpPopup(s *styles.Styles, items [][2]string, width, height int) string {
	contentWidth := styles.ContentWidth(width)

	lines := []string{s.Title.Render("Keyboard Shortcuts"), ""}
	for _, item := range items {
		lines = append(lines, s.HelpKey.Width(8).Render(item[0])+item[1])
	}
	lines = append(lines, "", s.TitleMuted.Render("Press any key to close"))

	centered := lipgloss.Place(contentWidth, height,
		lipgloss.Center, lipgloss.Center,
		s.Panel.Render(lipgloss.JoinVertical(lipgloss.Left, lines...)),
	)
	return styles.CenterView(centered, width, height)
}
