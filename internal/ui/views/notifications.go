package views

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tgienger/kanboard/internal/board"
	"github.com/tgienger/kanboard/internal/models"
	"github.com/tgienger/kanboard/internal/ui/keys"
	"github.com/tgienger/kanboard/internal/ui/styles"
)

type notificationItem struct {
	n models.Notification
}

func (i notificationItem) Title() string       { return i.n.Title }
func (i notificationItem) Description() string { return i.n.Message }
func (i notificationItem) FilterValue() string { return i.n.Title + " " + i.n.Message }

type notificationDelegate struct {
	styles *styles.Styles
	width  int
}

func (d notificationDelegate) Height() int                               { return 2 }
func (d notificationDelegate) Spacing() int                              { return 1 }
func (d notificationDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }

func (d notificationDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(notificationItem)
	if !ok {
		return
	}

	selected := index == m.Index()
	width := max(d.width-4, 20)

	lineStyle := d.styles.ListItem
	if selected {
		lineStyle = d.styles.ListSelected
	}

	icon := lipgloss.NewStyle().
		Foreground(styles.NotificationColor(it.n.Type)).
		Render(styles.NotificationIcon(it.n.Type))
	when := d.styles.TitleMuted.Render(it.n.Time)
	titleW := max(width-lipgloss.Width(when)-8, 1)
	head := fmt.Sprintf("%s %s  %s", icon, truncate(it.n.Title, titleW), when)
	body := lineStyle.Foreground(styles.Current.ForegroundDim).Width(width).Render("  " + truncate(it.n.Message, width-6))

	fmt.Fprintf(w, "%s\n%s", lineStyle.Width(width).Render(head), body)
}

// OpenNotifications asks the app to show the notification panel
type OpenNotifications struct{}

// BackToBoard returns to the board, carrying the result of anything done
// in the panel
type BackToBoard struct {
	Result board.Result
}

// NotificationListView is the notification panel
type NotificationListView struct {
	service  *board.Service
	list     list.Model
	delegate *notificationDelegate
	styles   *styles.Styles
	keys     keys.KeyMap
	width    int
	height   int
	loaded   bool

	confirm *confirmation

	showHelpPopup bool
}

func NewNotificationListView(service *board.Service) *NotificationListView {
	s := styles.NewStyles()

	delegate := &notificationDelegate{styles: s, width: 80}

	l := list.New([]list.Item{}, delegate, 0, 0)
	l.Title = "Notifications"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = s.Title
	l.SetShowHelp(false)

	return &NotificationListView{
		service:  service,
		list:     l,
		delegate: delegate,
		styles:   s,
		keys:     keys.DefaultKeyMap(),
	}
}

func (v *NotificationListView) Init() tea.Cmd {
	return v.loadNotifications
}

type notificationsLoadedMsg struct {
	notifications []models.Notification
}

func (v *NotificationListView) loadNotifications() tea.Msg {
	snap, err := v.service.Snapshot()
	if err != nil {
		return err
	}
	return notificationsLoadedMsg{notifications: snap.Notifications}
}

func (v *NotificationListView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		contentWidth := styles.ContentWidth(msg.Width)
		v.delegate.width = contentWidth
		v.list.SetSize(contentWidth-4, msg.Height-4)
		return v, nil

	case notificationsLoadedMsg:
		items := make([]list.Item, len(msg.notifications))
		for i, n := range msg.notifications {
			items[i] = notificationItem{n: n}
		}
		v.list.SetItems(items)
		v.loaded = true
		return v, nil

	case tea.KeyMsg:
		if v.showHelpPopup {
			v.showHelpPopup = false
			return v, nil
		}

		if v.confirm != nil {
			return v.updateConfirm(msg)
		}

		switch {
		case key.Matches(msg, v.keys.Quit):
			return v, tea.Quit
		case key.Matches(msg, v.keys.Back), key.Matches(msg, v.keys.Notifications):
			return v, back(board.Result{})
		case key.Matches(msg, v.keys.Clear):
			return v, v.apply(perform(v.service.ClearNotifications))
		case key.Matches(msg, v.keys.Help):
			v.showHelpPopup = true
			return v, nil
		}
	}

	var cmd tea.Cmd
	v.list, cmd = v.list.Update(msg)
	return v, cmd
}

func back(res board.Result) tea.Cmd {
	return func() tea.Msg { return BackToBoard{Result: res} }
}

func (v *NotificationListView) apply(out outcome) tea.Cmd {
	if out.confirm != nil {
		v.confirm = out.confirm
		return nil
	}
	if out.err != nil {
		return func() tea.Msg { return out.err }
	}
	if out.result.Changed {
		return back(out.result)
	}
	return nil
}

func (v *NotificationListView) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	c := v.confirm
	switch msg.String() {
	case "y", "Y":
		v.confirm = nil
		return v, v.apply(c.answer(true))
	case "n", "N", "esc":
		v.confirm = nil
		return v, v.apply(c.answer(false))
	}
	return v, nil
}

// View renders the view
func (v *NotificationListView) View() string {
	if v.showHelpPopup {
		return renderHelpPopup(v.styles, [][2]string{
			{"↑/↓", "move"},
			{"c", "clear all"},
			{"esc", "back to board"},
			{"q", "quit"},
		}, v.width, v.height)
	}

	if v.confirm != nil {
		return renderConfirm(v.styles, "Clear Notifications?", v.confirm.question, v.width, v.height)
	}

	if !v.loaded {
		return v.styles.TitleMuted.Render("Loading...")
	}

	if len(v.list.Items()) == 0 {
		return v.renderEmpty()
	}

	content := v.list.View() + "\n" + v.renderHelp()
	return styles.CenterView(content, v.width, v.height)
}

func (v *NotificationListView) renderEmpty() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	content := lipgloss.JoinVertical(lipgloss.Center,
		s.Title.Render("No Notifications"),
		"",
		s.TitleMuted.Render("Changes to the board show up here"),
		"",
		v.renderHelp(),
	)

	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		content,
	)
	return styles.CenterView(centered, v.width, v.height)
}

func (v *NotificationListView) renderHelp() string {
	return v.styles.Help.Render(
		fmt.Sprintf("%s clear • %s back • %s quit",
			v.styles.HelpKey.Render("c"),
			v.styles.HelpKey.Render("esc"),
			v.styles.HelpKey.Render("q"),
		),
	)
}
