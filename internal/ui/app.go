package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	log "github.com/sirupsen/logrus"
	"github.com/tgienger/kanboard/internal/board"
	"github.com/tgienger/kanboard/internal/ui/views"
)

// Currently active view
type View int

const (
	ViewBoard View = iota
	ViewNotifications
)

type App struct {
	service       *board.Service
	log           log.FieldLogger
	currentView   View
	board         *views.BoardView
	notifications *views.NotificationListView
	width         int
	height        int
}

// Creates a new application
func NewApp(service *board.Service, toastDuration time.Duration, logger log.FieldLogger) *App {
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &App{
		service:     service,
		log:         logger,
		currentView: ViewBoard,
		board:       views.NewBoardView(service, toastDuration, logger),
	}
}

func (a *App) Init() tea.Cmd {
	return a.board.Init()
}

func (a *App) openNotifications() tea.Cmd {
	a.currentView = ViewNotifications
	a.notifications = views.NewNotificationListView(a.service)

	// Initialize the panel with window size
	return tea.Batch(
		a.notifications.Init(),
		func() tea.Msg {
			return tea.WindowSizeMsg{Width: a.width, Height: a.height}
		},
	)
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		// Always update board size since it persists
		a.board.Update(msg)
		if a.currentView == ViewBoard {
			return a, nil
		}

	case views.OpenNotifications:
		a.log.WithField("view", "notifications").Debug("switch view")
		return a, a.openNotifications()

	case views.BackToBoard:
		a.currentView = ViewBoard
		a.notifications = nil
		_, cmd := a.board.Update(msg)
		return a, cmd
	}

	var cmd tea.Cmd
	switch a.currentView {
	case ViewBoard:
		_, cmd = a.board.Update(msg)
	case ViewNotifications:
		_, cmd = a.notifications.Update(msg)
		switch msg.(type) {
		case tea.KeyMsg, tea.MouseMsg, tea.WindowSizeMsg:
		default:
			// toast timers and errors belong to the board
			_, boardCmd := a.board.Update(msg)
			cmd = tea.Batch(cmd, boardCmd)
		}
	}

	return a, cmd
}

func (a *App) View() string {
	switch a.currentView {
	case ViewNotifications:
		if a.notifications != nil {
			return a.notifications.View()
		}
	}
	return a.board.View()
}
