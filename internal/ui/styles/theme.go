package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/tgienger/kanboard/internal/models"
)

// Theme represents a color scheme for the application
type Theme struct {
	Name string

	// Base colors
	Background    lipgloss.Color
	Foreground    lipgloss.Color
	ForegroundDim lipgloss.Color

	// Accent colors
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Accent    lipgloss.Color

	// Semantic colors
	Success lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color
	Info    lipgloss.Color

	// UI element colors
	Border      lipgloss.Color
	BorderFocus lipgloss.Color
	Selection   lipgloss.Color
	Cursor      lipgloss.Color
}

// TokyoNight is the default color theme
var TokyoNight = Theme{
	Name: "Tokyo Night",

	Background:    lipgloss.Color("#1a1b26"),
	Foreground:    lipgloss.Color("#c0caf5"),
	ForegroundDim: lipgloss.Color("#565f89"),

	Primary:   lipgloss.Color("#7aa2f7"),
	Secondary: lipgloss.Color("#bb9af7"),
	Accent:    lipgloss.Color("#7dcfff"),

	Success: lipgloss.Color("#9ece6a"),
	Warning: lipgloss.Color("#e0af68"),
	Error:   lipgloss.Color("#f7768e"),
	Info:    lipgloss.Color("#7aa2f7"),

	Border:      lipgloss.Color("#3b4261"),
	BorderFocus: lipgloss.Color("#7aa2f7"),
	Selection:   lipgloss.Color("#33467c"),
	Cursor:      lipgloss.Color("#c0caf5"),
}

// Current holds the active theme
var Current = TokyoNight

// MaxWidth is the maximum width for modals and panels (classic terminal width)
const MaxWidth = 80

// ContentWidth returns the actual content width to use (min of terminal width and MaxWidth)
func ContentWidth(terminalWidth int) int {
	if terminalWidth > MaxWidth {
		return MaxWidth
	}
	return terminalWidth
}

// CenterView wraps content and centers it horizontally if terminal is wider than MaxWidth
func CenterView(content string, terminalWidth, terminalHeight int) string {
	if terminalWidth <= MaxWidth {
		return content
	}
	return lipgloss.Place(terminalWidth, terminalHeight,
		lipgloss.Center, lipgloss.Top,
		content,
	)
}

// PriorityColor maps a task priority to its badge color
func PriorityColor(p models.Priority) lipgloss.Color {
	switch p {
	case models.PriorityHigh:
		return Current.Error
	case models.PriorityMedium:
		return Current.Warning
	}
	return Current.Success
}

// NotificationColor maps a feed entry type to its accent color
func NotificationColor(t models.NotificationType) lipgloss.Color {
	switch t {
	case models.NotifyAdd:
		return Current.Success
	case models.NotifyDelete:
		return Current.Error
	case models.NotifyUpdate:
		return Current.Warning
	case models.NotifyMove:
		return Current.Accent
	}
	return Current.Info
}

// NotificationIcon is the glyph shown next to a feed entry
func NotificationIcon(t models.NotificationType) string {
	switch t {
	case models.NotifyAdd:
		return "+"
	case models.NotifyDelete:
		return "✗"
	case models.NotifyUpdate:
		return "✎"
	case models.NotifyMove:
		return "⇄"
	}
	return "i"
}

// Styles holds all the pre-computed styles for the UI
type Styles struct {
	// Title bar
	Title      lipgloss.Style
	TitleMuted lipgloss.Style
	Badge      lipgloss.Style

	// Lists
	ListItem     lipgloss.Style
	ListSelected lipgloss.Style

	// Panels and popups
	Panel lipgloss.Style

	// Buttons
	Button        lipgloss.Style
	ButtonFocused lipgloss.Style
	ButtonPrimary lipgloss.Style

	// Columns
	Column           lipgloss.Style
	ColumnFocused    lipgloss.Style
	ColumnDropTarget lipgloss.Style
	ColumnTitle      lipgloss.Style
	TaskCount        lipgloss.Style
	AddTask          lipgloss.Style

	// Task cards
	Card          lipgloss.Style
	CardSelected  lipgloss.Style
	CardDragging  lipgloss.Style
	CardHighlight lipgloss.Style
	CardTitle     lipgloss.Style
	CardDesc      lipgloss.Style
	Priority      lipgloss.Style

	// Dashboard
	Stat      lipgloss.Style
	StatValue lipgloss.Style
	StatLabel lipgloss.Style
	ChartBar  lipgloss.Style

	// Input fields
	Input        lipgloss.Style
	InputFocused lipgloss.Style

	// Help text
	Help     lipgloss.Style
	HelpKey  lipgloss.Style
	HelpDesc lipgloss.Style

	// Toast
	Toast lipgloss.Style
}

// NewStyles creates styles based on the current theme
func NewStyles() *Styles {
	t := Current

	column := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Border).
		Padding(0, 1)

	card := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(t.Border).
		Padding(0, 1)

	return &Styles{
		Title: lipgloss.NewStyle().
			Foreground(t.Primary).
			Bold(true),

		TitleMuted: lipgloss.NewStyle().
			Foreground(t.ForegroundDim),

		Badge: lipgloss.NewStyle().
			Foreground(t.Background).
			Background(t.Error).
			Padding(0, 1).
			Bold(true),

		ListItem: lipgloss.NewStyle().
			Foreground(t.Foreground).
			Padding(0, 2),

		ListSelected: lipgloss.NewStyle().
			Foreground(t.Primary).
			Background(t.Selection).
			Padding(0, 2).
			Bold(true),

		Panel: lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Border),

		Button: lipgloss.NewStyle().
			Foreground(t.Foreground).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Border).
			Padding(0, 2),

		ButtonFocused: lipgloss.NewStyle().
			Foreground(t.Primary).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.BorderFocus).
			Padding(0, 2).
			Bold(true),

		ButtonPrimary: lipgloss.NewStyle().
			Foreground(t.Background).
			Background(t.Primary).
			Padding(0, 2).
			Bold(true),

		Column: column,

		ColumnFocused: column.
			BorderForeground(t.BorderFocus),

		ColumnDropTarget: column.
			Border(lipgloss.DoubleBorder()).
			BorderForeground(t.Accent),

		ColumnTitle: lipgloss.NewStyle().
			Foreground(t.Primary).
			Bold(true),

		TaskCount: lipgloss.NewStyle().
			Foreground(t.ForegroundDim),

		AddTask: lipgloss.NewStyle().
			Foreground(t.ForegroundDim),

		Card: card,

		CardSelected: card.
			BorderForeground(t.BorderFocus),

		CardDragging: card.
			Border(lipgloss.DoubleBorder()).
			BorderForeground(t.Accent).
			Foreground(t.ForegroundDim),

		CardHighlight: card.
			BorderForeground(t.Warning),

		CardTitle: lipgloss.NewStyle().
			Foreground(t.Foreground).
			Bold(true),

		CardDesc: lipgloss.NewStyle().
			Foreground(t.ForegroundDim),

		Priority: lipgloss.NewStyle().
			Foreground(t.Background).
			Padding(0, 1).
			Bold(true),

		Stat: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Border).
			Padding(0, 1),

		StatValue: lipgloss.NewStyle().
			Foreground(t.Primary).
			Bold(true),

		StatLabel: lipgloss.NewStyle().
			Foreground(t.ForegroundDim),

		ChartBar: lipgloss.NewStyle().
			Foreground(t.Secondary),

		Input: lipgloss.NewStyle().
			Foreground(t.Foreground).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Border).
			Padding(0, 1),

		InputFocused: lipgloss.NewStyle().
			Foreground(t.Foreground).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.BorderFocus).
			Padding(0, 1),

		Help: lipgloss.NewStyle().
			Foreground(t.ForegroundDim).
			Padding(0, 1),

		HelpKey: lipgloss.NewStyle().
			Foreground(t.Primary).
			Bold(true),

		HelpDesc: lipgloss.NewStyle().
			Foreground(t.ForegroundDim),

		Toast: lipgloss.NewStyle().
			Foreground(t.Background).
			Padding(0, 2).
			Bold(true),
	}
}
