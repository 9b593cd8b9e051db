package views

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	log "github.com/sirupsen/logrus"

	"github.com/tgienger/kanboard/internal/board"
	"github.com/tgienger/kanboard/internal/dnd"
	"github.com/tgienger/kanboard/internal/models"
	"github.com/tgienger/kanboard/internal/prompt"
	"github.com/tgienger/kanboard/internal/ui/keys"
	"github.com/tgienger/kanboard/internal/ui/styles"
)

// below this height the dashboard charts are hidden
const compactHeight = 40

type toast struct {
	text    string
	color   lipgloss.Color
	seq     int
	visible bool
}

type hideToastMsg struct {
	seq int
}

type boardLoadedMsg struct {
	snapshot board.Snapshot
}

// BoardView is the main screen: header, dashboard, columns and help
type BoardView struct {
	service *board.Service
	styles  *styles.Styles
	keys    keys.KeyMap
	log     log.FieldLogger

	width  int
	height int

	snapshot board.Snapshot
	loaded   bool
	dash     *dashboard
	frame    boardFrame

	// focus
	colIdx  int
	taskIdx int

	// drag state; dragTarget is the keyboard-chosen column index
	drag       dnd.Controller
	dragTarget int

	searchInput textinput.Model
	searching   bool

	editingTask   bool
	taskForm      *taskForm
	editingColumn bool
	columnForm    *columnForm

	confirm      *confirmation
	confirmTitle string

	showHelpPopup bool

	toast         toast
	toastDuration time.Duration
}

// NewBoardView creates the board screen. A nil logger uses the logrus
// standard logger.
func NewBoardView(service *board.Service, toastDuration time.Duration, logger log.FieldLogger) *BoardView {
	if logger == nil {
		logger = log.StandardLogger()
	}
	s := styles.NewStyles()
	km := keys.DefaultKeyMap()

	search := textinput.New()
	search.Placeholder = "Search tasks..."
	search.CharLimit = 100

	return &BoardView{
		service:       service,
		styles:        s,
		keys:          km,
		log:           logger,
		dash:          newDashboard(s),
		searchInput:   search,
		taskForm:      newTaskForm(km),
		columnForm:    newColumnForm(km),
		toastDuration: toastDuration,
	}
}

// Init loads the board
func (v *BoardView) Init() tea.Cmd {
	return v.loadBoard
}

func (v *BoardView) loadBoard() tea.Msg {
	snap, err := v.service.Snapshot()
	if err != nil {
		return err
	}
	return boardLoadedMsg{snapshot: snap}
}

func (v *BoardView) setSnapshot(snap board.Snapshot) {
	v.snapshot = snap
	v.loaded = true
	v.dash.Update(snap.Summary, snap.Columns)
	v.colIdx = clamp(v.colIdx, 0, max(len(snap.Columns)-1, 0))
	v.clampTask()
}

// refresh reloads the snapshot right away so the next render and every
// pointer event see the committed state
func (v *BoardView) refresh() tea.Cmd {
	snap, err := v.service.Snapshot()
	if err != nil {
		v.log.WithError(err).Error("reload board")
		return v.showToast("Could not load the board: "+err.Error(), styles.Current.Error)
	}
	v.setSnapshot(snap)
	return nil
}

func (v *BoardView) columns() []models.Column { return v.snapshot.Columns }

func (v *BoardView) currentColumn() (models.Column, bool) {
	cols := v.columns()
	if v.colIdx < 0 || v.colIdx >= len(cols) {
		return models.Column{}, false
	}
	return cols[v.colIdx], true
}

func (v *BoardView) currentTask() (models.Task, bool) {
	col, ok := v.currentColumn()
	if !ok || v.taskIdx < 0 || v.taskIdx >= len(col.Tasks) {
		return models.Task{}, false
	}
	return col.Tasks[v.taskIdx], true
}

func (v *BoardView) clampTask() {
	col, ok := v.currentColumn()
	if !ok {
		v.taskIdx = 0
		return
	}
	v.taskIdx = clamp(v.taskIdx, 0, max(len(col.Tasks)-1, 0))
}

// focusTask moves the focus onto task id wherever it is now
func (v *BoardView) focusTask(id int64) {
	for ci, col := range v.columns() {
		for ti, t := range col.Tasks {
			if t.ID == id {
				v.colIdx, v.taskIdx = ci, ti
				return
			}
		}
	}
}

func (v *BoardView) focusColumn(id int64) {
	for ci, col := range v.columns() {
		if col.ID == id {
			if ci != v.colIdx {
				v.colIdx, v.taskIdx = ci, 0
			}
			return
		}
	}
}

func (v *BoardView) showToast(text string, color lipgloss.Color) tea.Cmd {
	v.toast.seq++
	v.toast.text = text
	v.toast.color = color
	v.toast.visible = true
	seq := v.toast.seq
	return tea.Tick(v.toastDuration, func(time.Time) tea.Msg {
		return hideToastMsg{seq: seq}
	})
}

// run performs act and either shows its confirmation or applies the result
func (v *BoardView) run(title string, act action) tea.Cmd {
	out := perform(act)
	if out.confirm != nil {
		v.confirm = out.confirm
		v.confirmTitle = title
		return nil
	}
	return v.apply(out)
}

func (v *BoardView) apply(out outcome) tea.Cmd {
	if out.alert != "" {
		return v.showToast(out.alert, styles.Current.Error)
	}
	if out.err != nil {
		v.log.WithError(out.err).Error("board action failed")
		var reload tea.Cmd
		if out.result.Changed {
			reload = v.refresh()
		}
		return tea.Batch(reload, v.showToast(out.err.Error(), styles.Current.Error))
	}
	return v.applyResult(out.result)
}

func (v *BoardView) applyResult(res board.Result) tea.Cmd {
	var cmds []tea.Cmd
	if res.Changed {
		cmds = append(cmds, v.refresh())
	}
	if res.Toast != "" {
		cmds = append(cmds, v.showToast(res.Toast, styles.NotificationColor(res.Type)))
	}
	return tea.Batch(cmds...)
}

// Update handles messages
func (v *BoardView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		v.taskForm.setWidth(clamp(styles.ContentWidth(v.width)-10, 20, 50))
		return v, nil

	case boardLoadedMsg:
		v.setSnapshot(msg.snapshot)
		return v, nil

	case BackToBoard:
		return v, v.applyResult(msg.Result)

	case hideToastMsg:
		if msg.seq == v.toast.seq {
			v.toast.visible = false
		}
		return v, nil

	case error:
		v.log.WithError(msg).Error("board view")
		return v, v.showToast(msg.Error(), styles.Current.Error)

	case tea.MouseMsg:
		return v.updateMouse(msg)

	case tea.KeyMsg:
		if v.showHelpPopup {
			v.showHelpPopup = false
			return v, nil
		}

		if v.confirm != nil {
			return v.updateConfirm(msg)
		}

		if v.editingTask {
			return v.updateTaskForm(msg)
		}

		if v.editingColumn {
			return v.updateColumnForm(msg)
		}

		if v.searching {
			return v.updateSearch(msg)
		}

		if v.drag.Dragging() {
			return v.updateDragging(msg)
		}

		return v.updateNormal(msg)
	}

	return v, nil
}

func (v *BoardView) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Quit):
		return v, tea.Quit

	case key.Matches(msg, v.keys.Back):
		if v.searchInput.Value() != "" {
			v.searchInput.Reset()
		}
		return v, nil

	case key.Matches(msg, v.keys.Left):
		if v.colIdx > 0 {
			v.colIdx--
			v.clampTask()
		}
		return v, nil

	case key.Matches(msg, v.keys.Right):
		if v.colIdx < len(v.columns())-1 {
			v.colIdx++
			v.clampTask()
		}
		return v, nil

	case key.Matches(msg, v.keys.Up):
		if v.taskIdx > 0 {
			v.taskIdx--
		}
		return v, nil

	case key.Matches(msg, v.keys.Down):
		if col, ok := v.currentColumn(); ok && v.taskIdx < len(col.Tasks)-1 {
			v.taskIdx++
		}
		return v, nil

	case key.Matches(msg, v.keys.New):
		if col, ok := v.currentColumn(); ok {
			return v, v.openTaskForm(nil, col.ID)
		}
		return v, nil

	case key.Matches(msg, v.keys.Edit), key.Matches(msg, v.keys.Enter):
		if t, ok := v.currentTask(); ok {
			return v, v.openTaskForm(&t, t.ColumnID)
		}
		return v, nil

	case key.Matches(msg, v.keys.Delete):
		if t, ok := v.currentTask(); ok {
			return v, v.run("Delete Task?", func(p prompt.Prompter) (board.Result, error) {
				return v.service.DeleteTask(p, t.ID, t.ColumnID)
			})
		}
		return v, nil

	case key.Matches(msg, v.keys.Grab):
		if t, ok := v.currentTask(); ok {
			v.drag.Start(t.ID, t.ColumnID)
			v.dragTarget = v.colIdx
			v.log.WithField("task_id", t.ID).Debug("drag started")
		}
		return v, nil

	case key.Matches(msg, v.keys.NewColumn):
		v.columnForm.open(nil)
		v.editingColumn = true
		return v, textinput.Blink

	case key.Matches(msg, v.keys.RenameColumn):
		if col, ok := v.currentColumn(); ok {
			v.columnForm.open(&col)
			v.editingColumn = true
			return v, textinput.Blink
		}
		return v, nil

	case key.Matches(msg, v.keys.DeleteColumn):
		if col, ok := v.currentColumn(); ok {
			return v, v.run("Delete Column?", func(p prompt.Prompter) (board.Result, error) {
				return v.service.DeleteColumn(p, col.ID)
			})
		}
		return v, nil

	case key.Matches(msg, v.keys.Search):
		v.searching = true
		v.searchInput.Focus()
		return v, textinput.Blink

	case key.Matches(msg, v.keys.Notifications):
		return v, func() tea.Msg { return OpenNotifications{} }

	case key.Matches(msg, v.keys.Help):
		v.showHelpPopup = true
		return v, nil
	}

	return v, nil
}

func (v *BoardView) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Back):
		v.searchInput.Reset()
		v.searchInput.Blur()
		v.searching = false
		return v, nil
	case key.Matches(msg, v.keys.Enter):
		v.searchInput.Blur()
		v.searching = false
		return v, nil
	}
	prev := v.searchInput.Value()
	var cmd tea.Cmd
	v.searchInput, cmd = v.searchInput.Update(msg)
	if v.searchInput.Value() != prev {
		v.focusFirstMatch()
	}
	return v, cmd
}

// focusFirstMatch scrolls the first card matching the search into view
func (v *BoardView) focusFirstMatch() {
	term := strings.ToLower(strings.TrimSpace(v.searchInput.Value()))
	if term == "" {
		return
	}
	for ci, col := range v.columns() {
		for ti, t := range col.Tasks {
			if matchesSearch(t, term) {
				v.colIdx, v.taskIdx = ci, ti
				return
			}
		}
	}
}

func (v *BoardView) updateDragging(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	cols := v.columns()
	switch {
	case key.Matches(msg, v.keys.Back):
		v.drag.Cancel()
		return v, nil

	case key.Matches(msg, v.keys.Left):
		if v.dragTarget > 0 {
			v.dragTarget--
			v.drag.Over(cols[v.dragTarget].ID)
		}
		return v, nil

	case key.Matches(msg, v.keys.Right):
		if v.dragTarget < len(cols)-1 {
			v.dragTarget++
			v.drag.Over(cols[v.dragTarget].ID)
		}
		return v, nil

	case key.Matches(msg, v.keys.Grab), key.Matches(msg, v.keys.Enter):
		if v.dragTarget < 0 || v.dragTarget >= len(cols) {
			v.drag.Cancel()
			return v, nil
		}
		return v, v.drop(cols[v.dragTarget].ID)

	case key.Matches(msg, v.keys.Quit):
		return v, tea.Quit
	}
	return v, nil
}

// drop finishes the current gesture over columnID
func (v *BoardView) drop(columnID int64) tea.Cmd {
	move, ok := v.drag.Drop(columnID)
	if !ok {
		return nil
	}
	res, err := v.service.DropTask(move)
	cmd := v.apply(outcome{result: res, err: err})
	if res.Changed {
		v.focusTask(move.TaskID)
	}
	return cmd
}

func (v *BoardView) updateMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if v.modalOpen() {
		return v, nil
	}

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return v, nil
		}
		z, ok := v.frame.hit(msg.X, msg.Y)
		if !ok {
			return v, nil
		}
		switch z.kind {
		case zoneTask:
			v.focusTask(z.taskID)
			v.drag.Start(z.taskID, z.columnID)
			v.dragTarget = v.colIdx
		case zoneAddTask:
			v.focusColumn(z.columnID)
			return v, v.openTaskForm(nil, z.columnID)
		case zoneColumn:
			v.focusColumn(z.columnID)
		}
		return v, nil

	case tea.MouseActionMotion:
		if !v.drag.Dragging() {
			return v, nil
		}
		if id, ok := v.frame.columnAt(msg.X, msg.Y); ok {
			v.drag.Over(id)
		} else {
			v.drag.Leave()
		}
		return v, nil

	case tea.MouseActionRelease:
		if !v.drag.Dragging() {
			return v, nil
		}
		id, ok := v.frame.columnAt(msg.X, msg.Y)
		if !ok {
			v.drag.Cancel()
			return v, nil
		}
		return v, v.drop(id)
	}
	return v, nil
}

func (v *BoardView) modalOpen() bool {
	return v.showHelpPopup || v.confirm != nil || v.editingTask || v.editingColumn
}

func (v *BoardView) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
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

func (v *BoardView) openTaskForm(task *models.Task, columnID int64) tea.Cmd {
	v.taskForm.open(task, columnID, v.columns())
	v.editingTask = true
	return tea.Batch(textinput.Blink, textarea.Blink)
}

func (v *BoardView) updateTaskForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	submit, cancel, cmd := v.taskForm.update(msg)
	switch {
	case cancel:
		v.editingTask = false
		return v, nil
	case submit:
		form := v.taskForm.value()
		out := perform(func(p prompt.Prompter) (board.Result, error) {
			return v.service.SaveTask(p, form)
		})
		if out.alert == "" && out.err == nil {
			v.editingTask = false
		}
		return v, v.apply(out)
	}
	return v, cmd
}

func (v *BoardView) updateColumnForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	submit, cancel, cmd := v.columnForm.update(msg)
	switch {
	case cancel:
		v.editingColumn = false
		return v, nil
	case submit:
		id, title := v.columnForm.id, v.columnForm.title.Value()
		out := perform(func(p prompt.Prompter) (board.Result, error) {
			return v.service.SaveColumn(p, id, title)
		})
		if out.alert != "" || out.err != nil {
			return v, v.apply(out)
		}
		v.editingColumn = false
		next := v.apply(out)
		if id == 0 && out.result.Changed {
			v.colIdx, v.taskIdx = len(v.columns())-1, 0
		}
		return v, next
	}
	return v, cmd
}

// View renders the view
func (v *BoardView) View() string {
	if v.showHelpPopup {
		return v.renderHelpPopup()
	}

	if v.confirm != nil {
		return v.withToast(func(height int) string {
			return renderConfirm(v.styles, v.confirmTitle, v.confirm.question, v.width, height)
		})
	}

	if v.editingTask {
		return v.withToast(func(height int) string {
			return v.taskForm.view(v.styles, v.width, height)
		})
	}

	if v.editingColumn {
		return v.withToast(func(height int) string {
			return v.columnForm.view(v.styles, v.width, height)
		})
	}

	if !v.loaded {
		return v.styles.TitleMuted.Render("Loading...")
	}

	top := lipgloss.JoinVertical(lipgloss.Left,
		v.renderHeader(),
		v.dash.View(v.width, v.height < compactHeight),
		"",
	)
	topH := lipgloss.Height(top)

	opts := boardOptions{
		Width:       v.width,
		OriginY:     topH,
		FocusColumn: v.colIdx,
		FocusTask:   v.taskIdx,
		Search:      v.searchInput.Value(),
	}
	if v.height > 0 {
		// toast and help lines
		opts.Height = max(v.height-topH-2, cardHeight+6)
	}
	if v.drag.Dragging() {
		opts.DraggingID = v.drag.TaskID()
		if target, ok := v.drag.Target(); ok {
			opts.DropTarget = target
		}
	}
	v.frame = renderBoard(v.columns(), v.styles, opts)

	parts := []string{top, v.frame.view}
	if v.toast.visible {
		parts = append(parts, v.renderToast())
	} else {
		parts = append(parts, "")
	}
	parts = append(parts, v.renderHelp())
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (v *BoardView) renderToast() string {
	return v.styles.Toast.Background(v.toast.color).Render(v.toast.text)
}

// withToast keeps the toast line visible under a modal, so alerts raised
// while a form is open still reach the screen
func (v *BoardView) withToast(render func(height int) string) string {
	if !v.toast.visible {
		return render(v.height)
	}
	return lipgloss.JoinVertical(lipgloss.Left, render(max(v.height-1, 0)), v.renderToast())
}

func (v *BoardView) renderHeader() string {
	s := v.styles
	title := s.Title.Render("Kanban Board")

	badge := s.Badge
	count := len(v.snapshot.Notifications)
	if count == 0 {
		badge = badge.Background(styles.Current.Border)
	}
	parts := []string{title, "  ", s.TitleMuted.Render("notifications "), badge.Render(fmt.Sprintf("%d", count))}

	term := strings.TrimSpace(v.searchInput.Value())
	if v.searching || term != "" {
		searchStyle := s.Input
		if v.searching {
			searchStyle = s.InputFocused
		}
		box := searchStyle.Width(clamp(v.width/3, 20, 40)).Render(v.searchInput.View())
		matches := s.TitleMuted.Render(fmt.Sprintf(" %d matches", countMatches(v.columns(), strings.ToLower(term))))
		parts = append(parts, "  ", box, matches)
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, parts...)
}

func (v *BoardView) renderHelp() string {
	s := v.styles
	if v.drag.Dragging() {
		return s.Help.Render(
			fmt.Sprintf("%s choose column • %s drop • %s cancel",
				s.HelpKey.Render("←/→"),
				s.HelpKey.Render("space/↵"),
				s.HelpKey.Render("esc"),
			),
		)
	}

	// At narrow widths, show hint to press ? for help
	if v.width > 0 && v.width < 100 {
		return s.Help.Render(s.HelpKey.Render("?") + " help • " + s.HelpKey.Render("q") + " quit")
	}

	return s.Help.Render(
		fmt.Sprintf("%s column • %s task • %s new • %s edit • %s del • %s grab • %s column+ • %s search • %s notifications • %s help • %s quit",
			s.HelpKey.Render("←→"),
			s.HelpKey.Render("↑↓"),
			s.HelpKey.Render("n"),
			s.HelpKey.Render("e"),
			s.HelpKey.Render("d"),
			s.HelpKey.Render("space"),
			s.HelpKey.Render("C"),
			s.HelpKey.Render("/"),
			s.HelpKey.Render("N"),
			s.HelpKey.Render("?"),
			s.HelpKey.Render("q"),
		),
	)
}

func (v *BoardView) renderHelpPopup() string {
	return renderHelpPopup(v.styles, [][2]string{
		{"←/→", "change column"},
		{"↑/↓", "change task"},
		{"n", "new task"},
		{"e/↵", "edit task"},
		{"d", "delete task"},
		{"space", "grab / drop task"},
		{"C", "new column"},
		{"R", "rename column"},
		{"X", "delete column"},
		{"/", "search"},
		{"N", "notifications"},
		{"q", "quit"},
	}, v.width, v.height)
}
