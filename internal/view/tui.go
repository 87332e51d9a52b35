package view

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/gofrs/uuid"

	"github.com/HannanShehzad/TaskManager/internal/client"
	"github.com/HannanShehzad/TaskManager/internal/models"
)

var (
	laneStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("238")).
			Padding(0, 1).
			Width(30)

	laneTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("51")).
			Bold(true)

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("231")).
			Background(lipgloss.Color("57"))

	draggingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("226")).
			Bold(true)

	pendingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	noticeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			MarginTop(1)
)

type tasksLoadedMsg struct{ err error }

type mutationDoneMsg struct{ err error }

type clearNoticeMsg struct{}

// Model is the bubbletea model driving both render modes over the shared
// task cache.
type Model struct {
	cache *client.TaskCache

	mode  Mode
	drag  DragMachine
	query Query

	lane int // selected Kanban lane index
	row  int // selected row within the lane

	table  table.Model
	search textinput.Model
	typing bool

	spinner spinner.Model
	loading bool
	notice  string
	width   int
}

func NewModel(cache *client.TaskCache) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot

	cols := []table.Column{
		{Title: "Title", Width: 24},
		{Title: "Description", Width: 32},
		{Title: "Due", Width: 12},
		{Title: "Status", Width: 12},
	}
	tbl := table.New(table.WithColumns(cols), table.WithFocused(true), table.WithHeight(12))

	search := textinput.New()
	search.Placeholder = "filter by text"
	search.CharLimit = 64

	return Model{
		cache:   cache,
		mode:    ModeKanban,
		table:   tbl,
		search:  search,
		spinner: sp,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.refreshCmd())
}

func (m Model) refreshCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return tasksLoadedMsg{err: m.cache.Refresh(ctx)}
	}
}

func (m Model) moveCmd(intent MoveIntent) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		status := intent.Status
		return mutationDoneMsg{err: m.cache.Update(ctx, intent.TaskID, client.TaskPatch{Status: &status})}
	}
}

func (m Model) deleteCmd(id uuid.UUID) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return mutationDoneMsg{err: m.cache.Remove(ctx, id)}
	}
}

func clearNoticeAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg { return clearNoticeMsg{} })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tasksLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.notice = msg.err.Error()
			return m, clearNoticeAfter(5 * time.Second)
		}
		m.syncTable()
		m.clampCursor()
		return m, nil

	case mutationDoneMsg:
		m.loading = false
		m.syncTable()
		m.clampCursor()
		if msg.err != nil {
			m.notice = msg.err.Error()
			return m, clearNoticeAfter(5 * time.Second)
		}
		return m, nil

	case clearNoticeMsg:
		m.notice = ""
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.typing {
		switch msg.String() {
		case "enter", "esc":
			m.typing = false
			m.search.Blur()
			m.query.Text = m.search.Value()
			m.syncTable()
			return m, nil
		default:
			var cmd tea.Cmd
			m.search, cmd = m.search.Update(msg)
			m.query.Text = m.search.Value()
			m.syncTable()
			return m, cmd
		}
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "tab":
		if m.mode == ModeKanban {
			m.drag.Cancel()
			m.mode = ModeTable
			m.syncTable()
		} else {
			m.mode = ModeKanban
		}
		return m, nil

	case "r":
		m.loading = true
		return m, m.refreshCmd()
	}

	if m.mode == ModeKanban {
		return m.handleKanbanKey(msg)
	}
	return m.handleTableKey(msg)
}

func (m Model) handleKanbanKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	lanes := Lanes(m.cache.Snapshot())

	switch msg.String() {
	case "left", "h":
		if m.lane > 0 {
			m.lane--
			m.clampCursor()
		}
	case "right", "l":
		if m.lane < len(models.Statuses)-1 {
			m.lane++
			m.clampCursor()
		}
	case "up", "k":
		if m.row > 0 {
			m.row--
		}
	case "down", "j":
		m.row++
		m.clampCursor()

	case "esc":
		m.drag.Cancel()

	case " ", "enter":
		if _, held := m.drag.Dragging(); held {
			// Drop onto the selected lane.
			intent, emit := m.drag.Drop(models.Statuses[m.lane])
			if emit {
				m.loading = true
				return m, m.moveCmd(intent)
			}
			return m, nil
		}
		if task, ok := m.selectedTask(lanes); ok && !m.cache.Pending(task.ID) {
			m.drag.Start(task.ID, task.Status)
		}

	case "d":
		if _, held := m.drag.Dragging(); held {
			return m, nil
		}
		if task, ok := m.selectedTask(lanes); ok && !m.cache.Pending(task.ID) {
			m.loading = true
			return m, m.deleteCmd(task.ID)
		}
	}

	return m, nil
}

func (m Model) handleTableKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "/":
		m.typing = true
		m.search.Focus()
		return m, textinput.Blink

	case "s":
		m.query.SortBy = nextSortColumn(m.query.SortBy)
		m.syncTable()
		return m, nil

	case "o":
		m.query.Desc = !m.query.Desc
		m.syncTable()
		return m, nil

	case "f":
		m.query.Status = nextStatusFilter(m.query.Status)
		m.syncTable()
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func nextSortColumn(col SortColumn) SortColumn {
	switch col {
	case "":
		return SortByTitle
	case SortByTitle:
		return SortByDueDate
	case SortByDueDate:
		return SortByStatus
	case SortByStatus:
		return SortByCreatedAt
	default:
		return ""
	}
}

func nextStatusFilter(status string) string {
	switch status {
	case "":
		return models.StatusPending
	case models.StatusPending:
		return models.StatusInProgress
	case models.StatusInProgress:
		return models.StatusCompleted
	default:
		return ""
	}
}

func (m *Model) selectedTask(lanes map[string][]models.Task) (models.Task, bool) {
	laneTasks := lanes[models.Statuses[m.lane]]
	if m.row < 0 || m.row >= len(laneTasks) {
		return models.Task{}, false
	}
	return laneTasks[m.row], true
}

func (m *Model) clampCursor() {
	lanes := Lanes(m.cache.Snapshot())
	laneTasks := lanes[models.Statuses[m.lane]]
	if m.row >= len(laneTasks) {
		m.row = len(laneTasks) - 1
	}
	if m.row < 0 {
		m.row = 0
	}
}

// syncTable rebuilds the table rows from the cache through the active
// query. Pure snapshot work; no network.
func (m *Model) syncTable() {
	tasks := Apply(m.cache.Snapshot(), m.query)
	rows := make([]table.Row, 0, len(tasks))
	for _, t := range tasks {
		rows = append(rows, table.Row{
			t.Title, t.Description, t.DueDate.Format("2006-01-02"), t.Status,
		})
	}
	m.table.SetRows(rows)
}

func (m Model) View() string {
	var b strings.Builder

	if m.mode == ModeKanban {
		b.WriteString(m.viewKanban())
	} else {
		b.WriteString(m.viewTable())
	}

	if m.loading {
		b.WriteString("\n" + m.spinner.View() + " working...")
	}
	if m.notice != "" {
		b.WriteString("\n" + noticeStyle.Render(m.notice))
	}
	b.WriteString(helpStyle.Render("\ntab: switch view • r: refresh • q: quit"))
	return b.String()
}

func (m Model) viewKanban() string {
	lanes := Lanes(m.cache.Snapshot())
	dragID, held := m.drag.Dragging()

	rendered := make([]string, 0, len(models.Statuses))
	for li, status := range models.Statuses {
		var lane strings.Builder
		title := laneTitleStyle.Render(fmt.Sprintf("%s (%d)", status, len(lanes[status])))
		lane.WriteString(title + "\n")

		for ri, task := range lanes[status] {
			line := task.Title
			switch {
			case held && task.ID == dragID:
				line = draggingStyle.Render("⇅ " + line)
			case m.cache.Pending(task.ID):
				line = pendingStyle.Render(line + " …")
			case li == m.lane && ri == m.row:
				line = selectedStyle.Render(line)
			}
			lane.WriteString(line + "\n")
		}

		style := laneStyle
		if li == m.lane {
			style = style.BorderForeground(lipgloss.Color("51"))
		}
		rendered = append(rendered, style.Render(lane.String()))
	}

	board := lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
	if held {
		board += helpStyle.Render("\nspace: drop on selected lane • esc: cancel")
	} else {
		board += helpStyle.Render("\nspace: grab task • d: delete")
	}
	return board
}

func (m Model) viewTable() string {
	header := fmt.Sprintf("sort: %s  order: %s  status: %s",
		orDefault(string(m.query.SortBy), "none"),
		orderLabel(m.query.Desc),
		orDefault(m.query.Status, "all"))

	out := header + "\n" + m.table.View()
	if m.typing {
		out += "\n/" + m.search.View()
	} else if m.query.Text != "" {
		out += "\nfilter: " + m.query.Text
	}
	out += helpStyle.Render("\ns: sort • o: order • f: status filter • /: text filter")
	return out
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func orderLabel(desc bool) string {
	if desc {
		return "desc"
	}
	return "asc"
}
