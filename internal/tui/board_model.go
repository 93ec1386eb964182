package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/sprintboard/sprintboard/internal/service"
	"github.com/sprintboard/sprintboard/models"
)

const noticeTTL = 4 * time.Second

// boardModel is the main screen. It only ever reads the latest [Frame];
// writes go through the services and come back as the next frame.
type boardModel struct {
	ctx      context.Context
	tasks    service.TaskService
	calendar service.CalendarService

	frame    Frame
	hasFrame bool
	spinner  spinner.Model

	tab    tab
	cursor int

	creating    bool
	titleInput  textinput.Model
	pointsInput textinput.Model
	inputFocus  int

	confirmDelete bool
	pending       *models.Task

	showAbout bool
	buildInfo models.AppBuildInfo

	notice    string
	errMsg    string
	noticeSeq int

	// copyText writes to the system clipboard; replaced in tests.
	copyText func(string) error
}

func newBoardModel(ctx context.Context, tasks service.TaskService, calendar service.CalendarService, buildInfo models.AppBuildInfo) boardModel {
	s := spinner.New()
	s.Spinner = spinner.MiniDot

	title := textinput.New()
	title.Placeholder = "title"
	title.CharLimit = 200
	title.Width = 40

	points := textinput.New()
	points.Placeholder = "points"
	points.CharLimit = 3
	points.Width = 6

	return boardModel{
		ctx:         ctx,
		tasks:       tasks,
		calendar:    calendar,
		spinner:     s,
		titleInput:  title,
		pointsInput: points,
		buildInfo:   buildInfo,
		copyText:    clipboard.WriteAll,
	}
}

func (m boardModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m boardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case FrameMsg:
		m.frame = msg.Frame
		m.hasFrame = true
		m.clampCursor()
		return m, nil
	case spinner.TickMsg:
		if m.ready() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case taskAdvancedMsg:
		if msg.err != nil {
			return m.fail("Could not move task", msg.err)
		}
		return m.note(fmt.Sprintf("%q moved to %s", msg.title, msg.status.Title()))
	case taskDeletedMsg:
		if msg.err != nil {
			return m.fail("Could not delete task", msg.err)
		}
		return m.note(fmt.Sprintf("%q deleted", msg.title))
	case taskCreatedMsg:
		if msg.err != nil {
			return m.fail("Could not create task", msg.err)
		}
		return m.note(fmt.Sprintf("%q added to backlog", msg.title))
	case sprintPushedMsg:
		if msg.err != nil {
			return m.fail("Could not add sprint end to calendar", msg.err)
		}
		return m.note(fmt.Sprintf("%q added to calendar", msg.event.Summary))
	case clearNoticeMsg:
		if msg.seq == m.noticeSeq {
			m.notice = ""
			m.errMsg = ""
		}
		return m, nil
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		if m.creating {
			return m.updateCreate(msg)
		}
		return m, nil
	}

	if keyMsg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	if m.creating {
		return m.updateCreate(msg)
	}
	if m.confirmDelete {
		return m.updateConfirm(keyMsg)
	}
	if m.showAbout {
		if key.Matches(keyMsg, keys.esc) || key.Matches(keyMsg, keys.about) {
			m.showAbout = false
		}
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, keys.quit):
		return m, tea.Quit
	case key.Matches(keyMsg, keys.about):
		m.showAbout = true
		return m, nil
	}

	if !m.ready() {
		return m, nil
	}

	if n, err := strconv.Atoi(keyMsg.String()); err == nil && n >= 1 && n <= len(tabs) {
		m.switchTab(tabs[n-1])
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, keys.nextTab):
		m.switchTab(tabs[(int(m.tab)+1)%len(tabs)])
	case key.Matches(keyMsg, keys.prevTab):
		m.switchTab(tabs[(int(m.tab)-1+len(tabs))%len(tabs)])
	case key.Matches(keyMsg, keys.up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(keyMsg, keys.down):
		if m.cursor < m.listLen()-1 {
			m.cursor++
		}
	case key.Matches(keyMsg, keys.advance):
		if t, ok := m.selectedTask(); ok {
			return m, m.cmdAdvance(t)
		}
	case key.Matches(keyMsg, keys.delete):
		if t, ok := m.selectedTask(); ok {
			m.pending = &t
			m.confirmDelete = true
		}
	case key.Matches(keyMsg, keys.copy):
		t, ok := m.selectedTask()
		if !ok {
			return m, nil
		}
		if err := m.copyText(t.Title); err != nil {
			return m.fail("Could not copy", err)
		}
		return m.note("Copied")
	case key.Matches(keyMsg, keys.newTask):
		if m.tab == tabBacklog {
			m.startCreate()
			return m, textinput.Blink
		}
	case key.Matches(keyMsg, keys.push):
		if sp, ok := m.selectedSprint(); ok {
			return m, m.cmdPushSprintEnd(sp)
		}
	}

	return m, nil
}

func (m boardModel) ready() bool {
	return m.hasFrame && m.frame.Ready
}

func (m *boardModel) switchTab(t tab) {
	m.tab = t
	m.cursor = 0
}

func (m boardModel) listLen() int {
	switch m.tab {
	case tabBoard:
		return len(m.frame.BoardTasks())
	case tabBacklog:
		return len(m.frame.Backlog())
	case tabSprints:
		return len(m.frame.Sprints)
	default:
		return 0
	}
}

func (m *boardModel) clampCursor() {
	if n := m.listLen(); m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m boardModel) selectedTask() (models.Task, bool) {
	var list []models.Task
	switch m.tab {
	case tabBoard:
		list = m.frame.BoardTasks()
	case tabBacklog:
		list = m.frame.Backlog()
	default:
		return models.Task{}, false
	}
	if m.cursor < 0 || m.cursor >= len(list) {
		return models.Task{}, false
	}
	return list[m.cursor], true
}

// selectedSprint is the highlighted sprint on the sprints tab and the
// active sprint elsewhere.
func (m boardModel) selectedSprint() (models.Sprint, bool) {
	if m.tab == tabSprints {
		if m.cursor < 0 || m.cursor >= len(m.frame.Sprints) {
			return models.Sprint{}, false
		}
		return m.frame.Sprints[m.cursor], true
	}
	if m.frame.ActiveSprint == nil {
		return models.Sprint{}, false
	}
	return *m.frame.ActiveSprint, true
}

func (m boardModel) note(text string) (tea.Model, tea.Cmd) {
	m.noticeSeq++
	m.notice = text
	m.errMsg = ""
	return m, m.cmdClearNotice()
}

func (m boardModel) fail(prefix string, err error) (tea.Model, tea.Cmd) {
	m.noticeSeq++
	m.notice = ""
	m.errMsg = prefix + ": " + humanizeError(err)
	return m, m.cmdClearNotice()
}

func (m boardModel) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.yes):
		t := *m.pending
		m.confirmDelete = false
		m.pending = nil
		return m, m.cmdDelete(t)
	case key.Matches(msg, keys.no):
		m.confirmDelete = false
		m.pending = nil
	}
	return m, nil
}

func (m *boardModel) startCreate() {
	m.creating = true
	m.inputFocus = 0
	m.titleInput.SetValue("")
	m.pointsInput.SetValue("")
	m.titleInput.Focus()
	m.pointsInput.Blur()
}

func (m boardModel) updateCreate(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			m.creating = false
			return m, nil
		case "tab", "shift+tab":
			m.inputFocus = 1 - m.inputFocus
			if m.inputFocus == 0 {
				m.titleInput.Focus()
				m.pointsInput.Blur()
			} else {
				m.pointsInput.Focus()
				m.titleInput.Blur()
			}
			return m, nil
		case "enter":
			title := strings.TrimSpace(m.titleInput.Value())
			if title == "" {
				m.errMsg = "Title is required"
				return m, nil
			}
			var points int64
			if raw := strings.TrimSpace(m.pointsInput.Value()); raw != "" {
				p, err := strconv.ParseInt(raw, 10, 64)
				if err != nil || p < 0 {
					m.errMsg = "Points must be a non-negative number"
					return m, nil
				}
				points = p
			}
			m.creating = false
			m.errMsg = ""
			return m, m.cmdCreate(title, points)
		}
	}

	var cmd tea.Cmd
	if m.inputFocus == 0 {
		m.titleInput, cmd = m.titleInput.Update(msg)
	} else {
		m.pointsInput, cmd = m.pointsInput.Update(msg)
	}
	return m, cmd
}

func (m boardModel) cmdAdvance(t models.Task) tea.Cmd {
	ctx, tasks := m.ctx, m.tasks
	return func() tea.Msg {
		status, err := tasks.AdvanceStatus(ctx, t)
		return taskAdvancedMsg{title: t.Title, status: status, err: err}
	}
}

func (m boardModel) cmdDelete(t models.Task) tea.Cmd {
	ctx, tasks := m.ctx, m.tasks
	return func() tea.Msg {
		return taskDeletedMsg{title: t.Title, err: tasks.Delete(ctx, t.ID)}
	}
}

func (m boardModel) cmdCreate(title string, points int64) tea.Cmd {
	ctx, tasks := m.ctx, m.tasks
	return func() tea.Msg {
		_, err := tasks.CreateBacklogTask(ctx, title, points)
		return taskCreatedMsg{title: title, err: err}
	}
}

func (m boardModel) cmdPushSprintEnd(sp models.Sprint) tea.Cmd {
	ctx, calendar := m.ctx, m.calendar
	return func() tea.Msg {
		event, err := calendar.PushSprintEnd(ctx, sp)
		return sprintPushedMsg{event: event, err: err}
	}
}

func (m boardModel) cmdClearNotice() tea.Cmd {
	seq := m.noticeSeq
	return tea.Tick(noticeTTL, func(time.Time) tea.Msg { return clearNoticeMsg{seq: seq} })
}

func (m boardModel) View() string {
	if m.showAbout {
		return renderBuildInfoWindow(m.buildInfo, m.frame.Renders)
	}
	if !m.ready() {
		return renderPage("SPRINTBOARD", renderLoading(m.spinner.View(), m.frame.Arrived, m.frame.Gating), "q: quit")
	}

	var b strings.Builder
	b.WriteString(renderTabs(m.tab))
	b.WriteString("\n\n")

	switch m.tab {
	case tabBoard:
		b.WriteString(renderBoard(m.frame, m.cursor))
	case tabBacklog:
		b.WriteString(renderBacklog(m.frame, m.cursor))
	case tabSprints:
		b.WriteString(renderSprints(m.frame, m.cursor))
	case tabEpics:
		b.WriteString(renderEpics(m.frame))
	case tabOnline:
		b.WriteString(renderOnline(m.frame))
	case tabCalendar:
		b.WriteString(renderCalendar(m.frame))
	}

	if m.creating {
		b.WriteString("\n\nNew backlog task\n")
		b.WriteString("Title  [" + m.titleInput.View() + "]\n")
		b.WriteString("Points [" + m.pointsInput.View() + "]")
	}
	if m.confirmDelete && m.pending != nil {
		b.WriteString("\n\n")
		b.WriteString(overlayBoxStyle.Render(fmt.Sprintf("Delete %q?\n\ny yes    n no", m.pending.Title)))
	}
	if errs := renderCollectionErrors(m.frame); errs != "" {
		b.WriteString("\n\n")
		b.WriteString(errs)
	}
	if m.notice != "" {
		b.WriteString("\n\n")
		b.WriteString(noticeStyle.Render(m.notice))
	}
	if m.errMsg != "" {
		b.WriteString("\n\n")
		b.WriteString(errorStyle.Render(m.errMsg))
	}

	title := "SPRINTBOARD · " + m.frame.Self.Name
	return renderPage(title, b.String(), m.hotKeys())
}

func (m boardModel) hotKeys() string {
	switch {
	case m.creating:
		return "tab: next field │ enter: save │ esc: cancel"
	case m.confirmDelete:
		return "y: delete │ n: keep"
	}

	base := "1-6/tab: switch │ ↑↓: move │ v: about │ q: quit"
	switch m.tab {
	case tabBoard:
		return "enter: advance │ d: delete │ c: copy │ p: push sprint end │ " + base
	case tabBacklog:
		return "enter: advance │ n: new │ d: delete │ c: copy │ " + base
	case tabSprints, tabCalendar:
		return "p: push sprint end to calendar │ " + base
	default:
		return base
	}
}
