package tui

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/sprintboard/sprintboard/models"
)

type tab int

const (
	tabBoard tab = iota
	tabBacklog
	tabSprints
	tabEpics
	tabOnline
	tabCalendar
)

var tabs = []tab{tabBoard, tabBacklog, tabSprints, tabEpics, tabOnline, tabCalendar}

func (t tab) String() string {
	switch t {
	case tabBoard:
		return "Board"
	case tabBacklog:
		return "Backlog"
	case tabSprints:
		return "Sprints"
	case tabEpics:
		return "Epics"
	case tabOnline:
		return "Online"
	case tabCalendar:
		return "Calendar"
	default:
		return "?"
	}
}

func renderTabs(current tab) string {
	parts := make([]string, 0, len(tabs))
	for i, t := range tabs {
		label := fmt.Sprintf("%d %s", i+1, t)
		if t == current {
			parts = append(parts, activeTab.Render(label))
		} else {
			parts = append(parts, inactiveTab.Render(label))
		}
	}
	return strings.Join(parts, "  ")
}

func renderLoading(spin string, arrived, target int) string {
	if target == 0 {
		return spin + " Loading workspace"
	}
	return fmt.Sprintf("%s Loading workspace (%d/%d)", spin, arrived, target)
}

// renderTaskLine draws one task; selected tasks are highlighted.
func renderTaskLine(t models.Task, selected bool) string {
	line := fmt.Sprintf("%s (%d)", fitText(t.Title, 40), t.Points)
	if t.Assignee != "" {
		line += " @" + t.Assignee
	}
	if selected {
		return selectedStyle.Render("> " + line)
	}
	return "  " + line
}

// renderBoard draws the active sprint as kanban columns. cursor indexes
// [Frame.BoardTasks].
func renderBoard(f Frame, cursor int) string {
	if f.ActiveSprint == nil {
		return "No active sprint"
	}

	selectedID := ""
	if tasks := f.BoardTasks(); cursor >= 0 && cursor < len(tasks) {
		selectedID = tasks[cursor].ID
	}

	sprintTasks := f.SprintTasks(f.ActiveSprint.ID)
	columns := make([]string, 0, len(models.BoardColumns))
	for _, col := range models.BoardColumns {
		var b strings.Builder
		b.WriteString(titleStyle.Render(col.Title()))
		b.WriteString("\n")
		for _, t := range sprintTasks {
			if t.Status != col {
				continue
			}
			b.WriteString(renderTaskLine(t, t.ID == selectedID))
			b.WriteString("\n")
		}
		columns = append(columns, columnStyle.Render(strings.TrimRight(b.String(), "\n")))
	}

	header := titleStyle.Render(f.ActiveSprint.Name)
	if f.ActiveSprint.Goal != "" {
		header += "  " + helpStyle.Render(f.ActiveSprint.Goal)
	}
	return header + "\n\n" + lipgloss.JoinHorizontal(lipgloss.Top, columns...)
}

func renderBacklog(f Frame, cursor int) string {
	backlog := f.Backlog()
	if len(backlog) == 0 {
		return "Backlog is empty"
	}

	var b strings.Builder
	var points int64
	for i, t := range backlog {
		b.WriteString(renderTaskLine(t, i == cursor))
		b.WriteString("\n")
		points += t.Points
	}
	b.WriteString(helpStyle.Render(fmt.Sprintf("\n%d tasks, %d points", len(backlog), points)))
	return b.String()
}

func renderSprints(f Frame, cursor int) string {
	if len(f.Sprints) == 0 {
		return "No sprints"
	}

	var b strings.Builder
	for i, sp := range f.Sprints {
		tasks := f.SprintTasks(sp.ID)
		var done, total int64
		for _, t := range tasks {
			total += t.Points
			if t.Status == models.StatusDone {
				done += t.Points
			}
		}

		marker := " "
		if sp.Active {
			marker = "*"
		}
		line := fmt.Sprintf("%s %-20s %s  %d/%d pts", marker, fitText(sp.Name, 20), formatWindow(sp.Start, sp.End), done, total)
		if i == cursor {
			line = selectedStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func renderEpics(f Frame) string {
	if len(f.Epics) == 0 {
		return "No epics"
	}

	var b strings.Builder
	for _, e := range f.Epics {
		done, total := f.EpicProgress(e.ID)
		fmt.Fprintf(&b, "%-30s %s %d/%d\n", fitText(e.Title, 30), progressBar(done, total, 20), done, total)
	}
	return strings.TrimRight(b.String(), "\n")
}

func progressBar(done, total, width int) string {
	if total <= 0 {
		return "[" + strings.Repeat(" ", width) + "]"
	}
	filled := done * width / total
	return "[" + strings.Repeat("#", filled) + strings.Repeat(" ", width-filled) + "]"
}

func renderOnline(f Frame) string {
	if len(f.Online) == 0 {
		return "Nobody is online"
	}

	var b strings.Builder
	for _, e := range f.Online {
		name := e.DisplayName()
		if e.UserID == f.Self.UserID {
			name += " (you)"
		}
		fmt.Fprintf(&b, "%s %s\n", onlineDot, name)
	}
	return strings.TrimRight(b.String(), "\n")
}

func renderCalendar(f Frame) string {
	var b strings.Builder
	if f.ActiveSprint != nil {
		fmt.Fprintf(&b, "%s %s\n\n", titleStyle.Render(f.ActiveSprint.Name), formatWindow(f.ActiveSprint.Start, f.ActiveSprint.End))
	}

	events := append([]models.CalendarEvent(nil), f.Calendar...)
	sort.SliceStable(events, func(i, j int) bool { return events[i].Start.Before(events[j].Start) })

	if len(events) == 0 {
		b.WriteString("No events")
	}
	for _, e := range events {
		fmt.Fprintf(&b, "%s  %s\n", e.Start.Local().Format("Mon Jan 2 15:04"), e.Summary)
	}
	if f.CalendarErr != nil {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render("calendar: " + f.CalendarErr.Error()))
	}
	return strings.TrimRight(b.String(), "\n")
}

func renderCollectionErrors(f Frame) string {
	if len(f.CollectionErrors) == 0 {
		return ""
	}
	names := make([]string, 0, len(f.CollectionErrors))
	for name := range f.CollectionErrors {
		names = append(names, name)
	}
	sort.Strings(names)

	lines := make([]string, 0, len(names))
	for _, name := range names {
		lines = append(lines, errorStyle.Render(fmt.Sprintf("%s: %v (showing last known data)", name, f.CollectionErrors[name])))
	}
	return strings.Join(lines, "\n")
}

func formatWindow(start, end time.Time) string {
	const layout = "Jan 2"
	switch {
	case start.IsZero() && end.IsZero():
		return "unscheduled"
	case start.IsZero():
		return "until " + end.Format(layout)
	case end.IsZero():
		return "from " + start.Format(layout)
	default:
		return start.Format(layout) + " - " + end.Format(layout)
	}
}
