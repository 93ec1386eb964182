// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"sort"

	"github.com/sprintboard/sprintboard/models"
)

// FrameSource is the read side of a session. Every method is called on the
// session's event loop, inside the render hook.
type FrameSource interface {
	Self() models.Identity
	Ready() bool
	Progress() (arrived, target int)
	Collection(name string) []models.Record
	CollectionErr(name string) error
	Online() []models.PresenceEntry
	Calendar() ([]models.CalendarEvent, error)
	RenderStats() (requests, renders, skipped uint64)
}

// Frame is an immutable snapshot of everything the views draw. Views never
// reach back into the session, so a frame can be handed to the UI goroutine.
type Frame struct {
	Ready            bool
	Arrived, Gating  int
	Self             models.Identity
	Sprints          []models.Sprint
	ActiveSprint     *models.Sprint
	Tasks            []models.Task
	Epics            []models.Epic
	Online           []models.PresenceEntry
	Calendar         []models.CalendarEvent
	CalendarErr      error
	CollectionErrors map[string]error
	Renders          uint64
}

// BuildFrame projects the source's mirrors into a [Frame]. Records are
// sorted so that the same mirrors always produce the same frame.
func BuildFrame(src FrameSource) Frame {
	f := Frame{
		Ready:            src.Ready(),
		Self:             src.Self(),
		Online:           src.Online(),
		CollectionErrors: make(map[string]error),
	}
	f.Arrived, f.Gating = src.Progress()
	f.Calendar, f.CalendarErr = src.Calendar()
	_, f.Renders, _ = src.RenderStats()

	for _, r := range src.Collection(models.CollectionSprints) {
		f.Sprints = append(f.Sprints, models.SprintFromRecord(r))
	}
	sort.SliceStable(f.Sprints, func(i, j int) bool {
		if !f.Sprints[i].Start.Equal(f.Sprints[j].Start) {
			return f.Sprints[i].Start.Before(f.Sprints[j].Start)
		}
		return f.Sprints[i].ID < f.Sprints[j].ID
	})
	for i := range f.Sprints {
		if f.Sprints[i].Active {
			sp := f.Sprints[i]
			f.ActiveSprint = &sp
			break
		}
	}

	for _, r := range src.Collection(models.CollectionTasks) {
		f.Tasks = append(f.Tasks, models.TaskFromRecord(r))
	}
	sort.SliceStable(f.Tasks, func(i, j int) bool {
		if f.Tasks[i].Title != f.Tasks[j].Title {
			return f.Tasks[i].Title < f.Tasks[j].Title
		}
		return f.Tasks[i].ID < f.Tasks[j].ID
	})

	for _, r := range src.Collection(models.CollectionEpics) {
		f.Epics = append(f.Epics, models.EpicFromRecord(r))
	}
	sort.SliceStable(f.Epics, func(i, j int) bool { return f.Epics[i].Title < f.Epics[j].Title })

	for _, name := range []string{models.CollectionSprints, models.CollectionTasks, models.CollectionEpics} {
		if err := src.CollectionErr(name); err != nil {
			f.CollectionErrors[name] = err
		}
	}

	return f
}

// Backlog returns the tasks outside any sprint.
func (f Frame) Backlog() []models.Task {
	var out []models.Task
	for _, t := range f.Tasks {
		if t.SprintID == "" {
			out = append(out, t)
		}
	}
	return out
}

// SprintTasks returns the tasks of sprintID.
func (f Frame) SprintTasks(sprintID string) []models.Task {
	var out []models.Task
	for _, t := range f.Tasks {
		if sprintID != "" && t.SprintID == sprintID {
			out = append(out, t)
		}
	}
	return out
}

// BoardTasks returns the tasks of the active sprint ordered by board column.
func (f Frame) BoardTasks() []models.Task {
	if f.ActiveSprint == nil {
		return nil
	}
	tasks := f.SprintTasks(f.ActiveSprint.ID)
	out := make([]models.Task, 0, len(tasks))
	for _, col := range models.BoardColumns {
		for _, t := range tasks {
			if t.Status == col {
				out = append(out, t)
			}
		}
	}
	return out
}

// EpicProgress returns the number of done tasks and all tasks of epicID.
func (f Frame) EpicProgress(epicID string) (done, total int) {
	for _, t := range f.Tasks {
		if t.EpicID != epicID {
			continue
		}
		total++
		if t.Status == models.StatusDone {
			done++
		}
	}
	return done, total
}
