// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// Collection names mirrored by a session.
const (
	CollectionSprints = "sprints"
	CollectionTasks   = "tasks"
	CollectionEpics   = "epics"
	CollectionMembers = "members"
)

// TaskStatus is the kanban column a task sits in.
type TaskStatus string

const (
	StatusTodo       TaskStatus = "todo"
	StatusInProgress TaskStatus = "in_progress"
	StatusReview     TaskStatus = "review"
	StatusDone       TaskStatus = "done"
)

// BoardColumns lists the kanban columns in display order.
var BoardColumns = []TaskStatus{StatusTodo, StatusInProgress, StatusReview, StatusDone}

// Next returns the column after s, or s itself for the last column.
func (s TaskStatus) Next() TaskStatus {
	for i, c := range BoardColumns {
		if c == s && i+1 < len(BoardColumns) {
			return BoardColumns[i+1]
		}
	}
	if s == "" {
		return StatusTodo
	}
	return s
}

// Title returns the human-readable column header.
func (s TaskStatus) Title() string {
	switch s {
	case StatusTodo:
		return "To do"
	case StatusInProgress:
		return "In progress"
	case StatusReview:
		return "Review"
	case StatusDone:
		return "Done"
	default:
		return string(s)
	}
}

// Task is the read-only projection of a record in the tasks collection.
// A task with an empty SprintID belongs to the backlog.
type Task struct {
	ID       string
	Title    string
	Status   TaskStatus
	SprintID string
	EpicID   string
	Assignee string
	Points   int64
}

// Sprint is the read-only projection of a record in the sprints collection.
type Sprint struct {
	ID     string
	Name   string
	Goal   string
	Active bool
	Start  time.Time
	End    time.Time
}

// Epic is the read-only projection of a record in the epics collection.
type Epic struct {
	ID    string
	Title string
	Color string
}

// TaskFromRecord projects a tasks record.
func TaskFromRecord(r Record) Task {
	status := TaskStatus(r.String("status"))
	if status == "" {
		status = StatusTodo
	}
	return Task{
		ID:       r.ID,
		Title:    r.String("title"),
		Status:   status,
		SprintID: r.String("sprintId"),
		EpicID:   r.String("epicId"),
		Assignee: r.String("assignee"),
		Points:   r.Int("points"),
	}
}

// SprintFromRecord projects a sprints record.
func SprintFromRecord(r Record) Sprint {
	active, _ := r.Fields["active"].(bool)
	return Sprint{
		ID:     r.ID,
		Name:   r.String("name"),
		Goal:   r.String("goal"),
		Active: active,
		Start:  r.Time("start"),
		End:    r.Time("end"),
	}
}

// EpicFromRecord projects an epics record.
func EpicFromRecord(r Record) Epic {
	return Epic{
		ID:    r.ID,
		Title: r.String("title"),
		Color: r.String("color"),
	}
}
