package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/sprintboard/sprintboard/internal/adapter"
	"github.com/sprintboard/sprintboard/internal/logger"
	"github.com/sprintboard/sprintboard/internal/validators"
	"github.com/sprintboard/sprintboard/models"
)

type taskService struct {
	writer    adapter.DocumentWriter
	validator validators.Validator
	logger    *logger.Logger
}

func NewTaskService(writer adapter.DocumentWriter, logger *logger.Logger) TaskService {
	return &taskService{
		writer:    writer,
		validator: validators.NewTaskValidator(),
		logger:    logger,
	}
}

func (s *taskService) AdvanceStatus(ctx context.Context, task models.Task) (models.TaskStatus, error) {
	if err := s.validator.Validate(ctx, task, validators.FieldID, validators.FieldStatus); err != nil {
		return "", fmt.Errorf("error validating task before status change: %w", err)
	}

	next := task.Status.Next()
	if next == task.Status {
		return task.Status, ErrAlreadyDone
	}

	patches := []models.Patch{{
		Path: models.CollectionTasks + "/" + task.ID,
		Fields: map[string]any{
			"status":    string(next),
			"updatedAt": models.ServerTimestamp,
		},
	}}
	if task.SprintID != "" {
		patches = append(patches, models.Patch{
			Path:   models.CollectionSprints + "/" + task.SprintID,
			Fields: map[string]any{"updatedAt": models.ServerTimestamp},
		})
	}

	if err := s.writer.WriteBatch(ctx, patches); err != nil {
		s.logger.Error().Err(err).Str("task_id", task.ID).Str("status", string(next)).Msg("failed to advance task status")
		return task.Status, fmt.Errorf("error advancing task %s: %w", task.ID, mapAdapterError(err))
	}
	return next, nil
}

func (s *taskService) Delete(ctx context.Context, taskID string) error {
	if err := s.validator.Validate(ctx, models.Task{ID: taskID}, validators.FieldID); err != nil {
		return err
	}

	if err := s.writer.Delete(ctx, models.CollectionTasks+"/"+taskID); err != nil {
		s.logger.Error().Err(err).Str("task_id", taskID).Msg("failed to delete task")
		return fmt.Errorf("error deleting task %s: %w", taskID, mapAdapterError(err))
	}
	return nil
}

func (s *taskService) CreateBacklogTask(ctx context.Context, title string, points int64) (string, error) {
	task := models.Task{Title: strings.TrimSpace(title), Points: points, Status: models.StatusTodo}
	if err := s.validator.Validate(ctx, task, validators.FieldTitle, validators.FieldPoints); err != nil {
		return "", fmt.Errorf("error validating new task: %w", err)
	}

	id, err := s.writer.Create(ctx, models.CollectionTasks, map[string]any{
		"title":     task.Title,
		"status":    string(task.Status),
		"points":    task.Points,
		"sprintId":  "",
		"createdAt": models.ServerTimestamp,
		"updatedAt": models.ServerTimestamp,
	})
	if err != nil {
		s.logger.Error().Err(err).Str("title", task.Title).Msg("failed to create backlog task")
		return "", fmt.Errorf("error creating task: %w", mapAdapterError(err))
	}
	return id, nil
}
