package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/taskboard/internal/models"
	"github.com/adanyl0v/taskboard/internal/notify"
	"github.com/adanyl0v/taskboard/internal/storage"
)

// Emitter receives task lifecycle events. Implementations must not block
// the caller on delivery failures.
type Emitter interface {
	Emit(ctx context.Context, e notify.Event)
}

type taskServiceImpl struct {
	logger  zerolog.Logger
	tasks   storage.TaskRepository
	users   storage.UserRepository
	emitter Emitter
}

func NewTaskService(
	logger zerolog.Logger,
	tasks storage.TaskRepository,
	users storage.UserRepository,
	emitter Emitter,
) TaskService {
	return &taskServiceImpl{
		logger:  logger,
		tasks:   tasks,
		users:   users,
		emitter: emitter,
	}
}

func (s *taskServiceImpl) CreateTask(ctx context.Context, params CreateTaskParams) (*models.Task, error) {
	title := strings.TrimSpace(params.Title)
	if title == "" || params.Type == "" || params.StartDateTime.IsZero() {
		return nil, fmt.Errorf("%w: title, start date and type are required", ErrValidation)
	}

	now := time.Now()
	task := &models.Task{
		Title:         title,
		Description:   strings.TrimSpace(params.Description),
		Type:          params.Type,
		Status:        params.Status,
		Priority:      params.Priority,
		StartDateTime: params.StartDateTime,
		EndDateTime:   params.EndDateTime,
		CreatedBy:     params.CreatorID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if task.Status == "" {
		task.Status = models.StatusPending
	}
	if task.Priority == "" {
		task.Priority = models.PriorityMedium
	}

	assignee := params.CreatorID
	if params.AssignedTo != nil && *params.AssignedTo != "" {
		assignee = *params.AssignedTo
	}
	task.AssignedTo = &assignee

	err := s.validateTask(ctx, task)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", params.CreatorID).
			Msg("invalid task")
		return nil, err
	}

	taskUUID, err := uuid.NewV7()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to generate task uuid")
		return nil, err
	}
	task.ID = taskUUID.String()

	err = s.tasks.CreateTask(ctx, task)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to insert task")
		return nil, err
	}
	s.logger.Debug().
		Str("task_id", task.ID).
		Str("assigned_to", task.AssigneeID()).
		Msg("inserted task")

	s.emitter.Emit(ctx, notify.Event{Kind: notify.KindAssignment, Task: task})
	s.emitter.Emit(ctx, notify.Event{Kind: notify.KindHighPriority, Task: task})

	s.populate(ctx, task, nil)

	s.logger.Info().
		Str("task_id", task.ID).
		Str("user_id", task.CreatedBy).
		Msg("created task")
	return task, nil
}

func (s *taskServiceImpl) GetTask(ctx context.Context, taskID, requesterID string) (*models.Task, error) {
	task, err := s.authorizedTask(ctx, taskID, requesterID)
	if err != nil {
		return nil, err
	}

	s.populate(ctx, task, nil)

	s.logger.Info().
		Str("task_id", task.ID).
		Str("user_id", requesterID).
		Msg("task found")
	return task, nil
}

func (s *taskServiceImpl) ListTasks(ctx context.Context, requesterID string) ([]*models.Task, error) {
	tasks, err := s.tasks.ListTasksByParticipant(ctx, requesterID)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", requesterID).
			Msg("failed to select tasks by participant")
		return nil, err
	}

	slices.SortStableFunc(tasks, func(a, b *models.Task) int {
		if c := a.StartDateTime.Compare(b.StartDateTime); c != 0 {
			return c
		}
		return b.Priority.Rank() - a.Priority.Rank()
	})

	cache := make(map[string]*models.UserSummary)
	for _, task := range tasks {
		s.populate(ctx, task, cache)
	}

	s.logger.Debug().
		Int("count", len(tasks)).
		Str("user_id", requesterID).
		Msg("selected tasks by participant")
	return tasks, nil
}

func (s *taskServiceImpl) UpdateTask(ctx context.Context, params UpdateTaskParams) (*models.Task, error) {
	task, err := s.authorizedTask(ctx, params.ID, params.RequesterID)
	if err != nil {
		return nil, err
	}

	prevAssignee := task.AssigneeID()
	prevPriority := task.Priority
	prevStatus := task.Status

	if params.Title != nil {
		task.Title = strings.TrimSpace(*params.Title)
	}
	if params.Description != nil {
		task.Description = strings.TrimSpace(*params.Description)
	}
	if params.Type != nil {
		task.Type = *params.Type
	}
	if params.Status != nil {
		task.Status = *params.Status
	}
	if params.Priority != nil {
		task.Priority = *params.Priority
	}
	if params.StartDateTime != nil {
		task.StartDateTime = *params.StartDateTime
	}
	if params.EndDateTime != nil {
		end := *params.EndDateTime
		task.EndDateTime = &end
	}
	if params.AssignedTo != nil {
		if *params.AssignedTo == "" {
			task.AssignedTo = nil
		} else {
			assignee := *params.AssignedTo
			task.AssignedTo = &assignee
		}
	}

	err = s.validateTask(ctx, task)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("task_id", task.ID).
			Msg("invalid task update")
		return nil, err
	}

	task.UpdatedAt = time.Now()
	err = s.tasks.UpdateTask(ctx, task)
	if err != nil {
		return nil, s.storeError(err, task.ID, "failed to update task")
	}
	s.logger.Debug().
		Str("task_id", task.ID).
		Msg("updated task")

	if assignee := task.AssigneeID(); assignee != "" && assignee != prevAssignee {
		s.emitter.Emit(ctx, notify.Event{Kind: notify.KindAssignment, Task: task})
	}
	if task.Status != prevStatus {
		s.emitter.Emit(ctx, notify.Event{
			Kind:  notify.KindStatusChange,
			Task:  task,
			Actor: s.actor(ctx, params.RequesterID),
		})
	}
	if prevPriority != models.PriorityHigh && task.Priority == models.PriorityHigh {
		s.emitter.Emit(ctx, notify.Event{Kind: notify.KindHighPriority, Task: task})
	}

	s.populate(ctx, task, nil)

	s.logger.Info().
		Str("task_id", task.ID).
		Str("user_id", params.RequesterID).
		Msg("updated task")
	return task, nil
}

func (s *taskServiceImpl) UpdateTaskStatus(ctx context.Context, params UpdateTaskStatusParams) (*models.Task, error) {
	if params.Status == "" {
		return nil, fmt.Errorf("%w: status is required", ErrValidation)
	}
	status, err := models.ParseTaskStatus(string(params.Status))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	task, err := s.authorizedTask(ctx, params.ID, params.RequesterID)
	if err != nil {
		return nil, err
	}

	prevStatus := task.Status
	task.Status = status
	task.UpdatedAt = time.Now()

	err = s.tasks.UpdateTask(ctx, task)
	if err != nil {
		return nil, s.storeError(err, task.ID, "failed to update task status")
	}
	s.logger.Debug().
		Str("task_id", task.ID).
		Str("status", string(task.Status)).
		Msg("updated task status")

	if task.Status != prevStatus {
		s.emitter.Emit(ctx, notify.Event{
			Kind:  notify.KindStatusChange,
			Task:  task,
			Actor: s.actor(ctx, params.RequesterID),
		})
	}

	s.populate(ctx, task, nil)

	s.logger.Info().
		Str("task_id", task.ID).
		Str("user_id", params.RequesterID).
		Msg("updated task status")
	return task, nil
}

func (s *taskServiceImpl) DeleteTask(ctx context.Context, taskID, requesterID string) error {
	task, err := s.tasks.GetTaskByID(ctx, taskID)
	if err != nil {
		return s.storeError(err, taskID, "failed to select task by id")
	}

	if !task.IsCreator(requesterID) {
		s.logger.Error().
			Str("task_id", taskID).
			Str("user_id", requesterID).
			Msg("only the creator can delete a task")
		return fmt.Errorf("%w: only the creator can delete this task", ErrForbidden)
	}

	err = s.tasks.DeleteTask(ctx, taskID)
	if err != nil {
		return s.storeError(err, taskID, "failed to delete task")
	}
	s.logger.Debug().
		Str("task_id", taskID).
		Msg("deleted task")

	s.logger.Info().
		Str("task_id", taskID).
		Str("user_id", requesterID).
		Msg("deleted task")
	return nil
}

// authorizedTask loads the task and checks that requesterID takes part in it.
func (s *taskServiceImpl) authorizedTask(ctx context.Context, taskID, requesterID string) (*models.Task, error) {
	task, err := s.tasks.GetTaskByID(ctx, taskID)
	if err != nil {
		return nil, s.storeError(err, taskID, "failed to select task by id")
	}

	if !task.IsCreator(requesterID) && !task.IsAssignee(requesterID) {
		s.logger.Error().
			Str("task_id", taskID).
			Str("user_id", requesterID).
			Msg("user is neither creator nor assignee")
		return nil, fmt.Errorf("%w: not a participant of this task", ErrForbidden)
	}
	return task, nil
}

func (s *taskServiceImpl) validateTask(ctx context.Context, task *models.Task) error {
	if utf8.RuneCountInString(task.Title) < models.TitleMinLength {
		return fmt.Errorf("%w: title must be at least %d characters", ErrValidation, models.TitleMinLength)
	}
	if task.StartDateTime.IsZero() {
		return fmt.Errorf("%w: start date is required", ErrValidation)
	}

	var err error
	if task.Type, err = models.ParseTaskType(string(task.Type)); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if task.Status, err = models.ParseTaskStatus(string(task.Status)); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if task.Priority, err = models.ParseTaskPriority(string(task.Priority)); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}

	assignee := task.AssigneeID()
	if assignee == "" || assignee == task.CreatedBy {
		return nil
	}
	_, err = s.users.GetUserByID(ctx, assignee)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("%w: assignee %s does not exist", ErrValidation, assignee)
		}
		return err
	}
	return nil
}

// actor resolves the display name of the user performing an update.
// A lookup failure leaves the name empty.
func (s *taskServiceImpl) actor(ctx context.Context, userID string) notify.Actor {
	a := notify.Actor{ID: userID}
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		s.logger.Warn().
			Err(err).
			Str("user_id", userID).
			Msg("failed to resolve actor name")
		return a
	}
	a.Name = user.Name
	return a
}

// populate fills the creator and assignee summaries. Missing users are
// left nil.
func (s *taskServiceImpl) populate(ctx context.Context, task *models.Task, cache map[string]*models.UserSummary) {
	lookup := func(id string) *models.UserSummary {
		if id == "" {
			return nil
		}
		if summary, ok := cache[id]; ok {
			return summary
		}

		var summary *models.UserSummary
		user, err := s.users.GetUserByID(ctx, id)
		if err == nil {
			summary = user.Summary()
		}
		if cache != nil {
			cache[id] = summary
		}
		return summary
	}

	task.Creator = lookup(task.CreatedBy)
	task.Assignee = lookup(task.AssigneeID())
}

func (s *taskServiceImpl) storeError(err error, taskID, msg string) error {
	if errors.Is(err, storage.ErrNotFound) {
		s.logger.Error().
			Str("task_id", taskID).
			Msg("task not found")
		return ErrTaskNotFound
	}

	s.logger.Error().
		Err(err).
		Str("task_id", taskID).
		Msg(msg)
	return err
}
