package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"taskboard/internal/events"
	"taskboard/internal/models"
	"taskboard/internal/repository"
)

const (
	defaultListLimit = 10
	maxListLimit     = 100
)

// Domain errors for task flows.
var (
	ErrTaskNotFound    = errors.New("task not found")
	ErrForbidden       = errors.New("not the task owner")
	ErrInvalidStatus   = errors.New("invalid status: must be todo, in_progress, or completed")
	ErrInvalidPriority = errors.New("invalid priority: must be low, medium, or high")
	ErrEmptyTitle      = errors.New("title must not be empty")
)

type TaskService struct {
	tasks repository.Tasks
	feed  *events.Broadcaster
}

// NewTaskService wires the task repo and the live event feed. feed may be
// nil; publishing is then skipped.
func NewTaskService(tasks repository.Tasks, feed *events.Broadcaster) *TaskService {
	return &TaskService{tasks: tasks, feed: feed}
}

var _ Tasks = (*TaskService)(nil)

// Create stores a new task owned by owner. Missing priority defaults to
// medium; status always starts at todo.
func (s *TaskService) Create(ctx context.Context, owner *models.User, p TaskCreateParams) (*models.Task, error) {
	title := strings.TrimSpace(p.Title)
	if title == "" {
		return nil, ErrEmptyTitle
	}

	priority := p.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}
	if !models.ValidPriority(priority) {
		return nil, ErrInvalidPriority
	}

	t := &models.Task{
		OwnerID:     owner.ID,
		Title:       title,
		Description: strings.TrimSpace(p.Description),
		Status:      models.StatusTodo,
		Priority:    priority,
		DueDate:     p.DueDate,
		CreatedAt:   time.Now().UTC(),
	}
	id, err := s.tasks.Create(ctx, t)
	if err != nil {
		return nil, err
	}
	t.ID = id

	s.publish(events.TaskCreated, t)
	return t, nil
}

// Get loads a task, enforcing ownership (admins pass).
func (s *TaskService) Get(ctx context.Context, actor *models.User, id int) (*models.Task, error) {
	return s.load(ctx, actor, id)
}

// List returns the owner's tasks after validating filters and clamping
// pagination to sane bounds.
func (s *TaskService) List(ctx context.Context, owner *models.User, f models.TaskFilter) ([]models.Task, error) {
	if f.Status != "" && !models.ValidStatus(f.Status) {
		return nil, ErrInvalidStatus
	}
	if f.Priority != "" && !models.ValidPriority(f.Priority) {
		return nil, ErrInvalidPriority
	}
	if f.Limit <= 0 {
		f.Limit = defaultListLimit
	}
	if f.Limit > maxListLimit {
		f.Limit = maxListLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	return s.tasks.ListByOwner(ctx, owner.ID, f)
}

// Update applies a partial update to a task the actor may mutate. A status
// transition into completed stamps CompletedAt.
func (s *TaskService) Update(ctx context.Context, actor *models.User, id int, p TaskUpdateParams) (*models.Task, error) {
	t, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if p.Title != nil {
		title := strings.TrimSpace(*p.Title)
		if title == "" {
			return nil, ErrEmptyTitle
		}
		t.Title = title
	}
	if p.Description != nil {
		t.Description = strings.TrimSpace(*p.Description)
	}
	if p.Status != nil {
		if !models.ValidStatus(*p.Status) {
			return nil, ErrInvalidStatus
		}
		if *p.Status == models.StatusCompleted && t.Status != models.StatusCompleted {
			t.CompletedAt = &now
		}
		t.Status = *p.Status
	}
	if p.Priority != nil {
		if !models.ValidPriority(*p.Priority) {
			return nil, ErrInvalidPriority
		}
		t.Priority = *p.Priority
	}
	if p.DueDate != nil {
		t.DueDate = p.DueDate
	}
	t.UpdatedAt = &now

	if err := s.tasks.Update(ctx, t); err != nil {
		return nil, err
	}

	s.publish(events.TaskUpdated, t)
	return t, nil
}

// Delete removes a task the actor may mutate.
func (s *TaskService) Delete(ctx context.Context, actor *models.User, id int) error {
	t, err := s.load(ctx, actor, id)
	if err != nil {
		return err
	}
	if err := s.tasks.Delete(ctx, t.ID); err != nil {
		return err
	}

	s.publish(events.TaskDeleted, t)
	return nil
}

// load fetches the task and runs the ownership check before anything else
// touches it.
func (s *TaskService) load(ctx context.Context, actor *models.User, id int) (*models.Task, error) {
	t, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, ErrTaskNotFound
	}
	if t.OwnerID != actor.ID && !actor.IsAdmin {
		return nil, ErrForbidden
	}
	return t, nil
}

func (s *TaskService) publish(typ string, t *models.Task) {
	if s.feed == nil {
		return
	}
	s.feed.Publish(events.TaskEvent{Type: typ, Task: *t})
}
