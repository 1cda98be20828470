package repository

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lromero/task-manager-api/internal/model"
)

// MemoryTaskRepository provides an in-memory store with the same contract
// as TaskRepository. It backs the handler tests; nothing durable lives here.
type MemoryTaskRepository struct {
	mu    sync.RWMutex
	tasks map[string]*model.Task
}

// NewMemoryTaskRepository creates an empty MemoryTaskRepository.
func NewMemoryTaskRepository() *MemoryTaskRepository {
	return &MemoryTaskRepository{
		tasks: make(map[string]*model.Task),
	}
}

// Create adds a new task with a generated id and creation timestamp.
func (r *MemoryTaskRepository) Create(ctx context.Context, req *model.CreateTaskRequest) (*model.Task, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, model.ErrTitleRequired
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	task := &model.Task{
		ID:          uuid.New().String(),
		Title:       title,
		Description: req.Description,
		Completed:   false,
		CreatedAt:   time.Now().UTC(),
	}
	r.tasks[task.ID] = task

	return copyTask(task), nil
}

// GetByID retrieves a task by its ID.
func (r *MemoryTaskRepository) GetByID(ctx context.Context, id string) (*model.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	task, ok := r.tasks[id]
	if !ok {
		return nil, model.ErrTaskNotFound
	}
	return copyTask(task), nil
}

// List returns all tasks, optionally filtered by completion state.
func (r *MemoryTaskRepository) List(ctx context.Context, completed *bool) ([]*model.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tasks := make([]*model.Task, 0, len(r.tasks))
	for _, task := range r.tasks {
		if completed != nil && task.Completed != *completed {
			continue
		}
		tasks = append(tasks, copyTask(task))
	}
	return tasks, nil
}

// Update applies the provided fields to an existing task.
func (r *MemoryTaskRepository) Update(ctx context.Context, id string, req *model.UpdateTaskRequest) (*model.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	task, ok := r.tasks[id]
	if !ok {
		return nil, model.ErrTaskNotFound
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, model.ErrTitleRequired
		}
		task.Title = title
	}
	if req.Description != nil {
		task.Description = *req.Description
	}
	if req.Completed != nil {
		task.Completed = *req.Completed
	}

	return copyTask(task), nil
}

// Delete removes a task by its ID.
func (r *MemoryTaskRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.tasks[id]; !ok {
		return model.ErrTaskNotFound
	}
	delete(r.tasks, id)
	return nil
}

// Count returns the current number of tasks.
func (r *MemoryTaskRepository) Count(ctx context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.tasks)), nil
}

func copyTask(t *model.Task) *model.Task {
	c := *t
	return &c
}
