package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/lromero/task-manager-api/internal/model"
	"github.com/lromero/task-manager-api/internal/telemetry"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("github.com/lromero/task-manager-api/internal/handler")

// TaskStore is the persistence contract the handlers depend on. Both the
// MongoDB repository and the in-memory repository satisfy it.
type TaskStore interface {
	Create(ctx context.Context, req *model.CreateTaskRequest) (*model.Task, error)
	GetByID(ctx context.Context, id string) (*model.Task, error)
	List(ctx context.Context, completed *bool) ([]*model.Task, error)
	Update(ctx context.Context, id string, req *model.UpdateTaskRequest) (*model.Task, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}

// errorResponse is the body of every error reply. Error carries the
// underlying failure detail on infrastructure errors.
type errorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// TaskHandler handles HTTP requests for tasks.
type TaskHandler struct {
	store   TaskStore
	logger  *slog.Logger
	metrics *telemetry.Metrics
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(store TaskStore, logger *slog.Logger, metrics *telemetry.Metrics) *TaskHandler {
	return &TaskHandler{
		store:   store,
		logger:  logger,
		metrics: metrics,
	}
}

// Routes returns the chi router with task routes. Create requests pass
// through the validation middleware first.
func (h *TaskHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.List)
	r.With(ValidateCreateTask).Post("/", h.Create)
	r.Get("/{id}", h.GetByID)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)

	return r
}

// List returns all tasks, optionally filtered by completion state.
//
// @Summary List tasks
// @Tags tasks
// @Param completed query string false "filter by completion state (true/false)"
// @Success 200 {array} model.Task
// @Failure 500 {object} errorResponse
// @Router /api/tasks [get]
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	start := time.Now()

	ctx, span := tracer.Start(ctx, "TaskHandler.List")
	defer span.End()

	// Mirrors the filter contract: the parameter being present is what
	// matters, and only the literal "true" selects completed tasks.
	var completed *bool
	if q := r.URL.Query(); q.Has("completed") {
		v := q.Get("completed") == "true"
		completed = &v
	}

	tasks, err := h.store.List(ctx, completed)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list tasks", slog.Any("error", err))
		respondError(w, http.StatusInternalServerError, "failed to list tasks", err)
		h.recordMetrics(ctx, "GET", "/api/tasks", http.StatusInternalServerError, start)
		return
	}

	span.SetAttributes(attribute.Int("task.count", len(tasks)))
	h.logger.InfoContext(ctx, "tasks listed", slog.Int("count", len(tasks)))

	respondJSON(w, http.StatusOK, tasks)
	h.recordMetrics(ctx, "GET", "/api/tasks", http.StatusOK, start)
}

// Create adds a new task. The validation middleware has already checked the
// body shape; a store rejection at this point still maps to 400.
//
// @Summary Create a task
// @Tags tasks
// @Accept json
// @Param task body model.CreateTaskRequest true "task to create"
// @Success 201 {object} model.Task
// @Failure 400 {object} errorResponse
// @Router /api/tasks [post]
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	start := time.Now()

	ctx, span := tracer.Start(ctx, "TaskHandler.Create")
	defer span.End()

	var req model.CreateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WarnContext(ctx, "invalid request body", slog.Any("error", err))
		respondError(w, http.StatusBadRequest, "invalid request body", nil)
		h.recordMetrics(ctx, "POST", "/api/tasks", http.StatusBadRequest, start)
		return
	}

	h.logger.InfoContext(ctx, "creating task", slog.String("title", req.Title))

	task, err := h.store.Create(ctx, &req)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to create task", slog.Any("error", err))
		respondError(w, http.StatusBadRequest, "failed to create task", err)
		h.recordMetrics(ctx, "POST", "/api/tasks", http.StatusBadRequest, start)
		return
	}

	span.SetAttributes(attribute.String("task.id", task.ID))
	h.logger.InfoContext(ctx, "task created", slog.String("id", task.ID))

	respondJSON(w, http.StatusCreated, task)
	h.recordMetrics(ctx, "POST", "/api/tasks", http.StatusCreated, start)
}

// GetByID returns a task by ID.
//
// @Summary Get a task by id
// @Tags tasks
// @Param id path string true "task id"
// @Success 200 {object} model.Task
// @Failure 404 {object} errorResponse
// @Failure 500 {object} errorResponse
// @Router /api/tasks/{id} [get]
func (h *TaskHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	start := time.Now()
	id := chi.URLParam(r, "id")

	ctx, span := tracer.Start(ctx, "TaskHandler.GetByID",
		trace.WithAttributes(attribute.String("task.id", id)),
	)
	defer span.End()

	task, err := h.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrTaskNotFound) {
			h.logger.WarnContext(ctx, "task not found", slog.String("id", id))
			respondError(w, http.StatusNotFound, "task not found", nil)
			h.recordMetrics(ctx, "GET", "/api/tasks/{id}", http.StatusNotFound, start)
			return
		}
		h.logger.ErrorContext(ctx, "failed to get task", slog.Any("error", err))
		respondError(w, http.StatusInternalServerError, "failed to get task", err)
		h.recordMetrics(ctx, "GET", "/api/tasks/{id}", http.StatusInternalServerError, start)
		return
	}

	h.logger.InfoContext(ctx, "task retrieved", slog.String("id", id))

	respondJSON(w, http.StatusOK, task)
	h.recordMetrics(ctx, "GET", "/api/tasks/{id}", http.StatusOK, start)
}

// Update applies the provided fields to an existing task and returns the
// post-update record. Fields absent from the body are left unchanged.
//
// @Summary Update a task
// @Tags tasks
// @Accept json
// @Param id path string true "task id"
// @Param task body model.UpdateTaskRequest true "fields to update"
// @Success 200 {object} model.Task
// @Failure 404 {object} errorResponse
// @Failure 500 {object} errorResponse
// @Router /api/tasks/{id} [put]
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	start := time.Now()
	id := chi.URLParam(r, "id")

	ctx, span := tracer.Start(ctx, "TaskHandler.Update",
		trace.WithAttributes(attribute.String("task.id", id)),
	)
	defer span.End()

	var req model.UpdateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WarnContext(ctx, "invalid request body", slog.Any("error", err))
		respondError(w, http.StatusBadRequest, "invalid request body", nil)
		h.recordMetrics(ctx, "PUT", "/api/tasks/{id}", http.StatusBadRequest, start)
		return
	}

	h.logger.InfoContext(ctx, "updating task", slog.String("id", id))

	task, err := h.store.Update(ctx, id, &req)
	if err != nil {
		if errors.Is(err, model.ErrTaskNotFound) {
			h.logger.WarnContext(ctx, "task not found", slog.String("id", id))
			respondError(w, http.StatusNotFound, "task not found", nil)
			h.recordMetrics(ctx, "PUT", "/api/tasks/{id}", http.StatusNotFound, start)
			return
		}
		h.logger.ErrorContext(ctx, "failed to update task", slog.Any("error", err))
		respondError(w, http.StatusInternalServerError, "failed to update task", err)
		h.recordMetrics(ctx, "PUT", "/api/tasks/{id}", http.StatusInternalServerError, start)
		return
	}

	h.logger.InfoContext(ctx, "task updated", slog.String("id", id))

	respondJSON(w, http.StatusOK, task)
	h.recordMetrics(ctx, "PUT", "/api/tasks/{id}", http.StatusOK, start)
}

// Delete removes a task.
//
// @Summary Delete a task
// @Tags tasks
// @Param id path string true "task id"
// @Success 200 {object} map[string]string
// @Failure 404 {object} errorResponse
// @Failure 500 {object} errorResponse
// @Router /api/tasks/{id} [delete]
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	start := time.Now()
	id := chi.URLParam(r, "id")

	ctx, span := tracer.Start(ctx, "TaskHandler.Delete",
		trace.WithAttributes(attribute.String("task.id", id)),
	)
	defer span.End()

	if err := h.store.Delete(ctx, id); err != nil {
		if errors.Is(err, model.ErrTaskNotFound) {
			h.logger.WarnContext(ctx, "task not found", slog.String("id", id))
			respondError(w, http.StatusNotFound, "task not found", nil)
			h.recordMetrics(ctx, "DELETE", "/api/tasks/{id}", http.StatusNotFound, start)
			return
		}
		h.logger.ErrorContext(ctx, "failed to delete task", slog.Any("error", err))
		respondError(w, http.StatusInternalServerError, "failed to delete task", err)
		h.recordMetrics(ctx, "DELETE", "/api/tasks/{id}", http.StatusInternalServerError, start)
		return
	}

	h.logger.InfoContext(ctx, "task deleted", slog.String("id", id))

	respondJSON(w, http.StatusOK, map[string]string{"message": "task deleted successfully"})
	h.recordMetrics(ctx, "DELETE", "/api/tasks/{id}", http.StatusOK, start)
}

// Health returns a health check response.
func (h *TaskHandler) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

func respondError(w http.ResponseWriter, status int, message string, err error) {
	resp := errorResponse{Message: message}
	if err != nil {
		resp.Error = err.Error()
	}
	respondJSON(w, status, resp)
}

func (h *TaskHandler) recordMetrics(ctx context.Context, method, route string, status int, start time.Time) {
	duration := time.Since(start).Seconds()

	attrs := metric.WithAttributes(
		attribute.String("http.method", method),
		attribute.String("http.route", route),
		attribute.Int("http.status_code", status),
	)

	h.metrics.RequestCounter.Add(ctx, 1, attrs)
	h.metrics.RequestDuration.Record(ctx, duration, attrs)
}
