package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"taskboard/internal/models"
	"taskboard/internal/service"

	"github.com/gin-gonic/gin"
)

type createTaskRequest struct {
	Title       string     `json:"title" binding:"required,max=200"`
	Description string     `json:"description" binding:"omitempty,max=2000"`
	Priority    string     `json:"priority" binding:"omitempty,oneof=low medium high"`
	DueDate     *time.Time `json:"due_date"`
}

// updateTaskRequest is a partial update; absent fields stay untouched.
type updateTaskRequest struct {
	Title       *string    `json:"title" binding:"omitempty,max=200"`
	Description *string    `json:"description" binding:"omitempty,max=2000"`
	Status      *string    `json:"status" binding:"omitempty,oneof=todo in_progress completed"`
	Priority    *string    `json:"priority" binding:"omitempty,oneof=low medium high"`
	DueDate     *time.Time `json:"due_date"`
}

// taskID parses the :id path parameter; writes a 422 and returns false on
// garbage.
func (h *Handler) taskID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		h.respondFieldError(c, "id", "must be a positive integer")
		return 0, false
	}
	return id, true
}

// taskError maps task service failures onto HTTP responses.
func (h *Handler) taskError(c *gin.Context, err error, logKey string) {
	switch {
	case errors.Is(err, service.ErrTaskNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": errTaskNotFound})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "you do not have access to this task"})
	case errors.Is(err, service.ErrEmptyTitle):
		h.respondFieldError(c, "title", "must not be empty")
	case errors.Is(err, service.ErrInvalidStatus):
		h.respondFieldError(c, "status", "must be one of: todo, in_progress, completed")
	case errors.Is(err, service.ErrInvalidPriority):
		h.respondFieldError(c, "priority", "must be one of: low, medium, high")
	default:
		h.logAndJSONError(c, http.StatusInternalServerError, errInternal, logKey, err)
	}
}

// @Summary      Create a task
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Param        body  body      createTaskRequest  true  "Task payload"
// @Success      201   {object}  models.Task
// @Failure      401   {object}  map[string]string
// @Failure      422   {object}  map[string]interface{}
// @Router       /api/tasks [post]
// @Security     BearerAuth
func (h *Handler) createTask(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondValidationError(c, err)
		return
	}

	task, err := h.services.Tasks.Create(c.Request.Context(), user, service.TaskCreateParams{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
	})
	if err != nil {
		h.taskError(c, err, "task_create_failed")
		return
	}

	c.JSON(http.StatusCreated, task)
}

// @Summary      List own tasks
// @Tags         tasks
// @Produce      json
// @Param        status    query  string  false  "Filter by status"    Enums(todo,in_progress,completed)
// @Param        priority  query  string  false  "Filter by priority"  Enums(low,medium,high)
// @Param        offset    query  int     false  "Pagination offset"
// @Param        limit     query  int     false  "Page size (default 10, max 100)"
// @Success      200  {object}  map[string]interface{}  "count, tasks"
// @Failure      401  {object}  map[string]string
// @Failure      422  {object}  map[string]interface{}
// @Router       /api/tasks [get]
// @Security     BearerAuth
func (h *Handler) listTasks(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	filter := models.TaskFilter{
		Status:   c.Query("status"),
		Priority: c.Query("priority"),
	}
	var ok2 bool
	if filter.Offset, ok2 = h.queryInt(c, "offset", 0); !ok2 {
		return
	}
	if filter.Limit, ok2 = h.queryInt(c, "limit", 0); !ok2 {
		return
	}

	tasks, err := h.services.Tasks.List(c.Request.Context(), user, filter)
	if err != nil {
		h.taskError(c, err, "task_list_failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"count": len(tasks),
		"tasks": tasks,
	})
}

// queryInt reads an optional non-negative integer query parameter.
func (h *Handler) queryInt(c *gin.Context, name string, def int) (int, bool) {
	s := c.Query(name)
	if s == "" {
		return def, true
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 0 {
		h.respondFieldError(c, name, "must be a non-negative integer")
		return 0, false
	}
	return v, true
}

// @Summary      Get a task by ID
// @Tags         tasks
// @Produce      json
// @Param        id   path      int  true  "Task ID"
// @Success      200  {object}  models.Task
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/tasks/{id} [get]
// @Security     BearerAuth
func (h *Handler) getTask(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	id, ok := h.taskID(c)
	if !ok {
		return
	}

	task, err := h.services.Tasks.Get(c.Request.Context(), user, id)
	if err != nil {
		h.taskError(c, err, "task_get_failed")
		return
	}

	c.JSON(http.StatusOK, task)
}

// @Summary      Update a task
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Param        id    path      int                true  "Task ID"
// @Param        body  body      updateTaskRequest  true  "Fields to change"
// @Success      200   {object}  models.Task
// @Failure      401   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      422   {object}  map[string]interface{}
// @Router       /api/tasks/{id} [put]
// @Security     BearerAuth
func (h *Handler) updateTask(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	id, ok := h.taskID(c)
	if !ok {
		return
	}

	var req updateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondValidationError(c, err)
		return
	}

	task, err := h.services.Tasks.Update(c.Request.Context(), user, id, service.TaskUpdateParams{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
	})
	if err != nil {
		h.taskError(c, err, "task_update_failed")
		return
	}

	c.JSON(http.StatusOK, task)
}

// @Summary      Delete a task
// @Tags         tasks
// @Param        id  path  int  true  "Task ID"
// @Success      204
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/tasks/{id} [delete]
// @Security     BearerAuth
func (h *Handler) deleteTask(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	id, ok := h.taskID(c)
	if !ok {
		return
	}

	if err := h.services.Tasks.Delete(c.Request.Context(), user, id); err != nil {
		h.taskError(c, err, "task_delete_failed")
		return
	}

	c.Status(http.StatusNoContent)
}
