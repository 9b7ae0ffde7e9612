package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"bean/internal/model"
	dtos "bean/internal/model/DTOs"
	"bean/internal/service"
	"bean/internal/tasklist"
)

// TaskHandler holds dependencies for HTTP handlers.
type TaskHandler struct {
	svc service.TaskService
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(s service.TaskService) *TaskHandler {
	return &TaskHandler{svc: s}
}

// Register mounts the task routes on g.
func (h *TaskHandler) Register(g gin.IRoutes) {
	g.POST("/tasks", h.CreateTask)
	g.GET("/tasks", h.ListTasks)
	g.GET("/tasks/:id", h.GetTask)
	g.PUT("/tasks/:id", h.UpdateTask)
	g.PUT("/tasks/:id/done", h.MarkTask)
	g.DELETE("/tasks/:id", h.DeleteTask)
}

func render(e tasklist.Entry) dtos.TaskResponse {
	return dtos.FromModel(e.Handle.String(), e.Index, &e.Task)
}

// writeError maps service and model errors to HTTP statuses.
func writeError(c *gin.Context, action string, err error) {
	var (
		pe  *model.ParseError
		ioe *model.IOError
	)
	switch {
	case errors.Is(err, service.ErrInvalidInput), errors.As(err, &pe):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNotFound), errors.Is(err, model.ErrIndexOutOfRange):
		c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
	case errors.As(err, &ioe):
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to " + action + " task: could not save"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to " + action + " task"})
	}
}

// CreateTask handles POST /tasks
func (h *TaskHandler) CreateTask(c *gin.Context) {
	var dto dtos.CreateTaskDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	tmodel, err := dto.ToModel()
	if err != nil {
		writeError(c, "create", err)
		return
	}

	e, err := h.svc.Create(c.Request.Context(), tmodel)
	if err != nil {
		writeError(c, "create", err)
		return
	}
	c.JSON(http.StatusCreated, render(e))
}

// ListTasks handles GET /tasks
// Supports query params: q (case-sensitive keyword), done
func (h *TaskHandler) ListTasks(c *gin.Context) {
	var done *bool
	if s := c.Query("done"); s != "" {
		v, err := strconv.ParseBool(s)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid done query param"})
			return
		}
		done = &v
	}

	entries, err := h.svc.List(c.Request.Context(), c.Query("q"), done)
	if err != nil {
		writeError(c, "list", err)
		return
	}

	items := make([]dtos.TaskResponse, 0, len(entries))
	for _, e := range entries {
		items = append(items, render(e))
	}
	c.Header("X-Total-Count", strconv.Itoa(len(items)))
	c.JSON(http.StatusOK, gin.H{
		"items": items,
		"total": len(items),
	})
}

// GetTask handles GET /tasks/:id
func (h *TaskHandler) GetTask(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing id"})
		return
	}

	e, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, "fetch", err)
		return
	}
	c.JSON(http.StatusOK, render(e))
}

// UpdateTask handles PUT /tasks/:id
// The body's details string follows the task type's update grammar.
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing id"})
		return
	}
	var dto dtos.UpdateTaskDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	e, err := h.svc.Update(c.Request.Context(), id, dto.Details)
	if err != nil {
		writeError(c, "update", err)
		return
	}
	c.JSON(http.StatusOK, render(e))
}

// MarkTask handles PUT /tasks/:id/done
func (h *TaskHandler) MarkTask(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing id"})
		return
	}
	var dto dtos.MarkTaskDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	e, err := h.svc.SetDone(c.Request.Context(), id, *dto.Done)
	if err != nil {
		writeError(c, "mark", err)
		return
	}
	c.JSON(http.StatusOK, render(e))
}

// DeleteTask handles DELETE /tasks/:id
// Responds with the removed task so the front end can echo it.
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing id"})
		return
	}

	e, err := h.svc.Delete(c.Request.Context(), id)
	if err != nil {
		writeError(c, "delete", err)
		return
	}
	c.JSON(http.StatusOK, render(e))
}
