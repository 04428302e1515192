package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lironatar/TasksList/internal/services"
	"github.com/lironatar/TasksList/pkg/response"
)

// TaskHandler exposes task endpoints nested under lists and addressed by id.
type TaskHandler struct {
	tasks *services.TaskService
}

// NewTaskHandler builds a TaskHandler.
func NewTaskHandler(tasks *services.TaskService) (*TaskHandler, error) {
	if tasks == nil {
		return nil, errors.New("task handler: service is required")
	}
	return &TaskHandler{tasks: tasks}, nil
}

type createTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
	Status      string `json:"status"`
	DueDate     string `json:"due_date"`
}

func (r createTaskRequest) toInput() services.CreateTaskInput {
	return services.CreateTaskInput{
		Title:       r.Title,
		Description: r.Description,
		Priority:    r.Priority,
		Status:      r.Status,
		DueDate:     r.DueDate,
	}
}

// GET /api/v1/task-lists/:id/tasks
func (h *TaskHandler) List(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	tasks, err := h.tasks.List(requestContext(c), userID, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, toTaskDTOs(tasks))
}

// POST /api/v1/task-lists/:id/tasks
func (h *TaskHandler) Create(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	var req createTaskRequest
	if !bindAndValidate(c, &req) {
		return
	}

	task, err := h.tasks.Create(requestContext(c), userID, c.Param("id"), req.toInput())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, toTaskDTO(task))
}

// GET /api/v1/tasks/:id
func (h *TaskHandler) Get(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	task, err := h.tasks.Get(requestContext(c), userID, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, toTaskDTO(task))
}

type updateTaskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Priority    *string `json:"priority"`
	Status      *string `json:"status"`
	DueDate     *string `json:"due_date"`
}

// PUT /api/v1/tasks/:id
// Any subset of fields may be sent; an empty due_date clears it.
func (h *TaskHandler) Update(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	var req updateTaskRequest
	if !bindAndValidate(c, &req) {
		return
	}

	task, err := h.tasks.Update(requestContext(c), userID, c.Param("id"), services.UpdateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		Status:      req.Status,
		DueDate:     req.DueDate,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, toTaskDTO(task))
}

// DELETE /api/v1/tasks/:id
func (h *TaskHandler) Delete(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	if err := h.tasks.Delete(requestContext(c), userID, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}
