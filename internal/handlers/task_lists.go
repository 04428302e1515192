package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lironatar/TasksList/internal/services"
	"github.com/lironatar/TasksList/pkg/response"
)

// TaskListHandler exposes the owner-scoped task list endpoints.
type TaskListHandler struct {
	lists *services.TaskListService
}

// NewTaskListHandler builds a TaskListHandler.
func NewTaskListHandler(lists *services.TaskListService) (*TaskListHandler, error) {
	if lists == nil {
		return nil, errors.New("task list handler: service is required")
	}
	return &TaskListHandler{lists: lists}, nil
}

// GET /api/v1/task-lists
func (h *TaskListHandler) List(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	summaries, err := h.lists.List(requestContext(c), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	out := make([]taskListDTO, len(summaries))
	for i := range summaries {
		out[i] = toTaskListDTO(&summaries[i])
	}
	response.Success(c, http.StatusOK, out)
}

// GET /api/v1/task-lists/:id
func (h *TaskListHandler) Get(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	summary, err := h.lists.Get(requestContext(c), userID, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, toTaskListDTO(summary))
}

type createTaskListRequest struct {
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Tasks       []createTaskRequest `json:"tasks"`
}

// POST /api/v1/task-lists
func (h *TaskListHandler) Create(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	var req createTaskListRequest
	if !bindAndValidate(c, &req) {
		return
	}

	input := services.CreateTaskListInput{
		Title:       req.Title,
		Description: req.Description,
		Tasks:       make([]services.CreateTaskInput, len(req.Tasks)),
	}
	for i, task := range req.Tasks {
		input.Tasks[i] = task.toInput()
	}

	summary, err := h.lists.Create(requestContext(c), userID, input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, toTaskListDTO(summary))
}

type updateTaskListRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
}

// PUT /api/v1/task-lists/:id
func (h *TaskListHandler) Update(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	var req updateTaskListRequest
	if !bindAndValidate(c, &req) {
		return
	}

	summary, err := h.lists.Update(requestContext(c), userID, c.Param("id"), services.UpdateTaskListInput{
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, toTaskListDTO(summary))
}

// DELETE /api/v1/task-lists/:id
func (h *TaskListHandler) Delete(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	if err := h.lists.Delete(requestContext(c), userID, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

type setStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// PUT /api/v1/task-lists/:id/tasks/status
// Moves every task of the list to one status in a single transaction.
func (h *TaskListHandler) SetAllStatus(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	var req setStatusRequest
	if !bindAndValidate(c, &req) {
		return
	}

	updated, err := h.lists.SetAllStatus(requestContext(c), userID, c.Param("id"), req.Status)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"updated": updated, "status": req.Status})
}
