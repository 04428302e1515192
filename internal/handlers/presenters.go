package handlers

import (
	"time"

	"github.com/lironatar/TasksList/internal/models"
	"github.com/lironatar/TasksList/internal/services"
)

type userDTO struct {
	ID          string     `json:"id"`
	Email       string     `json:"email"`
	Name        string     `json:"name"`
	FirstName   string     `json:"first_name"`
	LastName    string     `json:"last_name"`
	ProfileIcon string     `json:"profile_icon"`
	IsVerified  bool       `json:"is_verified"`
	CreatedAt   time.Time  `json:"created_at"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
}

func toUserDTO(user *models.User) userDTO {
	if user == nil {
		return userDTO{}
	}
	return userDTO{
		ID:          user.ID,
		Email:       user.Email,
		Name:        user.Name,
		FirstName:   user.FirstName,
		LastName:    user.LastName,
		ProfileIcon: user.ProfileIcon,
		IsVerified:  user.IsVerified,
		CreatedAt:   user.CreatedAt,
		LastLoginAt: user.LastLoginAt,
	}
}

type taskDTO struct {
	ID          string    `json:"id"`
	ListID      string    `json:"list_id"`
	Position    int64     `json:"position"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Priority    string    `json:"priority"`
	Status      string    `json:"status"`
	DueDate     *string   `json:"due_date"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toTaskDTO(task *models.Task) taskDTO {
	dto := taskDTO{
		ID:          task.ID,
		ListID:      task.ListID,
		Position:    task.Position,
		Title:       task.Title,
		Description: task.Description,
		Priority:    string(task.Priority),
		Status:      string(task.Status),
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
	if task.DueDate != nil {
		due := time.Time(*task.DueDate).Format(time.DateOnly)
		dto.DueDate = &due
	}
	return dto
}

func toTaskDTOs(tasks []models.Task) []taskDTO {
	out := make([]taskDTO, len(tasks))
	for i := range tasks {
		out[i] = toTaskDTO(&tasks[i])
	}
	return out
}

type taskListDTO struct {
	ID             string    `json:"id"`
	OwnerID        string    `json:"owner_id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	TaskCount      int64     `json:"task_count"`
	CompletedCount int64     `json:"completed_count"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
	Tasks          []taskDTO `json:"tasks,omitempty"`
}

func toTaskListDTO(summary *services.TaskListSummary) taskListDTO {
	dto := taskListDTO{
		ID:             summary.ID,
		OwnerID:        summary.OwnerID,
		Title:          summary.Title,
		Description:    summary.Description,
		TaskCount:      summary.TaskCount,
		CompletedCount: summary.CompletedCount,
		CreatedAt:      summary.CreatedAt,
		UpdatedAt:      summary.UpdatedAt,
	}
	if len(summary.Tasks) > 0 {
		dto.Tasks = toTaskDTOs(summary.Tasks)
	}
	return dto
}
