package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/lironatar/TasksList/internal/models"
	apperrors "github.com/lironatar/TasksList/pkg/errors"
	"github.com/lironatar/TasksList/pkg/metrics"
)

// CreateTaskInput captures the fields accepted when creating a task. Empty priority and
// status fall back to medium and pending.
type CreateTaskInput struct {
	Title       string
	Description string
	Priority    string
	Status      string
	DueDate     string
}

// UpdateTaskInput is a sparse set of field assignments. A nil pointer leaves the field
// unchanged; an empty DueDate clears it.
type UpdateTaskInput struct {
	Title       *string
	Description *string
	Priority    *string
	Status      *string
	DueDate     *string
}

// taskOrder lists tasks in the order they were added. created_at and id only
// break ties between concurrent inserts.
const taskOrder = "position ASC, created_at ASC, id ASC"

// TaskService manages tasks inside lists owned by the acting user.
type TaskService struct {
	db  *gorm.DB
	now func() time.Time
}

// NewTaskService constructs a task service once a database handle is supplied.
func NewTaskService(db *gorm.DB, clock func() time.Time) (*TaskService, error) {
	if db == nil {
		return nil, errors.New("task service: db is required")
	}
	return &TaskService{db: db, now: clockOrNow(clock)}, nil
}

func buildTask(listID string, input CreateTaskInput, now time.Time) (models.Task, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return models.Task{}, apperrors.NewValidation("title is required")
	}
	priority, ok := models.ParseTaskPriority(input.Priority)
	if !ok {
		return models.Task{}, apperrors.NewValidation("priority must be one of low, medium, high")
	}
	status, ok := models.ParseTaskStatus(input.Status)
	if !ok {
		return models.Task{}, apperrors.NewValidation("status must be one of pending, in_progress, completed")
	}
	due, err := ParseDueDate(input.DueDate)
	if err != nil {
		return models.Task{}, err
	}

	return models.Task{
		BaseModel:   models.BaseModel{CreatedAt: now, UpdatedAt: now},
		ListID:      listID,
		Title:       title,
		Description: strings.TrimSpace(input.Description),
		Priority:    priority,
		Status:      status,
		DueDate:     due,
	}, nil
}

// Create adds a task to a list owned by ownerID. Unknown and foreign lists are both ErrNotFound.
func (s *TaskService) Create(ctx context.Context, ownerID, listID string, input CreateTaskInput) (*models.Task, error) {
	ctx = ensureContext(ctx)

	task, err := buildTask(strings.TrimSpace(listID), input, s.now())
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := loadOwnedList(tx, ownerID, listID); err != nil {
			if errors.Is(err, apperrors.ErrForbidden) {
				return apperrors.NewNotFound("Task list not found")
			}
			return err
		}
		position, err := nextTaskPosition(tx, task.ListID)
		if err != nil {
			return err
		}
		task.Position = position
		return tx.Create(&task).Error
	})
	if err != nil {
		if isAppError(err) {
			return nil, err
		}
		return nil, fmt.Errorf("task service: create: %w", err)
	}
	metrics.TaskMutations.WithLabelValues("task", "create").Inc()
	return &task, nil
}

// List returns the tasks of a list in creation order.
func (s *TaskService) List(ctx context.Context, ownerID, listID string) ([]models.Task, error) {
	ctx = ensureContext(ctx)
	db := s.db.WithContext(ctx)

	list, err := loadOwnedList(db, ownerID, listID)
	if err != nil {
		return nil, err
	}

	tasks := make([]models.Task, 0)
	if err := db.Where("list_id = ?", list.ID).
		Order(taskOrder).
		Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("task service: list: %w", err)
	}
	return tasks, nil
}

func nextTaskPosition(db *gorm.DB, listID string) (int64, error) {
	var last int64
	if err := db.Model(&models.Task{}).
		Where("list_id = ?", listID).
		Select("COALESCE(MAX(position), 0)").
		Scan(&last).Error; err != nil {
		return 0, fmt.Errorf("next task position: %w", err)
	}
	return last + 1, nil
}

// Get returns a task in one of ownerID's lists.
func (s *TaskService) Get(ctx context.Context, ownerID, taskID string) (*models.Task, error) {
	ctx = ensureContext(ctx)
	return loadOwnedTask(s.db.WithContext(ctx), ownerID, taskID)
}

// Update applies any subset of fields in one write. Tasks outside ownerID's lists are ErrNotFound.
func (s *TaskService) Update(ctx context.Context, ownerID, taskID string, input UpdateTaskInput) (*models.Task, error) {
	ctx = ensureContext(ctx)

	updates := map[string]any{}
	if title := trimmedPtr(input.Title); title != nil {
		if *title == "" {
			return nil, apperrors.NewValidation("title cannot be empty")
		}
		updates["title"] = *title
	}
	if description := trimmedPtr(input.Description); description != nil {
		updates["description"] = *description
	}
	if input.Priority != nil {
		priority, ok := models.ParseTaskPriority(*input.Priority)
		if !ok || strings.TrimSpace(*input.Priority) == "" {
			return nil, apperrors.NewValidation("priority must be one of low, medium, high")
		}
		updates["priority"] = priority
	}
	if input.Status != nil {
		status, ok := models.ParseTaskStatus(*input.Status)
		if !ok || strings.TrimSpace(*input.Status) == "" {
			return nil, apperrors.NewValidation("status must be one of pending, in_progress, completed")
		}
		updates["status"] = status
	}
	if input.DueDate != nil {
		due, err := ParseDueDate(*input.DueDate)
		if err != nil {
			return nil, err
		}
		if due == nil {
			updates["due_date"] = nil
		} else {
			updates["due_date"] = *due
		}
	}

	db := s.db.WithContext(ctx)
	task, err := loadOwnedTask(db, ownerID, taskID)
	if err != nil {
		return nil, err
	}
	if len(updates) == 0 {
		return task, nil
	}

	updates["updated_at"] = s.now()
	if err := db.Model(&models.Task{}).Where("id = ?", task.ID).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("task service: update: %w", err)
	}
	metrics.TaskMutations.WithLabelValues("task", "update").Inc()

	return loadOwnedTask(db, ownerID, taskID)
}

// Delete removes a task. Deleting an id that no longer exists is ErrNotFound.
func (s *TaskService) Delete(ctx context.Context, ownerID, taskID string) error {
	ctx = ensureContext(ctx)
	db := s.db.WithContext(ctx)

	task, err := loadOwnedTask(db, ownerID, taskID)
	if err != nil {
		return err
	}
	result := db.Where("id = ?", task.ID).Delete(&models.Task{})
	if result.Error != nil {
		return fmt.Errorf("task service: delete: %w", result.Error)
	}
	// Lost a race with another delete.
	if result.RowsAffected == 0 {
		return apperrors.NewNotFound("Task not found")
	}
	metrics.TaskMutations.WithLabelValues("task", "delete").Inc()
	return nil
}

func loadOwnedTask(db *gorm.DB, ownerID, taskID string) (*models.Task, error) {
	taskID = strings.TrimSpace(taskID)
	if taskID == "" {
		return nil, apperrors.NewNotFound("Task not found")
	}

	owned := db.Session(&gorm.Session{NewDB: true}).
		Model(&models.TaskList{}).
		Select("id").
		Where("owner_id = ?", strings.TrimSpace(ownerID))

	var task models.Task
	err := db.Where("id = ? AND list_id IN (?)", taskID, owned).Take(&task).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NewNotFound("Task not found")
	}
	if err != nil {
		return nil, fmt.Errorf("load task: %w", err)
	}
	return &task, nil
}
