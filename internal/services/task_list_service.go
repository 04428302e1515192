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

// TaskListSummary is a task list with counts computed from its tasks at read time.
type TaskListSummary struct {
	models.TaskList
	TaskCount      int64
	CompletedCount int64
}

// CreateTaskListInput describes a new list and an optional initial batch of tasks.
type CreateTaskListInput struct {
	Title       string
	Description string
	Tasks       []CreateTaskInput
}

// UpdateTaskListInput describes mutable list fields. A nil pointer indicates no change.
type UpdateTaskListInput struct {
	Title       *string
	Description *string
}

// TaskListService manages task lists scoped to their owners.
type TaskListService struct {
	db  *gorm.DB
	now func() time.Time
}

// NewTaskListService constructs a task list service once a database handle is supplied.
func NewTaskListService(db *gorm.DB, clock func() time.Time) (*TaskListService, error) {
	if db == nil {
		return nil, errors.New("task list service: db is required")
	}
	return &TaskListService{db: db, now: clockOrNow(clock)}, nil
}

// Create inserts the list and all initial tasks in one transaction. Nothing is stored if any task is invalid.
func (s *TaskListService) Create(ctx context.Context, ownerID string, input CreateTaskListInput) (*TaskListSummary, error) {
	ctx = ensureContext(ctx)
	ownerID = strings.TrimSpace(ownerID)
	if ownerID == "" {
		return nil, apperrors.ErrUnauthorized
	}

	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, apperrors.NewValidation("title is required")
	}

	now := s.now()
	list := models.TaskList{
		BaseModel:   models.BaseModel{CreatedAt: now, UpdatedAt: now},
		OwnerID:     ownerID,
		Title:       title,
		Description: strings.TrimSpace(input.Description),
	}

	tasks := make([]models.Task, 0, len(input.Tasks))
	for i, taskInput := range input.Tasks {
		task, err := buildTask("", taskInput, now)
		if err != nil {
			var appErr *apperrors.AppError
			if errors.As(err, &appErr) {
				return nil, appErr.WithMessage(fmt.Sprintf("tasks[%d]: %s", i, appErr.Message))
			}
			return nil, err
		}
		task.Position = int64(i + 1)
		tasks = append(tasks, task)
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&list).Error; err != nil {
			return fmt.Errorf("create list: %w", err)
		}
		if len(tasks) == 0 {
			return nil
		}
		for i := range tasks {
			tasks[i].ListID = list.ID
		}
		if err := tx.Create(&tasks).Error; err != nil {
			return fmt.Errorf("create tasks: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("task list service: %w", err)
	}
	metrics.TaskMutations.WithLabelValues("task_list", "create").Inc()

	summary := &TaskListSummary{TaskList: list, TaskCount: int64(len(tasks))}
	for _, task := range tasks {
		if task.Status == models.TaskStatusCompleted {
			summary.CompletedCount++
		}
	}
	summary.Tasks = tasks
	return summary, nil
}

// Get returns a list owned by ownerID together with its tasks. Lists of other users are ErrForbidden.
func (s *TaskListService) Get(ctx context.Context, ownerID, listID string) (*TaskListSummary, error) {
	ctx = ensureContext(ctx)
	db := s.db.WithContext(ctx)

	list, err := loadOwnedList(db, ownerID, listID)
	if err != nil {
		return nil, err
	}
	summaries, err := withCounts(db, []models.TaskList{*list})
	if err != nil {
		return nil, fmt.Errorf("task list service: %w", err)
	}
	summary := &summaries[0]
	if err := db.Where("list_id = ?", list.ID).Order(taskOrder).Find(&summary.Tasks).Error; err != nil {
		return nil, fmt.Errorf("task list service: load tasks: %w", err)
	}
	return summary, nil
}

// List returns the owner's lists, newest first, with live task counts.
func (s *TaskListService) List(ctx context.Context, ownerID string) ([]TaskListSummary, error) {
	ctx = ensureContext(ctx)
	db := s.db.WithContext(ctx)

	var lists []models.TaskList
	if err := db.Where("owner_id = ?", strings.TrimSpace(ownerID)).
		Order("created_at DESC").
		Find(&lists).Error; err != nil {
		return nil, fmt.Errorf("task list service: list: %w", err)
	}

	summaries, err := withCounts(db, lists)
	if err != nil {
		return nil, fmt.Errorf("task list service: %w", err)
	}
	return summaries, nil
}

// Update applies the supplied fields, leaving the rest unchanged.
func (s *TaskListService) Update(ctx context.Context, ownerID, listID string, input UpdateTaskListInput) (*TaskListSummary, error) {
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

	db := s.db.WithContext(ctx)
	list, err := loadOwnedList(db, ownerID, listID)
	if err != nil {
		return nil, err
	}

	if len(updates) > 0 {
		updates["updated_at"] = s.now()
		if err := db.Model(list).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("task list service: update: %w", err)
		}
		metrics.TaskMutations.WithLabelValues("task_list", "update").Inc()
	}

	return s.Get(ctx, ownerID, listID)
}

// Delete removes the list and every task in it.
func (s *TaskListService) Delete(ctx context.Context, ownerID, listID string) error {
	ctx = ensureContext(ctx)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		list, err := loadOwnedList(tx, ownerID, listID)
		if err != nil {
			return err
		}
		if err := tx.Where("list_id = ?", list.ID).Delete(&models.Task{}).Error; err != nil {
			return fmt.Errorf("delete tasks: %w", err)
		}
		if err := tx.Delete(list).Error; err != nil {
			return fmt.Errorf("delete list: %w", err)
		}
		return nil
	})
	if err != nil {
		if isAppError(err) {
			return err
		}
		return fmt.Errorf("task list service: %w", err)
	}
	metrics.TaskMutations.WithLabelValues("task_list", "delete").Inc()
	return nil
}

// SetAllStatus moves every task in the list to status in one transaction.
// It returns the number of tasks in the list.
func (s *TaskListService) SetAllStatus(ctx context.Context, ownerID, listID, status string) (int64, error) {
	ctx = ensureContext(ctx)

	parsed, ok := models.ParseTaskStatus(status)
	if !ok || strings.TrimSpace(status) == "" {
		return 0, apperrors.NewValidation("status must be one of pending, in_progress, completed")
	}

	var total int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		list, err := loadOwnedList(tx, ownerID, listID)
		if err != nil {
			return err
		}
		if err := tx.Model(&models.Task{}).
			Where("list_id = ?", list.ID).
			Updates(map[string]any{"status": parsed, "updated_at": s.now()}).Error; err != nil {
			return fmt.Errorf("update statuses: %w", err)
		}
		return tx.Model(&models.Task{}).Where("list_id = ?", list.ID).Count(&total).Error
	})
	if err != nil {
		if isAppError(err) {
			return 0, err
		}
		return 0, fmt.Errorf("task list service: %w", err)
	}
	metrics.TaskMutations.WithLabelValues("task", "bulk_status").Inc()
	return total, nil
}

func loadOwnedList(db *gorm.DB, ownerID, listID string) (*models.TaskList, error) {
	ownerID = strings.TrimSpace(ownerID)
	listID = strings.TrimSpace(listID)
	if listID == "" {
		return nil, apperrors.NewNotFound("Task list not found")
	}

	var list models.TaskList
	err := db.Where("id = ?", listID).Take(&list).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NewNotFound("Task list not found")
	}
	if err != nil {
		return nil, fmt.Errorf("load task list: %w", err)
	}
	if list.OwnerID != ownerID {
		return nil, apperrors.ErrForbidden.WithMessage("Task list belongs to another user")
	}
	return &list, nil
}

type listCounts struct {
	ListID    string
	Total     int64
	Completed int64
}

func withCounts(db *gorm.DB, lists []models.TaskList) ([]TaskListSummary, error) {
	summaries := make([]TaskListSummary, len(lists))
	if len(lists) == 0 {
		return summaries, nil
	}

	ids := make([]string, len(lists))
	for i, list := range lists {
		ids[i] = list.ID
		summaries[i].TaskList = list
	}

	var rows []listCounts
	if err := db.Model(&models.Task{}).
		Select("list_id, COUNT(*) AS total, SUM(CASE WHEN status = ? THEN 1 ELSE 0 END) AS completed", models.TaskStatusCompleted).
		Where("list_id IN ?", ids).
		Group("list_id").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("count tasks: %w", err)
	}

	byList := make(map[string]listCounts, len(rows))
	for _, row := range rows {
		byList[row.ListID] = row
	}
	for i := range summaries {
		counts := byList[summaries[i].ID]
		summaries[i].TaskCount = counts.Total
		summaries[i].CompletedCount = counts.Completed
	}
	return summaries, nil
}

func isAppError(err error) bool {
	var appErr *apperrors.AppError
	return errors.As(err, &appErr)
}
