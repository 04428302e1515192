package models

import (
	"strings"

	"gorm.io/datatypes"
)

// TaskPriority is a plain tag; no ordering is implied between values.
type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
)

// TaskStatus values carry no transition graph. Any status may follow any other.
type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
)

// Task is a single actionable item inside a task list. Position is 1-based and
// increases with every task added to the list.
type Task struct {
	BaseModel

	ListID      string          `gorm:"size:36;not null;index" json:"list_id"`
	Position    int64           `gorm:"not null;default:0" json:"position"`
	Title       string          `gorm:"not null" json:"title"`
	Description string          `json:"description"`
	Priority    TaskPriority    `gorm:"size:16;not null;default:medium" json:"priority"`
	Status      TaskStatus      `gorm:"size:16;not null;default:pending;index" json:"status"`
	DueDate     *datatypes.Date `json:"due_date,omitempty"`
}

// Valid reports whether p is one of the known priorities.
func (p TaskPriority) Valid() bool {
	switch p {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh:
		return true
	}
	return false
}

// Valid reports whether s is one of the known statuses.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted:
		return true
	}
	return false
}

// ParseTaskPriority normalises raw input. An empty value yields the default priority.
func ParseTaskPriority(raw string) (TaskPriority, bool) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if raw == "" {
		return TaskPriorityMedium, true
	}
	p := TaskPriority(raw)
	return p, p.Valid()
}

// ParseTaskStatus normalises raw input. An empty value yields the default status.
func ParseTaskStatus(raw string) (TaskStatus, bool) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if raw == "" {
		return TaskStatusPending, true
	}
	s := TaskStatus(raw)
	return s, s.Valid()
}
