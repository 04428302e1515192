package client

import "time"

// Task status and priority values accepted by the API.
const (
	StatusPending    = "pending"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"

	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

type User struct {
	ID          string     `json:"id" yaml:"id"`
	Email       string     `json:"email" yaml:"email"`
	Name        string     `json:"name" yaml:"name"`
	FirstName   string     `json:"first_name" yaml:"first_name,omitempty"`
	LastName    string     `json:"last_name" yaml:"last_name,omitempty"`
	ProfileIcon string     `json:"profile_icon" yaml:"profile_icon,omitempty"`
	IsVerified  bool       `json:"is_verified" yaml:"is_verified"`
	CreatedAt   time.Time  `json:"created_at" yaml:"created_at"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty" yaml:"last_login_at,omitempty"`
}

type Task struct {
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

type TaskList struct {
	ID             string    `json:"id"`
	OwnerID        string    `json:"owner_id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	TaskCount      int64     `json:"task_count"`
	CompletedCount int64     `json:"completed_count"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
	Tasks          []Task    `json:"tasks,omitempty"`
}

type RegisterInput struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	Name      string `json:"name"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
}

type RegisterResult struct {
	User                 User `json:"user"`
	RequiresVerification bool `json:"requires_verification"`
}

// LoginResult is either a signed-in session or a request to verify Email first.
type LoginResult struct {
	User                 *User  `json:"user,omitempty"`
	Token                string `json:"token,omitempty"`
	TokenType            string `json:"token_type,omitempty"`
	ExpiresIn            int    `json:"expires_in,omitempty"`
	RequiresVerification bool   `json:"requires_verification,omitempty"`
	Email                string `json:"email,omitempty"`
}

// ProfileUpdate changes only the non-nil fields.
type ProfileUpdate struct {
	Name      *string `json:"name,omitempty"`
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
}

// TaskInput creates a task. Empty priority and status take the server defaults;
// DueDate is "YYYY-MM-DD" or empty.
type TaskInput struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Priority    string `json:"priority,omitempty"`
	Status      string `json:"status,omitempty"`
	DueDate     string `json:"due_date,omitempty"`
}

// TaskUpdate changes only the non-nil fields. A DueDate pointing at "" clears the date.
type TaskUpdate struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Priority    *string `json:"priority,omitempty"`
	Status      *string `json:"status,omitempty"`
	DueDate     *string `json:"due_date,omitempty"`
}

type TaskListInput struct {
	Title       string      `json:"title"`
	Description string      `json:"description,omitempty"`
	Tasks       []TaskInput `json:"tasks,omitempty"`
}

// TaskListUpdate changes only the non-nil fields.
type TaskListUpdate struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
}

// String returns a pointer to s, for building sparse updates.
func String(s string) *string { return &s }
