package models

// TaskList is a named collection of tasks owned by a single user.
type TaskList struct {
	BaseModel

	OwnerID     string `gorm:"size:36;not null;index" json:"owner_id"`
	Title       string `gorm:"not null" json:"title"`
	Description string `json:"description"`

	Tasks []Task `gorm:"foreignKey:ListID;constraint:OnDelete:CASCADE" json:"-"`
}
