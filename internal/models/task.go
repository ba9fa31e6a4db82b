package models

import (
	"time"

	"gorm.io/datatypes"
)

// Attachment is file metadata only; the file itself lives elsewhere.
type Attachment struct {
	URL      string `json:"url"`
	MimeType string `json:"mime_type"`
	Size     int64  `json:"size"`
	FileName string `json:"file_name"`
}

type Task struct {
	BaseModel

	ProjectID   uint   `gorm:"not null;index"`
	Title       string `gorm:"not null"`
	Description string `gorm:"not null"`
	Status      string `gorm:"not null;default:todo"`
	Priority    string `gorm:"not null;default:low"`
	DueDate     *time.Time

	CreatedByID  uint `gorm:"not null"`
	AssignedByID uint `gorm:"not null"`
	AssignedToID *uint

	Attachments datatypes.JSON `gorm:"type:jsonb"`

	// Relationships
	Project    Project   `gorm:"foreignKey:ProjectID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	CreatedBy  User      `gorm:"foreignKey:CreatedByID"`
	AssignedBy User      `gorm:"foreignKey:AssignedByID"`
	AssignedTo *User     `gorm:"foreignKey:AssignedToID"`
	Subtasks   []Subtask `gorm:"foreignKey:TaskID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
