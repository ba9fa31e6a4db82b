package models

import (
	"time"

	"gorm.io/datatypes"
)

type Subtask struct {
	BaseModel

	TaskID      uint   `gorm:"not null;index"`
	Title       string `gorm:"not null"`
	Description string `gorm:"not null"`
	Status      string `gorm:"not null;default:todo"`
	Priority    string `gorm:"not null;default:low"`
	DueDate     *time.Time
	IsCompleted bool `gorm:"default:false"`

	CreatedByID  uint `gorm:"not null"`
	AssignedToID *uint

	Attachments datatypes.JSON `gorm:"type:jsonb"`

	// Relationships
	Task       Task  `gorm:"foreignKey:TaskID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	CreatedBy  User  `gorm:"foreignKey:CreatedByID"`
	AssignedTo *User `gorm:"foreignKey:AssignedToID"`
}
