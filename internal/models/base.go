package models

import "time"

// BaseModel is gorm.Model without soft deletes. Deletes in this system are
// real deletes so cascades leave no tombstones behind unique indexes.
type BaseModel struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
