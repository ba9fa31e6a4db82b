package models

type Note struct {
	BaseModel

	ProjectID   uint   `gorm:"not null;index"`
	CreatedByID uint   `gorm:"not null"`
	Content     string `gorm:"not null"`

	// Relationships
	Project   Project `gorm:"foreignKey:ProjectID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	CreatedBy User    `gorm:"foreignKey:CreatedByID"`
}
