package models

type Project struct {
	BaseModel

	Title       string
	Description string
	CreatedByID uint `gorm:"not null;index"`

	// Optional outbound notification targets for task events.
	DiscordWebhook string
	SlackWebhook   string

	// Relationships
	CreatedBy          User                `gorm:"foreignKey:CreatedByID"`
	ProjectMemberships []ProjectMembership `gorm:"foreignKey:ProjectID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Tasks              []Task              `gorm:"foreignKey:ProjectID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Notes              []Note              `gorm:"foreignKey:ProjectID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
