package models

import "time"

type User struct {
	BaseModel

	Username     string `gorm:"uniqueIndex;not null"`
	Email        string `gorm:"uniqueIndex;not null"`
	FullName     string `gorm:"not null"`
	AvatarURL    string
	PasswordHash string `gorm:"not null"`

	IsEmailVerified bool `gorm:"default:false"`

	// One-time tokens are stored as SHA-256 digests of the issued secret.
	// A token and its expiry are always set or cleared together.
	EmailVerificationToken       *string
	EmailVerificationTokenExpiry *time.Time
	PasswordResetToken           *string
	PasswordResetTokenExpiry     *time.Time

	RefreshToken *string

	// Relationships
	CreatedProjects    []Project           `gorm:"foreignKey:CreatedByID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	ProjectMemberships []ProjectMembership `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
