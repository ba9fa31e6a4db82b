// Package membership is the single source of truth for who is on a project
// and with what role. Callers must not write membership rows directly.
package membership

import (
	"errors"

	"github.com/taskhive-dev/taskhive/internal/models"
	"github.com/taskhive-dev/taskhive/internal/types"
	"gorm.io/gorm"
)

var (
	ErrNotMember     = errors.New("user is not a member of this project")
	ErrAlreadyMember = errors.New("user is already a member of this project")
	ErrInvalidRole   = errors.New("invalid role")
)

type Directory struct {
	db *gorm.DB
}

func NewDirectory(db *gorm.DB) *Directory {
	return &Directory{db: db}
}

// ResolveRole looks up the unique (user, project) membership row.
func (d *Directory) ResolveRole(userID, projectID uint) (string, error) {
	var membership models.ProjectMembership

	err := d.db.Where("user_id = ? AND project_id = ?", userID, projectID).First(&membership).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrNotMember
		}
		return "", err
	}

	return membership.Role, nil
}

func (d *Directory) AddMember(projectID, userID uint, role string) (*models.ProjectMembership, error) {
	if !types.IsValidRole(role) {
		return nil, ErrInvalidRole
	}

	var existing models.ProjectMembership

	err := d.db.Where("user_id = ? AND project_id = ?", userID, projectID).First(&existing).Error

	if err == nil {
		return nil, ErrAlreadyMember
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	membership := models.ProjectMembership{
		UserID:    userID,
		ProjectID: projectID,
		Role:      role,
	}

	if err := d.db.Create(&membership).Error; err != nil {
		return nil, err
	}

	return &membership, nil
}

// UpdateRole changes the role on an existing membership. A zero-row match is
// reported as ErrNotMember, never as success.
func (d *Directory) UpdateRole(projectID, userID uint, newRole string) error {
	if !types.IsValidRole(newRole) {
		return ErrInvalidRole
	}

	result := d.db.Model(&models.ProjectMembership{}).
		Where("user_id = ? AND project_id = ?", userID, projectID).
		Update("role", newRole)

	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrNotMember
	}

	return nil
}

func (d *Directory) RemoveMember(projectID, userID uint) error {
	result := d.db.Where("user_id = ? AND project_id = ?", userID, projectID).
		Delete(&models.ProjectMembership{})

	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrNotMember
	}

	return nil
}

func (d *Directory) ListMembers(projectID uint) ([]models.ProjectMembership, error) {
	var memberships []models.ProjectMembership

	err := d.db.Preload("User").Where("project_id = ?", projectID).Find(&memberships).Error

	if err != nil {
		return nil, err
	}

	return memberships, nil
}
