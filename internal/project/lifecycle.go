// Package project owns the project lifecycle: creation with its creator's
// membership, deletion with the full cascade, and member management on top of
// the membership directory.
package project

import (
	"errors"
	"log"
	"sync"

	"github.com/taskhive-dev/taskhive/internal/membership"
	"github.com/taskhive-dev/taskhive/internal/models"
	"github.com/taskhive-dev/taskhive/internal/types"
	"gorm.io/gorm"
)

var (
	ErrMissingFields = errors.New("title or description is required")
	ErrNotFound      = errors.New("project not found")
	ErrNotCreator    = errors.New("only the project creator can do this")
	ErrNotAllowed    = errors.New("insufficient role for this action")
)

type Manager struct {
	db  *gorm.DB
	dir *membership.Directory

	txProbe     sync.Once
	txSupported bool
}

func NewManager(db *gorm.DB) *Manager {
	return &Manager{db: db, dir: membership.NewDirectory(db)}
}

// supportsTransactions is decided once per manager. Deployments without
// transaction support fall back to sequential best-effort writes instead of
// failing every grouped operation.
func (m *Manager) supportsTransactions() bool {
	m.txProbe.Do(func() {
		err := m.db.Transaction(func(tx *gorm.DB) error { return nil })
		m.txSupported = err == nil
		if !m.txSupported {
			log.Printf("Storage does not support transactions, falling back to sequential writes: %v", err)
		}
	})
	return m.txSupported
}

// inTransaction runs fn transactionally when the storage supports it, and
// sequentially against the base handle when it does not. Partial completion
// is accepted on the fallback path.
func (m *Manager) inTransaction(fn func(tx *gorm.DB) error) error {
	if m.supportsTransactions() {
		return m.db.Transaction(fn)
	}
	return fn(m.db)
}

func (m *Manager) Directory() *membership.Directory {
	return m.dir
}

// Create inserts the project and its creator's admin membership as one unit of
// work. Rejected only when title and description are both empty.
func (m *Manager) Create(title, description string, creatorID uint) (*models.Project, error) {
	if title == "" && description == "" {
		return nil, ErrMissingFields
	}

	project := models.Project{
		Title:       title,
		Description: description,
		CreatedByID: creatorID,
	}

	err := m.inTransaction(func(tx *gorm.DB) error {
		if err := tx.Create(&project).Error; err != nil {
			return err
		}

		creatorMembership := models.ProjectMembership{
			UserID:    creatorID,
			ProjectID: project.ID,
			Role:      types.RoleAdmin,
		}

		return tx.Create(&creatorMembership).Error
	})

	if err != nil {
		return nil, err
	}

	return &project, nil
}

func (m *Manager) Get(projectID uint) (*models.Project, error) {
	var project models.Project

	if err := m.db.First(&project, projectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return &project, nil
}

// ListForUser returns every project the user holds a membership on.
func (m *Manager) ListForUser(userID uint) ([]models.Project, error) {
	var projects []models.Project

	err := m.db.
		Joins("JOIN project_memberships ON project_memberships.project_id = projects.id").
		Where("project_memberships.user_id = ?", userID).
		Find(&projects).Error

	if err != nil {
		return nil, err
	}

	return projects, nil
}

func (m *Manager) Update(projectID uint, title, description string) (*models.Project, error) {
	if title == "" && description == "" {
		return nil, ErrMissingFields
	}

	project, err := m.Get(projectID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if title != "" {
		updates["title"] = title
	}
	if description != "" {
		updates["description"] = description
	}

	if err := m.db.Model(project).Updates(updates).Error; err != nil {
		return nil, err
	}

	return project, nil
}

// SetWebhooks stores the project's outbound notification targets.
func (m *Manager) SetWebhooks(projectID uint, updates map[string]interface{}) error {
	return m.db.Model(&models.Project{}).Where("id = ?", projectID).Updates(updates).Error
}

// Delete removes the project and everything scoped to it: subtasks of its
// tasks, tasks, notes, memberships and finally the project row. Only the
// creator may delete.
func (m *Manager) Delete(projectID, actorID uint) error {
	project, err := m.Get(projectID)
	if err != nil {
		return err
	}

	if project.CreatedByID != actorID {
		return ErrNotCreator
	}

	return m.inTransaction(func(tx *gorm.DB) error {
		return cascadeProject(tx, projectID, true)
	})
}

// cascadeProject deletes all collections scoped to the project. Subtasks go
// first since they are found through the task table.
func cascadeProject(tx *gorm.DB, projectID uint, dropProject bool) error {
	taskIDs := tx.Model(&models.Task{}).Select("id").Where("project_id = ?", projectID)

	if err := tx.Where("task_id IN (?)", taskIDs).Delete(&models.Subtask{}).Error; err != nil {
		return err
	}

	if err := tx.Where("project_id = ?", projectID).Delete(&models.Task{}).Error; err != nil {
		return err
	}

	if err := tx.Where("project_id = ?", projectID).Delete(&models.Note{}).Error; err != nil {
		return err
	}

	if !dropProject {
		return nil
	}

	if err := tx.Where("project_id = ?", projectID).Delete(&models.ProjectMembership{}).Error; err != nil {
		return err
	}

	return tx.Delete(&models.Project{}, projectID).Error
}

// canManageMembers: the actor must be the creator or hold admin/project-admin
// on the project.
func (m *Manager) canManageMembers(project *models.Project, actorID uint) error {
	if project.CreatedByID == actorID {
		return nil
	}

	role, err := m.dir.ResolveRole(actorID, project.ID)
	if err != nil {
		if errors.Is(err, membership.ErrNotMember) {
			return ErrNotAllowed
		}
		return err
	}

	if role != types.RoleAdmin && role != types.RoleProjectAdmin {
		return ErrNotAllowed
	}

	return nil
}

func (m *Manager) AddMember(projectID, userID uint, role string, actorID uint) (*models.ProjectMembership, error) {
	project, err := m.Get(projectID)
	if err != nil {
		return nil, err
	}

	if err := m.canManageMembers(project, actorID); err != nil {
		return nil, err
	}

	return m.dir.AddMember(projectID, userID, role)
}

func (m *Manager) UpdateMemberRole(projectID, userID uint, role string, actorID uint) error {
	project, err := m.Get(projectID)
	if err != nil {
		return err
	}

	if err := m.canManageMembers(project, actorID); err != nil {
		return err
	}

	return m.dir.UpdateRole(projectID, userID, role)
}

// RemoveMember removes the membership and then cascades deletion of the
// project's tasks, subtasks and notes, same as a full project deletion. This
// mirrors the shipped behavior and is pending product confirmation (see
// DESIGN.md).
func (m *Manager) RemoveMember(projectID, userID uint, actorID uint) error {
	project, err := m.Get(projectID)
	if err != nil {
		return err
	}

	if err := m.canManageMembers(project, actorID); err != nil {
		return err
	}

	return m.inTransaction(func(tx *gorm.DB) error {
		dir := membership.NewDirectory(tx)
		if err := dir.RemoveMember(projectID, userID); err != nil {
			return err
		}
		return cascadeProject(tx, projectID, false)
	})
}

// DeleteTask removes a task together with its own subtasks.
func (m *Manager) DeleteTask(taskID uint) error {
	return m.inTransaction(func(tx *gorm.DB) error {
		var task models.Task

		if err := tx.First(&task, taskID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return gorm.ErrRecordNotFound
			}
			return err
		}

		if err := tx.Where("task_id = ?", taskID).Delete(&models.Subtask{}).Error; err != nil {
			return err
		}

		return tx.Delete(&task).Error
	})
}
