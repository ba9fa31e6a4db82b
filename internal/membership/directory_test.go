package membership

import (
	"errors"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/taskhive-dev/taskhive/db"
	"github.com/taskhive-dev/taskhive/internal/models"
	"github.com/taskhive-dev/taskhive/internal/types"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupDirectoryTest(t *testing.T) (*Directory, *gorm.DB) {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}

	return NewDirectory(gdb), gdb
}

func createUser(t *testing.T, gdb *gorm.DB, username string) models.User {
	t.Helper()

	user := models.User{
		Username:     username,
		Email:        username + "@example.com",
		FullName:     username,
		PasswordHash: "x",
	}
	if err := gdb.Create(&user).Error; err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return user
}

func createProject(t *testing.T, gdb *gorm.DB, title string, creatorID uint) models.Project {
	t.Helper()

	project := models.Project{Title: title, CreatedByID: creatorID}
	if err := gdb.Create(&project).Error; err != nil {
		t.Fatalf("create project %s: %v", title, err)
	}
	return project
}

func TestAddMemberResolveRoleRoundTrip(t *testing.T) {
	dir, gdb := setupDirectoryTest(t)

	alice := createUser(t, gdb, "alice")
	bob := createUser(t, gdb, "bob")
	alpha := createProject(t, gdb, "Alpha", alice.ID)

	if _, err := dir.AddMember(alpha.ID, bob.ID, types.RoleMember); err != nil {
		t.Fatalf("add member: %v", err)
	}

	role, err := dir.ResolveRole(bob.ID, alpha.ID)
	if err != nil {
		t.Fatalf("resolve role: %v", err)
	}
	if role != types.RoleMember {
		t.Errorf("role = %q, want %q", role, types.RoleMember)
	}

	if err := dir.UpdateRole(alpha.ID, bob.ID, types.RoleProjectAdmin); err != nil {
		t.Fatalf("update role: %v", err)
	}

	role, err = dir.ResolveRole(bob.ID, alpha.ID)
	if err != nil {
		t.Fatalf("resolve role after update: %v", err)
	}
	if role != types.RoleProjectAdmin {
		t.Errorf("role = %q, want %q", role, types.RoleProjectAdmin)
	}
}

func TestResolveRoleNotMember(t *testing.T) {
	dir, gdb := setupDirectoryTest(t)

	alice := createUser(t, gdb, "alice")
	alpha := createProject(t, gdb, "Alpha", alice.ID)

	if _, err := dir.ResolveRole(alice.ID, alpha.ID); !errors.Is(err, ErrNotMember) {
		t.Errorf("expected ErrNotMember, got %v", err)
	}
}

func TestAddMemberDuplicate(t *testing.T) {
	dir, gdb := setupDirectoryTest(t)

	alice := createUser(t, gdb, "alice")
	alpha := createProject(t, gdb, "Alpha", alice.ID)

	if _, err := dir.AddMember(alpha.ID, alice.ID, types.RoleAdmin); err != nil {
		t.Fatalf("add member: %v", err)
	}

	if _, err := dir.AddMember(alpha.ID, alice.ID, types.RoleMember); !errors.Is(err, ErrAlreadyMember) {
		t.Errorf("expected ErrAlreadyMember, got %v", err)
	}

	var count int64
	gdb.Model(&models.ProjectMembership{}).
		Where("user_id = ? AND project_id = ?", alice.ID, alpha.ID).
		Count(&count)
	if count != 1 {
		t.Errorf("membership rows = %d, want 1", count)
	}
}

func TestAddMemberInvalidRole(t *testing.T) {
	dir, gdb := setupDirectoryTest(t)

	alice := createUser(t, gdb, "alice")
	alpha := createProject(t, gdb, "Alpha", alice.ID)

	if _, err := dir.AddMember(alpha.ID, alice.ID, "superuser"); !errors.Is(err, ErrInvalidRole) {
		t.Errorf("expected ErrInvalidRole, got %v", err)
	}

	var count int64
	gdb.Model(&models.ProjectMembership{}).Count(&count)
	if count != 0 {
		t.Errorf("membership rows = %d, want 0", count)
	}
}

func TestUpdateRoleZeroRowsIsNotMember(t *testing.T) {
	dir, gdb := setupDirectoryTest(t)

	alice := createUser(t, gdb, "alice")
	alpha := createProject(t, gdb, "Alpha", alice.ID)

	if err := dir.UpdateRole(alpha.ID, alice.ID, types.RoleMember); !errors.Is(err, ErrNotMember) {
		t.Errorf("expected ErrNotMember, got %v", err)
	}

	if err := dir.UpdateRole(alpha.ID, alice.ID, "superuser"); !errors.Is(err, ErrInvalidRole) {
		t.Errorf("expected ErrInvalidRole, got %v", err)
	}
}

func TestRemoveMember(t *testing.T) {
	dir, gdb := setupDirectoryTest(t)

	alice := createUser(t, gdb, "alice")
	alpha := createProject(t, gdb, "Alpha", alice.ID)

	if err := dir.RemoveMember(alpha.ID, alice.ID); !errors.Is(err, ErrNotMember) {
		t.Errorf("expected ErrNotMember for missing row, got %v", err)
	}

	if _, err := dir.AddMember(alpha.ID, alice.ID, types.RoleMember); err != nil {
		t.Fatalf("add member: %v", err)
	}

	if err := dir.RemoveMember(alpha.ID, alice.ID); err != nil {
		t.Fatalf("remove member: %v", err)
	}

	if _, err := dir.ResolveRole(alice.ID, alpha.ID); !errors.Is(err, ErrNotMember) {
		t.Errorf("expected ErrNotMember after removal, got %v", err)
	}
}

func TestListMembers(t *testing.T) {
	dir, gdb := setupDirectoryTest(t)

	alice := createUser(t, gdb, "alice")
	bob := createUser(t, gdb, "bob")
	alpha := createProject(t, gdb, "Alpha", alice.ID)

	dir.AddMember(alpha.ID, alice.ID, types.RoleAdmin)
	dir.AddMember(alpha.ID, bob.ID, types.RoleMember)

	members, err := dir.ListMembers(alpha.ID)
	if err != nil {
		t.Fatalf("list members: %v", err)
	}
	if len(members) != 2 {
		t.Fatalf("members = %d, want 2", len(members))
	}
	for _, m := range members {
		if m.User.Username == "" {
			t.Errorf("user not preloaded for member %d", m.UserID)
		}
	}
}
