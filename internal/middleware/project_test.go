package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/taskhive-dev/taskhive/db"
	"github.com/taskhive-dev/taskhive/internal/models"
	"github.com/taskhive-dev/taskhive/internal/types"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupGuardTest(t *testing.T) *gorm.DB {
	t.Helper()

	gin.SetMode(gin.TestMode)

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}

	previous := db.DB
	db.DB = gdb
	t.Cleanup(func() { db.DB = previous })

	return gdb
}

// guardRouter wires the permission middleware behind a stub that injects the
// authenticated user, standing in for the JWT middleware.
func guardRouter(user AuthenticatedUser, allowedRoles ...string) (*gin.Engine, *string) {
	r := gin.New()

	var resolvedRole string

	r.GET("/projects/:projectId/probe",
		func(ctx *gin.Context) {
			ctx.Set(types.ContextUserKey, user)
		},
		ProjectPermission(allowedRoles...),
		func(ctx *gin.Context) {
			role, exists := ctx.Get(types.ContextRoleKey)
			if !exists {
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": "role not resolved"})
				return
			}
			resolvedRole = role.(string)
			ctx.JSON(http.StatusOK, gin.H{"role": role})
		},
	)

	return r, &resolvedRole
}

func seedMembership(t *testing.T, gdb *gorm.DB, role string) (models.User, models.Project) {
	t.Helper()

	user := models.User{Username: "alice", Email: "alice@example.com", FullName: "Alice", PasswordHash: "x"}
	if err := gdb.Create(&user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}

	project := models.Project{Title: "Alpha", CreatedByID: user.ID}
	if err := gdb.Create(&project).Error; err != nil {
		t.Fatalf("create project: %v", err)
	}

	if role != "" {
		m := models.ProjectMembership{UserID: user.ID, ProjectID: project.ID, Role: role}
		if err := gdb.Create(&m).Error; err != nil {
			t.Fatalf("create membership: %v", err)
		}
	}

	return user, project
}

func get(r *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	r.ServeHTTP(w, req)
	return w
}

func TestGuardAllowsMemberAndResolvesRole(t *testing.T) {
	gdb := setupGuardTest(t)
	user, project := seedMembership(t, gdb, types.RoleProjectAdmin)

	r, resolved := guardRouter(AuthenticatedUser{ID: user.ID}, types.AvailableUserRoles...)

	w := get(r, "/projects/1/probe")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", w.Code, w.Body.String())
	}
	if *resolved != types.RoleProjectAdmin {
		t.Errorf("resolved role = %q, want %q", *resolved, types.RoleProjectAdmin)
	}
	_ = project
}

func TestGuardDeniesNonMember(t *testing.T) {
	gdb := setupGuardTest(t)
	user, _ := seedMembership(t, gdb, "")

	// Non-members are denied for every non-empty allow-list.
	for _, roles := range [][]string{
		types.AvailableUserRoles,
		{types.RoleAdmin},
		{types.RoleMember},
	} {
		r, _ := guardRouter(AuthenticatedUser{ID: user.ID}, roles...)
		if w := get(r, "/projects/1/probe"); w.Code != http.StatusForbidden {
			t.Errorf("allow-list %v: status = %d, want 403", roles, w.Code)
		}
	}
}

func TestGuardDeniesInsufficientRole(t *testing.T) {
	gdb := setupGuardTest(t)
	user, _ := seedMembership(t, gdb, types.RoleMember)

	r, _ := guardRouter(AuthenticatedUser{ID: user.ID}, types.RoleAdmin, types.RoleProjectAdmin)

	if w := get(r, "/projects/1/probe"); w.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", w.Code)
	}
}

func TestGuardRejectsBadProjectID(t *testing.T) {
	gdb := setupGuardTest(t)
	user, _ := seedMembership(t, gdb, types.RoleAdmin)

	r, _ := guardRouter(AuthenticatedUser{ID: user.ID}, types.AvailableUserRoles...)

	if w := get(r, "/projects/abc/probe"); w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestGuardRequiresAuthenticatedUser(t *testing.T) {
	setupGuardTest(t)

	r := gin.New()
	r.GET("/projects/:projectId/probe", ProjectPermission(types.AvailableUserRoles...), func(ctx *gin.Context) {
		ctx.Status(http.StatusOK)
	})

	if w := get(r, "/projects/1/probe"); w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}
