package middleware

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/taskhive-dev/taskhive/db"
	"github.com/taskhive-dev/taskhive/internal/membership"
	"github.com/taskhive-dev/taskhive/internal/types"
)

// ProjectPermission resolves the caller's role on the :projectId project and
// rejects the request unless the role is in the allow-list. The resolved role
// is stored on the context for the request's lifetime only; roles are
// project-scoped and recomputed on every request, overriding anything set
// earlier in the chain. The check never writes to storage.
func ProjectPermission(allowedRoles ...string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		projectIDParam := ctx.Param("projectId")

		if projectIDParam == "" {
			ctx.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Project ID is required"})
			return
		}

		projectID, err := strconv.ParseUint(projectIDParam, 10, 64)

		if err != nil {
			ctx.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid project ID"})
			return
		}

		user, exists := ctx.Get(types.ContextUserKey)

		if !exists {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
			return
		}

		authenticatedUser, ok := user.(AuthenticatedUser)

		if !ok {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid user in context"})
			return
		}

		dir := membership.NewDirectory(db.DB)

		role, err := dir.ResolveRole(authenticatedUser.ID, uint(projectID))

		if err != nil {
			if errors.Is(err, membership.ErrNotMember) {
				ctx.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "You are not a member of this project"})
				return
			}
			ctx.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}

		allowed := false
		for _, r := range allowedRoles {
			if r == role {
				allowed = true
				break
			}
		}

		if !allowed {
			ctx.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "You don't have permission to proceed"})
			return
		}

		ctx.Set(types.ContextRoleKey, role)
		ctx.Next()
	}
}
