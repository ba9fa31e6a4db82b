package utils

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/taskhive-dev/taskhive/internal/middleware"
	"github.com/taskhive-dev/taskhive/internal/types"
)

func GetCurrentUser(ctx *gin.Context) (middleware.AuthenticatedUser, error) {
	user, exists := ctx.Get(types.ContextUserKey)

	if !exists {
		return middleware.AuthenticatedUser{}, fmt.Errorf("user not authenticated")
	}

	authenticatedUser, ok := user.(middleware.AuthenticatedUser)

	if !ok {
		return middleware.AuthenticatedUser{}, fmt.Errorf("invalid user type in context")
	}

	return authenticatedUser, nil
}

func GetCurrentUserID(ctx *gin.Context) (uint, error) {
	user, err := GetCurrentUser(ctx)

	if err != nil {
		return 0, err
	}

	return user.ID, nil
}

// GetProjectRole returns the role resolved by the project permission
// middleware for this request.
func GetProjectRole(ctx *gin.Context) (string, error) {
	role, exists := ctx.Get(types.ContextRoleKey)

	if !exists {
		return "", fmt.Errorf("project role not resolved")
	}

	roleStr, ok := role.(string)

	if !ok {
		return "", fmt.Errorf("invalid role type in context")
	}

	return roleStr, nil
}
