package types

import (
	"os"
	"strings"
)

const (
	ContextUserKey = "user"
	ContextRoleKey = "project_role"
)

// Roles are a closed set. Authorization is done with explicit per-route
// allow-lists, not a ranked hierarchy.
const (
	RoleAdmin        = "admin"
	RoleProjectAdmin = "project-admin"
	RoleMember       = "member"
)

var AvailableUserRoles = []string{RoleAdmin, RoleProjectAdmin, RoleMember}

func IsValidRole(role string) bool {
	for _, r := range AvailableUserRoles {
		if r == role {
			return true
		}
	}
	return false
}

const (
	TaskStatusTodo       = "todo"
	TaskStatusInProgress = "in-progress"
	TaskStatusDone       = "done"
)

var AvailableTaskStatus = []string{TaskStatusTodo, TaskStatusInProgress, TaskStatusDone}

func IsValidTaskStatus(status string) bool {
	for _, s := range AvailableTaskStatus {
		if s == status {
			return true
		}
	}
	return false
}

const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

var AvailableTaskPriority = []string{PriorityLow, PriorityMedium, PriorityHigh}

func IsValidTaskPriority(priority string) bool {
	for _, p := range AvailableTaskPriority {
		if p == priority {
			return true
		}
	}
	return false
}

type UserResponse struct {
	ID              uint   `json:"id"`
	Username        string `json:"username"`
	Email           string `json:"email"`
	FullName        string `json:"fullname"`
	AvatarURL       string `json:"avatar_url,omitempty"`
	IsEmailVerified bool   `json:"is_email_verified"`
}

var (
	// Default allowed origins for development
	defaultOrigins = []string{
		"http://localhost:3000",
		"http://localhost:5173",
	}

	AllowedOrigins = initAllowedOrigins()
)

func initAllowedOrigins() []string {
	origins := make([]string, len(defaultOrigins))
	copy(origins, defaultOrigins)

	if clientURL := os.Getenv("CLIENT_URL"); clientURL != "" {
		origins = append(origins, clientURL)
	}

	if allowedOrigins := os.Getenv("ALLOWED_ORIGINS"); allowedOrigins != "" {
		envOrigins := strings.Split(allowedOrigins, ",")
		for _, origin := range envOrigins {
			trimmed := strings.TrimSpace(origin)
			if trimmed != "" {
				origins = append(origins, trimmed)
			}
		}
	}

	return origins
}
