package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/taskhive-dev/taskhive/internal/handlers"
	"github.com/taskhive-dev/taskhive/internal/middleware"
	"github.com/taskhive-dev/taskhive/internal/types"
)

// Allow-lists per route reproduce the shipped authorization tables exactly;
// see DESIGN.md before tightening any of them.
var (
	anyRole    = types.AvailableUserRoles
	adminRoles = []string{types.RoleAdmin, types.RoleProjectAdmin}
)

func NewRouter() *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     types.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	api := r.Group("/api/v1")
	{
		api.GET("/health", handlers.HealthCheck)
		api.GET("/ws/:projectId", middleware.AuthMiddleware(), middleware.ProjectPermission(anyRole...), handlers.WebSocket)

		auth := api.Group("/auth")
		{
			auth.POST("/register", handlers.RegisterUser)
			auth.POST("/login", handlers.LoginUser)
			auth.POST("/logout", middleware.AuthMiddleware(), handlers.LogoutUser)
			auth.POST("/verify-email/:token", handlers.VerifyEmail)
			auth.POST("/resend-verification-email", handlers.ResendVerificationEmail)
			auth.POST("/refresh-access-token", handlers.RefreshAccessToken)
			auth.POST("/forgot-password", handlers.ForgotPassword)
			auth.POST("/reset-password/:token", handlers.ResetPassword)
			auth.POST("/change-password", middleware.AuthMiddleware(), handlers.ChangePassword)
			auth.GET("/profile", middleware.AuthMiddleware(), handlers.Profile)
		}

		projects := api.Group("/projects", middleware.AuthMiddleware())
		{
			projects.GET("", handlers.ListProjects)
			projects.POST("", handlers.CreateProject)

			projects.GET("/:projectId", middleware.ProjectPermission(anyRole...), handlers.GetProject)
			projects.PUT("/:projectId", middleware.ProjectPermission(anyRole...), handlers.UpdateProject)
			projects.DELETE("/:projectId", middleware.ProjectPermission(anyRole...), handlers.DeleteProject)

			// Member management; the lifecycle manager applies the
			// creator-or-admin actor rule on top of the guard.
			projects.GET("/:projectId/members", middleware.ProjectPermission(anyRole...), handlers.GetProjectMembers)
			projects.POST("/:projectId/members", middleware.ProjectPermission(anyRole...), handlers.AddProjectMember)
			projects.PUT("/:projectId/members/:userId", middleware.ProjectPermission(anyRole...), handlers.UpdateProjectMemberRole)
			projects.DELETE("/:projectId/members/:userId", middleware.ProjectPermission(anyRole...), handlers.RemoveProjectMember)

			// Task endpoints
			projects.GET("/:projectId/tasks", middleware.ProjectPermission(anyRole...), handlers.GetTasks)
			projects.POST("/:projectId/tasks", middleware.ProjectPermission(adminRoles...), handlers.CreateTask)
			projects.GET("/:projectId/tasks/:taskId", middleware.ProjectPermission(anyRole...), handlers.GetTask)
			projects.PUT("/:projectId/tasks/:taskId", middleware.ProjectPermission(adminRoles...), handlers.UpdateTask)
			projects.DELETE("/:projectId/tasks/:taskId", middleware.ProjectPermission(adminRoles...), handlers.DeleteTask)

			// Subtask endpoints
			projects.GET("/:projectId/tasks/:taskId/subtasks", middleware.ProjectPermission(anyRole...), handlers.GetSubtasks)
			projects.POST("/:projectId/tasks/:taskId/subtasks", middleware.ProjectPermission(anyRole...), handlers.CreateSubtask)
			projects.GET("/:projectId/tasks/:taskId/subtasks/:subtaskId", middleware.ProjectPermission(anyRole...), handlers.GetSubtask)
			projects.PUT("/:projectId/tasks/:taskId/subtasks/:subtaskId", middleware.ProjectPermission(anyRole...), handlers.UpdateSubtask)
			projects.DELETE("/:projectId/tasks/:taskId/subtasks/:subtaskId", middleware.ProjectPermission(anyRole...), handlers.DeleteSubtask)
		}

		notes := api.Group("/notes", middleware.AuthMiddleware())
		{
			notes.GET("/:projectId", middleware.ProjectPermission(anyRole...), handlers.GetNotes)
			notes.POST("/:projectId", middleware.ProjectPermission(anyRole...), handlers.CreateNote)
			notes.GET("/:projectId/:noteId", middleware.ProjectPermission(anyRole...), handlers.GetNote)
			notes.PUT("/:projectId/:noteId", middleware.ProjectPermission(anyRole...), handlers.UpdateNote)
			notes.DELETE("/:projectId/:noteId", middleware.ProjectPermission(anyRole...), handlers.DeleteNote)
		}
	}

	return r
}
