package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/taskhive-dev/taskhive/internal/membership"
	"github.com/taskhive-dev/taskhive/internal/models"
	"github.com/taskhive-dev/taskhive/internal/project"
	"github.com/taskhive-dev/taskhive/internal/utils"
)

type CreateProjectRequest struct {
	Title          string `json:"title"`
	Description    string `json:"description"`
	DiscordWebhook string `json:"discord_webhook"`
	SlackWebhook   string `json:"slack_webhook"`
}

type UpdateProjectRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type MemberRequest struct {
	UserID uint   `json:"user_id" binding:"required"`
	Role   string `json:"role"`
}

type GetProjectResponse struct {
	ID          uint   `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	CreatedBy   uint   `json:"created_by"`
}

type MemberResponse struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
	FullName string `json:"fullname"`
	Role     string `json:"role"`
}

func projectResponse(p *models.Project) GetProjectResponse {
	return GetProjectResponse{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		CreatedBy:   p.CreatedByID,
	}
}

func paramUint(ctx *gin.Context, name string) (uint, bool) {
	value, err := strconv.ParseUint(ctx.Param(name), 10, 64)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return 0, false
	}

	return uint(value), true
}

func CreateProject(ctx *gin.Context) {
	var body CreateProjectRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	created, err := projects.Create(body.Title, body.Description, userID)

	if err != nil {
		if errors.Is(err, project.ErrMissingFields) {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Give a title or description"})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create project"})
		return
	}

	if body.DiscordWebhook != "" || body.SlackWebhook != "" {
		updates := map[string]interface{}{
			"discord_webhook": body.DiscordWebhook,
			"slack_webhook":   body.SlackWebhook,
		}
		if err := projects.SetWebhooks(created.ID, updates); err != nil {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create project"})
			return
		}
	}

	ctx.JSON(http.StatusCreated, projectResponse(created))
}

func ListProjects(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	list, err := projects.ListForUser(userID)

	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve projects"})
		return
	}

	response := make([]GetProjectResponse, 0, len(list))

	for i := range list {
		response = append(response, projectResponse(&list[i]))
	}

	ctx.JSON(http.StatusOK, response)
}

func GetProject(ctx *gin.Context) {
	projectID, ok := paramUint(ctx, "projectId")

	if !ok {
		return
	}

	p, err := projects.Get(projectID)

	if err != nil {
		if errors.Is(err, project.ErrNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve project"})
		return
	}

	ctx.JSON(http.StatusOK, projectResponse(p))
}

func UpdateProject(ctx *gin.Context) {
	projectID, ok := paramUint(ctx, "projectId")

	if !ok {
		return
	}

	var body UpdateProjectRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	p, err := projects.Update(projectID, body.Title, body.Description)

	if err != nil {
		switch {
		case errors.Is(err, project.ErrMissingFields):
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Give a title or description to update"})
		case errors.Is(err, project.ErrNotFound):
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		default:
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update project"})
		}
		return
	}

	ctx.JSON(http.StatusOK, projectResponse(p))
}

func DeleteProject(ctx *gin.Context) {
	projectID, ok := paramUint(ctx, "projectId")

	if !ok {
		return
	}

	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	if err := projects.Delete(projectID, userID); err != nil {
		switch {
		case errors.Is(err, project.ErrNotFound):
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		case errors.Is(err, project.ErrNotCreator):
			ctx.JSON(http.StatusForbidden, gin.H{"error": "Only the project creator can delete it"})
		default:
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete project"})
		}
		return
	}

	ctx.Status(http.StatusNoContent)
}

func GetProjectMembers(ctx *gin.Context) {
	projectID, ok := paramUint(ctx, "projectId")

	if !ok {
		return
	}

	memberships, err := directory.ListMembers(projectID)

	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve members"})
		return
	}

	response := make([]MemberResponse, 0, len(memberships))

	for _, m := range memberships {
		response = append(response, MemberResponse{
			UserID:   m.UserID,
			Username: m.User.Username,
			FullName: m.User.FullName,
			Role:     m.Role,
		})
	}

	ctx.JSON(http.StatusOK, response)
}

func memberErrorStatus(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, project.ErrNotFound):
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
	case errors.Is(err, project.ErrNotAllowed):
		ctx.JSON(http.StatusForbidden, gin.H{"error": "You don't have permission to proceed"})
	case errors.Is(err, membership.ErrInvalidRole):
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Give a valid role"})
	case errors.Is(err, membership.ErrAlreadyMember):
		ctx.JSON(http.StatusConflict, gin.H{"error": "User is already a member of this project"})
	case errors.Is(err, membership.ErrNotMember):
		ctx.JSON(http.StatusNotFound, gin.H{"error": "User is not a member of this project"})
	default:
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

func AddProjectMember(ctx *gin.Context) {
	projectID, ok := paramUint(ctx, "projectId")

	if !ok {
		return
	}

	actorID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var body MemberRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Give a userId and role to add member"})
		return
	}

	added, err := projects.AddMember(projectID, body.UserID, body.Role, actorID)

	if err != nil {
		memberErrorStatus(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, MemberResponse{
		UserID: added.UserID,
		Role:   added.Role,
	})
}

func UpdateProjectMemberRole(ctx *gin.Context) {
	projectID, ok := paramUint(ctx, "projectId")

	if !ok {
		return
	}

	userID, ok := paramUint(ctx, "userId")

	if !ok {
		return
	}

	actorID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var body struct {
		Role string `json:"role" binding:"required"`
	}

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Give a role to update"})
		return
	}

	if err := projects.UpdateMemberRole(projectID, userID, body.Role, actorID); err != nil {
		memberErrorStatus(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Member role updated successfully"})
}

func RemoveProjectMember(ctx *gin.Context) {
	projectID, ok := paramUint(ctx, "projectId")

	if !ok {
		return
	}

	userID, ok := paramUint(ctx, "userId")

	if !ok {
		return
	}

	actorID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	if err := projects.RemoveMember(projectID, userID, actorID); err != nil {
		memberErrorStatus(ctx, err)
		return
	}

	BroadcastRefresh(ctx.Param("projectId"))
	ctx.JSON(http.StatusOK, gin.H{"message": "Member removed successfully"})
}
