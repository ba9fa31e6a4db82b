package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/taskhive-dev/taskhive/db"
	"github.com/taskhive-dev/taskhive/internal/models"
	"github.com/taskhive-dev/taskhive/internal/services"
	"github.com/taskhive-dev/taskhive/internal/types"
	"github.com/taskhive-dev/taskhive/internal/utils"
	"gorm.io/gorm"
)

type CreateTaskRequest struct {
	Title       string              `json:"title" binding:"required"`
	Description string              `json:"description" binding:"required"`
	Priority    string              `json:"priority" binding:"required"`
	DueDate     *time.Time          `json:"due_date" binding:"required"`
	AssignedTo  *uint               `json:"assigned_to"`
	Attachments []models.Attachment `json:"attachments"`
}

type UpdateTaskRequest struct {
	Title       *string             `json:"title"`
	Description *string             `json:"description"`
	Priority    *string             `json:"priority"`
	Status      *string             `json:"status"`
	DueDate     *time.Time          `json:"due_date"`
	AssignedTo  *uint               `json:"assigned_to"`
	Attachments []models.Attachment `json:"attachments"`
}

type TaskResponse struct {
	ID          uint                `json:"id"`
	ProjectID   uint                `json:"project_id"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Status      string              `json:"status"`
	Priority    string              `json:"priority"`
	DueDate     *time.Time          `json:"due_date"`
	CreatedBy   uint                `json:"created_by"`
	AssignedBy  uint                `json:"assigned_by"`
	AssignedTo  *uint               `json:"assigned_to"`
	Attachments []models.Attachment `json:"attachments"`
}

func marshalAttachments(ctx *gin.Context, attachments []models.Attachment) ([]byte, bool) {
	if attachments == nil {
		attachments = []models.Attachment{}
	}

	data, err := json.Marshal(attachments)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid attachments"})
		return nil, false
	}

	return data, true
}

func taskResponse(task *models.Task) TaskResponse {
	attachments := []models.Attachment{}
	if len(task.Attachments) > 0 {
		if err := json.Unmarshal(task.Attachments, &attachments); err != nil {
			log.Printf("Failed to decode attachments for task %d: %v", task.ID, err)
		}
	}

	return TaskResponse{
		ID:          task.ID,
		ProjectID:   task.ProjectID,
		Title:       task.Title,
		Description: task.Description,
		Status:      task.Status,
		Priority:    task.Priority,
		DueDate:     task.DueDate,
		CreatedBy:   task.CreatedByID,
		AssignedBy:  task.AssignedByID,
		AssignedTo:  task.AssignedToID,
		Attachments: attachments,
	}
}

// findProjectTask loads a task scoped to the project in the URL so a task id
// from another project is a NotFound, never a leak.
func findProjectTask(ctx *gin.Context) (*models.Task, bool) {
	projectID, ok := paramUint(ctx, "projectId")

	if !ok {
		return nil, false
	}

	taskID, ok := paramUint(ctx, "taskId")

	if !ok {
		return nil, false
	}

	var task models.Task

	err := db.DB.Where("id = ? AND project_id = ?", taskID, projectID).First(&task).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve task"})
		}
		return nil, false
	}

	return &task, true
}

func GetTasks(ctx *gin.Context) {
	projectID, ok := paramUint(ctx, "projectId")

	if !ok {
		return
	}

	var tasks []models.Task

	if err := db.DB.Where("project_id = ?", projectID).Find(&tasks).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve tasks"})
		return
	}

	response := make([]TaskResponse, 0, len(tasks))

	for i := range tasks {
		response = append(response, taskResponse(&tasks[i]))
	}

	ctx.JSON(http.StatusOK, response)
}

func GetTask(ctx *gin.Context) {
	task, ok := findProjectTask(ctx)

	if !ok {
		return
	}

	ctx.JSON(http.StatusOK, taskResponse(task))
}

func CreateTask(ctx *gin.Context) {
	projectID, ok := paramUint(ctx, "projectId")

	if !ok {
		return
	}

	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var body CreateTaskRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "All fields are required"})
		return
	}

	if !types.IsValidTaskPriority(body.Priority) {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Give a valid priority"})
		return
	}

	attachments, ok := marshalAttachments(ctx, body.Attachments)

	if !ok {
		return
	}

	task := models.Task{
		ProjectID:    projectID,
		Title:        body.Title,
		Description:  body.Description,
		Status:       types.TaskStatusTodo,
		Priority:     body.Priority,
		DueDate:      body.DueDate,
		CreatedByID:  userID,
		AssignedByID: userID,
		AssignedToID: body.AssignedTo,
		Attachments:  attachments,
	}

	if err := db.DB.Create(&task).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create task"})
		return
	}

	notifyTaskEvent(projectID, task, services.SendTaskCreatedNotification)
	BroadcastRefresh(ctx.Param("projectId"))

	ctx.JSON(http.StatusCreated, taskResponse(&task))
}

func UpdateTask(ctx *gin.Context) {
	task, ok := findProjectTask(ctx)

	if !ok {
		return
	}

	var body UpdateTaskRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	updates := map[string]interface{}{}

	if body.Title != nil {
		updates["title"] = *body.Title
	}
	if body.Description != nil {
		updates["description"] = *body.Description
	}
	if body.Priority != nil {
		if !types.IsValidTaskPriority(*body.Priority) {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Give a valid priority"})
			return
		}
		updates["priority"] = *body.Priority
	}
	if body.Status != nil {
		if !types.IsValidTaskStatus(*body.Status) {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Give a valid status"})
			return
		}
		updates["status"] = *body.Status
	}
	if body.DueDate != nil {
		updates["due_date"] = *body.DueDate
	}
	if body.AssignedTo != nil {
		updates["assigned_to_id"] = *body.AssignedTo
	}
	if body.Attachments != nil {
		attachments, ok := marshalAttachments(ctx, body.Attachments)
		if !ok {
			return
		}
		updates["attachments"] = attachments
	}

	if len(updates) == 0 {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Provide at least one field to update"})
		return
	}

	wasDone := task.Status == types.TaskStatusDone

	if err := db.DB.Model(task).Updates(updates).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update task"})
		return
	}

	if !wasDone && task.Status == types.TaskStatusDone {
		notifyTaskEvent(task.ProjectID, *task, services.SendTaskCompletedNotification)
	}

	BroadcastRefresh(ctx.Param("projectId"))

	ctx.JSON(http.StatusOK, taskResponse(task))
}

func DeleteTask(ctx *gin.Context) {
	task, ok := findProjectTask(ctx)

	if !ok {
		return
	}

	if err := projects.DeleteTask(task.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete task"})
		return
	}

	BroadcastRefresh(ctx.Param("projectId"))

	ctx.JSON(http.StatusOK, taskResponse(task))
}

// notifyTaskEvent posts to the project's configured webhooks without blocking
// the response.
func notifyTaskEvent(projectID uint, task models.Task, send func(models.Project, models.Task) error) {
	var p models.Project

	if err := db.DB.First(&p, projectID).Error; err != nil {
		return
	}

	if p.DiscordWebhook == "" && p.SlackWebhook == "" {
		return
	}

	go func() {
		if err := send(p, task); err != nil {
			log.Printf("Failed to send task notification: %v", err)
		}
	}()
}
