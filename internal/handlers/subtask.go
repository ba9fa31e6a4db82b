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
	"github.com/taskhive-dev/taskhive/internal/types"
	"github.com/taskhive-dev/taskhive/internal/utils"
	"gorm.io/gorm"
)

type CreateSubtaskRequest struct {
	Title       string              `json:"title" binding:"required"`
	Description string              `json:"description" binding:"required"`
	Priority    string              `json:"priority" binding:"required"`
	DueDate     *time.Time          `json:"due_date" binding:"required"`
	AssignedTo  *uint               `json:"assigned_to"`
	Attachments []models.Attachment `json:"attachments"`
}

type UpdateSubtaskRequest struct {
	Title       *string             `json:"title"`
	Description *string             `json:"description"`
	Priority    *string             `json:"priority"`
	Status      *string             `json:"status"`
	DueDate     *time.Time          `json:"due_date"`
	AssignedTo  *uint               `json:"assigned_to"`
	IsCompleted *bool               `json:"is_completed"`
	Attachments []models.Attachment `json:"attachments"`
}

type SubtaskResponse struct {
	ID          uint                `json:"id"`
	TaskID      uint                `json:"task_id"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Status      string              `json:"status"`
	Priority    string              `json:"priority"`
	DueDate     *time.Time          `json:"due_date"`
	IsCompleted bool                `json:"is_completed"`
	CreatedBy   uint                `json:"created_by"`
	AssignedTo  *uint               `json:"assigned_to"`
	Attachments []models.Attachment `json:"attachments"`
}

func subtaskResponse(subtask *models.Subtask) SubtaskResponse {
	attachments := []models.Attachment{}
	if len(subtask.Attachments) > 0 {
		if err := json.Unmarshal(subtask.Attachments, &attachments); err != nil {
			log.Printf("Failed to decode attachments for subtask %d: %v", subtask.ID, err)
		}
	}

	return SubtaskResponse{
		ID:          subtask.ID,
		TaskID:      subtask.TaskID,
		Title:       subtask.Title,
		Description: subtask.Description,
		Status:      subtask.Status,
		Priority:    subtask.Priority,
		DueDate:     subtask.DueDate,
		IsCompleted: subtask.IsCompleted,
		CreatedBy:   subtask.CreatedByID,
		AssignedTo:  subtask.AssignedToID,
		Attachments: attachments,
	}
}

func findProjectSubtask(ctx *gin.Context) (*models.Subtask, bool) {
	task, ok := findProjectTask(ctx)

	if !ok {
		return nil, false
	}

	subtaskID, ok := paramUint(ctx, "subtaskId")

	if !ok {
		return nil, false
	}

	var subtask models.Subtask

	err := db.DB.Where("id = ? AND task_id = ?", subtaskID, task.ID).First(&subtask).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Subtask not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve subtask"})
		}
		return nil, false
	}

	return &subtask, true
}

func GetSubtasks(ctx *gin.Context) {
	task, ok := findProjectTask(ctx)

	if !ok {
		return
	}

	var subtasks []models.Subtask

	if err := db.DB.Where("task_id = ?", task.ID).Find(&subtasks).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve subtasks"})
		return
	}

	response := make([]SubtaskResponse, 0, len(subtasks))

	for i := range subtasks {
		response = append(response, subtaskResponse(&subtasks[i]))
	}

	ctx.JSON(http.StatusOK, response)
}

func GetSubtask(ctx *gin.Context) {
	subtask, ok := findProjectSubtask(ctx)

	if !ok {
		return
	}

	ctx.JSON(http.StatusOK, subtaskResponse(subtask))
}

func CreateSubtask(ctx *gin.Context) {
	task, ok := findProjectTask(ctx)

	if !ok {
		return
	}

	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var body CreateSubtaskRequest

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

	subtask := models.Subtask{
		TaskID:       task.ID,
		Title:        body.Title,
		Description:  body.Description,
		Status:       types.TaskStatusTodo,
		Priority:     body.Priority,
		DueDate:      body.DueDate,
		CreatedByID:  userID,
		AssignedToID: body.AssignedTo,
		Attachments:  attachments,
	}

	if err := db.DB.Create(&subtask).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create subtask"})
		return
	}

	BroadcastRefresh(ctx.Param("projectId"))

	ctx.JSON(http.StatusCreated, subtaskResponse(&subtask))
}

func UpdateSubtask(ctx *gin.Context) {
	subtask, ok := findProjectSubtask(ctx)

	if !ok {
		return
	}

	var body UpdateSubtaskRequest

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
	if body.IsCompleted != nil {
		updates["is_completed"] = *body.IsCompleted
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

	if err := db.DB.Model(subtask).Updates(updates).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update subtask"})
		return
	}

	BroadcastRefresh(ctx.Param("projectId"))

	ctx.JSON(http.StatusOK, subtaskResponse(subtask))
}

func DeleteSubtask(ctx *gin.Context) {
	subtask, ok := findProjectSubtask(ctx)

	if !ok {
		return
	}

	if err := db.DB.Delete(subtask).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete subtask"})
		return
	}

	BroadcastRefresh(ctx.Param("projectId"))

	ctx.JSON(http.StatusOK, subtaskResponse(subtask))
}
