package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/taskhive-dev/taskhive/db"
	"github.com/taskhive-dev/taskhive/internal/models"
	"github.com/taskhive-dev/taskhive/internal/utils"
	"gorm.io/gorm"
)

type NoteRequest struct {
	Content string `json:"content" binding:"required"`
}

type NoteResponse struct {
	ID        uint   `json:"id"`
	ProjectID uint   `json:"project_id"`
	Content   string `json:"content"`
	CreatedBy uint   `json:"created_by"`
}

func noteResponse(note *models.Note) NoteResponse {
	return NoteResponse{
		ID:        note.ID,
		ProjectID: note.ProjectID,
		Content:   note.Content,
		CreatedBy: note.CreatedByID,
	}
}

func findProjectNote(ctx *gin.Context) (*models.Note, bool) {
	projectID, ok := paramUint(ctx, "projectId")

	if !ok {
		return nil, false
	}

	noteID, ok := paramUint(ctx, "noteId")

	if !ok {
		return nil, false
	}

	var note models.Note

	err := db.DB.Where("id = ? AND project_id = ?", noteID, projectID).First(&note).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Note not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve note"})
		}
		return nil, false
	}

	return &note, true
}

func GetNotes(ctx *gin.Context) {
	projectID, ok := paramUint(ctx, "projectId")

	if !ok {
		return
	}

	var notes []models.Note

	if err := db.DB.Where("project_id = ?", projectID).Find(&notes).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve notes"})
		return
	}

	response := make([]NoteResponse, 0, len(notes))

	for i := range notes {
		response = append(response, noteResponse(&notes[i]))
	}

	ctx.JSON(http.StatusOK, response)
}

func GetNote(ctx *gin.Context) {
	note, ok := findProjectNote(ctx)

	if !ok {
		return
	}

	ctx.JSON(http.StatusOK, noteResponse(note))
}

func CreateNote(ctx *gin.Context) {
	projectID, ok := paramUint(ctx, "projectId")

	if !ok {
		return
	}

	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var body NoteRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Note content is missing"})
		return
	}

	note := models.Note{
		ProjectID:   projectID,
		CreatedByID: userID,
		Content:     body.Content,
	}

	if err := db.DB.Create(&note).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create note"})
		return
	}

	BroadcastRefresh(ctx.Param("projectId"))

	ctx.JSON(http.StatusCreated, noteResponse(&note))
}

func UpdateNote(ctx *gin.Context) {
	note, ok := findProjectNote(ctx)

	if !ok {
		return
	}

	var body NoteRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Note content is missing"})
		return
	}

	if err := db.DB.Model(note).Update("content", body.Content).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update note"})
		return
	}

	BroadcastRefresh(ctx.Param("projectId"))

	ctx.JSON(http.StatusOK, noteResponse(note))
}

func DeleteNote(ctx *gin.Context) {
	note, ok := findProjectNote(ctx)

	if !ok {
		return
	}

	if err := db.DB.Delete(note).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete note"})
		return
	}

	BroadcastRefresh(ctx.Param("projectId"))

	ctx.JSON(http.StatusOK, gin.H{"message": "Note deleted successfully"})
}
