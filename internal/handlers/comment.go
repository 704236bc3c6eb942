package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kanwise-dev/kanwise/db"
	"github.com/kanwise-dev/kanwise/internal/authz"
	"github.com/kanwise-dev/kanwise/internal/models"
	"github.com/kanwise-dev/kanwise/internal/types"
	"github.com/kanwise-dev/kanwise/internal/utils"
	"gorm.io/gorm"
)

// Content may be empty; a comment is still a valid marker on a task.
type CreateCommentRequest struct {
	Content string `json:"content"`
}

func commentResponse(comment models.Comment) types.CommentResponse {
	return types.CommentResponse{
		ID:        comment.ID,
		CreatedAt: comment.CreatedAt,
		Author:    comment.Author.FullName,
		Content:   comment.Content,
	}
}

// taskForParticipant loads the task and verifies board participation,
// writing the error response itself when access fails.
func taskForParticipant(ctx *gin.Context) (models.Task, uint, bool) {
	taskID, err := utils.GetTaskID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return models.Task{}, 0, false
	}

	profileID, err := utils.GetCurrentProfileID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return models.Task{}, 0, false
	}

	var task models.Task

	if err := db.DB.First(&task, taskID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		} else {
			log.Printf("Failed to retrieve task: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return models.Task{}, 0, false
	}

	var board models.Board

	if err := db.DB.Preload("Members").First(&board, task.BoardID).Error; err != nil {
		log.Printf("Failed to retrieve board: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return models.Task{}, 0, false
	}

	if !authz.IsBoardParticipant(profileID, &board) {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "You do not have access to this board"})
		return models.Task{}, 0, false
	}

	return task, profileID, true
}

func ListComments(ctx *gin.Context) {
	task, _, ok := taskForParticipant(ctx)

	if !ok {
		return
	}

	var comments []models.Comment

	err := db.DB.Preload("Author").Where("task_id = ?", task.ID).Order("created_at, id").Find(&comments).Error

	if err != nil {
		log.Printf("Failed to retrieve comments: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	response := make([]types.CommentResponse, 0, len(comments))

	for _, comment := range comments {
		response = append(response, commentResponse(comment))
	}

	ctx.JSON(http.StatusOK, response)
}

func CreateComment(ctx *gin.Context) {
	task, profileID, ok := taskForParticipant(ctx)

	if !ok {
		return
	}

	var req CreateCommentRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	comment := models.Comment{
		TaskID:   task.ID,
		AuthorID: profileID,
		Content:  req.Content,
	}

	if err := db.DB.Create(&comment).Error; err != nil {
		log.Printf("Failed to create comment: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if err := db.DB.Preload("Author").First(&comment, comment.ID).Error; err != nil {
		log.Printf("Failed to reload comment: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusCreated, commentResponse(comment))
}

func DeleteComment(ctx *gin.Context) {
	taskID, err := utils.GetTaskID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	commentID, err := utils.GetCommentID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	profileID, err := utils.GetCurrentProfileID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var task models.Task

	if err := db.DB.First(&task, taskID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		} else {
			log.Printf("Failed to retrieve task: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	var comment models.Comment

	if err := db.DB.Where("id = ? AND task_id = ?", commentID, task.ID).First(&comment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Comment not found"})
		} else {
			log.Printf("Failed to retrieve comment: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	if !authz.CanDeleteComment(profileID, &comment) {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Only the comment author can delete this comment"})
		return
	}

	if err := db.DB.Delete(&comment).Error; err != nil {
		log.Printf("Failed to delete comment: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	ctx.Status(http.StatusNoContent)
}
