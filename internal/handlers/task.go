package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kanwise-dev/kanwise/db"
	"github.com/kanwise-dev/kanwise/internal/authz"
	"github.com/kanwise-dev/kanwise/internal/models"
	"github.com/kanwise-dev/kanwise/internal/types"
	"github.com/kanwise-dev/kanwise/internal/utils"
	"gorm.io/gorm"
)

const dueDateLayout = "2006-01-02"

// OptionalID distinguishes an absent field from an explicit null in a PATCH
// body: absent leaves the value unchanged, null clears it.
type OptionalID struct {
	Set   bool
	Value *uint
}

func (o *OptionalID) UnmarshalJSON(data []byte) error {
	o.Set = true

	if string(data) == "null" {
		o.Value = nil
		return nil
	}

	return json.Unmarshal(data, &o.Value)
}

type CreateTaskRequest struct {
	Board       uint   `json:"board" binding:"required"`
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	Status      string `json:"status"`
	Priority    string `json:"priority"`
	AssigneeID  *uint  `json:"assignee_id"`
	ReviewerID  *uint  `json:"reviewer_id"`
	DueDate     string `json:"due_date" binding:"required"`
}

type UpdateTaskRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Status      *string    `json:"status"`
	Priority    *string    `json:"priority"`
	AssigneeID  OptionalID `json:"assignee_id"`
	ReviewerID  OptionalID `json:"reviewer_id"`
	DueDate     *string    `json:"due_date"`
}

func profileResponse(profile *models.Profile) *types.ProfileResponse {
	if profile == nil {
		return nil
	}

	return &types.ProfileResponse{
		ID:       profile.ID,
		Email:    profile.User.Email,
		FullName: profile.FullName,
	}
}

// taskResponse serializes a task with its comment count computed live.
// Assignee and Reviewer must be preloaded along with their users.
func taskResponse(task models.Task) (types.TaskResponse, error) {
	var commentsCount int64

	if err := db.DB.Model(&models.Comment{}).Where("task_id = ?", task.ID).Count(&commentsCount).Error; err != nil {
		return types.TaskResponse{}, err
	}

	return types.TaskResponse{
		ID:            task.ID,
		Board:         task.BoardID,
		Title:         task.Title,
		Description:   task.Description,
		Status:        task.Status,
		Priority:      task.Priority,
		Assignee:      profileResponse(task.Assignee),
		Reviewer:      profileResponse(task.Reviewer),
		DueDate:       task.DueDate.Format(dueDateLayout),
		CommentsCount: commentsCount,
	}, nil
}

// checkAssignment validates that an assignee or reviewer candidate is a
// participant of the task's board. Enforced on create and on every update.
func checkAssignment(profileID uint, board *models.Board, role string) (string, bool) {
	if authz.IsBoardParticipant(profileID, board) {
		return "", true
	}

	return role + " must be a member of the board.", false
}

func loadTask(id uint) (models.Task, error) {
	var task models.Task

	err := db.DB.Preload("Assignee.User").Preload("Reviewer.User").First(&task, id).Error

	return task, err
}

func CreateTask(ctx *gin.Context) {
	var req CreateTaskRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	profileID, err := utils.GetCurrentProfileID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var board models.Board

	if err := db.DB.Preload("Members").First(&board, req.Board).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Board not found"})
		} else {
			log.Printf("Failed to retrieve board: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	if !authz.IsBoardParticipant(profileID, &board) {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "You cannot create a task for this board"})
		return
	}

	status := req.Status

	if status == "" {
		status = types.StatusToDo
	}

	if !types.IsValidStatus(status) {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
		return
	}

	priority := req.Priority

	if priority == "" {
		priority = types.PriorityMedium
	}

	if !types.IsValidPriority(priority) {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid priority"})
		return
	}

	dueDate, err := time.Parse(dueDateLayout, req.DueDate)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid due date, expected YYYY-MM-DD"})
		return
	}

	if req.AssigneeID != nil {
		if msg, ok := checkAssignment(*req.AssigneeID, &board, "Assignee"); !ok {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": msg})
			return
		}
	}

	if req.ReviewerID != nil {
		if msg, ok := checkAssignment(*req.ReviewerID, &board, "Reviewer"); !ok {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": msg})
			return
		}
	}

	task := models.Task{
		BoardID:     board.ID,
		CreatorID:   profileID,
		AssigneeID:  req.AssigneeID,
		ReviewerID:  req.ReviewerID,
		Title:       req.Title,
		Description: req.Description,
		Status:      status,
		Priority:    priority,
		DueDate:     dueDate,
	}

	if err := db.DB.Create(&task).Error; err != nil {
		log.Printf("Failed to create task: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	task, err = loadTask(task.ID)

	if err != nil {
		log.Printf("Failed to reload task: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	response, err := taskResponse(task)

	if err != nil {
		log.Printf("Failed to serialize task: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusCreated, response)
}

func UpdateTask(ctx *gin.Context) {
	taskID, err := utils.GetTaskID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	profileID, err := utils.GetCurrentProfileID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req UpdateTaskRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
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

	var board models.Board

	if err := db.DB.Preload("Members").First(&board, task.BoardID).Error; err != nil {
		log.Printf("Failed to retrieve board: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if !authz.IsBoardParticipant(profileID, &board) {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "You do not have access to this board"})
		return
	}

	updates := make(map[string]interface{})

	if req.Title != nil {
		updates["title"] = *req.Title
	}

	if req.Description != nil {
		updates["description"] = *req.Description
	}

	if req.Status != nil {
		if !types.IsValidStatus(*req.Status) {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
			return
		}
		updates["status"] = *req.Status
	}

	if req.Priority != nil {
		if !types.IsValidPriority(*req.Priority) {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid priority"})
			return
		}
		updates["priority"] = *req.Priority
	}

	if req.DueDate != nil {
		dueDate, err := time.Parse(dueDateLayout, *req.DueDate)

		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid due date, expected YYYY-MM-DD"})
			return
		}

		updates["due_date"] = dueDate
	}

	if req.AssigneeID.Set {
		if req.AssigneeID.Value != nil {
			if msg, ok := checkAssignment(*req.AssigneeID.Value, &board, "Assignee"); !ok {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": msg})
				return
			}
		}
		updates["assignee_id"] = req.AssigneeID.Value
	}

	if req.ReviewerID.Set {
		if req.ReviewerID.Value != nil {
			if msg, ok := checkAssignment(*req.ReviewerID.Value, &board, "Reviewer"); !ok {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": msg})
				return
			}
		}
		updates["reviewer_id"] = req.ReviewerID.Value
	}

	if len(updates) > 0 {
		if err := db.DB.Model(&task).Updates(updates).Error; err != nil {
			log.Printf("Failed to update task: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}
	}

	task, err = loadTask(task.ID)

	if err != nil {
		log.Printf("Failed to reload task: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	response, err := taskResponse(task)

	if err != nil {
		log.Printf("Failed to serialize task: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusOK, response)
}

func DeleteTask(ctx *gin.Context) {
	taskID, err := utils.GetTaskID(ctx)

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

	var board models.Board

	if err := db.DB.First(&board, task.BoardID).Error; err != nil {
		log.Printf("Failed to retrieve board: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if !authz.CanDeleteTask(profileID, &task, &board) {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Only the task creator or the board owner can delete this task"})
		return
	}

	err = db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_id = ?", task.ID).Delete(&models.Comment{}).Error; err != nil {
			return err
		}

		return tx.Delete(&task).Error
	})

	if err != nil {
		log.Printf("Failed to delete task: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	ctx.Status(http.StatusNoContent)
}

func listTasksFor(ctx *gin.Context, column string) {
	profileID, err := utils.GetCurrentProfileID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var tasks []models.Task

	err = db.DB.Preload("Assignee.User").Preload("Reviewer.User").
		Where(column+" = ?", profileID).Order("id").Find(&tasks).Error

	if err != nil {
		log.Printf("Failed to retrieve tasks: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	response := make([]types.TaskResponse, 0, len(tasks))

	for _, task := range tasks {
		item, err := taskResponse(task)

		if err != nil {
			log.Printf("Failed to serialize task: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}

		response = append(response, item)
	}

	ctx.JSON(http.StatusOK, response)
}

func AssignedToMe(ctx *gin.Context) {
	listTasksFor(ctx, "assignee_id")
}

func Reviewing(ctx *gin.Context) {
	listTasksFor(ctx, "reviewer_id")
}

// TaskNotFound serves the deliberately disabled unscoped task routes. Tasks
// are discoverable only through board detail, assigned-to-me and reviewing.
func TaskNotFound(ctx *gin.Context) {
	ctx.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
}
