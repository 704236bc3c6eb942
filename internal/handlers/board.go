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

type CreateBoardRequest struct {
	Title   string `json:"title" binding:"required"`
	Members []uint `json:"members"`
}

type UpdateBoardRequest struct {
	Title   *string `json:"title"`
	Members *[]uint `json:"members"`
}

type BoardListItem struct {
	ID                 uint   `json:"id"`
	Title              string `json:"title"`
	MemberCount        int64  `json:"member_count"`
	OwnerID            uint   `json:"owner_id"`
	TicketCount        int64  `json:"ticket_count"`
	TasksToDoCount     int64  `json:"tasks_to_do_count"`
	TasksHighPrioCount int64  `json:"tasks_high_prio_count"`
}

type BoardDetailResponse struct {
	ID      uint                    `json:"id"`
	Title   string                  `json:"title"`
	OwnerID uint                    `json:"owner_id"`
	Members []types.ProfileResponse `json:"members"`
	Tasks   []types.TaskResponse    `json:"tasks"`
}

type BoardUpdateResponse struct {
	ID      uint                    `json:"id"`
	Title   string                  `json:"title"`
	OwnerID uint                    `json:"owner_id"`
	Members []types.ProfileResponse `json:"members"`
}

// loadMemberProfiles resolves profile IDs for a member list, failing when any
// ID does not exist so a board never references a phantom profile.
func loadMemberProfiles(tx *gorm.DB, ids []uint) ([]models.Profile, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var profiles []models.Profile

	if err := tx.Preload("User").Where("id IN ?", ids).Find(&profiles).Error; err != nil {
		return nil, err
	}

	if len(profiles) != len(uniqueIDs(ids)) {
		return nil, gorm.ErrRecordNotFound
	}

	return profiles, nil
}

func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]bool, len(ids))
	unique := make([]uint, 0, len(ids))

	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			unique = append(unique, id)
		}
	}

	return unique
}

// boardListItem computes the live aggregates for a board list entry. Counts
// are derived per request and never stored.
func boardListItem(board models.Board) (BoardListItem, error) {
	item := BoardListItem{
		ID:      board.ID,
		Title:   board.Title,
		OwnerID: board.OwnerID,
	}

	members := db.DB.Model(&board).Association("Members")
	item.MemberCount = members.Count()

	if members.Error != nil {
		return BoardListItem{}, members.Error
	}

	taskCounts := []struct {
		target *int64
		query  *gorm.DB
	}{
		{&item.TicketCount, db.DB.Model(&models.Task{}).Where("board_id = ?", board.ID)},
		{&item.TasksToDoCount, db.DB.Model(&models.Task{}).Where("board_id = ? AND status = ?", board.ID, types.StatusToDo)},
		{&item.TasksHighPrioCount, db.DB.Model(&models.Task{}).Where("board_id = ? AND priority = ?", board.ID, types.PriorityHigh)},
	}

	for _, count := range taskCounts {
		if err := count.query.Count(count.target).Error; err != nil {
			return BoardListItem{}, err
		}
	}

	return item, nil
}

func memberResponses(members []models.Profile) []types.ProfileResponse {
	responses := make([]types.ProfileResponse, 0, len(members))

	for i := range members {
		responses = append(responses, *profileResponse(&members[i]))
	}

	return responses
}

func CreateBoard(ctx *gin.Context) {
	var req CreateBoardRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	profileID, err := utils.GetCurrentProfileID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	board := models.Board{
		Title:   req.Title,
		OwnerID: profileID,
	}

	err = db.DB.Transaction(func(tx *gorm.DB) error {
		members, err := loadMemberProfiles(tx, req.Members)

		if err != nil {
			return err
		}

		board.Members = members
		return tx.Create(&board).Error
	})

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "One or more member profiles do not exist"})
			return
		}
		log.Printf("Failed to create board: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	item, err := boardListItem(board)

	if err != nil {
		log.Printf("Failed to compute board aggregates: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusCreated, item)
}

func ListBoards(ctx *gin.Context) {
	profileID, err := utils.GetCurrentProfileID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	memberOf := db.DB.Table("board_members").Select("board_id").Where("profile_id = ?", profileID)

	var boards []models.Board

	if err := db.DB.Where("owner_id = ? OR id IN (?)", profileID, memberOf).Order("id").Find(&boards).Error; err != nil {
		log.Printf("Failed to retrieve boards: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	response := make([]BoardListItem, 0, len(boards))

	for _, board := range boards {
		item, err := boardListItem(board)

		if err != nil {
			log.Printf("Failed to compute board aggregates: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}

		response = append(response, item)
	}

	ctx.JSON(http.StatusOK, response)
}

func GetBoard(ctx *gin.Context) {
	boardID, err := utils.GetBoardID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	profileID, err := utils.GetCurrentProfileID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var board models.Board

	if err := db.DB.Preload("Members.User").First(&board, boardID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Board not found"})
		} else {
			log.Printf("Failed to retrieve board: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	if !authz.IsBoardParticipant(profileID, &board) {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "You do not have access to this board"})
		return
	}

	var tasks []models.Task

	err = db.DB.Preload("Assignee.User").Preload("Reviewer.User").
		Where("board_id = ?", board.ID).Order("id").Find(&tasks).Error

	if err != nil {
		log.Printf("Failed to retrieve board tasks: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	taskResponses := make([]types.TaskResponse, 0, len(tasks))

	for _, task := range tasks {
		response, err := taskResponse(task)

		if err != nil {
			log.Printf("Failed to serialize task: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}

		taskResponses = append(taskResponses, response)
	}

	ctx.JSON(http.StatusOK, BoardDetailResponse{
		ID:      board.ID,
		Title:   board.Title,
		OwnerID: board.OwnerID,
		Members: memberResponses(board.Members),
		Tasks:   taskResponses,
	})
}

func UpdateBoard(ctx *gin.Context) {
	boardID, err := utils.GetBoardID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	profileID, err := utils.GetCurrentProfileID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req UpdateBoardRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	var board models.Board

	if err := db.DB.Preload("Members.User").First(&board, boardID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Board not found"})
		} else {
			log.Printf("Failed to retrieve board: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	if !authz.IsBoardParticipant(profileID, &board) {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "You do not have access to this board"})
		return
	}

	err = db.DB.Transaction(func(tx *gorm.DB) error {
		if req.Title != nil {
			board.Title = *req.Title

			if err := tx.Model(&board).Update("title", board.Title).Error; err != nil {
				return err
			}
		}

		if req.Members != nil {
			members, err := loadMemberProfiles(tx, *req.Members)

			if err != nil {
				return err
			}

			if err := tx.Model(&board).Association("Members").Replace(members); err != nil {
				return err
			}

			board.Members = members
		}

		return nil
	})

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "One or more member profiles do not exist"})
			return
		}
		log.Printf("Failed to update board: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusOK, BoardUpdateResponse{
		ID:      board.ID,
		Title:   board.Title,
		OwnerID: board.OwnerID,
		Members: memberResponses(board.Members),
	})
}

func DeleteBoard(ctx *gin.Context) {
	boardID, err := utils.GetBoardID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	profileID, err := utils.GetCurrentProfileID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var board models.Board

	if err := db.DB.First(&board, boardID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Board not found"})
		} else {
			log.Printf("Failed to retrieve board: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	if !authz.IsBoardOwner(profileID, &board) {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Only the board owner can delete this board"})
		return
	}

	// Tasks and their comments go with the board in a single transaction.
	err = db.DB.Transaction(func(tx *gorm.DB) error {
		taskIDs := tx.Model(&models.Task{}).Select("id").Where("board_id = ?", board.ID)

		if err := tx.Where("task_id IN (?)", taskIDs).Delete(&models.Comment{}).Error; err != nil {
			return err
		}

		if err := tx.Where("board_id = ?", board.ID).Delete(&models.Task{}).Error; err != nil {
			return err
		}

		if err := tx.Model(&board).Association("Members").Clear(); err != nil {
			return err
		}

		return tx.Delete(&board).Error
	})

	if err != nil {
		log.Printf("Failed to delete board: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	ctx.Status(http.StatusNoContent)
}
