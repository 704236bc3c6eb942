// Package authz decides, for an acting profile and a loaded entity, whether
// an action is permitted. Functions here are pure: callers load the board
// with its members inside the request and pass it in, so every decision is
// made against a consistent read with no cross-request caching.
package authz

import "github.com/kanwise-dev/kanwise/internal/models"

// IsBoardParticipant reports whether the profile is the board's owner or one
// of its members. Owner and member are independently sufficient; the owner
// does not have to appear in the member set. Requires board.Members to be
// preloaded.
func IsBoardParticipant(profileID uint, board *models.Board) bool {
	if board.OwnerID == profileID {
		return true
	}

	for _, member := range board.Members {
		if member.ID == profileID {
			return true
		}
	}

	return false
}

// IsBoardOwner gates board deletion, which is stricter than participation.
func IsBoardOwner(profileID uint, board *models.Board) bool {
	return board.OwnerID == profileID
}

// CanDeleteTask allows the task's creator or the board's owner. Plain board
// membership is not enough.
func CanDeleteTask(profileID uint, task *models.Task, board *models.Board) bool {
	return task.CreatorID == profileID || board.OwnerID == profileID
}

// CanDeleteComment allows only the comment's author, not even the board owner.
func CanDeleteComment(profileID uint, comment *models.Comment) bool {
	return comment.AuthorID == profileID
}
