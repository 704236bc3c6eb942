package utils

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
)

func parseIDParam(ctx *gin.Context, name string) (uint, error) {
	idStr := ctx.Param(name)

	if idStr == "" {
		return 0, errors.New(name + " not found")
	}

	id, err := strconv.ParseUint(idStr, 10, 32)

	if err != nil {
		return 0, errors.New("invalid " + name)
	}

	return uint(id), nil
}

func GetBoardID(ctx *gin.Context) (uint, error) {
	return parseIDParam(ctx, "board_id")
}

func GetTaskID(ctx *gin.Context) (uint, error) {
	return parseIDParam(ctx, "task_id")
}

func GetCommentID(ctx *gin.Context) (uint, error) {
	return parseIDParam(ctx, "comment_id")
}
