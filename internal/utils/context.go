package utils

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/kanwise-dev/kanwise/internal/middleware"
	"github.com/kanwise-dev/kanwise/internal/types"
)

func GetCurrentUser(ctx *gin.Context) (middleware.AuthenticatedUser, error) {
	user, exists := ctx.Get(types.ContextUserKey)

	if !exists {
		return middleware.AuthenticatedUser{}, fmt.Errorf("user not authenticated")
	}

	authenticatedUser, ok := user.(middleware.AuthenticatedUser)

	if !ok {
		return middleware.AuthenticatedUser{}, fmt.Errorf("invalid user type in context")
	}

	return authenticatedUser, nil
}

// GetCurrentProfileID returns the acting principal's profile ID, the identity
// every authorization check is evaluated against.
func GetCurrentProfileID(ctx *gin.Context) (uint, error) {
	user, err := GetCurrentUser(ctx)

	if err != nil {
		return 0, err
	}

	return user.ProfileID, nil
}
