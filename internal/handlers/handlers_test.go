package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/kanwise-dev/kanwise/db"
	"github.com/kanwise-dev/kanwise/internal/auth"
	"github.com/kanwise-dev/kanwise/internal/models"
	"github.com/kanwise-dev/kanwise/internal/router"
	"github.com/kanwise-dev/kanwise/internal/types"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTest wires the handlers to a fresh in-memory database and returns the
// full router, so tests exercise the same middleware chain as production.
func setupTest(t *testing.T) *gin.Engine {
	t.Helper()

	gin.SetMode(gin.TestMode)
	t.Setenv("JWT_SECRET", "test-secret")
	require.NoError(t, auth.InitJWTSecret())

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))

	gormDB, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	db.DB = gormDB
	require.NoError(t, db.MigrateDatabase())

	return router.NewRouter()
}

func doRequest(t *testing.T, r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader

	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeJSON(t *testing.T, w *httptest.ResponseRecorder, target interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), target))
}

func errorMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()

	var body map[string]string
	decodeJSON(t, w, &body)
	return body["error"]
}

func boardPath(boardID uint) string {
	return fmt.Sprintf("/api/boards/%d", boardID)
}

func taskPath(taskID uint) string {
	return fmt.Sprintf("/api/tasks/%d", taskID)
}

func commentsPath(taskID uint) string {
	return fmt.Sprintf("/api/tasks/%d/comments", taskID)
}

func commentPath(taskID, commentID uint) string {
	return fmt.Sprintf("/api/tasks/%d/comments/%d", taskID, commentID)
}

type testUser struct {
	Token     string
	UserID    uint
	ProfileID uint
	Email     string
}

func registerUser(t *testing.T, r *gin.Engine, fullname, email string) testUser {
	t.Helper()

	w := doRequest(t, r, http.MethodPost, "/api/auth/registration", "", gin.H{
		"fullname":          fullname,
		"email":             email,
		"password":          "supersecret",
		"repeated_password": "supersecret",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var resp types.UserResponse
	decodeJSON(t, w, &resp)

	var profile models.Profile
	require.NoError(t, db.DB.Where("user_id = ?", resp.UserID).First(&profile).Error)

	return testUser{
		Token:     resp.Token,
		UserID:    resp.UserID,
		ProfileID: profile.ID,
		Email:     email,
	}
}

func createBoard(t *testing.T, r *gin.Engine, owner testUser, title string, memberIDs []uint) uint {
	t.Helper()

	w := doRequest(t, r, http.MethodPost, "/api/boards", owner.Token, gin.H{
		"title":   title,
		"members": memberIDs,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var item struct {
		ID uint `json:"id"`
	}
	decodeJSON(t, w, &item)
	return item.ID
}

func createTask(t *testing.T, r *gin.Engine, creator testUser, boardID uint, body gin.H) types.TaskResponse {
	t.Helper()

	payload := gin.H{
		"board":    boardID,
		"title":    "a task",
		"due_date": "2026-12-01",
	}
	for k, v := range body {
		payload[k] = v
	}

	w := doRequest(t, r, http.MethodPost, "/api/tasks", creator.Token, payload)
	require.Equal(t, http.StatusCreated, w.Code)

	var task types.TaskResponse
	decodeJSON(t, w, &task)
	return task
}
