package handlers_test

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/kanwise-dev/kanwise/db"
	"github.com/kanwise-dev/kanwise/internal/handlers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListBoardsForParticipants(t *testing.T) {
	r := setupTest(t)

	owner := registerUser(t, r, "Olive Owner", "olive@example.com")
	member := registerUser(t, r, "Mary Member", "mary@example.com")
	stranger := registerUser(t, r, "Sam Stranger", "sam@example.com")

	boardID := createBoard(t, r, owner, "Sprint board", []uint{member.ProfileID})

	for _, user := range []testUser{owner, member} {
		w := doRequest(t, r, http.MethodGet, "/api/boards", user.Token, nil)
		require.Equal(t, http.StatusOK, w.Code)

		var items []handlers.BoardListItem
		decodeJSON(t, w, &items)
		require.Len(t, items, 1)
		assert.Equal(t, boardID, items[0].ID)
		assert.Equal(t, "Sprint board", items[0].Title)
		assert.Equal(t, owner.ProfileID, items[0].OwnerID)
		assert.Equal(t, int64(1), items[0].MemberCount)
	}

	w := doRequest(t, r, http.MethodGet, "/api/boards", stranger.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var items []handlers.BoardListItem
	decodeJSON(t, w, &items)
	assert.Empty(t, items)
}

func TestListBoardsDeduplicatesOwnerMembership(t *testing.T) {
	r := setupTest(t)

	owner := registerUser(t, r, "Olive Owner", "olive@example.com")

	// Owner also listed as member; the board must still appear once.
	boardID := createBoard(t, r, owner, "Solo board", []uint{owner.ProfileID})

	w := doRequest(t, r, http.MethodGet, "/api/boards", owner.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var items []handlers.BoardListItem
	decodeJSON(t, w, &items)
	require.Len(t, items, 1)
	assert.Equal(t, boardID, items[0].ID)
}

func TestBoardAggregates(t *testing.T) {
	r := setupTest(t)

	owner := registerUser(t, r, "Olive Owner", "olive@example.com")
	boardID := createBoard(t, r, owner, "Sprint board", nil)

	createTask(t, r, owner, boardID, gin.H{"title": "one"})
	createTask(t, r, owner, boardID, gin.H{"title": "two", "status": "done", "priority": "high"})
	createTask(t, r, owner, boardID, gin.H{"title": "three", "status": "in-progress", "priority": "high"})

	w := doRequest(t, r, http.MethodGet, "/api/boards", owner.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var items []handlers.BoardListItem
	decodeJSON(t, w, &items)
	require.Len(t, items, 1)

	assert.Equal(t, int64(3), items[0].TicketCount)
	assert.Equal(t, int64(1), items[0].TasksToDoCount)
	assert.Equal(t, int64(2), items[0].TasksHighPrioCount)
	assert.Equal(t, int64(0), items[0].MemberCount)
}

func TestGetBoardAccess(t *testing.T) {
	r := setupTest(t)

	owner := registerUser(t, r, "Olive Owner", "olive@example.com")
	member := registerUser(t, r, "Mary Member", "mary@example.com")
	stranger := registerUser(t, r, "Sam Stranger", "sam@example.com")

	boardID := createBoard(t, r, owner, "Sprint board", []uint{member.ProfileID})
	createTask(t, r, member, boardID, gin.H{"title": "task", "assignee_id": member.ProfileID})

	w := doRequest(t, r, http.MethodGet, boardPath(boardID), member.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var detail handlers.BoardDetailResponse
	decodeJSON(t, w, &detail)
	assert.Equal(t, "Sprint board", detail.Title)
	assert.Equal(t, owner.ProfileID, detail.OwnerID)
	require.Len(t, detail.Members, 1)
	assert.Equal(t, "Mary Member", detail.Members[0].FullName)
	require.Len(t, detail.Tasks, 1)
	require.NotNil(t, detail.Tasks[0].Assignee)
	assert.Equal(t, member.ProfileID, detail.Tasks[0].Assignee.ID)

	w = doRequest(t, r, http.MethodGet, boardPath(boardID), stranger.Token, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doRequest(t, r, http.MethodGet, "/api/boards/9999", owner.Token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateBoard(t *testing.T) {
	r := setupTest(t)

	owner := registerUser(t, r, "Olive Owner", "olive@example.com")
	member := registerUser(t, r, "Mary Member", "mary@example.com")
	other := registerUser(t, r, "Otto Other", "otto@example.com")
	stranger := registerUser(t, r, "Sam Stranger", "sam@example.com")

	boardID := createBoard(t, r, owner, "Sprint board", []uint{member.ProfileID})

	// A member (not just the owner) may rename the board and swap members.
	w := doRequest(t, r, http.MethodPatch, boardPath(boardID), member.Token, gin.H{
		"title":   "Renamed board",
		"members": []uint{other.ProfileID},
	})
	require.Equal(t, http.StatusOK, w.Code)

	var updated handlers.BoardUpdateResponse
	decodeJSON(t, w, &updated)
	assert.Equal(t, "Renamed board", updated.Title)
	require.Len(t, updated.Members, 1)
	assert.Equal(t, other.ProfileID, updated.Members[0].ID)

	w = doRequest(t, r, http.MethodPatch, boardPath(boardID), stranger.Token, gin.H{"title": "nope"})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestCreateBoardUnknownMember(t *testing.T) {
	r := setupTest(t)

	owner := registerUser(t, r, "Olive Owner", "olive@example.com")

	w := doRequest(t, r, http.MethodPost, "/api/boards", owner.Token, gin.H{
		"title":   "Sprint board",
		"members": []uint{9999},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateBoardAggregateQueryFailure(t *testing.T) {
	r := setupTest(t)

	owner := registerUser(t, r, "Olive Owner", "olive@example.com")

	// With the join table gone the member count query fails; the handler
	// must report the failure instead of a zero count.
	require.NoError(t, db.DB.Migrator().DropTable("board_members"))

	w := doRequest(t, r, http.MethodPost, "/api/boards", owner.Token, gin.H{"title": "Sprint board"})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestDeleteBoardOwnerOnly(t *testing.T) {
	r := setupTest(t)

	owner := registerUser(t, r, "Olive Owner", "olive@example.com")
	member := registerUser(t, r, "Mary Member", "mary@example.com")

	boardID := createBoard(t, r, owner, "Sprint board", []uint{member.ProfileID})

	w := doRequest(t, r, http.MethodDelete, boardPath(boardID), member.Token, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doRequest(t, r, http.MethodDelete, boardPath(boardID), owner.Token, nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = doRequest(t, r, http.MethodGet, boardPath(boardID), owner.Token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
