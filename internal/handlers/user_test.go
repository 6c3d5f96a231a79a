package handlers_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/artfolio/backend/internal/handlers"
	"github.com/artfolio/backend/internal/models"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestGetProfile_WithFollowerCounts(t *testing.T) {
	userRepo := new(MockUserRepository)
	h := handlers.NewUserHandler(userRepo, t.TempDir())

	user := &models.User{
		ID:       primitive.NewObjectID(),
		Username: "alice",
		Followers: []primitive.ObjectID{
			primitive.NewObjectID(),
			primitive.NewObjectID(),
		},
		Following: []primitive.ObjectID{primitive.NewObjectID()},
	}
	userRepo.On("GetUserByUsername", mock.Anything, "alice").Return(user, nil).Once()

	c, rec := newTestContext(http.MethodGet, "/", "")
	c.SetParamNames("username")
	c.SetParamValues("alice")

	require.NoError(t, h.GetProfile(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		FollowersCount int `json:"followersCount"`
		FollowingCount int `json:"followingCount"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.FollowersCount)
	assert.Equal(t, 1, resp.FollowingCount)
}

func TestGetProfile_NotFound(t *testing.T) {
	userRepo := new(MockUserRepository)
	h := handlers.NewUserHandler(userRepo, t.TempDir())

	userRepo.On("GetUserByUsername", mock.Anything, "ghost").Return(nil, errors.New("not found")).Once()

	c, _ := newTestContext(http.MethodGet, "/", "")
	c.SetParamNames("username")
	c.SetParamValues("ghost")

	err := h.GetProfile(c)
	require.Error(t, err)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, he.Code)
}

func TestUpdateProfile_EmptyBody(t *testing.T) {
	userRepo := new(MockUserRepository)
	h := handlers.NewUserHandler(userRepo, t.TempDir())

	c, _ := newTestContext(http.MethodPut, "/profile", `{}`)
	authenticate(c, primitive.NewObjectID())

	err := h.UpdateProfile(c)
	require.Error(t, err)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, he.Code)
	assert.Equal(t, "At least one field must be updated", he.Message)
	userRepo.AssertNotCalled(t, "UpdateProfile", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateProfile_UsernameTaken(t *testing.T) {
	userRepo := new(MockUserRepository)
	h := handlers.NewUserHandler(userRepo, t.TempDir())

	userID := primitive.NewObjectID()
	userRepo.On("UsernameTaken", mock.Anything, "bob", userID).Return(true, nil).Once()

	c, _ := newTestContext(http.MethodPut, "/profile", `{"username":"bob"}`)
	authenticate(c, userID)

	err := h.UpdateProfile(c)
	require.Error(t, err)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, he.Code)
	assert.Equal(t, "Username is already taken", he.Message)
	userRepo.AssertNotCalled(t, "UpdateProfile", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateProfile_Success(t *testing.T) {
	userRepo := new(MockUserRepository)
	h := handlers.NewUserHandler(userRepo, t.TempDir())

	userID := primitive.NewObjectID()
	updated := &models.User{ID: userID, Name: "Alice B", Username: "alice"}
	userRepo.On("UpdateProfile", mock.Anything, userID, mock.MatchedBy(func(req *models.UpdateProfileRequest) bool {
		return req.Name == "Alice B"
	})).Return(updated, nil).Once()

	c, rec := newTestContext(http.MethodPut, "/profile", `{"name":"Alice B"}`)
	authenticate(c, userID)

	require.NoError(t, h.UpdateProfile(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	userRepo.AssertExpectations(t)
}

func TestGetFollowers_Pagination(t *testing.T) {
	userRepo := new(MockUserRepository)
	h := handlers.NewUserHandler(userRepo, t.TempDir())

	userID := primitive.NewObjectID()
	page := []models.UserCompact{
		{ID: primitive.NewObjectID(), Username: "bob"},
		{ID: primitive.NewObjectID(), Username: "carol"},
	}
	userRepo.On("FollowersPage", mock.Anything, userID, 0, 2).Return(page, 5, nil).Once()

	c, rec := newTestContext(http.MethodGet, "/?page=1&limit=2", "")
	c.SetParamNames("id")
	c.SetParamValues(userID.Hex())

	require.NoError(t, h.GetFollowers(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Followers   []models.UserCompact `json:"followers"`
		Total       int                  `json:"total"`
		CurrentPage int                  `json:"currentPage"`
		HasMore     bool                 `json:"hasMore"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Followers, 2)
	assert.Equal(t, 5, resp.Total)
	assert.Equal(t, 1, resp.CurrentPage)
	assert.True(t, resp.HasMore)
}

func TestGetFollowing_LastPage(t *testing.T) {
	userRepo := new(MockUserRepository)
	h := handlers.NewUserHandler(userRepo, t.TempDir())

	userID := primitive.NewObjectID()
	page := []models.UserCompact{{ID: primitive.NewObjectID(), Username: "bob"}}
	userRepo.On("FollowingPage", mock.Anything, userID, 10, 10).Return(page, 11, nil).Once()

	c, rec := newTestContext(http.MethodGet, "/?page=2", "")
	c.SetParamNames("id")
	c.SetParamValues(userID.Hex())

	require.NoError(t, h.GetFollowing(c))

	var resp struct {
		HasMore bool `json:"hasMore"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.HasMore)
}
