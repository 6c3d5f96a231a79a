package handlers_test

import (
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

func TestAddComment_NotifiesCreator(t *testing.T) {
	artworkRepo := new(MockArtworkRepository)
	userRepo := new(MockUserRepository)
	notifRepo := new(MockNotificationRepository)
	h := handlers.NewCommentHandler(artworkRepo, userRepo, notifRepo)

	commenter := &models.User{ID: primitive.NewObjectID(), Name: "Alice", Username: "alice"}
	artwork := &models.Artwork{ID: primitive.NewObjectID(), Creator: primitive.NewObjectID()}

	artworkRepo.On("GetArtworkByID", mock.Anything, artwork.ID).Return(artwork, nil).Twice()
	artworkRepo.On("AddComment", mock.Anything, artwork.ID, mock.MatchedBy(func(cm *models.Comment) bool {
		return cm.User == commenter.ID && cm.Content == "Great piece!"
	})).Return(nil).Once()
	userRepo.On("GetUserByID", mock.Anything, commenter.ID).Return(commenter, nil).Once()
	notifRepo.On("Fanout", mock.Anything, mock.MatchedBy(func(n *models.Notification) bool {
		return n.Recipient == artwork.Creator && n.Type == models.NotificationComment
	})).Return(nil).Once()

	c, rec := newTestContext(http.MethodPost, "/", `{"content":"Great piece!"}`)
	c.SetParamNames("id")
	c.SetParamValues(artwork.ID.Hex())
	authenticate(c, commenter.ID)

	require.NoError(t, h.AddComment(c))
	assert.Equal(t, http.StatusCreated, rec.Code)
	artworkRepo.AssertExpectations(t)
	notifRepo.AssertExpectations(t)
}

func TestAddComment_OwnArtworkSkipsNotification(t *testing.T) {
	artworkRepo := new(MockArtworkRepository)
	userRepo := new(MockUserRepository)
	notifRepo := new(MockNotificationRepository)
	h := handlers.NewCommentHandler(artworkRepo, userRepo, notifRepo)

	ownerID := primitive.NewObjectID()
	artwork := &models.Artwork{ID: primitive.NewObjectID(), Creator: ownerID}
	artworkRepo.On("GetArtworkByID", mock.Anything, artwork.ID).Return(artwork, nil).Twice()
	artworkRepo.On("AddComment", mock.Anything, artwork.ID, mock.Anything).Return(nil).Once()

	c, _ := newTestContext(http.MethodPost, "/", `{"content":"Notes to self"}`)
	c.SetParamNames("id")
	c.SetParamValues(artwork.ID.Hex())
	authenticate(c, ownerID)

	require.NoError(t, h.AddComment(c))
	notifRepo.AssertNotCalled(t, "Fanout", mock.Anything, mock.Anything)
}

func TestAddComment_EmptyContentRejected(t *testing.T) {
	artworkRepo := new(MockArtworkRepository)
	h := handlers.NewCommentHandler(artworkRepo, new(MockUserRepository), new(MockNotificationRepository))

	c, _ := newTestContext(http.MethodPost, "/", `{"content":""}`)
	c.SetParamNames("id")
	c.SetParamValues(primitive.NewObjectID().Hex())
	authenticate(c, primitive.NewObjectID())

	err := h.AddComment(c)
	require.Error(t, err)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, he.Code)
	artworkRepo.AssertNotCalled(t, "AddComment", mock.Anything, mock.Anything, mock.Anything)
}

func TestLikeComment_NotifiesAuthor(t *testing.T) {
	artworkRepo := new(MockArtworkRepository)
	userRepo := new(MockUserRepository)
	notifRepo := new(MockNotificationRepository)
	h := handlers.NewCommentHandler(artworkRepo, userRepo, notifRepo)

	liker := &models.User{ID: primitive.NewObjectID(), Name: "Alice", Username: "alice"}
	comment := models.Comment{ID: primitive.NewObjectID(), User: primitive.NewObjectID()}
	artwork := &models.Artwork{
		ID:       primitive.NewObjectID(),
		Creator:  primitive.NewObjectID(),
		Comments: []models.Comment{comment},
	}

	artworkRepo.On("GetArtworkByID", mock.Anything, artwork.ID).Return(artwork, nil).Once()
	artworkRepo.On("AddCommentLike", mock.Anything, artwork.ID, comment.ID, liker.ID).Return(nil).Once()
	userRepo.On("GetUserByID", mock.Anything, liker.ID).Return(liker, nil).Once()
	notifRepo.On("Fanout", mock.Anything, mock.MatchedBy(func(n *models.Notification) bool {
		return n.Recipient == comment.User && n.Type == models.NotificationCommentLike && n.CommentID == comment.ID
	})).Return(nil).Once()

	c, rec := newTestContext(http.MethodPost, "/", "")
	c.SetParamNames("artworkId", "commentId")
	c.SetParamValues(artwork.ID.Hex(), comment.ID.Hex())
	authenticate(c, liker.ID)

	require.NoError(t, h.LikeComment(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	artworkRepo.AssertExpectations(t)
	notifRepo.AssertExpectations(t)
}

func TestLikeComment_OwnCommentSkipsNotification(t *testing.T) {
	artworkRepo := new(MockArtworkRepository)
	userRepo := new(MockUserRepository)
	notifRepo := new(MockNotificationRepository)
	h := handlers.NewCommentHandler(artworkRepo, userRepo, notifRepo)

	authorID := primitive.NewObjectID()
	comment := models.Comment{ID: primitive.NewObjectID(), User: authorID}
	artwork := &models.Artwork{
		ID:       primitive.NewObjectID(),
		Creator:  primitive.NewObjectID(),
		Comments: []models.Comment{comment},
	}
	artworkRepo.On("GetArtworkByID", mock.Anything, artwork.ID).Return(artwork, nil).Once()
	artworkRepo.On("AddCommentLike", mock.Anything, artwork.ID, comment.ID, authorID).Return(nil).Once()

	c, _ := newTestContext(http.MethodPost, "/", "")
	c.SetParamNames("artworkId", "commentId")
	c.SetParamValues(artwork.ID.Hex(), comment.ID.Hex())
	authenticate(c, authorID)

	require.NoError(t, h.LikeComment(c))
	notifRepo.AssertNotCalled(t, "Fanout", mock.Anything, mock.Anything)
}

func TestUnlikeComment_NeverLiked(t *testing.T) {
	artworkRepo := new(MockArtworkRepository)
	h := handlers.NewCommentHandler(artworkRepo, new(MockUserRepository), new(MockNotificationRepository))

	likerID := primitive.NewObjectID()
	comment := models.Comment{ID: primitive.NewObjectID(), User: primitive.NewObjectID()}
	artwork := &models.Artwork{
		ID:       primitive.NewObjectID(),
		Creator:  primitive.NewObjectID(),
		Comments: []models.Comment{comment},
	}
	artworkRepo.On("GetArtworkByID", mock.Anything, artwork.ID).Return(artwork, nil).Once()

	c, _ := newTestContext(http.MethodPost, "/", "")
	c.SetParamNames("artworkId", "commentId")
	c.SetParamValues(artwork.ID.Hex(), comment.ID.Hex())
	authenticate(c, likerID)

	err := h.UnlikeComment(c)
	require.Error(t, err)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, he.Code)
	assert.Equal(t, "Comment not liked yet", he.Message)
	artworkRepo.AssertNotCalled(t, "RemoveCommentLike", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestLikeComment_UnknownComment(t *testing.T) {
	artworkRepo := new(MockArtworkRepository)
	h := handlers.NewCommentHandler(artworkRepo, new(MockUserRepository), new(MockNotificationRepository))

	artwork := &models.Artwork{ID: primitive.NewObjectID(), Creator: primitive.NewObjectID()}
	artworkRepo.On("GetArtworkByID", mock.Anything, artwork.ID).Return(artwork, nil).Once()

	c, _ := newTestContext(http.MethodPost, "/", "")
	c.SetParamNames("artworkId", "commentId")
	c.SetParamValues(artwork.ID.Hex(), primitive.NewObjectID().Hex())
	authenticate(c, primitive.NewObjectID())

	err := h.LikeComment(c)
	require.Error(t, err)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, he.Code)
}
