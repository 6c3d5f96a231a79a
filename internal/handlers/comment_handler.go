package handlers

import (
	"net/http"

	"github.com/artfolio/backend/internal/models"
	"github.com/artfolio/backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

// CommentHandler handles comments embedded in artworks and their likes.
type CommentHandler struct {
	artworkRepository      repositories.ArtworkRepository
	userRepository         repositories.UserRepository
	notificationRepository repositories.NotificationRepository
}

// NewCommentHandler creates a new CommentHandler.
func NewCommentHandler(
	artworkRepo repositories.ArtworkRepository,
	userRepo repositories.UserRepository,
	notifRepo repositories.NotificationRepository,
) *CommentHandler {
	return &CommentHandler{
		artworkRepository:      artworkRepo,
		userRepository:         userRepo,
		notificationRepository: notifRepo,
	}
}

// RegisterCommentRoutes registers comment routes under the artworks group.
func (h *CommentHandler) RegisterCommentRoutes(g *echo.Group, authRequired echo.MiddlewareFunc) {
	g.POST("/:id/comments", h.AddComment, authRequired)
	g.POST("/:artworkId/comments/:commentId/like", h.LikeComment, authRequired)
	g.POST("/:artworkId/comments/:commentId/unlike", h.UnlikeComment, authRequired)
}

// AddComment appends a comment and notifies the artwork's creator.
func (h *CommentHandler) AddComment(c echo.Context) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}
	artworkID, err := objectIDParam(c, "id")
	if err != nil {
		return err
	}

	var req models.AddCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	artwork, err := h.artworkRepository.GetArtworkByID(ctx, artworkID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Artwork not found")
	}

	comment := &models.Comment{
		User:    userID,
		Content: req.Content,
	}
	if err := h.artworkRepository.AddComment(ctx, artwork.ID, comment); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if artwork.Creator != userID {
		sender, serr := h.userRepository.GetUserByID(ctx, userID)
		if serr == nil {
			notification := models.NewNotification(artwork.Creator, sender, models.NotificationComment, artwork.ID, comment.ID)
			if ferr := h.notificationRepository.Fanout(ctx, notification); ferr != nil {
				c.Logger().Errorf("comment notification fan-out failed: %v", ferr)
			}
		}
	}

	updated, err := h.artworkRepository.GetArtworkByID(ctx, artwork.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusCreated, updated)
}

// LikeComment adds the current user to an embedded comment's like set. Liking
// twice is a no-op; a fresh like notifies the comment's author.
func (h *CommentHandler) LikeComment(c echo.Context) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}
	artworkID, err := objectIDParam(c, "artworkId")
	if err != nil {
		return err
	}
	commentID, err := objectIDParam(c, "commentId")
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	artwork, err := h.artworkRepository.GetArtworkByID(ctx, artworkID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Artwork not found")
	}
	comment := artwork.CommentByID(commentID)
	if comment == nil {
		return echo.NewHTTPError(http.StatusNotFound, "Comment not found")
	}

	if !comment.LikedBy(userID) {
		if err := h.artworkRepository.AddCommentLike(ctx, artwork.ID, comment.ID, userID); err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		comment.Likes = append(comment.Likes, userID)

		if comment.User != userID {
			sender, serr := h.userRepository.GetUserByID(ctx, userID)
			if serr == nil {
				notification := models.NewNotification(comment.User, sender, models.NotificationCommentLike, artwork.ID, comment.ID)
				if ferr := h.notificationRepository.Fanout(ctx, notification); ferr != nil {
					c.Logger().Errorf("comment like notification fan-out failed: %v", ferr)
				}
			}
		}
	}

	return c.JSON(http.StatusOK, artwork)
}

// UnlikeComment removes the current user from a comment's like set. Unliking
// a comment that was never liked is an error.
func (h *CommentHandler) UnlikeComment(c echo.Context) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}
	artworkID, err := objectIDParam(c, "artworkId")
	if err != nil {
		return err
	}
	commentID, err := objectIDParam(c, "commentId")
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	artwork, err := h.artworkRepository.GetArtworkByID(ctx, artworkID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Artwork not found")
	}
	comment := artwork.CommentByID(commentID)
	if comment == nil {
		return echo.NewHTTPError(http.StatusNotFound, "Comment not found")
	}
	if !comment.LikedBy(userID) {
		return echo.NewHTTPError(http.StatusBadRequest, "Comment not liked yet")
	}

	if err := h.artworkRepository.RemoveCommentLike(ctx, artwork.ID, comment.ID, userID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	likes := comment.Likes[:0]
	for _, id := range comment.Likes {
		if id != userID {
			likes = append(likes, id)
		}
	}
	comment.Likes = likes

	return c.JSON(http.StatusOK, artwork)
}
