package handlers

import (
	"net/http"
	"time"

	"github.com/artfolio/backend/internal/models"
	"github.com/artfolio/backend/internal/repositories"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LikeHandler handles artwork like/unlike and view counting.
type LikeHandler struct {
	artworkRepository      repositories.ArtworkRepository
	userRepository         repositories.UserRepository
	notificationRepository repositories.NotificationRepository
	viewRepository         repositories.ViewRepository
}

// NewLikeHandler creates a new LikeHandler.
func NewLikeHandler(
	artworkRepo repositories.ArtworkRepository,
	userRepo repositories.UserRepository,
	notifRepo repositories.NotificationRepository,
	viewRepo repositories.ViewRepository,
) *LikeHandler {
	return &LikeHandler{
		artworkRepository:      artworkRepo,
		userRepository:         userRepo,
		notificationRepository: notifRepo,
		viewRepository:         viewRepo,
	}
}

// RegisterLikeRoutes registers like and view-count routes. increment-view is
// open to anonymous viewers; dedup works off the client fingerprint then.
func (h *LikeHandler) RegisterLikeRoutes(g *echo.Group, authRequired, optionalAuth echo.MiddlewareFunc) {
	g.POST("/:id/like", h.LikeArtwork, authRequired)
	g.POST("/:id/unlike", h.UnlikeArtwork, authRequired)
	g.POST("/:id/increment-view", h.IncrementView, optionalAuth)
}

// LikeArtwork adds the current user to the artwork's like set. Liking an
// already-liked artwork is a no-op; a fresh like notifies the creator.
func (h *LikeHandler) LikeArtwork(c echo.Context) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}
	artworkID, err := objectIDParam(c, "id")
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	artwork, err := h.artworkRepository.GetArtworkByID(ctx, artworkID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Artwork not found")
	}

	if !artwork.LikedBy(userID) {
		if err := h.artworkRepository.AddLike(ctx, artwork.ID, userID); err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		artwork.Likes = append(artwork.Likes, userID)

		if artwork.Creator != userID {
			sender, serr := h.userRepository.GetUserByID(ctx, userID)
			if serr == nil {
				notification := models.NewNotification(artwork.Creator, sender, models.NotificationLike, artwork.ID, primitive.NilObjectID)
				if ferr := h.notificationRepository.Fanout(ctx, notification); ferr != nil {
					c.Logger().Errorf("like notification fan-out failed: %v", ferr)
				}
			}
		}
	}

	return c.JSON(http.StatusOK, artwork)
}

// UnlikeArtwork removes the current user from the like set. Unliking an
// artwork that was never liked is an error.
func (h *LikeHandler) UnlikeArtwork(c echo.Context) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}
	artworkID, err := objectIDParam(c, "id")
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	artwork, err := h.artworkRepository.GetArtworkByID(ctx, artworkID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Artwork not found")
	}
	if !artwork.LikedBy(userID) {
		return echo.NewHTTPError(http.StatusBadRequest, "Artwork not liked yet")
	}

	if err := h.artworkRepository.RemoveLike(ctx, artwork.ID, userID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	likes := artwork.Likes[:0]
	for _, id := range artwork.Likes {
		if id != userID {
			likes = append(likes, id)
		}
	}
	artwork.Likes = likes

	return c.JSON(http.StatusOK, artwork)
}

// IncrementView counts a view once per viewer per hour. The dedup ledger
// decides whether this request increments; repeats return the current count.
func (h *LikeHandler) IncrementView(c echo.Context) error {
	artworkID, err := objectIDParam(c, "id")
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	artwork, err := h.artworkRepository.GetArtworkByID(ctx, artworkID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Artwork not found")
	}

	first, err := h.viewRepository.RecordView(artwork.ID.Hex(), viewerKey(c), time.Now())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if !first {
		return c.JSON(http.StatusOK, echo.Map{"views": artwork.Views})
	}

	views, err := h.artworkRepository.IncrementView(ctx, artwork.ID, artwork.Creator)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"views": views})
}
