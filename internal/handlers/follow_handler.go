package handlers

import (
	"net/http"

	"github.com/artfolio/backend/internal/models"
	"github.com/artfolio/backend/internal/repositories"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FollowHandler handles follow/unfollow HTTP requests.
type FollowHandler struct {
	userRepository         repositories.UserRepository
	notificationRepository repositories.NotificationRepository
}

// NewFollowHandler creates a new FollowHandler.
func NewFollowHandler(userRepo repositories.UserRepository, notifRepo repositories.NotificationRepository) *FollowHandler {
	return &FollowHandler{
		userRepository:         userRepo,
		notificationRepository: notifRepo,
	}
}

// RegisterFollowRoutes registers follow-related routes.
func (h *FollowHandler) RegisterFollowRoutes(g *echo.Group, authRequired echo.MiddlewareFunc) {
	g.POST("/follow/:id", h.FollowUser, authRequired)
	g.POST("/unfollow/:id", h.UnfollowUser, authRequired)
}

// FollowUser subscribes the current user to the target's activity. Both sides
// of the edge are written together; the target is notified.
func (h *FollowHandler) FollowUser(c echo.Context) error {
	currentID, err := requireUserID(c)
	if err != nil {
		return err
	}
	targetID, err := objectIDParam(c, "id")
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	target, err := h.userRepository.GetUserByID(ctx, targetID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "User not found")
	}
	current, err := h.userRepository.GetUserByID(ctx, currentID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "User not found")
	}

	if target.ID == current.ID {
		return echo.NewHTTPError(http.StatusBadRequest, "You cannot follow yourself")
	}
	if current.IsFollowing(target.ID) {
		return echo.NewHTTPError(http.StatusBadRequest, "You are already following this user")
	}

	if err := h.userRepository.Follow(ctx, current.ID, target.ID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	notification := models.NewNotification(target.ID, current, models.NotificationFollow, primitive.NilObjectID, primitive.NilObjectID)
	if err := h.notificationRepository.Fanout(ctx, notification); err != nil {
		c.Logger().Errorf("follow notification fan-out failed: %v", err)
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Successfully followed user"})
}

// UnfollowUser removes the edge in both directions.
func (h *FollowHandler) UnfollowUser(c echo.Context) error {
	currentID, err := requireUserID(c)
	if err != nil {
		return err
	}
	targetID, err := objectIDParam(c, "id")
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	target, err := h.userRepository.GetUserByID(ctx, targetID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "User not found")
	}
	current, err := h.userRepository.GetUserByID(ctx, currentID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "User not found")
	}

	if !current.IsFollowing(target.ID) {
		return echo.NewHTTPError(http.StatusBadRequest, "You are not following this user")
	}

	if err := h.userRepository.Unfollow(ctx, current.ID, target.ID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Successfully unfollowed user"})
}
