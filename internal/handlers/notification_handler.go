package handlers

import (
	"net/http"
	"sort"

	"github.com/artfolio/backend/internal/models"
	"github.com/artfolio/backend/internal/repositories"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NotificationHandler handles inbox listing and read-state requests.
type NotificationHandler struct {
	notificationRepository repositories.NotificationRepository
	userRepository         repositories.UserRepository
}

// NewNotificationHandler creates a new NotificationHandler.
func NewNotificationHandler(notifRepo repositories.NotificationRepository, userRepo repositories.UserRepository) *NotificationHandler {
	return &NotificationHandler{
		notificationRepository: notifRepo,
		userRepository:         userRepo,
	}
}

// RegisterNotificationRoutes registers notification routes.
func (h *NotificationHandler) RegisterNotificationRoutes(g *echo.Group) {
	g.GET("", h.GetNotifications)
	g.GET("/count", h.GetUnreadCount)
	g.POST("/mark-read", h.MarkAllRead)
	g.POST("/:id/mark-read", h.MarkOneRead)
}

// inboxEntry is a notification joined with the read flag from the recipient's
// inbox index and the resolved sender.
type inboxEntry struct {
	models.Notification
	Read   bool               `json:"read"`
	Sender models.UserCompact `json:"sender"`
}

// GetNotifications returns one page of the inbox, newest first. The embedded
// index is materialized, joined against the notification documents and sorted
// in memory; entries whose notification was deleted are dropped.
func (h *NotificationHandler) GetNotifications(c echo.Context) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	user, err := h.userRepository.GetUserByID(ctx, userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "User not found")
	}

	if len(user.Notifications) == 0 {
		return c.JSON(http.StatusOK, echo.Map{
			"notifications": []inboxEntry{},
			"hasMore":       false,
		})
	}

	page := pageParam(c)
	limit := limitParam(c, 10, 50)
	skip := (page - 1) * limit

	ids := make([]primitive.ObjectID, len(user.Notifications))
	for i, ref := range user.Notifications {
		ids[i] = ref.Notification
	}
	byID, err := h.notificationRepository.FindByIDs(ctx, ids)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	loader := newUserLoader(h.userRepository)
	entries := make([]inboxEntry, 0, len(user.Notifications))
	for _, ref := range user.Notifications {
		notification, ok := byID[ref.Notification]
		if !ok {
			continue
		}
		entries = append(entries, inboxEntry{
			Notification: notification,
			Read:         ref.Read,
			Sender:       loader.compact(ctx, notification.Sender),
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].CreatedAt.After(entries[j].CreatedAt)
	})

	if skip >= len(entries) {
		return c.JSON(http.StatusOK, echo.Map{
			"notifications": []inboxEntry{},
			"hasMore":       false,
		})
	}
	end := skip + limit + 1
	if end > len(entries) {
		end = len(entries)
	}
	pageEntries := entries[skip:end]

	hasMore := len(pageEntries) > limit
	if hasMore {
		pageEntries = pageEntries[:limit]
	}

	return c.JSON(http.StatusOK, echo.Map{
		"notifications": pageEntries,
		"hasMore":       hasMore,
	})
}

// GetUnreadCount returns the unread badge count from the embedded index.
func (h *NotificationHandler) GetUnreadCount(c echo.Context) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}

	user, err := h.userRepository.GetUserByID(c.Request().Context(), userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "User not found")
	}

	return c.JSON(http.StatusOK, echo.Map{"count": user.UnreadNotificationCount()})
}

// MarkAllRead flips every notification of the current user to read, in both
// representations.
func (h *NotificationHandler) MarkAllRead(c echo.Context) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}

	if err := h.notificationRepository.MarkAllRead(c.Request().Context(), userID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "All notifications marked as read"})
}

// MarkOneRead flips a single notification to read. Only its recipient may do
// so.
func (h *NotificationHandler) MarkOneRead(c echo.Context) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}
	id, err := objectIDParam(c, "id")
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	notification, err := h.notificationRepository.GetNotificationByID(ctx, id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Notification not found")
	}
	if notification.Recipient != userID {
		return echo.NewHTTPError(http.StatusForbidden, "Not authorized to mark this notification as read")
	}

	if err := h.notificationRepository.MarkRead(ctx, notification.ID, userID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Notification marked as read"})
}
