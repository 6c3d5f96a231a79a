package handlers

import (
	"net/http"

	"github.com/artfolio/backend/internal/models"
	"github.com/artfolio/backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

// UserHandler handles profile-related HTTP requests.
type UserHandler struct {
	userRepository repositories.UserRepository
	uploadDir      string
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userRepo repositories.UserRepository, uploadDir string) *UserHandler {
	return &UserHandler{
		userRepository: userRepo,
		uploadDir:      uploadDir,
	}
}

// RegisterUserRoutes registers profile routes. authRequired guards the routes
// acting on the current user.
func (h *UserHandler) RegisterUserRoutes(g *echo.Group, authRequired echo.MiddlewareFunc) {
	g.GET("/profile/:username", h.GetProfile)
	g.GET("/me", h.GetCurrentUser, authRequired)
	g.PUT("/profile", h.UpdateProfile, authRequired)
	g.PUT("/profile-image", h.UpdateProfileImage, authRequired)
	g.GET("/:id/followers", h.GetFollowers)
	g.GET("/:id/following", h.GetFollowing)
}

// GetProfile returns a public profile with follower counts.
func (h *UserHandler) GetProfile(c echo.Context) error {
	user, err := h.userRepository.GetUserByUsername(c.Request().Context(), c.Param("username"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "User not found")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"user":           user,
		"followersCount": len(user.Followers),
		"followingCount": len(user.Following),
	})
}

// GetCurrentUser returns the authenticated user's own record.
func (h *UserHandler) GetCurrentUser(c echo.Context) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}

	user, err := h.userRepository.GetUserByID(c.Request().Context(), userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "User not found")
	}
	return c.JSON(http.StatusOK, user)
}

// UpdateProfile applies profile field edits.
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}

	var req models.UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	if req == (models.UpdateProfileRequest{}) {
		return echo.NewHTTPError(http.StatusBadRequest, "At least one field must be updated")
	}

	ctx := c.Request().Context()
	if req.Username != "" {
		taken, err := h.userRepository.UsernameTaken(ctx, req.Username, userID)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		if taken {
			return echo.NewHTTPError(http.StatusBadRequest, "Username is already taken")
		}
	}

	user, err := h.userRepository.UpdateProfile(ctx, userID, &req)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "User not found")
	}

	return c.JSON(http.StatusOK, echo.Map{"user": user})
}

// UpdateProfileImage replaces the profile picture and/or cover image from a
// multipart form. Previously stored non-default images are removed from disk.
func (h *UserHandler) UpdateProfileImage(c echo.Context) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	current, err := h.userRepository.GetUserByID(ctx, userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "User not found")
	}

	var profilePicture, coverImage string
	if fh, err := c.FormFile("profilePicture"); err == nil {
		if !isImage(fh) {
			return echo.NewHTTPError(http.StatusBadRequest, "Only image files are allowed!")
		}
		profilePicture, err = saveUploadedFile(fh, h.uploadDir, "profiles")
		if err != nil {
			return err
		}
	}
	if fh, err := c.FormFile("coverImage"); err == nil {
		if !isImage(fh) {
			return echo.NewHTTPError(http.StatusBadRequest, "Only image files are allowed!")
		}
		coverImage, err = saveUploadedFile(fh, h.uploadDir, "covers")
		if err != nil {
			return err
		}
	}
	if profilePicture == "" && coverImage == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "No image file provided")
	}

	user, err := h.userRepository.UpdateImages(ctx, userID, profilePicture, coverImage)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if profilePicture != "" {
		removeUploadedFile(h.uploadDir, current.ProfilePicture)
	}
	if coverImage != "" {
		removeUploadedFile(h.uploadDir, current.CoverImage)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"user": echo.Map{
			"id":             user.ID,
			"profilePicture": user.ProfilePicture,
			"coverImage":     user.CoverImage,
		},
	})
}

// GetFollowers returns a page of a user's followers.
func (h *UserHandler) GetFollowers(c echo.Context) error {
	return h.edgePage(c, "followers")
}

// GetFollowing returns a page of the users a user follows.
func (h *UserHandler) GetFollowing(c echo.Context) error {
	return h.edgePage(c, "following")
}

func (h *UserHandler) edgePage(c echo.Context, field string) error {
	id, err := objectIDParam(c, "id")
	if err != nil {
		return err
	}

	page := pageParam(c)
	limit := limitParam(c, 10, 50)
	skip := (page - 1) * limit

	var users []models.UserCompact
	var total int
	if field == "followers" {
		users, total, err = h.userRepository.FollowersPage(c.Request().Context(), id, skip, limit)
	} else {
		users, total, err = h.userRepository.FollowingPage(c.Request().Context(), id, skip, limit)
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "User not found")
	}

	return c.JSON(http.StatusOK, echo.Map{
		field:         users,
		"total":       total,
		"currentPage": page,
		"hasMore":     total > skip+limit,
	})
}
