package handlers

import (
	"encoding/json"
	"math"
	"net/http"

	"github.com/artfolio/backend/internal/models"
	"github.com/artfolio/backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

// ArtworkHandler handles artwork upload, detail and deletion requests.
type ArtworkHandler struct {
	artworkRepository repositories.ArtworkRepository
	userRepository    repositories.UserRepository
	uploadDir         string
}

// NewArtworkHandler creates a new ArtworkHandler.
func NewArtworkHandler(artworkRepo repositories.ArtworkRepository, userRepo repositories.UserRepository, uploadDir string) *ArtworkHandler {
	return &ArtworkHandler{
		artworkRepository: artworkRepo,
		userRepository:    userRepo,
		uploadDir:         uploadDir,
	}
}

// RegisterArtworkRoutes registers artwork CRUD routes.
func (h *ArtworkHandler) RegisterArtworkRoutes(g *echo.Group, authRequired echo.MiddlewareFunc) {
	g.POST("", h.CreateArtwork, authRequired)
	g.GET("/:id", h.GetArtworkByID)
	g.DELETE("/:id", h.DeleteArtwork, authRequired)
	g.GET("/user/:userId", h.GetUserArtworks)
}

// artworkDetail is an artwork with its references resolved for display.
type artworkDetail struct {
	models.Artwork
	Creator  models.UserCompact   `json:"creator"`
	Likes    []models.UserCompact `json:"likes"`
	Comments []commentDetail      `json:"comments"`
}

type commentDetail struct {
	models.Comment
	User models.UserCompact `json:"user"`
}

// CreateArtwork handles a multipart upload. Only verified users may post; at
// least one image is required. software and tags arrive as JSON-encoded form
// values.
func (h *ArtworkHandler) CreateArtwork(c echo.Context) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	user, err := h.userRepository.GetUserByID(ctx, userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "User not found")
	}
	if !user.IsVerified {
		return echo.NewHTTPError(http.StatusForbidden,
			"Your account is not verified. Please verify your email before posting.")
	}

	req := models.CreateArtworkRequest{
		Title:       c.FormValue("title"),
		Description: c.FormValue("description"),
		ArtStyle:    c.FormValue("artStyle"),
		YoutubeURL:  c.FormValue("youtubeUrl"),
	}
	if raw := c.FormValue("software"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &req.Software); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid software list")
		}
	}
	if raw := c.FormValue("tags"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &req.Tags); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid tags list")
		}
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	form, err := c.MultipartForm()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid multipart form")
	}
	images := form.File["images"]
	if len(images) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "At least one image is required")
	}

	imageURLs := make([]string, 0, len(images))
	for _, fh := range images {
		if !isImage(fh) {
			return echo.NewHTTPError(http.StatusBadRequest, "Only image files are allowed!")
		}
		url, err := saveUploadedFile(fh, h.uploadDir, "artwork_images")
		if err != nil {
			return err
		}
		imageURLs = append(imageURLs, url)
	}

	// The first image doubles as the thumbnail unless one was provided.
	thumbnailURL := imageURLs[0]
	if fhs := form.File["thumbnail"]; len(fhs) > 0 {
		if !isImage(fhs[0]) {
			return echo.NewHTTPError(http.StatusBadRequest, "Only image files are allowed!")
		}
		thumbnailURL, err = saveUploadedFile(fhs[0], h.uploadDir, "artwork_thumbnails")
		if err != nil {
			return err
		}
	}

	var videoURL string
	if fhs := form.File["video"]; len(fhs) > 0 {
		if !isVideo(fhs[0]) {
			return echo.NewHTTPError(http.StatusBadRequest, "Only video files are allowed!")
		}
		videoURL, err = saveUploadedFile(fhs[0], h.uploadDir, "artwork_videos")
		if err != nil {
			return err
		}
	}

	artwork := &models.Artwork{
		Title:        req.Title,
		Description:  req.Description,
		ThumbnailURL: thumbnailURL,
		ImageURLs:    imageURLs,
		VideoURL:     videoURL,
		YoutubeURL:   req.YoutubeURL,
		ArtStyle:     req.ArtStyle,
		Software:     req.Software,
		Tags:         req.Tags,
		Creator:      user.ID,
	}
	if err := h.artworkRepository.CreateArtwork(ctx, artwork); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusCreated, artwork)
}

// GetArtworkByID returns an artwork with creator, likers and comment authors
// resolved.
func (h *ArtworkHandler) GetArtworkByID(c echo.Context) error {
	id, err := objectIDParam(c, "id")
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	artwork, err := h.artworkRepository.GetArtworkByID(ctx, id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Artwork not found")
	}

	loader := newUserLoader(h.userRepository)
	detail := artworkDetail{
		Artwork: *artwork,
		Creator: loader.compact(ctx, artwork.Creator),
		Likes:   make([]models.UserCompact, 0, len(artwork.Likes)),
	}
	for _, likerID := range artwork.Likes {
		detail.Likes = append(detail.Likes, loader.compact(ctx, likerID))
	}
	detail.Comments = make([]commentDetail, 0, len(artwork.Comments))
	for _, comment := range artwork.Comments {
		detail.Comments = append(detail.Comments, commentDetail{
			Comment: comment,
			User:    loader.compact(ctx, comment.User),
		})
	}

	return c.JSON(http.StatusOK, detail)
}

// DeleteArtwork removes an artwork, its stored media and the owner's list
// entry. Only the creator may delete.
func (h *ArtworkHandler) DeleteArtwork(c echo.Context) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}
	id, err := objectIDParam(c, "id")
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	artwork, err := h.artworkRepository.GetArtworkByID(ctx, id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Artwork not found")
	}
	if artwork.Creator != userID {
		return echo.NewHTTPError(http.StatusForbidden, "User not authorized")
	}

	if err := h.artworkRepository.DeleteArtwork(ctx, artwork.ID, artwork.Creator); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	removeUploadedFile(h.uploadDir, artwork.ThumbnailURL)
	for _, url := range artwork.ImageURLs {
		removeUploadedFile(h.uploadDir, url)
	}
	removeUploadedFile(h.uploadDir, artwork.VideoURL)

	return c.JSON(http.StatusOK, echo.Map{"message": "Artwork deleted successfully"})
}

// GetUserArtworks lists one creator's artworks, newest first.
func (h *ArtworkHandler) GetUserArtworks(c echo.Context) error {
	creatorID, err := objectIDParam(c, "userId")
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	if _, err := h.userRepository.GetUserByID(ctx, creatorID); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "User not found")
	}

	page := pageParam(c)
	limit := limitParam(c, 15, 50)
	skip := int64((page - 1) * limit)

	total, err := h.artworkRepository.CountByCreator(ctx, creatorID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	// Over-fetch by one so hasMore needs no extra query.
	artworks, err := h.artworkRepository.ListByCreator(ctx, creatorID, skip, int64(limit+1))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	hasMore := len(artworks) > limit
	if hasMore {
		artworks = artworks[:limit]
	}
	var nextPage interface{}
	if hasMore {
		nextPage = page + 1
	}

	return c.JSON(http.StatusOK, echo.Map{
		"artworks":    artworks,
		"hasMore":     hasMore,
		"nextPage":    nextPage,
		"totalPages":  int(math.Ceil(float64(total) / float64(limit))),
		"currentPage": page,
	})
}
