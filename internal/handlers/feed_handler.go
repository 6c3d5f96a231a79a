package handlers

import (
	"net/http"

	"github.com/artfolio/backend/internal/models"
	"github.com/artfolio/backend/internal/repositories"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// feedPageSize is the fixed number of artworks per feed page.
const feedPageSize = 45

// FeedHandler handles the browse feed and search requests.
type FeedHandler struct {
	artworkRepository repositories.ArtworkRepository
	userRepository    repositories.UserRepository
}

// NewFeedHandler creates a new FeedHandler.
func NewFeedHandler(artworkRepo repositories.ArtworkRepository, userRepo repositories.UserRepository) *FeedHandler {
	return &FeedHandler{
		artworkRepository: artworkRepo,
		userRepository:    userRepo,
	}
}

// RegisterFeedRoutes registers the feed routes. optionalAuth lets the feed
// serve anonymous viewers while honoring the following filter for
// authenticated ones.
func (h *FeedHandler) RegisterFeedRoutes(g *echo.Group, optionalAuth echo.MiddlewareFunc) {
	g.GET("", h.GetArtworks, optionalAuth)
	g.GET("/search", h.SearchArtworks)
}

// feedItem is a feed artwork with its creator resolved.
type feedItem struct {
	models.Artwork
	Creator models.UserCompact `json:"creator"`
}

// GetArtworks returns one page of the popular or following feed.
// An unauthenticated viewer asking for the following feed gets the popular
// one.
func (h *FeedHandler) GetArtworks(c echo.Context) error {
	feedType := c.QueryParam("type")
	if feedType == "" {
		feedType = "popular"
	}
	page := pageParam(c)
	skip := int64((page - 1) * feedPageSize)
	viewerID := currentUserID(c)

	ctx := c.Request().Context()
	var artworks []models.Artwork
	var err error

	if feedType == "following" && viewerID != primitive.NilObjectID {
		viewer, uerr := h.userRepository.GetUserByID(ctx, viewerID)
		if uerr != nil {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		if len(viewer.Following) == 0 {
			return c.JSON(http.StatusOK, echo.Map{
				"artworks": []feedItem{},
				"hasMore":  false,
				"nextPage": nil,
			})
		}
		artworks, err = h.artworkRepository.ListByCreators(ctx, viewer.Following, skip, feedPageSize+1)
	} else {
		artworks, err = h.artworkRepository.ListPopular(ctx, skip, feedPageSize+1)
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	hasMore := len(artworks) > feedPageSize
	if hasMore {
		artworks = artworks[:feedPageSize]
	}
	var nextPage interface{}
	if hasMore {
		nextPage = page + 1
	}

	return c.JSON(http.StatusOK, echo.Map{
		"artworks": h.enrich(c, artworks),
		"hasMore":  hasMore,
		"nextPage": nextPage,
	})
}

// SearchArtworks matches artworks by metadata substring or by creator name.
func (h *FeedHandler) SearchArtworks(c echo.Context) error {
	query := c.QueryParam("q")
	if query == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Search query is required")
	}

	ctx := c.Request().Context()
	creatorIDs, err := h.userRepository.SearchIDsByNameOrUsername(ctx, query)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	artworks, err := h.artworkRepository.Search(ctx, query, creatorIDs)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, h.enrich(c, artworks))
}

func (h *FeedHandler) enrich(c echo.Context, artworks []models.Artwork) []feedItem {
	loader := newUserLoader(h.userRepository)
	items := make([]feedItem, len(artworks))
	for i, artwork := range artworks {
		items[i] = feedItem{
			Artwork: artwork,
			Creator: loader.compact(c.Request().Context(), artwork.Creator),
		}
	}
	return items
}
