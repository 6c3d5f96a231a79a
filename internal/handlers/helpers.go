package handlers

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strconv"

	"github.com/artfolio/backend/internal/middleware"
	"github.com/artfolio/backend/internal/models"
	"github.com/artfolio/backend/internal/repositories"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// currentUserID returns the authenticated user's ObjectID, or NilObjectID for
// anonymous requests.
func currentUserID(c echo.Context) primitive.ObjectID {
	claims := middleware.UserClaims(c)
	if claims == nil {
		return primitive.NilObjectID
	}
	id, err := primitive.ObjectIDFromHex(claims.ID)
	if err != nil {
		return primitive.NilObjectID
	}
	return id
}

// requireUserID returns the authenticated user's ObjectID or a 401 error.
func requireUserID(c echo.Context) (primitive.ObjectID, error) {
	id := currentUserID(c)
	if id == primitive.NilObjectID {
		return id, echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	return id, nil
}

// objectIDParam parses a path parameter as a MongoDB ObjectID.
func objectIDParam(c echo.Context, name string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(c.Param(name))
	if err != nil {
		return primitive.NilObjectID, echo.NewHTTPError(http.StatusBadRequest, "Invalid "+name)
	}
	return id, nil
}

// pageParam reads the 1-based page query parameter.
func pageParam(c echo.Context) int {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}
	return page
}

// limitParam reads the page-size query parameter, clamped to max.
func limitParam(c echo.Context, def, max int) int {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if limit < 1 || limit > max {
		limit = def
	}
	return limit
}

// viewerKey identifies the viewer for server-side view dedup: the user id
// when authenticated, otherwise a fingerprint of the client address and
// user agent.
func viewerKey(c echo.Context) string {
	if id := currentUserID(c); id != primitive.NilObjectID {
		return id.Hex()
	}
	sum := sha256.Sum256([]byte(c.RealIP() + "|" + c.Request().UserAgent()))
	return "anon-" + hex.EncodeToString(sum[:8])
}

// userLoader caches compact user lookups while enriching a single response.
type userLoader struct {
	repo  repositories.UserRepository
	cache map[primitive.ObjectID]models.UserCompact
}

func newUserLoader(repo repositories.UserRepository) *userLoader {
	return &userLoader{repo: repo, cache: make(map[primitive.ObjectID]models.UserCompact)}
}

// compact returns the compact form of the user, or a zero value when the user
// no longer exists.
func (l *userLoader) compact(ctx context.Context, id primitive.ObjectID) models.UserCompact {
	if compact, ok := l.cache[id]; ok {
		return compact
	}
	user, err := l.repo.GetUserByID(ctx, id)
	if err != nil {
		return models.UserCompact{ID: id}
	}
	compact := user.ToCompact()
	l.cache[id] = compact
	return compact
}
