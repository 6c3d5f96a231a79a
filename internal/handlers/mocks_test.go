package handlers_test

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/artfolio/backend/internal/models"
	"github.com/artfolio/backend/internal/validators"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MockUserRepository is a mock implementation of repositories.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) CreateUser(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) UsernameTaken(ctx context.Context, username string, exclude primitive.ObjectID) (bool, error) {
	args := m.Called(ctx, username, exclude)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) UpdateProfile(ctx context.Context, id primitive.ObjectID, req *models.UpdateProfileRequest) (*models.User, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) UpdateImages(ctx context.Context, id primitive.ObjectID, profilePicture, coverImage string) (*models.User, error) {
	args := m.Called(ctx, id, profilePicture, coverImage)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) Follow(ctx context.Context, follower, target primitive.ObjectID) error {
	args := m.Called(ctx, follower, target)
	return args.Error(0)
}

func (m *MockUserRepository) Unfollow(ctx context.Context, follower, target primitive.ObjectID) error {
	args := m.Called(ctx, follower, target)
	return args.Error(0)
}

func (m *MockUserRepository) FollowersPage(ctx context.Context, id primitive.ObjectID, skip, limit int) ([]models.UserCompact, int, error) {
	args := m.Called(ctx, id, skip, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]models.UserCompact), args.Int(1), args.Error(2)
}

func (m *MockUserRepository) FollowingPage(ctx context.Context, id primitive.ObjectID, skip, limit int) ([]models.UserCompact, int, error) {
	args := m.Called(ctx, id, skip, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]models.UserCompact), args.Int(1), args.Error(2)
}

func (m *MockUserRepository) SearchIDsByNameOrUsername(ctx context.Context, query string) ([]primitive.ObjectID, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]primitive.ObjectID), args.Error(1)
}

func (m *MockUserRepository) SetVerified(ctx context.Context, id primitive.ObjectID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserRepository) SetResetToken(ctx context.Context, id primitive.ObjectID, tokenHash string, expires time.Time) error {
	args := m.Called(ctx, id, tokenHash, expires)
	return args.Error(0)
}

func (m *MockUserRepository) GetUserByResetToken(ctx context.Context, tokenHash string) (*models.User, error) {
	args := m.Called(ctx, tokenHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) ResetPassword(ctx context.Context, id primitive.ObjectID, passwordHash string) error {
	args := m.Called(ctx, id, passwordHash)
	return args.Error(0)
}

// MockArtworkRepository is a mock implementation of repositories.ArtworkRepository
type MockArtworkRepository struct {
	mock.Mock
}

func (m *MockArtworkRepository) CreateArtwork(ctx context.Context, artwork *models.Artwork) error {
	args := m.Called(ctx, artwork)
	return args.Error(0)
}

func (m *MockArtworkRepository) GetArtworkByID(ctx context.Context, id primitive.ObjectID) (*models.Artwork, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Artwork), args.Error(1)
}

func (m *MockArtworkRepository) DeleteArtwork(ctx context.Context, id, owner primitive.ObjectID) error {
	args := m.Called(ctx, id, owner)
	return args.Error(0)
}

func (m *MockArtworkRepository) ListPopular(ctx context.Context, skip, limit int64) ([]models.Artwork, error) {
	args := m.Called(ctx, skip, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Artwork), args.Error(1)
}

func (m *MockArtworkRepository) ListByCreators(ctx context.Context, creators []primitive.ObjectID, skip, limit int64) ([]models.Artwork, error) {
	args := m.Called(ctx, creators, skip, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Artwork), args.Error(1)
}

func (m *MockArtworkRepository) ListByCreator(ctx context.Context, creator primitive.ObjectID, skip, limit int64) ([]models.Artwork, error) {
	args := m.Called(ctx, creator, skip, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Artwork), args.Error(1)
}

func (m *MockArtworkRepository) CountByCreator(ctx context.Context, creator primitive.ObjectID) (int64, error) {
	args := m.Called(ctx, creator)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockArtworkRepository) AddLike(ctx context.Context, artworkID, userID primitive.ObjectID) error {
	args := m.Called(ctx, artworkID, userID)
	return args.Error(0)
}

func (m *MockArtworkRepository) RemoveLike(ctx context.Context, artworkID, userID primitive.ObjectID) error {
	args := m.Called(ctx, artworkID, userID)
	return args.Error(0)
}

func (m *MockArtworkRepository) AddComment(ctx context.Context, artworkID primitive.ObjectID, comment *models.Comment) error {
	args := m.Called(ctx, artworkID, comment)
	return args.Error(0)
}

func (m *MockArtworkRepository) AddCommentLike(ctx context.Context, artworkID, commentID, userID primitive.ObjectID) error {
	args := m.Called(ctx, artworkID, commentID, userID)
	return args.Error(0)
}

func (m *MockArtworkRepository) RemoveCommentLike(ctx context.Context, artworkID, commentID, userID primitive.ObjectID) error {
	args := m.Called(ctx, artworkID, commentID, userID)
	return args.Error(0)
}

func (m *MockArtworkRepository) IncrementView(ctx context.Context, artworkID, creator primitive.ObjectID) (int64, error) {
	args := m.Called(ctx, artworkID, creator)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockArtworkRepository) Search(ctx context.Context, query string, creatorIDs []primitive.ObjectID) ([]models.Artwork, error) {
	args := m.Called(ctx, query, creatorIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Artwork), args.Error(1)
}

// MockNotificationRepository is a mock implementation of repositories.NotificationRepository
type MockNotificationRepository struct {
	mock.Mock
}

func (m *MockNotificationRepository) Fanout(ctx context.Context, notification *models.Notification) error {
	args := m.Called(ctx, notification)
	return args.Error(0)
}

func (m *MockNotificationRepository) GetNotificationByID(ctx context.Context, id primitive.ObjectID) (*models.Notification, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Notification), args.Error(1)
}

func (m *MockNotificationRepository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.Notification, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[primitive.ObjectID]models.Notification), args.Error(1)
}

func (m *MockNotificationRepository) MarkRead(ctx context.Context, id, recipient primitive.ObjectID) error {
	args := m.Called(ctx, id, recipient)
	return args.Error(0)
}

func (m *MockNotificationRepository) MarkAllRead(ctx context.Context, recipient primitive.ObjectID) error {
	args := m.Called(ctx, recipient)
	return args.Error(0)
}

// MockViewRepository is a mock implementation of repositories.ViewRepository
type MockViewRepository struct {
	mock.Mock
}

func (m *MockViewRepository) RecordView(artworkID, viewerKey string, at time.Time) (bool, error) {
	args := m.Called(artworkID, viewerKey, at)
	return args.Bool(0), args.Error(1)
}

// newTestContext builds an Echo context for invoking a handler directly.
func newTestContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = validators.NewValidator()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

// authenticate stores claims in the context the way the auth middleware does.
func authenticate(c echo.Context, id primitive.ObjectID) {
	c.Set("user", &models.JwtCustomClaims{ID: id.Hex()})
}
