package repositories_test

import (
	"testing"
	"time"

	"github.com/artfolio/backend/internal/models"
	"github.com/artfolio/backend/internal/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newViewRepo(t *testing.T) *repositories.GormViewRepository {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.ArtworkView{}))
	return repositories.NewGormViewRepository(db)
}

func TestRecordView_FirstViewCounts(t *testing.T) {
	repo := newViewRepo(t)
	now := time.Now()

	first, err := repo.RecordView("artwork-1", "viewer-1", now)
	require.NoError(t, err)
	assert.True(t, first)
}

func TestRecordView_RepeatWithinWindow(t *testing.T) {
	repo := newViewRepo(t)
	now := time.Now().Truncate(repositories.ViewWindow)

	first, err := repo.RecordView("artwork-1", "viewer-1", now)
	require.NoError(t, err)
	require.True(t, first)

	// Same viewer, same hour bucket.
	again, err := repo.RecordView("artwork-1", "viewer-1", now.Add(30*time.Minute))
	require.NoError(t, err)
	assert.False(t, again)
}

func TestRecordView_NewBucketCountsAgain(t *testing.T) {
	repo := newViewRepo(t)
	now := time.Now().Truncate(repositories.ViewWindow)

	first, err := repo.RecordView("artwork-1", "viewer-1", now)
	require.NoError(t, err)
	require.True(t, first)

	later, err := repo.RecordView("artwork-1", "viewer-1", now.Add(repositories.ViewWindow))
	require.NoError(t, err)
	assert.True(t, later)
}

func TestRecordView_IndependentViewersAndArtworks(t *testing.T) {
	repo := newViewRepo(t)
	now := time.Now()

	first, err := repo.RecordView("artwork-1", "viewer-1", now)
	require.NoError(t, err)
	require.True(t, first)

	otherViewer, err := repo.RecordView("artwork-1", "viewer-2", now)
	require.NoError(t, err)
	assert.True(t, otherViewer)

	otherArtwork, err := repo.RecordView("artwork-2", "viewer-1", now)
	require.NoError(t, err)
	assert.True(t, otherArtwork)
}
