package repositories

import (
	"time"

	"github.com/artfolio/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ViewRepository defines the interface for the server-side view-dedup ledger.
type ViewRepository interface {
	RecordView(artworkID, viewerKey string, at time.Time) (bool, error)
}

// ViewWindow is the span within which repeat views by the same viewer do not
// count.
const ViewWindow = time.Hour

// GormViewRepository implements ViewRepository on PostgreSQL.
type GormViewRepository struct {
	db *gorm.DB
}

// NewGormViewRepository creates a new GormViewRepository.
func NewGormViewRepository(db *gorm.DB) *GormViewRepository {
	return &GormViewRepository{db: db}
}

// RecordView inserts a ledger row for (artwork, viewer, hour bucket) and
// reports whether this is the first view in that bucket. The unique index
// absorbs concurrent duplicates, so only one caller per bucket sees true.
func (r *GormViewRepository) RecordView(artworkID, viewerKey string, at time.Time) (bool, error) {
	view := models.ArtworkView{
		ArtworkID: artworkID,
		ViewerKey: viewerKey,
		Bucket:    at.Truncate(ViewWindow).Unix(),
	}
	res := r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&view)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
