package models

import "time"

// ArtworkView is a row in the PostgreSQL view-dedup ledger. A (artwork,
// viewer, hour bucket) triple may only be recorded once; the unique index is
// what makes view increments replay-safe on the server side.
type ArtworkView struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	ArtworkID string    `json:"artwork_id" gorm:"index;uniqueIndex:idx_artwork_viewer_bucket"`
	ViewerKey string    `json:"viewer_key" gorm:"uniqueIndex:idx_artwork_viewer_bucket"`
	Bucket    int64     `json:"bucket" gorm:"uniqueIndex:idx_artwork_viewer_bucket"` // unix hour
	CreatedAt time.Time `json:"created_at"`
}
