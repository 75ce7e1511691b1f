// Package recommendations provides database operations for the
// per-user recommendations cache. This layer only stores and expires
// precomputed track-id sets; producing them is the recommendation
// engine's job, which lives elsewhere.
package recommendations

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/cantata-audio/cantata/internal/database"
	"github.com/cantata-audio/cantata/internal/entities"
)

// DefaultMaxTracks bounds the cached result set when no cap is
// configured.
const DefaultMaxTracks = 25

// Repository handles recommendations cache database operations. Each
// user has at most one row, replaced wholesale on Put.
type Repository struct {
	db        *gorm.DB
	maxTracks int
}

// NewRepository creates a new recommendations repository. maxTracks
// caps how many track IDs a cached row may carry; values below one
// fall back to DefaultMaxTracks.
func NewRepository(db *gorm.DB, maxTracks int) *Repository {
	if maxTracks < 1 {
		maxTracks = DefaultMaxTracks
	}
	return &Repository{db: db, maxTracks: maxTracks}
}

// Put upserts the user's cached recommendations, truncating to the
// configured cap and resetting the generation timestamp.
func (r *Repository) Put(userID uint, trackIDs []uint) (*entities.RecommendationsCache, error) {
	if len(trackIDs) > r.maxTracks {
		trackIDs = trackIDs[:r.maxTracks]
	}

	entry := &entities.RecommendationsCache{
		UserID:      userID,
		GeneratedAt: time.Now().UTC(),
	}
	if err := entry.SetTrackIDs(trackIDs); err != nil {
		return nil, err
	}

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var user entities.User
		if err := tx.First(&user, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("user %d not found: %w", userID, database.ErrNotFound)
			}
			return err
		}

		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"recommendations", "generated_at"}),
		}).Create(entry).Error
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// Get retrieves the user's cached row regardless of its age.
func (r *Repository) Get(userID uint) (*entities.RecommendationsCache, error) {
	var entry entities.RecommendationsCache
	err := r.db.Where("user_id = ?", userID).First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("no cached recommendations for user %d: %w", userID, database.ErrNotFound)
		}
		return nil, err
	}
	return &entry, nil
}

// GetFresh retrieves the user's cached row only if it was generated
// within maxAge. A stale row reads the same as a missing one, so
// callers treat both as a cache miss.
func (r *Repository) GetFresh(userID uint, maxAge time.Duration) (*entities.RecommendationsCache, error) {
	cutoff := time.Now().UTC().Add(-maxAge)

	var entry entities.RecommendationsCache
	err := r.db.Where("user_id = ? AND generated_at > ?", userID, cutoff).First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("no fresh recommendations for user %d: %w", userID, database.ErrNotFound)
		}
		return nil, err
	}
	return &entry, nil
}

// Invalidate drops the user's cached row. Invalidating a user without
// a row is a no-op.
func (r *Repository) Invalidate(userID uint) error {
	return r.db.Where("user_id = ?", userID).Delete(&entities.RecommendationsCache{}).Error
}

// DeleteStale removes rows generated before the given time. Returns
// the number of deleted rows.
func (r *Repository) DeleteStale(olderThan time.Time) (int64, error) {
	result := r.db.Where("generated_at < ?", olderThan).Delete(&entities.RecommendationsCache{})
	return result.RowsAffected, result.Error
}
