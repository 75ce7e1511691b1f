// Package history provides database operations for playback history.
// Rows are append-only: a start event carries a zero duration, a stop
// event the seconds actually played. Nothing here is ever updated.
package history

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/cantata-audio/cantata/internal/database"
	"github.com/cantata-audio/cantata/internal/entities"
)

// DefaultListLimit caps ListByUser page sizes when the caller passes
// none.
const DefaultListLimit = 50

// Repository handles playback history database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new history repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Record appends one playback event. durationSeconds is 0 for a start
// event and the played seconds for a stop event.
func (r *Repository) Record(userID, trackID uint, durationSeconds int) (*entities.PlaybackHistory, error) {
	if durationSeconds < 0 {
		return nil, fmt.Errorf("duration must not be negative: %w", database.ErrValidation)
	}

	event := &entities.PlaybackHistory{
		UserID:          userID,
		TrackID:         trackID,
		PlayedAt:        time.Now().UTC(),
		DurationSeconds: durationSeconds,
	}

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var user entities.User
		if err := tx.First(&user, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("user %d not found: %w", userID, database.ErrNotFound)
			}
			return err
		}

		var track entities.Track
		if err := tx.First(&track, trackID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("track %d not found: %w", trackID, database.ErrNotFound)
			}
			return err
		}

		return tx.Create(event).Error
	})
	if err != nil {
		return nil, err
	}
	return event, nil
}

// ListByUser returns the user's playback events, newest first, each
// with its track loaded.
func (r *Repository) ListByUser(userID uint, limit, offset int) ([]entities.PlaybackHistory, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if offset < 0 {
		offset = 0
	}

	events := []entities.PlaybackHistory{}
	err := r.db.Preload("Track").
		Where("user_id = ?", userID).
		Order("played_at DESC, id DESC").
		Limit(limit).Offset(offset).
		Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list playback history for user %d: %w", userID, err)
	}
	return events, nil
}

// CountByUser returns how many playback events the user has.
func (r *Repository) CountByUser(userID uint) (int64, error) {
	var total int64
	err := r.db.Model(&entities.PlaybackHistory{}).
		Where("user_id = ?", userID).
		Count(&total).Error
	return total, err
}
