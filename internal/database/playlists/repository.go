// Package playlists provides database operations for playlists and
// their ordered track memberships.
//
// Every mutating operation runs in a single transaction, so a failed
// call never leaves a playlist partially modified. Positions within a
// playlist are zero-based, unique and enforced by the schema.
//
// # Usage
//
//	repo := playlists.NewRepository(db)
//	playlist, err := repo.Create(ownerID, "Morning Mix", "", "", false)
//	entry, err := repo.AddTrack(playlist.ID, trackID, nil)
package playlists

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/cantata-audio/cantata/internal/database"
	"github.com/cantata-audio/cantata/internal/entities"
)

// Update carries the mutable playlist fields. Nil fields are left
// untouched.
type Update struct {
	Name        *string
	Description *string
	CoverImage  *string
	IsPublic    *bool
}

// Repository handles all playlist database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new playlists repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new playlist for an existing owner. Names are
// unique per owner.
func (r *Repository) Create(ownerID uint, name, description, coverImage string, isPublic bool) (*entities.Playlist, error) {
	if name == "" {
		return nil, fmt.Errorf("playlist name is required: %w", database.ErrValidation)
	}

	playlist := &entities.Playlist{
		OwnerUserID: ownerID,
		Name:        name,
		Description: description,
		CoverImage:  coverImage,
		IsPublic:    isPublic,
	}

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var owner entities.User
		if err := tx.First(&owner, ownerID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("user %d not found: %w", ownerID, database.ErrNotFound)
			}
			return err
		}

		if err := tx.Create(playlist).Error; err != nil {
			if database.IsUniqueViolation(err) {
				return fmt.Errorf("playlist %q already exists for user %d: %w", name, ownerID, database.ErrConflict)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return playlist, nil
}

// GetByID retrieves a playlist with its entries ordered by position.
func (r *Repository) GetByID(id uint) (*entities.Playlist, error) {
	var playlist entities.Playlist
	err := r.db.Preload("Tracks", func(db *gorm.DB) *gorm.DB {
		return db.Order("position ASC, id ASC")
	}).Preload("Tracks.Track").First(&playlist, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("playlist %d not found: %w", id, database.ErrNotFound)
		}
		return nil, err
	}
	return &playlist, nil
}

// GetOwnedByID retrieves a playlist only if ownerID owns it. A
// playlist owned by someone else reads as not found.
func (r *Repository) GetOwnedByID(id, ownerID uint) (*entities.Playlist, error) {
	var playlist entities.Playlist
	err := r.db.Preload("Tracks", func(db *gorm.DB) *gorm.DB {
		return db.Order("position ASC, id ASC")
	}).Preload("Tracks.Track").
		Where("id = ? AND owner_user_id = ?", id, ownerID).
		First(&playlist).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("playlist %d not found for user %d: %w", id, ownerID, database.ErrNotFound)
		}
		return nil, err
	}
	return &playlist, nil
}

// ListByOwner returns the owner's playlists, newest first. An owner
// without playlists simply lists nothing.
func (r *Repository) ListByOwner(ownerID uint) ([]entities.Playlist, error) {
	playlists := []entities.Playlist{}
	err := r.db.Where("owner_user_id = ?", ownerID).
		Order("created_at DESC, id DESC").
		Find(&playlists).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list playlists for user %d: %w", ownerID, err)
	}
	return playlists, nil
}

// Update applies the non-nil fields of update to an owned playlist and
// returns the refreshed playlist.
func (r *Repository) Update(id, ownerID uint, update Update) (*entities.Playlist, error) {
	values := map[string]interface{}{}
	if update.Name != nil {
		if *update.Name == "" {
			return nil, fmt.Errorf("playlist name is required: %w", database.ErrValidation)
		}
		values["name"] = *update.Name
	}
	if update.Description != nil {
		values["description"] = *update.Description
	}
	if update.CoverImage != nil {
		values["cover_image"] = *update.CoverImage
	}
	if update.IsPublic != nil {
		values["is_public"] = *update.IsPublic
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("no playlist fields to update: %w", database.ErrValidation)
	}

	result := r.db.Model(&entities.Playlist{}).
		Where("id = ? AND owner_user_id = ?", id, ownerID).
		Updates(values)
	if result.Error != nil {
		if database.IsUniqueViolation(result.Error) {
			return nil, fmt.Errorf("playlist name already in use by user %d: %w", ownerID, database.ErrConflict)
		}
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, fmt.Errorf("playlist %d not found for user %d: %w", id, ownerID, database.ErrNotFound)
	}

	return r.GetByID(id)
}

// Delete removes an owned playlist together with its memberships.
func (r *Repository) Delete(id, ownerID uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var playlist entities.Playlist
		err := tx.Where("id = ? AND owner_user_id = ?", id, ownerID).First(&playlist).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("playlist %d not found for user %d: %w", id, ownerID, database.ErrNotFound)
			}
			return err
		}

		// Memberships go first so foreign keys hold on engines that
		// enforce them.
		if err := tx.Where("playlist_id = ?", id).Delete(&entities.PlaylistTrack{}).Error; err != nil {
			return err
		}
		return tx.Delete(&entities.Playlist{}, id).Error
	})
}

// Tracks returns the playlist's entries ordered by position, each with
// its track loaded.
func (r *Repository) Tracks(playlistID uint) ([]entities.PlaylistTrack, error) {
	var playlist entities.Playlist
	if err := r.db.First(&playlist, playlistID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("playlist %d not found: %w", playlistID, database.ErrNotFound)
		}
		return nil, err
	}

	entries := []entities.PlaylistTrack{}
	err := r.db.Preload("Track").Preload("Track.Artist").
		Where("playlist_id = ?", playlistID).
		Order("position ASC, id ASC").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list tracks for playlist %d: %w", playlistID, err)
	}
	return entries, nil
}

// AddTrack inserts a track into a playlist. A nil position appends
// after the current highest position; an explicit position must be
// free. Duplicate tracks and occupied positions surface ErrConflict.
func (r *Repository) AddTrack(playlistID, trackID uint, position *int) (*entities.PlaylistTrack, error) {
	if position != nil && *position < 0 {
		return nil, fmt.Errorf("position must not be negative: %w", database.ErrValidation)
	}

	entry := &entities.PlaylistTrack{
		PlaylistID: playlistID,
		TrackID:    trackID,
		AddedAt:    time.Now().UTC(),
	}

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var playlist entities.Playlist
		if err := tx.First(&playlist, playlistID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("playlist %d not found: %w", playlistID, database.ErrNotFound)
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

		if position != nil {
			entry.Position = *position
		} else {
			var last int
			err := tx.Model(&entities.PlaylistTrack{}).
				Where("playlist_id = ?", playlistID).
				Select("COALESCE(MAX(position), -1)").
				Scan(&last).Error
			if err != nil {
				return err
			}
			entry.Position = last + 1
		}

		if err := tx.Create(entry).Error; err != nil {
			if database.IsUniqueViolation(err) {
				return fmt.Errorf("track %d already in playlist %d or position %d occupied: %w",
					trackID, playlistID, entry.Position, database.ErrConflict)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// RemoveTrack deletes a membership. Positions of the remaining entries
// are untouched; appends remain well-defined because they always go
// after the highest occupied position.
func (r *Repository) RemoveTrack(playlistID, trackID uint) error {
	result := r.db.Where("playlist_id = ? AND track_id = ?", playlistID, trackID).
		Delete(&entities.PlaylistTrack{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("track %d is not in playlist %d: %w", trackID, playlistID, database.ErrNotFound)
	}
	return nil
}

// Reorder rewrites the playlist's positions to match trackIDs, which
// must contain every current member exactly once. The entries end up
// at positions 0..n-1 with their AddedAt timestamps preserved.
func (r *Repository) Reorder(playlistID uint, trackIDs []uint) ([]entities.PlaylistTrack, error) {
	reordered := []entities.PlaylistTrack{}

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var playlist entities.Playlist
		if err := tx.First(&playlist, playlistID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("playlist %d not found: %w", playlistID, database.ErrNotFound)
			}
			return err
		}

		var current []entities.PlaylistTrack
		if err := tx.Where("playlist_id = ?", playlistID).Find(&current).Error; err != nil {
			return err
		}

		if len(trackIDs) != len(current) {
			return fmt.Errorf("reorder of playlist %d must list all %d tracks, got %d: %w",
				playlistID, len(current), len(trackIDs), database.ErrValidation)
		}

		byTrack := make(map[uint]entities.PlaylistTrack, len(current))
		for _, entry := range current {
			byTrack[entry.TrackID] = entry
		}

		seen := make(map[uint]bool, len(trackIDs))
		for _, trackID := range trackIDs {
			if seen[trackID] {
				return fmt.Errorf("track %d listed twice in reorder: %w", trackID, database.ErrValidation)
			}
			seen[trackID] = true
			if _, ok := byTrack[trackID]; !ok {
				return fmt.Errorf("track %d is not in playlist %d: %w", trackID, playlistID, database.ErrValidation)
			}
		}

		// Replace wholesale so the unique position index never sees an
		// intermediate collision.
		if err := tx.Where("playlist_id = ?", playlistID).Delete(&entities.PlaylistTrack{}).Error; err != nil {
			return err
		}

		for i, trackID := range trackIDs {
			entry := byTrack[trackID]
			entry.ID = 0
			entry.Position = i
			if err := tx.Create(&entry).Error; err != nil {
				return err
			}
			reordered = append(reordered, entry)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return reordered, nil
}
