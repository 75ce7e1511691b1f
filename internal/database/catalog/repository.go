// Package catalog provides database operations for artists, albums and
// tracks, including the text search behind the catalog endpoints.
//
// # Usage
//
//	repo := catalog.NewRepository(db)
//	result, err := repo.Search(catalog.SearchParams{Query: "blue"})
package catalog

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/cantata-audio/cantata/internal/database"
	"github.com/cantata-audio/cantata/internal/entities"
)

// DefaultSearchLimit caps results per entity type when the caller
// passes no limit.
const DefaultSearchLimit = 25

// SearchParams narrows a catalog search. Query matches partially and
// case-insensitively; Genre, Artist and Album match exactly, ignoring
// case. Limit and Offset apply per entity type.
type SearchParams struct {
	Query  string
	Genre  string
	Artist string
	Album  string
	Limit  int
	Offset int
}

// SearchResult groups matches by entity type. Slices are empty, never
// nil, when nothing matched.
type SearchResult struct {
	Artists []entities.Artist `json:"artists"`
	Albums  []entities.Album  `json:"albums"`
	Tracks  []entities.Track  `json:"tracks"`
}

// Repository handles all catalog database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new catalog repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Search runs the query and filters against artists, albums and tracks
// independently. Ties are broken by insertion order so repeated
// searches page deterministically.
func (r *Repository) Search(params SearchParams) (*SearchResult, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	var pattern string
	if params.Query != "" {
		pattern = "%" + strings.ToLower(params.Query) + "%"
	}

	result := &SearchResult{
		Artists: []entities.Artist{},
		Albums:  []entities.Album{},
		Tracks:  []entities.Track{},
	}

	artists := r.db.Order("id ASC").Limit(limit).Offset(params.Offset)
	if pattern != "" {
		artists = artists.Where("LOWER(name) LIKE ?", pattern)
	}
	if params.Artist != "" {
		artists = artists.Where("LOWER(name) = LOWER(?)", params.Artist)
	}
	if err := artists.Find(&result.Artists).Error; err != nil {
		return nil, fmt.Errorf("failed to search artists: %w", err)
	}

	albums := r.db.Order("id ASC").Limit(limit).Offset(params.Offset)
	if pattern != "" {
		albums = albums.Where("LOWER(title) LIKE ?", pattern)
	}
	if params.Album != "" {
		albums = albums.Where("LOWER(title) = LOWER(?)", params.Album)
	}
	if err := albums.Find(&result.Albums).Error; err != nil {
		return nil, fmt.Errorf("failed to search albums: %w", err)
	}

	tracks := r.db.Order("id ASC").Limit(limit).Offset(params.Offset)
	if pattern != "" {
		tracks = tracks.Where("LOWER(title) LIKE ?", pattern)
	}
	if params.Genre != "" {
		tracks = tracks.Where("LOWER(genre) = LOWER(?)", params.Genre)
	}
	if params.Artist != "" {
		tracks = tracks.Where("artist_id IN (?)",
			r.db.Model(&entities.Artist{}).Select("id").Where("LOWER(name) = LOWER(?)", params.Artist))
	}
	if params.Album != "" {
		tracks = tracks.Where("album_id IN (?)",
			r.db.Model(&entities.Album{}).Select("id").Where("LOWER(title) = LOWER(?)", params.Album))
	}
	if err := tracks.Find(&result.Tracks).Error; err != nil {
		return nil, fmt.Errorf("failed to search tracks: %w", err)
	}

	return result, nil
}

// GetArtist retrieves an artist by ID.
func (r *Repository) GetArtist(id uint) (*entities.Artist, error) {
	var artist entities.Artist
	err := r.db.First(&artist, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("artist %d not found: %w", id, database.ErrNotFound)
		}
		return nil, err
	}
	return &artist, nil
}

// GetAlbum retrieves an album with its artist.
func (r *Repository) GetAlbum(id uint) (*entities.Album, error) {
	var album entities.Album
	err := r.db.Preload("Artist").First(&album, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("album %d not found: %w", id, database.ErrNotFound)
		}
		return nil, err
	}
	return &album, nil
}

// GetTrack retrieves a track with its artist and album.
func (r *Repository) GetTrack(id uint) (*entities.Track, error) {
	var track entities.Track
	err := r.db.Preload("Artist").Preload("Album").First(&track, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("track %d not found: %w", id, database.ErrNotFound)
		}
		return nil, err
	}
	return &track, nil
}

// ListAlbumsByArtist returns the artist's albums in insertion order.
// An artist without albums yields an empty slice; an unknown artist
// yields ErrNotFound.
func (r *Repository) ListAlbumsByArtist(artistID uint) ([]entities.Album, error) {
	var artist entities.Artist
	if err := r.db.First(&artist, artistID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("artist %d not found: %w", artistID, database.ErrNotFound)
		}
		return nil, err
	}

	albums := []entities.Album{}
	err := r.db.Where("artist_id = ?", artistID).Order("id ASC").Find(&albums).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list albums for artist %d: %w", artistID, err)
	}
	return albums, nil
}

// ListTracksByAlbum returns the album's tracks in insertion order.
func (r *Repository) ListTracksByAlbum(albumID uint) ([]entities.Track, error) {
	var album entities.Album
	if err := r.db.First(&album, albumID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("album %d not found: %w", albumID, database.ErrNotFound)
		}
		return nil, err
	}

	tracks := []entities.Track{}
	err := r.db.Where("album_id = ?", albumID).Order("id ASC").Find(&tracks).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list tracks for album %d: %w", albumID, err)
	}
	return tracks, nil
}

// GetTracksByIDs fetches tracks preserving the order of ids. Unknown
// IDs are skipped rather than failing the whole batch.
func (r *Repository) GetTracksByIDs(ids []uint) ([]entities.Track, error) {
	if len(ids) == 0 {
		return []entities.Track{}, nil
	}

	var found []entities.Track
	err := r.db.Preload("Artist").Preload("Album").Where("id IN ?", ids).Find(&found).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch tracks: %w", err)
	}

	byID := make(map[uint]entities.Track, len(found))
	for _, track := range found {
		byID[track.ID] = track
	}

	tracks := make([]entities.Track, 0, len(found))
	for _, id := range ids {
		if track, ok := byID[id]; ok {
			tracks = append(tracks, track)
		}
	}
	return tracks, nil
}

// CreateArtist inserts a new artist. Names are unique across the
// catalog.
func (r *Repository) CreateArtist(artist *entities.Artist) error {
	if artist.Name == "" {
		return fmt.Errorf("artist name is required: %w", database.ErrValidation)
	}

	if err := r.db.Create(artist).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return fmt.Errorf("artist %q already exists: %w", artist.Name, database.ErrConflict)
		}
		return err
	}
	return nil
}

// CreateAlbum inserts a new album under an existing artist. Titles are
// unique per artist.
func (r *Repository) CreateAlbum(album *entities.Album) error {
	if album.Title == "" {
		return fmt.Errorf("album title is required: %w", database.ErrValidation)
	}
	if album.ArtistID == 0 {
		return fmt.Errorf("album artist is required: %w", database.ErrValidation)
	}

	return r.db.Transaction(func(tx *gorm.DB) error {
		var artist entities.Artist
		if err := tx.First(&artist, album.ArtistID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("artist %d not found: %w", album.ArtistID, database.ErrNotFound)
			}
			return err
		}

		if err := tx.Create(album).Error; err != nil {
			if database.IsUniqueViolation(err) {
				return fmt.Errorf("album %q already exists for artist %d: %w",
					album.Title, album.ArtistID, database.ErrConflict)
			}
			return err
		}
		return nil
	})
}

// CreateTrack inserts a new track. The artist must exist, the album
// (when set) must exist, and the duration must be positive.
func (r *Repository) CreateTrack(track *entities.Track) error {
	if track.Title == "" {
		return fmt.Errorf("track title is required: %w", database.ErrValidation)
	}
	if track.ArtistID == 0 {
		return fmt.Errorf("track artist is required: %w", database.ErrValidation)
	}
	if track.DurationSeconds <= 0 {
		return fmt.Errorf("track duration must be positive: %w", database.ErrValidation)
	}

	return r.db.Transaction(func(tx *gorm.DB) error {
		var artist entities.Artist
		if err := tx.First(&artist, track.ArtistID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("artist %d not found: %w", track.ArtistID, database.ErrNotFound)
			}
			return err
		}

		if track.AlbumID != nil {
			var album entities.Album
			if err := tx.First(&album, *track.AlbumID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("album %d not found: %w", *track.AlbumID, database.ErrNotFound)
				}
				return err
			}
		}

		return tx.Create(track).Error
	})
}
