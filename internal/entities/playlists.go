package entities

import "time"

type Playlist struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	OwnerUserID uint      `gorm:"index;uniqueIndex:uq_playlists_owner_name;not null" json:"owner_user_id"`
	Name        string    `gorm:"uniqueIndex:uq_playlists_owner_name;size:255" json:"name"`
	Description string    `gorm:"type:text" json:"description,omitempty"`
	CoverImage  string    `gorm:"size:1024" json:"cover_image,omitempty"`
	IsPublic    bool      `gorm:"index;default:false" json:"is_public"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Owner  User            `gorm:"foreignKey:OwnerUserID" json:"-"`
	Tracks []PlaylistTrack `gorm:"foreignKey:PlaylistID" json:"tracks,omitempty"`
}

func (Playlist) TableName() string {
	return "playlists"
}

// PlaylistTrack is a playlist membership row. Each track appears at most
// once per playlist and each position is held by at most one track.
type PlaylistTrack struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	PlaylistID uint      `gorm:"uniqueIndex:uq_playlist_tracks_track;uniqueIndex:uq_playlist_tracks_position;not null" json:"playlist_id"`
	TrackID    uint      `gorm:"index;uniqueIndex:uq_playlist_tracks_track;not null" json:"track_id"`
	Position   int       `gorm:"uniqueIndex:uq_playlist_tracks_position;not null" json:"position"` // zero-based
	AddedAt    time.Time `json:"added_at"`

	Playlist Playlist `gorm:"foreignKey:PlaylistID" json:"-"`
	Track    Track    `gorm:"foreignKey:TrackID" json:"track,omitempty"`
}

func (PlaylistTrack) TableName() string {
	return "playlist_tracks"
}
