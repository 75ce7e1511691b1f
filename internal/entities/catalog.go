package entities

import "time"

type Artist struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"uniqueIndex;size:255" json:"name"`
	Bio       string    `gorm:"type:text" json:"bio,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Artist) TableName() string {
	return "artists"
}

type Album struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"index;uniqueIndex:uq_albums_title_artist;size:255" json:"title"`
	ArtistID    uint      `gorm:"uniqueIndex:uq_albums_title_artist;not null" json:"artist_id"`
	ReleaseYear int       `json:"release_year,omitempty"`
	CoverImage  string    `gorm:"size:1024" json:"cover_image,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Artist Artist `gorm:"foreignKey:ArtistID" json:"-"`
}

func (Album) TableName() string {
	return "albums"
}

type Track struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Title    string `gorm:"index;size:255" json:"title"`
	ArtistID uint   `gorm:"index;not null" json:"artist_id"`
	AlbumID  *uint  `gorm:"index" json:"album_id,omitempty"` // nullable: singles carry no album
	Genre    string `gorm:"index;size:100" json:"genre,omitempty"`

	DurationSeconds int    `gorm:"not null" json:"duration_seconds"` // must be positive
	AudioURL        string `gorm:"size:2048" json:"audio_url,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Artist Artist `gorm:"foreignKey:ArtistID" json:"artist,omitempty"`
	Album  *Album `gorm:"foreignKey:AlbumID" json:"album,omitempty"`
}

func (Track) TableName() string {
	return "tracks"
}
