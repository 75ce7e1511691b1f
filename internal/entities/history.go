package entities

import "time"

// PlaybackHistory records one playback event. A row with DurationSeconds
// of zero marks the start of playback; a later row for the same track
// records how many seconds were actually played.
type PlaybackHistory struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	UserID          uint      `gorm:"index;index:idx_playback_history_user_played;not null" json:"user_id"`
	TrackID         uint      `gorm:"index;not null" json:"track_id"`
	PlayedAt        time.Time `gorm:"index;index:idx_playback_history_user_played" json:"played_at"`
	DurationSeconds int       `gorm:"default:0" json:"duration_seconds"`

	User  User  `gorm:"foreignKey:UserID" json:"-"`
	Track Track `gorm:"foreignKey:TrackID" json:"track,omitempty"`
}

func (PlaybackHistory) TableName() string {
	return "playback_history"
}
