package entities

import (
	"encoding/json"
	"fmt"
	"time"
)

// RecommendationsCache stores the most recently generated track
// recommendations for a user, one row per user. The payload is opaque
// JSON produced by the recommendation engine.
type RecommendationsCache struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	UserID uint `gorm:"uniqueIndex;not null" json:"user_id"`

	Recommendations string    `gorm:"type:text" json:"recommendations"`
	GeneratedAt     time.Time `gorm:"index" json:"generated_at"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (RecommendationsCache) TableName() string {
	return "recommendations_cache"
}

type recommendationsPayload struct {
	TrackIDs []uint `json:"track_ids"`
}

// TrackIDs decodes the cached payload. An empty payload decodes to an
// empty slice, not an error.
func (r *RecommendationsCache) TrackIDs() ([]uint, error) {
	if r.Recommendations == "" {
		return []uint{}, nil
	}
	var payload recommendationsPayload
	if err := json.Unmarshal([]byte(r.Recommendations), &payload); err != nil {
		return nil, fmt.Errorf("failed to decode recommendations payload: %w", err)
	}
	if payload.TrackIDs == nil {
		return []uint{}, nil
	}
	return payload.TrackIDs, nil
}

// SetTrackIDs encodes the given track IDs into the cached payload.
func (r *RecommendationsCache) SetTrackIDs(ids []uint) error {
	if ids == nil {
		ids = []uint{}
	}
	data, err := json.Marshal(recommendationsPayload{TrackIDs: ids})
	if err != nil {
		return fmt.Errorf("failed to encode recommendations payload: %w", err)
	}
	r.Recommendations = string(data)
	return nil
}
