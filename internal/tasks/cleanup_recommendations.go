package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/mikestefanello/backlite"
	"github.com/rs/zerolog"
)

// DefaultRecommendationsTTLMinutes is used when a task arrives without
// a TTL.
const DefaultRecommendationsTTLMinutes = 60

// StaleRecommendationsCleaner removes expired recommendations cache
// rows. The recommendations repository satisfies it.
type StaleRecommendationsCleaner interface {
	DeleteStale(olderThan time.Time) (int64, error)
}

// CleanupRecommendationsTask removes cache rows older than the
// configured TTL. Stale rows already read as misses; the sweep only
// keeps the table from growing unbounded.
type CleanupRecommendationsTask struct {
	TTLMinutes int `json:"ttl_minutes"`
}

// Config returns the queue configuration for recommendations cleanup
// tasks.
func (t CleanupRecommendationsTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "cleanup_recommendations",
		MaxAttempts: 3,
		Backoff:     5 * time.Minute,
		Timeout:     time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// CleanupRecommendationsProcessor creates a processor function for
// CleanupRecommendationsTask.
func CleanupRecommendationsProcessor(cleaner StaleRecommendationsCleaner, log zerolog.Logger) backlite.QueueProcessor[CleanupRecommendationsTask] {
	return func(ctx context.Context, task CleanupRecommendationsTask) error {
		if cleaner == nil {
			return fmt.Errorf("recommendations cleaner not configured")
		}

		ttlMinutes := task.TTLMinutes
		if ttlMinutes <= 0 {
			ttlMinutes = DefaultRecommendationsTTLMinutes
		}
		cutoff := time.Now().UTC().Add(-time.Duration(ttlMinutes) * time.Minute)

		deleted, err := cleaner.DeleteStale(cutoff)
		if err != nil {
			return fmt.Errorf("cleanup recommendations cache: %w", err)
		}

		log.Info().
			Int64("rows", deleted).
			Int("ttl_minutes", ttlMinutes).
			Msg("cleaned up stale recommendations")
		return nil
	}
}

// NewCleanupRecommendationsQueue creates a backlite queue for
// recommendations cleanup tasks.
func NewCleanupRecommendationsQueue(cleaner StaleRecommendationsCleaner, log zerolog.Logger) backlite.Queue {
	return backlite.NewQueue(CleanupRecommendationsProcessor(cleaner, log))
}
