package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/mikestefanello/backlite"
	"github.com/rs/zerolog"
)

// DefaultActivityRetentionDays is used when a task arrives without a
// retention window.
const DefaultActivityRetentionDays = 90

// ActivityCleaner provides the retention sweeps over the append-only
// observability tables. The activity repository satisfies it.
type ActivityCleaner interface {
	DeleteOldUserActivity(olderThan time.Time) (int64, error)
	DeleteOldAdminActions(olderThan time.Time) (int64, error)
}

// CleanupActivityTask removes user activity and admin audit rows older
// than the configured retention window.
type CleanupActivityTask struct {
	RetentionDays int `json:"retention_days"`
}

// Config returns the queue configuration for activity cleanup tasks.
func (t CleanupActivityTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "cleanup_activity",
		MaxAttempts: 3,
		Backoff:     5 * time.Minute,
		Timeout:     2 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// CleanupActivityProcessor creates a processor function for
// CleanupActivityTask.
func CleanupActivityProcessor(cleaner ActivityCleaner, log zerolog.Logger) backlite.QueueProcessor[CleanupActivityTask] {
	return func(ctx context.Context, task CleanupActivityTask) error {
		if cleaner == nil {
			return fmt.Errorf("activity cleaner not configured")
		}

		retentionDays := task.RetentionDays
		if retentionDays <= 0 {
			retentionDays = DefaultActivityRetentionDays
		}
		cutoff := time.Now().UTC().AddDate(0, 0, -retentionDays)

		activityRows, err := cleaner.DeleteOldUserActivity(cutoff)
		if err != nil {
			return fmt.Errorf("cleanup user activity: %w", err)
		}

		auditRows, err := cleaner.DeleteOldAdminActions(cutoff)
		if err != nil {
			return fmt.Errorf("cleanup admin audit logs: %w", err)
		}

		log.Info().
			Int64("activity_rows", activityRows).
			Int64("audit_rows", auditRows).
			Int("retention_days", retentionDays).
			Msg("cleaned up old activity rows")
		return nil
	}
}

// NewCleanupActivityQueue creates a backlite queue for activity
// cleanup tasks.
func NewCleanupActivityQueue(cleaner ActivityCleaner, log zerolog.Logger) backlite.Queue {
	return backlite.NewQueue(CleanupActivityProcessor(cleaner, log))
}
