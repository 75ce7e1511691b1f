// Package scheduler periodically enqueues the maintenance tasks that
// keep the append-only tables and the recommendations cache bounded.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/mikestefanello/backlite"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/cantata-audio/cantata/internal/config"
	"github.com/cantata-audio/cantata/internal/tasks"
)

// scheduleParser accepts standard 5-field cron expressions.
var scheduleParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// ValidateSchedule checks a 5-field cron expression.
func ValidateSchedule(schedule string) error {
	_, err := scheduleParser.Parse(schedule)
	return err
}

// Enqueuer adds tasks to the queue. The tasks client satisfies it.
type Enqueuer interface {
	Add(tasks ...backlite.Task) *backlite.TaskAddOp
}

// Maintenance runs the cron loop that enqueues cleanup tasks on the
// configured schedule. The tasks themselves execute on the queue
// workers, so a slow sweep never delays the next tick.
type Maintenance struct {
	queue         Enqueuer
	schedule      string
	retentionDays int
	ttl           time.Duration
	log           zerolog.Logger

	cron       *cron.Cron
	entryID    cron.EntryID
	mu         sync.RWMutex
	isRunning  bool
	cancelFunc context.CancelFunc
}

// NewMaintenance creates a maintenance scheduler from the activity and
// recommendations config groups.
func NewMaintenance(queue Enqueuer, cfg config.Maintenance, activityCfg config.Activity, recsCfg config.Recommendations, log zerolog.Logger) *Maintenance {
	return &Maintenance{
		queue:         queue,
		schedule:      cfg.Schedule,
		retentionDays: activityCfg.RetentionDays,
		ttl:           recsCfg.TTL,
		log:           log,
		cron:          cron.New(cron.WithParser(scheduleParser)),
	}
}

// Start validates the schedule and begins the cron loop. Starting an
// already running scheduler is a no-op.
func (m *Maintenance) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.isRunning {
		return nil
	}

	if err := ValidateSchedule(m.schedule); err != nil {
		return fmt.Errorf("invalid maintenance schedule %q: %w", m.schedule, err)
	}

	entryID, err := m.cron.AddFunc(m.schedule, m.enqueueCleanups)
	if err != nil {
		return fmt.Errorf("failed to schedule maintenance job: %w", err)
	}
	m.entryID = entryID

	var cancelCtx context.Context
	cancelCtx, m.cancelFunc = context.WithCancel(ctx)

	m.cron.Start()
	m.isRunning = true

	m.log.Info().
		Str("schedule", m.schedule).
		Int("retention_days", m.retentionDays).
		Dur("recommendations_ttl", m.ttl).
		Msg("maintenance scheduler started")

	go func() {
		<-cancelCtx.Done()
		m.Stop()
	}()

	return nil
}

// Stop halts the cron loop and waits for any in-flight enqueue to
// finish.
func (m *Maintenance) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.isRunning {
		return
	}

	ctx := m.cron.Stop()
	<-ctx.Done()

	// Release the context watcher; it re-enters Stop, which is then a
	// no-op.
	if m.cancelFunc != nil {
		m.cancelFunc()
	}

	m.isRunning = false
	m.cancelFunc = nil

	m.log.Info().Msg("maintenance scheduler stopped")
}

// RunNow enqueues the cleanup tasks immediately, outside the schedule.
func (m *Maintenance) RunNow() {
	m.enqueueCleanups()
}

// IsRunning reports whether the scheduler is active.
func (m *Maintenance) IsRunning() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.isRunning
}

// NextRun returns when the next maintenance tick fires, or nil when
// the scheduler is stopped.
func (m *Maintenance) NextRun() *time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if !m.isRunning {
		return nil
	}

	for _, entry := range m.cron.Entries() {
		if entry.ID == m.entryID {
			t := entry.Next
			return &t
		}
	}
	return nil
}

func (m *Maintenance) enqueueCleanups() {
	_, err := m.queue.Add(
		tasks.CleanupActivityTask{RetentionDays: m.retentionDays},
	).Save()
	if err != nil {
		m.log.Error().Err(err).Msg("failed to enqueue activity cleanup")
	}

	_, err = m.queue.Add(
		tasks.CleanupRecommendationsTask{TTLMinutes: int(m.ttl.Minutes())},
	).Save()
	if err != nil {
		m.log.Error().Err(err).Msg("failed to enqueue recommendations cleanup")
	}
}
