// Package activity provides the high-level observability recorder on
// top of the activity repository. Writes are fire-and-forget: a failed
// activity row is logged and dropped, never surfaced to the operation
// that triggered it.
package activity

import (
	"encoding/json"

	"github.com/rs/zerolog"

	dbactivity "github.com/cantata-audio/cantata/internal/database/activity"
	"github.com/cantata-audio/cantata/internal/entities"
)

// Service records user activity and admin audit events.
type Service struct {
	repo *dbactivity.Repository
	log  zerolog.Logger
}

// NewService creates a new activity service.
func NewService(repo *dbactivity.Repository, log zerolog.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// Record writes one user activity row synchronously.
func (s *Service) Record(userID uint, action entities.ActivityAction, details map[string]any) error {
	return s.repo.RecordUserActivity(userID, action, encodeDetails(details))
}

// RecordAsync writes one user activity row in the background. Failures
// are logged and dropped so the caller is never blocked or failed by
// observability writes.
func (s *Service) RecordAsync(userID uint, action entities.ActivityAction, details map[string]any) {
	payload := encodeDetails(details)
	go func() {
		if err := s.repo.RecordUserActivity(userID, action, payload); err != nil {
			s.log.Error().Err(err).
				Uint("user_id", userID).
				Str("action", string(action)).
				Msg("failed to record user activity")
		}
	}()
}

// RecordAdmin writes one admin audit row synchronously.
func (s *Service) RecordAdmin(adminUserID *uint, action entities.AdminAction, targetType, targetID string, details map[string]any) error {
	return s.repo.RecordAdminAction(adminUserID, action, targetType, targetID, encodeDetails(details))
}

// RecordAdminAsync writes one admin audit row in the background, with
// the same drop-on-failure policy as RecordAsync.
func (s *Service) RecordAdminAsync(adminUserID *uint, action entities.AdminAction, targetType, targetID string, details map[string]any) {
	payload := encodeDetails(details)
	go func() {
		if err := s.repo.RecordAdminAction(adminUserID, action, targetType, targetID, payload); err != nil {
			s.log.Error().Err(err).
				Str("action", string(action)).
				Str("target_type", targetType).
				Str("target_id", targetID).
				Msg("failed to record admin action")
		}
	}()
}

// encodeDetails marshals the details map, or returns an empty payload
// when there is nothing to record. A map that fails to marshal is
// dropped rather than failing the event itself.
func encodeDetails(details map[string]any) string {
	if len(details) == 0 {
		return ""
	}
	data, err := json.Marshal(details)
	if err != nil {
		return ""
	}
	return string(data)
}
