// Package activity provides database operations for the append-only
// observability tables: user activity and admin audit logs.
package activity

import (
	"time"

	"gorm.io/gorm"

	"github.com/cantata-audio/cantata/internal/entities"
)

// DefaultListLimit caps listing page sizes when the caller passes none.
const DefaultListLimit = 50

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// RecordUserActivity appends one user activity row. detailsJSON may be
// empty; when set it must already be encoded JSON.
func (r *Repository) RecordUserActivity(userID uint, action entities.ActivityAction, detailsJSON string) error {
	row := &entities.UserActivity{
		UserID:    userID,
		Action:    action,
		Details:   detailsJSON,
		CreatedAt: time.Now().UTC(),
	}
	return r.db.Create(row).Error
}

// RecordAdminAction appends one admin audit row. adminUserID is nil for
// actions taken by the system itself.
func (r *Repository) RecordAdminAction(adminUserID *uint, action entities.AdminAction, targetType, targetID, detailsJSON string) error {
	row := &entities.AdminAuditLog{
		AdminUserID: adminUserID,
		Action:      action,
		TargetType:  targetType,
		TargetID:    targetID,
		Details:     detailsJSON,
		CreatedAt:   time.Now().UTC(),
	}
	return r.db.Create(row).Error
}

// ListUserActivity retrieves paginated activity rows for a user,
// newest first, together with the total count. A zero userID lists
// activity across all users.
func (r *Repository) ListUserActivity(userID uint, limit, offset int) ([]entities.UserActivity, int64, error) {
	var rows []entities.UserActivity
	var total int64

	query := r.db.Model(&entities.UserActivity{})
	if userID > 0 {
		query = query.Where("user_id = ?", userID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if limit <= 0 {
		limit = DefaultListLimit
	}
	if offset < 0 {
		offset = 0
	}

	err := query.Order("created_at DESC, id DESC").Limit(limit).Offset(offset).Find(&rows).Error
	return rows, total, err
}

// ListAdminActions retrieves paginated admin audit rows, newest first,
// together with the total count.
func (r *Repository) ListAdminActions(limit, offset int) ([]entities.AdminAuditLog, int64, error) {
	var rows []entities.AdminAuditLog
	var total int64

	if err := r.db.Model(&entities.AdminAuditLog{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if limit <= 0 {
		limit = DefaultListLimit
	}
	if offset < 0 {
		offset = 0
	}

	err := r.db.Order("created_at DESC, id DESC").Limit(limit).Offset(offset).Find(&rows).Error
	return rows, total, err
}

// DeleteOldUserActivity removes activity rows older than the given
// time. Returns the number of deleted rows.
func (r *Repository) DeleteOldUserActivity(olderThan time.Time) (int64, error) {
	result := r.db.Where("created_at < ?", olderThan).Delete(&entities.UserActivity{})
	return result.RowsAffected, result.Error
}

// DeleteOldAdminActions removes admin audit rows older than the given
// time. Returns the number of deleted rows.
func (r *Repository) DeleteOldAdminActions(olderThan time.Time) (int64, error) {
	result := r.db.Where("created_at < ?", olderThan).Delete(&entities.AdminAuditLog{})
	return result.RowsAffected, result.Error
}
