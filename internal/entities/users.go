package entities

import "time"

type User struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	Email        string `gorm:"uniqueIndex;size:255" json:"email"` // credential key, compared case-insensitively
	PasswordHash string `gorm:"size:255" json:"-"`                 // opaque to this layer, hashing lives in internal/auth
	DisplayName  string `gorm:"size:255" json:"display_name,omitempty"`
	IsActive     bool   `gorm:"default:true" json:"is_active"` // accounts are deactivated, never hard-deleted
	IsAdmin      bool   `gorm:"default:false" json:"is_admin"`

	// NotificationSettings holds a JSON blob of per-user notification
	// preferences, opaque to the data layer.
	NotificationSettings string `gorm:"type:text" json:"notification_settings,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}
