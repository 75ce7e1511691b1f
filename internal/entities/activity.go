package entities

import "time"

// ActivityAction identifies what a user did.
type ActivityAction string

const (
	ActionRegister       ActivityAction = "register"
	ActionLogin          ActivityAction = "login"
	ActionPlaybackStart  ActivityAction = "playback_start"
	ActionPlaybackStop   ActivityAction = "playback_stop"
	ActionPlaylistCreate ActivityAction = "playlist_create"
	ActionPlaylistDelete ActivityAction = "playlist_delete"
	ActionProfileUpdate  ActivityAction = "profile_update"
)

// AdminAction identifies an administrative operation recorded for audit.
type AdminAction string

const (
	AdminActionListUsers      AdminAction = "list_users"
	AdminActionCreateTrack    AdminAction = "create_track"
	AdminActionDeactivateUser AdminAction = "deactivate_user"
)

type UserActivity struct {
	ID     uint           `gorm:"primaryKey" json:"id"`
	UserID uint           `gorm:"index;index:idx_user_activity_user_action;not null" json:"user_id"`
	Action ActivityAction `gorm:"index:idx_user_activity_user_action;size:100" json:"action"`

	// Details holds a JSON blob with action-specific context.
	Details string `gorm:"type:text" json:"details,omitempty"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

func (UserActivity) TableName() string {
	return "user_activity"
}

// AdminAuditLog records an administrative action. AdminUserID is nullable
// so audit rows outlive the deletion of the admin account that made them.
type AdminAuditLog struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	AdminUserID *uint       `gorm:"index" json:"admin_user_id,omitempty"`
	Action      AdminAction `gorm:"index;size:150" json:"action"`
	TargetType  string      `gorm:"size:100" json:"target_type,omitempty"`
	TargetID    string      `gorm:"size:100" json:"target_id,omitempty"`
	Details     string      `gorm:"type:text" json:"details,omitempty"`
	CreatedAt   time.Time   `gorm:"index" json:"created_at"`
}

func (AdminAuditLog) TableName() string {
	return "admin_audit_logs"
}
