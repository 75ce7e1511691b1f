// Package users provides database operations for user accounts.
//
// # Usage
//
//	repo := users.NewRepository(db)
//	user, err := repo.GetByEmail("listener@example.com")
package users

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/cantata-audio/cantata/internal/database"
	"github.com/cantata-audio/cantata/internal/entities"
)

// DefaultListLimit caps List page sizes when the caller passes none.
const DefaultListLimit = 50

// ProfileUpdate carries the mutable profile fields. Nil fields are
// left untouched.
type ProfileUpdate struct {
	DisplayName          *string
	NotificationSettings *string
}

// Repository handles all user database operations. It stores password
// hashes opaquely; hashing and verification live in internal/auth.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new users repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new user. The email must be unused; the hash is
// stored as given.
func (r *Repository) Create(email, passwordHash, displayName string) (*entities.User, error) {
	if email == "" {
		return nil, fmt.Errorf("email is required: %w", database.ErrValidation)
	}
	if passwordHash == "" {
		return nil, fmt.Errorf("password hash is required: %w", database.ErrValidation)
	}

	user := &entities.User{
		Email:        email,
		PasswordHash: passwordHash,
		DisplayName:  displayName,
		IsActive:     true,
	}

	if err := r.db.Create(user).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return nil, fmt.Errorf("email %s already registered: %w", email, database.ErrConflict)
		}
		return nil, err
	}

	return user, nil
}

// GetByEmail retrieves a user by email, compared case-insensitively.
func (r *Repository) GetByEmail(email string) (*entities.User, error) {
	var user entities.User
	err := r.db.Where("LOWER(email) = LOWER(?)", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user %s not found: %w", email, database.ErrNotFound)
		}
		return nil, err
	}
	return &user, nil
}

// GetByID retrieves a user by ID.
func (r *Repository) GetByID(id uint) (*entities.User, error) {
	var user entities.User
	err := r.db.First(&user, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user %d not found: %w", id, database.ErrNotFound)
		}
		return nil, err
	}
	return &user, nil
}

// UpdateProfile applies the non-nil fields of update and returns the
// refreshed user.
func (r *Repository) UpdateProfile(id uint, update ProfileUpdate) (*entities.User, error) {
	values := map[string]interface{}{}
	if update.DisplayName != nil {
		values["display_name"] = *update.DisplayName
	}
	if update.NotificationSettings != nil {
		values["notification_settings"] = *update.NotificationSettings
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("no profile fields to update: %w", database.ErrValidation)
	}

	result := r.db.Model(&entities.User{}).Where("id = ?", id).Updates(values)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, fmt.Errorf("user %d not found: %w", id, database.ErrNotFound)
	}

	return r.GetByID(id)
}

// SetActive activates or deactivates an account. Deactivated accounts
// keep their rows; nothing is hard-deleted.
func (r *Repository) SetActive(id uint, active bool) error {
	result := r.db.Model(&entities.User{}).Where("id = ?", id).Update("is_active", active)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("user %d not found: %w", id, database.ErrNotFound)
	}
	return nil
}

// SetAdmin grants or revokes the administrator role.
func (r *Repository) SetAdmin(id uint, admin bool) error {
	result := r.db.Model(&entities.User{}).Where("id = ?", id).Update("is_admin", admin)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("user %d not found: %w", id, database.ErrNotFound)
	}
	return nil
}

// List returns a page of users ordered by ID together with the total
// count.
func (r *Repository) List(limit, offset int) ([]entities.User, int64, error) {
	var total int64
	if err := r.db.Model(&entities.User{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if limit <= 0 {
		limit = DefaultListLimit
	}

	var users []entities.User
	err := r.db.Order("id ASC").Limit(limit).Offset(offset).Find(&users).Error
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}
