package database

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/cantata-audio/cantata/internal/entities"
)

func TestIsUniqueViolation(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	t.Run("detects sqlite unique violation", func(t *testing.T) {
		require.NoError(t, db.DB.Create(&entities.Artist{Name: "Herbie Hancock"}).Error)

		err := db.DB.Create(&entities.Artist{Name: "Herbie Hancock"}).Error
		require.Error(t, err)
		assert.True(t, IsUniqueViolation(err))
	})

	t.Run("detects wrapped unique violation", func(t *testing.T) {
		require.NoError(t, db.DB.Create(&entities.Artist{Name: "Wayne Shorter"}).Error)

		err := db.DB.Create(&entities.Artist{Name: "Wayne Shorter"}).Error
		require.Error(t, err)

		wrapped := fmt.Errorf("create artist: %w", err)
		assert.True(t, IsUniqueViolation(wrapped))
	})

	t.Run("ignores other errors", func(t *testing.T) {
		assert.False(t, IsUniqueViolation(nil))
		assert.False(t, IsUniqueViolation(gorm.ErrRecordNotFound))
		assert.False(t, IsUniqueViolation(errors.New("something else")))
	})
}

func TestSentinelErrors(t *testing.T) {
	t.Run("sentinels are distinct", func(t *testing.T) {
		sentinels := []error{ErrConnection, ErrNotFound, ErrConflict, ErrValidation}
		for i, a := range sentinels {
			for j, b := range sentinels {
				if i == j {
					continue
				}
				assert.False(t, errors.Is(a, b))
			}
		}
	})

	t.Run("wrapped sentinels classify with errors.Is", func(t *testing.T) {
		err := fmt.Errorf("track 42 not found: %w", ErrNotFound)
		assert.ErrorIs(t, err, ErrNotFound)
		assert.NotErrorIs(t, err, ErrConflict)
	})
}
