package recommendations

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/cantata-audio/cantata/internal/database"
	"github.com/cantata-audio/cantata/internal/entities"
)

func setupTestDB(t *testing.T) (*Repository, *gorm.DB, uint, func()) {
	dbPath := "./test_recommendations_" + t.Name() + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(&entities.User{}, &entities.RecommendationsCache{})
	require.NoError(t, err)

	user := &entities.User{Email: "listener@example.com", PasswordHash: "hash", IsActive: true}
	require.NoError(t, db.Create(user).Error)

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	}

	return NewRepository(db, 5), db, user.ID, cleanup
}

func TestRepository_PutAndGet(t *testing.T) {
	repo, _, userID, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := repo.Put(userID, []uint{3, 1, 4})
	require.NoError(t, err)

	entry, err := repo.Get(userID)
	require.NoError(t, err)
	ids, err := entry.TrackIDs()
	require.NoError(t, err)
	assert.Equal(t, []uint{3, 1, 4}, ids)
	assert.False(t, entry.GeneratedAt.IsZero())
}

func TestRepository_PutUpsertsSingleRow(t *testing.T) {
	repo, db, userID, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := repo.Put(userID, []uint{1, 2})
	require.NoError(t, err)

	_, err = repo.Put(userID, []uint{9, 8, 7})
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&entities.RecommendationsCache{}).
		Where("user_id = ?", userID).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	entry, err := repo.Get(userID)
	require.NoError(t, err)
	ids, err := entry.TrackIDs()
	require.NoError(t, err)
	assert.Equal(t, []uint{9, 8, 7}, ids)
}

func TestRepository_PutTruncatesToCap(t *testing.T) {
	repo, _, userID, cleanup := setupTestDB(t)
	defer cleanup()

	// Repository configured with a cap of 5.
	_, err := repo.Put(userID, []uint{1, 2, 3, 4, 5, 6, 7})
	require.NoError(t, err)

	entry, err := repo.Get(userID)
	require.NoError(t, err)
	ids, err := entry.TrackIDs()
	require.NoError(t, err)
	assert.Equal(t, []uint{1, 2, 3, 4, 5}, ids)
}

func TestRepository_PutUnknownUser(t *testing.T) {
	repo, _, _, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := repo.Put(99999, []uint{1})
	assert.ErrorIs(t, err, database.ErrNotFound)
}

func TestRepository_GetFresh(t *testing.T) {
	repo, db, userID, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := repo.Put(userID, []uint{1, 2})
	require.NoError(t, err)

	t.Run("fresh row is a hit", func(t *testing.T) {
		entry, err := repo.GetFresh(userID, time.Hour)
		require.NoError(t, err)
		assert.Equal(t, userID, entry.UserID)
	})

	t.Run("stale row is a miss", func(t *testing.T) {
		stale := time.Now().UTC().Add(-2 * time.Hour)
		require.NoError(t, db.Model(&entities.RecommendationsCache{}).
			Where("user_id = ?", userID).
			Update("generated_at", stale).Error)

		_, err := repo.GetFresh(userID, time.Hour)
		assert.ErrorIs(t, err, database.ErrNotFound)

		// Get without an age bound still sees it.
		_, err = repo.Get(userID)
		assert.NoError(t, err)
	})

	t.Run("missing row is a miss", func(t *testing.T) {
		_, err := repo.GetFresh(99999, time.Hour)
		assert.ErrorIs(t, err, database.ErrNotFound)
	})
}

func TestRepository_Invalidate(t *testing.T) {
	repo, _, userID, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := repo.Put(userID, []uint{1})
	require.NoError(t, err)

	require.NoError(t, repo.Invalidate(userID))

	_, err = repo.Get(userID)
	assert.ErrorIs(t, err, database.ErrNotFound)

	// Invalidating again is a no-op.
	assert.NoError(t, repo.Invalidate(userID))
}

func TestRepository_DeleteStale(t *testing.T) {
	repo, db, userID, cleanup := setupTestDB(t)
	defer cleanup()

	other := &entities.User{Email: "other@example.com", PasswordHash: "hash", IsActive: true}
	require.NoError(t, db.Create(other).Error)

	_, err := repo.Put(userID, []uint{1})
	require.NoError(t, err)
	_, err = repo.Put(other.ID, []uint{2})
	require.NoError(t, err)

	stale := time.Now().UTC().Add(-2 * time.Hour)
	require.NoError(t, db.Model(&entities.RecommendationsCache{}).
		Where("user_id = ?", userID).
		Update("generated_at", stale).Error)

	deleted, err := repo.DeleteStale(time.Now().UTC().Add(-time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	_, err = repo.Get(userID)
	assert.ErrorIs(t, err, database.ErrNotFound)
	_, err = repo.Get(other.ID)
	assert.NoError(t, err)
}
