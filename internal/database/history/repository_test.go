package history

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/cantata-audio/cantata/internal/database"
	"github.com/cantata-audio/cantata/internal/entities"
)

func setupTestDB(t *testing.T) (*Repository, uint, uint, func()) {
	dbPath := "./test_history_" + t.Name() + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&entities.User{},
		&entities.Artist{},
		&entities.Album{},
		&entities.Track{},
		&entities.PlaybackHistory{},
	)
	require.NoError(t, err)

	user := &entities.User{Email: "listener@example.com", PasswordHash: "hash", IsActive: true}
	require.NoError(t, db.Create(user).Error)

	artist := &entities.Artist{Name: "History Artist"}
	require.NoError(t, db.Create(artist).Error)

	track := &entities.Track{Title: "History Track", ArtistID: artist.ID, DurationSeconds: 200}
	require.NoError(t, db.Create(track).Error)

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	}

	return NewRepository(db), user.ID, track.ID, cleanup
}

func TestRepository_Record(t *testing.T) {
	repo, userID, trackID, cleanup := setupTestDB(t)
	defer cleanup()

	start, err := repo.Record(userID, trackID, 0)
	require.NoError(t, err)
	assert.NotZero(t, start.ID)
	assert.Zero(t, start.DurationSeconds)
	assert.False(t, start.PlayedAt.IsZero())

	stop, err := repo.Record(userID, trackID, 147)
	require.NoError(t, err)
	assert.Equal(t, 147, stop.DurationSeconds)
}

func TestRepository_RecordRejectsBadInput(t *testing.T) {
	repo, userID, trackID, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := repo.Record(userID, trackID, -1)
	assert.ErrorIs(t, err, database.ErrValidation)

	_, err = repo.Record(99999, trackID, 0)
	assert.ErrorIs(t, err, database.ErrNotFound)

	_, err = repo.Record(userID, 99999, 0)
	assert.ErrorIs(t, err, database.ErrNotFound)
}

func TestRepository_ListByUser(t *testing.T) {
	repo, userID, trackID, cleanup := setupTestDB(t)
	defer cleanup()

	durations := []int{0, 30, 0, 210}
	for _, d := range durations {
		_, err := repo.Record(userID, trackID, d)
		require.NoError(t, err)
	}

	t.Run("newest first with track loaded", func(t *testing.T) {
		events, err := repo.ListByUser(userID, 0, 0)
		require.NoError(t, err)
		require.Len(t, events, 4)
		assert.Equal(t, 210, events[0].DurationSeconds)
		assert.Equal(t, "History Track", events[0].Track.Title)
	})

	t.Run("paginates", func(t *testing.T) {
		events, err := repo.ListByUser(userID, 2, 2)
		require.NoError(t, err)
		assert.Len(t, events, 2)
	})

	t.Run("unknown user lists nothing", func(t *testing.T) {
		events, err := repo.ListByUser(99999, 0, 0)
		require.NoError(t, err)
		assert.Empty(t, events)
	})
}

func TestRepository_CountByUser(t *testing.T) {
	repo, userID, trackID, cleanup := setupTestDB(t)
	defer cleanup()

	for i := 0; i < 3; i++ {
		_, err := repo.Record(userID, trackID, 0)
		require.NoError(t, err)
	}

	total, err := repo.CountByUser(userID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)

	total, err = repo.CountByUser(99999)
	require.NoError(t, err)
	assert.Zero(t, total)
}
