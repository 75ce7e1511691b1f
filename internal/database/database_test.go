package database

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cantata-audio/cantata/internal/config"
	"github.com/cantata-audio/cantata/internal/entities"
)

// setupTestDB creates a fresh migrated test database. Subtest names
// contain "/", which would point the database file into a directory
// that does not exist.
func setupTestDB(t *testing.T) (*Database, func()) {
	t.Helper()
	dbPath := "./test_" + strings.ReplaceAll(t.Name(), "/", "_") + ".db"

	db, err := New(config.Database{Driver: DriverSQLite, URL: dbPath})
	require.NoError(t, err)

	err = db.Migrate()
	require.NoError(t, err)

	cleanup := func() {
		db.Close()
		os.Remove(dbPath)
	}
	return db, cleanup
}

func TestDatabaseInitialization(t *testing.T) {
	t.Run("New creates database file", func(t *testing.T) {
		dbPath := "./init_test.db"
		defer os.Remove(dbPath)

		db, err := New(config.Database{Driver: DriverSQLite, URL: dbPath})
		require.NoError(t, err)
		defer db.Close()

		// File should exist
		_, err = os.Stat(dbPath)
		assert.NoError(t, err)
	})

	t.Run("New defaults to sqlite when driver is empty", func(t *testing.T) {
		dbPath := "./default_driver_test.db"
		defer os.Remove(dbPath)

		db, err := New(config.Database{URL: dbPath})
		require.NoError(t, err)
		defer db.Close()
	})

	t.Run("New fails with empty URL", func(t *testing.T) {
		_, err := New(config.Database{Driver: DriverSQLite})
		assert.ErrorIs(t, err, ErrConnection)
	})

	t.Run("New fails with unsupported driver", func(t *testing.T) {
		_, err := New(config.Database{Driver: "oracle", URL: "./never.db"})
		assert.ErrorIs(t, err, ErrConnection)
	})

	t.Run("Close closes database connection", func(t *testing.T) {
		dbPath := "./close_test.db"
		defer os.Remove(dbPath)

		db, err := New(config.Database{Driver: DriverSQLite, URL: dbPath})
		require.NoError(t, err)

		err = db.Close()
		assert.NoError(t, err)
	})
}

func TestMigrate(t *testing.T) {
	t.Run("Migrate creates all tables", func(t *testing.T) {
		db, cleanup := setupTestDB(t)
		defer cleanup()

		for _, model := range []interface{}{
			&entities.User{},
			&entities.Artist{},
			&entities.Album{},
			&entities.Track{},
			&entities.Playlist{},
			&entities.PlaylistTrack{},
			&entities.PlaybackHistory{},
			&entities.UserActivity{},
			&entities.AdminAuditLog{},
			&entities.RecommendationsCache{},
		} {
			assert.True(t, db.DB.Migrator().HasTable(model))
		}
	})

	t.Run("Migrate is idempotent", func(t *testing.T) {
		db, cleanup := setupTestDB(t)
		defer cleanup()

		err := db.Migrate()
		assert.NoError(t, err)

		var count int64
		err = db.DB.Model(&entities.Artist{}).Count(&count).Error
		require.NoError(t, err)
		assert.Zero(t, count)
	})

	t.Run("Migrated schema survives reopen", func(t *testing.T) {
		dbPath := "./reopen_test.db"
		defer os.Remove(dbPath)

		db1, err := New(config.Database{Driver: DriverSQLite, URL: dbPath})
		require.NoError(t, err)
		require.NoError(t, db1.Migrate())

		err = db1.DB.Create(&entities.Artist{Name: "Miles Davis"}).Error
		require.NoError(t, err)
		db1.Close()

		db2, err := New(config.Database{Driver: DriverSQLite, URL: dbPath})
		require.NoError(t, err)
		defer db2.Close()
		require.NoError(t, db2.Migrate())

		var artist entities.Artist
		err = db2.DB.Where("name = ?", "Miles Davis").First(&artist).Error
		require.NoError(t, err)
		assert.NotZero(t, artist.ID)
	})
}

func TestSchemaConstraints(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	t.Run("artist names are unique", func(t *testing.T) {
		require.NoError(t, db.DB.Create(&entities.Artist{Name: "Nina Simone"}).Error)

		err := db.DB.Create(&entities.Artist{Name: "Nina Simone"}).Error
		assert.True(t, IsUniqueViolation(err))
	})

	t.Run("album titles are unique per artist", func(t *testing.T) {
		artist := entities.Artist{Name: "John Coltrane"}
		require.NoError(t, db.DB.Create(&artist).Error)
		other := entities.Artist{Name: "Alice Coltrane"}
		require.NoError(t, db.DB.Create(&other).Error)

		require.NoError(t, db.DB.Create(&entities.Album{Title: "Blue Train", ArtistID: artist.ID}).Error)

		err := db.DB.Create(&entities.Album{Title: "Blue Train", ArtistID: artist.ID}).Error
		assert.True(t, IsUniqueViolation(err))

		// Same title under a different artist is fine
		err = db.DB.Create(&entities.Album{Title: "Blue Train", ArtistID: other.ID}).Error
		assert.NoError(t, err)
	})

	t.Run("playlist names are unique per owner", func(t *testing.T) {
		user := entities.User{Email: "schema@example.com", PasswordHash: "x"}
		require.NoError(t, db.DB.Create(&user).Error)

		require.NoError(t, db.DB.Create(&entities.Playlist{OwnerUserID: user.ID, Name: "Morning"}).Error)

		err := db.DB.Create(&entities.Playlist{OwnerUserID: user.ID, Name: "Morning"}).Error
		assert.True(t, IsUniqueViolation(err))
	})

	t.Run("playlist positions are unique per playlist", func(t *testing.T) {
		user := entities.User{Email: "positions@example.com", PasswordHash: "x"}
		require.NoError(t, db.DB.Create(&user).Error)
		artist := entities.Artist{Name: "Position Artist"}
		require.NoError(t, db.DB.Create(&artist).Error)
		trackA := entities.Track{Title: "A", ArtistID: artist.ID, DurationSeconds: 100}
		trackB := entities.Track{Title: "B", ArtistID: artist.ID, DurationSeconds: 100}
		require.NoError(t, db.DB.Create(&trackA).Error)
		require.NoError(t, db.DB.Create(&trackB).Error)
		playlist := entities.Playlist{OwnerUserID: user.ID, Name: "Unique Positions"}
		require.NoError(t, db.DB.Create(&playlist).Error)

		require.NoError(t, db.DB.Create(&entities.PlaylistTrack{PlaylistID: playlist.ID, TrackID: trackA.ID, Position: 0}).Error)

		// Same position, different track
		err := db.DB.Create(&entities.PlaylistTrack{PlaylistID: playlist.ID, TrackID: trackB.ID, Position: 0}).Error
		assert.True(t, IsUniqueViolation(err))

		// Same track, different position
		err = db.DB.Create(&entities.PlaylistTrack{PlaylistID: playlist.ID, TrackID: trackA.ID, Position: 1}).Error
		assert.True(t, IsUniqueViolation(err))
	})
}
