package activity

import (
	"os"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	dbactivity "github.com/cantata-audio/cantata/internal/database/activity"
	"github.com/cantata-audio/cantata/internal/entities"
)

func setupService(t *testing.T) (*Service, *dbactivity.Repository, func()) {
	dbPath := "./test_activity_service_" + t.Name() + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(&entities.UserActivity{}, &entities.AdminAuditLog{})
	require.NoError(t, err)

	repo := dbactivity.NewRepository(db)
	svc := NewService(repo, zerolog.Nop())

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	}

	return svc, repo, cleanup
}

func TestService_Record(t *testing.T) {
	svc, repo, cleanup := setupService(t)
	defer cleanup()

	err := svc.Record(1, entities.ActionPlaylistCreate, map[string]any{"playlist_id": 4})
	require.NoError(t, err)

	rows, total, err := repo.ListUserActivity(1, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, entities.ActionPlaylistCreate, rows[0].Action)
	assert.JSONEq(t, `{"playlist_id":4}`, rows[0].Details)
}

func TestService_RecordWithoutDetails(t *testing.T) {
	svc, repo, cleanup := setupService(t)
	defer cleanup()

	err := svc.Record(1, entities.ActionLogin, nil)
	require.NoError(t, err)

	rows, _, err := repo.ListUserActivity(1, 0, 0)
	require.NoError(t, err)
	assert.Empty(t, rows[0].Details)
}

func TestService_RecordAsync(t *testing.T) {
	svc, repo, cleanup := setupService(t)
	defer cleanup()

	svc.RecordAsync(2, entities.ActionPlaybackStart, map[string]any{"track_id": 9})

	assert.Eventually(t, func() bool {
		_, total, err := repo.ListUserActivity(2, 0, 0)
		return err == nil && total == 1
	}, 2*time.Second, 10*time.Millisecond)
}

func TestService_RecordAdmin(t *testing.T) {
	svc, repo, cleanup := setupService(t)
	defer cleanup()

	adminID := uint(3)
	err := svc.RecordAdmin(&adminID, entities.AdminActionDeactivateUser, "user", "12", nil)
	require.NoError(t, err)

	rows, total, err := repo.ListAdminActions(0, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, entities.AdminActionDeactivateUser, rows[0].Action)
	assert.Equal(t, "user", rows[0].TargetType)
	assert.Equal(t, "12", rows[0].TargetID)
}

func TestService_RecordAdminAsync(t *testing.T) {
	svc, repo, cleanup := setupService(t)
	defer cleanup()

	svc.RecordAdminAsync(nil, entities.AdminActionListUsers, "", "", map[string]any{"page": 1})

	assert.Eventually(t, func() bool {
		_, total, err := repo.ListAdminActions(0, 0)
		return err == nil && total == 1
	}, 2*time.Second, 10*time.Millisecond)
}
