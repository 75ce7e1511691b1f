package database

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/cantata-audio/cantata/internal/config"
	"github.com/cantata-audio/cantata/internal/entities"
)

// Supported drivers for config.Database.Driver.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type Database struct {
	DB *gorm.DB
}

// New opens a database connection, tunes the connection pool and
// verifies the server is reachable. Failures wrap ErrConnection.
func New(cfg config.Database) (*Database, error) {
	dialector, err := openDialector(cfg)
	if err != nil {
		return nil, err
	}

	logMode := logger.Silent
	if cfg.LogQueries {
		logMode = logger.Info
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logMode),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %v: %w", cfg.Driver, err, ErrConnection)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access connection pool: %v: %w", err, ErrConnection)
	}
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping %s database: %v: %w", cfg.Driver, err, ErrConnection)
	}

	return &Database{DB: db}, nil
}

func openDialector(cfg config.Database) (gorm.Dialector, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("database URL is empty: %w", ErrConnection)
	}

	switch cfg.Driver {
	case DriverSQLite, "":
		return sqlite.Open(cfg.URL), nil
	case DriverPostgres:
		return postgres.Open(cfg.URL), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q: %w", cfg.Driver, ErrConnection)
	}
}

// Migrate creates or updates the schema for every entity. It is
// idempotent and intended for development and test databases;
// production schemas are managed with versioned migrations.
func (d *Database) Migrate() error {
	err := d.DB.AutoMigrate(
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
	)
	if err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
